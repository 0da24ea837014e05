package estimate

import (
	"github.com/movecrewlabs/movecrew/internal/estimate/repository"
	"github.com/movecrewlabs/movecrew/internal/estimate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("estimate",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
