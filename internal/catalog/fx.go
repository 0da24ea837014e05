package catalog

import (
	"github.com/movecrewlabs/movecrew/internal/catalog/repository"
	"github.com/movecrewlabs/movecrew/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
