package template

import (
	"github.com/movecrewlabs/movecrew/internal/template/repository"
	"github.com/movecrewlabs/movecrew/internal/template/service"
	"go.uber.org/fx"
)

var Module = fx.Module("template",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
