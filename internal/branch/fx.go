package branch

import (
	"github.com/movecrewlabs/movecrew/internal/branch/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("branch",
	fx.Provide(repository.NewRepository),
)
