package customer

import (
	"github.com/movecrewlabs/movecrew/internal/customer/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("customer",
	fx.Provide(repository.NewRepository),
)
