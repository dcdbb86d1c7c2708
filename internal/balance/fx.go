package balance

import (
	"github.com/drivio/drivio/internal/balance/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("balance.repository",
	fx.Provide(repository.Provide),
)
