package settlement

import (
	"github.com/drivio/drivio/internal/settlement/repository"
	"github.com/drivio/drivio/internal/settlement/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settlement.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
