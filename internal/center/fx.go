package center

import (
	"github.com/drivio/drivio/internal/center/repository"
	"github.com/drivio/drivio/internal/center/service"
	"go.uber.org/fx"
)

var Module = fx.Module("center.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
