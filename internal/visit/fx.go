package visit

import (
	"github.com/drivio/drivio/internal/visit/repository"
	"github.com/drivio/drivio/internal/visit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("visit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
