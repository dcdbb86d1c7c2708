package catalog

import (
	"github.com/drivio/drivio/internal/catalog/repository"
	"github.com/drivio/drivio/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
