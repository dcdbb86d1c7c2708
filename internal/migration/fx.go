package migration

import (
	balancedomain "github.com/drivio/drivio/internal/balance/domain"
	catalogdomain "github.com/drivio/drivio/internal/catalog/domain"
	centerdomain "github.com/drivio/drivio/internal/center/domain"
	"github.com/drivio/drivio/internal/config"
	customerdomain "github.com/drivio/drivio/internal/customer/domain"
	"github.com/drivio/drivio/internal/seed"
	settlementdomain "github.com/drivio/drivio/internal/settlement/domain"
	vehicledomain "github.com/drivio/drivio/internal/vehicle/domain"
	visitdomain "github.com/drivio/drivio/internal/visit/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql are dev conveniences; the schema is
			// derived from the models there.
			if err := conn.AutoMigrate(
				&customerdomain.Customer{},
				&vehicledomain.Vehicle{},
				&catalogdomain.Service{},
				&centerdomain.ServiceCenter{},
				&centerdomain.ServiceCenterService{},
				&visitdomain.Visit{},
				&visitdomain.VisitService{},
				&balancedomain.Entry{},
				&settlementdomain.Settlement{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedCatalog {
			return seed.EnsureCatalog(conn)
		}
		return nil
	}),
)
