package seed

import (
	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/drivio/drivio/internal/catalog/domain"
	"gorm.io/gorm"
)

type catalogEntry struct {
	name     string
	category string
}

// defaultCatalog is the minimum service list a fresh install needs so
// centers can be wired up without an admin round-trip.
var defaultCatalog = []catalogEntry{
	{name: "Oil change", category: "maintenance"},
	{name: "Diagnostics", category: "maintenance"},
	{name: "Tire service", category: "tires"},
	{name: "Wheel alignment", category: "tires"},
	{name: "Brake service", category: "repair"},
	{name: "Car wash", category: "wash"},
}

// EnsureCatalog inserts the default service catalog on an empty
// database. Catalog rules stay at the model defaults; administrators
// tune them afterwards.
func EnsureCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&catalogdomain.Service{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	node, err := snowflake.NewNode(0)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range defaultCatalog {
			svc := catalogdomain.Service{
				ID:       node.Generate(),
				Name:     entry.name,
				Category: entry.category,
			}
			if err := tx.Create(&svc).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
