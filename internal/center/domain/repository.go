package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, center *ServiceCenter) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ServiceCenter, error)
	FindByManager(ctx context.Context, db *gorm.DB, managerID snowflake.ID) (*ServiceCenter, error)
	ListActive(ctx context.Context, db *gorm.DB) ([]*ServiceCenter, error)
	List(ctx context.Context, db *gorm.DB, centerType string) ([]*ServiceCenter, error)

	FindOverride(ctx context.Context, db *gorm.DB, centerID, serviceID snowflake.ID) (*ServiceCenterService, error)
	ListOverrides(ctx context.Context, db *gorm.DB, centerID snowflake.ID) ([]*ServiceCenterService, error)
	InsertOverride(ctx context.Context, db *gorm.DB, override *ServiceCenterService) error
	UpdateOverride(ctx context.Context, db *gorm.DB, override *ServiceCenterService) error
	DeleteOverride(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
