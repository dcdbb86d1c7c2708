package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, vehicle *Vehicle) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Vehicle, error)
	ListByOwner(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]*Vehicle, error)
	UpdateMileage(ctx context.Context, db *gorm.DB, id snowflake.ID, mileage int) error
	StampService(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time, mileage *int) error
}
