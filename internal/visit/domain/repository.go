package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/drivio/drivio/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListVisitFilter struct {
	VehicleID snowflake.ID
	CenterID  snowflake.ID
	OwnerID   snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, visit *Visit) error
	InsertService(ctx context.Context, db *gorm.DB, line *VisitService) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Visit, error)
	ListServices(ctx context.Context, db *gorm.DB, visitID snowflake.ID) ([]*VisitService, error)
	List(ctx context.Context, db *gorm.DB, filter ListVisitFilter, page pagination.Pagination) ([]*Visit, int64, error)
}
