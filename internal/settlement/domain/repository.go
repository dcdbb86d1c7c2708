package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/drivio/drivio/pkg/db/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VisitRollup is the summed commission activity of one center over a
// window.
type VisitRollup struct {
	ServiceCenterID   snowflake.ID `json:"service_center_id"`
	TotalCommission   int64        `json:"total_commission"`
	TotalCashbackUsed int64        `json:"total_cashback_used"`
	VisitCount        int          `json:"visit_count"`
}

type ListFilter struct {
	CenterID   snowflake.ID
	UnpaidOnly bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, settlement *Settlement) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Settlement, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Settlement, int64, error)
	ListUnpaidNone(ctx context.Context, db *gorm.DB, centerID snowflake.ID) ([]*Settlement, error)
	AttachReceipt(ctx context.Context, db *gorm.DB, id snowflake.ID, ref string, meta datatypes.JSONMap, at time.Time) error
	SetReview(ctx context.Context, db *gorm.DB, id snowflake.ID, status ReceiptStatus, isPaid bool, at time.Time) error

	RollupByCenter(ctx context.Context, db *gorm.DB, start, end time.Time) ([]VisitRollup, error)
	RollupForCenter(ctx context.Context, db *gorm.DB, centerID snowflake.ID, start, end time.Time) (VisitRollup, error)
}
