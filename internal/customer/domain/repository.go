package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	// ApplyBalanceDelta adjusts the cached balance in a single guarded
	// UPDATE. The row-level write lock serializes concurrent visits for
	// the same customer and the guard keeps the balance non-negative;
	// ErrInsufficientBalance is returned when the guard rejects.
	ApplyBalanceDelta(ctx context.Context, db *gorm.DB, id snowflake.ID, delta int64) error
	// RecalculateBalance rewrites the cache from the ledger sum.
	RecalculateBalance(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
