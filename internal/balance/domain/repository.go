package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *Entry) error
	ListByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]*Entry, error)
	SumForCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) (int64, error)
}
