package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/drivio/drivio/internal/balance/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.Entry) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO balance_entries (id, customer_id, amount, type, description, visit_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.CustomerID,
		entry.Amount,
		entry.Type,
		entry.Description,
		entry.VisitID,
		entry.CreatedAt,
	).Error
}

func (r *repo) ListByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at desc, id desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) SumForCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) (int64, error) {
	var sum int64
	err := db.WithContext(ctx).
		Model(&domain.Entry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("customer_id = ?", customerID).
		Scan(&sum).Error
	return sum, err
}
