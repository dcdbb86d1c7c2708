package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/drivio/drivio/internal/customer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, phone, email, name, role, balance, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.Phone,
		customer.Email,
		customer.Name,
		customer.Role,
		customer.Balance,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) ApplyBalanceDelta(ctx context.Context, db *gorm.DB, id snowflake.ID, delta int64) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE customers
		 SET balance = balance + ?, updated_at = ?
		 WHERE id = ? AND balance + ? >= 0`,
		delta,
		time.Now().UTC(),
		id,
		delta,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInsufficientBalance
	}
	return nil
}

func (r *repo) RecalculateBalance(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	var sum int64
	err := db.WithContext(ctx).
		Table("balance_entries").
		Select("COALESCE(SUM(amount), 0)").
		Where("customer_id = ?", id).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}

	err = db.WithContext(ctx).Exec(
		`UPDATE customers SET balance = ?, updated_at = ? WHERE id = ?`,
		sum,
		time.Now().UTC(),
		id,
	).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}
