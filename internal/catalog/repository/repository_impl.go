package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/drivio/drivio/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, service *domain.Service) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO services (id, name, category, commission_type, commission_value, cashback_type, cashback_value, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		service.ID,
		service.Name,
		service.Category,
		service.CommissionType,
		service.CommissionValue,
		service.CashbackType,
		service.CashbackValue,
		service.CreatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, service *domain.Service) error {
	return db.WithContext(ctx).Exec(
		`UPDATE services
		 SET category = ?, commission_type = ?, commission_value = ?, cashback_type = ?, cashback_value = ?
		 WHERE id = ?`,
		service.Category,
		service.CommissionType,
		service.CommissionValue,
		service.CashbackType,
		service.CashbackValue,
		service.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Service, error) {
	var service domain.Service
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, category, commission_type, commission_value, cashback_type, cashback_value, created_at
		 FROM services WHERE id = ?`,
		id,
	).Scan(&service).Error
	if err != nil {
		return nil, err
	}
	if service.ID == 0 {
		return nil, nil
	}
	return &service, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, category string) ([]*domain.Service, error) {
	var services []*domain.Service
	stmt := db.WithContext(ctx).Model(&domain.Service{})
	if category != "" {
		stmt = stmt.Where("category = ?", category)
	}
	err := stmt.Order("name asc").Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *repo) CountOverrides(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("service_center_services").
		Where("service_id = ?", id).
		Count(&count).Error
	return count, err
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM services WHERE id = ?`, id).Error
}
