package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/drivio/drivio/internal/center/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, center *domain.ServiceCenter) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO service_centers (id, name, type, description, city, phone, rating, is_active, commission_percent, discount_percent, manager_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		center.ID,
		center.Name,
		center.Type,
		center.Description,
		center.City,
		center.Phone,
		center.Rating,
		center.IsActive,
		center.CommissionPercent,
		center.DiscountPercent,
		center.ManagerID,
		center.CreatedAt,
		center.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.ServiceCenter, error) {
	var center domain.ServiceCenter
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&center).Error
	if err != nil {
		return nil, err
	}
	if center.ID == 0 {
		return nil, nil
	}
	return &center, nil
}

func (r *repo) FindByManager(ctx context.Context, db *gorm.DB, managerID snowflake.ID) (*domain.ServiceCenter, error) {
	var center domain.ServiceCenter
	err := db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Limit(1).
		Find(&center).Error
	if err != nil {
		return nil, err
	}
	if center.ID == 0 {
		return nil, nil
	}
	return &center, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB) ([]*domain.ServiceCenter, error) {
	var centers []*domain.ServiceCenter
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&centers).Error
	if err != nil {
		return nil, err
	}
	return centers, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, centerType string) ([]*domain.ServiceCenter, error) {
	var centers []*domain.ServiceCenter
	stmt := db.WithContext(ctx).Model(&domain.ServiceCenter{})
	if centerType != "" {
		stmt = stmt.Where("type = ?", centerType)
	}
	err := stmt.Order("name asc").Find(&centers).Error
	if err != nil {
		return nil, err
	}
	return centers, nil
}

func (r *repo) FindOverride(ctx context.Context, db *gorm.DB, centerID, serviceID snowflake.ID) (*domain.ServiceCenterService, error) {
	var override domain.ServiceCenterService
	err := db.WithContext(ctx).
		Where("service_center_id = ? AND service_id = ?", centerID, serviceID).
		Limit(1).
		Find(&override).Error
	if err != nil {
		return nil, err
	}
	if override.ID == 0 {
		return nil, nil
	}
	return &override, nil
}

func (r *repo) ListOverrides(ctx context.Context, db *gorm.DB, centerID snowflake.ID) ([]*domain.ServiceCenterService, error) {
	var overrides []*domain.ServiceCenterService
	err := db.WithContext(ctx).
		Where("service_center_id = ?", centerID).
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *repo) InsertOverride(ctx context.Context, db *gorm.DB, override *domain.ServiceCenterService) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO service_center_services (id, service_center_id, service_id, price, is_flex_price, commission_type, commission_value, cashback_type, cashback_value, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		override.ID,
		override.ServiceCenterID,
		override.ServiceID,
		override.Price,
		override.IsFlexPrice,
		override.CommissionType,
		override.CommissionValue,
		override.CashbackType,
		override.CashbackValue,
		override.CreatedAt,
	).Error
}

func (r *repo) UpdateOverride(ctx context.Context, db *gorm.DB, override *domain.ServiceCenterService) error {
	return db.WithContext(ctx).Exec(
		`UPDATE service_center_services
		 SET price = ?, is_flex_price = ?, commission_type = ?, commission_value = ?, cashback_type = ?, cashback_value = ?
		 WHERE id = ?`,
		override.Price,
		override.IsFlexPrice,
		override.CommissionType,
		override.CommissionValue,
		override.CashbackType,
		override.CashbackValue,
		override.ID,
	).Error
}

func (r *repo) DeleteOverride(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM service_center_services WHERE id = ?`, id).Error
}
