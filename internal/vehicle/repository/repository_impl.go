package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/drivio/drivio/internal/vehicle/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, vehicle *domain.Vehicle) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO vehicles (id, owner_id, vin, brand, model, year, plate_number, mileage, last_service_at, last_service_mileage, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		vehicle.ID,
		vehicle.OwnerID,
		vehicle.VIN,
		vehicle.Brand,
		vehicle.Model,
		vehicle.Year,
		vehicle.PlateNumber,
		vehicle.Mileage,
		vehicle.LastServiceAt,
		vehicle.LastServiceMileage,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&vehicle).Error
	if err != nil {
		return nil, err
	}
	if vehicle.ID == 0 {
		return nil, nil
	}
	return &vehicle, nil
}

func (r *repo) ListByOwner(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]*domain.Vehicle, error) {
	var vehicles []*domain.Vehicle
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *repo) UpdateMileage(ctx context.Context, db *gorm.DB, id snowflake.ID, mileage int) error {
	return db.WithContext(ctx).Exec(
		`UPDATE vehicles SET mileage = ?, updated_at = ? WHERE id = ?`,
		mileage,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) StampService(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time, mileage *int) error {
	if mileage != nil {
		return db.WithContext(ctx).Exec(
			`UPDATE vehicles SET last_service_at = ?, last_service_mileage = ?, updated_at = ? WHERE id = ?`,
			at,
			*mileage,
			at,
			id,
		).Error
	}
	return db.WithContext(ctx).Exec(
		`UPDATE vehicles SET last_service_at = ?, updated_at = ? WHERE id = ?`,
		at,
		at,
		id,
	).Error
}
