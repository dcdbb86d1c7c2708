package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/drivio/drivio/internal/visit/domain"
	"github.com/drivio/drivio/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, visit *domain.Visit) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO visits (id, vehicle_id, service_center_id, description, cost, mileage, cashback, cashback_used, service_fee, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		visit.ID,
		visit.VehicleID,
		visit.ServiceCenterID,
		visit.Description,
		visit.Cost,
		visit.Mileage,
		visit.Cashback,
		visit.CashbackUsed,
		visit.ServiceFee,
		visit.Status,
		visit.CreatedAt,
	).Error
}

func (r *repo) InsertService(ctx context.Context, db *gorm.DB, line *domain.VisitService) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO visit_services (id, visit_id, service_name, price, commission, cashback, details)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		line.ID,
		line.VisitID,
		line.ServiceName,
		line.Price,
		line.Commission,
		line.Cashback,
		line.Details,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Visit, error) {
	var visit domain.Visit
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&visit).Error
	if err != nil {
		return nil, err
	}
	if visit.ID == 0 {
		return nil, nil
	}
	return &visit, nil
}

func (r *repo) ListServices(ctx context.Context, db *gorm.DB, visitID snowflake.ID) ([]*domain.VisitService, error) {
	var lines []*domain.VisitService
	err := db.WithContext(ctx).
		Where("visit_id = ?", visitID).
		Order("id asc").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListVisitFilter, page pagination.Pagination) ([]*domain.Visit, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Visit{})
	if filter.VehicleID != 0 {
		stmt = stmt.Where("vehicle_id = ?", filter.VehicleID)
	}
	if filter.CenterID != 0 {
		stmt = stmt.Where("service_center_id = ?", filter.CenterID)
	}
	if filter.OwnerID != 0 {
		stmt = stmt.Where("vehicle_id IN (SELECT id FROM vehicles WHERE owner_id = ?)", filter.OwnerID)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var visits []*domain.Visit
	err := page.Apply(stmt).
		Order("created_at desc, id desc").
		Find(&visits).Error
	if err != nil {
		return nil, 0, err
	}
	return visits, total, nil
}
