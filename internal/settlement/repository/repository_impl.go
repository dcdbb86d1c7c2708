package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/drivio/drivio/internal/settlement/domain"
	"github.com/drivio/drivio/pkg/db/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, settlement *domain.Settlement) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO settlements (id, service_center_id, period_start, period_end, total_commission, total_cashback_used, net_amount, visit_count, is_paid, receipt_status, receipt_ref, receipt_meta, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID,
		settlement.ServiceCenterID,
		settlement.PeriodStart,
		settlement.PeriodEnd,
		settlement.TotalCommission,
		settlement.TotalCashbackUsed,
		settlement.NetAmount,
		settlement.VisitCount,
		settlement.IsPaid,
		settlement.ReceiptStatus,
		settlement.ReceiptRef,
		settlement.ReceiptMeta,
		settlement.CreatedAt,
		settlement.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Settlement, error) {
	var settlement domain.Settlement
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&settlement).Error
	if err != nil {
		return nil, err
	}
	if settlement.ID == 0 {
		return nil, nil
	}
	return &settlement, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Settlement, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Settlement{})
	if filter.CenterID != 0 {
		stmt = stmt.Where("service_center_id = ?", filter.CenterID)
	}
	if filter.UnpaidOnly {
		stmt = stmt.Where("is_paid = ?", false)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var settlements []*domain.Settlement
	err := page.Apply(stmt).
		Order("period_start desc, id desc").
		Find(&settlements).Error
	if err != nil {
		return nil, 0, err
	}
	return settlements, total, nil
}

func (r *repo) ListUnpaidNone(ctx context.Context, db *gorm.DB, centerID snowflake.ID) ([]*domain.Settlement, error) {
	var settlements []*domain.Settlement
	err := db.WithContext(ctx).
		Where("service_center_id = ? AND is_paid = ? AND receipt_status = ?",
			centerID, false, domain.ReceiptStatusNone).
		Order("period_start asc").
		Find(&settlements).Error
	if err != nil {
		return nil, err
	}
	return settlements, nil
}

func (r *repo) AttachReceipt(ctx context.Context, db *gorm.DB, id snowflake.ID, ref string, meta datatypes.JSONMap, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE settlements SET receipt_status = ?, receipt_ref = ?, receipt_meta = ?, updated_at = ? WHERE id = ?`,
		domain.ReceiptStatusPending, ref, meta, at, id,
	).Error
}

func (r *repo) SetReview(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.ReceiptStatus, isPaid bool, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE settlements SET receipt_status = ?, is_paid = ?, updated_at = ? WHERE id = ?`,
		status, isPaid, at, id,
	).Error
}

func (r *repo) RollupByCenter(ctx context.Context, db *gorm.DB, start, end time.Time) ([]domain.VisitRollup, error) {
	var rollups []domain.VisitRollup
	err := db.WithContext(ctx).Raw(
		`SELECT v.service_center_id,
		        COALESCE(SUM(v.service_fee), 0) AS total_commission,
		        COALESCE(SUM(v.cashback_used), 0) AS total_cashback_used,
		        COUNT(*) AS visit_count
		 FROM visits v
		 JOIN service_centers c ON c.id = v.service_center_id
		 WHERE c.is_active = ? AND v.created_at >= ? AND v.created_at <= ?
		 GROUP BY v.service_center_id
		 ORDER BY v.service_center_id`,
		true, start, end,
	).Scan(&rollups).Error
	if err != nil {
		return nil, err
	}
	return rollups, nil
}

func (r *repo) RollupForCenter(ctx context.Context, db *gorm.DB, centerID snowflake.ID, start, end time.Time) (domain.VisitRollup, error) {
	var rollup domain.VisitRollup
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(service_fee), 0) AS total_commission,
		        COALESCE(SUM(cashback_used), 0) AS total_cashback_used,
		        COUNT(*) AS visit_count
		 FROM visits
		 WHERE service_center_id = ? AND created_at >= ? AND created_at <= ?`,
		centerID, start, end,
	).Scan(&rollup).Error
	if err != nil {
		return domain.VisitRollup{}, err
	}
	rollup.ServiceCenterID = centerID
	return rollup, nil
}
