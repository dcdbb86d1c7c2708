package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/drivio/drivio/internal/catalog/domain"
	"github.com/drivio/drivio/internal/center/domain"
	"github.com/drivio/drivio/internal/clock"
	"github.com/drivio/drivio/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	CatalogRepo catalogdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	catalogRepo catalogdomain.Repository
}

func New(p Params) domain.CenterService {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("center.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		catalogRepo: p.CatalogRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCenterRequest) (domain.ServiceCenter, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ServiceCenter{}, domain.ErrInvalidName
	}

	centerType, err := normalizeCenterType(req.Type)
	if err != nil {
		return domain.ServiceCenter{}, err
	}

	city := strings.TrimSpace(req.City)
	if city == "" {
		return domain.ServiceCenter{}, domain.ErrInvalidCity
	}

	if req.CommissionPercent < 0 || req.CommissionPercent > 100 ||
		req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return domain.ServiceCenter{}, domain.ErrInvalidPercent
	}

	var managerID *snowflake.ID
	if strings.TrimSpace(req.ManagerID) != "" {
		id, err := s.parseID(req.ManagerID)
		if err != nil {
			return domain.ServiceCenter{}, err
		}
		managerID = &id
	}

	now := s.clock.Now()
	center := domain.ServiceCenter{
		ID:                s.genID.Generate(),
		Name:              name,
		Type:              centerType,
		Description:       strings.TrimSpace(req.Description),
		City:              city,
		Phone:             strings.TrimSpace(req.Phone),
		IsActive:          true,
		CommissionPercent: req.CommissionPercent,
		DiscountPercent:   req.DiscountPercent,
		ManagerID:         managerID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Insert(ctx, s.db, &center); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ServiceCenter{}, domain.ErrManagerTaken
		}
		return domain.ServiceCenter{}, err
	}

	return center, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCenterRequest) (domain.ServiceCenter, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.ServiceCenter{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.ServiceCenter{}, err
	}
	if item == nil {
		return domain.ServiceCenter{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCenterRequest) ([]domain.ServiceCenter, error) {
	items, err := s.repo.List(ctx, s.db, strings.ToUpper(strings.TrimSpace(req.Type)))
	if err != nil {
		return nil, err
	}

	centers := make([]domain.ServiceCenter, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		centers = append(centers, *item)
	}
	return centers, nil
}

func (s *Service) SetOverride(ctx context.Context, req domain.SetOverrideRequest) (domain.ServiceCenterService, error) {
	centerID, err := s.parseID(req.CenterID)
	if err != nil {
		return domain.ServiceCenterService{}, err
	}
	serviceID, err := s.parseID(req.ServiceID)
	if err != nil {
		return domain.ServiceCenterService{}, err
	}

	center, err := s.repo.FindByID(ctx, s.db, centerID)
	if err != nil {
		return domain.ServiceCenterService{}, err
	}
	if center == nil {
		return domain.ServiceCenterService{}, domain.ErrNotFound
	}

	catalogItem, err := s.catalogRepo.FindByID(ctx, s.db, serviceID)
	if err != nil {
		return domain.ServiceCenterService{}, err
	}
	if catalogItem == nil {
		return domain.ServiceCenterService{}, catalogdomain.ErrNotFound
	}

	if req.CommissionValue != nil && *req.CommissionValue < 0 {
		return domain.ServiceCenterService{}, catalogdomain.ErrInvalidRuleValue
	}
	if req.CashbackValue != nil && *req.CashbackValue < 0 {
		return domain.ServiceCenterService{}, catalogdomain.ErrInvalidRuleValue
	}

	existing, err := s.repo.FindOverride(ctx, s.db, centerID, serviceID)
	if err != nil {
		return domain.ServiceCenterService{}, err
	}

	if existing == nil {
		override := domain.ServiceCenterService{
			ID:              s.genID.Generate(),
			ServiceCenterID: centerID,
			ServiceID:       serviceID,
			Price:           req.Price,
			IsFlexPrice:     req.IsFlexPrice,
			CommissionType:  req.CommissionType,
			CommissionValue: req.CommissionValue,
			CashbackType:    req.CashbackType,
			CashbackValue:   req.CashbackValue,
			CreatedAt:       s.clock.Now(),
		}
		if err := s.repo.InsertOverride(ctx, s.db, &override); err != nil {
			return domain.ServiceCenterService{}, err
		}
		return override, nil
	}

	existing.Price = req.Price
	existing.IsFlexPrice = req.IsFlexPrice
	existing.CommissionType = req.CommissionType
	existing.CommissionValue = req.CommissionValue
	existing.CashbackType = req.CashbackType
	existing.CashbackValue = req.CashbackValue
	if err := s.repo.UpdateOverride(ctx, s.db, existing); err != nil {
		return domain.ServiceCenterService{}, err
	}
	return *existing, nil
}

func (s *Service) ListOverrides(ctx context.Context, rawCenterID string) ([]domain.ServiceCenterService, error) {
	centerID, err := s.parseID(rawCenterID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListOverrides(ctx, s.db, centerID)
	if err != nil {
		return nil, err
	}

	overrides := make([]domain.ServiceCenterService, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		overrides = append(overrides, *item)
	}
	return overrides, nil
}

func (s *Service) DeleteOverride(ctx context.Context, rawCenterID, rawServiceID string) error {
	centerID, err := s.parseID(rawCenterID)
	if err != nil {
		return err
	}
	serviceID, err := s.parseID(rawServiceID)
	if err != nil {
		return err
	}

	override, err := s.repo.FindOverride(ctx, s.db, centerID, serviceID)
	if err != nil {
		return err
	}
	if override == nil {
		return domain.ErrOverrideNotFound
	}

	return s.repo.DeleteOverride(ctx, s.db, override.ID)
}

func (s *Service) Finances(ctx context.Context, rawManagerID string) (domain.FinancesResponse, error) {
	managerID, err := s.parseID(rawManagerID)
	if err != nil {
		return domain.FinancesResponse{}, err
	}

	center, err := s.repo.FindByManager(ctx, s.db, managerID)
	if err != nil {
		return domain.FinancesResponse{}, err
	}
	if center == nil {
		return domain.FinancesResponse{}, domain.ErrNoManagedCenter
	}

	now := s.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var month struct {
		Total int64
		Count int64
	}
	err = s.db.WithContext(ctx).
		Table("visits").
		Select("COALESCE(SUM(service_fee), 0) AS total, COUNT(*) AS count").
		Where("service_center_id = ? AND created_at >= ?", center.ID, monthStart).
		Scan(&month).Error
	if err != nil {
		return domain.FinancesResponse{}, err
	}

	type settlementRow struct {
		ID              snowflake.ID
		PeriodStart     time.Time
		PeriodEnd       time.Time
		TotalCommission int64
		IsPaid          bool
		ReceiptStatus   string
	}
	var rows []settlementRow
	err = s.db.WithContext(ctx).
		Table("settlements").
		Select("id, period_start, period_end, total_commission, is_paid, receipt_status").
		Where("service_center_id = ?", center.ID).
		Order("created_at desc").
		Scan(&rows).Error
	if err != nil {
		return domain.FinancesResponse{}, err
	}

	var unpaid int64
	covered := false
	briefs := make([]domain.SettlementBrief, 0, len(rows))
	for _, row := range rows {
		if !row.IsPaid {
			unpaid += row.TotalCommission
		}
		if !row.PeriodStart.Before(monthStart) {
			covered = true
		}
		briefs = append(briefs, domain.SettlementBrief{
			ID:            row.ID.String(),
			PeriodStart:   row.PeriodStart,
			PeriodEnd:     row.PeriodEnd,
			Amount:        row.TotalCommission,
			IsPaid:        row.IsPaid,
			ReceiptStatus: row.ReceiptStatus,
		})
	}
	// Commission for the running month is owed even before a settlement
	// row exists for it.
	if !covered {
		unpaid += month.Total
	}

	return domain.FinancesResponse{
		UnpaidAmount: unpaid,
		CurrentMonth: domain.MonthRollup{
			Total:      month.Total,
			VisitCount: int(month.Count),
		},
		Settlements: briefs,
	}, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func normalizeCenterType(raw domain.CenterType) (domain.CenterType, error) {
	value := domain.CenterType(strings.ToUpper(strings.TrimSpace(string(raw))))
	if value == "" {
		return domain.CenterTypeServiceCenter, nil
	}
	switch value {
	case domain.CenterTypeServiceCenter, domain.CenterTypeAutoShop, domain.CenterTypeCarWash:
		return value, nil
	default:
		return "", domain.ErrInvalidType
	}
}
