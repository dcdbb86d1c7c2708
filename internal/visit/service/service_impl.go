package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	balancedomain "github.com/drivio/drivio/internal/balance/domain"
	catalogdomain "github.com/drivio/drivio/internal/catalog/domain"
	centerdomain "github.com/drivio/drivio/internal/center/domain"
	"github.com/drivio/drivio/internal/clock"
	customerdomain "github.com/drivio/drivio/internal/customer/domain"
	"github.com/drivio/drivio/internal/events"
	"github.com/drivio/drivio/internal/metrics"
	vehicledomain "github.com/drivio/drivio/internal/vehicle/domain"
	"github.com/drivio/drivio/internal/visit/domain"
	"github.com/drivio/drivio/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// oilChangeKeyword marks the maintenance service that refreshes the
// vehicle's last-service markers.
const oilChangeKeyword = "oil change"

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	CatalogRepo  catalogdomain.Repository
	CenterRepo   centerdomain.Repository
	VehicleRepo  vehicledomain.Repository
	CustomerRepo customerdomain.Repository
	BalanceRepo  balancedomain.Repository
	Publisher    *events.Publisher `optional:"true"`
	Metrics      *metrics.Metrics  `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	catalogRepo  catalogdomain.Repository
	centerRepo   centerdomain.Repository
	vehicleRepo  vehicledomain.Repository
	customerRepo customerdomain.Repository
	balanceRepo  balancedomain.Repository
	publisher    *events.Publisher
	metrics      *metrics.Metrics
}

func New(p Params) domain.VisitEngine {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("visit.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		catalogRepo:  p.CatalogRepo,
		centerRepo:   p.CenterRepo,
		vehicleRepo:  p.VehicleRepo,
		customerRepo: p.CustomerRepo,
		balanceRepo:  p.BalanceRepo,
		publisher:    p.Publisher,
		metrics:      p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateVisitRequest) (domain.CreateVisitResponse, error) {
	vehicleID, err := s.parseID(req.VehicleID)
	if err != nil {
		return domain.CreateVisitResponse{}, err
	}
	centerID, err := s.parseID(req.CenterID)
	if err != nil {
		return domain.CreateVisitResponse{}, err
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, s.db, vehicleID)
	if err != nil {
		return domain.CreateVisitResponse{}, err
	}
	if vehicle == nil {
		return domain.CreateVisitResponse{}, domain.ErrVehicleNotFound
	}

	owner, err := s.customerRepo.FindByID(ctx, s.db, vehicle.OwnerID)
	if err != nil {
		return domain.CreateVisitResponse{}, err
	}
	if owner == nil {
		return domain.CreateVisitResponse{}, domain.ErrOwnerNotFound
	}

	center, err := s.centerRepo.FindByID(ctx, s.db, centerID)
	if err != nil {
		return domain.CreateVisitResponse{}, err
	}
	if center == nil {
		return domain.CreateVisitResponse{}, domain.ErrCenterNotFound
	}

	// Shops always settle on a flat amount; washes do too unless the
	// caller itemized the work.
	flat := center.Type == centerdomain.CenterTypeAutoShop ||
		(center.Type == centerdomain.CenterTypeCarWash && len(req.Services) == 0)

	var composed composedVisit
	if flat {
		var total int64
		if req.TotalAmount != nil {
			total = *req.TotalAmount
		}
		composed, err = composeFlat(center, total, req.Description)
	} else {
		composed, err = s.composeItemized(ctx, center, req.Services)
	}
	if err != nil {
		return domain.CreateVisitResponse{}, err
	}

	// Validation happens in full before the first write.
	if err := ValidateRedemption(owner.Balance, req.CashbackUsed, composed.cost); err != nil {
		return domain.CreateVisitResponse{}, err
	}

	redeem := req.CashbackUsed
	if redeem < 0 {
		redeem = 0
	}

	now := s.clock.Now()
	visit := domain.Visit{
		ID:              s.genID.Generate(),
		VehicleID:       vehicle.ID,
		ServiceCenterID: center.ID,
		Description:     composed.desc,
		Cost:            composed.cost,
		Mileage:         req.Mileage,
		Cashback:        composed.cashback,
		CashbackUsed:    redeem,
		ServiceFee:      composed.commission,
		Status:          domain.VisitStatusCompleted,
		CreatedAt:       now,
	}

	lines := make([]domain.VisitService, len(composed.lines))
	for i, line := range composed.lines {
		line.ID = s.genID.Generate()
		line.VisitID = visit.ID
		lines[i] = line
	}

	if err := s.apply(ctx, &visit, lines, owner, vehicle, composed.itemized, redeem); err != nil {
		return domain.CreateVisitResponse{}, err
	}

	mode := "itemized"
	if flat {
		mode = "flat"
	}
	s.metrics.RecordVisit(mode, visit.Cashback, redeem)

	s.log.Info("visit created",
		zap.String("visit_id", visit.ID.String()),
		zap.String("center_id", center.ID.String()),
		zap.String("mode", mode),
		zap.Int64("cost", visit.Cost),
		zap.Int64("service_fee", visit.ServiceFee),
		zap.Int64("cashback", visit.Cashback),
		zap.Int64("cashback_used", redeem),
	)

	// Best-effort fan-out to the owner; never blocks or fails the request.
	if s.publisher != nil {
		s.publisher.PublishVisitCreated(owner.ID, events.VisitCreatedPayload{
			VisitID:      visit.ID.String(),
			VehicleLabel: vehicle.Label(),
			CenterName:   center.Name,
			CenterType:   string(center.Type),
			Cost:         visit.Cost,
			Cashback:     visit.Cashback,
			CashbackUsed: redeem,
			Odometer:     req.Mileage,
			Description:  visit.Description,
		})
	}

	return domain.CreateVisitResponse{
		Visit:             visit,
		Services:          lines,
		SkippedServiceIDs: composed.skipped,
	}, nil
}

// apply commits the visit, its lines, the two ledger entries, the cached
// balance update and the vehicle markers as one transaction. Any failure
// rolls the whole unit back; storage detail is logged, not surfaced.
func (s *Service) apply(
	ctx context.Context,
	visit *domain.Visit,
	lines []domain.VisitService,
	owner *customerdomain.Customer,
	vehicle *vehicledomain.Vehicle,
	itemized bool,
	redeem int64,
) error {
	visitID := visit.ID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, visit); err != nil {
			return err
		}
		for i := range lines {
			if err := s.repo.InsertService(ctx, tx, &lines[i]); err != nil {
				return err
			}
		}

		if visit.Cashback > 0 {
			if err := s.balanceRepo.Insert(ctx, tx, &balancedomain.Entry{
				ID:          s.genID.Generate(),
				CustomerID:  owner.ID,
				Amount:      visit.Cashback,
				Type:        balancedomain.EntryTypeCashbackEarn,
				Description: "Cashback for visit",
				VisitID:     &visitID,
				CreatedAt:   visit.CreatedAt,
			}); err != nil {
				return err
			}
		}

		if redeem > 0 {
			if err := s.balanceRepo.Insert(ctx, tx, &balancedomain.Entry{
				ID:          s.genID.Generate(),
				CustomerID:  owner.ID,
				Amount:      -redeem,
				Type:        balancedomain.EntryTypeCashbackSpend,
				Description: "Cashback redeemed",
				VisitID:     &visitID,
				CreatedAt:   visit.CreatedAt,
			}); err != nil {
				return err
			}
		}

		if delta := visit.Cashback - redeem; delta != 0 {
			if err := s.customerRepo.ApplyBalanceDelta(ctx, tx, owner.ID, delta); err != nil {
				return err
			}
		}

		if visit.Mileage != nil {
			if err := s.vehicleRepo.UpdateMileage(ctx, tx, vehicle.ID, *visit.Mileage); err != nil {
				return err
			}
		}

		// An oil change resets the maintenance markers. Flat-amount
		// visits carry no catalog lines, so they never trigger this.
		if itemized && hasOilChange(lines) {
			if err := s.vehicleRepo.StampService(ctx, tx, vehicle.ID, visit.CreatedAt, visit.Mileage); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, customerdomain.ErrInsufficientBalance) {
			// A concurrent visit drained the balance between validation
			// and commit; the guard inside the UPDATE caught it.
			return domain.ErrInsufficientBalance
		}
		s.log.Error("visit transaction failed",
			zap.String("visit_id", visitID.String()),
			zap.Error(err),
		)
		return domain.ErrPersistence
	}
	return nil
}

func hasOilChange(lines []domain.VisitService) bool {
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line.ServiceName), oilChangeKeyword) {
			return true
		}
	}
	return false
}

func (s *Service) GetByID(ctx context.Context, req domain.GetVisitRequest) (domain.VisitDetail, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.VisitDetail{}, err
	}

	visit, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.VisitDetail{}, err
	}
	if visit == nil {
		return domain.VisitDetail{}, domain.ErrNotFound
	}

	lines, err := s.repo.ListServices(ctx, s.db, visit.ID)
	if err != nil {
		return domain.VisitDetail{}, err
	}

	return domain.VisitDetail{
		Visit:    *visit,
		Services: derefLines(lines),
	}, nil
}

func (s *Service) List(ctx context.Context, req domain.ListVisitRequest) (domain.ListVisitResponse, error) {
	filter := domain.ListVisitFilter{}
	if strings.TrimSpace(req.VehicleID) != "" {
		id, err := s.parseID(req.VehicleID)
		if err != nil {
			return domain.ListVisitResponse{}, err
		}
		filter.VehicleID = id
	}
	if strings.TrimSpace(req.CenterID) != "" {
		id, err := s.parseID(req.CenterID)
		if err != nil {
			return domain.ListVisitResponse{}, err
		}
		filter.CenterID = id
	}
	if strings.TrimSpace(req.OwnerID) != "" {
		id, err := s.parseID(req.OwnerID)
		if err != nil {
			return domain.ListVisitResponse{}, err
		}
		filter.OwnerID = id
	}

	page := req.Pagination.Normalize()
	visits, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListVisitResponse{}, err
	}

	details := make([]domain.VisitDetail, 0, len(visits))
	for _, visit := range visits {
		if visit == nil {
			continue
		}
		lines, err := s.repo.ListServices(ctx, s.db, visit.ID)
		if err != nil {
			return domain.ListVisitResponse{}, err
		}
		details = append(details, domain.VisitDetail{
			Visit:    *visit,
			Services: derefLines(lines),
		})
	}

	return domain.ListVisitResponse{
		PageInfo: pagination.BuildPageInfo(total, page),
		Visits:   details,
	}, nil
}

func derefLines(lines []*domain.VisitService) []domain.VisitService {
	out := make([]domain.VisitService, 0, len(lines))
	for _, line := range lines {
		if line == nil {
			continue
		}
		out = append(out, *line)
	}
	return out
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
