package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	centerdomain "github.com/drivio/drivio/internal/center/domain"
	"github.com/drivio/drivio/internal/clock"
	"github.com/drivio/drivio/internal/metrics"
	"github.com/drivio/drivio/internal/settlement/domain"
	"github.com/drivio/drivio/pkg/db/pagination"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	CenterRepo centerdomain.Repository
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	centerRepo centerdomain.Repository
	metrics    *metrics.Metrics
}

func New(p Params) domain.SettlementService {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("settlement.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		centerRepo: p.CenterRepo,
		metrics:    p.Metrics,
	}
}

// Aggregate rolls up every active center's visits over the window and
// writes one settlement per center with activity. Both window bounds are
// inclusive; callers running back-to-back periods should step the start
// past the previous end.
func (s *Service) Aggregate(ctx context.Context, req domain.AggregateRequest) (domain.AggregateResponse, error) {
	if req.PeriodStart.IsZero() || req.PeriodEnd.IsZero() || req.PeriodEnd.Before(req.PeriodStart) {
		return domain.AggregateResponse{}, domain.ErrInvalidPeriod
	}

	rollups, err := s.repo.RollupByCenter(ctx, s.db, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return domain.AggregateResponse{}, err
	}

	now := s.clock.Now()
	settlements := make([]domain.Settlement, 0, len(rollups))
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rollup := range rollups {
			settlement := domain.Settlement{
				ID:                s.genID.Generate(),
				ServiceCenterID:   rollup.ServiceCenterID,
				PeriodStart:       req.PeriodStart,
				PeriodEnd:         req.PeriodEnd,
				TotalCommission:   rollup.TotalCommission,
				TotalCashbackUsed: rollup.TotalCashbackUsed,
				NetAmount:         rollup.TotalCommission,
				VisitCount:        rollup.VisitCount,
				IsPaid:            false,
				ReceiptStatus:     domain.ReceiptStatusNone,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if err := s.repo.Insert(ctx, tx, &settlement); err != nil {
				return err
			}
			settlements = append(settlements, settlement)
		}
		return nil
	})
	if err != nil {
		return domain.AggregateResponse{}, err
	}

	s.metrics.RecordSettlements(len(settlements))
	s.log.Info("settlements aggregated",
		zap.Time("period_start", req.PeriodStart),
		zap.Time("period_end", req.PeriodEnd),
		zap.Int("count", len(settlements)),
	)

	return domain.AggregateResponse{Settlements: settlements}, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{UnpaidOnly: req.UnpaidOnly}
	if strings.TrimSpace(req.CenterID) != "" {
		id, err := s.parseID(req.CenterID)
		if err != nil {
			return domain.ListResponse{}, err
		}
		filter.CenterID = id
	}

	page := req.Pagination.Normalize()
	settlements, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListResponse{}, err
	}

	out := make([]domain.Settlement, 0, len(settlements))
	for _, settlement := range settlements {
		if settlement != nil {
			out = append(out, *settlement)
		}
	}

	return domain.ListResponse{
		PageInfo:    pagination.BuildPageInfo(total, page),
		Settlements: out,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetRequest) (domain.Settlement, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Settlement{}, err
	}
	settlement, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Settlement{}, err
	}
	if settlement == nil {
		return domain.Settlement{}, domain.ErrNotFound
	}
	return *settlement, nil
}

func (s *Service) AttachReceipt(ctx context.Context, req domain.AttachReceiptRequest) (domain.AttachReceiptResponse, error) {
	managerID, err := s.parseID(req.ManagerID)
	if err != nil {
		return domain.AttachReceiptResponse{}, err
	}
	center, err := s.centerRepo.FindByManager(ctx, s.db, managerID)
	if err != nil {
		return domain.AttachReceiptResponse{}, err
	}
	if center == nil {
		return domain.AttachReceiptResponse{}, domain.ErrNoManagedCenter
	}

	ref := strings.TrimSpace(req.ReceiptRef)
	if ref == "" {
		ref = uuid.NewString()
	}
	now := s.clock.Now()
	meta := datatypes.JSONMap{"uploaded_at": now.Format(time.RFC3339)}
	if name := strings.TrimSpace(req.FileName); name != "" {
		meta["file_name"] = name
	}

	var targets []*domain.Settlement
	if strings.TrimSpace(req.SettlementID) != "" {
		id, err := s.parseID(req.SettlementID)
		if err != nil {
			return domain.AttachReceiptResponse{}, err
		}
		settlement, err := s.repo.FindByID(ctx, s.db, id)
		if err != nil {
			return domain.AttachReceiptResponse{}, err
		}
		if settlement == nil || settlement.ServiceCenterID != center.ID {
			return domain.AttachReceiptResponse{}, domain.ErrNotFound
		}
		switch settlement.ReceiptStatus {
		case domain.ReceiptStatusPending:
			return domain.AttachReceiptResponse{}, domain.ErrAlreadySubmitted
		case domain.ReceiptStatusApproved:
			return domain.AttachReceiptResponse{}, domain.ErrAlreadyPaid
		}
		targets = []*domain.Settlement{settlement}
	} else {
		targets, err = s.repo.ListUnpaidNone(ctx, s.db, center.ID)
		if err != nil {
			return domain.AttachReceiptResponse{}, err
		}
		if len(targets) == 0 {
			synthesized, err := s.synthesizeCurrentMonth(ctx, center.ID, now)
			if err != nil {
				return domain.AttachReceiptResponse{}, err
			}
			targets = []*domain.Settlement{synthesized}
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, settlement := range targets {
			if err := s.repo.AttachReceipt(ctx, tx, settlement.ID, ref, meta, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.AttachReceiptResponse{}, err
	}

	out := make([]domain.Settlement, 0, len(targets))
	for _, settlement := range targets {
		settlement.ReceiptStatus = domain.ReceiptStatusPending
		settlement.ReceiptRef = &ref
		settlement.ReceiptMeta = meta
		settlement.UpdatedAt = now
		out = append(out, *settlement)
	}

	s.log.Info("receipt attached",
		zap.String("center_id", center.ID.String()),
		zap.String("receipt_ref", ref),
		zap.Int("settlements", len(out)),
	)

	return domain.AttachReceiptResponse{ReceiptRef: ref, Settlements: out}, nil
}

// synthesizeCurrentMonth covers the manager who pays before any admin
// aggregation ran: the receipt needs something to attach to, so the
// running month becomes a settlement on the spot.
func (s *Service) synthesizeCurrentMonth(ctx context.Context, centerID snowflake.ID, now time.Time) (*domain.Settlement, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	rollup, err := s.repo.RollupForCenter(ctx, s.db, centerID, start, now)
	if err != nil {
		return nil, err
	}
	if rollup.VisitCount == 0 {
		return nil, domain.ErrNoVisits
	}

	settlement := domain.Settlement{
		ID:                s.genID.Generate(),
		ServiceCenterID:   centerID,
		PeriodStart:       start,
		PeriodEnd:         now,
		TotalCommission:   rollup.TotalCommission,
		TotalCashbackUsed: rollup.TotalCashbackUsed,
		NetAmount:         rollup.TotalCommission,
		VisitCount:        rollup.VisitCount,
		IsPaid:            false,
		ReceiptStatus:     domain.ReceiptStatusNone,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Insert(ctx, s.db, &settlement); err != nil {
		return nil, err
	}
	return &settlement, nil
}

func (s *Service) Review(ctx context.Context, req domain.ReviewRequest) (domain.Settlement, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Settlement{}, err
	}
	settlement, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Settlement{}, err
	}
	if settlement == nil {
		return domain.Settlement{}, domain.ErrNotFound
	}
	if settlement.ReceiptStatus != domain.ReceiptStatusPending {
		return domain.Settlement{}, domain.ErrNotPending
	}

	status := domain.ReceiptStatusRejected
	paid := false
	if req.Approve {
		status = domain.ReceiptStatusApproved
		paid = true
	}

	now := s.clock.Now()
	if err := s.repo.SetReview(ctx, s.db, settlement.ID, status, paid, now); err != nil {
		return domain.Settlement{}, err
	}

	settlement.ReceiptStatus = status
	settlement.IsPaid = paid
	settlement.UpdatedAt = now

	s.log.Info("receipt reviewed",
		zap.String("settlement_id", settlement.ID.String()),
		zap.String("status", string(status)),
	)

	return *settlement, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
