package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/drivio/drivio/internal/clock"
	settlementdomain "github.com/drivio/drivio/internal/settlement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidConfig = errors.New("scheduler requires db, log, clock and settlement service")

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Clock         clock.Clock
	SettlementSvc settlementdomain.SettlementService
	Config        Config `optional:"true"`
}

// Scheduler closes finished calendar months into settlements so admins
// do not have to trigger aggregation by hand.
type Scheduler struct {
	db            *gorm.DB
	log           *zap.Logger
	cfg           Config
	clock         clock.Clock
	settlementSvc settlementdomain.SettlementService
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil || p.SettlementSvc == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:            p.DB,
		log:           p.Log.Named("scheduler"),
		cfg:           p.Config.withDefaults(),
		clock:         p.Clock,
		settlementSvc: p.SettlementSvc,
	}, nil
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	s.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if err := s.CloseFinishedMonths(ctx); err != nil {
		s.log.Error("month close failed", zap.Error(err))
	}
}

// CloseFinishedMonths aggregates every completed month within the
// catch-up horizon that has no settlements yet. Months that already
// produced settlements are left alone, so the loop is safe to rerun.
func (s *Scheduler) CloseFinishedMonths(ctx context.Context) error {
	now := s.clock.Now()
	currentStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for i := s.cfg.CatchUpMonths; i >= 1; i-- {
		start := currentStart.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

		closed, err := s.monthClosed(ctx, start)
		if err != nil {
			return err
		}
		if closed {
			continue
		}

		resp, err := s.settlementSvc.Aggregate(ctx, settlementdomain.AggregateRequest{
			PeriodStart: start,
			PeriodEnd:   end,
		})
		if err != nil {
			return err
		}
		s.log.Info("month closed",
			zap.Time("period_start", start),
			zap.Int("settlements", len(resp.Settlements)),
		)
	}
	return nil
}

func (s *Scheduler) monthClosed(ctx context.Context, start time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&settlementdomain.Settlement{}).
		Where("period_start = ?", start).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
