package statement

import (
	"context"
	"fmt"
	"io"
	"time"

	centerdomain "github.com/drivio/drivio/internal/center/domain"
	"github.com/drivio/drivio/internal/clock"
	settlementdomain "github.com/drivio/drivio/internal/settlement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	Generator  Generator
	Settlement settlementdomain.SettlementService
	CenterRepo centerdomain.Repository
}

// Service renders the downloadable commission statement for one
// settlement.
type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	clock      clock.Clock
	generator  Generator
	settlement settlementdomain.SettlementService
	centerRepo centerdomain.Repository
}

func NewService(p Params) *Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("statement.service"),
		clock:      p.Clock,
		generator:  p.Generator,
		settlement: p.Settlement,
		centerRepo: p.CenterRepo,
	}
}

func (s *Service) Generate(ctx context.Context, settlementID string) (io.Reader, error) {
	settlement, err := s.settlement.GetByID(ctx, settlementdomain.GetRequest{ID: settlementID})
	if err != nil {
		return nil, err
	}

	center, err := s.centerRepo.FindByID(ctx, s.db, settlement.ServiceCenterID)
	if err != nil {
		return nil, err
	}

	data := Data{
		StatementNumber: settlement.ID.String(),
		PeriodStart:     settlement.PeriodStart.Format(dateLayout),
		PeriodEnd:       settlement.PeriodEnd.Format(dateLayout),
		GeneratedAt:     s.clock.Now().Format(time.RFC3339),
		VisitCount:      fmt.Sprintf("%d", settlement.VisitCount),
		Commission:      FormatMoney(settlement.TotalCommission),
		CashbackUsed:    FormatMoney(settlement.TotalCashbackUsed),
		AmountDue:       FormatMoney(settlement.NetAmount),
		PaymentStatus:   paymentStatus(settlement),
	}
	if center != nil {
		data.CenterName = center.Name
		data.CenterCity = center.City
		data.CenterPhone = center.Phone
	}
	if settlement.ReceiptRef != nil {
		data.ReceiptRef = *settlement.ReceiptRef
	}

	return s.generator.Render(ctx, data)
}

func paymentStatus(s settlementdomain.Settlement) string {
	if s.IsPaid {
		return "Paid"
	}
	if s.ReceiptStatus == settlementdomain.ReceiptStatusPending {
		return "Awaiting receipt review"
	}
	return "Unpaid"
}
