package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	centerdomain "github.com/drivio/drivio/internal/center/domain"
	"github.com/drivio/drivio/internal/pricing"
	"github.com/drivio/drivio/internal/visit/domain"
)

// fallbackDescription labels flat-amount visits with no caller text.
const fallbackDescription = "Purchase"

// composedVisit is the fully priced transaction before anything touches
// storage.
type composedVisit struct {
	cost       int64
	commission int64
	cashback   int64
	desc       string
	lines      []domain.VisitService
	skipped    []string
	itemized   bool
}

// composeFlat prices a flat-amount visit from the center-wide percents.
// A single synthetic line mirrors the aggregate so line sums always
// reproduce the stored visit.
func composeFlat(center *centerdomain.ServiceCenter, total int64, description string) (composedVisit, error) {
	if total <= 0 {
		return composedVisit{}, domain.ErrAmountRequired
	}

	commission, cashback := pricing.FlatAmounts(*center, total)

	desc := strings.TrimSpace(description)
	if desc == "" {
		desc = fallbackDescription
	}

	return composedVisit{
		cost:       total,
		commission: commission,
		cashback:   cashback,
		desc:       desc,
		lines: []domain.VisitService{{
			ServiceName: desc,
			Price:       total,
			Commission:  commission,
			Cashback:    cashback,
		}},
	}, nil
}

// composeItemized prices each line through the rule hierarchy. Every
// line price must be positive. Lines whose service ID does not resolve
// against the catalog are dropped and reported back; at least one line
// must survive.
func (s *Service) composeItemized(ctx context.Context, center *centerdomain.ServiceCenter, inputs []domain.VisitLineInput) (composedVisit, error) {
	if len(inputs) == 0 {
		return composedVisit{}, domain.ErrServicesRequired
	}

	composed := composedVisit{itemized: true}
	names := make([]string, 0, len(inputs))

	for _, input := range inputs {
		if input.Price <= 0 {
			return composedVisit{}, domain.ErrInvalidLinePrice
		}

		serviceID, err := snowflake.ParseString(strings.TrimSpace(input.ServiceID))
		if err != nil || serviceID == 0 {
			composed.skipped = append(composed.skipped, input.ServiceID)
			continue
		}

		catalogItem, err := s.catalogRepo.FindByID(ctx, s.db, serviceID)
		if err != nil {
			return composedVisit{}, err
		}
		if catalogItem == nil {
			composed.skipped = append(composed.skipped, input.ServiceID)
			continue
		}

		override, err := s.centerRepo.FindOverride(ctx, s.db, center.ID, serviceID)
		if err != nil {
			return composedVisit{}, err
		}

		resolved := pricing.Resolve(*catalogItem, override)
		commission := pricing.CommissionAmount(resolved.Commission, input.Price)
		cashback := pricing.CashbackAmount(resolved.Cashback, commission)

		composed.cost += input.Price
		composed.commission += commission
		composed.cashback += cashback
		names = append(names, catalogItem.Name)

		var details *string
		if trimmed := strings.TrimSpace(input.Details); trimmed != "" {
			details = &trimmed
		}
		composed.lines = append(composed.lines, domain.VisitService{
			ServiceName: catalogItem.Name,
			Price:       input.Price,
			Commission:  commission,
			Cashback:    cashback,
			Details:     details,
		})
	}

	if len(composed.lines) == 0 {
		return composedVisit{}, domain.ErrServicesRequired
	}

	composed.desc = strings.Join(names, ", ")
	return composed, nil
}
