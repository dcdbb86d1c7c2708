// Package pricing resolves the effective commission and cashback rules for
// a (service, center) pair and prices individual visit lines. It is pure:
// resolution never touches storage, which keeps the rule hierarchy
// independently testable from the visit flow.
package pricing

import (
	"math"

	catalogdomain "github.com/drivio/drivio/internal/catalog/domain"
	centerdomain "github.com/drivio/drivio/internal/center/domain"
)

// Rule is a resolved commission or cashback rule.
type Rule struct {
	Type  catalogdomain.RuleType
	Value float64
}

// ResolvedRule carries the effective rules for one (service, center)
// pairing. Price is informational: itemized visits always use the
// caller-supplied line price.
type ResolvedRule struct {
	Commission Rule
	Cashback   Rule
	Price      *int64
	FlexPrice  bool
}

// Resolve applies the center-level override over the catalog defaults.
// Commission and cashback fall back independently; resolution always
// succeeds.
func Resolve(service catalogdomain.Service, override *centerdomain.ServiceCenterService) ResolvedRule {
	resolved := ResolvedRule{
		Commission: Rule{Type: service.CommissionType, Value: service.CommissionValue},
		Cashback:   Rule{Type: service.CashbackType, Value: service.CashbackValue},
	}
	if override == nil {
		return resolved
	}

	if override.CommissionType != nil && *override.CommissionType != "" {
		resolved.Commission.Type = *override.CommissionType
	}
	if override.CommissionValue != nil {
		resolved.Commission.Value = *override.CommissionValue
	}
	if override.CashbackType != nil && *override.CashbackType != "" {
		resolved.Cashback.Type = *override.CashbackType
	}
	if override.CashbackValue != nil {
		resolved.Cashback.Value = *override.CashbackValue
	}
	resolved.Price = override.Price
	resolved.FlexPrice = override.IsFlexPrice
	return resolved
}

// CommissionAmount prices the platform's take for one line. Percent rules
// round half to even (12.5 becomes 12, 37.5 becomes 38) so repeated
// settlement sums carry no systematic upward bias; fixed rules are taken
// as whole currency units (fractions dropped).
func CommissionAmount(rule Rule, price int64) int64 {
	if rule.Type == catalogdomain.RuleTypeFixed {
		return int64(math.Floor(rule.Value))
	}
	return int64(math.RoundToEven(float64(price) * rule.Value / 100))
}

// CashbackAmount sizes the customer rebate for one line. Percent cashback
// is computed from the commission, not the price: the rebate is funded
// out of the platform's own take. Ties round to even like CommissionAmount.
func CashbackAmount(rule Rule, commission int64) int64 {
	if rule.Type == catalogdomain.RuleTypeFixed {
		return int64(math.Floor(rule.Value))
	}
	return int64(math.RoundToEven(float64(commission) * rule.Value / 100))
}

// FlatAmounts prices a flat-amount visit from the center-wide percents,
// with the same half-to-even rounding as itemized lines.
func FlatAmounts(center centerdomain.ServiceCenter, total int64) (commission, cashback int64) {
	commission = int64(math.RoundToEven(float64(total) * center.CommissionPercent / 100))
	cashback = int64(math.RoundToEven(float64(total) * center.DiscountPercent / 100))
	return commission, cashback
}
