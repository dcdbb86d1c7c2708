package pricing

import (
	"testing"

	catalogdomain "github.com/drivio/drivio/internal/catalog/domain"
	centerdomain "github.com/drivio/drivio/internal/center/domain"
	"github.com/stretchr/testify/assert"
)

func ruleTypePtr(t catalogdomain.RuleType) *catalogdomain.RuleType { return &t }
func float64Ptr(f float64) *float64                                { return &f }

func TestResolve_CatalogDefaults(t *testing.T) {
	svc := catalogdomain.Service{
		CommissionType:  catalogdomain.RuleTypePercent,
		CommissionValue: 20,
		CashbackType:    catalogdomain.RuleTypePercent,
		CashbackValue:   25,
	}

	resolved := Resolve(svc, nil)

	assert.Equal(t, catalogdomain.RuleTypePercent, resolved.Commission.Type)
	assert.Equal(t, float64(20), resolved.Commission.Value)
	assert.Equal(t, catalogdomain.RuleTypePercent, resolved.Cashback.Type)
	assert.Equal(t, float64(25), resolved.Cashback.Value)
	assert.Nil(t, resolved.Price)
}

func TestResolve_OverrideWinsIndependently(t *testing.T) {
	svc := catalogdomain.Service{
		CommissionType:  catalogdomain.RuleTypePercent,
		CommissionValue: 20,
		CashbackType:    catalogdomain.RuleTypePercent,
		CashbackValue:   25,
	}
	override := &centerdomain.ServiceCenterService{
		CommissionType:  ruleTypePtr(catalogdomain.RuleTypeFixed),
		CommissionValue: float64Ptr(3000),
	}

	resolved := Resolve(svc, override)

	// Commission overridden, cashback still the catalog default.
	assert.Equal(t, catalogdomain.RuleTypeFixed, resolved.Commission.Type)
	assert.Equal(t, float64(3000), resolved.Commission.Value)
	assert.Equal(t, catalogdomain.RuleTypePercent, resolved.Cashback.Type)
	assert.Equal(t, float64(25), resolved.Cashback.Value)
}

func TestResolve_PriceOverrideIsInformational(t *testing.T) {
	svc := catalogdomain.Service{
		CommissionType: catalogdomain.RuleTypePercent,
		CashbackType:   catalogdomain.RuleTypePercent,
	}
	price := int64(15000)
	override := &centerdomain.ServiceCenterService{Price: &price, IsFlexPrice: false}

	resolved := Resolve(svc, override)

	assert.Equal(t, price, *resolved.Price)
	assert.False(t, resolved.FlexPrice)
}

func TestCommissionAmount_PercentRounds(t *testing.T) {
	rule := Rule{Type: catalogdomain.RuleTypePercent, Value: 20}
	assert.Equal(t, int64(2000), CommissionAmount(rule, 10000))

	// 333 * 15% = 49.95 rounds up.
	rule = Rule{Type: catalogdomain.RuleTypePercent, Value: 15}
	assert.Equal(t, int64(50), CommissionAmount(rule, 333))
}

func TestCommissionAmount_HalfRoundsToEven(t *testing.T) {
	rule := Rule{Type: catalogdomain.RuleTypePercent, Value: 25}

	// 25% of 50 is 12.5 and lands on the even neighbor below.
	assert.Equal(t, int64(12), CommissionAmount(rule, 50))
	// 25% of 150 is 37.5 and lands on the even neighbor above.
	assert.Equal(t, int64(38), CommissionAmount(rule, 150))
	assert.Equal(t, int64(62), CommissionAmount(rule, 250))

	assert.Equal(t, int64(12), CashbackAmount(rule, 50))
}

func TestCommissionAmount_FixedIgnoresPrice(t *testing.T) {
	rule := Rule{Type: catalogdomain.RuleTypeFixed, Value: 3000}
	assert.Equal(t, int64(3000), CommissionAmount(rule, 25000))
	assert.Equal(t, int64(3000), CommissionAmount(rule, 100))
}

func TestCashbackAmount_PercentOfCommission(t *testing.T) {
	// 20% commission on 10000 is 2000; cashback is 25% of the
	// commission, not the price, so 500.
	commission := CommissionAmount(Rule{Type: catalogdomain.RuleTypePercent, Value: 20}, 10000)
	assert.Equal(t, int64(2000), commission)

	cashback := CashbackAmount(Rule{Type: catalogdomain.RuleTypePercent, Value: 25}, commission)
	assert.Equal(t, int64(500), cashback)
}

func TestCashbackAmount_Fixed(t *testing.T) {
	cashback := CashbackAmount(Rule{Type: catalogdomain.RuleTypeFixed, Value: 500}, 3000)
	assert.Equal(t, int64(500), cashback)
}

func TestFlatAmounts(t *testing.T) {
	center := centerdomain.ServiceCenter{CommissionPercent: 10, DiscountPercent: 5}

	commission, cashback := FlatAmounts(center, 50000)

	assert.Equal(t, int64(5000), commission)
	assert.Equal(t, int64(2500), cashback)
}
