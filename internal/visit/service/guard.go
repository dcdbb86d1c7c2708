package service

import (
	"github.com/drivio/drivio/internal/visit/domain"
)

// ValidateRedemption checks a requested cashback redemption against the
// customer's balance and the per-visit cap before anything is written.
// Redemption may cover at most half of the transaction total (integer
// division). A zero or negative request is a no-op.
func ValidateRedemption(balance, redeem, total int64) error {
	if redeem <= 0 {
		return nil
	}
	if redeem > balance {
		return domain.ErrInsufficientBalance
	}
	if cap := total / 2; redeem > cap {
		return &domain.RedemptionCapError{Cap: cap}
	}
	return nil
}
