package workflow

import (
	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/errs"
)

// ValidateFinancials enforces non-negative amounts and deposit <= total,
// so the derived remaining amount is never negative.
func ValidateFinancials(total, deposit int64) error {
	switch {
	case total < 0:
		return errs.Validation("total_amount", "must not be negative")
	case deposit < 0:
		return errs.Validation("deposit_amount", "must not be negative")
	case deposit > total:
		return errs.Validation("deposit_amount", "exceeds total amount, remaining would be negative")
	}
	return nil
}

// EffectiveReceived is the money an order counts for: the full total once
// completed, nothing when canceled, the deposit otherwise.
func EffectiveReceived(o *entity.Order) int64 {
	switch {
	case o.Status.IsCanceled():
		return 0
	case o.Status.IsDone():
		return o.TotalAmount
	}
	return o.DepositAmount
}

// CountsAsRevenue reports whether the order belongs in sales totals.
func CountsAsRevenue(o *entity.Order) bool {
	return !o.Status.IsCanceled()
}
