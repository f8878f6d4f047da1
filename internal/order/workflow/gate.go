// Package workflow holds the order state rules: the print gate, the effects
// of a status change and the money invariants.
package workflow

import (
	"fmt"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/errs"
)

const printAllowed = "Đủ điều kiện in"

// CheckPrintPermission reports whether the order's production slip may be
// printed now and why. It never mutates the order.
func CheckPrintPermission(o *entity.Order) (bool, string) {
	if o == nil {
		return false, "Chưa chọn đơn"
	}
	p := o.Shop.Profile()
	for _, blocked := range p.PrintBlocked {
		if o.Status == blocked {
			return false, fmt.Sprintf("Đơn %s phải từ '%s'. Trạng thái: %s",
				gateName(p), p.PrintFrom.Label(), o.Status.Label())
		}
	}
	return true, printAllowed
}

// RequirePrintable is CheckPrintPermission as an error.
func RequirePrintable(o *entity.Order) error {
	if ok, reason := CheckPrintPermission(o); !ok {
		code := ""
		if o != nil {
			code = o.Code
		}
		return &errs.PrintIneligibleError{OrderCode: code, Reason: reason}
	}
	return nil
}

func gateName(p entity.ShopProfile) string {
	if p.Flow == entity.FlowLean {
		return p.Label
	}
	return "Design"
}
