package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/errs"
)

func TestPrintGateLeanShop(t *testing.T) {
	for _, s := range entity.Statuses {
		ok, reason := CheckPrintPermission(&entity.Order{Shop: entity.ShopLanhCanh, Status: s})
		blocked := s == entity.StatusNew || s == entity.StatusConfirmed
		assert.Equal(t, !blocked, ok, s)
		if blocked {
			assert.Contains(t, reason, "Lanh Canh")
			assert.Contains(t, reason, "Chờ sản xuất")
			assert.Contains(t, reason, s.Label())
		}
	}
}

func TestPrintGateDesignShops(t *testing.T) {
	for _, shop := range []entity.Shop{entity.ShopInside, entity.ShopTGTD} {
		for _, s := range entity.Statuses {
			ok, reason := CheckPrintPermission(&entity.Order{Shop: shop, Status: s})
			before := s.Rank() < entity.StatusDesignApproved.Rank()
			assert.Equal(t, !before, ok, "%s %s", shop, s)
			if before {
				assert.Equal(t, "Đơn Design phải từ 'Đã duyệt thiết kế'. Trạng thái: "+s.Label(), reason)
			}
		}
	}
}

func TestPrintGateUnknownShopUsesInside(t *testing.T) {
	ok, _ := CheckPrintPermission(&entity.Order{Shop: "", Status: entity.StatusQueued})
	assert.False(t, ok)

	ok, reason := CheckPrintPermission(nil)
	assert.False(t, ok)
	assert.NotEmpty(t, reason)
}

func TestRequirePrintable(t *testing.T) {
	err := RequirePrintable(&entity.Order{Code: "ORD-1", Shop: entity.ShopTGTD, Status: entity.StatusInDesign})
	require.Error(t, err)
	var pe *errs.PrintIneligibleError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "ORD-1", pe.OrderCode)

	assert.NoError(t, RequirePrintable(&entity.Order{Shop: entity.ShopTGTD, Status: entity.StatusShipped}))
}

func TestTransition(t *testing.T) {
	e := Transition(entity.StatusShipped, entity.StatusCompleted)
	assert.True(t, e.EnteredDone)
	assert.False(t, e.NeedsReview())

	e = Transition(entity.StatusCompleted, entity.StatusInProduction)
	assert.True(t, e.LeftDone)
	assert.True(t, e.Reverse)
	assert.True(t, e.FromTerminal)
	assert.True(t, e.NeedsReview())

	e = Transition(entity.StatusInDesign, entity.StatusCanceled)
	assert.True(t, e.EnteredCanceled)
	assert.False(t, e.Reverse)

	e = Transition(entity.StatusCanceled, entity.StatusNew)
	assert.True(t, e.LeftCanceled)
	assert.True(t, e.FromTerminal)
	assert.False(t, e.Reverse)

	e = Transition(entity.StatusShipped, entity.StatusExchanged)
	assert.False(t, e.NeedsReview())

	e = Transition(entity.StatusQueued, entity.StatusQueued)
	assert.False(t, e.Changed())
	assert.Equal(t, Effect{From: entity.StatusQueued, To: entity.StatusQueued}, e)
}

func TestValidateFinancials(t *testing.T) {
	assert.NoError(t, ValidateFinancials(500000, 200000))
	assert.NoError(t, ValidateFinancials(500000, 500000))
	assert.NoError(t, ValidateFinancials(0, 0))

	for _, tc := range [][2]int64{{100, 200}, {-1, 0}, {100, -5}} {
		err := ValidateFinancials(tc[0], tc[1])
		assert.Equal(t, errs.KindValidation, errs.KindOf(err), tc)
	}
}

func TestRemainingMatchesTotalMinusDeposit(t *testing.T) {
	for _, tc := range [][2]int64{{0, 0}, {300000, 0}, {300000, 300000}, {450000, 125000}} {
		require.NoError(t, ValidateFinancials(tc[0], tc[1]))
		o := &entity.Order{TotalAmount: tc[0], DepositAmount: tc[1]}
		o.SyncDerived()
		assert.Equal(t, tc[0]-tc[1], o.RemainingAmount)
		assert.GreaterOrEqual(t, o.RemainingAmount, int64(0))
	}
}

func TestEffectiveReceived(t *testing.T) {
	o := &entity.Order{TotalAmount: 500000, DepositAmount: 200000, Status: entity.StatusInProduction}
	assert.Equal(t, int64(200000), EffectiveReceived(o))
	assert.True(t, CountsAsRevenue(o))

	o.Status = entity.StatusCompleted
	assert.Equal(t, int64(500000), EffectiveReceived(o))

	o.Status = entity.StatusCanceled
	assert.Equal(t, int64(0), EffectiveReceived(o))
	assert.False(t, CountsAsRevenue(o))
}
