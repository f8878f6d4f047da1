package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
)

func TestSummarize(t *testing.T) {
	orders := []entity.Order{
		{Status: entity.StatusCompleted, TotalAmount: 500000, DepositAmount: 200000},
		{Status: entity.StatusInProduction, TotalAmount: 300000, DepositAmount: 100000},
		{Status: entity.StatusCanceled, TotalAmount: 900000, DepositAmount: 900000},
		{Status: entity.StatusNew, TotalAmount: 100000},
	}
	s := Summarize(orders)
	assert.Equal(t, Summary{
		Total: 4, Done: 1, Canceled: 1, Processing: 2,
		SalesRevenue:      900000,
		Deposits:          300000,
		EffectiveReceived: 600000,
		Outstanding:       300000,
	}, s)
}

func TestRemind(t *testing.T) {
	now := time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)
	day := func(d int) *time.Time { t := time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC); return &t }

	orders := []entity.Order{
		{Code: "today-fixed", DueDate: day(10), HasFixedDeadline: true, Status: entity.StatusInProduction},
		{Code: "today-loose", DueDate: day(10), Status: entity.StatusInProduction},
		{Code: "tomorrow", DueDate: day(11), Status: entity.StatusQueued},
		{Code: "tomorrow-done", DueDate: day(11), Status: entity.StatusCompleted},
		{Code: "late", DueDate: day(8), HasFixedDeadline: true, Status: entity.StatusShipped},
		{Code: "late-canceled", DueDate: day(8), HasFixedDeadline: true, Status: entity.StatusCanceled},
		{Code: "no-date", Status: entity.StatusNew},
	}
	r := Remind(orders, now)
	require.Len(t, r.DueToday, 1)
	assert.Equal(t, "today-fixed", r.DueToday[0].Code)
	require.Len(t, r.DueTomorrow, 1)
	assert.Equal(t, "tomorrow", r.DueTomorrow[0].Code)
	require.Len(t, r.Overdue, 1)
	assert.Equal(t, "late", r.Overdue[0].Code)

	assert.True(t, IsUrgent(&orders[0], now))
	assert.True(t, IsUrgent(&orders[4], now))
	assert.False(t, IsUrgent(&orders[1], now))
	assert.False(t, IsUrgent(&orders[5], now))
}
