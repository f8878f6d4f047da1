// Package dashboard computes the order desk's headline numbers and due-date
// reminders from a list of orders.
package dashboard

import (
	"time"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/normalize"
	"github.com/quanghuydn8/app-theu/internal/order/workflow"
)

// Summary is the KPI block.
type Summary struct {
	Total      int `json:"total"`
	Done       int `json:"done"`
	Canceled   int `json:"canceled"`
	Processing int `json:"processing"`

	// money over non-canceled orders
	SalesRevenue      int64 `json:"sales_revenue"`
	Deposits          int64 `json:"deposits"`
	EffectiveReceived int64 `json:"effective_received"`
	Outstanding       int64 `json:"outstanding"`
}

func Summarize(orders []entity.Order) Summary {
	var s Summary
	for i := range orders {
		o := &orders[i]
		s.Total++
		switch {
		case o.Status.IsDone():
			s.Done++
		case o.Status.IsCanceled():
			s.Canceled++
		}
		if !workflow.CountsAsRevenue(o) {
			continue
		}
		s.SalesRevenue += o.TotalAmount
		s.Deposits += o.DepositAmount
		s.EffectiveReceived += workflow.EffectiveReceived(o)
	}
	s.Processing = s.Total - s.Done - s.Canceled
	s.Outstanding = s.SalesRevenue - s.EffectiveReceived
	return s
}

// Reminders lists open orders needing attention around a day.
type Reminders struct {
	Date time.Time `json:"date"`
	// fixed-deadline orders due that day
	DueToday []entity.Order `json:"due_today"`
	// every order due the next day
	DueTomorrow []entity.Order `json:"due_tomorrow"`
	// fixed-deadline orders whose date has passed
	Overdue []entity.Order `json:"overdue"`
}

func Remind(orders []entity.Order, now time.Time) Reminders {
	today := normalize.DateOf(now)
	tomorrow := normalize.AddDays(today, 1)
	r := Reminders{
		Date:        today,
		DueToday:    []entity.Order{},
		DueTomorrow: []entity.Order{},
		Overdue:     []entity.Order{},
	}
	for _, o := range orders {
		if o.Status.IsTerminal() || o.DueDate == nil {
			continue
		}
		due := sameDay(*o.DueDate, today.Location())
		switch {
		case due.Equal(today) && o.HasFixedDeadline:
			r.DueToday = append(r.DueToday, o)
		case due.Equal(tomorrow):
			r.DueTomorrow = append(r.DueTomorrow, o)
		case due.Before(today) && o.HasFixedDeadline:
			r.Overdue = append(r.Overdue, o)
		}
	}
	return r
}

// IsUrgent reports an open fixed-deadline order due on or before now.
func IsUrgent(o *entity.Order, now time.Time) bool {
	if o.Status.IsTerminal() || !o.HasFixedDeadline || o.DueDate == nil {
		return false
	}
	today := normalize.DateOf(now)
	return !sameDay(*o.DueDate, today.Location()).After(today)
}

// sameDay reads a stored date's calendar day in loc.
func sameDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
