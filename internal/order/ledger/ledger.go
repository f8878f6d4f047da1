// Package ledger derives customer aggregates from orders. The incremental
// updates made when orders change and the full reconciliation both go through
// Contribution, so the two paths cannot disagree.
package ledger

import (
	"sort"
	"time"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
)

// Aggregate is what a set of orders adds to a customer.
type Aggregate struct {
	OrderCount    int64 `json:"lifetime_order_count"`
	LifetimeSpend int64 `json:"lifetime_spend"`
}

func (a Aggregate) Add(b Aggregate) Aggregate {
	return Aggregate{OrderCount: a.OrderCount + b.OrderCount, LifetimeSpend: a.LifetimeSpend + b.LifetimeSpend}
}

func (a Aggregate) Sub(b Aggregate) Aggregate {
	return Aggregate{OrderCount: a.OrderCount - b.OrderCount, LifetimeSpend: a.LifetimeSpend - b.LifetimeSpend}
}

func (a Aggregate) IsZero() bool { return a == Aggregate{} }

// Contribution is one order's share of its customer's aggregate. Canceled
// orders contribute nothing.
func Contribution(o *entity.Order) Aggregate {
	if o == nil || o.Status.IsCanceled() {
		return Aggregate{}
	}
	return Aggregate{OrderCount: 1, LifetimeSpend: o.TotalAmount}
}

// Delta is the change to apply when an order goes from before to after.
// A nil before is a new order.
func Delta(before, after *entity.Order) Aggregate {
	return Contribution(after).Sub(Contribution(before))
}

// Tally is the aggregate of one customer's orders plus the address of the
// newest order that has one.
type Tally struct {
	Aggregate
	LatestAddress string

	latestAt time.Time
}

// TallyByCustomer groups orders by customer and sums their contributions.
// Orders without a customer are skipped.
func TallyByCustomer(orders []entity.Order) map[string]Tally {
	out := make(map[string]Tally)
	for i := range orders {
		o := &orders[i]
		if o.CustomerID == "" {
			continue
		}
		t := out[o.CustomerID]
		t.Aggregate = t.Aggregate.Add(Contribution(o))
		if at := placedAt(o); o.Address != "" && !at.Before(t.latestAt) {
			t.LatestAddress, t.latestAt = o.Address, at
		}
		out[o.CustomerID] = t
	}
	return out
}

func placedAt(o *entity.Order) time.Time {
	if !o.CreatedAt.IsZero() {
		return o.CreatedAt
	}
	if o.OrderDate != nil {
		return *o.OrderDate
	}
	return time.Time{}
}

// Change is a customer whose stored aggregate differs from the ledger.
type Change struct {
	CustomerID string    `json:"customer_id"`
	Before     Aggregate `json:"before"`
	After      Aggregate `json:"after"`
	Address    string    `json:"address,omitempty"`
}

// Reconcile compares stored customer aggregates with the orders and returns
// the customers that need rewriting, sorted by ID. Applying the changes and
// reconciling again yields none.
func Reconcile(customers []entity.Customer, orders []entity.Order) []Change {
	tallies := TallyByCustomer(orders)

	var changes []Change
	for _, c := range customers {
		t := tallies[c.ID]
		stored := Aggregate{OrderCount: c.OrderCount, LifetimeSpend: c.LifetimeSpend}
		address := c.Address
		if t.LatestAddress != "" {
			address = t.LatestAddress
		}
		if stored == t.Aggregate && address == c.Address {
			continue
		}
		changes = append(changes, Change{CustomerID: c.ID, Before: stored, After: t.Aggregate, Address: address})
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].CustomerID < changes[j].CustomerID })
	return changes
}
