package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
)

func order(customer string, total int64, status entity.Status, address string, at time.Time) entity.Order {
	return entity.Order{CustomerID: customer, TotalAmount: total, Status: status, Address: address, CreatedAt: at}
}

func TestContribution(t *testing.T) {
	o := &entity.Order{TotalAmount: 300000, Status: entity.StatusNew}
	assert.Equal(t, Aggregate{OrderCount: 1, LifetimeSpend: 300000}, Contribution(o))

	o.Status = entity.StatusCanceled
	assert.True(t, Contribution(o).IsZero())
	assert.True(t, Contribution(nil).IsZero())
}

func TestDelta(t *testing.T) {
	before := &entity.Order{TotalAmount: 300000, Status: entity.StatusQueued}
	after := &entity.Order{TotalAmount: 350000, Status: entity.StatusQueued}
	assert.Equal(t, Aggregate{LifetimeSpend: 50000}, Delta(before, after))

	canceled := &entity.Order{TotalAmount: 350000, Status: entity.StatusCanceled}
	assert.Equal(t, Aggregate{OrderCount: -1, LifetimeSpend: -350000}, Delta(after, canceled))
	assert.Equal(t, Aggregate{OrderCount: 1, LifetimeSpend: 350000}, Delta(nil, after))
}

func TestIncrementalMatchesReconcile(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a1 := order("c1", 200000, entity.StatusNew, "Hà Nội", day)
	a2 := order("c1", 300000, entity.StatusNew, "Đà Nẵng", day.Add(time.Hour))

	// incremental: two creations, then a2's total edited, then a1 canceled
	var running Aggregate
	running = running.Add(Delta(nil, &a1))
	running = running.Add(Delta(nil, &a2))
	edited := a2
	edited.TotalAmount = 320000
	running = running.Add(Delta(&a2, &edited))
	canceled := a1
	canceled.Status = entity.StatusCanceled
	running = running.Add(Delta(&a1, &canceled))

	tally := TallyByCustomer([]entity.Order{canceled, edited})["c1"]
	assert.Equal(t, running, tally.Aggregate)
	assert.Equal(t, Aggregate{OrderCount: 1, LifetimeSpend: 320000}, tally.Aggregate)
	assert.Equal(t, "Đà Nẵng", tally.LatestAddress)
}

func TestReconcileIsFixedPoint(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	customers := []entity.Customer{
		{ID: "c1", OrderCount: 5, LifetimeSpend: 1, Address: "cũ"},
		{ID: "c2", OrderCount: 1, LifetimeSpend: 100000},
		{ID: "c3", OrderCount: 2, LifetimeSpend: 900000, Address: "Huế"},
	}
	orders := []entity.Order{
		order("c1", 200000, entity.StatusCompleted, "Hà Nội", day),
		order("c1", 100000, entity.StatusQueued, "Hải Phòng", day.Add(time.Hour)),
		order("c2", 100000, entity.StatusNew, "", day),
		order("c3", 900000, entity.StatusCanceled, "Huế", day),
		order("", 50000, entity.StatusNew, "x", day),
	}

	changes := Reconcile(customers, orders)
	require.Len(t, changes, 2)
	assert.Equal(t, "c1", changes[0].CustomerID)
	assert.Equal(t, Aggregate{OrderCount: 2, LifetimeSpend: 300000}, changes[0].After)
	assert.Equal(t, "Hải Phòng", changes[0].Address)
	assert.Equal(t, "c3", changes[1].CustomerID)
	assert.True(t, changes[1].After.IsZero())

	applied := apply(customers, changes)
	assert.Empty(t, Reconcile(applied, orders))
	assert.Equal(t, applied, apply(applied, Reconcile(applied, orders)))
}

func apply(customers []entity.Customer, changes []Change) []entity.Customer {
	out := append([]entity.Customer(nil), customers...)
	for _, ch := range changes {
		for i := range out {
			if out[i].ID == ch.CustomerID {
				out[i].OrderCount = ch.After.OrderCount
				out[i].LifetimeSpend = ch.After.LifetimeSpend
				out[i].Address = ch.Address
			}
		}
	}
	return out
}

func TestRankOf(t *testing.T) {
	assert.Equal(t, RankSilver, RankOf(0))
	assert.Equal(t, RankSilver, RankOf(499_999))
	assert.Equal(t, RankGold, RankOf(500_000))
	assert.Equal(t, RankGold, RankOf(4_999_999))
	assert.Equal(t, RankDiamond, RankOf(5_000_000))
}
