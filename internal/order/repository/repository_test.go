package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/errs"
	"github.com/quanghuydn8/app-theu/internal/order/ledger"
	"github.com/quanghuydn8/app-theu/internal/order/repository"
	"github.com/quanghuydn8/app-theu/internal/order/testutil"
)

func TestPage(t *testing.T) {
	p, s := repository.Page(0, 0)
	assert.Equal(t, 1, p)
	assert.Equal(t, 20, s)
	_, s = repository.Page(2, 1000)
	assert.Equal(t, 200, s)
}

func TestOrderRepository_InsertAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()

	o := &entity.Order{
		Code:         "ORD-1",
		CustomerName: "Lan",
		Phone:        "0901",
		Shop:         entity.ShopTGTD,
		Status:       entity.StatusNew,
		Tags:         entity.StringList{"EMBROIDERY"},
		Items: []entity.OrderItem{
			{ProductName: "Hoodie", Quantity: 1},
			{ProductName: "Polo", Quantity: 2},
		},
	}
	require.NoError(t, repo.InsertOrder(ctx, o))
	assert.Len(t, o.ID, 32)

	got, err := repo.GetOrder(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ShopTGTD, got.Shop)
	assert.Equal(t, entity.StringList{"EMBROIDERY"}, got.Tags)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "ORD-1", got.Items[0].OrderCode)

	err = repo.InsertOrder(ctx, &entity.Order{Code: "ORD-1", CustomerName: "B"})
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	_, err = repo.GetOrder(ctx, "ORD-404")
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestOrderRepository_ListUpdateAndPrint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()
	testutil.SeedOrder(t, db, "ORD-A", entity.ShopInside, entity.StatusNew)
	testutil.SeedOrder(t, db, "ORD-B", entity.ShopLanhCanh, entity.StatusQueued)

	items, total, err := repo.ListOrders(ctx, repository.OrderFilter{Shop: entity.ShopLanhCanh})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "ORD-B", items[0].Code)

	_, total, err = repo.ListOrders(ctx, repository.OrderFilter{Keyword: "khách ord-a"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	require.NoError(t, repo.UpdateOrder(ctx, "ORD-A", map[string]interface{}{"status": entity.StatusConfirmed}))
	err = repo.UpdateOrder(ctx, "ORD-Z", map[string]interface{}{"status": entity.StatusConfirmed})
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

	require.NoError(t, repo.MarkPrinted(ctx, []string{"ORD-A", "ORD-B"}))
	printed := true
	_, total, err = repo.ListOrders(ctx, repository.OrderFilter{Printed: &printed})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	item, err := repo.GetItem(ctx, "i-ORD-A")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateItemFields(ctx, item.ID, map[string]interface{}{"img_main": "/a.png"}))
	item, err = repo.GetItem(ctx, "i-ORD-A")
	require.NoError(t, err)
	assert.Equal(t, "/a.png", item.ImgMain)
}

func TestCustomerRepository_UpsertKeepsAggregates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCustomerRepository(db)
	ctx := context.Background()

	id, err := repo.UpsertProfile(ctx, &entity.Customer{Phone: "0909", Name: "Lan", FacebookID: "fb.lan"})
	require.NoError(t, err)
	require.NoError(t, repo.AddAggregate(ctx, id, ledger.Aggregate{OrderCount: 1, LifetimeSpend: 300000}))

	again, err := repo.UpsertProfile(ctx, &entity.Customer{Phone: "0909", Name: "Lan Nguyễn", Address: "Hà Nội"})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	c, err := repo.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Lan Nguyễn", c.Name)
	assert.Equal(t, "fb.lan", c.FacebookID)
	assert.Equal(t, int64(1), c.OrderCount)
	assert.Equal(t, int64(300000), c.LifetimeSpend)

	require.NoError(t, repo.ApplyChanges(ctx, []ledger.Change{{
		CustomerID: id,
		After:      ledger.Aggregate{OrderCount: 2, LifetimeSpend: 500000},
	}}))
	c, err = repo.GetCustomerByPhone(ctx, "0909")
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.OrderCount)
	assert.Equal(t, "Hà Nội", c.Address)

	err = repo.AddAggregate(ctx, "missing", ledger.Aggregate{OrderCount: 1})
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestSummaryCache_NilClient(t *testing.T) {
	c := repository.NewSummaryCache(nil, 0)
	_, ok := c.Get(context.Background())
	assert.False(t, ok)
	assert.NoError(t, c.Set(context.Background(), nil))
	assert.NoError(t, c.Invalidate(context.Background()))
}
