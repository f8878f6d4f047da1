package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/errs"
	"github.com/quanghuydn8/app-theu/internal/order/ledger"
	"github.com/quanghuydn8/app-theu/internal/order/repository"
)

// CustomerProfile is the customer data an order carries.
type CustomerProfile struct {
	Phone      string
	Name       string
	Address    string
	Shop       entity.Shop
	FacebookID string
}

// CustomerView is a customer with its rank.
type CustomerView struct {
	entity.Customer
	Rank ledger.Rank `json:"rank"`
}

func viewOf(c entity.Customer) CustomerView {
	return CustomerView{Customer: c, Rank: ledger.RankOf(c.LifetimeSpend)}
}

// CustomerService keeps customer aggregates in step with the orders.
// Aggregate writes after an order mutation are best effort: a failure is
// logged and repaired by ReconcileAll.
type CustomerService struct {
	customers CustomerStore
	orders    OrderStore
	logger    *zap.Logger
}

func NewCustomerService(customers CustomerStore, orders OrderStore, logger *zap.Logger) *CustomerService {
	return &CustomerService{customers: customers, orders: orders, logger: logger}
}

// UpsertCustomer refreshes the profile for p.Phone, creating the customer if
// needed, and counts one more order. It returns the customer id.
func (s *CustomerService) UpsertCustomer(ctx context.Context, p CustomerProfile) (string, error) {
	phone := strings.TrimSpace(p.Phone)
	if phone == "" {
		return "", errs.Validation("phone", "phone is required to link a customer")
	}
	id, err := s.customers.UpsertProfile(ctx, &entity.Customer{
		Phone:      phone,
		Name:       p.Name,
		Address:    p.Address,
		SourceShop: p.Shop,
		FacebookID: p.FacebookID,
	})
	if err != nil {
		return "", fmt.Errorf("upsert customer: %w", err)
	}
	if err := s.customers.AddAggregate(ctx, id, ledger.Aggregate{OrderCount: 1}); err != nil {
		return "", fmt.Errorf("count customer order: %w", err)
	}
	return id, nil
}

// RecordSpend adds amount to the customer's lifetime spend.
func (s *CustomerService) RecordSpend(ctx context.Context, customerID string, amount int64) {
	s.add(ctx, customerID, ledger.Aggregate{LifetimeSpend: amount})
}

// undoUpsert takes back the order counted by UpsertCustomer when the order
// itself could not be saved.
func (s *CustomerService) undoUpsert(ctx context.Context, customerID string) {
	s.add(ctx, customerID, ledger.Aggregate{OrderCount: -1})
}

// applyDelta moves a customer's aggregate by the difference between two
// versions of one order.
func (s *CustomerService) applyDelta(ctx context.Context, before, after *entity.Order) {
	if after.CustomerID == "" {
		return
	}
	s.add(ctx, after.CustomerID, ledger.Delta(before, after))
}

func (s *CustomerService) add(ctx context.Context, customerID string, delta ledger.Aggregate) {
	if customerID == "" || delta.IsZero() {
		return
	}
	if err := s.customers.AddAggregate(ctx, customerID, delta); err != nil {
		s.logger.Warn("update customer aggregate failed, run reconcile to repair",
			zap.String("customer_id", customerID),
			zap.Int64("order_count_delta", delta.OrderCount),
			zap.Int64("spend_delta", delta.LifetimeSpend),
			zap.Error(err))
	}
}

// ReconcileAll rebuilds every customer aggregate from the orders and returns
// what it changed. Running it again right away changes nothing.
func (s *CustomerService) ReconcileAll(ctx context.Context) ([]ledger.Change, error) {
	customers, err := s.customers.AllCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	orders, err := s.orders.AllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	changes := ledger.Reconcile(customers, orders)
	if err := s.customers.ApplyChanges(ctx, changes); err != nil {
		return nil, fmt.Errorf("apply ledger changes: %w", err)
	}
	if len(changes) > 0 {
		s.logger.Info("customer ledger reconciled", zap.Int("changed", len(changes)))
	}
	return changes, nil
}

func (s *CustomerService) List(ctx context.Context, f repository.CustomerFilter) ([]CustomerView, int64, error) {
	items, total, err := s.customers.ListCustomers(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	views := make([]CustomerView, 0, len(items))
	for _, c := range items {
		views = append(views, viewOf(c))
	}
	return views, total, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*CustomerView, error) {
	c, err := s.customers.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	v := viewOf(*c)
	return &v, nil
}

// History lists the customer's orders, newest first.
func (s *CustomerService) History(ctx context.Context, id string) ([]entity.Order, error) {
	if _, err := s.customers.GetCustomer(ctx, id); err != nil {
		return nil, err
	}
	return s.orders.ListOrdersByCustomer(ctx, id)
}
