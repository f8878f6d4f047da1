package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/errs"
	"github.com/quanghuydn8/app-theu/internal/order/ledger"
	"github.com/quanghuydn8/app-theu/internal/order/repository"
)

// MemStore is an in-memory order and customer store with the same contract
// as the gorm repositories.
type MemStore struct {
	mu        sync.Mutex
	seq       int
	clock     time.Time
	orders    map[string]*entity.Order
	items     map[string]*entity.OrderItem
	customers map[string]*entity.Customer

	// FailAggregate makes AddAggregate fail, to simulate a lost ledger write.
	FailAggregate error
}

func NewMemStore() *MemStore {
	return &MemStore{
		clock:     time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		orders:    map[string]*entity.Order{},
		items:     map[string]*entity.OrderItem{},
		customers: map[string]*entity.Customer{},
	}
}

// tick returns a strictly increasing timestamp so insertion order is stable.
func (m *MemStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *MemStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%04d", prefix, m.seq)
}

func (m *MemStore) loadOrder(o *entity.Order) entity.Order {
	out := *o
	out.Tags = append(entity.StringList{}, o.Tags...)
	out.Items = m.sortedItems(o.Code)
	out.SyncDerived()
	return out
}

func (m *MemStore) sortedItems(code string) []entity.OrderItem {
	var out []entity.OrderItem
	for _, it := range m.items {
		if it.OrderCode == code {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *MemStore) GetOrder(ctx context.Context, code string) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[code]
	if !ok {
		return nil, errs.NotFound("order", code)
	}
	out := m.loadOrder(o)
	return &out, nil
}

func (m *MemStore) ListOrders(ctx context.Context, f repository.OrderFilter) ([]entity.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kw := strings.ToLower(strings.TrimSpace(f.Keyword))
	var matched []entity.Order
	for _, o := range m.orders {
		if kw != "" && !strings.Contains(strings.ToLower(o.Code+"\n"+o.CustomerName+"\n"+o.Phone), kw) {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.Shop != "" && o.Shop != f.Shop {
			continue
		}
		if f.Printed != nil && o.Printed != *f.Printed {
			continue
		}
		out := *o
		out.Items = nil
		out.SyncDerived()
		matched = append(matched, out)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	page, pageSize := repository.Page(f.Page, f.PageSize)
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

func (m *MemStore) AllOrders(ctx context.Context) ([]entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Order
	for _, o := range m.orders {
		c := *o
		c.Items = nil
		c.SyncDerived()
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) ListOrdersByCustomer(ctx context.Context, customerID string) ([]entity.Order, error) {
	all, _ := m.AllOrders(ctx)
	var out []entity.Order
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].CustomerID == customerID {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (m *MemStore) InsertOrder(ctx context.Context, o *entity.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.Code]; ok {
		return errs.Validation("order_code", "order code "+o.Code+" already exists")
	}
	if o.ID == "" {
		o.ID = m.nextID("o")
	}
	now := m.tick()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	for i := range o.Items {
		it := &o.Items[i]
		if it.ID == "" {
			it.ID = m.nextID("i")
		}
		it.OrderCode = o.Code
		it.CreatedAt, it.UpdatedAt = m.tick(), now
		stored := *it
		m.items[it.ID] = &stored
	}
	stored := *o
	stored.Items = nil
	stored.Tags = append(entity.StringList{}, o.Tags...)
	m.orders[o.Code] = &stored
	return nil
}

func (m *MemStore) UpdateOrder(ctx context.Context, code string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[code]
	if !ok {
		return errs.NotFound("order", code)
	}
	for col, v := range fields {
		if err := setOrderColumn(o, col, v); err != nil {
			return err
		}
	}
	o.UpdatedAt = m.tick()
	return nil
}

func setOrderColumn(o *entity.Order, col string, v interface{}) error {
	switch col {
	case "customer_id":
		o.CustomerID = v.(string)
	case "customer_name":
		o.CustomerName = v.(string)
	case "phone":
		o.Phone = v.(string)
	case "address":
		o.Address = v.(string)
	case "facebook_id":
		o.FacebookID = v.(string)
	case "notes":
		o.Notes = v.(string)
	case "shop":
		o.Shop = v.(entity.Shop)
	case "status":
		o.Status = v.(entity.Status)
	case "order_date":
		t := v.(time.Time)
		o.OrderDate = &t
	case "due_date":
		t := v.(time.Time)
		o.DueDate = &t
	case "has_fixed_deadline":
		o.HasFixedDeadline = v.(bool)
	case "printed":
		o.Printed = v.(bool)
	case "total_amount":
		o.TotalAmount = v.(int64)
	case "deposit_amount":
		o.DepositAmount = v.(int64)
	case "payment_method":
		o.PaymentMethod = v.(entity.PaymentMethod)
	case "shipping_method":
		o.ShippingMethod = v.(entity.ShippingMethod)
	case "production_tags":
		o.Tags = append(entity.StringList{}, v.(entity.StringList)...)
	default:
		return fmt.Errorf("memstore: unknown order column %q", col)
	}
	return nil
}

func (m *MemStore) MarkPrinted(ctx context.Context, codes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, code := range codes {
		if o, ok := m.orders[code]; ok {
			o.Printed = true
		}
	}
	return nil
}

func (m *MemStore) ListItems(ctx context.Context, code string) ([]entity.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedItems(code), nil
}

func (m *MemStore) GetItem(ctx context.Context, id string) (*entity.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, errs.NotFound("item", id)
	}
	out := *it
	return &out, nil
}

func (m *MemStore) UpdateItemFields(ctx context.Context, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return errs.NotFound("item", id)
	}
	for col, v := range fields {
		s, _ := v.(string)
		switch col {
		case "correction_request":
			it.CorrectionRequest = s
		default:
			slot, ok := slotOf(col)
			if !ok {
				return fmt.Errorf("memstore: unknown item column %q", col)
			}
			it.SetImage(slot, s)
		}
	}
	return nil
}

func slotOf(col string) (entity.ImageSlot, bool) {
	for slot, c := range entity.SlotColumns {
		if c == col {
			return slot, true
		}
	}
	return "", false
}

func (m *MemStore) GetCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, errs.NotFound("customer", id)
	}
	out := *c
	return &out, nil
}

func (m *MemStore) GetCustomerByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.Phone == phone {
			out := *c
			return &out, nil
		}
	}
	return nil, errs.NotFound("customer", phone)
}

func (m *MemStore) ListCustomers(ctx context.Context, f repository.CustomerFilter) ([]entity.Customer, int64, error) {
	all, _ := m.AllCustomers(ctx)
	kw := strings.ToLower(strings.TrimSpace(f.Keyword))
	var matched []entity.Customer
	for _, c := range all {
		if kw == "" || strings.Contains(strings.ToLower(c.Phone+"\n"+c.Name), kw) {
			matched = append(matched, c)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].LifetimeSpend > matched[j].LifetimeSpend })

	page, pageSize := repository.Page(f.Page, f.PageSize)
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

func (m *MemStore) AllCustomers(ctx context.Context) ([]entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Customer
	for _, c := range m.customers {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) UpsertProfile(ctx context.Context, c *entity.Customer) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.customers {
		if existing.Phone == c.Phone {
			existing.Name, existing.Address, existing.SourceShop = c.Name, c.Address, c.SourceShop
			if c.FacebookID != "" {
				existing.FacebookID = c.FacebookID
			}
			existing.UpdatedAt = m.tick()
			return existing.ID, nil
		}
	}
	stored := *c
	stored.ID = m.nextID("c")
	stored.OrderCount, stored.LifetimeSpend = 0, 0
	stored.CreatedAt = m.tick()
	stored.UpdatedAt = stored.CreatedAt
	m.customers[stored.ID] = &stored
	return stored.ID, nil
}

func (m *MemStore) AddAggregate(ctx context.Context, id string, delta ledger.Aggregate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAggregate != nil {
		return m.FailAggregate
	}
	c, ok := m.customers[id]
	if !ok {
		return errs.NotFound("customer", id)
	}
	c.OrderCount += delta.OrderCount
	c.LifetimeSpend += delta.LifetimeSpend
	return nil
}

func (m *MemStore) ApplyChanges(ctx context.Context, changes []ledger.Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range changes {
		c, ok := m.customers[ch.CustomerID]
		if !ok {
			continue
		}
		c.OrderCount, c.LifetimeSpend = ch.After.OrderCount, ch.After.LifetimeSpend
		if ch.Address != "" {
			c.Address = ch.Address
		}
	}
	return nil
}
