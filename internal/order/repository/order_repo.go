package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/errs"
)

// OrderFilter narrows an order listing. Zero values mean "any".
type OrderFilter struct {
	Keyword  string
	Status   entity.Status
	Shop     entity.Shop
	Printed  *bool
	Page     int
	PageSize int
}

// OrderRepository stores orders and their items.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// GetOrder loads one order with its items.
func (r *OrderRepository) GetOrder(ctx context.Context, code string) (*entity.Order, error) {
	var o entity.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("order_code = ?", code).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("order", code)
		}
		return nil, err
	}
	return &o, nil
}

// ListOrders returns one page of orders, newest first, and the total match count.
func (r *OrderRepository) ListOrders(ctx context.Context, f OrderFilter) ([]entity.Order, int64, error) {
	var items []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + kw + "%"
		query = query.Where("order_code ILIKE ? OR customer_name ILIKE ? OR phone ILIKE ?", like, like, like)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Shop != "" {
		query = query.Where("shop = ?", f.Shop)
	}
	if f.Printed != nil {
		query = query.Where("printed = ?", *f.Printed)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := Page(f.Page, f.PageSize)
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

// AllOrders returns every order without items; used by ledger rebuilds and the dashboard.
func (r *OrderRepository) AllOrders(ctx context.Context) ([]entity.Order, error) {
	var items []entity.Order
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *OrderRepository) ListOrdersByCustomer(ctx context.Context, customerID string) ([]entity.Order, error) {
	var items []entity.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// InsertOrder creates the order and its items in one transaction. A taken
// code is a validation failure.
func (r *OrderRepository) InsertOrder(ctx context.Context, o *entity.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.Order{}).Where("order_code = ?", o.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.Validation("order_code", "order code "+o.Code+" already exists")
		}

		if o.ID == "" {
			o.ID = newID()
		}
		items := o.Items
		o.Items = nil
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		for i := range items {
			if items[i].ID == "" {
				items[i].ID = newID()
			}
			items[i].OrderCode = o.Code
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		o.Items = items
		return nil
	})
}

// UpdateOrder writes the given columns of one order.
func (r *OrderRepository) UpdateOrder(ctx context.Context, code string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("order_code = ?", code).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("order", code)
	}
	return nil
}

// MarkPrinted stamps every listed order as printed.
func (r *OrderRepository) MarkPrinted(ctx context.Context, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("order_code IN ?", codes).
		Update("printed", true).Error
}

// ListItems returns an order's items in entry order.
func (r *OrderRepository) ListItems(ctx context.Context, code string) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_code = ?", code).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *OrderRepository) GetItem(ctx context.Context, id string) (*entity.OrderItem, error) {
	var item entity.OrderItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("item", id)
		}
		return nil, err
	}
	return &item, nil
}

// UpdateItemFields writes the given columns of one item.
func (r *OrderRepository) UpdateItemFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&entity.OrderItem{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("item", id)
	}
	return nil
}
