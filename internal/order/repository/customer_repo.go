package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/errs"
	"github.com/quanghuydn8/app-theu/internal/order/ledger"
)

// CustomerFilter narrows a customer listing.
type CustomerFilter struct {
	Keyword  string
	Page     int
	PageSize int
}

// CustomerRepository stores customers keyed by phone.
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) GetCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CustomerRepository) GetCustomerByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	return r.first(ctx, "phone = ?", phone)
}

func (r *CustomerRepository) first(ctx context.Context, where string, key string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.db.WithContext(ctx).Where(where, key).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("customer", key)
		}
		return nil, err
	}
	return &c, nil
}

// ListCustomers searches by phone or name substring, biggest spenders first.
func (r *CustomerRepository) ListCustomers(ctx context.Context, f CustomerFilter) ([]entity.Customer, int64, error) {
	var items []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{})
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + kw + "%"
		query = query.Where("phone ILIKE ? OR name ILIKE ?", like, like)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := Page(f.Page, f.PageSize)
	err := query.
		Order("lifetime_spend DESC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

func (r *CustomerRepository) AllCustomers(ctx context.Context) ([]entity.Customer, error) {
	var items []entity.Customer
	err := r.db.WithContext(ctx).Find(&items).Error
	return items, err
}

// UpsertProfile creates the customer for c.Phone or refreshes its name,
// address and shop. An empty facebook id keeps the stored one. Aggregates
// are not touched. It returns the customer id.
func (r *CustomerRepository) UpsertProfile(ctx context.Context, c *entity.Customer) (string, error) {
	if c.ID == "" {
		c.ID = newID()
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "phone"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"name":        gorm.Expr("excluded.name"),
			"address":     gorm.Expr("excluded.address"),
			"source_shop": gorm.Expr("excluded.source_shop"),
			"facebook_id": gorm.Expr("COALESCE(NULLIF(excluded.facebook_id, ''), customers.facebook_id)"),
			"updated_at":  gorm.Expr("excluded.updated_at"),
		}),
	}).Omit("order_count", "lifetime_spend").Create(c).Error
	if err != nil {
		return "", err
	}

	stored, err := r.GetCustomerByPhone(ctx, c.Phone)
	if err != nil {
		return "", err
	}
	return stored.ID, nil
}

// AddAggregate applies a ledger delta atomically.
func (r *CustomerRepository) AddAggregate(ctx context.Context, id string, delta ledger.Aggregate) error {
	if delta.IsZero() {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&entity.Customer{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"order_count":    gorm.Expr("order_count + ?", delta.OrderCount),
			"lifetime_spend": gorm.Expr("lifetime_spend + ?", delta.LifetimeSpend),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("customer", id)
	}
	return nil
}

// ApplyChanges overwrites aggregates (and the address when known) in one transaction.
func (r *CustomerRepository) ApplyChanges(ctx context.Context, changes []ledger.Change) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ch := range changes {
			fields := map[string]interface{}{
				"order_count":    ch.After.OrderCount,
				"lifetime_spend": ch.After.LifetimeSpend,
			}
			if ch.Address != "" {
				fields["address"] = ch.Address
			}
			if err := tx.Model(&entity.Customer{}).Where("id = ?", ch.CustomerID).UpdateColumns(fields).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
