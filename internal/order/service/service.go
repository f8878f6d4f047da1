// Package service implements the order desk use cases on top of the domain
// packages and the storage ports declared here.
package service

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/quanghuydn8/app-theu/internal/order/alert"
	"github.com/quanghuydn8/app-theu/internal/order/dashboard"
	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/intake"
	"github.com/quanghuydn8/app-theu/internal/order/ledger"
	"github.com/quanghuydn8/app-theu/internal/order/printing"
	"github.com/quanghuydn8/app-theu/internal/order/repository"
)

// OrderStore is the order side of storage. Lookups return *errs.NotFoundError
// for unknown keys; InsertOrder returns *errs.ValidationError for a taken code.
type OrderStore interface {
	printing.Store
	ListOrders(ctx context.Context, f repository.OrderFilter) ([]entity.Order, int64, error)
	AllOrders(ctx context.Context) ([]entity.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]entity.Order, error)
	InsertOrder(ctx context.Context, o *entity.Order) error
	UpdateOrder(ctx context.Context, code string, fields map[string]interface{}) error
	GetItem(ctx context.Context, id string) (*entity.OrderItem, error)
	UpdateItemFields(ctx context.Context, id string, fields map[string]interface{}) error
}

// CustomerStore is the customer side of storage.
type CustomerStore interface {
	GetCustomer(ctx context.Context, id string) (*entity.Customer, error)
	GetCustomerByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	ListCustomers(ctx context.Context, f repository.CustomerFilter) ([]entity.Customer, int64, error)
	AllCustomers(ctx context.Context) ([]entity.Customer, error)
	UpsertProfile(ctx context.Context, c *entity.Customer) (string, error)
	AddAggregate(ctx context.Context, id string, delta ledger.Aggregate) error
	ApplyChanges(ctx context.Context, changes []ledger.Change) error
}

type SummaryCache interface {
	Get(ctx context.Context) (*dashboard.Summary, bool)
	Set(ctx context.Context, s *dashboard.Summary) error
	Invalidate(ctx context.Context) error
}

type ImageStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// Publisher announces order changes to live clients.
type Publisher interface {
	PublishOrderUpdate(orderCode, action string)
}

// Deps are the collaborators the services are built from. Cache, Images,
// Events, Alerts and Extractor may be nil.
type Deps struct {
	Orders    OrderStore
	Customers CustomerStore
	Cache     SummaryCache
	Images    ImageStore
	Events    Publisher
	Alerts    *alert.Dispatcher
	Extractor intake.Extractor
	Logger    *zap.Logger
	Now       func() time.Time
}

type Services struct {
	Order     *OrderService
	Customer  *CustomerService
	Intake    *IntakeService
	Image     *ImageService
	Dashboard *DashboardService
}

func NewServices(d Deps) *Services {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Cache == nil {
		d.Cache = noCache{}
	}
	if d.Events == nil {
		d.Events = noEvents{}
	}

	customers := NewCustomerService(d.Customers, d.Orders, d.Logger)
	orders := NewOrderService(d, customers)
	return &Services{
		Order:     orders,
		Customer:  customers,
		Intake:    NewIntakeService(d.Extractor, d.Now),
		Image:     NewImageService(d.Orders, d.Images, orders),
		Dashboard: NewDashboardService(d.Orders, d.Cache, d.Logger, d.Now),
	}
}

type noCache struct{}

func (noCache) Get(context.Context) (*dashboard.Summary, bool) { return nil, false }
func (noCache) Set(context.Context, *dashboard.Summary) error  { return nil }
func (noCache) Invalidate(context.Context) error               { return nil }

type noEvents struct{}

func (noEvents) PublishOrderUpdate(string, string) {}
