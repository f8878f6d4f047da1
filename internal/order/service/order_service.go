package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/quanghuydn8/app-theu/internal/order/alert"
	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/errs"
	"github.com/quanghuydn8/app-theu/internal/order/export"
	"github.com/quanghuydn8/app-theu/internal/order/intake"
	"github.com/quanghuydn8/app-theu/internal/order/ledger"
	"github.com/quanghuydn8/app-theu/internal/order/normalize"
	"github.com/quanghuydn8/app-theu/internal/order/printing"
	"github.com/quanghuydn8/app-theu/internal/order/repository"
	"github.com/quanghuydn8/app-theu/internal/order/workflow"
)

const orderCodeLayout = "ORD-0102-1504-05"

// OrderService runs every order mutation: validation, the customer ledger,
// tag alerts, live events and cache invalidation.
type OrderService struct {
	orders    OrderStore
	customers *CustomerService
	compiler  *printing.Compiler
	cache     SummaryCache
	events    Publisher
	alerts    *alert.Dispatcher
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrderService(d Deps, customers *CustomerService) *OrderService {
	return &OrderService{
		orders:    d.Orders,
		customers: customers,
		compiler:  printing.NewCompiler(d.Orders),
		cache:     d.Cache,
		events:    d.Events,
		alerts:    d.Alerts,
		logger:    d.Logger,
		now:       d.Now,
	}
}

type ItemInput struct {
	ProductName       string `json:"product_name"`
	Color             string `json:"color"`
	Size              string `json:"size"`
	EmbroideryRequest string `json:"embroidery_request"`
	Quantity          int    `json:"quantity"`
}

// CreateOrderRequest is a new order. Dates accept ISO or day-first text;
// an empty due date applies the lead-time rule.
type CreateOrderRequest struct {
	OrderCode        string                `json:"order_code"`
	CustomerName     string                `json:"customer_name"`
	Phone            string                `json:"phone"`
	Address          string                `json:"address"`
	FacebookID       string                `json:"facebook_id"`
	Shop             string                `json:"shop"`
	OrderDate        string                `json:"order_date"`
	DueDate          string                `json:"due_date"`
	HasFixedDeadline bool                  `json:"has_fixed_deadline"`
	TotalAmount      int64                 `json:"total_amount"`
	DepositAmount    int64                 `json:"deposit_amount"`
	PaymentMethod    entity.PaymentMethod  `json:"payment_method"`
	ShippingMethod   entity.ShippingMethod `json:"shipping_method"`
	Tags             []string              `json:"production_tags"`
	Notes            string                `json:"notes"`
	Items            []ItemInput           `json:"items"`
}

// UpdateOrderRequest changes the non-nil fields. Status has its own operation.
type UpdateOrderRequest struct {
	CustomerName     *string                `json:"customer_name"`
	Phone            *string                `json:"phone"`
	Address          *string                `json:"address"`
	FacebookID       *string                `json:"facebook_id"`
	Shop             *string                `json:"shop"`
	OrderDate        *string                `json:"order_date"`
	DueDate          *string                `json:"due_date"`
	HasFixedDeadline *bool                  `json:"has_fixed_deadline"`
	TotalAmount      *int64                 `json:"total_amount"`
	DepositAmount    *int64                 `json:"deposit_amount"`
	PaymentMethod    *entity.PaymentMethod  `json:"payment_method"`
	ShippingMethod   *entity.ShippingMethod `json:"shipping_method"`
	Tags             *[]string              `json:"production_tags"`
	Notes            *string                `json:"notes"`
}

// PrintCheck is the print gate's answer for one order.
type PrintCheck struct {
	OrderCode string `json:"order_code"`
	Allowed   bool   `json:"allowed"`
	Reason    string `json:"reason"`
}

func (s *OrderService) Get(ctx context.Context, code string) (*entity.Order, error) {
	return s.orders.GetOrder(ctx, code)
}

func (s *OrderService) List(ctx context.Context, f repository.OrderFilter) ([]entity.Order, int64, error) {
	return s.orders.ListOrders(ctx, f)
}

// Create saves a new order in status NEW and links it to its customer when
// a phone is given.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderRequest) (*entity.Order, error) {
	now := s.now()

	code := strings.TrimSpace(req.OrderCode)
	if code == "" {
		code = now.Format(orderCodeLayout)
	}
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, errs.Validation("customer_name", "customer name is required")
	}
	if len(req.Items) == 0 {
		return nil, errs.Validation("items", "at least one item is required")
	}
	if err := workflow.ValidateFinancials(req.TotalAmount, req.DepositAmount); err != nil {
		return nil, err
	}
	payment, shipping, err := methods(req.PaymentMethod, req.ShippingMethod)
	if err != nil {
		return nil, err
	}

	o := &entity.Order{
		Code:             code,
		CustomerName:     name,
		Phone:            strings.TrimSpace(req.Phone),
		Address:          strings.TrimSpace(req.Address),
		FacebookID:       strings.TrimSpace(req.FacebookID),
		Shop:             entity.ParseShop(req.Shop),
		Status:           entity.StatusNew,
		HasFixedDeadline: req.HasFixedDeadline,
		TotalAmount:      req.TotalAmount,
		DepositAmount:    req.DepositAmount,
		PaymentMethod:    payment,
		ShippingMethod:   shipping,
		Tags:             entity.NormalizeTags(req.Tags),
		Notes:            req.Notes,
	}
	names := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		o.Items = append(o.Items, entity.OrderItem{
			ProductName:       strings.TrimSpace(it.ProductName),
			Color:             it.Color,
			Size:              it.Size,
			EmbroideryRequest: it.EmbroideryRequest,
			Quantity:          qty,
		})
		names = append(names, it.ProductName)
	}

	orderDate := normalize.DateOf(now)
	if req.OrderDate != "" {
		d := normalize.ParseDate(req.OrderDate, now)
		if d == nil {
			return nil, errs.Validation("order_date", fmt.Sprintf("cannot read date %q", req.OrderDate))
		}
		orderDate = *d
	}
	dueDate := normalize.AddDays(orderDate, intake.LeadDays(names))
	if req.DueDate != "" {
		d := normalize.ParseDate(req.DueDate, now)
		if d == nil {
			return nil, errs.Validation("due_date", fmt.Sprintf("cannot read date %q", req.DueDate))
		}
		dueDate = *d
	}
	o.OrderDate, o.DueDate = &orderDate, &dueDate
	o.SyncDerived()

	if _, err := s.orders.GetOrder(ctx, code); err == nil {
		return nil, errs.Validation("order_code", "order code "+code+" already exists")
	} else if errs.KindOf(err) != errs.KindNotFound {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if o.Phone != "" {
		id, err := s.customers.UpsertCustomer(ctx, CustomerProfile{
			Phone:      o.Phone,
			Name:       o.CustomerName,
			Address:    o.Address,
			Shop:       o.Shop,
			FacebookID: o.FacebookID,
		})
		if err != nil {
			return nil, fmt.Errorf("create order: %w", err)
		}
		o.CustomerID = id
	}

	if err := s.orders.InsertOrder(ctx, o); err != nil {
		if o.CustomerID != "" {
			s.customers.undoUpsert(ctx, o.CustomerID)
		}
		if errs.KindOf(err) == errs.KindValidation {
			return nil, err
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	if o.CustomerID != "" {
		s.customers.RecordSpend(ctx, o.CustomerID, ledger.Contribution(o).LifetimeSpend)
	}

	s.changed(ctx, o.Code, "create")
	return o, nil
}

// Update applies field edits. Financial edits keep the customer ledger in
// step; newly added alert tags notify the workshop.
func (s *OrderService) Update(ctx context.Context, code string, req *UpdateOrderRequest) (*entity.Order, error) {
	before, err := s.orders.GetOrder(ctx, code)
	if err != nil {
		return nil, err
	}
	after := *before
	fields := map[string]interface{}{}

	setText := func(column string, dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
			fields[column] = *dst
		}
	}
	setText("customer_name", &after.CustomerName, req.CustomerName)
	setText("phone", &after.Phone, req.Phone)
	setText("address", &after.Address, req.Address)
	setText("facebook_id", &after.FacebookID, req.FacebookID)
	if req.Notes != nil {
		after.Notes = *req.Notes
		fields["notes"] = after.Notes
	}
	if req.CustomerName != nil && after.CustomerName == "" {
		return nil, errs.Validation("customer_name", "customer name is required")
	}

	if req.Shop != nil {
		after.Shop = entity.ParseShop(*req.Shop)
		fields["shop"] = after.Shop
	}
	for _, d := range []struct {
		column string
		text   *string
		dst    **time.Time
	}{
		{"order_date", req.OrderDate, &after.OrderDate},
		{"due_date", req.DueDate, &after.DueDate},
	} {
		if d.text == nil {
			continue
		}
		parsed := normalize.ParseDate(*d.text, s.now())
		if parsed == nil {
			return nil, errs.Validation(d.column, fmt.Sprintf("cannot read date %q", *d.text))
		}
		*d.dst = parsed
		fields[d.column] = *parsed
	}
	if req.HasFixedDeadline != nil {
		after.HasFixedDeadline = *req.HasFixedDeadline
		fields["has_fixed_deadline"] = after.HasFixedDeadline
	}

	if req.TotalAmount != nil {
		after.TotalAmount = *req.TotalAmount
		fields["total_amount"] = after.TotalAmount
	}
	if req.DepositAmount != nil {
		after.DepositAmount = *req.DepositAmount
		fields["deposit_amount"] = after.DepositAmount
	}
	if err := workflow.ValidateFinancials(after.TotalAmount, after.DepositAmount); err != nil {
		return nil, err
	}
	if req.PaymentMethod != nil || req.ShippingMethod != nil {
		p, sh := after.PaymentMethod, after.ShippingMethod
		if req.PaymentMethod != nil {
			p = *req.PaymentMethod
		}
		if req.ShippingMethod != nil {
			sh = *req.ShippingMethod
		}
		if after.PaymentMethod, after.ShippingMethod, err = methods(p, sh); err != nil {
			return nil, err
		}
		fields["payment_method"] = after.PaymentMethod
		fields["shipping_method"] = after.ShippingMethod
	}

	var alerts []alert.Alert
	if req.Tags != nil {
		after.Tags = entity.NormalizeTags(*req.Tags)
		fields["production_tags"] = after.Tags
		alerts = alert.Detect(code, before.Tags, after.Tags)
	}

	if len(fields) == 0 {
		return before, nil
	}
	if err := s.orders.UpdateOrder(ctx, code, fields); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	after.SyncDerived()

	s.customers.applyDelta(ctx, before, &after)
	s.alerts.Dispatch(alerts)
	s.changed(ctx, code, "update")
	return &after, nil
}

// ChangeStatus sets any status. Backward moves and moves out of a terminal
// status are allowed but logged for review.
func (s *OrderService) ChangeStatus(ctx context.Context, code, status string) (*entity.Order, error) {
	to, ok := entity.ParseStatus(status)
	if !ok {
		return nil, errs.Validation("status", fmt.Sprintf("unknown status %q", status))
	}
	o, err := s.orders.GetOrder(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.setStatus(ctx, o, to, true)
}

// Confirm moves a NEW order to CONFIRMED.
func (s *OrderService) Confirm(ctx context.Context, code string) (*entity.Order, error) {
	o, err := s.orders.GetOrder(ctx, code)
	if err != nil {
		return nil, err
	}
	if o.Status != entity.StatusNew {
		return nil, errs.Validation("status", fmt.Sprintf("only new orders can be confirmed, order is %s", o.Status.Label()))
	}
	return s.setStatus(ctx, o, entity.StatusConfirmed, false)
}

// SubmitDesign sends a design-flow order for customer approval.
func (s *OrderService) SubmitDesign(ctx context.Context, code string) (*entity.Order, error) {
	o, err := s.orders.GetOrder(ctx, code)
	if err != nil {
		return nil, err
	}
	if o.Shop.Profile().Flow != entity.FlowDesign {
		return nil, errs.Validation("shop", fmt.Sprintf("%s orders have no design approval step", o.Shop.Label()))
	}
	if o.Status != entity.StatusInDesign {
		return nil, errs.Validation("status", fmt.Sprintf("design can only be submitted from %s, order is %s",
			entity.StatusInDesign.Label(), o.Status.Label()))
	}
	return s.setStatus(ctx, o, entity.StatusAwaitingDesignApproval, false)
}

// SaveFeedback stores a correction request on an item and sends its order
// back to the production queue.
func (s *OrderService) SaveFeedback(ctx context.Context, itemID, feedback string) (*entity.OrderItem, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, errs.Validation("correction_request", "feedback is empty")
	}
	item, err := s.orders.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateItemFields(ctx, itemID, map[string]interface{}{"correction_request": feedback}); err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}
	item.CorrectionRequest = feedback

	o, err := s.orders.GetOrder(ctx, item.OrderCode)
	if err != nil {
		return nil, err
	}
	if _, err := s.setStatus(ctx, o, entity.StatusQueued, false); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *OrderService) setStatus(ctx context.Context, o *entity.Order, to entity.Status, review bool) (*entity.Order, error) {
	eff := workflow.Transition(o.Status, to)
	if !eff.Changed() {
		return o, nil
	}
	if err := s.orders.UpdateOrder(ctx, o.Code, map[string]interface{}{"status": to}); err != nil {
		return nil, fmt.Errorf("change status: %w", err)
	}
	if review && eff.NeedsReview() {
		s.logger.Warn("order status moved against the flow",
			zap.String("order_code", o.Code),
			zap.String("from", string(eff.From)),
			zap.String("to", string(eff.To)),
			zap.Bool("from_terminal", eff.FromTerminal))
	}

	after := *o
	after.Status = to
	s.customers.applyDelta(ctx, o, &after)
	s.changed(ctx, o.Code, "status")
	return &after, nil
}

func (s *OrderService) CheckPrint(ctx context.Context, code string) (*PrintCheck, error) {
	o, err := s.orders.GetOrder(ctx, code)
	if err != nil {
		return nil, err
	}
	allowed, reason := workflow.CheckPrintPermission(o)
	return &PrintCheck{OrderCode: code, Allowed: allowed, Reason: reason}, nil
}

// Print compiles a one-order run.
func (s *OrderService) Print(ctx context.Context, code string) (*printing.Batch, error) {
	if _, err := s.orders.GetOrder(ctx, code); err != nil {
		return nil, err
	}
	return s.PrintBatch(ctx, []string{code})
}

// PrintBatch compiles a run; any ineligible or unknown order rejects it whole.
func (s *OrderService) PrintBatch(ctx context.Context, codes []string) (*printing.Batch, error) {
	b, err := s.compiler.Compile(ctx, codes)
	if err != nil {
		var be *errs.BatchError
		if errors.As(err, &be) {
			return nil, err
		}
		return nil, fmt.Errorf("print batch: %w", err)
	}
	for _, code := range b.Codes() {
		s.events.PublishOrderUpdate(code, "printed")
	}
	return b, nil
}

// Export builds the courier workbook for the selected orders and moves the
// NEW and CONFIRMED ones into the production queue. The caller closes the file.
func (s *OrderService) Export(ctx context.Context, codes []string) (*excelize.File, error) {
	if len(codes) == 0 {
		return nil, errs.Validation("codes", "no orders selected")
	}
	rows := make([]export.Row, 0, len(codes))
	for _, code := range codes {
		o, err := s.orders.GetOrder(ctx, code)
		if err != nil {
			return nil, err
		}
		rows = append(rows, export.Row{Order: o, Items: o.Items})
	}

	f, err := export.Workbook(rows)
	if err != nil {
		return nil, fmt.Errorf("export orders: %w", err)
	}
	for _, r := range rows {
		if r.Order.Status == entity.StatusNew || r.Order.Status == entity.StatusConfirmed {
			if _, err := s.setStatus(ctx, r.Order, entity.StatusQueued, false); err != nil {
				f.Close()
				return nil, err
			}
		}
	}
	return f, nil
}

// ExportFilename names an export made now.
func (s *OrderService) ExportFilename() string {
	return export.Filename(s.now())
}

func (s *OrderService) changed(ctx context.Context, code, action string) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("invalidate dashboard cache failed", zap.Error(err))
	}
	s.events.PublishOrderUpdate(code, action)
}

func methods(p entity.PaymentMethod, sh entity.ShippingMethod) (entity.PaymentMethod, entity.ShippingMethod, error) {
	if p == "" {
		p = entity.PaymentCOD
	}
	if sh == "" {
		sh = entity.ShippingStandard
	}
	if p != entity.PaymentCOD && p != entity.PaymentPrepaid {
		return "", "", errs.Validation("payment_method", fmt.Sprintf("unknown payment method %q", p))
	}
	switch sh {
	case entity.ShippingStandard, entity.ShippingAir, entity.ShippingMotorbike:
	default:
		return "", "", errs.Validation("shipping_method", fmt.Sprintf("unknown shipping method %q", sh))
	}
	return p, sh, nil
}
