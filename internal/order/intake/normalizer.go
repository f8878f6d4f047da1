// Package intake turns the loosely typed output of the chat understanding
// step into an order draft, applying the shop's intake policy.
package intake

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/errs"
	"github.com/quanghuydn8/app-theu/internal/order/normalize"
)

// Draft is a normalized order that has not been saved yet. Every field has a
// usable value; Warnings lists the defaults applied after unreadable input.
type Draft struct {
	CustomerName     string                `json:"customer_name"`
	Phone            string                `json:"phone"`
	Address          string                `json:"address"`
	FacebookID       string                `json:"facebook_id"`
	Shop             entity.Shop           `json:"shop"`
	OrderDate        time.Time             `json:"order_date"`
	DueDate          time.Time             `json:"due_date"`
	DueDateExplicit  bool                  `json:"due_date_explicit"`
	HasFixedDeadline bool                  `json:"has_fixed_deadline"`
	TotalAmount      int64                 `json:"total_amount"`
	DepositAmount    int64                 `json:"deposit_amount"`
	PaymentMethod    entity.PaymentMethod  `json:"payment_method"`
	ShippingMethod   entity.ShippingMethod `json:"shipping_method"`
	Notes            string                `json:"notes"`
	Items            []DraftItem           `json:"items"`
	Warnings         []string              `json:"warnings,omitempty"`
}

type DraftItem struct {
	ProductName       string   `json:"product_name"`
	Color             string   `json:"color"`
	Size              string   `json:"size"`
	EmbroideryRequest string   `json:"embroidery_request"`
	Quantity          int      `json:"quantity"`
	Category          Category `json:"category"`
}

// Normalize maps payload (either {customer_info, products} or a single flat
// product record, possibly wrapped in a list) to a Draft. sourceText is the
// original chat and ref the day the chat is processed.
func Normalize(payload []byte, sourceText string, ref time.Time) (*Draft, error) {
	raw := string(payload)

	var decoded interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, errs.Extraction(raw, "payload is not valid JSON: "+err.Error())
	}
	if list, ok := decoded.([]interface{}); ok {
		if len(list) == 0 {
			return nil, errs.Extraction(raw, "empty list where an order object was expected")
		}
		decoded = list[0]
	}
	root, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, errs.Extraction(raw, "payload is not an object")
	}

	cust := root
	if info, ok := root["customer_info"].(map[string]interface{}); ok && len(info) > 0 {
		cust = info
	}

	d := &Draft{
		CustomerName: text(cust, "ten_khach", "ten_khach_hang"),
		Phone:        text(cust, "sdt", "so_dien_thoai"),
		Address:      text(cust, "dia_chi"),
		FacebookID:   text(cust, "facebook_id"),
		Shop:         entity.ParseShop(text(cust, "shop")),
		Notes:        text(cust, "ghi_chu"),
	}

	items, err := products(raw, root)
	if err != nil {
		return nil, err
	}
	d.Items = items

	d.TotalAmount = d.amount(cust, "tong_tien")
	d.DepositAmount = d.amount(cust, "da_coc")
	if d.DepositAmount > d.TotalAmount {
		d.warn("deposit %d exceeds total %d", d.DepositAmount, d.TotalAmount)
	}

	d.resolveDates(cust, ref)

	d.ShippingMethod = ShippingFrom(text(cust, "van_chuyen"), sourceText)
	d.PaymentMethod = PaymentFrom(text(cust, "httt"), sourceText)
	d.HasFixedDeadline = truthy(cust["co_hen_ngay"]) || HasDeadlineLanguage(sourceText)

	return d, nil
}

// resolveDates applies the order-date default and the lead-time rule.
func (d *Draft) resolveDates(cust map[string]interface{}, ref time.Time) {
	today := normalize.DateOf(ref)

	d.OrderDate = today
	if s := text(cust, "ngay_dat"); s != "" {
		if t := normalize.ParseDate(s, ref); t != nil {
			d.OrderDate = *t
		} else {
			d.warn("order date %q not understood, using today", s)
		}
	}

	if s := text(cust, "ngay_tra"); s != "" {
		if t := normalize.ParseDate(s, ref); t != nil {
			d.DueDate = *t
			d.DueDateExplicit = true
			return
		}
		d.warn("due date %q not understood, using lead time", s)
	}

	names := make([]string, 0, len(d.Items))
	for _, it := range d.Items {
		names = append(names, it.ProductName)
	}
	d.DueDate = normalize.AddDays(d.OrderDate, LeadDays(names))
}

func (d *Draft) amount(m map[string]interface{}, key string) int64 {
	v, ok := m[key]
	if !ok || v == nil {
		return 0
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return 0
	}
	n, err := normalize.AmountOf(v)
	if err != nil {
		d.warn("%s: %v, using 0", key, err)
		return 0
	}
	return n
}

func (d *Draft) warn(format string, args ...interface{}) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

func products(raw string, root map[string]interface{}) ([]DraftItem, error) {
	list, _ := root["products"].([]interface{})
	if len(list) == 0 {
		flat := DraftItem{
			ProductName:       text(root, "san_pham", "ten_sp"),
			Color:             text(root, "mau_sac", "mau"),
			Size:              text(root, "size"),
			EmbroideryRequest: text(root, "yeu_cau_theu", "kieu_theu"),
			Quantity:          quantity(root),
		}
		if flat.ProductName == "" && flat.Color == "" && flat.Size == "" && flat.EmbroideryRequest == "" {
			return []DraftItem{}, nil
		}
		flat.Category = Classify(flat.ProductName)
		return []DraftItem{flat}, nil
	}

	items := make([]DraftItem, 0, len(list))
	for i, p := range list {
		m, ok := p.(map[string]interface{})
		if !ok {
			return nil, errs.Extraction(raw, fmt.Sprintf("product %d is not an object", i+1))
		}
		item := DraftItem{
			ProductName:       text(m, "ten_sp", "san_pham"),
			Color:             text(m, "mau", "mau_sac"),
			Size:              text(m, "size"),
			EmbroideryRequest: text(m, "kieu_theu", "yeu_cau_theu"),
			Quantity:          quantity(m),
		}
		item.Category = Classify(item.ProductName)
		items = append(items, item)
	}
	return items, nil
}

// text returns the first non-empty value among keys, as a trimmed string.
func text(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return ""
}

func quantity(m map[string]interface{}) int {
	v, ok := m["so_luong"]
	if !ok {
		return 1
	}
	n, err := normalize.AmountOf(v)
	if err != nil || n < 1 {
		return 1
	}
	return int(n)
}

func truthy(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	case float64:
		return b != 0
	}
	return false
}

// Order converts the draft to an unsaved order with its items.
func (d *Draft) Order() *entity.Order {
	orderDate, dueDate := d.OrderDate, d.DueDate
	o := &entity.Order{
		CustomerName:     d.CustomerName,
		Phone:            d.Phone,
		Address:          d.Address,
		FacebookID:       d.FacebookID,
		Shop:             d.Shop,
		Status:           entity.StatusNew,
		OrderDate:        &orderDate,
		DueDate:          &dueDate,
		HasFixedDeadline: d.HasFixedDeadline,
		TotalAmount:      d.TotalAmount,
		DepositAmount:    d.DepositAmount,
		PaymentMethod:    d.PaymentMethod,
		ShippingMethod:   d.ShippingMethod,
		Tags:             entity.StringList{},
		Notes:            d.Notes,
	}
	for _, it := range d.Items {
		o.Items = append(o.Items, entity.OrderItem{
			ProductName:       it.ProductName,
			Color:             it.Color,
			Size:              it.Size,
			EmbroideryRequest: it.EmbroideryRequest,
			Quantity:          it.Quantity,
		})
	}
	o.SyncDerived()
	return o
}
