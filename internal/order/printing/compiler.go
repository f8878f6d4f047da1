// Package printing compiles a selection of orders into one production print
// run. A run is all or nothing: if any order fails the print gate nothing is
// stamped as printed.
package printing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/errs"
	"github.com/quanghuydn8/app-theu/internal/order/workflow"
)

// Store is what the compiler needs from order storage. GetOrder returns an
// *errs.NotFoundError for an unknown code.
type Store interface {
	GetOrder(ctx context.Context, code string) (*entity.Order, error)
	ListItems(ctx context.Context, orderCode string) ([]entity.OrderItem, error)
	MarkPrinted(ctx context.Context, codes []string) error
}

// Entry is one order in a run. Every entry but the first starts a new page.
type Entry struct {
	Order           *entity.Order      `json:"order"`
	Items           []entity.OrderItem `json:"items"`
	PageBreakBefore bool               `json:"page_break_before"`
}

// Batch is a compiled run in the order the codes were given.
type Batch struct {
	Entries   []Entry   `json:"entries"`
	PrintedAt time.Time `json:"printed_at"`
}

// Codes returns the order codes of the run.
func (b *Batch) Codes() []string {
	codes := make([]string, 0, len(b.Entries))
	for _, e := range b.Entries {
		codes = append(codes, e.Order.Code)
	}
	return codes
}

type Compiler struct {
	store Store
	now   func() time.Time
}

func NewCompiler(store Store) *Compiler {
	return &Compiler{store: store, now: time.Now}
}

// Compile checks every order against the print gate. When all pass it marks
// them printed and returns the run; otherwise it returns an *errs.BatchError
// listing every rejection and leaves all orders untouched.
func (c *Compiler) Compile(ctx context.Context, codes []string) (*Batch, error) {
	codes = dedupe(codes)
	if len(codes) == 0 {
		return nil, errs.Validation("order_codes", "no orders selected")
	}

	entries := make([]Entry, 0, len(codes))
	var rejections []error
	for _, code := range codes {
		o, err := c.store.GetOrder(ctx, code)
		if err != nil {
			var nf *errs.NotFoundError
			if errors.As(err, &nf) {
				rejections = append(rejections, err)
				continue
			}
			return nil, fmt.Errorf("load order %s: %w", code, err)
		}
		if err := workflow.RequirePrintable(o); err != nil {
			rejections = append(rejections, err)
			continue
		}
		items, err := c.store.ListItems(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("load items of %s: %w", code, err)
		}
		entries = append(entries, Entry{Order: o, Items: items, PageBreakBefore: len(entries) > 0})
	}
	if len(rejections) > 0 {
		return nil, &errs.BatchError{Errors: rejections}
	}

	if err := c.store.MarkPrinted(ctx, codes); err != nil {
		return nil, fmt.Errorf("mark printed: %w", err)
	}
	for i := range entries {
		entries[i].Order.Printed = true
	}
	return &Batch{Entries: entries, PrintedAt: c.now()}, nil
}

func dedupe(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
