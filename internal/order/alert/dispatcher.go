package alert

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Notifier delivers a message about an order. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, orderCode, message string) error
}

// MultiNotifier sends to every notifier and joins their errors.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, orderCode, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, orderCode, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Dispatcher sends alerts in the background. A failed delivery is logged and
// never reaches the caller.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	logger   *zap.Logger
	wg       sync.WaitGroup
}

func NewDispatcher(notifier Notifier, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{notifier: notifier, timeout: timeout, logger: logger}
}

// Dispatch returns immediately; alerts are delivered one after another in order.
func (d *Dispatcher) Dispatch(alerts []Alert) {
	if d == nil || d.notifier == nil || len(alerts) == 0 {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for _, a := range alerts {
			d.send(a)
		}
	}()
}

func (d *Dispatcher) send(a Alert) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("alert notifier panicked", zap.String("order_code", a.OrderCode), zap.Any("panic", r))
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.notifier.Notify(ctx, a.OrderCode, a.Message); err != nil {
		d.logger.Warn("send alert failed",
			zap.String("order_code", a.OrderCode),
			zap.String("tag", a.Tag),
			zap.Error(err))
		return
	}
	d.logger.Info("alert sent", zap.String("order_code", a.OrderCode), zap.String("tag", a.Tag))
}

// Wait blocks until every dispatched alert has been attempted.
func (d *Dispatcher) Wait() {
	if d != nil {
		d.wg.Wait()
	}
}
