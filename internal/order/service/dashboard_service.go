package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quanghuydn8/app-theu/internal/order/dashboard"
)

type DashboardService struct {
	orders OrderStore
	cache  SummaryCache
	logger *zap.Logger
	now    func() time.Time
}

func NewDashboardService(orders OrderStore, cache SummaryCache, logger *zap.Logger, now func() time.Time) *DashboardService {
	return &DashboardService{orders: orders, cache: cache, logger: logger, now: now}
}

// Summary serves the cached figures, recomputing them after a mutation.
func (s *DashboardService) Summary(ctx context.Context) (*dashboard.Summary, error) {
	if cached, ok := s.cache.Get(ctx); ok {
		return cached, nil
	}
	orders, err := s.orders.AllOrders(ctx)
	if err != nil {
		return nil, err
	}
	sum := dashboard.Summarize(orders)
	if err := s.cache.Set(ctx, &sum); err != nil {
		s.logger.Warn("cache dashboard summary failed", zap.Error(err))
	}
	return &sum, nil
}

func (s *DashboardService) Reminders(ctx context.Context) (*dashboard.Reminders, error) {
	orders, err := s.orders.AllOrders(ctx)
	if err != nil {
		return nil, err
	}
	r := dashboard.Remind(orders, s.now())
	return &r, nil
}
