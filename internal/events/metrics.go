package events

import (
	"context"

	"github.com/pecamax/backend-pecas/internal/obs"
)

// MetricsNotifier mirrors emitted events into Prometheus counters. Coupon
// redemptions are counted at the store layer, so only order placement is
// tracked here.
type MetricsNotifier struct{}

func (MetricsNotifier) Notify(_ context.Context, event Event) error {
	if event.Topic == TopicOrderPlaced && obs.OrdersPlacedTotal != nil {
		obs.OrdersPlacedTotal.Inc()
	}
	return nil
}
