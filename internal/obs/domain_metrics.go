package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// EvaluationsTotal counts pricing evaluation passes by winning family.
	EvaluationsTotal *prometheus.CounterVec
	// EvaluationDuration records evaluation pass latency in milliseconds.
	EvaluationDuration prometheus.Histogram
	// CatalogSnapshotTotal counts promotion catalog snapshot loads by source.
	CatalogSnapshotTotal *prometheus.CounterVec
	// DefinitionSkippedTotal counts malformed promotion definitions skipped at parse time.
	DefinitionSkippedTotal prometheus.Counter
	// CouponValidationsTotal counts coupon validations by outcome reason.
	CouponValidationsTotal *prometheus.CounterVec
	// CouponRedeemTotal counts coupon usage commits by outcome.
	CouponRedeemTotal *prometheus.CounterVec
	// OrdersPlacedTotal counts successfully placed orders.
	OrdersPlacedTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		EvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_evaluations_total",
			Help:      "Count of cart pricing evaluation passes by winning discount family.",
		}, []string{"family"})
		EvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pricing_evaluation_duration_ms",
			Help:      "Latency of cart pricing evaluation passes in milliseconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		})
		CatalogSnapshotTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promo_catalog_snapshot_total",
			Help:      "Count of promotion catalog snapshot loads by source.",
		}, []string{"source"})
		DefinitionSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promo_definition_skipped_total",
			Help:      "Number of malformed promotion definitions skipped during catalog parse.",
		})
		CouponValidationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_validations_total",
			Help:      "Count of coupon validations by outcome reason.",
		}, []string{"result"})
		CouponRedeemTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_redeem_total",
			Help:      "Count of coupon usage commits by outcome.",
		}, []string{"result"})
		OrdersPlacedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Number of successfully placed orders.",
		})

		mustRegisterCollector(reg, EvaluationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				EvaluationsTotal = v
			}
		})
		mustRegisterCollector(reg, EvaluationDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				EvaluationDuration = v
			}
		})
		mustRegisterCollector(reg, CatalogSnapshotTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CatalogSnapshotTotal = v
			}
		})
		mustRegisterCollector(reg, DefinitionSkippedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				DefinitionSkippedTotal = v
			}
		})
		mustRegisterCollector(reg, CouponValidationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CouponValidationsTotal = v
			}
		})
		mustRegisterCollector(reg, CouponRedeemTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CouponRedeemTotal = v
			}
		})
		mustRegisterCollector(reg, OrdersPlacedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				OrdersPlacedTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
