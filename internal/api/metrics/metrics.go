// Package metrics defines and registers the custom Prometheus metrics of the
// logistics API. Metrics are registered on the default registry at package
// init through promauto; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "logistics"

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts newly created orders.
// Label:
//   - service_type: the declared service type, "standard" when empty
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created, by service type.",
	},
	[]string{"service_type"},
)

// OrderPriceVND observes the charged price of each new order.
var OrderPriceVND = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_price_vnd",
		Help:      "Charged price of created orders in VND.",
		Buckets:   []float64{100_000, 250_000, 500_000, 1_000_000, 2_500_000, 5_000_000, 10_000_000},
	},
)

// OrderStatusUpdatesTotal counts status changes.
// Label:
//   - status: the new order status
var OrderStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_updates_total",
		Help:      "Total number of order status changes, by new status.",
	},
	[]string{"status"},
)

// PriceQuotesTotal counts quick estimates.
// Label:
//   - nocturnal: "true" when the night surcharge applied
var PriceQuotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_quotes_total",
		Help:      "Total number of quick price estimates served.",
	},
	[]string{"nocturnal"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsSentTotal counts delivered mails.
// Label:
//   - kind: "invoice" or "status"
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of customer notifications delivered.",
	},
	[]string{"kind"},
)

// NotificationErrorsTotal counts failed deliveries.
// Labels:
//   - kind: "invoice" or "status"
//   - reason: e.g. "order_not_found", "send_failed"
var NotificationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_errors_total",
		Help:      "Total number of customer notifications that failed.",
	},
	[]string{"kind", "reason"},
)

// NotificationQueueDepth tracks pending jobs per dispatcher worker.
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notification jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationDuration measures lookup plus send time of one job.
var NotificationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of notification delivery from dequeue to mail sent.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)
