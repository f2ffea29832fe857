package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	}, []string{"mode"})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of rejected or failed order placements",
	}, []string{"reason"})

	OrdersConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_confirmed_total",
		Help: "Total number of orders confirmed paid by the gateway",
	})

	OrdersVoidedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_voided_total",
		Help: "Total number of orders voided after a failed payment",
	})

	CheckoutSessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Total number of hosted checkout sessions created",
	})

	CheckoutSessionFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_session_failures_total",
		Help: "Total number of failed checkout session creations",
	})

	CartSyncsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_syncs_total",
		Help: "Total number of cart snapshots synced to the server",
	})

	CartSyncFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_sync_failures_total",
		Help: "Total number of failed cart sync attempts",
	})

	CartsClearedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carts_cleared_total",
		Help: "Total number of carts cleared after payment confirmation",
	})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Total number of verified webhook events by type",
	}, []string{"type"})

	WebhookSignatureFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webhook_signature_failures_total",
		Help: "Total number of webhook deliveries rejected for a bad signature",
	})

	WebhookProcessingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "webhook_processing_latency_seconds",
		Help:    "Latency of webhook event reconciliation",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
