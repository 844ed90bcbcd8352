package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created at checkout",
	})

	CheckoutFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failed_total",
		Help: "Total number of failed checkouts",
	}, []string{"reason"})

	CheckoutSkippedItemsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_skipped_items_total",
		Help: "Cart lines dropped at checkout because the product no longer resolves",
	})

	OrdersCancelledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Total number of cancelled orders",
	}, []string{"reason"})

	PaymentIntentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_intents_total",
		Help: "Gateway payment intents by result",
	}, []string{"result"})

	PaymentsPaidTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_paid_total",
		Help: "Payment records moved to paid, by delivery channel",
	}, []string{"source"})

	PaymentSignatureFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_signature_failures_total",
		Help: "Rejected payment confirmations with a bad signature",
	}, []string{"source"})

	PaymentLinkageFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_order_linkage_failures_total",
		Help: "Paid payments whose order could not be confirmed",
	})

	GatewayLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_gateway_latency_seconds",
		Help:    "Latency of payment gateway calls",
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
