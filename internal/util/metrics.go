package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Total number of rejected order placements",
	}, []string{"reason"})

	OrderStatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_updates_total",
		Help: "Total number of order status updates",
	}, []string{"status"})

	PaymentStatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_status_updates_total",
		Help: "Total number of payment status updates",
	}, []string{"payment_status"})

	NotificationsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_notifications_sent_total",
		Help: "Total number of order notification emails delivered",
	})

	NotificationRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_notification_retries_total",
		Help: "Total number of notification delivery retries",
	})

	NotificationsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_notifications_dropped_total",
		Help: "Total number of notifications dropped after exhausting retries",
	})

	OrdersExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_expired_total",
		Help: "Total number of orders removed by the retention worker",
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
