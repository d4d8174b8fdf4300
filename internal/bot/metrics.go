package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Traffic: входящие события вебхука по типам
	EventsTotal *prometheus.CounterVec

	// Решения аппруверов: approve/deny и их исход
	DecisionsTotal *prometheus.CounterVec

	// Latency похода в хранилище секретов
	VaultRequestDuration prometheus.Histogram

	// Приватные доставки: ok / error
	DeliveriesTotal *prometheus.CounterVec

	// Saturation: размер реестра ожидающих заявок
	PendingRequests prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		EventsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "secretbot_events_total",
			Help: "Total number of inbound chat events by type.",
		}, []string{"type"}),

		DecisionsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "secretbot_decisions_total",
			Help: "Approver decisions by action and outcome.",
		}, []string{"action", "outcome"}), // исходы: ok, unauthorized, not_found, vault_error, delivery_error, unknown

		VaultRequestDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "secretbot_vault_request_duration_seconds",
			Help:    "Histogram of secret vault access latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),

		DeliveriesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "secretbot_deliveries_total",
			Help: "Private secret deliveries by status.",
		}, []string{"status"}),

		PendingRequests: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "secretbot_pending_requests",
			Help: "Current number of pending approval requests.",
		}),
	}
}
