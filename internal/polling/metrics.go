package polling

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PollsTotal - общее количество выполненных опросов
	PollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ride_client_polls_total",
			Help: "Общее количество выполненных опросов сервера",
		},
		[]string{"view", "status"},
	)

	// PollDuration - длительность опросов
	PollDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ride_client_poll_duration_seconds",
			Help:    "Длительность опросов сервера в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"view"},
	)

	// StaleDroppedTotal - количество отброшенных устаревших ответов
	StaleDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ride_client_stale_responses_dropped_total",
			Help: "Количество ответов, отброшенных как устаревшие",
		},
		[]string{"view"},
	)

	// PollsInFlight - количество опросов в полете
	PollsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ride_client_polls_in_flight",
			Help: "Текущее количество опросов в полете",
		},
	)
)
