package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PushesInitiatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mpesa_stk_pushes_initiated_total",
			Help: "Total number of STK push requests accepted by the provider",
		},
	)

	PushesFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mpesa_stk_pushes_failed_total",
			Help: "Total number of STK push initiations that failed or were rejected",
		},
	)

	CallbacksReceivedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mpesa_callbacks_received_total",
			Help: "Total number of callback requests received",
		},
	)

	CallbacksInvalidTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mpesa_callbacks_invalid_total",
			Help: "Total number of callbacks rejected for a malformed payload",
		},
	)

	CallbacksOrphanedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mpesa_callbacks_orphaned_total",
			Help: "Total number of callbacks that matched no order",
		},
	)

	CallbackProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mpesa_callback_processing_duration_seconds",
			Help:    "Duration of callback processing",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func Register() {
	prometheus.MustRegister(PushesInitiatedTotal)
	prometheus.MustRegister(PushesFailedTotal)
	prometheus.MustRegister(CallbacksReceivedTotal)
	prometheus.MustRegister(CallbacksInvalidTotal)
	prometheus.MustRegister(CallbacksOrphanedTotal)
	prometheus.MustRegister(CallbackProcessingDuration)
}
