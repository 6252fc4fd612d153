package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradeadapter",
			Name:      "retry_attempts_total",
			Help:      "Failed exchange calls seen by the retry engine.",
		},
		[]string{"op", "class"},
	)

	RetryExhaustedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradeadapter",
			Name:      "retry_exhausted_total",
			Help:      "Operations that returned an error after their last attempt.",
		},
		[]string{"op"},
	)
)

func MustRegister() {
	prometheus.MustRegister(RetryAttemptsTotal, RetryExhaustedTotal)
}

// ObserveAttempt counts a failed attempt; final marks the one after which
// the error was surfaced to the caller.
func ObserveAttempt(op, class string, final bool) {
	RetryAttemptsTotal.WithLabelValues(op, class).Inc()
	if final {
		RetryExhaustedTotal.WithLabelValues(op).Inc()
	}
}
