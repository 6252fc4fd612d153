package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAttempt(t *testing.T) {
	ObserveAttempt("buy", "transient", false)
	ObserveAttempt("buy", "transient", false)
	ObserveAttempt("buy", "transient", true)

	assert.Equal(t, 3.0, testutil.ToFloat64(RetryAttemptsTotal.WithLabelValues("buy", "transient")))
	assert.Equal(t, 1.0, testutil.ToFloat64(RetryExhaustedTotal.WithLabelValues("buy")))
}
