package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	t.Fatalf("unsupported metric type")
	return 0
}

func TestJobStarted(t *testing.T) {
	done := JobStarted("metrics-test-ok")
	assert.Equal(t, 1.0, value(t, WorkerJobsActive.WithLabelValues("metrics-test-ok")))
	done("")
	assert.Equal(t, 0.0, value(t, WorkerJobsActive.WithLabelValues("metrics-test-ok")))
	assert.Equal(t, 1.0, value(t, WorkerJobsCompleted.WithLabelValues("metrics-test-ok")))

	JobStarted("metrics-test-fail")("QUERY_EXECUTION_FAILED")
	assert.Equal(t, 1.0, value(t, WorkerJobsFailed.WithLabelValues("metrics-test-fail", "QUERY_EXECUTION_FAILED")))
	assert.Equal(t, 0.0, value(t, WorkerJobsCompleted.WithLabelValues("metrics-test-fail")))
}

func TestRecordResult(t *testing.T) {
	before := value(t, ReadinessResults.WithLabelValues("precision", "L3"))
	RecordResult("precision", "L3", 58, 1, 1)
	assert.Equal(t, before+1, value(t, ReadinessResults.WithLabelValues("precision", "L3")))
}
