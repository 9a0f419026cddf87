package testutil

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

// Value reads the single sample of a counter, gauge or histogram
// child. Histograms report their sample count.
func Value(tb testing.TB, metric prometheus.Metric) float64 {
	tb.Helper()

	var m dto.Metric
	require.NoError(tb, metric.Write(&m))

	switch {
	case m.Counter != nil:
		return m.GetCounter().GetValue()
	case m.Gauge != nil:
		return m.GetGauge().GetValue()
	case m.Histogram != nil:
		return float64(m.GetHistogram().GetSampleCount())
	}

	require.FailNow(tb, "unsupported metric type")
	return 0
}

// Labeled reads the child of vec identified by labels.
func Labeled(tb testing.TB, vec interface {
	GetMetricWithLabelValues(...string) (prometheus.Counter, error)
}, labels ...string) float64 {
	tb.Helper()

	counter, err := vec.GetMetricWithLabelValues(labels...)
	require.NoError(tb, err)
	return Value(tb, counter)
}
