package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsForTesting_Collect(t *testing.T) {
	m := NewMetricsForTesting()

	m.Renders.WithLabelValues("page", "ok").Inc()
	m.Renders.WithLabelValues("page", "ok").Inc()
	m.DatasetRows.Set(17379)
	m.DatasetReloads.WithLabelValues("success").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Renders.WithLabelValues("page", "ok")))
	assert.Equal(t, 17379.0, testutil.ToFloat64(m.DatasetRows))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatasetReloads.WithLabelValues("success")))
}
