// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopByDefault(t *testing.T) {
	_, isPrometheus := registry.(*prometheusRegistry)
	require.False(t, isPrometheus)

	// meters from the no-op registry accept writes without effect
	Counter("noop_counter").Add(1)
	Gauge("noop_gauge").Set(5)
	Histogram("noop_histogram", BucketHTTPReqs).Observe(12)
	CounterVec("noop_counter_vec", []string{"kind"}).AddWithLabel(1, map[string]string{"kind": "call"})
}

func TestPrometheusRegistry(t *testing.T) {
	InitializePrometheusMetrics()
	_, isPrometheus := registry.(*prometheusRegistry)
	require.True(t, isPrometheus)

	counter := Counter("traces_generated_count")
	counter.Add(3)
	counter.Add(2)

	// same name yields the cached meter
	assert.Equal(t, counter, Counter("traces_generated_count"))

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "besu_metrics_traces_generated_count 5")
}

func TestLazyLoadCreatesOnce(t *testing.T) {
	InitializePrometheusMetrics()

	load := LazyLoadCounter("lazy_counter")
	assert.Equal(t, load(), load())
}
