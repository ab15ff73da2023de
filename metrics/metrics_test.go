// Copyright (c) 2024 The VeChainThor developers

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

func TestNoopMetrics(t *testing.T) {
	noop := defaultNoopMetrics()

	assert.Nil(t, noop.GetOrCreateHandler())
	assert.NotPanics(t, func() {
		noop.GetOrCreateCountMeter("c").Add(1)
		noop.GetOrCreateCountVecMeter("cv", []string{"a"}).AddWithLabel(1, map[string]string{"a": "b"})
		noop.GetOrCreateGaugeMeter("g").Set(1)
		noop.GetOrCreateGaugeVecMeter("gv", []string{"a"}).SetWithLabel(1, map[string]string{"a": "b"})
		noop.GetOrCreateHistogramMeter("h", BucketHTTPReqs).Observe(1)
		noop.GetOrCreateHistogramVecMeter("hv", []string{"a"}, BucketHTTPReqs).ObserveWithLabels(1, map[string]string{"a": "b"})
	})
}

func TestPrometheusMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	LazyLoadCounter("test_counter")().Add(3)
	LazyLoadCounterVec("test_counter_vec", []string{"op"})().AddWithLabel(2, map[string]string{"op": "stake"})
	LazyLoadGaugeVec("test_gauge_vec", []string{"pool"})().SetWithLabel(42, map[string]string{"pool": "0"})
	LazyLoadHistogramVec("test_histogram_vec", []string{"op"}, BucketInstruction)().
		ObserveWithLabels(7, map[string]string{"op": "claim"})

	// same meter is returned on repeated lookups
	assert.Same(t, LazyLoadGauge("test_gauge")(), LazyLoadGauge("test_gauge")())

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "stakefactory_test_counter 3")
	assert.Contains(t, string(body), `stakefactory_test_counter_vec{op="stake"} 2`)
	assert.Contains(t, string(body), `stakefactory_test_gauge_vec{pool="0"} 42`)
	assert.Contains(t, string(body), `stakefactory_test_histogram_vec_count{op="claim"} 1`)
}

type countingMetrics struct {
	noopMetrics
	created int
}

func (c *countingMetrics) GetOrCreateCountMeter(string) CountMeter {
	c.created++
	return &c.noopMetrics
}

func TestLazyLoad(t *testing.T) {
	saved := metrics
	t.Cleanup(func() { metrics = saved })

	// declared before the implementation is chosen
	counter := LazyLoadCounter("lazy_counter")

	m := &countingMetrics{}
	metrics = m
	counter().Add(1)
	counter().Add(1)
	assert.Equal(t, 1, m.created)
}
