// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddleware(t *testing.T) {
	ts := newTestServer(t, Options{AllowedOrigins: "*", EventsLimit: 10, EnableMetrics: true})

	_, code := httpGet(t, ts.URL+"/factory")
	require.Equal(t, http.StatusOK, code)
	_, code = httpGet(t, ts.URL+"/pools/9")
	require.Equal(t, http.StatusNotFound, code)
	_, code = httpGet(t, ts.URL+"/pools/10")
	require.Equal(t, http.StatusNotFound, code)

	body, _ := httpGet(t, ts.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	counts := make(map[string]float64)
	for _, m := range families["stakefactory_api_request_count"].GetMetric() {
		labels := make(map[string]string)
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		assert.Equal(t, "GET", labels["method"])
		counts[labels["name"]+" "+labels["code"]] = m.GetCounter().GetValue()
	}
	// path variables are folded into the route name
	assert.Equal(t, float64(1), counts["factory_get 200"])
	assert.Equal(t, float64(2), counts["pools_get_pool 404"])
}
