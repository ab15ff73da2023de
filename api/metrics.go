// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/stakefactory/stakefactory/api/middleware"
	"github.com/stakefactory/stakefactory/metrics"
)

var (
	metricHTTPReqCounter  = metrics.LazyLoadCounterVec("api_request_count", []string{"name", "code", "method"})
	metricHTTPReqDuration = metrics.LazyLoadHistogramVec("api_duration_ms", []string{"name", "code", "method"}, metrics.BucketHTTPReqs)
	metricActiveWebsocket = metrics.LazyLoadGaugeVec("api_active_websocket_gauge", []string{"name"})
)

// metricsMiddleware records the count and duration of requests by route name,
// so that path variables don't explode the label space. Websocket routes are
// tracked as open connections instead.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := "unknown"
		if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
			name = route.GetName()
		}

		if r.Header.Get("Upgrade") == "websocket" {
			metricActiveWebsocket().AddWithLabel(1, map[string]string{"name": name})
			defer metricActiveWebsocket().AddWithLabel(-1, map[string]string{"name": name})
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := middleware.NewStatusRecorder(w)
		next.ServeHTTP(rec, r)

		labels := map[string]string{"name": name, "code": strconv.Itoa(rec.Status), "method": r.Method}
		metricHTTPReqCounter().AddWithLabel(1, labels)
		metricHTTPReqDuration().ObserveWithLabels(time.Since(start).Milliseconds(), labels)
	})
}
