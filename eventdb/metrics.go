// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"strings"

	"github.com/stakefactory/stakefactory/metrics"
)

var (
	metricInsertedEvents    = metrics.LazyLoadCounter("eventdb_inserted_events_count")
	metricQueryParameters   = metrics.LazyLoadCounterVec("eventdb_query_parameters", []string{"parameters"})
	metricQueryOrderCounter = metrics.LazyLoadCounterVec("eventdb_query_order", []string{"order"})
	metricLimitBucket       = metrics.LazyLoadHistogramVec("eventdb_query_limit_bucket", []string{"type"}, []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleFilter(filter *Filter) {
	if metrics.NoOp() {
		return
	}

	params := make([]string, 0, 5)
	if filter.After > 0 {
		params = append(params, "after")
	}
	if filter.Instruction != "" {
		params = append(params, "instruction")
	}
	if filter.Name != "" {
		params = append(params, "name")
	}
	if filter.PoolID != nil {
		params = append(params, "pool")
	}
	if filter.Member != nil {
		params = append(params, "member")
	}
	metricQueryParameters().AddWithLabel(1, map[string]string{"parameters": strings.Join(params, ",")})

	if filter.Order == DESC {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "desc"})
	} else {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "asc"})
	}

	if filter.Options != nil {
		limit := min(filter.Options.Limit, 1001)
		metricLimitBucket().ObserveWithLabels(int64(limit), map[string]string{"type": "event"})
	}
}
