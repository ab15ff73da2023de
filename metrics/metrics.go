// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics holds the meters of the service. Every meter is a no-op until
// InitializePrometheusMetrics is called.
package metrics

import (
	"net/http"
	"sync"
)

var metrics = defaultNoopMetrics()

// Metrics creates and owns the meters.
type Metrics interface {
	GetOrCreateCountMeter(name string) CountMeter
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateGaugeVecMeter(name string, labels []string) GaugeVecMeter
	GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter
	GetOrCreateHistogramVecMeter(name string, labels []string, buckets []int64) HistogramVecMeter
	GetOrCreateHandler() http.Handler
}

// NoOp reports whether metrics are disabled.
func NoOp() bool {
	_, ok := metrics.(*noopMetrics)
	return ok
}

// HTTPHandler serves the metrics, nil when disabled.
func HTTPHandler() http.Handler {
	return metrics.GetOrCreateHandler()
}

// Histogram buckets, in milliseconds.
var (
	BucketInstruction = []int64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}
	BucketHTTPReqs    = []int64{
		0, 1, 2, 5, 10, 20, 30, 50, 75, 100,
		150, 200, 300, 400, 500, 750, 1000,
		1500, 2000, 3000, 4000, 5000, 10000,
	}
)

type CountMeter interface {
	Add(int64)
}

type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

type GaugeMeter interface {
	CountMeter
	Set(int64)
}

type GaugeVecMeter interface {
	CountVecMeter
	SetWithLabel(int64, map[string]string)
}

type HistogramMeter interface {
	Observe(int64)
}

type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// lazy defers creating a meter to its first use, so packages can declare meters
// as variables before the daemon picks the implementation.
func lazy[T any](create func(m Metrics) T) func() T {
	var (
		once  sync.Once
		meter T
	)
	return func() T {
		once.Do(func() { meter = create(metrics) })
		return meter
	}
}

func LazyLoadCounter(name string) func() CountMeter {
	return lazy(func(m Metrics) CountMeter { return m.GetOrCreateCountMeter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return lazy(func(m Metrics) CountVecMeter { return m.GetOrCreateCountVecMeter(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return lazy(func(m Metrics) GaugeMeter { return m.GetOrCreateGaugeMeter(name) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return lazy(func(m Metrics) GaugeVecMeter { return m.GetOrCreateGaugeVecMeter(name, labels) })
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return lazy(func(m Metrics) HistogramMeter { return m.GetOrCreateHistogramMeter(name, buckets) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return lazy(func(m Metrics) HistogramVecMeter { return m.GetOrCreateHistogramVecMeter(name, labels, buckets) })
}
