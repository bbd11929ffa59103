// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics provides process-wide meters. It defaults to a no-op
// registry so instrumented packages cost nothing unless Prometheus is
// initialized at startup.
package metrics

import (
	"net/http"
	"sync"
)

var registry Registry = noopRegistry{}

// Registry creates and caches meters by name.
type Registry interface {
	CounterMeter(name string) CountMeter
	CounterVecMeter(name string, labels []string) CountVecMeter
	GaugeMeter(name string) GaugeMeter
	HistogramMeter(name string, buckets []int64) HistogramMeter
	Handler() http.Handler
}

// HTTPHandler returns the handler serving the metrics endpoint.
func HTTPHandler() http.Handler {
	return registry.Handler()
}

// BucketHTTPReqs is the standard bucket layout for request durations in
// milliseconds.
var BucketHTTPReqs = []int64{
	0, 1, 2, 5, 10, 20, 30, 50, 75, 100,
	150, 200, 300, 400, 500, 750, 1000,
	1500, 2000, 3000, 4000, 5000, 10000,
}

// CountMeter is a monotonically increasing counter.
type CountMeter interface {
	Add(int64)
}

func Counter(name string) CountMeter { return registry.CounterMeter(name) }

// CountVecMeter is a counter partitioned by labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

func CounterVec(name string, labels []string) CountVecMeter {
	return registry.CounterVecMeter(name, labels)
}

// GaugeMeter is a value that can go up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

func Gauge(name string) GaugeMeter { return registry.GaugeMeter(name) }

// HistogramMeter aggregates reported measurements into buckets.
type HistogramMeter interface {
	Observe(int64)
}

func Histogram(name string, buckets []int64) HistogramMeter {
	return registry.HistogramMeter(name, buckets)
}

// LazyLoad defers meter creation until first use, so package-level meter
// vars do not fix the registry implementation at init time.
func LazyLoad[T any](f func() T) func() T {
	var (
		once   sync.Once
		result T
	)
	return func() T {
		once.Do(func() { result = f() })
		return result
	}
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}
