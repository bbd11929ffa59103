// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doytsujin/besu/log"
)

const namespace = "besu_metrics"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics swaps the default no-op registry for a
// Prometheus-backed one. Subsequent calls have no effect.
func InitializePrometheusMetrics() {
	if _, ok := registry.(*prometheusRegistry); !ok {
		registry = &prometheusRegistry{meters: make(map[string]any)}
	}
}

type prometheusRegistry struct {
	mu     sync.Mutex
	meters map[string]any
}

func (r *prometheusRegistry) getOrCreate(name string, create func() any) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	meter, ok := r.meters[name]
	if !ok {
		meter = create()
		r.meters[name] = meter
	}
	return meter
}

func (r *prometheusRegistry) CounterMeter(name string) CountMeter {
	return r.getOrCreate(name, func() any {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
		})
		register(name, c)
		return &promCounter{c}
	}).(CountMeter)
}

func (r *prometheusRegistry) CounterVecMeter(name string, labels []string) CountVecMeter {
	return r.getOrCreate(name, func() any {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
		}, labels)
		register(name, c)
		return &promCounterVec{c}
	}).(CountVecMeter)
}

func (r *prometheusRegistry) GaugeMeter(name string) GaugeMeter {
	return r.getOrCreate(name, func() any {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
		})
		register(name, g)
		return &promGauge{g}
	}).(GaugeMeter)
}

func (r *prometheusRegistry) HistogramMeter(name string, buckets []int64) HistogramMeter {
	return r.getOrCreate(name, func() any {
		floatBuckets := make([]float64, 0, len(buckets))
		for _, b := range buckets {
			floatBuckets = append(floatBuckets, float64(b))
		}
		h := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets,
		})
		register(name, h)
		return &promHistogram{h}
	}).(HistogramMeter)
}

func (r *prometheusRegistry) Handler() http.Handler {
	return promhttp.Handler()
}

func register(name string, c prometheus.Collector) {
	if err := prometheus.Register(c); err != nil {
		logger.Warn("unable to register metric", "name", name, "err", err)
	}
}

type promCounter struct {
	counter prometheus.Counter
}

func (c *promCounter) Add(i int64) {
	c.counter.Add(float64(i))
}

type promCounterVec struct {
	counter *prometheus.CounterVec
}

func (c *promCounterVec) AddWithLabel(i int64, labels map[string]string) {
	c.counter.With(labels).Add(float64(i))
}

type promGauge struct {
	gauge prometheus.Gauge
}

func (g *promGauge) Add(i int64) {
	g.gauge.Add(float64(i))
}

func (g *promGauge) Set(i int64) {
	g.gauge.Set(float64(i))
}

type promHistogram struct {
	histogram prometheus.Histogram
}

func (h *promHistogram) Observe(i int64) {
	h.histogram.Observe(float64(i))
}
