// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package metrics exposes Prometheus collectors for simulation runs and for
// the HTTP API.
//
// The HTTP metrics use the matched route template as the path label, so
// /api/simulations/1234 and /api/simulations/5678 both count towards
// /api/simulations/{id}. Requests that match no route are counted under "-".
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"btc-sim/internal/portfolio"
	"btc-sim/internal/sim"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bsim"

// Collector groups every metric the server publishes.
type Collector struct {
	simulations     prometheus.Counter
	trades          *prometheus.CounterVec
	simDuration     prometheus.Histogram
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		simulations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Number of completed simulation runs.",
		}),
		trades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_total",
			Help:      "Number of trades executed by simulated portfolios.",
		}, []string{"action"}),
		simDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulation_duration_seconds",
			Help:      "Time spent running a single simulation.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_count",
			Help:      "Number of API requests received.",
		}, []string{"method", "path", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration",
			Help:      "API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"method", "path", "code"}),
	}

	for _, col := range []prometheus.Collector{c.simulations, c.trades, c.simDuration, c.requestCount, c.requestDuration} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveRun records a finished simulation.
func (c *Collector) ObserveRun(r *sim.Result) {
	c.simulations.Inc()
	c.simDuration.Observe(r.Duration.Seconds())
	for _, e := range r.Entries {
		switch e.Action {
		case portfolio.ActionBuy:
			c.trades.WithLabelValues("buy").Inc()
		case portfolio.ActionSell:
			c.trades.WithLabelValues("sell").Inc()
		}
	}
}

// responseWriter records the status code written by the wrapped handler.
type responseWriter struct {
	http.ResponseWriter
	code int
}

var _ http.ResponseWriter = (*responseWriter)(nil)

func (w *responseWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush keeps server-sent event streams working through the wrapper.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware counts and times every request handled by the router.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rw, r)

		path := "-"
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"path":   path,
			"code":   strconv.Itoa(rw.code),
		}
		c.requestCount.With(labels).Inc()
		c.requestDuration.With(labels).Observe(time.Since(start).Seconds())
	})
}
