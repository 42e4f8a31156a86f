// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package telemetry records upstream call metrics.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/walteh/projhub/pkg/source"
	"gitlab.com/tozd/go/errors"
)

const namespace = "projhub"

// 📊 Metrics counts and times calls into data sources. A nil *Metrics
// records nothing.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	gatherer prometheus.Gatherer
}

// 🏭 New registers the collectors on reg
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "calls_total",
			Help:      "Calls into data sources by operation and outcome.",
		}, []string{"source", "op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "call_duration_seconds",
			Help:      "Latency of calls into data sources.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source", "op"}),
		gatherer: reg,
	}

	reg.MustRegister(m.calls, m.duration)
	return m
}

// ⏱️ Observe records one call that started at start and ended with err
func (m *Metrics) Observe(sourceName, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(sourceName, op, Outcome(err)).Inc()
	m.duration.WithLabelValues(sourceName, op).Observe(time.Since(start).Seconds())
}

// Handler exposes the collected metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// 🏷️ Outcome maps an error onto a low cardinality label
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, source.ErrUpstreamAuth):
		return "unauthorized"
	case errors.Is(err, source.ErrOAuthExchange):
		return "exchange_rejected"
	case errors.Is(err, source.ErrProjectNotFound):
		return "not_found"
	case errors.Is(err, source.ErrInvalidRequest):
		return "invalid"
	default:
		return "error"
	}
}
