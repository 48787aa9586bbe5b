// MIT License
//
// Copyright (c) 2024 sphinx-core
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// go/src/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels.
const (
	OpKeyGen      = "keygen"
	OpSign        = "sign"
	OpVerify      = "verify"
	OpCommit      = "commit"
	OpProve       = "prove"
	OpProveBatch  = "prove_batch"
	OpVerifyProof = "verify_proof"
	OpVerifyBatch = "verify_batch"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected" // verification ran and returned false
	OutcomeError    = "error"
)

// Metrics holds Prometheus metrics for signature and hash tree operations.
type Metrics struct {
	Operations *prometheus.CounterVec   // operations by kind and outcome
	Latency    *prometheus.HistogramVec // operation latency by kind
	Rotations  prometheus.Counter       // few-time key rotations
}

// NewMetrics initializes the metrics without registering them.
func NewMetrics() *Metrics {
	return &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hashsig",
				Name:      "operations_total",
				Help:      "Number of signature and hash tree operations",
			},
			[]string{"op", "outcome"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hashsig",
				Name:      "operation_latency_seconds",
				Help:      "Latency of signature and hash tree operations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		Rotations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "hashsig",
				Name:      "key_rotations_total",
				Help:      "Number of few-time key pairs replaced after signing",
			},
		),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Operations, m.Latency, m.Rotations} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Observe records one operation. A nil receiver is a no-op so callers can
// leave metrics unset.
func (m *Metrics) Observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.Operations.WithLabelValues(op, outcome).Inc()
	m.Latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// ObserveVerify records a verification, separating rejections from errors.
func (m *Metrics) ObserveVerify(op string, start time.Time, valid bool, err error) {
	if m == nil {
		return
	}
	if err == nil && !valid {
		m.Operations.WithLabelValues(op, OutcomeRejected).Inc()
		m.Latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
		return
	}
	m.Observe(op, start, err)
}

// IncRotations counts one key rotation.
func (m *Metrics) IncRotations() {
	if m == nil {
		return
	}
	m.Rotations.Inc()
}
