// internal/utils/metrics/collector.go
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pumpfun"

// Instruction outcomes used as the status label.
const (
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Collector owns the launchpad metrics and the registry they are registered on.
type Collector struct {
	registry *prometheus.Registry

	instructions        *prometheus.CounterVec
	instructionDuration *prometheus.HistogramVec
	swapVolume          *prometheus.CounterVec
	curveReserve        *prometheus.GaugeVec
	completions         prometheus.Counter
	settlements         *prometheus.CounterVec
}

// NewCollector creates the metrics on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		instructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instructions_total",
			Help:      "Executed instructions by name and outcome.",
		}, []string{"instruction", "status"}),
		instructionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "instruction_duration_seconds",
			Help:      "Time spent executing an instruction, including the storage commit.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"instruction"}),
		swapVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swap_volume_lamports_total",
			Help:      "Lamports moved through swaps by direction.",
		}, []string{"direction"}),
		curveReserve: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "curve_reserve_lamports",
			Help:      "Lamport reserve of each curve after its last swap.",
		}, []string{"mint"}),
		completions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "curve_completions_total",
			Help:      "Curves that reached the completion limit.",
		}),
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "curve_settlements_total",
			Help:      "Completed curves settled by kind (withdraw or migrate).",
		}, []string{"kind"}),
	}

	c.registry.MustRegister(
		c.instructions,
		c.instructionDuration,
		c.swapVolume,
		c.curveReserve,
		c.completions,
		c.settlements,
	)
	return c
}

// Registry exposes the registry for scraping or file export.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordInstruction counts one instruction outcome.
func (c *Collector) RecordInstruction(name string, duration time.Duration, err error) {
	status := StatusSuccess
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = StatusCancelled
	case err != nil:
		status = StatusFailed
	}
	c.instructions.WithLabelValues(name, status).Inc()
	c.instructionDuration.WithLabelValues(name).Observe(duration.Seconds())
}

// RecordSwap tracks lamport volume and the curve reserve after a committed swap.
func (c *Collector) RecordSwap(mint, direction string, lamports, reserveLamport uint64, completed bool) {
	c.swapVolume.WithLabelValues(direction).Add(float64(lamports))
	c.curveReserve.WithLabelValues(mint).Set(float64(reserveLamport))
	if completed {
		c.completions.Inc()
	}
}

// RecordSettlement counts a withdraw or migrate and drops the curve's reserve gauge.
func (c *Collector) RecordSettlement(mint, kind string) {
	c.settlements.WithLabelValues(kind).Inc()
	c.curveReserve.DeleteLabelValues(mint)
}

// WriteFile writes the current values in the text exposition format.
func (c *Collector) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
