// Package metrics defines the Prometheus collectors repeatscan uses to
// instrument a run, and a helper to render them as a text summary at the end
// of a batch — there is no long-lived process to scrape, so the collectors
// are dumped rather than served.
package metrics

import (
	"bytes"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds all Prometheus collectors for a single repeatscan run.
type Metrics struct {
	registry *prometheus.Registry

	DocsIngestedTotal   prometheus.Counter
	BytesScannedTotal   prometheus.Counter
	DocsSkippedTotal    *prometheus.CounterVec
	TermsSurvivingPass  *prometheus.GaugeVec
	IntersectionsTotal  prometheus.Counter
	GallopAdvancesTotal prometheus.Counter
	PassDuration        prometheus.Histogram
	ConvergedLength     prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a fresh registry, so
// consecutive runs (as in a batch harness or a test) never collide on
// already-registered collector names.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		DocsIngestedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "repeatscan_docs_ingested_total",
			Help: "Total documents successfully ingested into the inverted index.",
		}),
		BytesScannedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "repeatscan_bytes_scanned_total",
			Help: "Total document bytes scanned during ingestion.",
		}),
		DocsSkippedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repeatscan_docs_skipped_total",
			Help: "Documents not ingested, by reason (io_error, empty_offsets).",
		}, []string{"reason"}),
		TermsSurvivingPass: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "repeatscan_terms_surviving",
			Help: "Number of surviving terms, labeled by pass length.",
		}, []string{"length"}),
		IntersectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "repeatscan_intersections_total",
			Help: "Total offset-list intersections (get_sb_offsets calls) performed.",
		}),
		GallopAdvancesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "repeatscan_gallop_advances_total",
			Help: "Total galloping-search advances used instead of linear advance.",
		}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "repeatscan_pass_duration_seconds",
			Help:    "Wall-clock duration of a single extension pass.",
			Buckets: prometheus.DefBuckets,
		}),
		ConvergedLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "repeatscan_converged_length",
			Help: "Substring length at which the run converged (0 if it hit max_len first).",
		}),
	}

	registry.MustRegister(
		m.DocsIngestedTotal,
		m.BytesScannedTotal,
		m.DocsSkippedTotal,
		m.TermsSurvivingPass,
		m.IntersectionsTotal,
		m.GallopAdvancesTotal,
		m.PassDuration,
		m.ConvergedLength,
	)

	return m
}

// Dump renders every registered metric in Prometheus text-exposition format,
// suitable for printing to stdout at higher verbosities.
func (m *Metrics) Dump() (string, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return "", fmt.Errorf("gathering metrics: %w", err)
	}
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return "", fmt.Errorf("encoding metric family %s: %w", mf.GetName(), err)
		}
	}
	return buf.String(), nil
}
