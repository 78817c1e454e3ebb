package repeats

import (
	"context"
	"log/slog"
	"sort"

	"github.com/gorepeats/repeatscan/pkg/config"
	rerrors "github.com/gorepeats/repeatscan/pkg/errors"
	"github.com/gorepeats/repeatscan/pkg/metrics"
)

// Engine owns one Index for the lifetime of a single repeatscan run: it
// ingests the manifest's documents in selectivity order, then drives the
// extension loop and reports the result. There is no cross-run sharing —
// callers build a fresh Engine per invocation.
type Engine struct {
	index   *Index
	cfg     *config.Config
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates an Engine bound to cfg and, when non-nil, an existing metrics
// collector (tests may pass nil to skip instrumentation).
func New(cfg *config.Config, m *metrics.Metrics) *Engine {
	return &Engine{
		index:   NewIndex(),
		cfg:     cfg,
		metrics: m,
		logger:  slog.Default().With("component", "engine"),
	}
}

// Ingest reads docs in ascending order of average repeat size (size/N) —
// the ordering that lets the most selective document narrow the shared
// alphabet earliest — and folds each into the index
// (inverted_index.cpp: comp_reqrep, InvertedIndex::add_doc). A document that
// cannot be read aborts ingestion with that document's ErrIO error. If every
// document is skipped for lack of surviving bytes, Ingest still succeeds and
// the index stays empty.
func (e *Engine) Ingest(docs []Document) error {
	ordered := make([]Document, len(docs))
	copy(ordered, docs)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].repeatSize() < ordered[j].repeatSize()
	})

	allowed := e.index.allowed

	for _, doc := range ordered {
		offsets, err := ingestDocument(doc, allowed)
		if err != nil {
			e.logger.Error("reading document failed, aborting ingestion", "document", doc.Name, "error", err)
			if e.metrics != nil {
				e.metrics.DocsSkippedTotal.WithLabelValues("io_error").Inc()
			}
			return err
		}
		if len(offsets) == 0 {
			e.logger.Warn("document contributed no surviving bytes, skipping", "document", doc.Name)
			if e.metrics != nil {
				e.metrics.DocsSkippedTotal.WithLabelValues("empty_offsets").Inc()
			}
			continue
		}
		e.index.addDocument(doc, offsets)
		if e.metrics != nil {
			e.metrics.DocsIngestedTotal.Inc()
			e.metrics.BytesScannedTotal.Add(float64(doc.Size))
		}
	}

	e.index.show("post-ingestion")
	return nil
}

// Run drives the extension loop over the ingested index and returns the
// longest repeated substrings and any exact matches found along the way.
// If ingestion produced an empty index — the whole alphabet was pruned away
// before any postings survived — it returns a converged, empty Result and no
// error.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	if len(e.index.docs) == 0 || e.index.Size() == 0 {
		return Result{Converged: true}, nil
	}

	opts := runOptions{
		MaxLen:              e.cfg.Repeats.MaxLen,
		Workers:             e.cfg.Repeats.Workers,
		GallopThreshold:     e.cfg.Repeats.GallopThreshold,
		ExactUsesNonOverlap: e.cfg.Repeats.ExactUsesNonOverlap,
		Metrics:             e.metrics,
	}

	result, err := Run(ctx, e.index, opts)
	if err != nil {
		return result, rerrors.Newf(rerrors.ErrIO, 4, "extension pass: %v", err)
	}

	if e.metrics != nil {
		e.metrics.TermsSurvivingPass.WithLabelValues("final").Set(float64(len(result.Longest)))
		if result.Converged {
			longest := 0
			if len(result.Longest) > 0 {
				longest = len(result.Longest[0])
			}
			e.metrics.ConvergedLength.Set(float64(longest))
		}
	}

	return result, nil
}
