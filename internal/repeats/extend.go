package repeats

import (
	"context"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gorepeats/repeatscan/pkg/logger"
	"github.com/gorepeats/repeatscan/pkg/metrics"
)

// runOptions configures one call to Run. It is populated from
// config.RepeatsConfig by the engine.
type runOptions struct {
	MaxLen              int
	Workers             int
	GallopThreshold     float64
	ExactUsesNonOverlap bool
	Metrics             *metrics.Metrics
}

// Run drives the bottom-up extension loop over idx: starting from the
// length-1 postings, it repeatedly extends the surviving term set by one
// byte until no candidate survives or the terms reach MaxLen bytes; no term
// longer than MaxLen is produced (inverted_index.cpp: get_all_repeats).
func Run(ctx context.Context, idx *Index, opts runOptions) (Result, error) {
	if opts.MaxLen <= 0 {
		opts.MaxLen = 1
	}

	current := clonePostingsMap(idx.postings)
	bytesPostings := clonePostingsMap(idx.postings)
	alphabet := sortedKeys(idx.postings)
	log := logger.WithComponent("extend")

	result := Result{Longest: sortedKeys(current)}

	for m := 1; m <= opts.MaxLen; m++ {
		if em := exactMatches(idx.docs, current, opts.ExactUsesNonOverlap); len(em) > 0 {
			result.Exact = em
		}
		if m == opts.MaxLen {
			break
		}
		result.PassCount = m

		keys := sortedKeys(current)
		candidates := generateCandidates(keys, alphabet)

		pruned := make(map[string]*Postings, len(candidates))
		for s := range candidates {
			pruned[s] = current[s]
		}
		current = pruned

		passStart := time.Now()
		next, err := extendPass(ctx, idx.docs, current, bytesPostings, candidates, m, opts)
		elapsed := time.Since(passStart)
		if opts.Metrics != nil {
			opts.Metrics.PassDuration.Observe(elapsed.Seconds())
		}
		if err != nil {
			log.Warn("pass failed", "pass", m, "elapsed", elapsed, "error", err)
			return result, err
		}
		log.Debug("pass complete", "pass", m, "surviving", len(next), "elapsed", elapsed)

		if opts.Metrics != nil {
			opts.Metrics.TermsSurvivingPass.WithLabelValues(strconv.Itoa(m + 1)).Set(float64(len(next)))
		}
		if len(next) == 0 {
			result.Converged = true
			log.Info("converged", "pass", m, "longest_count", len(result.Longest))
			break
		}
		result.Longest = sortedKeys(next)
		current = next
	}

	return result, nil
}

// generateCandidates finds, for every surviving term s in keys, the bytes b
// such that s[1:]+b is itself a surviving term of the same length — the
// pruning rule that keeps only prefixes of extendable matches
// (inverted_index.cpp: the valid_strings construction in get_all_repeats).
func generateCandidates(keys, alphabet []string) map[string][]string {
	candidates := make(map[string][]string)
	for _, s := range keys {
		var bs []string
		suffix := s[1:]
		for _, b := range alphabet {
			if binarySearchString(keys, suffix+b) {
				bs = append(bs, b)
			}
		}
		if len(bs) > 0 {
			candidates[s] = bs
		}
	}
	return candidates
}

func binarySearchString(sorted []string, target string) bool {
	i := sort.SearchStrings(sorted, target)
	return i < len(sorted) && sorted[i] == target
}

type extension struct {
	term     string
	postings *Postings
}

// extendPass computes, for every (s, b) candidate pair, the postings of s+b
// by per-document offset-list intersection, bounded by opts.Workers so a
// wide pass doesn't spawn one goroutine per candidate. s's postings come from
// current (the surviving length-m terms of this pass); b's postings always
// come from bytesPostings, the permanent length-1 alphabet, since b is a
// single byte being appended, never a survivor of the current pass. Each
// pair's result is written into a fixed slot, keeping the outcome
// independent of goroutine scheduling: the final map depends only on which
// pairs survive, not on the order fan-out completes in (inverted_index.cpp:
// the inner b loop of get_all_repeats, calling get_sb_postings).
func extendPass(ctx context.Context, docs []Document, current, bytesPostings map[string]*Postings, candidates map[string][]string, m int, opts runOptions) (map[string]*Postings, error) {
	type pair struct{ s, b string }
	var pairs []pair
	for s, bs := range candidates {
		for _, b := range bs {
			pairs = append(pairs, pair{s, b})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].s != pairs[j].s {
			return pairs[i].s < pairs[j].s
		}
		return pairs[i].b < pairs[j].b
	})

	slots := make([]extension, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			sb := computeSbPostings(docs, current[p.s], bytesPostings[p.b], m, opts.GallopThreshold, opts.Metrics)
			if sb != nil {
				slots[i] = extension{term: p.s + p.b, postings: sb}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	next := make(map[string]*Postings)
	for _, ext := range slots {
		if ext.postings != nil {
			next[ext.term] = ext.postings
		}
	}
	return next, nil
}

// computeSbPostings intersects s's and b's offsets in every document and
// applies the per-document sufficiency test (§4.5). It returns nil if any
// document fails the test, signalling the candidate does not survive
// (inverted_index.cpp: get_sb_postings).
func computeSbPostings(docs []Document, sPostings, bPostings *Postings, m int, gallopThreshold float64, mtr *metrics.Metrics) *Postings {
	sb := newPostings()
	for _, doc := range docs {
		sOff := sPostings.offsets(doc.ID)
		bOff := bPostings.offsets(doc.ID)
		sbOff := intersect(sOff, bOff, m, gallopThreshold, mtr)
		if !sufficient(sbOff, m+1, doc.N) {
			return nil
		}
		sb.addOffsets(doc.ID, sbOff)
	}
	return sb
}

// intersect implements get_sb_offsets: given S (offsets of term s, length
// m) and B (offsets of byte b) in one document, it returns the starting
// offsets of s+b — positions o such that o is in S and o+m is in B.
func intersect(S, B OffsetList, m int, gallopThreshold float64, mtr *metrics.Metrics) OffsetList {
	if mtr != nil {
		mtr.IntersectionsTotal.Inc()
	}

	var sb OffsetList
	is, ib := 0, 0
	lenS, lenB := len(S), len(B)

	useGallop := gallopThreshold > 0 && lenS > 0 && float64(lenB)/float64(lenS) >= gallopThreshold
	step := 1
	if useGallop {
		step = nextPow2(float64(lenB) / float64(lenS))
	}

	for is < lenS && ib < lenB {
		target := S[is] + m
		switch {
		case B[ib] == target:
			sb = append(sb, S[is])
			is++
		case B[ib] < target:
			if useGallop {
				ib = advanceGallop(B, ib, target, step)
				if mtr != nil {
					mtr.GallopAdvancesTotal.Inc()
				}
			} else {
				ib = advanceLinear(B, ib, target)
			}
		default:
			is = advanceLinear(S, is, B[ib]-m)
		}
	}
	return sb
}

// exactMatches finds every term in current whose per-document occurrence
// count equals that document's required count in every document it covers
// (inverted_index.cpp: get_exact_matches). Whether the count is the raw
// offset-list size or the non-overlapping count is controlled by
// useNonOverlap; the reference implementation uses raw size despite its own
// comment admitting it should be the non-overlapping count.
func exactMatches(docs []Document, current map[string]*Postings, useNonOverlap bool) []string {
	var out []string
	for s, p := range current {
		m := len(s)
		isMatch := true
		p.forEach(func(docID int, offsets OffsetList) {
			if !isMatch {
				return
			}
			required := docs[docID].N
			count := len(offsets)
			if useNonOverlap {
				count = offsets.nonOverlappingCount(m)
			}
			if count != required {
				isMatch = false
			}
		})
		if isMatch {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]*Postings) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clonePostingsMap(m map[string]*Postings) map[string]*Postings {
	out := make(map[string]*Postings, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
