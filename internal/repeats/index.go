package repeats

import (
	"log/slog"
	"sort"
)

// Document is a corpus member: a stable, dense, 0-based id assigned in
// ingestion order, its name, byte size, and required repeat count.
// (inverted_index.cpp: struct RequiredRepeats.)
type Document struct {
	ID   int
	Name string
	Size int
	N    int
}

// repeatSize is the average size of one repeat: size/N. Documents are
// ingested in ascending order of this value so the most selective alphabet
// prunes first (inverted_index.cpp: comp_reqrep).
func (d Document) repeatSize() float64 {
	return float64(d.Size) / float64(d.N)
}

// Index is the inverted index: term -> postings, doc id -> Document, and the
// allowed alphabet of single-byte terms that seeds length-1 postings. It is
// an opaque handle: callers obtain one via NewIndex, drive ingestion and Run
// over it, and let it go out of scope when done — there is no OS resource to
// release beyond what ingestion already freed.
type Index struct {
	postings map[string]*Postings
	docs     []Document
	allowed  map[byte]struct{}
	logger   *slog.Logger
}

// NewIndex creates an empty Index with every byte value allowed, matching
// InvertedIndex's constructor in inverted_index.cpp.
func NewIndex() *Index {
	allowed := make(map[byte]struct{}, 256)
	for b := 0; b < 256; b++ {
		allowed[byte(b)] = struct{}{}
	}
	return &Index{
		postings: make(map[string]*Postings),
		allowed:  allowed,
		logger:   slog.Default().With("component", "repeats-index"),
	}
}

// Docs returns the documents ingested so far, in ingestion order.
func (idx *Index) Docs() []Document {
	return idx.docs
}

// Size returns the total number of offsets held across every term's
// postings. Extension passes do not modify the index (Run works on its own
// copies of the postings map), so this is the length-1 footprint.
func (idx *Index) Size() int {
	total := 0
	for _, p := range idx.postings {
		total += p.size()
	}
	return total
}

// AllowedBytes returns the current allowed alphabet as a sorted slice, for
// diagnostics and tests.
func (idx *Index) AllowedBytes() []byte {
	out := make([]byte, 0, len(idx.allowed))
	for b := range idx.allowed {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// addDocument folds one already-ingested document's per-byte offsets into
// the index: existing terms not present in the new document are dropped,
// and every retained term gains the new document's offset list under a
// freshly assigned document id (inverted_index.cpp: InvertedIndex::add_doc).
func (idx *Index) addDocument(doc Document, byteOffsets map[byte]OffsetList) {
	docID := len(idx.docs)
	firstDoc := docID == 0
	doc.ID = docID
	idx.docs = append(idx.docs, doc)

	if !firstDoc {
		// Keep only the terms this document also produced; a term absent
		// from any single document can never again satisfy "occurs in
		// every document" (inverted_index.cpp: InvertedIndex::add_doc).
		for term := range idx.postings {
			if _, ok := byteOffsets[term[0]]; !ok {
				delete(idx.postings, term)
			}
		}
	}
	for b, offsets := range byteOffsets {
		term := string([]byte{b})
		if !firstDoc {
			if _, ok := idx.postings[term]; !ok {
				// b was not a surviving term before this document; it
				// cannot become one now, since it is missing from every
				// document ingested prior to this one.
				continue
			}
		}
		p, ok := idx.postings[term]
		if !ok {
			p = newPostings()
			idx.postings[term] = p
		}
		p.addOffsets(docID, offsets)
	}
}

// show logs the current state of the index at debug verbosity, mirroring
// inverted_index.cpp's show_inverted_index.
func (idx *Index) show(title string) {
	terms := make([]string, 0, len(idx.postings))
	for t := range idx.postings {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	idx.logger.Debug("inverted index snapshot",
		"title", title,
		"terms", len(terms),
		"docs", len(idx.docs),
		"allowed_bytes", len(idx.allowed),
	)
}
