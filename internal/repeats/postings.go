package repeats

import "sort"

// Postings is the per-term record in the inverted index: which documents a
// term occurs in, and where. Mirrors inverted_index.cpp's struct Postings.
type Postings struct {
	// byDoc[docID] is the sorted offset list of the term in that document.
	byDoc map[int]OffsetList
	// total is the sum of all offset-list lengths, kept incrementally so
	// Index.Size() is O(1) per term instead of O(docs).
	total int
}

func newPostings() *Postings {
	return &Postings{byDoc: make(map[int]OffsetList)}
}

// addOffsets records offsets as the term's occurrences in docID. offsets
// must already be sorted ascending.
func (p *Postings) addOffsets(docID int, offsets OffsetList) {
	p.byDoc[docID] = offsets
	p.total += len(offsets)
}

// offsets returns the offset list for docID, or nil if the term does not
// occur in that document.
func (p *Postings) offsets(docID int) OffsetList {
	return p.byDoc[docID]
}

// docCount returns the number of documents this term's postings cover.
func (p *Postings) docCount() int {
	return len(p.byDoc)
}

// size returns the total number of offsets stored across all documents.
func (p *Postings) size() int {
	return p.total
}

// empty reports whether the postings cover zero documents. The extension
// engine does not use it: computeSbPostings signals a failed candidate with
// nil.
func (p *Postings) empty() bool {
	return len(p.byDoc) == 0
}

// forEach calls fn once per covered document, in ascending document id
// order, matching the ordered map iteration inverted_index.cpp relies on
// when checking exact matches.
func (p *Postings) forEach(fn func(docID int, offsets OffsetList)) {
	ids := make([]int, 0, len(p.byDoc))
	for id := range p.byDoc {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fn(id, p.byDoc[id])
	}
}
