package repeats

import (
	"os"

	rerrors "github.com/gorepeats/repeatscan/pkg/errors"
)

// ingestDocument performs a two-pass scan over one document: a first pass
// tallies per-byte counts, which narrows the shared
// allowed-alphabet and lets the second pass pre-allocate exact-size offset
// vectors before filling them (inverted_index.cpp: get_doc_offsets_map).
//
// allowed is mutated in place to the intersection of its previous contents
// with this document's locally-valid bytes (those occurring at least doc.N
// times), and the returned map holds offsets only for bytes still in that
// narrowed allowed set — a byte this call itself just excluded is absent
// from the result, not merely unused by the caller.
func ingestDocument(doc Document, allowed map[byte]struct{}) (map[byte]OffsetList, error) {
	data, err := os.ReadFile(doc.Name)
	if err != nil {
		return nil, rerrors.Newf(rerrors.ErrIO, 4, "read %s: %v", doc.Name, err)
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	locallyValid := make(map[byte]struct{}, 256)
	for b := 0; b < 256; b++ {
		if counts[b] >= doc.N {
			locallyValid[byte(b)] = struct{}{}
		}
	}
	for b := range allowed {
		if _, ok := locallyValid[b]; !ok {
			delete(allowed, b)
		}
	}

	offsetsMap := make(map[byte]OffsetList, len(allowed))
	cursor := make(map[byte]int, len(allowed))
	for b := range allowed {
		offsetsMap[b] = make(OffsetList, counts[b])
	}

	for i, b := range data {
		if list, ok := offsetsMap[b]; ok {
			list[cursor[b]] = i
			cursor[b]++
		}
	}

	return offsetsMap, nil
}
