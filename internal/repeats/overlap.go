package repeats

// sufficient reports whether offsets — the starting positions of some term
// of length m in one document — contains at least n non-overlapping
// occurrences. This is the per-document sufficiency test applied to every
// candidate extension: overlapping matches are counted
// during pruning only through this gate, never by discarding offsets, since
// an overlapping length-m match can still be the prefix of a valid
// length-(m+1) match (inverted_index.cpp: the INNER_LOOP comment on
// get_sb_postings explaining why the offsets themselves are never trimmed).
func sufficient(offsets OffsetList, m, n int) bool {
	return offsets.nonOverlappingCount(m) >= n
}
