package repeats

// OffsetList is a sorted, dense sequence of byte positions within one
// document where some term occurs. It is always strictly increasing.
type OffsetList []int

// nonOverlappingCount returns the maximum number of non-overlapping
// occurrences of a term of length m whose occurrences start at the offsets
// in o. It walks o left to right, counting the first offset, then advancing
// to the first subsequent offset at least m past the most recently counted
// one — the greedy earliest-first choice, which is optimal for this
// selection problem (inverted_index.cpp: get_non_overlapping_count).
func (o OffsetList) nonOverlappingCount(m int) int {
	if len(o) < 2 {
		return len(o)
	}
	count := 1
	last := o[0]
	for _, off := range o[1:] {
		if off >= last+m {
			count++
			last = off
		}
	}
	return count
}

// advanceLinear returns the index of the first element of o at or after idx
// whose value is >= target, scanning one element at a time.
func advanceLinear(o OffsetList, idx int, target int) int {
	n := len(o)
	for idx < n && o[idx] < target {
		idx++
	}
	return idx
}

// advanceGallop returns the index of the first element of o at or after idx
// whose value is >= target, using an exponential probe with the given step
// to bracket the target before finishing with a linear scan inside the
// bracket. It is asymptotically better than advanceLinear when target is far
// ahead of o[idx], which is the case when one offset list is much denser
// than the other (inverted_index.cpp: get_gteq2, INNER_LOOP == 4).
func advanceGallop(o OffsetList, idx int, target int, step int) int {
	n := len(o)
	if idx >= n || o[idx] >= target {
		return idx
	}
	if step < 1 {
		step = 1
	}
	prev := idx
	next := idx + step
	for next < n && o[next] < target {
		prev = next
		step *= 2
		next = prev + step
	}
	if next > n {
		next = n
	}
	// Linear finish inside the bracket (prev, next].
	i := prev
	for i < next && o[i] < target {
		i++
	}
	return i
}

// nextPow2 returns the smallest power of two >= x, minimum 1.
func nextPow2(x float64) int {
	if x <= 1 {
		return 1
	}
	n := 1
	for float64(n) < x {
		n <<= 1
	}
	return n
}
