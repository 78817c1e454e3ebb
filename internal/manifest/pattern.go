package manifest

import (
	"fmt"
	"regexp"
	"strconv"
)

// repeatsPattern extracts the required occurrence count encoded in a
// document's filename, e.g. "corpus/sample_repeats=3.txt" -> 3
// (inverted_index.cpp: PATTERN_REPEATS = "repeats=(\\d+)").
var repeatsPattern = regexp.MustCompile(`repeats=(\d+)`)

func parseRepeats(filename string) (int, error) {
	m := repeatsPattern.FindStringSubmatch(filename)
	if m == nil {
		return 0, fmt.Errorf("no repeats=<N> in %q", filename)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid repeats count in %q: %w", filename, err)
	}
	return n, nil
}
