// Package manifest reads a file list into repeats.Document records and
// preflight-validates that every listed document is actually readable
// before ingestion begins.
package manifest

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gorepeats/repeatscan/internal/repeats"
	rerrors "github.com/gorepeats/repeatscan/pkg/errors"
	"github.com/gorepeats/repeatscan/pkg/health"
	"github.com/gorepeats/repeatscan/pkg/logger"
)

// Load reads path line by line: each line may carry a trailing "# comment",
// which is stripped and printed as progress, leaving a filename that must
// encode "repeats=<N>" somewhere in its name (inverted_index main.cpp:
// get_filenames, get_code_comment). Lines with no filename portion, and
// filenames without the pattern, are skipped. It returns ErrIO if a listed
// document cannot be stat'd, and ErrManifest if the file can't be opened or
// yields no documents.
func Load(path string) ([]repeats.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, rerrors.Newf(rerrors.ErrManifest, 3, "open manifest %s: %v", path, err)
	}
	defer f.Close()

	log := logger.WithComponent("manifest")
	var docs []repeats.Document
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		code, comment := splitComment(scanner.Text())
		if comment != "" {
			fmt.Println("#", comment)
		}
		if code == "" {
			continue
		}
		n, err := parseRepeats(code)
		if err != nil {
			log.Warn("skipping filename", "document", code, "error", fmt.Errorf("%w: %v", rerrors.ErrName, err))
			continue
		}
		info, err := os.Stat(code)
		if err != nil {
			log.Error("unreadable document", "document", code, "error", err)
			return nil, rerrors.Newf(rerrors.ErrIO, 4, "stat %s: %v", code, err)
		}
		docs = append(docs, repeats.Document{Name: code, Size: int(info.Size()), N: n})
	}
	if err := scanner.Err(); err != nil {
		return nil, rerrors.Newf(rerrors.ErrManifest, 3, "reading manifest %s: %v", path, err)
	}
	if len(docs) == 0 {
		return nil, rerrors.New(rerrors.ErrManifest, 3, "no usable filenames in "+path)
	}
	return docs, nil
}

// splitComment splits a manifest line on the first '#' into a trimmed code
// portion and a trimmed comment portion, mirroring get_code_comment.
func splitComment(line string) (code, comment string) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
	}
	return strings.TrimSpace(line), ""
}

// Preflight stats every document concurrently via a health.Checker, so a
// bad manifest entry is reported before any ingestion work happens instead
// of surfacing mid-run as a per-document skip.
func Preflight(ctx context.Context, docs []repeats.Document, workers int) health.Report {
	checker := health.NewChecker(workers)
	for _, doc := range docs {
		doc := doc
		checker.Register(doc.Name, func(ctx context.Context) health.ComponentHealth {
			info, err := os.Stat(doc.Name)
			if err != nil {
				return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
			}
			if info.IsDir() {
				return health.ComponentHealth{Status: health.StatusDown, Message: "is a directory"}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}
	return checker.Run(ctx)
}
