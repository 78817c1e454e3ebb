package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorepeats/repeatscan/internal/repeats"
	"github.com/gorepeats/repeatscan/pkg/health"
)

func writeManifest(t *testing.T, dir string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, "filelist.txt")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing doc: %v", err)
	}
	return path
}

func TestLoadParsesCommentsAndRepeats(t *testing.T) {
	dir := t.TempDir()
	docA := writeDoc(t, dir, "a_repeats=2.txt", "hello")
	docB := writeDoc(t, dir, "b_repeats=3.txt", "world!")

	manifestPath := writeManifest(t, dir, []string{
		"# corpus for smoke test",
		docA + " # first document",
		"",
		docB,
	})

	docs, err := Load(manifestPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("Load returned %d docs, want 2", len(docs))
	}
	byName := map[string]int{docs[0].Name: docs[0].N, docs[1].Name: docs[1].N}
	if byName[docA] != 2 {
		t.Errorf("docA.N = %d, want 2", byName[docA])
	}
	if byName[docB] != 3 {
		t.Errorf("docB.N = %d, want 3", byName[docB])
	}
}

func TestLoadSkipsFilesMissingRepeatsPattern(t *testing.T) {
	dir := t.TempDir()
	valid := writeDoc(t, dir, "valid_repeats=1.txt", "x")
	invalid := writeDoc(t, dir, "invalid.txt", "y")

	manifestPath := writeManifest(t, dir, []string{valid, invalid})

	docs, err := Load(manifestPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != valid {
		t.Fatalf("Load = %v, want only %s", docs, valid)
	}
}

func TestLoadEmptyManifestIsAnError(t *testing.T) {
	dir := t.TempDir()
	manifestPath := writeManifest(t, dir, []string{"# nothing but comments"})

	_, err := Load(manifestPath)
	if err == nil {
		t.Fatal("expected error for a manifest with no usable filenames")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	if err == nil {
		t.Fatal("expected error opening a missing manifest")
	}
}

func TestPreflightFlagsUnreadableDocument(t *testing.T) {
	dir := t.TempDir()
	ok := writeDoc(t, dir, "ok_repeats=1.txt", "x")
	missing := filepath.Join(dir, "missing_repeats=1.txt")

	docs := []repeats.Document{
		{Name: ok, Size: 1, N: 1},
		{Name: missing, Size: 1, N: 1},
	}

	report := Preflight(context.Background(), docs, 2)
	if !report.Down() {
		t.Fatal("expected report to be down due to the missing document")
	}
	if report.Components[ok].Status != health.StatusUp {
		t.Errorf("component %s = %v, want up", ok, report.Components[ok].Status)
	}
	if report.Components[missing].Status != health.StatusDown {
		t.Errorf("component %s = %v, want down", missing, report.Components[missing].Status)
	}
}
