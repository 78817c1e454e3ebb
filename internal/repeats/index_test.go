package repeats

import "testing"

func TestIndexAddDocumentIntersectsAlphabet(t *testing.T) {
	idx := NewIndex()

	idx.addDocument(Document{Name: "a", Size: 4, N: 2}, map[byte]OffsetList{
		'x': {0, 2},
		'y': {1, 3},
	})
	if got, want := idx.Size(), 4; got != want {
		t.Fatalf("after first doc: Size() = %d, want %d", got, want)
	}

	idx.addDocument(Document{Name: "b", Size: 3, N: 1}, map[byte]OffsetList{
		'x': {0},
	})

	if _, ok := idx.postings["y"]; ok {
		t.Fatalf("term %q should have been dropped: not present in second document", "y")
	}
	if p, ok := idx.postings["x"]; !ok || p.docCount() != 2 {
		t.Fatalf("term %q should survive with postings in both documents", "x")
	}
}

func TestIndexAddDocumentAssignsDenseIDs(t *testing.T) {
	idx := NewIndex()
	idx.addDocument(Document{Name: "a", Size: 1, N: 1}, map[byte]OffsetList{'z': {0}})
	idx.addDocument(Document{Name: "b", Size: 1, N: 1}, map[byte]OffsetList{'z': {0}})

	docs := idx.Docs()
	if len(docs) != 2 {
		t.Fatalf("Docs() len = %d, want 2", len(docs))
	}
	for i, d := range docs {
		if d.ID != i {
			t.Errorf("docs[%d].ID = %d, want %d", i, d.ID, i)
		}
	}
}

func TestIndexAddDocumentNoNewTermsAfterFirst(t *testing.T) {
	idx := NewIndex()
	idx.addDocument(Document{Name: "a", Size: 1, N: 1}, map[byte]OffsetList{'a': {0}})
	idx.addDocument(Document{Name: "b", Size: 2, N: 1}, map[byte]OffsetList{'a': {0}, 'b': {1}})

	if _, ok := idx.postings["b"]; ok {
		t.Fatalf("term %q should never be added: absent from document a", "b")
	}
}
