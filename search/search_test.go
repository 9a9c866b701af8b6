package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kartaio/karta/fsreader"
	"github.com/kartaio/karta/graph"
)

func setupIndex(t *testing.T) *Index {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "readme.md"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "project"), 0770); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "project", "report.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(t.TempDir(), "graph.db")
	gm, err := graph.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { gm.Close() })

	fr := fsreader.New(dir)

	return New(gm, fr)
}

func TestEmptyQueryReturnsNoResults(t *testing.T) {
	idx := setupIndex(t)

	results, _, truncated, err := idx.Search("", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 || truncated {
		t.Error("expected no results for empty query")
	}
}

func TestFuzzyFindsUnindexedFile(t *testing.T) {
	idx := setupIndex(t)

	results, _, _, err := idx.Search("report", 10, 0)
	if err != nil {
		t.Fatal(err)
	}

	found := false
	for _, r := range results {
		if r.Name == "report.txt" {
			found = true
			if r.IsIndexed {
				t.Error("report.txt should not be indexed yet")
			}
		}
	}
	if !found {
		t.Error("expected to find report.txt")
	}
}

func TestExactNameOutranksSubstringMatch(t *testing.T) {
	idx := setupIndex(t)

	if err := os.WriteFile(filepath.Join(idx.fr.VaultRoot, "old_readme.md"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	results, _, _, err := idx.Search("readme.md", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if results[0].Name != "readme.md" {
		t.Error("expected exact match to rank first, got", results[0].Name)
	}
}

func TestLimitTruncates(t *testing.T) {
	idx := setupIndex(t)

	results, totalFound, truncated, err := idx.Search("e", 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || !truncated {
		t.Error("expected results truncated to 1")
	}
	if totalFound <= len(results) {
		t.Error("expected totalFound to reflect the pre-truncation match count, got", totalFound)
	}
}
