package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirDictSuggest(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"alpha", "albert", "beta"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0770); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "albert_file.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	suggestions, err := (dirDict{}).Suggest(filepath.Join(dir, "al"))
	if err != nil {
		t.Fatal(err)
	}

	if len(suggestions) != 2 {
		t.Fatalf("expected 2 directory suggestions, got %d: %v", len(suggestions), suggestions)
	}
}
