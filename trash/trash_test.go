package trash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kartaio/karta/fsreader"
	"github.com/kartaio/karta/graph"
	"github.com/kartaio/karta/identity"
)

func setupStore(t *testing.T) (*Store, *graph.Manager, *fsreader.Reader, string) {
	vaultDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(vaultDir, "note.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	storageDir := t.TempDir()

	gm, err := graph.Open(filepath.Join(storageDir, "graph.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { gm.Close() })

	fr := fsreader.New(vaultDir)
	trashDir := filepath.Join(storageDir, "trash")

	node, err := fr.Read(identity.NewNodePath("note.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if err := gm.InsertNodes([]graph.DataNode{node}); err != nil {
		t.Fatal(err)
	}

	return New(trashDir, gm, fr), gm, fr, vaultDir
}

func TestDeleteMovesPhysicalFileToTrash(t *testing.T) {
	s, gm, fr, vaultDir := setupStore(t)

	n, err := gm.OpenNode(identity.HandleFromPath(identity.NewNodePath("note.txt")))
	if err != nil {
		t.Fatal(err)
	}

	result, err := s.DeleteNodes([]identity.NodeHandle{identity.HandleFromUUID(n.UUID)}, "op1")
	if err != nil {
		t.Fatal(err)
	}

	if len(result.DeletedNodes) != 1 {
		t.Fatal("expected one deleted node")
	}
	if len(result.FailedDeletions) != 0 {
		t.Error("unexpected failures:", result.FailedDeletions)
	}

	if fr.Exists(identity.NewNodePath("note.txt")) {
		t.Error("original file should have been moved out")
	}

	if _, err := os.Stat(filepath.Join(vaultDir, "..")); err != nil {
		t.Fatal(err)
	}

	trashedPath := filepath.Join(s.Dir, "op1", "note.txt")
	if _, err := os.Stat(trashedPath); err != nil {
		t.Error("expected trashed file at", trashedPath, err)
	}

	if _, err := gm.OpenNode(identity.HandleFromUUID(n.UUID)); err == nil {
		t.Error("node should no longer be in the graph")
	}

	if _, err := os.Stat(s.logPath()); err != nil {
		t.Error("expected trash log to exist:", err)
	}
}

func TestDeleteUnknownHandleIsPerEntryFailure(t *testing.T) {
	s, _, _, _ := setupStore(t)

	bogus := identity.HandleFromUUID(identity.MustParseUuid("00000000-0000-0000-0000-000000000099"))

	result, err := s.DeleteNodes([]identity.NodeHandle{bogus}, "op2")
	if err != nil {
		t.Fatal(err)
	}

	if len(result.FailedDeletions) != 1 {
		t.Error("expected one failed deletion")
	}
	if len(result.DeletedNodes) != 0 {
		t.Error("expected no deleted nodes")
	}
}
