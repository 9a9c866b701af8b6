package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kartaio/karta/graph"
	"github.com/kartaio/karta/identity"
)

func setupService(t *testing.T) (*Service, string) {
	vaultDir := t.TempDir()
	storageDir := t.TempDir()

	gm, err := graph.Open(filepath.Join(storageDir, "graph.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { gm.Close() })

	return Open(gm, vaultDir, storageDir), vaultDir
}

func TestArchetypeBootstrap(t *testing.T) {
	s, _ := setupService(t)

	for _, alias := range []string{"/", "/vault", "/attributes", "/settings", "/nodetypes"} {
		if _, err := s.GM.OpenNode(identity.HandleFromPath(identity.FromAlias(alias))); err != nil {
			t.Errorf("expected archetype %s to exist: %v", alias, err)
		}
	}
}

func TestDeepCreateByPath(t *testing.T) {
	s, vaultDir := setupService(t)

	if err := os.MkdirAll(filepath.Join(vaultDir, "a", "b"), 0770); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(vaultDir, "a", "b", "c"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.OpenContextFromPath(identity.NewNodePath("a/b/c")); err != nil {
		t.Fatal(err)
	}

	if !s.GM.Exists(identity.NewNodePath("a")) {
		t.Error("expected ancestor 'a' to be indexed")
	}
	if !s.GM.Exists(identity.NewNodePath("a/b")) {
		t.Error("expected ancestor 'a/b' to be indexed")
	}
}

func TestAutoRenameOnCreate(t *testing.T) {
	s, _ := setupService(t)

	n1, err := s.CreateNode(identity.NewNodePath("x"), "foo.txt", identity.NodeTypeVirtualGeneric, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n1.Path.Alias() != "/vault/x/foo.txt" {
		t.Error("unexpected first path:", n1.Path.Alias())
	}

	n2, err := s.CreateNode(identity.NewNodePath("x"), "foo.txt", identity.NodeTypeVirtualGeneric, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n2.Path.Alias() != "/vault/x/foo_2.txt" {
		t.Error("unexpected second path:", n2.Path.Alias())
	}
}

func TestDirectoryRenameCascade(t *testing.T) {
	s, vaultDir := setupService(t)

	if err := os.MkdirAll(filepath.Join(vaultDir, "p", "old", "sub"), 0770); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(vaultDir, "p", "old", "f1.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(vaultDir, "p", "old", "sub", "f2.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.OpenContextFromPath(identity.NewNodePath("p/old")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.OpenContextFromPath(identity.NewNodePath("p/old/sub")); err != nil {
		t.Fatal(err)
	}

	oldUUID, err := s.GM.OpenNode(identity.HandleFromPath(identity.NewNodePath("p/old")))
	if err != nil {
		t.Fatal(err)
	}

	affected, err := s.RenameNode(identity.NewNodePath("p/old"), "new")
	if err != nil {
		t.Fatal(err)
	}

	if len(affected) != 4 {
		t.Errorf("expected 4 affected nodes, got %d: %v", len(affected), affected)
	}

	if s.GM.Exists(identity.NewNodePath("p/old")) {
		t.Error("old alias should no longer resolve")
	}
	if !s.GM.Exists(identity.NewNodePath("p/new")) {
		t.Error("new alias should resolve")
	}

	renamed, err := s.GM.OpenNode(identity.HandleFromPath(identity.NewNodePath("p/new")))
	if err != nil {
		t.Fatal(err)
	}
	if !renamed.UUID.Equal(oldUUID.UUID) {
		t.Error("uuid should be preserved across rename")
	}
}

func TestMoveWithCollision(t *testing.T) {
	s, vaultDir := setupService(t)

	if err := os.MkdirAll(filepath.Join(vaultDir, "dst"), 0770); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(vaultDir, "dst", "test_file.txt"), []byte("dst"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(vaultDir, "test_file.txt"), []byte("src"), 0644); err != nil {
		t.Fatal(err)
	}

	result := s.MoveNodes([]MoveOp{
		{Source: identity.NewNodePath("test_file.txt"), TargetParent: identity.NewNodePath("dst")},
	})

	if len(result.Errors) != 0 {
		t.Fatal("unexpected errors:", result.Errors)
	}
	if len(result.MovedNodes) != 1 {
		t.Fatal("expected one moved node")
	}
	if result.MovedNodes[0].NewPath != "/vault/dst/test_file_2.txt" {
		t.Error("unexpected new path:", result.MovedNodes[0].NewPath)
	}

	if _, err := os.Stat(filepath.Join(vaultDir, "dst", "test_file.txt")); err != nil {
		t.Error("original destination file should remain")
	}
	if _, err := os.Stat(filepath.Join(vaultDir, "dst", "test_file_2.txt")); err != nil {
		t.Error("moved file should exist under its renamed name")
	}
	if _, err := os.Stat(filepath.Join(vaultDir, "test_file.txt")); err == nil {
		t.Error("source file should no longer exist")
	}
}
