package fsreader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kartaio/karta/identity"
)

func setupVault(t *testing.T) string {
	dir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0770); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "b.md"), []byte("world"), 0644); err != nil {
		t.Fatal(err)
	}

	return dir
}

func TestReadFile(t *testing.T) {
	r := New(setupVault(t))

	p := identity.NewNodePath("a.txt")

	n, err := r.Read(p)
	if err != nil {
		t.Fatal(err)
	}

	if n.NType != identity.NodeTypeFsFileExt("txt") {
		t.Error("Unexpected ntype:", n.NType)
	}
	if n.Name != "a.txt" {
		t.Error("Unexpected name:", n.Name)
	}
}

func TestReadDir(t *testing.T) {
	r := New(setupVault(t))

	p := identity.NewNodePath("sub")

	n, err := r.Read(p)
	if err != nil {
		t.Fatal(err)
	}
	if n.NType != identity.NodeTypeFsDir {
		t.Error("Unexpected ntype:", n.NType)
	}
}

func TestNotFound(t *testing.T) {
	r := New(setupVault(t))

	if _, err := r.Read(identity.NewNodePath("nope.txt")); err == nil {
		t.Error("Expected error for missing path")
	}
}

func TestChildren(t *testing.T) {
	r := New(setupVault(t))

	children, err := r.Children(identity.VaultPath())
	if err != nil {
		t.Fatal(err)
	}

	if len(children) != 2 {
		t.Error("Unexpected child count:", len(children))
	}
}

func TestRename(t *testing.T) {
	r := New(setupVault(t))

	oldP := identity.NewNodePath("a.txt")
	newP := identity.NewNodePath("renamed.txt")

	if err := r.Rename(oldP, newP); err != nil {
		t.Fatal(err)
	}

	if r.Exists(oldP) {
		t.Error("Old path should no longer exist")
	}
	if !r.Exists(newP) {
		t.Error("New path should exist")
	}
}
