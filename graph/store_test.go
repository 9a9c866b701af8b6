/*
 * Karta
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package graph

import (
	"path/filepath"
	"testing"

	"github.com/kartaio/karta/identity"
)

func openTestManager(t *testing.T) *Manager {
	t.Helper()

	gm, err := Open(filepath.Join(t.TempDir(), "graph.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { gm.Close() })
	return gm
}

func TestBootstrapArchetypes(t *testing.T) {
	gm := openTestManager(t)

	for _, seg := range []string{identity.ArchetypeVault, identity.ArchetypeAttributes,
		identity.ArchetypeSettings, identity.ArchetypeNodeTypes} {

		p := identity.NodePath{}.Join(seg)
		if !gm.Exists(p) {
			t.Errorf("expected archetype %q to exist after bootstrap", p.Alias())
		}
	}

	root, err := gm.OpenNode(identity.HandleFromPath(identity.RootPath()))
	if err != nil {
		t.Fatal(err)
	}
	if root.NType != identity.NodeTypeRoot {
		t.Errorf("expected root ntype %q, got %q", identity.NodeTypeRoot, root.NType)
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.db")

	gm, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	gm.Close()

	gm2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer gm2.Close()

	paths, err := gm2.GetAllIndexedPaths()
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 5 {
		t.Errorf("expected 5 archetype paths after reopen, got %d", len(paths))
	}
}

func TestInsertAndOpenNode(t *testing.T) {
	gm := openTestManager(t)

	p := identity.NewNodePath("notes/todo.txt")
	n := DataNode{
		Path:  p,
		Name:  "todo.txt",
		NType: identity.NodeTypeFsFile,
		Alive: true,
	}

	if err := gm.InsertNodes([]DataNode{n}); err != nil {
		t.Fatal(err)
	}

	got, err := gm.OpenNode(identity.HandleFromPath(p))
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "todo.txt" || got.UUID.IsNil() {
		t.Errorf("unexpected node after insert: %+v", got)
	}

	// intermediate ancestor "notes" should have been auto-created
	if !gm.Exists(identity.NewNodePath("notes")) {
		t.Error("expected intermediate ancestor to be auto-created")
	}
}

func TestInsertNodesUpsertsInPlace(t *testing.T) {
	gm := openTestManager(t)

	p := identity.NewNodePath("a.txt")
	n := DataNode{Path: p, Name: "a.txt", NType: identity.NodeTypeFsFile, Alive: true}

	if err := gm.InsertNodes([]DataNode{n}); err != nil {
		t.Fatal(err)
	}
	first, err := gm.OpenNode(identity.HandleFromPath(p))
	if err != nil {
		t.Fatal(err)
	}

	n.Attrs = []identity.Attribute{{Name: "color", Kind: identity.AttrString, Str: "red"}}
	if err := gm.InsertNodes([]DataNode{n}); err != nil {
		t.Fatal(err)
	}
	second, err := gm.OpenNode(identity.HandleFromPath(p))
	if err != nil {
		t.Fatal(err)
	}

	if !first.UUID.Equal(second.UUID) {
		t.Error("expected uuid to be preserved across upsert")
	}
	if len(second.Attrs) != 1 || second.Attrs[0].Str != "red" {
		t.Errorf("expected attribute to be merged, got %+v", second.Attrs)
	}
}

func TestOpenNodeNotFound(t *testing.T) {
	gm := openTestManager(t)

	_, err := gm.OpenNode(identity.HandleFromPath(identity.NewNodePath("missing.txt")))
	if err == nil {
		t.Fatal("expected error for missing node")
	}
}

func TestParentOf(t *testing.T) {
	gm := openTestManager(t)

	p := identity.NewNodePath("dir/child.txt")
	if err := gm.InsertNodes([]DataNode{{Path: p, Name: "child.txt", NType: identity.NodeTypeFsFile, Alive: true}}); err != nil {
		t.Fatal(err)
	}

	child, err := gm.OpenNode(identity.HandleFromPath(p))
	if err != nil {
		t.Fatal(err)
	}

	parent, err := gm.ParentOf(child.UUID)
	if err != nil {
		t.Fatal(err)
	}
	if parent == nil || parent.Name != "dir" {
		t.Errorf("expected parent %q, got %+v", "dir", parent)
	}
}

func TestRenameAlias(t *testing.T) {
	gm := openTestManager(t)

	p := identity.NewNodePath("old.txt")
	if err := gm.InsertNodes([]DataNode{{Path: p, Name: "old.txt", NType: identity.NodeTypeFsFile, Alive: true}}); err != nil {
		t.Fatal(err)
	}
	n, err := gm.OpenNode(identity.HandleFromPath(p))
	if err != nil {
		t.Fatal(err)
	}

	newPath := identity.NewNodePath("new.txt")
	if err := gm.RenameAlias(n.UUID, newPath); err != nil {
		t.Fatal(err)
	}

	if gm.Exists(p) {
		t.Error("expected old alias to be gone after rename")
	}
	renamed, err := gm.OpenNode(identity.HandleFromPath(newPath))
	if err != nil {
		t.Fatal(err)
	}
	if !renamed.UUID.Equal(n.UUID) {
		t.Error("expected uuid to survive rename")
	}
}

func TestReparent(t *testing.T) {
	gm := openTestManager(t)

	dstDir := identity.NewNodePath("dst")
	child := identity.NewNodePath("src/leaf.txt")

	if err := gm.InsertNodes([]DataNode{
		{Path: dstDir, Name: "dst", NType: identity.NodeTypeFsDir, Alive: true},
		{Path: child, Name: "leaf.txt", NType: identity.NodeTypeFsFile, Alive: true},
	}); err != nil {
		t.Fatal(err)
	}

	leaf, err := gm.OpenNode(identity.HandleFromPath(child))
	if err != nil {
		t.Fatal(err)
	}
	dst, err := gm.OpenNode(identity.HandleFromPath(dstDir))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := gm.Reparent(leaf.UUID, dst.UUID); err != nil {
		t.Fatal(err)
	}

	parent, err := gm.ParentOf(leaf.UUID)
	if err != nil {
		t.Fatal(err)
	}
	if parent == nil || !parent.UUID.Equal(dst.UUID) {
		t.Errorf("expected new parent %v, got %+v", dst.UUID, parent)
	}
}

func TestGetAllDescendants(t *testing.T) {
	gm := openTestManager(t)

	if err := gm.InsertNodes([]DataNode{
		{Path: identity.NewNodePath("tree/a"), Name: "a", NType: identity.NodeTypeFsDir, Alive: true},
		{Path: identity.NewNodePath("tree/a/b.txt"), Name: "b.txt", NType: identity.NodeTypeFsFile, Alive: true},
		{Path: identity.NewNodePath("tree/c.txt"), Name: "c.txt", NType: identity.NodeTypeFsFile, Alive: true},
	}); err != nil {
		t.Fatal(err)
	}

	descendants, err := gm.GetAllDescendants(identity.NewNodePath("tree"))
	if err != nil {
		t.Fatal(err)
	}
	if len(descendants) != 3 {
		t.Errorf("expected 3 descendants of tree, got %d: %+v", len(descendants), descendants)
	}
}

func TestCreateAndDeleteEdge(t *testing.T) {
	gm := openTestManager(t)

	if err := gm.InsertNodes([]DataNode{
		{Path: identity.NewNodePath("x.txt"), Name: "x.txt", NType: identity.NodeTypeFsFile, Alive: true},
		{Path: identity.NewNodePath("y.txt"), Name: "y.txt", NType: identity.NodeTypeFsFile, Alive: true},
	}); err != nil {
		t.Fatal(err)
	}

	x, err := gm.OpenNode(identity.HandleFromPath(identity.NewNodePath("x.txt")))
	if err != nil {
		t.Fatal(err)
	}
	y, err := gm.OpenNode(identity.HandleFromPath(identity.NewNodePath("y.txt")))
	if err != nil {
		t.Fatal(err)
	}

	edges, err := gm.CreateEdges([]Edge{{Source: x.UUID, Target: y.UUID}})
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 1 || edges[0].UUID.IsNil() {
		t.Fatalf("unexpected created edges: %+v", edges)
	}

	found, err := gm.GetEdge(x.UUID, y.UUID)
	if err != nil {
		t.Fatal(err)
	}
	if found == nil {
		t.Fatal("expected edge to be found")
	}

	if err := gm.DeleteEdge(found.UUID); err != nil {
		t.Fatal(err)
	}
	if again, err := gm.GetEdge(x.UUID, y.UUID); err != nil || again != nil {
		t.Errorf("expected edge to be gone, got %+v (err %v)", again, err)
	}
}

func TestDeleteNodeRemovesEdges(t *testing.T) {
	gm := openTestManager(t)

	p := identity.NewNodePath("gone.txt")
	if err := gm.InsertNodes([]DataNode{{Path: p, Name: "gone.txt", NType: identity.NodeTypeFsFile, Alive: true}}); err != nil {
		t.Fatal(err)
	}
	n, err := gm.OpenNode(identity.HandleFromPath(p))
	if err != nil {
		t.Fatal(err)
	}

	deleted, edges, err := gm.DeleteNode(n.UUID)
	if err != nil {
		t.Fatal(err)
	}
	if !deleted.UUID.Equal(n.UUID) {
		t.Errorf("expected deleted node to match, got %+v", deleted)
	}
	if len(edges) == 0 {
		t.Error("expected at least the contains edge from its parent to be reported")
	}

	if gm.Exists(p) {
		t.Error("expected alias to be gone after delete")
	}
	if _, err := gm.OpenNode(identity.HandleFromPath(p)); err == nil {
		t.Error("expected OpenNode to fail for deleted node")
	}
}

func TestUpdateNodeAttributes(t *testing.T) {
	gm := openTestManager(t)

	p := identity.NewNodePath("attrs.txt")
	if err := gm.InsertNodes([]DataNode{{Path: p, Name: "attrs.txt", NType: identity.NodeTypeFsFile, Alive: true}}); err != nil {
		t.Fatal(err)
	}
	n, err := gm.OpenNode(identity.HandleFromPath(p))
	if err != nil {
		t.Fatal(err)
	}

	updated, err := gm.UpdateNodeAttributes(n.UUID, []identity.Attribute{
		{Name: "tag", Kind: identity.AttrString, Str: "important"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.Attrs) != 1 || updated.Attrs[0].Str != "important" {
		t.Errorf("expected merged attribute, got %+v", updated.Attrs)
	}

	updated, err = gm.UpdateNodeAttributes(n.UUID, []identity.Attribute{
		{Name: "tag", Kind: identity.AttrString, Str: "urgent"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.Attrs) != 1 || updated.Attrs[0].Str != "urgent" {
		t.Errorf("expected attribute to be replaced in place, got %+v", updated.Attrs)
	}
}
