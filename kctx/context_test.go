package kctx

import (
	"testing"

	"github.com/kartaio/karta/graph"
	"github.com/kartaio/karta/identity"
)

func mkNode(alias string, millis int64) graph.DataNode {
	p := identity.FromAlias(alias)
	return graph.DataNode{
		UUID: identity.DeriveNodeUUID(alias, millis),
		Path: p,
		Name: p.Name(),
	}
}

func TestDefaultLayoutFocalAtOrigin(t *testing.T) {
	focal := mkNode("/vault/dir", 1)
	a := mkNode("/vault/dir/a.txt", 2)
	b := mkNode("/vault/dir/b.txt", 3)

	ctx := defaultLayout(focal.UUID, nil, []graph.DataNode{focal, a, b})

	var focalVN *ViewNode
	for i := range ctx.ViewNodes {
		if ctx.ViewNodes[i].UUID == focal.UUID.String() {
			focalVN = &ctx.ViewNodes[i]
		}
	}
	if focalVN == nil {
		t.Fatal("focal viewnode missing")
	}
	if focalVN.RelX != 0 || focalVN.RelY != 0 {
		t.Error("focal should be at origin")
	}
	if len(ctx.ViewNodes) != 3 {
		t.Error("expected 3 viewnodes, got", len(ctx.ViewNodes))
	}
}

func TestSaveEmptyRemovesFile(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	focal := mkNode("/vault/x", 1)

	if err := s.SaveContext(Context{Focal: focal.UUID.String(), ViewNodes: []ViewNode{
		{UUID: focal.UUID.String(), Width: 100, Height: 100},
	}}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetContextFile(focal.UUID.String()); err != nil {
		t.Fatal("expected saved context to be readable:", err)
	}

	if err := s.SaveContext(Context{Focal: focal.UUID.String()}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetContextFile(focal.UUID.String()); err == nil {
		t.Error("expected context file to be gone after empty save")
	}
}

func TestMergeKeepsSavedAndAddsDefaults(t *testing.T) {
	focal := mkNode("/vault/dir", 1)
	a := mkNode("/vault/dir/a.txt", 2)
	b := mkNode("/vault/dir/b.txt", 3)

	dir := t.TempDir()
	s := New(dir)

	if err := s.SaveContext(Context{
		Focal: focal.UUID.String(),
		ViewNodes: []ViewNode{
			{UUID: b.UUID.String(), Width: 100, Height: 100, RelX: 500, RelY: 500},
		},
	}); err != nil {
		t.Fatal(err)
	}

	ctx := s.GenerateContext(focal.UUID, nil, []graph.DataNode{focal, a, b})

	var aVN, bVN *ViewNode
	for i := range ctx.ViewNodes {
		switch ctx.ViewNodes[i].UUID {
		case a.UUID.String():
			aVN = &ctx.ViewNodes[i]
		case b.UUID.String():
			bVN = &ctx.ViewNodes[i]
		}
	}

	if aVN == nil || bVN == nil {
		t.Fatal("expected both A and B viewnodes present")
	}
	if bVN.RelX != 500 {
		t.Error("expected saved B position to be kept, got", bVN.RelX)
	}
	if aVN.RelX == bVN.RelX {
		t.Error("expected A to keep its own default position, distinct from B")
	}
}
