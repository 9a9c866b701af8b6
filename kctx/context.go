/*
 * Karta
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package kctx implements ContextStore: the subsystem which generates
default node layouts and merges them with the persisted, RON-serialised
Context files described in spec.md 4.3 and 6.2.
*/
package kctx

import (
	"os"
	"path/filepath"

	"devt.de/krotik/common/fileutil"

	"github.com/kartaio/karta/graph"
	"github.com/kartaio/karta/identity"
	"github.com/kartaio/karta/kerr"
)

// Default layout constants, fixed by spec.md 4.3.
const (
	GridColumns = 5
	NodeWidth   = 100.0
	NodeHeight  = 100.0
	GapX        = 20.0
	GapY        = 64.0
)

/*
ViewNode is a per-context layout hint for one node: size plus position
relative to the focal node. It never carries identity beyond uuid.
*/
type ViewNode struct {
	UUID   string
	Width  float64
	Height float64
	RelX   float64
	RelY   float64
}

/*
Context is the persisted form of a user-curated viewport around a focal
node.
*/
type Context struct {
	Focal     string
	ViewNodes []ViewNode
}

/*
Store owns the contexts directory inside a vault's storage directory.
*/
type Store struct {
	Dir string // <storage>/contexts
}

/*
New creates a Store rooted at the given contexts directory.
*/
func New(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) filePath(focalUUID string) string {
	return filepath.Join(s.Dir, focalUUID+".ctx")
}

/*
GetContextFile reads the persisted Context for the given focal uuid.
Returns a NotFound error if no context file has been saved.
*/
func (s *Store) GetContextFile(focalUUID string) (Context, error) {
	path := s.filePath(focalUUID)

	exists, _ := fileutil.PathExists(path)
	if !exists {
		return Context{}, kerr.NotFound("no saved context for " + focalUUID)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Context{}, kerr.Io(err.Error())
	}

	return decodeRON(data)
}

/*
SaveContext persists ctx. An empty viewnode set deletes the file instead,
reverting the focal to its default layout - spec.md 4.3 and the
empty-save-idempotence property in spec.md 8. Writes use a temp-file
rename for atomicity, per spec.md 5.
*/
func (s *Store) SaveContext(ctx Context) error {
	path := s.filePath(ctx.Focal)

	if len(ctx.ViewNodes) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return kerr.Io(err.Error())
		}
		return nil
	}

	if err := os.MkdirAll(s.Dir, 0770); err != nil {
		return kerr.Io(err.Error())
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, encodeRON(ctx), 0644); err != nil {
		return kerr.Io(err.Error())
	}

	if err := os.Rename(tmp, path); err != nil {
		return kerr.Io(err.Error())
	}

	return nil
}

/*
GenerateContext builds the default layout for focal among the given
nodes (which must include focal, optionally its parent, and its
children), then merges in any persisted context for the same focal per
the merge rule in spec.md 4.3: saved viewnodes replace generated ones
with the same uuid; saved viewnodes whose uuid no longer resolves are
carried through unchanged.
*/
func (s *Store) GenerateContext(focal identity.Uuid, parent *identity.Uuid, nodes []graph.DataNode) Context {
	generated := defaultLayout(focal, parent, nodes)

	saved, err := s.GetContextFile(focal.String())
	if err != nil {
		return generated
	}

	return mergeContexts(generated, saved)
}

func defaultLayout(focal identity.Uuid, parent *identity.Uuid, nodes []graph.DataNode) Context {
	ctx := Context{Focal: focal.String()}

	ctx.ViewNodes = append(ctx.ViewNodes, ViewNode{
		UUID: focal.String(), Width: NodeWidth, Height: NodeHeight, RelX: 0, RelY: 0,
	})

	if parent != nil {
		ctx.ViewNodes = append(ctx.ViewNodes, ViewNode{
			UUID:   parent.String(),
			Width:  NodeWidth,
			Height: NodeHeight,
			RelX:   0,
			RelY:   -(NodeHeight + GapY),
		})
	}

	var children []graph.DataNode
	for _, n := range nodes {
		if n.UUID.Equal(focal) || (parent != nil && n.UUID.Equal(*parent)) {
			continue
		}
		children = append(children, n)
	}
	graph.SortNodesForLayout(children)

	n := len(children)
	if n == 0 {
		return ctx
	}

	cols := n
	if cols > GridColumns {
		cols = GridColumns
	}
	gridWidth := float64(cols)*(NodeWidth+GapX) - GapX
	offsetX := -gridWidth / 2

	for i, c := range children {
		col := i % GridColumns
		row := i / GridColumns

		ctx.ViewNodes = append(ctx.ViewNodes, ViewNode{
			UUID:   c.UUID.String(),
			Width:  NodeWidth,
			Height: NodeHeight,
			RelX:   offsetX + float64(col)*(NodeWidth+GapX),
			RelY:   NodeHeight + GapY + float64(row)*(NodeHeight+GapX),
		})
	}

	return ctx
}

func mergeContexts(generated, saved Context) Context {
	byUUID := make(map[string]ViewNode, len(saved.ViewNodes))
	for _, vn := range saved.ViewNodes {
		byUUID[vn.UUID] = vn
	}

	result := Context{Focal: generated.Focal}
	seen := make(map[string]bool)

	for _, vn := range generated.ViewNodes {
		if replacement, ok := byUUID[vn.UUID]; ok {
			result.ViewNodes = append(result.ViewNodes, replacement)
		} else {
			result.ViewNodes = append(result.ViewNodes, vn)
		}
		seen[vn.UUID] = true
	}

	for _, vn := range saved.ViewNodes {
		if !seen[vn.UUID] {
			result.ViewNodes = append(result.ViewNodes, vn)
		}
	}

	return result
}
