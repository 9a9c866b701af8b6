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
Package vault implements VaultService: the orchestrator described in
spec.md 4.6. It is the only package allowed to drive filesystem side
effects alongside graph mutations, and the sole owner of the
process-wide reader-writer lock described in spec.md 5.
*/
package vault

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/kartaio/karta/fsreader"
	"github.com/kartaio/karta/graph"
	"github.com/kartaio/karta/identity"
	"github.com/kartaio/karta/kctx"
	"github.com/kartaio/karta/kerr"
	"github.com/kartaio/karta/search"
	"github.com/kartaio/karta/trash"
)

/*
Service is the orchestrator every HTTP handler talks to. A single
instance is shared by the whole process; Lock guards every mutating
operation (and OpenContextFromPath, which may index nodes as a side
effect), RLock guards SearchVault, per spec.md 5.
*/
type Service struct {
	mutex sync.RWMutex

	GM     *graph.Manager
	FR     *fsreader.Reader
	Ctx    *kctx.Store
	Trash  *trash.Store
	Search *search.Index

	opCounter int
}

/*
Open assembles a Service over an already-open graph store and the given
vault/storage directories.
*/
func Open(gm *graph.Manager, vaultRoot, storageDir string) *Service {
	fr := fsreader.New(vaultRoot)
	return &Service{
		GM:     gm,
		FR:     fr,
		Ctx:    kctx.New(filepath.Join(storageDir, "contexts")),
		Trash:  trash.New(filepath.Join(storageDir, "trash"), gm, fr),
		Search: search.New(gm, fr),
	}
}

/*
SearchVault runs a fuzzy query over the indexed graph and live filesystem,
per spec.md 4.4 and 4.7. Read-only; takes the shared lock for reading.
*/
func (s *Service) SearchVault(q string, limit int, minScore float64) (results []search.Result, totalFound int, truncated bool, err error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.Search.Search(q, limit, minScore)
}

func (s *Service) nextOperationID() string {
	s.opCounter++
	return "op" + strconv.Itoa(s.opCounter)
}

// OpenContextBundle is the read-only triple returned by OpenContextFromPath.
type OpenContextBundle struct {
	Nodes   []graph.DataNode
	Edges   []graph.Edge
	Context kctx.Context
}

/*
OpenContextFromPath resolves path, lazily indexing any unindexed physical
ancestors and children, then returns the (nodes, edges, context) triple
described in spec.md 4.6.
*/
func (s *Service) OpenContextFromPath(path identity.NodePath) (OpenContextBundle, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.indexAncestorChain(path); err != nil {
		return OpenContextBundle{}, err
	}

	focal, err := s.GM.OpenNode(identity.HandleFromPath(path))
	if err != nil {
		return OpenContextBundle{}, err
	}

	if focal.IsDir() {
		if err := s.indexChildren(path); err != nil {
			return OpenContextBundle{}, err
		}
	}

	parent, err := s.GM.ParentOf(focal.UUID)
	if err != nil {
		return OpenContextBundle{}, err
	}

	nodes := []graph.DataNode{focal}
	var parentUUID *identity.Uuid
	if parent != nil {
		nodes = append(nodes, *parent)
		u := parent.UUID
		parentUUID = &u
	}

	pairs, err := s.GM.OpenNodeConnections(path)
	if err != nil {
		return OpenContextBundle{}, err
	}

	edges := make([]graph.Edge, 0, len(pairs))
	for _, p := range pairs {
		edges = append(edges, p.Edge)
		if p.Edge.Contains && p.Edge.Source.Equal(focal.UUID) {
			nodes = append(nodes, p.Node)
		}
	}

	ctx := s.Ctx.GenerateContext(focal.UUID, parentUUID, nodes)

	return OpenContextBundle{Nodes: nodes, Edges: edges, Context: ctx}, nil
}

/*
indexAncestorChain walks from the vault root down to path, inserting any
physical ancestor that GraphStore does not yet know about.
*/
func (s *Service) indexAncestorChain(path identity.NodePath) error {
	var chain []identity.NodePath
	for p := path; ; p = p.Parent() {
		chain = append([]identity.NodePath{p}, chain...)
		if p.Rel() == identity.ArchetypeVault || p.Rel() == identity.ArchetypeRoot {
			break
		}
	}

	var toInsert []graph.DataNode
	for _, p := range chain {
		if p.IsArchetype() {
			continue
		}
		if s.GM.Exists(p) {
			continue
		}
		if !s.FR.Exists(p) {
			return kerr.NotFound("no such path: " + p.Alias())
		}
		n, err := s.FR.Read(p)
		if err != nil {
			return err
		}
		toInsert = append(toInsert, n)
	}

	if len(toInsert) > 0 {
		if err := s.GM.InsertNodes(toInsert); err != nil {
			return err
		}
	}

	return nil
}

/*
indexChildren inserts any filesystem child of a directory path which
GraphStore does not yet know about.
*/
func (s *Service) indexChildren(path identity.NodePath) error {
	children, err := s.FR.Children(path)
	if err != nil {
		return nil // not a directory on disk (e.g. purely virtual) - nothing to index
	}

	var toInsert []graph.DataNode
	for _, c := range children {
		if !s.GM.Exists(c.Path) {
			toInsert = append(toInsert, c)
		}
	}

	if len(toInsert) > 0 {
		return s.GM.InsertNodes(toInsert)
	}
	return nil
}

/*
CreateNode creates a node under parentPath with the given name, ntype
and attributes, auto-renaming on collision per spec.md 4.6.
*/
func (s *Service) CreateNode(parentPath identity.NodePath, name string, ntype identity.NodeTypeId, attrs []identity.Attribute) (graph.DataNode, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !parentPath.IsUnderVault() {
		return graph.DataNode{}, kerr.BadRequest("parent path must be under /vault")
	}
	if name == "" {
		return graph.DataNode{}, kerr.BadRequest("name must not be empty")
	}

	finalName := s.autoRename(parentPath, name)
	childPath := parentPath.Join(finalName)

	n := graph.DataNode{
		Path:  childPath,
		Name:  finalName,
		NType: ntype,
		Alive: true,
		Attrs: identity.FilterReservedNode(attrs),
	}

	if err := s.GM.InsertNodes([]graph.DataNode{n}); err != nil {
		return graph.DataNode{}, err
	}

	return s.GM.OpenNode(identity.HandleFromPath(childPath))
}

/*
autoRename returns a name guaranteed not to collide with an existing
child of parentPath, appending "_2", "_3", ... before the extension (or
after the name if there is none) as needed.
*/
func (s *Service) autoRename(parentPath identity.NodePath, name string) string {
	candidate := name
	for i := 2; s.GM.Exists(parentPath.Join(candidate)) || s.FR.Exists(parentPath.Join(candidate)); i++ {
		candidate = withSuffix(name, i)
	}
	return candidate
}

func withSuffix(name string, n int) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return fmt.Sprintf("%s_%d", name, n)
	}
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%d%s", base, n, ext)
}

/*
UpdateResult reports the node that was directly updated plus every other
node whose alias changed as a side effect (only non-empty for renames).
*/
type UpdateResult struct {
	UpdatedNode   graph.DataNode
	AffectedNodes []MovedNodeInfo
}

/*
UpdateNode merges attrs into uuid's attribute set. If attrs contains a
"name" attribute whose value differs from the node's current name, this
is treated as a rename and reduces to moveNodeWithRenameLocked, per spec.md
4.6.
*/
func (s *Service) UpdateNode(uuid identity.Uuid, attrs []identity.Attribute) (UpdateResult, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	current, err := s.GM.OpenNodesByUUID([]identity.Uuid{uuid})
	if err != nil {
		return UpdateResult{}, err
	}
	if len(current) == 0 {
		return UpdateResult{}, kerr.NotFound("no node for uuid " + uuid.String())
	}
	node := current[0]

	var newName string
	hasRename := false
	var rest []identity.Attribute
	for _, a := range attrs {
		if a.Name == "name" && a.Kind == identity.AttrString && a.Str != node.Name {
			newName = a.Str
			hasRename = true
			continue
		}
		rest = append(rest, a)
	}

	if hasRename {
		affected, err := s.moveNodeWithRenameLocked(node.Path, node.Path.Parent(), newName)
		if err != nil {
			return UpdateResult{}, err
		}
		updated, err := s.GM.OpenNodesByUUID([]identity.Uuid{uuid})
		if err != nil || len(updated) == 0 {
			return UpdateResult{}, kerr.Backend("node vanished during rename")
		}
		return UpdateResult{UpdatedNode: updated[0], AffectedNodes: affected}, nil
	}

	updated, err := s.GM.UpdateNodeAttributes(uuid, identity.FilterReservedNode(rest))
	if err != nil {
		return UpdateResult{}, err
	}

	return UpdateResult{UpdatedNode: updated}, nil
}

/*
RenameNode renames the node at path to newName, rejecting the root and
archetype paths per spec.md 4.6.
*/
func (s *Service) RenameNode(path identity.NodePath, newName string) ([]MovedNodeInfo, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.moveNodeWithRenameLocked(path, path.Parent(), newName)
}
