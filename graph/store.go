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
	"bytes"
	"sort"
	"sync"

	bolt "go.etcd.io/bbolt"

	"github.com/kartaio/karta/identity"
	"github.com/kartaio/karta/kerr"
)

// VERSION of the GraphStore on-disk format.
const VERSION = 1

var (
	bucketNodes     = []byte("nodes")
	bucketAliasIdx  = []byte("alias_idx")
	bucketEdges     = []byte("edges")
	bucketNodeEdges = []byte("node_edges")
	bucketMeta      = []byte("meta")
)

const metaKeyBootstrapped = "bootstrapped"

/*
Manager is the persistent, single-writer graph of nodes and edges keyed
by alias and uuid. It mirrors EliasDB's graph.Manager in shape (a mutex
guarded struct wrapping a storage handle, exposing CRUD and traversal
methods) but is backed by a bbolt database - see SPEC_FULL.md 5.
*/
type Manager struct {
	db    *bolt.DB
	mutex sync.RWMutex
}

/*
Open opens (creating if necessary) a GraphStore at the given file path and
bootstraps the archetype skeleton on first use.
*/
func Open(path string) (*Manager, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, kerr.Backend(err.Error())
	}

	gm := &Manager{db: db}

	if err := gm.db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketNodes, bucketAliasIdx, bucketEdges, bucketNodeEdges, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, kerr.Backend(err.Error())
	}

	if err := gm.bootstrap(); err != nil {
		db.Close()
		return nil, err
	}

	return gm, nil
}

/*
Close closes the underlying database handle.
*/
func (gm *Manager) Close() error {
	return gm.db.Close()
}

/*
FlushAll is a no-op: bbolt persists every committed write transaction
immediately. Kept for parity with EliasDB's Manager.
*/
func (gm *Manager) FlushAll() error {
	return nil
}

/*
bootstrap inserts the five archetype nodes and parents the non-root four
to root, exactly once per database file.
*/
func (gm *Manager) bootstrap() error {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	done := false
	gm.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketMeta).Get([]byte(metaKeyBootstrapped))
		done = v != nil
		return nil
	})
	if done {
		return nil
	}

	return gm.db.Update(func(tx *bolt.Tx) error {
		now := identity.Now()

		root := DataNode{
			UUID:         identity.NilUuid,
			Path:         identity.RootPath(),
			Name:         "root",
			NType:        identity.NodeTypeRoot,
			Alive:        true,
			CreatedTime:  now,
			ModifiedTime: now,
		}
		if err := putNode(tx, root, ""); err != nil {
			return err
		}

		for _, seg := range []string{identity.ArchetypeVault, identity.ArchetypeAttributes,
			identity.ArchetypeSettings, identity.ArchetypeNodeTypes} {

			p := identity.NodePath{}.Join(seg)
			u := identity.DeriveNodeUUID(p.Alias(), now.Millis())

			n := DataNode{
				UUID:         u,
				Path:         p,
				Name:         seg,
				NType:        identity.NodeTypeArchetype,
				Alive:        true,
				CreatedTime:  now,
				ModifiedTime: now,
			}
			if err := putNode(tx, n, identity.NilUuid.String()); err != nil {
				return err
			}
			if err := putContainsEdge(tx, identity.NilUuid, u, now); err != nil {
				return err
			}
		}

		return tx.Bucket(bucketMeta).Put([]byte(metaKeyBootstrapped), []byte{1})
	})
}

// --- low level bucket helpers -------------------------------------------------

func putNode(tx *bolt.Tx, n DataNode, parentUUID string) error {
	rec := nodeToRecord(n, parentUUID)
	b, err := encodeNode(rec)
	if err != nil {
		return err
	}
	if err := tx.Bucket(bucketNodes).Put([]byte(n.UUID.String()), b); err != nil {
		return err
	}
	return tx.Bucket(bucketAliasIdx).Put([]byte(n.Path.Alias()), []byte(n.UUID.String()))
}

func getNodeRecord(tx *bolt.Tx, uuidStr string) (nodeRecord, bool, error) {
	b := tx.Bucket(bucketNodes).Get([]byte(uuidStr))
	if b == nil {
		return nodeRecord{}, false, nil
	}
	rec, err := decodeNode(b)
	return rec, true, err
}

func uuidForAlias(tx *bolt.Tx, alias string) (string, bool) {
	b := tx.Bucket(bucketAliasIdx).Get([]byte(alias))
	if b == nil {
		return "", false
	}
	return string(b), true
}

func putContainsEdge(tx *bolt.Tx, parent, child identity.Uuid, now identity.SysTime) error {
	e := Edge{
		UUID:         identity.DeriveEdgeUUID(parent, child, now.Millis(), "contains"),
		Source:       parent,
		Target:       child,
		Contains:     true,
		CreatedTime:  now,
		ModifiedTime: now,
	}
	return putEdge(tx, e)
}

func putEdge(tx *bolt.Tx, e Edge) error {
	rec := edgeToRecord(e)
	b, err := encodeEdge(rec)
	if err != nil {
		return err
	}
	if err := tx.Bucket(bucketEdges).Put([]byte(e.UUID.String()), b); err != nil {
		return err
	}
	if err := tx.Bucket(bucketNodeEdges).Put(nodeEdgeKey(e.Source.String(), e.UUID.String()), []byte{}); err != nil {
		return err
	}
	return tx.Bucket(bucketNodeEdges).Put(nodeEdgeKey(e.Target.String(), e.UUID.String()), []byte{})
}

func removeEdge(tx *bolt.Tx, e Edge) error {
	if err := tx.Bucket(bucketEdges).Delete([]byte(e.UUID.String())); err != nil {
		return err
	}
	if err := tx.Bucket(bucketNodeEdges).Delete(nodeEdgeKey(e.Source.String(), e.UUID.String())); err != nil {
		return err
	}
	return tx.Bucket(bucketNodeEdges).Delete(nodeEdgeKey(e.Target.String(), e.UUID.String()))
}

func nodeEdgeKey(nodeUUID, edgeUUID string) []byte {
	return []byte(nodeUUID + "\x00" + edgeUUID)
}

func edgesTouching(tx *bolt.Tx, nodeUUID string) ([]Edge, error) {
	prefix := []byte(nodeUUID + "\x00")
	c := tx.Bucket(bucketNodeEdges).Cursor()

	var out []Edge
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		edgeUUID := string(k[len(prefix):])
		eb := tx.Bucket(bucketEdges).Get([]byte(edgeUUID))
		if eb == nil {
			continue
		}
		rec, err := decodeEdge(eb)
		if err != nil {
			return nil, err
		}
		e, err := recordToEdge(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// --- public API ----------------------------------------------------------

/*
Exists reports whether a node with the given alias is indexed.
*/
func (gm *Manager) Exists(p identity.NodePath) bool {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()

	found := false
	gm.db.View(func(tx *bolt.Tx) error {
		_, found = uuidForAlias(tx, p.Alias())
		return nil
	})
	return found
}

/*
InsertNodes upserts a batch of nodes. If a node with the same alias
exists, its attributes are updated in place while its uuid and contains
edge are preserved. Missing intermediate ancestors are auto-created as
core/fs/dir nodes, parented recursively up to vault, per spec.md 4.1.
*/
func (gm *Manager) InsertNodes(nodes []DataNode) error {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	return gm.db.Update(func(tx *bolt.Tx) error {
		for _, n := range nodes {
			if err := gm.insertNodeTxn(tx, n); err != nil {
				return err
			}
		}
		return nil
	})
}

func (gm *Manager) insertNodeTxn(tx *bolt.Tx, n DataNode) error {
	if n.Path.Rel() == identity.ArchetypeRoot {
		// The virtual root only exists via bootstrap.
		return nil
	}

	parentUUID, err := gm.ensureAncestorTxn(tx, n.Path.Parent())
	if err != nil {
		return err
	}

	if existingUUID, ok := uuidForAlias(tx, n.Path.Alias()); ok {
		return gm.updateInPlaceTxn(tx, existingUUID, n)
	}

	now := identity.Now()
	if n.UUID.IsNil() {
		n.UUID = identity.DeriveNodeUUID(n.Path.Alias(), now.Millis())
	}
	if n.CreatedTime == 0 {
		n.CreatedTime = now
	}
	n.ModifiedTime = now
	if n.Name == "" {
		n.Name = n.Path.Name()
	}
	n.Alive = true

	if err := putNode(tx, n, parentUUID); err != nil {
		return err
	}
	parentU, err := identity.ParseUuid(parentUUID)
	if err != nil {
		return err
	}
	return putContainsEdge(tx, parentU, n.UUID, now)
}

func (gm *Manager) updateInPlaceTxn(tx *bolt.Tx, existingUUID string, n DataNode) error {
	rec, ok, err := getNodeRecord(tx, existingUUID)
	if err != nil {
		return err
	}
	if !ok {
		return kerr.Backend("alias index points at a missing node record")
	}

	rec.NType = string(n.NType)
	if n.Name != "" {
		rec.Name = n.Name
	}
	rec.ModifiedMillis = identity.Now().Millis()

	for _, a := range n.Attrs {
		replaced := false
		for i := range rec.Attrs {
			if rec.Attrs[i].Name == a.Name {
				rec.Attrs[i] = attrRecord{Name: a.Name, Kind: a.Kind, Float: a.Float, Str: a.Str, Uint: a.Uint}
				replaced = true
				break
			}
		}
		if !replaced {
			rec.Attrs = append(rec.Attrs, attrRecord{Name: a.Name, Kind: a.Kind, Float: a.Float, Str: a.Str, Uint: a.Uint})
		}
	}

	b, err := encodeNode(rec)
	if err != nil {
		return err
	}
	return tx.Bucket(bucketNodes).Put([]byte(existingUUID), b)
}

/*
ensureAncestorTxn returns the uuid of the node at path p, auto-creating
intermediate core/fs/dir ancestors (recursively, up to vault) if missing.
*/
func (gm *Manager) ensureAncestorTxn(tx *bolt.Tx, p identity.NodePath) (string, error) {
	if p.Rel() == identity.ArchetypeRoot {
		return identity.NilUuid.String(), nil
	}

	if u, ok := uuidForAlias(tx, p.Alias()); ok {
		return u, nil
	}

	parentUUID, err := gm.ensureAncestorTxn(tx, p.Parent())
	if err != nil {
		return "", err
	}

	now := identity.Now()
	u := identity.DeriveNodeUUID(p.Alias(), now.Millis())

	n := DataNode{
		UUID:         u,
		Path:         p,
		Name:         p.Name(),
		NType:        identity.NodeTypeFsDir,
		Alive:        true,
		CreatedTime:  now,
		ModifiedTime: now,
	}
	if err := putNode(tx, n, parentUUID); err != nil {
		return "", err
	}
	parentU, err := identity.ParseUuid(parentUUID)
	if err != nil {
		return "", err
	}
	if err := putContainsEdge(tx, parentU, u, now); err != nil {
		return "", err
	}

	return u.String(), nil
}

/*
OpenNode returns the full record for a handle, failing with NotFound if
absent.
*/
func (gm *Manager) OpenNode(h identity.NodeHandle) (DataNode, error) {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()

	var node DataNode
	var outerr error

	gm.db.View(func(tx *bolt.Tx) error {
		var uuidStr string
		var ok bool

		if h.IsUUID() {
			uuidStr = h.UUID().String()
			ok = tx.Bucket(bucketNodes).Get([]byte(uuidStr)) != nil
		} else {
			uuidStr, ok = uuidForAlias(tx, h.Path().Alias())
		}

		if !ok {
			outerr = kerr.NotFound("no node for " + h.String())
			return nil
		}

		rec, found, err := getNodeRecord(tx, uuidStr)
		if err != nil {
			outerr = kerr.Backend(err.Error())
			return nil
		}
		if !found {
			outerr = kerr.NotFound("no node for " + h.String())
			return nil
		}

		node, err = recordToNode(rec)
		if err != nil {
			outerr = kerr.Backend(err.Error())
		}
		return nil
	})

	return node, outerr
}

/*
OpenNodesByUUID batch-looks-up nodes, silently skipping unknown uuids.
*/
func (gm *Manager) OpenNodesByUUID(uuids []identity.Uuid) ([]DataNode, error) {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()

	var out []DataNode
	err := gm.db.View(func(tx *bolt.Tx) error {
		for _, u := range uuids {
			rec, ok, err := getNodeRecord(tx, u.String())
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			n, err := recordToNode(rec)
			if err != nil {
				return err
			}
			out = append(out, n)
		}
		return nil
	})
	if err != nil {
		return nil, kerr.Backend(err.Error())
	}
	return out, nil
}

/*
ParentOf returns the parent DataNode of uuid via its contains edge, or nil
for the virtual root.
*/
func (gm *Manager) ParentOf(u identity.Uuid) (*DataNode, error) {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()

	var parent *DataNode
	var outerr error

	gm.db.View(func(tx *bolt.Tx) error {
		rec, ok, err := getNodeRecord(tx, u.String())
		if err != nil {
			outerr = kerr.Backend(err.Error())
			return nil
		}
		if !ok || rec.ParentUUID == "" {
			return nil
		}

		prec, ok, err := getNodeRecord(tx, rec.ParentUUID)
		if err != nil {
			outerr = kerr.Backend(err.Error())
			return nil
		}
		if !ok {
			return nil
		}

		n, err := recordToNode(prec)
		if err != nil {
			outerr = kerr.Backend(err.Error())
			return nil
		}
		parent = &n
		return nil
	})

	return parent, outerr
}

/*
OpenNodeConnections returns every edge incident on the node at path p
(both directions), paired with the DataNode on the other end.
*/
func (gm *Manager) OpenNodeConnections(p identity.NodePath) ([]NodeEdgePair, error) {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()

	var out []NodeEdgePair
	var outerr error

	gm.db.View(func(tx *bolt.Tx) error {
		uuidStr, ok := uuidForAlias(tx, p.Alias())
		if !ok {
			outerr = kerr.NotFound("no node for " + p.Alias())
			return nil
		}

		self, err := identity.ParseUuid(uuidStr)
		if err != nil {
			outerr = kerr.Backend(err.Error())
			return nil
		}

		edges, err := edgesTouching(tx, uuidStr)
		if err != nil {
			outerr = kerr.Backend(err.Error())
			return nil
		}

		for _, e := range edges {
			otherUUID := e.OtherEnd(self)
			rec, ok, err := getNodeRecord(tx, otherUUID.String())
			if err != nil || !ok {
				continue
			}
			n, err := recordToNode(rec)
			if err != nil {
				continue
			}
			out = append(out, NodeEdgePair{Node: n, Edge: e})
		}
		return nil
	})

	return out, outerr
}

/*
UpdateNodeAttributes merges attrs into the node's attribute set and bumps
modified_time. Reserved attribute names are expected to already have been
filtered out by the caller (vault.Service), per spec.md 4.1.
*/
func (gm *Manager) UpdateNodeAttributes(u identity.Uuid, attrs []identity.Attribute) (DataNode, error) {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	var result DataNode
	err := gm.db.Update(func(tx *bolt.Tx) error {
		rec, ok, err := getNodeRecord(tx, u.String())
		if err != nil {
			return err
		}
		if !ok {
			return kerr.NotFound("no node for uuid " + u.String())
		}

		for _, a := range attrs {
			replaced := false
			for i := range rec.Attrs {
				if rec.Attrs[i].Name == a.Name {
					rec.Attrs[i] = attrRecord{Name: a.Name, Kind: a.Kind, Float: a.Float, Str: a.Str, Uint: a.Uint}
					replaced = true
					break
				}
			}
			if !replaced {
				rec.Attrs = append(rec.Attrs, attrRecord{Name: a.Name, Kind: a.Kind, Float: a.Float, Str: a.Str, Uint: a.Uint})
			}
		}
		rec.ModifiedMillis = identity.Now().Millis()

		b, err := encodeNode(rec)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketNodes).Put([]byte(u.String()), b); err != nil {
			return err
		}

		result, err = recordToNode(rec)
		return err
	})

	if err != nil {
		if _, ok := err.(*kerr.Error); ok {
			return DataNode{}, err
		}
		return DataNode{}, kerr.Backend(err.Error())
	}
	return result, nil
}

/*
RenameAlias rewrites the alias index entry for uuid to newPath, preserving
the uuid itself. Used by move/rename (spec.md 4.6 step 5).
*/
func (gm *Manager) RenameAlias(u identity.Uuid, newPath identity.NodePath) error {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	return gm.db.Update(func(tx *bolt.Tx) error {
		rec, ok, err := getNodeRecord(tx, u.String())
		if err != nil {
			return err
		}
		if !ok {
			return kerr.NotFound("no node for uuid " + u.String())
		}

		if err := tx.Bucket(bucketAliasIdx).Delete([]byte(rec.Alias)); err != nil {
			return err
		}

		rec.Alias = newPath.Alias()
		rec.Name = newPath.Name()
		rec.ModifiedMillis = identity.Now().Millis()

		b, err := encodeNode(rec)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketNodes).Put([]byte(u.String()), b); err != nil {
			return err
		}
		return tx.Bucket(bucketAliasIdx).Put([]byte(rec.Alias), []byte(u.String()))
	})
}

/*
Reparent removes child's existing contains edge and creates a new one
from newParent, returning the new edge.
*/
func (gm *Manager) Reparent(child, newParent identity.Uuid) (Edge, error) {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	var newEdge Edge
	err := gm.db.Update(func(tx *bolt.Tx) error {
		rec, ok, err := getNodeRecord(tx, child.String())
		if err != nil {
			return err
		}
		if !ok {
			return kerr.NotFound("no node for uuid " + child.String())
		}

		if rec.ParentUUID != "" {
			edges, err := edgesTouching(tx, child.String())
			if err != nil {
				return err
			}
			for _, e := range edges {
				if e.Contains && e.Target.Equal(child) {
					if err := removeEdge(tx, e); err != nil {
						return err
					}
					break
				}
			}
		}

		now := identity.Now()
		newEdge = Edge{
			UUID:         identity.DeriveEdgeUUID(newParent, child, now.Millis(), "contains"),
			Source:       newParent,
			Target:       child,
			Contains:     true,
			CreatedTime:  now,
			ModifiedTime: now,
		}
		if err := putEdge(tx, newEdge); err != nil {
			return err
		}

		rec.ParentUUID = newParent.String()
		b, err := encodeNode(rec)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketNodes).Put([]byte(child.String()), b)
	})

	if err != nil {
		if ke, ok := err.(*kerr.Error); ok {
			return Edge{}, ke
		}
		return Edge{}, kerr.Backend(err.Error())
	}
	return newEdge, nil
}

/*
GetAllDescendants traverses contains edges from p downward, depth-first,
per spec.md 4.1. The returned slice never includes p itself.
*/
func (gm *Manager) GetAllDescendants(p identity.NodePath) ([]DataNode, error) {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()

	var out []DataNode
	var outerr error

	gm.db.View(func(tx *bolt.Tx) error {
		rootUUID, ok := uuidForAlias(tx, p.Alias())
		if !ok {
			outerr = kerr.NotFound("no node for " + p.Alias())
			return nil
		}

		var walk func(uuidStr string) error
		walk = func(uuidStr string) error {
			edges, err := edgesTouching(tx, uuidStr)
			if err != nil {
				return err
			}

			var childUUIDs []string
			for _, e := range edges {
				if e.Contains && e.Source.String() == uuidStr {
					childUUIDs = append(childUUIDs, e.Target.String())
				}
			}
			sort.Strings(childUUIDs)

			for _, cu := range childUUIDs {
				rec, ok, err := getNodeRecord(tx, cu)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				n, err := recordToNode(rec)
				if err != nil {
					return err
				}
				out = append(out, n)

				if err := walk(cu); err != nil {
					return err
				}
			}
			return nil
		}

		outerr = walk(rootUUID)
		return nil
	})

	return out, outerr
}

/*
GetAllIndexedPaths returns a flat list of every indexed alias - used by
search.Index to enumerate the graph side of its corpus.
*/
func (gm *Manager) GetAllIndexedPaths() ([]identity.NodePath, error) {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()

	var out []identity.NodePath
	err := gm.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketAliasIdx).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			out = append(out, identity.FromAlias(string(k)))
		}
		return nil
	})
	if err != nil {
		return nil, kerr.Backend(err.Error())
	}
	return out, nil
}

/*
CreateEdges inserts user edges, assigning uuid and timestamps. Duplicate
edges between the same pair are tolerated, per spec.md 3.
*/
func (gm *Manager) CreateEdges(edges []Edge) ([]Edge, error) {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	out := make([]Edge, len(edges))
	err := gm.db.Update(func(tx *bolt.Tx) error {
		now := identity.Now()
		for i, e := range edges {
			if e.UUID.IsNil() {
				e.UUID = identity.DeriveEdgeUUID(e.Source, e.Target, now.Millis(), "user")
			}
			if e.CreatedTime == 0 {
				e.CreatedTime = now
			}
			e.ModifiedTime = now

			if err := putEdge(tx, e); err != nil {
				return err
			}
			out[i] = e
		}
		return nil
	})
	if err != nil {
		return nil, kerr.Backend(err.Error())
	}
	return out, nil
}

/*
DeleteEdge removes a single edge by uuid.
*/
func (gm *Manager) DeleteEdge(u identity.Uuid) error {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	return gm.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketEdges).Get([]byte(u.String()))
		if b == nil {
			return kerr.NotFound("no edge for uuid " + u.String())
		}
		rec, err := decodeEdge(b)
		if err != nil {
			return err
		}
		e, err := recordToEdge(rec)
		if err != nil {
			return err
		}
		return removeEdge(tx, e)
	})
}

/*
GetEdge looks up a (non-contains) edge by its endpoints. Returns nil, nil
if no such edge exists.
*/
func (gm *Manager) GetEdge(source, target identity.Uuid) (*Edge, error) {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()

	var found *Edge
	err := gm.db.View(func(tx *bolt.Tx) error {
		edges, err := edgesTouching(tx, source.String())
		if err != nil {
			return err
		}
		for _, e := range edges {
			if !e.Contains && e.Source.Equal(source) && e.Target.Equal(target) {
				ec := e
				found = &ec
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, kerr.Backend(err.Error())
	}
	return found, nil
}

/*
DeleteNode removes a node and every edge incident on it, returning both
as a snapshot for the trash log (spec.md 4.5).
*/
func (gm *Manager) DeleteNode(u identity.Uuid) (DataNode, []Edge, error) {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	var node DataNode
	var edges []Edge

	err := gm.db.Update(func(tx *bolt.Tx) error {
		rec, ok, err := getNodeRecord(tx, u.String())
		if err != nil {
			return err
		}
		if !ok {
			return kerr.NotFound("no node for uuid " + u.String())
		}

		node, err = recordToNode(rec)
		if err != nil {
			return err
		}

		edges, err = edgesTouching(tx, u.String())
		if err != nil {
			return err
		}
		for _, e := range edges {
			if err := removeEdge(tx, e); err != nil {
				return err
			}
		}

		if err := tx.Bucket(bucketAliasIdx).Delete([]byte(rec.Alias)); err != nil {
			return err
		}
		return tx.Bucket(bucketNodes).Delete([]byte(u.String()))
	})

	if err != nil {
		if ke, ok := err.(*kerr.Error); ok {
			return DataNode{}, nil, ke
		}
		return DataNode{}, nil, kerr.Backend(err.Error())
	}
	return node, edges, nil
}
