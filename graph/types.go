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
Package graph contains GraphStore: the persistent, single-writer graph of
DataNodes and Edges keyed by both alias (path) and uuid. It is the Go
counterpart of EliasDB's graph.Manager, backed by a bbolt database instead
of EliasDB's own htree/storagefile engine - see SPEC_FULL.md 5 for why.
*/
package graph

import (
	"sort"

	"github.com/kartaio/karta/identity"
)

/*
DataNode is the core node record described in spec.md 3.
*/
type DataNode struct {
	UUID         identity.Uuid
	Path         identity.NodePath
	Name         string
	NType        identity.NodeTypeId
	Alive        bool
	CreatedTime  identity.SysTime
	ModifiedTime identity.SysTime
	Attrs        []identity.Attribute
}

/*
Attr returns the named attribute and whether it was present.
*/
func (n DataNode) Attr(name string) (identity.Attribute, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return identity.Attribute{}, false
}

/*
SetAttr sets (or replaces) a named attribute in place.
*/
func (n *DataNode) SetAttr(a identity.Attribute) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == a.Name {
			n.Attrs[i] = a
			return
		}
	}
	n.Attrs = append(n.Attrs, a)
}

/*
RemoveAttr removes a named attribute, if present.
*/
func (n *DataNode) RemoveAttr(name string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

/*
IsPhysical reports whether this node's ntype marks it as a filesystem
projection rather than a purely virtual node.
*/
func (n DataNode) IsPhysical() bool {
	return n.NType == identity.NodeTypeFsDir ||
		len(n.NType) >= len(identity.NodeTypeFsFile) && string(n.NType[:len(identity.NodeTypeFsFile)]) == string(identity.NodeTypeFsFile)
}

/*
IsDir reports whether this node represents a directory (archetype nodes
other than vault are not directories).
*/
func (n DataNode) IsDir() bool {
	return n.NType == identity.NodeTypeFsDir || n.Path.Rel() == identity.ArchetypeVault
}

/*
SortTier classifies a node for the default-layout child ordering in
spec.md 4.3: directories before files before "other".
*/
func (n DataNode) SortTier() int {
	if n.IsDir() {
		return 0
	}
	if n.NType == identity.NodeTypeFsFile || (len(n.NType) > len(identity.NodeTypeFsFile) &&
		string(n.NType[:len(identity.NodeTypeFsFile)]) == string(identity.NodeTypeFsFile)) {
		return 1
	}
	return 2
}

/*
SortNodesForLayout sorts nodes the way ContextStore's default layout
requires: directories, then files, then other; lexicographic by path
within each tier.
*/
func SortNodesForLayout(nodes []DataNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		ti, tj := nodes[i].SortTier(), nodes[j].SortTier()
		if ti != tj {
			return ti < tj
		}
		return nodes[i].Path.Alias() < nodes[j].Path.Alias()
	})
}

/*
Edge is the core edge record described in spec.md 3.
*/
type Edge struct {
	UUID         identity.Uuid
	Source       identity.Uuid
	Target       identity.Uuid
	Contains     bool
	CreatedTime  identity.SysTime
	ModifiedTime identity.SysTime
	Attrs        []identity.Attribute
}

/*
Attr returns the named attribute and whether it was present.
*/
func (e Edge) Attr(name string) (identity.Attribute, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return identity.Attribute{}, false
}

/*
SetAttr sets (or replaces) a named attribute in place.
*/
func (e *Edge) SetAttr(a identity.Attribute) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == a.Name {
			e.Attrs[i] = a
			return
		}
	}
	e.Attrs = append(e.Attrs, a)
}

/*
OtherEnd returns the uuid of the endpoint on the opposite side from the
given uuid.
*/
func (e Edge) OtherEnd(uuid identity.Uuid) identity.Uuid {
	if e.Source.Equal(uuid) {
		return e.Target
	}
	return e.Source
}

/*
NodeEdgePair couples an edge with the DataNode on the opposite end, as
returned by GraphStore.OpenNodeConnections.
*/
type NodeEdgePair struct {
	Node DataNode
	Edge Edge
}
