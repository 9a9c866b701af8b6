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
Package trash implements TrashStore: soft-deletion of physical and
virtual nodes into a per-operation trash folder, with an append-only
recovery log - spec.md 4.5.
*/
package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kartaio/karta/fsreader"
	"github.com/kartaio/karta/graph"
	"github.com/kartaio/karta/identity"
	"github.com/kartaio/karta/kerr"
)

/*
NodeSnapshot captures everything needed to reinsert a deleted DataNode
and its contains edge, per spec.md 4.5/6.2: node_record, edge_snapshots,
was_physical, descendants_deleted and original_path.
*/
type NodeSnapshot struct {
	Node               graph.DataNode
	IncidentEdges      []graph.Edge
	WasPhysical        bool
	OriginalAlias      string
	DescendantsDeleted []string
}

/*
OperationRecord is one entry in the trash log: the complete set of
snapshots produced by a single delete_nodes call.
*/
type OperationRecord struct {
	OperationID string
	Timestamp   string
	Entries     []NodeSnapshot
}

/*
DeleteResult is returned to the caller of delete_nodes.
*/
type DeleteResult struct {
	DeletedNodes     []graph.DataNode
	FailedDeletions  []string
	Warnings         []string
	OperationID      string
}

/*
Store owns the trash folder inside a vault's storage directory.
*/
type Store struct {
	Dir string // <storage>/trash
	gm  *graph.Manager
	fr  *fsreader.Reader
}

/*
New creates a trash Store rooted at dir, operating on gm and fr.
*/
func New(dir string, gm *graph.Manager, fr *fsreader.Reader) *Store {
	return &Store{Dir: dir, gm: gm, fr: fr}
}

func (s *Store) logPath() string {
	return filepath.Join(s.Dir, "trash_log.ron")
}

/*
DeleteNodes resolves each handle to a DataNode, moves any physical entry
to the operation's trash subfolder, removes the node (and descendants)
from GraphStore, and appends one OperationRecord to the trash log.
Unknown handles are reported as failed deletions without aborting the
rest of the batch, per spec.md 4.5 and 7.
*/
func (s *Store) DeleteNodes(handles []identity.NodeHandle, operationID string) (DeleteResult, error) {
	result := DeleteResult{OperationID: operationID}

	opDir := filepath.Join(s.Dir, operationID)
	var entries []NodeSnapshot

	for _, h := range handles {
		node, err := s.gm.OpenNode(h)
		if err != nil {
			result.FailedDeletions = append(result.FailedDeletions, h.String())
			continue
		}

		descendants, err := s.gm.GetAllDescendants(node.Path)
		if err != nil {
			result.FailedDeletions = append(result.FailedDeletions, h.String())
			continue
		}

		// Deepest first so a parent directory is moved/removed only
		// after its children have been snapshotted.
		all := append([]graph.DataNode{node}, descendants...)

		var descendantUUIDs []string
		for _, d := range descendants {
			descendantUUIDs = append(descendantUUIDs, d.UUID.String())
		}

		for i := len(all) - 1; i >= 0; i-- {
			n := all[i]

			wasPhysical := n.IsPhysical() && s.fr.Exists(n.Path)
			if wasPhysical && n.Path.Equal(node.Path) {
				if err := s.moveToTrash(n.Path, opDir); err != nil {
					result.Warnings = append(result.Warnings, fmt.Sprintf("could not move %s to trash: %v", n.Path.Alias(), err))
				}
			}

			_, edges, err := s.gm.DeleteNode(n.UUID)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("could not remove %s from graph: %v", n.Path.Alias(), err))
				continue
			}

			entries = append(entries, NodeSnapshot{
				Node:               n,
				IncidentEdges:      edges,
				WasPhysical:        n.IsPhysical(),
				OriginalAlias:      n.Path.Alias(),
				DescendantsDeleted: descendantUUIDs,
			})
		}

		result.DeletedNodes = append(result.DeletedNodes, node)
	}

	if len(entries) > 0 {
		if err := s.appendLog(OperationRecord{
			OperationID: operationID,
			Timestamp:   identity.Now().String(),
			Entries:     entries,
		}); err != nil {
			return result, err
		}
	}

	return result, nil
}

/*
moveToTrash moves the filesystem entry at p into opDir, preserving its
relative vault layout.
*/
func (s *Store) moveToTrash(p identity.NodePath, opDir string) error {
	src := s.fr.AbsPath(p)
	dst := filepath.Join(opDir, filepath.FromSlash(p.StripVaultPrefix()))

	if err := os.MkdirAll(filepath.Dir(dst), 0770); err != nil {
		return kerr.Io(err.Error())
	}

	if err := os.Rename(src, dst); err != nil {
		return kerr.Io(err.Error())
	}

	return nil
}

/*
appendLog appends one fully self-delimited OperationRecord(...) entry to
the trash log. Each entry is its own complete RON value rather than an
element of one top-level wrapper: the log is append-only (spec.md 4.5),
so closing over a single "TrashLog([...])" value would mean either
leaving the file permanently unterminated (malformed RON) or rewriting
the whole file on every delete. A newline-separated sequence of complete
values avoids both, matching spec.md 6.2's own description of the log as
"a sequence of OperationRecord{...}".
*/
func (s *Store) appendLog(rec OperationRecord) error {
	if err := os.MkdirAll(s.Dir, 0770); err != nil {
		return kerr.Io(err.Error())
	}

	f, err := os.OpenFile(s.logPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return kerr.Io(err.Error())
	}
	defer f.Close()

	if _, err := f.WriteString(encodeOperationRON(rec)); err != nil {
		return kerr.Io(err.Error())
	}

	return nil
}

/*
encodeOperationRON renders a full OperationRecord, including every field
a snapshot needs to reinsert a deleted DataNode and its edges: the node
record (attrs, timestamps, alive), the incident edge snapshots and the
descendant-uuid list - per spec.md 4.5/6.2 ("each snapshot is sufficient
to reinsert the DataNode and its contains edge").
*/
func encodeOperationRON(rec OperationRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "OperationRecord(operation_id: %q, timestamp: %q, entries: [\n", rec.OperationID, rec.Timestamp)

	for _, e := range rec.Entries {
		encodeNodeSnapshotRON(&b, e)
	}

	b.WriteString("]),\n")

	return b.String()
}

func encodeNodeSnapshotRON(b *strings.Builder, snap NodeSnapshot) {
	n := snap.Node

	fmt.Fprintf(b, "  NodeSnapshot(\n    original_path: %q,\n    was_physical: %v,\n",
		snap.OriginalAlias, snap.WasPhysical)

	fmt.Fprintf(b, "    node_record: NodeRecord(uuid: %q, path: %q, name: %q, ntype: %q, alive: %v, created_time: %q, modified_time: %q, attrs: [\n",
		n.UUID.String(), n.Path.Alias(), n.Name, n.NType, n.Alive, n.CreatedTime.String(), n.ModifiedTime.String())
	for _, a := range n.Attrs {
		encodeAttrRON(b, a)
	}
	b.WriteString("    ]),\n")

	b.WriteString("    edge_snapshots: [\n")
	for _, edge := range snap.IncidentEdges {
		fmt.Fprintf(b, "      EdgeSnapshot(uuid: %q, source: %q, target: %q, contains: %v, attrs: [\n",
			edge.UUID.String(), edge.Source.String(), edge.Target.String(), edge.Contains)
		for _, a := range edge.Attrs {
			encodeAttrRON(b, a)
		}
		b.WriteString("      ]),\n")
	}
	b.WriteString("    ],\n")

	b.WriteString("    descendants_deleted: [\n")
	for _, d := range snap.DescendantsDeleted {
		fmt.Fprintf(b, "      %q,\n", d)
	}
	b.WriteString("    ],\n")

	b.WriteString("  ),\n")
}

func encodeAttrRON(b *strings.Builder, a identity.Attribute) {
	fmt.Fprintf(b, "      Attr(name: %q, kind: %d, float: %s, str: %q, uint: %d),\n",
		a.Name, a.Kind, strconv.FormatFloat(a.Float, 'f', -1, 64), a.Str, a.Uint)
}
