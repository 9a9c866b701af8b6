/*
 * Karta
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package vault

import (
	"github.com/kartaio/karta/graph"
	"github.com/kartaio/karta/identity"
	"github.com/kartaio/karta/kerr"
)

/*
MoveOp is a single requested move within a move_nodes batch.
*/
type MoveOp struct {
	Source       identity.NodePath
	TargetParent identity.NodePath
}

/*
MovedNodeInfo describes one node affected by a rename or move: its stable
uuid and its alias after the operation.
*/
type MovedNodeInfo struct {
	UUID    string
	NewPath string
}

/*
MoveResult is the batch result of MoveNodes.
*/
type MoveResult struct {
	MovedNodes []MovedNodeInfo
	Errors     []string
}

/*
MoveNodes performs a batch of moves, in order, per spec.md 4.6. Each
operation is validated and applied independently; a failure is recorded
in Errors without rolling back prior successful operations in the batch.
*/
func (s *Service) MoveNodes(ops []MoveOp) MoveResult {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var result MoveResult

	for _, op := range ops {
		moved, err := s.moveOneLocked(op.Source, op.TargetParent, "")
		if err != nil {
			result.Errors = append(result.Errors, op.Source.Alias()+": "+err.Error())
			continue
		}
		result.MovedNodes = append(result.MovedNodes, moved...)
	}

	return result
}

/*
moveNodeWithRenameLocked is the internal reduction point every rename
funnels through, per spec.md 4.6: a rename is a move to the same parent
under a new name. Caller must already hold s.mutex.
*/
func (s *Service) moveNodeWithRenameLocked(source, targetParent identity.NodePath, newName string) ([]MovedNodeInfo, error) {
	return s.moveOneLocked(source, targetParent, newName)
}

func (s *Service) moveOneLocked(source, targetParent identity.NodePath, explicitNewName string) ([]MovedNodeInfo, error) {
	if source.IsArchetype() || !source.IsUnderVault() {
		return nil, kerr.Forbidden("cannot move or rename system node " + source.Alias())
	}
	if !targetParent.IsUnderVault() {
		return nil, kerr.BadRequest("target parent must be under /vault")
	}

	if !s.GM.Exists(targetParent) && !s.FR.Exists(targetParent) {
		return nil, kerr.BadRequest("target parent does not exist: " + targetParent.Alias())
	}
	if !s.FR.IsDir(targetParent) && targetParent.Rel() != identity.ArchetypeVault {
		if s.GM.Exists(targetParent) {
			n, err := s.GM.OpenNode(identity.HandleFromPath(targetParent))
			if err == nil && !n.IsDir() {
				return nil, kerr.BadRequest("target parent is not a directory: " + targetParent.Alias())
			}
		}
	}
	if targetParent.Equal(source) || targetParent.IsDescendantOf(source) {
		return nil, kerr.BadRequest("cannot move a node into itself or a descendant")
	}

	name := explicitNewName
	if name == "" {
		name = source.Name()
	}
	finalName := s.autoRename(targetParent, name)
	finalPath := targetParent.Join(finalName)

	node, err := s.resolveNode(source)
	if err != nil {
		return nil, err
	}

	descendants, err := s.gatherDescendants(source)
	if err != nil {
		return nil, err
	}

	type affected struct {
		oldPath identity.NodePath
		newPath identity.NodePath
		uuid    identity.Uuid
		indexed bool
	}

	all := make([]affected, 0, len(descendants)+1)
	all = append(all, affected{oldPath: source, newPath: finalPath, uuid: node.uuid, indexed: node.indexed})
	for _, d := range descendants {
		dIndexed := s.GM.Exists(d.Path)
		dUUID := d.UUID
		if !dIndexed {
			dUUID = identity.DeriveUnindexedUUID(d.Path.Alias())
		}
		all = append(all, affected{
			oldPath: d.Path,
			newPath: identity.RewritePrefix(d.Path, source, finalPath),
			uuid:    dUUID,
			indexed: dIndexed,
		})
	}

	if s.FR.Exists(source) {
		if err := s.FR.Rename(source, finalPath); err != nil {
			return nil, err
		}
	}

	result := make([]MovedNodeInfo, 0, len(all))

	for i, a := range all {
		uuid := a.uuid
		if !a.indexed {
			uuid = identity.DeriveUnindexedUUID(a.newPath.Alias())
		}

		if a.indexed {
			if err := s.GM.RenameAlias(uuid, a.newPath); err != nil {
				return nil, err
			}
		} else {
			n, err := s.FR.Read(a.newPath)
			if err != nil {
				n = graph.DataNode{Path: a.newPath, Name: a.newPath.Name(), NType: identity.NodeTypeVirtualGeneric, Alive: true}
			}
			n.UUID = uuid
			if err := s.GM.InsertNodes([]graph.DataNode{n}); err != nil {
				return nil, err
			}
		}

		if i == 0 {
			parentUUID, err := s.ensureParentIndexed(targetParent)
			if err != nil {
				return nil, err
			}
			if _, err := s.GM.Reparent(uuid, parentUUID); err != nil {
				return nil, err
			}
		}

		result = append(result, MovedNodeInfo{UUID: uuid.String(), NewPath: a.newPath.Alias()})
	}

	return result, nil
}

type resolvedNode struct {
	uuid    identity.Uuid
	indexed bool
}

func (s *Service) resolveNode(p identity.NodePath) (resolvedNode, error) {
	if s.GM.Exists(p) {
		n, err := s.GM.OpenNode(identity.HandleFromPath(p))
		if err != nil {
			return resolvedNode{}, err
		}
		return resolvedNode{uuid: n.UUID, indexed: true}, nil
	}
	if s.FR.Exists(p) {
		return resolvedNode{uuid: identity.DeriveUnindexedUUID(p.Alias()), indexed: false}, nil
	}
	return resolvedNode{}, kerr.NotFound("no such node: " + p.Alias())
}

/*
gatherDescendants returns every contains-descendant of p, whether
indexed in GraphStore or only present on disk.
*/
func (s *Service) gatherDescendants(p identity.NodePath) ([]graph.DataNode, error) {
	var out []graph.DataNode

	if s.GM.Exists(p) {
		indexed, err := s.GM.GetAllDescendants(p)
		if err != nil {
			return nil, err
		}
		out = append(out, indexed...)
	}

	if s.FR.IsDir(p) {
		unindexed, err := s.collectUnindexedDescendants(p)
		if err != nil {
			return nil, err
		}
		out = append(out, unindexed...)
	}

	return out, nil
}

func (s *Service) collectUnindexedDescendants(p identity.NodePath) ([]graph.DataNode, error) {
	var out []graph.DataNode

	children, err := s.FR.Children(p)
	if err != nil {
		return nil, nil
	}

	for _, c := range children {
		if !s.GM.Exists(c.Path) {
			out = append(out, c)
		}

		if c.IsDir() {
			nested, err := s.collectUnindexedDescendants(c.Path)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		}
	}

	return out, nil
}

func (s *Service) ensureParentIndexed(p identity.NodePath) (identity.Uuid, error) {
	if s.GM.Exists(p) {
		n, err := s.GM.OpenNode(identity.HandleFromPath(p))
		if err != nil {
			return identity.Uuid{}, err
		}
		return n.UUID, nil
	}

	n, err := s.FR.Read(p)
	if err != nil {
		return identity.Uuid{}, err
	}
	if err := s.GM.InsertNodes([]graph.DataNode{n}); err != nil {
		return identity.Uuid{}, err
	}
	inserted, err := s.GM.OpenNode(identity.HandleFromPath(p))
	if err != nil {
		return identity.Uuid{}, err
	}
	return inserted.UUID, nil
}
