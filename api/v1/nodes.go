/*
 * Karta
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package v1

import (
	"net/http"

	"github.com/kartaio/karta/api"
	"github.com/kartaio/karta/identity"
	"github.com/kartaio/karta/vault"
)

// EndpointNodes is the node mutation endpoint URL, per spec.md 6.3.
const EndpointNodes = "/api/nodes/"

/*
NodesEndpointInst creates a new endpoint handler for create_node,
update_node, rename_node, move_nodes and delete_nodes.
*/
func NodesEndpointInst() api.RestEndpointHandler {
	return &nodesEndpoint{}
}

type nodesEndpoint struct {
	api.DefaultEndpointHandler
}

type createNodeRequest struct {
	Name       string                 `json:"name"`
	NType      string                 `json:"ntype"`
	ParentPath string                 `json:"parent_path"`
	Attrs      map[string]interface{} `json:"attrs"`
}

type renameNodeRequest struct {
	Path    string `json:"path"`
	NewName string `json:"new_name"`
}

type moveNodesRequest struct {
	Ops []struct {
		Source       string `json:"source"`
		TargetParent string `json:"target_parent"`
	} `json:"ops"`
}

type deleteNodesRequest struct {
	NodeIDs   []string `json:"node_ids"`
	ContextID string   `json:"context_id"`
}

/*
HandlePOST handles POST /api/nodes (create_node), POST
/api/nodes/rename (rename_node) and POST /api/nodes/move (move_nodes).
*/
func (ne *nodesEndpoint) HandlePOST(w http.ResponseWriter, r *http.Request, resources []string) {
	switch {
	case len(resources) == 0:
		ne.handleCreate(w, r)
	case len(resources) == 1 && resources[0] == "rename":
		ne.handleRename(w, r)
	case len(resources) == 1 && resources[0] == "move":
		ne.handleMove(w, r)
	default:
		http.Error(w, "Unknown nodes route", http.StatusNotFound)
	}
}

func (ne *nodesEndpoint) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createNodeRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	ntype := identity.NodeTypeVirtualGeneric
	if req.NType != "" {
		ntype = identity.NodeTypeId(req.NType)
	}

	node, err := api.Service.CreateNode(identity.FromAlias(req.ParentPath), req.Name, ntype, mapToAttrs(req.Attrs))
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, toNodeWire(node))
}

func (ne *nodesEndpoint) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameNodeRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	affected, err := api.Service.RenameNode(identity.FromAlias(req.Path), req.NewName)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, struct {
		RenamedNodes []vault.MovedNodeInfo `json:"renamed_nodes"`
	}{RenamedNodes: affected})
}

func (ne *nodesEndpoint) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveNodesRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	ops := make([]vault.MoveOp, 0, len(req.Ops))
	for _, o := range req.Ops {
		ops = append(ops, vault.MoveOp{
			Source:       identity.FromAlias(o.Source),
			TargetParent: identity.FromAlias(o.TargetParent),
		})
	}

	result := api.Service.MoveNodes(ops)

	api.WriteJSON(w, struct {
		MovedNodes []vault.MovedNodeInfo `json:"moved_nodes"`
		Errors     []string              `json:"errors"`
	}{MovedNodes: result.MovedNodes, Errors: result.Errors})
}

/*
HandlePUT handles PUT /api/nodes/{uuid} - spec.md 6.3 update_node.
*/
func (ne *nodesEndpoint) HandlePUT(w http.ResponseWriter, r *http.Request, resources []string) {
	if len(resources) != 1 {
		http.Error(w, "Expected exactly one uuid resource", http.StatusBadRequest)
		return
	}

	uuid, err := identity.ParseUuid(resources[0])
	if err != nil {
		http.Error(w, "Invalid uuid: "+resources[0], http.StatusBadRequest)
		return
	}

	var req struct {
		Attrs map[string]interface{} `json:"attrs"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := api.Service.UpdateNode(uuid, mapToAttrs(req.Attrs))
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, struct {
		UpdatedNode   nodeWire              `json:"updated_node"`
		AffectedNodes []vault.MovedNodeInfo `json:"affected_nodes"`
	}{
		UpdatedNode:   toNodeWire(result.UpdatedNode),
		AffectedNodes: result.AffectedNodes,
	})
}

/*
HandleDELETE handles DELETE /api/nodes - spec.md 6.3 delete_nodes.
*/
func (ne *nodesEndpoint) HandleDELETE(w http.ResponseWriter, r *http.Request, resources []string) {
	var req deleteNodesRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	handles := make([]identity.NodeHandle, 0, len(req.NodeIDs))
	for _, id := range req.NodeIDs {
		handles = append(handles, parseHandle(id))
	}

	result, err := api.Service.DeleteNodes(handles)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, struct {
		DeletedNodes    []nodeWire `json:"deleted_nodes"`
		FailedDeletions []string   `json:"failed_deletions"`
		Warnings        []string   `json:"warnings"`
		OperationID     string     `json:"operation_id"`
	}{
		DeletedNodes:    toNodeWires(result.DeletedNodes),
		FailedDeletions: result.FailedDeletions,
		Warnings:        result.Warnings,
		OperationID:     result.OperationID,
	})
}

func (ne *nodesEndpoint) SwaggerDefs(s map[string]interface{}) {
}
