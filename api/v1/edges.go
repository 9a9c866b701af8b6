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
	"github.com/kartaio/karta/vault"
)

// EndpointEdges is the create_edges endpoint URL, per spec.md 6.3.
const EndpointEdges = "/api/edges/"

/*
EdgesEndpointInst creates a new endpoint handler for create_edges.
*/
func EdgesEndpointInst() api.RestEndpointHandler {
	return &edgesEndpoint{}
}

type edgesEndpoint struct {
	api.DefaultEndpointHandler
}

type createEdgesRequest struct {
	Edges []struct {
		Source string                 `json:"source"`
		Target string                 `json:"target"`
		Attrs  map[string]interface{} `json:"attrs"`
	} `json:"edges"`
}

/*
HandlePOST handles POST /api/edges - spec.md 6.3 create_edges. Source and
target may each be given as either a uuid or an alias path.
*/
func (ee *edgesEndpoint) HandlePOST(w http.ResponseWriter, r *http.Request, resources []string) {
	var req createEdgesRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	specs := make([]vault.EdgeSpec, 0, len(req.Edges))
	for _, e := range req.Edges {
		specs = append(specs, vault.EdgeSpec{
			Source: parseHandle(e.Source),
			Target: parseHandle(e.Target),
			Attrs:  mapToAttrs(e.Attrs),
		})
	}

	created, err := api.Service.CreateEdges(specs)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, struct {
		Created int        `json:"created"`
		Edges   []edgeWire `json:"edges"`
	}{Created: len(created), Edges: toEdgeWires(created)})
}

func (ee *edgesEndpoint) SwaggerDefs(s map[string]interface{}) {
}
