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
	"strings"

	"github.com/kartaio/karta/api"
	"github.com/kartaio/karta/identity"
)

// EndpointContext is the open_context_from_path endpoint URL, per spec.md 6.3.
const EndpointContext = "/ctx/"

// EndpointContextSave is the save_context endpoint URL, per spec.md 6.3.
const EndpointContextSave = "/api/ctx/"

/*
ContextEndpointInst creates a new endpoint handler serving both
open_context_from_path (GET /ctx/*path) and save_context (PUT
/api/ctx/{uuid}).
*/
func ContextEndpointInst() api.RestEndpointHandler {
	return &contextEndpoint{}
}

type contextEndpoint struct {
	api.DefaultEndpointHandler
}

/*
HandleGET handles GET /ctx/*path - spec.md 6.3 open_context_from_path.
*/
func (ce *contextEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {
	if len(resources) == 0 {
		http.Error(w, "Missing path", http.StatusBadRequest)
		return
	}

	path := identity.FromAlias(strings.Join(resources, "/"))

	bundle, err := api.Service.OpenContextFromPath(path)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, struct {
		Nodes   []nodeWire  `json:"nodes"`
		Edges   []edgeWire  `json:"edges"`
		Context contextWire `json:"context"`
	}{
		Nodes:   toNodeWires(bundle.Nodes),
		Edges:   toEdgeWires(bundle.Edges),
		Context: toContextWire(bundle.Context),
	})
}

/*
HandlePUT handles PUT /api/ctx/{uuid} - spec.md 6.3 save_context.
*/
func (ce *contextEndpoint) HandlePUT(w http.ResponseWriter, r *http.Request, resources []string) {
	if len(resources) != 1 {
		http.Error(w, "Expected exactly one uuid resource", http.StatusBadRequest)
		return
	}

	urlFocal, err := identity.ParseUuid(resources[0])
	if err != nil {
		http.Error(w, "Invalid uuid: "+resources[0], http.StatusBadRequest)
		return
	}

	var body contextWire
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := api.Service.SaveContext(urlFocal, fromContextWire(body)); err != nil {
		api.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (ce *contextEndpoint) SwaggerDefs(s map[string]interface{}) {
}
