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
Package v1 implements version 1 of the Karta REST API: the HTTP routes
described in spec.md 6.3, built on the RestEndpointHandler contract from
package api.
*/
package v1

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kartaio/karta/api"
)

// APIv1 is the directory for version 1 of the API.
const APIv1 = "/v1"

/*
V1EndpointMap is a map of urls to endpoints for version 1 of the API. The
URL shapes follow spec.md 6.3 literally: the context-open route lives at
the root ("/ctx/*path") while every mutation lives under "/api/...".
*/
var V1EndpointMap = map[string]api.RestEndpointInst{
	EndpointContext:     ContextEndpointInst,
	EndpointContextSave: ContextEndpointInst,
	EndpointNodes:       NodesEndpointInst,
	EndpointEdges:       EdgesEndpointInst,
	EndpointSearch:      SearchEndpointInst,
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// Helper functions
// ================

/*
checkResources checks given resources for a GET request.
*/
func checkResources(w http.ResponseWriter, resources []string, requiredMin int, requiredMax int, errorMsg string) bool {
	if len(resources) < requiredMin || len(resources) > requiredMax {
		http.Error(w, errorMsg, http.StatusBadRequest)
		return false
	}
	return true
}

/*
queryParamPosNum extracts a positive number from a query parameter.
Returns -1 and true if the parameter was not given.
*/
func queryParamPosNum(w http.ResponseWriter, r *http.Request, param string) (int, bool) {

	val := r.URL.Query().Get(param)

	if val == "" {
		return -1, true
	}

	num, err := strconv.Atoi(val)

	if err != nil || num < 0 {
		http.Error(w, "Invalid parameter value: "+param+" should be a positive integer number", http.StatusBadRequest)
		return -1, false
	}

	return num, true
}

/*
queryParamFloat extracts a float from a query parameter. Returns ok=false
only if the parameter was given but could not be parsed.
*/
func queryParamFloat(w http.ResponseWriter, r *http.Request, param string) (float64, bool, bool) {

	val := r.URL.Query().Get(param)

	if val == "" {
		return 0, false, true
	}

	num, err := strconv.ParseFloat(val, 64)

	if err != nil {
		http.Error(w, "Invalid parameter value: "+param+" should be a number", http.StatusBadRequest)
		return 0, false, false
	}

	return num, true, true
}
