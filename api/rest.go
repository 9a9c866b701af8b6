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
Package api contains general REST API definitions shared by every version
of the Karta HTTP facade - the endpoint handler contract, the registrar
and the common error/response writing helpers. It mirrors EliasDB's api
package.
*/
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kartaio/karta/kerr"
	"github.com/kartaio/karta/vault"
)

// APIRoot is the root path under which every versioned endpoint is mounted.
const APIRoot = "/db"

// APIVersion is the current REST API version string.
const APIVersion = "1.0.0"

// APIHost is filled in by server.StartServer before the server starts listening;
// it is only used to populate the swagger definition.
var APIHost = ""

// APISchemes lists the schemes advertised in the swagger definition.
var APISchemes = []string{"http"}

/*
Service is the shared vault.Service instance used by every endpoint
handler. It is set once by server.StartServer during startup.
*/
var Service *vault.Service

/*
HandleFunc is used to register endpoint handler functions. It defaults to
http.HandleFunc but can be swapped out (e.g. to wrap every handler in
authentication middleware) before RegisterRestEndpoints is called.
*/
var HandleFunc = http.HandleFunc

/*
RestEndpointHandler is the interface which every REST endpoint must
implement.
*/
type RestEndpointHandler interface {

	/*
		HandleGET handles a GET request.
	*/
	HandleGET(w http.ResponseWriter, r *http.Request, resources []string)

	/*
		HandlePOST handles a POST request.
	*/
	HandlePOST(w http.ResponseWriter, r *http.Request, resources []string)

	/*
		HandlePUT handles a PUT request.
	*/
	HandlePUT(w http.ResponseWriter, r *http.Request, resources []string)

	/*
		HandleDELETE handles a DELETE request.
	*/
	HandleDELETE(w http.ResponseWriter, r *http.Request, resources []string)

	/*
		SwaggerDefs adds the endpoint's swagger definitions to s.
	*/
	SwaggerDefs(s map[string]interface{})
}

/*
RestEndpointInst is a factory function which creates a new instance of a
RestEndpointHandler. A fresh instance is created per incoming request.
*/
type RestEndpointInst func() RestEndpointHandler

/*
DefaultEndpointHandler is embedded by concrete endpoint handlers to supply
a default Method Not Allowed implementation for any HTTP verb they do not
override.
*/
type DefaultEndpointHandler struct {
}

func (de *DefaultEndpointHandler) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {
	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

func (de *DefaultEndpointHandler) HandlePOST(w http.ResponseWriter, r *http.Request, resources []string) {
	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

func (de *DefaultEndpointHandler) HandlePUT(w http.ResponseWriter, r *http.Request, resources []string) {
	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

func (de *DefaultEndpointHandler) HandleDELETE(w http.ResponseWriter, r *http.Request, resources []string) {
	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

func (de *DefaultEndpointHandler) SwaggerDefs(s map[string]interface{}) {
}

// registered keeps every endpoint instance factory registered so far, so
// that the swagger endpoint can ask each of them for its definitions.
var registered []RestEndpointInst

/*
GeneralEndpointMap holds the endpoints which are common to every API
version and are never subject to authentication.
*/
var GeneralEndpointMap = map[string]RestEndpointInst{
	EndpointAbout:   AboutEndpointInst,
	EndpointSwagger: SwaggerEndpointInst,
}

/*
RegisterRestEndpoints registers a map of URL patterns to endpoint
instance factories. Each pattern must end in a single trailing "/"; the
path segments following it are passed to the handler as resources.
*/
func RegisterRestEndpoints(endpointMap map[string]RestEndpointInst) {
	for path, inst := range endpointMap {
		registerEndpoint(path, inst)
	}
}

func registerEndpoint(urlPath string, inst RestEndpointInst) {
	registered = append(registered, inst)

	prefix := strings.TrimSuffix(urlPath, "/")

	dispatch := func(w http.ResponseWriter, r *http.Request) {
		handler := inst()

		resources := splitResources(strings.TrimPrefix(r.URL.Path, prefix))

		switch r.Method {
		case http.MethodGet:
			handler.HandleGET(w, r, resources)
		case http.MethodPost:
			handler.HandlePOST(w, r, resources)
		case http.MethodPut:
			handler.HandlePUT(w, r, resources)
		case http.MethodDelete:
			handler.HandleDELETE(w, r, resources)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	}

	HandleFunc(urlPath, dispatch)
	if prefix != "" && prefix != urlPath {
		HandleFunc(prefix, dispatch)
	}
}

func splitResources(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

/*
WriteJSON writes a value as a JSON response body.
*/
func WriteJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(v)
}

/*
WriteError maps a Karta domain error to the HTTP status code described in
spec.md 7 and writes it as the response body.
*/
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	if ke, ok := err.(*kerr.Error); ok {
		switch ke.Type {
		case kerr.ErrNotFound:
			status = http.StatusNotFound
		case kerr.ErrBadRequest:
			status = http.StatusBadRequest
		case kerr.ErrForbidden:
			status = http.StatusForbidden
		case kerr.ErrConflict:
			status = http.StatusConflict
		case kerr.ErrIo, kerr.ErrBackend, kerr.ErrLockPoisoned:
			status = http.StatusInternalServerError
		}
	}

	http.Error(w, err.Error(), status)
}
