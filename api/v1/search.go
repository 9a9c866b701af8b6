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
	"time"

	"github.com/kartaio/karta/api"
	"github.com/kartaio/karta/config"
)

// EndpointSearch is the search endpoint URL, per spec.md 6.3.
const EndpointSearch = "/api/search/"

/*
SearchEndpointInst creates a new endpoint handler for search.
*/
func SearchEndpointInst() api.RestEndpointHandler {
	return &searchEndpoint{}
}

type searchEndpoint struct {
	api.DefaultEndpointHandler
}

type searchResultWire struct {
	Path      string  `json:"path"`
	Name      string  `json:"name"`
	NType     string  `json:"ntype"`
	UUID      string  `json:"uuid,omitempty"`
	IsIndexed bool    `json:"is_indexed"`
	Score     float64 `json:"score"`
}

/*
HandleGET handles GET /api/search?q=&limit=&min_score= - spec.md 6.3 and
4.4. min_score is advisory only and never drops matches.
*/
func (se *searchEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {
	if !checkResources(w, resources, 0, 0, "Search takes no path resources, use the q query parameter") {
		return
	}

	q := r.URL.Query().Get("q")

	limit, ok := queryParamPosNum(w, r, "limit")
	if !ok {
		return
	}
	if limit == -1 {
		limit = config.Int(config.SearchResultLimit)
	}

	minScore, _, ok := queryParamFloat(w, r, "min_score")
	if !ok {
		return
	}

	start := time.Now()

	results, totalFound, truncated, err := api.Service.SearchVault(q, limit, minScore)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	wire := make([]searchResultWire, 0, len(results))
	for _, res := range results {
		wire = append(wire, searchResultWire{
			Path:      res.Path,
			Name:      res.Name,
			NType:     res.NType,
			UUID:      res.UUID,
			IsIndexed: res.IsIndexed,
			Score:     res.Score,
		})
	}

	api.WriteJSON(w, struct {
		Results    []searchResultWire `json:"results"`
		TotalFound int                `json:"total_found"`
		Truncated  bool               `json:"truncated"`
		Query      string             `json:"query"`
		TookMs     int64              `json:"took_ms"`
	}{
		Results:    wire,
		TotalFound: totalFound,
		Truncated:  truncated,
		Query:      q,
		TookMs:     time.Since(start).Milliseconds(),
	})
}

func (se *searchEndpoint) SwaggerDefs(s map[string]interface{}) {
}
