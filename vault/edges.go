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
	"github.com/kartaio/karta/kctx"
	"github.com/kartaio/karta/kerr"
)

/*
EdgeSpec describes one requested user edge, by handle rather than by raw
uuid so callers may pass either a path or a uuid for either end.
*/
type EdgeSpec struct {
	Source identity.NodeHandle
	Target identity.NodeHandle
	Attrs  []identity.Attribute
}

/*
CreateEdges inserts the requested user edges, tolerating duplicates
between the same pair per spec.md 4.6.
*/
func (s *Service) CreateEdges(specs []EdgeSpec) ([]graph.Edge, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	edges := make([]graph.Edge, 0, len(specs))
	for _, spec := range specs {
		src, err := s.GM.OpenNode(spec.Source)
		if err != nil {
			return nil, err
		}
		tgt, err := s.GM.OpenNode(spec.Target)
		if err != nil {
			return nil, err
		}

		edges = append(edges, graph.Edge{
			Source: src.UUID,
			Target: tgt.UUID,
			Attrs:  identity.FilterReservedEdge(spec.Attrs),
		})
	}

	return s.GM.CreateEdges(edges)
}

/*
SaveContext persists ctx for focal, failing with BadRequest if the path-
derived focal does not match the context body's own focal, per spec.md
4.6 and 6.3.
*/
func (s *Service) SaveContext(urlFocal identity.Uuid, ctx kctx.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if ctx.Focal != "" && ctx.Focal != urlFocal.String() {
		return kerr.BadRequest("focal in body (" + ctx.Focal + ") does not match focal in url (" + urlFocal.String() + ")")
	}
	ctx.Focal = urlFocal.String()

	return s.Ctx.SaveContext(ctx)
}
