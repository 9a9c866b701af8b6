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
	"github.com/kartaio/karta/graph"
	"github.com/kartaio/karta/identity"
	"github.com/kartaio/karta/kctx"
)

/*
nodeWire is the JSON wire form of a DataNode. NodePath and Uuid carry
unexported fields, so every endpoint translates to and from this shape
rather than marshalling graph.DataNode directly.
*/
type nodeWire struct {
	UUID         string                 `json:"uuid"`
	Path         string                 `json:"path"`
	Name         string                 `json:"name"`
	NType        string                 `json:"ntype"`
	Alive        bool                   `json:"alive"`
	CreatedTime  string                 `json:"created_time"`
	ModifiedTime string                 `json:"modified_time"`
	Attrs        map[string]interface{} `json:"attrs"`
}

func toNodeWire(n graph.DataNode) nodeWire {
	return nodeWire{
		UUID:         n.UUID.String(),
		Path:         n.Path.Alias(),
		Name:         n.Name,
		NType:        string(n.NType),
		Alive:        n.Alive,
		CreatedTime:  n.CreatedTime.String(),
		ModifiedTime: n.ModifiedTime.String(),
		Attrs:        attrsToMap(n.Attrs),
	}
}

func toNodeWires(ns []graph.DataNode) []nodeWire {
	out := make([]nodeWire, 0, len(ns))
	for _, n := range ns {
		out = append(out, toNodeWire(n))
	}
	return out
}

/*
edgeWire is the JSON wire form of an Edge.
*/
type edgeWire struct {
	UUID         string                 `json:"uuid"`
	Source       string                 `json:"source"`
	Target       string                 `json:"target"`
	Contains     bool                   `json:"contains"`
	CreatedTime  string                 `json:"created_time"`
	ModifiedTime string                 `json:"modified_time"`
	Attrs        map[string]interface{} `json:"attrs"`
}

func toEdgeWire(e graph.Edge) edgeWire {
	return edgeWire{
		UUID:         e.UUID.String(),
		Source:       e.Source.String(),
		Target:       e.Target.String(),
		Contains:     e.Contains,
		CreatedTime:  e.CreatedTime.String(),
		ModifiedTime: e.ModifiedTime.String(),
		Attrs:        attrsToMap(e.Attrs),
	}
}

func toEdgeWires(es []graph.Edge) []edgeWire {
	out := make([]edgeWire, 0, len(es))
	for _, e := range es {
		out = append(out, toEdgeWire(e))
	}
	return out
}

/*
viewNodeWire is the JSON wire form of a kctx.ViewNode.
*/
type viewNodeWire struct {
	UUID   string  `json:"uuid"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	RelX   float64 `json:"relX"`
	RelY   float64 `json:"relY"`
}

/*
contextWire is the JSON wire form of a kctx.Context.
*/
type contextWire struct {
	Focal     string         `json:"focal"`
	ViewNodes []viewNodeWire `json:"viewnodes"`
}

func toContextWire(c kctx.Context) contextWire {
	vns := make([]viewNodeWire, 0, len(c.ViewNodes))
	for _, v := range c.ViewNodes {
		vns = append(vns, viewNodeWire{UUID: v.UUID, Width: v.Width, Height: v.Height, RelX: v.RelX, RelY: v.RelY})
	}
	return contextWire{Focal: c.Focal, ViewNodes: vns}
}

func fromContextWire(w contextWire) kctx.Context {
	vns := make([]kctx.ViewNode, 0, len(w.ViewNodes))
	for _, v := range w.ViewNodes {
		vns = append(vns, kctx.ViewNode{UUID: v.UUID, Width: v.Width, Height: v.Height, RelX: v.RelX, RelY: v.RelY})
	}
	return kctx.Context{Focal: w.Focal, ViewNodes: vns}
}

func attrsToMap(attrs []identity.Attribute) map[string]interface{} {
	out := make(map[string]interface{}, len(attrs))
	for _, a := range attrs {
		out[a.Name] = a.Value()
	}
	return out
}

func mapToAttrs(m map[string]interface{}) []identity.Attribute {
	out := make([]identity.Attribute, 0, len(m))
	for name, v := range m {
		out = append(out, identity.AttributeFromValue(name, v))
	}
	return out
}

/*
parseHandle interprets a resource segment as a NodeHandle: a valid uuid
parses as a uuid handle, anything else is treated as an alias path.
*/
func parseHandle(s string) identity.NodeHandle {
	if u, err := identity.ParseUuid(s); err == nil {
		return identity.HandleFromUUID(u)
	}
	return identity.HandleFromPath(identity.FromAlias(s))
}
