/*
 * Karta
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package graph

import (
	"bytes"
	"encoding/gob"

	"devt.de/krotik/common/errorutil"

	"github.com/kartaio/karta/identity"
)

// On-disk gob records. Kept separate from the public DataNode/Edge types
// so identity.NodePath and identity.Uuid (which intentionally keep their
// fields unexported) never need to satisfy gob's exported-field rule.

type attrRecord struct {
	Name  string
	Kind  identity.AttrKind
	Float float64
	Str   string
	Uint  uint64
}

func toAttrRecords(attrs []identity.Attribute) []attrRecord {
	out := make([]attrRecord, len(attrs))
	for i, a := range attrs {
		out[i] = attrRecord{Name: a.Name, Kind: a.Kind, Float: a.Float, Str: a.Str, Uint: a.Uint}
	}
	return out
}

func fromAttrRecords(recs []attrRecord) []identity.Attribute {
	out := make([]identity.Attribute, len(recs))
	for i, r := range recs {
		out[i] = identity.Attribute{Name: r.Name, Kind: r.Kind, Float: r.Float, Str: r.Str, Uint: r.Uint}
	}
	return out
}

type nodeRecord struct {
	UUID           string
	Alias          string
	Name           string
	NType          string
	Alive          bool
	CreatedMillis  int64
	ModifiedMillis int64
	ParentUUID     string // denormalised cache of the incoming contains edge source; "" for the virtual root
	Attrs          []attrRecord
}

func nodeToRecord(n DataNode, parentUUID string) nodeRecord {
	return nodeRecord{
		UUID:           n.UUID.String(),
		Alias:          n.Path.Alias(),
		Name:           n.Name,
		NType:          string(n.NType),
		Alive:          n.Alive,
		CreatedMillis:  n.CreatedTime.Millis(),
		ModifiedMillis: n.ModifiedTime.Millis(),
		ParentUUID:     parentUUID,
		Attrs:          toAttrRecords(n.Attrs),
	}
}

func recordToNode(r nodeRecord) (DataNode, error) {
	u, err := identity.ParseUuid(r.UUID)
	if err != nil {
		return DataNode{}, err
	}
	return DataNode{
		UUID:         u,
		Path:         identity.FromAlias(r.Alias),
		Name:         r.Name,
		NType:        identity.NodeTypeId(r.NType),
		Alive:        r.Alive,
		CreatedTime:  identity.SysTime(r.CreatedMillis),
		ModifiedTime: identity.SysTime(r.ModifiedMillis),
		Attrs:        fromAttrRecords(r.Attrs),
	}, nil
}

type edgeRecord struct {
	UUID           string
	Source         string
	Target         string
	Contains       bool
	CreatedMillis  int64
	ModifiedMillis int64
	Attrs          []attrRecord
}

func edgeToRecord(e Edge) edgeRecord {
	return edgeRecord{
		UUID:           e.UUID.String(),
		Source:         e.Source.String(),
		Target:         e.Target.String(),
		Contains:       e.Contains,
		CreatedMillis:  e.CreatedTime.Millis(),
		ModifiedMillis: e.ModifiedTime.Millis(),
		Attrs:          toAttrRecords(e.Attrs),
	}
}

func recordToEdge(r edgeRecord) (Edge, error) {
	u, err := identity.ParseUuid(r.UUID)
	if err != nil {
		return Edge{}, err
	}
	src, err := identity.ParseUuid(r.Source)
	if err != nil {
		return Edge{}, err
	}
	tgt, err := identity.ParseUuid(r.Target)
	if err != nil {
		return Edge{}, err
	}
	return Edge{
		UUID:         u,
		Source:       src,
		Target:       tgt,
		Contains:     r.Contains,
		CreatedTime:  identity.SysTime(r.CreatedMillis),
		ModifiedTime: identity.SysTime(r.ModifiedMillis),
		Attrs:        fromAttrRecords(r.Attrs),
	}, nil
}

// gob-encoding a nodeRecord/edgeRecord of our own exported-scalar-only
// shape cannot fail; errorutil.AssertOk turns a theoretical error return
// into a panic instead of threading an unreachable error path upward,
// the way eql/interpreter/func.go does for its own always-succeeds calls.
func encodeNode(r nodeRecord) ([]byte, error) {
	var buf bytes.Buffer
	errorutil.AssertOk(gob.NewEncoder(&buf).Encode(r))
	return buf.Bytes(), nil
}

func decodeNode(b []byte) (nodeRecord, error) {
	var r nodeRecord
	err := gob.NewDecoder(bytes.NewReader(b)).Decode(&r)
	return r, err
}

func encodeEdge(r edgeRecord) ([]byte, error) {
	var buf bytes.Buffer
	errorutil.AssertOk(gob.NewEncoder(&buf).Encode(r))
	return buf.Bytes(), nil
}

func decodeEdge(b []byte) (edgeRecord, error) {
	var r edgeRecord
	err := gob.NewDecoder(bytes.NewReader(b)).Decode(&r)
	return r, err
}
