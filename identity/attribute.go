/*
 * Karta
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package identity

import (
	"fmt"
	"strings"
)

/*
AttrKind tags the type of value an Attribute carries.
*/
type AttrKind int

// Attribute value kinds.
const (
	AttrFloat AttrKind = iota
	AttrString
	AttrUint
)

/*
Attribute is a single user attribute on a node or edge: a name plus a
tagged value (float, string or uint).
*/
type Attribute struct {
	Name  string
	Kind  AttrKind
	Float float64
	Str   string
	Uint  uint64
}

/*
NewFloatAttribute creates a float-valued attribute.
*/
func NewFloatAttribute(name string, v float64) Attribute {
	return Attribute{Name: name, Kind: AttrFloat, Float: v}
}

/*
NewStringAttribute creates a string-valued attribute.
*/
func NewStringAttribute(name string, v string) Attribute {
	return Attribute{Name: name, Kind: AttrString, Str: v}
}

/*
NewUintAttribute creates a uint-valued attribute.
*/
func NewUintAttribute(name string, v uint64) Attribute {
	return Attribute{Name: name, Kind: AttrUint, Uint: v}
}

/*
Value returns the attribute's value as an interface{}, boxed according to
its Kind.
*/
func (a Attribute) Value() interface{} {
	switch a.Kind {
	case AttrFloat:
		return a.Float
	case AttrUint:
		return a.Uint
	default:
		return a.Str
	}
}

/*
AttributeFromValue builds an Attribute from a name and a bare Go value,
inferring the Kind. Unrecognised value types are stringified with
fmt.Sprintf - mirrors graphNode.stringAttr's best-effort fallback in the
teacher's data package.
*/
func AttributeFromValue(name string, v interface{}) Attribute {
	switch val := v.(type) {
	case float64:
		return NewFloatAttribute(name, val)
	case float32:
		return NewFloatAttribute(name, float64(val))
	case int:
		return NewUintAttribute(name, uint64(val))
	case int64:
		return NewUintAttribute(name, uint64(val))
	case uint64:
		return NewUintAttribute(name, val)
	case uint:
		return NewUintAttribute(name, uint64(val))
	case string:
		return NewStringAttribute(name, val)
	default:
		return NewStringAttribute(name, fmt.Sprintf("%v", val))
	}
}

/*
ReservedNodeAttrs is the fixed set of node attribute names which cannot be
written through generic attribute APIs - they are owned by the graph
store itself.
*/
var ReservedNodeAttrs = map[string]bool{
	"path":          true,
	"name":          true,
	"ntype":         true,
	"alive":         true,
	"uuid":          true,
	"created_time":  true,
	"modified_time": true,
	"preview":       true,
	"scale":         true,
	"rotation":      true,
	"color":         true,
	"pins":          true,
}

/*
reservedParamPrefix is the reserved prefix for node parameter attributes.
*/
const reservedParamPrefix = "param_"

/*
IsReservedNodeAttr returns true if attr is a reserved node attribute name,
i.e. it may not be written through the generic attribute update API.
*/
func IsReservedNodeAttr(attr string) bool {
	if ReservedNodeAttrs[attr] {
		return true
	}
	return strings.HasPrefix(attr, reservedParamPrefix)
}

/*
ReservedEdgeAttrs is the parallel reserved set for edge attributes.
*/
var ReservedEdgeAttrs = map[string]bool{
	"contains":              true,
	"text":                  true,
	"created_time":          true,
	"modified_time":         true,
	"source_position":       true,
	"source_scale":          true,
	"source_rotation":       true,
	"source_color":          true,
	"source_pins":           true,
	"target_position":       true,
	"target_scale":          true,
	"target_rotation":       true,
	"target_color":          true,
	"target_pins":           true,
	"bezier_control":        true,
	"preload":               true,
	"transition":            true,
	"sockets":                true,
}

/*
IsReservedEdgeAttr returns true if attr is a reserved edge attribute name.
*/
func IsReservedEdgeAttr(attr string) bool {
	return ReservedEdgeAttrs[attr]
}

/*
FilterReservedNode removes reserved attribute names from a slice,
returning only the ones callers are allowed to write generically.
*/
func FilterReservedNode(attrs []Attribute) []Attribute {
	out := make([]Attribute, 0, len(attrs))
	for _, a := range attrs {
		if !IsReservedNodeAttr(a.Name) {
			out = append(out, a)
		}
	}
	return out
}

/*
FilterReservedEdge removes reserved attribute names from a slice of edge
attributes.
*/
func FilterReservedEdge(attrs []Attribute) []Attribute {
	out := make([]Attribute, 0, len(attrs))
	for _, a := range attrs {
		if !IsReservedEdgeAttr(a.Name) {
			out = append(out, a)
		}
	}
	return out
}
