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
Package identity contains the core identity types of the Karta vault graph:
NodePath, NodeHandle, NodeTypeId, Uuid, SysTime and Attribute.

NodePath

A NodePath is a vault-relative path. Its canonical serialised form - the
alias - always begins with "/". Construction from a raw (user supplied)
relative path implicitly roots the path under "vault/" unless it already
names one of the fixed archetype paths.
*/
package identity

import (
	"path"
	"strings"
)

/*
ArchetypeRoot, ArchetypeVault, ArchetypeAttributes, ArchetypeSettings and
ArchetypeNodeTypes are the fixed archetype path segments. ArchetypeRoot is
the empty relative path (alias "/").
*/
const (
	ArchetypeRoot       = ""
	ArchetypeVault      = "vault"
	ArchetypeAttributes = "attributes"
	ArchetypeSettings   = "settings"
	ArchetypeNodeTypes  = "nodetypes"
)

/*
ArchetypePaths lists every fixed archetype path in bootstrap order (root
first, its four children after).
*/
var ArchetypePaths = []string{
	ArchetypeRoot, ArchetypeVault, ArchetypeAttributes, ArchetypeSettings, ArchetypeNodeTypes,
}

/*
NodePath is a vault-relative path. The zero value is the virtual root.
*/
type NodePath struct {
	rel string // relative path without leading slash; "" is the virtual root
}

/*
RootPath returns the virtual root NodePath.
*/
func RootPath() NodePath {
	return NodePath{rel: ArchetypeRoot}
}

/*
VaultPath returns the NodePath of the vault root archetype.
*/
func VaultPath() NodePath {
	return NodePath{rel: ArchetypeVault}
}

/*
IsArchetype returns true if this path names one of the five fixed
archetype paths.
*/
func (p NodePath) IsArchetype() bool {
	for _, a := range ArchetypePaths {
		if p.rel == a {
			return true
		}
	}
	return false
}

/*
NewNodePath constructs a NodePath from a raw, vault-relative path. Leading
and trailing slashes are trimmed. Unless the given path already names an
archetype or already starts with "vault/", it is rooted under "vault/" -
this is the on-demand indexing entry point described in spec.md 3.
*/
func NewNodePath(raw string) NodePath {
	rel := normalize(raw)

	if rel == ArchetypeRoot {
		return NodePath{rel: ArchetypeRoot}
	}

	if isArchetypeRel(rel) || strings.HasPrefix(rel, ArchetypeVault+"/") || rel == ArchetypeVault {
		return NodePath{rel: rel}
	}

	return NodePath{rel: path.Join(ArchetypeVault, rel)}
}

/*
FromAlias parses a canonical alias (beginning "/") back into a NodePath
without any implicit rooting - the alias is assumed already fully
qualified.
*/
func FromAlias(alias string) NodePath {
	return NodePath{rel: normalize(strings.TrimPrefix(alias, "/"))}
}

func isArchetypeRel(rel string) bool {
	switch rel {
	case ArchetypeVault, ArchetypeAttributes, ArchetypeSettings, ArchetypeNodeTypes:
		return true
	}
	return false
}

func normalize(raw string) string {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "." {
		return ""
	}
	return trimmed
}

/*
Alias returns the canonical string serialisation of this path, always
starting with "/".
*/
func (p NodePath) Alias() string {
	if p.rel == ArchetypeRoot {
		return "/"
	}
	return "/" + p.rel
}

/*
Rel returns the raw relative path (no leading slash).
*/
func (p NodePath) Rel() string {
	return p.rel
}

/*
StripVaultPrefix returns the path with any leading "vault/" (or exactly
"vault") prefix removed - this is the path fragment that corresponds to
an entry relative to the vault root directory on disk.
*/
func (p NodePath) StripVaultPrefix() string {
	if p.rel == ArchetypeVault {
		return ""
	}
	return strings.TrimPrefix(p.rel, ArchetypeVault+"/")
}

/*
Parent returns the parent NodePath. The virtual root is its own parent.
*/
func (p NodePath) Parent() NodePath {
	if p.rel == ArchetypeRoot {
		return p
	}
	dir := path.Dir(p.rel)
	if dir == "." {
		return NodePath{rel: ArchetypeRoot}
	}
	return NodePath{rel: dir}
}

/*
Name returns the leaf name of this path. The virtual root's name is
"root".
*/
func (p NodePath) Name() string {
	if p.rel == ArchetypeRoot {
		return "root"
	}
	return path.Base(p.rel)
}

/*
Join returns a new NodePath naming a child of this path.
*/
func (p NodePath) Join(child string) NodePath {
	child = strings.Trim(child, "/")
	if p.rel == ArchetypeRoot {
		return NodePath{rel: child}
	}
	return NodePath{rel: path.Join(p.rel, child)}
}

/*
IsUnderVault returns true if this path is the vault root or a descendant
of it.
*/
func (p NodePath) IsUnderVault() bool {
	return p.rel == ArchetypeVault || strings.HasPrefix(p.rel, ArchetypeVault+"/")
}

/*
IsDescendantOf returns true if p is a (strict) descendant of other.
*/
func (p NodePath) IsDescendantOf(other NodePath) bool {
	if other.rel == ArchetypeRoot {
		return p.rel != ArchetypeRoot
	}
	return strings.HasPrefix(p.rel, other.rel+"/")
}

/*
Equal compares two NodePaths for equality.
*/
func (p NodePath) Equal(other NodePath) bool {
	return p.rel == other.rel
}

/*
String returns the alias form - NodePath implements fmt.Stringer.
*/
func (p NodePath) String() string {
	return p.Alias()
}

/*
WithNewName returns a sibling path with the leaf name replaced.
*/
func (p NodePath) WithNewName(name string) NodePath {
	return p.Parent().Join(name)
}

/*
RewritePrefix returns a copy of p with the leading oldPrefix alias
replaced by newPrefix. Used by move/rename to recompute descendant
aliases textually, as described in spec.md 4.6 step 3.
*/
func RewritePrefix(p, oldPrefix, newPrefix NodePath) NodePath {
	if p.rel == oldPrefix.rel {
		return newPrefix
	}
	suffix := strings.TrimPrefix(p.rel, oldPrefix.rel+"/")
	return newPrefix.Join(suffix)
}
