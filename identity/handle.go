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

/*
NodeHandle is a tagged variant which identifies a node either by its path
or by its uuid. All read endpoints accept either form.
*/
type NodeHandle struct {
	path NodePath
	uuid Uuid
	kind handleKind
}

type handleKind int

const (
	handleInvalid handleKind = iota
	handlePath
	handleUUID
)

/*
HandleFromPath wraps a NodePath into a NodeHandle.
*/
func HandleFromPath(p NodePath) NodeHandle {
	return NodeHandle{path: p, kind: handlePath}
}

/*
HandleFromUUID wraps a Uuid into a NodeHandle.
*/
func HandleFromUUID(u Uuid) NodeHandle {
	return NodeHandle{uuid: u, kind: handleUUID}
}

/*
IsPath returns true if this handle names a path.
*/
func (h NodeHandle) IsPath() bool {
	return h.kind == handlePath
}

/*
IsUUID returns true if this handle names a uuid.
*/
func (h NodeHandle) IsUUID() bool {
	return h.kind == handleUUID
}

/*
Path returns the wrapped NodePath. Only valid if IsPath() is true.
*/
func (h NodeHandle) Path() NodePath {
	return h.path
}

/*
UUID returns the wrapped Uuid. Only valid if IsUUID() is true.
*/
func (h NodeHandle) UUID() Uuid {
	return h.uuid
}

/*
String returns a human readable representation of the handle.
*/
func (h NodeHandle) String() string {
	if h.kind == handlePath {
		return h.path.Alias()
	} else if h.kind == handleUUID {
		return h.uuid.String()
	}
	return "<invalid handle>"
}

/*
NodeTypeId names a node kind, e.g. "core/fs/dir" or "core/virtual/generic".
*/
type NodeTypeId string

// Fixed node type ids.
const (
	NodeTypeRoot          NodeTypeId = "core/root"
	NodeTypeArchetype     NodeTypeId = "core/archetype"
	NodeTypeFsDir         NodeTypeId = "core/fs/dir"
	NodeTypeFsFile        NodeTypeId = "core/fs/file"
	NodeTypeVirtualGeneric NodeTypeId = "core/virtual/generic"
)

/*
NodeTypeFsFileExt returns the node type id for a file with the given
extension (without leading dot), e.g. "core/fs/file/txt". An empty
extension yields plain NodeTypeFsFile.
*/
func NodeTypeFsFileExt(ext string) NodeTypeId {
	if ext == "" {
		return NodeTypeFsFile
	}
	return NodeTypeId(string(NodeTypeFsFile) + "/" + ext)
}
