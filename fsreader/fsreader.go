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
Package fsreader translates vault filesystem entries into transient
graph.DataNode values. It never writes to the graph - callers (vault.Service)
decide whether and when to index what it reads. Mirrors the pure-projection
role spec.md 4.2 and 9 describe.
*/
package fsreader

import (
	"os"
	"path/filepath"
	"strings"

	"devt.de/krotik/common/fileutil"

	"github.com/kartaio/karta/graph"
	"github.com/kartaio/karta/identity"
	"github.com/kartaio/karta/kerr"
)

/*
Reader projects filesystem entries under a single vault root into
transient DataNode values.
*/
type Reader struct {
	VaultRoot string
}

/*
New creates a Reader rooted at vaultRoot (an absolute directory path on
disk, corresponding to NodePath "vault").
*/
func New(vaultRoot string) *Reader {
	return &Reader{VaultRoot: vaultRoot}
}

/*
AbsPath returns the absolute filesystem path corresponding to p, which
must be "vault" or a descendant of it.
*/
func (r *Reader) AbsPath(p identity.NodePath) string {
	rel := p.StripVaultPrefix()
	if rel == "" {
		return r.VaultRoot
	}
	return filepath.Join(r.VaultRoot, filepath.FromSlash(rel))
}

/*
Exists reports whether p has a filesystem counterpart.
*/
func (r *Reader) Exists(p identity.NodePath) bool {
	ok, _ := fileutil.PathExists(r.AbsPath(p))
	return ok
}

/*
IsDir reports whether p names a directory on disk.
*/
func (r *Reader) IsDir(p identity.NodePath) bool {
	info, err := os.Stat(r.AbsPath(p))
	return err == nil && info.IsDir()
}

/*
Read projects the filesystem entry at p into a transient DataNode. Fails
with NotFound if nothing exists at that path. The returned node has a
zero UUID and zero timestamps - it is the caller's job (GraphStore) to
assign identity when the node is actually inserted.
*/
func (r *Reader) Read(p identity.NodePath) (graph.DataNode, error) {
	abs := r.AbsPath(p)

	info, err := os.Stat(abs)
	if err != nil {
		return graph.DataNode{}, kerr.NotFound("no filesystem entry at " + abs)
	}

	ntype := identity.NodeTypeFsDir
	if !info.IsDir() {
		ntype = identity.NodeTypeFsFileExt(fileExt(info.Name()))
	}

	return graph.DataNode{
		Path:  p,
		Name:  p.Name(),
		NType: ntype,
		Alive: true,
	}, nil
}

/*
Children enumerates the direct filesystem children of directory p, sorted
by name. Fails with NotFound if p is not a directory on disk.
*/
func (r *Reader) Children(p identity.NodePath) ([]graph.DataNode, error) {
	abs := r.AbsPath(p)

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, kerr.NotFound("not a directory: " + abs)
	}

	out := make([]graph.DataNode, 0, len(entries))
	for _, e := range entries {
		childPath := p.Join(e.Name())

		ntype := identity.NodeTypeFsDir
		if !e.IsDir() {
			ntype = identity.NodeTypeFsFileExt(fileExt(e.Name()))
		}

		out = append(out, graph.DataNode{
			Path:  childPath,
			Name:  e.Name(),
			NType: ntype,
			Alive: true,
		})
	}

	return out, nil
}

/*
fileExt returns a file's extension without the leading dot, or "" if it
has none. Dotfiles with no further extension ("/.gitignore") are treated
as having no extension.
*/
func fileExt(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}

/*
Rename performs the filesystem side of a move/rename: renames the entry
at oldPath to sit at newPath, creating newPath's parent directory if
necessary. Best-effort: on most platforms os.Rename is atomic for entries
on the same volume; Windows atomicity with locked files is not guaranteed
and is surfaced as an Io error for the caller to report (spec.md 9 open
question).
*/
func (r *Reader) Rename(oldPath, newPath identity.NodePath) error {
	oldAbs := r.AbsPath(oldPath)
	newAbs := r.AbsPath(newPath)

	if err := os.MkdirAll(filepath.Dir(newAbs), 0770); err != nil {
		return kerr.Io(err.Error())
	}

	if err := os.Rename(oldAbs, newAbs); err != nil {
		return kerr.Io(err.Error())
	}

	return nil
}
