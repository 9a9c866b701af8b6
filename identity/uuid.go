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
	"strconv"

	"github.com/google/uuid"
	"github.com/lukechampine/blake3"
)

/*
Uuid is the stable identity of a node or edge.
*/
type Uuid struct {
	u uuid.UUID
}

/*
NilUuid is the fixed all-zero uuid reserved for the virtual root node.
*/
var NilUuid = Uuid{u: uuid.Nil}

/*
ParseUuid parses a canonical uuid string.
*/
func ParseUuid(s string) (Uuid, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Uuid{}, err
	}
	return Uuid{u: u}, nil
}

/*
MustParseUuid parses a canonical uuid string and panics on error. Only
meant for constants and tests.
*/
func MustParseUuid(s string) Uuid {
	u, err := ParseUuid(s)
	if err != nil {
		panic(err)
	}
	return u
}

/*
String returns the canonical string form of the uuid.
*/
func (u Uuid) String() string {
	return u.u.String()
}

/*
IsNil returns true if this is the all-zero uuid.
*/
func (u Uuid) IsNil() bool {
	return u.u == uuid.Nil
}

/*
Equal compares two uuids for equality.
*/
func (u Uuid) Equal(other Uuid) bool {
	return u.u == other.u
}

/*
MarshalText implements encoding.TextMarshaler so Uuid can be used directly
as a JSON object key and value.
*/
func (u Uuid) MarshalText() ([]byte, error) {
	return []byte(u.u.String()), nil
}

/*
UnmarshalText implements encoding.TextUnmarshaler.
*/
func (u *Uuid) UnmarshalText(b []byte) error {
	parsed, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	u.u = parsed
	return nil
}

/*
DeriveNodeUUID computes the stable uuid of a non-root node from its alias
and creation timestamp, per spec.md 3:

	uuid = v5(NAMESPACE_URL, blake3(alias . creation_millis))
*/
func DeriveNodeUUID(alias string, createdMillis int64) Uuid {
	name := blake3Sum(alias + strconv.FormatInt(createdMillis, 10))
	return Uuid{u: uuid.NewSHA1(uuid.NameSpaceURL, name)}
}

/*
DeriveUnindexedUUID computes the deterministic uuid synthesized for a
physical-but-unindexed node surfaced during a move, per spec.md 4.6 step
6: v5(NAMESPACE_URL, final_alias). Unlike DeriveNodeUUID this does not mix
in a timestamp, since the node's real creation time is unknown - the
derivation must be reproducible from the alias alone so that indexing the
node later assigns it the same identity.
*/
func DeriveUnindexedUUID(alias string) Uuid {
	return Uuid{u: uuid.NewSHA1(uuid.NameSpaceURL, []byte(alias))}
}

/*
DeriveEdgeUUID computes the stable uuid of an edge from its endpoints,
creation timestamp and kind, per spec.md 3:

	uuid = v5(source . target . millis . kind)
*/
func DeriveEdgeUUID(source, target Uuid, millis int64, kind string) Uuid {
	name := fmt.Sprintf("%s|%s|%d|%s", source.String(), target.String(), millis, kind)
	return Uuid{u: uuid.NewSHA1(uuid.NameSpaceURL, []byte(name))}
}

func blake3Sum(s string) []byte {
	sum := blake3.Sum256([]byte(s))
	return sum[:]
}
