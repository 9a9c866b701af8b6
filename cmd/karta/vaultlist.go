/*
 * Karta
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"devt.de/krotik/common/fileutil"
)

/*
vaultList is the in-memory form of the per-user karta_vaults.ron file
described in spec.md 6.1: the default vault plus every vault the user has
ever opened.
*/
type vaultList struct {
	Default string
	Vaults  []string
}

/*
loadVaultList reads path, returning an empty vaultList if the file does
not yet exist.
*/
func loadVaultList(path string) (vaultList, error) {
	if ok, _ := fileutil.PathExists(path); !ok {
		return vaultList{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return vaultList{}, err
	}

	return decodeVaultList(string(data)), nil
}

/*
save writes vl to path, creating its parent directory if needed.
*/
func (vl vaultList) save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(vl.encode()), 0644)
}

/*
addVault records root as the most recently used vault, moving it to the
front if already known, and sets it as the default.
*/
func (vl vaultList) addVault(root string) vaultList {
	filtered := make([]string, 0, len(vl.Vaults)+1)
	filtered = append(filtered, root)
	for _, v := range vl.Vaults {
		if v != root {
			filtered = append(filtered, v)
		}
	}
	return vaultList{Default: root, Vaults: filtered}
}

func (vl vaultList) encode() string {
	var b strings.Builder
	fmt.Fprintf(&b, "VaultList(\n  default: %q,\n  vaults: [\n", vl.Default)
	for _, v := range vl.Vaults {
		fmt.Fprintf(&b, "    %q,\n", v)
	}
	b.WriteString("  ],\n)\n")
	return b.String()
}

func decodeVaultList(s string) vaultList {
	var vl vaultList

	if idx := strings.Index(s, "default:"); idx >= 0 {
		vl.Default = extractQuotedValue(s[idx+len("default:"):])
	}

	if idx := strings.Index(s, "vaults:"); idx >= 0 {
		body := s[idx+len("vaults:"):]
		for {
			q1 := strings.Index(body, `"`)
			if q1 < 0 {
				break
			}
			body = body[q1+1:]
			q2 := strings.Index(body, `"`)
			if q2 < 0 {
				break
			}
			vl.Vaults = append(vl.Vaults, body[:q2])
			body = body[q2+1:]
		}
	}

	return vl
}

func extractQuotedValue(s string) string {
	q1 := strings.Index(s, `"`)
	if q1 < 0 {
		return ""
	}
	s = s[q1+1:]
	q2 := strings.Index(s, `"`)
	if q2 < 0 {
		return ""
	}
	return s[:q2]
}
