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
	"os"
	"path/filepath"
	"sort"
	"strings"
)

/*
dirDict implements termutil.Dict, suggesting directory entries for
whatever path prefix the user has typed so far - the tab-completion
required by spec.md 6.4.
*/
type dirDict struct{}

/*
Suggest lists the directory entries under prefix's directory part whose
name starts with prefix's leaf part. Only directories are suggested,
since a vault root must be a directory.
*/
func (dirDict) Suggest(prefix string) ([]string, error) {
	dir := filepath.Dir(prefix)
	leaf := filepath.Base(prefix)

	if prefix == "" || strings.HasSuffix(prefix, string(os.PathSeparator)) {
		dir = prefix
		leaf = ""
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil
	}

	var suggestions []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if leaf != "" && !strings.HasPrefix(e.Name(), leaf) {
			continue
		}
		suggestions = append(suggestions, filepath.Join(dir, e.Name())+string(os.PathSeparator))
	}

	sort.Strings(suggestions)

	return suggestions, nil
}
