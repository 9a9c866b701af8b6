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
Package search implements SearchIndex: fuzzy path/name search over the
union of every alias indexed in GraphStore and every filesystem entry
under the vault root, per spec.md 4.4.
*/
package search

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/kartaio/karta/fsreader"
	"github.com/kartaio/karta/graph"
	"github.com/kartaio/karta/identity"
)

/*
Result is a single search hit.
*/
type Result struct {
	Path      string
	Name      string
	NType     string
	UUID      string
	IsIndexed bool
	Score     float64
}

/*
Index runs fuzzy queries over a Manager's indexed aliases and the live
vault filesystem.
*/
type Index struct {
	gm *graph.Manager
	fr *fsreader.Reader
}

/*
New creates a search Index over the given graph store and filesystem
reader.
*/
func New(gm *graph.Manager, fr *fsreader.Reader) *Index {
	return &Index{gm: gm, fr: fr}
}

type candidate struct {
	alias     string
	name      string
	ntype     string
	uuid      string
	isIndexed bool
}

/*
Search runs a fuzzy query q over the corpus, returning up to limit
results ordered by descending score (ties broken by shallower path),
plus totalFound, the number of matches before limit truncation. min_score
is advisory only, per spec.md 4.4 and 9: it is never used to silently
drop matches.
*/
func (idx *Index) Search(q string, limit int, minScore float64) (results []Result, totalFound int, truncated bool, err error) {
	if q == "" {
		return nil, 0, false, nil
	}

	candidates, err := idx.corpus()
	if err != nil {
		return nil, 0, false, err
	}

	results = rank(q, candidates)
	totalFound = len(results)

	if limit > 0 && len(results) > limit {
		results = results[:limit]
		truncated = true
	}

	_ = minScore // advisory only; ranking already favours higher-scoring matches

	return results, totalFound, truncated, nil
}

/*
corpus builds the deduplicated candidate set: every indexed alias, plus
every filesystem entry not already indexed, merged so a physical entry
that is also indexed appears exactly once (spec.md 4.4).
*/
func (idx *Index) corpus() ([]candidate, error) {
	byAlias := make(map[string]candidate)

	indexed, err := idx.gm.GetAllIndexedPaths()
	if err != nil {
		return nil, err
	}

	for _, p := range indexed {
		n, err := idx.gm.OpenNode(identity.HandleFromPath(p))
		if err != nil {
			continue
		}
		byAlias[p.Alias()] = candidate{
			alias:     p.Alias(),
			name:      p.Name(),
			ntype:     string(n.NType),
			uuid:      n.UUID.String(),
			isIndexed: true,
		}
	}

	filepath.WalkDir(idx.fr.VaultRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == idx.fr.VaultRoot {
			return nil
		}

		rel, rerr := filepath.Rel(idx.fr.VaultRoot, path)
		if rerr != nil {
			return nil
		}

		p := identity.NewNodePath(filepath.ToSlash(rel))
		alias := p.Alias()

		if _, ok := byAlias[alias]; ok {
			return nil
		}

		ntype := string(identity.NodeTypeFsDir)
		if !d.IsDir() {
			ntype = string(identity.NodeTypeFsFileExt(extOf(d.Name())))
		}

		byAlias[alias] = candidate{
			alias:     alias,
			name:      d.Name(),
			ntype:     ntype,
			isIndexed: false,
		}
		return nil
	})

	out := make([]candidate, 0, len(byAlias))
	for _, c := range byAlias {
		out = append(out, c)
	}
	return out, nil
}

func extOf(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}

/*
rank scores every candidate against q using fuzzy subsequence matching,
boosted for exact prefix and substring matches so they reliably outrank
distant fuzzy hits, and tie-broken by path depth (shallower first) -
resolving the open scoring question in spec.md 9 the way described in
SPEC_FULL.md 5.
*/
func rank(q string, candidates []candidate) []Result {
	lowerQ := strings.ToLower(q)

	type scored struct {
		c     candidate
		score float64
		depth int
	}

	var hits []scored

	for _, c := range candidates {
		haystack := c.alias + " " + c.name
		if !fuzzy.MatchFold(q, haystack) {
			continue
		}

		base := float64(fuzzy.RankMatchFold(q, haystack))
		score := scoreFromRank(base, len(haystack))

		lowerName := strings.ToLower(c.name)
		lowerAlias := strings.ToLower(c.alias)

		switch {
		case lowerName == lowerQ:
			score = 1.0
		case strings.HasPrefix(lowerName, lowerQ):
			score = max64(score, 0.95)
		case strings.Contains(lowerName, lowerQ):
			score = max64(score, 0.85)
		case strings.Contains(lowerAlias, lowerQ):
			score = max64(score, 0.7)
		}

		hits = append(hits, scored{c: c, score: score, depth: strings.Count(c.alias, "/")})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].depth < hits[j].depth
	})

	out := make([]Result, len(hits))
	for i, h := range hits {
		out[i] = Result{
			Path:      h.c.alias,
			Name:      h.c.name,
			NType:     h.c.ntype,
			UUID:      h.c.uuid,
			IsIndexed: h.c.isIndexed,
			Score:     h.score,
		}
	}
	return out
}

func scoreFromRank(rank float64, haystackLen int) float64 {
	if haystackLen == 0 {
		return 0
	}
	s := 1.0 - rank/float64(haystackLen+1)
	if s < 0.01 {
		s = 0.01
	}
	if s > 0.99 {
		s = 0.99
	}
	return s
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
