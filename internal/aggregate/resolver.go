// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/academic-metrics/internal/diag"
	"github.com/pdiddy/academic-metrics/pkg/types"
)

// Resolution maps every observed faculty name to its canonical identity.
// Built once per run by the resolver; immutable afterwards.
type Resolution struct {
	// canonical maps each variant spelling (including canonical
	// spellings themselves) to the group's canonical name.
	canonical map[string]string

	// variations holds one entry per multi-spelling identity, keyed by
	// canonical name.
	variations map[string]types.NameVariation
}

// CanonicalFor returns the canonical name for a variant. Unknown names
// map to themselves.
func (r Resolution) CanonicalFor(name string) string {
	if c, ok := r.canonical[name]; ok {
		return c
	}
	return name
}

// Variations returns the multi-spelling identity groups keyed by
// canonical name.
func (r Resolution) Variations() map[string]types.NameVariation {
	return r.variations
}

// Resolver partitions faculty display names into identity groups using a
// string-similarity policy: diacritic-folded token comparison for
// structural variants (initials, middle names, reordering) plus an
// edit-distance score for spelling variants.
type Resolver struct {
	cfg      types.ResolverConfig
	warnings *diag.Collector
}

// NewResolver returns a Resolver with cfg's thresholds (defaults applied).
func NewResolver(cfg types.ResolverConfig, warnings *diag.Collector) *Resolver {
	return &Resolver{cfg: cfg.Defaults(), warnings: warnings}
}

// Resolve partitions names into identity groups and returns the canonical
// mapping. Grouping is the transitive closure of the pairwise judgement,
// computed with union-find so partial merges cannot diverge. Canonical
// selection is deterministic for a given input set regardless of order.
func (r *Resolver) Resolve(names []string) Resolution {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	parsed := make([]parsedName, len(sorted))
	for i, name := range sorted {
		parsed[i] = parseName(name)
	}

	uf := newUnionFind(len(sorted))
	bases := make(map[int]types.StringSet)
	reported := types.NewStringSet()

	// Blocking prefilter: only names sharing a first or last token
	// initial are compared pairwise. Bounds the O(n^2) comparison cost;
	// correctness of merges inside a bucket does not depend on it.
	for _, bucket := range blockCandidates(parsed) {
		for x := 0; x < len(bucket); x++ {
			for y := x + 1; y < len(bucket); y++ {
				i, j := bucket[x], bucket[y]
				if uf.find(i) == uf.find(j) {
					continue
				}
				verdict := r.compare(parsed[i], parsed[j])
				switch {
				case verdict.same:
					ri, rj := uf.find(i), uf.find(j)
					root := uf.union(i, j)
					merged := types.NewStringSet()
					merged.Add(verdict.basis)
					for _, old := range []int{ri, rj} {
						if set, ok := bases[old]; ok && old != root {
							merged.Union(set)
							delete(bases, old)
						}
					}
					if set, ok := bases[root]; ok {
						set.Union(merged)
					} else {
						bases[root] = merged
					}
				case verdict.ambiguous:
					r.reportAmbiguous(parsed[i], parsed[j], verdict, reported)
				}
			}
		}
	}

	return buildResolution(sorted, parsed, uf, bases)
}

func (r *Resolver) reportAmbiguous(a, b parsedName, v verdict, reported types.StringSet) {
	pair := a.original + " | " + b.original
	if reported.Has(pair) {
		return
	}
	reported.Add(pair)
	// Low-confidence pairs are never silently merged; they are left
	// distinct and surfaced for manual review.
	r.warnings.Add(diag.KindAmbiguousIdentity, pair,
		"similarity %.2f falls in the indeterminate band [%.2f, %.2f)",
		v.score, r.cfg.ReviewScore, r.cfg.AcceptScore)
}

// buildResolution selects a canonical representative per group: the
// longest normalized spelling, ties broken by lexicographic order of the
// original spelling.
func buildResolution(names []string, parsed []parsedName, uf *unionFind, bases map[int]types.StringSet) Resolution {
	groups := make(map[int][]int)
	for i := range names {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	res := Resolution{
		canonical:  make(map[string]string, len(names)),
		variations: make(map[string]types.NameVariation),
	}
	for root, members := range groups {
		canonical := members[0]
		for _, m := range members[1:] {
			if betterCanonical(parsed[m], parsed[canonical]) {
				canonical = m
			}
		}
		for _, m := range members {
			res.canonical[names[m]] = names[canonical]
		}
		if len(members) > 1 {
			variants := types.NewStringSet()
			for _, m := range members {
				variants.Add(names[m])
			}
			basis := ""
			if set, ok := bases[root]; ok {
				basis = strings.Join(set.Sorted(), "; ")
			}
			res.variations[names[canonical]] = types.NameVariation{
				CanonicalName: names[canonical],
				Variations:    variants,
				Basis:         basis,
			}
		}
	}
	return res
}

func betterCanonical(candidate, current parsedName) bool {
	if len(candidate.norm) != len(current.norm) {
		return len(candidate.norm) > len(current.norm)
	}
	return candidate.original < current.original
}

// --- pairwise policy ---

type verdict struct {
	same      bool
	ambiguous bool
	basis     string
	score     float64
}

// compare judges whether a and b denote the same person. Structural rules
// run first (they catch abbreviations the raw score misses); the
// edit-distance score over full normalized names catches spelling-only
// variants and defines the ambiguous band.
func (r *Resolver) compare(a, b parsedName) verdict {
	score := similarityScore(a.norm, b.norm)

	if a.norm == b.norm {
		return verdict{same: true, basis: "exact-normalized", score: 1}
	}
	if structuralMatch(a, b) {
		return verdict{same: true, basis: "name-structure", score: score}
	}
	if score >= r.cfg.AcceptScore {
		return verdict{same: true, basis: fmt.Sprintf("score=%.2f", score), score: score}
	}
	if score >= r.cfg.ReviewScore {
		return verdict{ambiguous: true, score: score}
	}
	return verdict{score: score}
}

// similarityScore is 1 - dist/maxLen over normalized names, in [0, 1].
func similarityScore(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

// structuralMatch tries every surname orientation of both names (family
// name last, as written, or first, as in "Smith, John") and accepts when
// surnames agree within tight edit distance and the given-name tokens are
// pairwise compatible.
func structuralMatch(a, b parsedName) bool {
	for _, oa := range a.orientations() {
		for _, ob := range b.orientations() {
			if orientedMatch(oa, ob) {
				return true
			}
		}
	}
	return false
}

func orientedMatch(a, b orientedName) bool {
	if len(a.given) == 0 || len(b.given) == 0 {
		// A bare surname never merges with anything but an exact match;
		// too many distinct people share one.
		return false
	}
	if !surnamesMatch(a.surname, b.surname) {
		return false
	}
	return givenCompatible(a.given, b.given)
}

func surnamesMatch(x, y string) bool {
	if x == y {
		return true
	}
	minLen := len([]rune(x))
	if l := len([]rune(y)); l < minLen {
		minLen = l
	}
	// Short surnames must match exactly: one edit turns Lee into Law.
	return minLen >= 5 && levenshtein.ComputeDistance(x, y) <= 1
}

// givenCompatible matches the shorter given-token list against the longer
// as a multiset: every token must find a distinct compatible partner.
// Missing middle names are tolerated; conflicting ones are not checked
// beyond the shorter list.
func givenCompatible(x, y []string) bool {
	short, long := x, y
	if len(short) > len(long) {
		short, long = long, short
	}
	used := make([]bool, len(long))
	for _, tok := range short {
		matched := false
		for i, other := range long {
			if used[i] || !givenTokensMatch(tok, other) {
				continue
			}
			used[i] = true
			matched = true
			break
		}
		if !matched {
			return false
		}
	}
	return true
}

func givenTokensMatch(x, y string) bool {
	if x == y {
		return true
	}
	rx, ry := []rune(x), []rune(y)
	// Initial vs. full given name: "j" matches "john".
	if len(rx) == 1 || len(ry) == 1 {
		return rx[0] == ry[0]
	}
	if len(rx) >= 4 && len(ry) >= 4 {
		return levenshtein.ComputeDistance(x, y) <= 1
	}
	return false
}

// --- name parsing ---

type parsedName struct {
	original string
	norm     string
	tokens   []string
}

type orientedName struct {
	surname string
	given   []string
}

// orientations returns the plausible surname placements: family name last
// (western order) and, for multi-token names, family name first.
func (p parsedName) orientations() []orientedName {
	if len(p.tokens) == 0 {
		return nil
	}
	last := orientedName{
		surname: p.tokens[len(p.tokens)-1],
		given:   p.tokens[:len(p.tokens)-1],
	}
	if len(p.tokens) < 2 {
		return []orientedName{last}
	}
	first := orientedName{surname: p.tokens[0], given: p.tokens[1:]}
	return []orientedName{last, first}
}

var diacriticFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeName folds diacritics, lowercases, and reduces punctuation and
// hyphens to single spaces: "García-Márquez, J." → "garcia marquez j".
func normalizeName(name string) string {
	folded, _, err := transform.String(diacriticFold, name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func parseName(name string) parsedName {
	n := normalizeName(name)
	return parsedName{original: name, norm: n, tokens: strings.Fields(n)}
}

// blockCandidates buckets name indices by the first rune of their first
// and last tokens, so reordered spellings still land in a shared bucket.
func blockCandidates(parsed []parsedName) [][]int {
	buckets := make(map[rune][]int)
	for i, p := range parsed {
		if len(p.tokens) == 0 {
			continue
		}
		seen := map[rune]bool{}
		for _, tok := range []string{p.tokens[0], p.tokens[len(p.tokens)-1]} {
			r := []rune(tok)[0]
			if !seen[r] {
				seen[r] = true
				buckets[r] = append(buckets[r], i)
			}
		}
	}
	keys := make([]rune, 0, len(buckets))
	for r := range buckets {
		keys = append(keys, r)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([][]int, 0, len(keys))
	for _, r := range keys {
		out = append(out, buckets[r])
	}
	return out
}

// --- union-find ---

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(i, j int) int {
	ri, rj := u.find(i), u.find(j)
	if ri == rj {
		return ri
	}
	if u.rank[ri] < u.rank[rj] {
		ri, rj = rj, ri
	}
	u.parent[rj] = ri
	if u.rank[ri] == u.rank[rj] {
		u.rank[ri]++
	}
	return ri
}
