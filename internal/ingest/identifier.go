// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// IdentifierType classifies a record's bibliographic identifier.
type IdentifierType int

const (
	TypeUnknown IdentifierType = iota
	TypeDOI
	TypeArxiv
	TypeURL
)

func (t IdentifierType) String() string {
	switch t {
	case TypeDOI:
		return "doi"
	case TypeArxiv:
		return "arxiv"
	case TypeURL:
		return "url"
	default:
		return "unknown"
	}
}

// doiPattern matches DOIs: "10.1145/1234567.1234568". An optional
// "doi:" or "https://doi.org/" prefix is stripped before matching.
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[^\s]+$`)

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041v2".
var arxivPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)

// doiPrefixes are stripped before DOI matching. DOIs are case-insensitive
// by specification, so normalization lowercases them.
var doiPrefixes = []string{"doi:", "https://doi.org/", "http://doi.org/", "https://dx.doi.org/"}

// Classify determines the identifier type and returns the normalized
// form: lowercased bare DOI, arXiv ID without the "arXiv:" prefix, or the
// URL as given.
func Classify(identifier string) (IdentifierType, string) {
	identifier = strings.TrimSpace(identifier)

	candidate := identifier
	for _, prefix := range doiPrefixes {
		if strings.HasPrefix(strings.ToLower(candidate), prefix) {
			candidate = candidate[len(prefix):]
			break
		}
	}
	if doiPattern.MatchString(candidate) {
		return TypeDOI, strings.ToLower(candidate)
	}

	if m := arxivPattern.FindStringSubmatch(identifier); m != nil {
		return TypeArxiv, m[1]
	}

	if u, err := url.Parse(identifier); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return TypeURL, identifier
	}

	return TypeUnknown, identifier
}

// Slug returns a filesystem- and key-safe stem for the identifier.
func Slug(idType IdentifierType, normalized string) string {
	switch idType {
	case TypeDOI:
		return strings.NewReplacer("/", "-", ":", "-").Replace(normalized)
	case TypeArxiv:
		return normalized
	case TypeURL:
		return urlHashSlug(normalized)
	default:
		return urlHashSlug(normalized)
	}
}

func urlHashSlug(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("id-%x", h[:8])
}
