// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"sort"
)

// StringSet is a set of strings with deterministic serialization: it
// marshals as a sorted JSON array so stored documents and exported files
// are stable across runs.
type StringSet map[string]struct{}

// NewStringSet returns a set containing the given members.
func NewStringSet(members ...string) StringSet {
	s := make(StringSet, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Add inserts member into the set.
func (s StringSet) Add(member string) {
	s[member] = struct{}{}
}

// Has reports whether member is in the set.
func (s StringSet) Has(member string) bool {
	_, ok := s[member]
	return ok
}

// Remove deletes member from the set if present.
func (s StringSet) Remove(member string) {
	delete(s, member)
}

// Union inserts every member of other into the set.
func (s StringSet) Union(other StringSet) {
	for m := range other {
		s[m] = struct{}{}
	}
}

// Sorted returns the members in lexicographic order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the set.
func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	for m := range s {
		out[m] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array into the set.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var members []string
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	*s = NewStringSet(members...)
	return nil
}
