// Package mapping reconciles suggested control mappings between a master
// capability table and a target table. The master lists every capability
// with its complete mapping set; reconciliation adds mappings the target is
// missing and never removes or reorders anything else.
package mapping

import (
	"sort"
	"strings"
)

// CapabilityKey normalizes a capability name for comparison: surrounding
// whitespace is trimmed, one trailing colon is removed, and the result is
// trimmed again. Comparison is case-sensitive.
func CapabilityKey(name string) string {
	s := strings.TrimSpace(name)
	s = strings.TrimSuffix(s, ":")
	return strings.TrimSpace(s)
}

// MappingSet is a set of distinct control mapping strings.
type MappingSet map[string]struct{}

// ParseMappings splits a mapping cell into a MappingSet: one mapping per
// line, trimmed, empty lines discarded.
func ParseMappings(cell string) MappingSet {
	set := MappingSet{}
	for _, line := range strings.Split(cell, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		set[line] = struct{}{}
	}
	return set
}

// Union adds every mapping from other into s.
func (s MappingSet) Union(other MappingSet) {
	for m := range other {
		s[m] = struct{}{}
	}
}

// Minus returns the mappings in s that are absent from other.
func (s MappingSet) Minus(other MappingSet) MappingSet {
	diff := MappingSet{}
	for m := range s {
		if _, ok := other[m]; !ok {
			diff[m] = struct{}{}
		}
	}
	return diff
}

// Contains reports whether m is in the set.
func (s MappingSet) Contains(m string) bool {
	_, ok := s[m]
	return ok
}

// Sorted returns the mappings in ascending lexicographic order.
func (s MappingSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// FormatMappings renders a MappingSet as a mapping cell: lexicographically
// sorted, newline-joined.
func FormatMappings(s MappingSet) string {
	return strings.Join(s.Sorted(), "\n")
}
