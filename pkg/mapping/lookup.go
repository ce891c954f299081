package mapping

import "github.com/paramify/client-success/pkg/tabular"

// Lookup maps a CapabilityKey to the full MappingSet the master holds for
// that capability.
type Lookup map[string]MappingSet

// BuildLookup scans every data row of master and builds a Lookup from the
// named key column to the parsed mapping column. Column names are matched
// exactly (case-sensitive, untrimmed) against the header; a missing column
// is a ColumnNotFoundError. Rows whose key normalizes to "" are skipped;
// duplicate keys union their mapping sets.
func BuildLookup(master *tabular.Table, keyColumn, mappingColumn string) (Lookup, error) {
	keyIdx, ok := master.ColumnIndex(keyColumn)
	if !ok {
		return nil, &ColumnNotFoundError{Column: keyColumn, Headers: master.Header()}
	}
	mapIdx, ok := master.ColumnIndex(mappingColumn)
	if !ok {
		return nil, &ColumnNotFoundError{Column: mappingColumn, Headers: master.Header()}
	}

	lookup := Lookup{}
	for row := 1; row < len(master.Rows); row++ {
		key := CapabilityKey(master.Cell(row, keyIdx))
		if key == "" {
			continue
		}
		mappings := ParseMappings(master.Cell(row, mapIdx))
		if existing, ok := lookup[key]; ok {
			existing.Union(mappings)
		} else {
			lookup[key] = mappings
		}
	}
	return lookup, nil
}

// Resolve probes the lookups in order and returns the first mapping set
// found for key. An earlier lookup wins outright even when a later one
// also holds the key.
func Resolve(lookups []Lookup, key string) (MappingSet, bool) {
	for _, l := range lookups {
		if set, ok := l[key]; ok {
			return set, true
		}
	}
	return nil, false
}
