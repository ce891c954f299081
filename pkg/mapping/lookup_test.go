package mapping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramify/client-success/pkg/tabular"
)

func masterTable(csv string) *tabular.Table {
	return tabular.Parse(csv)
}

func TestBuildLookup(t *testing.T) {
	t.Run("basic build", func(t *testing.T) {
		master := masterTable("Solution Capability,Suggested Mappings\nAccess Review,\"AC-1\nAC-2\"\nLogging,AU-2")
		lookup, err := BuildLookup(master, "Solution Capability", "Suggested Mappings")
		require.NoError(t, err)

		require.Len(t, lookup, 2)
		assert.Equal(t, []string{"AC-1", "AC-2"}, lookup["Access Review"].Sorted())
		assert.Equal(t, []string{"AU-2"}, lookup["Logging"].Sorted())
	})

	t.Run("duplicate keys union", func(t *testing.T) {
		master := masterTable("Cap,Map\nA,AC-1\nA,AC-2\nA:,AC-3")
		lookup, err := BuildLookup(master, "Cap", "Map")
		require.NoError(t, err)

		require.Len(t, lookup, 1)
		assert.Equal(t, []string{"AC-1", "AC-2", "AC-3"}, lookup["A"].Sorted())
	})

	t.Run("empty keys skipped", func(t *testing.T) {
		master := masterTable("Cap,Map\n,AC-1\n:,AC-2\n   ,AC-3")
		lookup, err := BuildLookup(master, "Cap", "Map")
		require.NoError(t, err)
		assert.Empty(t, lookup)
	})

	t.Run("keys normalized", func(t *testing.T) {
		master := masterTable("Cap,Map\n  Access Review:  ,AC-1")
		lookup, err := BuildLookup(master, "Cap", "Map")
		require.NoError(t, err)

		_, ok := lookup["Access Review"]
		assert.True(t, ok)
	})

	t.Run("rows shorter than mapping column", func(t *testing.T) {
		master := masterTable("Cap,Extra,Map\nA")
		lookup, err := BuildLookup(master, "Cap", "Map")
		require.NoError(t, err)
		assert.Empty(t, lookup["A"])
	})

	t.Run("missing key column", func(t *testing.T) {
		master := masterTable("Wrong,Map\nA,AC-1")
		_, err := BuildLookup(master, "Cap", "Map")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrColumnNotFound))

		var colErr *ColumnNotFoundError
		require.ErrorAs(t, err, &colErr)
		assert.Equal(t, "Cap", colErr.Column)
		assert.Equal(t, []string{"Wrong", "Map"}, colErr.Headers)
		assert.Contains(t, colErr.Error(), "Wrong, Map")
	})

	t.Run("missing mapping column", func(t *testing.T) {
		master := masterTable("Cap,Wrong\nA,AC-1")
		_, err := BuildLookup(master, "Cap", "Map")
		assert.True(t, errors.Is(err, ErrColumnNotFound))
	})

	t.Run("column match is exact", func(t *testing.T) {
		master := masterTable("cap,Map\nA,AC-1")
		_, err := BuildLookup(master, "Cap", "Map")
		assert.Error(t, err, "header match must be case-sensitive")
	})
}

func TestResolve(t *testing.T) {
	primary := Lookup{"A": ParseMappings("AC-1")}
	fallback := Lookup{
		"A": ParseMappings("AC-9"),
		"B": ParseMappings("AU-2"),
	}
	lookups := []Lookup{primary, fallback}

	t.Run("primary wins outright", func(t *testing.T) {
		set, ok := Resolve(lookups, "A")
		require.True(t, ok)
		assert.Equal(t, []string{"AC-1"}, set.Sorted())
	})

	t.Run("fallback probed on miss", func(t *testing.T) {
		set, ok := Resolve(lookups, "B")
		require.True(t, ok)
		assert.Equal(t, []string{"AU-2"}, set.Sorted())
	})

	t.Run("absent from all", func(t *testing.T) {
		_, ok := Resolve(lookups, "C")
		assert.False(t, ok)
	})

	t.Run("no lookups", func(t *testing.T) {
		_, ok := Resolve(nil, "A")
		assert.False(t, ok)
	})
}
