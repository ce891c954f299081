package mapping

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramify/client-success/pkg/tabular"
)

func reconcileFixture(t *testing.T, masterCSV, targetCSV string) (*tabular.Table, []Lookup) {
	t.Helper()
	master := tabular.Parse(masterCSV)
	lookup, err := BuildLookup(master, "Cap", "Map")
	require.NoError(t, err)
	return tabular.Parse(targetCSV), []Lookup{lookup}
}

func TestReconcileAddsMissingMappings(t *testing.T) {
	// Trailing colon in the target still resolves, and the cell becomes
	// the sorted union of old and new mappings.
	target, lookups := reconcileFixture(t,
		"Cap,Map\nAccess Review,\"AC-1\nAC-2\"",
		"Cap,Map\nAccess Review:,AC-2",
	)

	report, err := Reconcile(target, lookups, "Cap", "Map")
	require.NoError(t, err)

	assert.Equal(t, "AC-1\nAC-2", target.Cell(1, 1))
	assert.Equal(t, 1, report.RowsUpdated)
	assert.Equal(t, 1, report.MappingsAdded)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, ChangeRecord{Row: 1, Capability: "Access Review:", Added: 1}, report.Changes[0])
	assert.Empty(t, report.Unresolved)
}

func TestReconcileUnresolved(t *testing.T) {
	target, lookups := reconcileFixture(t,
		"Cap,Map\nKnown,AC-1",
		"Cap,Map\nUnknown Thing,AC-9\nUnknown Thing:,\nOther Unknown,",
	)

	report, err := Reconcile(target, lookups, "Cap", "Map")
	require.NoError(t, err)

	// Deduplicated, first-seen order; cells untouched; no ChangeRecords.
	assert.Equal(t, []string{"Unknown Thing", "Other Unknown"}, report.Unresolved)
	assert.Empty(t, report.Changes)
	assert.Equal(t, "AC-9", target.Cell(1, 1))
}

func TestReconcileSkipsBlankCapability(t *testing.T) {
	target, lookups := reconcileFixture(t,
		"Cap,Map\nA,AC-1",
		"Cap,Map\n,AC-9\n   ,AC-9\nA,",
	)

	report, err := Reconcile(target, lookups, "Cap", "Map")
	require.NoError(t, err)

	assert.Equal(t, 1, report.RowsUpdated, "only the named row is touched")
	assert.Empty(t, report.Unresolved, "blank rows are not reported")
	assert.Equal(t, "AC-9", target.Cell(1, 1))
	assert.Equal(t, "AC-1", target.Cell(3, 1))
}

func TestReconcileNoChangeLeavesCellAlone(t *testing.T) {
	// The cell keeps its original (unsorted, padded) text when nothing is
	// missing: already-synced rows are never rewritten.
	target, lookups := reconcileFixture(t,
		"Cap,Map\nA,\"AC-1\nAC-2\"",
		"Cap,Map\nA,\"AC-2\n AC-1 \"",
	)

	report, err := Reconcile(target, lookups, "Cap", "Map")
	require.NoError(t, err)

	assert.Zero(t, report.RowsUpdated)
	assert.Equal(t, "AC-2\n AC-1 ", target.Cell(1, 1))
}

func TestReconcileFallbackOrdering(t *testing.T) {
	master := tabular.Parse("Cap,Legacy,Map\nNew Name,Old Name,AC-1")
	primary, err := BuildLookup(master, "Cap", "Map")
	require.NoError(t, err)
	fallback, err := BuildLookup(master, "Legacy", "Map")
	require.NoError(t, err)

	// Shadow the fallback entry with a conflicting primary set.
	primary["Old Name"] = ParseMappings("AC-7")
	fallback["Old Name"] = ParseMappings("AC-8")

	target := tabular.Parse("Cap,Map\nOld Name,\nNew Name,")
	report, err := Reconcile(target, []Lookup{primary, fallback}, "Cap", "Map")
	require.NoError(t, err)

	assert.Equal(t, "AC-7", target.Cell(1, 1), "primary set used exclusively")
	assert.Equal(t, "AC-1", target.Cell(2, 1))
	assert.Equal(t, 2, report.RowsUpdated)
}

func TestReconcileNeverRemoves(t *testing.T) {
	target, lookups := reconcileFixture(t,
		"Cap,Map\nA,AC-1",
		"Cap,Map\nA,\"ZZ-99\nCustom Note\"",
	)

	_, err := Reconcile(target, lookups, "Cap", "Map")
	require.NoError(t, err)

	got := ParseMappings(target.Cell(1, 1))
	for _, m := range []string{"ZZ-99", "Custom Note", "AC-1"} {
		assert.True(t, got.Contains(m), "missing %q", m)
	}
}

func TestReconcileOtherCellsUntouched(t *testing.T) {
	target, lookups := reconcileFixture(t,
		"Cap,Map\nA,AC-1",
		"ID,Cap,Map,Notes\n7, A ,,  keep me exactly  ",
	)

	_, err := Reconcile(target, lookups, "Cap", "Map")
	require.NoError(t, err)

	assert.Equal(t, "7", target.Cell(1, 0))
	assert.Equal(t, " A ", target.Cell(1, 1), "capability cell is read, never written")
	assert.Equal(t, "AC-1", target.Cell(1, 2))
	assert.Equal(t, "  keep me exactly  ", target.Cell(1, 3))
}

func TestReconcilePadsRaggedRows(t *testing.T) {
	// Target row ends before the mapping column.
	target, lookups := reconcileFixture(t,
		"Cap,Map\nA,AC-1",
		"Cap,Extra,Map\nA",
	)

	report, err := Reconcile(target, lookups, "Cap", "Map")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "", "AC-1"}, target.Rows[1])
	assert.Equal(t, 1, report.RowsUpdated)
}

func TestReconcileSortedDeduplicatedOutput(t *testing.T) {
	target, lookups := reconcileFixture(t,
		"Cap,Map\nA,\"SC-7\nAC-10\"",
		"Cap,Map\nA,\"AC-2\nAC-2\"",
	)

	_, err := Reconcile(target, lookups, "Cap", "Map")
	require.NoError(t, err)

	lines := strings.Split(target.Cell(1, 1), "\n")
	assert.Equal(t, []string{"AC-10", "AC-2", "SC-7"}, lines)
}

func TestReconcileIdempotent(t *testing.T) {
	target, lookups := reconcileFixture(t,
		"Cap,Map\nA,\"AC-1\nAC-2\"\nB,AU-2",
		"Cap,Map\nA,AC-2\nB,\nC,x",
	)

	first, err := Reconcile(target, lookups, "Cap", "Map")
	require.NoError(t, err)
	require.Equal(t, 2, first.RowsUpdated)

	snapshot := target.Clone()
	second, err := Reconcile(target, lookups, "Cap", "Map")
	require.NoError(t, err)

	assert.Zero(t, second.RowsUpdated)
	assert.Zero(t, second.MappingsAdded)
	assert.Equal(t, snapshot.Rows, target.Rows)
	assert.Equal(t, first.Unresolved, second.Unresolved)
}

func TestReconcileDeterministic(t *testing.T) {
	masterCSV := "Cap,Map\nA,\"AC-2\nAC-1\"\nB,\"SC-7\nAU-2\""
	targetCSV := "Cap,Map\nA,AC-3\nB,\nX,\nA,AC-1"

	run := func() (*tabular.Table, *Report) {
		target, lookups := reconcileFixture(t, masterCSV, targetCSV)
		report, err := Reconcile(target, lookups, "Cap", "Map")
		require.NoError(t, err)
		return target, report
	}

	t1, r1 := run()
	t2, r2 := run()
	assert.Equal(t, t1.Rows, t2.Rows)
	assert.Equal(t, r1, r2)
}

func TestReconcileColumnErrors(t *testing.T) {
	target := tabular.Parse("Wrong,Map\nA,x")

	_, err := Reconcile(target, nil, "Cap", "Map")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrColumnNotFound))

	var colErr *ColumnNotFoundError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, []string{"Wrong", "Map"}, colErr.Headers)
}
