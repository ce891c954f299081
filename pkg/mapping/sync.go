package mapping

import "github.com/paramify/client-success/pkg/tabular"

// Default column names for Paramify solution capability exports.
const (
	DefaultPrimaryKeyColumn  = "Solution Capability"
	DefaultFallbackKeyColumn = "Legacy Title"
	DefaultMappingColumn     = "Suggested Mappings"
)

// Config selects the columns a sync reads and writes. Zero-value fields
// fall back to the defaults above.
type Config struct {
	// PrimaryKeyColumn is the master and target capability column.
	PrimaryKeyColumn string
	// FallbackKeyColumn names a secondary master key column probed when
	// the primary lookup misses. Set it to "-" to disable the fallback.
	FallbackKeyColumn string
	// MappingColumn holds the newline-separated mapping lists.
	MappingColumn string
}

func (c Config) withDefaults() Config {
	if c.PrimaryKeyColumn == "" {
		c.PrimaryKeyColumn = DefaultPrimaryKeyColumn
	}
	if c.FallbackKeyColumn == "" {
		c.FallbackKeyColumn = DefaultFallbackKeyColumn
	}
	if c.MappingColumn == "" {
		c.MappingColumn = DefaultMappingColumn
	}
	return c
}

// Sync parses master and target CSV text, reconciles the target against
// the master, and returns the updated target CSV together with the change
// report. The returned CSV equals a straight re-serialization of the
// input when nothing changed; callers deciding between dry-run and apply
// should branch on Report.RowsUpdated.
//
// The primary lookup keys the master by PrimaryKeyColumn. A fallback
// lookup keyed by FallbackKeyColumn is added when that column exists in
// the master; a master without the legacy column simply has no fallback.
func Sync(masterCSV, targetCSV string, cfg Config) (string, *Report, error) {
	cfg = cfg.withDefaults()

	master := tabular.Parse(masterCSV)
	target := tabular.Parse(targetCSV)

	primary, err := BuildLookup(master, cfg.PrimaryKeyColumn, cfg.MappingColumn)
	if err != nil {
		return "", nil, err
	}

	lookups := []Lookup{primary}
	if cfg.FallbackKeyColumn != "-" {
		if _, ok := master.ColumnIndex(cfg.FallbackKeyColumn); ok {
			fallback, err := BuildLookup(master, cfg.FallbackKeyColumn, cfg.MappingColumn)
			if err != nil {
				return "", nil, err
			}
			lookups = append(lookups, fallback)
		}
	}

	report, err := Reconcile(target, lookups, cfg.PrimaryKeyColumn, cfg.MappingColumn)
	if err != nil {
		return "", nil, err
	}

	return tabular.Serialize(target), report, nil
}
