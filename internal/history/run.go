// Package history persists sync run reports locally so past
// reconciliations can be reviewed. SQLite is the query engine; an
// append-only runs.jsonl file is the durable log, reloaded on every Open.
package history

import (
	"errors"
	"time"

	"github.com/paramify/client-success/pkg/mapping"
)

// Run is one recorded reconciliation pass.
type Run struct {
	RunID         string                 `json:"run_id"`
	StartedAt     time.Time              `json:"started_at"`
	MasterPath    string                 `json:"master_path"`
	TargetPath    string                 `json:"target_path"`
	OutputPath    string                 `json:"output_path,omitempty"`
	DryRun        bool                   `json:"dry_run"`
	RowsUpdated   int                    `json:"rows_updated"`
	MappingsAdded int                    `json:"mappings_added"`
	Changes       []mapping.ChangeRecord `json:"changes,omitempty"`
	Unresolved    []string               `json:"unresolved,omitempty"`
}

// Store operation errors.
var (
	ErrRunNotFound = errors.New("run not found")
	ErrStoreClosed = errors.New("history store is closed")
)
