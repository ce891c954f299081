package history

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const (
	dbFileName    = "history.db"
	jsonlFileName = "runs.jsonl"
)

// Store keeps run history in a data directory. runs.jsonl is the source
// of truth; the SQLite database is rebuilt from it on Open and used for
// queries only.
type Store struct {
	mu      sync.Mutex
	open    bool
	dataDir string
	db      *sql.DB
	records []json.RawMessage
}

// Open initializes a Store rooted at dataDir, creating the directory and
// an empty runs.jsonl on first use.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	jsonlPath := filepath.Join(dataDir, jsonlFileName)
	if _, err := os.Stat(jsonlPath); os.IsNotExist(err) {
		if err := os.WriteFile(jsonlPath, nil, 0o644); err != nil {
			return nil, fmt.Errorf("init %s: %w", jsonlFileName, err)
		}
	}

	// The database is a rebuildable index; start from a fresh schema.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{dataDir: dataDir, db: db, open: true}
	if err := s.loadJSONL(jsonlPath); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}
	return nil
}

// Record assigns the run an ID and start time if unset, appends it to
// runs.jsonl, and indexes it in SQLite. Returns the run ID.
func (s *Store) Record(run Run) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return "", ErrStoreClosed
	}

	if run.RunID == "" {
		run.RunID = newRunID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	raw, err := json.Marshal(run)
	if err != nil {
		return "", fmt.Errorf("marshal run: %w", err)
	}

	records := append(append([]json.RawMessage(nil), s.records...), json.RawMessage(raw))
	if err := writeJSONL(filepath.Join(s.dataDir, jsonlFileName), records); err != nil {
		return "", fmt.Errorf("persist run: %w", err)
	}
	s.records = records

	if err := s.insertRun(run); err != nil {
		return "", err
	}
	return run.RunID, nil
}

// List returns runs ordered most recent first. A non-positive limit
// returns every run.
func (s *Store) List(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil, ErrStoreClosed
	}

	query := `SELECT run_id, started_at, master_path, target_path, output_path,
		dry_run, rows_updated, mappings_added, changes, unresolved
		FROM runs ORDER BY started_at DESC, run_id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns the run with the given ID, or ErrRunNotFound.
func (s *Store) Get(runID string) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return Run{}, ErrStoreClosed
	}

	row := s.db.QueryRow(`SELECT run_id, started_at, master_path, target_path,
		output_path, dry_run, rows_updated, mappings_added, changes, unresolved
		FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

// loadJSONL loads the durable log into the SQLite index.
func (s *Store) loadJSONL(path string) error {
	records, err := readJSONL(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", jsonlFileName, err)
	}
	s.records = records

	for _, raw := range records {
		var run Run
		if err := json.Unmarshal(raw, &run); err != nil {
			// Parseable JSON that is not a run record; skip it the same
			// way malformed lines are skipped.
			continue
		}
		if run.RunID == "" {
			continue
		}
		if err := s.insertRun(run); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insertRun(run Run) error {
	changes, err := json.Marshal(run.Changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}
	unresolved, err := json.Marshal(run.Unresolved)
	if err != nil {
		return fmt.Errorf("marshal unresolved: %w", err)
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO runs
		(run_id, started_at, master_path, target_path, output_path,
		 dry_run, rows_updated, mappings_added, changes, unresolved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.MasterPath,
		run.TargetPath,
		run.OutputPath,
		boolToInt(run.DryRun),
		run.RowsUpdated,
		run.MappingsAdded,
		string(changes),
		string(unresolved),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}
	return nil
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run                 Run
		startedAt           string
		outputPath          sql.NullString
		dryRun              int
		changes, unresolved string
	)
	err := sc.Scan(&run.RunID, &startedAt, &run.MasterPath, &run.TargetPath,
		&outputPath, &dryRun, &run.RowsUpdated, &run.MappingsAdded,
		&changes, &unresolved)
	if err != nil {
		return Run{}, err
	}

	if t, perr := time.Parse(time.RFC3339Nano, startedAt); perr == nil {
		run.StartedAt = t
	}
	run.OutputPath = outputPath.String
	run.DryRun = dryRun != 0
	if err := json.Unmarshal([]byte(changes), &run.Changes); err != nil {
		return Run{}, fmt.Errorf("unmarshal changes for %s: %w", run.RunID, err)
	}
	if err := json.Unmarshal([]byte(unresolved), &run.Unresolved); err != nil {
		return Run{}, fmt.Errorf("unmarshal unresolved for %s: %w", run.RunID, err)
	}
	return run, nil
}

// newRunID generates a UUID v7 run ID, falling back to v4 if v7
// generation fails.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
