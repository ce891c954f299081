package evidence

import "context"

// Client is the Paramify evidence API surface the importer needs. The HTTP
// implementation, including its timeout and retry policy, lives outside
// this package; tests use an in-memory fake.
type Client interface {
	// ListEvidence returns every existing evidence record.
	ListEvidence(ctx context.Context) ([]Evidence, error)

	// CreateEvidence creates one record and returns it with its assigned ID.
	CreateEvidence(ctx context.Context, e Evidence) (Evidence, error)
}

// Progress statuses reported during a bulk import.
const (
	StatusProcessing = "processing"
	StatusSuccess    = "success"
	StatusSkipped    = "skipped"
	StatusFailed     = "failed"
)

// Progress describes the state of one record during a bulk import.
type Progress struct {
	Current int
	Total   int
	Name    string
	Status  string
}

// ImportOptions control a bulk import run.
type ImportOptions struct {
	// CheckDuplicates fetches existing evidence up front and skips
	// records that duplicate it, unless AllowDuplicates is set.
	CheckDuplicates bool
	AllowDuplicates bool
	// OnProgress, when non-nil, is called for every record transition.
	OnProgress func(Progress)
}

// ImportResult tallies a bulk import.
type ImportResult struct {
	Total   int           `json:"total"`
	Created int           `json:"created"`
	Skipped int           `json:"skipped"`
	Failed  int           `json:"failed"`
	Items   []Evidence    `json:"created_items,omitempty"`
	Skips   []SkippedItem `json:"skipped_items,omitempty"`
	Fails   []FailedItem  `json:"failed_items,omitempty"`
}

// Import creates the given records through the client, one at a time, in
// input order. When duplicate checking is on and the up-front fetch fails,
// the import proceeds without it rather than aborting the batch. A failed
// record does not stop later ones; cancellation of ctx does, once the
// in-flight record finishes.
func Import(ctx context.Context, client Client, records []Record, opts ImportOptions) (ImportResult, error) {
	result := ImportResult{Total: len(records)}

	checkDupes := opts.CheckDuplicates && !opts.AllowDuplicates

	var existing []Evidence
	if checkDupes {
		if fetched, err := client.ListEvidence(ctx); err == nil {
			existing = fetched
		}
	}

	notify := func(i int, name, status string) {
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{Current: i, Total: len(records), Name: name, Status: status})
		}
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		name := rec.Field("name")
		notify(i+1, name, StatusProcessing)

		ev, err := rec.Build()
		if err != nil {
			result.Failed++
			result.Fails = append(result.Fails, FailedItem{Name: name, Error: err.Error()})
			notify(i+1, name, StatusFailed)
			continue
		}

		if checkDupes {
			if dup := FindDuplicate(ev, existing); dup != nil {
				result.Skipped++
				result.Skips = append(result.Skips, SkippedItem{
					Name:       ev.Name,
					Reason:     "duplicate",
					ExistingID: dup.ID,
				})
				notify(i+1, name, StatusSkipped)
				continue
			}
		}

		created, err := client.CreateEvidence(ctx, ev)
		if err != nil {
			result.Failed++
			result.Fails = append(result.Fails, FailedItem{Name: name, Error: err.Error()})
			notify(i+1, name, StatusFailed)
			continue
		}

		result.Created++
		result.Items = append(result.Items, created)
		if checkDupes {
			// Newly created records join the duplicate pool so a batch
			// containing the same name twice only creates it once.
			existing = append(existing, created)
		}
		notify(i+1, name, StatusSuccess)
	}

	return result, nil
}
