package evidence

import "strings"

// FindDuplicate returns the existing record the candidate duplicates, or
// nil. Reference IDs are compared first when both sides have one; names
// are compared case-insensitively after trimming.
func FindDuplicate(candidate Evidence, existing []Evidence) *Evidence {
	refID := strings.TrimSpace(candidate.ReferenceID)
	name := strings.ToLower(strings.TrimSpace(candidate.Name))

	for i := range existing {
		if refID != "" && existing[i].ReferenceID != "" {
			if strings.TrimSpace(existing[i].ReferenceID) == refID {
				return &existing[i]
			}
		}
		if strings.ToLower(strings.TrimSpace(existing[i].Name)) == name {
			return &existing[i]
		}
	}
	return nil
}

// SkippedItem explains why a record was not created.
type SkippedItem struct {
	Name       string `json:"name"`
	Reason     string `json:"reason"`
	ExistingID string `json:"existing_id,omitempty"`
}

// FailedItem records a record that could not be built or created.
type FailedItem struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// PlanResult partitions an input batch into records that would be created
// and records that would be skipped as duplicates or failures.
type PlanResult struct {
	Total   int           `json:"total"`
	Create  []Evidence    `json:"create"`
	Skipped []SkippedItem `json:"skipped"`
	Failed  []FailedItem  `json:"failed"`
}

// Plan computes a bulk-import plan offline: each record is built into its
// payload and checked against the existing snapshot. No client calls are
// made, so the plan is exactly what Importer.Run would attempt.
func Plan(records []Record, existing []Evidence) PlanResult {
	result := PlanResult{Total: len(records)}

	for _, rec := range records {
		ev, err := rec.Build()
		if err != nil {
			result.Failed = append(result.Failed, FailedItem{
				Name:  rec.Field("name"),
				Error: err.Error(),
			})
			continue
		}
		if dup := FindDuplicate(ev, existing); dup != nil {
			result.Skipped = append(result.Skipped, SkippedItem{
				Name:       ev.Name,
				Reason:     "duplicate",
				ExistingID: dup.ID,
			})
			continue
		}
		result.Create = append(result.Create, ev)
	}
	return result
}
