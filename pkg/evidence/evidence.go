// Package evidence holds the evidence-record logic shared by the Paramify
// client-success tooling: reading evidence requests from CSV or JSON
// files, normalizing loosely-keyed records into API payloads, duplicate
// detection, bulk-import planning, and export. Talking to the Paramify
// API itself is left to a Client implementation supplied by the caller.
package evidence

import (
	"errors"
	"fmt"
	"strings"
)

// Evidence is one evidence record in its API shape. ID and unset optional
// fields are omitted from payloads.
type Evidence struct {
	Name         string `json:"name"`
	ReferenceID  string `json:"referenceId,omitempty"`
	Description  string `json:"description,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Remarks      string `json:"remarks,omitempty"`
	Automated    *bool  `json:"automated,omitempty"`
	ID           string `json:"id,omitempty"`
}

// ErrMissingName means a record has no usable name field; every evidence
// record must have one.
var ErrMissingName = errors.New("evidence record must have a name")

// Record is a loosely-keyed evidence record as read from a file. Keys are
// normalized to lowercase trimmed form by NormalizeKeys.
type Record map[string]any

// NormalizeKeys lowercases and trims every key so field lookup is
// case-insensitive regardless of how the source file spelled its headers.
func NormalizeKeys(in map[string]any) Record {
	out := make(Record, len(in))
	for k, v := range in {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

// Field returns the first non-empty value among the given keys, rendered
// as a string.
func (r Record) Field(keys ...string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		s := fmt.Sprintf("%v", v)
		if s != "" {
			return s
		}
	}
	return ""
}

// ReferenceID extracts the reference ID, checking the field spellings seen
// in real input files.
func (r Record) ReferenceID() string {
	for _, k := range []string{"referenceid", "reference_id", "id"} {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		s := strings.TrimSpace(fmt.Sprintf("%v", v))
		if s != "" {
			return s
		}
	}
	return ""
}

// Build assembles the API payload for a record. Only present fields are
// set; remarks falls back to a "notes" column; automated is coerced from
// boolean or true/yes/1-style string values and left unset otherwise.
// Returns ErrMissingName when the record has no name.
func (r Record) Build() (Evidence, error) {
	e := Evidence{
		Name:         r.Field("name"),
		ReferenceID:  r.ReferenceID(),
		Description:  r.Field("description"),
		Instructions: r.Field("instructions"),
		Remarks:      r.Field("remarks", "notes"),
	}
	if e.Name == "" {
		return Evidence{}, ErrMissingName
	}

	if v, ok := r["automated"]; ok && v != nil {
		if b, ok := v.(bool); ok {
			e.Automated = &b
		} else {
			switch strings.ToLower(fmt.Sprintf("%v", v)) {
			case "true", "yes", "1":
				t := true
				e.Automated = &t
			case "false", "no", "0":
				f := false
				e.Automated = &f
			}
		}
	}

	return e, nil
}
