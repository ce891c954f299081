package evidence

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	auto := true
	list := []Evidence{
		{Name: "A, with comma", ReferenceID: "EV-1", Description: "line1\nline2", Automated: &auto, ID: "uuid-1"},
		{Name: "B"},
	}

	out := ExportCSV(list)
	lines := strings.SplitN(out, "\n", 2)
	assert.Equal(t, "name,referenceId,description,instructions,remarks,automated,id", lines[0])
	assert.Contains(t, out, `"A, with comma"`)
	assert.Contains(t, out, "true")

	// The export must round-trip back through the snapshot reader.
	records := ParseCSV(out)
	require.Len(t, records, 2)
	assert.Equal(t, "line1\nline2", records[0]["description"])
	assert.Equal(t, "", records[1]["automated"], "unset automated exports empty")
}

func TestExportCSVEmpty(t *testing.T) {
	out := ExportCSV(nil)
	assert.Equal(t, "name,referenceId,description,instructions,remarks,automated,id", out)
}

func TestExportJSON(t *testing.T) {
	data, err := ExportJSON([]Evidence{{Name: "A", ReferenceID: "EV-1"}})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "A", decoded[0]["name"])
	assert.Equal(t, "EV-1", decoded[0]["referenceId"])
	_, hasAutomated := decoded[0]["automated"]
	assert.False(t, hasAutomated, "unset optional fields are omitted")
}

func TestExportJSONNil(t *testing.T) {
	data, err := ExportJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
