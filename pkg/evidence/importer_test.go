package evidence

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is an in-memory Client for importer tests.
type fakeClient struct {
	evidence  []Evidence
	listErr   error
	createErr error
	created   int
}

func (f *fakeClient) ListEvidence(ctx context.Context) ([]Evidence, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Evidence(nil), f.evidence...), nil
}

func (f *fakeClient) CreateEvidence(ctx context.Context, e Evidence) (Evidence, error) {
	if f.createErr != nil {
		return Evidence{}, f.createErr
	}
	f.created++
	e.ID = fmt.Sprintf("uuid-%d", f.created)
	f.evidence = append(f.evidence, e)
	return e, nil
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	t.Run("creates skips and fails", func(t *testing.T) {
		client := &fakeClient{evidence: []Evidence{{Name: "Existing", ID: "uuid-0"}}}
		records := []Record{
			{"name": "Existing"},
			{"name": "Fresh"},
			{"description": "nameless"},
		}

		result, err := Import(ctx, client, records, ImportOptions{CheckDuplicates: true})
		require.NoError(t, err)

		assert.Equal(t, 3, result.Total)
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Fresh", result.Items[0].Name)
		assert.NotEmpty(t, result.Items[0].ID)
		assert.Equal(t, "uuid-0", result.Skips[0].ExistingID)
	})

	t.Run("within-batch duplicate created once", func(t *testing.T) {
		client := &fakeClient{}
		records := []Record{{"name": "Same"}, {"name": "same"}}

		result, err := Import(ctx, client, records, ImportOptions{CheckDuplicates: true})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("allow duplicates", func(t *testing.T) {
		client := &fakeClient{evidence: []Evidence{{Name: "Existing"}}}
		records := []Record{{"name": "Existing"}}

		result, err := Import(ctx, client, records, ImportOptions{CheckDuplicates: true, AllowDuplicates: true})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
	})

	t.Run("allow duplicates within a batch", func(t *testing.T) {
		client := &fakeClient{}
		records := []Record{{"name": "Same"}, {"name": "Same"}}

		result, err := Import(ctx, client, records, ImportOptions{CheckDuplicates: true, AllowDuplicates: true})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Created)
		assert.Zero(t, result.Skipped)
		assert.Equal(t, 2, client.created)
	})

	t.Run("no duplicate checking creates everything", func(t *testing.T) {
		client := &fakeClient{evidence: []Evidence{{Name: "Same", ID: "uuid-0"}}}
		records := []Record{{"name": "Same"}, {"name": "Same"}}

		result, err := Import(ctx, client, records, ImportOptions{})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Created)
		assert.Zero(t, result.Skipped)
	})

	t.Run("list failure does not abort the batch", func(t *testing.T) {
		client := &fakeClient{listErr: errors.New("boom")}
		records := []Record{{"name": "A"}}

		result, err := Import(ctx, client, records, ImportOptions{CheckDuplicates: true})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
	})

	t.Run("create failure recorded and later records proceed", func(t *testing.T) {
		client := &fakeClient{createErr: errors.New("server error")}
		records := []Record{{"name": "A"}, {"name": "B"}}

		result, err := Import(ctx, client, records, ImportOptions{})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Failed)
		require.Len(t, result.Fails, 2)
		assert.Contains(t, result.Fails[0].Error, "server error")
	})

	t.Run("progress callbacks", func(t *testing.T) {
		client := &fakeClient{evidence: []Evidence{{Name: "Dup"}}}
		records := []Record{{"name": "Dup"}, {"name": "New"}, {"nope": "x"}}

		var statuses []string
		_, err := Import(ctx, client, records, ImportOptions{
			CheckDuplicates: true,
			OnProgress: func(p Progress) {
				statuses = append(statuses, p.Status)
				assert.Equal(t, 3, p.Total)
			},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{
			StatusProcessing, StatusSkipped,
			StatusProcessing, StatusSuccess,
			StatusProcessing, StatusFailed,
		}, statuses)
	})

	t.Run("cancellation stops the batch", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		client := &fakeClient{}
		result, err := Import(cancelled, client, []Record{{"name": "A"}}, ImportOptions{})
		require.Error(t, err)
		assert.Zero(t, result.Created)
	})
}
