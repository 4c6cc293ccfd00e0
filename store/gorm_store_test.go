package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipedesk/models"
)

func TestMergePatch_OverlaysOnlyPatchKeys(t *testing.T) {
	payload := `{"id":"L1","status":"new","email":"a@b.com"}`

	merged, err := mergePatch(payload, map[string]any{"status": "contacted"})
	require.NoError(t, err)

	record := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(merged), &record))
	assert.Equal(t, "contacted", record["status"])
	assert.Equal(t, "a@b.com", record["email"])
	assert.Equal(t, "L1", record["id"])
}

func TestMergePatch_TypedValuesLandAsPlainJSON(t *testing.T) {
	payload := `{"id":"L1","history":[]}`
	patch := map[string]any{
		"history": []models.HistoryEntry{
			{ID: "h1", Type: models.HistoryStatusChange, Content: "contacted", Date: "2024-06-01T12:00:00Z"},
		},
	}

	merged, err := mergePatch(payload, patch)
	require.NoError(t, err)

	record := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(merged), &record))
	history, ok := record["history"].([]any)
	require.True(t, ok)
	require.Len(t, history, 1)
	entry, ok := history[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "h1", entry["id"])
	assert.Equal(t, "status_change", entry["type"])
}

func TestMergePatch_DoesNotInventKeys(t *testing.T) {
	// a patch without history must never introduce one on a narrow record
	payload := `{"id":"old","status":"new"}`

	merged, err := mergePatch(payload, map[string]any{"status": "closed"})
	require.NoError(t, err)

	record := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(merged), &record))
	assert.NotContains(t, record, "history")
	assert.NotContains(t, record, "lastInteraction")
}

func TestMergePatch_RejectsCorruptPayload(t *testing.T) {
	_, err := mergePatch("{not json", map[string]any{"status": "new"})
	assert.Error(t, err)
}

func TestSelectFields(t *testing.T) {
	record := map[string]any{"id": "L1", "status": "new", "email": "a@b.com"}

	assert.Equal(t, record, selectFields(record, nil))

	narrowed := selectFields(record, []string{"id", "status", "missing"})
	assert.Equal(t, map[string]any{"id": "L1", "status": "new"}, narrowed)
}

func TestChangeChannel(t *testing.T) {
	assert.Equal(t, "store:changed:leads", changeChannel(EntityLeads))
}
