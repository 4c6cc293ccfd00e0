package lead

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipedesk/models"
)

type sequentialIDs struct{ n int }

func (g *sequentialIDs) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestAppendEntry_AppendsWithoutMutatingInput(t *testing.T) {
	lg := &Ledger{IDs: &sequentialIDs{}, Now: fixedClock}

	base := []models.HistoryEntry{{ID: "h0", Type: models.HistoryNote, Content: "first call"}}

	out := lg.AppendEntry(base, models.HistoryStatusChange, "contacted")
	require.Len(t, out, 2)
	assert.Equal(t, "id-1", out[1].ID)
	assert.Equal(t, models.HistoryStatusChange, out[1].Type)
	assert.Equal(t, "contacted", out[1].Content)
	assert.Equal(t, "2024-06-01T12:00:00Z", out[1].Date)

	// input sequence untouched
	require.Len(t, base, 1)
	assert.Equal(t, "h0", base[0].ID)

	// a second append from the same base does not see the first one
	out2 := lg.AppendEntry(base, models.HistoryNote, "left voicemail")
	require.Len(t, out2, 2)
	assert.Equal(t, "left voicemail", out2[1].Content)
}

func TestAppendEntry_IDUniquenessUnderLoad(t *testing.T) {
	lg := NewLedger()

	seen := make(map[string]struct{}, 10000)
	base := []models.HistoryEntry{}
	for i := 0; i < 10000; i++ {
		out := lg.AppendEntry(base, models.HistorySystem, "tick")
		require.Len(t, out, 1)
		id := out[0].ID
		_, dup := seen[id]
		require.False(t, dup, "duplicate history id %q after %d appends", id, i+1)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 10000)
}

func TestUUIDGenerator_ProducesDistinctIDs(t *testing.T) {
	gen := UUIDGenerator{}
	assert.NotEqual(t, gen.NewID(), gen.NewID())
}
