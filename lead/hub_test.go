package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipedesk/models"
)

func TestHub_DeliversSnapshotsToSubscribers(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.Publish([]models.Lead{{ID: "a"}})

	snapshot := <-ch
	require.Len(t, snapshot, 1)
	assert.Equal(t, "a", snapshot[0].ID)
}

func TestHub_SlowSubscriberGetsLatestSnapshot(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	// two publishes without a read in between: the stale snapshot is
	// superseded, not queued
	h.Publish([]models.Lead{{ID: "old"}})
	h.Publish([]models.Lead{{ID: "new"}})

	snapshot := <-ch
	require.Len(t, snapshot, 1)
	assert.Equal(t, "new", snapshot[0].ID)
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	h.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)

	// publishing after unsubscribe must not panic
	h.Publish([]models.Lead{{ID: "a"}})

	// double unsubscribe is a no-op
	h.Unsubscribe(ch)
}

func TestHub_IndependentSubscribers(t *testing.T) {
	h := NewHub()
	first := h.Subscribe()
	second := h.Subscribe()
	defer h.Unsubscribe(second)

	h.Unsubscribe(first)
	h.Publish([]models.Lead{{ID: "a"}})

	snapshot := <-second
	require.Len(t, snapshot, 1)
}
