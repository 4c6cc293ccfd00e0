package lead

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"pipedesk/models"
)

// IDGenerator produces unique identifiers for leads and history entries.
// It is injectable so tests can supply deterministic ids.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator is the production generator for lead ids.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// CompositeGenerator derives ids from the current time plus random bits.
// Uniqueness is best effort, not collision-free, which is acceptable for
// history entries scoped to a single lead.
type CompositeGenerator struct{}

func (CompositeGenerator) NewID() string {
	return fmt.Sprintf("%d-%06d", time.Now().UnixNano(), rand.Intn(1000000))
}

// Ledger appends immutable audit entries to a lead's history sequence.
type Ledger struct {
	IDs IDGenerator
	Now func() time.Time
}

// NewLedger returns a ledger with production wiring.
func NewLedger() *Ledger {
	return &Ledger{IDs: CompositeGenerator{}, Now: time.Now}
}

// AppendEntry returns a new sequence equal to history plus one entry of the
// given type and content, stamped with a fresh id and the current time. The
// input sequence is never mutated; callers keep their slice intact even if
// the returned one is later modified.
func (lg *Ledger) AppendEntry(history []models.HistoryEntry, entryType, content string) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, models.HistoryEntry{
		ID:      lg.IDs.NewID(),
		Type:    entryType,
		Content: content,
		Date:    lg.Now().UTC().Format(time.RFC3339),
	})
	return out
}
