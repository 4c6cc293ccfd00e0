package lead

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pipedesk/models"
	"pipedesk/store"
)

var (
	// ErrLeadNotFound means the lead id is not present in the current snapshot.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrHistoryUnsupported means the record predates the history field, so
	// there is nowhere to attach a note.
	ErrHistoryUnsupported = errors.New("lead record does not support history")
)

// Manager validates and applies lead status changes and note appends,
// producing the combined partial update sent to the store.
type Manager struct {
	Store  store.Store
	Cache  *Cache
	Ledger *Ledger
	Now    func() time.Time
	Logger *log.Logger
}

func NewManager(st store.Store, cache *Cache, logger *log.Logger) *Manager {
	return &Manager{
		Store:  st,
		Cache:  cache,
		Ledger: NewLedger(),
		Now:    time.Now,
		Logger: logger,
	}
}

// ChangeStatus moves a lead to newStatus. When the lead is in the cache the
// update also carries the appended status_change history entry and a fresh
// lastInteraction timestamp, each only if the underlying record supports the
// field; a lead missing from the cache gets a degraded status-only update.
// A failed write forces a refresh so the local view never drifts from the
// store's authoritative state.
func (m *Manager) ChangeStatus(ctx context.Context, id string, newStatus models.LeadStatus) error {
	if !newStatus.Valid() {
		return fmt.Errorf("unknown lead status %q", newStatus)
	}

	patch := map[string]any{"status": string(newStatus)}
	if entry, ok := m.Cache.Get(id); ok {
		m.augment(patch, entry, models.HistoryStatusChange, string(newStatus))
	} else {
		m.Logger.Printf("lead %s not cached, issuing degraded status update", id)
	}

	if err := m.Store.Update(ctx, store.EntityLeads, id, patch); err != nil {
		m.resync(ctx)
		return fmt.Errorf("update lead status: %w", err)
	}
	return nil
}

// AddNote appends a free-form note to a lead's history. Unlike status
// changes, a note has no degraded form: it needs the record in the snapshot
// and a history field to land in.
func (m *Manager) AddNote(ctx context.Context, id, content string) error {
	entry, ok := m.Cache.Get(id)
	if !ok {
		return ErrLeadNotFound
	}
	if !entry.Caps.SupportsHistory {
		return ErrHistoryUnsupported
	}

	patch := map[string]any{}
	m.augment(patch, entry, models.HistoryNote, content)

	if err := m.Store.Update(ctx, store.EntityLeads, id, patch); err != nil {
		m.resync(ctx)
		return fmt.Errorf("add lead note: %w", err)
	}
	return nil
}

// augment attaches the appended history and interaction timestamp to patch,
// gated on the record's capabilities.
func (m *Manager) augment(patch map[string]any, entry Entry, entryType, content string) {
	if entry.Caps.SupportsHistory {
		patch["history"] = m.Ledger.AppendEntry(entry.Lead.History, entryType, content)
	}
	if entry.Caps.SupportsLastInteraction {
		patch["lastInteraction"] = m.Now().UTC().Format(time.RFC3339)
	}
}

// Refresh discards local state and reloads the snapshot from the store.
func (m *Manager) Refresh(ctx context.Context) error {
	records, err := m.Store.List(ctx, store.EntityLeads)
	if err != nil {
		return fmt.Errorf("refresh leads: %w", err)
	}
	m.Cache.Replace(records)
	return nil
}

// resync is the failure-path refresh: best effort, the original write error
// is the one surfaced to the operator.
func (m *Manager) resync(ctx context.Context) {
	if err := m.Refresh(ctx); err != nil {
		m.Logger.Printf("resync after failed write: %v", err)
	}
}
