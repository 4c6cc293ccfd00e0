package lead

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"pipedesk/models"
)

// ErrConversionInFlight is returned when a conversion is already running for
// the same lead id.
var ErrConversionInFlight = errors.New("conversion already in progress for this lead")

// ConvertOptions controls the conversion side effects.
type ConvertOptions struct {
	// MarkLeadClosed asks the downstream collaborator to also set the lead's
	// status to closed as part of the same logical operation.
	MarkLeadClosed bool
}

// ProjectCreator is the downstream project-creation collaborator. It must be
// internally atomic or idempotent; the orchestrator assumes no partial side
// effects on failure.
type ProjectCreator interface {
	CreateProjectFromLead(ctx context.Context, l models.Lead, opts ConvertOptions) error
}

// Orchestrator drives the lead-to-project conversion workflow with a
// single-flight gate per lead id: at most one conversion may be in flight
// for a given lead at any time.
type Orchestrator struct {
	mu       sync.Mutex
	inflight map[string]struct{}

	Creator ProjectCreator
	Logger  *log.Logger
}

func NewOrchestrator(creator ProjectCreator, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		inflight: map[string]struct{}{},
		Creator:  creator,
		Logger:   logger,
	}
}

// Converting reports whether a conversion is currently in flight for id.
func (o *Orchestrator) Converting(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, busy := o.inflight[id]
	return busy
}

// Convert creates a project from the lead, exactly once per invocation. The
// gate is acquired before the downstream call and released on every exit
// path; on failure the lead is left in its pre-conversion state.
func (o *Orchestrator) Convert(ctx context.Context, l models.Lead, opts ConvertOptions) error {
	if l.ID == "" {
		return errors.New("lead id is required for conversion")
	}

	if !o.acquire(l.ID) {
		return ErrConversionInFlight
	}
	defer o.release(l.ID)

	if err := o.Creator.CreateProjectFromLead(ctx, l, opts); err != nil {
		o.Logger.Printf("conversion failed for lead %s: %v", l.ID, err)
		return fmt.Errorf("failed to convert: %w", err)
	}
	return nil
}

func (o *Orchestrator) acquire(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inflight[id]; busy {
		return false
	}
	o.inflight[id] = struct{}{}
	return true
}

func (o *Orchestrator) release(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inflight, id)
}
