package lead

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pipedesk/models"
	"pipedesk/store"
)

// ErrMissingContact is the intake validation error: both name and email are
// required before anything is written.
var ErrMissingContact = errors.New("name and email are required")

// IntakeInput is a manually entered lead.
type IntakeInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company" validate:"omitempty,max=200"`
	Message string `json:"message" validate:"omitempty,max=2000"`
}

// Intake constructs new manually-entered leads with generated ids and
// default classification, and writes them to the store in a single insert.
type Intake struct {
	Store store.Store
	IDs   IDGenerator
	Now   func() time.Time
}

func NewIntake(st store.Store) *Intake {
	return &Intake{Store: st, IDs: UUIDGenerator{}, Now: time.Now}
}

// CreateLead validates the input, fills defaults and inserts the full
// record. On failure nothing is written; the insert is atomic.
func (in *Intake) CreateLead(ctx context.Context, input IntakeInput) (models.Lead, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" {
		return models.Lead{}, ErrMissingContact
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		message = "Manual entry"
	}

	now := in.Now().UTC().Format(time.RFC3339)
	record := map[string]any{
		"id":              in.IDs.NewID(),
		"name":            name,
		"email":           strings.ToLower(email),
		"company":         strings.TrimSpace(input.Company),
		"message":         message,
		"status":          string(models.StatusNew),
		"origin":          "Manual",
		"createdAt":       now,
		"lastInteraction": now,
		"history":         []any{},
		// No automated classification ran for manual entries.
		"aiAnalysis": map[string]any{
			"category":       string(models.CategoryOther),
			"temperature":    string(models.TemperatureWarm),
			"summary":        "Manually added lead, no automated analysis available.",
			"recommendation": "Review and classify manually.",
		},
	}

	if err := in.Store.Insert(ctx, store.EntityLeads, record); err != nil {
		return models.Lead{}, fmt.Errorf("create lead: %w", err)
	}

	l, _ := Normalize(record)
	return l, nil
}
