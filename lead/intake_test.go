package lead

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipedesk/models"
)

func newTestIntake(st *fakeStore) *Intake {
	return &Intake{Store: st, IDs: &sequentialIDs{}, Now: fixedClock}
}

func TestCreateLead_RejectsMissingName(t *testing.T) {
	st := &fakeStore{}
	in := newTestIntake(st)

	_, err := in.CreateLead(context.Background(), IntakeInput{Name: "  ", Email: "a@b.com"})
	assert.ErrorIs(t, err, ErrMissingContact)
	assert.Empty(t, st.inserts, "no store write may be issued on validation failure")
}

func TestCreateLead_RejectsMissingEmail(t *testing.T) {
	st := &fakeStore{}
	in := newTestIntake(st)

	_, err := in.CreateLead(context.Background(), IntakeInput{Name: "Ada", Email: ""})
	assert.ErrorIs(t, err, ErrMissingContact)
	assert.Empty(t, st.inserts)
}

func TestCreateLead_DefaultsAndInsert(t *testing.T) {
	st := &fakeStore{}
	in := newTestIntake(st)

	created, err := in.CreateLead(context.Background(), IntakeInput{
		Name:    "Ada Lovelace",
		Email:   "Ada@Example.com",
		Company: "Analytical Engines",
	})
	require.NoError(t, err)

	require.Len(t, st.inserts, 1)
	record := st.inserts[0]
	assert.Equal(t, "id-1", record["id"])
	assert.Equal(t, "ada@example.com", record["email"])
	assert.Equal(t, "new", record["status"])
	assert.Equal(t, "Manual", record["origin"])
	assert.Equal(t, "Manual entry", record["message"])
	assert.Equal(t, "2024-06-01T12:00:00Z", record["createdAt"])
	assert.Equal(t, record["createdAt"], record["lastInteraction"])

	analysis, ok := record["aiAnalysis"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "other", analysis["category"])
	assert.Equal(t, "warm", analysis["temperature"])

	// the returned lead is the canonical form of the inserted record
	assert.Equal(t, models.StatusNew, created.Status)
	assert.Equal(t, "Ada Lovelace", created.Name)
	require.NotNil(t, created.AIAnalysis)
	assert.Equal(t, models.CategoryOther, created.AIAnalysis.Category)
}

func TestCreateLead_KeepsProvidedMessage(t *testing.T) {
	st := &fakeStore{}
	in := newTestIntake(st)

	_, err := in.CreateLead(context.Background(), IntakeInput{
		Name:    "Ada",
		Email:   "a@b.com",
		Message: "Met at the conference",
	})
	require.NoError(t, err)
	assert.Equal(t, "Met at the conference", st.inserts[0]["message"])
}

func TestCreateLead_InsertFailureLeavesNoState(t *testing.T) {
	st := &fakeStore{insertErr: errors.New("store unavailable")}
	in := newTestIntake(st)

	_, err := in.CreateLead(context.Background(), IntakeInput{Name: "Ada", Email: "a@b.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
	assert.Empty(t, st.inserts)
}
