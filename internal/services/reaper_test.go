package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-interviewer/internal/models"
)

func pendingSession(issuedAt time.Time) *models.InterviewSession {
	return &models.InterviewSession{
		ID:                uuid.New(),
		InterviewID:       uuid.New(),
		CandidateName:     "Jordan Smith",
		CandidateEmail:    "jordan@example.com",
		Status:            models.SessionPending,
		Responses:         "[]",
		VerificationToken: "token-" + uuid.New().String(),
		TokenIssuedAt:     &issuedAt,
		CreatedAt:         issuedAt,
	}
}

func TestSessionReaper_SweepLocksExpiredPending(t *testing.T) {
	repo := newFakeSessionRepo(newFakeInterviewRepo())

	stale := pendingSession(time.Now().UTC().Add(-48 * time.Hour))
	fresh := pendingSession(time.Now().UTC().Add(-time.Minute))
	require.NoError(t, repo.Create(stale))
	require.NoError(t, repo.Create(fresh))

	reaper := NewSessionReaper(repo, time.Minute, 24*time.Hour).(*sessionReaper)
	reaper.sweep()

	staleStored, err := repo.FindByID(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionLocked, staleStored.Status)

	freshStored, err := repo.FindByID(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionPending, freshStored.Status)
}

func TestSessionReaper_SweepIgnoresNonPending(t *testing.T) {
	repo := newFakeSessionRepo(newFakeInterviewRepo())

	session := pendingSession(time.Now().UTC().Add(-48 * time.Hour))
	session.Status = models.SessionActive
	require.NoError(t, repo.Create(session))

	reaper := NewSessionReaper(repo, time.Minute, 24*time.Hour).(*sessionReaper)
	reaper.sweep()

	stored, err := repo.FindByID(session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionActive, stored.Status)
}

func TestSessionReaper_StartStop(t *testing.T) {
	repo := newFakeSessionRepo(newFakeInterviewRepo())
	reaper := NewSessionReaper(repo, 10*time.Millisecond, time.Hour)

	reaper.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	reaper.Stop()
}
