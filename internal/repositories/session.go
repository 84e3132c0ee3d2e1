package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ai-interviewer/internal/models"
)

// ErrStaleStep marks a progress update that lost a concurrent-submit race:
// the row's current_step no longer matches what the caller read.
var ErrStaleStep = fmt.Errorf("session step changed concurrently")

type SessionRepository interface {
	Create(session *models.InterviewSession) error
	FindByID(id uuid.UUID) (*models.InterviewSession, error)
	FindLatestByInterviewAndEmail(interviewID uuid.UUID, email string) (*models.InterviewSession, error)
	FindByToken(token string) (*models.InterviewSession, error)
	UpdateProgress(id uuid.UUID, expectedStep int, update *SessionProgressUpdate) error
	UpdateStatus(id uuid.UUID, status models.SessionStatus) error
	Delete(id uuid.UUID) error
	CountActive() (int64, error)
	FindExpiredPending(cutoff time.Time, limit int) ([]models.InterviewSession, error)
}

// SessionProgressUpdate is the patch applied after one answer submission.
type SessionProgressUpdate struct {
	CurrentStep int
	Responses   string
	EngineState string
	Status      models.SessionStatus
	CompletedAt *time.Time
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create implements SessionRepository.
func (r *sessionRepository) Create(session *models.InterviewSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID implements SessionRepository.
func (r *sessionRepository) FindByID(id uuid.UUID) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.db.
		Preload("Interview").
		Preload("Evaluation").
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("session not found: %w", err)
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

// FindLatestByInterviewAndEmail implements SessionRepository. Returns
// (nil, nil) when no session exists for the pair.
func (r *sessionRepository) FindLatestByInterviewAndEmail(interviewID uuid.UUID, email string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.db.
		Where("interview_id = ? AND candidate_email = ?", interviewID, email).
		Order("created_at DESC").
		First(&session).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session by candidate: %w", err)
	}
	return &session, nil
}

// FindByToken implements SessionRepository.
func (r *sessionRepository) FindByToken(token string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.db.
		Preload("Interview").
		Where("verification_token = ?", token).
		First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("session not found: %w", err)
		}
		return nil, fmt.Errorf("failed to find session by token: %w", err)
	}
	return &session, nil
}

// UpdateProgress implements SessionRepository. The update is conditional on
// the step the caller read, so two concurrent submits for one session
// cannot both advance it; the loser gets ErrStaleStep.
func (r *sessionRepository) UpdateProgress(id uuid.UUID, expectedStep int, update *SessionProgressUpdate) error {
	updates := map[string]interface{}{
		"current_step": update.CurrentStep,
		"responses":    update.Responses,
		"engine_state": update.EngineState,
		"status":       update.Status,
		"updated_at":   time.Now(),
	}
	if update.CompletedAt != nil {
		updates["completed_at"] = *update.CompletedAt
	}

	result := r.db.Model(&models.InterviewSession{}).
		Where("id = ? AND current_step = ?", id, expectedStep).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update session progress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleStep
	}
	return nil
}

// UpdateStatus implements SessionRepository.
func (r *sessionRepository) UpdateStatus(id uuid.UUID, status models.SessionStatus) error {
	result := r.db.Model(&models.InterviewSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update session status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("session not found")
	}
	return nil
}

// Delete implements SessionRepository. The evaluation goes first so the
// cascade is never partial.
func (r *sessionRepository) Delete(id uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.Evaluation{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.InterviewSession{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})

	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("session not found")
	}
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CountActive implements SessionRepository; it backs the admission cap.
func (r *sessionRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.InterviewSession{}).
		Where("status = ? AND completed_at IS NULL", models.SessionActive).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active sessions: %w", err)
	}
	return count, nil
}

// FindExpiredPending implements SessionRepository; it feeds the reaper.
func (r *sessionRepository) FindExpiredPending(cutoff time.Time, limit int) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	err := r.db.
		Where("status = ? AND token_issued_at IS NOT NULL AND token_issued_at < ?", models.SessionPending, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find expired pending sessions: %w", err)
	}
	return sessions, nil
}
