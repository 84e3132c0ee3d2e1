package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ai-interviewer/internal/models"
)

type EvaluationRepository interface {
	Create(eval *models.Evaluation) error
	FindBySessionID(sessionID uuid.UUID) (*models.Evaluation, error)
	FindAll() ([]models.Evaluation, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

// Create implements EvaluationRepository. The unique index on session_id
// enforces at most one evaluation per session.
func (r *evaluationRepository) Create(eval *models.Evaluation) error {
	if err := r.db.Create(eval).Error; err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

// FindBySessionID implements EvaluationRepository.
func (r *evaluationRepository) FindBySessionID(sessionID uuid.UUID) (*models.Evaluation, error) {
	var eval models.Evaluation
	err := r.db.
		Preload("Session").
		Preload("Session.Interview").
		Where("session_id = ?", sessionID).
		First(&eval).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("evaluation not found")
		}
		return nil, fmt.Errorf("failed to find evaluation: %w", err)
	}
	return &eval, nil
}

// FindAll implements EvaluationRepository, newest first.
func (r *evaluationRepository) FindAll() ([]models.Evaluation, error) {
	var evals []models.Evaluation
	err := r.db.
		Preload("Session").
		Preload("Session.Interview").
		Order("created_at DESC").
		Find(&evals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return evals, nil
}
