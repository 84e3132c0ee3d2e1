package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ai-interviewer/internal/models"
)

type InterviewRepository interface {
	Create(interview *models.Interview) error
	FindByID(id uuid.UUID) (*models.Interview, error)
	FindAll() ([]models.Interview, error)
	Delete(id uuid.UUID) error
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

// Create implements InterviewRepository.
func (r *interviewRepository) Create(interview *models.Interview) error {
	if err := r.db.Create(interview).Error; err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}

	return nil
}

// FindByID implements InterviewRepository.
func (r *interviewRepository) FindByID(id uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	if err := r.db.Where("id = ?", id).First(&interview).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("interview not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find interview: %w", err)
	}

	return &interview, nil
}

// FindAll implements InterviewRepository. Sessions are preloaded for the
// admin dashboard digests.
func (r *interviewRepository) FindAll() ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.
		Preload("Sessions").
		Order("created_at DESC").
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}

	return interviews, nil
}

// Delete implements InterviewRepository. Evaluations, sessions and the
// interview go in one transaction so a partial cascade never survives.
func (r *interviewRepository) Delete(id uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		sessionIDs := tx.Model(&models.InterviewSession{}).
			Select("id").
			Where("interview_id = ?", id)

		if err := tx.Where("session_id IN (?)", sessionIDs).
			Delete(&models.Evaluation{}).Error; err != nil {
			return err
		}

		if err := tx.Where("interview_id = ?", id).
			Delete(&models.InterviewSession{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Interview{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})

	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("interview not found")
	}
	if err != nil {
		return fmt.Errorf("failed to delete interview: %w", err)
	}

	return nil
}
