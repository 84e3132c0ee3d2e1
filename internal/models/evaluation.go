package models

import (
	"time"

	"github.com/google/uuid"
)

type Recommendation string

const (
	RecommendProceed    Recommendation = "proceed"
	RecommendBorderline Recommendation = "borderline"
	RecommendReview     Recommendation = "review"
)

// Evaluation is the persisted final evaluation of a completed session.
// A session has at most one, created exactly once when it completes.
type Evaluation struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	OverallScore   int       `gorm:"not null" json:"overall_score"`
	Recommendation string    `gorm:"type:text;not null" json:"recommendation"`
	Scores         string    `gorm:"type:text" json:"-"`
	RedFlags       string    `gorm:"type:text" json:"-"`
	Summary        string    `gorm:"type:text" json:"summary"`
	Confidence     float64   `gorm:"not null" json:"confidence"`
	Degraded       bool      `gorm:"not null;default:false" json:"degraded"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relations
	Session InterviewSession `gorm:"foreignKey:SessionID" json:"-"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

// AnswerScore is the shape every scorer implementation must produce for a
// single answer. The aggregation layer depends only on this shape and its
// ranges, never on how the score was computed.
type AnswerScore struct {
	QuestionID string   `json:"question_id"`
	Skill      string   `json:"skill"`
	Score      int      `json:"score"`
	Evidence   []string `json:"evidence"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Confidence float64  `json:"confidence"`
	RedFlags   []string `json:"red_flags"`
}

// SkillScore is the per-skill aggregate inside a final evaluation.
type SkillScore struct {
	Skill      string   `json:"skill"`
	Score      int      `json:"score"`
	Evidence   []string `json:"evidence"`
	Confidence float64  `json:"confidence"`
}

// FinalEvaluation is the in-memory result of aggregating a full session.
type FinalEvaluation struct {
	OverallScore   int                   `json:"overall_score"`
	Recommendation Recommendation        `json:"recommendation"`
	SkillBreakdown map[string]SkillScore `json:"skill_breakdown"`
	RedFlags       []string              `json:"red_flags"`
	Summary        string                `json:"summary"`
	Confidence     float64               `json:"confidence"`
	Degraded       bool                  `json:"degraded"`
}
