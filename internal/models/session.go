package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionLocked    SessionStatus = "locked"
)

// InterviewSession is one candidate's run through an Interview. Responses
// and the engine snapshot are JSON text columns; the snapshot is the only
// thing that keeps engine state alive between independent requests.
type InterviewSession struct {
	ID             uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	InterviewID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"interview_id"`
	CandidateName  string        `gorm:"type:text;not null" json:"candidate_name"`
	CandidateEmail string        `gorm:"type:text;not null;index" json:"candidate_email"`
	Status         SessionStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	CurrentStep    int           `gorm:"not null;default:0" json:"current_step"`
	Responses      string        `gorm:"type:text" json:"-"`
	EngineState    string        `gorm:"type:text" json:"-"`

	// Verification flow only; empty when sessions start directly active.
	VerificationToken string     `gorm:"type:text;index" json:"-"`
	TokenIssuedAt     *time.Time `gorm:"type:timestamp" json:"-"`

	CreatedAt   time.Time  `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"type:timestamp;default:now()" json:"updated_at"`
	CompletedAt *time.Time `gorm:"type:timestamp" json:"completed_at,omitempty"`

	// Relations
	Interview  Interview   `gorm:"foreignKey:InterviewID" json:"-"`
	Evaluation *Evaluation `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *InterviewSession) TableName() string {
	return "interview_sessions"
}

// ParsedResponses decodes the responses column, falling back to an empty
// list when the column is missing or corrupt.
func (s *InterviewSession) ParsedResponses() []Response {
	responses := []Response{}
	SafeParseJSON(s.Responses, &responses)
	return responses
}

// Response is a single recorded answer, bound to the question that was
// active when it was submitted.
type Response struct {
	QuestionID string    `json:"question_id"`
	Answer     string    `json:"answer"`
	Timestamp  time.Time `json:"timestamp"`
}

// Question is one issued interview question. The id is unique per issuance
// and embeds the step index so response-to-question lookups stay
// unambiguous even when question text repeats.
type Question struct {
	ID             string   `json:"id"`
	Text           string   `json:"text"`
	Skill          string   `json:"skill"`
	ExpectedPoints []string `json:"expected_points"`
	FollowUps      []string `json:"follow_ups"`
}
