package models

import "time"

type CreateInterviewRequest struct {
	Role       string         `json:"role" validate:"required"`
	Skills     []string       `json:"skills" validate:"required,min=1"`
	Difficulty string         `json:"difficulty" validate:"required"`
	Rubric     map[string]int `json:"rubric"`
	RedFlags   []string       `json:"red_flags"`
	Tone       string         `json:"tone"`
}

type CreateInterviewResponse struct {
	InterviewID string `json:"interview_id"`
}

type InterviewSummary struct {
	ID         string          `json:"id"`
	Role       string          `json:"role"`
	Skills     []string        `json:"skills"`
	Difficulty string          `json:"difficulty"`
	Tone       string          `json:"tone"`
	CreatedAt  time.Time       `json:"created_at"`
	Sessions   []SessionDigest `json:"sessions"`
}

type SessionDigest struct {
	ID            string    `json:"id"`
	CandidateName string    `json:"candidate_name"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type RequestSessionRequest struct {
	InterviewID    string `json:"interview_id" validate:"required,uuid"`
	CandidateName  string `json:"candidate_name" validate:"required"`
	CandidateEmail string `json:"candidate_email" validate:"required,email"`
}

type RequestSessionResponse struct {
	Message              string `json:"message"`
	RequiresVerification bool   `json:"requires_verification"`
}

type StartSessionRequest struct {
	InterviewID    string `json:"interview_id"`
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email"`
	// Token redeems a pending session when the verification flow is on.
	Token string `json:"token,omitempty"`
}

type StartSessionResponse struct {
	SessionID      string    `json:"session_id"`
	Question       *Question `json:"question"`
	QuestionIndex  int       `json:"question_index"`
	TotalQuestions int       `json:"total_questions"`
	Progress       float64   `json:"progress"`
}

type SubmitAnswerRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	Answer    string `json:"answer" validate:"required"`
}

type SubmitAnswerResponse struct {
	IsComplete   bool             `json:"is_complete"`
	NextQuestion *Question        `json:"next_question,omitempty"`
	Progress     float64          `json:"progress"`
	Evaluation   *FinalEvaluation `json:"evaluation,omitempty"`
}

type SessionView struct {
	ID              string           `json:"id"`
	CandidateName   string           `json:"candidate_name"`
	CandidateEmail  string           `json:"candidate_email"`
	Status          string           `json:"status"`
	CurrentStep     int              `json:"current_step"`
	CurrentQuestion *Question        `json:"current_question,omitempty"`
	Progress        float64          `json:"progress"`
	Evaluation      *FinalEvaluation `json:"evaluation,omitempty"`
}

type EvaluationView struct {
	ID             string                `json:"id"`
	SessionID      string                `json:"session_id"`
	CandidateName  string                `json:"candidate_name"`
	CandidateEmail string                `json:"candidate_email"`
	Role           string                `json:"role"`
	OverallScore   int                   `json:"overall_score"`
	Recommendation string                `json:"recommendation"`
	Confidence     float64               `json:"confidence"`
	Degraded       bool                  `json:"degraded"`
	Summary        string                `json:"summary"`
	Scores         map[string]SkillScore `json:"scores"`
	RedFlags       []string              `json:"red_flags"`
	Responses      []Response            `json:"responses,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}
