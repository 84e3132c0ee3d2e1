package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-interviewer/internal/models"
)

// MaxQuestions is the fixed length of every interview.
const MaxQuestions = 5

// InterviewEngine drives one session's question loop. It is rebuilt from
// its snapshot on every request; Snapshot/RestoreEngine must round-trip
// every piece of state a later operation depends on, including the full
// question history, or answer-to-question scoring breaks after a restart.
type InterviewEngine struct {
	config    models.InterviewConfig
	bank      QuestionBank
	scorer    AnswerScorer
	evaluator Evaluator
	state     engineState
}

type engineState struct {
	CurrentStep     int               `json:"current_step"`
	Responses       []models.Response `json:"responses"`
	ActiveQuestion  *models.Question  `json:"active_question,omitempty"`
	QuestionHistory []models.Question `json:"question_history"`
	IsComplete      bool              `json:"is_complete"`
	MaxQuestions    int               `json:"max_questions"`
}

// engineSnapshot is the persisted wire form of an engine.
type engineSnapshot struct {
	Config models.InterviewConfig `json:"config"`
	State  engineState            `json:"state"`
}

// SubmitResult is what one answer submission produces.
type SubmitResult struct {
	NextQuestion  *models.Question
	IsComplete    bool
	NeedsFollowUp bool
}

func NewInterviewEngine(config models.InterviewConfig, bank QuestionBank, scorer AnswerScorer, evaluator Evaluator) *InterviewEngine {
	return &InterviewEngine{
		config:    config,
		bank:      bank,
		scorer:    scorer,
		evaluator: evaluator,
		state: engineState{
			Responses:       []models.Response{},
			QuestionHistory: []models.Question{},
			MaxQuestions:    MaxQuestions,
		},
	}
}

// Start resets the engine to step 0 and issues the first question. A bank
// that cannot produce a usable question is fatal to the operation.
func (e *InterviewEngine) Start(ctx context.Context) (*models.Question, error) {
	e.state = engineState{
		Responses:       []models.Response{},
		QuestionHistory: []models.Question{},
		MaxQuestions:    MaxQuestions,
	}

	question, err := e.nextQuestion(ctx)
	if err != nil {
		return nil, err
	}

	e.state.ActiveQuestion = question
	return question, nil
}

// SubmitAnswer records the answer against the active question and advances
// the loop. The HTTP boundary rejects empty answers before they get here;
// the engine records whatever it is given so restored historical state
// still evaluates. Completion clears the active question; the caller is
// responsible for invoking GenerateEvaluation.
func (e *InterviewEngine) SubmitAnswer(ctx context.Context, rawAnswer string) (*SubmitResult, error) {
	if e.state.ActiveQuestion == nil {
		return nil, ErrNoActiveQuestion
	}
	if e.state.IsComplete {
		return nil, &IllegalTransitionError{From: models.SessionCompleted, To: models.SessionActive}
	}

	e.state.Responses = append(e.state.Responses, models.Response{
		QuestionID: e.state.ActiveQuestion.ID,
		Answer:     strings.TrimSpace(rawAnswer),
		Timestamp:  time.Now().UTC(),
	})
	e.state.CurrentStep++

	if e.state.CurrentStep >= e.state.MaxQuestions {
		e.state.IsComplete = true
		e.state.ActiveQuestion = nil
		return &SubmitResult{IsComplete: true}, nil
	}

	question, err := e.nextQuestion(ctx)
	if err != nil {
		// Roll back the recorded response so a transient generation
		// failure leaves the session resumable.
		e.state.Responses = e.state.Responses[:len(e.state.Responses)-1]
		e.state.CurrentStep--
		return nil, err
	}

	e.state.ActiveQuestion = question
	return &SubmitResult{NextQuestion: question}, nil
}

func (e *InterviewEngine) nextQuestion(ctx context.Context) (*models.Question, error) {
	question, err := e.bank.NextQuestion(ctx, e.config, e.state.CurrentStep, e.state.Responses)
	if err != nil {
		return nil, fmt.Errorf("failed to generate question for step %d: %w", e.state.CurrentStep, err)
	}
	if question == nil || question.ID == "" || question.Text == "" {
		return nil, fmt.Errorf("question bank returned unusable question for step %d", e.state.CurrentStep)
	}

	e.state.QuestionHistory = append(e.state.QuestionHistory, *question)
	return question, nil
}

// GenerateEvaluation scores every recorded response against its
// originating question and aggregates. Empty answers score an automatic 0
// without touching the scorer; a scorer failure degrades the evaluation
// instead of failing the request. Completion always yields an evaluation.
func (e *InterviewEngine) GenerateEvaluation(ctx context.Context) (*models.FinalEvaluation, error) {
	if !e.state.IsComplete {
		return nil, ErrNotComplete
	}

	degraded := false
	scores := make([]models.AnswerScore, 0, len(e.state.Responses))

	for i, response := range e.state.Responses {
		question := e.findQuestion(response.QuestionID)
		if question == nil {
			degraded = true
			scores = append(scores, models.AnswerScore{
				QuestionID: response.QuestionID,
				Skill:      "General",
				Score:      0,
				Confidence: 0.2,
				Evidence:   []string{},
				Strengths:  []string{},
				Weaknesses: []string{},
				RedFlags:   []string{fmt.Sprintf("question history missing for answer %d", i+1)},
			})
			continue
		}

		if strings.TrimSpace(response.Answer) == "" {
			scores = append(scores, models.AnswerScore{
				QuestionID: question.ID,
				Skill:      question.Skill,
				Score:      0,
				Confidence: 0.2,
				Evidence:   []string{},
				Strengths:  []string{},
				Weaknesses: []string{"No answer provided"},
				RedFlags:   []string{fmt.Sprintf("empty response to question %d", i+1)},
			})
			continue
		}

		score, err := e.scorer.Score(ctx, response.Answer, question, e.config.Difficulty)
		if err != nil {
			log.Printf("⚠️  Scoring failed for question %s: %v", question.ID, err)
			degraded = true
			scores = append(scores, models.AnswerScore{
				QuestionID: question.ID,
				Skill:      question.Skill,
				Score:      0,
				Confidence: 0.2,
				Evidence:   []string{},
				Strengths:  []string{},
				Weaknesses: []string{},
				RedFlags:   []string{fmt.Sprintf("scoring unavailable for answer %d", i+1)},
			})
			continue
		}

		score.QuestionID = question.ID
		score.Skill = question.Skill
		scores = append(scores, *score)
	}

	evaluation := e.evaluator.Finalize(e.config, e.state.Responses, scores)
	if degraded {
		evaluation.Degraded = true
		evaluation.Confidence = clampFloat(evaluation.Confidence, 0, 0.5)
	}

	return evaluation, nil
}

func (e *InterviewEngine) findQuestion(id string) *models.Question {
	for i := range e.state.QuestionHistory {
		if e.state.QuestionHistory[i].ID == id {
			return &e.state.QuestionHistory[i]
		}
	}
	return nil
}

// ActiveQuestion returns the question awaiting an answer, nil when the
// session is complete or not started.
func (e *InterviewEngine) ActiveQuestion() *models.Question {
	return e.state.ActiveQuestion
}

func (e *InterviewEngine) CurrentStep() int {
	return e.state.CurrentStep
}

func (e *InterviewEngine) Responses() []models.Response {
	return append([]models.Response{}, e.state.Responses...)
}

func (e *InterviewEngine) IsComplete() bool {
	return e.state.IsComplete
}

// Progress reports completion as a percentage.
func (e *InterviewEngine) Progress() float64 {
	progress := float64(e.state.CurrentStep) / float64(e.state.MaxQuestions) * 100
	if progress > 100 {
		return 100
	}
	return progress
}

// Snapshot serializes everything a later request needs to continue the
// session: config, counters, responses, active question and the full
// question history.
func (e *InterviewEngine) Snapshot() (string, error) {
	data, err := json.Marshal(engineSnapshot{Config: e.config, State: e.state})
	if err != nil {
		return "", fmt.Errorf("failed to serialize engine state: %w", err)
	}
	return string(data), nil
}

// RestoreEngine rebuilds an engine from a snapshot. The restored engine is
// behaviorally indistinguishable from the one that produced the snapshot.
func RestoreEngine(snapshot string, bank QuestionBank, scorer AnswerScorer, evaluator Evaluator) (*InterviewEngine, error) {
	var decoded engineSnapshot
	if err := json.Unmarshal([]byte(snapshot), &decoded); err != nil {
		return nil, fmt.Errorf("%w: unparseable engine snapshot", ErrCorruptedSession)
	}

	engine := NewInterviewEngine(decoded.Config, bank, scorer, evaluator)
	engine.state = decoded.State
	if engine.state.Responses == nil {
		engine.state.Responses = []models.Response{}
	}
	if engine.state.QuestionHistory == nil {
		engine.state.QuestionHistory = []models.Question{}
	}
	if engine.state.MaxQuestions <= 0 {
		engine.state.MaxQuestions = MaxQuestions
	}
	return engine, nil
}
