package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai-interviewer/internal/models"
	"ai-interviewer/internal/repositories"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SessionServiceConfig carries the deployment knobs of the session flow.
// RequireVerification selects the initiation strategy: off means sessions
// start directly active, on means Request creates them pending and Start
// only redeems verification tokens. The two are never mixed.
type SessionServiceConfig struct {
	MaxActiveSessions   int
	RequireVerification bool
	TokenTTL            time.Duration
	BaseURL             string
}

// SessionService owns the candidate-facing session lifecycle: initiation,
// answer submission, resumption and administrative locking.
type SessionService interface {
	Request(ctx context.Context, req *models.RequestSessionRequest) (*models.RequestSessionResponse, error)
	Start(ctx context.Context, req *models.StartSessionRequest) (*models.StartSessionResponse, error)
	Answer(ctx context.Context, sessionID uuid.UUID, answer string) (*models.SubmitAnswerResponse, error)
	Get(sessionID uuid.UUID) (*models.SessionView, error)
	Lock(sessionID uuid.UUID) error
}

type sessionService struct {
	interviews  repositories.InterviewRepository
	sessions    repositories.SessionRepository
	evaluations repositories.EvaluationRepository
	bank        QuestionBank
	scorer      AnswerScorer
	evaluator   Evaluator
	notifier    Notifier
	cfg         SessionServiceConfig
}

func NewSessionService(
	interviews repositories.InterviewRepository,
	sessions repositories.SessionRepository,
	evaluations repositories.EvaluationRepository,
	bank QuestionBank,
	scorer AnswerScorer,
	evaluator Evaluator,
	notifier Notifier,
	cfg SessionServiceConfig,
) SessionService {
	if cfg.MaxActiveSessions <= 0 {
		cfg.MaxActiveSessions = 100
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &sessionService{
		interviews:  interviews,
		sessions:    sessions,
		evaluations: evaluations,
		bank:        bank,
		scorer:      scorer,
		evaluator:   evaluator,
		notifier:    notifier,
		cfg:         cfg,
	}
}

type candidateInput struct {
	interviewID uuid.UUID
	name        string
	email       string
}

func (s *sessionService) validateCandidate(interviewID, name, email string) (*candidateInput, error) {
	id, err := uuid.Parse(interviewID)
	if err != nil {
		return nil, NewValidationError("interview_id", "invalid interview id format")
	}

	trimmedName := strings.TrimSpace(name)
	if len(trimmedName) < 2 {
		return nil, NewValidationError("candidate_name", "name must be at least 2 characters")
	}

	trimmedEmail := strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(trimmedEmail) {
		return nil, NewValidationError("candidate_email", "invalid email address")
	}

	return &candidateInput{interviewID: id, name: trimmedName, email: trimmedEmail}, nil
}

// Request implements the verification initiation strategy: it creates a
// pending session holding a fresh token and fire-and-forgets the
// verification message. Only available when verification is enabled.
func (s *sessionService) Request(ctx context.Context, req *models.RequestSessionRequest) (*models.RequestSessionResponse, error) {
	if !s.cfg.RequireVerification {
		return nil, NewValidationError("verification", "email verification is not enabled for this deployment")
	}

	input, err := s.validateCandidate(req.InterviewID, req.CandidateName, req.CandidateEmail)
	if err != nil {
		return nil, err
	}

	interview, err := s.interviews.FindByID(input.interviewID)
	if err != nil {
		return nil, fmt.Errorf("%w: interview %s", ErrNotFound, input.interviewID)
	}

	existing, err := s.sessions.FindLatestByInterviewAndEmail(input.interviewID, input.email)
	if err != nil {
		return nil, err
	}
	if existing != nil && (existing.Status == models.SessionActive || existing.Status == models.SessionCompleted) {
		return nil, fmt.Errorf("%w: an interview session already exists for this email", ErrSessionConflict)
	}

	token, err := GenerateVerificationToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &models.InterviewSession{
		ID:                uuid.New(),
		InterviewID:       interview.ID,
		CandidateName:     input.name,
		CandidateEmail:    input.email,
		Status:            models.SessionPending,
		CurrentStep:       0,
		Responses:         "[]",
		VerificationToken: token,
		TokenIssuedAt:     &now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}

	link := BuildVerificationLink(s.cfg.BaseURL, token, interview.ID.String())
	go func() {
		if !s.notifier.SendVerification(input.email, input.name, link) {
			log.Printf("⚠️  Failed to send verification email to %s", input.email)
		}
	}()

	return &models.RequestSessionResponse{
		Message:              "Verification email sent. Please check your inbox.",
		RequiresVerification: true,
	}, nil
}

// Start begins the interview. With verification off it creates the session
// directly active; with verification on it redeems a pending session's
// token and transitions it to active. Both paths respect the admission cap
// and generate the first question before anything is persisted as active.
func (s *sessionService) Start(ctx context.Context, req *models.StartSessionRequest) (*models.StartSessionResponse, error) {
	if s.cfg.RequireVerification {
		return s.startVerified(ctx, req.Token)
	}
	return s.startDirect(ctx, req)
}

func (s *sessionService) startDirect(ctx context.Context, req *models.StartSessionRequest) (*models.StartSessionResponse, error) {
	input, err := s.validateCandidate(req.InterviewID, req.CandidateName, req.CandidateEmail)
	if err != nil {
		return nil, err
	}

	existing, err := s.sessions.FindLatestByInterviewAndEmail(input.interviewID, input.email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		machine := NewSessionStateMachine(existing.Status)
		if machine.IsCompleted() || machine.IsLocked() {
			return nil, fmt.Errorf("%w: you have already completed this interview", ErrSessionConflict)
		}
		if machine.IsActive() {
			return nil, fmt.Errorf("%w: an active interview session already exists for this email", ErrSessionConflict)
		}
	}

	if err := s.checkCapacity(); err != nil {
		return nil, err
	}

	interview, err := s.interviews.FindByID(input.interviewID)
	if err != nil {
		return nil, fmt.Errorf("%w: interview %s", ErrNotFound, input.interviewID)
	}

	config := interview.Config()
	if len(config.Skills) == 0 {
		return nil, fmt.Errorf("invalid interview configuration: no skills")
	}

	engine := NewInterviewEngine(config, s.bank, s.scorer, s.evaluator)
	firstQuestion, err := engine.Start(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := engine.Snapshot()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &models.InterviewSession{
		ID:             uuid.New(),
		InterviewID:    interview.ID,
		CandidateName:  input.name,
		CandidateEmail: input.email,
		Status:         models.SessionActive,
		CurrentStep:    0,
		Responses:      "[]",
		EngineState:    snapshot,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}

	log.Printf("🎤 Session %s started for %s (%s)", session.ID, input.name, config.Role)

	return &models.StartSessionResponse{
		SessionID:      session.ID.String(),
		Question:       firstQuestion,
		QuestionIndex:  0,
		TotalQuestions: MaxQuestions,
		Progress:       0,
	}, nil
}

func (s *sessionService) startVerified(ctx context.Context, token string) (*models.StartSessionResponse, error) {
	if token == "" {
		return nil, NewValidationError("token", "verification token is required")
	}

	session, err := s.sessions.FindByToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown verification token", ErrNotFound)
	}

	machine := NewSessionStateMachine(session.Status)
	if !machine.CanStart() {
		return nil, &IllegalTransitionError{From: session.Status, To: models.SessionActive}
	}

	if session.TokenIssuedAt == nil || time.Since(*session.TokenIssuedAt) > s.cfg.TokenTTL {
		return nil, ErrTokenExpired
	}

	if err := s.checkCapacity(); err != nil {
		return nil, err
	}

	config := session.Interview.Config()
	if len(config.Skills) == 0 {
		return nil, fmt.Errorf("invalid interview configuration: no skills")
	}

	engine := NewInterviewEngine(config, s.bank, s.scorer, s.evaluator)
	firstQuestion, err := engine.Start(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := engine.Snapshot()
	if err != nil {
		return nil, err
	}

	if err := machine.Start(); err != nil {
		return nil, err
	}

	err = s.sessions.UpdateProgress(session.ID, session.CurrentStep, &repositories.SessionProgressUpdate{
		CurrentStep: 0,
		Responses:   "[]",
		EngineState: snapshot,
		Status:      machine.Current(),
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStaleStep) {
			return nil, fmt.Errorf("%w: session changed concurrently", ErrSessionConflict)
		}
		return nil, err
	}

	log.Printf("🎤 Session %s verified and started for %s", session.ID, session.CandidateName)

	return &models.StartSessionResponse{
		SessionID:      session.ID.String(),
		Question:       firstQuestion,
		QuestionIndex:  0,
		TotalQuestions: MaxQuestions,
		Progress:       0,
	}, nil
}

func (s *sessionService) checkCapacity() error {
	activeCount, err := s.sessions.CountActive()
	if err != nil {
		return err
	}
	log.Printf("📊 Active sessions: %d/%d", activeCount, s.cfg.MaxActiveSessions)
	if activeCount >= int64(s.cfg.MaxActiveSessions) {
		return ErrCapacityExceeded
	}
	return nil
}

// Answer submits one answer for an active session. The engine is rebuilt
// from the persisted snapshot, advanced and persisted again with a
// conditional update on the step that was read; completion creates the
// session's single evaluation inside the same request.
func (s *sessionService) Answer(ctx context.Context, sessionID uuid.UUID, answer string) (*models.SubmitAnswerResponse, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, NewValidationError("answer", "answer must not be empty")
	}

	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}

	machine := NewSessionStateMachine(session.Status)
	if !machine.CanAnswer() {
		return nil, &IllegalTransitionError{From: session.Status, To: models.SessionActive}
	}

	engine, err := RestoreEngine(session.EngineState, s.bank, s.scorer, s.evaluator)
	if err != nil {
		return nil, err
	}

	previousStep := engine.CurrentStep()

	result, err := engine.SubmitAnswer(ctx, answer)
	if err != nil {
		if errors.Is(err, ErrNoActiveQuestion) {
			return nil, fmt.Errorf("%w: active session has no active question", ErrCorruptedSession)
		}
		return nil, err
	}

	snapshot, err := engine.Snapshot()
	if err != nil {
		return nil, err
	}

	update := &repositories.SessionProgressUpdate{
		CurrentStep: engine.CurrentStep(),
		Responses:   models.MarshalJSONText(engine.Responses(), "[]"),
		EngineState: snapshot,
		Status:      machine.Current(),
	}

	if result.IsComplete {
		if err := machine.Complete(); err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		update.Status = machine.Current()
		update.CompletedAt = &now
	}

	err = s.sessions.UpdateProgress(session.ID, previousStep, update)
	if err != nil {
		if errors.Is(err, repositories.ErrStaleStep) {
			return nil, fmt.Errorf("%w: another submission advanced this session", ErrSessionConflict)
		}
		return nil, err
	}

	response := &models.SubmitAnswerResponse{
		IsComplete: result.IsComplete,
		Progress:   engine.Progress(),
	}

	if !result.IsComplete {
		response.NextQuestion = result.NextQuestion
		return response, nil
	}

	evaluation, err := engine.GenerateEvaluation(ctx)
	if err != nil {
		// Never fail a completed interview over evaluation trouble.
		log.Printf("⚠️  Evaluation failed for session %s: %v", session.ID, err)
		evaluation = s.evaluator.Finalize(engine.config, engine.Responses(), nil)
	}

	record := &models.Evaluation{
		ID:             uuid.New(),
		SessionID:      session.ID,
		OverallScore:   evaluation.OverallScore,
		Recommendation: string(evaluation.Recommendation),
		Scores:         models.MarshalJSONText(evaluation.SkillBreakdown, "{}"),
		RedFlags:       models.MarshalJSONText(evaluation.RedFlags, "[]"),
		Summary:        evaluation.Summary,
		Confidence:     evaluation.Confidence,
		Degraded:       evaluation.Degraded,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.evaluations.Create(record); err != nil {
		return nil, err
	}

	log.Printf("✅ Session %s completed: %d/100 (%s)", session.ID, evaluation.OverallScore, evaluation.Recommendation)

	response.Evaluation = evaluation
	return response, nil
}

// Get returns the candidate-facing view used for resumption: the current
// question and progress while active, the evaluation once completed.
func (s *sessionService) Get(sessionID uuid.UUID) (*models.SessionView, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}

	view := &models.SessionView{
		ID:             session.ID.String(),
		CandidateName:  session.CandidateName,
		CandidateEmail: session.CandidateEmail,
		Status:         string(session.Status),
		CurrentStep:    session.CurrentStep,
		Progress:       sessionProgress(session.CurrentStep),
	}

	if session.Status == models.SessionActive {
		engine, err := RestoreEngine(session.EngineState, s.bank, s.scorer, s.evaluator)
		if err != nil {
			return nil, err
		}
		view.CurrentQuestion = engine.ActiveQuestion()
		view.Progress = engine.Progress()

		if view.CurrentQuestion == nil {
			return nil, fmt.Errorf("%w: active session has no active question", ErrCorruptedSession)
		}
	}

	if session.Status == models.SessionCompleted && session.Evaluation != nil {
		view.Evaluation = evaluationFromRecord(session.Evaluation)
	}

	return view, nil
}

// Lock moves a session to locked from any non-terminal state.
func (s *sessionService) Lock(sessionID uuid.UUID) error {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}

	if err := ValidateTransition(session.Status, models.SessionLocked); err != nil {
		return err
	}

	return s.sessions.UpdateStatus(session.ID, models.SessionLocked)
}

func sessionProgress(step int) float64 {
	progress := float64(step) / float64(MaxQuestions) * 100
	if progress > 100 {
		return 100
	}
	return progress
}

// evaluationFromRecord rebuilds a FinalEvaluation from its persisted row,
// falling back to empty payloads when a JSON column is corrupt.
func evaluationFromRecord(record *models.Evaluation) *models.FinalEvaluation {
	breakdown := map[string]models.SkillScore{}
	models.SafeParseJSON(record.Scores, &breakdown)

	redFlags := []string{}
	models.SafeParseJSON(record.RedFlags, &redFlags)

	return &models.FinalEvaluation{
		OverallScore:   record.OverallScore,
		Recommendation: models.Recommendation(record.Recommendation),
		SkillBreakdown: breakdown,
		RedFlags:       redFlags,
		Summary:        record.Summary,
		Confidence:     record.Confidence,
		Degraded:       record.Degraded,
	}
}
