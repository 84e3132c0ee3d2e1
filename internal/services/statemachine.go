package services

import "ai-interviewer/internal/models"

// sessionTransitions is the full table of legal status transitions.
// locked is terminal; completed can only be locked.
var sessionTransitions = map[models.SessionStatus][]models.SessionStatus{
	models.SessionPending:   {models.SessionActive, models.SessionLocked},
	models.SessionActive:    {models.SessionCompleted, models.SessionLocked},
	models.SessionCompleted: {models.SessionLocked},
	models.SessionLocked:    {},
}

// SessionStateMachine guards session status progression. The engine and
// the API boundary consult it before every candidate-visible mutation.
type SessionStateMachine struct {
	current models.SessionStatus
}

func NewSessionStateMachine(initial models.SessionStatus) *SessionStateMachine {
	if _, ok := sessionTransitions[initial]; !ok {
		initial = models.SessionPending
	}
	return &SessionStateMachine{current: initial}
}

func (m *SessionStateMachine) Current() models.SessionStatus {
	return m.current
}

// CanTransition reports whether moving to the target status is legal from
// the current one.
func (m *SessionStateMachine) CanTransition(to models.SessionStatus) bool {
	for _, allowed := range sessionTransitions[m.current] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition moves to the target status or fails with an
// IllegalTransitionError carrying the attempted pair.
func (m *SessionStateMachine) Transition(to models.SessionStatus) error {
	if !m.CanTransition(to) {
		return &IllegalTransitionError{From: m.current, To: to}
	}
	m.current = to
	return nil
}

func (m *SessionStateMachine) IsPending() bool {
	return m.current == models.SessionPending
}

func (m *SessionStateMachine) IsActive() bool {
	return m.current == models.SessionActive
}

func (m *SessionStateMachine) IsCompleted() bool {
	return m.current == models.SessionCompleted
}

func (m *SessionStateMachine) IsLocked() bool {
	return m.current == models.SessionLocked
}

// CanStart reports whether a candidate may begin answering.
func (m *SessionStateMachine) CanStart() bool {
	return m.IsPending()
}

// CanAnswer reports whether a candidate may submit an answer.
func (m *SessionStateMachine) CanAnswer() bool {
	return m.IsActive()
}

// CanComplete reports whether the session may finish.
func (m *SessionStateMachine) CanComplete() bool {
	return m.IsActive()
}

func (m *SessionStateMachine) Start() error {
	return m.Transition(models.SessionActive)
}

func (m *SessionStateMachine) Complete() error {
	return m.Transition(models.SessionCompleted)
}

func (m *SessionStateMachine) Lock() error {
	return m.Transition(models.SessionLocked)
}

// ValidateTransition checks a from/to pair without building a machine for
// callers that only hold raw status strings.
func ValidateTransition(from, to models.SessionStatus) error {
	return NewSessionStateMachine(from).Transition(to)
}
