package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-interviewer/internal/models"
	"ai-interviewer/internal/repositories"
	"ai-interviewer/internal/services"
)

type SessionHandler struct {
	sessionService services.SessionService
	sessions       repositories.SessionRepository
}

func NewSessionHandler(sessionService services.SessionService, sessions repositories.SessionRepository) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		sessions:       sessions,
	}
}

// HandleRequest handles POST /sessions/request (verification flow entry).
func (h *SessionHandler) HandleRequest(c *fiber.Ctx) error {
	var req models.RequestSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, services.NewValidationError("body", "invalid request payload"))
	}

	resp, err := h.sessionService.Request(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":               true,
		"message":               resp.Message,
		"requires_verification": resp.RequiresVerification,
	})
}

// HandleStart handles POST /sessions/start.
func (h *SessionHandler) HandleStart(c *fiber.Ctx) error {
	var req models.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, services.NewValidationError("body", "invalid request payload"))
	}

	resp, err := h.sessionService.Start(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"session_id":      resp.SessionID,
		"question":        resp.Question,
		"question_index":  resp.QuestionIndex,
		"total_questions": resp.TotalQuestions,
		"progress":        resp.Progress,
	})
}

// HandleAnswer handles POST /sessions/answer.
func (h *SessionHandler) HandleAnswer(c *fiber.Ctx) error {
	var req models.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, services.NewValidationError("body", "invalid request payload"))
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return respondError(c, services.NewValidationError("session_id", "invalid session id format"))
	}

	if strings.TrimSpace(req.Answer) == "" {
		return respondError(c, services.NewValidationError("answer", "answer must not be empty"))
	}

	resp, err := h.sessionService.Answer(c.Context(), sessionID, req.Answer)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"is_complete":   resp.IsComplete,
		"next_question": resp.NextQuestion,
		"progress":      resp.Progress,
		"evaluation":    resp.Evaluation,
	})
}

// HandleGet handles GET /sessions/:id (candidate resumption view).
func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, services.NewValidationError("id", "invalid session id format"))
	}

	view, err := h.sessionService.Get(sessionID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"session": view,
	})
}

// HandleLock handles POST /sessions/:id/lock (admin).
func (h *SessionHandler) HandleLock(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, services.NewValidationError("id", "invalid session id format"))
	}

	if err := h.sessionService.Lock(sessionID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// HandleDelete handles DELETE /sessions/:id (admin).
func (h *SessionHandler) HandleDelete(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, services.NewValidationError("id", "invalid session id format"))
	}

	if _, err := h.sessions.FindByID(sessionID); err != nil {
		return respondError(c, services.ErrNotFound)
	}

	if err := h.sessions.Delete(sessionID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}
