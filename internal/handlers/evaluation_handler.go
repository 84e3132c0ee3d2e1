package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-interviewer/internal/models"
	"ai-interviewer/internal/repositories"
	"ai-interviewer/internal/services"
)

type EvaluationHandler struct {
	evaluations repositories.EvaluationRepository
}

func NewEvaluationHandler(evaluations repositories.EvaluationRepository) *EvaluationHandler {
	return &EvaluationHandler{evaluations: evaluations}
}

// HandleList handles GET /evaluations (admin).
func (h *EvaluationHandler) HandleList(c *fiber.Ctx) error {
	evaluations, err := h.evaluations.FindAll()
	if err != nil {
		return respondError(c, err)
	}

	views := make([]models.EvaluationView, 0, len(evaluations))
	for i := range evaluations {
		views = append(views, *evaluationView(&evaluations[i], false))
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"evaluations": views,
	})
}

// HandleGetBySession handles GET /evaluations/:sessionId (admin). The
// detail view includes the candidate's recorded responses.
func (h *EvaluationHandler) HandleGetBySession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return respondError(c, services.NewValidationError("sessionId", "invalid session id format"))
	}

	evaluation, err := h.evaluations.FindBySessionID(sessionID)
	if err != nil {
		return respondError(c, services.ErrNotFound)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"evaluation": evaluationView(evaluation, true),
	})
}

func evaluationView(record *models.Evaluation, includeResponses bool) *models.EvaluationView {
	scores := map[string]models.SkillScore{}
	models.SafeParseJSON(record.Scores, &scores)

	redFlags := []string{}
	models.SafeParseJSON(record.RedFlags, &redFlags)

	view := &models.EvaluationView{
		ID:             record.ID.String(),
		SessionID:      record.SessionID.String(),
		CandidateName:  record.Session.CandidateName,
		CandidateEmail: record.Session.CandidateEmail,
		Role:           record.Session.Interview.Role,
		OverallScore:   record.OverallScore,
		Recommendation: record.Recommendation,
		Confidence:     record.Confidence,
		Degraded:       record.Degraded,
		Summary:        record.Summary,
		Scores:         scores,
		RedFlags:       redFlags,
		CreatedAt:      record.CreatedAt,
	}

	if includeResponses {
		view.Responses = record.Session.ParsedResponses()
	}

	return view
}
