package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-interviewer/internal/models"
	"ai-interviewer/internal/repositories"
	"ai-interviewer/internal/services"
)

type InterviewHandler struct {
	interviews repositories.InterviewRepository
}

func NewInterviewHandler(interviews repositories.InterviewRepository) *InterviewHandler {
	return &InterviewHandler{interviews: interviews}
}

// HandleCreate handles POST /interviews
func (h *InterviewHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateInterviewRequest

	if err := c.BodyParser(&req); err != nil {
		return respondError(c, services.NewValidationError("body", "invalid request payload"))
	}

	if strings.TrimSpace(req.Role) == "" {
		return respondError(c, services.NewValidationError("role", "role is required"))
	}

	skills := dedupeSkills(req.Skills)
	if len(skills) == 0 {
		return respondError(c, services.NewValidationError("skills", "at least one skill is required"))
	}

	switch models.Difficulty(req.Difficulty) {
	case models.DifficultyJunior, models.DifficultyMid, models.DifficultySenior:
	default:
		return respondError(c, services.NewValidationError("difficulty", "must be Junior, Mid or Senior"))
	}

	tone := models.Tone(req.Tone)
	switch tone {
	case models.ToneFriendly, models.ToneNeutral, models.ToneStrict:
	case "":
		tone = models.ToneNeutral
	default:
		return respondError(c, services.NewValidationError("tone", "must be friendly, neutral or strict"))
	}

	interview := &models.Interview{
		ID:         uuid.New(),
		Role:       strings.TrimSpace(req.Role),
		Skills:     models.MarshalJSONText(skills, "[]"),
		Difficulty: req.Difficulty,
		Rubric:     models.MarshalJSONText(req.Rubric, "{}"),
		RedFlags:   models.MarshalJSONText(req.RedFlags, "[]"),
		Tone:       string(tone),
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := h.interviews.Create(interview); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.CreateInterviewResponse{
		InterviewID: interview.ID.String(),
	})
}

// HandleList handles GET /interviews
func (h *InterviewHandler) HandleList(c *fiber.Ctx) error {
	interviews, err := h.interviews.FindAll()
	if err != nil {
		return respondError(c, err)
	}

	summaries := make([]models.InterviewSummary, 0, len(interviews))
	for i := range interviews {
		interview := &interviews[i]
		config := interview.Config()

		digests := make([]models.SessionDigest, 0, len(interview.Sessions))
		for _, session := range interview.Sessions {
			digests = append(digests, models.SessionDigest{
				ID:            session.ID.String(),
				CandidateName: session.CandidateName,
				Status:        string(session.Status),
				CreatedAt:     session.CreatedAt,
			})
		}

		summaries = append(summaries, models.InterviewSummary{
			ID:         interview.ID.String(),
			Role:       interview.Role,
			Skills:     config.Skills,
			Difficulty: interview.Difficulty,
			Tone:       interview.Tone,
			CreatedAt:  interview.CreatedAt,
			Sessions:   digests,
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"interviews": summaries,
	})
}

// HandleDelete handles DELETE /interviews/:id; the delete cascades to the
// interview's sessions and their evaluations.
func (h *InterviewHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, services.NewValidationError("id", "invalid interview id format"))
	}

	if _, err := h.interviews.FindByID(id); err != nil {
		return respondError(c, services.ErrNotFound)
	}

	if err := h.interviews.Delete(id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

func dedupeSkills(skills []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, skill := range skills {
		trimmed := strings.TrimSpace(skill)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
