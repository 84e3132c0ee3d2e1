package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"ai-interviewer/internal/models"
)

// GeminiService is the raw text-generation client behind the model-backed
// question bank and scorer.
type GeminiService interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
}

type geminiService struct {
	client    *genai.Client
	modelName string
}

func NewGeminiService(apiKey, modelName string) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	return &geminiService{client: client, modelName: modelName}, nil
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 2048,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}

// GenerateTextWithRetry implements GeminiService.
func (g *geminiService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := g.GenerateText(ctx, prompt, temperature)
		if err == nil {
			return result, nil
		}

		lastErr = err

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < maxRetries {
			log.Printf("⚠️  Attempt %d failed: %v. Retrying...", attempt, err)
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

// geminiQuestionBank is the model-backed QuestionBank. It shares the
// heuristic bank's interface so the engine never knows which one it runs.
type geminiQuestionBank struct {
	gemini     GeminiService
	prompts    *PromptBuilder
	maxRetries int
}

func NewGeminiQuestionBank(gemini GeminiService, maxRetries int) QuestionBank {
	return &geminiQuestionBank{
		gemini:     gemini,
		prompts:    NewPromptBuilder(),
		maxRetries: maxRetries,
	}
}

func (b *geminiQuestionBank) NextQuestion(ctx context.Context, config models.InterviewConfig, step int, prior []models.Response) (*models.Question, error) {
	if len(config.Skills) == 0 {
		return nil, NewValidationError("skills", "interview has no configured skills")
	}

	targetSkill := config.Skills[step%len(config.Skills)]
	prompt := b.prompts.BuildQuestionPrompt(config, step, targetSkill, prior)

	response, err := b.gemini.GenerateTextWithRetry(ctx, prompt, 0.7, b.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate question: %w", err)
	}

	var question models.Question
	if err := parseJSONResponse(response, &question); err != nil {
		return nil, fmt.Errorf("failed to parse question response: %w", err)
	}

	if question.Text == "" {
		return nil, fmt.Errorf("model returned question with no text")
	}
	if question.Skill == "" {
		question.Skill = targetSkill
	}

	// Ids are always issued locally so they stay unique per issuance.
	question.ID = fmt.Sprintf("q-%d-%s", step, uuid.New().String())
	return &question, nil
}

// geminiScorer is the model-backed AnswerScorer.
type geminiScorer struct {
	gemini     GeminiService
	prompts    *PromptBuilder
	maxRetries int
}

func NewGeminiScorer(gemini GeminiService, maxRetries int) AnswerScorer {
	return &geminiScorer{
		gemini:     gemini,
		prompts:    NewPromptBuilder(),
		maxRetries: maxRetries,
	}
}

func (s *geminiScorer) Score(ctx context.Context, answer string, question *models.Question, difficulty models.Difficulty) (*models.AnswerScore, error) {
	prompt := s.prompts.BuildScoringPrompt(answer, question, difficulty)

	response, err := s.gemini.GenerateTextWithRetry(ctx, prompt, 0.3, s.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to score answer: %w", err)
	}

	var score models.AnswerScore
	if err := parseJSONResponse(response, &score); err != nil {
		return nil, fmt.Errorf("failed to parse scoring response: %w", err)
	}

	score.Score = clampInt(score.Score, 0, 100)
	score.Confidence = clampFloat(score.Confidence, 0, 1)
	score.QuestionID = question.ID
	score.Skill = question.Skill
	return &score, nil
}

func parseJSONResponse(response string, target interface{}) error {
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

// extractJSON tries to extract JSON from text that might contain markdown
// or other formatting.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
