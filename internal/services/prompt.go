package services

import (
	"fmt"
	"strings"

	"ai-interviewer/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildQuestionPrompt creates the prompt for generating one interview
// question targeting a specific skill at a specific step.
func (pb *PromptBuilder) BuildQuestionPrompt(config models.InterviewConfig, step int, targetSkill string, prior []models.Response) string {
	return fmt.Sprintf(`You are an AI technical interviewer conducting a %s interview for a %s position.

Role: %s
Skills being assessed: %s
Difficulty: %s
Question index: %d
Target skill: %s
Questions already answered: %d

Generate ONE interview question for the target skill at the stated difficulty.
The question must be answerable in free text without writing code.

Return your response in the following JSON format:
{
  "text": "<the question>",
  "skill": "%s",
  "expected_points": ["<point 1>", "<point 2>", "<point 3>"],
  "follow_ups": ["<optional follow-up prompt>"]
}

Return ONLY the JSON object.`,
		config.Tone, config.Role,
		config.Role,
		strings.Join(config.Skills, ", "),
		config.Difficulty,
		step,
		targetSkill,
		len(prior),
		targetSkill,
	)
}

// BuildScoringPrompt creates the prompt for evaluating a candidate's answer.
func (pb *PromptBuilder) BuildScoringPrompt(answer string, question *models.Question, difficulty models.Difficulty) string {
	return fmt.Sprintf(`You are an expert technical interviewer evaluating a candidate's answer.

Question: %s
Skill: %s
Expected points: %s
Difficulty: %s

Candidate Answer: %s

Score the answer from 0 to 100 for the stated difficulty. Cite concrete
evidence from the answer. Flag gibberish, evasion or suspicious patterns
as red flags rather than folding them into the score.

Return your response in the following JSON format:
{
  "score": <0-100>,
  "evidence": ["<direct observation>", ...],
  "strengths": ["<strength>", ...],
  "weaknesses": ["<weakness>", ...],
  "confidence": <0.0-1.0>,
  "red_flags": ["<flag>", ...]
}

Return ONLY the JSON object. Be objective and specific.`,
		question.Text,
		question.Skill,
		strings.Join(question.ExpectedPoints, ", "),
		difficulty,
		answer,
	)
}
