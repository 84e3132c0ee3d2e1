package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-interviewer/internal/models"
)

func evalConfig() models.InterviewConfig {
	return models.InterviewConfig{
		Role:       "Backend Developer",
		Skills:     []string{"Go", "Database", "API Design"},
		Difficulty: models.DifficultyMid,
		Tone:       models.ToneNeutral,
	}
}

func answerScore(skill string, score int, confidence float64) models.AnswerScore {
	return models.AnswerScore{
		QuestionID: "q-" + skill,
		Skill:      skill,
		Score:      score,
		Confidence: confidence,
		Evidence:   []string{"evidence for " + skill},
		Strengths:  []string{"strength in " + skill},
		Weaknesses: []string{"weakness in " + skill},
		RedFlags:   []string{},
	}
}

func TestEvaluator_NoScoresFallsBack(t *testing.T) {
	result := NewEvaluator().Finalize(evalConfig(), nil, nil)

	assert.Equal(t, 50, result.OverallScore)
	assert.Equal(t, models.RecommendReview, result.Recommendation)
	assert.LessOrEqual(t, result.Confidence, 0.3)
	assert.NotEmpty(t, result.RedFlags)
	assert.True(t, result.Degraded)
	assert.NotEmpty(t, result.Summary)
}

func TestEvaluator_OverallIsMeanOfSkills(t *testing.T) {
	scores := []models.AnswerScore{
		answerScore("Go", 80, 0.8),
		answerScore("Database", 60, 0.7),
		answerScore("API Design", 70, 0.9),
	}

	result := NewEvaluator().Finalize(evalConfig(), nil, scores)

	require.Len(t, result.SkillBreakdown, 3)
	assert.Equal(t, 70, result.OverallScore)
	assert.Equal(t, models.RecommendBorderline, result.Recommendation)
}

func TestEvaluator_SameSkillCombinesByRunningAverage(t *testing.T) {
	scores := []models.AnswerScore{
		answerScore("Go", 80, 0.8),
		answerScore("Go", 60, 0.6),
	}

	result := NewEvaluator().Finalize(evalConfig(), nil, scores)

	require.Contains(t, result.SkillBreakdown, "Go")
	assert.Equal(t, 70, result.SkillBreakdown["Go"].Score)
	assert.InDelta(t, 0.7, result.SkillBreakdown["Go"].Confidence, 0.001)
	assert.Len(t, result.SkillBreakdown["Go"].Evidence, 2)
}

func TestEvaluator_RecommendationBands(t *testing.T) {
	tests := []struct {
		score int
		want  models.Recommendation
	}{
		{90, models.RecommendProceed},
		{75, models.RecommendProceed},
		{74, models.RecommendBorderline},
		{60, models.RecommendBorderline},
		{59, models.RecommendReview},
		{20, models.RecommendReview},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score_%d", tt.score), func(t *testing.T) {
			result := NewEvaluator().Finalize(evalConfig(), nil, []models.AnswerScore{
				answerScore("Go", tt.score, 0.8),
			})
			assert.Equal(t, tt.want, result.Recommendation)
		})
	}
}

func TestEvaluator_DerivedFlags(t *testing.T) {
	low := NewEvaluator().Finalize(evalConfig(), nil, []models.AnswerScore{
		answerScore("Go", 30, 0.4),
	})
	assert.Contains(t, low.RedFlags, "Below expected performance level")
	assert.Contains(t, low.RedFlags, "Inconsistent answer quality")

	high := NewEvaluator().Finalize(evalConfig(), nil, []models.AnswerScore{
		answerScore("Go", 90, 0.9),
	})
	assert.NotContains(t, high.RedFlags, "Below expected performance level")
	assert.NotContains(t, high.RedFlags, "Inconsistent answer quality")
}

func TestEvaluator_RedFlagsDeduped(t *testing.T) {
	first := answerScore("Go", 70, 0.8)
	first.RedFlags = []string{"Repetitive content with low information density"}
	second := answerScore("Database", 70, 0.8)
	second.RedFlags = []string{"Repetitive content with low information density"}

	result := NewEvaluator().Finalize(evalConfig(), nil, []models.AnswerScore{first, second})

	count := 0
	for _, flag := range result.RedFlags {
		if flag == "Repetitive content with low information density" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestEvaluator_SummaryReferencesActualSkills(t *testing.T) {
	scores := []models.AnswerScore{
		answerScore("Go", 80, 0.8),
		answerScore("Database", 78, 0.8),
	}

	result := NewEvaluator().Finalize(evalConfig(), nil, scores)

	assert.Contains(t, result.Summary, fmt.Sprintf("%d/100", result.OverallScore))
	assert.Contains(t, result.Summary, "Go")
	assert.Contains(t, result.Summary, "Database")
}

func TestEvaluator_RangesAlwaysHold(t *testing.T) {
	result := NewEvaluator().Finalize(evalConfig(), nil, []models.AnswerScore{
		answerScore("Go", 0, 0.2),
		answerScore("Database", 100, 1.0),
	})

	assert.GreaterOrEqual(t, result.OverallScore, 0)
	assert.LessOrEqual(t, result.OverallScore, 100)
	assert.GreaterOrEqual(t, result.Confidence, 0.0)
	assert.LessOrEqual(t, result.Confidence, 1.0)
}

func TestEvaluator_EmptySkillBucketsAsGeneral(t *testing.T) {
	score := answerScore("", 65, 0.7)
	result := NewEvaluator().Finalize(evalConfig(), nil, []models.AnswerScore{score})

	assert.Contains(t, result.SkillBreakdown, "General")
}
