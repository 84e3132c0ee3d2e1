package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-interviewer/internal/models"
)

func scoringQuestion() *models.Question {
	return &models.Question{
		ID:    "q-0-test",
		Text:  "How would you design a rate limiter for a public API?",
		Skill: "API Design",
	}
}

func TestHeuristicScorer_RangesAlwaysHold(t *testing.T) {
	scorer := NewHeuristicScorer()

	answers := []string{
		"",
		"idk",
		"yes",
		"asdkjfhaslkdjfhalskdjfhalskdjfh",
		"maybe it uses a cache somewhere",
		strings.Repeat("the system handles requests and the database stores data. ", 20),
		"First, I would design the API around a token bucket. Then I would implement the bucket state in Redis so every instance shares it. Finally I would consider burst handling and ensure the service degrades gracefully.",
	}

	for _, answer := range answers {
		result, err := scorer.Score(context.Background(), answer, scoringQuestion(), models.DifficultyMid)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Score, 0, "answer %q", answer)
		assert.LessOrEqual(t, result.Score, 100, "answer %q", answer)
		assert.GreaterOrEqual(t, result.Confidence, 0.0, "answer %q", answer)
		assert.LessOrEqual(t, result.Confidence, 1.0, "answer %q", answer)
		assert.NotEmpty(t, result.Evidence)
		assert.NotEmpty(t, result.Strengths)
	}
}

func TestHeuristicScorer_GibberishIsFlagged(t *testing.T) {
	scorer := NewHeuristicScorer()

	result, err := scorer.Score(context.Background(), "asdkjfhaslkdjfhalskdjfhalskdjfhqwer", scoringQuestion(), models.DifficultyMid)
	require.NoError(t, err)

	assert.Equal(t, 20, result.Score)
	assert.InDelta(t, 0.3, result.Confidence, 0.001)
	assert.NotEmpty(t, result.RedFlags)
}

func TestHeuristicScorer_QualityOrdering(t *testing.T) {
	scorer := NewHeuristicScorer()
	ctx := context.Background()

	weak, err := scorer.Score(ctx, "idk", scoringQuestion(), models.DifficultyMid)
	require.NoError(t, err)

	vague, err := scorer.Score(ctx, "maybe it uses a cache somewhere, I am not sure about the details honestly", scoringQuestion(), models.DifficultyMid)
	require.NoError(t, err)

	structured := "First, I would design the system around a sliding-window rate limiter because it smooths bursts better than a fixed window. " +
		"I would implement the window counters in Redis so that every API instance shares the same state, and I would handle Redis " +
		"outages by falling back to a local in-process limiter with a tighter budget. For example, in a previous project we built " +
		"a per-tenant limiter this way and it let us scale the service without a central bottleneck. Then I would consider the " +
		"response contract: return 429 with a Retry-After header so clients can back off. Finally I would test the limiter under " +
		"load, ensure the database is never hit for rejected requests, and monitor the rejection rate to tune the limits. " +
		"Additionally, the design should allow per-endpoint overrides because not every API route has the same cost profile."

	strong, err := scorer.Score(ctx, structured, scoringQuestion(), models.DifficultyMid)
	require.NoError(t, err)

	assert.Greater(t, vague.Score, weak.Score)
	assert.Greater(t, strong.Score, vague.Score)
	assert.Greater(t, strong.Confidence, weak.Confidence)
}

func TestHeuristicScorer_Deterministic(t *testing.T) {
	scorer := NewHeuristicScorer()
	ctx := context.Background()
	answer := "I would implement the service with a layered architecture and test each component in isolation."

	first, err := scorer.Score(ctx, answer, scoringQuestion(), models.DifficultySenior)
	require.NoError(t, err)

	second, err := scorer.Score(ctx, answer, scoringQuestion(), models.DifficultySenior)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.Strengths, second.Strengths)
	assert.Equal(t, first.RedFlags, second.RedFlags)
}

func TestHeuristicScorer_LowScoresCarryRedFlag(t *testing.T) {
	scorer := NewHeuristicScorer()

	result, err := scorer.Score(context.Background(), "idk", scoringQuestion(), models.DifficultyJunior)
	require.NoError(t, err)

	assert.Less(t, result.Score, 40)
	assert.Contains(t, result.RedFlags, "Limited technical depth")
}
