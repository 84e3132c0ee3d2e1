package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-interviewer/internal/models"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain object",
			input: `{"score": 80}`,
			want:  `{"score": 80}`,
		},
		{
			name:  "markdown fenced",
			input: "```json\n{\"score\": 80}\n```",
			want:  `{"score": 80}`,
		},
		{
			name:  "surrounded by prose",
			input: `Here is the result: {"score": 80} hope that helps`,
			want:  `{"score": 80}`,
		},
		{
			name:  "array payload",
			input: `the list is ["a", "b"]`,
			want:  `["a", "b"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.input))
		})
	}
}

func TestParseJSONResponse(t *testing.T) {
	var score models.AnswerScore
	err := parseJSONResponse("```json\n{\"score\": 72, \"confidence\": 0.8}\n```", &score)
	require.NoError(t, err)
	assert.Equal(t, 72, score.Score)
	assert.InDelta(t, 0.8, score.Confidence, 0.001)

	err = parseJSONResponse("the model refused to answer", &score)
	assert.Error(t, err)
}
