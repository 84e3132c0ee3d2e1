package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterviewConfig_ParsesJSONColumns(t *testing.T) {
	interview := &Interview{
		Role:       "Backend Engineer",
		Skills:     `["Go","Database"]`,
		Difficulty: string(DifficultyMid),
		Rubric:     `{"Go":3,"Database":2}`,
		RedFlags:   `["no production experience"]`,
		Tone:       string(ToneFriendly),
	}

	config := interview.Config()

	assert.Equal(t, "Backend Engineer", config.Role)
	assert.Equal(t, []string{"Go", "Database"}, config.Skills)
	assert.Equal(t, DifficultyMid, config.Difficulty)
	assert.Equal(t, map[string]int{"Go": 3, "Database": 2}, config.Rubric)
	assert.Equal(t, []string{"no production experience"}, config.RedFlags)
	assert.Equal(t, ToneFriendly, config.Tone)
}

func TestInterviewConfig_CorruptColumnsFallBackEmpty(t *testing.T) {
	interview := &Interview{
		Role:       "Backend Engineer",
		Skills:     `{not json`,
		Difficulty: string(DifficultyJunior),
		Rubric:     ``,
		RedFlags:   `42`,
	}

	config := interview.Config()

	assert.Empty(t, config.Skills)
	assert.Empty(t, config.Rubric)
	assert.Empty(t, config.RedFlags)
	assert.Equal(t, "Backend Engineer", config.Role)
}

func TestParsedResponses(t *testing.T) {
	session := &InterviewSession{Responses: `[{"question_id":"q-0-x","answer":"an answer"}]`}
	responses := session.ParsedResponses()
	assert.Len(t, responses, 1)
	assert.Equal(t, "q-0-x", responses[0].QuestionID)

	corrupt := &InterviewSession{Responses: `{broken`}
	assert.Empty(t, corrupt.ParsedResponses())

	empty := &InterviewSession{}
	assert.NotNil(t, empty.ParsedResponses())
	assert.Empty(t, empty.ParsedResponses())
}

func TestMarshalJSONText(t *testing.T) {
	assert.Equal(t, `["a","b"]`, MarshalJSONText([]string{"a", "b"}, "[]"))
	assert.Equal(t, "[]", MarshalJSONText(make(chan int), "[]"))
}
