package services

import (
	"context"
	"regexp"
	"strings"

	"ai-interviewer/internal/models"
)

// AnswerScorer evaluates a single free-text answer against the question it
// was given for. Implementations only promise the shape and ranges of
// AnswerScore: score in [0,100], confidence in [0,1], better answers
// strictly outscoring degenerate ones.
type AnswerScorer interface {
	Score(ctx context.Context, answer string, question *models.Question, difficulty models.Difficulty) (*models.AnswerScore, error)
}

type heuristicScorer struct{}

func NewHeuristicScorer() AnswerScorer {
	return &heuristicScorer{}
}

var (
	domainKeywordRe = regexp.MustCompile(`(?i)\b(design|implement|architecture|system|database|api|performance|scale|security|test|function|component|service|method|class|data|user|application|code|process|solution|approach|consider|ensure|handle|manage|optimize|develop|build|create|use|would|could|should)\b`)
	exampleRe       = regexp.MustCompile(`(?i)\b(example|instance|case|scenario|experience|project|worked|built|implemented|used|applied)\b`)
	structureRe     = regexp.MustCompile(`(?i)\b(first|second|third|then|next|finally|also|additionally|furthermore|however|therefore|because)\b`)
	randomCharsRe   = regexp.MustCompile(`(?i)^[a-z]{20,}$`)
	sentenceSplitRe = regexp.MustCompile(`[.!?]`)
)

// Score implements AnswerScorer with a signal-strength heuristic: a base
// of 50 adjusted by length, lexical diversity, keyword presence and
// example/structure markers, clamped to [15,100]. Degenerate input
// short-circuits to a low score with low confidence and a red flag.
func (s *heuristicScorer) Score(ctx context.Context, answer string, question *models.Question, difficulty models.Difficulty) (*models.AnswerScore, error) {
	trimmed := strings.TrimSpace(answer)
	words := strings.Fields(trimmed)
	wordCount := len(words)

	answerLength := len(trimmed)
	totalWordLen := 0
	unique := map[string]struct{}{}
	for _, w := range words {
		totalWordLen += len(w)
		unique[strings.ToLower(w)] = struct{}{}
	}

	avgWordLength := 0.0
	uniqueRatio := 0.0
	if wordCount > 0 {
		avgWordLength = float64(totalWordLen) / float64(wordCount)
		uniqueRatio = float64(len(unique)) / float64(wordCount)
	}

	hasKeywords := domainKeywordRe.MatchString(trimmed)
	hasExamples := exampleRe.MatchString(trimmed)
	hasStructure := structureRe.MatchString(trimmed)
	hasTechnicalDepth := countSubstantialSentences(trimmed) > 2

	condensed := strings.ReplaceAll(trimmed, " ", "")
	isRandomChars := randomCharsRe.MatchString(condensed) || (wordCount > 0 && avgWordLength < 3)
	isRepeated := uniqueRatio < 0.5 && wordCount > 10
	isTooShort := answerLength < 50
	isGibberish := wordCount > 5 && !hasKeywords && avgWordLength < 4

	result := &models.AnswerScore{
		QuestionID: question.ID,
		Skill:      question.Skill,
		Evidence:   []string{},
		Strengths:  []string{},
		Weaknesses: []string{},
		RedFlags:   []string{},
	}

	if isRandomChars || isGibberish {
		result.Score = 20
		result.Confidence = 0.3
		result.Evidence = []string{"Unintelligible response"}
		result.Weaknesses = []string{"No coherent technical content"}
		result.RedFlags = []string{"Answer appears to be random or meaningless text"}
		return result, nil
	}

	baseScore := 50
	confidence := 0.7

	if isRepeated {
		baseScore = 30
		confidence = 0.4
		result.RedFlags = append(result.RedFlags, "Repetitive content with low information density")
		result.Weaknesses = append(result.Weaknesses, "Lacks variety in explanation")
	}

	if isTooShort {
		if baseScore > 45 {
			baseScore = 45
		}
		if confidence > 0.5 {
			confidence = 0.5
		}
		result.Weaknesses = append(result.Weaknesses, "Answer is too brief and lacks detail")
	} else {
		if answerLength > 200 {
			baseScore += 10
		}
		if answerLength > 400 {
			baseScore += 8
		}
	}

	if hasKeywords {
		baseScore += 15
		result.Evidence = append(result.Evidence, "Used relevant technical terminology")
		result.Strengths = append(result.Strengths, "Demonstrated technical vocabulary")
	} else {
		baseScore -= 10
		result.Weaknesses = append(result.Weaknesses, "Missing technical terminology")
	}

	if hasTechnicalDepth {
		baseScore += 12
		result.Evidence = append(result.Evidence, "Provided structured explanation")
		result.Strengths = append(result.Strengths, "Clear communication structure")
	} else {
		result.Weaknesses = append(result.Weaknesses, "Lacks depth in explanation")
	}

	if hasExamples {
		baseScore += 10
		result.Evidence = append(result.Evidence, "Referenced practical experience")
		result.Strengths = append(result.Strengths, "Connected theory to practice")
	}

	if hasStructure {
		baseScore += 8
		result.Strengths = append(result.Strengths, "Well-organized response")
	}

	if uniqueRatio > 0.7 && wordCount > 20 {
		baseScore += 5
		confidence += 0.05
	}

	result.Score = clampInt(baseScore, 15, 100)
	result.Confidence = clampFloat(confidence, 0.2, 1.0)

	if result.Score < 40 {
		result.RedFlags = append(result.RedFlags, "Limited technical depth")
	}

	if len(result.Evidence) == 0 {
		result.Evidence = []string{"Provided response to question"}
	}
	if len(result.Strengths) == 0 {
		result.Strengths = []string{"Attempted to answer"}
	}
	if len(result.Weaknesses) == 0 {
		result.Weaknesses = []string{"Could provide more depth"}
	}

	return result, nil
}

func countSubstantialSentences(text string) int {
	count := 0
	for _, sentence := range sentenceSplitRe.Split(text, -1) {
		if len(strings.TrimSpace(sentence)) > 20 {
			count++
		}
	}
	return count
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
