package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"ai-interviewer/internal/models"
)

// Recommendation thresholds. One consistent three-band scheme: proceed at
// 75 and above, borderline at 60 and above, review below that.
const (
	proceedThreshold    = 75
	borderlineThreshold = 60
)

// Evaluator aggregates per-answer scores into a final evaluation.
type Evaluator interface {
	Finalize(config models.InterviewConfig, responses []models.Response, scores []models.AnswerScore) *models.FinalEvaluation
}

type evaluator struct{}

func NewEvaluator() Evaluator {
	return &evaluator{}
}

// Finalize groups per-answer scores by skill (same-skill scores combine by
// running average), derives the overall score as the unweighted mean of the
// per-skill scores, and builds the recommendation, red flags and summary
// from the computed data. Rubric weights are persisted for reviewer context
// but not applied here.
func (e *evaluator) Finalize(config models.InterviewConfig, responses []models.Response, scores []models.AnswerScore) *models.FinalEvaluation {
	if len(scores) == 0 {
		return &models.FinalEvaluation{
			OverallScore:   50,
			Recommendation: models.RecommendReview,
			SkillBreakdown: map[string]models.SkillScore{},
			RedFlags:       []string{"No evaluation data available"},
			Summary:        "Unable to evaluate - insufficient data",
			Confidence:     0.3,
			Degraded:       true,
		}
	}

	breakdown := map[string]models.SkillScore{}
	var skillOrder []string
	var allStrengths, allWeaknesses []string
	var flags []string

	for _, item := range scores {
		skill := item.Skill
		if skill == "" {
			skill = "General"
		}

		existing, seen := breakdown[skill]
		if !seen {
			breakdown[skill] = models.SkillScore{
				Skill:      skill,
				Score:      item.Score,
				Evidence:   append([]string{}, item.Evidence...),
				Confidence: item.Confidence,
			}
			skillOrder = append(skillOrder, skill)
		} else {
			existing.Score = int(math.Round(float64(existing.Score+item.Score) / 2))
			existing.Evidence = append(existing.Evidence, item.Evidence...)
			existing.Confidence = (existing.Confidence + item.Confidence) / 2
			breakdown[skill] = existing
		}

		allStrengths = append(allStrengths, item.Strengths...)
		allWeaknesses = append(allWeaknesses, item.Weaknesses...)
		flags = append(flags, item.RedFlags...)
	}

	scoreSum := 0
	confidenceSum := 0.0
	for _, skill := range skillOrder {
		scoreSum += breakdown[skill].Score
		confidenceSum += breakdown[skill].Confidence
	}
	overall := int(math.Round(float64(scoreSum) / float64(len(skillOrder))))
	confidence := confidenceSum / float64(len(skillOrder))

	recommendation := models.RecommendReview
	switch {
	case overall >= proceedThreshold:
		recommendation = models.RecommendProceed
	case overall >= borderlineThreshold:
		recommendation = models.RecommendBorderline
	}

	derived := []string{}
	if overall < 50 {
		derived = append(derived, "Below expected performance level")
	}
	if confidence < 0.6 {
		derived = append(derived, "Inconsistent answer quality")
	}

	redFlags := dedupeOrdered(append(derived, flags...))

	return &models.FinalEvaluation{
		OverallScore:   clampInt(overall, 0, 100),
		Recommendation: recommendation,
		SkillBreakdown: breakdown,
		RedFlags:       redFlags,
		Summary:        buildSummary(overall, skillOrder, breakdown, allStrengths, allWeaknesses, redFlags),
		Confidence:     math.Round(clampFloat(confidence, 0, 1)*100) / 100,
	}
}

// buildSummary selects a paragraph by score band and fills it with the
// actual skill names, strengths, weaknesses and flags of this session.
func buildSummary(overall int, skills []string, breakdown map[string]models.SkillScore, strengths, weaknesses, redFlags []string) string {
	highScores := 0
	lowScores := 0
	for _, skill := range skills {
		if breakdown[skill].Score >= proceedThreshold {
			highScores++
		}
		if breakdown[skill].Score < borderlineThreshold {
			lowScores++
		}
	}

	var sb strings.Builder

	switch {
	case overall >= 85:
		fmt.Fprintf(&sb, "Exceptional performance with %d/100 overall. ", overall)
		if highScores == len(skills) {
			fmt.Fprintf(&sb, "Demonstrated strong expertise across all evaluated skills: %s. ", strings.Join(skills, ", "))
		} else {
			fmt.Fprintf(&sb, "Strong technical depth in %s. ", strings.Join(firstN(skills, 2), " and "))
		}
		if len(strengths) > 0 {
			fmt.Fprintf(&sb, "Key strengths include %s.", strings.Join(firstN(strengths, 2), " and "))
		}
	case overall >= proceedThreshold:
		fmt.Fprintf(&sb, "Solid performance with %d/100 overall. ", overall)
		fmt.Fprintf(&sb, "Good understanding of %s with practical knowledge. ", strings.Join(skills, ", "))
		if len(weaknesses) > 0 {
			fmt.Fprintf(&sb, "Minor improvements needed in %s.", strings.ToLower(weaknesses[0]))
		} else {
			sb.WriteString("Ready for next interview stage.")
		}
	case overall >= borderlineThreshold:
		fmt.Fprintf(&sb, "Moderate performance with %d/100 overall. ", overall)
		if lowScores > 0 {
			fmt.Fprintf(&sb, "Gaps identified in %d skill area%s. ", lowScores, plural(lowScores))
		}
		if len(weaknesses) > 0 {
			fmt.Fprintf(&sb, "Needs improvement in %s.", strings.Join(firstN(weaknesses, 2), " and "))
		} else {
			sb.WriteString("Additional technical depth required.")
		}
	case overall >= 40:
		fmt.Fprintf(&sb, "Below expectations with %d/100 overall. ", overall)
		fmt.Fprintf(&sb, "Significant gaps in %s. ", strings.Join(skills, ", "))
		if len(redFlags) > 0 {
			fmt.Fprintf(&sb, "Concerns: %s.", strings.ToLower(redFlags[0]))
		} else {
			sb.WriteString("Fundamental concepts not clearly demonstrated.")
		}
	default:
		fmt.Fprintf(&sb, "Poor performance with %d/100 overall. ", overall)
		sb.WriteString("Lacks basic understanding of required skills. ")
		if len(redFlags) > 0 {
			fmt.Fprintf(&sb, "Critical issues: %s.", strings.ToLower(strings.Join(firstN(redFlags, 2), ", ")))
		} else {
			sb.WriteString("Not recommended for this role.")
		}
	}

	return sb.String()
}

// dedupeOrdered removes duplicates preserving first occurrence.
func dedupeOrdered(items []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// SortedSkills returns the breakdown's skill names in stable order, for
// views that render a breakdown map.
func SortedSkills(breakdown map[string]models.SkillScore) []string {
	skills := make([]string, 0, len(breakdown))
	for skill := range breakdown {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	return skills
}
