// Package scoring aggregates a SimulationResult into a transparent 0-100
// ScoreBreakdown, stateless given a versioned Rubric.
package scoring

import (
	"fmt"
	"math"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
	"github.com/avgjoe1017/findable-v1-sub000/internal/retrieval"
)

// Rubric is the versioned set of weights, multipliers and thresholds
// governing scoring.
type Rubric struct {
	Version               string
	CriterionWeights       map[string]float64 // sum to 1.0
	CategoryWeights        map[models.Category]float64
	DifficultyMultipliers  map[models.Difficulty]float64
	GradeThresholds        []gradeStep
}

type gradeStep struct {
	min   float64
	grade string
	desc  string
}

// DefaultRubric is the versioned "1.0" rubric.
func DefaultRubric() Rubric {
	return Rubric{
		Version: "1.0",
		CriterionWeights: map[string]float64{
			"content_relevance": 0.35,
			"signal_coverage":   0.35,
			"answer_confidence": 0.20,
			"source_quality":    0.10,
		},
		CategoryWeights: map[models.Category]float64{
			models.CategoryIdentity:        0.25,
			models.CategoryOfferings:       0.30,
			models.CategoryContact:         0.15,
			models.CategoryTrust:           0.15,
			models.CategoryDifferentiation: 0.15,
		},
		DifficultyMultipliers: map[models.Difficulty]float64{
			models.DifficultyEasy:   1.0,
			models.DifficultyMedium: 1.2,
			models.DifficultyHard:   1.5,
		},
		GradeThresholds: []gradeStep{
			{97, "A+", "Outstanding"},
			{93, "A", "Excellent"},
			{90, "A-", "Very good"},
			{87, "B+", "Good"},
			{83, "B", "Above average"},
			{80, "B-", "Adequate"},
			{77, "C+", "Fair"},
			{73, "C", "Average"},
			{70, "C-", "Below average"},
			{67, "D+", "Weak"},
			{63, "D", "Poor"},
			{60, "D-", "Very poor"},
			{0, "F", "Failing"},
		},
	}
}

// QuestionDetail is one row of the per-question score detail step list.
type QuestionDetail struct {
	QuestionID string
	Base       float64
	Final      float64
}

// Breakdown is the result of Calculate; maps 1:1 onto models.ScoreSection
// plus per-question detail and step explanations used for the formula audit.
type Breakdown struct {
	Section         models.ScoreSection
	QuestionDetails []QuestionDetail
}

// Calculate produces a ScoreBreakdown from a SimulationResult under the
// given Rubric.
func Calculate(sim models.SimulationResult, rubric Rubric) Breakdown {
	n := len(sim.Results)

	var relSum, confSum, sourceRelSum float64
	var signalsFound, signalsTotal int
	uniqueSources := make(map[string]struct{})

	var details []QuestionDetail
	catRaw := make(map[models.Category][]float64)

	for _, qr := range sim.Results {
		relevance := retrieval.Normalize(qr.Context.AvgScore)
		maxRel := retrieval.Normalize(qr.Context.MaxScore)
		relSum += relevance
		confSum += qr.Confidence.Num()
		sourceRelSum += maxRel
		signalsFound += qr.SignalsFound
		signalsTotal += qr.SignalsTotal
		for _, u := range qr.Context.UniqueSources {
			uniqueSources[u] = struct{}{}
		}

		signalRatio := 0.5
		if qr.SignalsTotal > 0 {
			signalRatio = float64(qr.SignalsFound) / float64(qr.SignalsTotal)
		}
		base := 0.4*relevance + 0.4*signalRatio + 0.2*qr.Confidence.Num()
		mult := rubric.DifficultyMultipliers[qr.Question.Difficulty]
		final := math.Min(1, base*mult) * rubric.CategoryWeights[qr.Question.Category]
		details = append(details, QuestionDetail{QuestionID: qr.Question.ID, Base: base, Final: final})
		catRaw[qr.Question.Category] = append(catRaw[qr.Question.Category], qr.Score*100)
	}

	contentRelevance := safeAvg(relSum, n)
	signalCoverage := 0.0
	if signalsTotal > 0 {
		signalCoverage = float64(signalsFound) / float64(signalsTotal)
	}
	answerConfidence := safeAvg(confSum, n)
	sourceQuality := 0.3*math.Min(1, float64(len(uniqueSources))/10) + 0.7*safeAvg(sourceRelSum, n)

	criteria := map[string]float64{
		"content_relevance": contentRelevance,
		"signal_coverage":   signalCoverage,
		"answer_confidence": answerConfidence,
		"source_quality":    sourceQuality,
	}

	var criterionTotal float64
	var criterionScores []models.CriterionScore
	for _, name := range []string{"content_relevance", "signal_coverage", "answer_confidence", "source_quality"} {
		raw := criteria[name]
		w := rubric.CriterionWeights[name]
		points := raw * w * 100
		criterionTotal += points
		criterionScores = append(criterionScores, models.CriterionScore{Name: name, Raw: raw, Weight: w, Points: points})
	}
	criterionTotal = clamp(criterionTotal, 0, 100)

	categoryScores := make(map[models.Category]float64)
	var categoryTotal float64
	for cat, weight := range rubric.CategoryWeights {
		vals := catRaw[cat]
		avg := 0.0
		if len(vals) > 0 {
			var s float64
			for _, v := range vals {
				s += v
			}
			avg = s / float64(len(vals))
		}
		categoryScores[cat] = avg
		categoryTotal += avg * weight
	}
	categoryTotal = clamp(categoryTotal, 0, 100)

	// Decided Open Question #1: clamp each sub-total independently before
	// blending, then clamp the blended result again as a defensive step.
	total := clamp(0.7*criterionTotal+0.3*categoryTotal, 0, 100)

	grade, desc := gradeFor(total, rubric.GradeThresholds)

	section := models.ScoreSection{
		TotalScore:       round2(total),
		Grade:            grade,
		GradeDescription: desc,
		CategoryScores:   roundCategoryMap(categoryScores),
		CriterionScores:  criterionScores,
		TotalQuestions:   n,
		RubricVersion:    rubric.Version,
		FormulaUsed: fmt.Sprintf(
			"total = clamp(0.7 * criterion_total + 0.3 * category_total, 0, 100); "+
				"criterion_total = clamp(sum(raw_i * weight_i * 100), 0, 100); "+
				"category_total = clamp(sum(category_avg_c * category_weight_c), 0, 100)"),
		CalculationSummary: []string{
			fmt.Sprintf("content_relevance=%.3f signal_coverage=%.3f answer_confidence=%.3f source_quality=%.3f",
				contentRelevance, signalCoverage, answerConfidence, sourceQuality),
			fmt.Sprintf("criterion_total=%.2f category_total=%.2f", criterionTotal, categoryTotal),
		},
	}
	section.QuestionsAnswered = sim.Answered
	section.QuestionsPartial = sim.Partial
	section.QuestionsUnanswered = sim.Unanswered
	section.CoveragePercentage = round2(sim.CoveragePercent)

	return Breakdown{Section: section, QuestionDetails: details}
}

func gradeFor(score float64, steps []gradeStep) (string, string) {
	for _, s := range steps {
		if score >= s.min {
			return s.grade, s.desc
		}
	}
	return "F", "Failing"
}

func safeAvg(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundCategoryMap(m map[models.Category]float64) map[models.Category]float64 {
	out := make(map[models.Category]float64, len(m))
	for k, v := range m {
		out[k] = round2(v)
	}
	return out
}
