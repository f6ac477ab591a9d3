// Package impact estimates the score improvement a Fix or FixPlan would
// produce, using a fast lookup-based tier (C) and a synthetic re-scoring
// tier (B).
package impact

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/avgjoe1017/findable-v1-sub000/internal/fixes"
	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

// reasonCodeBaseImpact holds (min, expected, max) point improvements,
// transcribed verbatim from the reference lookup table.
var reasonCodeBaseImpact = map[models.ReasonCode][3]float64{
	models.ReasonMissingDefinition:  {3.0, 5.0, 8.0},
	models.ReasonMissingPricing:     {2.5, 4.5, 7.0},
	models.ReasonMissingContact:     {2.0, 3.5, 5.0},
	models.ReasonMissingLocation:    {1.0, 2.0, 3.5},
	models.ReasonMissingFeatures:    {2.0, 4.0, 6.0},
	models.ReasonMissingSocialProof: {1.5, 3.0, 5.0},
	models.ReasonBuriedAnswer:       {1.0, 2.5, 4.0},
	models.ReasonFragmentedInfo:     {0.5, 1.5, 3.0},
	models.ReasonNoDedicatedPage:    {1.5, 3.0, 5.0},
	models.ReasonPoorHeadings:       {0.5, 1.0, 2.0},
	models.ReasonNotCitable:         {0.5, 1.5, 2.5},
	models.ReasonVagueLanguage:      {0.5, 1.5, 3.0},
	models.ReasonOutdatedInfo:       {1.0, 2.5, 4.0},
	models.ReasonInconsistent:       {2.0, 4.0, 6.0},
	models.ReasonTrustGap:           {1.0, 2.5, 4.0},
	models.ReasonNoAuthority:        {0.5, 1.5, 3.0},
	models.ReasonUnverifiedClaims:   {0.5, 1.5, 2.5},
	models.ReasonRenderRequired:     {3.0, 6.0, 10.0},
	models.ReasonBlockedByRobots:    {4.0, 8.0, 12.0},
}

var defaultBaseImpact = [3]float64{0.5, 1.0, 2.0}

var questionCountMultipliers = map[int]float64{
	1: 1.0,
	2: 1.5,
	3: 1.8,
	4: 2.0,
	5: 2.2,
}

var categoryWeightFactors = map[models.Category]float64{
	models.CategoryIdentity:        1.0,
	models.CategoryOfferings:       1.2,
	models.CategoryContact:         1.1,
	models.CategoryTrust:           1.0,
	models.CategoryDifferentiation: 0.9,
}

// TierCEstimator estimates impact using the precomputed lookup tables.
type TierCEstimator struct {
	MaxTotalImpact float64
}

// NewTierCEstimator returns an estimator with the recognized cap.
func NewTierCEstimator() TierCEstimator {
	return TierCEstimator{MaxTotalImpact: 30.0}
}

// FixEstimate is the per-fix breakdown accompanying an ImpactRange.
type FixEstimate struct {
	FixID               string
	ReasonCode          models.ReasonCode
	Range               models.ImpactRange
	AffectedQuestions   int
	AffectedCategories  []models.Category
	BaseImpact          float64
	QuestionMultiplier  float64
	CategoryMultiplier  float64
}

// EstimateFix produces an ImpactRange for one Fix.
func (e TierCEstimator) EstimateFix(fix models.Fix) FixEstimate {
	base, ok := reasonCodeBaseImpact[fix.ReasonCode]
	if !ok {
		base = defaultBaseImpact
	}

	questionCount := len(fix.AffectedQuestionIDs)
	questionMult := questionMultiplier(questionCount)
	categoryMult := categoryMultiplier(fix.AffectedCategories)

	minPoints := base[0] * questionMult * categoryMult
	expectedPoints := base[1] * questionMult * categoryMult
	maxPoints := base[2] * questionMult * categoryMult

	info := fixes.GetInfo(fix.ReasonCode)
	confidence := determineConfidence(info.Severity, questionCount)

	explanation := buildExplanation(info.Name, questionCount, fix.AffectedCategories, expectedPoints)
	assumptions := buildAssumptions(info.Category, questionCount)

	return FixEstimate{
		FixID:      fix.ID,
		ReasonCode: fix.ReasonCode,
		Range: models.ImpactRange{
			Min:         minPoints,
			Expected:    expectedPoints,
			Max:         maxPoints,
			Confidence:  confidence,
			Tier:        models.ImpactTierC,
			Explanation: explanation,
			Assumptions: assumptions,
		},
		AffectedQuestions:  questionCount,
		AffectedCategories: fix.AffectedCategories,
		BaseImpact:         base[1],
		QuestionMultiplier: questionMult,
		CategoryMultiplier: categoryMult,
	}
}

// EstimatePlan produces a FixPlanImpact for an entire FixPlan.
func (e TierCEstimator) EstimatePlan(plan models.FixPlan) models.FixPlanImpact {
	estimates := make([]FixEstimate, 0, len(plan.Fixes))
	for _, fix := range plan.Fixes {
		estimates = append(estimates, e.EstimateFix(fix))
	}

	sort.SliceStable(estimates, func(i, j int) bool {
		return estimates[i].Range.Expected > estimates[j].Range.Expected
	})

	totalMin, totalExpected, totalMax := calculateTotals(estimates)
	totalMin = math.Min(totalMin, e.MaxTotalImpact)
	totalExpected = math.Min(totalExpected, e.MaxTotalImpact)
	totalMax = math.Min(totalMax, e.MaxTotalImpact)

	perFix := make(map[string]models.ImpactRange, len(estimates))
	for _, est := range estimates {
		perFix[est.FixID] = est.Range
	}

	overallConfidence := determineOverallConfidence(estimates)
	notes := buildPlanNotes(estimates, totalExpected)

	return models.FixPlanImpact{
		PerFix:            perFix,
		TotalMin:          round2(totalMin),
		TotalExpected:     round2(totalExpected),
		TotalMax:          round2(totalMax),
		OverallConfidence: overallConfidence,
		Notes:             notes,
	}
}

func questionMultiplier(count int) float64 {
	if m, ok := questionCountMultipliers[count]; ok {
		return m
	}
	return math.Min(2.5, 2.2+float64(count-5)*0.05)
}

func categoryMultiplier(categories []models.Category) float64 {
	if len(categories) == 0 {
		return 1.0
	}
	max := 0.0
	for _, c := range categories {
		w, ok := categoryWeightFactors[c]
		if !ok {
			w = 1.0
		}
		if w > max {
			max = w
		}
	}
	return max
}

func determineConfidence(severity string, questionCount int) models.ConfidenceLevel {
	if severity == "critical" && questionCount <= 2 {
		return models.ConfidenceHigh
	}
	if severity == "critical" || severity == "high" || questionCount <= 3 {
		return models.ConfidenceMedium
	}
	return models.ConfidenceLow
}

func buildExplanation(name string, questionCount int, categories []models.Category, expected float64) string {
	catStr := "general"
	if len(categories) > 0 {
		parts := make([]string, len(categories))
		for i, c := range categories {
			parts[i] = string(c)
		}
		catStr = strings.Join(parts, ", ")
	}
	return fmt.Sprintf(
		"Fixing '%s' is expected to improve your score by ~%.1f points. "+
			"This fix affects %d question(s) in the %s category/categories.",
		name, expected, questionCount, catStr)
}

func buildAssumptions(category string, questionCount int) []string {
	assumptions := []string{
		"Based on Tier C precomputed lookup tables",
		"Assumes fix is fully implemented as suggested",
		"Does not account for content quality variations",
	}
	if questionCount > 3 {
		assumptions = append(assumptions, "Multiple questions may have overlapping improvements")
	}
	if category == "technical" {
		assumptions = append(assumptions, "Technical fixes may have broader impact than estimated")
	}
	return assumptions
}

func calculateTotals(estimates []FixEstimate) (min, expected, max float64) {
	if len(estimates) == 0 {
		return 0, 0, 0
	}
	efficiency := 1.0
	for i, est := range estimates {
		if i > 0 {
			efficiency *= 0.8
		}
		min += est.Range.Min * efficiency
		expected += est.Range.Expected * efficiency
		max += est.Range.Max * efficiency
	}
	return min, expected, max
}

func determineOverallConfidence(estimates []FixEstimate) models.ConfidenceLevel {
	if len(estimates) == 0 {
		return models.ConfidenceLow
	}
	high, low := 0, 0
	for _, e := range estimates {
		switch e.Range.Confidence {
		case models.ConfidenceHigh:
			high++
		case models.ConfidenceLow:
			low++
		}
	}
	half := float64(len(estimates)) / 2
	switch {
	case float64(high) > half:
		return models.ConfidenceHigh
	case float64(low) > half:
		return models.ConfidenceLow
	default:
		return models.ConfidenceMedium
	}
}

func buildPlanNotes(estimates []FixEstimate, totalExpected float64) []string {
	var notes []string
	switch {
	case totalExpected >= 15:
		notes = append(notes, "Significant improvement potential - prioritize these fixes")
	case totalExpected >= 8:
		notes = append(notes, "Good improvement potential with the recommended fixes")
	default:
		notes = append(notes, "Moderate improvement expected - consider additional optimizations")
	}

	for _, e := range estimates {
		info := fixes.GetInfo(e.ReasonCode)
		if info.Category == "technical" {
			notes = append(notes, "Technical fixes should be addressed first as they may block other improvements")
			break
		}
	}

	notes = append(notes, "Tier C estimates are conservative. Use Tier B for more accurate projections on specific fixes.")
	return notes
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
