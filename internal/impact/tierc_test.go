package impact

import (
	"testing"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

func TestEstimateFixUsesLookupTable(t *testing.T) {
	e := NewTierCEstimator()
	fix := models.Fix{
		ID: "fix-1", ReasonCode: models.ReasonMissingPricing,
		AffectedQuestionIDs: []string{"q1"},
		AffectedCategories:  []models.Category{models.CategoryOfferings},
	}
	est := e.EstimateFix(fix)

	// base (2.5, 4.5, 7.0) * questionMult(1)=1.0 * categoryMult(offerings)=1.2
	if got, want := est.Range.Min, 2.5*1.2; !closeEnough(got, want) {
		t.Errorf("min = %f, want %f", got, want)
	}
	if got, want := est.Range.Expected, 4.5*1.2; !closeEnough(got, want) {
		t.Errorf("expected = %f, want %f", got, want)
	}
	if got, want := est.Range.Max, 7.0*1.2; !closeEnough(got, want) {
		t.Errorf("max = %f, want %f", got, want)
	}
}

func TestEstimateFixConfidenceBranches(t *testing.T) {
	cases := []struct {
		severity string
		count    int
		want     models.ConfidenceLevel
	}{
		{"critical", 1, models.ConfidenceHigh},
		{"critical", 2, models.ConfidenceHigh},
		{"critical", 3, models.ConfidenceMedium},
		{"high", 1, models.ConfidenceMedium},
		{"medium", 3, models.ConfidenceMedium},
		{"medium", 10, models.ConfidenceLow},
	}
	for _, c := range cases {
		got := determineConfidence(c.severity, c.count)
		if got != c.want {
			t.Errorf("determineConfidence(%s, %d) = %s, want %s", c.severity, c.count, got, c.want)
		}
	}
}

func TestEstimatePlanCapsAtMaxTotal(t *testing.T) {
	e := TierCEstimator{MaxTotalImpact: 5.0}
	plan := models.FixPlan{Fixes: []models.Fix{
		{ID: "f1", ReasonCode: models.ReasonBlockedByRobots, AffectedQuestionIDs: []string{"q1", "q2", "q3", "q4", "q5"}},
		{ID: "f2", ReasonCode: models.ReasonRenderRequired, AffectedQuestionIDs: []string{"q6"}},
	}}
	result := e.EstimatePlan(plan)
	if result.TotalMin > 5.0 || result.TotalExpected > 5.0 || result.TotalMax > 5.0 {
		t.Errorf("expected totals capped at 5.0, got min=%f expected=%f max=%f",
			result.TotalMin, result.TotalExpected, result.TotalMax)
	}
}

func TestEstimatePlanDiminishingReturns(t *testing.T) {
	e := NewTierCEstimator()
	plan := models.FixPlan{Fixes: []models.Fix{
		{ID: "f1", ReasonCode: models.ReasonMissingPricing, AffectedQuestionIDs: []string{"q1"}},
		{ID: "f2", ReasonCode: models.ReasonPoorHeadings, AffectedQuestionIDs: []string{"q2"}},
	}}
	result := e.EstimatePlan(plan)

	f1 := result.PerFix["f1"].Expected
	f2 := result.PerFix["f2"].Expected
	// f1 has larger base impact so sorts first; total should be less than naive sum
	// because the second fix is discounted by 0.8.
	naiveSum := f1 + f2
	if result.TotalExpected >= naiveSum {
		t.Errorf("expected diminishing-returns total < naive sum %f, got %f", naiveSum, result.TotalExpected)
	}
}

func TestEstimatePlanEmptyFixes(t *testing.T) {
	e := NewTierCEstimator()
	result := e.EstimatePlan(models.FixPlan{})
	if result.TotalExpected != 0 {
		t.Errorf("expected zero total for empty plan, got %f", result.TotalExpected)
	}
	if result.OverallConfidence != models.ConfidenceLow {
		t.Errorf("expected low confidence for empty plan, got %s", result.OverallConfidence)
	}
}

func closeEnough(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 0.001
}
