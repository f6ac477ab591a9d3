package fixes

import (
	"testing"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

func questionResult(id string, cat models.Category, answerability models.Answerability, score float64, signalsFound, signalsTotal int, chunkCount int) models.QuestionResult {
	return models.QuestionResult{
		Question: models.Question{
			ID: id, Category: cat, Weight: 1.0,
			Text: "What is the pricing for {company}?",
		},
		Context:       models.RetrievedContext{Count: chunkCount, AvgScore: 0.5},
		Answerability: answerability,
		Confidence:    models.ConfidenceMedium,
		Score:         score,
		SignalsFound:  signalsFound,
		SignalsTotal:  signalsTotal,
	}
}

func TestIdentifyProblems(t *testing.T) {
	opts := DefaultOptions()
	sim := models.SimulationResult{Results: []models.QuestionResult{
		questionResult("q1", models.CategoryOfferings, models.AnswerNot, 0, 0, 2, 0),
		questionResult("q2", models.CategoryOfferings, models.AnswerFully, 0.95, 2, 2, 3),
		questionResult("q3", models.CategoryOfferings, models.AnswerPartially, 0.4, 1, 2, 2),
		questionResult("q4", models.CategoryOfferings, models.AnswerFully, 0.3, 2, 2, 3),
	}}

	problems := identifyProblems(sim, opts)
	if len(problems) != 3 {
		t.Fatalf("expected 3 problem questions, got %d", len(problems))
	}
	ids := map[string]bool{}
	for _, p := range problems {
		ids[p.Question.ID] = true
	}
	for _, want := range []string{"q1", "q3", "q4"} {
		if !ids[want] {
			t.Errorf("expected %s to be flagged as a problem", want)
		}
	}
	if ids["q2"] {
		t.Errorf("q2 should not be flagged as a problem")
	}
}

func TestDiagnoseZeroChunksByCategory(t *testing.T) {
	cases := []struct {
		cat  models.Category
		want models.ReasonCode
	}{
		{models.CategoryOfferings, models.ReasonMissingFeatures},
		{models.CategoryContact, models.ReasonMissingContact},
		{models.CategoryTrust, models.ReasonMissingSocialProof},
		{models.CategoryIdentity, models.ReasonMissingDefinition},
		{models.CategoryDifferentiation, models.ReasonNoDedicatedPage},
	}
	opts := DefaultOptions()
	for _, c := range cases {
		qr := questionResult("q", c.cat, models.AnswerNot, 0, 0, 2, 0)
		codes := diagnose(qr, opts)
		if len(codes) == 0 || codes[0] != c.want {
			t.Errorf("category %s: expected first code %s, got %v", c.cat, c.want, codes)
		}
	}
}

func TestDiagnoseContradictoryTakesPrecedence(t *testing.T) {
	qr := questionResult("q", models.CategoryOfferings, models.AnswerContradictory, 0.2, 0, 2, 1)
	codes := diagnose(qr, DefaultOptions())
	if len(codes) == 0 || codes[0] != models.ReasonInconsistent {
		t.Fatalf("expected inconsistent as first code, got %v", codes)
	}
}

func TestGenerateRanksByPriorityThenImpact(t *testing.T) {
	sim := models.SimulationResult{Results: []models.QuestionResult{
		questionResult("q1", models.CategoryIdentity, models.AnswerNot, 0, 0, 2, 0),
		questionResult("q2", models.CategoryContact, models.AnswerNot, 0, 0, 2, 0),
	}}
	plan := Generate(sim, "Acme", DefaultOptions())

	// q1 yields MISSING_DEFINITION and q2 MISSING_CONTACT; both question texts
	// mention pricing, so each also yields MISSING_PRICING, grouped into one fix.
	if len(plan.Fixes) != 3 {
		t.Fatalf("expected 3 fixes, got %d", len(plan.Fixes))
	}
	for i := 1; i < len(plan.Fixes); i++ {
		if plan.Fixes[i-1].Priority > plan.Fixes[i].Priority {
			t.Errorf("fixes not sorted by ascending priority: %+v", plan.Fixes)
		}
		if plan.Fixes[i-1].Priority == plan.Fixes[i].Priority && plan.Fixes[i-1].EstimatedImpact < plan.Fixes[i].EstimatedImpact {
			t.Errorf("fixes of equal priority not sorted by descending impact: %+v", plan.Fixes)
		}
	}
	if plan.EstimatedTotalImpact > 1 {
		t.Errorf("total impact must be clamped to 1, got %f", plan.EstimatedTotalImpact)
	}
	for _, f := range plan.Fixes {
		if f.EstimatedImpact < 0 || f.EstimatedImpact > 0.5 {
			t.Errorf("fix %s impact %f out of [0,0.5]", f.ID, f.EstimatedImpact)
		}
	}
}

func TestGenerateSubstitutesCompanyName(t *testing.T) {
	sim := models.SimulationResult{Results: []models.QuestionResult{
		questionResult("q1", models.CategoryIdentity, models.AnswerNot, 0, 0, 2, 0),
	}}
	plan := Generate(sim, "Acme Corp", DefaultOptions())
	if len(plan.Fixes) == 0 {
		t.Fatal("expected at least one fix")
	}
	if !contains(plan.Fixes[0].Scaffold, "Acme Corp") {
		t.Errorf("expected scaffold to mention company name, got %q", plan.Fixes[0].Scaffold)
	}
	if contains(plan.Fixes[0].Scaffold, "[COMPANY_NAME]") {
		t.Errorf("expected [COMPANY_NAME] token to be substituted, got %q", plan.Fixes[0].Scaffold)
	}
}

func TestGenerateTruncatesToMaxFixes(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxFixes = 1
	sim := models.SimulationResult{Results: []models.QuestionResult{
		questionResult("q1", models.CategoryIdentity, models.AnswerNot, 0, 0, 2, 0),
		questionResult("q2", models.CategoryContact, models.AnswerNot, 0, 0, 2, 0),
		questionResult("q3", models.CategoryTrust, models.AnswerNot, 0, 0, 2, 0),
	}}
	plan := Generate(sim, "Acme", opts)
	if len(plan.Fixes) != 1 {
		t.Fatalf("expected fixes truncated to 1, got %d", len(plan.Fixes))
	}
}

func contains(s, sub string) bool {
	return indexOf(s, sub) >= 0
}
