package impact

import (
	"testing"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

func TestEstimateFixNeverMutatesInput(t *testing.T) {
	original := models.QuestionResult{
		Question: models.Question{ID: "q1", Category: models.CategoryOfferings},
		Context: models.RetrievedContext{
			Count:    1,
			AvgScore: 0.2,
			MaxScore: 0.2,
			Results:  []models.RetrievalResult{{DocID: "d1", Content: "we do things"}},
		},
		Signals: []models.SignalMatch{{Signal: "pricing", Found: false}},
		SignalsTotal: 1,
		Score:        0.2,
		Confidence:   models.ConfidenceLow,
	}
	snapshot := original

	fix := models.Fix{ID: "fix-1", ReasonCode: models.ReasonMissingPricing, Scaffold: "Add pricing information now."}
	e := NewTierBEstimator()
	_ = e.EstimateFix(fix, []models.QuestionResult{original}, 15)

	if len(original.Context.Results) != len(snapshot.Context.Results) {
		t.Fatalf("input Context.Results length mutated")
	}
	if original.Score != snapshot.Score {
		t.Errorf("input Score mutated: %f != %f", original.Score, snapshot.Score)
	}
	if original.SignalsFound != snapshot.SignalsFound {
		t.Errorf("input SignalsFound mutated")
	}
	if original.Signals[0].Found != snapshot.Signals[0].Found {
		t.Errorf("input Signals mutated")
	}
}

func TestPatchQuestionResultImprovesScore(t *testing.T) {
	qr := models.QuestionResult{
		Question: models.Question{ID: "q1", Category: models.CategoryOfferings},
		Context: models.RetrievedContext{
			Count: 1, AvgScore: 0.05, MaxScore: 0.05,
			Results: []models.RetrievalResult{{DocID: "d1"}},
		},
		Signals:      []models.SignalMatch{{Signal: "pricing", Found: false}},
		SignalsTotal: 1,
		Score:        0.1,
		Confidence:   models.ConfidenceLow,
	}
	fix := models.Fix{ID: "fix-1", ReasonCode: models.ReasonMissingPricing, Scaffold: "Our pricing starts at $10/month."}
	patched := patchQuestionResult(qr, fix, signalPatterns[models.ReasonMissingPricing], DefaultTierBOptions())

	if patched.Score <= qr.Score {
		t.Errorf("expected patched score to improve, got %f vs original %f", patched.Score, qr.Score)
	}
	if patched.SignalsFound != 1 {
		t.Errorf("expected pricing signal to be found post-patch, got %d", patched.SignalsFound)
	}
}

func TestEstimateFixScalesAcrossFullSimAndRangeOrdering(t *testing.T) {
	qr := models.QuestionResult{
		Question: models.Question{ID: "q1", Category: models.CategoryOfferings},
		Context: models.RetrievedContext{
			Count: 1, AvgScore: 0.05, MaxScore: 0.05,
			Results: []models.RetrievalResult{{DocID: "d1"}},
		},
		Signals:      []models.SignalMatch{{Signal: "pricing", Found: false}},
		SignalsTotal: 1,
		Score:        0.1,
		Confidence:   models.ConfidenceLow,
	}
	fix := models.Fix{ID: "fix-1", ReasonCode: models.ReasonMissingPricing, Scaffold: "Our pricing starts at $10/month."}
	e := NewTierBEstimator()

	rng := e.EstimateFix(fix, []models.QuestionResult{qr}, 15)

	if rng.Min < 0 {
		t.Errorf("range.Min must be clipped at zero, got %f", rng.Min)
	}
	if !(rng.Min <= rng.Expected && rng.Expected <= rng.Max) {
		t.Errorf("expected min <= expected <= max, got %+v", rng)
	}
	// one improved question out of one affected -> frac=1.0 -> high confidence.
	if rng.Confidence != models.ConfidenceHigh {
		t.Errorf("expected high confidence when 100%% of affected questions improved, got %s", rng.Confidence)
	}

	wide := e.EstimateFix(fix, []models.QuestionResult{qr}, 3)
	if wide.Expected <= rng.Expected {
		t.Errorf("scaling across fewer total questions should yield a larger plan-level delta: %f vs %f", wide.Expected, rng.Expected)
	}
}
