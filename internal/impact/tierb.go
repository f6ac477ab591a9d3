package impact

import (
	"strings"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

// TierBOptions configures the synthetic-patch re-scoring estimator.
type TierBOptions struct {
	TopN               int
	BaseRelevanceBoost float64
	MaxRelevanceScore  float64
	SignalConfidence   float64
}

// DefaultTierBOptions returns the recognized defaults.
func DefaultTierBOptions() TierBOptions {
	return TierBOptions{
		TopN:               5,
		BaseRelevanceBoost: 0.3,
		MaxRelevanceScore:  0.95,
		SignalConfidence:   0.9,
	}
}

// signalPatterns maps a reason code to keyword fragments used to decide
// which expected signals a synthetic patch "adds" when re-scored.
var signalPatterns = map[models.ReasonCode][]string{
	models.ReasonMissingDefinition:  {"what", "is", "does"},
	models.ReasonMissingPricing:     {"price", "cost", "pricing", "fee"},
	models.ReasonMissingContact:     {"contact", "email", "phone", "reach"},
	models.ReasonMissingLocation:    {"location", "headquartered", "operate"},
	models.ReasonMissingFeatures:    {"feature", "product", "service", "offer"},
	models.ReasonMissingSocialProof: {"review", "testimonial", "case study", "client"},
	models.ReasonTrustGap:           {"certified", "accredited", "verified"},
}

// TierBEstimator re-scores the questions affected by a fix against a
// synthetic patch chunk built from the fix's scaffold text, never mutating
// the SimulationResult it is given.
type TierBEstimator struct {
	Opts TierBOptions
}

// NewTierBEstimator returns an estimator with the recognized defaults.
func NewTierBEstimator() TierBEstimator {
	return TierBEstimator{Opts: DefaultTierBOptions()}
}

// EstimateFix patches a copy of each affected QuestionResult with a
// synthetic chunk derived from the fix's scaffold, re-derives relevance and
// signal coverage, and scales the aggregate delta across totalQuestionsInSim
// (the full simulation's question count, not just this fix's affected set)
// per the plan-improvement formula: scaled = (sum(delta)/total)*100, with
// the reported range (0.8*scaled, 1.2*scaled, expected=scaled), clipped at
// zero. Confidence is derived from the fraction of patched questions that
// improved by more than 0.05.
func (e TierBEstimator) EstimateFix(fix models.Fix, affected []models.QuestionResult, totalQuestionsInSim int) models.ImpactRange {
	patterns := signalPatterns[fix.ReasonCode]

	var sumDelta float64
	improved := 0
	for _, qr := range affected {
		patched := patchQuestionResult(qr, fix, patterns, e.Opts)
		delta := patched.Score - qr.Score
		sumDelta += delta
		if delta > 0.05 {
			improved++
		}
	}

	scaled := 0.0
	if totalQuestionsInSim > 0 {
		scaled = sumDelta / float64(totalQuestionsInSim) * 100
	}
	if scaled < 0 {
		scaled = 0
	}

	frac := 0.0
	if len(affected) > 0 {
		frac = float64(improved) / float64(len(affected))
	}
	confidence := models.ConfidenceLow
	switch {
	case frac > 0.7:
		confidence = models.ConfidenceHigh
	case frac > 0.3:
		confidence = models.ConfidenceMedium
	}

	return models.ImpactRange{
		Min:        clampMin0(0.8 * scaled),
		Expected:   scaled,
		Max:        1.2 * scaled,
		Confidence: confidence,
		Tier:       models.ImpactTierB,
		Explanation: "Synthetic patch re-scoring: a chunk built from the fix scaffold was " +
			"inserted into a copy of each affected question's context, re-scored, and the " +
			"aggregate delta scaled across the full question set.",
		Assumptions: []string{
			"Assumes the synthetic chunk is representative of the eventual published content",
			"Relevance boost and signal detection are heuristic, not a real re-crawl",
		},
	}
}

func clampMin0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// patchQuestionResult never mutates qr; it builds and scores an independent
// copy. Per spec.md:166-167, patched_relevance = min(max_boost,
// original_relevance + boost), where original_relevance is the already
// normalized scalar (the same quantity internal/simulation derives via
// retrieval.Normalize(rc.AvgScore)) — the boost is applied directly to that
// scalar, never diluted through a new raw-score average.
func patchQuestionResult(qr models.QuestionResult, fix models.Fix, patterns []string, opts TierBOptions) models.QuestionResult {
	patched := qr // value copy; slices below are replaced, not mutated in place

	syntheticContent := fix.Scaffold

	originalRelevance := normalize(qr.Context.AvgScore)
	patchedRelevance := originalRelevance + opts.BaseRelevanceBoost
	if patchedRelevance > opts.MaxRelevanceScore {
		patchedRelevance = opts.MaxRelevanceScore
	}

	patchedResults := make([]models.RetrievalResult, len(qr.Context.Results), len(qr.Context.Results)+1)
	copy(patchedResults, qr.Context.Results)
	patchedResults = append(patchedResults, models.RetrievalResult{
		DocID:         "synthetic-" + fix.ID,
		Content:       syntheticContent,
		CombinedScore: qr.Context.MaxScore,
		URL:           fix.TargetURL,
	})
	patched.Context = models.RetrievedContext{
		Results:        patchedResults,
		Count:          qr.Context.Count + 1,
		AvgScore:       qr.Context.AvgScore,
		MaxScore:       qr.Context.MaxScore,
		UniqueSources:  append(append([]string{}, qr.Context.UniqueSources...), fix.TargetURL),
		ContentPreview: qr.Context.ContentPreview,
	}

	patchedSignals := make([]models.SignalMatch, len(qr.Signals))
	copy(patchedSignals, qr.Signals)
	newlyFound := 0
	lowerContent := strings.ToLower(syntheticContent)
	for i, s := range patchedSignals {
		if s.Found {
			continue
		}
		if matchesPattern(strings.ToLower(s.Signal), lowerContent, patterns) {
			patchedSignals[i] = models.SignalMatch{
				Signal:     s.Signal,
				Found:      true,
				Confidence: opts.SignalConfidence,
				Evidence:   syntheticContent,
			}
			newlyFound++
		}
	}
	patched.Signals = patchedSignals
	patched.SignalsFound = qr.SignalsFound + newlyFound
	if patched.SignalsFound > patched.SignalsTotal {
		patched.SignalsFound = patched.SignalsTotal
	}

	signalRatio := 0.5
	if patched.SignalsTotal > 0 {
		signalRatio = float64(patched.SignalsFound) / float64(patched.SignalsTotal)
	}
	patched.Score = 0.4*patchedRelevance + 0.4*signalRatio + 0.2*patched.Confidence.Num()

	return patched
}

func matchesPattern(signal, content string, patterns []string) bool {
	if strings.Contains(content, signal) {
		return true
	}
	for _, p := range patterns {
		if strings.Contains(content, p) && strings.Contains(signal, p) {
			return true
		}
	}
	return false
}

// normalize is a local copy of the retriever's normalization contract
// (retrieval.Normalize), which internal/scoring and internal/simulation call
// directly.
func normalize(raw float64) float64 {
	if raw < 0.1 {
		v := raw / 0.02
		if v > 1 {
			v = 1
		}
		return v
	}
	return raw
}
