// Package compare implements the Comparator and Benchmarker:
// aligning simulated answerability against real observed model output, and
// ranking the site against competitors question by question.
package compare

import (
	"sort"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

// Options are the recognized divergence thresholds.
type Options struct {
	DivergenceLow         float64
	DivergenceMedium      float64
	DivergenceHigh        float64
	RefreshOnLowAccuracy  float64
}

// DefaultOptions returns the recognized defaults.
func DefaultOptions() Options {
	return Options{
		DivergenceLow:        0.1,
		DivergenceMedium:     0.2,
		DivergenceHigh:       0.35,
		RefreshOnLowAccuracy: 0.5,
	}
}

// Summary is the Comparator's aggregate output alongside the per-question
// ComparisonResults.
type Summary struct {
	Results           []models.ComparisonResult
	Accuracy          float64
	ObsMentionRate    float64
	ObsCitationRate   float64
	SimPositiveRate   float64
	Correct           int
	Optimistic        int
	Pessimistic       int
	Unknown           int
	TotalCompared     int
}

// Compare aligns every QuestionResult with its matching ObservationResult (by
// question id). Questions with no observation side yield outcome "unknown";
// aggregate rates are computed over available pairs only.
func Compare(sim models.SimulationResult, obs []models.ObservationResult) Summary {
	obsByID := make(map[string]models.ObservationResult, len(obs))
	for _, o := range obs {
		obsByID[o.QuestionID] = o
	}

	summary := Summary{}
	var simPositives, obsMentions, obsCitations, obsPairs int

	for _, qr := range sim.Results {
		simPositive := qr.Answerability == models.AnswerFully || qr.Answerability == models.AnswerPartially
		if simPositive {
			simPositives++
		}

		o, ok := obsByID[qr.Question.ID]
		if !ok || o.Failed {
			summary.Results = append(summary.Results, models.ComparisonResult{
				QuestionID: qr.Question.ID,
				Outcome:    models.OutcomeUnknown,
			})
			summary.Unknown++
			continue
		}

		obsPairs++
		if o.CompanyMentioned || o.DomainMentioned {
			obsMentions++
		}
		hasCitation := len(o.Citations) > 0 || o.URLMentioned
		if hasCitation {
			obsCitations++
		}
		obsPositive := o.CompanyMentioned || o.DomainMentioned || o.URLMentioned || hasCitation

		var outcome models.CompareOutcome
		switch {
		case simPositive == obsPositive:
			outcome = models.OutcomeCorrect
			summary.Correct++
		case simPositive && !obsPositive:
			outcome = models.OutcomeOptimistic
			summary.Optimistic++
		default:
			outcome = models.OutcomePessimistic
			summary.Pessimistic++
		}
		summary.Results = append(summary.Results, models.ComparisonResult{
			QuestionID: qr.Question.ID,
			Outcome:    outcome,
		})
	}

	summary.TotalCompared = obsPairs
	if obsPairs > 0 {
		summary.Accuracy = float64(summary.Correct) / float64(obsPairs)
		summary.ObsMentionRate = float64(obsMentions) / float64(obsPairs)
		summary.ObsCitationRate = float64(obsCitations) / float64(obsPairs)
	}
	if len(sim.Results) > 0 {
		summary.SimPositiveRate = float64(simPositives) / float64(len(sim.Results))
	}
	return summary
}

// Divergence synthesizes a DivergenceSection from a comparison Summary.
func Divergence(summary Summary, opts Options) models.DivergenceSection {
	delta := summary.ObsMentionRate - summary.SimPositiveRate
	absDelta := delta
	if absDelta < 0 {
		absDelta = -absDelta
	}

	var level models.DivergenceLevel
	switch {
	case absDelta >= opts.DivergenceHigh:
		level = models.DivergenceHigh
	case absDelta >= opts.DivergenceMedium:
		level = models.DivergenceMedium
	case absDelta >= opts.DivergenceLow:
		level = models.DivergenceLow
	default:
		level = models.DivergenceNone
	}

	shouldRefresh := level == models.DivergenceHigh || (summary.TotalCompared > 0 && summary.Accuracy < opts.RefreshOnLowAccuracy)

	var reasons []string
	if level == models.DivergenceHigh {
		reasons = append(reasons, "observed mention rate diverges sharply from simulated predictions")
	}
	if summary.TotalCompared > 0 && summary.Accuracy < opts.RefreshOnLowAccuracy {
		reasons = append(reasons, "prediction accuracy below refresh threshold")
	}

	var optimismBias, pessimismBias float64
	if summary.TotalCompared > 0 {
		optimismBias = float64(summary.Optimistic) / float64(summary.TotalCompared)
		pessimismBias = float64(summary.Pessimistic) / float64(summary.TotalCompared)
	}

	var notes []string
	if optimismBias > pessimismBias && optimismBias > 0 {
		notes = append(notes, "simulation tends to over-predict answerability relative to observed output")
	} else if pessimismBias > optimismBias && pessimismBias > 0 {
		notes = append(notes, "simulation tends to under-predict answerability relative to observed output")
	}

	return models.DivergenceSection{
		Level:              level,
		MentionRateDelta:   delta,
		PredictionAccuracy: summary.Accuracy,
		ShouldRefresh:      shouldRefresh,
		RefreshReasons:     reasons,
		OptimismBias:       optimismBias,
		PessimismBias:      pessimismBias,
		CalibrationNotes:   notes,
	}
}

// CompetitorObservation is one competitor's observed results, keyed by
// question id, for the Benchmarker.
type CompetitorObservation struct {
	Name      string
	Mentioned map[string]bool // question id -> mentioned
	Cited     map[string]bool // question id -> cited
}

// Benchmark ranks the site against every competitor, question by question.
// A question is visible for a side if it was mentioned or cited.
func Benchmark(yourMentioned, yourCited map[string]bool, questionIDs []string, competitors []CompetitorObservation) models.BenchmarkResult {
	result := models.BenchmarkResult{}
	outcomesByQuestion := make(map[string]map[string]models.BenchmarkOutcome, len(questionIDs))
	for _, qid := range questionIDs {
		outcomesByQuestion[qid] = make(map[string]models.BenchmarkOutcome, len(competitors))
	}

	for _, comp := range competitors {
		h2h := models.CompetitorHeadToHead{Name: comp.Name}
		var mentionDiff, citationDiff float64
		var matchups int
		for _, qid := range questionIDs {
			yourVisible := yourMentioned[qid] || yourCited[qid]
			compVisible := comp.Mentioned[qid] || comp.Cited[qid]

			outcome := classify(yourMentioned[qid], yourCited[qid], comp.Mentioned[qid], comp.Cited[qid])
			outcomesByQuestion[qid][comp.Name] = outcome

			switch outcome {
			case models.BenchWin, models.BenchMutualWin:
				h2h.Wins++
				result.OverallWins++
			case models.BenchLoss, models.BenchMutualLoss:
				h2h.Losses++
				result.OverallLosses++
			case models.BenchTie:
				h2h.Ties++
				result.OverallTies++
			}

			matchups++
			if yourVisible {
				mentionDiff++
			}
			if compVisible {
				mentionDiff--
			}
			if yourCited[qid] {
				citationDiff++
			}
			if comp.Cited[qid] {
				citationDiff--
			}
		}
		if matchups > 0 {
			h2h.WinRate = float64(h2h.Wins) / float64(matchups)
			h2h.MentionAdvantage = mentionDiff / float64(matchups)
			h2h.CitationAdvantage = citationDiff / float64(matchups)
		}
		result.Competitors = append(result.Competitors, h2h)
	}

	totalMatchups := len(questionIDs) * len(competitors)
	if totalMatchups > 0 {
		result.OverallWinRate = float64(result.OverallWins) / float64(totalMatchups)
	}

	for _, qid := range questionIDs {
		qb := models.QuestionBenchmark{QuestionID: qid, Outcomes: outcomesByQuestion[qid]}
		result.QuestionResults = append(result.QuestionResults, qb)

		if isUniqueWin(qb, competitors) {
			result.UniqueWins = append(result.UniqueWins, qid)
		}
		if isUniqueLoss(qb, competitors) {
			result.UniqueLosses = append(result.UniqueLosses, qid)
		}
	}
	sort.Strings(result.UniqueWins)
	sort.Strings(result.UniqueLosses)

	return result
}

// classify derives a single head-to-head outcome from visibility+citation
// booleans on both sides. Citation beats mere mention.
func classify(yourMention, yourCite, compMention, compCite bool) models.BenchmarkOutcome {
	yourVisible := yourMention || yourCite
	compVisible := compMention || compCite

	switch {
	case !yourVisible && !compVisible:
		return models.BenchMutualLoss
	case yourVisible && !compVisible:
		return models.BenchWin
	case !yourVisible && compVisible:
		return models.BenchLoss
	default: // both visible
		if yourCite && !compCite {
			return models.BenchWin
		}
		if compCite && !yourCite {
			return models.BenchLoss
		}
		if yourCite && compCite {
			return models.BenchMutualWin
		}
		return models.BenchTie
	}
}

func isUniqueWin(qb models.QuestionBenchmark, competitors []CompetitorObservation) bool {
	if len(competitors) == 0 {
		return false
	}
	for _, c := range competitors {
		o := qb.Outcomes[c.Name]
		if o != models.BenchWin && o != models.BenchMutualWin {
			return false
		}
	}
	return true
}

func isUniqueLoss(qb models.QuestionBenchmark, competitors []CompetitorObservation) bool {
	if len(competitors) == 0 {
		return false
	}
	for _, c := range competitors {
		o := qb.Outcomes[c.Name]
		if o != models.BenchLoss && o != models.BenchMutualLoss {
			return false
		}
	}
	return true
}
