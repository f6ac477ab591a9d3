// Package report implements the Report Assembler: a pure
// function combining every stage's output into a versioned, serializable
// FullReport envelope.
package report

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/avgjoe1017/findable-v1-sub000/internal/compare"
	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
	"github.com/avgjoe1017/findable-v1-sub000/internal/scoring"
)

// Options are the recognized Report Assembler defaults.
type Options struct {
	IncludeObservation bool
	IncludeBenchmark   bool
}

// DefaultOptions returns the recognized defaults.
func DefaultOptions() Options {
	return Options{IncludeObservation: true, IncludeBenchmark: true}
}

// Input bundles every optional stage output the Assembler may fold into a
// FullReport. Observation, Benchmark and their corresponding derived
// sections are nil when that stage did not run.
type Input struct {
	SiteID      string
	RunID       uuid.UUID
	CompanyName string
	Domain      string

	Breakdown scoring.Breakdown
	Plan      models.FixPlan
	PlanImpact *models.FixPlanImpact

	ObservationResults []models.ObservationResult
	ObservationModel   string
	ObservationProvider string

	CompareSummary *compare.Summary
	Divergence     *models.DivergenceSection
	Benchmark      *models.BenchmarkResult

	RunStartedAt   *time.Time
	RunCompletedAt *time.Time

	ReportID func() uuid.UUID // overridable for deterministic tests; defaults to uuid.New
}

// Assemble builds a FullReport from every stage's output. It is a pure
// function of its Input except for report_id and created_at: report_id
// comes from Input.ReportID when set (uuid.New otherwise), and created_at
// always comes from the wall clock, so two assemblies of the same Input
// differ in created_at.
func Assemble(in Input, opts Options) models.FullReport {
	reportID := uuid.New
	if in.ReportID != nil {
		reportID = in.ReportID
	}

	var limitations, notes []string
	includeObs := opts.IncludeObservation && len(in.ObservationResults) > 0
	includeBench := opts.IncludeBenchmark && in.Benchmark != nil
	if opts.IncludeObservation && !includeObs {
		limitations = append(limitations, "observation section omitted: no observation results were supplied for this run")
	}
	if opts.IncludeBenchmark && !includeBench {
		limitations = append(limitations, "benchmark section omitted: no competitor data was supplied for this run")
	}

	var runDuration *float64
	if in.RunStartedAt != nil && in.RunCompletedAt != nil {
		d := in.RunCompletedAt.Sub(*in.RunStartedAt).Seconds()
		runDuration = &d
	}

	metadata := models.ReportMetadata{
		ReportID:           reportID(),
		SiteID:             in.SiteID,
		RunID:              in.RunID,
		Version:            models.ReportVersion,
		CompanyName:        in.CompanyName,
		Domain:             in.Domain,
		CreatedAt:          now(),
		RunStartedAt:       in.RunStartedAt,
		RunCompletedAt:     in.RunCompletedAt,
		RunDurationSeconds: runDuration,
		IncludeObservation: includeObs,
		IncludeBenchmark:   includeBench,
		Limitations:        limitations,
		Notes:              notes,
	}

	score := buildScoreSection(in.Breakdown)
	fixes := buildFixSection(in.Plan, in.PlanImpact)

	var obsSection *models.ObservationSection
	if includeObs {
		obsSection = buildObservationSection(in.ObservationResults, in.CompareSummary, in.ObservationProvider, in.ObservationModel)
	}

	var benchSection *models.BenchmarkSection
	if includeBench {
		benchSection = buildBenchmarkSection(*in.Benchmark)
	}

	total := score.TotalScore
	report := models.FullReport{
		Version:           models.ReportVersion,
		Metadata:          metadata,
		Score:             score,
		Fixes:             fixes,
		Observation:       obsSection,
		Benchmark:         benchSection,
		Divergence:        in.Divergence,
		ScoreConservative: int(math.Floor(total * 0.85)),
		ScoreTypical:      int(math.Floor(total)),
		ScoreGenerous:     int(math.Floor(math.Min(100, total*1.1))),
	}
	if obsSection != nil {
		rate := round3(obsSection.CompanyMentionRate)
		report.MentionRate = &rate
	}
	return report
}

func buildScoreSection(b scoring.Breakdown) models.ScoreSection {
	s := b.Section
	categoryScores := make(map[models.Category]float64, len(s.CategoryScores))
	for k, v := range s.CategoryScores {
		categoryScores[k] = round2(v)
	}
	var criteria []models.CriterionScore
	for _, c := range s.CriterionScores {
		criteria = append(criteria, models.CriterionScore{
			Name:   c.Name,
			Raw:    round2(c.Raw),
			Weight: c.Weight,
			Points: round2(c.Points),
		})
	}
	return models.ScoreSection{
		TotalScore:          round2(s.TotalScore),
		Grade:               s.Grade,
		GradeDescription:    s.GradeDescription,
		CategoryScores:      categoryScores,
		CriterionScores:     criteria,
		TotalQuestions:      s.TotalQuestions,
		QuestionsAnswered:   s.QuestionsAnswered,
		QuestionsPartial:    s.QuestionsPartial,
		QuestionsUnanswered: s.QuestionsUnanswered,
		CoveragePercentage:  round2(s.CoveragePercentage),
		CalculationSummary:  s.CalculationSummary,
		FormulaUsed:         s.FormulaUsed,
		RubricVersion:       s.RubricVersion,
	}
}

func buildFixSection(plan models.FixPlan, planImpact *models.FixPlanImpact) models.FixSection {
	questionSet := make(map[string]struct{})
	var entries []models.FixSectionEntry
	for _, f := range plan.Fixes {
		for _, qid := range f.AffectedQuestionIDs {
			questionSet[qid] = struct{}{}
		}
		impactRange := models.ImpactRange{
			Min:      round2(f.EstimatedImpact * 0.5),
			Expected: round2(f.EstimatedImpact),
			Max:      round2(f.EstimatedImpact * 1.5),
		}
		if planImpact != nil {
			if r, ok := planImpact.PerFix[f.ID]; ok {
				impactRange = models.ImpactRange{
					Min:         round2(r.Min),
					Expected:    round2(r.Expected),
					Max:         round2(r.Max),
					Confidence:  r.Confidence,
					Tier:        r.Tier,
					Explanation: r.Explanation,
					Assumptions: r.Assumptions,
				}
			}
		}
		entries = append(entries, models.FixSectionEntry{
			ID:                 f.ID,
			ReasonCode:         f.ReasonCode,
			Title:              f.Title,
			Description:        f.Title,
			Scaffold:           f.Scaffold,
			Priority:           f.Priority,
			EstimatedImpact:    impactRange,
			EffortLevel:        f.Effort,
			TargetURL:          f.TargetURL,
			AffectedQuestions:  f.AffectedQuestionIDs,
			AffectedCategories: f.AffectedCategories,
		})
	}
	return models.FixSection{
		TotalFixes:           plan.TotalFixes,
		CriticalFixes:        plan.CriticalFixes,
		HighPriorityFixes:    plan.HighPriorityFixes,
		EstimatedTotalImpact: round2(plan.EstimatedTotalImpact),
		Fixes:                entries,
		CategoriesAddressed:  plan.CategoriesAddressed,
		QuestionsAddressed:   len(questionSet),
	}
}

func buildObservationSection(results []models.ObservationResult, cmp *compare.Summary, provider, model string) *models.ObservationSection {
	total := len(results)
	var withMention, withCitation int
	for _, r := range results {
		if r.CompanyMentioned || r.DomainMentioned {
			withMention++
		}
		if len(r.Citations) > 0 || r.URLMentioned {
			withCitation++
		}
	}
	section := &models.ObservationSection{
		TotalQuestions:        total,
		QuestionsWithMention:  withMention,
		QuestionsWithCitation: withCitation,
		Provider:              provider,
		Model:                 model,
		QuestionResults:       results,
	}
	if total > 0 {
		section.CompanyMentionRate = round3(float64(withMention) / float64(total))
		section.CitationRate = round3(float64(withCitation) / float64(total))
		section.DomainMentionRate = section.CompanyMentionRate
	}
	if cmp != nil {
		section.PredictionAccuracy = round3(cmp.Accuracy)
		section.OptimisticPredictions = cmp.Optimistic
		section.PessimisticPredictions = cmp.Pessimistic
		section.CorrectPredictions = cmp.Correct
		if cmp.Accuracy < 0.5 && cmp.TotalCompared > 0 {
			section.Insights = append(section.Insights, "real-model responses diverge from simulated predictions on more than half of compared questions")
		}
		if cmp.Optimistic > cmp.Pessimistic {
			section.Recommendations = append(section.Recommendations, "content looks answerable in isolation but is not surfaced by the model; prioritize citability fixes")
		}
	}
	return section
}

func buildBenchmarkSection(bench models.BenchmarkResult) *models.BenchmarkSection {
	var yourMention, yourCitation int
	totalQuestions := len(bench.QuestionResults)
	for _, qb := range bench.QuestionResults {
		for _, outcome := range qb.Outcomes {
			if outcome == models.BenchWin || outcome == models.BenchMutualWin || outcome == models.BenchTie {
				yourMention++
			}
			if outcome == models.BenchWin || outcome == models.BenchMutualWin {
				yourCitation++
			}
			break // only need one competitor's view of "are we visible"
		}
	}
	var avgCompMention, avgCompCitation float64
	if n := len(bench.Competitors); n > 0 {
		var mentionSum, citationSum float64
		for _, c := range bench.Competitors {
			mentionSum += c.MentionAdvantage
			citationSum += c.CitationAdvantage
		}
		avgCompMention = mentionSum / float64(n)
		avgCompCitation = citationSum / float64(n)
	}

	section := &models.BenchmarkSection{
		TotalCompetitors:          len(bench.Competitors),
		TotalQuestions:            totalQuestions,
		OverallWins:               bench.OverallWins,
		OverallLosses:             bench.OverallLosses,
		OverallTies:               bench.OverallTies,
		OverallWinRate:            round3(bench.OverallWinRate),
		UniqueWins:                bench.UniqueWins,
		UniqueLosses:              bench.UniqueLosses,
		Competitors:               bench.Competitors,
		QuestionBenchmarks:        bench.QuestionResults,
		AvgCompetitorMentionRate:  round3(avgCompMention),
		AvgCompetitorCitationRate: round3(avgCompCitation),
	}
	if totalQuestions > 0 {
		section.YourMentionRate = round3(float64(yourMention) / float64(totalQuestions))
		section.YourCitationRate = round3(float64(yourCitation) / float64(totalQuestions))
	}
	if len(bench.UniqueWins) > 0 {
		section.Insights = append(section.Insights, "some questions are answered uniquely by this site and by no competitor")
		section.Recommendations = append(section.Recommendations, "protect unique-win content from regressions; it is a competitive moat")
	}
	if len(bench.UniqueLosses) > 0 {
		section.Insights = append(section.Insights, "some questions are answered uniquely by competitors and not by this site")
	}
	return section
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// now is a seam over time.Now so a future deterministic-test mode can
// override it; production always uses the wall clock.
var now = time.Now
