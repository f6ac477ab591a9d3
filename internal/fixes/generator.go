package fixes

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

// Options is the recognized Fix Generator configuration.
type Options struct {
	LowScoreThreshold    float64
	PartialThreshold     float64
	MaxFixes             int
	MaxFixesPerCategory  int
	IncludeExamples      bool
	ExtractSiteContent   bool
	MaxExtractedSnippets int
}

// DefaultOptions returns the recognized defaults.
func DefaultOptions() Options {
	return Options{
		LowScoreThreshold:    0.5,
		PartialThreshold:     0.7,
		MaxFixes:             10,
		MaxFixesPerCategory:  3,
		IncludeExamples:      true,
		ExtractSiteContent:   true,
		MaxExtractedSnippets: 3,
	}
}

// Generate produces a FixPlan from a SimulationResult. Evidence snippets come
// from each problem question's top retrieved chunks; no separate URL-to-page
// text map is taken, and Options.ExtractSiteContent is not read.
func Generate(sim models.SimulationResult, companyName string, opts Options) models.FixPlan {
	problems := identifyProblems(sim, opts)

	type group struct {
		code     models.ReasonCode
		qIDs     []string
		cats     map[models.Category]struct{}
		weights  []float64
		snippets []string
	}
	groups := make(map[models.ReasonCode]*group)
	var order []models.ReasonCode

	for _, qr := range problems {
		codes := diagnose(qr, opts)
		for _, code := range codes {
			g, ok := groups[code]
			if !ok {
				g = &group{code: code, cats: make(map[models.Category]struct{})}
				groups[code] = g
				order = append(order, code)
			}
			g.qIDs = append(g.qIDs, qr.Question.ID)
			g.cats[qr.Question.Category] = struct{}{}
			g.weights = append(g.weights, qr.Question.Weight)
			for _, r := range topResults(qr.Context.Results, opts.MaxExtractedSnippets) {
				g.snippets = append(g.snippets, r.Content)
			}
		}
	}

	var allFixes []models.Fix
	for _, code := range order {
		g := groups[code]
		info := GetInfo(code)
		cats := sortedCategories(g.cats)

		avgWeight := avg(g.weights)
		n := len(g.qIDs)
		questionFactor := math.Min(1.5, 1+0.1*float64(n-1))
		impact := clamp(info.TypicalImpact*questionFactor*avgWeight, 0, 0.5)

		priority := priorityFor(info.Severity)

		sc := scaffolds[code]
		text := substituteCompany(sc.text, companyName)
		if opts.IncludeExamples && len(g.snippets) > 0 {
			snippets := g.snippets
			if len(snippets) > opts.MaxExtractedSnippets {
				snippets = snippets[:opts.MaxExtractedSnippets]
			}
			text += "\n\nEvidence from current content:\n- " + strings.Join(snippets, "\n- ")
		}

		allFixes = append(allFixes, models.Fix{
			ID:                  fmt.Sprintf("fix-%s", code),
			ReasonCode:          code,
			Title:               substituteCompany(sc.title, companyName),
			Scaffold:            text,
			AffectedQuestionIDs: dedupe(g.qIDs),
			AffectedCategories:  cats,
			Priority:            priority,
			EstimatedImpact:     impact,
			Effort:              effortFor(info.Severity),
			TargetURL:           targetURLFor(code, cats[0]),
		})
	}

	sort.SliceStable(allFixes, func(i, j int) bool {
		if allFixes[i].Priority != allFixes[j].Priority {
			return allFixes[i].Priority < allFixes[j].Priority
		}
		return allFixes[i].EstimatedImpact > allFixes[j].EstimatedImpact
	})

	if len(allFixes) > opts.MaxFixes {
		allFixes = allFixes[:opts.MaxFixes]
	}

	plan := models.FixPlan{Fixes: allFixes, TotalFixes: len(allFixes)}
	var totalImpact float64
	catSet := make(map[models.Category]struct{})
	for _, f := range allFixes {
		totalImpact += f.EstimatedImpact
		info := GetInfo(f.ReasonCode)
		if info.Severity == "critical" {
			plan.CriticalFixes++
		}
		if info.Severity == "critical" || info.Severity == "high" {
			plan.HighPriorityFixes++
		}
		for _, c := range f.AffectedCategories {
			catSet[c] = struct{}{}
		}
	}
	plan.EstimatedTotalImpact = math.Min(1, totalImpact)
	plan.CategoriesAddressed = sortedCategories(catSet)
	return plan
}

func identifyProblems(sim models.SimulationResult, opts Options) []models.QuestionResult {
	var out []models.QuestionResult
	for _, qr := range sim.Results {
		switch {
		case qr.Answerability == models.AnswerNot || qr.Answerability == models.AnswerContradictory:
			out = append(out, qr)
		case qr.Answerability == models.AnswerPartially && qr.Score < opts.PartialThreshold:
			out = append(out, qr)
		case qr.Answerability == models.AnswerFully && qr.Score < opts.LowScoreThreshold:
			out = append(out, qr)
		}
	}
	return out
}

var pricingWords = []string{"price", "pricing", "cost", "fee"}
var contactWords = []string{"contact", "reach", "email", "phone"}
var locationWords = []string{"location", "headquartered", "operate"}

func diagnose(qr models.QuestionResult, opts Options) []models.ReasonCode {
	var codes []models.ReasonCode
	add := func(c models.ReasonCode) {
		if len(codes) < 2 {
			codes = append(codes, c)
		}
	}

	if qr.Answerability == models.AnswerContradictory {
		add(models.ReasonInconsistent)
	}

	if qr.Context.Count == 0 {
		switch qr.Question.Category {
		case models.CategoryOfferings:
			add(models.ReasonMissingFeatures)
		case models.CategoryContact:
			add(models.ReasonMissingContact)
		case models.CategoryTrust:
			add(models.ReasonMissingSocialProof)
		case models.CategoryIdentity:
			add(models.ReasonMissingDefinition)
		default:
			add(models.ReasonNoDedicatedPage)
		}
	}

	avgRel := 0.0
	if qr.Context.Count > 0 {
		avgRel = qr.Context.AvgScore
	}
	if avgRel < 0.4 && qr.Context.Count > 0 {
		add(models.ReasonBuriedAnswer)
	}

	signalCoverage := 0.5
	if qr.SignalsTotal > 0 {
		signalCoverage = float64(qr.SignalsFound) / float64(qr.SignalsTotal)
	}
	qLower := strings.ToLower(qr.Question.Text)
	if signalCoverage < 0.3 {
		switch {
		case containsAny(qLower, pricingWords):
			add(models.ReasonMissingPricing)
		case containsAny(qLower, contactWords):
			add(models.ReasonMissingContact)
		case containsAny(qLower, locationWords):
			add(models.ReasonMissingLocation)
		case qr.Question.Category == models.CategoryTrust:
			add(models.ReasonTrustGap)
		default:
			add(models.ReasonMissingDefinition)
		}
	} else if signalCoverage < 0.6 {
		add(models.ReasonFragmentedInfo)
	}

	if qr.Confidence == models.ConfidenceLow && len(codes) == 0 {
		add(models.ReasonVagueLanguage)
	}

	if len(codes) == 0 {
		add(models.ReasonBuriedAnswer)
	}
	return codes
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func priorityFor(severity string) int {
	switch severity {
	case "critical":
		return 1
	case "high":
		return 2
	case "medium":
		return 3
	default:
		return 4
	}
}

func effortFor(severity string) string {
	switch severity {
	case "critical", "high":
		return "medium"
	default:
		return "low"
	}
}

func topResults(results []models.RetrievalResult, n int) []models.RetrievalResult {
	sorted := make([]models.RetrievalResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CombinedScore > sorted[j].CombinedScore })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func sortedCategories(set map[models.Category]struct{}) []models.Category {
	var out []models.Category
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func avg(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var s float64
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
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
