// Package simulation runs the per-question answerability simulation:
// retrieve, match expected signals, classify answerability, score.
package simulation

import (
	"context"
	"strings"
	"time"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
	"github.com/avgjoe1017/findable-v1-sub000/internal/retrieval"
)

// Options is the recognized Simulation configuration.
type Options struct {
	ChunksPerQuestion        int
	MinRelevanceScore        float64
	FullyAnswerableThreshold float64
	PartiallyAnswerableThreshold float64
	SignalMatchThreshold     float64
	UseFuzzyMatching         bool
	MaxContentLength         int
	WeightRelevance          float64
	WeightSignal             float64
	WeightConfidence         float64
}

// DefaultOptions returns the recognized defaults.
func DefaultOptions() Options {
	return Options{
		ChunksPerQuestion:            5,
		MinRelevanceScore:            0.3,
		FullyAnswerableThreshold:     0.7,
		PartiallyAnswerableThreshold: 0.3,
		SignalMatchThreshold:         0.5,
		UseFuzzyMatching:             true,
		MaxContentLength:             2000,
		WeightRelevance:              0.4,
		WeightSignal:                 0.4,
		WeightConfidence:             0.2,
	}
}

// Searcher is the subset of retrieval.Index the Simulation stage needs.
type Searcher interface {
	Search(query string, limit int, minScore float64) []models.RetrievalResult
}

// Run simulates answerability for every question in order, honoring
// cancellation at each question boundary. Question processing is
// deterministic: questions are processed in input order and QuestionResults
// appear in the same order.
func Run(ctx context.Context, idx Searcher, companyName string, questions []models.Question, opts Options) models.SimulationResult {
	start := time.Now()
	result := models.SimulationResult{
		CompanyName:      companyName,
		CategoryScores:   make(map[models.Category]float64),
		DifficultyScores: make(map[models.Difficulty]float64),
	}

	var catSums, catCounts = make(map[models.Category]float64), make(map[models.Category]int)
	var diffSums, diffCounts = make(map[models.Difficulty]float64), make(map[models.Difficulty]int)
	var weightedSum, weightTotal, confSum float64

	for _, q := range questions {
		select {
		case <-ctx.Done():
			result.Cancelled = true
			return result
		default:
		}

		qStart := time.Now()
		qr := simulateOne(idx, companyName, q, opts)
		qr.DurationMS = time.Since(qStart).Milliseconds()
		result.Results = append(result.Results, qr)

		switch qr.Answerability {
		case models.AnswerFully:
			result.Answered++
		case models.AnswerPartially:
			result.Partial++
		default:
			result.Unanswered++
		}

		catSums[q.Category] += qr.Score * 100
		catCounts[q.Category]++
		diffSums[q.Difficulty] += qr.Score * 100
		diffCounts[q.Difficulty]++

		weightedSum += q.Weight * qr.Score
		weightTotal += q.Weight
		confSum += qr.Confidence.Num() * 100
	}

	for c, sum := range catSums {
		result.CategoryScores[c] = sum / float64(catCounts[c])
	}
	for d, sum := range diffSums {
		result.DifficultyScores[d] = sum / float64(diffCounts[d])
	}

	total := len(questions)
	if weightTotal > 0 {
		result.OverallScore = weightedSum / weightTotal * 100
	}
	if total > 0 {
		result.CoveragePercent = float64(result.Answered+result.Partial) / float64(total) * 100
		result.AvgConfidence = confSum / float64(total)
	}
	result.DurationMS = time.Since(start).Milliseconds()
	return result
}

func simulateOne(idx Searcher, companyName string, q models.Question, opts Options) models.QuestionResult {
	query := q.Render(companyName)
	raw := idx.Search(query, opts.ChunksPerQuestion, 0)

	// min_relevance_score filter applies on normalized scores, per the
	// retriever's normalization contract.
	var filtered []models.RetrievalResult
	for _, r := range raw {
		if retrieval.Normalize(r.CombinedScore) >= opts.MinRelevanceScore {
			filtered = append(filtered, r)
		}
	}

	rc := buildContext(filtered, opts.MaxContentLength)

	if rc.Count == 0 {
		return models.QuestionResult{
			Question:      q,
			Context:       rc,
			Answerability: models.AnswerNot,
			Confidence:    models.ConfidenceHigh,
			Score:         0,
			SignalsFound:  0,
			SignalsTotal:  len(q.ExpectedSignals),
		}
	}

	signals := matchSignals(q.ExpectedSignals, rc.ContentPreview, opts)
	found := 0
	for _, s := range signals {
		if s.Found {
			found++
		}
	}

	relevance := retrieval.Normalize(rc.AvgScore)
	signalRatio := 0.5
	if len(q.ExpectedSignals) > 0 {
		signalRatio = float64(found) / float64(len(q.ExpectedSignals))
	}

	confLevel := deriveConfidence(retrieval.Normalize(rc.MaxScore), signalRatio)
	confNum := confLevel.Num()

	score := opts.WeightRelevance*relevance + opts.WeightSignal*signalRatio + opts.WeightConfidence*confNum

	answerability := models.AnswerNot
	switch {
	case score >= opts.FullyAnswerableThreshold:
		answerability = models.AnswerFully
	case score >= opts.PartiallyAnswerableThreshold:
		answerability = models.AnswerPartially
	}

	return models.QuestionResult{
		Question:      q,
		Context:       rc,
		Answerability: answerability,
		Confidence:    confLevel,
		Score:         score,
		SignalsFound:  found,
		SignalsTotal:  len(q.ExpectedSignals),
		Signals:       signals,
	}
}

func deriveConfidence(maxRelevance, signalRatio float64) models.ConfidenceLevel {
	switch {
	case maxRelevance >= 0.7 && signalRatio >= 0.7:
		return models.ConfidenceHigh
	case maxRelevance >= 0.4 || signalRatio >= 0.4:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func buildContext(results []models.RetrievalResult, maxLen int) models.RetrievedContext {
	rc := models.RetrievedContext{Results: results, Count: len(results)}
	if len(results) == 0 {
		return rc
	}

	seenSrc := make(map[string]struct{})
	var sum, max float64
	var preview strings.Builder
	for _, r := range results {
		sum += r.CombinedScore
		if r.CombinedScore > max {
			max = r.CombinedScore
		}
		if r.URL != "" {
			if _, ok := seenSrc[r.URL]; !ok {
				seenSrc[r.URL] = struct{}{}
				rc.UniqueSources = append(rc.UniqueSources, r.URL)
			}
		}
		if preview.Len() < maxLen {
			preview.WriteString(r.Content)
			preview.WriteString(" ")
		}
	}
	rc.AvgScore = sum / float64(len(results))
	rc.MaxScore = max
	p := preview.String()
	if len(p) > maxLen {
		p = p[:maxLen]
	}
	rc.ContentPreview = p
	return rc
}

func matchSignals(signals []string, content string, opts Options) []models.SignalMatch {
	lowerContent := strings.ToLower(content)
	out := make([]models.SignalMatch, 0, len(signals))
	for _, sig := range signals {
		out = append(out, matchOneSignal(sig, content, lowerContent, opts))
	}
	return out
}

func matchOneSignal(signal, content, lowerContent string, opts Options) models.SignalMatch {
	lowerSig := strings.ToLower(signal)
	if idx := strings.Index(lowerContent, lowerSig); idx >= 0 {
		start := idx - 50
		if start < 0 {
			start = 0
		}
		end := idx + len(lowerSig) + 50
		if end > len(content) {
			end = len(content)
		}
		return models.SignalMatch{
			Signal:     signal,
			Found:      true,
			Confidence: 1.0,
			Evidence:   content[start:end],
		}
	}

	if !opts.UseFuzzyMatching {
		return models.SignalMatch{Signal: signal, Found: false}
	}

	words := strings.Fields(lowerSig)
	if len(words) == 0 {
		return models.SignalMatch{Signal: signal, Found: false}
	}
	matched := 0
	for _, w := range words {
		if strings.Contains(lowerContent, w) {
			matched++
		}
	}
	confidence := float64(matched) / float64(len(words))
	return models.SignalMatch{
		Signal:     signal,
		Found:      confidence >= opts.SignalMatchThreshold,
		Confidence: confidence,
	}
}
