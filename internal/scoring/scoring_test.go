package scoring

import (
	"fmt"
	"testing"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

// S1 — empty site: no results at all, every derived term is zero.
func TestCalculateEmptySimulationYieldsZeroAndGradeF(t *testing.T) {
	sim := models.SimulationResult{}
	b := Calculate(sim, DefaultRubric())

	if b.Section.TotalScore != 0 {
		t.Errorf("expected total score 0 for an empty simulation, got %f", b.Section.TotalScore)
	}
	if b.Section.Grade != "F" {
		t.Errorf("expected grade F for an empty simulation, got %s", b.Section.Grade)
	}
}

// S2 — rich site: every question fully answered, all signals found, high
// confidence and many unique sources, should land in the top grade band.
func TestCalculateRichSimulationScoresAtLeastNinety(t *testing.T) {
	var results []models.QuestionResult
	categories := []models.Category{
		models.CategoryIdentity, models.CategoryOfferings, models.CategoryContact,
		models.CategoryTrust, models.CategoryDifferentiation,
	}
	for i := 0; i < 15; i++ {
		cat := categories[i%len(categories)]
		results = append(results, models.QuestionResult{
			Question: models.Question{
				ID:         idFor(i),
				Category:   cat,
				Difficulty: models.DifficultyEasy,
			},
			Context: models.RetrievedContext{
				AvgScore:      0.9,
				MaxScore:      0.95,
				UniqueSources: []string{idFor(i)},
			},
			Answerability: models.AnswerFully,
			Confidence:    models.ConfidenceHigh,
			Score:         0.98,
			SignalsFound:  3,
			SignalsTotal:  3,
		})
	}
	sim := models.SimulationResult{
		Results:         results,
		Answered:        15,
		CoveragePercent: 100,
	}

	b := Calculate(sim, DefaultRubric())
	if b.Section.TotalScore < 90 {
		t.Errorf("expected a rich simulation to score at least 90, got %f", b.Section.TotalScore)
	}
	switch b.Section.Grade {
	case "A-", "A", "A+":
	default:
		t.Errorf("expected grade A- or better for a rich simulation, got %s", b.Section.Grade)
	}
}

func TestCalculateTotalScoreIsClampedToZeroToHundred(t *testing.T) {
	sim := models.SimulationResult{
		Results: []models.QuestionResult{
			{
				Question:     models.Question{ID: "q1", Category: models.CategoryOfferings, Difficulty: models.DifficultyHard},
				Context:      models.RetrievedContext{AvgScore: 1.0, MaxScore: 1.0},
				Confidence:   models.ConfidenceHigh,
				Score:        1.0,
				SignalsFound: 5,
				SignalsTotal: 5,
			},
		},
	}
	b := Calculate(sim, DefaultRubric())
	if b.Section.TotalScore < 0 || b.Section.TotalScore > 100 {
		t.Errorf("total score %f out of [0,100]", b.Section.TotalScore)
	}
}

func TestCalculateGradeThresholdsAreMonotonicAndExhaustive(t *testing.T) {
	rubric := DefaultRubric()
	// Every score from 0 to 100 (in whole points) must resolve to some grade;
	// higher scores must never resolve to a strictly lower grade rank.
	rank := map[string]int{
		"F": 0, "D-": 1, "D": 2, "D+": 3, "C-": 4, "C": 5, "C+": 6,
		"B-": 7, "B": 8, "B+": 9, "A-": 10, "A": 11, "A+": 12,
	}
	prevRank := -1
	for score := 0; score <= 100; score++ {
		grade, _ := gradeFor(float64(score), rubric.GradeThresholds)
		r, ok := rank[grade]
		if !ok {
			t.Fatalf("unknown grade %q at score %d", grade, score)
		}
		if r < prevRank {
			t.Errorf("grade regressed at score %d: rank %d after %d", score, r, prevRank)
		}
		prevRank = r
	}
}

func TestCalculateSignalCoverageIsFoundOverTotalAcrossAllQuestions(t *testing.T) {
	sim := models.SimulationResult{
		Results: []models.QuestionResult{
			{Question: models.Question{ID: "q1", Category: models.CategoryIdentity, Difficulty: models.DifficultyEasy}, SignalsFound: 1, SignalsTotal: 2},
			{Question: models.Question{ID: "q2", Category: models.CategoryIdentity, Difficulty: models.DifficultyEasy}, SignalsFound: 1, SignalsTotal: 2},
		},
	}
	b := Calculate(sim, DefaultRubric())
	var sc models.CriterionScore
	for _, c := range b.Section.CriterionScores {
		if c.Name == "signal_coverage" {
			sc = c
		}
	}
	if sc.Raw != 0.5 {
		t.Errorf("expected aggregate signal coverage 0.5, got %f", sc.Raw)
	}
}

func TestCalculatePerQuestionDetailCountMatchesResultCount(t *testing.T) {
	sim := models.SimulationResult{
		Results: []models.QuestionResult{
			{Question: models.Question{ID: "q1", Category: models.CategoryIdentity, Difficulty: models.DifficultyEasy}},
			{Question: models.Question{ID: "q2", Category: models.CategoryTrust, Difficulty: models.DifficultyHard}},
		},
	}
	b := Calculate(sim, DefaultRubric())
	if len(b.QuestionDetails) != len(sim.Results) {
		t.Fatalf("expected %d question details, got %d", len(sim.Results), len(b.QuestionDetails))
	}
	for _, d := range b.QuestionDetails {
		if d.Base < 0 || d.Base > 1.01 {
			t.Errorf("question %s: base score %f out of expected range", d.QuestionID, d.Base)
		}
	}
}

func idFor(i int) string {
	return fmt.Sprintf("q%d", i)
}
