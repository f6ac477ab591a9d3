package compare

import (
	"testing"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

func makeSim(n int, fullCount int) models.SimulationResult {
	sim := models.SimulationResult{}
	for i := 0; i < n; i++ {
		answerability := models.AnswerNot
		if i < fullCount {
			answerability = models.AnswerFully
		}
		sim.Results = append(sim.Results, models.QuestionResult{
			Question:      models.Question{ID: idFor(i)},
			Answerability: answerability,
		})
	}
	return sim
}

func idFor(i int) string {
	return "UQ-" + string(rune('0'+i))
}

func TestCompare_DivergenceTrigger(t *testing.T) {
	// S5: sim predicts 12 of 15 answerable; obs mentions 4 of 15.
	sim := makeSim(15, 12)
	var obs []models.ObservationResult
	for i := 0; i < 15; i++ {
		obs = append(obs, models.ObservationResult{
			QuestionID:       idFor(i),
			CompanyMentioned: i < 4,
		})
	}

	summary := Compare(sim, obs)
	if summary.TotalCompared != 15 {
		t.Fatalf("expected 15 compared, got %d", summary.TotalCompared)
	}
	wantAccuracy := 7.0 / 15.0
	if diff := summary.Accuracy - wantAccuracy; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("accuracy = %v, want ~%v", summary.Accuracy, wantAccuracy)
	}

	div := Divergence(summary, DefaultOptions())
	if div.Level != models.DivergenceHigh {
		t.Fatalf("divergence level = %v, want high", div.Level)
	}
	if !div.ShouldRefresh {
		t.Fatal("expected ShouldRefresh=true")
	}
}

func TestCompare_UnknownWhenObsMissing(t *testing.T) {
	sim := makeSim(3, 1)
	summary := Compare(sim, nil)
	if summary.Unknown != 3 {
		t.Fatalf("expected all 3 unknown, got %d", summary.Unknown)
	}
	if summary.TotalCompared != 0 {
		t.Fatalf("expected 0 compared, got %d", summary.TotalCompared)
	}
}

func TestBenchmark_UniqueWin(t *testing.T) {
	// S6: your answer cites Q7; both competitors show no mention there;
	// everywhere else (Q1..Q6) both sides are mentioned (tie).
	questionIDs := []string{"Q1", "Q2", "Q3", "Q4", "Q5", "Q6", "Q7"}
	yourMentioned := map[string]bool{}
	yourCited := map[string]bool{"Q7": true}
	for _, q := range questionIDs[:6] {
		yourMentioned[q] = true
	}

	makeCompetitor := func(name string) CompetitorObservation {
		mentioned := map[string]bool{}
		for _, q := range questionIDs[:6] {
			mentioned[q] = true
		}
		return CompetitorObservation{Name: name, Mentioned: mentioned, Cited: map[string]bool{}}
	}

	competitors := []CompetitorObservation{makeCompetitor("A"), makeCompetitor("B")}
	result := Benchmark(yourMentioned, yourCited, questionIDs, competitors)

	found := false
	for _, q := range result.UniqueWins {
		if q == "Q7" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Q7 in unique wins, got %v", result.UniqueWins)
	}
	if result.OverallWins < 2 {
		t.Fatalf("expected overall wins >= 2, got %d", result.OverallWins)
	}
	wantMatchups := len(questionIDs) * len(competitors)
	if wantMatchups != 14 {
		t.Fatalf("sanity: matchups = %d", wantMatchups)
	}
}
