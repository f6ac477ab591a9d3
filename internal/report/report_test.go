package report

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
	"github.com/avgjoe1017/findable-v1-sub000/internal/scoring"
)

func fixedUUID() uuid.UUID {
	return uuid.MustParse("00000000-0000-0000-0000-000000000001")
}

func TestAssemble_VersionTag(t *testing.T) {
	sim := models.SimulationResult{}
	breakdown := scoring.Calculate(sim, scoring.DefaultRubric())

	in := Input{
		SiteID:      "site-1",
		CompanyName: "Acme",
		Domain:      "acme.com",
		Breakdown:   breakdown,
		ReportID:    fixedUUID,
	}
	r := Assemble(in, DefaultOptions())

	if r.Version != models.ReportVersion {
		t.Fatalf("version = %q, want %q", r.Version, models.ReportVersion)
	}
	if r.Metadata.Version != models.ReportVersion {
		t.Fatalf("metadata version = %q, want %q", r.Metadata.Version, models.ReportVersion)
	}
	if len(r.Metadata.Limitations) == 0 {
		t.Fatal("expected limitations when observation/benchmark omitted")
	}
	if r.Observation != nil {
		t.Fatal("expected nil observation section when no results supplied")
	}
}

func TestAssemble_DenormalizedScores(t *testing.T) {
	sim := models.SimulationResult{}
	breakdown := scoring.Calculate(sim, scoring.DefaultRubric())
	breakdown.Section.TotalScore = 80

	in := Input{CompanyName: "Acme", Domain: "acme.com", Breakdown: breakdown, ReportID: fixedUUID}
	r := Assemble(in, DefaultOptions())

	if r.ScoreTypical != 80 {
		t.Fatalf("ScoreTypical = %d, want 80", r.ScoreTypical)
	}
	if r.ScoreConservative != 68 {
		t.Fatalf("ScoreConservative = %d, want 68", r.ScoreConservative)
	}
	if r.ScoreGenerous != 88 {
		t.Fatalf("ScoreGenerous = %d, want 88", r.ScoreGenerous)
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	sim := models.SimulationResult{}
	breakdown := scoring.Calculate(sim, scoring.DefaultRubric())
	started := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	completed := started.Add(5 * time.Second)

	in := Input{
		CompanyName:    "Acme",
		Domain:         "acme.com",
		Breakdown:      breakdown,
		ReportID:       fixedUUID,
		RunStartedAt:   &started,
		RunCompletedAt: &completed,
	}
	r1 := Assemble(in, DefaultOptions())
	r2 := Assemble(in, DefaultOptions())

	if *r1.Metadata.RunDurationSeconds != 5 {
		t.Fatalf("duration = %v, want 5", *r1.Metadata.RunDurationSeconds)
	}
	if r1.Metadata.ReportID != r2.Metadata.ReportID {
		t.Fatal("expected same injected report id across both assembles")
	}
}
