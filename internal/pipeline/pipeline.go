// Package pipeline is the thin sequential driver tying every stage
// together in this control-flow order:
// Catalog -> Retriever -> Simulation -> Score -> Fix -> Impact ->
// Observation (optional) -> Compare -> Benchmark (optional) -> Assemble.
// It mirrors a workflows/org_evaluation_processor.go-style step
// sequencing and logging idiom (structured logging at each transition,
// fmt.Errorf wrapping) but drives these stages instead of DB-backed
// question runs.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/avgjoe1017/findable-v1-sub000/internal/catalog"
	"github.com/avgjoe1017/findable-v1-sub000/internal/compare"
	"github.com/avgjoe1017/findable-v1-sub000/internal/corerr"
	"github.com/avgjoe1017/findable-v1-sub000/internal/fixes"
	"github.com/avgjoe1017/findable-v1-sub000/internal/impact"
	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
	"github.com/avgjoe1017/findable-v1-sub000/internal/observation"
	"github.com/avgjoe1017/findable-v1-sub000/internal/report"
	"github.com/avgjoe1017/findable-v1-sub000/internal/retrieval"
	"github.com/avgjoe1017/findable-v1-sub000/internal/scoring"
	"github.com/avgjoe1017/findable-v1-sub000/internal/simulation"
)

// Options bundles every stage's recognized options plus the two optional
// toggles (run Observation, run Benchmark), the optional
// legs of the control flow.
type Options struct {
	Simulation simulation.Options
	Fixes      fixes.Options
	Report     report.Options

	RunObservation bool
	RunBenchmark   bool

	ObservationOpts observation.Options
	CompareOpts     compare.Options
}

// DefaultOptions returns the recognized defaults for every sub-stage.
func DefaultOptions() Options {
	return Options{
		Simulation:      simulation.DefaultOptions(),
		Fixes:           fixes.DefaultOptions(),
		Report:          report.DefaultOptions(),
		RunObservation:  true,
		RunBenchmark:    true,
		ObservationOpts: observation.DefaultOptions(),
		CompareOpts:     compare.DefaultOptions(),
	}
}

// Chunk is one piece of indexable page content; Run adds each one to the
// retrieval index with Index.Add.
type Chunk struct {
	ID          string
	Content     string
	Embedding   []float64
	URL         string
	Title       string
	HeadingPath string
}

// Competitor bundles one competitor's observed visibility for the
// Benchmark leg.
type Competitor struct {
	Name      string
	Mentioned map[string]bool
	Cited     map[string]bool
}

// Input bundles everything one pipeline run needs.
type Input struct {
	SiteID      string
	RunID       uuid.UUID
	SiteContext models.SiteContext
	Chunks      []Chunk

	// Primary/fallback providers for the Observation leg; both may be nil
	// when RunObservation is false.
	Primary  observation.Provider
	Fallback observation.Provider

	Competitors []Competitor
}

// Run drives one full evaluation: question generation through report
// assembly. It accepts a cancellation handle, which Simulation checks at
// each question boundary and the Observation leg checks before each
// provider call; fix generation and impact estimation take no cancellation
// handle and do not check it. A cancelled
// simulation still produces a valid, partial SimulationResult with
// Cancelled=true, and downstream stages still run on it (the FixPlan/Score
// for a partial run is still meaningful), except Observation/Benchmark,
// which are skipped entirely once ctx is already done.
func Run(ctx context.Context, log *logrus.Entry, in Input, opts Options) (models.FullReport, error) {
	if in.SiteContext.CompanyName == "" {
		return models.FullReport{}, corerr.Input("pipeline", errEmptyCompanyName)
	}
	if in.SiteContext.Domain == "" {
		return models.FullReport{}, corerr.Input("pipeline", errEmptyDomain)
	}

	started := time.Now()
	log = log.WithFields(logrus.Fields{"site_id": in.SiteID, "run_id": in.RunID.String()})

	log.Info("generating question set")
	questionSet := catalog.GenerateForSite(in.SiteContext, catalog.DefaultOptions())
	questions := questionSet.All()

	log.WithField("doc_count", len(in.Chunks)).Info("building retrieval index")
	index := retrieval.New()
	for _, c := range in.Chunks {
		index.Add(c.ID, c.Content, c.Embedding, c.URL, c.Title, c.HeadingPath)
	}

	log.WithField("question_count", len(questions)).Info("running simulation")
	sim := simulation.Run(ctx, index, in.SiteContext.CompanyName, questions, opts.Simulation)
	sim.SiteID = in.SiteID
	sim.RunID = in.RunID

	log.Info("scoring simulation")
	breakdown := scoring.Calculate(sim, scoring.DefaultRubric())

	log.Info("generating fix plan")
	plan := fixes.Generate(sim, in.SiteContext.CompanyName, opts.Fixes)

	log.WithField("fix_count", len(plan.Fixes)).Info("estimating tier C impact")
	tierC := impact.NewTierCEstimator()
	planImpact := tierC.EstimatePlan(plan)

	var obsResults []models.ObservationResult
	var cmpSummary *compare.Summary
	var divergence *models.DivergenceSection

	if opts.RunObservation && ctx.Err() == nil && in.Primary != nil {
		log.WithField("question_count", len(questions)).Info("running observation")
		requests := make([]models.ObservationRequest, len(questions))
		for i, q := range questions {
			requests[i] = models.ObservationRequest{
				QuestionID:   q.ID,
				QuestionText: q.Render(in.SiteContext.CompanyName),
				CompanyName:  in.SiteContext.CompanyName,
				Domain:       in.SiteContext.Domain,
			}
		}
		obsResults = observation.Run(ctx, in.Primary, in.Fallback, requests, opts.ObservationOpts)

		summary := compare.Compare(sim, obsResults)
		cmpSummary = &summary
		div := compare.Divergence(summary, opts.CompareOpts)
		divergence = &div
	} else {
		log.Info("skipping observation: disabled, cancelled, or no provider configured")
	}

	var benchResult *models.BenchmarkResult
	if opts.RunBenchmark && len(in.Competitors) > 0 && obsResults != nil {
		log.WithField("competitor_count", len(in.Competitors)).Info("running benchmark")
		yourMentioned := make(map[string]bool)
		yourCited := make(map[string]bool)
		var questionIDs []string
		for _, o := range obsResults {
			questionIDs = append(questionIDs, o.QuestionID)
			yourMentioned[o.QuestionID] = o.CompanyMentioned || o.DomainMentioned
			yourCited[o.QuestionID] = len(o.Citations) > 0 || o.URLMentioned
		}
		var compObs []compare.CompetitorObservation
		for _, c := range in.Competitors {
			compObs = append(compObs, compare.CompetitorObservation{Name: c.Name, Mentioned: c.Mentioned, Cited: c.Cited})
		}
		bench := compare.Benchmark(yourMentioned, yourCited, questionIDs, compObs)
		benchResult = &bench
	} else {
		log.Info("skipping benchmark: disabled, no competitors, or no observation to compare against")
	}

	completed := time.Now()
	log.WithField("duration_ms", completed.Sub(started).Milliseconds()).Info("assembling report")

	reportInput := report.Input{
		SiteID:         in.SiteID,
		RunID:          in.RunID,
		CompanyName:    in.SiteContext.CompanyName,
		Domain:         in.SiteContext.Domain,
		Breakdown:      breakdown,
		Plan:           plan,
		PlanImpact:     &planImpact,
		Divergence:     divergence,
		Benchmark:      benchResult,
		CompareSummary: cmpSummary,
		RunStartedAt:   &started,
		RunCompletedAt: &completed,
	}
	if obsResults != nil {
		reportInput.ObservationResults = obsResults
	}

	full := report.Assemble(reportInput, opts.Report)
	return full, nil
}

var (
	errEmptyCompanyName = simpleErr("pipeline: company name is required")
	errEmptyDomain      = simpleErr("pipeline: domain is required")
)

type simpleErr string

func (e simpleErr) Error() string { return string(e) }
