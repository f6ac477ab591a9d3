// Package models holds the data model shared across the evaluation pipeline:
// questions, retrieval results, simulation output, fixes, impact ranges,
// observations, benchmarks, and the final report envelope.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is one of the five universal question categories.
type Category string

const (
	CategoryIdentity        Category = "identity"
	CategoryOfferings       Category = "offerings"
	CategoryContact         Category = "contact"
	CategoryTrust           Category = "trust"
	CategoryDifferentiation Category = "differentiation"
)

// Difficulty is the question difficulty tier.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Source identifies where a Question originated.
type Source string

const (
	SourceUniversal Source = "universal"
	SourceSchema    Source = "schema"
	SourceHeading   Source = "heading"
	SourceContent   Source = "content"
	SourceMetadata  Source = "metadata"
)

// Question is a single evaluation prompt template.
type Question struct {
	ID              string
	Text            string // contains a {company} placeholder
	Category        Category
	Difficulty      Difficulty
	Source          Source
	Weight          float64
	ExpectedSignals []string
	Description     string
	Metadata        map[string]string
}

// Render substitutes {company} with the literal company name.
func (q Question) Render(company string) string {
	const ph = "{company}"
	var out []byte
	text := q.Text
	for {
		idx := indexOf(text, ph)
		if idx < 0 {
			out = append(out, text...)
			break
		}
		out = append(out, text[:idx]...)
		out = append(out, company...)
		text = text[idx+len(ph):]
	}
	return string(out)
}

func indexOf(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}

// QuestionSet is the result of generateForSite: the fixed universal set plus
// a small number of site-derived questions.
type QuestionSet struct {
	Universal []Question
	Derived   []Question
}

// All returns the universal and derived questions concatenated, universal first.
func (s QuestionSet) All() []Question {
	out := make([]Question, 0, len(s.Universal)+len(s.Derived))
	out = append(out, s.Universal...)
	out = append(out, s.Derived...)
	return out
}

// SiteContext is the derivation input for generateForSite.
type SiteContext struct {
	CompanyName string
	Domain      string
	Title       string
	Description string
	Keywords    []string
	SchemaTypes map[string]struct{}
	Headings    map[int][]string // level -> heading texts
	PageTexts   []string
}

// Chunk is an indexable unit of page content with its embedding.
type Chunk struct {
	ID          string
	Content     string
	URL         string
	Title       string
	HeadingPath string
	Embedding   []float64
}

// RetrievalResult is one ranked hit from the Hybrid Retriever.
type RetrievalResult struct {
	DocID         string
	Content       string
	CombinedScore float64
	LexicalScore  float64
	VectorScore   float64
	URL           string
	Title         string
	HeadingPath   string
}

// RetrievedContext aggregates RetrievalResults for one question.
type RetrievedContext struct {
	Results        []RetrievalResult
	Count          int
	AvgScore       float64
	MaxScore       float64
	UniqueSources  []string
	ContentPreview string
}

// SignalMatch records whether one expected signal was found.
type SignalMatch struct {
	Signal     string
	Found      bool
	Confidence float64
	Evidence   string
}

// Answerability is the categorical verdict for a QuestionResult.
type Answerability string

const (
	AnswerFully         Answerability = "fully"
	AnswerPartially     Answerability = "partially"
	AnswerNot           Answerability = "not"
	AnswerContradictory Answerability = "contradictory"
)

// ConfidenceLevel is the coarse three-point confidence scale.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Num maps a ConfidenceLevel to its numeric weight used in scoring.
func (c ConfidenceLevel) Num() float64 {
	switch c {
	case ConfidenceHigh:
		return 1.0
	case ConfidenceMedium:
		return 0.6
	case ConfidenceLow:
		return 0.3
	default:
		return 0.0
	}
}

// QuestionResult is the outcome of simulating one question.
type QuestionResult struct {
	Question      Question
	Context       RetrievedContext
	Answerability Answerability
	Confidence    ConfidenceLevel
	Score         float64
	SignalsFound  int
	SignalsTotal  int
	Signals       []SignalMatch
	DurationMS    int64
}

// SimulationResult is the aggregated outcome of simulating a whole question set.
type SimulationResult struct {
	SiteID           string
	RunID            uuid.UUID
	CompanyName      string
	Results          []QuestionResult
	Answered         int
	Partial          int
	Unanswered       int
	CategoryScores   map[Category]float64
	DifficultyScores map[Difficulty]float64
	OverallScore     float64
	CoveragePercent  float64
	AvgConfidence    float64
	DurationMS       int64
	Cancelled        bool
}

// ReasonCode is the closed enumeration of diagnoses driving fix selection.
type ReasonCode string

const (
	ReasonMissingDefinition  ReasonCode = "missing_definition"
	ReasonMissingPricing     ReasonCode = "missing_pricing"
	ReasonMissingContact     ReasonCode = "missing_contact"
	ReasonMissingLocation    ReasonCode = "missing_location"
	ReasonMissingFeatures    ReasonCode = "missing_features"
	ReasonMissingSocialProof ReasonCode = "missing_social_proof"
	ReasonBuriedAnswer       ReasonCode = "buried_answer"
	ReasonFragmentedInfo     ReasonCode = "fragmented_info"
	ReasonNoDedicatedPage    ReasonCode = "no_dedicated_page"
	ReasonPoorHeadings       ReasonCode = "poor_headings"
	ReasonNotCitable         ReasonCode = "not_citable"
	ReasonVagueLanguage      ReasonCode = "vague_language"
	ReasonOutdatedInfo       ReasonCode = "outdated_info"
	ReasonInconsistent       ReasonCode = "inconsistent"
	ReasonTrustGap           ReasonCode = "trust_gap"
	ReasonNoAuthority        ReasonCode = "no_authority"
	ReasonUnverifiedClaims   ReasonCode = "unverified_claims"
	ReasonRenderRequired     ReasonCode = "render_required"
	ReasonBlockedByRobots    ReasonCode = "blocked_by_robots"
)

// Fix is a single structured recommendation.
type Fix struct {
	ID                  string
	ReasonCode          ReasonCode
	Title               string
	Scaffold            string
	AffectedQuestionIDs []string
	AffectedCategories  []Category
	Priority            int
	EstimatedImpact     float64
	Effort              string // low|medium|high
	TargetURL           string
}

// FixPlan is the ordered set of Fixes for one SimulationResult.
type FixPlan struct {
	Fixes                []Fix
	TotalFixes           int
	CriticalFixes        int
	HighPriorityFixes    int
	EstimatedTotalImpact float64
	CategoriesAddressed  []Category
}

// ImpactTier identifies which estimator produced an ImpactRange.
type ImpactTier string

const (
	ImpactTierC ImpactTier = "C"
	ImpactTierB ImpactTier = "B"
)

// ImpactRange is the shared output shape for both impact-estimation tiers.
type ImpactRange struct {
	Min         float64
	Expected    float64
	Max         float64
	Confidence  ConfidenceLevel
	Tier        ImpactTier
	Explanation string
	Assumptions []string
}

// FixPlanImpact is the aggregated impact estimate over a whole FixPlan.
type FixPlanImpact struct {
	PerFix            map[string]ImpactRange
	TotalMin          float64
	TotalExpected     float64
	TotalMax          float64
	OverallConfidence ConfidenceLevel
	Notes             []string
}

// ObservationRequest is one provider call to make for the Observation stage.
type ObservationRequest struct {
	QuestionID   string
	QuestionText string
	CompanyName  string
	Domain       string
	Model        string
	Temperature  float64
	MaxTokens    int
}

// ObservationResponse is a provider's raw answer to an ObservationRequest.
type ObservationResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Retryable    bool
	Err          error
}

// MentionType classifies how a company was referenced in a response.
type MentionType string

const (
	MentionExact   MentionType = "exact"
	MentionPartial MentionType = "partial"
	MentionDomain  MentionType = "domain"
	MentionURL     MentionType = "url"
	MentionBranded MentionType = "branded"
)

// Mention is one detected reference to the target company.
type Mention struct {
	Type       MentionType
	Text       string
	StartPos   int
	Confidence float64
}

// CitationType classifies a URL citation match.
type CitationType string

const (
	CitationCompanyURL  CitationType = "company_url"
	CitationExternalURL CitationType = "external_url"
)

// Citation is a URL found in a response, classified relative to the target domain.
type Citation struct {
	URL  string
	Type CitationType
}

// CitationPatternType classifies a textual citation pattern match.
type CitationPatternType string

const (
	CitationDirectQuote CitationPatternType = "direct_quote"
	CitationAttribution CitationPatternType = "attribution"
	CitationSourceLink  CitationPatternType = "source_link"
	CitationReference   CitationPatternType = "reference"
	CitationImplicit    CitationPatternType = "implicit"
)

// Sentiment is the categorical sentiment of a response.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentMixed    Sentiment = "mixed"
	SentimentNeutral  Sentiment = "neutral"
)

// ParsedObservation is the structured extraction of one ObservationResponse.
type ParsedObservation struct {
	QuestionID        string
	Mentions          []Mention
	Citations         []Citation
	CitationPatterns  []CitationPatternType
	Sentiment         Sentiment
	SentimentScore    float64
	Confidence        ConfidenceLevel
	Uncertain         bool
	Refused           bool
	HallucinationRisk bool
	HasCompanyMention bool
	HasDomainMention  bool
	HasURLMention     bool
}

// ObservationResult is the final per-question observation record.
type ObservationResult struct {
	QuestionID       string
	RawResponse      string
	CompanyMentioned bool
	DomainMentioned  bool
	URLMentioned     bool
	Citations        []Citation
	Parsed           ParsedObservation
	Model            string
	Failed           bool
	Error            string
}

// CompareOutcome is the per-question verdict from the Comparator.
type CompareOutcome string

const (
	OutcomeCorrect     CompareOutcome = "correct"
	OutcomeOptimistic  CompareOutcome = "optimistic"
	OutcomePessimistic CompareOutcome = "pessimistic"
	OutcomeUnknown     CompareOutcome = "unknown"
)

// ComparisonResult pairs a simulation prediction with an observation, per question.
type ComparisonResult struct {
	QuestionID string
	Outcome    CompareOutcome
}

// DivergenceLevel is the coarse divergence-severity scale.
type DivergenceLevel string

const (
	DivergenceNone   DivergenceLevel = "none"
	DivergenceLow    DivergenceLevel = "low"
	DivergenceMedium DivergenceLevel = "medium"
	DivergenceHigh   DivergenceLevel = "high"
)

// DivergenceSection summarizes the gap between simulation and observation.
type DivergenceSection struct {
	Level              DivergenceLevel
	MentionRateDelta   float64
	PredictionAccuracy float64
	ShouldRefresh      bool
	RefreshReasons     []string
	OptimismBias       float64
	PessimismBias      float64
	CalibrationNotes   []string
}

// BenchmarkOutcome is the per-question head-to-head verdict vs one competitor.
type BenchmarkOutcome string

const (
	BenchWin        BenchmarkOutcome = "win"
	BenchLoss       BenchmarkOutcome = "loss"
	BenchTie        BenchmarkOutcome = "tie"
	BenchMutualWin  BenchmarkOutcome = "mutual_win"
	BenchMutualLoss BenchmarkOutcome = "mutual_loss"
)

// CompetitorHeadToHead aggregates outcomes against one competitor.
type CompetitorHeadToHead struct {
	Name              string
	Wins              int
	Losses            int
	Ties              int
	WinRate           float64
	MentionAdvantage  float64
	CitationAdvantage float64
}

// QuestionBenchmark is the per-question outcome across all competitors.
type QuestionBenchmark struct {
	QuestionID string
	Outcomes   map[string]BenchmarkOutcome // competitor name -> outcome
}

// BenchmarkResult is the full competitor comparison.
type BenchmarkResult struct {
	Competitors     []CompetitorHeadToHead
	QuestionResults []QuestionBenchmark
	UniqueWins      []string
	UniqueLosses    []string
	OverallWins     int
	OverallLosses   int
	OverallTies     int
	OverallWinRate  float64
}

// ReportMetadata is the FullReport's metadata block.
type ReportMetadata struct {
	ReportID           uuid.UUID
	SiteID             string
	RunID              uuid.UUID
	Version            string
	CompanyName        string
	Domain             string
	CreatedAt          time.Time
	RunStartedAt       *time.Time
	RunCompletedAt     *time.Time
	RunDurationSeconds *float64
	IncludeObservation bool
	IncludeBenchmark   bool
	Limitations        []string
	Notes              []string
}

// ScoreSection is the FullReport's score block.
type ScoreSection struct {
	TotalScore          float64
	Grade               string
	GradeDescription    string
	CategoryScores      map[Category]float64
	CriterionScores     []CriterionScore
	TotalQuestions      int
	QuestionsAnswered   int
	QuestionsPartial    int
	QuestionsUnanswered int
	CoveragePercentage  float64
	CalculationSummary  []string
	FormulaUsed         string
	RubricVersion       string
}

// CriterionScore is one weighted criterion in the ScoreBreakdown.
type CriterionScore struct {
	Name   string
	Raw    float64
	Weight float64
	Points float64
}

// FixSectionEntry is one fix as it appears in the report's fixes[] array.
type FixSectionEntry struct {
	ID                 string
	ReasonCode         ReasonCode
	Title              string
	Description        string
	Scaffold           string
	Priority           int
	EstimatedImpact    ImpactRange
	EffortLevel        string
	TargetURL          string
	AffectedQuestions  []string
	AffectedCategories []Category
}

// FixSection is the FullReport's fixes block.
type FixSection struct {
	TotalFixes           int
	CriticalFixes        int
	HighPriorityFixes    int
	EstimatedTotalImpact float64
	Fixes                []FixSectionEntry
	CategoriesAddressed  []Category
	QuestionsAddressed   int
}

// ObservationSection is the FullReport's optional observation block.
type ObservationSection struct {
	CompanyMentionRate     float64
	DomainMentionRate      float64
	CitationRate           float64
	TotalQuestions         int
	QuestionsWithMention   int
	QuestionsWithCitation  int
	Provider               string
	Model                  string
	QuestionResults        []ObservationResult
	PredictionAccuracy     float64
	OptimisticPredictions  int
	PessimisticPredictions int
	CorrectPredictions     int
	Insights               []string
	Recommendations        []string
}

// BenchmarkSection is the FullReport's optional benchmark block.
type BenchmarkSection struct {
	TotalCompetitors          int
	TotalQuestions            int
	YourMentionRate           float64
	YourCitationRate          float64
	AvgCompetitorMentionRate  float64
	AvgCompetitorCitationRate float64
	OverallWins               int
	OverallLosses             int
	OverallTies               int
	OverallWinRate            float64
	UniqueWins                []string
	UniqueLosses              []string
	Competitors               []CompetitorHeadToHead
	QuestionBenchmarks        []QuestionBenchmark
	Insights                  []string
	Recommendations           []string
}

// ReportVersion is the current FullReport wire-format version. Readers must
// reject any other value.
const ReportVersion = "1.1"

// FullReport is the versioned report envelope assembled by the Report Assembler.
type FullReport struct {
	Version     string
	Metadata    ReportMetadata
	Score       ScoreSection
	Fixes       FixSection
	Observation *ObservationSection
	Benchmark   *BenchmarkSection
	Divergence  *DivergenceSection

	// Denormalized quick-access fields for external storage.
	ScoreConservative int
	ScoreTypical      int
	ScoreGenerous     int
	MentionRate       *float64
}
