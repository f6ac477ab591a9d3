// Package collab defines the consumed collaborator interfaces:
// Crawler, Extractor, Chunker, Embedder, Provider, JobQueue, and Scheduler.
// The core pipeline only ever depends on these small interfaces; persistent
// storage, the real crawler, and the real job queue are out of scope and
// live outside this module. An in-memory JobQueue/Scheduler is shipped
// here as the one concrete adapter this module owns.
package collab

import (
	"context"
	"time"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

// CrawledPage is one page fetched by the external Crawler collaborator.
type CrawledPage struct {
	URL    string
	HTML   string
	Status int
	Depth  int
}

// Crawler produces the raw pages a run operates over. The concrete crawler
// is an external collaborator; the core only consumes this interface.
type Crawler interface {
	Crawl(ctx context.Context, domain string) ([]CrawledPage, error)
}

// Headings groups heading text by level, as the Extractor collaborator
// reports it.
type Headings struct {
	H1 []string
	H2 []string
	H3 []string
}

// ExtractedPage is one page's HTML reduced to plain text plus metadata.
type ExtractedPage struct {
	URL         string
	Title       string
	MainContent string
	WordCount   int
	Headings    Headings
	Metadata    map[string]string
}

// Extractor turns raw HTML into plain text and structural metadata.
type Extractor interface {
	Extract(ctx context.Context, page CrawledPage) (ExtractedPage, error)
}

// ChunkerChunk is one chunk the external Chunker collaborator produces,
// before embedding.
type ChunkerChunk struct {
	Content     string
	URL         string
	Title       string
	HeadingPath string
}

// Chunker splits an ExtractedPage's text into bounded, indexable segments.
type Chunker interface {
	Chunk(ctx context.Context, page ExtractedPage) ([]ChunkerChunk, error)
}

// EmbeddingResult pairs one chunk's content hash with its computed vector.
type EmbeddingResult struct {
	ChunkIndex  int
	ContentHash string
	Embedding   []float64
}

// Embedder computes dense vector embeddings for single strings or batches
// of chunks.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedMany(ctx context.Context, chunks []ChunkerChunk) ([]EmbeddingResult, error)
}

// Provider is the collaborator-facing shape of the closed provider sum
// type: more than one backend can satisfy it, and internal/providerhub
// implements the concrete variants that do.
type Provider interface {
	Observe(ctx context.Context, req models.ObservationRequest) models.ObservationResponse
	ObserveBatch(ctx context.Context, reqs []models.ObservationRequest) []models.ObservationResponse
	HealthCheck(ctx context.Context) error
}

// JobStatus is the closed set of background-job states.
type JobStatus string

const (
	JobQueued   JobStatus = "queued"
	JobStarted  JobStatus = "started"
	JobFinished JobStatus = "finished"
	JobFailed   JobStatus = "failed"
	JobCanceled JobStatus = "canceled"
)

// JobInfo is the status snapshot GetStatus returns.
type JobInfo struct {
	Status JobStatus
	Result any
	Err    error
}

// JobQueue enqueues background work and reports on it. The real
// implementation (Redis/DB-backed) is an external collaborator out of
// scope for this module; it ships only an in-memory adapter for
// local runs and tests, below.
type JobQueue interface {
	Enqueue(fn func(ctx context.Context) (any, error), opts JobOptions) (string, error)
	GetStatus(jobID string) (JobInfo, bool)
	Cancel(jobID string) bool
}

// JobOptions are the recognized options for one Enqueue call.
type JobOptions struct {
	Priority int
	Metadata map[string]string
}

// ScheduledJob is one entry in the Scheduler's job list.
type ScheduledJob struct {
	ID   string
	At   time.Time
	Meta map[string]string
}

// Scheduler schedules deferred work (e.g. a recurring audit re-run). The
// real cron-like scheduler is an external collaborator out of scope for
// this module, same as the crawl/extract/chunk/embed side.
type Scheduler interface {
	Schedule(at time.Time, fn func(ctx context.Context) (any, error), meta map[string]string) (string, error)
	Cancel(jobID string) bool
	ListJobs() []ScheduledJob
}
