package observation

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

// Provider is the minimal contract the Observation Runner needs from a
// providerhub backend: issue one call, return content or a retryable error.
type Provider interface {
	Observe(ctx context.Context, req models.ObservationRequest) models.ObservationResponse
}

// Options is the recognized Observation Runner configuration.
type Options struct {
	RequestsPerMinute int
	MaxRetries        int
	RetryDelaySeconds float64
	Concurrency       int
}

// DefaultOptions returns the recognized defaults.
func DefaultOptions() Options {
	return Options{
		RequestsPerMinute: 20,
		MaxRetries:        3,
		RetryDelaySeconds: 1.0,
		Concurrency:       4,
	}
}

// Run executes a batch of ObservationRequests against primary, falling back
// to fallback when primary exhausts its retries, honoring the per-minute
// rate limit and bounded concurrency. Results are returned in input order.
// A question whose every attempt fails is marked Failed and does not abort
// the batch. Run returns no error: when every question fails, each result
// comes back marked Failed and the caller receives that slice as is.
func Run(ctx context.Context, primary, fallback Provider, requests []models.ObservationRequest, opts Options) []models.ObservationResult {
	results := make([]models.ObservationResult, len(requests))
	if len(requests) == 0 {
		return results
	}

	interval := time.Duration(float64(time.Minute) / float64(maxInt(1, opts.RequestsPerMinute)))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var tickMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInt(1, opts.Concurrency))

	for i, r := range requests {
		i, r := i, r
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = models.ObservationResult{QuestionID: r.QuestionID, Failed: true, Error: "cancelled"}
				return nil
			default:
			}

			tickMu.Lock()
			<-ticker.C
			tickMu.Unlock()

			results[i] = callWithRetry(ctx, primary, fallback, r, opts)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func callWithRetry(ctx context.Context, primary, fallback Provider, req models.ObservationRequest, opts Options) models.ObservationResult {
	resp := attemptWithRetries(ctx, primary, req, opts)
	if resp.Err != nil && fallback != nil {
		resp = attemptWithRetries(ctx, fallback, req, opts)
	}
	if resp.Err != nil {
		return models.ObservationResult{
			QuestionID: req.QuestionID,
			Failed:     true,
			Error:      resp.Err.Error(),
			Model:      req.Model,
		}
	}

	parsed := Parse(req.QuestionID, resp.Content, req.CompanyName, req.Domain)
	return models.ObservationResult{
		QuestionID:       req.QuestionID,
		RawResponse:      resp.Content,
		CompanyMentioned: parsed.HasCompanyMention,
		DomainMentioned:  parsed.HasDomainMention,
		URLMentioned:     parsed.HasURLMention,
		Citations:        parsed.Citations,
		Parsed:           parsed,
		Model:            req.Model,
	}
}

func attemptWithRetries(ctx context.Context, p Provider, req models.ObservationRequest, opts Options) models.ObservationResponse {
	var resp models.ObservationResponse
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		resp = p.Observe(ctx, req)
		if resp.Err == nil {
			return resp
		}
		if !resp.Retryable || attempt == opts.MaxRetries {
			return resp
		}
		delay := time.Duration(opts.RetryDelaySeconds * pow2(attempt) * float64(time.Second))
		select {
		case <-ctx.Done():
			return resp
		case <-time.After(delay):
		}
	}
	return resp
}

func pow2(n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= 2
	}
	return result
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
