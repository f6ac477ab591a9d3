package observation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

type stubProvider struct {
	calls   int32
	handler func(calls int32) models.ObservationResponse
}

func (s *stubProvider) Observe(ctx context.Context, req models.ObservationRequest) models.ObservationResponse {
	n := atomic.AddInt32(&s.calls, 1)
	return s.handler(n)
}

func TestRunSucceedsOnPrimary(t *testing.T) {
	primary := &stubProvider{handler: func(int32) models.ObservationResponse {
		return models.ObservationResponse{Content: "Acme is great."}
	}}
	opts := DefaultOptions()
	opts.RequestsPerMinute = 6000 // fast for test
	requests := []models.ObservationRequest{{QuestionID: "q1", CompanyName: "Acme", Domain: "acme.com"}}

	results := Run(context.Background(), primary, nil, requests, opts)
	if len(results) != 1 || results[0].Failed {
		t.Fatalf("expected success, got %+v", results)
	}
}

func TestRunFallsBackOnNonRetryableError(t *testing.T) {
	primary := &stubProvider{handler: func(int32) models.ObservationResponse {
		return models.ObservationResponse{Err: errors.New("auth error"), Retryable: false}
	}}
	fallback := &stubProvider{handler: func(int32) models.ObservationResponse {
		return models.ObservationResponse{Content: "fallback response"}
	}}
	opts := DefaultOptions()
	opts.RequestsPerMinute = 6000
	requests := []models.ObservationRequest{{QuestionID: "q1", CompanyName: "Acme", Domain: "acme.com"}}

	results := Run(context.Background(), primary, fallback, requests, opts)
	if results[0].Failed {
		t.Fatalf("expected fallback to succeed, got %+v", results[0])
	}
	if results[0].RawResponse != "fallback response" {
		t.Errorf("expected fallback response, got %q", results[0].RawResponse)
	}
}

func TestRunMarksFailedWhenAllAttemptsExhausted(t *testing.T) {
	primary := &stubProvider{handler: func(int32) models.ObservationResponse {
		return models.ObservationResponse{Err: errors.New("timeout"), Retryable: true}
	}}
	opts := DefaultOptions()
	opts.RequestsPerMinute = 6000
	opts.MaxRetries = 1
	opts.RetryDelaySeconds = 0.01
	requests := []models.ObservationRequest{{QuestionID: "q1"}}

	results := Run(context.Background(), primary, nil, requests, opts)
	if !results[0].Failed {
		t.Fatalf("expected failure after exhausting retries, got %+v", results[0])
	}
}

func TestRunRespectsCancellation(t *testing.T) {
	primary := &stubProvider{handler: func(int32) models.ObservationResponse {
		return models.ObservationResponse{Content: "ok"}
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := DefaultOptions()
	opts.RequestsPerMinute = 6000
	requests := []models.ObservationRequest{{QuestionID: "q1"}, {QuestionID: "q2"}}

	results := Run(ctx, primary, nil, requests, opts)
	for _, r := range results {
		if !r.Failed {
			t.Errorf("expected all requests to fail on pre-cancelled context, got %+v", r)
		}
	}
}

func TestAttemptWithRetriesBacksOff(t *testing.T) {
	attempts := int32(0)
	p := &stubProvider{handler: func(n int32) models.ObservationResponse {
		atomic.StoreInt32(&attempts, n)
		if n < 3 {
			return models.ObservationResponse{Err: errors.New("503"), Retryable: true}
		}
		return models.ObservationResponse{Content: "ok"}
	}}
	opts := Options{MaxRetries: 3, RetryDelaySeconds: 0.001}
	resp := attemptWithRetries(context.Background(), p, models.ObservationRequest{}, opts)
	if resp.Err != nil {
		t.Fatalf("expected eventual success, got err %v", resp.Err)
	}
	if atomic.LoadInt32(&attempts) != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestPow2(t *testing.T) {
	if pow2(0) != 1 || pow2(1) != 2 || pow2(3) != 8 {
		t.Errorf("unexpected pow2 results: %f %f %f", pow2(0), pow2(1), pow2(3))
	}
}
