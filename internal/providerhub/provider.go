// Package providerhub adapts the closed set of LLM providers
// (openrouter | openai | mock | anthropic) to the single Observe contract
// the Observation Runner needs.
package providerhub

import (
	"context"
	"fmt"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

// Kind is the closed enumeration of recognized provider backends.
type Kind string

const (
	KindOpenRouter Kind = "openrouter"
	KindOpenAI     Kind = "openai"
	KindMock       Kind = "mock"
	KindAnthropic  Kind = "anthropic"
)

// Provider issues one observation call against a backend.
type Provider interface {
	Observe(ctx context.Context, req models.ObservationRequest) models.ObservationResponse
}

// FullProvider is the richer {Observe, ObserveBatch, HealthCheck} capability
// the closed provider sum type needs; it is what satisfies
// collab.Provider. withBatchAndHealth adapts any Provider into one.
type FullProvider interface {
	Provider
	ObserveBatch(ctx context.Context, reqs []models.ObservationRequest) []models.ObservationResponse
	HealthCheck(ctx context.Context) error
}

type withBatchAndHealth struct {
	Provider
}

// Wrap adapts a bare Provider into a FullProvider by sequentially issuing
// ObserveBatch calls and treating HealthCheck as a single trivial probe
// request. Backends that need a cheaper real health endpoint (e.g. the
// OpenRouter/OpenAI/Anthropic REST APIs) can implement FullProvider
// directly instead.
func Wrap(p Provider) FullProvider {
	return withBatchAndHealth{Provider: p}
}

func (w withBatchAndHealth) ObserveBatch(ctx context.Context, reqs []models.ObservationRequest) []models.ObservationResponse {
	out := make([]models.ObservationResponse, len(reqs))
	for i, r := range reqs {
		out[i] = w.Observe(ctx, r)
	}
	return out
}

func (w withBatchAndHealth) HealthCheck(ctx context.Context) error {
	resp := w.Observe(ctx, models.ObservationRequest{QuestionText: "healthcheck", MaxTokens: 1})
	return resp.Err
}

// Config is the recognized constructor input shared by all backends.
type Config struct {
	Kind    Kind
	APIKey  string
	BaseURL string // only meaningful for openrouter
}

// New dispatches to the concrete provider implementation for cfg.Kind. This
// is the closed sum-type boundary: every Kind must be handled here.
func New(cfg Config) (Provider, error) {
	switch cfg.Kind {
	case KindOpenAI:
		return NewOpenAIProvider(cfg.APIKey), nil
	case KindAnthropic:
		return NewAnthropicProvider(cfg.APIKey), nil
	case KindOpenRouter:
		return NewOpenRouterProvider(cfg.APIKey, cfg.BaseURL), nil
	case KindMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("providerhub: unrecognized provider kind %q", cfg.Kind)
	}
}
