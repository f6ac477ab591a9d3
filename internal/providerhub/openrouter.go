package providerhub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

// openRouterProvider calls the OpenRouter chat-completions REST endpoint
// directly; OpenRouter has no official Go SDK in this module's dependency
// graph, so it is wired the way any bare REST collaborator would be:
// single http.Client, JSON body, bearer auth header.
type openRouterProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenRouterProvider builds a Provider backed by the OpenRouter API.
func NewOpenRouterProvider(apiKey, baseURL string) Provider {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	return &openRouterProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterRequest struct {
	Model       string              `json:"model"`
	Messages    []openRouterMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

type openRouterChoice struct {
	Message openRouterMessage `json:"message"`
}

type openRouterUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type openRouterResponse struct {
	Choices []openRouterChoice `json:"choices"`
	Usage   openRouterUsage    `json:"usage"`
	Error   *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (p *openRouterProvider) Observe(ctx context.Context, req models.ObservationRequest) models.ObservationResponse {
	model := req.Model
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	body := openRouterRequest{
		Model: model,
		Messages: []openRouterMessage{
			{Role: "system", Content: "You are a helpful assistant answering questions about companies using only what you already know."},
			{Role: "user", Content: req.QuestionText},
		},
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return models.ObservationResponse{Err: fmt.Errorf("openrouter: failed to marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return models.ObservationResponse{Err: fmt.Errorf("openrouter: failed to create request: %w", err)}
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return models.ObservationResponse{Err: fmt.Errorf("openrouter: request failed: %w", err), Retryable: true}
	}
	defer resp.Body.Close()

	var parsed openRouterResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return models.ObservationResponse{Err: fmt.Errorf("openrouter: failed to decode response: %w", err), Retryable: resp.StatusCode >= 500}
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		msg := fmt.Sprintf("openrouter: status %d", resp.StatusCode)
		if parsed.Error != nil {
			msg = fmt.Sprintf("openrouter: status %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return models.ObservationResponse{Err: fmt.Errorf("%s", msg), Retryable: retryable}
	}
	if len(parsed.Choices) == 0 {
		return models.ObservationResponse{Err: fmt.Errorf("openrouter: no choices returned")}
	}

	return models.ObservationResponse{
		Content:      parsed.Choices[0].Message.Content,
		InputTokens:  parsed.Usage.PromptTokens,
		OutputTokens: parsed.Usage.CompletionTokens,
	}
}
