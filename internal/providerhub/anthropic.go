package providerhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

type anthropicProvider struct {
	client anthropic.Client
}

// NewAnthropicProvider builds a Provider backed by the Anthropic Messages API.
func NewAnthropicProvider(apiKey string) Provider {
	return &anthropicProvider{client: anthropic.NewClient(option.WithAPIKey(apiKey))}
}

func (p *anthropicProvider) Observe(ctx context.Context, req models.ObservationRequest) models.ObservationResponse {
	model := req.Model
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	prompt := fmt.Sprintf(`Answer the following question, returning ONLY a valid JSON object with this structure:

{
  "answer": "Your detailed answer here",
  "key_points": ["Key point 1", "Key point 2"],
  "confidence": "high|medium|low"
}

Question: %s

Remember: Return ONLY the JSON object, no other text.`, req.QuestionText)

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
		}},
		Temperature: anthropic.Float(req.Temperature),
	})
	if err != nil {
		return models.ObservationResponse{Err: fmt.Errorf("anthropic: message create failed: %w", err), Retryable: isAnthropicRetryable(err)}
	}

	content := extractText(*resp)
	content = parseStructuredAnswer(content)

	return models.ObservationResponse{
		Content:      content,
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}
}

// isAnthropicRetryable classifies a transient (timeout, 5xx, 429) error as
// retryable and a permanent one (auth, other 4xx) as not, per spec.md:281,
// mirroring isRetryable in openai.go. The SDK surfaces non-2xx responses as
// *anthropic.Error, which carries the HTTP status code.
func isAnthropicRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return true
}

func extractText(msg anthropic.Message) string {
	var parts []string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "")
}

func parseStructuredAnswer(raw string) string {
	var structured QuestionResponse
	if err := json.Unmarshal([]byte(raw), &structured); err != nil || structured.Answer == "" {
		return raw
	}
	answer := structured.Answer
	if len(structured.KeyPoints) > 0 {
		answer += "\n\nKey Points:\n"
		for _, p := range structured.KeyPoints {
			answer += "- " + p + "\n"
		}
	}
	return answer
}
