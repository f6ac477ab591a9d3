package providerhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

type openAIProvider struct {
	client openai.Client
}

// NewOpenAIProvider builds a Provider backed by the OpenAI chat completions API.
func NewOpenAIProvider(apiKey string) Provider {
	return &openAIProvider{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

func (p *openAIProvider) Observe(ctx context.Context, req models.ObservationRequest) models.ObservationResponse {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "question_response",
		Description: openai.String("Structured response to the question"),
		Schema:      questionResponseSchema,
		Strict:      openai.Bool(true),
	}

	model := req.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	temp := req.Temperature
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a helpful assistant answering questions about companies using only what you already know."),
			openai.UserMessage(req.QuestionText),
		},
		Model: openai.ChatModel(model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
		Temperature: openai.Float(temp),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return models.ObservationResponse{Err: fmt.Errorf("openai: chat completion failed: %w", err), Retryable: isRetryable(err)}
	}
	if len(resp.Choices) == 0 {
		return models.ObservationResponse{Err: errors.New("openai: no response choices returned"), Retryable: false}
	}

	content := resp.Choices[0].Message.Content
	var structured QuestionResponse
	if err := json.Unmarshal([]byte(content), &structured); err == nil && structured.Answer != "" {
		content = structured.Answer
	}

	return models.ObservationResponse{
		Content:      content,
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
	}
}

// isRetryable classifies a transient (timeout, 5xx, 429) error as retryable
// and a permanent one (auth, other 4xx) as not, per spec.md:281. The SDK
// surfaces non-2xx responses as *openai.Error, which carries the HTTP
// status code.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	// No typed status (connection reset, context deadline, DNS failure): treat
	// as a transient network fault, not a permanent rejection.
	return true
}
