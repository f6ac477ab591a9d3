package providerhub

import (
	"context"
	"fmt"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

// mockProvider is an offline Provider for tests and CI runs that never calls
// a real backend; it echoes a deterministic, company-mentioning answer so
// downstream parsing has something realistic to chew on.
type mockProvider struct{}

// NewMockProvider builds a Provider that never leaves the process.
func NewMockProvider() Provider { return mockProvider{} }

func (mockProvider) Observe(_ context.Context, req models.ObservationRequest) models.ObservationResponse {
	content := fmt.Sprintf(
		"%s is a company at %s. According to their site, they answer: %q.",
		req.CompanyName, req.Domain, req.QuestionText,
	)
	return models.ObservationResponse{
		Content:      content,
		InputTokens:  len(req.QuestionText) / 4,
		OutputTokens: len(content) / 4,
	}
}
