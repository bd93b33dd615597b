// pkg/ai/mock_client.go

package ai

import (
	"context"
	"encoding/json"
	"strings"
)

type mockClient struct{}

// NewMock returns a client that answers without any network call. The reply is
// a valid feedback object that echoes the first line of the prompt.
func NewMock() Client { return &mockClient{} }

func (m *mockClient) Name() string { return "mock" }

func (m *mockClient) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	first := strings.TrimSpace(req.Prompt)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	out := map[string]any{
		"feedbackText": "Feedback de demonstração (mock). " + first,
		"actionableSuggestions": []string{
			"Revisar os pontos destacados no enunciado.",
			"Praticar com exercícios semelhantes.",
		},
	}
	b, _ := json.Marshal(out)
	return string(b), nil
}
