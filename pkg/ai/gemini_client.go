// pkg/ai/gemini_client.go

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a client for the Gemini API.
func NewGemini(ctx context.Context, apiKey, model string) (Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &gemini{client: c, model: model}, nil
}

func (g *gemini) Name() string { return "gemini:" + g.model }

func (g *gemini) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(req.Sampling.Temperature),
		TopP:             genai.Ptr(req.Sampling.TopP),
		TopK:             genai.Ptr(req.Sampling.TopK),
		MaxOutputTokens:  req.Sampling.MaxTokens,
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(req.ResponseShape),
		ThinkingConfig:   &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(req.Sampling.ReasoningBudget)},
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:             genai.Type(strings.ToUpper(s.Type)),
		Description:      s.Description,
		Items:            toGenaiSchema(s.Items),
		Required:         s.Required,
		PropertyOrdering: s.PropertyOrdering,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = toGenaiSchema(v)
		}
	}
	return out
}
