// pkg/ai/openai_client.go

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type openAI struct {
	endpoint string
	key      string
	model    string
	httpc    *http.Client
}

// NewOpenAI talks to any OpenAI-compatible chat completions endpoint.
func NewOpenAI(endpoint, key, model string) Client {
	return &openAI{endpoint: endpoint, key: key, model: model, httpc: &http.Client{Timeout: 90 * time.Second}}
}

func (c *openAI) Name() string { return "openai:" + c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string  `json:"name"`
	Strict bool    `json:"strict"`
	Schema *Schema `json:"schema"`
}

type chatReq struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature"`
	TopP           float32         `json:"top_p"`
	MaxTokens      int32           `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

func (c *openAI) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	reqBody := chatReq{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemInstruction},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Sampling.Temperature,
		TopP:        req.Sampling.TopP,
		MaxTokens:   req.Sampling.MaxTokens,
	}
	if req.ResponseShape != nil {
		reqBody.ResponseFormat = &responseFormat{
			Type:       "json_schema",
			JSONSchema: &jsonSchema{Name: "feedback", Strict: true, Schema: req.ResponseShape},
		}
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.endpoint, "/")+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.key)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chat completions: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat completions: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
