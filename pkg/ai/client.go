// pkg/ai/client.go

package ai

import "context"

// Client is the generation collaborator: one request in, raw reply text out.
type Client interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	Name() string
}

// GenerationRequest is everything a provider needs for one feedback generation.
type GenerationRequest struct {
	Prompt            string
	SystemInstruction string
	ResponseShape     *Schema
	Sampling          Sampling
}

// Sampling holds the fixed creativity/diversity controls.
type Sampling struct {
	Temperature     float32
	TopP            float32
	TopK            float32
	MaxTokens       int32
	ReasoningBudget int32
}

// Schema is a provider-neutral subset of JSON schema.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`

	// AdditionalProperties=false is required by strict structured outputs on OpenAI.
	AdditionalProperties *bool    `json:"additionalProperties,omitempty"`
	PropertyOrdering     []string `json:"-"`
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, req GenerationRequest) (string, error)

func (f ClientFunc) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	return f(ctx, req)
}

func (f ClientFunc) Name() string { return "func" }
