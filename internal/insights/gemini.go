// Package insights provides the LLM-backed advice generator. The model is an
// external collaborator: callers must treat every result as best-effort and
// degrade gracefully when generation fails.
package insights

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.0-flash"

// Gemini generates advice text via the Gemini API.
type Gemini struct {
	apiKey string
	model  string
}

// NewGemini creates a generator for the given API key and model. An empty
// model falls back to DefaultModelName.
func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = DefaultModelName
	}
	return &Gemini{apiKey: apiKey, model: model}
}

// Generate sends the prompt to the model and returns its raw text output.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("creating genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
