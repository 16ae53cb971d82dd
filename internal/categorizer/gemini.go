package categorizer

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiGenerator calls a Gemini model through the GenAI SDK.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a GenAI client. Credentials come from the
// environment (GOOGLE_API_KEY or Vertex AI settings).
func NewGeminiGenerator(ctx context.Context, model string) (*GeminiGenerator, error) {
	if model == "" {
		model = DefaultModelName
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiGenerator: create genai client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Generate: generate content: %w", err)
	}
	return resp.Text(), nil
}

// NewGemini returns a Categorizer backed by a Gemini model.
func NewGemini(ctx context.Context, model string) (*Categorizer, error) {
	gen, err := NewGeminiGenerator(ctx, model)
	if err != nil {
		return nil, err
	}
	return New(gen), nil
}
