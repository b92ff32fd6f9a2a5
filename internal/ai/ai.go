// Package ai wraps the Gemini client behind the uniform prompt-in,
// text-out surface the generation pipeline drives its model fallback
// loop over.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Generator holds the Gemini client.
type Generator struct {
	client *genai.Client
}

// NewGenerator initializes the Gemini client.
func NewGenerator(ctx context.Context, apiKey string) (*Generator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Generator{client: client}, nil
}

func (g *Generator) Close() error {
	return g.client.Close()
}

// Generate sends one prompt to one model and returns the full text.
// Fallback across models is the pipeline's job, not this package's.
func (g *Generator) Generate(ctx context.Context, modelName, prompt string) (string, error) {
	model := g.client.GenerativeModel(modelName)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("model %s: %w", modelName, err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("model %s returned no text", modelName)
	}
	return text, nil
}

// GenerateStream sends one prompt to one model, invoking onChunk for each
// produced piece of text, and returns the concatenated output.
func (g *Generator) GenerateStream(ctx context.Context, modelName, prompt string, onChunk func(string) error) (string, error) {
	model := g.client.GenerativeModel(modelName)

	iter := model.GenerateContentStream(ctx, genai.Text(prompt))
	var full strings.Builder
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", fmt.Errorf("model %s stream: %w", modelName, err)
		}
		chunk := responseText(resp)
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if onChunk != nil {
			if err := onChunk(chunk); err != nil {
				return "", err
			}
		}
	}

	if full.Len() == 0 {
		return "", fmt.Errorf("model %s returned no text", modelName)
	}
	return full.String(), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
