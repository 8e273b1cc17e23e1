package service

import (
	"context"
	"iter"
	"strings"

	"google.golang.org/genai"

	apperrors "github.com/allisson/emoticare/internal/errors"
)

// ErrMissingAPIKey is returned when the Gemini provider is selected without an API key.
var ErrMissingAPIKey = apperrors.Wrap(apperrors.ErrInvalidInput, "gemini api key is required")

// ContentModels is the subset of *genai.Models used by GeminiGenerator.
type ContentModels interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
	GenerateContentStream(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) iter.Seq2[*genai.GenerateContentResponse, error]
}

// NewGeminiClient creates a Gemini API client.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create gemini client")
	}
	return client, nil
}

// GeminiGenerator generates replies with a Gemini model.
type GeminiGenerator struct {
	models      ContentModels
	model       string
	temperature float32
}

// NewGeminiGenerator creates a GeminiGenerator. Pass client.Models from NewGeminiClient.
func NewGeminiGenerator(models ContentModels, model string, temperature float32) *GeminiGenerator {
	return &GeminiGenerator{
		models:      models,
		model:       model,
		temperature: temperature,
	}
}

func (g *GeminiGenerator) config(language string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(g.temperature),
		SystemInstruction: genai.NewContentFromText(systemPrompt(language), genai.RoleUser),
	}
}

// Stream yields the text of every streamed response chunk. Chunks without text are skipped.
func (g *GeminiGenerator) Stream(ctx context.Context, text, language string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for resp, err := range g.models.GenerateContentStream(ctx, g.model, genai.Text(text), g.config(language)) {
			if err != nil {
				yield("", apperrors.Wrap(err, "gemini stream failed"))
				return
			}
			chunk := resp.Text()
			if chunk == "" {
				continue
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// Reply returns the full text of a single non-streaming response.
func (g *GeminiGenerator) Reply(ctx context.Context, text, language string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(text), g.config(language))
	if err != nil {
		return "", apperrors.Wrap(err, "gemini request failed")
	}
	reply := resp.Text()
	if reply == "" {
		return "", apperrors.New("gemini returned an empty reply")
	}
	return reply, nil
}
