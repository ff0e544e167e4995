package service

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/pageza/recipe-chat/backend/config"
)

// GenerationParams are the sampling settings sent with every provider call.
type GenerationParams struct {
	Temperature     float32
	MaxOutputTokens int32
}

// Provider is a generative-AI backend that completes a single prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
	Name() string
}

// NewProvider builds the provider selected by cfg.Provider.
func NewProvider(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// GeminiProvider calls the Gemini API through the genai SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini client. baseURL is optional.
func NewGeminiProvider(ctx context.Context, apiKey, model, baseURL string) (*GeminiProvider, error) {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	res, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(params.Temperature),
		MaxOutputTokens: params.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini: generating content: %w", err)
	}
	text := res.Text()
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}
