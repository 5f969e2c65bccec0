package professor

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL troca o endpoint da API (proxy, testes). Vazio usa o padrão.
	BaseURL    string
	HTTPClient *http.Client
}

// Gemini implementa Generator sobre a API Gemini.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  cfg.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &Gemini{client: client, model: cfg.Model}, nil
}

func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Code == http.StatusServiceUnavailable {
				return "", fmt.Errorf("%w: %s", ErrOverloaded, apiErr.Message)
			}
			return "", &UpstreamError{Code: apiErr.Code, Message: apiErr.Message}
		}
		return "", err
	}
	return resp.Text(), nil
}
