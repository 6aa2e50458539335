package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"reelbuzz/internal/config"
	"reelbuzz/internal/logger"
)

const defaultGeminiModels = "gemini-2.0-flash,gemini-1.5-flash"

// Gemini is a Client backed by the Google Gemini API. Models are tried in
// order; a retired model advances the chain permanently for this client.
type Gemini struct {
	client      *genai.Client
	models      []string
	temperature float32
	maxTokens   int32
	timeout     time.Duration

	mu       sync.Mutex
	modelIdx int
}

const defaultLLMTimeout = 60 * time.Second

func NewGemini(ctx context.Context, cfg config.GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required, set GEMINI_API_KEY or ai.gemini.api_key")
	}

	models := splitModels(cfg.Models)
	if len(models) == 0 {
		models = splitModels(defaultGeminiModels)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client:      client,
		models:      models,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     config.Duration(cfg.Timeout, defaultLLMTimeout),
	}, nil
}

// Generate runs the prompt against the current model, advancing down the
// fallback chain when the provider reports the model retired.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var lastErr error
	for idx := g.chainStart(); idx < len(g.models); idx++ {
		name := g.models[idx]
		model := g.client.GenerativeModel(name)
		if g.temperature > 0 {
			model.SetTemperature(g.temperature)
		}
		if g.maxTokens > 0 {
			model.SetMaxOutputTokens(g.maxTokens)
		}

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			if retiredModel(err) {
				logger.Warn("Model unavailable, trying next in chain",
					"model", name, "error", err.Error())
				g.retireModel(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("gemini generation failed (%s): %w", name, err)
		}

		text, err := geminiText(resp)
		if err != nil {
			return "", fmt.Errorf("gemini response (%s): %w", name, err)
		}
		return text, nil
	}
	return "", fmt.Errorf("all gemini models exhausted: %w", lastErr)
}

// chainStart returns the first model still considered live. Generate calls
// may run concurrently, so the chain position is guarded by a mutex.
func (g *Gemini) chainStart() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.modelIdx
}

// retireModel advances the chain past idx. Concurrent calls only ever move
// the position forward.
func (g *Gemini) retireModel(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if idx >= g.modelIdx {
		g.modelIdx = idx + 1
	}
}

func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
