// Package llm provides text generation behind a provider-neutral Client
// interface, with a model fallback chain for providers that retire models.
package llm

import (
	"context"
	"fmt"
	"strings"

	"reelbuzz/internal/config"
)

// Client generates text from a prompt.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

// NewClient builds the provider named in cfg.Provider. An unknown provider
// is an error rather than a silent default.
func NewClient(ctx context.Context, cfg config.AI) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		return NewGemini(ctx, cfg.Gemini)
	case "openai":
		return NewOpenAI(cfg.OpenAI)
	default:
		return nil, fmt.Errorf("unknown ai provider: %s", cfg.Provider)
	}
}

// splitModels parses a comma-separated fallback chain, dropping empties.
func splitModels(models string) []string {
	var out []string
	for _, m := range strings.Split(models, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

// retiredModel reports whether err indicates the model itself is gone
// rather than the request being bad. These are the only errors worth
// advancing the fallback chain for.
func retiredModel(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"not found",
		"does not exist",
		"decommissioned",
		"deprecated",
		"model_not_found",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
