package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"reelbuzz/internal/config"
	"reelbuzz/internal/logger"
)

const defaultOpenAIModels = "gpt-4o-mini,gpt-4o"

// OpenAI is a Client for any OpenAI-compatible chat completions endpoint.
// BaseURL makes it work against hosted providers with compatible APIs.
type OpenAI struct {
	client      *openai.Client
	models      []string
	temperature float32
	timeout     time.Duration

	mu       sync.Mutex
	modelIdx int
}

func NewOpenAI(cfg config.OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required, set OPENAI_API_KEY or ai.openai.api_key")
	}

	models := splitModels(cfg.Models)
	if len(models) == 0 {
		models = splitModels(defaultOpenAIModels)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAI{
		client:      openai.NewClientWithConfig(clientCfg),
		models:      models,
		temperature: cfg.Temperature,
		timeout:     config.Duration(cfg.Timeout, defaultLLMTimeout),
	}, nil
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	var lastErr error
	for idx := o.chainStart(); idx < len(o.models); idx++ {
		name := o.models[idx]
		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       name,
			Temperature: o.temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			if retiredModel(err) {
				logger.Warn("Model unavailable, trying next in chain",
					"model", name, "error", err.Error())
				o.retireModel(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("chat completion failed (%s): %w", name, err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty completion response (%s)", name)
		}
		return resp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("all models exhausted: %w", lastErr)
}

// chainStart returns the first model still considered live. Generate calls
// may run concurrently, so the chain position is guarded by a mutex.
func (o *OpenAI) chainStart() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.modelIdx
}

// retireModel advances the chain past idx. Concurrent calls only ever move
// the position forward.
func (o *OpenAI) retireModel(idx int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if idx >= o.modelIdx {
		o.modelIdx = idx + 1
	}
}

func (o *OpenAI) Close() error { return nil }
