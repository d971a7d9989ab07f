package completion

import (
	"context"
	"fmt"
	"time"

	"padhai-karo/internal/domain"
	"padhai-karo/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

// googleAIClient implements domain.CompletionClient against Gemini.
type googleAIClient struct {
	model   *googleai.GoogleAI
	timeout time.Duration
}

// NewGoogleAIClient creates a Gemini-backed completion client. A missing API
// key is a configuration error and fails immediately.
func NewGoogleAIClient(ctx context.Context, apiKey, modelName string, timeout time.Duration) (domain.CompletionClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("googleai API key cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("googleai model name cannot be empty")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	model, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("create googleai client: %w", err)
	}
	return &googleAIClient{model: model, timeout: timeout}, nil
}

// Complete sends one prompt and returns the raw completion text. Single
// attempt; the caller decides what a failure means.
func (c *googleAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, llms.WithTemperature(0.2))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			logger.Get().Error("Completion request timed out", zap.Error(err))
			return "", fmt.Errorf("completion request timed out: %w", err)
		}
		logger.Get().Error("Failed to get response from completion backend", zap.Error(err))
		return "", fmt.Errorf("completion call failed: %w", err)
	}
	return response, nil
}
