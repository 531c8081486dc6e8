package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"hnsummary/internal/config"
)

// openaiBackend generates text against the OpenAI chat completions API.
// The bearer credential comes from the environment; its absence is a
// recoverable failure, not a construction error.
type openaiBackend struct {
	client      openai.Client
	model       string
	temperature float64
	hasKey      bool
}

// NewOpenAI builds the remote-API summarizer. An alternate base URL points
// the client at a compatible endpoint, including test servers.
func NewOpenAI(cfg config.Config, log *slog.Logger) *ModelSummarizer {
	opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAIAPIKey)}
	if cfg.OpenAIBaseURL != "" {
		// The client requires a trailing slash on the base URL.
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.OpenAIBaseURL, "/")+"/"))
	}

	return &ModelSummarizer{
		backend: &openaiBackend{
			client:      openai.NewClient(opts...),
			model:       cfg.OpenAIModel,
			temperature: cfg.Temperature,
			hasKey:      strings.TrimSpace(cfg.OpenAIAPIKey) != "",
		},
		pads: [2]string{
			"Additional context available in source article.",
			"Full details available at source URL.",
		},
		promptSuffix:      "Please provide exactly 3 concise lines that capture the key points.",
		timeout:           cfg.Timeout,
		maxTokens:         cfg.MaxTokens,
		enhancedMaxTokens: cfg.EnhancedMaxTokens,
		allowFallback:     cfg.AllowFallback,
		fallback:          NewBasic(),
		log:               log,
	}
}

func (b *openaiBackend) name() string {
	return "llmapi"
}

func (b *openaiBackend) complete(
	ctx context.Context,
	prompt string,
	maxTokens int,
) (string, error) {
	if !b.hasKey {
		return "", errors.New("OPENAI_API_KEY is not set")
	}

	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(b.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("response has no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
