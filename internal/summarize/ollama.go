package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"hnsummary/internal/config"
)

const ollamaGeneratePath = "/api/generate"

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// ollamaBackend generates text against a local Ollama server.
type ollamaBackend struct {
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewOllama builds the local-model summarizer.
func NewOllama(cfg config.Config, log *slog.Logger) *ModelSummarizer {
	return &ModelSummarizer{
		backend: &ollamaBackend{
			baseURL:     strings.TrimRight(cfg.OllamaURL, "/"),
			model:       cfg.OllamaModel,
			temperature: cfg.Temperature,
			httpClient:  &http.Client{},
		},
		pads: [2]string{
			"Additional details available in full article.",
			"See source for more information.",
		},
		promptSuffix:      "Provide a concise 3-line summary:",
		timeout:           cfg.Timeout,
		maxTokens:         cfg.MaxTokens,
		enhancedMaxTokens: cfg.EnhancedMaxTokens,
		allowFallback:     cfg.AllowFallback,
		fallback:          NewBasic(),
		log:               log,
	}
}

func (b *ollamaBackend) name() string {
	return "ollama"
}

func (b *ollamaBackend) complete(
	ctx context.Context,
	prompt string,
	maxTokens int,
) (string, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:  b.model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: b.temperature,
			NumPredict:  maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		b.baseURL+ollamaGeneratePath,
		bytes.NewReader(payload),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal body: %w", err)
	}

	return strings.TrimSpace(parsed.Response), nil
}
