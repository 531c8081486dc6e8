package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hnsummary/internal/config"
	"hnsummary/internal/domain"
	"hnsummary/internal/textutil"
)

const promptExcerptLength = 2000

// modelBackend is the transport half of a model-backed summarizer: one
// bounded text-generation call. Everything else (prompting, parsing, shape
// enforcement, fallback) is shared.
type modelBackend interface {
	name() string
	complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ModelSummarizer wraps a model backend with prompt construction, response
// parsing and the fallback protocol. Both the local and the remote backend
// use this exact shape; they differ only in transport, default model and the
// cosmetic wording of the partial-output pads.
type ModelSummarizer struct {
	backend           modelBackend
	pads              [2]string
	promptSuffix      string
	timeout           time.Duration
	maxTokens         int
	enhancedMaxTokens int
	allowFallback     bool
	fallback          *Basic
	log               *slog.Logger
}

func (m *ModelSummarizer) Summarize(
	ctx context.Context,
	content domain.ArticleContent,
) ([]string, error) {
	if content.Content == "" {
		return noContentSummary(content), nil
	}

	lines, err := m.generate(ctx, content)
	if err != nil {
		return m.recoverPlain(ctx, content, err)
	}

	return lines, nil
}

func (m *ModelSummarizer) generate(
	ctx context.Context,
	content domain.ArticleContent,
) ([]string, error) {
	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	text, err := m.backend.complete(
		callCtx,
		m.buildPrompt(content),
		m.maxTokens,
	)
	if err != nil {
		return nil, err
	}

	lines := shapeLines(text, m.pads)
	if lines == nil {
		return nil, errors.New("model returned no usable lines")
	}

	return ensureLineCount(lines, content), nil
}

func (m *ModelSummarizer) buildPrompt(content domain.ArticleContent) string {
	excerpt := textutil.Truncate(content.Content, promptExcerptLength)

	return fmt.Sprintf(
		"Summarize the following article in exactly %d lines:\n\n"+
			"Title: %s\nContent: %s\n\n%s",
		config.SummaryLines,
		content.Title,
		excerpt,
		m.promptSuffix,
	)
}

// shapeLines parses free model text into summary lines. Partial output is
// padded with the backend's generic placeholders rather than the title/URL
// fallback lines: partial model output is still model output and should not
// blend with the deterministic fallback's tone. Empty output returns nil and
// is treated as a complete failure by the caller.
func shapeLines(text string, pads [2]string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	if len(lines) >= config.SummaryLines {
		return lines[:config.SummaryLines]
	}
	if len(lines) == 0 {
		return nil
	}

	for len(lines) < config.SummaryLines {
		if len(lines) == 1 {
			lines = append(lines, pads[0])
		} else {
			lines = append(lines, pads[1])
		}
	}

	return lines[:config.SummaryLines]
}

// recoverPlain is the single fallback decision point for the plain path.
func (m *ModelSummarizer) recoverPlain(
	ctx context.Context,
	content domain.ArticleContent,
	cause error,
) ([]string, error) {
	if !m.allowFallback {
		return nil, &BackendError{Backend: m.backend.name(), Err: cause}
	}

	m.log.WarnContext(ctx, "Model summarization failed, falling back to basic",
		"error", cause,
		"backend", m.backend.name(),
		"url", content.URL)

	return m.fallback.Summarize(ctx, content)
}
