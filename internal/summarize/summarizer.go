package summarize

import (
	"context"
	"log/slog"
	"strings"

	"hnsummary/internal/config"
	"hnsummary/internal/domain"
	"hnsummary/internal/textutil"
)

// Summarizer produces a fixed-size line summary for extracted article content.
// Implementations always return exactly config.SummaryLines lines on success.
type Summarizer interface {
	Summarize(ctx context.Context, content domain.ArticleContent) ([]string, error)
}

// EnhancedCapable is the optional richer-analysis capability. Only
// model-backed summarizers satisfy it; callers check with a type assertion.
type EnhancedCapable interface {
	EnhancedSummarize(
		ctx context.Context,
		content domain.ArticleContent,
		comments []domain.Comment,
		storyID int64,
	) (*domain.EnhancedSummary, error)
}

// New selects a summarizer for the mode. Unknown modes fall back to basic.
func New(mode domain.Mode, cfg config.Config, log *slog.Logger) Summarizer {
	switch mode {
	case domain.ModeOllama:
		return NewOllama(cfg, log)
	case domain.ModeLLMAPI:
		return NewOpenAI(cfg, log)
	case domain.ModeBasic:
		return NewBasic()
	default:
		log.Warn("Unknown summarizer mode, using basic",
			"mode", string(mode))

		return NewBasic()
	}
}

const maxURLDisplayLength = 80

// noContentSummary is the shared placeholder shape used by every backend
// before any model call when the article body is empty.
func noContentSummary(content domain.ArticleContent) []string {
	urlDisplay := content.URL
	urlDisplay = textutil.TruncateWithEllipsis(urlDisplay, maxURLDisplayLength)

	urlLine := "No URL available"
	if urlDisplay != "" {
		urlLine = "URL: " + urlDisplay
	}

	return []string{
		"Title: " + content.Title,
		"Content not available for summarization.",
		urlLine,
	}
}

// ensureLineCount trims a candidate summary to exactly config.SummaryLines
// lines. The pad order is significant: the title line is always added first
// so the most informative line survives even total backend failure.
func ensureLineCount(lines []string, content domain.ArticleContent) []string {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}

	if len(cleaned) > config.SummaryLines {
		return cleaned[:config.SummaryLines]
	}

	for len(cleaned) < config.SummaryLines {
		switch len(cleaned) {
		case 0:
			cleaned = append(cleaned, "Article: "+content.Title)
		case 1:
			cleaned = append(cleaned, "Content not available for detailed summarization.")
		default:
			cleaned = append(cleaned, "URL: "+content.URL)
		}
	}

	return cleaned
}
