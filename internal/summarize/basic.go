package summarize

import (
	"context"
	"regexp"
	"strings"

	"hnsummary/internal/config"
	"hnsummary/internal/domain"
	"hnsummary/internal/textutil"
)

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// Basic is the deterministic extractive summarizer. It makes no network
// calls and serves as the universal fallback for the model backends.
type Basic struct{}

func NewBasic() *Basic {
	return &Basic{}
}

func (b *Basic) Summarize(
	_ context.Context,
	content domain.ArticleContent,
) ([]string, error) {
	if content.Content == "" {
		return noContentSummary(content), nil
	}

	sentences := extractSentences(content.Content)

	lines := make([]string, 0, config.SummaryLines)
	lines = append(lines, "Article: "+content.Title)

	if len(sentences) > 0 {
		lines = append(lines, textutil.TruncateWithEllipsis(sentences[0], config.MaxLineLength))
	} else {
		lines = append(lines, "No content available.")
	}

	if len(sentences) > 1 {
		lines = append(lines, textutil.TruncateWithEllipsis(sentences[1], config.MaxLineLength))
	} else {
		lines = append(lines, "URL: "+content.URL)
	}

	return ensureLineCount(lines, content), nil
}

// extractSentences splits on sentence-terminal punctuation and drops short
// fragments, which filters headers and boilerplate rather than sentences.
func extractSentences(text string) []string {
	parts := sentenceSplitRe.Split(text, -1)

	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if len(trimmed) > config.MinSentenceLength {
			sentences = append(sentences, trimmed)
		}
	}

	return sentences
}
