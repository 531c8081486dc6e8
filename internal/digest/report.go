package digest

import (
	"fmt"
	"io"
	"strings"

	"hnsummary/internal/domain"
)

const reportBanner = "============================================================"

// WriteReport renders a finished digest in story order.
func WriteReport(w io.Writer, results []domain.StorySummary) error {
	var b strings.Builder

	b.WriteString(reportBanner + "\n")

	if len(results) == 0 {
		b.WriteString("No articles found.\n")

		_, err := io.WriteString(w, b.String())
		return err
	}

	for i, result := range results {
		fmt.Fprintf(&b, "\n--- Article %d (Score: %d) ---\n", i+1, result.Story.Score)
		for _, line := range result.Lines {
			b.WriteString(line + "\n")
		}

		if result.Enhanced != nil {
			writeEnhanced(&b, result.Enhanced)
		}
	}

	b.WriteString("\n" + reportBanner + "\n")
	b.WriteString("Summary generation complete!\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeEnhanced(b *strings.Builder, summary *domain.EnhancedSummary) {
	fmt.Fprintf(b, "\nArticle summary: %s\n", summary.ArticleSummary)
	fmt.Fprintf(b, "Discussion summary: %s\n", summary.CommentSummary)

	b.WriteString("Key points:\n")
	for i, point := range summary.KeyPoints {
		fmt.Fprintf(b, "  %d. %s\n", i+1, point)
	}

	b.WriteString("Related:\n")
	for i, link := range summary.RelatedLinks {
		fmt.Fprintf(b, "  %d. %s\n", i+1, link)
	}

	fmt.Fprintf(b, "Discussion: %s\n", summary.DiscussionURL)
}
