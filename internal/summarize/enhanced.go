package summarize

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"hnsummary/internal/config"
	"hnsummary/internal/domain"
	"hnsummary/internal/textutil"
)

const (
	noCommentsNotice = "No significant comments available."

	articleSummaryPlaceholder = "Article summary not available."
	commentSummaryPlaceholder = "Comment summary not available."
	keyPointPlaceholder       = "Additional insights available in the full article."
	relatedLinkPlaceholder    = "Explore related topics for more information."

	discussionURLFormat = "https://news.ycombinator.com/item?id=%d"

	relatedTitleWords = 5
)

var (
	articleSectionRe   = sectionRe("ARTICLE_SUMMARY")
	commentSectionRe   = sectionRe("COMMENT_SUMMARY")
	keyPointsRe        = sectionRe("KEY_POINTS")
	relatedLinksRe     = sectionRe("RELATED_LINKS")
	numberedItemRe     = regexp.MustCompile(`(?m)^\s*\d+\.\s*(.+)$`)
	digestWhitespaceRe = regexp.MustCompile(`\s+`)
)

// sectionRe captures a label's text up to the next all-caps label or the end
// of the response.
func sectionRe(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)` + label + `:\s*(.*?)\s*(?:\n\s*[A-Z][A-Z_]+:|\z)`)
}

// EnhancedSummarize produces the four-field structured analysis. Any failure
// between prompt construction and section parsing goes through the same
// fallback decision as the plain path.
func (m *ModelSummarizer) EnhancedSummarize(
	ctx context.Context,
	content domain.ArticleContent,
	comments []domain.Comment,
	storyID int64,
) (*domain.EnhancedSummary, error) {
	summary, err := m.generateEnhanced(ctx, content, comments, storyID)
	if err != nil {
		if !m.allowFallback {
			return nil, &BackendError{Backend: m.backend.name(), Err: err}
		}

		m.log.WarnContext(ctx, "Enhanced summarization failed, building basic analysis",
			"error", err,
			"backend", m.backend.name(),
			"storyID", storyID)

		return m.basicEnhanced(ctx, content, comments, storyID), nil
	}

	return summary, nil
}

func (m *ModelSummarizer) generateEnhanced(
	ctx context.Context,
	content domain.ArticleContent,
	comments []domain.Comment,
	storyID int64,
) (*domain.EnhancedSummary, error) {
	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	prompt := buildEnhancedPrompt(content, buildCommentsDigest(comments))

	text, err := m.backend.complete(callCtx, prompt, m.enhancedMaxTokens)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("model returned empty response")
	}

	parsed := parseSections(text)

	return &domain.EnhancedSummary{
		ArticleSummary: parsed.article,
		CommentSummary: parsed.comments,
		KeyPoints:      parsed.keyPoints,
		RelatedLinks:   parsed.relatedLinks,
		ArticleURL:     content.URL,
		DiscussionURL:  fmt.Sprintf(discussionURLFormat, storyID),
	}, nil
}

// buildCommentsDigest formats up to the configured number of comments with
// usable text for prompt embedding.
func buildCommentsDigest(comments []domain.Comment) string {
	var parts []string
	for _, comment := range comments {
		if len(parts) >= config.MaxCommentsForSummary {
			break
		}

		text := stripTags(comment.Text)
		if text == "" {
			continue
		}
		text = textutil.Truncate(text, config.MaxCommentLength)

		author := strings.TrimSpace(comment.By)
		if author == "" {
			author = "anonymous"
		}

		parts = append(parts, fmt.Sprintf("Comment by %s: %s", author, text))
	}

	if len(parts) == 0 {
		return noCommentsNotice
	}

	return strings.Join(parts, "\n\n")
}

func stripTags(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}

	return strings.TrimSpace(digestWhitespaceRe.ReplaceAllString(doc.Text(), " "))
}

func buildEnhancedPrompt(content domain.ArticleContent, commentsDigest string) string {
	excerpt := textutil.Truncate(content.Content, promptExcerptLength)

	var b strings.Builder
	b.WriteString("Analyze the following Hacker News story and its discussion.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", content.Title)
	fmt.Fprintf(&b, "Article: %s\n\n", excerpt)
	fmt.Fprintf(&b, "Comments:\n%s\n\n", commentsDigest)
	b.WriteString("Respond using exactly these labeled sections:\n")
	b.WriteString("ARTICLE_SUMMARY: <brief summary of the article>\n")
	b.WriteString("COMMENT_SUMMARY: <brief summary of the discussion>\n")
	b.WriteString("KEY_POINTS:\n")
	for i := 1; i <= config.KeyPointsCount; i++ {
		fmt.Fprintf(&b, "%d. <key point>\n", i)
	}
	b.WriteString("RELATED_LINKS:\n")
	for i := 1; i <= config.RelatedLinksCount; i++ {
		fmt.Fprintf(&b, "%d. <related topic to explore>\n", i)
	}

	return b.String()
}

type sections struct {
	article      string
	comments     string
	keyPoints    []string
	relatedLinks []string
}

// parseSections maps free-form model text onto the fixed section shape.
// Absent or unparseable sections come back as placeholders; numbered lists
// are padded or truncated to their fixed length.
func parseSections(text string) sections {
	return sections{
		article:      freeTextSection(text, articleSectionRe, articleSummaryPlaceholder),
		comments:     freeTextSection(text, commentSectionRe, commentSummaryPlaceholder),
		keyPoints:    numberedSection(text, keyPointsRe, config.KeyPointsCount, keyPointPlaceholder),
		relatedLinks: numberedSection(text, relatedLinksRe, config.RelatedLinksCount, relatedLinkPlaceholder),
	}
}

func freeTextSection(text string, re *regexp.Regexp, placeholder string) string {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return placeholder
	}

	section := strings.TrimSpace(match[1])
	if section == "" {
		return placeholder
	}

	return section
}

func numberedSection(text string, re *regexp.Regexp, count int, placeholder string) []string {
	items := make([]string, 0, count)

	match := re.FindStringSubmatch(text)
	if match != nil {
		for _, itemMatch := range numberedItemRe.FindAllStringSubmatch(match[1], -1) {
			if item := strings.TrimSpace(itemMatch[1]); item != "" {
				items = append(items, item)
			}
		}
	}

	if len(items) > count {
		items = items[:count]
	}
	for len(items) < count {
		items = append(items, placeholder)
	}

	return items
}

// basicEnhanced builds an EnhancedSummary from deterministic logic only.
func (m *ModelSummarizer) basicEnhanced(
	ctx context.Context,
	content domain.ArticleContent,
	comments []domain.Comment,
	storyID int64,
) *domain.EnhancedSummary {
	lines, _ := m.fallback.Summarize(ctx, content)

	return &domain.EnhancedSummary{
		ArticleSummary: strings.Join(lines, " "),
		CommentSummary: basicCommentSummary(comments),
		KeyPoints: []string{
			"Read the full article for detailed information.",
			"Check the Hacker News discussion for community insights.",
			"Original reporting available at the source link.",
		},
		RelatedLinks:  basicRelatedLinks(content.Title),
		ArticleURL:    content.URL,
		DiscussionURL: fmt.Sprintf(discussionURLFormat, storyID),
	}
}

func basicCommentSummary(comments []domain.Comment) string {
	if len(comments) == 0 {
		return "No comments available for this story."
	}

	var names []string
	seen := make(map[string]struct{})
	for _, comment := range comments {
		if len(names) == 3 {
			break
		}

		name := strings.TrimSpace(comment.By)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	if len(names) == 0 {
		return fmt.Sprintf("The discussion includes %d comments.", len(comments))
	}

	return fmt.Sprintf(
		"The discussion includes %d comments from users such as %s.",
		len(comments),
		strings.Join(names, ", "),
	)
}

func basicRelatedLinks(title string) []string {
	words := strings.Fields(title)
	if len(words) > relatedTitleWords {
		words = words[:relatedTitleWords]
	}
	topic := strings.Join(words, " ")

	return []string{
		fmt.Sprintf("Search for more articles about %s", topic),
		fmt.Sprintf("Explore recent discussions on %s", topic),
		"Browse the Hacker News front page for related stories",
	}
}
