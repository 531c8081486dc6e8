package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"hnsummary/internal/config"
	"hnsummary/internal/domain"
	"hnsummary/internal/textutil"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	clientTimeout = 10 * time.Second
)

// Most sites put the article under one of these. Order matters: the first
// selector that matches wins.
var contentSelectors = []string{
	"article",
	`[role="main"]`,
	".content",
	".post-content",
	".entry-content",
	".article-content",
	"main",
	".story-body",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Extractor pulls plain article text out of a story's linked page.
type Extractor struct {
	httpClient *http.Client
	log        *slog.Logger
}

func New(log *slog.Logger) *Extractor {
	return &Extractor{
		httpClient: &http.Client{Timeout: clientTimeout},
		log:        log,
	}
}

// Extract fetches and cleans the article body for a story. Failures never
// surface as errors: the summarizers treat an empty body as its own case.
func (e *Extractor) Extract(
	ctx context.Context,
	story *domain.Story,
) domain.ArticleContent {
	if strings.TrimSpace(story.URL) == "" {
		return domain.ArticleContent{
			Title:        story.Title,
			URL:          "",
			Extracted:    false,
			ErrorMessage: "no URL available",
		}
	}

	pageTitle, content, err := e.fetchContent(ctx, story.URL)
	if err != nil {
		e.log.WarnContext(ctx, "Failed to extract article content",
			"error", err,
			"storyID", story.ID,
			"url", story.URL)

		return domain.ArticleContent{
			Title:        story.Title,
			URL:          story.URL,
			Extracted:    false,
			ErrorMessage: err.Error(),
		}
	}

	// Ad-hoc URLs arrive without a story title: use the page's own.
	title := story.Title
	if title == "" {
		title = pageTitle
	}
	if title == "" {
		title = "No title"
	}

	return domain.ArticleContent{
		Title:     title,
		Content:   content,
		URL:       story.URL,
		Extracted: true,
	}
}

func (e *Extractor) fetchContent(ctx context.Context, url string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			e.log.WarnContext(ctx, "Failed to close response body",
				"error", closeErr,
				"url", url)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("parse HTML: %w", err)
	}

	pageTitle := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style").Remove()

	return pageTitle, CleanText(mainContent(doc)), nil
}

func mainContent(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		selection := doc.Find(selector)
		if selection.Length() > 0 {
			return selection.First().Text()
		}
	}

	if body := doc.Find("body"); body.Length() > 0 {
		return body.Text()
	}

	return doc.Text()
}

// CleanText collapses whitespace and caps the text at the configured limit.
func CleanText(text string) string {
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

	return textutil.Truncate(text, config.MaxContentLength)
}
