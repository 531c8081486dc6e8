package feed

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"hnsummary/internal/domain"
)

const frontpageURL = "https://hnrss.org/frontpage"

// hnrss sets each item's GUID to the discussion URL.
var itemIDRe = regexp.MustCompile(`id=(\d+)`)

// Frontpage reads the Hacker News front page through the hnrss.org feed.
// It is an alternative story source for environments where the Firebase API
// is unreachable; comment fetching still goes through the API client.
type Frontpage struct {
	feedURL string
	parser  *gofeed.Parser
	log     *slog.Logger
}

func NewFrontpage(log *slog.Logger) *Frontpage {
	return &Frontpage{
		feedURL: frontpageURL,
		parser:  gofeed.NewParser(),
		log:     log,
	}
}

// NewFrontpageWithURL is used by tests to point the source at a stub feed.
func NewFrontpageWithURL(feedURL string, log *slog.Logger) *Frontpage {
	f := NewFrontpage(log)
	f.feedURL = feedURL

	return f
}

// Stories returns up to limit front-page stories in feed order.
func (f *Frontpage) Stories(ctx context.Context, limit int) ([]domain.Story, error) {
	parsed, err := f.parser.ParseURLWithContext(f.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	stories := make([]domain.Story, 0, limit)
	for _, item := range parsed.Items {
		if limit > 0 && len(stories) >= limit {
			break
		}

		id := storyID(item)
		if id == 0 {
			f.log.WarnContext(ctx, "Skipping feed item without story ID",
				"title", item.Title,
				"link", item.Link)

			continue
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "No title"
		}

		story := domain.Story{
			ID:    id,
			Title: title,
			URL:   strings.TrimSpace(item.Link),
			Type:  "story",
		}
		if item.Author != nil {
			story.By = item.Author.Name
		}
		if item.PublishedParsed != nil {
			story.Time = item.PublishedParsed.Unix()
		}

		stories = append(stories, story)
	}

	return stories, nil
}

func storyID(item *gofeed.Item) int64 {
	m := itemIDRe.FindStringSubmatch(item.GUID)
	if m == nil {
		return 0
	}

	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}

	return id
}
