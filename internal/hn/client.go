package hn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hnsummary/internal/domain"
)

const (
	defaultBaseURL = "https://hacker-news.firebaseio.com/v0"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	clientTimeout = 10 * time.Second
)

// Client talks to the Hacker News Firebase API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

type item struct {
	ID          int64   `json:"id"`
	Deleted     bool    `json:"deleted"`
	Dead        bool    `json:"dead"`
	Type        string  `json:"type"`
	By          string  `json:"by"`
	Time        int64   `json:"time"`
	Text        string  `json:"text"`
	Parent      int64   `json:"parent"`
	Kids        []int64 `json:"kids"`
	URL         string  `json:"url"`
	Score       int     `json:"score"`
	Title       string  `json:"title"`
	Descendants int     `json:"descendants"`
}

func NewClient(log *slog.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: clientTimeout},
		log:        log,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(baseURL string, log *slog.Logger) *Client {
	c := NewClient(log)
	c.baseURL = strings.TrimRight(baseURL, "/")

	return c
}

// TopStories returns up to limit front-page story IDs.
func (c *Client) TopStories(ctx context.Context, limit int) ([]int64, error) {
	var ids []int64
	if err := c.getJSON(ctx, "/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("fetch top stories: %w", err)
	}

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	return ids, nil
}

// Story fetches one story's details.
func (c *Client) Story(ctx context.Context, id int64) (*domain.Story, error) {
	var it *item
	if err := c.getJSON(ctx, fmt.Sprintf("/item/%d.json", id), &it); err != nil {
		return nil, fmt.Errorf("fetch story %d: %w", id, err)
	}
	if it == nil {
		return nil, fmt.Errorf("story %d not found", id)
	}

	title := it.Title
	if title == "" {
		title = "No title"
	}

	kind := it.Type
	if kind == "" {
		kind = "story"
	}

	return &domain.Story{
		ID:          it.ID,
		Title:       title,
		URL:         it.URL,
		Score:       it.Score,
		By:          it.By,
		Time:        it.Time,
		Descendants: it.Descendants,
		Kids:        it.Kids,
		Type:        kind,
	}, nil
}

// Stories fetches up to limit front-page stories, skipping and logging IDs
// whose details cannot be fetched.
func (c *Client) Stories(ctx context.Context, limit int) ([]domain.Story, error) {
	ids, err := c.TopStories(ctx, limit)
	if err != nil {
		return nil, err
	}

	stories := make([]domain.Story, 0, len(ids))
	for _, id := range ids {
		story, err := c.Story(ctx, id)
		if err != nil {
			c.log.WarnContext(ctx, "Skipping story",
				"error", err,
				"storyID", id)

			continue
		}

		stories = append(stories, *story)
	}

	return stories, nil
}

// Comments walks a story's comment tree breadth-first and returns up to max
// comments with usable text. Deleted, dead and empty entries are skipped but
// their children are still visited. Stories that arrive without a populated
// kid list, such as feed-sourced ones, are re-fetched by ID first.
func (c *Client) Comments(
	ctx context.Context,
	story *domain.Story,
	max int,
) ([]domain.Comment, error) {
	if max <= 0 {
		return nil, nil
	}

	kids := story.Kids
	if len(kids) == 0 && story.ID != 0 {
		fetched, err := c.Story(ctx, story.ID)
		if err != nil {
			return nil, fmt.Errorf("refetch story %d: %w", story.ID, err)
		}

		kids = fetched.Kids
	}

	if len(kids) == 0 {
		return nil, nil
	}

	queue := append([]int64(nil), kids...)
	comments := make([]domain.Comment, 0, max)

	for len(queue) > 0 && len(comments) < max {
		id := queue[0]
		queue = queue[1:]

		var it *item
		if err := c.getJSON(ctx, fmt.Sprintf("/item/%d.json", id), &it); err != nil {
			c.log.WarnContext(ctx, "Failed to fetch comment",
				"error", err,
				"commentID", id,
				"storyID", story.ID)

			continue
		}
		if it == nil {
			continue
		}

		queue = append(queue, it.Kids...)

		if it.Deleted || it.Dead || strings.TrimSpace(it.Text) == "" {
			continue
		}

		comments = append(comments, domain.Comment{
			ID:     it.ID,
			Text:   it.Text,
			By:     it.By,
			Time:   it.Time,
			Parent: it.Parent,
			Kids:   it.Kids,
		})
	}

	return comments, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+path,
		nil,
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.WarnContext(ctx, "Failed to close response body",
				"error", closeErr,
				"path", path)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal body: %w", err)
	}

	return nil
}
