package digest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"hnsummary/internal/domain"
)

type stubSource struct {
	stories []domain.Story
	err     error
}

func (s *stubSource) Stories(_ context.Context, limit int) ([]domain.Story, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit > 0 && len(s.stories) > limit {
		return s.stories[:limit], nil
	}

	return s.stories, nil
}

type stubCommentSource struct {
	comments []domain.Comment
}

func (s *stubCommentSource) Comments(
	_ context.Context,
	_ *domain.Story,
	_ int,
) ([]domain.Comment, error) {
	return s.comments, nil
}

type stubExtractor struct{}

func (stubExtractor) Extract(
	_ context.Context,
	story *domain.Story,
) domain.ArticleContent {
	return domain.ArticleContent{
		Title:     story.Title,
		Content:   "Extracted body text long enough to matter.",
		URL:       story.URL,
		Extracted: true,
	}
}

type stubSummarizer struct{}

func (s *stubSummarizer) Summarize(
	_ context.Context,
	content domain.ArticleContent,
) ([]string, error) {
	if strings.Contains(content.Title, "boom") {
		return nil, errors.New("backend down")
	}

	return []string{"Article: " + content.Title, "line two", "line three"}, nil
}

type stubEnhancedSummarizer struct {
	stubSummarizer
	gotComments int
}

func (s *stubEnhancedSummarizer) EnhancedSummarize(
	_ context.Context,
	content domain.ArticleContent,
	comments []domain.Comment,
	storyID int64,
) (*domain.EnhancedSummary, error) {
	s.gotComments = len(comments)

	return &domain.EnhancedSummary{
		ArticleSummary: "gist of " + content.Title,
		CommentSummary: "discussion gist",
		KeyPoints:      []string{"a", "b", "c"},
		RelatedLinks:   []string{"x", "y", "z"},
		ArticleURL:     content.URL,
		DiscussionURL:  "https://news.ycombinator.com/item?id=1",
	}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunProcessesStoriesInOrder(t *testing.T) {
	source := &stubSource{stories: []domain.Story{
		{ID: 1, Title: "first", Score: 10},
		{ID: 2, Title: "second", Score: 20},
	}}

	runner := NewRunner(source, nil, stubExtractor{}, &stubSummarizer{}, 0, testLogger())

	results, err := runner.Run(context.Background(), 10, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Story.ID != 1 || results[1].Story.ID != 2 {
		t.Fatalf("results out of order: %+v", results)
	}
	if results[0].Lines[0] != "Article: first" {
		t.Fatalf("unexpected first line: %q", results[0].Lines[0])
	}
}

func TestRunSkipsFailedStories(t *testing.T) {
	source := &stubSource{stories: []domain.Story{
		{ID: 1, Title: "fine"},
		{ID: 2, Title: "boom"},
		{ID: 3, Title: "also fine"},
	}}

	runner := NewRunner(source, nil, stubExtractor{}, &stubSummarizer{}, 0, testLogger())

	results, err := runner.Run(context.Background(), 10, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected failed story to be skipped, got %d results", len(results))
	}
	if results[1].Story.ID != 3 {
		t.Fatalf("expected processing to continue after failure: %+v", results)
	}
}

func TestRunSourceFailure(t *testing.T) {
	source := &stubSource{err: errors.New("network down")}
	runner := NewRunner(source, nil, stubExtractor{}, &stubSummarizer{}, 0, testLogger())

	if _, err := runner.Run(context.Background(), 10, false); err == nil {
		t.Fatal("expected error when the source fails")
	}
}

func TestRunEnhancedModeFetchesComments(t *testing.T) {
	source := &stubSource{stories: []domain.Story{{ID: 1, Title: "story"}}}
	comments := &stubCommentSource{comments: []domain.Comment{
		{ID: 10, By: "alice", Text: "hi"},
		{ID: 11, By: "bob", Text: "hello"},
	}}
	summarizer := &stubEnhancedSummarizer{}

	runner := NewRunner(source, comments, stubExtractor{}, summarizer, 0, testLogger())

	results, err := runner.Run(context.Background(), 10, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if results[0].Enhanced == nil {
		t.Fatal("expected enhanced summary to be attached")
	}
	if summarizer.gotComments != 2 {
		t.Fatalf("expected 2 comments passed to summarizer, got %d", summarizer.gotComments)
	}
}

func TestRunEnhancedModeWithIncapableSummarizer(t *testing.T) {
	source := &stubSource{stories: []domain.Story{{ID: 1, Title: "story"}}}
	runner := NewRunner(source, nil, stubExtractor{}, &stubSummarizer{}, 0, testLogger())

	results, err := runner.Run(context.Background(), 10, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if results[0].Enhanced != nil {
		t.Fatal("expected no enhanced summary from an incapable summarizer")
	}
}

func TestWriteReport(t *testing.T) {
	results := []domain.StorySummary{
		{
			Story: domain.Story{ID: 1, Title: "first", Score: 42},
			Lines: []string{"Article: first", "middle", "URL: https://example.com"},
		},
		{
			Story: domain.Story{ID: 2, Title: "second", Score: 7},
			Lines: []string{"Article: second", "a", "b"},
			Enhanced: &domain.EnhancedSummary{
				ArticleSummary: "the gist",
				CommentSummary: "the debate",
				KeyPoints:      []string{"p1", "p2", "p3"},
				RelatedLinks:   []string{"r1", "r2", "r3"},
				DiscussionURL:  "https://news.ycombinator.com/item?id=2",
			},
		},
	}

	var out strings.Builder
	if err := WriteReport(&out, results); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := out.String()
	if !strings.Contains(report, "--- Article 1 (Score: 42) ---") {
		t.Fatalf("missing first article header:\n%s", report)
	}
	if !strings.Contains(report, "--- Article 2 (Score: 7) ---") {
		t.Fatalf("missing second article header:\n%s", report)
	}
	if !strings.Contains(report, "  1. p1\n") {
		t.Fatalf("missing key points:\n%s", report)
	}
	if !strings.Contains(report, "Summary generation complete!") {
		t.Fatalf("missing closing line:\n%s", report)
	}
	if strings.Index(report, "Article: first") > strings.Index(report, "Article: second") {
		t.Fatalf("report order does not match input order:\n%s", report)
	}
}

func TestWriteReportEmpty(t *testing.T) {
	var out strings.Builder
	if err := WriteReport(&out, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out.String(), "No articles found.") {
		t.Fatalf("unexpected empty report:\n%s", out.String())
	}
}
