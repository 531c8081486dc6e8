package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hnsummary/internal/config"
	"hnsummary/internal/domain"
	"hnsummary/internal/summarize"
)

// StorySource supplies the stories to process.
type StorySource interface {
	Stories(ctx context.Context, limit int) ([]domain.Story, error)
}

// CommentSource supplies discussion comments for enhanced mode.
type CommentSource interface {
	Comments(ctx context.Context, story *domain.Story, max int) ([]domain.Comment, error)
}

// Extractor materializes the article body for a story.
type Extractor interface {
	Extract(ctx context.Context, story *domain.Story) domain.ArticleContent
}

// Runner processes stories strictly sequentially: one story is fully handled
// before the next begins, with a fixed pacing delay in between. The delay is
// politeness toward upstream servers, not a correctness mechanism.
type Runner struct {
	source     StorySource
	comments   CommentSource
	extractor  Extractor
	summarizer summarize.Summarizer
	delay      time.Duration
	log        *slog.Logger
}

func NewRunner(
	source StorySource,
	comments CommentSource,
	extractor Extractor,
	summarizer summarize.Summarizer,
	delay time.Duration,
	log *slog.Logger,
) *Runner {
	return &Runner{
		source:     source,
		comments:   comments,
		extractor:  extractor,
		summarizer: summarizer,
		delay:      delay,
		log:        log,
	}
}

// Run fetches, extracts and summarizes up to limit stories. A failed story
// is logged and skipped; the run only fails when no stories can be fetched
// at all or the context ends.
func (r *Runner) Run(
	ctx context.Context,
	limit int,
	enhanced bool,
) ([]domain.StorySummary, error) {
	stories, err := r.source.Stories(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch stories: %w", err)
	}

	results := make([]domain.StorySummary, 0, len(stories))
	for i, story := range stories {
		if i > 0 && r.delay > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(r.delay):
			}
		}

		r.log.InfoContext(ctx, "Processing story",
			"index", i+1,
			"total", len(stories),
			"storyID", story.ID,
			"title", story.Title)

		result, ok := r.processStory(ctx, &story, enhanced)
		if !ok {
			continue
		}

		results = append(results, result)
	}

	return results, nil
}

func (r *Runner) processStory(
	ctx context.Context,
	story *domain.Story,
	enhanced bool,
) (domain.StorySummary, bool) {
	content := r.extractor.Extract(ctx, story)

	lines, err := r.summarizer.Summarize(ctx, content)
	if err != nil {
		r.log.WarnContext(ctx, "Skipping story after summarization failure",
			"error", err,
			"storyID", story.ID)

		return domain.StorySummary{}, false
	}

	result := domain.StorySummary{Story: *story, Lines: lines}

	if enhanced {
		if capable, ok := r.summarizer.(summarize.EnhancedCapable); ok {
			result.Enhanced = r.enhance(ctx, capable, story, content)
		}
	}

	return result, true
}

func (r *Runner) enhance(
	ctx context.Context,
	capable summarize.EnhancedCapable,
	story *domain.Story,
	content domain.ArticleContent,
) *domain.EnhancedSummary {
	var comments []domain.Comment
	if r.comments != nil {
		var err error
		comments, err = r.comments.Comments(ctx, story, config.MaxCommentsForSummary)
		if err != nil {
			r.log.WarnContext(ctx, "Failed to fetch comments",
				"error", err,
				"storyID", story.ID)
		}
	}

	summary, err := capable.EnhancedSummarize(ctx, content, comments, story.ID)
	if err != nil {
		r.log.WarnContext(ctx, "Enhanced summarization failed",
			"error", err,
			"storyID", story.ID)

		return nil
	}

	return summary
}
