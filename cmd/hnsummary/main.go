package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"mvdan.cc/xurls/v2"

	"hnsummary/internal/config"
	"hnsummary/internal/digest"
	"hnsummary/internal/domain"
	"hnsummary/internal/extract"
	"hnsummary/internal/feed"
	"hnsummary/internal/hn"
	"hnsummary/internal/scheduler"
	"hnsummary/internal/summarize"
)

const (
	minCount = 1
	maxCount = 100
)

type options struct {
	count      int
	mode       string
	output     string
	enhanced   bool
	source     string
	url        string
	schedule   string
	noFallback bool
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(log)

	if err := newRootCmd(log).Execute(); err != nil {
		log.Error("Run failed",
			"error", err)

		os.Exit(1)
	}
}

func newRootCmd(log *slog.Logger) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "hnsummary",
		Short:         "Fetch and summarize top Hacker News stories",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, log)
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "c", 20,
		"number of stories to summarize (1-100)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "basic",
		"summarization mode: basic, ollama or llmapi")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "",
		"output file (default stdout)")
	cmd.Flags().BoolVar(&opts.enhanced, "enhanced", false,
		"include the structured analysis (model-backed modes only)")
	cmd.Flags().StringVar(&opts.source, "source", "api",
		"story source: api or rss")
	cmd.Flags().StringVar(&opts.url, "url", "",
		"summarize a single arbitrary article instead of the front page")
	cmd.Flags().StringVar(&opts.schedule, "schedule", "",
		"cron spec for repeated runs (default: run once)")
	cmd.Flags().BoolVar(&opts.noFallback, "no-fallback", false,
		"fail instead of degrading to basic mode on backend errors")

	return cmd
}

func run(ctx context.Context, opts options, log *slog.Logger) error {
	if opts.count < minCount || opts.count > maxCount {
		return fmt.Errorf("count must be between %d and %d", minCount, maxCount)
	}

	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not loaded",
			"error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.noFallback {
		cfg.AllowFallback = false
	}

	mode, known := domain.ParseMode(opts.mode)
	if !known {
		log.Warn("Unknown summarizer mode, using basic",
			"mode", opts.mode)
	}

	summarizer := summarize.New(mode, cfg, log)
	extractor := extract.New(log)

	out, closeOut, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer closeOut()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.url != "" {
		return summarizeSingle(ctx, opts.url, extractor, summarizer, out)
	}

	hnClient := hn.NewClient(log)

	var source digest.StorySource = hnClient
	switch opts.source {
	case "api":
	case "rss":
		source = feed.NewFrontpage(log)
	default:
		return fmt.Errorf("unknown source %q (expected api or rss)", opts.source)
	}

	runner := digest.NewRunner(source, hnClient, extractor, summarizer, cfg.Delay, log)

	runOnce := func(runCtx context.Context) {
		log.InfoContext(runCtx, "Fetching top stories",
			"count", opts.count,
			"mode", string(mode),
			"source", opts.source)

		results, runErr := runner.Run(runCtx, opts.count, opts.enhanced)
		if runErr != nil {
			log.ErrorContext(runCtx, "Digest run failed",
				"error", runErr)

			return
		}

		if writeErr := digest.WriteReport(out, results); writeErr != nil {
			log.ErrorContext(runCtx, "Failed to write report",
				"error", writeErr)
		}
	}

	if opts.schedule == "" {
		results, runErr := runner.Run(ctx, opts.count, opts.enhanced)
		if runErr != nil {
			return runErr
		}

		return digest.WriteReport(out, results)
	}

	sched := scheduler.New(ctx, opts.schedule, runOnce, log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	log.Info("Scheduler started",
		"schedule", opts.schedule)

	<-ctx.Done()
	log.Info("Shutting down")

	return nil
}

// summarizeSingle handles the ad-hoc mode: the flag value may be a bare URL
// or text containing one.
func summarizeSingle(
	ctx context.Context,
	raw string,
	extractor *extract.Extractor,
	summarizer summarize.Summarizer,
	out io.Writer,
) error {
	httpsURLRe, err := xurls.StrictMatchingScheme("https://")
	if err != nil {
		return fmt.Errorf("create regexp: %w", err)
	}

	articleURL := httpsURLRe.FindString(raw)
	if articleURL == "" {
		return fmt.Errorf("no https URL found in %q", raw)
	}

	story := domain.Story{URL: articleURL, Type: "story"}
	content := extractor.Extract(ctx, &story)

	lines, err := summarizer.Summarize(ctx, content)
	if err != nil {
		return fmt.Errorf("summarize %s: %w", articleURL, err)
	}

	return digest.WriteReport(out, []domain.StorySummary{{
		Story: domain.Story{Title: content.Title, URL: articleURL, Type: "story"},
		Lines: lines,
	}})
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}
