package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/precheck/internal/browser"
	"github.com/nao1215/precheck/internal/config"
	"github.com/nao1215/precheck/internal/database"
	"github.com/nao1215/precheck/internal/log"
	"github.com/nao1215/precheck/internal/model"
	"github.com/nao1215/precheck/internal/pagespeed"
	"github.com/nao1215/precheck/internal/pipeline"
	"github.com/nao1215/precheck/internal/recorder"
	"github.com/nao1215/precheck/internal/report"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [urls...]",
		Short: "Analyze websites with headless Chrome",
		Long: `Run analyzes one or more URLs (up to 4 per invocation) and writes all
artifacts into a timestamped folder under the output directory.

Modules:
  score       PageSpeed Insights scores for desktop and mobile, with a
              local fallback analyzer when the API quota is exhausted
  screenshot  full-page screenshots plus captured console errors
  record      scrolling video recordings (requires ffmpeg)

All modules run when none is selected explicitly.

Examples:
  # Full analysis of a single URL
  precheck run https://example.com

  # Scores and screenshots only, two URLs
  precheck run --score --screenshot example.com example.org

  # Comma-separated URL list, JSON summary
  precheck run --urls example.com,example.org --json

  # Watch the browser while it works
  precheck run --headless=false example.com

Configuration file (.precheck) example:
  defaults:
    wait: 3
  sites:
    example.com:
      cookie: "consent=accepted"
      headers:
        Accept-Language: "en-US"

The PageSpeed Insights API key is read from the PAGESPEED_API_KEY
environment variable. Without a key the API's small anonymous quota is
used.`,
		Args: cobra.ArbitraryArgs,
		RunE: runRunCmd,
	}

	// URL selection
	cmd.Flags().StringP("urls", "u", "",
		"Comma-separated URLs to analyze (alternative to positional arguments)")

	// Module selection flags
	cmd.Flags().Bool("score", false, "Collect PageSpeed Insights scores")
	cmd.Flags().Bool("screenshot", false, "Capture full-page screenshots")
	cmd.Flags().Bool("record", false, "Record scrolling videos")
	cmd.Flags().BoolP("all", "a", false, "Run all modules (default when none selected)")

	// Browser behavior flags
	cmd.Flags().Bool("headless", true, "Run Chrome without a visible window")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each browser capture (per URL and viewport)")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of URLs analyzed concurrently (each spawns its own Chrome)")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Base directory for the timestamped run folder")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .precheck in current or home directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Write a JSON summary report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Write a Markdown summary report (mutually exclusive with --json)")

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(cmd, args)
	if err != nil {
		return err
	}

	verbose := getVerboseFlag(cmd)
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAnalysis(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildRunConfig creates a Config from cobra command flags.
func buildRunConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	urlFlag, err := cmd.Flags().GetString("urls")
	if err != nil {
		return nil, err
	}
	raw := args
	if urlFlag != "" {
		raw = append(raw, strings.Split(urlFlag, ",")...)
	}
	cfg.URLs, err = config.NormalizeURLs(raw)
	if err != nil {
		return nil, err
	}
	// Excess URLs are dropped rather than rejected; a run is expensive
	// enough that partial progress beats a usage error.
	if len(cfg.URLs) > config.MaxURLs {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: at most %d URLs per run; ignoring %d extra\n",
			config.MaxURLs, len(cfg.URLs)-config.MaxURLs)
		cfg.URLs = cfg.URLs[:config.MaxURLs]
	}

	cfg.Modules, err = selectedModules(cmd)
	if err != nil {
		return nil, err
	}

	cfg.Headless, err = cmd.Flags().GetBool("headless")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.OutputBaseDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := cfg.LoadSiteConfigs(); err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.APIKey = os.Getenv(config.APIKeyEnv)

	return cfg, nil
}

// selectedModules resolves the module selection flags. No selection (or
// --all) means every module.
func selectedModules(cmd *cobra.Command) ([]string, error) {
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return nil, err
	}

	var modules []string
	for _, name := range config.AllModules() {
		enabled, err := cmd.Flags().GetBool(name)
		if err != nil {
			return nil, err
		}
		if enabled {
			modules = append(modules, name)
		}
	}

	if all || len(modules) == 0 {
		return config.AllModules(), nil
	}
	return modules, nil
}

// runAnalysis executes the analysis run.
func runAnalysis(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	startedAt := time.Now()

	layout, err := config.NewLayout(cfg.OutputBaseDir, startedAt)
	if err != nil {
		return fmt.Errorf("failed to create output directories: %w", err)
	}

	logger.Info("starting run",
		"urls", cfg.URLs,
		"modules", cfg.Modules,
		"headless", cfg.Headless,
		"batchSize", cfg.BatchSize,
		"outputDir", layout.RunDir,
	)

	// Open the history database; runs still work when it is unavailable.
	var db *database.RunDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("run history unavailable", "dir", cfg.DBDir, "error", err)
		} else {
			defer db.Close()
		}
	}

	b := browser.New(
		browser.WithHeadless(cfg.Headless),
		browser.WithLogger(logger),
	)

	client := pagespeed.NewClient(
		pagespeed.WithAPIKey(cfg.APIKey),
		pagespeed.WithClientLogger(logger),
	)

	// A missing ffmpeg disables recording only; the other modules still
	// run.
	var rec *recorder.Recorder
	if cfg.ModuleEnabled(config.ModuleRecord) {
		encoder, err := recorder.NewEncoder(cfg.FFmpegPath)
		if err != nil {
			logger.Warn("video recording disabled", "error", err)
			fmt.Fprintf(os.Stderr, "Warning: %v; skipping the record module\n", err)
			cfg.Modules = withoutModule(cfg.Modules, config.ModuleRecord)
		} else {
			rec = recorder.New(encoder,
				recorder.WithFrameRates(cfg.CaptureFPS, cfg.VideoFPS),
				recorder.WithDuration(cfg.VideoDuration, config.DefaultLazyLoadMargin),
				recorder.WithScrollSteps(cfg.ScrollSteps),
				recorder.WithLogger(logger),
			)
		}
	}

	factory := func() *pipeline.Pipeline {
		p := pipeline.New(
			pipeline.WithLogger(logger),
			pipeline.WithContinueOnError(true),
		)
		for _, m := range cfg.Modules {
			switch m {
			case config.ModuleScore:
				p.AddStep(pipeline.NewScoreStep(client, b, cfg, layout, logger))
			case config.ModuleScreenshot:
				p.AddStep(pipeline.NewScreenshotStep(b, cfg, layout, logger))
			case config.ModuleRecord:
				p.AddStep(pipeline.NewRecordStep(b, rec, cfg, layout, logger))
			}
		}
		return p
	}

	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	fmt.Printf("Analyzing %d URL(s), output in %s\n\n", len(cfg.URLs), layout.RunDir)

	results, batchErr := bp.ProcessBatch(ctx, cfg.URLs)

	run := &model.RunReport{
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		OutputDir:  layout.RunDir,
		Sites:      completedSites(results),
	}

	if err := outputRunReport(cfg, layout, run); err != nil {
		logger.Error("report failed", "error", err)
	}

	if db != nil {
		if id, err := db.SaveRun(ctx, run); err != nil {
			logger.Error("failed to save run history", "error", err)
		} else {
			logger.Info("run saved to history", "id", id)
		}
	}

	elapsed := time.Since(startedAt)
	fmt.Printf("Run completed in %s\n", elapsed.Round(time.Millisecond))

	return batchErr
}

// withoutModule returns modules with the named module removed.
func withoutModule(modules []string, name string) []string {
	out := make([]string, 0, len(modules))
	for _, m := range modules {
		if m != name {
			out = append(out, m)
		}
	}
	return out
}

// completedSites drops result slots that were never filled, which
// happens when the run is canceled before reaching a URL.
func completedSites(results []*model.SiteReport) []*model.SiteReport {
	sites := make([]*model.SiteReport, 0, len(results))
	for _, r := range results {
		if r != nil {
			sites = append(sites, r)
		}
	}
	return sites
}

// outputRunReport prints the terminal summary and writes the summary
// files into the run directory.
func outputRunReport(cfg *config.Config, layout *config.Layout, run *model.RunReport) error {
	// The plain-text summary goes to the terminal and is always written
	// next to the artifacts.
	txt, err := os.OpenFile(layout.SummaryPath("txt"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer txt.Close()

	simple := report.NewMultiWriter(
		report.NewSimpleWriter(os.Stdout, report.WithVerbose(cfg.Verbose)),
		report.NewSimpleWriter(txt),
	)
	if _, err := simple.Write(run); err != nil {
		return err
	}

	var (
		extra report.Writer
		path  string
	)
	switch {
	case cfg.JSONReport:
		path = layout.SummaryPath("json")
	case cfg.MarkdownReport:
		path = layout.SummaryPath("md")
	default:
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close()

	if cfg.JSONReport {
		extra = report.NewJSONWriter(f, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	} else {
		extra = report.NewMarkdownWriter(f)
	}
	_, err = extra.Write(run)
	return err
}
