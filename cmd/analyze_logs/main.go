// Command analyze_logs scores every successful generation in the dev
// server's log database against the fixed rubric, using an LLM judge
// reached through OpenRouter, and writes a per-model Markdown report.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/he-be/mansion-poem/infrastructure/llm"
	"github.com/he-be/mansion-poem/internal/config"
	"github.com/he-be/mansion-poem/internal/evaluation"
	"github.com/he-be/mansion-poem/internal/store"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Optional YAML config file")
		dbPath      = flag.String("db", "", "Override path to the generation log database")
		outPath     = flag.String("out", "", "Override report output path")
		concurrency = flag.Int("concurrency", 0, "Override number of concurrent oracle calls")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *outPath != "" {
		cfg.ReportPath = *outPath
	}
	if *concurrency > 0 {
		cfg.Concurrency = *concurrency
	}

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	if err := run(context.Background(), cfg, runID, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, runID string, logger *slog.Logger) error {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	// Rate limiting sits outermost so time spent waiting for a token
	// does not count against the per-request deadline.
	var middleware []llm.Middleware
	if cfg.RequestsPerSecond > 0 {
		middleware = append(middleware, llm.RateLimitMiddleware(rate.Limit(cfg.RequestsPerSecond), 1))
	}
	middleware = append(middleware, llm.TimeoutMiddleware(time.Duration(cfg.TimeoutSeconds)*time.Second))

	client, err := llm.NewClient(llm.ClientConfig{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		Referer:    cfg.Referer,
		Title:      cfg.Title,
		Middleware: middleware,
	})
	if err != nil {
		return err
	}

	judge, err := evaluation.NewOracleJudge(client, cfg.Temperature, cfg.MaxTokens)
	if err != nil {
		return err
	}

	logger.Info("starting analysis",
		"db", cfg.DBPath, "evaluator_model", cfg.Model, "concurrency", cfg.Concurrency)

	runner := evaluation.NewRunner(st, judge, logger, cfg.Concurrency)
	scored, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if len(scored) == 0 {
		logger.Info("no eligible records to evaluate")
		return nil
	}

	stats := evaluation.Aggregate(scored)
	report := evaluation.RenderReport(stats, evaluation.ReportMeta{
		GeneratedAt:    time.Now(),
		EvaluatorModel: judge.Model(),
		RunID:          runID,
	})

	if err := os.MkdirAll(filepath.Dir(cfg.ReportPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(cfg.ReportPath, []byte(report), 0o644); err != nil {
		return err
	}

	logger.Info("report written",
		"path", cfg.ReportPath, "records", len(scored), "models", len(stats))
	return nil
}
