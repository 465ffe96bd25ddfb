package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"awardstats/internal/amqp"
	"awardstats/internal/cli"
	"awardstats/internal/config"
	"awardstats/internal/core"
	"awardstats/internal/normalize"
	"awardstats/internal/npdv"
	"awardstats/internal/report"
	"awardstats/internal/services"
	gsheet "awardstats/internal/sheets/google"
	"awardstats/internal/storage"
)

var (
	flagFiscalYears []int
	flagOutputDir   string
	flagBase        string
	flagVerbose     bool
)

func main() {
	rootCmd, err := newRootCmd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:   "awardstats",
		Short: "Fetch NASA procurement exports and compute recipient-category statistics",
		Long: `awardstats downloads the NASA procurement export for every state in the
requested fiscal years, classifies each contract action by recipient
category, and writes per-year raw dumps, per-year state summaries, and a
multi-year grand-total file.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().IntSliceVarP(&flagFiscalYears, "fiscal-year", "y", nil,
		"fiscal year to process (repeatable, e.g. -y 2024 -y 2025)")
	rootCmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "",
		"output directory for TSV files (overrides OUTPUT_DIR)")
	rootCmd.Flags().StringVar(&flagBase, "base-filename", "",
		"stem of every output file (overrides OUTPUT_BASE_FILENAME)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")
	if err := rootCmd.MarkFlagRequired("fiscal-year"); err != nil {
		return nil, fmt.Errorf("mark fiscal-year required: %w", err)
	}

	return rootCmd, nil
}

func run(cmd *cobra.Command, _ []string) error {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(flagVerbose)

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	if flagBase != "" {
		cfg.BaseFilename = flagBase
	}

	for _, fy := range flagFiscalYears {
		if fy < 1958 || fy > 2100 {
			return fmt.Errorf("implausible fiscal year %d", fy)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting awardstats run",
		"fiscal_years", flagFiscalYears, "output_dir", cfg.OutputDir)

	svc, cleanup, err := buildRunService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.Run(ctx, flagFiscalYears); err != nil {
		logger.Error("Run failed", "error", err)
		return err
	}

	logger.Info("Run finished", "output_dir", cfg.OutputDir)
	return nil
}

// buildRunService wires the run service with every configured collaborator.
// The returned cleanup closes whatever was opened.
func buildRunService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*services.RunService, func(), error) {
	writer, err := report.NewWriter(cfg.OutputDir)
	if err != nil {
		return nil, nil, err
	}

	normalizer, err := normalize.NewNormalizer(cfg.AcronymsCSVPath)
	if err != nil {
		return nil, nil, err
	}

	provider := npdv.NewClient(npdv.ClientConfig{
		URL:               cfg.NPDVURL,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.RequestBurst,
	})

	svc := services.NewRunService(provider, core.NewClassifier(), npdv.States, writer, normalizer,
		services.RunConfig{
			BaseFilename: cfg.BaseFilename,
			FetchWorkers: cfg.FetchWorkers,
		})

	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.SQLiteDBPath != "" {
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("initialize archive: %w", err)
		}
		closers = append(closers, func() { repo.Close() })
		svc.SetArchiver(repo)
		logger.Info("Summary archive enabled", "path", cfg.SQLiteDBPath)
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("initialize AMQP client: %w", err)
		}
		closers = append(closers, func() { client.Close() })
		svc.SetPublisher(client)
		logger.Info("Summary publication enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	if cfg.GoogleSpreadsheetID != "" {
		sink, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("initialize Google Sheets client: %w", err)
		}
		svc.SetGrandTotalSink(sink)
		logger.Info("Grand-total sheet enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	return svc, cleanup, nil
}
