// Command consolidate merges the yearly demand files with the temperature
// feed into one 6-hour dataset.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"uk-demand-dashboard/internal/config"
	"uk-demand-dashboard/internal/consolidate"
	"uk-demand-dashboard/internal/store"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Resample the yearly demand files to 6-hour buckets and merge them with temperatures",
	Args:  cobra.NoArgs,
	Run:   doConsolidate,
}

var (
	configPath  string
	dataPath    string
	writeXLSX   bool
	databaseURL string
	logLevel    string
)

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config.")
	rootCmd.Flags().StringVar(&dataPath, "data_path", "../data", "Directory holding the demand and temperature CSVs; outputs are written there too.")
	rootCmd.Flags().BoolVar(&writeXLSX, "xlsx", false, "Also write the cleaned dataset as an XLSX workbook.")
	rootCmd.Flags().StringVar(&databaseURL, "database_url", "", "Postgres URL to load the cleaned records into (optional).")
	rootCmd.Flags().StringVar(&logLevel, "log_level", "", "Log level: debug, info, warn or error.")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func doConsolidate(cmd *cobra.Command, _ []string) {
	cfg, err := config.LoadUnchecked(configPath)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	cfg.ApplyEnv()
	if cmd.Flags().Changed("data_path") || configPath == "" {
		cfg.Consolidate.DataPath = dataPath
	}
	if writeXLSX {
		cfg.Consolidate.WriteWorkbook = true
	}
	if databaseURL != "" {
		cfg.Database.URL = databaseURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config: %v", err)
	}
	logger := cfg.NewLogger("consolidate")

	opts, err := consolidate.OptionsFromConfig(cfg)
	if err != nil {
		logger.Fatal("invalid options", "err", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var sink consolidate.Sink
	if cfg.Database.URL != "" {
		pool, err := store.Connect(ctx, cfg.Database.URL)
		if err != nil {
			logger.Fatal("database connection failed", "err", err)
		}
		defer pool.Close()
		sink = store.New(pool, cfg.Database.Table)
		logger.Info("loading cleaned records into postgres", "table", cfg.Database.Table)
	}

	start := time.Now()
	rep, err := consolidate.New(opts, sink, logger).Run(ctx)
	if err != nil {
		logger.Fatal("consolidation failed", "err", err)
	}
	for _, src := range opts.DemandFiles {
		logger.Debug("demand file", "file", src.Name, "rows", rep.FileRows[src.Name])
	}
	logger.Info("consolidation complete",
		"rows", rep.ConcatenatedRows,
		"null_dates", rep.NullDates,
		"buckets", rep.Buckets,
		"temperatures", rep.TemperatureRows,
		"interpolated", rep.InterpolatedCells,
		"output", rep.CleanedOutput,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
}
