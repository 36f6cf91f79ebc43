// Command dashboard serves the cleaned dataset as a paginated table and
// chart API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"uk-demand-dashboard/internal/api"
	"uk-demand-dashboard/internal/config"
	"uk-demand-dashboard/internal/metrics"
	"uk-demand-dashboard/internal/table"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve the demand/temperature dataset over HTTP",
	Args:  cobra.NoArgs,
	Run:   doDashboard,
}

var (
	configPath string
	dataPath   string
	host       string
	port       int
	logLevel   string
)

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config.")
	rootCmd.Flags().StringVar(&dataPath, "data_path", "../data/demanddata_2022.csv", "CSV file to serve.")
	rootCmd.Flags().StringVar(&host, "host", "127.0.0.1", "Address to listen on.")
	rootCmd.Flags().IntVar(&port, "port", 8050, "Port to listen on.")
	rootCmd.Flags().StringVar(&logLevel, "log_level", "", "Log level: debug, info, warn or error.")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func doDashboard(cmd *cobra.Command, _ []string) {
	cfg, err := config.LoadUnchecked(configPath)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	cfg.ApplyEnv()
	flags := cmd.Flags()
	if flags.Changed("data_path") || configPath == "" {
		cfg.Dashboard.DataPath = dataPath
	}
	if flags.Changed("host") {
		cfg.Dashboard.Host = host
	}
	if flags.Changed("port") {
		cfg.Dashboard.Port = port
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config: %v", err)
	}
	logger := cfg.NewLogger("dashboard")

	tbl, err := table.Load(cfg.Dashboard.DataPath)
	if err != nil {
		logger.Fatal("failed to load dataset", "path", cfg.Dashboard.DataPath, "err", err)
	}
	logger.Info("loaded dataset", "path", cfg.Dashboard.DataPath,
		"rows", tbl.Len(), "columns", len(tbl.Columns()), "pages", tbl.PageCount(cfg.Dashboard.PageSize))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := api.New(*cfg, tbl, metrics.New(), logger)
	if err := srv.Run(ctx); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
