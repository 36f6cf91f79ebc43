package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"uk-demand-dashboard/internal/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
// Every field has a default, so an empty file (or no file) is valid.
type Config struct {
	LogLevel    string            `yaml:"log_level"`
	Consolidate ConsolidateConfig `yaml:"consolidate"`
	Dashboard   DashboardConfig   `yaml:"dashboard"`
	Database    DatabaseConfig    `yaml:"database"`
}

// DemandFileConfig names one yearly demand file and the layout of its
// SETTLEMENT_DATE column (Go reference-time layout).
type DemandFileConfig struct {
	Name       string `yaml:"name"`
	DateLayout string `yaml:"date_layout"`
}

type ConsolidateConfig struct {
	DataPath    string             `yaml:"data_path"`
	DemandFiles []DemandFileConfig `yaml:"demand_files"`

	TemperatureFile   string `yaml:"temperature_file"`
	TemperatureTime   string `yaml:"temperature_time_column"`
	TemperatureValue  string `yaml:"temperature_value_column"`
	TemperatureCutoff string `yaml:"temperature_cutoff"` // RFC3339, exclusive
	BucketWidth       string `yaml:"bucket_width"`       // time.ParseDuration

	DemandOutput      string `yaml:"demand_output"`
	TemperatureOutput string `yaml:"temperature_output"`
	CleanedOutput     string `yaml:"cleaned_output"`
	WorkbookOutput    string `yaml:"workbook_output"`
	WriteWorkbook     bool   `yaml:"write_workbook"`
}

type DashboardConfig struct {
	DataPath    string `yaml:"data_path"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Debug       bool   `yaml:"debug"`
	PageSize    int    `yaml:"page_size"`
	ChartWidth  int    `yaml:"chart_width"`
	ChartHeight int    `yaml:"chart_height"`
	StaticDir   string `yaml:"static_dir"`

	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig enables the optional Postgres load of cleaned records.
// An empty URL disables it.
type DatabaseConfig struct {
	URL   string `yaml:"url"`
	Table string `yaml:"table"`
}

// Default returns the stock settings for the 2017-2022 National Grid ESO files.
func Default() Config {
	files := make([]DemandFileConfig, 0, 6)
	for year := 2017; year <= 2021; year++ {
		files = append(files, DemandFileConfig{
			Name:       fmt.Sprintf("demanddata_%d.csv", year),
			DateLayout: model.SettlementDateLayout,
		})
	}
	// The 2022 file switched to ISO dates.
	files = append(files, DemandFileConfig{Name: "demanddata_2022.csv", DateLayout: "2006-01-02"})

	return Config{
		LogLevel: "info",
		Consolidate: ConsolidateConfig{
			DataPath:          "../data",
			DemandFiles:       files,
			TemperatureFile:   "UK_Temperatures.csv",
			TemperatureTime:   model.ColObservedAt,
			TemperatureValue:  model.ColTempC,
			TemperatureCutoff: "2023-01-01T00:00:00Z",
			BucketWidth:       "6h",
			DemandOutput:      "demanddata_2017-2022_6H.csv",
			TemperatureOutput: "temperaturedata-2017-2022-6H.csv",
			CleanedOutput:     "cleaned-temp-dmnd-2017-2022.csv",
			WorkbookOutput:    "cleaned-temp-dmnd-2017-2022.xlsx",
		},
		Dashboard: DashboardConfig{
			DataPath:    "../data/demanddata_2022.csv",
			Host:        "127.0.0.1",
			Port:        8050,
			Debug:       true,
			PageSize:    100,
			ChartWidth:  1000,
			ChartHeight: 750,
			StaticDir:   "./web/dist",
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Table: "cleaned_demand",
		},
	}
}

// Load reads path over the defaults, applies environment overrides and validates.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads the YAML over the defaults but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return &c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &c, nil
}

// ApplyEnv overlays environment variables, reading a .env file first if present.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load() // ignore missing file

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.Dashboard.StaticDir = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Dashboard.Port = port
		}
	}
	if os.Getenv("API_ENV") == "production" {
		c.Dashboard.Debug = false
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	cc := c.Consolidate
	if len(cc.DemandFiles) == 0 {
		return errors.New("consolidate.demand_files is required")
	}
	for i, f := range cc.DemandFiles {
		if f.Name == "" {
			return fmt.Errorf("consolidate.demand_files[%d].name is required", i)
		}
		if f.DateLayout == "" {
			return fmt.Errorf("consolidate.demand_files[%d].date_layout is required", i)
		}
	}
	if cc.TemperatureFile == "" {
		return errors.New("consolidate.temperature_file is required")
	}
	if _, err := c.Cutoff(); err != nil {
		return fmt.Errorf("consolidate.temperature_cutoff invalid: %w", err)
	}
	w, err := c.BucketWidth()
	if err != nil {
		return fmt.Errorf("consolidate.bucket_width invalid: %w", err)
	}
	if w <= 0 || (24*time.Hour)%w != 0 {
		return fmt.Errorf("consolidate.bucket_width must divide a day, got %s", w)
	}
	d := c.Dashboard
	if d.PageSize <= 0 {
		return errors.New("dashboard.page_size must be positive")
	}
	if d.Port <= 0 || d.Port > 65535 {
		return fmt.Errorf("dashboard.port out of range: %d", d.Port)
	}
	if d.ChartWidth <= 0 || d.ChartHeight <= 0 {
		return errors.New("dashboard.chart_width and chart_height must be positive")
	}
	return nil
}

// Cutoff is the exclusive upper bound on temperature timestamps.
func (c *Config) Cutoff() (time.Time, error) {
	return time.Parse(time.RFC3339, c.Consolidate.TemperatureCutoff)
}

// BucketWidth is the resampling window.
func (c *Config) BucketWidth() (time.Duration, error) {
	return time.ParseDuration(c.Consolidate.BucketWidth)
}

// ListenAddr returns the host:port string for the dashboard server.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Dashboard.Host, strconv.Itoa(c.Dashboard.Port))
}
