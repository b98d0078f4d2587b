package config

import (
	"os"
	"path/filepath"
	"strconv"

	"ablab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Reports  ReportConfig
	Analysis AnalysisConfig
	Server   ServerConfig
}

// DataConfig holds input dataset settings
type DataConfig struct {
	File          string // CSV or XLSX export of the experiment
	ProcessedFile string // where the processed table (derived columns included) is written
}

// ReportConfig holds output paths for the report pipeline
type ReportConfig struct {
	Dir         string // root reports directory
	FiguresDir  string // chart output directory
	ReportFile  string // markdown report template (must pre-exist)
	ResultsFile string // serialized statistical results
}

// AnalysisConfig holds statistical settings
type AnalysisConfig struct {
	Alpha float64 // significance threshold
}

// ServerConfig holds the report server settings
type ServerConfig struct {
	Port string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	reportsDir := getEnvOrDefault("REPORTS_DIR", "reports")

	config := &Config{
		Data: DataConfig{
			File:          getEnvOrDefault("DATA_FILE", filepath.Join("data", "shiny_user_data.csv")),
			ProcessedFile: getEnvOrDefault("PROCESSED_FILE", filepath.Join("data", "processed_data.csv")),
		},
		Reports: ReportConfig{
			Dir:         reportsDir,
			FiguresDir:  getEnvOrDefault("FIGURES_DIR", filepath.Join(reportsDir, "figures")),
			ReportFile:  getEnvOrDefault("REPORT_FILE", filepath.Join(reportsDir, "final_report.md")),
			ResultsFile: getEnvOrDefault("RESULTS_FILE", filepath.Join(reportsDir, "statistical_results.json")),
		},
		Analysis: AnalysisConfig{
			Alpha: getEnvFloatOrDefault("ALPHA", 0.05),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for obvious misconfiguration
func (c *Config) Validate() error {
	if c.Data.File == "" {
		return errors.ConfigInvalid("DATA_FILE must not be empty")
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("ALPHA must be in (0, 1)")
	}
	return nil
}

// EnsureDirectories creates the data and report directories if needed
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{
		filepath.Dir(c.Data.ProcessedFile),
		c.Reports.Dir,
		c.Reports.FiguresDir,
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
