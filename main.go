package main

import (
	"context"
	"log"
	"math"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"ablab/app"
	"ablab/domain/stats"
	"ablab/internal"
	"ablab/internal/config"
)

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Analysis pipeline failed: %v", err)
	}
}

func run(cfg *config.Config) error {
	logger := internal.DefaultLogger

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	// Step 1+2: load the dataset and run the statistical tests.
	analysis, err := app.NewAnalysisService().Run(app.AnalysisRequest{
		DataFile:      cfg.Data.File,
		ProcessedFile: cfg.Data.ProcessedFile,
		ResultsFile:   cfg.Reports.ResultsFile,
		Alpha:         cfg.Analysis.Alpha,
	})
	if err != nil {
		return err
	}
	printSignificantFindings(analysis.Results)

	// Step 3: charts.
	render := app.NewRenderService()
	figures, err := render.RenderCharts(context.Background(), analysis.Table, analysis.Results, cfg.Reports.FiguresDir)
	if err != nil {
		return err
	}

	// Step 4: report. A missing template fails this step only; the
	// statistical artifacts above are already on disk.
	if err := render.UpdateReport(analysis.Results, cfg.Reports.ReportFile, figures); err != nil {
		logger.Error("report update failed: %v", err)
	} else if abs, err := filepath.Abs(cfg.Reports.ReportFile); err == nil {
		logger.Info("final report available at %s", abs)
	}

	if abs, err := filepath.Abs(cfg.Reports.FiguresDir); err == nil {
		logger.Info("visualizations available in %s", abs)
	}
	return nil
}

// printSignificantFindings summarizes the significant t-test results on
// stdout, with the direction interpreted per metric: for exit, error,
// and latency metrics a decrease is the improvement.
func printSignificantFindings(results *stats.ResultSet) {
	significant := results.SignificantTTests()
	log.Printf("Found %d significant differences (t-tests):", len(significant))

	for _, result := range significant {
		if result.PercentChange == nil {
			continue
		}
		change := *result.PercentChange
		direction := "higher"
		if change < 0 {
			direction = "lower"
		}

		name := strings.ToLower(result.Metric.Label())
		inverted := strings.Contains(name, "exit") ||
			strings.Contains(name, "error") ||
			strings.Contains(name, "latency")
		interpretation := "better"
		if (change > 0) == inverted {
			interpretation = "worse"
		}

		log.Printf("- %s: Group B is %.2f%% %s than Group A (p=%.4f) [%s]",
			result.Metric.Label(), math.Abs(change), direction, result.PValue, interpretation)
	}
}
