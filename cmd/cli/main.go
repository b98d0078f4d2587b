package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ablab/app"
	"ablab/internal/config"
	"ablab/internal/testkit"
	"ablab/ui"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ablab",
		Short: "A/B test analysis: statistical tests, charts, and report generation",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newChartsCmd(),
		newReportCmd(),
		newServeCmd(),
		newGenerateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads .env (when present) and the environment config.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	return config.Load()
}

func newAnalyzeCmd() *cobra.Command {
	var alpha float64
	var describe bool

	cmd := &cobra.Command{
		Use:   "analyze [data-file]",
		Short: "Run both statistical tests over every metric and save the results document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Data.File = args[0]
			}
			if alpha > 0 {
				cfg.Analysis.Alpha = alpha
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			result, err := app.NewAnalysisService().Run(app.AnalysisRequest{
				DataFile:      cfg.Data.File,
				ProcessedFile: cfg.Data.ProcessedFile,
				ResultsFile:   cfg.Reports.ResultsFile,
				Alpha:         cfg.Analysis.Alpha,
			})
			if err != nil {
				return err
			}

			if describe {
				out, err := json.MarshalIndent(result.Description, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
			}

			fmt.Printf("Analyzed %d metrics (alpha=%.3f): %d significant t-tests, %d significant rank tests\n",
				len(result.Results.TTestResults), cfg.Analysis.Alpha,
				len(result.Results.SignificantTTests()), len(result.Results.SignificantRankTests()))
			fmt.Printf("Results saved to %s\n", cfg.Reports.ResultsFile)
			return nil
		},
	}

	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Significance threshold (default from config)")
	cmd.Flags().BoolVar(&describe, "describe", false, "Print the dataset description")
	return cmd
}

func newChartsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "charts",
		Short: "Render the chart set from the input data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			// Charts are a pure function of the table and results, so
			// the analysis runs in memory here instead of re-reading a
			// previously saved document.
			analysis, err := app.NewAnalysisService().Run(app.AnalysisRequest{
				DataFile: cfg.Data.File,
				Alpha:    cfg.Analysis.Alpha,
			})
			if err != nil {
				return err
			}

			figures, err := app.NewRenderService().RenderCharts(
				context.Background(), analysis.Table, analysis.Results, cfg.Reports.FiguresDir)
			if err != nil {
				return err
			}
			fmt.Printf("Rendered %d charts into %s\n", len(figures), cfg.Reports.FiguresDir)
			return nil
		},
	}
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Run the full pipeline and update the markdown report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			analysis, err := app.NewAnalysisService().Run(app.AnalysisRequest{
				DataFile:      cfg.Data.File,
				ProcessedFile: cfg.Data.ProcessedFile,
				ResultsFile:   cfg.Reports.ResultsFile,
				Alpha:         cfg.Analysis.Alpha,
			})
			if err != nil {
				return err
			}

			render := app.NewRenderService()
			figures, err := render.RenderCharts(
				context.Background(), analysis.Table, analysis.Results, cfg.Reports.FiguresDir)
			if err != nil {
				return err
			}
			if err := render.UpdateReport(analysis.Results, cfg.Reports.ReportFile, figures); err != nil {
				return err
			}
			fmt.Printf("Report updated at %s\n", cfg.Reports.ReportFile)
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report, charts, and results over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			server := ui.NewServer(cfg.Reports.ReportFile, cfg.Reports.FiguresDir, cfg.Reports.ResultsFile)
			return server.Start(cfg.Server.Port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "HTTP port (default from config)")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var samples int
	var seed int64
	var lift float64

	cmd := &cobra.Command{
		Use:   "generate [output-file]",
		Short: "Generate a synthetic experiment export for demos and tests",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			output := cfg.Data.File
			if len(args) == 1 {
				output = args[0]
			}

			gen := testkit.NewCohortGenerator(testkit.CohortGeneratorConfig{
				SampleCount: samples,
				Seed:        seed,
				LiftB:       lift,
			})
			if err := gen.WriteCSV(output); err != nil {
				return err
			}
			fmt.Printf("Generated %d samples into %s (seed=%d, lift=%.2f)\n", samples, output, seed, lift)
			return nil
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 200, "Total subjects, split evenly between groups")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic generation")
	cmd.Flags().Float64Var(&lift, "lift", 1.15, "Multiplicative lift applied to group B metrics")
	return cmd
}
