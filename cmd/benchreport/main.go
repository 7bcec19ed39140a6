// Command benchreport analyzes benchmark run artifacts offline: summary
// JSONs become statistics, CSVs, charts and reports; telemetry NDJSON
// becomes resource-health summaries; full result documents become a
// comparison dashboard.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/neehar-mavuduru/benchreport/analysis"
	"github.com/neehar-mavuduru/benchreport/artifact"
	"github.com/neehar-mavuduru/benchreport/chart"
	"github.com/neehar-mavuduru/benchreport/dashboard"
	"github.com/neehar-mavuduru/benchreport/report"
	"github.com/neehar-mavuduru/benchreport/uiexp"
)

type options struct {
	DataDir        string `env:"BENCH_DATA"`
	OutDir         string `env:"BENCH_OUT" envDefault:"analysis_output"`
	InstancePrefix string `env:"BENCH_INSTANCE_PREFIX" envDefault:"c4"`
	Verbose        bool   `env:"BENCH_VERBOSE"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	opts := options{}
	if err := env.Parse(&opts); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	var log *zap.Logger

	root := &cobra.Command{
		Use:           "benchreport",
		Short:         "Offline benchmark result analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			log, err = newLogger(opts.Verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&opts.DataDir, "data", "d", opts.DataDir, "directory with benchmark artifacts")
	root.PersistentFlags().StringVarP(&opts.OutDir, "out", "o", opts.OutDir, "output directory")
	root.PersistentFlags().StringVar(&opts.InstancePrefix, "instance-prefix", opts.InstancePrefix, "path segment prefix identifying the instance type")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "debug logging")

	root.AddCommand(
		analyzeCmd(&opts, &log),
		healthCmd(&opts, &log),
		dashboardCmd(&opts, &log),
		updateUICmd(&opts, &log),
		fetchCmd(&opts, &log),
	)
	return root.Execute()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func loadRuns(opts *options, log *zap.Logger) ([]artifact.Run, error) {
	if opts.DataDir == "" {
		return nil, fmt.Errorf("no data directory: set --data or BENCH_DATA")
	}
	runs, err := artifact.LoadRuns(opts.DataDir, log)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no benchmark summaries found under %s", opts.DataDir)
	}
	return runs, nil
}

// analyzeCmd runs the whole pipeline: statistics, CSVs, the console report,
// PNG charts and the standalone HTML report.
func analyzeCmd(opts *options, log **zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Analyze run summaries and write CSVs, charts and reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := loadRuns(opts, *log)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
				return err
			}

			groups := analysis.AnalyzeRepetitions(runs)
			aggs := analysis.Aggregate(runs)
			console := report.Console{
				Groups:     groups,
				Aggs:       aggs,
				Variance:   analysis.AnalyzeVariance(runs),
				Insights:   analysis.ScalingInsights(aggs),
				Quality:    analysis.AssessQuality(groups),
				NodeRows:   analysis.NodeScaling(aggs),
				ClientRows: analysis.ClientScaling(aggs),
			}

			if err := report.WriteRawCSV(filepath.Join(opts.OutDir, "raw_results.csv"), runs, *log); err != nil {
				return err
			}
			if err := report.WriteAggregateCSV(filepath.Join(opts.OutDir, "aggregate_stats.csv"), aggs, *log); err != nil {
				return err
			}

			charts := chart.RenderAll(aggs, groups, console.Variance, *log)
			if err := chart.WriteAll(filepath.Join(opts.OutDir, "charts"), charts, *log); err != nil {
				return err
			}

			htmlPath := filepath.Join(opts.OutDir, "performance_report.html")
			f, err := os.Create(htmlPath)
			if err != nil {
				return err
			}
			if err := report.WriteHTML(f, console, charts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			(*log).Info("wrote html report", zap.String("file", htmlPath))

			return report.WriteConsole(cmd.OutOrStdout(), console)
		},
	}
}

// healthCmd summarizes node telemetry per run.
func healthCmd(opts *options, log **zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Summarize node telemetry per run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.DataDir == "" {
				return fmt.Errorf("no data directory: set --data or BENCH_DATA")
			}
			files, err := artifact.LoadTelemetry(opts.DataDir, *log)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no telemetry files found under %s", opts.DataDir)
			}

			out := cmd.OutOrStdout()
			for _, h := range analysis.AnalyzeHealth(files) {
				fmt.Fprintf(out, "%s rep %d\n", h.Config.Key(), h.Repetition)
				fmt.Fprintf(out, "  cpu    mean %6.2f%%  max %6.2f%%  p95 %6.2f%%  (%d samples)\n",
					h.CPU.Mean, h.CPU.Max, h.CPU.P95, h.CPU.Samples)
				fmt.Fprintf(out, "  load   mean %6.2f   max %6.2f\n", h.Load.Mean, h.Load.Max)
				fmt.Fprintf(out, "  memory mean %6.2f%%  max %6.2f%%\n", h.Memory.Mean, h.Memory.Max)
				fmt.Fprintf(out, "  disk   mean %6.2f%%  max %6.2f%%\n", h.Disk.Mean, h.Disk.Max)
				for _, p := range h.Pools {
					fmt.Fprintf(out, "  pool %-10s queue mean %6.2f max %6.0f  active max %4.0f  rejected %.0f\n",
						p.Pool, p.QueueMean, p.QueueMax, p.ActiveMax, p.Rejected)
				}
				if h.BadLines > 0 {
					fmt.Fprintf(out, "  skipped %d malformed telemetry lines\n", h.BadLines)
				}
			}
			return nil
		},
	}
}

// dashboardCmd renders the cluster comparison dashboard from full result
// documents.
func dashboardCmd(opts *options, log **zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Render the cluster comparison dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.DataDir == "" {
				return fmt.Errorf("no data directory: set --data or BENCH_DATA")
			}
			docs, err := artifact.LoadResults(opts.DataDir, opts.InstancePrefix, *log)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
				return err
			}

			path := filepath.Join(opts.OutDir, "dashboard.html")
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := dashboard.Write(f, docs); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			(*log).Info("wrote dashboard", zap.String("file", path), zap.Int("documents", len(docs)))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// updateUICmd splices fresh run data into the UI experiment pages.
func updateUICmd(opts *options, log **zap.Logger) *cobra.Command {
	var pagesDir string
	cmd := &cobra.Command{
		Use:   "update-ui",
		Short: "Refresh the embedded data of the UI experiment pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := loadRuns(opts, *log)
			if err != nil {
				return err
			}
			points := uiexp.BuildPoints(runs, opts.InstancePrefix)
			updated, err := uiexp.UpdateAll(pagesDir, points, *log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d pages with %d data points\n", updated, len(points))
			return nil
		},
	}
	cmd.Flags().StringVar(&pagesDir, "pages", ".", "directory containing the experiment pages")
	return cmd
}

// fetchCmd downloads benchmark artifacts from a GCS bucket prefix.
func fetchCmd(opts *options, log **zap.Logger) *cobra.Command {
	var bucket, prefix string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download benchmark artifacts from GCS",
		RunE: func(cmd *cobra.Command, args []string) error {
			if bucket == "" {
				return fmt.Errorf("--bucket is required")
			}
			dest := opts.DataDir
			if dest == "" {
				dest = "benchmark_data"
			}
			n, err := artifact.FetchPrefix(cmd.Context(), bucket, prefix, dest, *log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fetched %d objects into %s\n", n, dest)
			return nil
		},
	}
	cmd.Flags().StringVar(&bucket, "bucket", "", "GCS bucket name")
	cmd.Flags().StringVar(&prefix, "prefix", "", "object prefix to download")
	return cmd
}
