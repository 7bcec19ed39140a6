package report

import (
	"fmt"
	"io"

	"github.com/neehar-mavuduru/benchreport/analysis"
	"github.com/neehar-mavuduru/benchreport/stats"
)

// Console is everything the text report covers.
type Console struct {
	Groups     []analysis.RepetitionGroup
	Aggs       []analysis.ConfigAggregate
	Variance   analysis.VarianceReport
	Insights   analysis.Insights
	Quality    analysis.Quality
	NodeRows   []analysis.ScalingRow
	ClientRows []analysis.ScalingRow
}

// WriteConsole renders the sectioned text report.
func WriteConsole(out io.Writer, c Console) error {
	var werr error
	w := func(format string, args ...any) {
		if werr == nil {
			_, werr = fmt.Fprintf(out, format+"\n", args...)
		}
	}

	w("=== REPETITION-LEVEL ANALYSIS ===")
	w("")
	for _, g := range c.Groups {
		if g.NotApplicable {
			w("%-12s reps=%d  consistency: n/a (single repetition)", g.Config.Key(), len(g.Runs))
			continue
		}
		w("%-12s reps=%d  throughput %.2f ± %.2f (CV %.2f%%)  p99 %.2f ± %.2f (CV %.2f%%)",
			g.Config.Key(), len(g.Runs),
			g.Throughput.Mean, g.Throughput.Std, g.Throughput.CV,
			g.LatencyP99.Mean, g.LatencyP99.Std, g.LatencyP99.CV)
	}

	outliers := analysis.AllOutliers(c.Groups)
	w("")
	w("=== OUTLIERS ===")
	w("")
	if len(outliers) == 0 {
		w("none detected (|z| threshold %.1f)", stats.OutlierThreshold)
	}
	for _, o := range outliers {
		w("%-12s rep %d  %s = %.2f  (z = %.2f)", o.Config.Key(), o.Repetition, o.Metric, o.Value, o.ZScore)
	}

	w("")
	w("=== AGGREGATE RESULTS (by throughput) ===")
	w("")
	w("%-12s %5s %12s %10s %10s %10s %10s", "config", "reps", "throughput", "p50", "p90", "p99", "per-node")
	for _, a := range c.Aggs {
		w("%-12s %5d %12.2f %10.2f %10.2f %10.2f %10.2f",
			a.Config.Key(), a.Repetitions, a.ThroughputMean,
			a.LatencyP50, a.LatencyP90, a.LatencyP99, a.Efficiency)
	}

	if rec, ok := analysis.Recommend(c.Aggs); ok {
		w("")
		w("=== RECOMMENDATIONS ===")
		w("")
		w("highest throughput:  %s  (%.2f docs/s)", rec.BestThroughput.Config.Key(), rec.BestThroughput.ThroughputMean)
		w("lowest p99 latency:  %s  (%.2f ms)", rec.BestLatency.Config.Key(), rec.BestLatency.LatencyP99)
		w("best per-node:       %s  (%.2f docs/s/node)", rec.BestEfficiency.Config.Key(), rec.BestEfficiency.Efficiency)
	}

	w("")
	w("=== SCALING ===")
	w("")
	w("by node count:")
	for _, r := range c.NodeRows {
		w("  %3d nodes   %12.2f docs/s  %10.2f ms p99  %8.2f per node", r.Key, r.ThroughputMean, r.LatencyP99, r.PerNode)
	}
	w("by client count:")
	for _, r := range c.ClientRows {
		w("  %3d clients %12.2f docs/s  %10.2f ms p99", r.Key, r.ThroughputMean, r.LatencyP99)
	}
	if c.Insights.FitOK {
		w("")
		w("throughput vs nodes: slope %.2f docs/s per node, R² %.3f", c.Insights.Fit.Slope, c.Insights.Fit.R2)
		for _, e := range c.Insights.Efficiency {
			w("  %3d nodes: %.2f of ideal %.2f (%.1f%%)", e.Nodes, e.Throughput, e.Ideal, e.Percent)
		}
	} else {
		w("")
		w("scaling fit needs at least two tested node counts")
	}

	w("")
	w("=== RUN-TO-RUN VARIANCE ===")
	w("")
	for _, v := range c.Variance.Configs {
		line := fmt.Sprintf("%-12s CV throughput %.2f%%  p99 %.2f%%  [%s]", v.Config.Key(), v.ThroughputCV, v.LatencyP99CV, v.Grade)
		if v.HasDelta {
			line += fmt.Sprintf("  rep1→rep2 %+.2f%%", v.ThroughputDelta)
		}
		w("%s", line)
	}
	if len(c.Variance.Configs) > 0 {
		w("mean throughput CV %.2f%%, worst %s at %.2f%%", c.Variance.MeanThroughputCV, c.Variance.WorstConfig.Key(), c.Variance.WorstCV)
	}

	w("")
	w("=== DATA QUALITY ===")
	w("")
	w("%d runs across %d configurations, %d outliers flagged", c.Quality.Runs, c.Quality.Configs, c.Quality.Outliers)
	if len(c.Quality.SingleRep) > 0 {
		w("single-repetition configs: %d", len(c.Quality.SingleRep))
	}
	if c.Quality.ErrorRuns > 0 {
		w("runs with errors: %d (max error rate %.4f)", c.Quality.ErrorRuns, c.Quality.MaxErrRate)
	}

	return werr
}
