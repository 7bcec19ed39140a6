// Package analysis turns loaded benchmark runs into repetition-level and
// configuration-level statistics, scaling tables, and health summaries.
package analysis

import (
	"sort"

	"github.com/samber/lo"

	"github.com/neehar-mavuduru/benchreport/artifact"
	"github.com/neehar-mavuduru/benchreport/stats"
)

// Metric names used for outlier flagging across repetitions.
const (
	MetricThroughput = "throughput"
	MetricLatencyP99 = "latency_p99"
)

// GroupStats describes one metric across the repetitions of a single
// configuration.
type GroupStats struct {
	Metric string
	Mean   float64
	Std    float64
	CV     float64
	Values []float64
}

// Outlier is a repetition whose metric deviates more than the z-score
// threshold from its group.
type Outlier struct {
	Config     artifact.Config
	Repetition int
	Metric     string
	ZScore     float64
	Value      float64
}

// RepetitionGroup is the per-configuration repetition analysis. Groups with
// fewer than two repetitions are kept but marked NotApplicable.
type RepetitionGroup struct {
	Config        artifact.Config
	Runs          []artifact.Run
	NotApplicable bool

	Throughput GroupStats
	LatencyP99 GroupStats
	Outliers   []Outlier
}

// GroupRuns buckets runs by configuration, each group sorted by repetition,
// groups ordered by clients, then nodes, then shards.
func GroupRuns(runs []artifact.Run) []RepetitionGroup {
	byConfig := lo.GroupBy(runs, func(r artifact.Run) artifact.Config { return r.Config })

	configs := lo.Keys(byConfig)
	sort.Slice(configs, func(i, j int) bool { return configs[i].Less(configs[j]) })

	groups := make([]RepetitionGroup, 0, len(configs))
	for _, cfg := range configs {
		members := byConfig[cfg]
		sort.Slice(members, func(i, j int) bool { return members[i].Repetition < members[j].Repetition })
		groups = append(groups, RepetitionGroup{Config: cfg, Runs: members})
	}
	return groups
}

// AnalyzeRepetitions groups runs by configuration and computes throughput
// and p99 latency consistency for each group, flagging repetitions whose
// z-score exceeds the outlier threshold.
func AnalyzeRepetitions(runs []artifact.Run) []RepetitionGroup {
	groups := GroupRuns(runs)
	for i := range groups {
		g := &groups[i]
		if len(g.Runs) < 2 {
			g.NotApplicable = true
			continue
		}

		throughput := lo.Map(g.Runs, func(r artifact.Run, _ int) float64 { return r.ThroughputMean })
		p99 := lo.Map(g.Runs, func(r artifact.Run, _ int) float64 { return r.LatencyP99 })

		g.Throughput = groupStats(MetricThroughput, throughput)
		g.LatencyP99 = groupStats(MetricLatencyP99, p99)
		g.Outliers = append(g.Outliers, flagOutliers(g, MetricThroughput, throughput)...)
		g.Outliers = append(g.Outliers, flagOutliers(g, MetricLatencyP99, p99)...)
	}
	return groups
}

// groupStats reports mean, sample stddev and CV; outlier z-scores use
// population sigma separately (see flagOutliers).
func groupStats(metric string, values []float64) GroupStats {
	s := stats.Describe(values)
	return GroupStats{
		Metric: metric,
		Mean:   s.Mean,
		Std:    s.Std,
		CV:     stats.CV(s.Mean, s.Std),
		Values: values,
	}
}

func flagOutliers(g *RepetitionGroup, metric string, values []float64) []Outlier {
	scores, ok := stats.ZScores(values)
	if !ok {
		return nil
	}
	var out []Outlier
	for i, z := range scores {
		if z <= stats.OutlierThreshold {
			continue
		}
		out = append(out, Outlier{
			Config:     g.Config,
			Repetition: g.Runs[i].Repetition,
			Metric:     metric,
			ZScore:     z,
			Value:      values[i],
		})
	}
	return out
}

// AllOutliers flattens the outliers of every group.
func AllOutliers(groups []RepetitionGroup) []Outlier {
	return lo.FlatMap(groups, func(g RepetitionGroup, _ int) []Outlier { return g.Outliers })
}
