package analysis

import (
	"sort"

	"github.com/samber/lo"

	"github.com/neehar-mavuduru/benchreport/artifact"
	"github.com/neehar-mavuduru/benchreport/stats"
)

// ConfigAggregate is the per-configuration mean (and spread) across
// repetitions, values rounded to two decimals for reporting.
type ConfigAggregate struct {
	Config      artifact.Config
	Repetitions int

	ThroughputMean float64
	ThroughputStd  float64
	LatencyP50     float64
	LatencyP90     float64
	LatencyP99     float64
	LatencyP99Std  float64
	LatencyMean    float64
	// ErrorRate is the worst repetition's error rate, not the mean.
	ErrorRate float64

	// Efficiency is mean throughput per node.
	Efficiency float64
}

// Aggregate collapses each configuration's repetitions into one row, sorted
// by mean throughput descending.
func Aggregate(runs []artifact.Run) []ConfigAggregate {
	groups := GroupRuns(runs)

	aggs := make([]ConfigAggregate, 0, len(groups))
	for _, g := range groups {
		throughput := stats.Describe(lo.Map(g.Runs, func(r artifact.Run, _ int) float64 { return r.ThroughputMean }))
		p99 := stats.Describe(lo.Map(g.Runs, func(r artifact.Run, _ int) float64 { return r.LatencyP99 }))

		agg := ConfigAggregate{
			Config:         g.Config,
			Repetitions:    len(g.Runs),
			ThroughputMean: stats.Round2(throughput.Mean),
			ThroughputStd:  stats.Round2(throughput.Std),
			LatencyP50:     stats.Round2(meanOf(g.Runs, func(r artifact.Run) float64 { return r.LatencyP50 })),
			LatencyP90:     stats.Round2(meanOf(g.Runs, func(r artifact.Run) float64 { return r.LatencyP90 })),
			LatencyP99:     stats.Round2(p99.Mean),
			LatencyP99Std:  stats.Round2(p99.Std),
			LatencyMean:    stats.Round2(meanOf(g.Runs, func(r artifact.Run) float64 { return r.LatencyMean })),
			ErrorRate:      lo.MaxBy(g.Runs, func(a, b artifact.Run) bool { return a.ErrorRate > b.ErrorRate }).ErrorRate,
		}
		if g.Config.Nodes > 0 {
			agg.Efficiency = stats.Round2(throughput.Mean / float64(g.Config.Nodes))
		}
		aggs = append(aggs, agg)
	}

	sort.SliceStable(aggs, func(i, j int) bool { return aggs[i].ThroughputMean > aggs[j].ThroughputMean })
	return aggs
}

func meanOf(runs []artifact.Run, f func(artifact.Run) float64) float64 {
	if len(runs) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range runs {
		sum += f(r)
	}
	return sum / float64(len(runs))
}
