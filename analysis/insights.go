package analysis

import (
	"github.com/samber/lo"

	"github.com/neehar-mavuduru/benchreport/stats"
)

// NodeEfficiency compares one node count's throughput against ideal linear
// scaling from the smallest node count measured.
type NodeEfficiency struct {
	Nodes      int
	Throughput float64
	Ideal      float64
	// Percent of ideal linear throughput actually achieved.
	Percent float64
}

// Insights summarizes how throughput scales with node count.
type Insights struct {
	// Fit is throughput regressed on node count, valid when FitOK.
	Fit   stats.LinearFit
	FitOK bool

	Efficiency []NodeEfficiency
}

// ScalingInsights fits throughput against node count and measures scaling
// efficiency relative to the smallest node count.
func ScalingInsights(aggs []ConfigAggregate) Insights {
	rows := NodeScaling(aggs)
	if len(rows) == 0 {
		return Insights{}
	}

	xs := lo.Map(rows, func(r ScalingRow, _ int) float64 { return float64(r.Key) })
	ys := lo.Map(rows, func(r ScalingRow, _ int) float64 { return r.ThroughputMean })

	var ins Insights
	ins.Fit, ins.FitOK = stats.FitLinear(xs, ys)

	base := rows[0]
	if base.Key <= 0 || base.ThroughputMean <= 0 {
		return ins
	}
	perNodeIdeal := base.ThroughputMean / float64(base.Key)
	for _, r := range rows {
		ideal := perNodeIdeal * float64(r.Key)
		ins.Efficiency = append(ins.Efficiency, NodeEfficiency{
			Nodes:      r.Key,
			Throughput: r.ThroughputMean,
			Ideal:      stats.Round2(ideal),
			Percent:    stats.Round2(r.ThroughputMean / ideal * 100),
		})
	}
	return ins
}
