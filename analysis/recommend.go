package analysis

import (
	"sort"

	"github.com/samber/lo"

	"github.com/neehar-mavuduru/benchreport/stats"
)

// Recommendations names the best configuration under three criteria.
type Recommendations struct {
	BestThroughput ConfigAggregate
	BestLatency    ConfigAggregate
	BestEfficiency ConfigAggregate
}

// Recommend picks the configuration with the highest mean throughput, the
// lowest mean p99 latency, and the highest throughput per node. Returns
// false when there are no aggregates.
func Recommend(aggs []ConfigAggregate) (Recommendations, bool) {
	if len(aggs) == 0 {
		return Recommendations{}, false
	}
	return Recommendations{
		BestThroughput: lo.MaxBy(aggs, func(a, b ConfigAggregate) bool { return a.ThroughputMean > b.ThroughputMean }),
		BestLatency:    lo.MinBy(aggs, func(a, b ConfigAggregate) bool { return a.LatencyP99 < b.LatencyP99 }),
		BestEfficiency: lo.MaxBy(aggs, func(a, b ConfigAggregate) bool { return a.Efficiency > b.Efficiency }),
	}, true
}

// ScalingRow is one step of a scaling table: configurations collapsed onto a
// single dimension (node count or client count).
type ScalingRow struct {
	Key            int
	Configs        int
	ThroughputMean float64
	LatencyP99     float64
	PerNode        float64
}

// NodeScaling collapses aggregates by node count, ascending.
func NodeScaling(aggs []ConfigAggregate) []ScalingRow {
	return scalingBy(aggs, func(a ConfigAggregate) int { return a.Config.Nodes })
}

// ClientScaling collapses aggregates by client count, ascending.
func ClientScaling(aggs []ConfigAggregate) []ScalingRow {
	return scalingBy(aggs, func(a ConfigAggregate) int { return a.Config.Clients })
}

func scalingBy(aggs []ConfigAggregate, key func(ConfigAggregate) int) []ScalingRow {
	byKey := lo.GroupBy(aggs, key)

	keys := lo.Keys(byKey)
	sort.Ints(keys)

	rows := make([]ScalingRow, 0, len(keys))
	for _, k := range keys {
		members := byKey[k]
		row := ScalingRow{
			Key:            k,
			Configs:        len(members),
			ThroughputMean: stats.Round2(lo.SumBy(members, throughputOf) / float64(len(members))),
			LatencyP99:     stats.Round2(lo.SumBy(members, p99Of) / float64(len(members))),
		}
		if nodes := meanNodes(members); nodes > 0 {
			row.PerNode = stats.Round2(row.ThroughputMean / nodes)
		}
		rows = append(rows, row)
	}
	return rows
}

func throughputOf(a ConfigAggregate) float64 { return a.ThroughputMean }
func p99Of(a ConfigAggregate) float64        { return a.LatencyP99 }

func meanNodes(aggs []ConfigAggregate) float64 {
	sum := 0.0
	for _, a := range aggs {
		sum += float64(a.Config.Nodes)
	}
	return sum / float64(len(aggs))
}
