package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neehar-mavuduru/benchreport/artifact"
)

func TestAggregate(t *testing.T) {
	runs := []artifact.Run{
		run(60, 8, 8, 1, 100, 10),
		run(60, 8, 8, 2, 110, 12),
		run(70, 16, 16, 1, 300, 20),
	}

	aggs := Aggregate(runs)
	require.Len(t, aggs, 2)

	// Sorted by throughput descending.
	assert.Equal(t, artifact.Config{Clients: 70, Nodes: 16, Shards: 16}, aggs[0].Config)
	assert.Equal(t, 300.0, aggs[0].ThroughputMean)
	assert.Equal(t, 0.0, aggs[0].ThroughputStd)
	assert.Equal(t, 18.75, aggs[0].Efficiency)

	assert.Equal(t, 2, aggs[1].Repetitions)
	assert.Equal(t, 105.0, aggs[1].ThroughputMean)
	assert.InDelta(t, 7.07, aggs[1].ThroughputStd, 0.01)
	assert.Equal(t, 11.0, aggs[1].LatencyP99)
	assert.Equal(t, 13.13, aggs[1].Efficiency)
}

func TestRecommend(t *testing.T) {
	aggs := Aggregate([]artifact.Run{
		run(60, 8, 8, 1, 100, 10),
		run(70, 16, 16, 1, 300, 20),
		run(80, 24, 24, 1, 310, 30),
	})

	rec, ok := Recommend(aggs)
	require.True(t, ok)
	assert.Equal(t, 24, rec.BestThroughput.Config.Nodes)
	assert.Equal(t, 8, rec.BestLatency.Config.Nodes)
	// 300/16 per node beats both 100/8 and 310/24.
	assert.Equal(t, 16, rec.BestEfficiency.Config.Nodes)

	_, ok = Recommend(nil)
	assert.False(t, ok)
}

func TestNodeScaling(t *testing.T) {
	aggs := Aggregate([]artifact.Run{
		run(60, 8, 8, 1, 100, 10),
		run(70, 8, 16, 1, 120, 12),
		run(70, 16, 16, 1, 180, 20),
	})

	rows := NodeScaling(aggs)
	require.Len(t, rows, 2)
	assert.Equal(t, 8, rows[0].Key)
	assert.Equal(t, 2, rows[0].Configs)
	assert.Equal(t, 110.0, rows[0].ThroughputMean)
	assert.Equal(t, 13.75, rows[0].PerNode)
	assert.Equal(t, 16, rows[1].Key)
	assert.Equal(t, 180.0, rows[1].ThroughputMean)
}

func TestScalingInsights(t *testing.T) {
	// Perfect linear doubling: 8 nodes at 100, 16 at 200, 32 at 400.
	aggs := Aggregate([]artifact.Run{
		run(60, 8, 8, 1, 100, 10),
		run(60, 16, 16, 1, 200, 10),
		run(60, 32, 32, 1, 400, 10),
	})

	ins := ScalingInsights(aggs)
	require.True(t, ins.FitOK)
	assert.InDelta(t, 12.5, ins.Fit.Slope, 1e-9)
	assert.InDelta(t, 1.0, ins.Fit.R2, 1e-9)

	require.Len(t, ins.Efficiency, 3)
	for _, e := range ins.Efficiency {
		assert.InDelta(t, 100.0, e.Percent, 1e-9)
	}

	// Sub-linear tail: 32 nodes only reach 300 against an ideal of 400.
	aggs = Aggregate([]artifact.Run{
		run(60, 8, 8, 1, 100, 10),
		run(60, 32, 32, 1, 300, 10),
	})
	ins = ScalingInsights(aggs)
	require.Len(t, ins.Efficiency, 2)
	assert.InDelta(t, 75.0, ins.Efficiency[1].Percent, 1e-9)
}

func TestAnalyzeVariance(t *testing.T) {
	runs := []artifact.Run{
		run(60, 8, 8, 1, 100, 10),
		run(60, 8, 8, 2, 102, 10.2),
		run(70, 16, 16, 1, 200, 20),
		run(70, 16, 16, 2, 280, 21),
		run(80, 24, 24, 1, 500, 30), // single rep, excluded
	}

	report := AnalyzeVariance(runs)
	require.Len(t, report.Configs, 2)

	// CV uses the sample stddev: [100, 102] has std sqrt(2), CV 1.40%.
	steady := report.Configs[0]
	assert.InDelta(t, 1.40, steady.ThroughputCV, 0.01)
	assert.Equal(t, "good", steady.Grade)
	require.True(t, steady.HasDelta)
	assert.InDelta(t, 2.0, steady.ThroughputDelta, 0.01)

	jumpy := report.Configs[1]
	assert.InDelta(t, 23.57, jumpy.ThroughputCV, 0.01)
	assert.Equal(t, "poor", jumpy.Grade)
	assert.InDelta(t, 40.0, jumpy.ThroughputDelta, 0.01)

	assert.Equal(t, jumpy.Config, report.WorstConfig)
	assert.Equal(t, jumpy.ThroughputCV, report.WorstCV)
}
