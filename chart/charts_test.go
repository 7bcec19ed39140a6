package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neehar-mavuduru/benchreport/analysis"
	"github.com/neehar-mavuduru/benchreport/artifact"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleRuns() []artifact.Run {
	mk := func(clients, nodes, rep int, tput, p99 float64) artifact.Run {
		return artifact.Run{
			Config:         artifact.Config{Clients: clients, Nodes: nodes, Shards: nodes},
			Repetition:     rep,
			ThroughputMean: tput,
			LatencyP50:     p99 / 4,
			LatencyP90:     p99 / 2,
			LatencyP99:     p99,
		}
	}
	return []artifact.Run{
		mk(60, 8, 1, 100, 12),
		mk(60, 8, 2, 104, 13),
		mk(70, 16, 1, 190, 18),
		mk(70, 16, 2, 205, 17),
	}
}

func TestRenderAll(t *testing.T) {
	runs := sampleRuns()
	aggs := analysis.Aggregate(runs)
	groups := analysis.AnalyzeRepetitions(runs)
	report := analysis.AnalyzeVariance(runs)

	files := RenderAll(aggs, groups, report, zap.NewNop())
	for _, name := range []string{
		"throughput_vs_latency.png",
		"latency_percentiles.png",
		"throughput_variability.png",
		"repetition_spread.png",
		"performance_analysis.png",
	} {
		data, ok := files[name]
		require.True(t, ok, "missing chart %s", name)
		assert.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", name)
	}
}

func TestRenderAllSkipsEmptyDataset(t *testing.T) {
	files := RenderAll(nil, nil, analysis.VarianceReport{}, zap.NewNop())
	assert.Empty(t, files)
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	files := Files{"a.png": []byte("x")}
	require.NoError(t, WriteAll(filepath.Join(dir, "charts"), files, zap.NewNop()))

	data, err := os.ReadFile(filepath.Join(dir, "charts", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}
