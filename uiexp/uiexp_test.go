package uiexp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neehar-mavuduru/benchreport/artifact"
)

func testPoints() []Point {
	runs := []artifact.Run{
		{
			Config:         artifact.Config{Clients: 70, Nodes: 16, Shards: 16},
			Repetition:     1,
			Path:           "/data/c4a-64/4k/nyc_taxis/70_16-16_1_summary.json",
			ThroughputMean: 50000,
			LatencyP50:     100,
			LatencyP90:     200,
			LatencyP99:     500,
		},
		{
			Config:         artifact.Config{Clients: 70, Nodes: 16, Shards: 16},
			Repetition:     2,
			Path:           "/data/c4a-64/4k/nyc_taxis/70_16-16_2_summary.json",
			ThroughputMean: 52000,
			LatencyP99:     520,
		},
	}
	return BuildPoints(runs, "c4")
}

func TestBuildPoints(t *testing.T) {
	points := testPoints()
	require.Len(t, points, 2)

	p := points[0]
	assert.Equal(t, "c4a-64 4k", p.Cluster)
	assert.Equal(t, "70_16-16", p.Config)
	assert.Equal(t, 1, p.Rep)
	assert.Equal(t, 500.0, p.Latency)
	// 50000 docs/s at 0.5 s p99.
	assert.Equal(t, 100000, p.Efficiency)
}

func TestEfficiencyZeroLatency(t *testing.T) {
	points := BuildPoints([]artifact.Run{{ThroughputMean: 1000}}, "c4")
	require.Len(t, points, 1)
	assert.Equal(t, 0, points[0].Efficiency)
	assert.Equal(t, "unknown", points[0].Cluster)
}

func TestForUI2(t *testing.T) {
	series := ForUI2(testPoints())
	require.Len(t, series, 1)

	s := series[0]
	assert.Equal(t, "c4a-64 4k", s.Cluster)
	assert.Equal(t, "70_16-16", s.Config)
	assert.Equal(t, 70, s.Clients)
	assert.Equal(t, 16, s.Nodes)
	assert.Equal(t, 16, s.Shards)

	// Two reps plus zero padding up to four.
	assert.Equal(t, []float64{50000, 52000, 0, 0}, s.Throughput)
	assert.Equal(t, []float64{500, 520, 0, 0}, s.Latency)
	assert.Equal(t, []float64{200, 0, 0, 0}, s.LatencyP90)
	assert.Equal(t, []float64{100, 0, 0, 0}, s.LatencyP50)
}

func TestForUI3(t *testing.T) {
	nested := ForUI3(testPoints())
	reps := nested["c4a-64 4k"]["70_16-16"]
	require.Len(t, reps, 2)

	first := reps[0]
	assert.Equal(t, 1, first.Rep)
	assert.Equal(t, 50000.0, first.Throughput)
	assert.Equal(t, 100000, first.Efficiency)
	assert.Equal(t, defaultCPU, first.CPU)
	assert.Equal(t, 0.0, first.Queue)
}

func writePage(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const flatPage = `<html><script>
const performanceData = [
  {"old": true}
];
render(performanceData);
</script></html>`

func TestUpdateFileFlat(t *testing.T) {
	log := zap.NewNop()
	page := writePage(t, t.TempDir(), "ui_experiment_1_efficiency_curve.html", flatPage)

	require.NoError(t, UpdateFile(page, testPoints(), log))

	out := readPage(t, page)
	assert.Contains(t, out, `"config": "70_16-16"`)
	assert.Contains(t, out, `"rep": 1`)
	assert.NotContains(t, out, `"old": true`)
	// Surrounding page structure stays intact.
	assert.Contains(t, out, "render(performanceData);")
}

func TestUpdateFileGrouped(t *testing.T) {
	log := zap.NewNop()
	page := writePage(t, t.TempDir(), "ui_experiment_2_cluster_comparison.html", flatPage)

	require.NoError(t, UpdateFile(page, testPoints(), log))

	out := readPage(t, page)
	// Grouped shape: rep arrays, not flat per-run objects.
	assert.Contains(t, out, `"throughput": [`)
	assert.Contains(t, out, `"latency_p50": [`)
	assert.Contains(t, out, `"clients": 70`)
	assert.NotContains(t, out, `"rep":`)
}

func TestUpdateFileNested(t *testing.T) {
	log := zap.NewNop()
	page := writePage(t, t.TempDir(), "ui_experiment_3_rep_level_analysis.html", `<html><script>
const repData = {
  "stale": {}
};
render(repData);
</script></html>`)

	require.NoError(t, UpdateFile(page, testPoints(), log))

	out := readPage(t, page)
	assert.Contains(t, out, `"rep": 1`)
	assert.Contains(t, out, `"efficiency": 100000`)
	assert.Contains(t, out, `"cpu": 70`)
	assert.NotContains(t, out, `"stale"`)
	assert.Contains(t, out, "render(repData);")
}

func TestUpdateFileWithoutConstants(t *testing.T) {
	page := writePage(t, t.TempDir(), "plain.html", "<html></html>")
	assert.Error(t, UpdateFile(page, testPoints(), zap.NewNop()))
}

func TestUpdateAll(t *testing.T) {
	log := zap.NewNop()
	dir := t.TempDir()
	writePage(t, dir, "ui_experiment_2_cluster_comparison.html", flatPage)
	writePage(t, dir, "ui_experiment_5_optimal_finder.html", flatPage)

	updated, err := UpdateAll(dir, testPoints(), log)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	// Page 2 gets the grouped transform, page 5 the flat one.
	assert.Contains(t, readPage(t, filepath.Join(dir, "ui_experiment_2_cluster_comparison.html")), `"throughput": [`)
	assert.Contains(t, readPage(t, filepath.Join(dir, "ui_experiment_5_optimal_finder.html")), `"throughput": 50000`)
}

func readPage(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(raw)
}
