package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const validSummary = `{
	"throughput": {"mean": 52000, "min": 48000, "max": 55000},
	"latency": {"mean": 210.5, "50_0": 180.0, "90_0": 320.0, "99_0": 640.0},
	"error_rate": 0.001
}`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadRuns(t *testing.T) {
	log := zap.NewNop()

	t.Run("LoadsValidSummary", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "70_16-16_1_summary.json", validSummary)

		runs, err := LoadRuns(dir, log)
		require.NoError(t, err)
		require.Len(t, runs, 1)

		r := runs[0]
		assert.Equal(t, Config{70, 16, 16}, r.Config)
		assert.Equal(t, 1, r.Repetition)
		assert.Equal(t, 52000.0, r.ThroughputMean)
		assert.Equal(t, 180.0, r.LatencyP50)
		assert.Equal(t, 320.0, r.LatencyP90)
		assert.Equal(t, 640.0, r.LatencyP99)
		assert.Equal(t, 210.5, r.LatencyMean)
		assert.Equal(t, 0.001, r.ErrorRate)
	})

	t.Run("WalksSubdirectories", func(t *testing.T) {
		dir := t.TempDir()
		sub := filepath.Join(dir, "c4a-64", "4k", "nyc_taxis")
		require.NoError(t, os.MkdirAll(sub, 0o755))
		writeFile(t, sub, "70_16-16_1_summary.json", validSummary)
		writeFile(t, sub, "70_16-16_2_summary.json", validSummary)

		runs, err := LoadRuns(dir, log)
		require.NoError(t, err)
		assert.Len(t, runs, 2)
	})

	t.Run("SkipsMalformedJSON", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "70_16-16_1_summary.json", validSummary)
		writeFile(t, dir, "70_16-16_2_summary.json", `{"throughput": `)

		runs, err := LoadRuns(dir, log)
		require.NoError(t, err)
		assert.Len(t, runs, 1)
	})

	t.Run("SkipsMissingLatencyKey", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "70_16-16_1_summary.json", `{
			"throughput": {"mean": 100, "min": 90, "max": 110},
			"latency": {"mean": 5.0, "50_0": 4.0, "90_0": 6.0},
			"error_rate": 0
		}`)

		runs, err := LoadRuns(dir, log)
		require.NoError(t, err)
		assert.Empty(t, runs)
	})

	t.Run("IgnoresNonMatchingNames", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "final_summary.json", validSummary)
		writeFile(t, dir, "70_16-16_1.json", validSummary)

		runs, err := LoadRuns(dir, log)
		require.NoError(t, err)
		assert.Empty(t, runs)
	})
}

func TestPercentileKey(t *testing.T) {
	assert.Equal(t, "50_0", PercentileKey(50))
	assert.Equal(t, "90_0", PercentileKey(90))
	assert.Equal(t, "99_0", PercentileKey(99))
	assert.Equal(t, "99_9", PercentileKey(99.9))
	assert.Equal(t, "100_0", PercentileKey(100))
}
