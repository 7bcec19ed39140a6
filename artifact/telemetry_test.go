package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseSnapshots(t *testing.T) {
	input := strings.Join([]string{
		`{"cpu_percent": 42.5, "load_average": 3.1}`,
		``,
		`not json at all`,
		`{"cpu_percent": 55.0, "thread_pool": {"write": {"queue": 12, "active": 8, "rejected": 2}}}`,
	}, "\n")

	samples, bad := parseSnapshots(strings.NewReader(input))
	require.Len(t, samples, 2)
	assert.Equal(t, 1, bad)

	require.NotNil(t, samples[0].CPUPercent)
	assert.Equal(t, 42.5, *samples[0].CPUPercent)
	require.NotNil(t, samples[0].LoadAverage)
	assert.Equal(t, 3.1, *samples[0].LoadAverage)
	assert.Nil(t, samples[0].MemoryPercent)

	write, ok := samples[1].ThreadPools["write"]
	require.True(t, ok)
	assert.Equal(t, 12.0, write.Queue)
	assert.Equal(t, 2.0, write.Rejected)
}

func TestLoadTelemetry(t *testing.T) {
	log := zap.NewNop()
	dir := t.TempDir()

	lines := `{"cpu_percent": 10}
{"cpu_percent": 20}
garbage
{"cpu_percent": 30}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "metrics_70_16-16_1_0"), []byte(lines), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "metrics_70_16-16_1_1.log"), []byte(`{"cpu_percent": 40}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "server.log"), []byte("unrelated"), 0o644))

	files, err := LoadTelemetry(dir, log)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, Config{70, 16, 16}, files[0].Config)
	assert.Equal(t, 1, files[0].Repetition)
	assert.Len(t, files[0].Samples, 3)
	assert.Equal(t, 1, files[0].BadLines)
	assert.Equal(t, 1, files[1].Sample)
}
