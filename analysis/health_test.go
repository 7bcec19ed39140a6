package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neehar-mavuduru/benchreport/artifact"
)

func fp(v float64) *float64 { return &v }

func TestAnalyzeHealth(t *testing.T) {
	cfg := artifact.Config{Clients: 70, Nodes: 16, Shards: 16}

	files := []artifact.TelemetryFile{
		{
			Config: cfg, Repetition: 1, Sample: 0,
			Samples: []artifact.NodeSample{
				{CPUPercent: fp(40), LoadAverage: fp(2)},
				{CPUPercent: fp(60)},
			},
			BadLines: 1,
		},
		{
			Config: cfg, Repetition: 1, Sample: 1,
			Samples: []artifact.NodeSample{
				{CPUPercent: fp(80), ThreadPools: map[string]artifact.ThreadPoolStats{
					"write": {Queue: 10, Active: 8, Rejected: 3},
				}},
				{ThreadPools: map[string]artifact.ThreadPoolStats{
					"write":  {Queue: 30, Active: 4, Rejected: 2},
					"search": {Queue: 1, Active: 1},
				}},
			},
		},
		{
			Config: cfg, Repetition: 2, Sample: 0,
			Samples: []artifact.NodeSample{{CPUPercent: fp(10)}},
		},
	}

	health := AnalyzeHealth(files)
	require.Len(t, health, 2)

	h := health[0]
	assert.Equal(t, cfg, h.Config)
	assert.Equal(t, 1, h.Repetition)
	assert.Equal(t, 1, h.BadLines)

	// Sample files of the same repetition merge: CPU over [40, 60, 80].
	assert.Equal(t, 3, h.CPU.Samples)
	assert.Equal(t, 60.0, h.CPU.Mean)
	assert.Equal(t, 80.0, h.CPU.Max)
	assert.Equal(t, 1, h.Load.Samples)
	assert.Equal(t, 0, h.Memory.Samples)

	require.Len(t, h.Pools, 2)
	assert.Equal(t, "search", h.Pools[0].Pool)
	write := h.Pools[1]
	assert.Equal(t, 20.0, write.QueueMean)
	assert.Equal(t, 30.0, write.QueueMax)
	assert.Equal(t, 8.0, write.ActiveMax)
	assert.Equal(t, 5.0, write.Rejected)

	assert.Equal(t, 2, health[1].Repetition)
	assert.Equal(t, 10.0, health[1].CPU.Mean)
}
