package dashboard

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neehar-mavuduru/benchreport/artifact"
)

func doc(cluster string, totalTime float64) artifact.ResultDoc {
	return artifact.ResultDoc{
		Cluster: cluster,
		System: map[string]float64{
			"total_time": totalTime,
			"merge_time": totalTime / 3,
		},
		Tasks: []artifact.TaskMetrics{
			{Task: "index-append", ThroughputMean: 50000},
		},
	}
}

func TestGroupByCluster(t *testing.T) {
	groups := GroupByCluster([]artifact.ResultDoc{
		doc("c4a-72 4k", 30),
		doc("c4a-64 4k", 32),
		doc("c4a-64 4k", 31),
	})
	require.Len(t, groups, 2)
	assert.Equal(t, "c4a-64 4k", groups[0].Cluster)
	assert.Len(t, groups[0].Docs, 2)
	assert.Equal(t, "c4a-72 4k", groups[1].Cluster)
}

func TestClusterTable(t *testing.T) {
	table := clusterTable(ClusterGroup{
		Cluster: "c4a-64 4k",
		Docs:    []artifact.ResultDoc{doc("c4a-64 4k", 30.1), doc("c4a-64 4k", 31)},
	})

	require.Len(t, table.Rows, len(artifact.SystemMetricOrder))
	first := table.Rows[0]
	assert.Equal(t, "total_time", first.Metric)
	assert.Equal(t, "Time (minutes)", first.Unit)
	require.Len(t, first.Cells, repColumns)
	assert.Equal(t, "30.10", first.Cells[0])
	assert.Equal(t, "31.00", first.Cells[1])
	assert.Equal(t, "-", first.Cells[2])
	assert.Equal(t, "-", first.Cells[3])
}

func TestTaskTable(t *testing.T) {
	table := taskTable(ClusterGroup{
		Cluster: "c4a-64 4k",
		Docs:    []artifact.ResultDoc{doc("c4a-64 4k", 30)},
	})

	assert.Equal(t, "c4a-64 4k tasks", table.Cluster)
	require.Len(t, table.Rows, len(taskMetricColumns))
	first := table.Rows[0]
	assert.Equal(t, "index-append throughput_mean", first.Metric)
	assert.Equal(t, "50000", first.Cells[0])
	assert.Equal(t, "-", first.Cells[1])
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []artifact.ResultDoc{
		doc("c4a-64 4k", 30),
		doc("c4a-72 4k", 28),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "c4a-64 4k")
	assert.Contains(t, out, "metric-tables")
	assert.Contains(t, out, "total_time")
	assert.Contains(t, out, "index-append")
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, nil))
}
