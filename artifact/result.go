package artifact

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// System metric names in dashboard display order. Time metrics are stored
// in minutes (GC times in seconds), sizes in GB, memory breakdowns in MB.
var SystemMetricOrder = []string{
	"total_time", "total_time_min", "total_time_median", "total_time_max",
	"indexing_throttle_time", "merge_throttle_time",
	"merge_time", "merge_time_min", "merge_time_median", "merge_time_max", "merge_count",
	"refresh_time", "refresh_count", "flush_time", "flush_count",
	"young_gc_time", "young_gc_count", "old_gc_time", "old_gc_count",
	"store_size", "translog_size", "segment_count",
	"memory_segments", "memory_doc_values", "memory_terms", "memory_norms",
	"memory_points", "memory_stored_fields",
}

// TaskMetrics carries one task's operation metrics from a full result file.
type TaskMetrics struct {
	Task string

	ThroughputMin    float64
	ThroughputMean   float64
	ThroughputMedian float64
	ThroughputMax    float64

	LatencyP50  float64
	LatencyP90  float64
	LatencyP99  float64
	LatencyMean float64

	ServiceTimeP50  float64
	ServiceTimeP90  float64
	ServiceTimeP99  float64
	ServiceTimeMean float64

	ErrorRate   float64
	DurationSec float64
}

// ResultDoc is one full benchmark result document, unit-converted for
// display.
type ResultDoc struct {
	Cluster string
	Path    string
	System  map[string]float64
	Tasks   []TaskMetrics
}

// Raw wire shapes of the harness result file.
type resultFile struct {
	Results resultBody `json:"results"`
}

type resultBody struct {
	OpMetrics []opMetric `json:"op_metrics"`

	TotalTime                  float64   `json:"total_time"`
	TotalTimePerShard          shardSpan `json:"total_time_per_shard"`
	IndexingThrottleTime       float64   `json:"indexing_throttle_time"`
	MergeTime                  float64   `json:"merge_time"`
	MergeTimePerShard          shardSpan `json:"merge_time_per_shard"`
	MergeCount                 float64   `json:"merge_count"`
	MergeThrottleTime          float64   `json:"merge_throttle_time"`
	RefreshTime                float64   `json:"refresh_time"`
	RefreshCount               float64   `json:"refresh_count"`
	FlushTime                  float64   `json:"flush_time"`
	FlushCount                 float64   `json:"flush_count"`
	YoungGCTime                float64   `json:"young_gc_time"`
	YoungGCCount               float64   `json:"young_gc_count"`
	OldGCTime                  float64   `json:"old_gc_time"`
	OldGCCount                 float64   `json:"old_gc_count"`
	StoreSize                  float64   `json:"store_size"`
	TranslogSize               float64   `json:"translog_size"`
	SegmentCount               float64   `json:"segment_count"`
	MemorySegments             float64   `json:"memory_segments"`
	MemoryDocValues            float64   `json:"memory_doc_values"`
	MemoryTerms                float64   `json:"memory_terms"`
	MemoryNorms                float64   `json:"memory_norms"`
	MemoryPoints               float64   `json:"memory_points"`
	MemoryStoredFields         float64   `json:"memory_stored_fields"`
}

type shardSpan struct {
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

type opMetric struct {
	Task        string             `json:"task"`
	Throughput  opRange            `json:"throughput"`
	Latency     map[string]float64 `json:"latency"`
	ServiceTime map[string]float64 `json:"service_time"`
	ErrorRate   float64            `json:"error_rate"`
	Duration    float64            `json:"duration"`
}

type opRange struct {
	Min    float64 `json:"min"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

const (
	msPerMinute = 60000.0
	msPerSecond = 1000.0
	bytesPerGB  = 1024.0 * 1024.0 * 1024.0
	bytesPerMB  = 1024.0 * 1024.0
)

// LoadResults walks dir recursively and loads every *.json that is not a
// run summary. Cluster labels are derived from the path using
// instancePrefix (see ClusterParts). Unparseable files are logged and
// skipped.
func LoadResults(dir, instancePrefix string, log *zap.Logger) ([]ResultDoc, error) {
	var docs []ResultDoc
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") || strings.HasSuffix(d.Name(), summarySuffix) {
			return nil
		}
		doc, err := loadResult(path, instancePrefix)
		if err != nil {
			log.Warn("skipping result file", zap.String("file", path), zap.Error(err))
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	log.Info("loaded result documents", zap.String("dir", dir), zap.Int("documents", len(docs)))
	return docs, nil
}

func loadResult(path, instancePrefix string) (ResultDoc, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ResultDoc{}, err
	}
	var rf resultFile
	if err := json.Unmarshal(raw, &rf); err != nil {
		return ResultDoc{}, fmt.Errorf("parse json: %w", err)
	}

	doc := ResultDoc{
		Cluster: clusterLabelOrDir(path, instancePrefix),
		Path:    path,
		System:  systemMetrics(rf.Results),
	}
	for _, op := range rf.Results.OpMetrics {
		task := op.Task
		if task == "" {
			task = "unknown"
		}
		doc.Tasks = append(doc.Tasks, TaskMetrics{
			Task:             task,
			ThroughputMin:    op.Throughput.Min,
			ThroughputMean:   op.Throughput.Mean,
			ThroughputMedian: op.Throughput.Median,
			ThroughputMax:    op.Throughput.Max,
			LatencyP50:       op.Latency[PercentileKey(50)],
			LatencyP90:       op.Latency[PercentileKey(90)],
			LatencyP99:       op.Latency[PercentileKey(99)],
			LatencyMean:      op.Latency["mean"],
			ServiceTimeP50:   op.ServiceTime[PercentileKey(50)],
			ServiceTimeP90:   op.ServiceTime[PercentileKey(90)],
			ServiceTimeP99:   op.ServiceTime[PercentileKey(99)],
			ServiceTimeMean:  op.ServiceTime["mean"],
			ErrorRate:        op.ErrorRate,
			DurationSec:      op.Duration / msPerSecond,
		})
	}
	return doc, nil
}

func systemMetrics(r resultBody) map[string]float64 {
	return map[string]float64{
		"total_time":        r.TotalTime / msPerMinute,
		"total_time_min":    r.TotalTimePerShard.Min / msPerMinute,
		"total_time_median": r.TotalTimePerShard.Median / msPerMinute,
		"total_time_max":    r.TotalTimePerShard.Max / msPerMinute,

		"indexing_throttle_time": r.IndexingThrottleTime / msPerMinute,
		"merge_throttle_time":    r.MergeThrottleTime / msPerMinute,

		"merge_time":        r.MergeTime / msPerMinute,
		"merge_time_min":    r.MergeTimePerShard.Min / msPerMinute,
		"merge_time_median": r.MergeTimePerShard.Median / msPerMinute,
		"merge_time_max":    r.MergeTimePerShard.Max / msPerMinute,
		"merge_count":       r.MergeCount,

		"refresh_time":  r.RefreshTime / msPerMinute,
		"refresh_count": r.RefreshCount,
		"flush_time":    r.FlushTime / msPerMinute,
		"flush_count":   r.FlushCount,

		"young_gc_time":  r.YoungGCTime / msPerSecond,
		"young_gc_count": r.YoungGCCount,
		"old_gc_time":    r.OldGCTime / msPerSecond,
		"old_gc_count":   r.OldGCCount,

		"store_size":    r.StoreSize / bytesPerGB,
		"translog_size": r.TranslogSize / bytesPerGB,
		"segment_count": r.SegmentCount,

		"memory_segments":      r.MemorySegments / bytesPerMB,
		"memory_doc_values":    r.MemoryDocValues / bytesPerMB,
		"memory_terms":         r.MemoryTerms / bytesPerMB,
		"memory_norms":         r.MemoryNorms / bytesPerMB,
		"memory_points":        r.MemoryPoints / bytesPerMB,
		"memory_stored_fields": r.MemoryStoredFields / bytesPerMB,
	}
}

// ClusterParts splits an artifact path into (instance type, page size,
// workload) using the path segment that starts with instancePrefix, e.g.
// .../c4a-64/4k/nyc_taxis/70_16-16_1_summary.json.
func ClusterParts(path, instancePrefix string) (instance, page, workload string, ok bool) {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for i, part := range parts {
		if !strings.HasPrefix(part, instancePrefix) {
			continue
		}
		instance = part
		if i+1 < len(parts)-1 {
			page = parts[i+1]
		}
		if i+2 < len(parts)-1 {
			workload = parts[i+2]
		}
		return instance, page, workload, true
	}
	return "", "", "", false
}

// clusterLabelOrDir labels a result by instance type and page size, falling
// back to the parent directory name.
func clusterLabelOrDir(path, instancePrefix string) string {
	instance, page, _, ok := ClusterParts(path, instancePrefix)
	if ok && page != "" {
		return instance + " " + page
	}
	if ok {
		return instance
	}
	return filepath.Base(filepath.Dir(path))
}

// MetricUnit returns the axis label for a system metric.
func MetricUnit(metric string) string {
	switch {
	case strings.Contains(metric, "gc") && strings.Contains(metric, "time"):
		return "Time (seconds)"
	case strings.Contains(metric, "time"):
		return "Time (minutes)"
	case strings.Contains(metric, "count"):
		return "Count"
	case strings.Contains(metric, "store") || strings.Contains(metric, "translog"):
		return "Size (GB)"
	case strings.Contains(metric, "memory"):
		return "Memory (MB)"
	default:
		return "Value"
	}
}

// FormatMetric renders a system metric value with unit-appropriate
// precision.
func FormatMetric(value float64, metric string) string {
	switch {
	case strings.Contains(metric, "count"):
		return fmt.Sprintf("%.0f", value)
	case strings.Contains(metric, "gc") && strings.Contains(metric, "time"):
		return fmt.Sprintf("%.1f", value)
	default:
		return fmt.Sprintf("%.2f", value)
	}
}
