package artifact

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const summarySuffix = "_summary.json"

// Summary mirrors one run summary document as written by the benchmark
// harness. Latency percentiles use the harness key convention
// "<pct>_<decimal>", e.g. "99_0" for the 99.0th percentile, alongside a
// plain "mean" key.
type Summary struct {
	Throughput MetricRange        `json:"throughput"`
	Latency    map[string]float64 `json:"latency"`
	ErrorRate  float64            `json:"error_rate"`
}

// MetricRange is the mean/min/max block of a summary metric.
type MetricRange struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// PercentileKey renders a percentile in the harness key convention:
// 99.0 -> "99_0", 99.9 -> "99_9".
func PercentileKey(pct float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(pct, 'f', 1, 64), ".", "_")
}

// LatencyAt returns the latency at the given percentile, if present.
func (s Summary) LatencyAt(pct float64) (float64, bool) {
	v, ok := s.Latency[PercentileKey(pct)]
	return v, ok
}

// Run is one benchmark repetition, immutable once loaded.
type Run struct {
	Config     Config
	Repetition int
	Path       string

	ThroughputMean float64
	ThroughputMin  float64
	ThroughputMax  float64
	LatencyMean    float64
	LatencyP50     float64
	LatencyP90     float64
	LatencyP99     float64
	ErrorRate      float64
}

// LoadRuns walks dir recursively and loads every *_summary.json whose base
// name matches the run naming grammar. Files that fail to parse or lack
// required metric keys are logged and skipped.
func LoadRuns(dir string, log *zap.Logger) ([]Run, error) {
	var runs []Run
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), summarySuffix) {
			return nil
		}
		cfg, rep, ok := ParseRunName(strings.TrimSuffix(d.Name(), summarySuffix))
		if !ok {
			return nil
		}
		run, err := loadRun(path, cfg, rep)
		if err != nil {
			log.Warn("skipping summary file", zap.String("file", path), zap.Error(err))
			return nil
		}
		runs = append(runs, run)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	log.Info("loaded benchmark runs", zap.String("dir", dir), zap.Int("runs", len(runs)))
	return runs, nil
}

func loadRun(path string, cfg Config, rep int) (Run, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Run{}, err
	}

	var s Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return Run{}, fmt.Errorf("parse json: %w", err)
	}

	run := Run{
		Config:         cfg,
		Repetition:     rep,
		Path:           path,
		ThroughputMean: s.Throughput.Mean,
		ThroughputMin:  s.Throughput.Min,
		ThroughputMax:  s.Throughput.Max,
		ErrorRate:      s.ErrorRate,
	}

	var ok bool
	if run.LatencyP50, ok = s.LatencyAt(50); !ok {
		return Run{}, fmt.Errorf("latency key %q missing", PercentileKey(50))
	}
	if run.LatencyP90, ok = s.LatencyAt(90); !ok {
		return Run{}, fmt.Errorf("latency key %q missing", PercentileKey(90))
	}
	if run.LatencyP99, ok = s.LatencyAt(99); !ok {
		return Run{}, fmt.Errorf("latency key %q missing", PercentileKey(99))
	}
	if run.LatencyMean, ok = s.Latency["mean"]; !ok {
		return Run{}, fmt.Errorf("latency key %q missing", "mean")
	}
	return run, nil
}
