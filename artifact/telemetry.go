package artifact

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// NodeSample is one telemetry snapshot of cluster node status. All fields
// are optional; collectors differ in what they emit per interval.
type NodeSample struct {
	CPUPercent       *float64                   `json:"cpu_percent"`
	LoadAverage      *float64                   `json:"load_average"`
	MemoryPercent    *float64                   `json:"memory_percent"`
	DiskUsagePercent *float64                   `json:"disk_usage_percent"`
	ThreadPools      map[string]ThreadPoolStats `json:"thread_pool"`
}

// ThreadPoolStats is one thread pool's counters at sample time.
type ThreadPoolStats struct {
	Queue    float64 `json:"queue"`
	Active   float64 `json:"active"`
	Rejected float64 `json:"rejected"`
}

// TelemetryFile is one telemetry capture: a sequence of node snapshots
// recorded during a single run.
type TelemetryFile struct {
	Config     Config
	Repetition int
	Sample     int
	Path       string
	Samples    []NodeSample
	// BadLines counts snapshot lines that failed to parse and were skipped.
	BadLines int
}

// LoadTelemetry walks dir recursively and loads every file whose base name
// matches the metrics_* grammar. Unreadable files are logged and skipped;
// malformed snapshot lines within a file are skipped and counted.
func LoadTelemetry(dir string, log *zap.Logger) ([]TelemetryFile, error) {
	var files []TelemetryFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		base := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		cfg, rep, sample, ok := ParseTelemetryName(base)
		if !ok {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			log.Warn("skipping telemetry file", zap.String("file", path), zap.Error(err))
			return nil
		}
		defer f.Close()

		samples, bad := parseSnapshots(f)
		if bad > 0 {
			log.Warn("telemetry file had malformed lines",
				zap.String("file", path), zap.Int("skipped", bad))
		}
		files = append(files, TelemetryFile{
			Config:     cfg,
			Repetition: rep,
			Sample:     sample,
			Path:       path,
			Samples:    samples,
			BadLines:   bad,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return files, nil
}

// parseSnapshots reads newline-delimited JSON snapshots, skipping blank and
// malformed lines.
func parseSnapshots(r io.Reader) (samples []NodeSample, bad int) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var s NodeSample
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			bad++
			continue
		}
		samples = append(samples, s)
	}
	return samples, bad
}
