// Package artifact ingests the files a benchmark run leaves behind: per-run
// JSON summaries, newline-delimited node telemetry, and full result
// documents. Loading is best effort: files that fail to parse are logged and
// skipped, never fatal.
package artifact

import (
	"fmt"
	"regexp"
	"strconv"
)

// Config identifies one tested deployment topology.
type Config struct {
	Clients int
	Nodes   int
	Shards  int
}

// Key renders the config in the filename convention, e.g. "70_16-16".
func (c Config) Key() string {
	return fmt.Sprintf("%d_%d-%d", c.Clients, c.Nodes, c.Shards)
}

func (c Config) String() string {
	return fmt.Sprintf("%d clients, %d nodes, %d shards", c.Clients, c.Nodes, c.Shards)
}

// Less orders configs by (clients, nodes, shards).
func (c Config) Less(o Config) bool {
	if c.Clients != o.Clients {
		return c.Clients < o.Clients
	}
	if c.Nodes != o.Nodes {
		return c.Nodes < o.Nodes
	}
	return c.Shards < o.Shards
}

var (
	runNameRe       = regexp.MustCompile(`^(\d+)_(\d+)-(\d+)_(\d+)$`)
	telemetryNameRe = regexp.MustCompile(`^metrics_(\d+)_(\d+)-(\d+)_(\d+)_(\d+)$`)
)

// ParseRunName extracts the configuration and repetition index from a run
// artifact base name of the form {clients}_{nodes}-{shards}_{repetition}.
func ParseRunName(name string) (Config, int, bool) {
	m := runNameRe.FindStringSubmatch(name)
	if m == nil {
		return Config{}, 0, false
	}
	return Config{
		Clients: atoi(m[1]),
		Nodes:   atoi(m[2]),
		Shards:  atoi(m[3]),
	}, atoi(m[4]), true
}

// ParseTelemetryName extracts configuration, repetition and sample index
// from a telemetry base name of the form
// metrics_{clients}_{nodes}-{shards}_{repetition}_{sample}.
func ParseTelemetryName(name string) (cfg Config, rep, sample int, ok bool) {
	m := telemetryNameRe.FindStringSubmatch(name)
	if m == nil {
		return Config{}, 0, 0, false
	}
	cfg = Config{
		Clients: atoi(m[1]),
		Nodes:   atoi(m[2]),
		Shards:  atoi(m[3]),
	}
	return cfg, atoi(m[4]), atoi(m[5]), true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
