// Command genfixtures writes a synthetic benchmark artifact tree: run
// summaries and node telemetry for a grid of configurations. Useful for
// exercising the analysis pipeline without a live benchmark run.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var (
	outDir     = flag.String("out", "benchmark_data", "output directory")
	reps       = flag.Int("reps", 4, "repetitions per configuration")
	samples    = flag.Int("telemetry-samples", 30, "telemetry snapshots per run")
	seed       = flag.Int64("seed", 1, "random seed")
	withSpikes = flag.Bool("spikes", false, "inject an outlier repetition per configuration")
)

type config struct {
	clients, nodes, shards int
}

var grid = []config{
	{60, 8, 8},
	{70, 16, 16},
	{70, 16, 32},
	{100, 24, 48},
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	if err := generate(rng); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func generate(rng *rand.Rand) error {
	for _, cfg := range grid {
		dir := filepath.Join(*outDir, "c4a-64", "4k", "nyc_taxis")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}

		// Throughput grows with nodes, latency with clients.
		baseTput := 6000 * float64(cfg.nodes) * (1 - 0.002*float64(cfg.clients))
		baseP99 := 40 + 4*float64(cfg.clients)/float64(cfg.nodes)*10

		for rep := 1; rep <= *reps; rep++ {
			tput := jitter(rng, baseTput, 0.03)
			p99 := jitter(rng, baseP99, 0.05)
			if *withSpikes && rep == *reps {
				p99 *= 3
			}

			name := fmt.Sprintf("%d_%d-%d_%d_summary.json", cfg.clients, cfg.nodes, cfg.shards, rep)
			if err := writeSummary(filepath.Join(dir, name), tput, p99); err != nil {
				return err
			}

			telName := fmt.Sprintf("metrics_%d_%d-%d_%d_0.log", cfg.clients, cfg.nodes, cfg.shards, rep)
			if err := writeTelemetry(filepath.Join(dir, telName), rng, *samples); err != nil {
				return err
			}
		}
	}
	fmt.Printf("wrote fixtures for %d configurations under %s\n", len(grid), *outDir)
	return nil
}

func jitter(rng *rand.Rand, base, spread float64) float64 {
	return base * (1 + spread*(2*rng.Float64()-1))
}

func writeSummary(path string, tput, p99 float64) error {
	doc := map[string]any{
		"throughput": map[string]float64{
			"mean": tput,
			"min":  tput * 0.92,
			"max":  tput * 1.06,
		},
		"latency": map[string]float64{
			"mean": p99 * 0.4,
			"50_0": p99 * 0.3,
			"90_0": p99 * 0.6,
			"99_0": p99,
		},
		"error_rate": 0.0,
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func writeTelemetry(path string, rng *rand.Rand, n int) error {
	var b strings.Builder
	for i := 0; i < n; i++ {
		snap := map[string]any{
			"cpu_percent":        40 + 40*rng.Float64(),
			"load_average":       2 + 6*rng.Float64(),
			"memory_percent":     50 + 30*rng.Float64(),
			"disk_usage_percent": 35 + 5*rng.Float64(),
			"thread_pool": map[string]any{
				"write": map[string]float64{
					"queue":    float64(rng.Intn(40)),
					"active":   float64(rng.Intn(16)),
					"rejected": 0,
				},
			},
		}
		raw, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		b.Write(raw)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
