// Package uiexp refreshes the embedded datasets of the UI experiment pages.
// Each page carries its data as a JavaScript constant; the update rewrites
// that constant in place from freshly loaded benchmark runs and leaves the
// rest of the page untouched.
package uiexp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/neehar-mavuduru/benchreport/artifact"
)

// Pages are the experiment files the updater knows about. Page 2 consumes
// grouped data, page 3 a nested structure, the rest the flat point array.
var Pages = []string{
	"ui_experiment_1_efficiency_curve.html",
	"ui_experiment_2_cluster_comparison.html",
	"ui_experiment_3_rep_level_analysis.html",
	"ui_experiment_4_performance_bands.html",
	"ui_experiment_5_optimal_finder.html",
}

// uiReps is the repetition count the experiment pages were built around;
// shorter groups are padded with zeros.
const uiReps = 4

// Point is one run as the experiment pages consume it.
type Point struct {
	Cluster    string  `json:"cluster"`
	Config     string  `json:"config"`
	Rep        int     `json:"rep"`
	Throughput float64 `json:"throughput"`
	Latency    float64 `json:"latency"`
	LatencyP90 float64 `json:"latency_p90"`
	LatencyP50 float64 `json:"latency_p50"`
	Efficiency int     `json:"efficiency"`
	ErrorRate  float64 `json:"error_rate"`
	Clients    int     `json:"clients"`
	Nodes      int     `json:"nodes"`
	Shards     int     `json:"shards"`
}

// BuildPoints converts runs into page data points, labeling each with the
// cluster derived from its artifact path.
func BuildPoints(runs []artifact.Run, instancePrefix string) []Point {
	points := make([]Point, 0, len(runs))
	for _, r := range runs {
		cluster := "unknown"
		if instance, page, _, ok := artifact.ClusterParts(r.Path, instancePrefix); ok {
			cluster = instance
			if page != "" {
				cluster += " " + page
			}
		}
		points = append(points, Point{
			Cluster:    cluster,
			Config:     r.Config.Key(),
			Rep:        r.Repetition,
			Throughput: r.ThroughputMean,
			Latency:    r.LatencyP99,
			LatencyP90: r.LatencyP90,
			LatencyP50: r.LatencyP50,
			Efficiency: efficiency(r.ThroughputMean, r.LatencyP99),
			ErrorRate:  r.ErrorRate,
			Clients:    r.Config.Clients,
			Nodes:      r.Config.Nodes,
			Shards:     r.Config.Shards,
		})
	}
	return points
}

// efficiency is the page's throughput-per-latency score: documents indexed
// per second of p99 latency.
func efficiency(throughput, p99 float64) int {
	if p99 == 0 {
		return 0
	}
	return int(throughput / (p99 / 1000))
}

// ConfigSeries is one cluster+config group as the cluster-comparison page
// consumes it: identifying fields plus per-metric repetition arrays padded
// to at least the page's fixed repetition count.
type ConfigSeries struct {
	Cluster string `json:"cluster"`
	Config  string `json:"config"`
	Clients int    `json:"clients"`
	Nodes   int    `json:"nodes"`
	Shards  int    `json:"shards"`

	Throughput []float64 `json:"throughput"`
	Latency    []float64 `json:"latency"`
	LatencyP90 []float64 `json:"latency_p90"`
	LatencyP50 []float64 `json:"latency_p50"`
}

// ForUI2 groups points by cluster and config with repetition arrays,
// zero-padded up to the page's expected width.
func ForUI2(points []Point) []ConfigSeries {
	byGroup := lo.GroupBy(points, func(p Point) string { return p.Cluster + "_" + p.Config })

	keys := lo.Keys(byGroup)
	sort.Strings(keys)

	out := make([]ConfigSeries, 0, len(keys))
	for _, key := range keys {
		members := byGroup[key]
		sort.Slice(members, func(i, j int) bool { return members[i].Rep < members[j].Rep })

		first := members[0]
		s := ConfigSeries{
			Cluster: first.Cluster,
			Config:  first.Config,
			Clients: first.Clients,
			Nodes:   first.Nodes,
			Shards:  first.Shards,
		}
		for _, p := range members {
			s.Throughput = append(s.Throughput, p.Throughput)
			s.Latency = append(s.Latency, p.Latency)
			s.LatencyP90 = append(s.LatencyP90, p.LatencyP90)
			s.LatencyP50 = append(s.LatencyP50, p.LatencyP50)
		}
		for len(s.Throughput) < uiReps {
			s.Throughput = append(s.Throughput, 0)
			s.Latency = append(s.Latency, 0)
			s.LatencyP90 = append(s.LatencyP90, 0)
			s.LatencyP50 = append(s.LatencyP50, 0)
		}
		out = append(out, s)
	}
	return out
}

// RepDetail is one repetition in the nested page layout. CPU and queue are
// placeholders until telemetry is joined in; the pages expect the keys to
// exist.
type RepDetail struct {
	Rep        int     `json:"rep"`
	Throughput float64 `json:"throughput"`
	Latency    float64 `json:"latency"`
	Efficiency int     `json:"efficiency"`
	CPU        float64 `json:"cpu"`
	Queue      float64 `json:"queue"`
}

// Placeholder CPU when no telemetry accompanies a run.
const defaultCPU = 70.0

// ForUI3 nests points cluster -> config -> repetitions.
func ForUI3(points []Point) map[string]map[string][]RepDetail {
	out := map[string]map[string][]RepDetail{}
	for _, p := range points {
		if out[p.Cluster] == nil {
			out[p.Cluster] = map[string][]RepDetail{}
		}
		out[p.Cluster][p.Config] = append(out[p.Cluster][p.Config], RepDetail{
			Rep:        p.Rep,
			Throughput: p.Throughput,
			Latency:    p.Latency,
			Efficiency: p.Efficiency,
			CPU:        defaultCPU,
			Queue:      0,
		})
	}
	return out
}

var (
	performanceDataRe = regexp.MustCompile(`(?s)const performanceData = \[.*?\];`)
	repDataRe         = regexp.MustCompile(`(?s)const repData = \{.*?\};`)
)

// UpdateFile rewrites the data constant of one page, choosing the
// transform by page: the cluster-comparison page gets grouped data, the
// rep-level page the nested structure, every other page the flat array.
func UpdateFile(path string, points []Point, log *zap.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var (
		payload any = points
		re          = performanceDataRe
		name        = "performanceData"
	)
	base := filepath.Base(path)
	switch {
	case strings.Contains(base, "experiment_2"):
		payload = ForUI2(points)
	case strings.Contains(base, "experiment_3"):
		payload = ForUI3(points)
		re = repDataRe
		name = "repData"
	}

	if !re.Match(raw) {
		return fmt.Errorf("no %s constant found in %s", name, path)
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	content := re.ReplaceAllLiteral(raw, []byte("const "+name+" = "+string(encoded)+";"))

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return err
	}
	log.Info("updated page data", zap.String("file", path), zap.String("constant", name))
	return nil
}

// UpdateAll refreshes every known page under dir, skipping pages that do
// not exist. Returns the number of pages updated.
func UpdateAll(dir string, points []Point, log *zap.Logger) (int, error) {
	updated := 0
	for _, name := range Pages {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := UpdateFile(path, points, log); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
