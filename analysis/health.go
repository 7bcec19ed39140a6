package analysis

import (
	"sort"

	"github.com/samber/lo"

	"github.com/neehar-mavuduru/benchreport/artifact"
	"github.com/neehar-mavuduru/benchreport/stats"
)

// MetricHealth summarizes one telemetry metric over a run.
type MetricHealth struct {
	Samples int
	Mean    float64
	Max     float64
	P95     float64
}

// PoolHealth summarizes one thread pool over a run. Rejections are summed,
// queue and active depths averaged and peaked.
type PoolHealth struct {
	Pool      string
	QueueMean float64
	QueueMax  float64
	ActiveMax float64
	Rejected  float64
}

// RunHealth is the resource-health view of one configuration repetition,
// merged across all of its telemetry sample files.
type RunHealth struct {
	Config     artifact.Config
	Repetition int

	CPU    MetricHealth
	Load   MetricHealth
	Memory MetricHealth
	Disk   MetricHealth
	Pools  []PoolHealth

	BadLines int
}

type healthKey struct {
	cfg artifact.Config
	rep int
}

// AnalyzeHealth merges telemetry files by configuration and repetition and
// summarizes resource usage for each run. Runs are ordered by configuration
// then repetition.
func AnalyzeHealth(files []artifact.TelemetryFile) []RunHealth {
	merged := lo.GroupBy(files, func(f artifact.TelemetryFile) healthKey {
		return healthKey{cfg: f.Config, rep: f.Repetition}
	})

	keys := lo.Keys(merged)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].cfg != keys[j].cfg {
			return keys[i].cfg.Less(keys[j].cfg)
		}
		return keys[i].rep < keys[j].rep
	})

	out := make([]RunHealth, 0, len(keys))
	for _, k := range keys {
		var samples []artifact.NodeSample
		bad := 0
		for _, f := range merged[k] {
			samples = append(samples, f.Samples...)
			bad += f.BadLines
		}

		h := RunHealth{
			Config:     k.cfg,
			Repetition: k.rep,
			CPU:        metricHealth(samples, func(s artifact.NodeSample) *float64 { return s.CPUPercent }),
			Load:       metricHealth(samples, func(s artifact.NodeSample) *float64 { return s.LoadAverage }),
			Memory:     metricHealth(samples, func(s artifact.NodeSample) *float64 { return s.MemoryPercent }),
			Disk:       metricHealth(samples, func(s artifact.NodeSample) *float64 { return s.DiskUsagePercent }),
			Pools:      poolHealth(samples),
			BadLines:   bad,
		}
		out = append(out, h)
	}
	return out
}

// metricHealth summarizes one optional per-sample metric, ignoring samples
// that omit it.
func metricHealth(samples []artifact.NodeSample, f func(artifact.NodeSample) *float64) MetricHealth {
	var values []float64
	for _, s := range samples {
		if v := f(s); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return MetricHealth{}
	}
	d := stats.Describe(values)
	return MetricHealth{
		Samples: len(values),
		Mean:    stats.Round2(d.Mean),
		Max:     d.Max,
		P95:     stats.Round2(d.P95),
	}
}

func poolHealth(samples []artifact.NodeSample) []PoolHealth {
	type acc struct {
		queues   []float64
		active   []float64
		rejected float64
	}
	pools := map[string]*acc{}
	for _, s := range samples {
		for name, p := range s.ThreadPools {
			a := pools[name]
			if a == nil {
				a = &acc{}
				pools[name] = a
			}
			a.queues = append(a.queues, p.Queue)
			a.active = append(a.active, p.Active)
			a.rejected += p.Rejected
		}
	}

	names := lo.Keys(pools)
	sort.Strings(names)

	out := make([]PoolHealth, 0, len(names))
	for _, name := range names {
		a := pools[name]
		out = append(out, PoolHealth{
			Pool:      name,
			QueueMean: stats.Round2(stats.Describe(a.queues).Mean),
			QueueMax:  lo.Max(a.queues),
			ActiveMax: lo.Max(a.active),
			Rejected:  a.rejected,
		})
	}
	return out
}
