package analysis

import (
	"github.com/samber/lo"

	"github.com/neehar-mavuduru/benchreport/artifact"
	"github.com/neehar-mavuduru/benchreport/stats"
)

// CV bands used to grade repetition consistency.
const (
	cvGoodMax = 5.0
	cvFairMax = 10.0
)

// ConfigVariance grades one configuration's run-to-run consistency.
type ConfigVariance struct {
	Config      artifact.Config
	Repetitions int

	ThroughputCV float64
	LatencyP99CV float64
	// Grade is "good", "fair" or "poor" by the worse of the two CVs.
	Grade string

	// Percent change from repetition 1 to repetition 2, set when the
	// configuration has exactly two repetitions.
	ThroughputDelta float64
	LatencyP99Delta float64
	HasDelta        bool
}

// VarianceReport is the cross-configuration variance summary.
type VarianceReport struct {
	Configs []ConfigVariance

	MeanThroughputCV float64
	WorstConfig      artifact.Config
	WorstCV          float64
}

// AnalyzeVariance grades every configuration with at least two repetitions
// by coefficient of variation.
func AnalyzeVariance(runs []artifact.Run) VarianceReport {
	var report VarianceReport
	for _, g := range GroupRuns(runs) {
		if len(g.Runs) < 2 {
			continue
		}

		throughput := lo.Map(g.Runs, func(r artifact.Run, _ int) float64 { return r.ThroughputMean })
		p99 := lo.Map(g.Runs, func(r artifact.Run, _ int) float64 { return r.LatencyP99 })

		cv := ConfigVariance{
			Config:       g.Config,
			Repetitions:  len(g.Runs),
			ThroughputCV: stats.Round2(cvOf(throughput)),
			LatencyP99CV: stats.Round2(cvOf(p99)),
		}
		cv.Grade = grade(cv.ThroughputCV, cv.LatencyP99CV)

		if len(g.Runs) == 2 {
			cv.ThroughputDelta = stats.Round2(percentChange(throughput[0], throughput[1]))
			cv.LatencyP99Delta = stats.Round2(percentChange(p99[0], p99[1]))
			cv.HasDelta = true
		}
		report.Configs = append(report.Configs, cv)
	}

	if len(report.Configs) == 0 {
		return report
	}
	report.MeanThroughputCV = stats.Round2(lo.SumBy(report.Configs, func(c ConfigVariance) float64 {
		return c.ThroughputCV
	}) / float64(len(report.Configs)))

	worst := lo.MaxBy(report.Configs, func(a, b ConfigVariance) bool {
		return a.ThroughputCV > b.ThroughputCV
	})
	report.WorstConfig = worst.Config
	report.WorstCV = worst.ThroughputCV
	return report
}

// cvOf uses the sample stddev, the same convention as the aggregate
// spread columns.
func cvOf(values []float64) float64 {
	s := stats.Describe(values)
	return stats.CV(s.Mean, s.Std)
}

func grade(cvs ...float64) string {
	worst := lo.Max(cvs)
	switch {
	case worst <= cvGoodMax:
		return "good"
	case worst <= cvFairMax:
		return "fair"
	default:
		return "poor"
	}
}

func percentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}
