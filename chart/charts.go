// Package chart renders benchmark analysis charts to PNG using gonum/plot.
package chart

import (
	"bytes"
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/neehar-mavuduru/benchreport/analysis"
)

var errNoData = errors.New("no data points")

// Default single-chart render size.
const (
	Width  = 8 * vg.Inch
	Height = 6 * vg.Inch
)

// ThroughputScatter plots mean p99 latency against mean throughput, one
// point per configuration.
func ThroughputScatter(aggs []analysis.ConfigAggregate) (*plot.Plot, error) {
	if len(aggs) == 0 {
		return nil, errNoData
	}

	pts := make(plotter.XYs, len(aggs))
	for i, a := range aggs {
		pts[i].X = a.ThroughputMean
		pts[i].Y = a.LatencyP99
	}

	p := plot.New()
	p.Title.Text = "Throughput vs P99 Latency"
	p.X.Label.Text = "Throughput (docs/s)"
	p.Y.Label.Text = "P99 Latency (ms)"
	p.Add(plotter.NewGrid())

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Radius = vg.Points(4)
	s.GlyphStyle.Color = plotutil.Color(0)
	p.Add(s)
	return p, nil
}

// PercentileBars plots grouped p50/p90/p99 latency bars per configuration.
func PercentileBars(aggs []analysis.ConfigAggregate) (*plot.Plot, error) {
	if len(aggs) == 0 {
		return nil, errNoData
	}

	p := plot.New()
	p.Title.Text = "Latency Percentiles by Configuration"
	p.Y.Label.Text = "Latency (ms)"
	p.Legend.Top = true

	series := []struct {
		name   string
		value  func(analysis.ConfigAggregate) float64
		offset vg.Length
	}{
		{"p50", func(a analysis.ConfigAggregate) float64 { return a.LatencyP50 }, -barWidth},
		{"p90", func(a analysis.ConfigAggregate) float64 { return a.LatencyP90 }, 0},
		{"p99", func(a analysis.ConfigAggregate) float64 { return a.LatencyP99 }, barWidth},
	}
	for i, s := range series {
		values := make(plotter.Values, len(aggs))
		for j, a := range aggs {
			values[j] = s.value(a)
		}
		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return nil, err
		}
		bars.Offset = s.offset
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add(s.name, bars)
	}

	p.NominalX(configLabels(aggs)...)
	return p, nil
}

// VarianceBars plots the throughput coefficient of variation per
// configuration.
func VarianceBars(report analysis.VarianceReport) (*plot.Plot, error) {
	if len(report.Configs) == 0 {
		return nil, errNoData
	}

	values := make(plotter.Values, len(report.Configs))
	labels := make([]string, len(report.Configs))
	for i, c := range report.Configs {
		values[i] = c.ThroughputCV
		labels[i] = c.Config.Key()
	}

	p := plot.New()
	p.Title.Text = "Throughput Variability Across Repetitions"
	p.Y.Label.Text = "Coefficient of Variation (%)"

	bars, err := plotter.NewBarChart(values, 2*barWidth)
	if err != nil {
		return nil, err
	}
	bars.Color = plotutil.Color(2)
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

// RepetitionBoxes plots the throughput spread of each configuration's
// repetitions as a box plot.
func RepetitionBoxes(groups []analysis.RepetitionGroup) (*plot.Plot, error) {
	if len(groups) == 0 {
		return nil, errNoData
	}

	p := plot.New()
	p.Title.Text = "Throughput Spread by Configuration"
	p.Y.Label.Text = "Throughput (docs/s)"

	labels := make([]string, len(groups))
	for i, g := range groups {
		values := make(plotter.Values, len(g.Runs))
		for j, r := range g.Runs {
			values[j] = r.ThroughputMean
		}
		box, err := plotter.NewBoxPlot(2*barWidth, float64(i), values)
		if err != nil {
			return nil, err
		}
		p.Add(box)
		labels[i] = g.Config.Key()
	}
	p.NominalX(labels...)
	return p, nil
}

var barWidth = vg.Points(12)

func configLabels(aggs []analysis.ConfigAggregate) []string {
	labels := make([]string, len(aggs))
	for i, a := range aggs {
		labels[i] = a.Config.Key()
	}
	return labels
}

// PNG renders a plot at the given size.
func PNG(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
