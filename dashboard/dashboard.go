// Package dashboard renders an interactive HTML dashboard comparing full
// benchmark result documents across clusters, using ECharts for the charts
// and pre-rendered tables for the raw numbers.
package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samber/lo"

	"github.com/neehar-mavuduru/benchreport/artifact"
)

// repColumns is the fixed number of repetition columns per cluster table.
const repColumns = 4

// Chart-worthy system metrics. The tables below the charts cover the full
// metric set.
var highlightMetrics = []string{
	"total_time", "merge_time", "young_gc_time",
	"store_size", "segment_count", "memory_terms",
}

// ClusterGroup is every result document that belongs to one cluster label,
// in load order (repetition order).
type ClusterGroup struct {
	Cluster string
	Docs    []artifact.ResultDoc
}

// GroupByCluster buckets documents by cluster label, sorted by label.
func GroupByCluster(docs []artifact.ResultDoc) []ClusterGroup {
	byCluster := lo.GroupBy(docs, func(d artifact.ResultDoc) string { return d.Cluster })

	labels := lo.Keys(byCluster)
	sort.Strings(labels)

	groups := make([]ClusterGroup, 0, len(labels))
	for _, label := range labels {
		groups = append(groups, ClusterGroup{Cluster: label, Docs: byCluster[label]})
	}
	return groups
}

// metricBar builds a grouped bar chart of one system metric: clusters on
// the x-axis, one series per repetition.
func metricBar(groups []ClusterGroup, metric string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: metric, Subtitle: artifact.MetricUnit(metric)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)

	clusters := lo.Map(groups, func(g ClusterGroup, _ int) string { return g.Cluster })
	bar.SetXAxis(clusters)

	maxReps := 0
	for _, g := range groups {
		if len(g.Docs) > maxReps {
			maxReps = len(g.Docs)
		}
	}
	for rep := 0; rep < maxReps; rep++ {
		data := make([]opts.BarData, len(groups))
		for i, g := range groups {
			if rep < len(g.Docs) {
				data[i] = opts.BarData{Value: g.Docs[rep].System[metric]}
			} else {
				data[i] = opts.BarData{Value: "-"}
			}
		}
		bar.AddSeries(fmt.Sprintf("Rep %d", rep+1), data)
	}
	return bar
}

// taskBar compares mean task throughput across clusters, one series per
// task.
func taskBar(groups []ClusterGroup) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Task Throughput", Subtitle: "mean docs/s across repetitions"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)

	clusters := lo.Map(groups, func(g ClusterGroup, _ int) string { return g.Cluster })
	bar.SetXAxis(clusters)

	for _, task := range taskNames(groups) {
		data := make([]opts.BarData, len(groups))
		for i, g := range groups {
			data[i] = opts.BarData{Value: meanTaskThroughput(g.Docs, task)}
		}
		bar.AddSeries(task, data)
	}
	return bar
}

// taskLatencyBar shows one task's latency and service-time percentiles
// across clusters, mean over repetitions.
func taskLatencyBar(groups []ClusterGroup, task string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: task + " latency", Subtitle: "ms, mean across repetitions"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)

	clusters := lo.Map(groups, func(g ClusterGroup, _ int) string { return g.Cluster })
	bar.SetXAxis(clusters)

	series := []struct {
		name  string
		value func(artifact.TaskMetrics) float64
	}{
		{"p50", func(t artifact.TaskMetrics) float64 { return t.LatencyP50 }},
		{"p90", func(t artifact.TaskMetrics) float64 { return t.LatencyP90 }},
		{"p99", func(t artifact.TaskMetrics) float64 { return t.LatencyP99 }},
		{"service p99", func(t artifact.TaskMetrics) float64 { return t.ServiceTimeP99 }},
	}
	for _, s := range series {
		data := make([]opts.BarData, len(groups))
		for i, g := range groups {
			data[i] = opts.BarData{Value: meanTaskMetric(g.Docs, task, s.value)}
		}
		bar.AddSeries(s.name, data)
	}
	return bar
}

// durationBar compares task durations across clusters.
func durationBar(groups []ClusterGroup) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Task Duration", Subtitle: "seconds, mean across repetitions"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)

	clusters := lo.Map(groups, func(g ClusterGroup, _ int) string { return g.Cluster })
	bar.SetXAxis(clusters)

	for _, task := range taskNames(groups) {
		data := make([]opts.BarData, len(groups))
		for i, g := range groups {
			data[i] = opts.BarData{Value: meanTaskMetric(g.Docs, task, func(t artifact.TaskMetrics) float64 { return t.DurationSec })}
		}
		bar.AddSeries(task, data)
	}
	return bar
}

func taskNames(groups []ClusterGroup) []string {
	seen := map[string]bool{}
	var names []string
	for _, g := range groups {
		for _, d := range g.Docs {
			for _, t := range d.Tasks {
				if !seen[t.Task] {
					seen[t.Task] = true
					names = append(names, t.Task)
				}
			}
		}
	}
	sort.Strings(names)
	return names
}

func meanTaskThroughput(docs []artifact.ResultDoc, task string) float64 {
	return meanTaskMetric(docs, task, func(t artifact.TaskMetrics) float64 { return t.ThroughputMean })
}

func meanTaskMetric(docs []artifact.ResultDoc, task string, value func(artifact.TaskMetrics) float64) float64 {
	sum, n := 0.0, 0
	for _, d := range docs {
		for _, t := range d.Tasks {
			if t.Task == task {
				sum += value(t)
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// MetricRow is one pre-rendered table row: a metric across the repetition
// columns of a cluster, missing repetitions shown as "-".
type MetricRow struct {
	Metric string
	Unit   string
	Cells  []string
}

// ClusterTable is the full system-metric table of one cluster.
type ClusterTable struct {
	Cluster string
	Rows    []MetricRow
}

func clusterTable(g ClusterGroup) ClusterTable {
	table := ClusterTable{Cluster: g.Cluster}
	for _, metric := range artifact.SystemMetricOrder {
		row := MetricRow{Metric: metric, Unit: artifact.MetricUnit(metric)}
		for rep := 0; rep < repColumns; rep++ {
			if rep < len(g.Docs) {
				row.Cells = append(row.Cells, artifact.FormatMetric(g.Docs[rep].System[metric], metric))
			} else {
				row.Cells = append(row.Cells, "-")
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

var taskMetricColumns = []struct {
	name   string
	format string
	value  func(artifact.TaskMetrics) float64
}{
	{"throughput_mean", "%.0f", func(t artifact.TaskMetrics) float64 { return t.ThroughputMean }},
	{"latency_p50", "%.2f", func(t artifact.TaskMetrics) float64 { return t.LatencyP50 }},
	{"latency_p90", "%.2f", func(t artifact.TaskMetrics) float64 { return t.LatencyP90 }},
	{"latency_p99", "%.2f", func(t artifact.TaskMetrics) float64 { return t.LatencyP99 }},
	{"service_time_p99", "%.2f", func(t artifact.TaskMetrics) float64 { return t.ServiceTimeP99 }},
	{"error_rate", "%.4f", func(t artifact.TaskMetrics) float64 { return t.ErrorRate }},
	{"duration_sec", "%.0f", func(t artifact.TaskMetrics) float64 { return t.DurationSec }},
}

// taskTable renders one cluster's per-task metrics with one column per
// repetition.
func taskTable(g ClusterGroup) ClusterTable {
	table := ClusterTable{Cluster: g.Cluster + " tasks"}
	for _, task := range taskNames([]ClusterGroup{g}) {
		for _, col := range taskMetricColumns {
			row := MetricRow{Metric: task + " " + col.name}
			for rep := 0; rep < repColumns; rep++ {
				cell := "-"
				if rep < len(g.Docs) {
					for _, t := range g.Docs[rep].Tasks {
						if t.Task == task {
							cell = fmt.Sprintf(col.format, col.value(t))
							break
						}
					}
				}
				row.Cells = append(row.Cells, cell)
			}
			table.Rows = append(table.Rows, row)
		}
	}
	return table
}

const tablesHTML = `
<style>
.metric-tables { font-family: 'Segoe UI', Arial, sans-serif; padding: 20px 40px; }
.metric-tables table { border-collapse: collapse; margin-bottom: 30px; min-width: 640px; }
.metric-tables caption { text-align: left; font-size: 1.2em; font-weight: 600; padding: 8px 0; }
.metric-tables th, .metric-tables td { padding: 6px 14px; text-align: right; border-bottom: 1px solid #eee; }
.metric-tables th { background: #5470c6; color: white; }
.metric-tables td:first-child, .metric-tables th:first-child { text-align: left; }
.metric-tables td:nth-child(2) { color: #888; font-size: 0.85em; }
</style>
<div class="metric-tables">
{{range .Tables}}
<table>
<caption>{{.Cluster}}</caption>
<tr><th>Metric</th><th>Unit</th><th>Rep 1</th><th>Rep 2</th><th>Rep 3</th><th>Rep 4</th></tr>
{{range .Rows}}
<tr><td>{{.Metric}}</td><td>{{.Unit}}</td>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{end}}
</table>
{{end}}
</div>
`

var tablesTmpl = template.Must(template.New("tables").Parse(tablesHTML))

// Write renders the dashboard for the given result documents: an ECharts
// page followed by one system-metric table per cluster.
func Write(out io.Writer, docs []artifact.ResultDoc) error {
	groups := GroupByCluster(docs)
	if len(groups) == 0 {
		return fmt.Errorf("no result documents to render")
	}

	page := components.NewPage()
	page.PageTitle = "Benchmark Comparison Dashboard"
	page.SetLayout(components.PageFlexLayout)
	for _, metric := range highlightMetrics {
		page.AddCharts(metricBar(groups, metric))
	}
	page.AddCharts(taskBar(groups))
	for _, task := range taskNames(groups) {
		page.AddCharts(taskLatencyBar(groups, task))
	}
	page.AddCharts(durationBar(groups))

	var pageBuf bytes.Buffer
	if err := page.Render(&pageBuf); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}

	var tableBuf bytes.Buffer
	data := struct{ Tables []ClusterTable }{}
	for _, g := range groups {
		data.Tables = append(data.Tables, clusterTable(g), taskTable(g))
	}
	if err := tablesTmpl.Execute(&tableBuf, data); err != nil {
		return fmt.Errorf("render tables: %w", err)
	}

	// Splice the tables into the chart page just before the closing body
	// tag; append when the marker is missing.
	html := pageBuf.String()
	if i := strings.LastIndex(html, "</body>"); i >= 0 {
		html = html[:i] + tableBuf.String() + html[i:]
	} else {
		html += tableBuf.String()
	}
	_, err := io.WriteString(out, html)
	return err
}
