package report

import (
	"encoding/base64"
	"html/template"
	"io"
	"time"

	"github.com/neehar-mavuduru/benchreport/analysis"
	"github.com/neehar-mavuduru/benchreport/chart"
)

const htmlReport = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Benchmark Performance Report</title>
<style>
body { font-family: 'Segoe UI', Arial, sans-serif; margin: 0; background: #f5f6fa; color: #2d3436; }
.header { background: linear-gradient(135deg, #667eea, #764ba2); color: white; padding: 30px 40px; }
.header h1 { margin: 0; }
.header p { margin: 6px 0 0; opacity: 0.85; }
.content { padding: 30px 40px; }
.cards { display: flex; flex-wrap: wrap; gap: 16px; margin-bottom: 30px; }
.card { background: white; border-radius: 8px; padding: 18px 24px; box-shadow: 0 1px 4px rgba(0,0,0,0.08); min-width: 180px; }
.card .value { font-size: 1.6em; font-weight: 600; color: #667eea; }
.card .label { font-size: 0.85em; color: #636e72; margin-top: 4px; }
h2 { border-bottom: 2px solid #667eea; padding-bottom: 6px; margin-top: 40px; }
table { border-collapse: collapse; width: 100%; background: white; box-shadow: 0 1px 4px rgba(0,0,0,0.08); }
th, td { padding: 8px 14px; text-align: right; border-bottom: 1px solid #eee; }
th { background: #667eea; color: white; }
td:first-child, th:first-child { text-align: left; }
tr.flagged td { background: #ffeaa7; }
img.chart { max-width: 100%; border-radius: 8px; box-shadow: 0 1px 4px rgba(0,0,0,0.08); margin: 10px 0; }
.badge { display: inline-block; padding: 2px 10px; border-radius: 10px; font-size: 0.8em; }
.badge.good { background: #55efc4; }
.badge.fair { background: #ffeaa7; }
.badge.poor { background: #fab1a0; }
</style>
</head>
<body>
<div class="header">
  <h1>Benchmark Performance Report</h1>
  <p>Generated {{.Generated}} · {{.Quality.Runs}} runs · {{.Quality.Configs}} configurations</p>
</div>
<div class="content">

{{with .Recommendations}}
<div class="cards">
  <div class="card"><div class="value">{{printf "%.0f" .BestThroughput.ThroughputMean}}</div>
    <div class="label">best throughput (docs/s) · {{.BestThroughput.Config.Key}}</div></div>
  <div class="card"><div class="value">{{printf "%.1f" .BestLatency.LatencyP99}} ms</div>
    <div class="label">best p99 latency · {{.BestLatency.Config.Key}}</div></div>
  <div class="card"><div class="value">{{printf "%.1f" .BestEfficiency.Efficiency}}</div>
    <div class="label">best docs/s per node · {{.BestEfficiency.Config.Key}}</div></div>
  <div class="card"><div class="value">{{$.Quality.Outliers}}</div>
    <div class="label">outlier repetitions flagged</div></div>
</div>
{{end}}

<h2>Results by Configuration</h2>
<table>
<tr><th>Config</th><th>Reps</th><th>Throughput</th><th>&plusmn; Std</th><th>P50</th><th>P90</th><th>P99</th><th>Per Node</th></tr>
{{range .Aggs}}
<tr><td>{{.Config.Key}}</td><td>{{.Repetitions}}</td>
<td>{{printf "%.2f" .ThroughputMean}}</td><td>{{printf "%.2f" .ThroughputStd}}</td>
<td>{{printf "%.2f" .LatencyP50}}</td><td>{{printf "%.2f" .LatencyP90}}</td>
<td>{{printf "%.2f" .LatencyP99}}</td><td>{{printf "%.2f" .Efficiency}}</td></tr>
{{end}}
</table>

{{if .Outliers}}
<h2>Outlier Repetitions</h2>
<table>
<tr><th>Config</th><th>Repetition</th><th>Metric</th><th>Value</th><th>Z-Score</th></tr>
{{range .Outliers}}
<tr class="flagged"><td>{{.Config.Key}}</td><td>{{.Repetition}}</td><td>{{.Metric}}</td>
<td>{{printf "%.2f" .Value}}</td><td>{{printf "%.2f" .ZScore}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Variance.Configs}}
<h2>Run-to-Run Consistency</h2>
<table>
<tr><th>Config</th><th>Reps</th><th>Throughput CV %</th><th>P99 CV %</th><th>Grade</th></tr>
{{range .Variance.Configs}}
<tr><td>{{.Config.Key}}</td><td>{{.Repetitions}}</td>
<td>{{printf "%.2f" .ThroughputCV}}</td><td>{{printf "%.2f" .LatencyP99CV}}</td>
<td><span class="badge {{.Grade}}">{{.Grade}}</span></td></tr>
{{end}}
</table>
{{end}}

{{if .Insights.FitOK}}
<h2>Scaling</h2>
<p>Throughput grows by {{printf "%.2f" .Insights.Fit.Slope}} docs/s per added node
(R&sup2; {{printf "%.3f" .Insights.Fit.R2}}).</p>
<table>
<tr><th>Nodes</th><th>Throughput</th><th>Ideal Linear</th><th>Efficiency %</th></tr>
{{range .Insights.Efficiency}}
<tr><td>{{.Nodes}}</td><td>{{printf "%.2f" .Throughput}}</td>
<td>{{printf "%.2f" .Ideal}}</td><td>{{printf "%.1f" .Percent}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Charts}}
<h2>Charts</h2>
{{range .Charts}}
<img class="chart" alt="{{.Name}}" src="{{.URI}}">
{{end}}
{{end}}

</div>
</body>
</html>
`

var reportTmpl = template.Must(template.New("report").Parse(htmlReport))

// InlineChart is a PNG embedded into the report as a data URI. The URI is
// pre-built and marked safe so the template does not mangle the base64
// payload.
type InlineChart struct {
	Name string
	URI  template.URL
}

type htmlData struct {
	Generated       string
	Aggs            []analysis.ConfigAggregate
	Outliers        []analysis.Outlier
	Variance        analysis.VarianceReport
	Insights        analysis.Insights
	Quality         analysis.Quality
	Recommendations *analysis.Recommendations
	Charts          []InlineChart
}

// WriteHTML renders the standalone HTML report, embedding charts inline so
// the file has no external references.
func WriteHTML(out io.Writer, c Console, charts chart.Files) error {
	data := htmlData{
		Generated: time.Now().Format("2006-01-02 15:04"),
		Aggs:      c.Aggs,
		Outliers:  analysis.AllOutliers(c.Groups),
		Variance:  c.Variance,
		Insights:  c.Insights,
		Quality:   c.Quality,
	}
	if rec, ok := analysis.Recommend(c.Aggs); ok {
		data.Recommendations = &rec
	}
	// Keep the combined canvas first, then individual charts by name.
	for _, name := range []string{
		"performance_analysis.png",
		"throughput_vs_latency.png",
		"latency_percentiles.png",
		"throughput_variability.png",
		"repetition_spread.png",
	} {
		if png, ok := charts[name]; ok {
			uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
			data.Charts = append(data.Charts, InlineChart{Name: name, URI: template.URL(uri)})
		}
	}
	return reportTmpl.Execute(out, data)
}
