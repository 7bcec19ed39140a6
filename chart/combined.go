package chart

import (
	"bytes"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/neehar-mavuduru/benchreport/analysis"
)

// Combined renders the four analysis charts on a single 2x2 PNG canvas.
func Combined(aggs []analysis.ConfigAggregate, groups []analysis.RepetitionGroup, report analysis.VarianceReport) ([]byte, error) {
	scatter, err := ThroughputScatter(aggs)
	if err != nil {
		return nil, err
	}
	bars, err := PercentileBars(aggs)
	if err != nil {
		return nil, err
	}
	boxes, err := RepetitionBoxes(groups)
	if err != nil {
		return nil, err
	}
	cv, err := VarianceBars(report)
	if err != nil {
		// Single-repetition datasets have no variance chart; leave the
		// quadrant empty rather than failing the whole canvas.
		cv = plot.New()
		cv.Title.Text = "Throughput Variability Across Repetitions"
	}

	plots := [][]*plot.Plot{
		{scatter, bars},
		{boxes, cv},
	}

	canvas := vgimg.New(2*Width, 2*Height)
	dc := draw.New(canvas)
	tiles := draw.Tiles{
		Rows: 2, Cols: 2,
		PadX: vg.Points(10), PadY: vg.Points(10),
		PadTop: vg.Points(10), PadBottom: vg.Points(10),
		PadLeft: vg.Points(10), PadRight: vg.Points(10),
	}

	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j, p := range plots[i] {
			p.Draw(canvases[i][j])
		}
	}

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: canvas}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Files maps chart file names to rendered PNG bytes.
type Files map[string][]byte

// RenderAll renders every chart, skipping those the dataset cannot support.
func RenderAll(aggs []analysis.ConfigAggregate, groups []analysis.RepetitionGroup, report analysis.VarianceReport, log *zap.Logger) Files {
	files := Files{}
	render := func(name string, p *plot.Plot, err error) {
		if err != nil {
			log.Warn("skipping chart", zap.String("chart", name), zap.Error(err))
			return
		}
		data, err := PNG(p, Width, Height)
		if err != nil {
			log.Warn("skipping chart", zap.String("chart", name), zap.Error(err))
			return
		}
		files[name] = data
	}

	p, err := ThroughputScatter(aggs)
	render("throughput_vs_latency.png", p, err)
	p, err = PercentileBars(aggs)
	render("latency_percentiles.png", p, err)
	p, err = VarianceBars(report)
	render("throughput_variability.png", p, err)
	p, err = RepetitionBoxes(groups)
	render("repetition_spread.png", p, err)

	if combined, err := Combined(aggs, groups, report); err != nil {
		log.Warn("skipping chart", zap.String("chart", "performance_analysis.png"), zap.Error(err))
	} else {
		files["performance_analysis.png"] = combined
	}
	return files
}

// WriteAll writes rendered charts into dir.
func WriteAll(dir string, files Files, log *zap.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		log.Debug("wrote chart", zap.String("file", path), zap.Int("bytes", len(data)))
	}
	return nil
}
