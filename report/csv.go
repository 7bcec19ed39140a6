// Package report writes analysis results as CSV files, console text and a
// standalone HTML report.
package report

import (
	"encoding/csv"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/neehar-mavuduru/benchreport/analysis"
	"github.com/neehar-mavuduru/benchreport/artifact"
)

// WriteRawCSV writes one row per benchmark run.
func WriteRawCSV(path string, runs []artifact.Run, log *zap.Logger) error {
	header := []string{
		"clients", "nodes", "shards", "repetition", "config",
		"throughput_mean", "throughput_min", "throughput_max",
		"latency_p50", "latency_p90", "latency_p99", "latency_mean",
		"error_rate",
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			strconv.Itoa(r.Config.Clients),
			strconv.Itoa(r.Config.Nodes),
			strconv.Itoa(r.Config.Shards),
			strconv.Itoa(r.Repetition),
			r.Config.Key(),
			num(r.ThroughputMean),
			num(r.ThroughputMin),
			num(r.ThroughputMax),
			num(r.LatencyP50),
			num(r.LatencyP90),
			num(r.LatencyP99),
			num(r.LatencyMean),
			num(r.ErrorRate),
		})
	}
	return writeCSV(path, header, rows, log)
}

// WriteAggregateCSV writes one row per configuration.
func WriteAggregateCSV(path string, aggs []analysis.ConfigAggregate, log *zap.Logger) error {
	header := []string{
		"config", "clients", "nodes", "shards", "repetitions",
		"throughput_mean", "throughput_std",
		"latency_p50", "latency_p90", "latency_p99", "latency_p99_std", "latency_mean",
		"error_rate", "throughput_per_node",
	}
	rows := make([][]string, 0, len(aggs))
	for _, a := range aggs {
		rows = append(rows, []string{
			a.Config.Key(),
			strconv.Itoa(a.Config.Clients),
			strconv.Itoa(a.Config.Nodes),
			strconv.Itoa(a.Config.Shards),
			strconv.Itoa(a.Repetitions),
			num(a.ThroughputMean),
			num(a.ThroughputStd),
			num(a.LatencyP50),
			num(a.LatencyP90),
			num(a.LatencyP99),
			num(a.LatencyP99Std),
			num(a.LatencyMean),
			num(a.ErrorRate),
			num(a.Efficiency),
		})
	}
	return writeCSV(path, header, rows, log)
}

func writeCSV(path string, header []string, rows [][]string, log *zap.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info("wrote csv", zap.String("file", path), zap.Int("rows", len(rows)))
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
