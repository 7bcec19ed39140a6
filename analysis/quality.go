package analysis

import (
	"github.com/samber/lo"

	"github.com/neehar-mavuduru/benchreport/artifact"
)

// Quality reports how complete and trustworthy the loaded dataset is.
type Quality struct {
	Runs    int
	Configs int

	// Configurations with fewer repetitions than the best-covered one.
	Incomplete []artifact.Config
	// Configurations with a single repetition, where no variance analysis
	// is possible.
	SingleRep []artifact.Config

	Outliers   int
	ErrorRuns  int
	MaxErrRate float64
}

// AssessQuality checks repetition coverage and error rates across groups.
func AssessQuality(groups []RepetitionGroup) Quality {
	q := Quality{Configs: len(groups)}

	maxReps := 0
	for _, g := range groups {
		if len(g.Runs) > maxReps {
			maxReps = len(g.Runs)
		}
	}

	for _, g := range groups {
		q.Runs += len(g.Runs)
		q.Outliers += len(g.Outliers)
		if len(g.Runs) < maxReps {
			q.Incomplete = append(q.Incomplete, g.Config)
		}
		if len(g.Runs) == 1 {
			q.SingleRep = append(q.SingleRep, g.Config)
		}
		for _, r := range g.Runs {
			if r.ErrorRate > 0 {
				q.ErrorRuns++
			}
		}
	}

	runs := lo.FlatMap(groups, func(g RepetitionGroup, _ int) []artifact.Run { return g.Runs })
	if len(runs) > 0 {
		q.MaxErrRate = lo.MaxBy(runs, func(a, b artifact.Run) bool { return a.ErrorRate > b.ErrorRate }).ErrorRate
	}
	return q
}
