package engine

import (
	"github.com/montanaflynn/stats"

	"labscore/internal/output"
)

// BatchStats describes the score percentages of a multi-lab run. Labs that
// failed or whose percentage is N/A are left out.
type BatchStats struct {
	Labs   int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	StdDev float64
}

// Summarize computes batch statistics over the scored outcomes. It returns
// false when no outcome has a defined percentage.
func Summarize(outcomes []output.LabOutcome) (BatchStats, bool) {
	var data []float64
	for _, o := range outcomes {
		if o.Failed() {
			continue
		}
		if p, ok := o.Result.Percentage().Value(); ok {
			data = append(data, p)
		}
	}
	if len(data) == 0 {
		return BatchStats{}, false
	}

	// The inputs are non-empty, so none of these can fail.
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)
	sd, _ := stats.StandardDeviationPopulation(data)

	return BatchStats{
		Labs:   len(data),
		Mean:   mean,
		Median: median,
		Min:    lo,
		Max:    hi,
		StdDev: sd,
	}, true
}
