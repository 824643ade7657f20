package report

import (
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Distribution summarizes the confidence scores in one assignment table.
type Distribution struct {
	Table  string  `json:"table"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P10    float64 `json:"p10"`
	P90    float64 `json:"p90"`
}

// Describe computes summary statistics over a table's confidence scores.
// An empty table yields a zero distribution, not an error.
func Describe(table string, confidences []float64) (Distribution, error) {
	dist := Distribution{Table: table, Count: len(confidences)}
	if len(confidences) == 0 {
		return dist, nil
	}

	var err error
	if dist.Mean, err = stats.Mean(confidences); err != nil {
		return dist, err
	}
	if dist.Median, err = stats.Median(confidences); err != nil {
		return dist, err
	}
	if dist.StdDev, err = stats.StandardDeviation(confidences); err != nil {
		return dist, err
	}
	if dist.Min, err = stats.Min(confidences); err != nil {
		return dist, err
	}
	if dist.Max, err = stats.Max(confidences); err != nil {
		return dist, err
	}

	sorted := append([]float64(nil), confidences...)
	sort.Float64s(sorted)
	dist.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	dist.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return dist, nil
}
