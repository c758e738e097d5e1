package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// maxLag is the longest lag; rows earlier than this cannot carry a
// complete feature set and are dropped.
const maxLag = 14

// ComputeLagFeatures fills the autoregressive columns of an aggregated
// series: lags 1/3/7/14 of quantity, trailing 7- and 14-day moving
// averages (minimum window 1) and the trailing 7-day sample standard
// deviation (NaN below two points). Rows with any NaN lag or rolling
// value are then dropped, which removes exactly the first 14 rows of a
// gap-free series. Returns nil when fewer than 7 rows survive.
func ComputeLagFeatures(s *Series) *Series {
	if s == nil {
		return nil
	}
	rows := s.Rows
	quantities := make([]float64, len(rows))
	for i, r := range rows {
		quantities[i] = r.Quantity
	}

	for i := range rows {
		rows[i].Lag1 = lagValue(quantities, i, 1)
		rows[i].Lag3 = lagValue(quantities, i, 3)
		rows[i].Lag7 = lagValue(quantities, i, 7)
		rows[i].Lag14 = lagValue(quantities, i, 14)

		rows[i].MA7 = trailingMean(quantities, i, 7)
		rows[i].MA14 = trailingMean(quantities, i, 14)
		rows[i].Std7 = trailingStd(quantities, i, 7)
	}

	out := &Series{Dish: s.Dish, CovariateNames: s.CovariateNames}
	for _, r := range rows {
		if hasNaN(r.Lag1, r.Lag3, r.Lag7, r.Lag14, r.MA7, r.MA14, r.Std7) {
			continue
		}
		out.Rows = append(out.Rows, r)
	}
	if len(out.Rows) < minTrainableRows {
		return nil
	}
	return out
}

func lagValue(q []float64, i, lag int) float64 {
	if i < lag {
		return math.NaN()
	}
	return q[i-lag]
}

// trailingMean averages the window ending at i (inclusive), shrinking
// toward available history for early rows.
func trailingMean(q []float64, i, window int) float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	return stat.Mean(q[start:i+1], nil)
}

// trailingStd is the sample standard deviation of the window ending at
// i; NaN when fewer than two points exist.
func trailingStd(q []float64, i, window int) float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	if i+1-start < 2 {
		return math.NaN()
	}
	return stat.StdDev(q[start:i+1], nil)
}

func hasNaN(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
