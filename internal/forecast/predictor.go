package forecast

import (
	"math"
	"time"
)

// ForecastPoint is one predicted future day for a dish.
type ForecastPoint struct {
	Date     time.Time `json:"date"`
	Weekday  string    `json:"weekday"`
	Quantity int       `json:"quantity"`

	// raw keeps the unrounded regression output; appending it to the
	// rolling history instead of the rounded value keeps the moving
	// statistics smooth across the horizon.
	raw float64
}

// Raw exposes the unrounded prediction, mainly for tests and reports.
func (p ForecastPoint) Raw() float64 { return p.raw }

// rollForward generates the horizon day by day. Each prediction is
// appended to the working series before the next day's lag features
// are read, so from day 2 onward the autoregressive inputs are earlier
// predictions rather than observations. Compounding forecast error
// over long horizons is the accepted cost of this scheme.
func (s *Series) rollForward(m Model, horizon int) []ForecastPoint {
	current := make([]FeatureRow, len(s.Rows))
	copy(current, s.Rows)

	last := current[len(current)-1]
	points := make([]ForecastPoint, 0, horizon)

	for i := 1; i <= horizon; i++ {
		date := last.Date.AddDate(0, 0, i)
		row := FeatureRow{
			Date:       date,
			Calendar:   Calendar(date),
			Trend:      last.Trend + i,
			Covariates: last.Covariates,
		}
		fillAutoregressive(&row, current, last)

		pred := math.Max(0, m.Predict(s.featureVector(row)))
		points = append(points, ForecastPoint{
			Date:     date,
			Weekday:  date.Weekday().String(),
			Quantity: int(math.Round(pred)),
			raw:      pred,
		})

		row.Quantity = pred
		current = append(current, row)
	}
	return points
}

// fillAutoregressive reads the lag and rolling fields for a future row
// from the growing working series. With a full 14 rows of history the
// exact lags apply; shorter histories fall back to the nearest
// available value, or the last observed quantity when nothing nearer
// exists, so the fields are never undefined.
func fillAutoregressive(row *FeatureRow, current []FeatureRow, last FeatureRow) {
	n := len(current)
	q := func(back int) float64 { return current[n-back].Quantity }

	if n >= maxLag {
		row.Lag1 = q(1)
		row.Lag3 = q(3)
		row.Lag7 = q(7)
		row.Lag14 = q(14)
		row.MA7 = tailMean(current, 7)
		row.MA14 = tailMean(current, 14)
		row.Std7 = tailStd(current, 7)
		return
	}

	row.Lag1 = fallbackLag(current, 1, last)
	row.Lag3 = fallbackLag(current, 3, last)
	row.Lag7 = fallbackLag(current, 7, last)
	row.Lag14 = fallbackLag(current, 14, last)
	if n >= 7 {
		row.MA7 = tailMean(current, 7)
		row.Std7 = tailStd(current, 7)
	} else {
		row.MA7 = last.Quantity
		row.Std7 = 0
	}
	if n >= 14 {
		row.MA14 = tailMean(current, 14)
	} else {
		row.MA14 = last.Quantity
	}
}

func fallbackLag(current []FeatureRow, lag int, last FeatureRow) float64 {
	if len(current) >= lag {
		return current[len(current)-lag].Quantity
	}
	return last.Quantity
}

func tailMean(rows []FeatureRow, window int) float64 {
	start := len(rows) - window
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, r := range rows[start:] {
		sum += r.Quantity
	}
	return sum / float64(len(rows)-start)
}

func tailStd(rows []FeatureRow, window int) float64 {
	start := len(rows) - window
	if start < 0 {
		start = 0
	}
	n := len(rows) - start
	if n < 2 {
		return 0
	}
	mean := tailMean(rows, window)
	sumSq := 0.0
	for _, r := range rows[start:] {
		d := r.Quantity - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}
