package forecast

import (
	"math"

	log "github.com/sirupsen/logrus"
)

// defaultSeed fixes ensemble randomness so repeated runs over the same
// table produce identical forecasts.
const defaultSeed = 42

// Metrics summarizes a model family's held-out accuracy.
type Metrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"`
}

// TrainResult is the output of training both families on one dish.
type TrainResult struct {
	Model    Model
	Selected string
	Metrics  map[string]Metrics
}

// featureVector flattens a row into the model input layout. Year is
// deliberately absent: with a trend index in the matrix it only adds a
// redundant near-constant column.
func (s *Series) featureVector(r FeatureRow) []float64 {
	v := make([]float64, 0, 16+len(s.CovariateNames))
	c := r.Calendar
	v = append(v,
		float64(c.DayOfWeek), float64(c.DayOfMonth), float64(c.Month),
		float64(c.WeekOfYear), float64(c.Quarter),
		float64(c.IsWeekend), float64(c.IsMonthStart), float64(c.IsMonthEnd),
		float64(r.Trend),
		r.Lag1, r.Lag3, r.Lag7, r.Lag14,
		r.MA7, r.MA14, r.Std7,
	)
	return append(v, r.Covariates...)
}

func (s *Series) matrix(rows []FeatureRow) ([][]float64, []float64) {
	X := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, r := range rows {
		X[i] = s.featureVector(r)
		y[i] = r.Quantity
	}
	return X, y
}

// Train fits both regressor families on the chronological 80% head of
// the series and scores them on the 20% tail. The family with the
// lowest MAE wins. When the tail is empty the history is too short to
// hold anything out: evaluation is skipped and the boosting model (the
// last one trained) is used without comparison.
func Train(s *Series, seed int64) *TrainResult {
	split := int(float64(len(s.Rows)) * 0.8)
	trainX, trainY := s.matrix(s.Rows[:split])
	testX, testY := s.matrix(s.Rows[split:])

	forest := fitRandomForest(trainX, trainY, seed)
	boosting := fitGradientBoosting(trainX, trainY)

	result := &TrainResult{Metrics: make(map[string]Metrics)}

	if len(testY) == 0 {
		log.WithField("dish", s.Dish).Debug("empty test split, using boosting model without evaluation")
		result.Model = boosting
		result.Selected = boosting.Name()
		return result
	}

	bestMAE := math.Inf(1)
	for _, m := range []Model{forest, boosting} {
		metrics := evaluate(m, testX, testY)
		result.Metrics[m.Name()] = metrics
		if metrics.MAE < bestMAE {
			bestMAE = metrics.MAE
			result.Model = m
			result.Selected = m.Name()
		}
	}
	return result
}

func evaluate(m Model, X [][]float64, y []float64) Metrics {
	var sumAE, sumSE, sumAPE float64
	for i, x := range X {
		err := m.Predict(x) - y[i]
		sumAE += math.Abs(err)
		sumSE += err * err
		sumAPE += math.Abs(err) / math.Max(math.Abs(y[i]), 1e-9)
	}
	n := float64(len(y))
	return Metrics{
		MAE:  sumAE / n,
		RMSE: math.Sqrt(sumSE / n),
		MAPE: sumAPE / n * 100,
	}
}
