package forecast

import (
	"math"
	"testing"
	"time"
)

func trainableSeries(t *testing.T, days int) *Series {
	t.Helper()
	table := dailyTable("Burger", date(2024, time.January, 1), alternating(days, 20, 24))
	s := ComputeLagFeatures(BuildSeries(table, "Burger"))
	if s == nil {
		t.Fatalf("expected trainable series for %d days", days)
	}
	return s
}

func TestTrainScoresBothFamilies(t *testing.T) {
	s := trainableSeries(t, 35) // 21 trainable rows, 5-row test tail
	r := Train(s, defaultSeed)

	if r.Model == nil || r.Selected == "" {
		t.Fatal("no model selected")
	}
	for _, family := range []string{"RandomForest", "GradientBoosting"} {
		m, ok := r.Metrics[family]
		if !ok {
			t.Fatalf("missing metrics for %s", family)
		}
		if m.MAE < 0 || m.RMSE < m.MAE || math.IsNaN(m.MAPE) {
			t.Errorf("%s metrics implausible: %+v", family, m)
		}
	}

	best := r.Metrics[r.Selected].MAE
	for family, m := range r.Metrics {
		if m.MAE < best {
			t.Errorf("%s has MAE %v below selected %q's %v", family, m.MAE, r.Selected, best)
		}
	}
}

func TestTrainReproducible(t *testing.T) {
	s := trainableSeries(t, 30)
	a := Train(s, defaultSeed)
	b := Train(s, defaultSeed)
	x := s.featureVector(s.Rows[len(s.Rows)-1])
	if a.Model.Predict(x) != b.Model.Predict(x) {
		t.Fatal("same seed produced different models")
	}
	if a.Selected != b.Selected {
		t.Fatalf("selection differs: %q vs %q", a.Selected, b.Selected)
	}
}

func TestEvaluateKnownValues(t *testing.T) {
	m := constantModel(10)
	X := [][]float64{{0}, {0}, {0}}
	y := []float64{8, 10, 14}
	got := evaluate(m, X, y)
	if math.Abs(got.MAE-2) > 1e-9 {
		t.Errorf("MAE = %v, want 2", got.MAE)
	}
	wantRMSE := math.Sqrt((4.0 + 0 + 16) / 3)
	if math.Abs(got.RMSE-wantRMSE) > 1e-9 {
		t.Errorf("RMSE = %v, want %v", got.RMSE, wantRMSE)
	}
	wantMAPE := (2.0/8 + 0 + 4.0/14) / 3 * 100
	if math.Abs(got.MAPE-wantMAPE) > 1e-9 {
		t.Errorf("MAPE = %v, want %v", got.MAPE, wantMAPE)
	}
}

type constantModel float64

func (c constantModel) Name() string              { return "Constant" }
func (c constantModel) Predict(x []float64) float64 { return float64(c) }
