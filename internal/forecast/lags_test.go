package forecast

import (
	"math"
	"testing"
	"time"
)

func TestComputeLagFeaturesDropCount(t *testing.T) {
	for _, n := range []int{21, 30, 45} {
		table := dailyTable("Burger", date(2024, time.January, 1), alternating(n, 20, 22))
		s := ComputeLagFeatures(BuildSeries(table, "Burger"))
		if s == nil {
			t.Fatalf("n=%d: expected series", n)
		}
		if len(s.Rows) != n-14 {
			t.Errorf("n=%d: got %d rows after drop, want %d", n, len(s.Rows), n-14)
		}
	}
}

func TestComputeLagFeaturesValues(t *testing.T) {
	quantities := make([]float64, 20)
	for i := range quantities {
		quantities[i] = float64(i + 1) // 1..20
	}
	table := dailyTable("Pizza", date(2024, time.January, 1), quantities)
	s := ComputeLagFeatures(BuildSeries(table, "Pizza"))
	if s == nil {
		t.Fatal("expected series")
	}

	// First surviving row is the 15th day (quantity 15).
	r := s.Rows[0]
	if r.Quantity != 15 {
		t.Fatalf("first surviving quantity = %v, want 15", r.Quantity)
	}
	if r.Lag1 != 14 || r.Lag3 != 12 || r.Lag7 != 8 || r.Lag14 != 1 {
		t.Errorf("lags = %v/%v/%v/%v, want 14/12/8/1", r.Lag1, r.Lag3, r.Lag7, r.Lag14)
	}
	// Trailing 7-day mean of 9..15 = 12.
	if math.Abs(r.MA7-12) > 1e-9 {
		t.Errorf("MA7 = %v, want 12", r.MA7)
	}
	// Trailing 14-day mean of 2..15 = 8.5.
	if math.Abs(r.MA14-8.5) > 1e-9 {
		t.Errorf("MA14 = %v, want 8.5", r.MA14)
	}
	// Sample std of 7 consecutive integers.
	wantStd := math.Sqrt(28.0 / 6.0)
	if math.Abs(r.Std7-wantStd) > 1e-9 {
		t.Errorf("Std7 = %v, want %v", r.Std7, wantStd)
	}
	// Trend keeps its pre-drop value.
	if r.Trend != 14 {
		t.Errorf("trend = %d, want 14", r.Trend)
	}
}

func TestComputeLagFeaturesTooShortAfterDrop(t *testing.T) {
	// 20 days aggregate to 20 rows; 6 survive, below the minimum of 7.
	table := dailyTable("Soupe", date(2024, time.March, 1), alternating(20, 5, 7))
	if s := ComputeLagFeatures(BuildSeries(table, "Soupe")); s != nil {
		t.Fatalf("expected nil for 6 surviving rows, got %d", len(s.Rows))
	}
}

func TestComputeLagFeaturesNilSeries(t *testing.T) {
	if ComputeLagFeatures(nil) != nil {
		t.Fatal("nil series must stay nil")
	}
}
