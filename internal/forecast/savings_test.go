package forecast

import (
	"math"
	"testing"
	"time"
)

// flatScenario builds a table and forecast whose daily averages both
// equal the given value.
func flatScenario(avg float64, histDays, forecastDays int) (*Table, []ForecastPoint) {
	start := date(2024, time.January, 1)
	table := dailyTable("Plat du jour", start, alternating(histDays, avg, avg))
	points := make([]ForecastPoint, forecastDays)
	for i := range points {
		d := start.AddDate(0, 0, histDays+i)
		points[i] = ForecastPoint{Date: d, Weekday: d.Weekday().String(), Quantity: int(avg), raw: avg}
	}
	return table, points
}

func TestEstimateSavingsWorkedExample(t *testing.T) {
	// The reference scenario: 200 portions/day historically and 200
	// predicted gives 40 vs 10 wasted portions per day.
	table, points := flatScenario(200, 30, 7)
	r := EstimateSavings(table, points)
	if r == nil {
		t.Fatal("expected report")
	}

	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"daily_waste_traditional", r.DailyWasteTraditional, 40},
		{"daily_waste_ml", r.DailyWasteML, 10},
		{"daily_savings", r.DailySavings, 30},
		{"monthly_waste_traditional", r.MonthlyWasteTraditional, 1200},
		{"monthly_waste_ml", r.MonthlyWasteML, 300},
		{"monthly_savings", r.MonthlySavings, 900},
		{"reduction_percent", r.ReductionPercent, 75},
	}
	for _, tc := range cases {
		if math.Abs(tc.got-tc.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestEstimateSavingsZeroTraditionalWaste(t *testing.T) {
	table, points := flatScenario(0, 20, 5)
	r := EstimateSavings(table, points)
	if r == nil {
		t.Fatal("expected report")
	}
	if r.ReductionPercent != 0 {
		t.Fatalf("reduction = %v, want 0 when traditional waste is 0", r.ReductionPercent)
	}
}

func TestEstimateSavingsNegativeReductionRepresentable(t *testing.T) {
	// Forecast-driven waste can exceed traditional waste when the
	// model predicts far above history; the reduction must go
	// negative, not clamp.
	table, _ := flatScenario(10, 20, 0)
	points := make([]ForecastPoint, 5)
	for i := range points {
		d := date(2024, time.February, 1).AddDate(0, 0, i)
		points[i] = ForecastPoint{Date: d, Quantity: 100, raw: 100}
	}
	r := EstimateSavings(table, points)
	if r == nil {
		t.Fatal("expected report")
	}
	if r.ReductionPercent >= 0 {
		t.Fatalf("reduction = %v, want negative", r.ReductionPercent)
	}
}

func TestEstimateSavingsEmptyInputs(t *testing.T) {
	table, points := flatScenario(100, 20, 5)
	if EstimateSavings(nil, points) != nil {
		t.Error("nil table must yield nil")
	}
	if EstimateSavings(&Table{}, points) != nil {
		t.Error("empty table must yield nil")
	}
	if EstimateSavings(table, nil) != nil {
		t.Error("empty forecast must yield nil")
	}
}

func TestROIWorkedExample(t *testing.T) {
	table, points := flatScenario(200, 30, 7)
	r := EstimateSavings(table, points)
	roi := r.ROI(5.0, 49.0)

	if math.Abs(roi.MonthlySavingsValue-4500) > 1e-9 {
		t.Errorf("monthly savings value = %v, want 4500", roi.MonthlySavingsValue)
	}
	if math.Abs(roi.NetMonthlyBenefit-4451) > 1e-9 {
		t.Errorf("net monthly benefit = %v, want 4451", roi.NetMonthlyBenefit)
	}
	wantROI := (4500.0 - 49) / 49 * 100
	if math.Abs(roi.ROIPercent-wantROI) > 1e-6 {
		t.Errorf("roi percent = %v, want %v", roi.ROIPercent, wantROI)
	}
	wantPayback := 49.0 / 150.0
	if math.Abs(roi.PaybackDays-wantPayback) > 1e-9 {
		t.Errorf("payback days = %v, want %v", roi.PaybackDays, wantPayback)
	}
}

func TestROIZeroSubscription(t *testing.T) {
	table, points := flatScenario(100, 20, 5)
	roi := EstimateSavings(table, points).ROI(2.0, 0)
	if roi.ROIPercent != 0 {
		t.Fatalf("roi percent = %v, want 0 for free subscription", roi.ROIPercent)
	}
}
