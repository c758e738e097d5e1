package forecast

import (
	"errors"
	"testing"
	"time"
)

func burgerTable(days int) *Table {
	// Weekly-ish pattern around 20-26 portions.
	pattern := []float64{20, 22, 21, 24, 26, 25, 20}
	quantities := make([]float64, days)
	for i := range quantities {
		quantities[i] = pattern[i%len(pattern)]
	}
	return dailyTable("Burger", date(2024, time.January, 1), quantities)
}

func TestForecastHorizonAndDates(t *testing.T) {
	e := NewEngine()
	table := burgerTable(30)

	points, metrics, selected, err := e.Forecast(table, "Burger", 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 7 {
		t.Fatalf("got %d points, want 7", len(points))
	}
	if selected != "RandomForest" && selected != "GradientBoosting" {
		t.Fatalf("unexpected selected model %q", selected)
	}
	if len(metrics) == 0 {
		t.Fatal("expected held-out metrics for a 16-row series")
	}

	lastHistorical := date(2024, time.January, 30)
	for i, p := range points {
		want := lastHistorical.AddDate(0, 0, i+1)
		if !p.Date.Equal(want) {
			t.Errorf("point %d date = %s, want %s", i, p.Date, want)
		}
		if p.Weekday != p.Date.Weekday().String() {
			t.Errorf("point %d weekday = %q", i, p.Weekday)
		}
	}
}

func TestForecastQuantitiesPlausible(t *testing.T) {
	e := NewEngine()
	points, _, _, err := e.Forecast(burgerTable(30), "Burger", 7)
	if err != nil {
		t.Fatal(err)
	}
	historicalMax := 26.0
	for i, p := range points {
		if p.Quantity < 0 {
			t.Errorf("point %d negative quantity %d", i, p.Quantity)
		}
		if float64(p.Quantity) > historicalMax*1.5 {
			t.Errorf("point %d quantity %d implausibly above historical max", i, p.Quantity)
		}
		if p.Raw() != p.Raw() { // NaN check
			t.Errorf("point %d raw prediction is NaN", i)
		}
	}
}

func TestForecastReproducible(t *testing.T) {
	table := burgerTable(35)
	a, _, selA, err := NewEngine().Forecast(table, "Burger", 10)
	if err != nil {
		t.Fatal(err)
	}
	b, _, selB, err := NewEngine().Forecast(table, "Burger", 10)
	if err != nil {
		t.Fatal(err)
	}
	if selA != selB {
		t.Fatalf("selected models differ: %q vs %q", selA, selB)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestForecastHorizonExtensionKeepsPrefix(t *testing.T) {
	table := burgerTable(30)
	short, _, _, err := NewEngine().Forecast(table, "Burger", 3)
	if err != nil {
		t.Fatal(err)
	}
	long, _, _, err := NewEngine().Forecast(table, "Burger", 10)
	if err != nil {
		t.Fatal(err)
	}
	for i := range short {
		if short[i] != long[i] {
			t.Fatalf("day %d changed when horizon extended: %+v vs %+v", i+1, short[i], long[i])
		}
	}
}

func TestForecastInsufficientData(t *testing.T) {
	table := dailyTable("Burger", date(2024, time.January, 1), alternating(10, 20, 22))
	points, metrics, selected, err := NewEngine().Forecast(table, "Burger", 7)
	if err != nil {
		t.Fatal(err)
	}
	if points != nil || metrics != nil || selected != "" {
		t.Fatalf("expected nil/nil/empty for 10 rows, got %v %v %q", points, metrics, selected)
	}
}

func TestForecastInvalidRequests(t *testing.T) {
	e := NewEngine()
	var invalid *InvalidInputError
	if _, _, _, err := e.Forecast(&Table{}, "Burger", 7); !errors.As(err, &invalid) {
		t.Fatalf("empty table: got %v, want InvalidInputError", err)
	}
	if _, _, _, err := e.Forecast(burgerTable(30), "Burger", 0); err == nil {
		t.Fatal("zero horizon must fail")
	}
}

func TestForecastAllSkipsShortDishes(t *testing.T) {
	table := burgerTable(30)
	short := dailyTable("Tartare", date(2024, time.January, 1), alternating(10, 5, 6))
	table.Rows = append(table.Rows, short.Rows...)

	var calls []string
	results, err := NewEngine().ForecastAll(table, 5, func(done, total int, dish string) {
		calls = append(calls, dish)
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Dish != "Burger" {
		t.Fatalf("results = %+v, want only Burger", results)
	}
	if len(calls) != 2 || calls[0] != "Burger" || calls[1] != "Tartare" {
		t.Fatalf("progress order = %v, want stable name order over all dishes", calls)
	}
}

func TestEngineCachesTrainedModels(t *testing.T) {
	e := NewEngine()
	table := burgerTable(30)
	if _, _, _, err := e.Forecast(table, "Burger", 3); err != nil {
		t.Fatal(err)
	}
	series := ComputeLagFeatures(BuildSeries(table, "Burger"))
	if _, ok := e.cache.get(seriesKey(series)); !ok {
		t.Fatal("trained model was not memoized")
	}
}
