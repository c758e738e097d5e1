package forecast

import (
	"testing"
	"time"
)

// dailyTable builds n consecutive days of a single dish following a
// quantity pattern.
func dailyTable(dish string, start time.Time, quantities []float64) *Table {
	table := &Table{}
	for i, q := range quantities {
		table.Rows = append(table.Rows, SalesRow{
			Date:     start.AddDate(0, 0, i),
			Dish:     dish,
			Quantity: q,
		})
	}
	return table
}

func alternating(n int, a, b float64) []float64 {
	q := make([]float64, n)
	for i := range q {
		if i%2 == 0 {
			q[i] = a
		} else {
			q[i] = b
		}
	}
	return q
}

func TestBuildSeriesSumsPerDay(t *testing.T) {
	start := date(2024, time.January, 1)
	table := &Table{}
	// Two transactions per day for 14 days.
	for i := 0; i < 14; i++ {
		d := start.AddDate(0, 0, i)
		table.Rows = append(table.Rows,
			SalesRow{Date: d, Dish: "Burger", Quantity: 10},
			SalesRow{Date: d, Dish: "Burger", Quantity: 5},
		)
	}

	s := BuildSeries(table, "Burger")
	if s == nil {
		t.Fatal("expected a series for 28 raw rows")
	}
	if len(s.Rows) != 14 {
		t.Fatalf("got %d aggregated rows, want 14", len(s.Rows))
	}
	for i, r := range s.Rows {
		if r.Quantity != 15 {
			t.Errorf("row %d quantity = %v, want 15", i, r.Quantity)
		}
		if r.Trend != i {
			t.Errorf("row %d trend = %d, want %d", i, r.Trend, i)
		}
		if i > 0 && !s.Rows[i-1].Date.Before(r.Date) {
			t.Errorf("rows not strictly ascending at %d", i)
		}
	}
}

func TestBuildSeriesInsufficientRawRows(t *testing.T) {
	table := dailyTable("Soupe", date(2024, time.February, 1), alternating(13, 4, 6))
	if s := BuildSeries(table, "Soupe"); s != nil {
		t.Fatalf("expected nil series for 13 raw rows, got %d rows", len(s.Rows))
	}
}

func TestBuildSeriesIgnoresOtherDishes(t *testing.T) {
	start := date(2024, time.March, 1)
	table := dailyTable("Pizza", start, alternating(20, 8, 9))
	other := dailyTable("Tacos", start, alternating(20, 50, 60))
	table.Rows = append(table.Rows, other.Rows...)

	s := BuildSeries(table, "Pizza")
	if s == nil {
		t.Fatal("expected series")
	}
	for _, r := range s.Rows {
		if r.Quantity > 10 {
			t.Fatalf("foreign dish leaked into series: quantity %v", r.Quantity)
		}
	}
}

func TestBuildSeriesCovariateReducers(t *testing.T) {
	start := date(2024, time.April, 1)
	table := &Table{}
	for i := 0; i < 14; i++ {
		d := start.AddDate(0, 0, i)
		lunch := SalesRow{Date: d, Dish: "Salade", Quantity: 3}
		lunch.setNumeric(CovUnitPrice, 8)
		lunch.setLabel(CovZone, "Salle")
		lunch.setFlag(CovPromotion, false)

		dinner := SalesRow{Date: d, Dish: "Salade", Quantity: 4}
		dinner.setNumeric(CovUnitPrice, 12)
		dinner.setLabel(CovZone, "Terrasse")
		dinner.setFlag(CovPromotion, true)

		table.Rows = append(table.Rows, lunch, dinner)
	}

	s := BuildSeries(table, "Salade")
	if s == nil {
		t.Fatal("expected series")
	}
	if len(s.CovariateNames) != 3 {
		t.Fatalf("covariate names = %v, want 3 entries", s.CovariateNames)
	}

	idx := make(map[string]int)
	for i, name := range s.CovariateNames {
		idx[name] = i
	}
	row := s.Rows[0]
	if got := row.Covariates[idx[CovUnitPrice]]; got != 10 {
		t.Errorf("mean price = %v, want 10", got)
	}
	// Codes are the sorted-distinct index: Salle=0, Terrasse=1; first
	// occurrence of the day wins.
	if got := row.Covariates[idx[CovZone]]; got != 0 {
		t.Errorf("zone code = %v, want 0 (Salle, first of day)", got)
	}
	// Any promotion during the day marks the whole day.
	if got := row.Covariates[idx[CovPromotion]]; got != 1 {
		t.Errorf("promotion = %v, want 1", got)
	}
}

func TestBuildSeriesMissingCovariatesDoNotFail(t *testing.T) {
	table := dailyTable("Burger", date(2024, time.May, 1), alternating(20, 20, 22))
	s := BuildSeries(table, "Burger")
	if s == nil {
		t.Fatal("expected series for covariate-free table")
	}
	if len(s.CovariateNames) != 0 {
		t.Fatalf("unexpected covariates %v", s.CovariateNames)
	}
}
