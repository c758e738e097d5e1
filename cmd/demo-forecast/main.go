package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/barous8585/restaurant-assistant/internal/forecast"
)

// Offline demo of the forecasting pipeline on synthetic sales data.
// Generates three dishes with weekly seasonality, trains the models
// and prints the forecast, savings and ROI figures.
func main() {
	days := flag.Int("days", 90, "days of synthetic history")
	horizon := flag.Int("horizon", 7, "forecast horizon in days")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	table := syntheticTable(*days)
	engine := forecast.NewEngine()

	fmt.Println("══════════════════════════════════════════════")
	fmt.Printf("  Demand forecast demo (%d days of history)\n", *days)
	fmt.Println("══════════════════════════════════════════════")

	results, err := engine.ForecastAll(table, *horizon, func(done, total int, dish string) {
		fmt.Printf("  [%d/%d] %s\n", done, total, dish)
	})
	if err != nil {
		log.WithError(err).Fatal("forecast failed")
	}

	for _, r := range results {
		fmt.Printf("\n%s  (model: %s)\n", r.Dish, r.Selected)
		for family, m := range r.Metrics {
			fmt.Printf("  %-16s MAE %.2f  RMSE %.2f  MAPE %.1f%%\n", family, m.MAE, m.RMSE, m.MAPE)
		}
		for _, p := range r.Points {
			fmt.Printf("  %s  %-9s  %3d portions\n", p.Date.Format("2006-01-02"), p.Weekday, p.Quantity)
		}
	}

	merged := make([]forecast.ForecastPoint, 0)
	if len(results) > 0 {
		merged = results[0].Points
	}
	if savings := forecast.EstimateSavings(table, merged); savings != nil {
		roi := savings.ROI(3.5, 49.0)
		fmt.Println("\nSavings estimate")
		fmt.Printf("  daily waste traditional: %.1f portions\n", savings.DailyWasteTraditional)
		fmt.Printf("  daily waste with model:  %.1f portions\n", savings.DailyWasteML)
		fmt.Printf("  monthly savings:         %.0f portions (%.0f%% less waste)\n",
			savings.MonthlySavings, savings.ReductionPercent)
		fmt.Printf("  monthly value:           %.2f EUR, ROI %.0f%%, payback %.0f days\n",
			roi.MonthlySavingsValue, roi.ROIPercent, roi.PaybackDays)
	}
}

func syntheticTable(days int) *forecast.Table {
	rng := rand.New(rand.NewSource(7))
	dishes := []struct {
		name string
		base float64
		amp  float64
	}{
		{"Burger Maison", 42, 12},
		{"Salade Cesar", 25, 6},
		{"Pizza Margherita", 55, 15},
	}

	start := time.Now().AddDate(0, 0, -days)
	table := &forecast.Table{}
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)
		weekend := 1.0
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend = 1.3
		}
		for _, dish := range dishes {
			season := dish.amp * math.Sin(2*math.Pi*float64(d)/7.0)
			qty := (dish.base+season)*weekend + rng.NormFloat64()*3
			if qty < 0 {
				qty = 0
			}
			table.Rows = append(table.Rows, forecast.SalesRow{
				Date:     date,
				Dish:     dish.name,
				Quantity: math.Round(qty),
			})
		}
	}
	return table
}
