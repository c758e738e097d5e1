package services

import (
	"fmt"

	"github.com/barous8585/restaurant-assistant/internal/forecast"

	"github.com/xuri/excelize/v2"
)

// BuildReportWorkbook assembles the downloadable planning workbook:
// one sheet of per-dish forecasts, one of the savings summary, and one
// with the supplier order list. Any section may be empty; its sheet is
// still created so the layout stays predictable for users.
func BuildReportWorkbook(results []forecast.BatchResult, savings *forecast.SavingsReport, roi *forecast.ROIReport, order []forecast.OrderLine) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeForecastSheet(f, results); err != nil {
		return nil, err
	}
	if err := writeSavingsSheet(f, savings, roi); err != nil {
		return nil, err
	}
	if err := writeOrderSheet(f, order); err != nil {
		return nil, err
	}

	// Drop the default sheet so the workbook opens on the forecast.
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex("Forecast"); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeForecastSheet(f *excelize.File, results []forecast.BatchResult) error {
	const sheet = "Forecast"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []any{"Dish", "Date", "Weekday", "Predicted Quantity", "Selected Model"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	row := 2
	for _, res := range results {
		for _, p := range res.Points {
			cells := []any{res.Dish, p.Date.Format("2006-01-02"), p.Weekday, p.Quantity, res.Selected}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &cells); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeSavingsSheet(f *excelize.File, savings *forecast.SavingsReport, roi *forecast.ROIReport) error {
	const sheet = "Savings"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if savings == nil {
		return f.SetSheetRow(sheet, "A1", &[]any{"No savings data"})
	}

	rows := [][]any{
		{"Metric", "Value"},
		{"Average daily sales (portions)", savings.AvgHistorical},
		{"Average forecast (portions)", savings.AvgForecast},
		{"Daily waste, traditional prep", savings.DailyWasteTraditional},
		{"Daily waste, forecast prep", savings.DailyWasteML},
		{"Daily savings (portions)", savings.DailySavings},
		{"Monthly savings (portions)", savings.MonthlySavings},
		{"Waste reduction (%)", savings.ReductionPercent},
	}
	if roi != nil {
		rows = append(rows,
			[]any{"Monthly savings (value)", roi.MonthlySavingsValue},
			[]any{"Monthly ROI (%)", roi.ROIPercent},
			[]any{"Payback (days)", roi.PaybackDays},
			[]any{"Net monthly benefit", roi.NetMonthlyBenefit},
		)
	}
	for i, cells := range rows {
		c := cells
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &c); err != nil {
			return err
		}
	}
	return nil
}

func writeOrderSheet(f *excelize.File, order []forecast.OrderLine) error {
	const sheet = "Supplier Order"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []any{"Ingredient", "Quantity", "Unit"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, line := range order {
		cells := []any{line.Ingredient, line.Quantity, line.Unit}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return err
		}
	}
	return nil
}
