package forecast

import (
	"sort"
	"time"
)

// Ingredient is one line of a dish recipe: how much of what goes into
// a single portion.
type Ingredient struct {
	Name          string  `json:"name"`
	QtyPerPortion float64 `json:"qty_per_portion"`
	Unit          string  `json:"unit"`
}

// OrderLine is one aggregated supplier-order entry.
type OrderLine struct {
	Ingredient string  `json:"ingredient"`
	Unit       string  `json:"unit"`
	Quantity   float64 `json:"quantity"`
}

// BuildOrderList turns batch forecasts for a target prep date into a
// supplier order: predicted portions per dish times the recipe's
// per-portion quantities, summed per (ingredient, unit). Dishes
// without a recipe contribute nothing. Output is sorted by ingredient
// then unit for stable display and export.
func BuildOrderList(results []BatchResult, recipes map[string][]Ingredient, date time.Time) []OrderLine {
	type key struct{ name, unit string }
	totals := make(map[key]float64)
	day := dateOnly(date)

	for _, res := range results {
		ingredients, ok := recipes[res.Dish]
		if !ok {
			continue
		}
		for _, p := range res.Points {
			if !p.Date.Equal(day) {
				continue
			}
			for _, ing := range ingredients {
				totals[key{ing.Name, ing.Unit}] += ing.QtyPerPortion * float64(p.Quantity)
			}
			break
		}
	}

	lines := make([]OrderLine, 0, len(totals))
	for k, qty := range totals {
		lines = append(lines, OrderLine{Ingredient: k.name, Unit: k.unit, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Ingredient != lines[j].Ingredient {
			return lines[i].Ingredient < lines[j].Ingredient
		}
		return lines[i].Unit < lines[j].Unit
	})
	return lines
}
