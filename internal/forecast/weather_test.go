package forecast

import (
	"math"
	"testing"
	"time"
)

func TestWeatherImpact(t *testing.T) {
	cases := []struct {
		name string
		day  *WeatherDay
		want float64
	}{
		{"no data", nil, 1.0},
		{"mild", &WeatherDay{TempMax: 20, RainChance: 10}, 1.0},
		{"heavy rain", &WeatherDay{TempMax: 18, RainChance: 80}, 0.7},
		{"light rain", &WeatherDay{TempMax: 18, RainChance: 50}, 0.85},
		{"heat wave", &WeatherDay{TempMax: 32, RainChance: 0}, 1.1},
		{"freezing", &WeatherDay{TempMax: 2, RainChance: 0}, 0.9},
		{"rainy heat", &WeatherDay{TempMax: 31, RainChance: 75}, 0.7 * 1.1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WeatherImpact(tc.day); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("impact = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAdjustForWeather(t *testing.T) {
	d1 := date(2024, time.July, 1)
	d2 := d1.AddDate(0, 0, 1)
	points := []ForecastPoint{
		{Date: d1, Quantity: 100, raw: 100},
		{Date: d2, Quantity: 100, raw: 100},
	}
	weather := []WeatherDay{{Date: d1, TempMax: 35}} // only day 1 covered

	adjusted := AdjustForWeather(points, weather)
	if adjusted[0].Quantity != 110 {
		t.Errorf("day 1 quantity = %d, want 110", adjusted[0].Quantity)
	}
	if adjusted[1].Quantity != 100 {
		t.Errorf("day 2 quantity = %d, want unchanged 100", adjusted[1].Quantity)
	}
	// Input slice untouched.
	if points[0].Quantity != 100 {
		t.Error("AdjustForWeather mutated its input")
	}
}
