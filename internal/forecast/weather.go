package forecast

import (
	"math"
	"time"
)

// WeatherDay is one day of already-fetched weather forecast. How it
// gets fetched is a collaborator concern; the engine only consumes the
// values.
type WeatherDay struct {
	Date       time.Time `json:"date"`
	Condition  string    `json:"condition"`
	TempMax    float64   `json:"temp_max"`
	TempMin    float64   `json:"temp_min"`
	RainChance int       `json:"rain_chance"`
}

// WeatherImpact is the demand multiplier for a day's weather: heavy
// rain keeps diners home, heat lifts demand, cold dampens it. Neutral
// 1.0 when no data is available.
func WeatherImpact(day *WeatherDay) float64 {
	if day == nil {
		return 1.0
	}
	impact := 1.0
	if day.RainChance > 70 {
		impact *= 0.7
	} else if day.RainChance > 40 {
		impact *= 0.85
	}
	if day.TempMax > 30 {
		impact *= 1.1
	} else if day.TempMax < 5 {
		impact *= 0.9
	}
	return impact
}

// AdjustForWeather scales forecast quantities by the weather impact of
// the matching calendar day. Days without weather data pass through
// unchanged.
func AdjustForWeather(points []ForecastPoint, weather []WeatherDay) []ForecastPoint {
	byDay := make(map[int64]*WeatherDay, len(weather))
	for i := range weather {
		byDay[dateOnly(weather[i].Date).Unix()] = &weather[i]
	}
	adjusted := make([]ForecastPoint, len(points))
	for i, p := range points {
		impact := WeatherImpact(byDay[dateOnly(p.Date).Unix()])
		p.raw *= impact
		p.Quantity = int(math.Round(p.raw))
		adjusted[i] = p
	}
	return adjusted
}
