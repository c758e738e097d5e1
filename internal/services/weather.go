package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/barous8585/restaurant-assistant/internal/forecast"

	"github.com/go-resty/resty/v2"
)

// WeatherService fetches daily forecasts from weatherapi.com. The
// engine itself never performs I/O; this client runs before a forecast
// request and hands the engine plain WeatherDay values.
type WeatherService struct {
	apiKey string
	client *resty.Client
}

type weatherAPIResponse struct {
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC         float64 `json:"maxtemp_c"`
				MinTempC         float64 `json:"mintemp_c"`
				DailyChanceOfRain int    `json:"daily_chance_of_rain"`
				Condition        struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func NewWeatherService(apiKey string) *WeatherService {
	client := resty.New()
	client.SetTimeout(10 * time.Second)

	return &WeatherService{
		apiKey: apiKey,
		client: client,
	}
}

// GetForecast returns up to days of daily weather for a city. Days
// beyond what the API serves are simply absent; callers treat missing
// days as neutral weather.
func (s *WeatherService) GetForecast(city string, days int) ([]forecast.WeatherDay, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("weather api key not configured")
	}
	url := fmt.Sprintf("https://api.weatherapi.com/v1/forecast.json?key=%s&q=%s&days=%d", s.apiKey, city, days)

	resp, err := s.client.R().Get(url)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("weather request failed with status %d", resp.StatusCode())
	}

	var payload weatherAPIResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}

	out := make([]forecast.WeatherDay, 0, len(payload.Forecast.ForecastDay))
	for _, fd := range payload.Forecast.ForecastDay {
		date, ok := forecast.ParseDate(fd.Date)
		if !ok {
			continue
		}
		out = append(out, forecast.WeatherDay{
			Date:       date,
			Condition:  fd.Day.Condition.Text,
			TempMax:    fd.Day.MaxTempC,
			TempMin:    fd.Day.MinTempC,
			RainChance: fd.Day.DailyChanceOfRain,
		})
	}
	return out, nil
}
