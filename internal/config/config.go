package config

import (
	"os"
)

type Config struct {
	DatabaseURL   string
	WeatherAPIKey string
	WeatherCity   string
	Port          string
	Environment   string
	LogLevel      string

	// Pricing defaults used when a restaurant has no own figures.
	DefaultCostPerPortion float64
	SubscriptionPrice     float64
}

func Load() *Config {
	defaultDSN := "root:root@tcp(127.0.0.1:3306)/restaurant_assistant?charset=utf8mb4&parseTime=True&loc=Local"

	return &Config{
		DatabaseURL:   getEnv("DATABASE_URL", defaultDSN),
		WeatherAPIKey: getEnv("WEATHER_API_KEY", ""),
		WeatherCity:   getEnv("WEATHER_CITY", "Paris"),
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		DefaultCostPerPortion: 3.5,
		SubscriptionPrice:     49.0,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
