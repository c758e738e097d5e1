package models

import (
	"time"

	"gorm.io/gorm"
)

// Restaurant is one tenant. Every other record hangs off a restaurant
// id; callers identify themselves per request, account management
// lives outside this service.
type Restaurant struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name" gorm:"unique;not null"`
	City           string         `json:"city" gorm:"default:'Paris'"`
	CostPerPortion float64        `json:"cost_per_portion" gorm:"default:3.5"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// SalesRecord is one imported sales observation after column mapping
// and cleaning. Optional covariates are stored inline; null values
// mean the source table did not carry the column.
type SalesRecord struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RestaurantID uint      `json:"restaurant_id" gorm:"index;not null"`
	Date         time.Time `json:"date" gorm:"index;not null"`
	Dish         string    `json:"dish" gorm:"index;not null"`
	Quantity     float64   `json:"quantity" gorm:"not null"`

	UnitPrice   *float64 `json:"unit_price,omitempty"`
	UnitCost    *float64 `json:"unit_cost,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Category    string   `json:"category,omitempty"`
	Service     string   `json:"service,omitempty"`
	Zone        string   `json:"zone,omitempty"`
	Weather     string   `json:"weather,omitempty"`
	Channel     string   `json:"channel,omitempty"`
	Promotion   *bool    `json:"promotion,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Recipe links a dish to its ingredient lines for prep planning.
type Recipe struct {
	ID           uint               `json:"id" gorm:"primaryKey"`
	RestaurantID uint               `json:"restaurant_id" gorm:"index;not null"`
	Dish         string             `json:"dish" gorm:"index;not null"`
	Ingredients  []RecipeIngredient `json:"ingredients" gorm:"foreignKey:RecipeID"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type RecipeIngredient struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	RecipeID      uint    `json:"recipe_id" gorm:"index;not null"`
	Name          string  `json:"name" gorm:"not null"`
	QtyPerPortion float64 `json:"qty_per_portion"`
	Unit          string  `json:"unit"`
}

// ForecastRecord stores a single per-day forecast output for auditing.
type ForecastRecord struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	RestaurantID  uint      `json:"restaurant_id" gorm:"index;not null"`
	Dish          string    `json:"dish" gorm:"index;not null"`
	Date          time.Time `json:"date" gorm:"index;not null"`
	Weekday       string    `json:"weekday"`
	Predicted     int       `json:"predicted"`
	HorizonDays   int       `json:"horizon_days" gorm:"index"`
	SelectedModel string    `json:"selected_model" gorm:"index"`
	DataPoints    int       `json:"data_points"`
	CreatedAt     time.Time `json:"created_at"`
}

// ModelEvaluation summarizes one family's held-out accuracy for a
// forecast run.
type ModelEvaluation struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RestaurantID uint      `json:"restaurant_id" gorm:"index;not null"`
	Dish         string    `json:"dish" gorm:"index;not null"`
	ModelFamily  string    `json:"model_family" gorm:"index"`
	Selected     bool      `json:"selected"`
	MAE          float64   `json:"mae"`
	RMSE         float64   `json:"rmse"`
	MAPE         float64   `json:"mape"`
	CreatedAt    time.Time `json:"created_at"`
}

// SavingsSnapshot records a waste/ROI estimate as shown to the user.
type SavingsSnapshot struct {
	ID                     uint      `json:"id" gorm:"primaryKey"`
	RestaurantID           uint      `json:"restaurant_id" gorm:"index;not null"`
	AnalysisDays           int       `json:"analysis_days"`
	DailyWasteTraditional  float64   `json:"daily_waste_traditional"`
	DailyWasteML           float64   `json:"daily_waste_ml"`
	MonthlySavingsPortions float64   `json:"monthly_savings_portions"`
	MonthlySavingsValue    float64   `json:"monthly_savings_value"`
	ReductionPercent       float64   `json:"reduction_percent"`
	ROIPercent             float64   `json:"roi_percent"`
	CreatedAt              time.Time `json:"created_at"`
}
