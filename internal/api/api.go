package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/barous8585/restaurant-assistant/internal/config"
	"github.com/barous8585/restaurant-assistant/internal/forecast"
	"github.com/barous8585/restaurant-assistant/internal/models"
	"github.com/barous8585/restaurant-assistant/internal/services"
)

// APIHandler carries the shared collaborators of every route: the
// database, the forecast engine with its model cache, and the weather
// client. One instance serves all requests.
type APIHandler struct {
	db      *gorm.DB
	cfg     *config.Config
	engine  *forecast.Engine
	weather *services.WeatherService

	jobMu    sync.Mutex
	batchJob *batchForecastJob

	upgrader websocket.Upgrader
}

// batchForecastJob is the mutable status of the background batch run.
// Handlers copy it under jobMu before responding.
type batchForecastJob struct {
	Running      bool       `json:"running"`
	RestaurantID uint       `json:"restaurant_id"`
	Horizon      int        `json:"horizon"`
	Total        int        `json:"total"`
	Done         int        `json:"done"`
	Skipped      int        `json:"skipped"`
	CurrentDish  string     `json:"current_dish"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Error        string     `json:"error,omitempty"`

	results []forecast.BatchResult
}

func SetupRoutes(r *gin.RouterGroup, db *gorm.DB, weather *services.WeatherService, cfg *config.Config) *APIHandler {
	handler := &APIHandler{
		db:      db,
		cfg:     cfg,
		engine:  forecast.NewEngine(),
		weather: weather,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	restaurants := r.Group("/restaurants")
	{
		restaurants.POST("", handler.CreateRestaurant)
		restaurants.GET("", handler.ListRestaurants)
	}

	sales := r.Group("/sales")
	{
		sales.POST("/import", handler.ImportSales)
		sales.GET("/dishes", handler.ListDishes)
	}

	fc := r.Group("/forecast")
	{
		fc.POST("/run", handler.RunForecast)
		fc.GET("/history", handler.ForecastHistory)

		// Whole-menu batch run with live progress
		fc.POST("/batch/start", handler.StartBatchForecast)
		fc.GET("/batch/status", handler.BatchStatus)
		fc.GET("/batch/results", handler.BatchResults)
	}

	r.POST("/savings/estimate", handler.EstimateSavings)
	r.GET("/weather", handler.GetWeather)

	recipes := r.Group("/recipes")
	{
		recipes.POST("", handler.UpsertRecipe)
		recipes.GET("", handler.ListRecipes)
		recipes.GET("/order", handler.SupplierOrder)
	}

	r.GET("/report/export", handler.ExportReport)

	// WebSocket stream of batch job progress
	r.GET("/ws/batch", handler.BatchProgressWS)

	return handler
}

func (h *APIHandler) CreateRestaurant(c *gin.Context) {
	var req struct {
		Name           string  `json:"name" binding:"required"`
		City           string  `json:"city"`
		CostPerPortion float64 `json:"cost_per_portion"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.City == "" {
		req.City = h.cfg.WeatherCity
	}
	if req.CostPerPortion <= 0 {
		req.CostPerPortion = h.cfg.DefaultCostPerPortion
	}
	restaurant := models.Restaurant{
		Name:           req.Name,
		City:           req.City,
		CostPerPortion: req.CostPerPortion,
	}
	if err := h.db.Create(&restaurant).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "restaurant already exists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": restaurant})
}

func (h *APIHandler) ListRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	if err := h.db.Order("name asc").Find(&restaurants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": restaurants})
}

// ImportSales accepts already-parsed sales rows as JSON records with
// arbitrary header names. Column aliases are resolved here; rows with
// a bad date or missing dish are dropped, not fatal.
func (h *APIHandler) ImportSales(c *gin.Context) {
	var req struct {
		RestaurantID uint             `json:"restaurant_id" binding:"required"`
		Rows         []map[string]any `json:"rows" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table, err := forecast.TableFromRecords(req.Rows)
	if err != nil {
		var invalid *forecast.InvalidInputError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	records := make([]models.SalesRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, salesRecordFromRow(req.RestaurantID, row))
	}
	if len(records) > 0 {
		if err := h.db.CreateInBatches(records, 500).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"code":     200,
		"imported": len(records),
		"dropped":  len(req.Rows) - len(records),
	})
}

func salesRecordFromRow(restaurantID uint, row forecast.SalesRow) models.SalesRecord {
	rec := models.SalesRecord{
		RestaurantID: restaurantID,
		Date:         row.Date,
		Dish:         row.Dish,
		Quantity:     row.Quantity,
	}
	if v, ok := row.Numeric[forecast.CovUnitPrice]; ok {
		vv := v
		rec.UnitPrice = &vv
	}
	if v, ok := row.Numeric[forecast.CovUnitCost]; ok {
		vv := v
		rec.UnitCost = &vv
	}
	if v, ok := row.Numeric[forecast.CovTemperature]; ok {
		vv := v
		rec.Temperature = &vv
	}
	rec.Category = row.Labels[forecast.CovCategory]
	rec.Service = row.Labels[forecast.CovService]
	rec.Zone = row.Labels[forecast.CovZone]
	rec.Weather = row.Labels[forecast.CovWeather]
	rec.Channel = row.Labels[forecast.CovChannel]
	if v, ok := row.Flags[forecast.CovPromotion]; ok {
		vv := v
		rec.Promotion = &vv
	}
	return rec
}

// loadTable rebuilds the in-memory sales table of one restaurant from
// the stored records.
func (h *APIHandler) loadTable(restaurantID uint) (*forecast.Table, error) {
	var records []models.SalesRecord
	if err := h.db.Where("restaurant_id = ?", restaurantID).
		Order("date asc, id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	table := &forecast.Table{Rows: make([]forecast.SalesRow, 0, len(records))}
	for _, rec := range records {
		row := forecast.SalesRow{
			Date:     rec.Date,
			Dish:     rec.Dish,
			Quantity: rec.Quantity,
			Numeric:  map[string]float64{},
			Labels:   map[string]string{},
			Flags:    map[string]bool{},
		}
		if rec.UnitPrice != nil {
			row.Numeric[forecast.CovUnitPrice] = *rec.UnitPrice
		}
		if rec.UnitCost != nil {
			row.Numeric[forecast.CovUnitCost] = *rec.UnitCost
		}
		if rec.Temperature != nil {
			row.Numeric[forecast.CovTemperature] = *rec.Temperature
		}
		if rec.Category != "" {
			row.Labels[forecast.CovCategory] = rec.Category
		}
		if rec.Service != "" {
			row.Labels[forecast.CovService] = rec.Service
		}
		if rec.Zone != "" {
			row.Labels[forecast.CovZone] = rec.Zone
		}
		if rec.Weather != "" {
			row.Labels[forecast.CovWeather] = rec.Weather
		}
		if rec.Channel != "" {
			row.Labels[forecast.CovChannel] = rec.Channel
		}
		if rec.Promotion != nil {
			row.Flags[forecast.CovPromotion] = *rec.Promotion
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func (h *APIHandler) ListDishes(c *gin.Context) {
	restaurantID, ok := queryUint(c, "restaurant_id")
	if !ok {
		return
	}
	var dishes []string
	if err := h.db.Model(&models.SalesRecord{}).
		Where("restaurant_id = ?", restaurantID).
		Distinct("dish").Order("dish asc").Pluck("dish", &dishes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": dishes})
}

// RunForecast trains (or reuses from cache) the per-dish model and
// returns the horizon. Optionally scales the output with the weather
// forecast of the restaurant's city.
func (h *APIHandler) RunForecast(c *gin.Context) {
	var req struct {
		RestaurantID  uint   `json:"restaurant_id" binding:"required"`
		Dish          string `json:"dish" binding:"required"`
		Horizon       int    `json:"horizon"`
		AdjustWeather bool   `json:"adjust_weather"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Horizon <= 0 {
		req.Horizon = 7
	}

	table, err := h.loadTable(req.RestaurantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	points, metrics, selected, err := h.engine.Forecast(table, req.Dish, req.Horizon)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if points == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": fmt.Sprintf("not enough history for %q, need at least 14 days of sales", req.Dish),
		})
		return
	}

	if req.AdjustWeather {
		points = h.applyWeather(req.RestaurantID, points, req.Horizon)
	}

	h.persistForecast(req.RestaurantID, req.Dish, req.Horizon, len(table.Rows), points, metrics, selected)

	c.JSON(http.StatusOK, gin.H{
		"code":           200,
		"dish":           req.Dish,
		"points":         points,
		"metrics":        metrics,
		"selected_model": selected,
	})
}

// applyWeather best-effort scales the forecast with the city weather.
// Weather fetch failures leave the forecast untouched.
func (h *APIHandler) applyWeather(restaurantID uint, points []forecast.ForecastPoint, horizon int) []forecast.ForecastPoint {
	city := h.restaurantCity(restaurantID)
	days, err := h.weather.GetForecast(city, horizon)
	if err != nil {
		log.WithError(err).WithField("city", city).Warn("weather fetch failed, serving unadjusted forecast")
		return points
	}
	return forecast.AdjustForWeather(points, days)
}

func (h *APIHandler) restaurantCity(restaurantID uint) string {
	var restaurant models.Restaurant
	if err := h.db.First(&restaurant, restaurantID).Error; err != nil {
		return h.cfg.WeatherCity
	}
	if restaurant.City == "" {
		return h.cfg.WeatherCity
	}
	return restaurant.City
}

func (h *APIHandler) persistForecast(restaurantID uint, dish string, horizon, dataPoints int, points []forecast.ForecastPoint, metrics map[string]forecast.Metrics, selected string) {
	for _, p := range points {
		_ = h.db.Create(&models.ForecastRecord{
			RestaurantID:  restaurantID,
			Dish:          dish,
			Date:          p.Date,
			Weekday:       p.Weekday,
			Predicted:     p.Quantity,
			HorizonDays:   horizon,
			SelectedModel: selected,
			DataPoints:    dataPoints,
		}).Error
	}
	for family, m := range metrics {
		_ = h.db.Create(&models.ModelEvaluation{
			RestaurantID: restaurantID,
			Dish:         dish,
			ModelFamily:  family,
			Selected:     family == selected,
			MAE:          m.MAE,
			RMSE:         m.RMSE,
			MAPE:         m.MAPE,
		}).Error
	}
}

func (h *APIHandler) ForecastHistory(c *gin.Context) {
	restaurantID, ok := queryUint(c, "restaurant_id")
	if !ok {
		return
	}
	limit := 200
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "200")); err == nil && v > 0 && v <= 2000 {
		limit = v
	}
	q := h.db.Where("restaurant_id = ?", restaurantID)
	if dish := c.Query("dish"); dish != "" {
		q = q.Where("dish = ?", dish)
	}
	var records []models.ForecastRecord
	if err := q.Order("created_at desc, date asc").Limit(limit).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": records})
}

func (h *APIHandler) StartBatchForecast(c *gin.Context) {
	var req struct {
		RestaurantID uint `json:"restaurant_id" binding:"required"`
		Horizon      int  `json:"horizon"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Horizon <= 0 {
		req.Horizon = 7
	}

	h.jobMu.Lock()
	if h.batchJob != nil && h.batchJob.Running {
		st := h.snapshotJobLocked()
		h.jobMu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "batch job already running", "status": st})
		return
	}
	job := &batchForecastJob{
		Running:      true,
		RestaurantID: req.RestaurantID,
		Horizon:      req.Horizon,
		StartedAt:    time.Now(),
	}
	h.batchJob = job
	h.jobMu.Unlock()

	go h.runBatchJob(job)
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": "started"})
}

func (h *APIHandler) runBatchJob(job *batchForecastJob) {
	table, err := h.loadTable(job.RestaurantID)
	if err == nil && len(table.Rows) == 0 {
		err = fmt.Errorf("restaurant %d has no sales data", job.RestaurantID)
	}

	var results []forecast.BatchResult
	if err == nil {
		results, err = h.engine.ForecastAll(table, job.Horizon, func(done, total int, dish string) {
			h.jobMu.Lock()
			job.Done = done
			job.Total = total
			job.CurrentDish = dish
			h.jobMu.Unlock()
		})
	}

	h.jobMu.Lock()
	job.Running = false
	now := time.Now()
	job.FinishedAt = &now
	if err != nil {
		job.Error = err.Error()
	} else {
		job.results = results
		job.Skipped = job.Total - len(results)
	}
	dataPoints := 0
	if table != nil {
		dataPoints = len(table.Rows)
	}
	h.jobMu.Unlock()

	if err != nil {
		log.WithError(err).WithField("restaurant_id", job.RestaurantID).Error("batch forecast failed")
		return
	}
	for _, r := range results {
		h.persistForecast(job.RestaurantID, r.Dish, job.Horizon, dataPoints, r.Points, r.Metrics, r.Selected)
	}
	log.WithFields(log.Fields{
		"restaurant_id": job.RestaurantID,
		"dishes":        len(results),
		"horizon":       job.Horizon,
	}).Info("batch forecast finished")
}

func (h *APIHandler) snapshotJobLocked() *batchForecastJob {
	if h.batchJob == nil {
		return nil
	}
	cp := *h.batchJob
	cp.results = nil
	return &cp
}

func (h *APIHandler) BatchStatus(c *gin.Context) {
	h.jobMu.Lock()
	st := h.snapshotJobLocked()
	h.jobMu.Unlock()
	if st == nil {
		c.JSON(http.StatusOK, gin.H{"code": 200, "status": gin.H{"running": false}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "status": st})
}

func (h *APIHandler) BatchResults(c *gin.Context) {
	h.jobMu.Lock()
	defer h.jobMu.Unlock()
	if h.batchJob == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no batch job"})
		return
	}
	if h.batchJob.Running {
		c.JSON(http.StatusConflict, gin.H{"error": "batch job still running"})
		return
	}
	if h.batchJob.Error != "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": h.batchJob.Error})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": h.batchJob.results})
}

// BatchProgressWS streams the batch job status over a websocket until
// the job finishes or the client goes away.
func (h *APIHandler) BatchProgressWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		h.jobMu.Lock()
		st := h.snapshotJobLocked()
		h.jobMu.Unlock()

		payload := gin.H{"running": false}
		if st != nil {
			payload = gin.H{
				"running":      st.Running,
				"done":         st.Done,
				"total":        st.Total,
				"current_dish": st.CurrentDish,
				"error":        st.Error,
			}
		}
		if err := conn.WriteJSON(payload); err != nil {
			return
		}
		if st == nil || !st.Running {
			return
		}
	}
}

// EstimateSavings compares traditional flat-margin prep with the
// model-driven plan across the whole menu and prices the difference.
func (h *APIHandler) EstimateSavings(c *gin.Context) {
	var req struct {
		RestaurantID   uint    `json:"restaurant_id" binding:"required"`
		Horizon        int     `json:"horizon"`
		CostPerPortion float64 `json:"cost_per_portion"`
		Subscription   float64 `json:"subscription"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Horizon <= 0 {
		req.Horizon = 7
	}
	if req.CostPerPortion <= 0 {
		var restaurant models.Restaurant
		if err := h.db.First(&restaurant, req.RestaurantID).Error; err == nil && restaurant.CostPerPortion > 0 {
			req.CostPerPortion = restaurant.CostPerPortion
		} else {
			req.CostPerPortion = h.cfg.DefaultCostPerPortion
		}
	}
	if req.Subscription <= 0 {
		req.Subscription = h.cfg.SubscriptionPrice
	}

	table, err := h.loadTable(req.RestaurantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	results, err := h.engine.ForecastAll(table, req.Horizon, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	savings := forecast.EstimateSavings(table, mergeDailyTotals(results))
	if savings == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "not enough history for a savings estimate"})
		return
	}
	roi := savings.ROI(req.CostPerPortion, req.Subscription)

	_ = h.db.Create(&models.SavingsSnapshot{
		RestaurantID:           req.RestaurantID,
		AnalysisDays:           req.Horizon,
		DailyWasteTraditional:  savings.DailyWasteTraditional,
		DailyWasteML:           savings.DailyWasteML,
		MonthlySavingsPortions: savings.MonthlySavings,
		MonthlySavingsValue:    roi.MonthlySavingsValue,
		ReductionPercent:       savings.ReductionPercent,
		ROIPercent:             roi.ROIPercent,
	}).Error

	c.JSON(http.StatusOK, gin.H{"code": 200, "savings": savings, "roi": roi})
}

// mergeDailyTotals collapses per-dish forecasts into one whole-menu
// series of daily totals, matching how the historical average sums
// across dishes.
func mergeDailyTotals(results []forecast.BatchResult) []forecast.ForecastPoint {
	totals := map[time.Time]int{}
	weekdays := map[time.Time]string{}
	for _, r := range results {
		for _, p := range r.Points {
			totals[p.Date] += p.Quantity
			weekdays[p.Date] = p.Weekday
		}
	}
	dates := make([]time.Time, 0, len(totals))
	for d := range totals {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	points := make([]forecast.ForecastPoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, forecast.ForecastPoint{Date: d, Weekday: weekdays[d], Quantity: totals[d]})
	}
	return points
}

func (h *APIHandler) GetWeather(c *gin.Context) {
	city := c.DefaultQuery("city", h.cfg.WeatherCity)
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}
	out, err := h.weather.GetForecast(city, days)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "city": city, "data": out})
}

// UpsertRecipe replaces the ingredient list of a dish.
func (h *APIHandler) UpsertRecipe(c *gin.Context) {
	var req struct {
		RestaurantID uint   `json:"restaurant_id" binding:"required"`
		Dish         string `json:"dish" binding:"required"`
		Ingredients  []struct {
			Name          string  `json:"name" binding:"required"`
			QtyPerPortion float64 `json:"qty_per_portion"`
			Unit          string  `json:"unit"`
		} `json:"ingredients" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var recipe models.Recipe
	err := h.db.Where("restaurant_id = ? AND dish = ?", req.RestaurantID, req.Dish).First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		recipe = models.Recipe{RestaurantID: req.RestaurantID, Dish: req.Dish}
		if err := h.db.Create(&recipe).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	_ = h.db.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error
	for _, ing := range req.Ingredients {
		_ = h.db.Create(&models.RecipeIngredient{
			RecipeID:      recipe.ID,
			Name:          ing.Name,
			QtyPerPortion: ing.QtyPerPortion,
			Unit:          ing.Unit,
		}).Error
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "recipe_id": recipe.ID})
}

func (h *APIHandler) ListRecipes(c *gin.Context) {
	restaurantID, ok := queryUint(c, "restaurant_id")
	if !ok {
		return
	}
	var recipes []models.Recipe
	if err := h.db.Preload("Ingredients").
		Where("restaurant_id = ?", restaurantID).
		Order("dish asc").Find(&recipes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": recipes})
}

// SupplierOrder aggregates the forecast of one day into an ingredient
// order list using the stored recipes.
func (h *APIHandler) SupplierOrder(c *gin.Context) {
	restaurantID, ok := queryUint(c, "restaurant_id")
	if !ok {
		return
	}
	date, okDate := forecast.ParseDate(c.Query("date"))
	if !okDate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date required, e.g. 2026-09-01"})
		return
	}
	horizon, err := strconv.Atoi(c.DefaultQuery("horizon", "7"))
	if err != nil || horizon <= 0 {
		horizon = 7
	}

	table, err := h.loadTable(restaurantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	results, err := h.engine.ForecastAll(table, horizon, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if c.Query("adjust_weather") == "true" {
		city := h.restaurantCity(restaurantID)
		if days, err := h.weather.GetForecast(city, horizon); err == nil {
			for i := range results {
				results[i].Points = forecast.AdjustForWeather(results[i].Points, days)
			}
		} else {
			log.WithError(err).WithField("city", city).Warn("weather fetch failed, ordering on unadjusted forecast")
		}
	}

	recipes, err := h.loadRecipeMap(restaurantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	order := forecast.BuildOrderList(results, recipes, date)
	c.JSON(http.StatusOK, gin.H{"code": 200, "date": date.Format("2006-01-02"), "data": order})
}

func (h *APIHandler) loadRecipeMap(restaurantID uint) (map[string][]forecast.Ingredient, error) {
	var recipes []models.Recipe
	if err := h.db.Preload("Ingredients").
		Where("restaurant_id = ?", restaurantID).Find(&recipes).Error; err != nil {
		return nil, err
	}
	out := make(map[string][]forecast.Ingredient, len(recipes))
	for _, r := range recipes {
		ings := make([]forecast.Ingredient, 0, len(r.Ingredients))
		for _, ing := range r.Ingredients {
			ings = append(ings, forecast.Ingredient{
				Name:          ing.Name,
				QtyPerPortion: ing.QtyPerPortion,
				Unit:          ing.Unit,
			})
		}
		out[r.Dish] = ings
	}
	return out, nil
}

// ExportReport builds the xlsx workbook with forecast, savings and
// supplier order sheets and streams it to the client.
func (h *APIHandler) ExportReport(c *gin.Context) {
	restaurantID, ok := queryUint(c, "restaurant_id")
	if !ok {
		return
	}
	horizon, err := strconv.Atoi(c.DefaultQuery("horizon", "7"))
	if err != nil || horizon <= 0 {
		horizon = 7
	}

	table, err := h.loadTable(restaurantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	results, err := h.engine.ForecastAll(table, horizon, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(results) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no dish has enough history to report on"})
		return
	}

	savings := forecast.EstimateSavings(table, mergeDailyTotals(results))
	var roi *forecast.ROIReport
	if savings != nil {
		cost := h.cfg.DefaultCostPerPortion
		var restaurant models.Restaurant
		if err := h.db.First(&restaurant, restaurantID).Error; err == nil && restaurant.CostPerPortion > 0 {
			cost = restaurant.CostPerPortion
		}
		roi = savings.ROI(cost, h.cfg.SubscriptionPrice)
	}

	var order []forecast.OrderLine
	if recipes, err := h.loadRecipeMap(restaurantID); err == nil && len(recipes) > 0 && len(results) > 0 && len(results[0].Points) > 0 {
		order = forecast.BuildOrderList(results, recipes, results[0].Points[0].Date)
	}

	book, err := services.BuildReportWorkbook(results, savings, roi, order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	filename := fmt.Sprintf("forecast-report-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := book.Write(c.Writer); err != nil {
		log.WithError(err).Error("report write failed")
	}
}

// queryUint parses a required uint query param, responding 400 itself
// on failure.
func queryUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " required"})
		return 0, false
	}
	return uint(v), true
}
