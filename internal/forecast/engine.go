package forecast

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Engine runs the per-dish pipeline: aggregate, derive lag features,
// train and select a model, roll the forecast forward. It holds no
// dataset state; every call takes the sales table explicitly. The only
// thing it keeps between calls is the trained-model memo.
type Engine struct {
	seed  int64
	cache *modelCache
}

func NewEngine() *Engine {
	return &Engine{seed: defaultSeed, cache: newModelCache()}
}

// Forecast predicts the next horizon days for one dish. The nil/nil/""
// triple signals insufficient history (fewer than 14 raw observations,
// or fewer than 7 trainable rows after dropping lag-incomplete ones);
// callers batch-processing many dishes skip those and continue. An
// error is returned only for invalid requests.
func (e *Engine) Forecast(table *Table, dish string, horizon int) ([]ForecastPoint, map[string]Metrics, string, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, nil, "", &InvalidInputError{Column: ColDate}
	}
	if horizon <= 0 {
		return nil, nil, "", fmt.Errorf("horizon must be positive, got %d", horizon)
	}

	series := ComputeLagFeatures(BuildSeries(table, dish))
	if series == nil {
		return nil, nil, "", nil
	}

	key := seriesKey(series)
	trained, ok := e.cache.get(key)
	if !ok {
		trained = Train(series, e.seed)
		e.cache.put(key, trained)
	}

	points := series.rollForward(trained.Model, horizon)
	return points, trained.Metrics, trained.Selected, nil
}

// BatchResult is the outcome of one dish within a batch forecast.
type BatchResult struct {
	Dish     string             `json:"dish"`
	Points   []ForecastPoint    `json:"points"`
	Metrics  map[string]Metrics `json:"metrics"`
	Selected string             `json:"selected_model"`
}

// ForecastAll runs the pipeline over every distinct dish of the table
// in stable name order. Dishes with insufficient history are skipped,
// never aborting the batch. The optional progress callback fires after
// each dish, processed or skipped.
func (e *Engine) ForecastAll(table *Table, horizon int, progress func(done, total int, dish string)) ([]BatchResult, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, &InvalidInputError{Column: ColDate}
	}
	dishes := table.Dishes()
	results := make([]BatchResult, 0, len(dishes))
	for i, dish := range dishes {
		points, metrics, selected, err := e.Forecast(table, dish, horizon)
		if err != nil {
			return nil, err
		}
		if points == nil {
			log.WithField("dish", dish).Info("skipping dish with insufficient history")
		} else {
			results = append(results, BatchResult{
				Dish:     dish,
				Points:   points,
				Metrics:  metrics,
				Selected: selected,
			})
		}
		if progress != nil {
			progress(i+1, len(dishes), dish)
		}
	}
	return results, nil
}
