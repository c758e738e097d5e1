package forecast

import (
	"sort"
	"strings"
	"time"
)

// minRawObservations is the minimum number of raw rows a dish needs
// before aggregation is attempted.
const minRawObservations = 14

// minTrainableRows is the minimum series length after lag-incomplete
// rows are dropped.
const minTrainableRows = 7

// SalesRow is one cleaned observation: a transaction or a daily
// aggregate for a dish. Optional covariates ride along in the three
// maps and are ignored by the pipeline when absent.
type SalesRow struct {
	Date     time.Time
	Dish     string
	Quantity float64

	Numeric map[string]float64 // price-like fields, aggregated by mean
	Labels  map[string]string  // categorical fields, encoded then aggregated by first
	Flags   map[string]bool    // promotion-like fields, aggregated by max
}

func (r *SalesRow) setNumeric(name string, v float64) {
	if r.Numeric == nil {
		r.Numeric = make(map[string]float64)
	}
	r.Numeric[name] = v
}

func (r *SalesRow) setLabel(name, v string) {
	if r.Labels == nil {
		r.Labels = make(map[string]string)
	}
	r.Labels[name] = v
}

func (r *SalesRow) setFlag(name string, v bool) {
	if r.Flags == nil {
		r.Flags = make(map[string]bool)
	}
	r.Flags[name] = v
}

// Table is the cleaned tabular dataset the pipeline consumes.
type Table struct {
	Rows []SalesRow
}

// Dishes returns the distinct dish names in stable sorted order.
func (t *Table) Dishes() []string {
	seen := make(map[string]struct{})
	var dishes []string
	for _, r := range t.Rows {
		if _, ok := seen[r.Dish]; !ok {
			seen[r.Dish] = struct{}{}
			dishes = append(dishes, r.Dish)
		}
	}
	sort.Strings(dishes)
	return dishes
}

// FeatureRow is one aggregated (dish, date) observation with every
// model input attached. Lag and rolling fields are NaN until enough
// history exists; ComputeLagFeatures drops those rows.
type FeatureRow struct {
	Date     time.Time
	Quantity float64

	Calendar CalendarFeatures
	Trend    int

	Lag1, Lag3, Lag7, Lag14 float64
	MA7, MA14, Std7         float64

	Covariates []float64 // ordered per Series.CovariateNames
}

// Series is the aggregated per-dish history, one row per date
// ascending.
type Series struct {
	Dish           string
	Rows           []FeatureRow
	CovariateNames []string
}

// BuildSeries aggregates the raw table into the per-dish daily series:
// quantity summed per date, calendar fields from the date, covariates
// reduced per kind. Returns nil when the dish has fewer than 14 raw
// observations; that is insufficient data, not an error.
func BuildSeries(table *Table, dish string) *Series {
	dish = strings.TrimSpace(dish)
	var rows []SalesRow
	for _, r := range table.Rows {
		if r.Dish == dish {
			rows = append(rows, r)
		}
	}
	if len(rows) < minRawObservations {
		return nil
	}

	covNames, labelCodes := encodeCovariates(rows)

	type bucket struct {
		quantity float64
		sums     []float64 // numeric covariate running sums
		counts   []int
		first    []float64 // first-seen label codes (NaN sentinel -1 when unseen)
		firstSet []bool
		flags    []float64
	}
	buckets := make(map[time.Time]*bucket)
	var order []time.Time

	for _, r := range rows {
		day := dateOnly(r.Date)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{
				sums:     make([]float64, len(covNames)),
				counts:   make([]int, len(covNames)),
				first:    make([]float64, len(covNames)),
				firstSet: make([]bool, len(covNames)),
				flags:    make([]float64, len(covNames)),
			}
			buckets[day] = b
			order = append(order, day)
		}
		b.quantity += r.Quantity

		for i, name := range covNames {
			switch covariateKinds[name] {
			case kindNumeric:
				if v, ok := r.Numeric[name]; ok {
					b.sums[i] += v
					b.counts[i]++
				}
			case kindLabel:
				if v, ok := r.Labels[name]; ok && !b.firstSet[i] {
					b.first[i] = float64(labelCodes[name][v])
					b.firstSet[i] = true
				}
			case kindFlag:
				if r.Flags[name] {
					b.flags[i] = 1
				}
			}
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	s := &Series{Dish: dish, CovariateNames: covNames}
	for trend, day := range order {
		b := buckets[day]
		row := FeatureRow{
			Date:     day,
			Quantity: b.quantity,
			Calendar: Calendar(day),
			Trend:    trend,
		}
		if len(covNames) > 0 {
			row.Covariates = make([]float64, len(covNames))
			for i, name := range covNames {
				switch covariateKinds[name] {
				case kindNumeric:
					if b.counts[i] > 0 {
						row.Covariates[i] = b.sums[i] / float64(b.counts[i])
					}
				case kindLabel:
					row.Covariates[i] = b.first[i]
				case kindFlag:
					row.Covariates[i] = b.flags[i]
				}
			}
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

// encodeCovariates determines which covariates the dish's rows carry
// and assigns integer codes to categorical values. Codes are the
// sorted-distinct-value index: stable within one computation, which is
// all the model needs since codes never persist.
func encodeCovariates(rows []SalesRow) ([]string, map[string]map[string]int) {
	present := make(map[string]struct{})
	labelValues := make(map[string]map[string]struct{})
	for _, r := range rows {
		for name := range r.Numeric {
			present[name] = struct{}{}
		}
		for name, v := range r.Labels {
			present[name] = struct{}{}
			if labelValues[name] == nil {
				labelValues[name] = make(map[string]struct{})
			}
			labelValues[name][v] = struct{}{}
		}
		for name := range r.Flags {
			present[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(present))
	for name := range present {
		names = append(names, name)
	}
	sort.Strings(names)

	codes := make(map[string]map[string]int, len(labelValues))
	for name, values := range labelValues {
		distinct := make([]string, 0, len(values))
		for v := range values {
			distinct = append(distinct, v)
		}
		sort.Strings(distinct)
		m := make(map[string]int, len(distinct))
		for i, v := range distinct {
			m[v] = i
		}
		codes[name] = m
	}
	return names, codes
}
