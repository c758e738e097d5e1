package forecast

import (
	"strconv"
	"strings"
	"time"
)

// Canonical column names. Incoming tables may use any of the aliases
// below (French or English headers are both common in exported POS
// data); MapColumns resolves them before the pipeline runs.
const (
	ColDate     = "Date"
	ColDish     = "Dish"
	ColQuantity = "Quantity"

	CovUnitPrice   = "UnitPrice"
	CovUnitCost    = "UnitCost"
	CovTemperature = "Temperature"
	CovCategory    = "Category"
	CovService     = "Service"
	CovZone        = "Zone"
	CovWeather     = "Weather"
	CovChannel     = "Channel"
	CovPromotion   = "Promotion"
)

// columnAliases is the declarative synonym table for header mapping.
// Matching is case-insensitive on the trimmed header.
var columnAliases = map[string][]string{
	ColDate:     {"date", "jour", "day", "fecha", "data"},
	ColDish:     {"dish", "plat", "produit", "item", "product", "name", "nom", "article"},
	ColQuantity: {"quantity", "quantite", "quantité", "qty", "qte", "qté", "nombre", "number", "count"},

	CovUnitPrice:   {"unitprice", "unit_price", "prix_unitaire", "prix", "price", "prix_vente", "pu", "tarif"},
	CovUnitCost:    {"unitcost", "unit_cost", "cout_unitaire", "coût_unitaire", "cout", "coût", "cost", "prix_achat", "cu"},
	CovTemperature: {"temperature", "température", "temp"},
	CovCategory:    {"category", "categorie", "catégorie", "famille", "type_plat"},
	CovService:     {"service", "moment", "shift", "periode_service"},
	CovZone:        {"zone", "emplacement", "area", "location", "salle"},
	CovWeather:     {"weather", "meteo", "météo", "temps"},
	CovChannel:     {"channel", "canal", "mode", "type_vente"},
	CovPromotion:   {"promotion", "promo", "offre", "deal"},
}

type covariateKind int

const (
	kindNumeric covariateKind = iota
	kindLabel
	kindFlag
)

// covariateKinds drives the per-kind aggregation reducer: mean for
// numeric fields, first value for categorical codes, max for flags.
var covariateKinds = map[string]covariateKind{
	CovUnitPrice:   kindNumeric,
	CovUnitCost:    kindNumeric,
	CovTemperature: kindNumeric,
	CovCategory:    kindLabel,
	CovService:     kindLabel,
	CovZone:        kindLabel,
	CovWeather:     kindLabel,
	CovChannel:     kindLabel,
	CovPromotion:   kindFlag,
}

var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]string {
	idx := make(map[string]string)
	for canonical, aliases := range columnAliases {
		idx[strings.ToLower(canonical)] = canonical
		for _, a := range aliases {
			idx[a] = canonical
		}
	}
	return idx
}

// CanonicalColumn resolves a raw header to its canonical name.
func CanonicalColumn(header string) (string, bool) {
	c, ok := aliasIndex[strings.ToLower(strings.TrimSpace(header))]
	return c, ok
}

// MapColumns resolves every header of an incoming table. Headers that
// match no alias are dropped from the mapping. Returns
// InvalidInputError if any of Date/Dish/Quantity is absent.
func MapColumns(headers []string) (map[string]string, error) {
	mapping := make(map[string]string, len(headers))
	for _, h := range headers {
		if c, ok := CanonicalColumn(h); ok {
			if _, dup := mapping[c]; !dup {
				mapping[c] = h
			}
		}
	}
	for _, required := range []string{ColDate, ColDish, ColQuantity} {
		if _, ok := mapping[required]; !ok {
			return nil, &InvalidInputError{Column: required}
		}
	}
	return mapping, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a date in any of the accepted layouts, normalized
// to UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}
	return time.Time{}, false
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "oui", "y", "o":
		return true
	}
	return false
}

// TableFromRecords builds a sales table from generic decoded rows
// (e.g. a JSON import). Header mapping is resolved from the union of
// keys; rows with unparseable dates, blank dish names or negative
// quantities are dropped, matching the cleaning contract collaborators
// are expected to apply upstream.
func TableFromRecords(records []map[string]any) (*Table, error) {
	keys := make(map[string]struct{})
	for _, r := range records {
		for k := range r {
			keys[k] = struct{}{}
		}
	}
	headers := make([]string, 0, len(keys))
	for k := range keys {
		headers = append(headers, k)
	}
	mapping, err := MapColumns(headers)
	if err != nil {
		return nil, err
	}

	table := &Table{}
	for _, rec := range records {
		date, ok := ParseDate(asString(rec[mapping[ColDate]]))
		if !ok {
			continue
		}
		dish := strings.TrimSpace(asString(rec[mapping[ColDish]]))
		if dish == "" {
			continue
		}
		qty, ok := asFloat(rec[mapping[ColQuantity]])
		if !ok || qty < 0 {
			continue
		}

		row := SalesRow{Date: date, Dish: dish, Quantity: qty}
		for canonical, kind := range covariateKinds {
			raw, present := rec[mapping[canonical]]
			if !present || mapping[canonical] == "" {
				continue
			}
			switch kind {
			case kindNumeric:
				if v, ok := asFloat(raw); ok {
					row.setNumeric(canonical, v)
				}
			case kindLabel:
				if s := strings.TrimSpace(asString(raw)); s != "" {
					row.setLabel(canonical, s)
				}
			case kindFlag:
				row.setFlag(canonical, parseFlag(asString(raw)))
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	}
	return ""
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
