package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GiovanoMP/projeto-kore-data/internal/pkg/logger"
)

// rawTable is a parsed but not yet normalized tabular source. Every source
// backend (local CSV, S3, Postgres) produces this shape.
type rawTable struct {
	name   string
	header []string
	rows   [][]string
}

// timestampLayouts are tried in order when parsing invoice timestamps.
// The original exports use "2006-01-02 15:04:05"; re-exports vary.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parsePrice accepts both dot and comma decimal separators.
func parsePrice(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return v, true
	}
	v, err = strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err == nil {
		return v, true
	}
	return 0, false
}

// parseQuantity accepts integers and integral floats ("2.0" shows up in
// dataframe round-trips).
func parseQuantity(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return int(f), true
	}
	return 0, false
}

func parseCustomerID(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	// Exported IDs sometimes round-trip through floats ("17850.0").
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return int64(f), true
	}
	return 0, false
}

// build assembles the normalized Dataset from raw tables. segments may be
// nil (the table is optional). A missing or empty required table has already
// been rejected by the source layer; build fails only on corrupt schemas.
func build(customers, items, products *rawTable, segments *rawTable) (*Dataset, error) {
	ds := &Dataset{
		Customers: make(map[int64]Customer),
		Products:  make(map[string]Product),
		Segments:  make(map[int64]Segment),
	}

	// Customers
	ci := mapColumns(customers.header)
	if err := ci.require(customers.name, FieldCustomerID, FieldCountry); err != nil {
		return nil, err
	}
	for _, row := range customers.rows {
		id, ok := parseCustomerID(ci.get(row, FieldCustomerID))
		if !ok {
			ds.DroppedRows++
			continue
		}
		ds.Customers[id] = Customer{ID: id, Country: ci.get(row, FieldCountry)}
	}

	// Products
	pi := mapColumns(products.header)
	if err := pi.require(products.name, FieldProductCode, FieldCategory); err != nil {
		return nil, err
	}
	for _, row := range products.rows {
		code := pi.get(row, FieldProductCode)
		if code == "" {
			ds.DroppedRows++
			continue
		}
		p := Product{Code: code, Category: pi.get(row, FieldCategory)}
		if price, ok := parsePrice(pi.get(row, FieldUnitPrice)); ok {
			p.UnitPrice = price
		}
		ds.Products[code] = p
	}

	// Line items
	ii := mapColumns(items.header)
	if err := ii.require(items.name, FieldInvoiceID, FieldProductCode, FieldQuantity, FieldInvoiceAt, FieldUnitPrice); err != nil {
		return nil, err
	}
	hasCategory := ii.has(FieldCategory)

	for _, row := range items.rows {
		ts, ok := parseTimestamp(ii.get(row, FieldInvoiceAt))
		if !ok {
			// Unparseable timestamps are dropped, never imputed.
			ds.DroppedTimestamps++
			continue
		}
		qty, ok := parseQuantity(ii.get(row, FieldQuantity))
		if !ok {
			ds.DroppedRows++
			continue
		}
		price, ok := parsePrice(ii.get(row, FieldUnitPrice))
		if !ok {
			ds.DroppedRows++
			continue
		}

		item := LineItem{
			InvoiceID:   ii.get(row, FieldInvoiceID),
			ProductCode: ii.get(row, FieldProductCode),
			Quantity:    qty,
			InvoiceAt:   ts,
			UnitPrice:   price,
			TotalValue:  float64(qty) * price,
			IsReturn:    qty < 0,
			Tier:        TierFor(price),
		}

		// Customer join: unresolved IDs keep the row but carry no country,
		// which excludes it from country aggregates only.
		if id, ok := parseCustomerID(ii.get(row, FieldCustomerID)); ok {
			item.CustomerID = id
			if c, ok := ds.Customers[id]; ok {
				item.Country = c.Country
			}
		}

		// Category: keep the item's own column when present, otherwise join
		// from the product table. A miss is "unknown", never fatal.
		if hasCategory {
			item.Category = ii.get(row, FieldCategory)
		}
		if item.Category == "" {
			if p, ok := ds.Products[item.ProductCode]; ok && p.Category != "" {
				item.Category = p.Category
			} else {
				item.Category = CategoryUnknown
			}
		}

		if ds.MinDate.IsZero() || ts.Before(ds.MinDate) {
			ds.MinDate = ts
		}
		if ts.After(ds.MaxDate) {
			ds.MaxDate = ts
		}
		ds.Items = append(ds.Items, item)
	}

	if segments != nil {
		if err := buildSegments(ds, segments); err != nil {
			return nil, err
		}
	}

	if len(ds.Items) == 0 {
		return nil, fmt.Errorf("%s table: %w", items.name, ErrEmptySource)
	}

	if ds.DroppedTimestamps > 0 || ds.DroppedRows > 0 {
		logger.Warn("rows dropped during normalization",
			"bad_timestamps", ds.DroppedTimestamps,
			"bad_rows", ds.DroppedRows)
	}
	logger.Info("dataset normalized",
		"line_items", len(ds.Items),
		"customers", len(ds.Customers),
		"products", len(ds.Products),
		"segments", len(ds.Segments),
		"from", ds.MinDate.Format("2006-01-02"),
		"to", ds.MaxDate.Format("2006-01-02"))

	return ds, nil
}
