// Package indicator computes the dashboard's sales aggregates. Every
// function is pure and stateless over a line-item view: nothing here mutates
// its input, and missing rows are never an error. Degenerate aggregates
// (mean of an empty view, proportions with a zero denominator) surface as
// invalid sql.NullFloat64 values instead of zeros.
package indicator

import (
	"sort"
	"time"

	"github.com/GiovanoMP/projeto-kore-data/internal/dataset"
)

// DatePoint is one calendar date's revenue. Dates with no rows are absent
// from series, not zero-filled.
type DatePoint struct {
	Date    string  `json:"date"` // 2006-01-02
	Revenue float64 `json:"revenue"`
}

// MonthPoint is one (year, month) bucket's revenue.
type MonthPoint struct {
	Year    int        `json:"year"`
	Month   time.Month `json:"month"`
	Revenue float64    `json:"revenue"`
}

// SeasonPoint is one calendar month's revenue summed across all years.
type SeasonPoint struct {
	Month   time.Month `json:"month"`
	Revenue float64    `json:"revenue"`
}

// CountryRevenue is one country's revenue after the customer join.
type CountryRevenue struct {
	Country string  `json:"country"`
	Revenue float64 `json:"revenue"`
}

// groupOrder accumulates sums by key while remembering first-appearance
// order, so descending sorts can break ties stably.
type groupOrder[K comparable] struct {
	order []K
	sums  map[K]float64
}

func newGroupOrder[K comparable]() *groupOrder[K] {
	return &groupOrder[K]{sums: make(map[K]float64)}
}

func (g *groupOrder[K]) add(key K, v float64) {
	if _, ok := g.sums[key]; !ok {
		g.order = append(g.order, key)
	}
	g.sums[key] += v
}

// TotalRevenue sums total_value over the view; returns subtract. An empty
// view totals 0 — the correct semantic value, unlike the mean.
func TotalRevenue(view []dataset.LineItem) float64 {
	var total float64
	for _, it := range view {
		total += it.TotalValue
	}
	return total
}

// DailyRevenue groups revenue by calendar date, restricted to [start, end]
// inclusive. Zero bounds leave that side open.
func DailyRevenue(view []dataset.LineItem, start, end time.Time) []DatePoint {
	g := newGroupOrder[string]()
	for _, it := range view {
		day := it.InvoiceAt.Format("2006-01-02")
		if !start.IsZero() && day < start.Format("2006-01-02") {
			continue
		}
		if !end.IsZero() && day > end.Format("2006-01-02") {
			continue
		}
		g.add(day, it.TotalValue)
	}
	out := make([]DatePoint, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, DatePoint{Date: k, Revenue: g.sums[k]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// MonthlyRevenue groups revenue by (year, month), ordered chronologically.
func MonthlyRevenue(view []dataset.LineItem) []MonthPoint {
	type ym struct {
		y int
		m time.Month
	}
	g := newGroupOrder[ym]()
	for _, it := range view {
		g.add(ym{it.InvoiceAt.Year(), it.InvoiceAt.Month()}, it.TotalValue)
	}
	out := make([]MonthPoint, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, MonthPoint{Year: k.y, Month: k.m, Revenue: g.sums[k]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// SalesTrend is the (year, month) revenue series; callers choose whether to
// feed it the filtered view or the unfiltered base for context.
func SalesTrend(view []dataset.LineItem) []MonthPoint {
	return MonthlyRevenue(view)
}

// SeasonalVariation groups revenue by calendar month number across all
// years combined. Months with no rows are absent.
func SeasonalVariation(view []dataset.LineItem) []SeasonPoint {
	g := newGroupOrder[time.Month]()
	for _, it := range view {
		g.add(it.InvoiceAt.Month(), it.TotalValue)
	}
	out := make([]SeasonPoint, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, SeasonPoint{Month: k, Revenue: g.sums[k]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// RevenueByCountry sums revenue by the joined customer country, descending.
// Rows whose customer did not resolve to a country are excluded here (and
// only here — they still count toward revenue totals).
func RevenueByCountry(view []dataset.LineItem) []CountryRevenue {
	g := newGroupOrder[string]()
	for _, it := range view {
		if it.Country == "" {
			continue
		}
		g.add(it.Country, it.TotalValue)
	}
	out := make([]CountryRevenue, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, CountryRevenue{Country: k, Revenue: g.sums[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out
}
