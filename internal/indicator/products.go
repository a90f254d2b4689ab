package indicator

import (
	"sort"

	"github.com/GiovanoMP/projeto-kore-data/internal/dataset"
)

// DefaultTopProducts is the ranking depth for product leaderboards.
const DefaultTopProducts = 10

// ProductStat is one product's aggregates within a view. UnitsSold is the
// net quantity sum (returns subtract); UnitsReturned is positive (units sent
// back) and populated only by TopReturnedProducts.
type ProductStat struct {
	Code          string  `json:"product_code"`
	Category      string  `json:"category"`
	UnitsSold     int     `json:"units_sold,omitempty"`
	UnitsReturned int     `json:"units_returned,omitempty"`
	Revenue       float64 `json:"revenue,omitempty"`
}

// TopProductsByQuantity ranks products by summed quantity, descending,
// truncated to n (DefaultTopProducts when n <= 0), with product metadata
// joined in.
func TopProductsByQuantity(view []dataset.LineItem, n int) []ProductStat {
	stats := productStats(view, func(it dataset.LineItem) bool { return true })
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].UnitsSold > stats[j].UnitsSold })
	return truncate(stats, n)
}

// TopProductsByRevenue ranks products by summed total_value, descending.
func TopProductsByRevenue(view []dataset.LineItem, n int) []ProductStat {
	stats := productStats(view, func(it dataset.LineItem) bool { return true })
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Revenue > stats[j].Revenue })
	return truncate(stats, n)
}

// TopReturnedProducts ranks products by units returned, descending,
// considering only return rows. Products with zero returns are excluded.
func TopReturnedProducts(view []dataset.LineItem, n int) []ProductStat {
	stats := productStats(view, func(it dataset.LineItem) bool { return it.IsReturn })
	out := stats[:0]
	for _, s := range stats {
		if s.UnitsReturned > 0 {
			// The net fields only reflect return rows here; don't report them.
			s.UnitsSold = 0
			s.Revenue = 0
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UnitsReturned > out[j].UnitsReturned })
	return truncate(out, n)
}

func productStats(view []dataset.LineItem, include func(dataset.LineItem) bool) []ProductStat {
	var order []string
	byCode := make(map[string]*ProductStat)
	for _, it := range view {
		if !include(it) {
			continue
		}
		s, ok := byCode[it.ProductCode]
		if !ok {
			s = &ProductStat{Code: it.ProductCode, Category: it.Category}
			byCode[it.ProductCode] = s
			order = append(order, it.ProductCode)
		}
		s.UnitsSold += it.Quantity
		if it.IsReturn {
			s.UnitsReturned += -it.Quantity
		}
		s.Revenue += it.TotalValue
	}
	out := make([]ProductStat, 0, len(order))
	for _, code := range order {
		out = append(out, *byCode[code])
	}
	return out
}

func truncate(stats []ProductStat, n int) []ProductStat {
	if n <= 0 {
		n = DefaultTopProducts
	}
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}
