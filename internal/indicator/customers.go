package indicator

import (
	"sort"

	"github.com/GiovanoMP/projeto-kore-data/internal/dataset"
)

// DefaultTopCustomers is the ranking depth when the caller does not specify one.
const DefaultTopCustomers = 100

// CustomerSpend is one customer's summed spend and row count in a view.
type CustomerSpend struct {
	CustomerID int64   `json:"customer_id"`
	Total      float64 `json:"total"`
	Purchases  int     `json:"purchases"`
}

// UniqueCustomers counts distinct customer IDs in the view.
func UniqueCustomers(view []dataset.LineItem) int {
	seen := make(map[int64]struct{})
	for _, it := range view {
		seen[it.CustomerID] = struct{}{}
	}
	return len(seen)
}

// TopCustomers ranks customers by summed total_value, descending, truncated
// to n (DefaultTopCustomers when n <= 0). Ties keep first-appearance order.
func TopCustomers(view []dataset.LineItem, n int) []CustomerSpend {
	if n <= 0 {
		n = DefaultTopCustomers
	}
	spends := customerSpends(view)
	sort.SliceStable(spends, func(i, j int) bool { return spends[i].Total > spends[j].Total })
	if len(spends) > n {
		spends = spends[:n]
	}
	return spends
}

// PurchaseFrequency counts line-item rows per customer, in first-appearance
// order of the view.
func PurchaseFrequency(view []dataset.LineItem) []CustomerSpend {
	return customerSpends(view)
}

func customerSpends(view []dataset.LineItem) []CustomerSpend {
	var order []int64
	byID := make(map[int64]*CustomerSpend)
	for _, it := range view {
		s, ok := byID[it.CustomerID]
		if !ok {
			s = &CustomerSpend{CustomerID: it.CustomerID}
			byID[it.CustomerID] = s
			order = append(order, it.CustomerID)
		}
		s.Total += it.TotalValue
		s.Purchases++
	}
	out := make([]CustomerSpend, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}
