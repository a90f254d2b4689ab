package indicator

import (
	"database/sql"

	"github.com/GiovanoMP/projeto-kore-data/internal/dataset"
)

// TransactionCount counts distinct invoice numbers in the view.
func TransactionCount(view []dataset.LineItem) int {
	seen := make(map[string]struct{})
	for _, it := range view {
		seen[it.InvoiceID] = struct{}{}
	}
	return len(seen)
}

// TransactionsWithReturns counts distinct invoices carrying at least one
// return row.
func TransactionsWithReturns(view []dataset.LineItem) int {
	seen := make(map[string]struct{})
	for _, it := range view {
		if it.IsReturn {
			seen[it.InvoiceID] = struct{}{}
		}
	}
	return len(seen)
}

// AverageOrderValue is the mean of total_value across rows (not per
// invoice). An empty view has no mean: the result is invalid, never zero.
func AverageOrderValue(view []dataset.LineItem) sql.NullFloat64 {
	if len(view) == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{
		Float64: TotalRevenue(view) / float64(len(view)),
		Valid:   true,
	}
}
