// Package churn buckets customers into fixed inactivity windows measured
// against the dataset's most recent invoice timestamp, and reports product
// aggregates restricted to a cohort. Windows are inclusive on both ends
// ([30,59] means 30 <= days_inactive <= 59); the final window is open-ended.
package churn

import (
	"database/sql"
	"sort"
	"time"

	"github.com/GiovanoMP/projeto-kore-data/internal/dataset"
	"github.com/GiovanoMP/projeto-kore-data/internal/indicator"
)

// Window is one inactivity bucket. MaxDays < 0 marks the open-ended bucket.
type Window struct {
	ID      string `json:"id"`
	MinDays int    `json:"min_days"`
	MaxDays int    `json:"max_days"` // -1 = unbounded
}

// ActiveWindowID identifies the implicit "<30 days" bucket of customers who
// are not considered churning.
const ActiveWindowID = "active"

// Windows are the fixed, non-overlapping inactivity buckets. Together with
// the implicit active bucket they cover every customer with at least one
// purchase exactly once.
var Windows = []Window{
	{ID: "30-59", MinDays: 30, MaxDays: 59},
	{ID: "60-89", MinDays: 60, MaxDays: 89},
	{ID: "90-119", MinDays: 90, MaxDays: 119},
	{ID: "120-180", MinDays: 120, MaxDays: 180},
	{ID: "181+", MinDays: 181, MaxDays: -1},
}

func (w Window) contains(days int) bool {
	if days < w.MinDays {
		return false
	}
	return w.MaxDays < 0 || days <= w.MaxDays
}

// Engine computes cohorts against the unfiltered base dataset. The
// reference date and per-customer inactivity are fixed at construction;
// sidebar filters never move them.
type Engine struct {
	ds           *dataset.Dataset
	reference    time.Time
	daysInactive map[int64]int
}

// New builds the engine, computing days-since-last-purchase per customer
// from the full line-item table.
func New(ds *dataset.Dataset) *Engine {
	e := &Engine{
		ds:           ds,
		reference:    ds.MaxDate,
		daysInactive: make(map[int64]int),
	}

	last := make(map[int64]time.Time)
	for _, it := range ds.Items {
		if it.CustomerID == 0 {
			// Rows with an unresolved customer can't be cohorted.
			continue
		}
		if it.InvoiceAt.After(last[it.CustomerID]) {
			last[it.CustomerID] = it.InvoiceAt
		}
	}
	for id, t := range last {
		e.daysInactive[id] = int(e.reference.Sub(t).Hours() / 24)
	}
	return e
}

// ReferenceDate is the dataset-wide maximum invoice timestamp.
func (e *Engine) ReferenceDate() time.Time { return e.reference }

// DaysInactive returns days since last purchase for a customer, false when
// the customer has no purchases.
func (e *Engine) DaysInactive(customerID int64) (int, bool) {
	d, ok := e.daysInactive[customerID]
	return d, ok
}

// WindowByID resolves a window ID, including ActiveWindowID.
func WindowByID(id string) (Window, bool) {
	if id == ActiveWindowID {
		return Window{ID: ActiveWindowID, MinDays: 0, MaxDays: 29}, true
	}
	for _, w := range Windows {
		if w.ID == id {
			return w, true
		}
	}
	return Window{}, false
}

// Members returns the customer IDs whose inactivity falls inside a window.
func (e *Engine) Members(w Window) map[int64]struct{} {
	members := make(map[int64]struct{})
	for id, days := range e.daysInactive {
		if w.contains(days) {
			members[id] = struct{}{}
		}
	}
	return members
}

// Resolve is a filter.CohortResolver adapter.
func (e *Engine) Resolve(windowID string) (map[int64]struct{}, bool) {
	w, ok := WindowByID(windowID)
	if !ok {
		return nil, false
	}
	return e.Members(w), true
}

// Summary is one window's cohort size and share of all purchasing customers.
type Summary struct {
	Window    Window  `json:"window"`
	Customers int     `json:"customers"`
	ChurnPct  float64 `json:"churn_pct"`
}

// Summaries reports every fixed window plus the implicit active bucket,
// in window order.
func (e *Engine) Summaries() []Summary {
	total := len(e.daysInactive)
	windows := append([]Window{{ID: ActiveWindowID, MinDays: 0, MaxDays: 29}}, Windows...)

	out := make([]Summary, 0, len(windows))
	for _, w := range windows {
		n := len(e.Members(w))
		s := Summary{Window: w, Customers: n}
		if total > 0 {
			s.ChurnPct = float64(n) / float64(total) * 100
		}
		out = append(out, s)
	}
	return out
}

// ProductReturnStat is one product's purchase/return balance within a
// cohort. ReturnRate is returned/purchased; it is invalid when purchased is
// zero, and Anomaly flags the data-quality case of returns without any
// recorded purchase.
type ProductReturnStat struct {
	Code       string          `json:"product_code"`
	Category   string          `json:"category"`
	Purchased  int             `json:"purchased"`
	Returned   int             `json:"returned"`
	ReturnRate sql.NullFloat64 `json:"return_rate"`
	Anomaly    bool            `json:"anomaly,omitempty"`
}

// ProductReport holds a cohort's product-level aggregates.
type ProductReport struct {
	Window       Window                  `json:"window"`
	Customers    int                     `json:"customers"`
	TopPurchased []indicator.ProductStat `json:"top_purchased"`
	TopReturned  []indicator.ProductStat `json:"top_returned"`
	ReturnRates  []ProductReturnStat     `json:"return_rates"`
}

// Products restricts the line-item table to a cohort's customers and runs
// the product aggregates over that view.
func (e *Engine) Products(w Window, topN int) ProductReport {
	members := e.Members(w)
	view := make([]dataset.LineItem, 0)
	for _, it := range e.ds.Items {
		if _, ok := members[it.CustomerID]; ok {
			view = append(view, it)
		}
	}

	return ProductReport{
		Window:       w,
		Customers:    len(members),
		TopPurchased: indicator.TopProductsByQuantity(view, topN),
		TopReturned:  indicator.TopReturnedProducts(view, topN),
		ReturnRates:  returnRates(view, topN),
	}
}

// returnRates computes per-product return proportions over a cohort view,
// ranked by returned units, truncated to topN.
func returnRates(view []dataset.LineItem, topN int) []ProductReturnStat {
	var order []string
	byCode := make(map[string]*ProductReturnStat)
	for _, it := range view {
		s, ok := byCode[it.ProductCode]
		if !ok {
			s = &ProductReturnStat{Code: it.ProductCode, Category: it.Category}
			byCode[it.ProductCode] = s
			order = append(order, it.ProductCode)
		}
		if it.IsReturn {
			s.Returned += -it.Quantity
		} else {
			s.Purchased += it.Quantity
		}
	}

	out := make([]ProductReturnStat, 0, len(order))
	for _, code := range order {
		s := byCode[code]
		if s.Returned == 0 {
			continue
		}
		if s.Purchased > 0 {
			s.ReturnRate = sql.NullFloat64{Float64: float64(s.Returned) / float64(s.Purchased), Valid: true}
		} else {
			// Returns without a recorded purchase: report, never divide.
			s.Anomaly = true
		}
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Returned > out[j].Returned })
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
