// Package dataset loads the retail tables (customers, invoice line items,
// products and the optional segmentation table) from a configured source and
// normalizes them into a single in-memory representation. Each line item
// carries its denormalized category and country so downstream engines never
// re-join tables.
package dataset

import (
	"errors"
	"sort"
	"time"
)

// PriceTier is the coarse unit-price bucket derived for every line item.
type PriceTier string

const (
	TierCheap     PriceTier = "cheap"     // unit price < 5
	TierModerate  PriceTier = "moderate"  // 5 <= unit price <= 20
	TierExpensive PriceTier = "expensive" // unit price > 20
)

// CategoryUnknown marks line items whose product code did not resolve to a
// product. Join misses are never fatal.
const CategoryUnknown = "unknown"

// Source error taxonomy. Both halt pipeline construction.
var (
	ErrMissingSource = errors.New("source missing")
	ErrEmptySource   = errors.New("source empty")
)

// Customer is one row of the customer table.
type Customer struct {
	ID      int64  `json:"customer_id"`
	Country string `json:"country"`
}

// Product is one row of the product table.
type Product struct {
	Code      string  `json:"product_code"`
	Category  string  `json:"category"`
	UnitPrice float64 `json:"unit_price,omitempty"`
}

// Segment is one row of the precomputed customer-segmentation table.
type Segment struct {
	CustomerID          int64    `json:"customer_id"`
	SegmentID           int      `json:"segment_id"`
	RecommendedProducts []string `json:"recommended_products,omitempty"`
}

// LineItem is one normalized invoice line. TotalValue, IsReturn, Tier,
// Category and Country are derived at load time; Category falls back to
// CategoryUnknown and Country to "" when the join target is absent.
type LineItem struct {
	InvoiceID   string    `json:"invoice_id"`
	ProductCode string    `json:"product_code"`
	Quantity    int       `json:"quantity"`
	InvoiceAt   time.Time `json:"invoice_timestamp"`
	UnitPrice   float64   `json:"unit_price"`
	CustomerID  int64     `json:"customer_id"`

	TotalValue float64   `json:"total_value"`
	IsReturn   bool      `json:"is_return"`
	Tier       PriceTier `json:"price_tier"`
	Category   string    `json:"category"`
	Country    string    `json:"country,omitempty"`
}

// Dataset is the immutable base loaded once per session. All engines read
// from it; nothing writes after load.
type Dataset struct {
	Customers map[int64]Customer
	Products  map[string]Product
	Segments  map[int64]Segment
	Items     []LineItem

	// MinDate/MaxDate span the parseable invoice timestamps.
	MinDate time.Time
	MaxDate time.Time

	// Row-level drops recorded during normalization.
	DroppedTimestamps int
	DroppedRows       int
}

// TierFor buckets a unit price.
func TierFor(unitPrice float64) PriceTier {
	switch {
	case unitPrice < 5:
		return TierCheap
	case unitPrice <= 20:
		return TierModerate
	default:
		return TierExpensive
	}
}

// View returns the full line-item view. Engines treat it as read-only.
func (d *Dataset) View() []LineItem { return d.Items }

// Countries returns the distinct customer countries, sorted.
func (d *Dataset) Countries() []string {
	seen := make(map[string]struct{})
	for _, c := range d.Customers {
		if c.Country != "" {
			seen[c.Country] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Categories returns the distinct product categories, sorted.
func (d *Dataset) Categories() []string {
	seen := make(map[string]struct{})
	for _, p := range d.Products {
		if p.Category != "" {
			seen[p.Category] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// SegmentCustomerIDs returns the segmented customer IDs in ascending order,
// giving map iteration a stable shape for API responses.
func (d *Dataset) SegmentCustomerIDs() []int64 {
	out := make([]int64, 0, len(d.Segments))
	for id := range d.Segments {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
