package churn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GiovanoMP/projeto-kore-data/internal/dataset"
)

var ref = time.Date(2011, 12, 9, 12, 0, 0, 0, time.UTC)

// daysAgo places a purchase exactly n days before the reference date.
func daysAgo(n int) time.Time {
	return ref.AddDate(0, 0, -n)
}

func cohortDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Items: []dataset.LineItem{
			{CustomerID: 1, InvoiceAt: daysAgo(5), ProductCode: "A", Quantity: 2, TotalValue: 10},
			{CustomerID: 2, InvoiceAt: daysAgo(45), ProductCode: "A", Quantity: 1, TotalValue: 5},
			{CustomerID: 2, InvoiceAt: daysAgo(300), ProductCode: "B", Quantity: 3, TotalValue: 15},
			{CustomerID: 3, InvoiceAt: daysAgo(90), ProductCode: "B", Quantity: 1, TotalValue: 5},
			{CustomerID: 4, InvoiceAt: daysAgo(200), ProductCode: "C", Quantity: -2, TotalValue: -10, IsReturn: true},
			{CustomerID: 0, InvoiceAt: daysAgo(10), ProductCode: "A", Quantity: 1, TotalValue: 5},
		},
		MinDate: daysAgo(300),
		MaxDate: ref,
	}
}

func TestDaysInactiveUsesLatestPurchase(t *testing.T) {
	e := New(cohortDataset())

	d, ok := e.DaysInactive(2)
	require.True(t, ok)
	// The newer of the two purchases wins.
	assert.Equal(t, 45, d)

	_, ok = e.DaysInactive(99)
	assert.False(t, ok)
	_, ok = e.DaysInactive(0)
	assert.False(t, ok)

	assert.Equal(t, ref, e.ReferenceDate())
}

func TestWindowAssignment(t *testing.T) {
	e := New(cohortDataset())
	tests := []struct {
		customer int64
		window   string
	}{
		{1, ActiveWindowID},
		{2, "30-59"},
		{3, "90-119"},
		{4, "181+"},
	}
	for _, tt := range tests {
		w, ok := WindowByID(tt.window)
		require.True(t, ok)
		_, member := e.Members(w)[tt.customer]
		assert.True(t, member, "customer %d should be in %s", tt.customer, tt.window)
	}
}

func TestWindowsAreDisjointAndExhaustive(t *testing.T) {
	e := New(cohortDataset())
	all := append([]Window{{ID: ActiveWindowID, MinDays: 0, MaxDays: 29}}, Windows...)

	counts := make(map[int64]int)
	for _, w := range all {
		for id := range e.Members(w) {
			counts[id]++
		}
	}
	// Every purchasing customer lands in exactly one bucket.
	require.Len(t, counts, 4)
	for id, n := range counts {
		assert.Equal(t, 1, n, "customer %d in %d buckets", id, n)
	}
}

func TestWindowBoundariesInclusive(t *testing.T) {
	w, _ := WindowByID("30-59")
	assert.False(t, w.contains(29))
	assert.True(t, w.contains(30))
	assert.True(t, w.contains(59))
	assert.False(t, w.contains(60))

	open, _ := WindowByID("181+")
	assert.True(t, open.contains(181))
	assert.True(t, open.contains(5000))
}

func TestWindowByIDUnknown(t *testing.T) {
	_, ok := WindowByID("15-29")
	assert.False(t, ok)
}

func TestSummaries(t *testing.T) {
	e := New(cohortDataset())
	sums := e.Summaries()
	require.Len(t, sums, len(Windows)+1)

	var pct float64
	for _, s := range sums {
		pct += s.ChurnPct
	}
	assert.InDelta(t, 100.0, pct, 1e-9)

	assert.Equal(t, ActiveWindowID, sums[0].Window.ID)
	assert.Equal(t, 1, sums[0].Customers)
	assert.InDelta(t, 25.0, sums[0].ChurnPct, 1e-9)
}

func TestResolve(t *testing.T) {
	e := New(cohortDataset())

	members, ok := e.Resolve("30-59")
	require.True(t, ok)
	_, in := members[2]
	assert.True(t, in)
	assert.Len(t, members, 1)

	_, ok = e.Resolve("bogus")
	assert.False(t, ok)
}

func TestProductsRestrictsToCohort(t *testing.T) {
	e := New(cohortDataset())
	w, _ := WindowByID("30-59")
	rep := e.Products(w, 10)

	assert.Equal(t, 1, rep.Customers)
	// Customer 2's rows only: products A and B.
	require.Len(t, rep.TopPurchased, 2)
	assert.Equal(t, "B", rep.TopPurchased[0].Code)
	assert.Equal(t, 3, rep.TopPurchased[0].UnitsSold)
}

func TestReturnRateAnomaly(t *testing.T) {
	view := []dataset.LineItem{
		{CustomerID: 1, ProductCode: "A", Quantity: 4, TotalValue: 8},
		{CustomerID: 1, ProductCode: "A", Quantity: -1, TotalValue: -2, IsReturn: true},
		{CustomerID: 1, ProductCode: "C", Quantity: -2, TotalValue: -4, IsReturn: true},
	}
	rates := returnRates(view, 10)
	require.Len(t, rates, 2)

	// C leads: 2 units returned against A's 1.
	assert.Equal(t, "C", rates[0].Code)
	assert.True(t, rates[0].Anomaly)
	assert.False(t, rates[0].ReturnRate.Valid)

	assert.Equal(t, "A", rates[1].Code)
	assert.False(t, rates[1].Anomaly)
	require.True(t, rates[1].ReturnRate.Valid)
	assert.InDelta(t, 0.25, rates[1].ReturnRate.Float64, 1e-9)
}
