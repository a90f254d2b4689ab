package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GiovanoMP/projeto-kore-data/internal/dataset"
)

func day(d int) time.Time {
	return time.Date(2011, 3, d, 10, 0, 0, 0, time.UTC)
}

func testDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Items: []dataset.LineItem{
			{InvoiceID: "1", ProductCode: "A", Quantity: 2, InvoiceAt: day(1), UnitPrice: 3, TotalValue: 6, Tier: dataset.TierCheap, Category: "decor", Country: "France", CustomerID: 1},
			{InvoiceID: "2", ProductCode: "B", Quantity: 1, InvoiceAt: day(5), UnitPrice: 10, TotalValue: 10, Tier: dataset.TierModerate, Category: "kitchen", Country: "Germany", CustomerID: 2},
			{InvoiceID: "3", ProductCode: "C", Quantity: -1, InvoiceAt: day(9), UnitPrice: 30, TotalValue: -30, IsReturn: true, Tier: dataset.TierExpensive, Category: "decor", Country: "France", CustomerID: 1},
		},
		MinDate: day(1),
		MaxDate: day(9),
	}
}

func TestApplyNoFilters(t *testing.T) {
	e := NewEngine(testDataset(), nil)
	res := e.Apply(Spec{})
	assert.Len(t, res.Items, 3)
	assert.Empty(t, res.Warnings)
}

func TestApplySentinelsMeanNoFilter(t *testing.T) {
	e := NewEngine(testDataset(), nil)
	res := e.Apply(Spec{Country: CountryGlobal, PriceTier: None, Category: None, ChurnWindow: None})
	assert.Len(t, res.Items, 3)
	assert.Empty(t, res.Warnings)
}

func TestApplyPredicates(t *testing.T) {
	e := NewEngine(testDataset(), nil)
	tests := []struct {
		name string
		spec Spec
		want []string // invoice IDs
	}{
		{"country", Spec{Country: "France"}, []string{"1", "3"}},
		{"tier", Spec{PriceTier: "moderate"}, []string{"2"}},
		{"category", Spec{Category: "decor"}, []string{"1", "3"}},
		{"date range", Spec{Start: day(2), End: day(6)}, []string{"2"}},
		{"combined", Spec{Country: "France", Category: "decor", PriceTier: "expensive"}, []string{"3"}},
		{"no match", Spec{Country: "Spain"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Apply(tt.spec)
			var got []string
			for _, it := range res.Items {
				got = append(got, it.InvoiceID)
			}
			assert.Equal(t, tt.want, got)
			assert.Empty(t, res.Warnings)
		})
	}
}

func TestApplyDateBoundsInclusive(t *testing.T) {
	e := NewEngine(testDataset(), nil)
	// Bounds at calendar-day granularity: a row at 10:00 on the end day
	// is still inside even when the bound is midnight.
	res := e.Apply(Spec{
		Start: time.Date(2011, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2011, 3, 9, 0, 0, 0, 0, time.UTC),
	})
	assert.Len(t, res.Items, 3)
}

func TestApplyStartAfterEnd(t *testing.T) {
	e := NewEngine(testDataset(), nil)
	res := e.Apply(Spec{Start: day(9), End: day(1)})
	assert.Empty(t, res.Items)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "after end date")
}

func TestApplyUnknownValuesWarnAndIgnore(t *testing.T) {
	e := NewEngine(testDataset(), nil)

	res := e.Apply(Spec{PriceTier: "luxury"})
	assert.Len(t, res.Items, 3)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "luxury")

	resolver := func(id string) (map[int64]struct{}, bool) { return nil, false }
	res = NewEngine(testDataset(), resolver).Apply(Spec{ChurnWindow: "500+"})
	assert.Len(t, res.Items, 3)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "500+")
}

func TestApplyChurnCohort(t *testing.T) {
	resolver := func(id string) (map[int64]struct{}, bool) {
		if id == "30-59" {
			return map[int64]struct{}{1: {}}, true
		}
		return nil, false
	}
	e := NewEngine(testDataset(), resolver)
	res := e.Apply(Spec{ChurnWindow: "30-59"})
	require.Len(t, res.Items, 2)
	for _, it := range res.Items {
		assert.Equal(t, int64(1), it.CustomerID)
	}
}

func TestApplyIdempotentAndCommutative(t *testing.T) {
	ds := testDataset()
	spec := Spec{Country: "France", Category: "decor"}

	once := NewEngine(ds, nil).Apply(spec)
	twice := NewEngine(&dataset.Dataset{Items: once.Items}, nil).Apply(spec)
	assert.Equal(t, once.Items, twice.Items)

	// Order of application must not matter.
	countryFirst := NewEngine(&dataset.Dataset{Items: NewEngine(ds, nil).Apply(Spec{Country: "France"}).Items}, nil).
		Apply(Spec{Category: "decor"})
	categoryFirst := NewEngine(&dataset.Dataset{Items: NewEngine(ds, nil).Apply(Spec{Category: "decor"}).Items}, nil).
		Apply(Spec{Country: "France"})
	assert.Equal(t, countryFirst.Items, categoryFirst.Items)
	assert.Equal(t, once.Items, countryFirst.Items)
}

func TestApplyPreservesColumns(t *testing.T) {
	ds := testDataset()
	res := NewEngine(ds, nil).Apply(Spec{Country: "France"})
	require.NotEmpty(t, res.Items)
	assert.Equal(t, ds.Items[0], res.Items[0])
}
