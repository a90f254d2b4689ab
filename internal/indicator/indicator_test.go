package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GiovanoMP/projeto-kore-data/internal/dataset"
)

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func item(invoice, code string, qty int, price float64, ts time.Time) dataset.LineItem {
	return dataset.LineItem{
		InvoiceID:   invoice,
		ProductCode: code,
		Quantity:    qty,
		UnitPrice:   price,
		InvoiceAt:   ts,
		TotalValue:  float64(qty) * price,
		IsReturn:    qty < 0,
	}
}

func TestTotalRevenueReturnsSubtract(t *testing.T) {
	view := []dataset.LineItem{
		item("1", "A", 2, 5, at(2011, 1, 1)),
		item("1", "A", -1, 5, at(2011, 1, 2)),
	}
	assert.InDelta(t, 5.0, TotalRevenue(view), 1e-9)
}

func TestTotalRevenueEmptyViewIsZero(t *testing.T) {
	assert.Zero(t, TotalRevenue(nil))
}

func TestDailyRevenue(t *testing.T) {
	view := []dataset.LineItem{
		item("1", "A", 1, 10, at(2011, 1, 2)),
		item("2", "A", 1, 5, at(2011, 1, 1)),
		item("3", "A", 1, 5, at(2011, 1, 2)),
	}
	got := DailyRevenue(view, time.Time{}, time.Time{})
	require.Len(t, got, 2)
	assert.Equal(t, DatePoint{Date: "2011-01-01", Revenue: 5}, got[0])
	assert.Equal(t, DatePoint{Date: "2011-01-02", Revenue: 15}, got[1])

	bounded := DailyRevenue(view, at(2011, 1, 2), time.Time{})
	require.Len(t, bounded, 1)
	assert.Equal(t, "2011-01-02", bounded[0].Date)
}

func TestMonthlyRevenueChronological(t *testing.T) {
	view := []dataset.LineItem{
		item("1", "A", 1, 10, at(2011, 2, 1)),
		item("2", "A", 1, 5, at(2010, 12, 1)),
		item("3", "A", 1, 5, at(2011, 2, 15)),
	}
	got := MonthlyRevenue(view)
	require.Len(t, got, 2)
	assert.Equal(t, MonthPoint{Year: 2010, Month: time.December, Revenue: 5}, got[0])
	assert.Equal(t, MonthPoint{Year: 2011, Month: time.February, Revenue: 10}, got[1])
}

func TestSeasonalVariationCrossesYears(t *testing.T) {
	view := []dataset.LineItem{
		item("1", "A", 1, 10, at(2010, 12, 1)),
		item("2", "A", 1, 5, at(2011, 12, 1)),
		item("3", "A", 1, 3, at(2011, 1, 1)),
	}
	got := SeasonalVariation(view)
	require.Len(t, got, 2)
	assert.Equal(t, SeasonPoint{Month: time.January, Revenue: 3}, got[0])
	assert.Equal(t, SeasonPoint{Month: time.December, Revenue: 15}, got[1])
}

func TestTotalRevenueEqualsSumOfDaily(t *testing.T) {
	view := []dataset.LineItem{
		item("1", "A", 2, 10, at(2011, 1, 5)),
		item("1", "A", -1, 10, at(2011, 1, 6)),
		item("2", "B", 3, 4, at(2011, 2, 1)),
	}
	var sum float64
	for _, p := range DailyRevenue(view, time.Time{}, time.Time{}) {
		sum += p.Revenue
	}
	assert.InDelta(t, TotalRevenue(view), sum, 1e-9)
	assert.InDelta(t, 22.0, TotalRevenue(view), 1e-9)
}

func TestRevenueByCountryExcludesUnresolved(t *testing.T) {
	view := []dataset.LineItem{
		{Country: "France", TotalValue: 10},
		{Country: "", TotalValue: 99},
		{Country: "Germany", TotalValue: 20},
		{Country: "France", TotalValue: 5},
	}
	got := RevenueByCountry(view)
	require.Len(t, got, 2)
	assert.Equal(t, CountryRevenue{Country: "Germany", Revenue: 20}, got[0])
	assert.Equal(t, CountryRevenue{Country: "France", Revenue: 15}, got[1])
}

func TestRevenueByCountryStableTies(t *testing.T) {
	view := []dataset.LineItem{
		{Country: "Spain", TotalValue: 10},
		{Country: "Italy", TotalValue: 10},
	}
	got := RevenueByCountry(view)
	require.Len(t, got, 2)
	// Equal revenue keeps first-appearance order.
	assert.Equal(t, "Spain", got[0].Country)
	assert.Equal(t, "Italy", got[1].Country)
}
