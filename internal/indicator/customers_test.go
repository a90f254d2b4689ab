package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GiovanoMP/projeto-kore-data/internal/dataset"
)

func TestUniqueCustomers(t *testing.T) {
	view := []dataset.LineItem{
		{CustomerID: 1}, {CustomerID: 2}, {CustomerID: 1},
	}
	assert.Equal(t, 2, UniqueCustomers(view))
	assert.Zero(t, UniqueCustomers(nil))
}

func TestTopCustomers(t *testing.T) {
	view := []dataset.LineItem{
		{CustomerID: 1, TotalValue: 10},
		{CustomerID: 2, TotalValue: 50},
		{CustomerID: 1, TotalValue: 15},
		{CustomerID: 3, TotalValue: 25},
	}
	got := TopCustomers(view, 2)
	require.Len(t, got, 2)
	assert.Equal(t, CustomerSpend{CustomerID: 2, Total: 50, Purchases: 1}, got[0])
	assert.Equal(t, CustomerSpend{CustomerID: 1, Total: 25, Purchases: 2}, got[1])
}

func TestTopCustomersStableTies(t *testing.T) {
	view := []dataset.LineItem{
		{CustomerID: 7, TotalValue: 10},
		{CustomerID: 3, TotalValue: 10},
	}
	got := TopCustomers(view, 10)
	require.Len(t, got, 2)
	assert.Equal(t, int64(7), got[0].CustomerID)
	assert.Equal(t, int64(3), got[1].CustomerID)
}

func TestPurchaseFrequency(t *testing.T) {
	view := []dataset.LineItem{
		{CustomerID: 1, TotalValue: 5},
		{CustomerID: 2, TotalValue: 5},
		{CustomerID: 1, TotalValue: 5},
	}
	got := PurchaseFrequency(view)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Purchases)
	assert.Equal(t, 1, got[1].Purchases)
}
