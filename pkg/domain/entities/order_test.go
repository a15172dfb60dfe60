package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	o, err := NewOrder(RegularRawMaterials, decimal.NewFromInt(1000), 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, o.WeekDue)

	testCases := []struct {
		name        string
		amount      decimal.Decimal
		week, lead  int
		expectError string
	}{
		{"zero amount", decimal.Zero, 1, 3, "order amount must be positive, got 0"},
		{"week zero", decimal.NewFromInt(1), 0, 3, "week placed must be at least 1, got 0"},
		{"negative lead", decimal.NewFromInt(1), 1, -1, "lead time cannot be negative, got -1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOrder(RegularRawMaterials, tc.amount, tc.week, tc.lead)
			assert.EqualError(t, err, tc.expectError)
		})
	}
}

func TestOrderBook_ReceiveExactlyOnce(t *testing.T) {
	var book OrderBook
	book = book.Place(Order{Type: RegularRawMaterials, Amount: decimal.NewFromInt(100), WeekPlaced: 1, WeekDue: 4})
	book = book.Place(Order{Type: PurchasedPartY, Amount: decimal.NewFromInt(20), WeekPlaced: 1, WeekDue: 2})
	book = book.Place(Order{Type: ExpeditedRawMaterials, Amount: decimal.NewFromInt(50), WeekPlaced: 3, WeekDue: 4})

	assert.Empty(t, book.Due(3))
	assert.Len(t, book.Due(4), 2)

	next, received := book.Receive(4)
	assert.Len(t, received, 2)
	assert.Len(t, next.Orders, 1)
	assert.Len(t, book.Orders, 3, "receiving must not mutate the source book")

	_, again := next.Receive(4)
	assert.Empty(t, again)
}

func TestOrderBook_PendingSorted(t *testing.T) {
	var book OrderBook
	book = book.Place(Order{Type: RegularRawMaterials, WeekPlaced: 2, WeekDue: 5})
	book = book.Place(Order{Type: PurchasedPartX, WeekPlaced: 2, WeekDue: 3})
	book = book.Place(Order{Type: ExpeditedRawMaterials, WeekPlaced: 1, WeekDue: 5})

	pending := book.Pending()
	require.Len(t, pending, 3)
	assert.Equal(t, PurchasedPartX, pending[0].Type)
	assert.Equal(t, ExpeditedRawMaterials, pending[1].Type)
	assert.Equal(t, RegularRawMaterials, pending[2].Type)
}

func TestOrderType_Parts(t *testing.T) {
	for _, p := range Parts {
		ot := PartOrderType(p)
		got, ok := ot.Part()
		require.True(t, ok)
		assert.Equal(t, p, got)
		assert.False(t, ot.IsRawMaterials())
	}
	_, ok := RegularRawMaterials.Part()
	assert.False(t, ok)
}
