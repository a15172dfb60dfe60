package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newInventory(t *testing.T, rm int64, parts entities.Amounts[entities.PartType], products entities.Amounts[entities.ProductType]) entities.Inventory {
	t.Helper()
	inv, err := entities.NewInventory(d(rm), parts, products)
	require.NoError(t, err)
	return inv
}

func TestOrders_LeadTimeReceipt(t *testing.T) {
	cfg := config.Default()
	e := NewEngine(cfg)
	inv := newInventory(t, 0, nil, nil)

	decisions := entities.Decisions{
		Week:                  2,
		RawMaterialsRegular:   d(1000),
		RawMaterialsExpedited: d(300),
		PartOrders:            entities.Amounts[entities.PartType]{entities.PartYPrime: d(50)},
	}
	book, placed, err := e.PlaceDecisionOrders(entities.OrderBook{}, decisions)
	require.NoError(t, err)
	assert.Len(t, placed.Orders, 3, "zero-amount orders are not placed")
	assert.Equal(t, 1, placed.Expedited)

	// Week 3 receives the expedited RM (lead 1) and the Y' parts (lead 1).
	inv3, book, receipt := e.ReceiveOrders(inv, book, 3)
	assert.True(t, receipt.RawMaterials.Equal(d(300)))
	assert.True(t, inv3.RawMaterials.OrdersReceived.Equal(d(300)))
	assert.True(t, inv3.Part(entities.PartYPrime).OrdersReceived.Equal(d(50)))
	require.Len(t, book.Orders, 1)

	// Week 4 receives nothing; week 5 (= 2 + 3) receives the regular order.
	_, book, receipt = e.ReceiveOrders(inv, book, 4)
	assert.Empty(t, receipt.Orders)
	_, book, receipt = e.ReceiveOrders(inv, book, 5)
	require.Len(t, receipt.Orders, 1)
	assert.True(t, receipt.RawMaterials.Equal(d(1000)))
	assert.Empty(t, book.Orders)

	_, _, receipt = e.ReceiveOrders(inv, book, 5)
	assert.Empty(t, receipt.Orders, "orders are received exactly once")
}

func TestPlaceOrder_RejectsNegative(t *testing.T) {
	e := NewEngine(config.Default())
	_, _, err := e.PlaceOrder(entities.OrderBook{}, entities.RegularRawMaterials, d(-5), 1)
	assert.Error(t, err)
}

func TestConsumeRawMaterials(t *testing.T) {
	e := NewEngine(config.Default())

	t.Run("enough material", func(t *testing.T) {
		inv := newInventory(t, 5000, nil, nil)
		next, r := e.ConsumeRawMaterials(inv, entities.Amounts[entities.PartType]{entities.PartXPrime: d(3000), entities.PartZPrime: d(500)})
		assert.True(t, r.Consumed.Equal(d(3500)))
		assert.True(t, r.Shortage.IsZero())
		assert.True(t, r.Fill.Equal(d(1)))
		assert.True(t, next.RawMaterials.Ending().Equal(d(1500)))
		assert.True(t, inv.RawMaterials.UsedInProduction.IsZero(), "input inventory is untouched")
	})

	t.Run("shortage", func(t *testing.T) {
		inv := newInventory(t, 2000, nil, nil)
		next, r := e.ConsumeRawMaterials(inv, entities.Amounts[entities.PartType]{entities.PartXPrime: d(3000), entities.PartYPrime: d(1000)})
		assert.True(t, r.Consumed.Equal(d(2000)))
		assert.True(t, r.Shortage.Equal(d(2000)))
		assert.True(t, r.Fill.Equal(decimal.RequireFromString("0.5")))
		assert.True(t, r.ConsumedByPart.Get(entities.PartXPrime).Equal(d(1500)))
		assert.True(t, next.RawMaterials.Ending().IsZero())
		assert.True(t, next.RawMaterials.Shortage.Equal(d(2000)))
	})

	t.Run("nothing required", func(t *testing.T) {
		inv := newInventory(t, 0, nil, nil)
		_, r := e.ConsumeRawMaterials(inv, nil)
		assert.True(t, r.Fill.Equal(d(1)))
		assert.True(t, r.Consumed.IsZero())
	})
}

func TestConsumeParts_ExcludesSameWeekProduction(t *testing.T) {
	e := NewEngine(config.Default())
	inv := newInventory(t, 0, entities.Amounts[entities.PartType]{entities.PartYPrime: d(100)}, nil)
	inv = e.AddPartsProduction(inv, entities.Amounts[entities.PartType]{entities.PartXPrime: d(900)})

	next, r := e.ConsumeParts(inv, entities.Amounts[entities.ProductType]{entities.ProductX: d(600), entities.ProductY: d(40)})

	assert.True(t, r.Consumed.Get(entities.PartXPrime).IsZero())
	assert.True(t, r.Shortage.Get(entities.PartXPrime).Equal(d(600)))
	assert.True(t, r.Fill.Get(entities.ProductX).IsZero())
	assert.True(t, r.Consumed.Get(entities.PartYPrime).Equal(d(40)))
	assert.True(t, r.Fill.Get(entities.ProductY).Equal(d(1)))
	assert.True(t, next.Part(entities.PartXPrime).Ending().Equal(d(900)))
	assert.True(t, next.Part(entities.PartYPrime).Ending().Equal(d(60)))
}

func TestFulfillDemand(t *testing.T) {
	e := NewEngine(config.Default())
	inv := newInventory(t, 0, nil, entities.Amounts[entities.ProductType]{
		entities.ProductX: d(200), entities.ProductY: d(500), entities.ProductZ: d(200),
	})
	inv = e.AddProductsProduction(inv, entities.Amounts[entities.ProductType]{entities.ProductX: d(300)})

	next, r := e.FulfillDemand(inv, entities.Amounts[entities.ProductType]{
		entities.ProductX: d(600), entities.ProductY: d(400), entities.ProductZ: d(200),
	})

	assert.True(t, r.Shipped.Get(entities.ProductX).Equal(d(500)))
	assert.True(t, r.UnitsShort.Get(entities.ProductX).Equal(d(100)))
	assert.True(t, r.UnitsShort.Get(entities.ProductY).IsZero())
	assert.True(t, next.Product(entities.ProductX).Ending().IsZero())
	assert.True(t, next.Product(entities.ProductY).Ending().Equal(d(100)))
	assert.True(t, next.Product(entities.ProductZ).Ending().IsZero())
}

func TestInventoryConservation(t *testing.T) {
	e := NewEngine(config.Default())
	inv := newInventory(t, 1000, entities.Amounts[entities.PartType]{entities.PartXPrime: d(50)}, nil)
	book, _, err := e.PlaceDecisionOrders(entities.OrderBook{}, entities.Decisions{
		Week: 1, RawMaterialsExpedited: d(400), PartOrders: entities.Amounts[entities.PartType]{entities.PartXPrime: d(25)},
	})
	require.NoError(t, err)

	for week := 2; week <= 4; week++ {
		inv, book, _ = e.ReceiveOrders(inv, book, week)
		var rm RawMaterialsResult
		inv, rm = e.ConsumeRawMaterials(inv, entities.Amounts[entities.PartType]{entities.PartXPrime: d(700)})
		inv = e.AddPartsProduction(inv, entities.Amounts[entities.PartType]{entities.PartXPrime: rm.ConsumedByPart.Get(entities.PartXPrime)})
		inv, _ = e.ConsumeParts(inv, entities.Amounts[entities.ProductType]{entities.ProductX: d(60)})

		rmPool := inv.RawMaterials
		flow := rmPool.Beginning.Add(rmPool.OrdersReceived).Sub(rmPool.UsedInProduction)
		require.True(t, rmPool.Ending().Equal(entities.MaxZero(flow)))
		require.False(t, rmPool.Ending().IsNegative())

		x := inv.Part(entities.PartXPrime)
		partsFlow := x.Beginning.Add(x.OrdersReceived).Add(x.Production).Sub(x.UsedInAssembly)
		require.True(t, x.Ending().Equal(entities.MaxZero(partsFlow)))
		require.False(t, x.Ending().IsNegative())

		inv = inv.AdvanceWeek()
	}
}
