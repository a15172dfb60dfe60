package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
)

// RawMaterialsResult records raw-material consumption for parts production
type RawMaterialsResult struct {
	Required decimal.Decimal `json:"required"`
	Consumed decimal.Decimal `json:"consumed"`
	Shortage decimal.Decimal `json:"shortage"`
	// ConsumedByPart attributes consumption to the part families it fed
	ConsumedByPart entities.Amounts[entities.PartType] `json:"consumed_by_part"`
	// Fill is Consumed / Required, or 1 when nothing was required
	Fill decimal.Decimal `json:"fill"`
}

// PartsResult records parts consumption for assembly
type PartsResult struct {
	Required entities.Amounts[entities.PartType]    `json:"required"`
	Consumed entities.Amounts[entities.PartType]    `json:"consumed"`
	Shortage entities.Amounts[entities.PartType]    `json:"shortage"`
	Fill     entities.Amounts[entities.ProductType] `json:"fill"`
}

// ReceiptResult lists the orders received this week
type ReceiptResult struct {
	Orders       []entities.Order                    `json:"orders"`
	RawMaterials decimal.Decimal                     `json:"raw_materials"`
	Parts        entities.Amounts[entities.PartType] `json:"parts"`
}

// PlacementResult lists the orders placed this week
type PlacementResult struct {
	Orders    []entities.Order `json:"orders"`
	Expedited int              `json:"expedited"`
}

// FulfillmentResult records a shipment against demand
type FulfillmentResult struct {
	Requested  entities.Amounts[entities.ProductType] `json:"requested"`
	Shipped    entities.Amounts[entities.ProductType] `json:"shipped"`
	UnitsShort entities.Amounts[entities.ProductType] `json:"units_short"`
}

// Engine moves material between the order book and the inventory pools
type Engine struct {
	config config.Config
}

// NewEngine creates an inventory engine over the given rate table
func NewEngine(cfg config.Config) *Engine {
	return &Engine{config: cfg}
}

// PlaceOrder appends an order due after the configured lead time.
// Zero amounts place nothing.
func (e *Engine) PlaceOrder(book entities.OrderBook, orderType entities.OrderType, amount decimal.Decimal, week int) (entities.OrderBook, *entities.Order, error) {
	if amount.IsZero() {
		return book, nil, nil
	}
	order, err := entities.NewOrder(orderType, amount, week, e.config.LeadTime(orderType))
	if err != nil {
		return book, nil, fmt.Errorf("failed to place %s order: %w", orderType, err)
	}
	return book.Place(*order), order, nil
}

// PlaceDecisionOrders places the raw-material and purchased-part orders of a week's decisions
func (e *Engine) PlaceDecisionOrders(book entities.OrderBook, d entities.Decisions) (entities.OrderBook, PlacementResult, error) {
	var result PlacementResult
	type request struct {
		orderType entities.OrderType
		amount    decimal.Decimal
	}
	requests := []request{
		{entities.RegularRawMaterials, d.RawMaterialsRegular},
		{entities.ExpeditedRawMaterials, d.RawMaterialsExpedited},
	}
	for _, p := range entities.Parts {
		requests = append(requests, request{entities.PartOrderType(p), d.PartOrders.Get(p)})
	}

	for _, req := range requests {
		var order *entities.Order
		var err error
		book, order, err = e.PlaceOrder(book, req.orderType, req.amount, d.Week)
		if err != nil {
			return book, result, err
		}
		if order == nil {
			continue
		}
		result.Orders = append(result.Orders, *order)
		if order.Type == entities.ExpeditedRawMaterials {
			result.Expedited++
		}
	}
	return book, result, nil
}

// ReceiveOrders moves every order due this week into inventory
func (e *Engine) ReceiveOrders(inv entities.Inventory, book entities.OrderBook, week int) (entities.Inventory, entities.OrderBook, ReceiptResult) {
	nextBook, received := book.Receive(week)
	next := inv.Clone()
	result := ReceiptResult{
		Orders:       received,
		RawMaterials: decimal.Zero,
		Parts:        make(entities.Amounts[entities.PartType]),
	}
	for _, o := range received {
		if o.Type.IsRawMaterials() {
			next.RawMaterials.OrdersReceived = next.RawMaterials.OrdersReceived.Add(o.Amount)
			result.RawMaterials = result.RawMaterials.Add(o.Amount)
			continue
		}
		if part, ok := o.Type.Part(); ok {
			pool := next.Part(part)
			pool.OrdersReceived = pool.OrdersReceived.Add(o.Amount)
			next.Parts[part] = pool
			result.Parts.Add(part, o.Amount)
		}
	}
	return next, nextBook, result
}

// ConsumeRawMaterials draws the material needed for grossParts. Consumption is
// capped at what is available and the unmet requirement is recorded as shortage.
func (e *Engine) ConsumeRawMaterials(inv entities.Inventory, grossParts entities.Amounts[entities.PartType]) (entities.Inventory, RawMaterialsResult) {
	required := make(entities.Amounts[entities.PartType])
	for _, p := range entities.Parts {
		required[p] = grossParts.Get(p).Mul(e.config.Production.RawMaterialPerPart.Get(p))
	}
	total := required.Total()
	available := inv.RawMaterials.Available()

	consumed := decimal.Min(total, available)
	fill := fillRatio(consumed, total)

	byPart := make(entities.Amounts[entities.PartType])
	for _, p := range entities.Parts {
		byPart[p] = required[p].Mul(fill)
	}

	next := inv.Clone()
	next.RawMaterials.UsedInProduction = next.RawMaterials.UsedInProduction.Add(consumed)
	shortage := entities.MaxZero(total.Sub(available))
	next.RawMaterials.Shortage = next.RawMaterials.Shortage.Add(shortage)

	return next, RawMaterialsResult{
		Required:       total,
		Consumed:       consumed,
		Shortage:       shortage,
		ConsumedByPart: byPart,
		Fill:           fill,
	}
}

// ConsumeParts draws the parts needed for grossProducts. Only beginning stock
// and orders received are available; this week's parts production is not.
func (e *Engine) ConsumeParts(inv entities.Inventory, grossProducts entities.Amounts[entities.ProductType]) (entities.Inventory, PartsResult) {
	result := PartsResult{
		Required: make(entities.Amounts[entities.PartType]),
		Consumed: make(entities.Amounts[entities.PartType]),
		Shortage: make(entities.Amounts[entities.PartType]),
		Fill:     make(entities.Amounts[entities.ProductType]),
	}
	next := inv.Clone()
	for _, product := range entities.Products {
		part := product.Part()
		required := grossProducts.Get(product).Mul(e.config.Production.PartsPerProduct.Get(product))
		pool := next.Part(part)
		available := pool.AvailableForAssembly()
		consumed := decimal.Min(required, available)
		shortage := entities.MaxZero(required.Sub(available))

		pool.UsedInAssembly = pool.UsedInAssembly.Add(consumed)
		pool.Shortage = pool.Shortage.Add(shortage)
		next.Parts[part] = pool

		result.Required[part] = required
		result.Consumed[part] = consumed
		result.Shortage[part] = shortage
		result.Fill[product] = fillRatio(consumed, required)
	}
	return next, result
}

// AddPartsProduction adds net parts output to the parts pools
func (e *Engine) AddPartsProduction(inv entities.Inventory, net entities.Amounts[entities.PartType]) entities.Inventory {
	next := inv.Clone()
	for _, p := range entities.Parts {
		pool := next.Part(p)
		pool.Production = pool.Production.Add(net.Get(p))
		next.Parts[p] = pool
	}
	return next
}

// AddProductsProduction adds net assembly output to the product pools
func (e *Engine) AddProductsProduction(inv entities.Inventory, net entities.Amounts[entities.ProductType]) entities.Inventory {
	next := inv.Clone()
	for _, p := range entities.Products {
		pool := next.Product(p)
		pool.Production = pool.Production.Add(net.Get(p))
		next.Products[p] = pool
	}
	return next
}

// FulfillDemand ships min(demand, available) of each product and records the shortfall
func (e *Engine) FulfillDemand(inv entities.Inventory, demand entities.Amounts[entities.ProductType]) (entities.Inventory, FulfillmentResult) {
	result := FulfillmentResult{
		Requested:  make(entities.Amounts[entities.ProductType]),
		Shipped:    make(entities.Amounts[entities.ProductType]),
		UnitsShort: make(entities.Amounts[entities.ProductType]),
	}
	next := inv.Clone()
	for _, p := range entities.Products {
		requested := entities.MaxZero(demand.Get(p))
		pool := next.Product(p)
		shipped := decimal.Min(requested, pool.Available())
		short := requested.Sub(shipped)

		pool.DemandFulfilled = pool.DemandFulfilled.Add(shipped)
		pool.Shortfall = pool.Shortfall.Add(short)
		next.Products[p] = pool

		result.Requested[p] = requested
		result.Shipped[p] = shipped
		result.UnitsShort[p] = short
	}
	return next, result
}

// fillRatio returns consumed / required truncated to 10 places, or 1 when nothing was
// required. Truncation keeps scaled output within the material actually drawn.
func fillRatio(consumed, required decimal.Decimal) decimal.Decimal {
	if !required.IsPositive() {
		return decimal.NewFromInt(1)
	}
	if consumed.GreaterThanOrEqual(required) {
		return decimal.NewFromInt(1)
	}
	return consumed.DivRound(required, 16).Truncate(10)
}
