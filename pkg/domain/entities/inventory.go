package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RawMaterialsPool tracks the single raw-material stock
type RawMaterialsPool struct {
	Beginning        decimal.Decimal `json:"beginning"`
	OrdersReceived   decimal.Decimal `json:"orders_received"`
	UsedInProduction decimal.Decimal `json:"used_in_production"`
	Shortage         decimal.Decimal `json:"shortage"`
}

// Available returns the material that can still be drawn this week
func (p RawMaterialsPool) Available() decimal.Decimal {
	return p.Ending()
}

// Ending returns max(0, beginning + received − used)
func (p RawMaterialsPool) Ending() decimal.Decimal {
	return MaxZero(p.Beginning.Add(p.OrdersReceived).Sub(p.UsedInProduction))
}

// AdvanceWeek carries the ending balance forward and zeroes weekly flows
func (p RawMaterialsPool) AdvanceWeek() RawMaterialsPool {
	return RawMaterialsPool{
		Beginning:        p.Ending(),
		OrdersReceived:   decimal.Zero,
		UsedInProduction: decimal.Zero,
		Shortage:         decimal.Zero,
	}
}

// PartsPool tracks one part family
type PartsPool struct {
	Part           PartType        `json:"part"`
	Beginning      decimal.Decimal `json:"beginning"`
	OrdersReceived decimal.Decimal `json:"orders_received"`
	Production     decimal.Decimal `json:"production"`
	UsedInAssembly decimal.Decimal `json:"used_in_assembly"`
	Shortage       decimal.Decimal `json:"shortage"`
}

// AvailableForAssembly returns the parts the assembly line can draw this week.
// In-house production of the same week is still in process and is excluded.
func (p PartsPool) AvailableForAssembly() decimal.Decimal {
	return MaxZero(p.Beginning.Add(p.OrdersReceived).Sub(p.UsedInAssembly))
}

// Ending returns max(0, beginning + received + produced − used)
func (p PartsPool) Ending() decimal.Decimal {
	return MaxZero(p.Beginning.Add(p.OrdersReceived).Add(p.Production).Sub(p.UsedInAssembly))
}

// AdvanceWeek carries the ending balance forward and zeroes weekly flows
func (p PartsPool) AdvanceWeek() PartsPool {
	return PartsPool{
		Part:           p.Part,
		Beginning:      p.Ending(),
		OrdersReceived: decimal.Zero,
		Production:     decimal.Zero,
		UsedInAssembly: decimal.Zero,
		Shortage:       decimal.Zero,
	}
}

// ProductsPool tracks one finished product family
type ProductsPool struct {
	Product         ProductType     `json:"product"`
	Beginning       decimal.Decimal `json:"beginning"`
	Production      decimal.Decimal `json:"production"`
	DemandFulfilled decimal.Decimal `json:"demand_fulfilled"`
	Shortfall       decimal.Decimal `json:"shortfall"`
}

// Available returns the units that can still be shipped this week
func (p ProductsPool) Available() decimal.Decimal {
	return p.Ending()
}

// Ending returns max(0, beginning + produced − shipped)
func (p ProductsPool) Ending() decimal.Decimal {
	return MaxZero(p.Beginning.Add(p.Production).Sub(p.DemandFulfilled))
}

// AdvanceWeek carries the ending balance forward and zeroes weekly flows
func (p ProductsPool) AdvanceWeek() ProductsPool {
	return ProductsPool{
		Product:         p.Product,
		Beginning:       p.Ending(),
		Production:      decimal.Zero,
		DemandFulfilled: decimal.Zero,
		Shortfall:       decimal.Zero,
	}
}

// Inventory is the full material position of a company
type Inventory struct {
	RawMaterials RawMaterialsPool             `json:"raw_materials"`
	Parts        map[PartType]PartsPool       `json:"parts"`
	Products     map[ProductType]ProductsPool `json:"products"`
}

// NewInventory creates an inventory with the given opening balances
func NewInventory(rawMaterials decimal.Decimal, parts Amounts[PartType], products Amounts[ProductType]) (Inventory, error) {
	if rawMaterials.IsNegative() {
		return Inventory{}, fmt.Errorf("raw materials cannot be negative, got %s", rawMaterials)
	}
	inv := Inventory{
		RawMaterials: RawMaterialsPool{
			Beginning:        rawMaterials,
			OrdersReceived:   decimal.Zero,
			UsedInProduction: decimal.Zero,
			Shortage:         decimal.Zero,
		},
		Parts:    make(map[PartType]PartsPool, len(Parts)),
		Products: make(map[ProductType]ProductsPool, len(Products)),
	}
	for _, part := range Parts {
		qty := parts.Get(part)
		if qty.IsNegative() {
			return Inventory{}, fmt.Errorf("%s inventory cannot be negative, got %s", part, qty)
		}
		inv.Parts[part] = PartsPool{
			Part: part, Beginning: qty,
			OrdersReceived: decimal.Zero, Production: decimal.Zero,
			UsedInAssembly: decimal.Zero, Shortage: decimal.Zero,
		}
	}
	for _, product := range Products {
		qty := products.Get(product)
		if qty.IsNegative() {
			return Inventory{}, fmt.Errorf("%s inventory cannot be negative, got %s", product, qty)
		}
		inv.Products[product] = ProductsPool{
			Product: product, Beginning: qty,
			Production: decimal.Zero, DemandFulfilled: decimal.Zero, Shortfall: decimal.Zero,
		}
	}
	return inv, nil
}

// Clone returns an independent copy
func (inv Inventory) Clone() Inventory {
	out := Inventory{
		RawMaterials: inv.RawMaterials,
		Parts:        make(map[PartType]PartsPool, len(inv.Parts)),
		Products:     make(map[ProductType]ProductsPool, len(inv.Products)),
	}
	for k, v := range inv.Parts {
		out.Parts[k] = v
	}
	for k, v := range inv.Products {
		out.Products[k] = v
	}
	return out
}

// Part returns the pool for one part family
func (inv Inventory) Part(p PartType) PartsPool {
	if pool, ok := inv.Parts[p]; ok {
		return pool
	}
	return PartsPool{Part: p}
}

// Product returns the pool for one product family
func (inv Inventory) Product(p ProductType) ProductsPool {
	if pool, ok := inv.Products[p]; ok {
		return pool
	}
	return ProductsPool{Product: p}
}

// EndingParts returns the ending balance of every part family
func (inv Inventory) EndingParts() Amounts[PartType] {
	out := make(Amounts[PartType], len(Parts))
	for _, p := range Parts {
		out[p] = inv.Part(p).Ending()
	}
	return out
}

// EndingProducts returns the ending balance of every product family
func (inv Inventory) EndingProducts() Amounts[ProductType] {
	out := make(Amounts[ProductType], len(Products))
	for _, p := range Products {
		out[p] = inv.Product(p).Ending()
	}
	return out
}

// AdvanceWeek rolls every pool to the next week
func (inv Inventory) AdvanceWeek() Inventory {
	out := inv.Clone()
	out.RawMaterials = inv.RawMaterials.AdvanceWeek()
	for _, p := range Parts {
		out.Parts[p] = inv.Part(p).AdvanceWeek()
	}
	for _, p := range Products {
		out.Products[p] = inv.Product(p).AdvanceWeek()
	}
	return out
}
