package entities

import (
	"github.com/shopspring/decimal"
)

// MaxPendingOrderRecords bounds the pending orders listed on a report
const MaxPendingOrderRecords = 7

// MoneyPlaces is the precision every reported money amount is rounded to
const MoneyPlaces int32 = 2

// RoundMoney rounds an amount to whole cents
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// ProductCosts holds the nine cost categories charged to one product family
type ProductCosts struct {
	Labor            decimal.Decimal `json:"labor"`
	MachineSetup     decimal.Decimal `json:"machine_setup"`
	MachineRepair    decimal.Decimal `json:"machine_repair"`
	RawMaterials     decimal.Decimal `json:"raw_materials"`
	PurchasedParts   decimal.Decimal `json:"purchased_parts"`
	EquipmentUsage   decimal.Decimal `json:"equipment_usage"`
	PartsCarrying    decimal.Decimal `json:"parts_carrying"`
	ProductsCarrying decimal.Decimal `json:"products_carrying"`
	DemandPenalty    decimal.Decimal `json:"demand_penalty"`
}

// NewProductCosts returns a zeroed cost record
func NewProductCosts() ProductCosts {
	z := decimal.Zero
	return ProductCosts{z, z, z, z, z, z, z, z, z}
}

// Total sums the nine categories
func (c ProductCosts) Total() decimal.Decimal {
	return decimal.Sum(c.Labor, c.MachineSetup, c.MachineRepair, c.RawMaterials,
		c.PurchasedParts, c.EquipmentUsage, c.PartsCarrying, c.ProductsCarrying, c.DemandPenalty)
}

// Add sums two cost records field by field
func (c ProductCosts) Add(o ProductCosts) ProductCosts {
	return ProductCosts{
		Labor:            c.Labor.Add(o.Labor),
		MachineSetup:     c.MachineSetup.Add(o.MachineSetup),
		MachineRepair:    c.MachineRepair.Add(o.MachineRepair),
		RawMaterials:     c.RawMaterials.Add(o.RawMaterials),
		PurchasedParts:   c.PurchasedParts.Add(o.PurchasedParts),
		EquipmentUsage:   c.EquipmentUsage.Add(o.EquipmentUsage),
		PartsCarrying:    c.PartsCarrying.Add(o.PartsCarrying),
		ProductsCarrying: c.ProductsCarrying.Add(o.ProductsCarrying),
		DemandPenalty:    c.DemandPenalty.Add(o.DemandPenalty),
	}
}

// Rounded returns the record with every category rounded to cents
func (c ProductCosts) Rounded() ProductCosts {
	return ProductCosts{
		Labor:            RoundMoney(c.Labor),
		MachineSetup:     RoundMoney(c.MachineSetup),
		MachineRepair:    RoundMoney(c.MachineRepair),
		RawMaterials:     RoundMoney(c.RawMaterials),
		PurchasedParts:   RoundMoney(c.PurchasedParts),
		EquipmentUsage:   RoundMoney(c.EquipmentUsage),
		PartsCarrying:    RoundMoney(c.PartsCarrying),
		ProductsCarrying: RoundMoney(c.ProductsCarrying),
		DemandPenalty:    RoundMoney(c.DemandPenalty),
	}
}

// OverheadCosts holds the eight company-wide cost categories
type OverheadCosts struct {
	Quality              decimal.Decimal `json:"quality"`
	Maintenance          decimal.Decimal `json:"maintenance"`
	Training             decimal.Decimal `json:"training"`
	Hiring               decimal.Decimal `json:"hiring"`
	LayoffAndTermination decimal.Decimal `json:"layoff_and_termination"`
	RawMaterialsCarrying decimal.Decimal `json:"raw_materials_carrying"`
	Ordering             decimal.Decimal `json:"ordering"`
	FixedExpense         decimal.Decimal `json:"fixed_expense"`
}

// NewOverheadCosts returns a zeroed overhead record
func NewOverheadCosts() OverheadCosts {
	z := decimal.Zero
	return OverheadCosts{z, z, z, z, z, z, z, z}
}

// Total sums the eight categories
func (c OverheadCosts) Total() decimal.Decimal {
	return decimal.Sum(c.Quality, c.Maintenance, c.Training, c.Hiring,
		c.LayoffAndTermination, c.RawMaterialsCarrying, c.Ordering, c.FixedExpense)
}

// Add sums two overhead records field by field
func (c OverheadCosts) Add(o OverheadCosts) OverheadCosts {
	return OverheadCosts{
		Quality:              c.Quality.Add(o.Quality),
		Maintenance:          c.Maintenance.Add(o.Maintenance),
		Training:             c.Training.Add(o.Training),
		Hiring:               c.Hiring.Add(o.Hiring),
		LayoffAndTermination: c.LayoffAndTermination.Add(o.LayoffAndTermination),
		RawMaterialsCarrying: c.RawMaterialsCarrying.Add(o.RawMaterialsCarrying),
		Ordering:             c.Ordering.Add(o.Ordering),
		FixedExpense:         c.FixedExpense.Add(o.FixedExpense),
	}
}

// Rounded returns the record with every category rounded to cents
func (c OverheadCosts) Rounded() OverheadCosts {
	return OverheadCosts{
		Quality:              RoundMoney(c.Quality),
		Maintenance:          RoundMoney(c.Maintenance),
		Training:             RoundMoney(c.Training),
		Hiring:               RoundMoney(c.Hiring),
		LayoffAndTermination: RoundMoney(c.LayoffAndTermination),
		RawMaterialsCarrying: RoundMoney(c.RawMaterialsCarrying),
		Ordering:             RoundMoney(c.Ordering),
		FixedExpense:         RoundMoney(c.FixedExpense),
	}
}

// CostSheet is the full cost breakdown for a week or a game to date
type CostSheet struct {
	Products map[ProductType]ProductCosts `json:"products"`
	Overhead OverheadCosts                `json:"overhead"`
}

// NewCostSheet returns a zeroed cost sheet
func NewCostSheet() CostSheet {
	sheet := CostSheet{Products: make(map[ProductType]ProductCosts, len(Products)), Overhead: NewOverheadCosts()}
	for _, p := range Products {
		sheet.Products[p] = NewProductCosts()
	}
	return sheet
}

// Product returns the costs charged to one product family
func (s CostSheet) Product(p ProductType) ProductCosts {
	if c, ok := s.Products[p]; ok {
		return c
	}
	return NewProductCosts()
}

// ProductSubtotal sums the product costs of every family
func (s CostSheet) ProductSubtotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range Products {
		total = total.Add(s.Product(p).Total())
	}
	return total
}

// Total sums product and overhead costs
func (s CostSheet) Total() decimal.Decimal {
	return s.ProductSubtotal().Add(s.Overhead.Total())
}

// Add sums two cost sheets field by field
func (s CostSheet) Add(o CostSheet) CostSheet {
	out := CostSheet{Products: make(map[ProductType]ProductCosts, len(Products)), Overhead: s.Overhead.Add(o.Overhead)}
	for _, p := range Products {
		out.Products[p] = s.Product(p).Add(o.Product(p))
	}
	return out
}

// MachineRecord is one machine's line on the weekly report
type MachineRecord struct {
	MachineID       int             `json:"machine_id"`
	Department      Department      `json:"department"`
	OperatorID      int             `json:"operator_id,omitempty"`
	Item            string          `json:"item,omitempty"`
	SentForTraining bool            `json:"sent_for_training"`
	ScheduledHours  decimal.Decimal `json:"scheduled_hours"`
	SetupHours      decimal.Decimal `json:"setup_hours"`
	ProductiveHours decimal.Decimal `json:"productive_hours"`
	Efficiency      decimal.Decimal `json:"efficiency"`
	PlannedGross    decimal.Decimal `json:"planned_gross"`
	Gross           decimal.Decimal `json:"gross"`
	Rejects         decimal.Decimal `json:"rejects"`
	Net             decimal.Decimal `json:"net"`
	NeedsRepair     bool            `json:"needs_repair"`
}

// InventoryLine is one pool's row in the inventory snapshot
type InventoryLine struct {
	Item      string          `json:"item"`
	Beginning decimal.Decimal `json:"beginning"`
	Received  decimal.Decimal `json:"received"`
	Produced  decimal.Decimal `json:"produced"`
	Used      decimal.Decimal `json:"used"`
	Shortage  decimal.Decimal `json:"shortage"`
	Ending    decimal.Decimal `json:"ending"`
}

// InventorySnapshot lists raw materials, the three parts and the three products
type InventorySnapshot struct {
	RawMaterials InventoryLine   `json:"raw_materials"`
	Parts        []InventoryLine `json:"parts"`
	Products     []InventoryLine `json:"products"`
}

// NewInventorySnapshot records the end-of-week position of inv
func NewInventorySnapshot(inv Inventory) InventorySnapshot {
	rm := inv.RawMaterials
	snap := InventorySnapshot{
		RawMaterials: InventoryLine{
			Item: "RM", Beginning: rm.Beginning, Received: rm.OrdersReceived, Produced: decimal.Zero,
			Used: rm.UsedInProduction, Shortage: rm.Shortage, Ending: rm.Ending(),
		},
	}
	for _, p := range Parts {
		pool := inv.Part(p)
		snap.Parts = append(snap.Parts, InventoryLine{
			Item: p.String(), Beginning: pool.Beginning, Received: pool.OrdersReceived, Produced: pool.Production,
			Used: pool.UsedInAssembly, Shortage: pool.Shortage, Ending: pool.Ending(),
		})
	}
	for _, p := range Products {
		pool := inv.Product(p)
		snap.Products = append(snap.Products, InventoryLine{
			Item: p.String(), Beginning: pool.Beginning, Received: decimal.Zero, Produced: pool.Production,
			Used: pool.DemandFulfilled, Shortage: pool.Shortfall, Ending: pool.Ending(),
		})
	}
	return snap
}

// DemandLine is one product's demand figures on the weekly report
type DemandLine struct {
	Product      ProductType      `json:"product"`
	ShippingWeek int              `json:"shipping_week"`
	Estimated    decimal.Decimal  `json:"estimated"`
	Actual       *decimal.Decimal `json:"actual,omitempty"`
	Carryover    decimal.Decimal  `json:"carryover"`
	Total        decimal.Decimal  `json:"total"`
	Shipped      *decimal.Decimal `json:"shipped,omitempty"`
	NewCarryover *decimal.Decimal `json:"new_carryover,omitempty"`
}

// PerformanceMetrics compares standard and actual cost
type PerformanceMetrics struct {
	StandardCost      decimal.Decimal  `json:"standard_cost"`
	ActualCost        decimal.Decimal  `json:"actual_cost"`
	EfficiencyPercent decimal.Decimal  `json:"efficiency_percent"`
	VariancePerUnit   decimal.Decimal  `json:"variance_per_unit"`
	OnTimeDelivery    *decimal.Decimal `json:"on_time_delivery,omitempty"`
}

// PerformanceTotals accumulates the raw inputs of cumulative performance
type PerformanceTotals struct {
	StandardCost   decimal.Decimal `json:"standard_cost"`
	ActualCost     decimal.Decimal `json:"actual_cost"`
	NetUnits       decimal.Decimal `json:"net_units"`
	UnitsRequested decimal.Decimal `json:"units_requested"`
	UnitsShipped   decimal.Decimal `json:"units_shipped"`
	ShippingWeeks  int             `json:"shipping_weeks"`
}

// NewPerformanceTotals returns zeroed totals
func NewPerformanceTotals() PerformanceTotals {
	z := decimal.Zero
	return PerformanceTotals{StandardCost: z, ActualCost: z, NetUnits: z, UnitsRequested: z, UnitsShipped: z}
}

// WorkforceSummary lists the week's workforce transitions
type WorkforceSummary struct {
	Headcount         int   `json:"headcount"`
	Hired             []int `json:"hired,omitempty"`
	SentToTraining    []int `json:"sent_to_training,omitempty"`
	CompletedTraining []int `json:"completed_training,omitempty"`
	LaidOff           []int `json:"laid_off,omitempty"`
	Terminated        []int `json:"terminated,omitempty"`
}

// WeeklyReport is the full output of one processed week
type WeeklyReport struct {
	Week                  int                 `json:"week"`
	CompanyID             int                 `json:"company_id"`
	ShippingWeek          bool                `json:"shipping_week"`
	Costs                 CostSheet           `json:"costs"`
	CumulativeCosts       CostSheet           `json:"cumulative_costs"`
	Machines              []MachineRecord     `json:"machines"`
	Inventory             InventorySnapshot   `json:"inventory"`
	PendingOrders         []Order             `json:"pending_orders"`
	Demand                []DemandLine        `json:"demand"`
	Performance           PerformanceMetrics  `json:"performance"`
	CumulativePerformance PerformanceMetrics  `json:"cumulative_performance"`
	Workforce             WorkforceSummary    `json:"workforce"`
	Repairs               map[ProductType]int `json:"repairs,omitempty"`
	Warnings              []string            `json:"warnings,omitempty"`
}
