package costs

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/application/services/inventory"
	"github.com/vsinha/prosim/pkg/application/services/production"
	"github.com/vsinha/prosim/pkg/application/services/workforce"
	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
)

// Input carries every result the week's cost sheet is computed from
type Input struct {
	Production        production.Result
	RawMaterials      inventory.RawMaterialsResult
	Receipts          inventory.ReceiptResult
	Inventory         entities.Inventory
	UnitsShort        entities.Amounts[entities.ProductType]
	Repairs           map[entities.ProductType]int
	Workforce         workforce.CostResult
	QualityBudget     decimal.Decimal
	MaintenanceBudget decimal.Decimal
	OrdersPlaced      int
	ExpeditedOrders   int
}

// Engine prices a week. It holds no state beyond the rate table.
type Engine struct {
	config config.Config
}

// NewEngine creates a cost engine over the given rate table
func NewEngine(cfg config.Config) *Engine {
	return &Engine{config: cfg}
}

// Calculate builds the weekly cost sheet. Every category is rounded to cents.
func (e *Engine) Calculate(in Input) entities.CostSheet {
	sheet := entities.NewCostSheet()
	for _, p := range entities.Products {
		sheet.Products[p] = e.productCosts(p, in).Rounded()
	}
	sheet.Overhead = e.overheadCosts(in).Rounded()
	return sheet
}

// Accumulate adds a week to the running totals. A nil previous sheet starts from zero.
func (e *Engine) Accumulate(previous *entities.CostSheet, weekly entities.CostSheet) entities.CostSheet {
	if previous == nil {
		return entities.NewCostSheet().Add(weekly)
	}
	return previous.Add(weekly)
}

// LaborCost pays scheduled hours at the regular rate, with hours above the
// regular week paid at the overtime multiplier
func (e *Engine) LaborCost(scheduled decimal.Decimal) decimal.Decimal {
	l := e.config.Labor
	regular := decimal.Min(scheduled, l.RegularHours)
	overtime := entities.MaxZero(scheduled.Sub(l.RegularHours))
	return regular.Mul(l.HourlyRate).Add(overtime.Mul(l.HourlyRate).Mul(l.OvertimeMultiplier))
}

// OrderingCost charges the base fee per order plus the surcharge per expedited order
func (e *Engine) OrderingCost(orders, expedited int) decimal.Decimal {
	o := e.config.Ordering
	return o.BaseFee.Mul(decimal.NewFromInt(int64(orders))).
		Add(o.ExpeditedSurcharge.Mul(decimal.NewFromInt(int64(expedited))))
}

func (e *Engine) productCosts(p entities.ProductType, in Input) entities.ProductCosts {
	c := entities.NewProductCosts()
	part := p.Part()

	for _, m := range in.Production.Machines() {
		if m.Line == nil || *m.Line != p {
			continue
		}
		if m.Staffed {
			c.Labor = c.Labor.Add(e.LaborCost(m.ScheduledHours))
		}
		c.MachineSetup = c.MachineSetup.Add(m.SetupHours.Mul(e.config.Equipment.SetupCostPerHour))
		c.EquipmentUsage = c.EquipmentUsage.Add(m.ProductiveHours.Mul(e.config.EquipmentRate(m.Department)))
	}

	c.MachineRepair = e.config.Equipment.RepairCost.Mul(decimal.NewFromInt(int64(in.Repairs[p])))
	c.RawMaterials = in.RawMaterials.ConsumedByPart.Get(part).Mul(e.config.Materials.RawMaterialUnitCost)
	c.PurchasedParts = in.Receipts.Parts.Get(part).Mul(e.config.Materials.PartCosts.Get(part))
	c.PartsCarrying = in.Inventory.Part(part).Ending().Mul(e.config.Carrying.Parts)
	c.ProductsCarrying = in.Inventory.Product(p).Ending().Mul(e.config.Carrying.Products)
	c.DemandPenalty = in.UnitsShort.Get(p).Mul(e.config.Demand.PenaltyPerUnit)
	return c
}

func (e *Engine) overheadCosts(in Input) entities.OverheadCosts {
	return entities.OverheadCosts{
		Quality:              in.QualityBudget,
		Maintenance:          in.MaintenanceBudget,
		Training:             in.Workforce.TrainingCost,
		Hiring:               in.Workforce.HiringCost,
		LayoffAndTermination: in.Workforce.LayoffCost.Add(in.Workforce.TerminationCost),
		RawMaterialsCarrying: in.Inventory.RawMaterials.Ending().Mul(e.config.Carrying.RawMaterials),
		Ordering:             e.OrderingCost(in.OrdersPlaced, in.ExpeditedOrders),
		FixedExpense:         e.config.Equipment.FixedExpense,
	}
}
