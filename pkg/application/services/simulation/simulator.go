package simulation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/application/dto"
	"github.com/vsinha/prosim/pkg/application/services/costs"
	"github.com/vsinha/prosim/pkg/application/services/demand"
	"github.com/vsinha/prosim/pkg/application/services/inventory"
	"github.com/vsinha/prosim/pkg/application/services/production"
	"github.com/vsinha/prosim/pkg/application/services/validation"
	"github.com/vsinha/prosim/pkg/application/services/workforce"
	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/domain/rng"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
)

// Simulator sequences the engines into one week transition. It holds no
// company state; every call works on a clone of the company it is given.
type Simulator struct {
	config     config.Config
	strict     bool
	validator  *validation.Validator
	workforce  *workforce.Engine
	production *production.Engine
	stock      *inventory.Engine
	forecasts  *demand.Engine
	costs      *costs.Engine
}

// NewSimulator creates a simulator over the given rate table. In strict mode
// validation warnings reject the decisions.
func NewSimulator(cfg config.Config, strict bool) *Simulator {
	return &Simulator{
		config:     cfg,
		strict:     strict,
		validator:  validation.NewValidator(cfg),
		workforce:  workforce.NewEngine(cfg),
		production: production.NewEngine(cfg),
		stock:      inventory.NewEngine(cfg),
		forecasts:  demand.NewEngine(cfg),
		costs:      costs.NewEngine(cfg),
	}
}

// Config returns the rate table the simulator runs on
func (s *Simulator) Config() config.Config {
	return s.config
}

// NewCompany creates a company at week 1 with the configured floor, starting
// roster, raw materials and an initial demand horizon drawn from seed
func (s *Simulator) NewCompany(id int, name string, seed uint64) (*entities.Company, error) {
	cfg := s.config.Simulation

	floor, err := entities.NewMachineFloor(cfg.PartsMachines, cfg.AssemblyMachines)
	if err != nil {
		return nil, fmt.Errorf("failed to build machine floor: %w", err)
	}
	roster, err := s.workforce.InitialRoster(floor.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to build starting roster: %w", err)
	}
	inv, err := entities.NewInventory(cfg.StartingRawMaterials, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build starting inventory: %w", err)
	}
	schedule, err := entities.NewDemandSchedule(s.config.Demand.ShippingFrequency)
	if err != nil {
		return nil, fmt.Errorf("failed to build demand schedule: %w", err)
	}

	schedule, src := s.forecasts.Initialize(schedule, 1, rng.New(seed))
	return entities.NewCompany(id, name, roster, floor, inv, schedule, src)
}

// Validate checks decisions without processing them
func (s *Simulator) Validate(company *entities.Company, d entities.Decisions) validation.Result {
	return s.validator.Validate(d, company, s.strict)
}

// ProcessWeek runs one week for company and returns the advanced company with
// its report. The input company is never modified. Decisions that fail
// validation return a *validation.Error and no state change.
func (s *Simulator) ProcessWeek(ctx context.Context, company *entities.Company, d entities.Decisions) (*dto.WeekResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. validate
	check := s.validator.Validate(d, company, s.strict)
	if err := check.Err(); err != nil {
		return nil, err
	}

	c := company.Clone()
	week := c.CurrentWeek
	src := c.RNG

	if len(c.Demand.Forecasts) == 0 {
		c.Demand, src = s.forecasts.Initialize(c.Demand, week, src)
	} else {
		c.Demand, src = s.forecasts.RefreshForecasts(c.Demand, week, src)
	}

	// 2. machine assignments
	floor := applyAssignments(c.Machines, d)

	// 3. training, then hiring
	wf, completed := s.workforce.CompleteTraining(c.Workforce)
	wf, training := s.workforce.SendToTraining(wf, d.TrainingRequests())
	wf, hired, src, err := s.workforce.Hire(wf, d.Hires.Count, d.Hires.Trained, week, src)
	if err != nil {
		return nil, fmt.Errorf("week %d: %w", week, err)
	}

	// 4. scheduling
	wf, schedule := s.workforce.Schedule(wf, floor)

	// 5. orders
	inv, book, receipts := s.stock.ReceiveOrders(c.Inventory, c.Orders, week)
	book, placements, err := s.stock.PlaceDecisionOrders(book, d)
	if err != nil {
		return nil, fmt.Errorf("week %d: %w", week, err)
	}

	// 6-9. production capped by material, then setup state from actual output
	planned := s.production.Calculate(floor, schedule.Efficiencies)
	inv, rawMaterials := s.stock.ConsumeRawMaterials(inv, planned.Parts.PlannedGross)
	inv, parts := s.stock.ConsumeParts(inv, planned.Assembly.PlannedGross)
	output := s.production.ApplyMaterialLimits(planned, rawMaterials.Fill, parts.Fill)
	floor = s.production.UpdateFloor(floor, output)
	inv = s.stock.AddPartsProduction(inv, output.Parts.Net)
	inv = s.stock.AddProductsProduction(inv, output.Assembly.Net)

	// 10. shipping
	details := dto.WeekDetails{
		Production:   output,
		RawMaterials: rawMaterials,
		Parts:        parts,
		Receipts:     receipts,
		Placements:   placements,
	}
	unitsShort := make(entities.Amounts[entities.ProductType])
	shipping := s.forecasts.IsShippingWeek(week)
	if shipping {
		var requested entities.Amounts[entities.ProductType]
		c.Demand, requested, src = s.forecasts.RevealDemand(c.Demand, week, src)

		var fulfillment inventory.FulfillmentResult
		inv, fulfillment = s.stock.FulfillDemand(inv, requested)

		var outcome demand.ShippingOutcome
		c.Demand, outcome = s.forecasts.ProcessShippingWeek(c.Demand, week, fulfillment.Shipped)
		c.Demand, src = s.forecasts.AddNextPeriodForecasts(c.Demand, outcome, src)

		unitsShort = fulfillment.UnitsShort
		details.Fulfillment = &fulfillment
		details.Shipping = &outcome
		details.Shipment = &costs.Shipment{
			Requested: fulfillment.Requested.Total(),
			Shipped:   fulfillment.Shipped.Total(),
		}
		c.TotalRevenue = c.TotalRevenue.Add(s.revenue(fulfillment.Shipped))
	}

	// 11. repairs
	floor, repairs, src := s.production.RollRepairs(floor, src)

	// 12. terminations
	wf, terminated := s.workforce.TerminateOverdue(wf)

	// 13. costs
	trained := len(training.Sent)
	if d.Hires.Trained {
		trained += len(hired)
	}
	workforceCost := s.workforce.WeeklyCost(wf, len(hired), trained, len(terminated))
	weekly := s.costs.Calculate(costs.Input{
		Production:        output,
		RawMaterials:      rawMaterials,
		Receipts:          receipts,
		Inventory:         inv,
		UnitsShort:        unitsShort,
		Repairs:           repairs,
		Workforce:         workforceCost,
		QualityBudget:     d.QualityBudget,
		MaintenanceBudget: d.MaintenanceBudget,
		OrdersPlaced:      len(placements.Orders),
		ExpeditedOrders:   placements.Expedited,
	})
	cumulative := s.costs.Accumulate(&c.CumulativeCosts, weekly)

	actual := weekly.Total()
	netUnits := output.Assembly.Net.Total()
	c.Performance = s.costs.AccumulatePerformance(c.Performance, actual, netUnits, details.Shipment)

	// 14. report and rollover
	report := entities.WeeklyReport{
		Week:                  week,
		CompanyID:             c.ID,
		ShippingWeek:          shipping,
		Costs:                 weekly,
		CumulativeCosts:       cumulative,
		Machines:              machineRecords(floor, output, d),
		Inventory:             entities.NewInventorySnapshot(inv),
		PendingOrders:         pendingOrders(book),
		Demand:                demandLines(c.Demand, week, details.Shipping),
		Performance:           s.costs.Performance(actual, netUnits, details.Shipment),
		CumulativePerformance: s.costs.CumulativePerformance(c.Performance),
		Workforce: entities.WorkforceSummary{
			Headcount:         wf.Len(),
			Hired:             operatorIDs(hired),
			SentToTraining:    training.Sent,
			CompletedTraining: completed,
			LaidOff:           workforceCost.LaidOff,
			Terminated:        terminated,
		},
		Repairs:  repairs,
		Warnings: check.WarningMessages(),
	}

	c.Workforce = wf
	c.Machines = floor.AdvanceWeek()
	c.Inventory = inv.AdvanceWeek()
	c.Orders = book
	c.CumulativeCosts = cumulative
	c.Reports = append(c.Reports, report)
	c.CurrentWeek = week + 1
	c.RNG = src

	return &dto.WeekResult{
		Company:    c,
		Report:     report,
		Validation: check,
		Details:    details,
	}, nil
}

// revenue prices shipped units at the configured unit prices
func (s *Simulator) revenue(shipped entities.Amounts[entities.ProductType]) decimal.Decimal {
	total := decimal.Zero
	for _, p := range entities.Products {
		total = total.Add(shipped.Get(p).Mul(s.config.Materials.UnitPrices.Get(p)))
	}
	return total
}

// applyAssignments attaches each machine decision to its machine
func applyAssignments(floor entities.MachineFloor, d entities.Decisions) entities.MachineFloor {
	next := floor.Clone()
	for i, m := range next.Machines {
		md, ok := d.Machine(m.ID)
		if !ok {
			continue
		}
		line, err := md.Line()
		if err != nil {
			continue
		}
		next.Machines[i] = m.Assign(entities.MachineAssignment{
			OperatorID:      md.Operator(),
			Line:            line,
			ScheduledHours:  md.ScheduledHours,
			SendForTraining: md.SendForTraining,
		})
	}
	return next
}

func operatorIDs(ops []entities.Operator) []int {
	if len(ops) == 0 {
		return nil
	}
	ids := make([]int, len(ops))
	for i, op := range ops {
		ids[i] = op.ID
	}
	return ids
}
