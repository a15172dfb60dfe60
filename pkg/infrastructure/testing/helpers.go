package testing

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/domain/rng"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
)

// Dec parses a decimal literal, failing loudly on typos in fixtures
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// NewTestCompany builds the standard starting company: 4 parts and 5 assembly
// machines, the nine default operators (all untrained), 5,000 units of raw
// material and base demand forecast for the first two shipping weeks
func NewTestCompany(t testing.TB, id int) *entities.Company {
	t.Helper()
	cfg := config.Default()

	floor, err := entities.NewMachineFloor(cfg.Simulation.PartsMachines, cfg.Simulation.AssemblyMachines)
	if err != nil {
		t.Fatalf("failed to build floor: %v", err)
	}

	w := entities.NewWorkforce()
	for i, profile := range cfg.Workforce.StartingRoster {
		op, err := entities.NewOperator(i+1, profile.QualityTier, 0, profile.Proficiency, 0)
		if err != nil {
			t.Fatalf("failed to build operator %d: %v", i+1, err)
		}
		w = w.With(*op)
	}

	inv, err := entities.NewInventory(cfg.Simulation.StartingRawMaterials, nil, nil)
	if err != nil {
		t.Fatalf("failed to build inventory: %v", err)
	}

	schedule, err := entities.NewDemandSchedule(cfg.Demand.ShippingFrequency)
	if err != nil {
		t.Fatalf("failed to build schedule: %v", err)
	}
	for i := 1; i <= 2; i++ {
		week := i * cfg.Demand.ShippingFrequency
		for _, p := range entities.Products {
			schedule = schedule.With(entities.DemandForecast{
				Product:      p,
				ShippingWeek: week,
				Estimated:    cfg.Demand.BaseDemand.Get(p),
				Carryover:    decimal.Zero,
			})
		}
	}

	c, err := entities.NewCompany(id, fmt.Sprintf("Test Company %d", id), w, floor, inv, schedule, rng.New(uint64(id)))
	if err != nil {
		t.Fatalf("failed to build company: %v", err)
	}
	return c
}

// UniformDecisions schedules every machine of the standard floor for hours on
// one product line, with operator n on machine n and no orders
func UniformDecisions(week, companyID, partCode int, hours string) entities.Decisions {
	cfg := config.Default()
	machines := cfg.Simulation.PartsMachines + cfg.Simulation.AssemblyMachines

	d := entities.Decisions{
		Week:                  week,
		CompanyID:             companyID,
		QualityBudget:         decimal.Zero,
		MaintenanceBudget:     decimal.Zero,
		RawMaterialsRegular:   decimal.Zero,
		RawMaterialsExpedited: decimal.Zero,
		PartOrders:            entities.Amounts[entities.PartType]{},
	}
	for id := 1; id <= machines; id++ {
		d.Machines = append(d.Machines, entities.MachineDecision{
			MachineID:      id,
			PartCode:       partCode,
			ScheduledHours: Dec(hours),
		})
	}
	return d
}

// IdleDecisions leaves every machine unscheduled
func IdleDecisions(week, companyID int) entities.Decisions {
	return UniformDecisions(week, companyID, 1, "0")
}
