package entities

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/domain/rng"
)

// Company is the unit of simulation. A published Company is never mutated;
// week transitions work on a Clone.
type Company struct {
	ID              int               `json:"id"`
	Name            string            `json:"name"`
	CurrentWeek     int               `json:"current_week"`
	Workforce       Workforce         `json:"workforce"`
	Machines        MachineFloor      `json:"machines"`
	Inventory       Inventory         `json:"inventory"`
	Orders          OrderBook         `json:"orders"`
	Demand          DemandSchedule    `json:"demand"`
	Reports         []WeeklyReport    `json:"reports"`
	CumulativeCosts CostSheet         `json:"cumulative_costs"`
	Performance     PerformanceTotals `json:"performance"`
	TotalRevenue    decimal.Decimal   `json:"total_revenue"`
	RNG             rng.Source        `json:"rng"`
}

// NewCompany creates a validated Company at week 1
func NewCompany(
	id int,
	name string,
	workforce Workforce,
	machines MachineFloor,
	inventory Inventory,
	demand DemandSchedule,
	src rng.Source,
) (*Company, error) {
	if id <= 0 {
		return nil, fmt.Errorf("company id must be positive, got %d", id)
	}
	if name == "" {
		return nil, fmt.Errorf("company name cannot be empty")
	}
	if machines.Size() == 0 {
		return nil, fmt.Errorf("company must have at least one machine")
	}

	return &Company{
		ID:              id,
		Name:            name,
		CurrentWeek:     1,
		Workforce:       workforce,
		Machines:        machines,
		Inventory:       inventory,
		Demand:          demand,
		CumulativeCosts: NewCostSheet(),
		Performance:     NewPerformanceTotals(),
		TotalRevenue:    decimal.Zero,
		RNG:             src,
	}, nil
}

// Clone returns a deep copy. Past reports are shared read-only values.
func (c *Company) Clone() *Company {
	out := *c
	out.Workforce = c.Workforce.Clone()
	out.Machines = c.Machines.Clone()
	out.Inventory = c.Inventory.Clone()
	out.Orders = c.Orders.Clone()
	out.Demand = c.Demand.Clone()
	out.Reports = make([]WeeklyReport, len(c.Reports))
	copy(out.Reports, c.Reports)
	out.CumulativeCosts = NewCostSheet().Add(c.CumulativeCosts)
	return &out
}

// LatestReport returns the most recent weekly report
func (c *Company) LatestReport() (WeeklyReport, bool) {
	if len(c.Reports) == 0 {
		return WeeklyReport{}, false
	}
	return c.Reports[len(c.Reports)-1], true
}

// Report returns the report of a past week
func (c *Company) Report(week int) (WeeklyReport, bool) {
	for _, r := range c.Reports {
		if r.Week == week {
			return r, true
		}
	}
	return WeeklyReport{}, false
}
