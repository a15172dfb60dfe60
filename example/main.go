package main

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/application/services/simulation"
	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
)

// strategy decides one company's week from its current state
type strategy struct {
	name   string
	decide func(c *entities.Company) entities.Decisions
}

func main() {
	ctx := context.Background()
	cfg := config.Default()
	sim := simulation.NewSimulator(cfg, false)

	strategies := []strategy{
		{"steady", steady(decimal.NewFromInt(40), decimal.NewFromInt(6000))},
		{"lean", steady(decimal.NewFromInt(30), decimal.NewFromInt(3000))},
		{"overtime", steady(decimal.NewFromInt(50), decimal.NewFromInt(9000))},
	}

	companies := make([]*entities.Company, len(strategies))
	for i, s := range strategies {
		c, err := sim.NewCompany(i+1, s.name, 2024)
		if err != nil {
			log.Fatal(err)
		}
		companies[i] = c
	}

	game, err := simulation.NewGame(sim, companies...)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Running %d companies for %d weeks\n\n", len(strategies), cfg.Simulation.MaxWeeks)
	for !game.Over() {
		decisions := make(map[int]entities.Decisions, len(strategies))
		for i, s := range strategies {
			c, err := game.Company(i + 1)
			if err != nil {
				log.Fatal(err)
			}
			decisions[c.ID] = s.decide(c)
		}
		results, err := game.ProcessWeek(ctx, decisions)
		if err != nil {
			log.Fatalf("week %d: %v", game.Week(), err)
		}
		if r := results[1].Report; r.ShippingWeek {
			fmt.Printf("week %2d shipped\n", r.Week)
		}
	}

	fmt.Printf("\n%-10s %14s %10s\n", "Company", "Total cost", "On-time %")
	for i, c := range game.Companies() {
		latest, _ := c.LatestReport()
		onTime := "-"
		if p := latest.CumulativePerformance.OnTimeDelivery; p != nil {
			onTime = p.StringFixed(1)
		}
		fmt.Printf("%-10s %14s %10s\n", strategies[i].name, latest.CumulativeCosts.Total().StringFixed(2), onTime)
	}
}

// steady runs every machine on the line with the largest remaining demand and
// reorders raw materials every week
func steady(hours, rawMaterials decimal.Decimal) func(c *entities.Company) entities.Decisions {
	return func(c *entities.Company) entities.Decisions {
		line := busiestLine(c)
		d := entities.Decisions{
			Week:                  c.CurrentWeek,
			CompanyID:             c.ID,
			QualityBudget:         decimal.NewFromInt(750),
			MaintenanceBudget:     decimal.NewFromInt(500),
			RawMaterialsRegular:   rawMaterials,
			RawMaterialsExpedited: decimal.Zero,
			PartOrders:            entities.Amounts[entities.PartType]{},
		}
		for _, m := range c.Machines.Machines {
			d.Machines = append(d.Machines, entities.MachineDecision{
				MachineID:      m.ID,
				PartCode:       int(line) + 1,
				ScheduledHours: hours,
			})
		}
		return d
	}
}

func busiestLine(c *entities.Company) entities.ProductType {
	next := c.Demand.NextShippingWeek(c.CurrentWeek)
	best, bestDemand := entities.ProductX, decimal.Zero
	for _, f := range c.Demand.ForWeek(next) {
		if f.TotalDemand().GreaterThan(bestDemand) {
			best, bestDemand = f.Product, f.TotalDemand()
		}
	}
	return best
}
