package simulation

import (
	"context"
	"fmt"
	"testing"

	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
	testhelpers "github.com/vsinha/prosim/pkg/infrastructure/testing"
)

func BenchmarkSimulator_ProcessWeek(b *testing.B) {
	ctx := context.Background()
	sim := NewSimulator(config.Default(), false)
	company := testhelpers.NewTestCompany(b, 1)
	d := testhelpers.UniformDecisions(1, 1, 1, "40")
	d.RawMaterialsRegular = testhelpers.Dec("5000")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sim.ProcessWeek(ctx, company, d); err != nil {
			b.Fatalf("ProcessWeek failed: %v", err)
		}
	}
}

func BenchmarkSimulator_FullGame(b *testing.B) {
	ctx := context.Background()
	cfg := config.Default()
	sim := NewSimulator(cfg, false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		company, err := sim.NewCompany(1, "Bench", uint64(i))
		if err != nil {
			b.Fatal(err)
		}
		for week := 1; week <= cfg.Simulation.MaxWeeks; week++ {
			d := testhelpers.UniformDecisions(week, 1, week%3+1, "40")
			d.RawMaterialsRegular = testhelpers.Dec("5000")
			res, err := sim.ProcessWeek(ctx, company, d)
			if err != nil {
				b.Fatalf("week %d failed: %v", week, err)
			}
			company = res.Company
		}
	}
}

func BenchmarkGame_ProcessWeek(b *testing.B) {
	for _, n := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("companies=%d", n), func(b *testing.B) {
			ctx := context.Background()
			sim := NewSimulator(config.Default(), false)
			companies := make([]*entities.Company, n)
			decisions := make(map[int]entities.Decisions, n)
			for id := 1; id <= n; id++ {
				companies[id-1] = testhelpers.NewTestCompany(b, id)
				decisions[id] = testhelpers.UniformDecisions(1, id, 1, "40")
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				g, err := NewGame(sim, companies...)
				if err != nil {
					b.Fatal(err)
				}
				if _, err := g.ProcessWeek(ctx, decisions); err != nil {
					b.Fatalf("ProcessWeek failed: %v", err)
				}
			}
		})
	}
}
