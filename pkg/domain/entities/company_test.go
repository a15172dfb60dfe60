package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/prosim/pkg/domain/rng"
)

func newTestCompany(t *testing.T) *Company {
	t.Helper()
	floor, err := NewMachineFloor(4, 5)
	require.NoError(t, err)
	inv, err := NewInventory(decimal.NewFromInt(5000), nil, nil)
	require.NoError(t, err)
	schedule, err := NewDemandSchedule(4)
	require.NoError(t, err)

	w := NewWorkforce()
	for id := 1; id <= 9; id++ {
		w = w.With(Operator{ID: id, Proficiency: decimal.NewFromInt(1)})
	}

	c, err := NewCompany(1, "Acme", w, floor, inv, schedule, rng.New(42))
	require.NoError(t, err)
	return c
}

func TestNewCompany(t *testing.T) {
	c := newTestCompany(t)
	assert.Equal(t, 1, c.CurrentWeek)
	assert.True(t, c.CumulativeCosts.Total().IsZero())

	_, err := NewCompany(0, "x", NewWorkforce(), c.Machines, c.Inventory, c.Demand, rng.New(1))
	assert.EqualError(t, err, "company id must be positive, got 0")
	_, err = NewCompany(1, "", NewWorkforce(), c.Machines, c.Inventory, c.Demand, rng.New(1))
	assert.EqualError(t, err, "company name cannot be empty")
}

func TestCompany_CloneIsDeep(t *testing.T) {
	c := newTestCompany(t)
	c.Reports = append(c.Reports, WeeklyReport{Week: 1})

	clone := c.Clone()
	clone.Workforce = clone.Workforce.Without(1)
	clone.Inventory.Parts[PartXPrime] = PartsPool{Part: PartXPrime, Beginning: decimal.NewFromInt(99)}
	clone.Machines.Machines[0].NeedsRepair = true
	clone.Reports = append(clone.Reports, WeeklyReport{Week: 2})
	clone.CumulativeCosts.Overhead.FixedExpense = decimal.NewFromInt(1500)

	assert.Equal(t, 9, c.Workforce.Len())
	assert.True(t, c.Inventory.Part(PartXPrime).Beginning.IsZero())
	assert.False(t, c.Machines.Machines[0].NeedsRepair)
	assert.Len(t, c.Reports, 1)
	assert.True(t, c.CumulativeCosts.Total().IsZero())

	latest, ok := clone.LatestReport()
	require.True(t, ok)
	assert.Equal(t, 2, latest.Week)
	_, ok = c.Report(2)
	assert.False(t, ok)
}

func TestCostSheet_Add(t *testing.T) {
	a := NewCostSheet()
	px := a.Product(ProductX)
	px.Labor = decimal.NewFromInt(400)
	a.Products[ProductX] = px
	a.Overhead.FixedExpense = decimal.NewFromInt(1500)

	sum := NewCostSheet().Add(a).Add(a)
	assert.True(t, sum.Product(ProductX).Labor.Equal(decimal.NewFromInt(800)))
	assert.True(t, sum.Total().Equal(decimal.NewFromInt(3800)))
	assert.True(t, a.Total().Equal(decimal.NewFromInt(1900)))
}
