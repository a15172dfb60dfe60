package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
	testhelpers "github.com/vsinha/prosim/pkg/infrastructure/testing"
)

func newGame(t *testing.T, cfg config.Config, ids ...int) *Game {
	t.Helper()
	sim := NewSimulator(cfg, false)
	var companies []*entities.Company
	for _, id := range ids {
		c, err := sim.NewCompany(id, "Team", uint64(100+id))
		require.NoError(t, err)
		companies = append(companies, c)
	}
	g, err := NewGame(sim, companies...)
	require.NoError(t, err)
	return g
}

func TestGame_ProcessWeekAdvancesAllCompanies(t *testing.T) {
	g := newGame(t, config.Default(), 1, 2, 3)

	results, err := g.ProcessWeek(context.Background(), map[int]entities.Decisions{
		1: testhelpers.UniformDecisions(1, 1, 1, "40"),
		2: testhelpers.UniformDecisions(1, 2, 2, "40"),
		3: testhelpers.IdleDecisions(1, 3),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 2, g.Week())

	for _, c := range g.Companies() {
		assert.Equal(t, 2, c.CurrentWeek)
		assert.Equal(t, c.ID, results[c.ID].Report.CompanyID)
	}
}

func TestGame_AllOrNothing(t *testing.T) {
	g := newGame(t, config.Default(), 1, 2)

	bad := testhelpers.UniformDecisions(1, 2, 1, "40")
	bad.Machines[0].ScheduledHours = testhelpers.Dec("99")
	_, err := g.ProcessWeek(context.Background(), map[int]entities.Decisions{
		1: testhelpers.UniformDecisions(1, 1, 1, "40"),
		2: bad,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company 2")
	assert.Equal(t, 1, g.Week())

	c1, err := g.Company(1)
	require.NoError(t, err)
	assert.Equal(t, 1, c1.CurrentWeek, "company 1 is not committed when company 2 fails")
}

func TestGame_DecisionSetMustMatchCompanies(t *testing.T) {
	g := newGame(t, config.Default(), 1, 2)

	_, err := g.ProcessWeek(context.Background(), map[int]entities.Decisions{
		1: testhelpers.UniformDecisions(1, 1, 1, "40"),
	})
	assert.ErrorIs(t, err, ErrMissingDecisions)

	_, err = g.ProcessWeek(context.Background(), map[int]entities.Decisions{
		1: testhelpers.UniformDecisions(1, 1, 1, "40"),
		2: testhelpers.UniformDecisions(1, 2, 1, "40"),
		5: testhelpers.UniformDecisions(1, 5, 1, "40"),
	})
	assert.ErrorIs(t, err, ErrUnknownCompany)

	_, err = g.Company(9)
	assert.ErrorIs(t, err, ErrUnknownCompany)
}

func TestGame_Over(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.MaxWeeks = 1
	g := newGame(t, cfg, 1)

	assert.False(t, g.Over())
	_, err := g.ProcessWeek(context.Background(), map[int]entities.Decisions{1: testhelpers.IdleDecisions(1, 1)})
	require.NoError(t, err)
	assert.True(t, g.Over())

	_, err = g.ProcessWeek(context.Background(), map[int]entities.Decisions{1: testhelpers.IdleDecisions(2, 1)})
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestNewGame_RejectsMismatchedCompanies(t *testing.T) {
	sim := NewSimulator(config.Default(), false)
	a, err := sim.NewCompany(1, "A", 1)
	require.NoError(t, err)
	b := a.Clone()
	_, err = NewGame(sim, a, b)
	assert.Error(t, err, "duplicate ids")

	c, err := sim.NewCompany(2, "C", 2)
	require.NoError(t, err)
	c.CurrentWeek = 3
	_, err = NewGame(sim, a, c)
	assert.Error(t, err, "different weeks")

	_, err = NewGame(sim)
	assert.Error(t, err)
}
