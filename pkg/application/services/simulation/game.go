package simulation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/prosim/pkg/application/dto"
	"github.com/vsinha/prosim/pkg/domain/entities"
)

var (
	ErrGameOver         = errors.New("game is over")
	ErrMissingDecisions = errors.New("missing decisions")
	ErrUnknownCompany   = errors.New("unknown company")
)

// Game runs several companies on a shared week counter. Companies never share
// state, so a week is processed for all of them in parallel and committed only
// when every company succeeds.
type Game struct {
	sim       *Simulator
	mu        sync.RWMutex
	week      int
	companies map[int]*entities.Company
}

// NewGame creates a game over companies that all stand at the same week
func NewGame(sim *Simulator, companies ...*entities.Company) (*Game, error) {
	if len(companies) == 0 {
		return nil, fmt.Errorf("game needs at least one company")
	}
	g := &Game{sim: sim, week: companies[0].CurrentWeek, companies: make(map[int]*entities.Company, len(companies))}
	for _, c := range companies {
		if _, dup := g.companies[c.ID]; dup {
			return nil, fmt.Errorf("duplicate company id %d", c.ID)
		}
		if c.CurrentWeek != g.week {
			return nil, fmt.Errorf("company %d is at week %d, expected %d", c.ID, c.CurrentWeek, g.week)
		}
		g.companies[c.ID] = c
	}
	return g, nil
}

// Week returns the week the game is waiting on
func (g *Game) Week() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.week
}

// Over reports whether the configured number of weeks has been played
func (g *Game) Over() bool {
	return g.Week() > g.sim.Config().Simulation.MaxWeeks
}

// Company returns the current state of one company
func (g *Game) Company(id int) (*entities.Company, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.companies[id]
	if !ok {
		return nil, fmt.Errorf("company %d: %w", id, ErrUnknownCompany)
	}
	return c, nil
}

// Companies returns every company in id order
func (g *Game) Companies() []*entities.Company {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*entities.Company, 0, len(g.companies))
	for _, c := range g.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ProcessWeek runs one week for every company. decisions must hold exactly one
// entry per company. If any company fails, no company advances.
func (g *Game) ProcessWeek(ctx context.Context, decisions map[int]entities.Decisions) (map[int]*dto.WeekResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.week > g.sim.Config().Simulation.MaxWeeks {
		return nil, fmt.Errorf("week %d: %w", g.week, ErrGameOver)
	}
	for id := range decisions {
		if _, ok := g.companies[id]; !ok {
			return nil, fmt.Errorf("company %d: %w", id, ErrUnknownCompany)
		}
	}

	ids := make([]int, 0, len(g.companies))
	for id := range g.companies {
		if _, ok := decisions[id]; !ok {
			return nil, fmt.Errorf("company %d week %d: %w", id, g.week, ErrMissingDecisions)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	results := make([]*dto.WeekResult, len(ids))
	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			res, err := g.sim.ProcessWeek(ctx, g.companies[id], decisions[id])
			if err != nil {
				errs[i] = fmt.Errorf("company %d: %w", id, err)
				return
			}
			results[i] = res
		}(i, id)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	out := make(map[int]*dto.WeekResult, len(ids))
	for i, id := range ids {
		g.companies[id] = results[i].Company
		out[id] = results[i]
	}
	g.week++
	return out, nil
}
