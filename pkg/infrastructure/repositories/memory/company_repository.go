package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/domain/repositories"
)

// CompanyRepository provides in-memory company storage
type CompanyRepository struct {
	mu      sync.RWMutex
	history map[int][]*entities.Company
}

// NewCompanyRepository creates a new in-memory company repository
func NewCompanyRepository() *CompanyRepository {
	return &CompanyRepository{
		history: make(map[int][]*entities.Company),
	}
}

// Verify interface compliance
var _ repositories.CompanyRepository = (*CompanyRepository)(nil)

// Current returns the latest state of a company
func (r *CompanyRepository) Current(id int) (*entities.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := r.history[id]
	if len(states) == 0 {
		return nil, fmt.Errorf("company %d: %w", id, repositories.ErrCompanyNotFound)
	}
	return states[len(states)-1].Clone(), nil
}

// Append stores a copy of company as its current state. A state for a week
// already stored replaces that week and everything after it.
func (r *CompanyRepository) Append(company *entities.Company) error {
	if company == nil {
		return fmt.Errorf("company cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	states := r.history[company.ID]
	for i, s := range states {
		if s.CurrentWeek >= company.CurrentWeek {
			states = states[:i]
			break
		}
	}
	r.history[company.ID] = append(states, company.Clone())
	return nil
}

// History returns every stored state of a company in week order
func (r *CompanyRepository) History(id int) ([]*entities.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := r.history[id]
	if len(states) == 0 {
		return nil, fmt.Errorf("company %d: %w", id, repositories.ErrCompanyNotFound)
	}
	out := make([]*entities.Company, len(states))
	for i, s := range states {
		out[i] = s.Clone()
	}
	return out, nil
}

// AtWeek returns the state a company had at the start of week
func (r *CompanyRepository) AtWeek(id, week int) (*entities.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := r.history[id]
	if len(states) == 0 {
		return nil, fmt.Errorf("company %d: %w", id, repositories.ErrCompanyNotFound)
	}
	for _, s := range states {
		if s.CurrentWeek == week {
			return s.Clone(), nil
		}
	}
	return nil, fmt.Errorf("company %d week %d: %w", id, week, repositories.ErrSnapshotNotFound)
}

// IDs returns the stored company ids in ascending order
func (r *CompanyRepository) IDs() ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int, 0, len(r.history))
	for id := range r.history {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}
