package repositories

import (
	"errors"

	"github.com/vsinha/prosim/pkg/domain/entities"
)

var (
	ErrCompanyNotFound     = errors.New("company not found")
	ErrSnapshotNotFound    = errors.New("snapshot not found")
	ErrCorruptedSnapshot   = errors.New("corrupted snapshot")
	ErrIncompatibleVersion = errors.New("incompatible snapshot version")
)

// CompanyRepository stores company state. Every appended state is kept, so a
// company can be inspected at any past week.
type CompanyRepository interface {
	// Current returns the latest state of a company
	Current(id int) (*entities.Company, error)
	// Append stores a new state and makes it current
	Append(company *entities.Company) error
	// History returns every stored state in week order
	History(id int) ([]*entities.Company, error)
	// AtWeek returns the state the company had at the start of week
	AtWeek(id, week int) (*entities.Company, error)
	IDs() ([]int, error)
}
