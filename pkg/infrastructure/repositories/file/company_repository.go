// Package file stores company states as JSON snapshots on disk. Each company
// has its own directory with one snapshot per week:
//
//	<dir>/company-001/week-003.json
//
// The snapshot with the highest week is the current state. Writes go to a
// temp file that is renamed into place, so a crash never leaves a partial snapshot.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/domain/repositories"
)

// SchemaVersion is the snapshot layout written by this package
const SchemaVersion = 1

type snapshot struct {
	SchemaVersion int               `json:"schema_version"`
	SavedAt       time.Time         `json:"saved_at"`
	Company       *entities.Company `json:"company"`
}

// CompanyRepository provides file-backed company storage
type CompanyRepository struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewCompanyRepository creates a repository rooted at dir, creating it if needed
func NewCompanyRepository(dir string) (*CompanyRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &CompanyRepository{dir: dir, now: time.Now}, nil
}

// Verify interface compliance
var _ repositories.CompanyRepository = (*CompanyRepository)(nil)

// Dir returns the root directory
func (r *CompanyRepository) Dir() string {
	return r.dir
}

// Current returns the snapshot with the highest week
func (r *CompanyRepository) Current(id int) (*entities.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	weeks, err := r.weeks(id)
	if err != nil {
		return nil, err
	}
	return r.load(id, weeks[len(weeks)-1])
}

// Append writes company as the snapshot of its current week and drops any
// snapshots of later weeks
func (r *CompanyRepository) Append(company *entities.Company) error {
	if company == nil {
		return fmt.Errorf("company cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.companyDir(company.ID), 0o755); err != nil {
		return fmt.Errorf("failed to create company directory: %w", err)
	}

	data, err := json.MarshalIndent(snapshot{
		SchemaVersion: SchemaVersion,
		SavedAt:       r.now().UTC(),
		Company:       company,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	path := r.path(company.ID, company.CurrentWeek)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename snapshot: %w", err)
	}

	weeks, err := r.weeks(company.ID)
	if err != nil {
		return err
	}
	for _, w := range weeks {
		if w > company.CurrentWeek {
			if err := os.Remove(r.path(company.ID, w)); err != nil {
				return fmt.Errorf("failed to drop stale snapshot for week %d: %w", w, err)
			}
		}
	}
	return nil
}

// History loads every snapshot of a company in week order
func (r *CompanyRepository) History(id int) ([]*entities.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	weeks, err := r.weeks(id)
	if err != nil {
		return nil, err
	}
	out := make([]*entities.Company, 0, len(weeks))
	for _, w := range weeks {
		c, err := r.load(id, w)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// AtWeek loads the snapshot taken at the start of week
func (r *CompanyRepository) AtWeek(id, week int) (*entities.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(id, week)
}

// IDs lists the companies that have at least one snapshot
func (r *CompanyRepository) IDs() ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read state directory: %w", err)
	}
	var ids []int
	for _, e := range entries {
		var id int
		if !e.IsDir() {
			continue
		}
		if _, err := fmt.Sscanf(e.Name(), "company-%d", &id); err != nil {
			continue
		}
		if weeks, err := r.weeks(id); err == nil && len(weeks) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (r *CompanyRepository) companyDir(id int) string {
	return filepath.Join(r.dir, fmt.Sprintf("company-%03d", id))
}

func (r *CompanyRepository) path(id, week int) string {
	return filepath.Join(r.companyDir(id), fmt.Sprintf("week-%03d.json", week))
}

// weeks lists the snapshot weeks of a company in ascending order
func (r *CompanyRepository) weeks(id int) ([]int, error) {
	entries, err := os.ReadDir(r.companyDir(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("company %d: %w", id, repositories.ErrCompanyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read company directory: %w", err)
	}

	var weeks []int
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		var week int
		if _, err := fmt.Sscanf(name, "week-%d.json", &week); err != nil {
			continue
		}
		weeks = append(weeks, week)
	}
	if len(weeks) == 0 {
		return nil, fmt.Errorf("company %d: %w", id, repositories.ErrCompanyNotFound)
	}
	sort.Ints(weeks)
	return weeks, nil
}

func (r *CompanyRepository) load(id, week int) (*entities.Company, error) {
	data, err := os.ReadFile(r.path(id, week))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("company %d week %d: %w", id, week, repositories.ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrCorruptedSnapshot, err)
	}
	if snap.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", repositories.ErrIncompatibleVersion, snap.SchemaVersion, SchemaVersion)
	}
	if snap.Company == nil {
		return nil, fmt.Errorf("%w: snapshot has no company", repositories.ErrCorruptedSnapshot)
	}
	return snap.Company, nil
}
