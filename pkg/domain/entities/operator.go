package entities

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

const (
	MaxQualityTier   = 9
	MaxTrainingLevel = 10
)

// TrainingMatrix holds base efficiency percentages indexed by quality tier and training level
type TrainingMatrix [][]int

// Base returns the base efficiency fraction for a tier and level, clamping both indexes
func (m TrainingMatrix) Base(tier, level int) decimal.Decimal {
	if len(m) == 0 {
		return decimal.Zero
	}
	tier = clamp(tier, 0, len(m)-1)
	row := m[tier]
	if len(row) == 0 {
		return decimal.Zero
	}
	level = clamp(level, 0, len(row)-1)
	return decimal.NewFromInt(int64(row[level])).Div(decimal.NewFromInt(100))
}

// Validate checks the matrix shape and that every row is non-decreasing
func (m TrainingMatrix) Validate() error {
	if len(m) != MaxQualityTier+1 {
		return fmt.Errorf("training matrix must have %d tiers, got %d", MaxQualityTier+1, len(m))
	}
	for tier, row := range m {
		if len(row) != MaxTrainingLevel+1 {
			return fmt.Errorf("training matrix tier %d must have %d levels, got %d", tier, MaxTrainingLevel+1, len(row))
		}
		for level, pct := range row {
			if pct < 0 || pct > 200 {
				return fmt.Errorf("training matrix tier %d level %d out of range: %d", tier, level, pct)
			}
			if level > 0 && pct < row[level-1] {
				return fmt.Errorf("training matrix tier %d decreases at level %d", tier, level)
			}
		}
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Operator represents a worker who runs a machine
type Operator struct {
	ID                          int             `json:"id"`
	QualityTier                 int             `json:"quality_tier"`
	TrainingLevel               int             `json:"training_level"`
	Proficiency                 decimal.Decimal `json:"proficiency"`
	InTrainingClass             bool            `json:"in_training_class"`
	Department                  Department      `json:"department"`
	ConsecutiveWeeksUnscheduled int             `json:"consecutive_weeks_unscheduled"`
	HiredWeek                   int             `json:"hired_week"`
}

// NewOperator creates a validated Operator
func NewOperator(id, qualityTier, trainingLevel int, proficiency decimal.Decimal, hiredWeek int) (*Operator, error) {
	if id <= 0 {
		return nil, fmt.Errorf("operator id must be positive, got %d", id)
	}
	if qualityTier < 0 || qualityTier > MaxQualityTier {
		return nil, fmt.Errorf("quality tier must be between 0 and %d, got %d", MaxQualityTier, qualityTier)
	}
	if trainingLevel < 0 || trainingLevel > MaxTrainingLevel {
		return nil, fmt.Errorf("training level must be between 0 and %d, got %d", MaxTrainingLevel, trainingLevel)
	}
	if !proficiency.IsPositive() {
		return nil, fmt.Errorf("proficiency must be positive, got %s", proficiency)
	}

	return &Operator{
		ID:            id,
		QualityTier:   qualityTier,
		TrainingLevel: trainingLevel,
		Proficiency:   proficiency,
		HiredWeek:     hiredWeek,
	}, nil
}

// Efficiency returns base(tier, level) × proficiency, or zero while in training class
func (o Operator) Efficiency(m TrainingMatrix) decimal.Decimal {
	if o.InTrainingClass {
		return decimal.Zero
	}
	return m.Base(o.QualityTier, o.TrainingLevel).Mul(o.Proficiency)
}

// IsTrained reports whether the operator has completed at least one training session
func (o Operator) IsTrained() bool {
	return o.TrainingLevel > 0
}

// AtMaxTraining reports whether another session would have no effect
func (o Operator) AtMaxTraining() bool {
	return o.TrainingLevel >= MaxTrainingLevel
}

// AdvanceTraining returns the operator one level further, clamped at the maximum
func (o Operator) AdvanceTraining() Operator {
	if o.TrainingLevel < MaxTrainingLevel {
		o.TrainingLevel++
	}
	return o
}

// ShouldTerminate reports whether the operator has sat idle for threshold weeks
func (o Operator) ShouldTerminate(threshold int) bool {
	return o.ConsecutiveWeeksUnscheduled >= threshold
}

// Workforce is the roster of operators keyed by id. Transitions return a new roster.
type Workforce struct {
	Operators map[int]Operator `json:"operators"`
	NextID    int              `json:"next_id"`
}

// NewWorkforce creates an empty roster whose first id is 1
func NewWorkforce() Workforce {
	return Workforce{Operators: make(map[int]Operator), NextID: 1}
}

// Clone returns an independent copy
func (w Workforce) Clone() Workforce {
	ops := make(map[int]Operator, len(w.Operators))
	for id, op := range w.Operators {
		ops[id] = op
	}
	return Workforce{Operators: ops, NextID: w.NextID}
}

// Operator looks up an operator by id
func (w Workforce) Operator(id int) (Operator, bool) {
	op, ok := w.Operators[id]
	return op, ok
}

// With returns a roster containing op, replacing any operator with the same id
func (w Workforce) With(op Operator) Workforce {
	next := w.Clone()
	next.Operators[op.ID] = op
	if op.ID >= next.NextID {
		next.NextID = op.ID + 1
	}
	return next
}

// Without returns a roster with the operator removed. Ids are never reused.
func (w Workforce) Without(id int) Workforce {
	next := w.Clone()
	delete(next.Operators, id)
	return next
}

// Len returns the number of operators on the roster
func (w Workforce) Len() int {
	return len(w.Operators)
}

// IDs returns operator ids in ascending order
func (w Workforce) IDs() []int {
	ids := make([]int, 0, len(w.Operators))
	for id := range w.Operators {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// InTraining returns the ids of operators currently in training class
func (w Workforce) InTraining() []int {
	var ids []int
	for _, id := range w.IDs() {
		if w.Operators[id].InTrainingClass {
			ids = append(ids, id)
		}
	}
	return ids
}
