package workforce

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/domain/rng"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
)

// Assignment records one operator scheduled onto one machine
type Assignment struct {
	MachineID       int             `json:"machine_id"`
	OperatorID      int             `json:"operator_id"`
	ScheduledHours  decimal.Decimal `json:"scheduled_hours"`
	Efficiency      decimal.Decimal `json:"efficiency"`
	ProductiveHours decimal.Decimal `json:"productive_hours"`
}

// ScheduleResult is the outcome of scheduling operators onto the floor
type ScheduleResult struct {
	Assignments []Assignment `json:"assignments"`
	// Efficiencies maps machine id to the efficiency of its scheduled operator
	Efficiencies map[int]decimal.Decimal `json:"efficiencies"`
	Unscheduled  []int                   `json:"unscheduled"`
	// Unstaffed lists machines whose assigned operator is missing or in class
	Unstaffed            []int           `json:"unstaffed"`
	TotalScheduledHours  decimal.Decimal `json:"total_scheduled_hours"`
	TotalProductiveHours decimal.Decimal `json:"total_productive_hours"`
}

// TrainingResult lists the operators sent to training and those refused
type TrainingResult struct {
	Sent    []int `json:"sent"`
	Skipped []int `json:"skipped"`
}

// CostResult is the week's workforce cost breakdown
type CostResult struct {
	Hired           int             `json:"hired"`
	Trained         int             `json:"trained"`
	LaidOff         []int           `json:"laid_off"`
	Terminated      int             `json:"terminated"`
	HiringCost      decimal.Decimal `json:"hiring_cost"`
	TrainingCost    decimal.Decimal `json:"training_cost"`
	LayoffCost      decimal.Decimal `json:"layoff_cost"`
	TerminationCost decimal.Decimal `json:"termination_cost"`
}

// Total sums every workforce cost
func (c CostResult) Total() decimal.Decimal {
	return decimal.Sum(c.HiringCost, c.TrainingCost, c.LayoffCost, c.TerminationCost)
}

// Engine implements operator efficiency, training, scheduling, hiring and termination
type Engine struct {
	config config.Config
}

// NewEngine creates a workforce engine over the given rate table
func NewEngine(cfg config.Config) *Engine {
	return &Engine{config: cfg}
}

// Efficiency returns the operator's current efficiency
func (e *Engine) Efficiency(op entities.Operator) decimal.Decimal {
	return op.Efficiency(e.config.Workforce.TrainingMatrix)
}

// InitialRoster builds the starting operators from the configured profiles,
// cycling through them when count exceeds the profile list
func (e *Engine) InitialRoster(count int) (entities.Workforce, error) {
	profiles := e.config.Workforce.StartingRoster
	if count > 0 && len(profiles) == 0 {
		return entities.Workforce{}, fmt.Errorf("no starting roster profiles configured")
	}

	w := entities.NewWorkforce()
	for i := 0; i < count; i++ {
		profile := profiles[i%len(profiles)]
		op, err := entities.NewOperator(i+1, profile.QualityTier, 0, profile.Proficiency, 0)
		if err != nil {
			return entities.Workforce{}, fmt.Errorf("starting operator %d: %w", i+1, err)
		}
		w = w.With(*op)
	}
	return w, nil
}

// CompleteTraining advances every operator in class by one level and returns them to work.
// Runs at the start of a week, before new training is issued.
func (e *Engine) CompleteTraining(w entities.Workforce) (entities.Workforce, []int) {
	completed := w.InTraining()
	if len(completed) == 0 {
		return w, nil
	}
	next := w.Clone()
	for _, id := range completed {
		op := next.Operators[id].AdvanceTraining()
		op.InTrainingClass = false
		next.Operators[id] = op
	}
	return next, completed
}

// SendToTraining marks the requested operators as in class. Operators already in
// class, already at the maximum level, or unknown are skipped.
func (e *Engine) SendToTraining(w entities.Workforce, ids []int) (entities.Workforce, TrainingResult) {
	var result TrainingResult
	next := w.Clone()
	for _, id := range ids {
		op, ok := next.Operators[id]
		if !ok || op.InTrainingClass || op.AtMaxTraining() {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		op.InTrainingClass = true
		op.ConsecutiveWeeksUnscheduled = 0
		next.Operators[id] = op
		result.Sent = append(result.Sent, id)
	}
	return next, result
}

// Hire adds count operators with a random quality tier and proficiency.
// Trained hires start at level 1.
func (e *Engine) Hire(w entities.Workforce, count int, trained bool, week int, src rng.Source) (entities.Workforce, []entities.Operator, rng.Source, error) {
	if count <= 0 {
		return w, nil, src, nil
	}
	level := 0
	if trained {
		level = 1
	}
	lo, _ := e.config.Workforce.HireProficiencyMin.Float64()
	hi, _ := e.config.Workforce.HireProficiencyMax.Float64()

	next := w.Clone()
	hired := make([]entities.Operator, 0, count)
	for i := 0; i < count; i++ {
		var tier int
		var u float64
		tier, src = src.IntN(entities.MaxQualityTier + 1)
		u, src = src.Uniform(lo, hi)
		proficiency := decimal.NewFromFloat(u).Round(2)
		if proficiency.GreaterThan(e.config.Workforce.HireProficiencyMax) {
			proficiency = e.config.Workforce.HireProficiencyMax
		}

		op, err := entities.NewOperator(next.NextID, tier, level, proficiency, week)
		if err != nil {
			return w, nil, src, fmt.Errorf("failed to hire operator %d: %w", next.NextID, err)
		}
		next = next.With(*op)
		hired = append(hired, *op)
	}
	return next, hired, src, nil
}

// Schedule puts operators onto the assigned machines. Scheduled operators reset their
// idle counter and take the machine's department; every other operator not in class
// accrues one more unscheduled week.
func (e *Engine) Schedule(w entities.Workforce, floor entities.MachineFloor) (entities.Workforce, ScheduleResult) {
	result := ScheduleResult{
		Efficiencies:         make(map[int]decimal.Decimal),
		TotalScheduledHours:  decimal.Zero,
		TotalProductiveHours: decimal.Zero,
	}
	next := w.Clone()
	scheduled := make(map[int]bool)

	for _, m := range floor.Assigned() {
		op, ok := next.Operators[m.Assignment.OperatorID]
		if !ok || op.InTrainingClass {
			result.Unstaffed = append(result.Unstaffed, m.ID)
			continue
		}
		op.ConsecutiveWeeksUnscheduled = 0
		op.Department = m.Department
		next.Operators[op.ID] = op
		scheduled[op.ID] = true

		eff := e.Efficiency(op)
		hours := m.Assignment.ScheduledHours
		productive := hours.Mul(eff)
		result.Assignments = append(result.Assignments, Assignment{
			MachineID:       m.ID,
			OperatorID:      op.ID,
			ScheduledHours:  hours,
			Efficiency:      eff,
			ProductiveHours: productive,
		})
		result.Efficiencies[m.ID] = eff
		result.TotalScheduledHours = result.TotalScheduledHours.Add(hours)
		result.TotalProductiveHours = result.TotalProductiveHours.Add(productive)
	}

	for _, id := range next.IDs() {
		op := next.Operators[id]
		if scheduled[id] || op.InTrainingClass {
			continue
		}
		op.ConsecutiveWeeksUnscheduled++
		op.Department = entities.Unassigned
		next.Operators[id] = op
		result.Unscheduled = append(result.Unscheduled, id)
	}
	return next, result
}

// TerminateOverdue removes every operator idle for the configured number of weeks
func (e *Engine) TerminateOverdue(w entities.Workforce) (entities.Workforce, []int) {
	var terminated []int
	for _, id := range w.IDs() {
		op := w.Operators[id]
		if !op.InTrainingClass && op.ShouldTerminate(e.config.Workforce.TerminationThreshold) {
			terminated = append(terminated, id)
		}
	}
	if len(terminated) == 0 {
		return w, nil
	}
	next := w.Clone()
	for _, id := range terminated {
		delete(next.Operators, id)
	}
	return next, terminated
}

// WeeklyCost prices the week's workforce transitions. Operators in their first
// unscheduled week are laid off; w must be the roster after termination.
func (e *Engine) WeeklyCost(w entities.Workforce, hired, trained, terminated int) CostResult {
	cfg := e.config.Workforce

	var laidOff []int
	for _, id := range w.IDs() {
		op := w.Operators[id]
		if !op.InTrainingClass && op.ConsecutiveWeeksUnscheduled == 1 {
			laidOff = append(laidOff, id)
		}
	}

	return CostResult{
		Hired:           hired,
		Trained:         trained,
		LaidOff:         laidOff,
		Terminated:      terminated,
		HiringCost:      cfg.HiringFee.Mul(decimal.NewFromInt(int64(hired))),
		TrainingCost:    cfg.TrainingFee.Mul(decimal.NewFromInt(int64(trained))),
		LayoffCost:      cfg.LayoffFee.Mul(decimal.NewFromInt(int64(len(laidOff)))),
		TerminationCost: cfg.TerminationFee.Mul(decimal.NewFromInt(int64(terminated))),
	}
}
