package production

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/domain/rng"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
)

// MachineResult is one machine's output for the week
type MachineResult struct {
	MachineID       int                   `json:"machine_id"`
	Department      entities.Department   `json:"department"`
	OperatorID      int                   `json:"operator_id,omitempty"`
	Line            *entities.ProductType `json:"line,omitempty"`
	Staffed         bool                  `json:"staffed"`
	ScheduledHours  decimal.Decimal       `json:"scheduled_hours"`
	SetupHours      decimal.Decimal       `json:"setup_hours"`
	ProductiveHours decimal.Decimal       `json:"productive_hours"`
	Efficiency      decimal.Decimal       `json:"efficiency"`
	PlannedGross    decimal.Decimal       `json:"planned_gross"`
	Gross           decimal.Decimal       `json:"gross"`
	Rejects         decimal.Decimal       `json:"rejects"`
	Net             decimal.Decimal       `json:"net"`
}

// DepartmentResult aggregates one department's machines by item family
type DepartmentResult[K entities.ItemType] struct {
	Department      entities.Department `json:"department"`
	Machines        []MachineResult     `json:"machines"`
	ScheduledHours  decimal.Decimal     `json:"scheduled_hours"`
	SetupHours      decimal.Decimal     `json:"setup_hours"`
	ProductiveHours decimal.Decimal     `json:"productive_hours"`
	PlannedGross    entities.Amounts[K] `json:"planned_gross"`
	Gross           entities.Amounts[K] `json:"gross"`
	Rejects         entities.Amounts[K] `json:"rejects"`
	Net             entities.Amounts[K] `json:"net"`
}

// Result is the week's production across both departments
type Result struct {
	Parts    DepartmentResult[entities.PartType]    `json:"parts"`
	Assembly DepartmentResult[entities.ProductType] `json:"assembly"`
}

// Machines returns every machine result in id order
func (r Result) Machines() []MachineResult {
	out := make([]MachineResult, 0, len(r.Parts.Machines)+len(r.Assembly.Machines))
	out = append(out, r.Parts.Machines...)
	return append(out, r.Assembly.Machines...)
}

// Machine looks up the result for a machine id
func (r Result) Machine(id int) (MachineResult, bool) {
	for _, m := range r.Machines() {
		if m.MachineID == id {
			return m, true
		}
	}
	return MachineResult{}, false
}

// Engine computes machine output from operator efficiency and the rate table
type Engine struct {
	config config.Config
}

// NewEngine creates a production engine over the given rate table
func NewEngine(cfg config.Config) *Engine {
	return &Engine{config: cfg}
}

// SetupTime returns the changeover time when m switches to line.
// Zero on first use and when repeating the same line.
func (e *Engine) SetupTime(m entities.Machine, line entities.ProductType) decimal.Decimal {
	if !m.SetupRequired(line) {
		return decimal.Zero
	}
	return e.config.SetupHours(m.Department)
}

// MachineProduction computes one machine's planned output. Machines that are
// idle, or whose operator could not be scheduled, produce nothing.
func (e *Engine) MachineProduction(m entities.Machine, efficiency decimal.Decimal, staffed bool) MachineResult {
	result := MachineResult{
		MachineID:       m.ID,
		Department:      m.Department,
		ScheduledHours:  decimal.Zero,
		SetupHours:      decimal.Zero,
		ProductiveHours: decimal.Zero,
		Efficiency:      decimal.Zero,
		PlannedGross:    decimal.Zero,
		Gross:           decimal.Zero,
		Rejects:         decimal.Zero,
		Net:             decimal.Zero,
	}
	if !m.IsAssigned() {
		return result
	}

	a := m.Assignment
	line := a.Line
	result.OperatorID = a.OperatorID
	result.Line = &line
	if !staffed {
		return result
	}

	result.Staffed = true
	result.ScheduledHours = a.ScheduledHours
	setup := e.SetupTime(m, line)
	if setup.GreaterThan(a.ScheduledHours) {
		setup = a.ScheduledHours
	}
	result.SetupHours = setup
	result.Efficiency = efficiency
	result.ProductiveHours = entities.MaxZero(a.ScheduledHours.Sub(setup)).Mul(efficiency)
	result.PlannedGross = result.ProductiveHours.Mul(e.config.ProductionRate(m.Department, line))
	return e.withGross(result, result.PlannedGross)
}

// withGross sets gross output and derives rejects and net from it
func (e *Engine) withGross(r MachineResult, gross decimal.Decimal) MachineResult {
	r.Gross = gross
	r.Rejects = gross.Mul(e.config.Production.RejectRate)
	r.Net = gross.Sub(r.Rejects)
	return r
}

// Calculate computes planned output for every machine on the floor.
// efficiencies maps machine id to the efficiency of its scheduled operator.
func (e *Engine) Calculate(floor entities.MachineFloor, efficiencies map[int]decimal.Decimal) Result {
	var parts, assembly []MachineResult
	for _, m := range floor.Machines {
		eff, staffed := efficiencies[m.ID]
		r := e.MachineProduction(m, eff, staffed)
		if m.Department == entities.PartsDepartment {
			parts = append(parts, r)
		} else {
			assembly = append(assembly, r)
		}
	}
	return Result{
		Parts:    aggregate(entities.PartsDepartment, parts, entities.ProductType.Part),
		Assembly: aggregate(entities.AssemblyDepartment, assembly, identity),
	}
}

// ApplyMaterialLimits scales gross output down to the material actually
// available. partsFill applies to every parts machine; assemblyFill is per product.
// Fill ratios are in [0, 1]; a missing assembly ratio means no limit.
func (e *Engine) ApplyMaterialLimits(r Result, partsFill decimal.Decimal, assemblyFill entities.Amounts[entities.ProductType]) Result {
	parts := make([]MachineResult, len(r.Parts.Machines))
	for i, m := range r.Parts.Machines {
		parts[i] = e.withGross(m, m.PlannedGross.Mul(clampFill(partsFill)))
	}

	assembly := make([]MachineResult, len(r.Assembly.Machines))
	for i, m := range r.Assembly.Machines {
		fill := decimal.NewFromInt(1)
		if m.Line != nil {
			if f, ok := assemblyFill[*m.Line]; ok {
				fill = clampFill(f)
			}
		}
		assembly[i] = e.withGross(m, m.PlannedGross.Mul(fill))
	}

	return Result{
		Parts:    aggregate(entities.PartsDepartment, parts, entities.ProductType.Part),
		Assembly: aggregate(entities.AssemblyDepartment, assembly, identity),
	}
}

// UpdateFloor records setup hours and sets each machine's last line. The last
// line only changes when the machine produced net output this week.
func (e *Engine) UpdateFloor(floor entities.MachineFloor, r Result) entities.MachineFloor {
	next := floor.Clone()
	for i, m := range next.Machines {
		res, ok := r.Machine(m.ID)
		if !ok {
			continue
		}
		m.SetupHours = res.SetupHours
		if res.Line != nil && res.Net.IsPositive() {
			line := *res.Line
			m.LastLine = &line
		}
		next.Machines[i] = m
	}
	return next
}

// RollRepairs draws one repair trial per assigned machine in id order and
// returns repair counts per product line
func (e *Engine) RollRepairs(floor entities.MachineFloor, src rng.Source) (entities.MachineFloor, map[entities.ProductType]int, rng.Source) {
	next := floor.Clone()
	repairs := make(map[entities.ProductType]int)
	for i, m := range next.Machines {
		if !m.IsAssigned() {
			continue
		}
		var broken bool
		broken, src = src.Bernoulli(e.config.Equipment.RepairProbability)
		if broken {
			m.NeedsRepair = true
			repairs[m.Assignment.Line]++
			next.Machines[i] = m
		}
	}
	return next, repairs, src
}

func identity(p entities.ProductType) entities.ProductType { return p }

func clampFill(f decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if f.IsNegative() {
		return decimal.Zero
	}
	if f.GreaterThan(one) {
		return one
	}
	return f
}

func aggregate[K entities.ItemType](dept entities.Department, machines []MachineResult, key func(entities.ProductType) K) DepartmentResult[K] {
	d := DepartmentResult[K]{
		Department:      dept,
		Machines:        machines,
		ScheduledHours:  decimal.Zero,
		SetupHours:      decimal.Zero,
		ProductiveHours: decimal.Zero,
		PlannedGross:    make(entities.Amounts[K]),
		Gross:           make(entities.Amounts[K]),
		Rejects:         make(entities.Amounts[K]),
		Net:             make(entities.Amounts[K]),
	}
	for _, m := range machines {
		d.ScheduledHours = d.ScheduledHours.Add(m.ScheduledHours)
		d.SetupHours = d.SetupHours.Add(m.SetupHours)
		d.ProductiveHours = d.ProductiveHours.Add(m.ProductiveHours)
		if m.Line == nil {
			continue
		}
		k := key(*m.Line)
		d.PlannedGross.Add(k, m.PlannedGross)
		d.Gross.Add(k, m.Gross)
		d.Rejects.Add(k, m.Rejects)
		d.Net.Add(k, m.Net)
	}
	return d
}
