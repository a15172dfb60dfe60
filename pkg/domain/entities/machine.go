package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MachineAssignment is the weekly decision attached to a machine
type MachineAssignment struct {
	OperatorID      int             `json:"operator_id"`
	Line            ProductType     `json:"line"`
	ScheduledHours  decimal.Decimal `json:"scheduled_hours"`
	SendForTraining bool            `json:"send_for_training"`
}

// Machine is a production machine with a fixed department
type Machine struct {
	ID          int                `json:"id"`
	Department  Department         `json:"department"`
	Assignment  *MachineAssignment `json:"assignment,omitempty"`
	LastLine    *ProductType       `json:"last_line,omitempty"`
	SetupHours  decimal.Decimal    `json:"setup_hours"`
	NeedsRepair bool               `json:"needs_repair"`
}

// IsAssigned reports whether the machine will run this week
func (m Machine) IsAssigned() bool {
	return m.Assignment != nil &&
		!m.Assignment.SendForTraining &&
		m.Assignment.ScheduledHours.IsPositive()
}

// SetupRequired reports whether switching to line costs setup time.
// A machine that has never produced needs no setup.
func (m Machine) SetupRequired(line ProductType) bool {
	return m.LastLine != nil && *m.LastLine != line
}

// ItemLabel names what the machine makes for a line: X' in parts, X in assembly
func (m Machine) ItemLabel(line ProductType) string {
	if m.Department == PartsDepartment {
		return line.Part().String()
	}
	return line.String()
}

// Assign returns the machine carrying assignment a
func (m Machine) Assign(a MachineAssignment) Machine {
	m.Assignment = &a
	return m
}

// AdvanceWeek clears weekly state. LastLine is kept.
func (m Machine) AdvanceWeek() Machine {
	m.Assignment = nil
	m.SetupHours = decimal.Zero
	m.NeedsRepair = false
	return m
}

// MachineFloor is the ordered set of machines: parts block first, then assembly
type MachineFloor struct {
	Machines []Machine `json:"machines"`
}

// NewMachineFloor creates a floor with ids 1..parts in the parts department
// and parts+1..parts+assembly in the assembly department
func NewMachineFloor(parts, assembly int) (MachineFloor, error) {
	if parts <= 0 {
		return MachineFloor{}, fmt.Errorf("parts machine count must be positive, got %d", parts)
	}
	if assembly <= 0 {
		return MachineFloor{}, fmt.Errorf("assembly machine count must be positive, got %d", assembly)
	}

	machines := make([]Machine, 0, parts+assembly)
	for i := 1; i <= parts+assembly; i++ {
		dept := PartsDepartment
		if i > parts {
			dept = AssemblyDepartment
		}
		machines = append(machines, Machine{ID: i, Department: dept, SetupHours: decimal.Zero})
	}
	return MachineFloor{Machines: machines}, nil
}

// Size returns the number of machines
func (f MachineFloor) Size() int {
	return len(f.Machines)
}

// Machine looks up a machine by id
func (f MachineFloor) Machine(id int) (Machine, bool) {
	if id < 1 || id > len(f.Machines) {
		return Machine{}, false
	}
	return f.Machines[id-1], true
}

// Clone returns an independent copy
func (f MachineFloor) Clone() MachineFloor {
	machines := make([]Machine, len(f.Machines))
	for i, m := range f.Machines {
		if m.Assignment != nil {
			a := *m.Assignment
			m.Assignment = &a
		}
		if m.LastLine != nil {
			l := *m.LastLine
			m.LastLine = &l
		}
		machines[i] = m
	}
	return MachineFloor{Machines: machines}
}

// WithMachine returns a floor with m replacing the machine of the same id
func (f MachineFloor) WithMachine(m Machine) MachineFloor {
	next := f.Clone()
	if m.ID >= 1 && m.ID <= len(next.Machines) {
		next.Machines[m.ID-1] = m
	}
	return next
}

// ByDepartment returns the machines of one department in id order
func (f MachineFloor) ByDepartment(d Department) []Machine {
	var out []Machine
	for _, m := range f.Machines {
		if m.Department == d {
			out = append(out, m)
		}
	}
	return out
}

// Assigned returns the machines that will run this week
func (f MachineFloor) Assigned() []Machine {
	var out []Machine
	for _, m := range f.Machines {
		if m.IsAssigned() {
			out = append(out, m)
		}
	}
	return out
}

// AdvanceWeek clears weekly state on every machine
func (f MachineFloor) AdvanceWeek() MachineFloor {
	next := f.Clone()
	for i := range next.Machines {
		next.Machines[i] = next.Machines[i].AdvanceWeek()
	}
	return next
}
