package entities

import (
	"github.com/shopspring/decimal"
)

// MachineDecision is the weekly instruction for one machine
type MachineDecision struct {
	MachineID       int             `json:"machine_id"`
	OperatorID      int             `json:"operator_id,omitempty"`
	SendForTraining bool            `json:"send_for_training"`
	PartCode        int             `json:"part_code"`
	ScheduledHours  decimal.Decimal `json:"scheduled_hours"`
}

// Operator returns the operator running the machine. Zero means the operator
// whose id matches the machine id.
func (m MachineDecision) Operator() int {
	if m.OperatorID == 0 {
		return m.MachineID
	}
	return m.OperatorID
}

// Line returns the product line selected by the part code
func (m MachineDecision) Line() (ProductType, error) {
	return ProductTypeFromCode(m.PartCode)
}

// Hires requests new operators for the coming week
type Hires struct {
	Count   int  `json:"count"`
	Trained bool `json:"trained"`
}

// Decisions is one company's input for one week
type Decisions struct {
	Week                  int               `json:"week"`
	CompanyID             int               `json:"company_id"`
	QualityBudget         decimal.Decimal   `json:"quality_budget"`
	MaintenanceBudget     decimal.Decimal   `json:"maintenance_budget"`
	RawMaterialsRegular   decimal.Decimal   `json:"raw_materials_regular"`
	RawMaterialsExpedited decimal.Decimal   `json:"raw_materials_expedited"`
	PartOrders            Amounts[PartType] `json:"part_orders"`
	Machines              []MachineDecision `json:"machines"`
	Hires                 Hires             `json:"hires"`
}

// Machine looks up the decision for a machine id
func (d Decisions) Machine(id int) (MachineDecision, bool) {
	for _, m := range d.Machines {
		if m.MachineID == id {
			return m, true
		}
	}
	return MachineDecision{}, false
}

// TrainingRequests returns the operator ids sent to training, in machine order
func (d Decisions) TrainingRequests() []int {
	var ids []int
	for _, m := range d.Machines {
		if m.SendForTraining {
			ids = append(ids, m.Operator())
		}
	}
	return ids
}
