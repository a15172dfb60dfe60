package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
)

var (
	ErrInvalidDecisions = errors.New("invalid decisions")
	ErrWeekMismatch     = errors.New("decisions are for a different week")
	ErrCompanyMismatch  = errors.New("decisions are for a different company")
)

// Issue is a single field-level finding
type Issue struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Value      string `json:"value,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	cause      error
}

func (i Issue) String() string {
	s := fmt.Sprintf("%s: %s", i.Field, i.Message)
	if i.Value != "" {
		s += fmt.Sprintf(" (got %s)", i.Value)
	}
	if i.Suggestion != "" {
		s += "; " + i.Suggestion
	}
	return s
}

// Result lists the errors and warnings found in a set of decisions.
// Errors block processing; warnings do not.
type Result struct {
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Valid reports whether the decisions may be processed
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// WarningMessages renders the warnings for a report
func (r Result) WarningMessages() []string {
	out := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		out[i] = w.String()
	}
	return out
}

// Err folds the errors into a single error, or returns nil when valid
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &Error{Issues: r.Errors}
}

// Error is returned for decisions that fail validation
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.String()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidDecisions, strings.Join(msgs, "; "))
}

// Unwrap exposes ErrInvalidDecisions and any fatal state mismatch
func (e *Error) Unwrap() []error {
	errs := []error{ErrInvalidDecisions}
	for _, issue := range e.Issues {
		if issue.cause != nil {
			errs = append(errs, issue.cause)
		}
	}
	return errs
}

// Validator checks decisions against a company and the rate table
type Validator struct {
	config config.Config
}

// NewValidator creates a validator over the given rate table
func NewValidator(cfg config.Config) *Validator {
	return &Validator{config: cfg}
}

type collector struct {
	result Result
}

func (c *collector) fail(field, msg, value, suggestion string) {
	c.result.Errors = append(c.result.Errors, Issue{Field: field, Message: msg, Value: value, Suggestion: suggestion})
}

func (c *collector) fatal(field, msg, value string, cause error) {
	c.result.Errors = append(c.result.Errors, Issue{Field: field, Message: msg, Value: value, cause: cause})
}

func (c *collector) warn(field, msg, value, suggestion string) {
	c.result.Warnings = append(c.result.Warnings, Issue{Field: field, Message: msg, Value: value, Suggestion: suggestion})
}

// Validate checks d for company. In strict mode warnings are promoted to errors.
func (v *Validator) Validate(d entities.Decisions, company *entities.Company, strict bool) Result {
	c := &collector{}

	if d.Week != company.CurrentWeek {
		c.fatal("week", fmt.Sprintf("expected week %d", company.CurrentWeek), fmt.Sprint(d.Week), ErrWeekMismatch)
	}
	if d.CompanyID != company.ID {
		c.fatal("company_id", fmt.Sprintf("expected company %d", company.ID), fmt.Sprint(d.CompanyID), ErrCompanyMismatch)
	}

	v.checkBudget(c, "quality_budget", d.QualityBudget)
	v.checkBudget(c, "maintenance_budget", d.MaintenanceBudget)
	v.checkOrders(c, d)
	v.checkMachines(c, d, company)

	if d.Hires.Count < 0 {
		c.fail("hires.count", "cannot be negative", fmt.Sprint(d.Hires.Count), "")
	}

	if strict {
		c.result.Errors = append(c.result.Errors, c.result.Warnings...)
		c.result.Warnings = nil
	}
	return c.result
}

func (v *Validator) checkBudget(c *collector, field string, budget decimal.Decimal) {
	threshold := v.config.Validation.BudgetWarningThreshold
	switch {
	case budget.IsNegative():
		c.fail(field, "cannot be negative", budget.String(), "use 0 or a positive amount")
	case budget.GreaterThan(threshold):
		c.warn(field, "unusually large budget", budget.String(), fmt.Sprintf("budgets above %s rarely pay off", threshold))
	}
}

func (v *Validator) checkOrders(c *collector, d entities.Decisions) {
	if d.RawMaterialsRegular.IsNegative() {
		c.fail("raw_materials_regular", "cannot be negative", d.RawMaterialsRegular.String(), "")
	}
	if d.RawMaterialsExpedited.IsNegative() {
		c.fail("raw_materials_expedited", "cannot be negative", d.RawMaterialsExpedited.String(), "")
	}
	if d.RawMaterialsExpedited.IsPositive() && d.RawMaterialsRegular.IsZero() {
		c.warn("raw_materials_expedited", "expedited order without a regular order", d.RawMaterialsExpedited.String(),
			fmt.Sprintf("each expedited order costs an extra %s", v.config.Ordering.ExpeditedSurcharge))
	}

	total := decimal.Zero
	for _, p := range entities.Parts {
		qty := d.PartOrders.Get(p)
		if qty.IsNegative() {
			c.fail(fmt.Sprintf("part_orders.%s", p), "cannot be negative", qty.String(), "")
			continue
		}
		total = total.Add(qty)
	}
	if total.GreaterThan(v.config.Validation.PartsOrderWarning) {
		c.warn("part_orders", "large purchased parts order", total.String(), "purchased parts cost more than producing them in house")
	}
}

func (v *Validator) checkMachines(c *collector, d entities.Decisions, company *entities.Company) {
	floor := company.Machines
	if len(d.Machines) != floor.Size() {
		c.fail("machines", fmt.Sprintf("expected exactly %d machine decisions", floor.Size()), fmt.Sprint(len(d.Machines)), "")
	}

	maxHours := v.config.Simulation.MaxScheduledHours
	seenMachine := make(map[int]bool)
	operatorMachine := make(map[int]int)
	training := 0
	partsScheduled, assemblyScheduled := false, false

	for i, md := range d.Machines {
		field := fmt.Sprintf("machines[%d]", i)
		machine, ok := floor.Machine(md.MachineID)
		if !ok {
			c.fail(field+".machine_id", "unknown machine", fmt.Sprint(md.MachineID), fmt.Sprintf("use 1 to %d", floor.Size()))
			continue
		}
		if seenMachine[md.MachineID] {
			c.fail(field+".machine_id", "duplicate machine decision", fmt.Sprint(md.MachineID), "")
			continue
		}
		seenMachine[md.MachineID] = true

		if md.ScheduledHours.IsNegative() || md.ScheduledHours.GreaterThan(maxHours) {
			c.fail(field+".scheduled_hours", "out of range", md.ScheduledHours.String(), fmt.Sprintf("use a value between 0 and %s", maxHours))
		}
		if _, err := md.Line(); err != nil {
			c.fail(field+".part_code", "must be 1, 2 or 3", fmt.Sprint(md.PartCode), "use 1 (X), 2 (Y) or 3 (Z)")
		}
		if md.OperatorID < 0 {
			c.fail(field+".operator_id", "cannot be negative", fmt.Sprint(md.OperatorID), "")
			continue
		}

		opID := md.Operator()
		op, hasOperator := company.Workforce.Operator(opID)
		if !hasOperator && isNewHire(opID, company.Workforce, d.Hires) {
			hasOperator = true
		}

		if md.SendForTraining {
			training++
			if md.ScheduledHours.IsPositive() {
				c.warn(field+".scheduled_hours", "operator in training but hours scheduled", md.ScheduledHours.String(), "the hours are ignored")
			}
			switch {
			case !hasOperator:
				c.warn(field+".operator_id", "operator not on the roster", fmt.Sprint(opID), "")
			case op.AtMaxTraining() && !op.InTrainingClass:
				c.warn(field+".send_for_training", "operator already fully trained", fmt.Sprint(opID), "training has no effect")
			}
			continue
		}
		if !md.ScheduledHours.IsPositive() {
			continue
		}

		if prev, dup := operatorMachine[opID]; dup {
			c.fail(field+".operator_id", fmt.Sprintf("operator already assigned to machine %d", prev), fmt.Sprint(opID), "")
		}
		operatorMachine[opID] = md.MachineID
		if !hasOperator {
			c.warn(field+".operator_id", "operator not on the roster", fmt.Sprint(opID), "the machine will not produce")
		}

		if machine.Department == entities.PartsDepartment {
			partsScheduled = true
		} else {
			assemblyScheduled = true
		}
	}

	if training > v.config.Validation.MaxTrainingPerWeek {
		c.warn("machines", "many operators sent to training at once", fmt.Sprint(training),
			fmt.Sprintf("training more than %d operators idles their machines", v.config.Validation.MaxTrainingPerWeek))
	}
	if partsScheduled && !assemblyScheduled {
		c.warn("machines", "parts scheduled without any assembly", "", "parts will accumulate in inventory")
	}
}

// isNewHire reports whether id will be assigned to an operator hired this week
func isNewHire(id int, w entities.Workforce, h entities.Hires) bool {
	return id >= w.NextID && id < w.NextID+h.Count
}
