package validation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/domain/rng"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newCompany(t *testing.T) *entities.Company {
	t.Helper()
	floor, err := entities.NewMachineFloor(4, 5)
	require.NoError(t, err)
	inv, err := entities.NewInventory(dec("5000"), nil, nil)
	require.NoError(t, err)
	schedule, err := entities.NewDemandSchedule(4)
	require.NoError(t, err)
	w := entities.NewWorkforce()
	for id := 1; id <= 9; id++ {
		w = w.With(entities.Operator{ID: id, QualityTier: 3, Proficiency: dec("1")})
	}
	c, err := entities.NewCompany(1, "Acme", w, floor, inv, schedule, rng.New(1))
	require.NoError(t, err)
	return c
}

func validDecisions() entities.Decisions {
	d := entities.Decisions{
		Week:                  1,
		CompanyID:             1,
		QualityBudget:         dec("750"),
		MaintenanceBudget:     dec("500"),
		RawMaterialsRegular:   dec("10000"),
		RawMaterialsExpedited: decimal.Zero,
		PartOrders:            entities.Amounts[entities.PartType]{},
	}
	for id := 1; id <= 9; id++ {
		d.Machines = append(d.Machines, entities.MachineDecision{MachineID: id, PartCode: 1, ScheduledHours: dec("40")})
	}
	return d
}

func fields(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Field
	}
	return out
}

func TestValidate_ValidDecisions(t *testing.T) {
	v := NewValidator(config.Default())
	r := v.Validate(validDecisions(), newCompany(t), false)
	assert.True(t, r.Valid(), r.Errors)
	assert.Empty(t, r.Warnings)
	assert.NoError(t, r.Err())
}

func TestValidate_QualityBudget(t *testing.T) {
	v := NewValidator(config.Default())
	company := newCompany(t)

	d := validDecisions()
	d.QualityBudget = dec("-1")
	r := v.Validate(d, company, false)
	require.False(t, r.Valid())
	assert.Equal(t, []string{"quality_budget"}, fields(r.Errors))
	assert.True(t, errors.Is(r.Err(), ErrInvalidDecisions))

	d.QualityBudget = dec("15000")
	r = v.Validate(d, company, false)
	assert.True(t, r.Valid())
	assert.Equal(t, []string{"quality_budget"}, fields(r.Warnings))

	r = v.Validate(d, company, true)
	assert.False(t, r.Valid(), "strict mode promotes warnings")
	assert.Empty(t, r.Warnings)
}

func TestValidate_FatalMismatches(t *testing.T) {
	v := NewValidator(config.Default())
	d := validDecisions()
	d.Week = 2
	d.CompanyID = 7

	err := v.Validate(d, newCompany(t), false).Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWeekMismatch))
	assert.True(t, errors.Is(err, ErrCompanyMismatch))
	assert.True(t, errors.Is(err, ErrInvalidDecisions))

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Issues, 2)
}

func TestValidate_MachineErrors(t *testing.T) {
	v := NewValidator(config.Default())
	company := newCompany(t)

	testCases := []struct {
		name   string
		mutate func(*entities.Decisions)
		field  string
	}{
		{"missing machine", func(d *entities.Decisions) { d.Machines = d.Machines[:8] }, "machines"},
		{"hours above max", func(d *entities.Decisions) { d.Machines[2].ScheduledHours = dec("51") }, "machines[2].scheduled_hours"},
		{"negative hours", func(d *entities.Decisions) { d.Machines[2].ScheduledHours = dec("-1") }, "machines[2].scheduled_hours"},
		{"bad part code", func(d *entities.Decisions) { d.Machines[0].PartCode = 4 }, "machines[0].part_code"},
		{"unknown machine", func(d *entities.Decisions) { d.Machines[8].MachineID = 12 }, "machines[8].machine_id"},
		{"duplicate machine", func(d *entities.Decisions) { d.Machines[8].MachineID = 1 }, "machines[8].machine_id"},
		{"operator twice", func(d *entities.Decisions) { d.Machines[1].OperatorID = 1 }, "machines[1].operator_id"},
		{"negative order", func(d *entities.Decisions) { d.RawMaterialsRegular = dec("-5") }, "raw_materials_regular"},
		{"negative part order", func(d *entities.Decisions) { d.PartOrders[entities.PartYPrime] = dec("-5") }, "part_orders.Y'"},
		{"negative hires", func(d *entities.Decisions) { d.Hires.Count = -1 }, "hires.count"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDecisions()
			tc.mutate(&d)
			r := v.Validate(d, company, false)
			require.False(t, r.Valid())
			assert.Contains(t, fields(r.Errors), tc.field)
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	v := NewValidator(config.Default())
	company := newCompany(t)

	testCases := []struct {
		name   string
		mutate func(*entities.Decisions)
		field  string
	}{
		{"expedited only", func(d *entities.Decisions) {
			d.RawMaterialsRegular = decimal.Zero
			d.RawMaterialsExpedited = dec("500")
		}, "raw_materials_expedited"},
		{"large parts order", func(d *entities.Decisions) { d.PartOrders[entities.PartXPrime] = dec("1200") }, "part_orders"},
		{"too many trainees", func(d *entities.Decisions) {
			for i := 0; i < 4; i++ {
				d.Machines[i].SendForTraining = true
				d.Machines[i].ScheduledHours = decimal.Zero
			}
		}, "machines"},
		{"training with hours", func(d *entities.Decisions) { d.Machines[0].SendForTraining = true }, "machines[0].scheduled_hours"},
		{"no assembly", func(d *entities.Decisions) {
			for i := 4; i < 9; i++ {
				d.Machines[i].ScheduledHours = decimal.Zero
			}
		}, "machines"},
		{"unknown operator", func(d *entities.Decisions) { d.Machines[0].OperatorID = 40 }, "machines[0].operator_id"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDecisions()
			tc.mutate(&d)
			r := v.Validate(d, company, false)
			require.True(t, r.Valid(), r.Errors)
			assert.Contains(t, fields(r.Warnings), tc.field)
		})
	}
}

func TestValidate_NewHiresAreKnownOperators(t *testing.T) {
	v := NewValidator(config.Default())
	company := newCompany(t)
	company.Workforce = company.Workforce.Without(1)

	d := validDecisions()
	d.Hires = entities.Hires{Count: 1}
	d.Machines[0].OperatorID = 10

	r := v.Validate(d, company, false)
	assert.True(t, r.Valid())
	assert.Empty(t, r.Warnings)
}
