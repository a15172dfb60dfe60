package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMachineFloor_Layout(t *testing.T) {
	floor, err := NewMachineFloor(4, 5)
	require.NoError(t, err)
	require.Equal(t, 9, floor.Size())

	for id := 1; id <= 9; id++ {
		m, ok := floor.Machine(id)
		require.True(t, ok)
		assert.Equal(t, id, m.ID)
		if id <= 4 {
			assert.Equal(t, PartsDepartment, m.Department)
		} else {
			assert.Equal(t, AssemblyDepartment, m.Department)
		}
	}
	_, ok := floor.Machine(10)
	assert.False(t, ok)

	_, err = NewMachineFloor(0, 5)
	assert.Error(t, err)
}

func TestMachine_SetupRequired(t *testing.T) {
	m := Machine{ID: 1, Department: PartsDepartment}
	assert.False(t, m.SetupRequired(ProductX), "never-used machine needs no setup")

	x := ProductX
	m.LastLine = &x
	assert.False(t, m.SetupRequired(ProductX))
	assert.True(t, m.SetupRequired(ProductY))
}

func TestMachine_IsAssigned(t *testing.T) {
	m := Machine{ID: 1}
	assert.False(t, m.IsAssigned())

	m = m.Assign(MachineAssignment{OperatorID: 1, ScheduledHours: decimal.NewFromInt(40)})
	assert.True(t, m.IsAssigned())

	m = m.Assign(MachineAssignment{OperatorID: 1, ScheduledHours: decimal.NewFromInt(40), SendForTraining: true})
	assert.False(t, m.IsAssigned())

	m = m.Assign(MachineAssignment{OperatorID: 1, ScheduledHours: decimal.Zero})
	assert.False(t, m.IsAssigned())
}

func TestMachineFloor_AdvanceWeekKeepsLastLine(t *testing.T) {
	floor, err := NewMachineFloor(1, 1)
	require.NoError(t, err)

	y := ProductY
	m, _ := floor.Machine(1)
	m = m.Assign(MachineAssignment{OperatorID: 1, Line: ProductY, ScheduledHours: decimal.NewFromInt(40)})
	m.LastLine = &y
	m.NeedsRepair = true
	floor2 := floor.WithMachine(m)

	orig, _ := floor.Machine(1)
	assert.Nil(t, orig.Assignment, "WithMachine must not mutate the source floor")

	next := floor2.AdvanceWeek()
	got, _ := next.Machine(1)
	assert.Nil(t, got.Assignment)
	assert.False(t, got.NeedsRepair)
	require.NotNil(t, got.LastLine)
	assert.Equal(t, ProductY, *got.LastLine)
	assert.Equal(t, "Y'", got.ItemLabel(ProductY))
	assert.Len(t, floor2.Assigned(), 1)
	assert.Empty(t, next.Assigned())
}
