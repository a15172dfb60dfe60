package workforce

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/prosim/pkg/domain/entities"
	"github.com/vsinha/prosim/pkg/domain/rng"
	"github.com/vsinha/prosim/pkg/infrastructure/config"
)

func newRoster(t *testing.T, e *Engine) entities.Workforce {
	t.Helper()
	w, err := e.InitialRoster(9)
	require.NoError(t, err)
	return w
}

func assignAll(t *testing.T, floor entities.MachineFloor, hours int64, skip ...int) entities.MachineFloor {
	t.Helper()
	skipped := make(map[int]bool)
	for _, id := range skip {
		skipped[id] = true
	}
	for _, m := range floor.Machines {
		if skipped[m.ID] {
			continue
		}
		floor = floor.WithMachine(m.Assign(entities.MachineAssignment{
			OperatorID:     m.ID,
			Line:           entities.ProductX,
			ScheduledHours: decimal.NewFromInt(hours),
		}))
	}
	return floor
}

func TestInitialRoster_UsesFixedProfiles(t *testing.T) {
	cfg := config.Default()
	e := NewEngine(cfg)
	w := newRoster(t, e)

	assert.Equal(t, 9, w.Len())
	assert.Equal(t, 10, w.NextID)
	for i, id := range w.IDs() {
		op := w.Operators[id]
		assert.Equal(t, 0, op.TrainingLevel, "starting operators are untrained")
		assert.Equal(t, cfg.Workforce.StartingRoster[i].QualityTier, op.QualityTier)
		assert.True(t, cfg.Workforce.StartingRoster[i].Proficiency.Equal(op.Proficiency))
	}
}

func TestTraining_CycleAndEfficiency(t *testing.T) {
	e := NewEngine(config.Default())
	w := newRoster(t, e)

	w, result := e.SendToTraining(w, []int{1, 2, 1, 42})
	assert.Equal(t, []int{1, 2}, result.Sent)
	assert.Equal(t, []int{1, 42}, result.Skipped, "already in class and unknown operators are skipped")

	op, _ := w.Operator(1)
	assert.True(t, op.InTrainingClass)
	assert.True(t, e.Efficiency(op).IsZero(), "operators in class have zero efficiency")

	w, completed := e.CompleteTraining(w)
	assert.Equal(t, []int{1, 2}, completed)
	op, _ = w.Operator(1)
	assert.False(t, op.InTrainingClass)
	assert.Equal(t, 1, op.TrainingLevel)
	assert.True(t, e.Efficiency(op).IsPositive())
}

func TestTraining_LevelIsMonotoneAndBounded(t *testing.T) {
	e := NewEngine(config.Default())
	w := newRoster(t, e)

	previous := 0
	for week := 0; week < 15; week++ {
		w, _ = e.CompleteTraining(w)
		w, _ = e.SendToTraining(w, []int{3})
		op, _ := w.Operator(3)
		require.GreaterOrEqual(t, op.TrainingLevel, previous)
		require.LessOrEqual(t, op.TrainingLevel, entities.MaxTrainingLevel)
		previous = op.TrainingLevel
	}
	op, _ := w.Operator(3)
	assert.Equal(t, entities.MaxTrainingLevel, op.TrainingLevel)

	_, result := e.SendToTraining(w, []int{3})
	assert.Equal(t, []int{3}, result.Skipped, "operators at max level cannot be sent")
}

func TestSchedule_ProductiveHoursAndIdleCounters(t *testing.T) {
	e := NewEngine(config.Default())
	w := newRoster(t, e)
	floor, err := entities.NewMachineFloor(4, 5)
	require.NoError(t, err)
	floor = assignAll(t, floor, 40, 9)

	w, result := e.Schedule(w, floor)
	require.Len(t, result.Assignments, 8)
	assert.Equal(t, []int{9}, result.Unscheduled)

	for _, a := range result.Assignments {
		op, _ := w.Operator(a.OperatorID)
		assert.Equal(t, 0, op.ConsecutiveWeeksUnscheduled)
		assert.True(t, a.ProductiveHours.Equal(a.ScheduledHours.Mul(e.Efficiency(op))))
	}
	first, _ := w.Operator(1)
	assert.Equal(t, entities.PartsDepartment, first.Department)
	fifth, _ := w.Operator(5)
	assert.Equal(t, entities.AssemblyDepartment, fifth.Department)

	idle, _ := w.Operator(9)
	assert.Equal(t, 1, idle.ConsecutiveWeeksUnscheduled)
	assert.True(t, result.TotalScheduledHours.Equal(decimal.NewFromInt(320)))
}

func TestSchedule_TrainingOperatorIsExempt(t *testing.T) {
	e := NewEngine(config.Default())
	w := newRoster(t, e)
	w, _ = e.SendToTraining(w, []int{9})
	floor, _ := entities.NewMachineFloor(4, 5)
	floor = assignAll(t, floor, 40, 9)

	w, result := e.Schedule(w, floor)
	assert.Empty(t, result.Unscheduled)
	op, _ := w.Operator(9)
	assert.Equal(t, 0, op.ConsecutiveWeeksUnscheduled)
}

func TestTermination_AfterTwoUnscheduledWeeks(t *testing.T) {
	e := NewEngine(config.Default())
	w := newRoster(t, e)
	floor, _ := entities.NewMachineFloor(4, 5)
	floor = assignAll(t, floor, 40, 9)

	// Week one: idle once, never terminated.
	w, _ = e.Schedule(w, floor)
	w, terminated := e.TerminateOverdue(w)
	assert.Empty(t, terminated)
	cost := e.WeeklyCost(w, 0, 0, len(terminated))
	assert.Equal(t, []int{9}, cost.LaidOff)
	assert.True(t, cost.LayoffCost.Equal(decimal.NewFromInt(200)))

	// Week two: second idle week terminates.
	w, _ = e.Schedule(w, floor)
	w, terminated = e.TerminateOverdue(w)
	assert.Equal(t, []int{9}, terminated)
	_, ok := w.Operator(9)
	assert.False(t, ok)

	cost = e.WeeklyCost(w, 0, 0, len(terminated))
	assert.Empty(t, cost.LaidOff)
	assert.True(t, cost.TerminationCost.Equal(decimal.NewFromInt(400)))
	assert.True(t, cost.Total().Equal(decimal.NewFromInt(400)))
}

func TestTermination_ResetWhenRescheduled(t *testing.T) {
	e := NewEngine(config.Default())
	w := newRoster(t, e)
	floor, _ := entities.NewMachineFloor(4, 5)

	w, _ = e.Schedule(w, assignAll(t, floor, 40, 9))
	w, _ = e.Schedule(w, assignAll(t, floor, 40))
	w, _ = e.Schedule(w, assignAll(t, floor, 40, 9))
	w, terminated := e.TerminateOverdue(w)
	assert.Empty(t, terminated)
}

func TestHire_SequentialIdsAndDeterminism(t *testing.T) {
	cfg := config.Default()
	e := NewEngine(cfg)
	w := newRoster(t, e)
	w = w.Without(9)

	hired, ops, src, err := e.Hire(w, 3, true, 2, rng.New(11))
	require.NoError(t, err)
	require.Len(t, ops, 3)
	assert.Equal(t, 10, ops[0].ID, "ids are never reused")
	assert.Equal(t, 12, ops[2].ID)
	assert.Equal(t, 11, hired.Len())
	for _, op := range ops {
		assert.Equal(t, 1, op.TrainingLevel)
		assert.Equal(t, 2, op.HiredWeek)
		assert.True(t, op.Proficiency.GreaterThanOrEqual(cfg.Workforce.HireProficiencyMin))
		assert.True(t, op.Proficiency.LessThanOrEqual(cfg.Workforce.HireProficiencyMax))
		assert.True(t, op.Proficiency.Equal(op.Proficiency.Round(2)), "rounded to two places")
	}
	assert.NotEqual(t, rng.New(11), src)

	again, opsAgain, _, err := e.Hire(w, 3, true, 2, rng.New(11))
	require.NoError(t, err)
	assert.Equal(t, ops, opsAgain)
	assert.Equal(t, hired, again)

	untrained, ops, _, err := e.Hire(w, 1, false, 2, rng.New(11))
	require.NoError(t, err)
	assert.Equal(t, 0, ops[0].TrainingLevel)
	assert.Equal(t, 9, untrained.Len())
}
