package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMatrix() TrainingMatrix {
	m := make(TrainingMatrix, MaxQualityTier+1)
	for tier := range m {
		m[tier] = make([]int, MaxTrainingLevel+1)
		for level := range m[tier] {
			m[tier][level] = 50 + tier*2 + level*4
		}
	}
	return m
}

func TestNewOperator_Validation(t *testing.T) {
	one := decimal.NewFromInt(1)

	testCases := []struct {
		name        string
		id, tier    int
		level       int
		proficiency decimal.Decimal
		expectError string
	}{
		{"zero id", 0, 0, 0, one, "operator id must be positive, got 0"},
		{"tier too high", 1, 10, 0, one, "quality tier must be between 0 and 9, got 10"},
		{"negative level", 1, 0, -1, one, "training level must be between 0 and 10, got -1"},
		{"zero proficiency", 1, 0, 0, decimal.Zero, "proficiency must be positive, got 0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOperator(tc.id, tc.tier, tc.level, tc.proficiency, 0)
			require.Error(t, err)
			assert.Equal(t, tc.expectError, err.Error())
		})
	}

	op, err := NewOperator(3, 4, 2, decimal.RequireFromString("1.05"), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, op.ID)
	assert.Equal(t, Unassigned, op.Department)
}

func TestOperator_Efficiency(t *testing.T) {
	m := testMatrix()
	op := Operator{ID: 1, QualityTier: 2, TrainingLevel: 3, Proficiency: decimal.RequireFromString("1.10")}

	// (50 + 4 + 12)% × 1.10
	assert.True(t, op.Efficiency(m).Equal(decimal.RequireFromString("0.726")), op.Efficiency(m).String())

	op.InTrainingClass = true
	assert.True(t, op.Efficiency(m).IsZero())
}

func TestOperator_AdvanceTrainingIsMonotoneAndClamped(t *testing.T) {
	op := Operator{ID: 1, TrainingLevel: MaxTrainingLevel - 1, Proficiency: decimal.NewFromInt(1)}

	op = op.AdvanceTraining()
	assert.Equal(t, MaxTrainingLevel, op.TrainingLevel)
	assert.True(t, op.AtMaxTraining())

	op = op.AdvanceTraining()
	assert.Equal(t, MaxTrainingLevel, op.TrainingLevel)
}

func TestTrainingMatrix_BaseClampsAndValidates(t *testing.T) {
	m := testMatrix()
	require.NoError(t, m.Validate())

	assert.True(t, m.Base(99, 99).Equal(m.Base(MaxQualityTier, MaxTrainingLevel)))
	assert.True(t, m.Base(-1, -1).Equal(decimal.RequireFromString("0.5")))

	m[0][3] = 10
	assert.Error(t, m.Validate())
	assert.Error(t, TrainingMatrix{{1}}.Validate())
}

func TestWorkforce_ValueSemantics(t *testing.T) {
	w := NewWorkforce()
	w = w.With(Operator{ID: 1, Proficiency: decimal.NewFromInt(1)})
	w = w.With(Operator{ID: 2, Proficiency: decimal.NewFromInt(1)})
	assert.Equal(t, 3, w.NextID)

	removed := w.Without(2)
	assert.Equal(t, 2, w.Len(), "original roster must be untouched")
	assert.Equal(t, 1, removed.Len())
	assert.Equal(t, 3, removed.NextID, "ids are never reused")

	op, ok := w.Operator(1)
	require.True(t, ok)
	op.InTrainingClass = true
	w2 := w.With(op)
	assert.Equal(t, []int{1}, w2.InTraining())
	assert.Empty(t, w.InTraining())
	assert.Equal(t, []int{1, 2}, w2.IDs())
}
