package entities

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductType_Mapping(t *testing.T) {
	for _, p := range Products {
		assert.Equal(t, p, p.Part().Product())
		fromCode, err := ProductTypeFromCode(p.Code())
		require.NoError(t, err)
		assert.Equal(t, p, fromCode)
	}

	assert.Equal(t, "X'", ProductX.Part().String())
	assert.Equal(t, "Z", PartZPrime.Product().String())

	_, err := ProductTypeFromCode(0)
	assert.Error(t, err)
	_, err = ProductTypeFromCode(4)
	assert.Error(t, err)
}

func TestAmounts_JSONKeys(t *testing.T) {
	a := Amounts[PartType]{PartXPrime: decimal.NewFromInt(10), PartZPrime: decimal.NewFromInt(3)}

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"X'"`)

	var back Amounts[PartType]
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Get(PartXPrime).Equal(decimal.NewFromInt(10)))
	assert.True(t, back.Get(PartYPrime).IsZero())
	assert.True(t, back.Total().Equal(decimal.NewFromInt(13)))
}

func TestAmounts_CloneIsIndependent(t *testing.T) {
	a := Amounts[ProductType]{ProductX: decimal.NewFromInt(1)}
	b := a.Clone()
	b.Add(ProductX, decimal.NewFromInt(5))

	assert.True(t, a.Get(ProductX).Equal(decimal.NewFromInt(1)))
	assert.True(t, b.Get(ProductX).Equal(decimal.NewFromInt(6)))
}

func TestMaxZero(t *testing.T) {
	assert.True(t, MaxZero(decimal.NewFromInt(-4)).IsZero())
	assert.True(t, MaxZero(decimal.NewFromInt(4)).Equal(decimal.NewFromInt(4)))
}
