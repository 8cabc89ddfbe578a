package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityString(t *testing.T) {
	assert.Equal(t, "0.0000", Quantity(0).String())
	assert.Equal(t, "1.0000", NewQuantityFromInt64Scaled(10_000).String())
	assert.Equal(t, "1150.0000", NewQuantityFromInt64Scaled(1150*QuantityScale).String())
	assert.Equal(t, "0.2500", NewQuantityFromInt64Scaled(2_500).String())
	assert.Equal(t, "-3.1416", NewQuantityFromInt64Scaled(-31_416).String())
}

func TestQuantityJSONRoundTrip(t *testing.T) {
	q := NewQuantityFromInt64Scaled(1234_5678)

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Equal(t, "1234.5678", string(data))

	var back Quantity
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, q, back)
}

func TestQuantityUnmarshalForms(t *testing.T) {
	cases := map[string]Quantity{
		`"12.5"`:  NewQuantityFromInt64Scaled(125_000),
		`12.5`:    NewQuantityFromInt64Scaled(125_000),
		`"-0.25"`: NewQuantityFromInt64Scaled(-2_500),
		`"100"`:   NewQuantityFromInt64Scaled(100 * QuantityScale),
		`null`:    0,
		// Extra precision truncates at 4 digits.
		`"1.23456"`: NewQuantityFromInt64Scaled(12_345),
	}

	for in, want := range cases {
		var q Quantity
		require.NoError(t, json.Unmarshal([]byte(in), &q), "input %s", in)
		assert.Equal(t, want, q, "input %s", in)
	}
}

func TestQuantityDecimalBridge(t *testing.T) {
	q := NewQuantityFromFloat64(2.5)
	rate := MustMoney("10.10")

	amount := RoundMoney(q.Decimal().Mul(rate))
	assert.True(t, amount.Equal(MustMoney("25.25")), "got %s", amount)
}

func TestRoundMoneyHalfUp(t *testing.T) {
	assert.True(t, RoundMoney(MustMoney("1.005")).Equal(MustMoney("1.01")))
	assert.True(t, RoundMoney(MustMoney("1.004")).Equal(MustMoney("1.00")))
	assert.True(t, RoundMoney(MustMoney("-1.005")).Equal(MustMoney("-1.01")))
}

func TestQuantitySigns(t *testing.T) {
	q := NewQuantityFromInt64Scaled(42)
	assert.True(t, q.IsPositive())
	assert.True(t, q.Neg().IsNegative())
	assert.Equal(t, q, q.Neg().Abs())
	assert.True(t, Quantity(0).IsZero())
}
