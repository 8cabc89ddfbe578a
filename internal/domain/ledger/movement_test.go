package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatstock/internal/core/apperror"
	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
)

func TestParseMovementType(t *testing.T) {
	mt, err := ParseMovementType("RECEIPT")
	require.NoError(t, err)
	assert.Equal(t, MovementReceipt, mt)

	_, err = ParseMovementType("receipt")
	assert.True(t, apperror.IsValidation(err))

	_, err = ParseMovementType("TRANSFER")
	assert.True(t, apperror.IsValidation(err))
}

func TestParseSourceKind(t *testing.T) {
	for _, k := range SourceKinds() {
		parsed, err := ParseSourceKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseSourceKind("GOODS_RECEIPT")
	assert.True(t, apperror.IsValidation(err))
}

func TestNewMovementComputesAmount(t *testing.T) {
	m := NewMovement(
		MovementReceipt, SourceScrapGRN, id.New(),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		id.New(),
		types.NewQuantityFromFloat64(2.5),
		types.MustMoney("10.1010"),
		"",
	)

	// 2.5 × 10.1010 = 25.2525 → 25.25 stored
	assert.True(t, m.Amount.Equal(types.MustMoney("25.25")), "got %s", m.Amount)
	assert.False(t, id.IsNil(m.LineID))
	require.NoError(t, m.Validate(context.Background()))
}

func TestMovementSigned(t *testing.T) {
	issue := NewMovement(
		MovementIssue, SourceDispatch, id.New(),
		time.Now(), id.New(),
		types.NewQuantityFromFloat64(3),
		types.MustMoney("4.00"),
		"",
	)

	assert.Equal(t, types.NewQuantityFromFloat64(-3), issue.SignedQuantity())
	assert.True(t, issue.SignedAmount().Equal(types.MustMoney("-12.00")))
}

func TestMovementValidate(t *testing.T) {
	base := func() StockMovement {
		return NewMovement(
			MovementReceipt, SourceScrapGRN, id.New(),
			time.Now(), id.New(),
			types.NewQuantityFromFloat64(1),
			types.MustMoney("5.00"),
			"",
		)
	}
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		m := base()
		assert.NoError(t, m.Validate(ctx))
	})

	t.Run("zero quantity", func(t *testing.T) {
		m := base()
		m.Quantity = 0
		assert.True(t, apperror.IsValidation(m.Validate(ctx)))
	})

	t.Run("negative rate", func(t *testing.T) {
		m := base()
		m.Rate = types.MustMoney("-1.00")
		assert.True(t, apperror.IsValidation(m.Validate(ctx)))
	})

	t.Run("nil item", func(t *testing.T) {
		m := base()
		m.ItemID = id.Nil()
		assert.True(t, apperror.IsValidation(m.Validate(ctx)))
	})

	t.Run("tampered amount is a consistency failure", func(t *testing.T) {
		m := base()
		m.Amount = m.Amount.Add(types.MustMoney("0.01"))
		assert.True(t, apperror.IsConsistency(m.Validate(ctx)))
	})
}
