package counting

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPendingAdjustment(t *testing.T, adjType AdjustmentType, qty int64) *StockAdjustment {
	t.Helper()
	adj, err := NewStockAdjustment(uuid.New(), NewAdjustmentNumber(time.Now(), 1),
		uuid.New(), uuid.New(), uuid.New(), adjType, decimal.NewFromInt(qty), "cycle count variance", uuid.New())
	require.NoError(t, err)
	return adj
}

func TestNewStockAdjustment(t *testing.T) {
	t.Run("creates pending adjustment", func(t *testing.T) {
		adj := createPendingAdjustment(t, AdjustmentTypeDecrease, -3)

		assert.Equal(t, AdjustmentStatusPending, adj.Status)
		assert.Len(t, adj.GetDomainEvents(), 1)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewStockAdjustment(uuid.New(), "ADJ-1", uuid.New(), uuid.New(), uuid.New(),
			AdjustmentTypeIncrease, decimal.Zero, "reason", uuid.New())

		require.Error(t, err)
	})

	t.Run("rejects sign mismatch for increase", func(t *testing.T) {
		_, err := NewStockAdjustment(uuid.New(), "ADJ-2", uuid.New(), uuid.New(), uuid.New(),
			AdjustmentTypeFound, decimal.NewFromInt(-2), "reason", uuid.New())

		require.Error(t, err)
	})

	t.Run("rejects sign mismatch for write-off", func(t *testing.T) {
		_, err := NewStockAdjustment(uuid.New(), "ADJ-3", uuid.New(), uuid.New(), uuid.New(),
			AdjustmentTypeWriteOff, decimal.NewFromInt(2), "reason", uuid.New())

		require.Error(t, err)
	})

	t.Run("rejects empty reason", func(t *testing.T) {
		_, err := NewStockAdjustment(uuid.New(), "ADJ-4", uuid.New(), uuid.New(), uuid.New(),
			AdjustmentTypeIncrease, decimal.NewFromInt(2), "", uuid.New())

		require.Error(t, err)
	})
}

func TestStockAdjustment_Approve(t *testing.T) {
	t.Run("approves pending adjustment", func(t *testing.T) {
		adj := createPendingAdjustment(t, AdjustmentTypeIncrease, 5)

		require.NoError(t, adj.Approve(uuid.New(), "verified"))

		assert.Equal(t, AdjustmentStatusApproved, adj.Status)
		assert.NotNil(t, adj.DecidedAt)
		assert.Len(t, adj.GetDomainEvents(), 2)
	})

	t.Run("refuses self-approval", func(t *testing.T) {
		adj := createPendingAdjustment(t, AdjustmentTypeIncrease, 5)

		err := adj.Approve(adj.RequestedBy, "")

		require.Error(t, err)
		assert.Equal(t, AdjustmentStatusPending, adj.Status)
	})

	t.Run("refuses double approval", func(t *testing.T) {
		adj := createPendingAdjustment(t, AdjustmentTypeIncrease, 5)
		require.NoError(t, adj.Approve(uuid.New(), ""))

		require.Error(t, adj.Approve(uuid.New(), ""))
	})
}

func TestStockAdjustment_Reject(t *testing.T) {
	t.Run("rejects pending adjustment", func(t *testing.T) {
		adj := createPendingAdjustment(t, AdjustmentTypeDamage, -2)

		require.NoError(t, adj.Reject(uuid.New(), "not verified"))

		assert.Equal(t, AdjustmentStatusRejected, adj.Status)
	})

	t.Run("refuses rejection after approval", func(t *testing.T) {
		adj := createPendingAdjustment(t, AdjustmentTypeDamage, -2)
		require.NoError(t, adj.Approve(uuid.New(), ""))

		require.Error(t, adj.Reject(uuid.New(), ""))
	})
}

func TestAdjustmentType(t *testing.T) {
	assert.True(t, AdjustmentTypeIncrease.IsIncrease())
	assert.True(t, AdjustmentTypeFound.IsIncrease())
	assert.False(t, AdjustmentTypeDecrease.IsIncrease())
	assert.False(t, AdjustmentTypeWriteOff.IsIncrease())
	assert.False(t, AdjustmentTypeDamage.IsIncrease())
	assert.True(t, AdjustmentTypeDamage.IsValid())
	assert.False(t, AdjustmentType("BOGUS").IsValid())
}
