package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func TestApplyDelta(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	level := inventory.NewLevel("t1", "p1", "w1")

	require.NoError(t, inventory.ApplyDelta(level, 10, now))
	assert.Equal(t, int64(10), level.Quantity)
	assert.Equal(t, now, level.LastUpdated)

	require.NoError(t, inventory.ApplyDelta(level, -10, now))
	assert.Equal(t, int64(0), level.Quantity)

	// No debe quedar negativo ni modificar la fila.
	err := inventory.ApplyDelta(level, -1, now.Add(time.Minute))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(0), level.Quantity)
	assert.Equal(t, now, level.LastUpdated)
}

func TestSetAbsolute(t *testing.T) {
	now := time.Now()
	level := inventory.NewLevel("t1", "p1", "w1")
	level.Quantity = 7

	assert.ErrorIs(t, inventory.SetAbsolute(level, -3, now), domain.ErrInvalidQuantity)
	assert.Equal(t, int64(7), level.Quantity)

	require.NoError(t, inventory.SetAbsolute(level, 0, now))
	assert.Equal(t, int64(0), level.Quantity)
}

func TestApply_ValidaCantidadYTipo(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		typ  entity.MovementType
		qty  int64
		want error
	}{
		{"IN cero", entity.MovementTypeIN, 0, domain.ErrInvalidQuantity},
		{"OUT negativo", entity.MovementTypeOUT, -2, domain.ErrInvalidQuantity},
		{"OUT mayor al stock", entity.MovementTypeOUT, 6, domain.ErrInsufficientStock},
		{"ADJUSTMENT negativo", entity.MovementTypeADJUSTMENT, -1, domain.ErrInvalidQuantity},
		{"tipo desconocido", entity.MovementType("TRANSFER"), 1, domain.ErrInvalidRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			level := inventory.NewLevel("t1", "p1", "w1")
			level.Quantity = 5
			err := inventory.Apply(level, tc.typ, tc.qty, now)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, int64(5), level.Quantity)
		})
	}
}

func TestReplay_RespetaOrdenYAjustes(t *testing.T) {
	a := entity.Pair{ProductID: "p1", WarehouseID: "w1"}
	b := entity.Pair{ProductID: "p1", WarehouseID: "w2"}
	movs := []entity.StockMovement{
		{Seq: 4, ProductID: "p1", WarehouseID: "w1", Type: entity.MovementTypeOUT, Quantity: 2},
		{Seq: 1, ProductID: "p1", WarehouseID: "w1", Type: entity.MovementTypeIN, Quantity: 10},
		{Seq: 2, ProductID: "p1", WarehouseID: "w1", Type: entity.MovementTypeADJUSTMENT, Quantity: 4},
		{Seq: 3, ProductID: "p1", WarehouseID: "w2", Type: entity.MovementTypeIN, Quantity: 3},
	}

	got := inventory.Replay(movs)
	assert.Equal(t, int64(2), got[a]) // 10 -> 4 -> 2
	assert.Equal(t, int64(3), got[b])
}

func TestSignedDelta(t *testing.T) {
	d, ok := inventory.SignedDelta(entity.StockMovement{Type: entity.MovementTypeOUT, Quantity: 4})
	assert.True(t, ok)
	assert.Equal(t, int64(-4), d)

	_, ok = inventory.SignedDelta(entity.StockMovement{Type: entity.MovementTypeADJUSTMENT, Quantity: 4})
	assert.False(t, ok)
}
