package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// stepClock avanza un minuto en cada lectura.
type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func TestListMovements_FiltroPorTipoYRango(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", TenantID: "t1", SKU: "SKU-1", Name: "Tornillo"}))
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: "w1", TenantID: "t1", Name: "Central"}))
	clock := &stepClock{t: time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)}
	uc := inventory.NewStockOperations(store, store.Levels(), store.Movements(), store.Products(), store.Warehouses(), &recordingNotifier{}, inventory.Options{Clock: clock.Now})

	var created []time.Time
	for _, op := range []struct {
		typ entity.MovementType
		qty int64
	}{
		{entity.MovementTypeIN, 10},
		{entity.MovementTypeOUT, 2},
		{entity.MovementTypeIN, 5},
		{entity.MovementTypeOUT, 1},
	} {
		res := adjust(t, uc, "w1", op.typ, op.qty)
		created = append(created, res.Movement.CreatedAt)
	}

	outs, err := uc.ListMovements(ctx, scope, entity.MovementFilter{Type: entity.MovementTypeOUT})
	require.NoError(t, err)
	require.Len(t, outs, 2)
	for _, m := range outs {
		assert.Equal(t, entity.MovementTypeOUT, m.Type)
	}

	// From inclusivo, To exclusivo: quedan el segundo y el tercero.
	from, to := created[1], created[3]
	window, err := uc.ListMovements(ctx, scope, entity.MovementFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, int64(5), window[0].Quantity)
	assert.Equal(t, int64(2), window[1].Quantity)

	ins, err := uc.ListMovements(ctx, scope, entity.MovementFilter{Type: entity.MovementTypeIN, From: &from})
	require.NoError(t, err)
	require.Len(t, ins, 1)
	assert.Equal(t, int64(5), ins[0].Quantity)

	_, err = uc.ListMovements(ctx, scope, entity.MovementFilter{Type: "TRANSFER"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	_, err = uc.ListMovements(ctx, scope, entity.MovementFilter{From: &to, To: &from})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

// racingMovements ejecuta hook una vez antes de la primera lectura del journal.
type racingMovements struct {
	repository.StockMovementRepository
	hook func()
}

func (r *racingMovements) List(ctx context.Context, tenantID string, f entity.MovementFilter) ([]*entity.StockMovement, error) {
	if r.hook != nil {
		h := r.hook
		r.hook = nil
		h()
	}
	return r.StockMovementRepository.List(ctx, tenantID, f)
}

func TestReconcile_AjusteConcurrenteNoDaFalsoPositivo(t *testing.T) {
	writer, store, _ := setup(t)
	ctx := context.Background()
	adjust(t, writer, "w1", entity.MovementTypeIN, 10)

	movs := &racingMovements{StockMovementRepository: store.Movements()}
	reader := inventory.NewStockOperations(store, store.Levels(), movs, store.Products(), store.Warehouses(), &recordingNotifier{}, inventory.Options{MaxRetries: 3})
	movs.hook = func() { adjust(t, writer, "w1", entity.MovementTypeIN, 5) }

	rec, err := reader.Reconcile(ctx, scope, "p1", "w1")
	require.NoError(t, err)
	assert.True(t, rec.Consistent)
	assert.Equal(t, int64(15), rec.LedgerQuantity)
	assert.Equal(t, int64(15), rec.ReplayedQuantity)
	assert.Equal(t, 2, rec.Movements)

	level, err := store.Levels().Get(ctx, "t1", "p1", "w1")
	require.NoError(t, err)
	assert.Equal(t, level.Version, rec.Version)
}
