package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

func saveLevel(t *testing.T, s *Store, qty int64) {
	t.Helper()
	err := s.Run(context.Background(), func(levels repository.StockLevelRepository, movs repository.StockMovementRepository, _ repository.PurchaseOrderRepository) error {
		l, err := levels.Get(context.Background(), "t1", "p1", "w1")
		if err != nil {
			return err
		}
		if l == nil {
			l = &entity.StockLevel{TenantID: "t1", ProductID: "p1", WarehouseID: "w1"}
		}
		l.Quantity = qty
		if err := levels.Save(context.Background(), l); err != nil {
			return err
		}
		return movs.Create(context.Background(), &entity.StockMovement{TenantID: "t1", ProductID: "p1", WarehouseID: "w1", Type: entity.MovementTypeADJUSTMENT, Quantity: qty})
	})
	require.NoError(t, err)
}

func TestRun_CommitAsignaVersionYSeq(t *testing.T) {
	s := NewStore()
	saveLevel(t, s, 4)
	saveLevel(t, s, 6)

	l, err := s.Levels().Get(context.Background(), "t1", "p1", "w1")
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, int64(6), l.Quantity)
	assert.Equal(t, int64(2), l.Version)

	movs, err := s.Movements().List(context.Background(), "t1", entity.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	// Más reciente primero.
	assert.Equal(t, int64(2), movs[0].Seq)
	assert.Equal(t, int64(1), movs[1].Seq)
}

func TestRun_RollbackDescartaEscrituras(t *testing.T) {
	s := NewStore()
	boom := errors.New("boom")
	err := s.Run(context.Background(), func(levels repository.StockLevelRepository, movs repository.StockMovementRepository, _ repository.PurchaseOrderRepository) error {
		l := &entity.StockLevel{TenantID: "t1", ProductID: "p1", WarehouseID: "w1", Quantity: 3}
		if err := levels.Save(context.Background(), l); err != nil {
			return err
		}
		// La transacción ve su propia escritura.
		got, err := levels.Get(context.Background(), "t1", "p1", "w1")
		if err != nil {
			return err
		}
		assert.Equal(t, int64(3), got.Quantity)
		_ = movs.Create(context.Background(), &entity.StockMovement{TenantID: "t1", ProductID: "p1", WarehouseID: "w1", Type: entity.MovementTypeIN, Quantity: 3})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	l, err := s.Levels().Get(context.Background(), "t1", "p1", "w1")
	require.NoError(t, err)
	assert.Nil(t, l)
	movs, _ := s.Movements().List(context.Background(), "t1", entity.MovementFilter{})
	assert.Empty(t, movs)
}

func TestRun_ConflictoDeVersionAlCommit(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.Run(ctx, func(levels repository.StockLevelRepository, _ repository.StockMovementRepository, _ repository.PurchaseOrderRepository) error {
		l := &entity.StockLevel{TenantID: "t1", ProductID: "p1", WarehouseID: "w1", Quantity: 5}
		if err := levels.Save(ctx, l); err != nil {
			return err
		}
		// Otra transacción crea la misma fila antes del commit.
		saveLevel(t, s, 1)
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	l, _ := s.Levels().Get(ctx, "t1", "p1", "w1")
	assert.Equal(t, int64(1), l.Quantity)
}

func TestSave_VersionDesactualizada(t *testing.T) {
	s := NewStore()
	saveLevel(t, s, 2)
	err := s.Run(context.Background(), func(levels repository.StockLevelRepository, _ repository.StockMovementRepository, _ repository.PurchaseOrderRepository) error {
		stale := &entity.StockLevel{TenantID: "t1", ProductID: "p1", WarehouseID: "w1", Quantity: 9}
		return levels.Save(context.Background(), stale)
	})
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestOrders_CASDeEstado(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	order := &entity.PurchaseOrder{
		ID: "o1", TenantID: "t1", OrderNumber: "PO-1", Status: entity.OrderStatusDraft,
		Items:     []entity.PurchaseOrderItem{{ID: "i1", ProductID: "p1", OrderedQuantity: 2, UnitPrice: decimal.NewFromInt(1)}},
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.Orders().Create(ctx, order))
	assert.ErrorIs(t, s.Orders().Create(ctx, &entity.PurchaseOrder{ID: "o2", TenantID: "t1", OrderNumber: "PO-1"}), domain.ErrDuplicate)

	submit := func() error {
		return s.Run(ctx, func(_ repository.StockLevelRepository, _ repository.StockMovementRepository, orders repository.PurchaseOrderRepository) error {
			o, err := orders.GetForUpdate(ctx, "t1", "o1")
			if err != nil {
				return err
			}
			from := o.Status
			o.Status = entity.OrderStatusSubmitted
			return orders.UpdateStatus(ctx, o, from)
		})
	}

	// Dos transacciones leen DRAFT; solo la primera en hacer commit gana.
	var errInner error
	err := s.Run(ctx, func(_ repository.StockLevelRepository, _ repository.StockMovementRepository, orders repository.PurchaseOrderRepository) error {
		o, err := orders.GetForUpdate(ctx, "t1", "o1")
		if err != nil {
			return err
		}
		o.Status = entity.OrderStatusSubmitted
		if err := orders.UpdateStatus(ctx, o, entity.OrderStatusDraft); err != nil {
			return err
		}
		errInner = submit()
		return nil
	})
	require.NoError(t, errInner)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	got, err := s.Orders().GetByID(ctx, "t1", "o1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusSubmitted, got.Status)

	// Otro tenant no ve la orden.
	other, err := s.Orders().GetByID(ctx, "t2", "o1")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestAlerts_TenantsHabilitados(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Alerts().Create(ctx, &entity.AlertConfig{ID: "a1", TenantID: "t1", ProductID: "p1", Threshold: 5, Enabled: true}))
	require.NoError(t, s.Alerts().Create(ctx, &entity.AlertConfig{ID: "a2", TenantID: "t2", ProductID: "p1", Threshold: 5}))

	tenants, err := s.Alerts().ListTenantsWithEnabled(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, tenants)

	require.NoError(t, s.Alerts().SetEnabled(ctx, "t2", "a2", true))
	tenants, _ = s.Alerts().ListTenantsWithEnabled(ctx)
	assert.Equal(t, []string{"t1", "t2"}, tenants)

	assert.ErrorIs(t, s.Alerts().SetEnabled(ctx, "t1", "a2", false), domain.ErrNotFound)
}

func TestOrderNumbers(t *testing.T) {
	g := NewOrderNumbers(1000)
	now := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	a, _ := g.Next(context.Background(), now)
	b, _ := g.Next(context.Background(), now)
	assert.Equal(t, "PO-20261014-1001", a)
	assert.Equal(t, "PO-20261014-1002", b)
}

func TestProducts_SKUDuplicado(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", TenantID: "t1", SKU: "A"}))
	assert.ErrorIs(t, s.Products().Create(ctx, &entity.Product{ID: "p2", TenantID: "t1", SKU: "A"}), domain.ErrDuplicate)
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p3", TenantID: "t2", SKU: "A"}))

	p, err := s.Products().GetBySKU(ctx, "t2", "A")
	require.NoError(t, err)
	assert.Equal(t, "p3", p.ID)
}
