package purchasing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

var scope = domain.Scope{TenantID: "t1", UserID: "comprador"}

type recordingNotifier struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (n *recordingNotifier) Publish(_ context.Context, topic string, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.topics = append(n.topics, topic)
	n.events = append(n.events, payload)
	return nil
}

// failingTx envuelve el store y hace fallar el n-ésimo Create de movimientos.
type failingTx struct {
	store  *memory.Store
	failAt int
}

type failingMovements struct {
	repository.StockMovementRepository
	calls  *int
	failAt int
}

var errDisk = errors.New("disco lleno")

func (m failingMovements) Create(ctx context.Context, mov *entity.StockMovement) error {
	*m.calls++
	if *m.calls == m.failAt {
		return errDisk
	}
	return m.StockMovementRepository.Create(ctx, mov)
}

func (f *failingTx) Run(ctx context.Context, fn func(repository.StockLevelRepository, repository.StockMovementRepository, repository.PurchaseOrderRepository) error) error {
	return f.store.Run(ctx, func(l repository.StockLevelRepository, m repository.StockMovementRepository, o repository.PurchaseOrderRepository) error {
		calls := 0
		return fn(l, failingMovements{StockMovementRepository: m, calls: &calls, failAt: f.failAt}, o)
	})
}

type fixture struct {
	store    *memory.Store
	svc      *purchasing.OrderService
	notifier *recordingNotifier
}

func newFixture(t *testing.T, tx inventory.TxRunner, store *memory.Store) *fixture {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "1", TenantID: "t1", SKU: "A"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "2", TenantID: "t1", SKU: "B"}))
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: "w1", TenantID: "t1", Name: "Central"}))
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: "s1", TenantID: "t1", Name: "Proveedor"}))

	n := &recordingNotifier{}
	clock := func() time.Time { return time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC) }
	svc := purchasing.NewOrderService(tx, store.Orders(), store.Products(), store.Warehouses(), store.Suppliers(),
		memory.NewOrderNumbers(1000), n, inventory.Options{Clock: clock})
	return &fixture{store: store, svc: svc, notifier: n}
}

func setup(t *testing.T) *fixture {
	store := memory.NewStore()
	return newFixture(t, store, store)
}

func (f *fixture) create(t *testing.T) *entity.PurchaseOrder {
	t.Helper()
	res, err := f.svc.Create(context.Background(), scope, purchasing.CreateInput{
		SupplierID:  "s1",
		WarehouseID: "w1",
		Items: []purchasing.ItemInput{
			{ProductID: "1", Quantity: 10, UnitPrice: decimal.RequireFromString("5.00")},
			{ProductID: "2", Quantity: 2, UnitPrice: decimal.RequireFromString("3.00")},
		},
	})
	require.NoError(t, err)
	return res.Order
}

func (f *fixture) quantity(t *testing.T, productID string) int64 {
	t.Helper()
	l, err := f.store.Levels().Get(context.Background(), "t1", productID, "w1")
	require.NoError(t, err)
	if l == nil {
		return 0
	}
	return l.Quantity
}

func TestCreate_TotalYNumero(t *testing.T) {
	f := setup(t)
	order := f.create(t)

	assert.Equal(t, entity.OrderStatusDraft, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("56.00")), "total=%s", order.TotalAmount)
	assert.Equal(t, "PO-20261014-1001", order.OrderNumber)
	assert.Len(t, order.Items, 2)

	got, err := f.svc.GetOrder(context.Background(), scope, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, got.OrderNumber)
}

func TestCreate_Validaciones(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	one := decimal.NewFromInt(1)
	cases := []struct {
		name string
		in   purchasing.CreateInput
		want error
	}{
		{"sin items", purchasing.CreateInput{SupplierID: "s1", WarehouseID: "w1"}, domain.ErrInvalidRequest},
		{"cantidad cero", purchasing.CreateInput{SupplierID: "s1", WarehouseID: "w1", Items: []purchasing.ItemInput{{ProductID: "1", UnitPrice: one}}}, domain.ErrInvalidQuantity},
		{"precio negativo", purchasing.CreateInput{SupplierID: "s1", WarehouseID: "w1", Items: []purchasing.ItemInput{{ProductID: "1", Quantity: 1, UnitPrice: one.Neg()}}}, domain.ErrInvalidQuantity},
		{"producto inexistente", purchasing.CreateInput{SupplierID: "s1", WarehouseID: "w1", Items: []purchasing.ItemInput{{ProductID: "9", Quantity: 1, UnitPrice: one}}}, domain.ErrNotFound},
		{"proveedor inexistente", purchasing.CreateInput{SupplierID: "sx", WarehouseID: "w1", Items: []purchasing.ItemInput{{ProductID: "1", Quantity: 1, UnitPrice: one}}}, domain.ErrNotFound},
		{"bodega inexistente", purchasing.CreateInput{SupplierID: "s1", WarehouseID: "wx", Items: []purchasing.ItemInput{{ProductID: "1", Quantity: 1, UnitPrice: one}}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, scope, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCicloCompleto_RecibeEnLedger(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	order := f.create(t)

	_, err := f.svc.Submit(ctx, scope, order.ID)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, scope, order.ID)
	require.NoError(t, err)
	res, err := f.svc.Receive(ctx, scope, order.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusReceived, res.Order.Status)
	require.NotNil(t, res.Order.ReceivedAt)
	assert.Equal(t, int64(10), f.quantity(t, "1"))
	assert.Equal(t, int64(2), f.quantity(t, "2"))

	stored, err := f.svc.GetOrder(ctx, scope, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, stored.Status)
	assert.NotNil(t, stored.ReceivedAt)
	for _, it := range stored.Items {
		assert.Equal(t, it.OrderedQuantity, it.ReceivedQuantity)
	}

	movs, err := f.store.Movements().List(ctx, "t1", entity.MovementFilter{Reference: order.OrderNumber})
	require.NoError(t, err)
	assert.Len(t, movs, 2)

	// Cambio de orden + dos filas del ledger.
	assert.Len(t, res.Changes, 3)
	// submit, approve, receive + 2 stock-update.
	assert.Equal(t, []string{
		ports.TopicOrderStatus, ports.TopicOrderStatus, ports.TopicOrderStatus,
		ports.TopicStockUpdate, ports.TopicStockUpdate,
	}, f.notifier.topics)
	last := f.notifier.events[2].(ports.OrderStatusPayload)
	assert.Equal(t, "APPROVED", last.OldStatus)
	assert.Equal(t, "RECEIVED", last.NewStatus)
}

func TestTransicionesInvalidas(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	order := f.create(t)

	_, err := f.svc.Approve(ctx, scope, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = f.svc.Receive(ctx, scope, order.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	got, _ := f.svc.GetOrder(ctx, scope, order.ID)
	assert.Equal(t, entity.OrderStatusDraft, got.Status)

	_, err = f.svc.Submit(ctx, scope, order.ID)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, scope, order.ID)
	require.NoError(t, err)
	_, err = f.svc.Receive(ctx, scope, order.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, scope, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	_, err = f.svc.Submit(ctx, scope, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancel_DesdeEstadosNoTerminales(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	draft := f.create(t)
	res, err := f.svc.Cancel(ctx, scope, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, res.Order.Status)
	_, err = f.svc.Cancel(ctx, scope, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	approved := f.create(t)
	_, err = f.svc.Submit(ctx, scope, approved.ID)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, scope, approved.ID)
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, scope, approved.ID)
	require.NoError(t, err)
	assert.Zero(t, f.quantity(t, "1"))
}

func TestSubmitConcurrente_UnSoloGanador(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := setup(t)
		order := f.create(t)

		var mu sync.Mutex
		var ok, invalid int
		var g errgroup.Group
		for j := 0; j < 2; j++ {
			g.Go(func() error {
				_, err := f.svc.Submit(context.Background(), scope, order.ID)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					ok++
				case errors.Is(err, domain.ErrInvalidStateTransition):
					invalid++
				default:
					return err
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())
		assert.Equal(t, 1, ok)
		assert.Equal(t, 1, invalid)
	}
}

func TestReceive_ConOverride(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	order := f.create(t)
	_, _ = f.svc.Submit(ctx, scope, order.ID)
	_, _ = f.svc.Approve(ctx, scope, order.ID)

	_, err := f.svc.Receive(ctx, scope, order.ID, []purchasing.ReceiveItem{{ProductID: "1", Quantity: -1}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = f.svc.Receive(ctx, scope, order.ID, []purchasing.ReceiveItem{{ProductID: "99", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	res, err := f.svc.Receive(ctx, scope, order.ID, []purchasing.ReceiveItem{{ProductID: "1", Quantity: 7}, {ProductID: "2", Quantity: 0}})
	require.NoError(t, err)
	assert.Equal(t, int64(7), f.quantity(t, "1"))
	assert.Zero(t, f.quantity(t, "2"))

	// El total no cambia fuera de DRAFT.
	assert.True(t, res.Order.TotalAmount.Equal(decimal.NewFromInt(56)))
	movs, _ := f.store.Movements().List(ctx, "t1", entity.MovementFilter{Reference: order.OrderNumber})
	assert.Len(t, movs, 1)
}

func TestReceive_FalloRevierteTodo(t *testing.T) {
	store := memory.NewStore()
	f := newFixture(t, &failingTx{store: store, failAt: 2}, store)
	ctx := context.Background()
	order := f.create(t)
	_, err := f.svc.Submit(ctx, scope, order.ID)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, scope, order.ID)
	require.NoError(t, err)

	_, err = f.svc.Receive(ctx, scope, order.ID, nil)
	assert.ErrorIs(t, err, errDisk)

	got, err := f.svc.GetOrder(ctx, scope, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusApproved, got.Status)
	assert.Nil(t, got.ReceivedAt)
	assert.Zero(t, f.quantity(t, "1"))
	assert.Zero(t, f.quantity(t, "2"))
	movs, _ := store.Movements().List(ctx, "t1", entity.MovementFilter{})
	assert.Empty(t, movs)
}

func TestListOrders_PorEstado(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.create(t)
	f.create(t)
	_, err := f.svc.Submit(ctx, scope, a.ID)
	require.NoError(t, err)

	submitted := entity.OrderStatusSubmitted
	list, err := f.svc.ListOrders(ctx, scope, entity.OrderFilter{Status: &submitted})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	all, err := f.svc.ListOrders(ctx, scope, entity.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bogus := entity.OrderStatus("LOST")
	_, err = f.svc.ListOrders(ctx, scope, entity.OrderFilter{Status: &bogus})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
