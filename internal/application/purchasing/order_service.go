package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// OrderService máquina de estados de órdenes de compra. RECEIVE es la única transición que toca el ledger
// y lo hace en la misma transacción que el cambio de estado.
type OrderService struct {
	retrier    inventory.Retrier
	orders     repository.PurchaseOrderRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	suppliers  repository.SupplierRepository
	numbers    ports.OrderNumberGenerator
	notifier   ports.Notifier
	metrics    ports.Metrics
	log        *logger.Logger
	now        func() time.Time
}

// NewOrderService construye el caso de uso. orders se usa para lecturas fuera de transacción.
func NewOrderService(
	tx inventory.TxRunner,
	orders repository.PurchaseOrderRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	suppliers repository.SupplierRepository,
	numbers ports.OrderNumberGenerator,
	notifier ports.Notifier,
	opts inventory.Options,
) *OrderService {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 5
	}
	if opts.Metrics == nil {
		opts.Metrics = ports.NopMetrics{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	log := opts.Logger.Component("purchasing")
	return &OrderService{
		retrier:    opts.NewRetrier(tx, log),
		orders:     orders,
		products:   products,
		warehouses: warehouses,
		suppliers:  suppliers,
		numbers:    numbers,
		notifier:   notifier,
		metrics:    opts.Metrics,
		log:        log,
		now:        opts.Clock,
	}
}

// ItemInput línea solicitada al crear la orden.
type ItemInput struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// CreateInput entrada de Create.
type CreateInput struct {
	SupplierID  string
	WarehouseID string
	Items       []ItemInput
}

// Result orden resultante y registros de cambio.
type Result struct {
	Order   *entity.PurchaseOrder
	Changes []entity.ChangeRecord
}

// Create valida proveedor, bodega y productos, genera el número y guarda la orden en DRAFT.
func (uc *OrderService) Create(ctx context.Context, scope domain.Scope, in CreateInput) (*Result, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if in.SupplierID == "" || in.WarehouseID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	for _, it := range in.Items {
		if it.ProductID == "" {
			return nil, domain.ErrInvalidRequest
		}
		if it.Quantity <= 0 || it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidQuantity
		}
	}
	if err := uc.ensureReferences(ctx, scope, in); err != nil {
		return nil, err
	}

	now := uc.now()
	number, err := uc.numbers.Next(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("generar número de orden: %w", err)
	}
	order := &entity.PurchaseOrder{
		ID:          uuid.New().String(),
		TenantID:    scope.TenantID,
		OrderNumber: number,
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		Status:      entity.OrderStatusDraft,
		CreatedBy:   scope.Actor(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, it := range in.Items {
		order.Items = append(order.Items, entity.PurchaseOrderItem{
			ID:              uuid.New().String(),
			OrderID:         order.ID,
			ProductID:       it.ProductID,
			OrderedQuantity: it.Quantity,
			UnitPrice:       it.UnitPrice,
		})
	}
	order.RecalculateTotal()

	err = uc.retrier.Run(ctx, "create_order", func(
		_ repository.StockLevelRepository,
		_ repository.StockMovementRepository,
		orders repository.PurchaseOrderRepository,
	) error {
		return orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("tenant_id", scope.TenantID).Str("order_number", order.OrderNumber).
		Str("total", order.TotalAmount.StringFixed(2)).Msg("orden de compra creada")
	return &Result{
		Order: order,
		Changes: []entity.ChangeRecord{{
			TenantID:   scope.TenantID,
			EntityType: entity.EntityPurchaseOrder,
			EntityID:   order.ID,
			Action:     "CREATE",
			New:        order.Clone(),
			Actor:      scope.Actor(),
			At:         now,
		}},
	}, nil
}

// Submit DRAFT → SUBMITTED.
func (uc *OrderService) Submit(ctx context.Context, scope domain.Scope, id string) (*Result, error) {
	return uc.transition(ctx, scope, id, entity.OrderEventSubmit, nil)
}

// Approve SUBMITTED → APPROVED.
func (uc *OrderService) Approve(ctx context.Context, scope domain.Scope, id string) (*Result, error) {
	return uc.transition(ctx, scope, id, entity.OrderEventApprove, nil)
}

// Cancel DRAFT|SUBMITTED|APPROVED → CANCELLED.
func (uc *OrderService) Cancel(ctx context.Context, scope domain.Scope, id string) (*Result, error) {
	return uc.transition(ctx, scope, id, entity.OrderEventCancel, nil)
}

// ReceiveItem cantidad recibida explícita para un producto de la orden.
type ReceiveItem struct {
	ProductID string
	Quantity  int64
}

// Receive APPROVED → RECEIVED. Cada item recibe su override o la cantidad ordenada y se aplica como IN
// en la bodega de la orden con referencia = número de orden. Si cualquier ajuste falla, la orden sigue APPROVED.
func (uc *OrderService) Receive(ctx context.Context, scope domain.Scope, id string, overrides []ReceiveItem) (*Result, error) {
	received := make(map[string]int64, len(overrides))
	for _, o := range overrides {
		if o.Quantity < 0 {
			return nil, domain.ErrInvalidQuantity
		}
		received[o.ProductID] = o.Quantity
	}

	var stock []*inventory.Change
	res, err := uc.transition(ctx, scope, id, entity.OrderEventReceive, func(
		levels repository.StockLevelRepository,
		movements repository.StockMovementRepository,
		orders repository.PurchaseOrderRepository,
		order *entity.PurchaseOrder,
		now time.Time,
	) error {
		stock = stock[:0]
		known := make(map[string]bool, len(order.Items))
		for i := range order.Items {
			known[order.Items[i].ProductID] = true
		}
		for pid := range received {
			if !known[pid] {
				return domain.ErrInvalidRequest
			}
		}

		for i := range order.Items {
			item := &order.Items[i]
			qty := item.OrderedQuantity
			if q, ok := received[item.ProductID]; ok {
				qty = q
			}
			item.ReceivedQuantity = qty
			if qty == 0 {
				continue
			}
			change, err := inventory.ApplyInTx(ctx, levels, movements, scope, inventory.MovementInput{
				ProductID:   item.ProductID,
				WarehouseID: order.WarehouseID,
				Type:        entity.MovementTypeIN,
				Quantity:    qty,
				Reference:   order.OrderNumber,
				Notes:       "Recepción de orden de compra",
			}, now)
			if err != nil {
				return err
			}
			stock = append(stock, change)
		}
		at := now
		order.ReceivedAt = &at
		return orders.UpdateReceivedQuantities(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	for _, c := range stock {
		uc.metrics.StockMovement(string(c.Movement.Type))
		res.Changes = append(res.Changes, c.Record(scope, "RECEIVE"))
	}
	inventory.PublishStockUpdates(ctx, uc.notifier, uc.log, scope, stock...)
	return res, nil
}

type effectFunc func(
	levels repository.StockLevelRepository,
	movements repository.StockMovementRepository,
	orders repository.PurchaseOrderRepository,
	order *entity.PurchaseOrder,
	now time.Time,
) error

// transition lee la orden bloqueada, valida la guarda, aplica el efecto y escribe el estado con CAS sobre el
// estado previo; todo en una transacción.
func (uc *OrderService) transition(ctx context.Context, scope domain.Scope, id string, event entity.OrderEvent, effect effectFunc) (*Result, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	var before, after *entity.PurchaseOrder
	var now time.Time
	err := uc.retrier.Run(ctx, string(event), func(
		levels repository.StockLevelRepository,
		movements repository.StockMovementRepository,
		orders repository.PurchaseOrderRepository,
	) error {
		order, err := orders.GetForUpdate(ctx, scope.TenantID, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		to, ok := order.Status.Next(event)
		if !ok {
			return fmt.Errorf("%s desde %s: %w", event, order.Status, domain.ErrInvalidStateTransition)
		}
		before = order.Clone()
		from := order.Status
		now = uc.now()
		order.Status = to
		order.UpdatedAt = now
		if effect != nil {
			if err := effect(levels, movements, orders, order, now); err != nil {
				return err
			}
		}
		if err := orders.UpdateStatus(ctx, order, from); err != nil {
			return err
		}
		after = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.OrderTransition(string(after.Status))
	uc.log.Info().
		Str("tenant_id", scope.TenantID).
		Str("order_number", after.OrderNumber).
		Str("from", string(before.Status)).
		Str("to", string(after.Status)).
		Msg("transición de orden de compra")
	if uc.notifier != nil {
		payload := ports.OrderStatusPayload{
			TenantID:    scope.TenantID,
			OrderID:     after.ID,
			OrderNumber: after.OrderNumber,
			OldStatus:   string(before.Status),
			NewStatus:   string(after.Status),
			Timestamp:   now,
		}
		if err := uc.notifier.Publish(ctx, ports.TopicOrderStatus, payload); err != nil {
			uc.log.Warn().Err(err).Str("topic", ports.TopicOrderStatus).Msg("notificación fallida")
		}
	}

	return &Result{
		Order: after,
		Changes: []entity.ChangeRecord{{
			TenantID:   scope.TenantID,
			EntityType: entity.EntityPurchaseOrder,
			EntityID:   after.ID,
			Action:     strings.ToUpper(string(event)),
			Old:        before,
			New:        after.Clone(),
			Actor:      scope.Actor(),
			At:         now,
		}},
	}, nil
}

// GetOrder devuelve la orden o ErrNotFound.
func (uc *OrderService) GetOrder(ctx context.Context, scope domain.Scope, id string) (*entity.PurchaseOrder, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	order, err := uc.orders.GetByID(ctx, scope.TenantID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// ListOrders lista órdenes del tenant, opcionalmente por estado.
func (uc *OrderService) ListOrders(ctx context.Context, scope domain.Scope, filter entity.OrderFilter) ([]*entity.PurchaseOrder, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, domain.ErrInvalidRequest
	}
	return uc.orders.List(ctx, scope.TenantID, filter)
}

func (uc *OrderService) ensureReferences(ctx context.Context, scope domain.Scope, in CreateInput) error {
	sp, err := uc.suppliers.GetByID(ctx, scope.TenantID, in.SupplierID)
	if err != nil {
		return err
	}
	if sp == nil {
		return fmt.Errorf("proveedor %s: %w", in.SupplierID, domain.ErrNotFound)
	}
	wh, err := uc.warehouses.GetByID(ctx, scope.TenantID, in.WarehouseID)
	if err != nil {
		return err
	}
	if wh == nil {
		return fmt.Errorf("bodega %s: %w", in.WarehouseID, domain.ErrNotFound)
	}
	for _, it := range in.Items {
		p, err := uc.products.GetByID(ctx, scope.TenantID, it.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("producto %s: %w", it.ProductID, domain.ErrNotFound)
		}
	}
	return nil
}
