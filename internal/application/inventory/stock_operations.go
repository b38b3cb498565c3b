package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Options dependencias opcionales de los casos de uso de inventario.
type Options struct {
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
	Metrics        ports.Metrics
	Logger         *logger.Logger
	Clock          func() time.Time
}

// NewRetrier retrier configurado con los reintentos y el backoff de o.
func (o Options) NewRetrier(tx TxRunner, log *logger.Logger) Retrier {
	return Retrier{Tx: tx, MaxAttempts: o.MaxRetries, BaseDelay: o.RetryBaseDelay, MaxDelay: o.RetryMaxDelay, Metrics: o.Metrics, Log: log}
}

func (o Options) withDefaults() Options {
	if o.MaxRetries < 1 {
		o.MaxRetries = 5
	}
	if o.Metrics == nil {
		o.Metrics = ports.NopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// StockOperations casos de uso que mutan el ledger (ajuste y traslado) y sus lecturas.
// Cada mutación escribe fila + journal en una sola transacción y notifica después del commit.
type StockOperations struct {
	retrier    Retrier
	levels     repository.StockLevelRepository
	movements  repository.StockMovementRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	notifier   ports.Notifier
	metrics    ports.Metrics
	log        *logger.Logger
	now        func() time.Time
}

// NewStockOperations construye el caso de uso. levels y movements se usan solo para lecturas fuera de tx.
func NewStockOperations(
	tx TxRunner,
	levels repository.StockLevelRepository,
	movements repository.StockMovementRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	notifier ports.Notifier,
	opts Options,
) *StockOperations {
	opts = opts.withDefaults()
	log := opts.Logger.Component("stock")
	return &StockOperations{
		retrier:    opts.NewRetrier(tx, log),
		levels:     levels,
		movements:  movements,
		products:   products,
		warehouses: warehouses,
		notifier:   notifier,
		metrics:    opts.Metrics,
		log:        log,
		now:        opts.Clock,
	}
}

// AdjustInput entrada de Adjust.
type AdjustInput struct {
	ProductID   string
	WarehouseID string
	Type        entity.MovementType
	Quantity    int64
	Reference   string
	Notes       string
}

// AdjustResult fila actualizada, movimiento escrito y registro de cambio.
type AdjustResult struct {
	Level    *entity.StockLevel
	Movement *entity.StockMovement
	Changes  []entity.ChangeRecord
}

// Adjust aplica IN (suma), OUT (resta, falla con ErrInsufficientStock) o ADJUSTMENT (cantidad absoluta).
func (uc *StockOperations) Adjust(ctx context.Context, scope domain.Scope, in AdjustInput) (*AdjustResult, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if in.ProductID == "" || in.WarehouseID == "" || !in.Type.IsValid() {
		return nil, domain.ErrInvalidRequest
	}
	if err := validateQuantity(in.Type, in.Quantity); err != nil {
		return nil, err
	}
	if err := uc.ensureReferences(ctx, scope, in.ProductID, in.WarehouseID); err != nil {
		return nil, err
	}

	var change *Change
	err := uc.retrier.Run(ctx, "adjust", func(
		levels repository.StockLevelRepository,
		movements repository.StockMovementRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		var err error
		change, err = ApplyInTx(ctx, levels, movements, scope, MovementInput{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Type:        in.Type,
			Quantity:    in.Quantity,
			Reference:   in.Reference,
			Notes:       in.Notes,
		}, uc.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, scope, change)
	return &AdjustResult{
		Level:    change.After,
		Movement: change.Movement,
		Changes:  []entity.ChangeRecord{change.Record(scope, string(in.Type))},
	}, nil
}

// TransferInput entrada de Transfer.
type TransferInput struct {
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        int64
	Notes           string
}

// TransferResult filas de origen y destino, referencia compartida y ambos movimientos.
type TransferResult struct {
	Reference string
	From      *entity.StockLevel
	To        *entity.StockLevel
	Movements []*entity.StockMovement
	Changes   []entity.ChangeRecord
}

// Transfer mueve cantidad entre bodegas: OUT en origen + IN en destino con la misma referencia TRF-<uuid>.
// El stock de origen se verifica antes de cualquier escritura.
func (uc *StockOperations) Transfer(ctx context.Context, scope domain.Scope, in TransferInput) (*TransferResult, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if in.ProductID == "" || in.FromWarehouseID == "" || in.ToWarehouseID == "" {
		return nil, domain.ErrInvalidRequest
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.ErrInvalidRequest
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := uc.ensureReferences(ctx, scope, in.ProductID, in.FromWarehouseID, in.ToWarehouseID); err != nil {
		return nil, err
	}

	reference := "TRF-" + uuid.New().String()
	var out, inc *Change
	err := uc.retrier.Run(ctx, "transfer", func(
		levels repository.StockLevelRepository,
		movements repository.StockMovementRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		src, err := levels.Get(ctx, scope.TenantID, in.ProductID, in.FromWarehouseID)
		if err != nil {
			return err
		}
		if src == nil || src.Quantity < in.Quantity {
			return domain.ErrInsufficientStock
		}
		now := uc.now()
		out, err = ApplyInTx(ctx, levels, movements, scope, MovementInput{
			ProductID:   in.ProductID,
			WarehouseID: in.FromWarehouseID,
			Type:        entity.MovementTypeOUT,
			Quantity:    in.Quantity,
			Reference:   reference,
			Notes:       in.Notes,
		}, now)
		if err != nil {
			return err
		}
		inc, err = ApplyInTx(ctx, levels, movements, scope, MovementInput{
			ProductID:   in.ProductID,
			WarehouseID: in.ToWarehouseID,
			Type:        entity.MovementTypeIN,
			Quantity:    in.Quantity,
			Reference:   reference,
			Notes:       in.Notes,
		}, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, scope, out, inc)
	return &TransferResult{
		Reference: reference,
		From:      out.After,
		To:        inc.After,
		Movements: []*entity.StockMovement{out.Movement, inc.Movement},
		Changes: []entity.ChangeRecord{
			out.Record(scope, "TRANSFER_OUT"),
			inc.Record(scope, "TRANSFER_IN"),
		},
	}, nil
}

// LimitsInput mínimo y máximo de la fila; nil borra el límite.
type LimitsInput struct {
	ProductID   string
	WarehouseID string
	MinQuantity *int64
	MaxQuantity *int64
}

// SetLimits fija min/max de una fila existente. No cambia la cantidad, por lo que no escribe journal.
func (uc *StockOperations) SetLimits(ctx context.Context, scope domain.Scope, in LimitsInput) (*entity.StockLevel, []entity.ChangeRecord, error) {
	if err := scope.Validate(); err != nil {
		return nil, nil, err
	}
	if (in.MinQuantity != nil && *in.MinQuantity < 0) || (in.MaxQuantity != nil && *in.MaxQuantity < 0) {
		return nil, nil, domain.ErrInvalidQuantity
	}
	if in.MinQuantity != nil && in.MaxQuantity != nil && *in.MaxQuantity < *in.MinQuantity {
		return nil, nil, domain.ErrInvalidQuantity
	}

	var before, after entity.StockLevel
	err := uc.retrier.Run(ctx, "set_limits", func(
		levels repository.StockLevelRepository,
		_ repository.StockMovementRepository,
		_ repository.PurchaseOrderRepository,
	) error {
		level, err := levels.Get(ctx, scope.TenantID, in.ProductID, in.WarehouseID)
		if err != nil {
			return err
		}
		if level == nil {
			return domain.ErrNotFound
		}
		before = *level
		level.MinQuantity = cloneQty(in.MinQuantity)
		level.MaxQuantity = cloneQty(in.MaxQuantity)
		level.LastUpdated = uc.now()
		if err := levels.Save(ctx, level); err != nil {
			return err
		}
		after = *level
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	rec := entity.ChangeRecord{
		TenantID:   scope.TenantID,
		EntityType: entity.EntityStockLevel,
		EntityID:   after.ProductID + ":" + after.WarehouseID,
		Action:     "SET_LIMITS",
		Old:        &before,
		New:        &after,
		Actor:      scope.Actor(),
		At:         after.LastUpdated,
	}
	return &after, []entity.ChangeRecord{rec}, nil
}

func cloneQty(q *int64) *int64 {
	if q == nil {
		return nil
	}
	v := *q
	return &v
}

func validateQuantity(t entity.MovementType, qty int64) error {
	if t == entity.MovementTypeADJUSTMENT {
		if qty < 0 {
			return domain.ErrInvalidQuantity
		}
		return nil
	}
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// ensureReferences valida que producto y bodegas existan en el tenant.
func (uc *StockOperations) ensureReferences(ctx context.Context, scope domain.Scope, productID string, warehouseIDs ...string) error {
	p, err := uc.products.GetByID(ctx, scope.TenantID, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	for _, id := range warehouseIDs {
		w, err := uc.warehouses.GetByID(ctx, scope.TenantID, id)
		if err != nil {
			return err
		}
		if w == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (uc *StockOperations) afterCommit(ctx context.Context, scope domain.Scope, changes ...*Change) {
	for _, c := range changes {
		uc.metrics.StockMovement(string(c.Movement.Type))
		uc.log.Info().
			Str("tenant_id", scope.TenantID).
			Str("product_id", c.After.ProductID).
			Str("warehouse_id", c.After.WarehouseID).
			Str("type", string(c.Movement.Type)).
			Int64("quantity", c.Movement.Quantity).
			Int64("new_quantity", c.After.Quantity).
			Msg("movimiento de stock aplicado")
	}
	PublishStockUpdates(ctx, uc.notifier, uc.log, scope, changes...)
}

// PublishStockUpdates emite stock-update por cada cambio. Los errores solo se registran.
func PublishStockUpdates(ctx context.Context, n ports.Notifier, log *logger.Logger, scope domain.Scope, changes ...*Change) {
	if n == nil {
		return
	}
	for _, c := range changes {
		payload := ports.StockUpdatePayload{
			TenantID:    scope.TenantID,
			ProductID:   c.After.ProductID,
			WarehouseID: c.After.WarehouseID,
			OldQuantity: c.OldQuantity(),
			NewQuantity: c.After.Quantity,
			ChangeType:  string(c.Movement.Type),
			Reference:   c.Movement.Reference,
			Timestamp:   c.Movement.CreatedAt,
		}
		if err := n.Publish(ctx, ports.TopicStockUpdate, payload); err != nil {
			log.Warn().Err(err).Str("topic", ports.TopicStockUpdate).Msg("notificación fallida")
		}
	}
}
