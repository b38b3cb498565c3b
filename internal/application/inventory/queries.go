package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	ledger "github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// GetStockLevel devuelve la fila del par o ErrNotFound si el par nunca tuvo movimientos.
func (uc *StockOperations) GetStockLevel(ctx context.Context, scope domain.Scope, productID, warehouseID string) (*entity.StockLevel, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	level, err := uc.levels.Get(ctx, scope.TenantID, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, domain.ErrNotFound
	}
	return level, nil
}

// ListStockLevels lista filas del ledger del tenant.
func (uc *StockOperations) ListStockLevels(ctx context.Context, scope domain.Scope, limit, offset int) ([]*entity.StockLevel, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return uc.levels.List(ctx, scope.TenantID, limit, offset)
}

// ListStockLevelsByProduct filas de un producto en todas sus bodegas.
func (uc *StockOperations) ListStockLevelsByProduct(ctx context.Context, scope domain.Scope, productID string) ([]*entity.StockLevel, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return uc.levels.ListByProduct(ctx, scope.TenantID, productID)
}

// ListBelowMinimum filas con mínimo configurado y cantidad <= mínimo.
func (uc *StockOperations) ListBelowMinimum(ctx context.Context, scope domain.Scope) ([]*entity.StockLevel, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return uc.levels.ListBelowMinimum(ctx, scope.TenantID)
}

// ListMovements consulta el journal (más reciente primero). Un tipo desconocido o un rango invertido
// devuelven ErrInvalidRequest.
func (uc *StockOperations) ListMovements(ctx context.Context, scope domain.Scope, filter entity.MovementFilter) ([]*entity.StockMovement, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, domain.ErrInvalidRequest
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.ErrInvalidRequest
	}
	return uc.movements.List(ctx, scope.TenantID, filter)
}

// Reconciliation compara la cantidad del ledger con la reconstruida desde el journal.
// Version es la versión de la fila sobre la que se hizo la comparación.
type Reconciliation struct {
	ProductID        string
	WarehouseID      string
	LedgerQuantity   int64
	ReplayedQuantity int64
	Version          int64
	Movements        int
	Consistent       bool
}

// Reconcile reproduce el journal del par en orden de secuencia y lo compara con el ledger.
// La fila se lee antes y después del journal; si su versión cambió en medio la lectura se repite,
// así la comparación siempre corresponde a un mismo estado comprometido.
func (uc *StockOperations) Reconcile(ctx context.Context, scope domain.Scope, productID, warehouseID string) (*Reconciliation, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	attempts := uc.retrier.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		rec, stable, err := uc.reconcileOnce(ctx, scope, productID, warehouseID)
		if err != nil || stable {
			return rec, err
		}
		uc.log.Debug().Str("product_id", productID).Str("warehouse_id", warehouseID).Int("attempt", attempt+1).
			Msg("ledger modificado durante la conciliación, repitiendo lectura")
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("reconcile: %d lecturas: %w", attempts, domain.ErrVersionConflict)
}

func (uc *StockOperations) reconcileOnce(ctx context.Context, scope domain.Scope, productID, warehouseID string) (*Reconciliation, bool, error) {
	before, err := uc.levels.Get(ctx, scope.TenantID, productID, warehouseID)
	if err != nil {
		return nil, false, err
	}
	movs, err := uc.movements.List(ctx, scope.TenantID, entity.MovementFilter{ProductID: productID, WarehouseID: warehouseID})
	if err != nil {
		return nil, false, err
	}
	after, err := uc.levels.Get(ctx, scope.TenantID, productID, warehouseID)
	if err != nil {
		return nil, false, err
	}
	if versionOf(before) != versionOf(after) {
		return nil, false, nil
	}
	if after == nil && len(movs) == 0 {
		return nil, true, domain.ErrNotFound
	}

	flat := make([]entity.StockMovement, 0, len(movs))
	for _, m := range movs {
		flat = append(flat, *m)
	}
	replayed := ledger.Replay(flat)[entity.Pair{ProductID: productID, WarehouseID: warehouseID}]

	var current int64
	if after != nil {
		current = after.Quantity
	}
	return &Reconciliation{
		ProductID:        productID,
		WarehouseID:      warehouseID,
		LedgerQuantity:   current,
		ReplayedQuantity: replayed,
		Version:          versionOf(after),
		Movements:        len(movs),
		Consistent:       current == replayed,
	}, true, nil
}

func versionOf(l *entity.StockLevel) int64 {
	if l == nil {
		return 0
	}
	return l.Version
}
