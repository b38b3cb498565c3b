package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del journal (solo inserción).
type StockMovementRepository interface {
	// Create inserta el movimiento y le asigna Seq.
	Create(ctx context.Context, movement *entity.StockMovement) error
	// List devuelve movimientos del tenant, más reciente primero (Seq descendente). Limit 0 = sin límite.
	List(ctx context.Context, tenantID string, filter entity.MovementFilter) ([]*entity.StockMovement, error)
}
