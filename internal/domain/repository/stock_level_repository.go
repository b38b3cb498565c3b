package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockLevelRepository define el puerto de persistencia del ledger de cantidades (DIP).
// Usado dentro de transacciones para garantizar consistencia.
type StockLevelRepository interface {
	// Get devuelve la fila del par o nil, nil si el par nunca tuvo movimientos.
	Get(ctx context.Context, tenantID, productID, warehouseID string) (*entity.StockLevel, error)
	// Save persiste la fila con control optimista: inserta si Version == 0, si no actualiza solo
	// cuando la versión almacenada coincide. Devuelve domain.ErrVersionConflict si otra transacción
	// ganó la carrera. En éxito incrementa level.Version.
	Save(ctx context.Context, level *entity.StockLevel) error
	ListByProduct(ctx context.Context, tenantID, productID string) ([]*entity.StockLevel, error)
	List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.StockLevel, error)
	// ListBelowMinimum filas con quantity <= min_quantity.
	ListBelowMinimum(ctx context.Context, tenantID string) ([]*entity.StockLevel, error)
}
