package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback; si no, commit. Un commit que pierde la carrera optimista
// devuelve domain.ErrVersionConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		levels repository.StockLevelRepository,
		movements repository.StockMovementRepository,
		orders repository.PurchaseOrderRepository,
	) error) error
}

// TxFunc firma de la función transaccional.
type TxFunc = func(
	levels repository.StockLevelRepository,
	movements repository.StockMovementRepository,
	orders repository.PurchaseOrderRepository,
) error
