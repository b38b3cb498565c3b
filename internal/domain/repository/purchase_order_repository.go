package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra y sus items.
type PurchaseOrderRepository interface {
	// Create inserta la orden con todos sus items.
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate igual que GetByID pero bloquea la orden hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error)
	// UpdateStatus persiste order.Status, UpdatedAt y ReceivedAt solo si el estado almacenado sigue
	// siendo from. Si no, devuelve domain.ErrInvalidStateTransition.
	UpdateStatus(ctx context.Context, order *entity.PurchaseOrder, from entity.OrderStatus) error
	// UpdateReceivedQuantities persiste ReceivedQuantity de cada item.
	UpdateReceivedQuantities(ctx context.Context, order *entity.PurchaseOrder) error
	List(ctx context.Context, tenantID string, filter entity.OrderFilter) ([]*entity.PurchaseOrder, error)
}
