package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Supplier, error)
	List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Supplier, error)
}
