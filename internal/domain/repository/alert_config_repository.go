package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AlertConfigRepository define el puerto de persistencia para configuraciones de stock bajo.
type AlertConfigRepository interface {
	Create(ctx context.Context, cfg *entity.AlertConfig) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.AlertConfig, error)
	List(ctx context.Context, tenantID string) ([]*entity.AlertConfig, error)
	ListEnabled(ctx context.Context, tenantID string) ([]*entity.AlertConfig, error)
	// SetEnabled devuelve domain.ErrNotFound si la configuración no existe.
	SetEnabled(ctx context.Context, tenantID, id string, enabled bool) error
	// Update reemplaza producto, bodega, umbral, destinatarios y enabled; domain.ErrNotFound si no existe.
	Update(ctx context.Context, cfg *entity.AlertConfig) error
	// Delete devuelve domain.ErrNotFound si la configuración no existe.
	Delete(ctx context.Context, tenantID, id string) error
	// ListTenantsWithEnabled tenants con al menos una configuración habilitada (para el barrido programado).
	ListTenantsWithEnabled(ctx context.Context) ([]string, error)
}
