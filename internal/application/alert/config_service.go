package alert

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ConfigService administración de configuraciones de alerta.
type ConfigService struct {
	configs    repository.AlertConfigRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
}

// NewConfigService construye el caso de uso.
func NewConfigService(configs repository.AlertConfigRepository, products repository.ProductRepository, warehouses repository.WarehouseRepository) *ConfigService {
	return &ConfigService{configs: configs, products: products, warehouses: warehouses}
}

// CreateInput entrada de Create. WarehouseID vacío = todas las bodegas del producto.
type CreateInput struct {
	ProductID   string
	WarehouseID string
	Threshold   int64
	Recipients  []string
	Enabled     bool
}

// Create registra una configuración nueva.
func (uc *ConfigService) Create(ctx context.Context, scope domain.Scope, in CreateInput) (*entity.AlertConfig, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := uc.validate(ctx, scope, in); err != nil {
		return nil, err
	}

	cfg := &entity.AlertConfig{
		ID:          uuid.New().String(),
		TenantID:    scope.TenantID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Threshold:   in.Threshold,
		Recipients:  in.Recipients,
		Enabled:     in.Enabled,
		CreatedAt:   time.Now(),
	}
	if err := uc.configs.Create(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetByID devuelve la configuración o ErrNotFound.
func (uc *ConfigService) GetByID(ctx context.Context, scope domain.Scope, id string) (*entity.AlertConfig, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	cfg, err := uc.configs.GetByID(ctx, scope.TenantID, id)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	return cfg, nil
}

// Update reemplaza el alcance, el umbral, los destinatarios y enabled con las mismas reglas que Create.
func (uc *ConfigService) Update(ctx context.Context, scope domain.Scope, id string, in CreateInput) (*entity.AlertConfig, error) {
	current, err := uc.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := uc.validate(ctx, scope, in); err != nil {
		return nil, err
	}
	updated := *current
	updated.ProductID = in.ProductID
	updated.WarehouseID = in.WarehouseID
	updated.Threshold = in.Threshold
	updated.Recipients = in.Recipients
	updated.Enabled = in.Enabled
	if err := uc.configs.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete elimina la configuración.
func (uc *ConfigService) Delete(ctx context.Context, scope domain.Scope, id string) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	return uc.configs.Delete(ctx, scope.TenantID, id)
}

// validate producto obligatorio y existente, bodega existente si se indica, umbral no negativo.
func (uc *ConfigService) validate(ctx context.Context, scope domain.Scope, in CreateInput) error {
	if in.ProductID == "" {
		return domain.ErrInvalidRequest
	}
	if in.Threshold < 0 {
		return domain.ErrInvalidQuantity
	}
	p, err := uc.products.GetByID(ctx, scope.TenantID, in.ProductID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if in.WarehouseID != "" {
		w, err := uc.warehouses.GetByID(ctx, scope.TenantID, in.WarehouseID)
		if err != nil {
			return err
		}
		if w == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// List configuraciones del tenant.
func (uc *ConfigService) List(ctx context.Context, scope domain.Scope) ([]*entity.AlertConfig, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return uc.configs.List(ctx, scope.TenantID)
}

// SetEnabled habilita o deshabilita una configuración.
func (uc *ConfigService) SetEnabled(ctx context.Context, scope domain.Scope, id string, enabled bool) (*entity.AlertConfig, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := uc.configs.SetEnabled(ctx, scope.TenantID, id, enabled); err != nil {
		return nil, err
	}
	cfg, err := uc.configs.GetByID(ctx, scope.TenantID, id)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	return cfg, nil
}
