package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	ledger "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// MovementInput describe una mutación del ledger: tipo, par, magnitud y correlación.
type MovementInput struct {
	ProductID   string
	WarehouseID string
	Type        entity.MovementType
	Quantity    int64
	Reference   string
	Notes       string
}

// Change resultado de ApplyInTx: fila antes (nil si no existía), fila después y movimiento escrito.
type Change struct {
	Before   *entity.StockLevel
	After    *entity.StockLevel
	Movement *entity.StockMovement
}

// OldQuantity cantidad previa (0 si la fila no existía).
func (c *Change) OldQuantity() int64 {
	if c.Before == nil {
		return 0
	}
	return c.Before.Quantity
}

// ApplyInTx aplica un movimiento usando los repositorios de la transacción del caller: lee la fila (o la crea
// en 0), aplica la regla del tipo, guarda con control de versión y agrega la entrada del journal.
// Es el único camino de escritura del ledger.
func ApplyInTx(
	ctx context.Context,
	levels repository.StockLevelRepository,
	movements repository.StockMovementRepository,
	scope domain.Scope,
	in MovementInput,
	now time.Time,
) (*Change, error) {
	level, err := levels.Get(ctx, scope.TenantID, in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	var before *entity.StockLevel
	if level == nil {
		level = ledger.NewLevel(scope.TenantID, in.ProductID, in.WarehouseID)
	} else {
		snapshot := *level
		before = &snapshot
	}

	if err := ledger.Apply(level, in.Type, in.Quantity, now); err != nil {
		return nil, err
	}
	if err := levels.Save(ctx, level); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		TenantID:    scope.TenantID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		Reference:   in.Reference,
		Notes:       in.Notes,
		CreatedBy:   scope.Actor(),
		CreatedAt:   now,
	}
	if err := movements.Create(ctx, mov); err != nil {
		return nil, err
	}

	after := *level
	return &Change{Before: before, After: &after, Movement: mov}, nil
}

// Record construye el registro de cambio para auditoría.
func (c *Change) Record(scope domain.Scope, action string) entity.ChangeRecord {
	var old any
	if c.Before != nil {
		old = c.Before
	}
	return entity.ChangeRecord{
		TenantID:   scope.TenantID,
		EntityType: entity.EntityStockLevel,
		EntityID:   c.After.ProductID + ":" + c.After.WarehouseID,
		Action:     action,
		Old:        old,
		New:        c.After,
		Actor:      scope.Actor(),
		At:         c.Movement.CreatedAt,
	}
}
