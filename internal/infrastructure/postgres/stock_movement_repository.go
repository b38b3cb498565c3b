package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo journal sobre PostgreSQL; seq es una columna identity.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento y devuelve el seq asignado.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, tenant_id, product_id, warehouse_id, type, quantity, reference, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.TenantID, m.ProductID, m.WarehouseID, string(m.Type), m.Quantity,
		m.Reference, m.Notes, m.CreatedBy, m.CreatedAt,
	).Scan(&m.Seq)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// List movimientos del tenant filtrados, más reciente primero.
func (r *StockMovementRepo) List(ctx context.Context, tenantID string, f entity.MovementFilter) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, seq, tenant_id, product_id, warehouse_id, type, quantity, reference, notes, created_by, created_at
		FROM stock_movements
		WHERE tenant_id = $1
		  AND ($2 = '' OR product_id = $2)
		  AND ($3 = '' OR warehouse_id = $3)
		  AND ($4 = '' OR reference = $4)
		  AND ($5 = '' OR type = $5)
		  AND ($6::timestamptz IS NULL OR created_at >= $6)
		  AND ($7::timestamptz IS NULL OR created_at < $7)
		ORDER BY seq DESC
		LIMIT $8 OFFSET $9`
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	rows, err := r.q.Query(ctx, query, tenantID, f.ProductID, f.WarehouseID, f.Reference, string(f.Type),
		f.From, f.To, limitArg(f.Limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var typ string
		if err := rows.Scan(&m.ID, &m.Seq, &m.TenantID, &m.ProductID, &m.WarehouseID, &typ, &m.Quantity,
			&m.Reference, &m.Notes, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Type = entity.MovementType(typ)
		out = append(out, &m)
	}
	return out, rows.Err()
}
