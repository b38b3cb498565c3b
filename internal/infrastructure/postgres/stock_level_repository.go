package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de StockLevelRepository sobre PostgreSQL (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

const stockLevelColumns = `tenant_id, product_id, warehouse_id, quantity, min_quantity, max_quantity, last_updated, version`

func scanStockLevel(row pgx.Row) (*entity.StockLevel, error) {
	var l entity.StockLevel
	if err := row.Scan(&l.TenantID, &l.ProductID, &l.WarehouseID, &l.Quantity, &l.MinQuantity, &l.MaxQuantity, &l.LastUpdated, &l.Version); err != nil {
		return nil, err
	}
	return &l, nil
}

// Get obtiene la fila del par; nil, nil si no existe.
func (r *StockLevelRepo) Get(ctx context.Context, tenantID, productID, warehouseID string) (*entity.StockLevel, error) {
	query := `SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE tenant_id = $1 AND product_id = $2 AND warehouse_id = $3`
	l, err := scanStockLevel(r.q.QueryRow(ctx, query, tenantID, productID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return l, nil
}

// Save inserta la fila si Version == 0 (ON CONFLICT DO NOTHING) o la actualiza con WHERE version = $v.
// Cero filas afectadas significa que otra transacción ganó: ErrVersionConflict.
func (r *StockLevelRepo) Save(ctx context.Context, level *entity.StockLevel) error {
	var query string
	var args []any
	if level.IsNew() {
		query = `
			INSERT INTO stock_levels (` + stockLevelColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
			ON CONFLICT (tenant_id, product_id, warehouse_id) DO NOTHING`
		args = []any{level.TenantID, level.ProductID, level.WarehouseID, level.Quantity, level.MinQuantity, level.MaxQuantity, level.LastUpdated}
	} else {
		query = `
			UPDATE stock_levels
			SET quantity = $4, min_quantity = $5, max_quantity = $6, last_updated = $7, version = version + 1
			WHERE tenant_id = $1 AND product_id = $2 AND warehouse_id = $3 AND version = $8`
		args = []any{level.TenantID, level.ProductID, level.WarehouseID, level.Quantity, level.MinQuantity, level.MaxQuantity, level.LastUpdated, level.Version}
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save stock level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}
	level.Version++
	return nil
}

// ListByProduct filas de un producto en todas sus bodegas.
func (r *StockLevelRepo) ListByProduct(ctx context.Context, tenantID, productID string) ([]*entity.StockLevel, error) {
	query := `SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE tenant_id = $1 AND product_id = $2
		ORDER BY warehouse_id`
	return r.list(ctx, "list stock levels by product", query, tenantID, productID)
}

// List filas del tenant paginadas.
func (r *StockLevelRepo) List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.StockLevel, error) {
	query := `SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE tenant_id = $1
		ORDER BY product_id, warehouse_id
		LIMIT $2 OFFSET $3`
	return r.list(ctx, "list stock levels", query, tenantID, limitArg(limit), offset)
}

// ListBelowMinimum filas con min_quantity definido y quantity <= min_quantity.
func (r *StockLevelRepo) ListBelowMinimum(ctx context.Context, tenantID string) ([]*entity.StockLevel, error) {
	query := `SELECT ` + stockLevelColumns + `
		FROM stock_levels
		WHERE tenant_id = $1 AND min_quantity IS NOT NULL AND quantity <= min_quantity
		ORDER BY product_id, warehouse_id`
	return r.list(ctx, "list stock below minimum", query, tenantID)
}

func (r *StockLevelRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.StockLevel, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var out []*entity.StockLevel
	for rows.Next() {
		l, err := scanStockLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
