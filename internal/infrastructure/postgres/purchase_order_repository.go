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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra e items sobre PostgreSQL (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const orderColumns = `id, tenant_id, order_number, supplier_id, warehouse_id, status, total_amount, created_by, created_at, updated_at, received_at`

// Create inserta la cabecera y sus items. Debe ejecutarse dentro de una tx para ser atómico.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	query := `INSERT INTO purchase_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.TenantID, o.OrderNumber, o.SupplierID, o.WarehouseID, string(o.Status), o.TotalAmount,
		o.CreatedBy, o.CreatedAt, o.UpdatedAt, o.ReceivedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}

	itemQuery := `
		INSERT INTO purchase_order_items (id, order_id, position, product_id, ordered_quantity, unit_price, received_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, it := range o.Items {
		if _, err := r.q.Exec(ctx, itemQuery, it.ID, o.ID, i, it.ProductID, it.OrderedQuantity, it.UnitPrice, it.ReceivedQuantity); err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

// GetByID cabecera + items; nil, nil si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, tenantID, id, "")
}

// GetForUpdate bloquea la cabecera (SELECT ... FOR UPDATE) hasta el fin de la tx.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, tenantID, id, " FOR UPDATE")
}

func (r *PurchaseOrderRepo) get(ctx context.Context, tenantID, id, lock string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE tenant_id = $1 AND id = $2` + lock
	o, err := scanOrder(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.PurchaseOrder{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateStatus CAS sobre el estado previo.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, o *entity.PurchaseOrder, from entity.OrderStatus) error {
	query := `
		UPDATE purchase_orders SET status = $3, updated_at = $4, received_at = $5
		WHERE tenant_id = $1 AND id = $2 AND status = $6`
	tag, err := r.q.Exec(ctx, query, o.TenantID, o.ID, string(o.Status), o.UpdatedAt, o.ReceivedAt, string(from))
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidStateTransition
	}
	return nil
}

// UpdateReceivedQuantities persiste received_quantity por item.
func (r *PurchaseOrderRepo) UpdateReceivedQuantities(ctx context.Context, o *entity.PurchaseOrder) error {
	query := `UPDATE purchase_order_items SET received_quantity = $3 WHERE order_id = $1 AND id = $2`
	for _, it := range o.Items {
		if _, err := r.q.Exec(ctx, query, o.ID, it.ID, it.ReceivedQuantity); err != nil {
			return fmt.Errorf("update received quantity: %w", err)
		}
	}
	return nil
}

// List órdenes del tenant, más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, tenantID string, f entity.OrderFilter) ([]*entity.PurchaseOrder, error) {
	status := ""
	if f.Status != nil {
		status = string(*f.Status)
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + orderColumns + `
		FROM purchase_orders
		WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, order_number DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, tenantID, status, limitArg(f.Limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var out []*entity.PurchaseOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	var status string
	if err := row.Scan(&o.ID, &o.TenantID, &o.OrderNumber, &o.SupplierID, &o.WarehouseID, &status, &o.TotalAmount,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt, &o.ReceivedAt); err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}

// loadItems carga los items de varias órdenes en una sola consulta.
func (r *PurchaseOrderRepo) loadItems(ctx context.Context, orders []*entity.PurchaseOrder) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	byID := make(map[string]*entity.PurchaseOrder, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}
	query := `
		SELECT id, order_id, product_id, ordered_quantity, unit_price, received_quantity
		FROM purchase_order_items WHERE order_id = ANY($1)
		ORDER BY order_id, position`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.OrderedQuantity, &it.UnitPrice, &it.ReceivedQuantity); err != nil {
			return fmt.Errorf("scan purchase order item: %w", err)
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}
