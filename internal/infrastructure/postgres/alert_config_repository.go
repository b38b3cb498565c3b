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

var _ repository.AlertConfigRepository = (*AlertConfigRepo)(nil)

// AlertConfigRepo configuraciones de stock bajo sobre PostgreSQL.
type AlertConfigRepo struct {
	q Querier
}

// NewAlertConfigRepository construye el adaptador.
func NewAlertConfigRepository(q Querier) *AlertConfigRepo {
	return &AlertConfigRepo{q: q}
}

const alertColumns = `id, tenant_id, product_id, COALESCE(warehouse_id, ''), threshold, recipients, enabled, created_at`

// Create persiste la configuración.
func (r *AlertConfigRepo) Create(ctx context.Context, c *entity.AlertConfig) error {
	query := `
		INSERT INTO alert_configs (id, tenant_id, product_id, warehouse_id, threshold, recipients, enabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	recipients := c.Recipients
	if recipients == nil {
		recipients = []string{}
	}
	_, err := r.q.Exec(ctx, query, c.ID, c.TenantID, c.ProductID, nullable(c.WarehouseID), c.Threshold, recipients, c.Enabled, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert alert config: %w", err)
	}
	return nil
}

// GetByID obtiene una configuración; nil, nil si no existe.
func (r *AlertConfigRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.AlertConfig, error) {
	query := `SELECT ` + alertColumns + ` FROM alert_configs WHERE tenant_id = $1 AND id = $2`
	c, err := scanAlert(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert config: %w", err)
	}
	return c, nil
}

// List configuraciones del tenant.
func (r *AlertConfigRepo) List(ctx context.Context, tenantID string) ([]*entity.AlertConfig, error) {
	query := `SELECT ` + alertColumns + ` FROM alert_configs WHERE tenant_id = $1 ORDER BY created_at, id`
	return r.list(ctx, query, tenantID)
}

// ListEnabled configuraciones habilitadas del tenant.
func (r *AlertConfigRepo) ListEnabled(ctx context.Context, tenantID string) ([]*entity.AlertConfig, error) {
	query := `SELECT ` + alertColumns + ` FROM alert_configs WHERE tenant_id = $1 AND enabled ORDER BY created_at, id`
	return r.list(ctx, query, tenantID)
}

// SetEnabled cambia el flag enabled.
func (r *AlertConfigRepo) SetEnabled(ctx context.Context, tenantID, id string, enabled bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE alert_configs SET enabled = $3 WHERE tenant_id = $1 AND id = $2`, tenantID, id, enabled)
	if err != nil {
		return fmt.Errorf("update alert config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update reemplaza los campos editables de la configuración.
func (r *AlertConfigRepo) Update(ctx context.Context, c *entity.AlertConfig) error {
	query := `
		UPDATE alert_configs
		SET product_id = $3, warehouse_id = $4, threshold = $5, recipients = $6, enabled = $7
		WHERE tenant_id = $1 AND id = $2`
	recipients := c.Recipients
	if recipients == nil {
		recipients = []string{}
	}
	tag, err := r.q.Exec(ctx, query, c.TenantID, c.ID, c.ProductID, nullable(c.WarehouseID), c.Threshold, recipients, c.Enabled)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update alert config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la configuración.
func (r *AlertConfigRepo) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM alert_configs WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete alert config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListTenantsWithEnabled tenants con al menos una configuración habilitada.
func (r *AlertConfigRepo) ListTenantsWithEnabled(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT tenant_id FROM alert_configs WHERE enabled ORDER BY tenant_id`)
	if err != nil {
		return nil, fmt.Errorf("list alert tenants: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *AlertConfigRepo) list(ctx context.Context, query string, args ...any) ([]*entity.AlertConfig, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alert configs: %w", err)
	}
	defer rows.Close()
	var out []*entity.AlertConfig
	for rows.Next() {
		c, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert config: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanAlert(row pgx.Row) (*entity.AlertConfig, error) {
	var c entity.AlertConfig
	if err := row.Scan(&c.ID, &c.TenantID, &c.ProductID, &c.WarehouseID, &c.Threshold, &c.Recipients, &c.Enabled, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
