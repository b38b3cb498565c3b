package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var _ ports.AuditWriter = (*AuditRepo)(nil)

// AuditRepo escribe registros de cambio en audit_logs (old/new como JSONB).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el escritor de auditoría.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Write inserta cada registro.
func (r *AuditRepo) Write(ctx context.Context, records []entity.ChangeRecord) error {
	query := `
		INSERT INTO audit_logs (tenant_id, entity_type, entity_id, action, old_values, new_values, actor, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, rec := range records {
		if rec.EntityType == "" || rec.EntityID == "" || rec.Action == "" {
			return fmt.Errorf("audit: registro incompleto")
		}
		oldJSON, err := marshalNullable(rec.Old)
		if err != nil {
			return fmt.Errorf("audit old values: %w", err)
		}
		newJSON, err := marshalNullable(rec.New)
		if err != nil {
			return fmt.Errorf("audit new values: %w", err)
		}
		at := rec.At
		if at.IsZero() {
			at = time.Now()
		}
		if _, err := r.q.Exec(ctx, query, rec.TenantID, rec.EntityType, rec.EntityID, rec.Action, oldJSON, newJSON, rec.Actor, at); err != nil {
			return fmt.Errorf("insert audit log: %w", err)
		}
	}
	return nil
}

func marshalNullable(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
