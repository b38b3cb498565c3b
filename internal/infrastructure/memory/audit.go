package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AuditLog escritor de auditoría en memoria.
type AuditLog struct{ s *Store }

// Audit devuelve el escritor de auditoría del store.
func (s *Store) Audit() *AuditLog { return &AuditLog{s: s} }

// Write agrega los registros.
func (a *AuditLog) Write(_ context.Context, records []entity.ChangeRecord) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	a.s.audit = append(a.s.audit, records...)
	return nil
}

// Records copia de los registros escritos.
func (a *AuditLog) Records() []entity.ChangeRecord {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return append([]entity.ChangeRecord(nil), a.s.audit...)
}
