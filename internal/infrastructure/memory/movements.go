package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*movementRepo)(nil)

type movementRepo struct {
	s  *Store
	tx *tx
}

// Create agrega el movimiento. Dentro de una transacción Seq se asigna al commit.
func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if r.tx != nil {
		r.tx.movements = append(r.tx.movements, m)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	m.Seq = r.s.seq
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *movementRepo) List(_ context.Context, tenantID string, f entity.MovementFilter) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.StockMovement, 0)
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.TenantID != tenantID || !f.Matches(&m) {
			continue
		}
		out = append(out, &m)
	}
	return page(out, f.Limit, f.Offset), nil
}
