package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.AlertConfigRepository = (*alertRepo)(nil)

// Alerts repositorio de configuraciones de stock bajo.
func (s *Store) Alerts() repository.AlertConfigRepository { return &alertRepo{s: s} }

type alertRepo struct{ s *Store }

func (r *alertRepo) Create(_ context.Context, cfg *entity.AlertConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.alerts[cfg.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *cfg
	c.Recipients = append([]string(nil), cfg.Recipients...)
	r.s.alerts[cfg.ID] = c
	return nil
}

func (r *alertRepo) GetByID(_ context.Context, tenantID, id string) (*entity.AlertConfig, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.alerts[id]
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	return &c, nil
}

func (r *alertRepo) List(_ context.Context, tenantID string) ([]*entity.AlertConfig, error) {
	return r.filter(func(c *entity.AlertConfig) bool { return c.TenantID == tenantID }), nil
}

func (r *alertRepo) ListEnabled(_ context.Context, tenantID string) ([]*entity.AlertConfig, error) {
	return r.filter(func(c *entity.AlertConfig) bool { return c.TenantID == tenantID && c.Enabled }), nil
}

func (r *alertRepo) SetEnabled(_ context.Context, tenantID, id string, enabled bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.alerts[id]
	if !ok || c.TenantID != tenantID {
		return domain.ErrNotFound
	}
	c.Enabled = enabled
	r.s.alerts[id] = c
	return nil
}

func (r *alertRepo) Update(_ context.Context, cfg *entity.AlertConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.alerts[cfg.ID]
	if !ok || c.TenantID != cfg.TenantID {
		return domain.ErrNotFound
	}
	c.ProductID = cfg.ProductID
	c.WarehouseID = cfg.WarehouseID
	c.Threshold = cfg.Threshold
	c.Recipients = append([]string(nil), cfg.Recipients...)
	c.Enabled = cfg.Enabled
	r.s.alerts[cfg.ID] = c
	return nil
}

func (r *alertRepo) Delete(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.alerts[id]
	if !ok || c.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.s.alerts, id)
	return nil
}

func (r *alertRepo) ListTenantsWithEnabled(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	seen := make(map[string]struct{})
	for _, c := range r.s.alerts {
		if c.Enabled {
			seen[c.TenantID] = struct{}{}
		}
	}
	r.s.mu.RUnlock()
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

func (r *alertRepo) filter(keep func(*entity.AlertConfig) bool) []*entity.AlertConfig {
	r.s.mu.RLock()
	out := make([]*entity.AlertConfig, 0)
	for _, c := range r.s.alerts {
		c := c
		if keep(&c) {
			out = append(out, &c)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
