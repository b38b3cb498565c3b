package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*levelRepo)(nil)

type levelRepo struct {
	s  *Store
	tx *tx
}

func (r *levelRepo) Get(_ context.Context, tenantID, productID, warehouseID string) (*entity.StockLevel, error) {
	k := levelKey{tenant: tenantID, product: productID, warehouse: warehouseID}
	if r.tx != nil {
		if sl, ok := r.tx.levels[k]; ok {
			l := sl.level
			return &l, nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.levels[k]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *levelRepo) Save(_ context.Context, level *entity.StockLevel) error {
	k := levelKey{tenant: level.TenantID, product: level.ProductID, warehouse: level.WarehouseID}
	if r.tx == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		if r.s.levels[k].Version != level.Version {
			return domain.ErrVersionConflict
		}
		level.Version++
		r.s.levels[k] = *level
		return nil
	}

	if sl, ok := r.tx.levels[k]; ok {
		if sl.level.Version != level.Version {
			return domain.ErrVersionConflict
		}
		level.Version++
		sl.level = *level
		return nil
	}

	r.s.mu.RLock()
	committed := r.s.levels[k].Version
	r.s.mu.RUnlock()
	if committed != level.Version {
		return domain.ErrVersionConflict
	}
	level.Version++
	r.tx.levels[k] = &stagedLevel{level: *level, base: committed}
	return nil
}

func (r *levelRepo) ListByProduct(_ context.Context, tenantID, productID string) ([]*entity.StockLevel, error) {
	return r.filter(func(l *entity.StockLevel) bool {
		return l.TenantID == tenantID && l.ProductID == productID
	}), nil
}

func (r *levelRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*entity.StockLevel, error) {
	list := r.filter(func(l *entity.StockLevel) bool { return l.TenantID == tenantID })
	return page(list, limit, offset), nil
}

func (r *levelRepo) ListBelowMinimum(_ context.Context, tenantID string) ([]*entity.StockLevel, error) {
	return r.filter(func(l *entity.StockLevel) bool {
		return l.TenantID == tenantID && l.BelowMinimum()
	}), nil
}

func (r *levelRepo) filter(keep func(*entity.StockLevel) bool) []*entity.StockLevel {
	r.s.mu.RLock()
	out := make([]*entity.StockLevel, 0)
	for _, l := range r.s.levels {
		l := l
		if keep(&l) {
			out = append(out, &l)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].WarehouseID < out[j].WarehouseID
	})
	return out
}

func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return list[:0]
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
