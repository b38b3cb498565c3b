package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*productRepo)(nil)
	_ repository.WarehouseRepository = (*warehouseRepo)(nil)
	_ repository.SupplierRepository  = (*supplierRepo)(nil)
)

// Products repositorio de productos.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s: s} }

// Warehouses repositorio de bodegas.
func (s *Store) Warehouses() repository.WarehouseRepository { return &warehouseRepo{s: s} }

// Suppliers repositorio de proveedores.
func (s *Store) Suppliers() repository.SupplierRepository { return &supplierRepo{s: s} }

type productRepo struct{ s *Store }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, cur := range r.s.products {
		if cur.TenantID == p.TenantID && cur.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetBySKU(_ context.Context, tenantID, sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.TenantID == tenantID && p.SKU == sku {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *productRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	out := make([]*entity.Product, 0)
	for _, p := range r.s.products {
		if p.TenantID == tenantID {
			p := p
			out = append(out, &p)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return page(out, limit, offset), nil
}

type warehouseRepo struct{ s *Store }

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[w.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, cur := range r.s.warehouses {
		if w.Code != "" && cur.TenantID == w.TenantID && cur.Code == w.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *warehouseRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.warehouses[id]
	if !ok || w.TenantID != tenantID {
		return nil, nil
	}
	return &w, nil
}

func (r *warehouseRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*entity.Warehouse, error) {
	r.s.mu.RLock()
	out := make([]*entity.Warehouse, 0)
	for _, w := range r.s.warehouses {
		if w.TenantID == tenantID {
			w := w
			out = append(out, &w)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

type supplierRepo struct{ s *Store }

func (r *supplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[sp.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.suppliers[sp.ID] = *sp
	return nil
}

func (r *supplierRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sp, ok := r.s.suppliers[id]
	if !ok || sp.TenantID != tenantID {
		return nil, nil
	}
	return &sp, nil
}

func (r *supplierRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.RLock()
	out := make([]*entity.Supplier, 0)
	for _, sp := range r.s.suppliers {
		if sp.TenantID == tenantID {
			sp := sp
			out = append(out, &sp)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}
