package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*orderRepo)(nil)

type orderRepo struct {
	s  *Store
	tx *tx
}

func (r *orderRepo) Create(_ context.Context, order *entity.PurchaseOrder) error {
	if r.tx != nil {
		r.tx.stage(order.ID, &stagedOrder{order: order.Clone(), isNew: true})
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[order.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, o := range r.s.orders {
		if o.TenantID == order.TenantID && o.OrderNumber == order.OrderNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.orders[order.ID] = order.Clone()
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, tenantID, id string) (*entity.PurchaseOrder, error) {
	if r.tx != nil {
		if so, ok := r.tx.orders[id]; ok && so.order.TenantID == tenantID {
			return so.order.Clone(), nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, nil
	}
	return o.Clone(), nil
}

// GetForUpdate no bloquea: la serialización la da la validación del estado previo al commit.
func (r *orderRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *orderRepo) UpdateStatus(ctx context.Context, order *entity.PurchaseOrder, from entity.OrderStatus) error {
	if r.tx == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		cur, ok := r.s.orders[order.ID]
		if !ok || cur.Status != from {
			return domain.ErrInvalidStateTransition
		}
		applyStatus(cur, order)
		return nil
	}

	if so, ok := r.tx.orders[order.ID]; ok {
		if so.order.Status != from {
			return domain.ErrInvalidStateTransition
		}
		applyStatus(so.order, order)
		return nil
	}
	cur, err := r.GetByID(ctx, order.TenantID, order.ID)
	if err != nil {
		return err
	}
	if cur == nil || cur.Status != from {
		return domain.ErrInvalidStateTransition
	}
	applyStatus(cur, order)
	r.tx.stage(order.ID, &stagedOrder{order: cur, baseStatus: from})
	return nil
}

func (r *orderRepo) UpdateReceivedQuantities(ctx context.Context, order *entity.PurchaseOrder) error {
	if r.tx == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		cur, ok := r.s.orders[order.ID]
		if !ok {
			return domain.ErrNotFound
		}
		applyReceived(cur, order)
		return nil
	}

	if so, ok := r.tx.orders[order.ID]; ok {
		applyReceived(so.order, order)
		return nil
	}
	cur, err := r.GetByID(ctx, order.TenantID, order.ID)
	if err != nil {
		return err
	}
	if cur == nil {
		return domain.ErrNotFound
	}
	applyReceived(cur, order)
	r.tx.stage(order.ID, &stagedOrder{order: cur, baseStatus: cur.Status})
	return nil
}

func (r *orderRepo) List(_ context.Context, tenantID string, f entity.OrderFilter) ([]*entity.PurchaseOrder, error) {
	r.s.mu.RLock()
	out := make([]*entity.PurchaseOrder, 0)
	for _, o := range r.s.orders {
		if o.TenantID != tenantID {
			continue
		}
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		out = append(out, o.Clone())
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].OrderNumber > out[j].OrderNumber
	})
	return page(out, f.Limit, f.Offset), nil
}

func (t *tx) stage(id string, so *stagedOrder) {
	if _, ok := t.orders[id]; !ok {
		t.orderSeq = append(t.orderSeq, id)
	}
	t.orders[id] = so
}

func applyStatus(dst, src *entity.PurchaseOrder) {
	dst.Status = src.Status
	dst.UpdatedAt = src.UpdatedAt
	dst.ReceivedAt = nil
	if src.ReceivedAt != nil {
		at := *src.ReceivedAt
		dst.ReceivedAt = &at
	}
}

func applyReceived(dst, src *entity.PurchaseOrder) {
	received := make(map[string]int64, len(src.Items))
	for _, it := range src.Items {
		received[it.ID] = it.ReceivedQuantity
	}
	for i := range dst.Items {
		if q, ok := received[dst.Items[i].ID]; ok {
			dst.Items[i].ReceivedQuantity = q
		}
	}
}
