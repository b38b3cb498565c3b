// Package memory implementa los repositorios y el TxRunner sobre estructuras en memoria.
// Las escrituras dentro de una transacción se acumulan y se validan al commit (versión de cada fila del
// ledger y estado previo de cada orden), de modo que las garantías de concurrencia coinciden con postgres.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type levelKey struct {
	tenant    string
	product   string
	warehouse string
}

// Store estado comprometido compartido por todos los repositorios.
type Store struct {
	mu sync.RWMutex

	levels     map[levelKey]entity.StockLevel
	movements  []entity.StockMovement
	seq        int64
	orders     map[string]*entity.PurchaseOrder
	alerts     map[string]entity.AlertConfig
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	suppliers  map[string]entity.Supplier
	audit      []entity.ChangeRecord
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		levels:     make(map[levelKey]entity.StockLevel),
		orders:     make(map[string]*entity.PurchaseOrder),
		alerts:     make(map[string]entity.AlertConfig),
		products:   make(map[string]entity.Product),
		warehouses: make(map[string]entity.Warehouse),
		suppliers:  make(map[string]entity.Supplier),
	}
}

type stagedLevel struct {
	level entity.StockLevel
	base  int64 // versión comprometida al momento de la primera escritura
}

type stagedOrder struct {
	order      *entity.PurchaseOrder
	baseStatus entity.OrderStatus
	isNew      bool
}

// tx escrituras pendientes de una transacción.
type tx struct {
	levels    map[levelKey]*stagedLevel
	movements []*entity.StockMovement
	orders    map[string]*stagedOrder
	orderSeq  []string
}

func newTx() *tx {
	return &tx{
		levels: make(map[levelKey]*stagedLevel),
		orders: make(map[string]*stagedOrder),
	}
}

// Run ejecuta fn con repositorios atados a una transacción nueva y hace commit si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(
	levels repository.StockLevelRepository,
	movements repository.StockMovementRepository,
	orders repository.PurchaseOrderRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := newTx()
	if err := fn(&levelRepo{s: s, tx: t}, &movementRepo{s: s, tx: t}, &orderRepo{s: s, tx: t}); err != nil {
		return err
	}
	return s.commit(t)
}

func (s *Store) commit(t *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, so := range t.orders {
		current, exists := s.orders[id]
		if so.isNew {
			if exists {
				return domain.ErrDuplicate
			}
			for _, o := range s.orders {
				if o.TenantID == so.order.TenantID && o.OrderNumber == so.order.OrderNumber {
					return domain.ErrDuplicate
				}
			}
			continue
		}
		if !exists || current.Status != so.baseStatus {
			return domain.ErrInvalidStateTransition
		}
	}
	for k, sl := range t.levels {
		var committed int64
		if cur, ok := s.levels[k]; ok {
			committed = cur.Version
		}
		if committed != sl.base {
			return domain.ErrVersionConflict
		}
	}

	for k, sl := range t.levels {
		s.levels[k] = sl.level
	}
	for _, m := range t.movements {
		s.seq++
		m.Seq = s.seq
		s.movements = append(s.movements, *m)
	}
	for _, id := range t.orderSeq {
		s.orders[id] = t.orders[id].order.Clone()
	}
	return nil
}

// Levels repositorio del ledger fuera de transacción (lecturas).
func (s *Store) Levels() repository.StockLevelRepository { return &levelRepo{s: s} }

// Movements repositorio del journal fuera de transacción (lecturas).
func (s *Store) Movements() repository.StockMovementRepository { return &movementRepo{s: s} }

// Orders repositorio de órdenes fuera de transacción (lecturas).
func (s *Store) Orders() repository.PurchaseOrderRepository { return &orderRepo{s: s} }
