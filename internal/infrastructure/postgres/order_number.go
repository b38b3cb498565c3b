package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
)

var _ ports.OrderNumberGenerator = (*OrderNumberSequence)(nil)

// OrderNumberSequence números de orden sobre la secuencia purchase_order_number_seq.
type OrderNumberSequence struct {
	q Querier
}

// NewOrderNumberSequence construye el generador.
func NewOrderNumberSequence(q Querier) *OrderNumberSequence {
	return &OrderNumberSequence{q: q}
}

// Next devuelve PO-<yyyymmdd>-<nextval>.
func (g *OrderNumberSequence) Next(ctx context.Context, now time.Time) (string, error) {
	var n int64
	if err := g.q.QueryRow(ctx, `SELECT nextval('purchase_order_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("nextval order number: %w", err)
	}
	return fmt.Sprintf("PO-%s-%d", now.Format("20060102"), n), nil
}
