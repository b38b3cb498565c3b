package memory

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// OrderNumbers generador de números de orden sobre un contador atómico del proceso.
type OrderNumbers struct {
	n atomic.Int64
}

// NewOrderNumbers arranca la secuencia en start (el primer número es start+1).
func NewOrderNumbers(start int64) *OrderNumbers {
	g := &OrderNumbers{}
	g.n.Store(start)
	return g
}

// Next devuelve PO-<yyyymmdd>-<secuencia>.
func (g *OrderNumbers) Next(_ context.Context, now time.Time) (string, error) {
	return fmt.Sprintf("PO-%s-%d", now.Format("20060102"), g.n.Add(1)), nil
}
