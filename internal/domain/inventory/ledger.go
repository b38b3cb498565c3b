package inventory

import (
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// NewLevel construye una fila de ledger vacía (cantidad 0, aún no persistida) para el par.
func NewLevel(tenantID, productID, warehouseID string) *entity.StockLevel {
	return &entity.StockLevel{
		TenantID:    tenantID,
		ProductID:   productID,
		WarehouseID: warehouseID,
	}
}

// ApplyDelta suma delta (con signo) a la cantidad. Falla con ErrInsufficientStock si el
// resultado sería negativo; en ese caso la fila no cambia.
func ApplyDelta(level *entity.StockLevel, delta int64, now time.Time) error {
	next := level.Quantity + delta
	if next < 0 {
		return domain.ErrInsufficientStock
	}
	level.Quantity = next
	level.LastUpdated = now
	return nil
}

// SetAbsolute fija la cantidad (ADJUSTMENT). Falla con ErrInvalidQuantity si qty < 0.
func SetAbsolute(level *entity.StockLevel, qty int64, now time.Time) error {
	if qty < 0 {
		return domain.ErrInvalidQuantity
	}
	level.Quantity = qty
	level.LastUpdated = now
	return nil
}

// Apply aplica un movimiento de tipo t con magnitud qty sobre la fila.
func Apply(level *entity.StockLevel, t entity.MovementType, qty int64, now time.Time) error {
	switch t {
	case entity.MovementTypeIN:
		if qty <= 0 {
			return domain.ErrInvalidQuantity
		}
		return ApplyDelta(level, qty, now)
	case entity.MovementTypeOUT:
		if qty <= 0 {
			return domain.ErrInvalidQuantity
		}
		return ApplyDelta(level, -qty, now)
	case entity.MovementTypeADJUSTMENT:
		return SetAbsolute(level, qty, now)
	}
	return domain.ErrInvalidRequest
}

// Replay reconstruye las cantidades por par a partir del journal. Los movimientos se aplican en
// orden de Seq: IN suma, OUT resta, ADJUSTMENT reinicia la cantidad a su magnitud.
func Replay(movements []entity.StockMovement) map[entity.Pair]int64 {
	ordered := append([]entity.StockMovement(nil), movements...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })

	out := make(map[entity.Pair]int64)
	for _, m := range ordered {
		p := m.Pair()
		switch m.Type {
		case entity.MovementTypeIN:
			out[p] += m.Quantity
		case entity.MovementTypeOUT:
			out[p] -= m.Quantity
		case entity.MovementTypeADJUSTMENT:
			out[p] = m.Quantity
		}
	}
	return out
}

// SignedDelta devuelve la variación neta registrada por un movimiento IN/OUT. Para ADJUSTMENT
// la variación depende de la cantidad previa y se devuelve ok=false.
func SignedDelta(m entity.StockMovement) (delta int64, ok bool) {
	switch m.Type {
	case entity.MovementTypeIN:
		return m.Quantity, true
	case entity.MovementTypeOUT:
		return -m.Quantity, true
	}
	return 0, false
}
