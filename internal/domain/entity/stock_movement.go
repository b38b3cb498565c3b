package entity

import "time"

// MovementType tipo de movimiento de inventario.
type MovementType string

// Tipos de movimiento. Un traslado se registra como OUT en origen + IN en destino.
const (
	MovementTypeIN         MovementType = "IN"
	MovementTypeOUT        MovementType = "OUT"
	MovementTypeADJUSTMENT MovementType = "ADJUSTMENT"
)

// IsValid verifica que el tipo sea conocido.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT:
		return true
	}
	return false
}

// StockMovement representa una entrada del journal. Inmutable una vez creada.
// Quantity siempre es la magnitud positiva; el signo lo da Type.
// Para ADJUSTMENT, Quantity es la cantidad absoluta resultante.
type StockMovement struct {
	ID          string
	Seq         int64 // orden de inserción asignado por el almacenamiento
	TenantID    string
	ProductID   string
	WarehouseID string
	Type        MovementType
	Quantity    int64
	Reference   string // número de orden, referencia de traslado, etc.
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
}

// Pair devuelve el par afectado por el movimiento.
func (m *StockMovement) Pair() Pair {
	return Pair{ProductID: m.ProductID, WarehouseID: m.WarehouseID}
}

// MovementFilter filtros para consultar el journal. From es inclusivo y To exclusivo sobre CreatedAt.
type MovementFilter struct {
	ProductID   string
	WarehouseID string
	Reference   string
	Type        MovementType
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// Matches indica si el movimiento cumple los filtros (sin paginación).
func (f MovementFilter) Matches(m *StockMovement) bool {
	switch {
	case f.ProductID != "" && m.ProductID != f.ProductID:
		return false
	case f.WarehouseID != "" && m.WarehouseID != f.WarehouseID:
		return false
	case f.Reference != "" && m.Reference != f.Reference:
		return false
	case f.Type != "" && m.Type != f.Type:
		return false
	case f.From != nil && m.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && !m.CreatedAt.Before(*f.To):
		return false
	}
	return true
}
