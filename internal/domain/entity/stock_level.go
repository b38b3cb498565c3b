package entity

import "time"

// Pair identifica una fila del ledger: un producto en una bodega.
type Pair struct {
	ProductID   string
	WarehouseID string
}

// StockLevel representa la cantidad disponible de un producto en una bodega (fila del ledger).
// Se crea en el primer movimiento hacia el par y nunca se elimina.
type StockLevel struct {
	TenantID    string
	ProductID   string
	WarehouseID string
	Quantity    int64
	MinQuantity *int64
	MaxQuantity *int64
	LastUpdated time.Time
	// Version 0 significa que la fila aún no existe en almacenamiento.
	Version int64
}

// Pair devuelve la identidad de la fila.
func (s *StockLevel) Pair() Pair {
	return Pair{ProductID: s.ProductID, WarehouseID: s.WarehouseID}
}

// IsNew indica si la fila todavía no fue persistida.
func (s *StockLevel) IsNew() bool {
	return s.Version == 0
}

// BelowMinimum indica si la cantidad está en o por debajo del mínimo configurado.
func (s *StockLevel) BelowMinimum() bool {
	return s.MinQuantity != nil && s.Quantity <= *s.MinQuantity
}
