package entity

import "time"

// AlertConfig configuración de alerta de stock bajo. WarehouseID vacío = todas las bodegas del producto.
type AlertConfig struct {
	ID          string
	TenantID    string
	ProductID   string
	WarehouseID string
	Threshold   int64
	Recipients  []string
	Enabled     bool
	CreatedAt   time.Time
}

// Matches indica si la configuración aplica a la fila del ledger.
func (a *AlertConfig) Matches(level *StockLevel) bool {
	if level == nil || level.ProductID != a.ProductID {
		return false
	}
	return a.WarehouseID == "" || a.WarehouseID == level.WarehouseID
}
