package entity

import "time"

// Tipos de entidad auditados.
const (
	EntityStockLevel    = "STOCK_LEVEL"
	EntityPurchaseOrder = "PURCHASE_ORDER"
)

// ChangeRecord describe un cambio aplicado por un caso de uso. El caso de uso lo devuelve y un
// escritor de auditoría independiente lo persiste.
type ChangeRecord struct {
	TenantID   string
	EntityType string
	EntityID   string
	Action     string
	Old        any
	New        any
	Actor      string
	At         time.Time
}
