package ports

import (
	"context"
	"time"
)

// Tópicos de notificación publicados por el núcleo.
const (
	TopicStockUpdate   = "stock-update"
	TopicOrderStatus   = "order-status"
	TopicLowStockAlert = "low-stock-alert"
)

// Notifier define el puerto de salida para difundir eventos (Redis pub/sub, cola de correo, etc.).
// La entrega es best-effort: un error nunca debe revertir la operación que lo originó.
type Notifier interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// StockUpdatePayload cuerpo del tópico stock-update.
type StockUpdatePayload struct {
	TenantID    string    `json:"tenantId"`
	ProductID   string    `json:"productId"`
	WarehouseID string    `json:"warehouseId"`
	OldQuantity int64     `json:"oldQuantity"`
	NewQuantity int64     `json:"newQuantity"`
	ChangeType  string    `json:"changeType"`
	Reference   string    `json:"reference,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// OrderStatusPayload cuerpo del tópico order-status.
type OrderStatusPayload struct {
	TenantID    string    `json:"tenantId"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	OldStatus   string    `json:"oldStatus"`
	NewStatus   string    `json:"newStatus"`
	Timestamp   time.Time `json:"timestamp"`
}

// LowStockAlertPayload cuerpo del tópico low-stock-alert.
type LowStockAlertPayload struct {
	TenantID    string    `json:"tenantId"`
	ConfigID    string    `json:"configId"`
	ProductID   string    `json:"productId"`
	WarehouseID string    `json:"warehouseId"`
	Quantity    int64     `json:"quantity"`
	Threshold   int64     `json:"threshold"`
	Recipients  []string  `json:"recipients,omitempty"`
	Test        bool      `json:"test,omitempty"` // disparo manual de prueba, no una lectura bajo umbral
	Timestamp   time.Time `json:"timestamp"`
}

// TenantOf extrae el tenant de los payloads conocidos (para canales por tenant).
func TenantOf(payload any) string {
	switch p := payload.(type) {
	case StockUpdatePayload:
		return p.TenantID
	case *StockUpdatePayload:
		return p.TenantID
	case OrderStatusPayload:
		return p.TenantID
	case *OrderStatusPayload:
		return p.TenantID
	case LowStockAlertPayload:
		return p.TenantID
	case *LowStockAlertPayload:
		return p.TenantID
	}
	return ""
}
