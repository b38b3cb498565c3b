package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault cola de trabajos de inventario.
	QueueDefault = "default"
	// TaskLowStockScan barrido programado de stock bajo para todos los tenants.
	TaskLowStockScan = "inventory:low_stock_scan"
	// TaskLowStockEmail correo de alerta de stock bajo.
	TaskLowStockEmail = "alert:low_stock_email"
)

// LowStockEmailPayload datos del correo de alerta.
type LowStockEmailPayload struct {
	TenantID    string    `json:"tenant_id"`
	ConfigID    string    `json:"config_id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	Threshold   int64     `json:"threshold"`
	Recipients  []string  `json:"recipients"`
	Test        bool      `json:"test,omitempty"`
	DetectedAt  time.Time `json:"detected_at"`
}

// NewLowStockEmailTask construye la tarea de correo.
func NewLowStockEmailTask(p LowStockEmailPayload) (*asynq.Task, error) {
	if len(p.Recipients) == 0 {
		return nil, fmt.Errorf("low stock email: sin destinatarios")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockEmail, data, asynq.Queue(QueueDefault), asynq.MaxRetry(5)), nil
}

// NewLowStockScanTask construye la tarea del barrido (sin payload).
func NewLowStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskLowStockScan, nil, asynq.Queue(QueueDefault))
}
