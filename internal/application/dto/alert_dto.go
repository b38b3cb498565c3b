package dto

import "time"

// CreateAlertConfigRequest body para POST /api/alerts.
type CreateAlertConfigRequest struct {
	ProductID   string   `json:"product_id" validate:"required"`
	WarehouseID string   `json:"warehouse_id"`
	Threshold   int64    `json:"threshold" validate:"min=0"`
	Recipients  []string `json:"recipients" validate:"dive,email"`
	Enabled     *bool    `json:"enabled"`
}

// ReplaceAlertConfigRequest body para PUT /api/alerts/:id. Reemplaza la configuración completa.
type ReplaceAlertConfigRequest struct {
	ProductID   string   `json:"product_id" validate:"required"`
	WarehouseID string   `json:"warehouse_id"`
	Threshold   int64    `json:"threshold" validate:"min=0"`
	Recipients  []string `json:"recipients" validate:"dive,email"`
	Enabled     *bool    `json:"enabled" validate:"required"`
}

// TestAlertResponse resultado de POST /api/alerts/:id/test.
type TestAlertResponse struct {
	Alerts []LowStockAlertResponse `json:"alerts"`
}

// UpdateAlertConfigRequest body para PATCH /api/alerts/:id.
type UpdateAlertConfigRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// AlertConfigResponse salida de una configuración.
type AlertConfigResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id,omitempty"`
	Threshold   int64     `json:"threshold"`
	Recipients  []string  `json:"recipients"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
}

// LowStockAlertResponse una alerta producida por la evaluación.
type LowStockAlertResponse struct {
	ConfigID    string `json:"config_id"`
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
	Threshold   int64  `json:"threshold"`
	Test        bool   `json:"test,omitempty"`
}

// EvaluateAlertsResponse resultado de POST /api/alerts/evaluate.
type EvaluateAlertsResponse struct {
	Evaluated int                     `json:"evaluated"`
	Alerts    []LowStockAlertResponse `json:"alerts"`
}
