package dto

import "time"

// AdjustStockRequest body para POST /api/stock/adjust.
type AdjustStockRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity    int64  `json:"quantity" validate:"min=0"`
	Reference   string `json:"reference" validate:"max=100"`
	Notes       string `json:"notes" validate:"max=500"`
}

// TransferStockRequest body para POST /api/stock/transfer.
type TransferStockRequest struct {
	ProductID       string `json:"product_id" validate:"required"`
	FromWarehouseID string `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string `json:"to_warehouse_id" validate:"required"`
	Quantity        int64  `json:"quantity" validate:"gt=0"`
	Notes           string `json:"notes" validate:"max=500"`
}

// SetLimitsRequest body para PUT .../limits. Campos nulos borran el límite.
type SetLimitsRequest struct {
	MinQuantity *int64 `json:"min_quantity" validate:"omitempty,min=0"`
	MaxQuantity *int64 `json:"max_quantity" validate:"omitempty,min=0"`
}

// StockLevelResponse fila del ledger.
type StockLevelResponse struct {
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	MinQuantity *int64    `json:"min_quantity,omitempty"`
	MaxQuantity *int64    `json:"max_quantity,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// StockLevelListResponse lista de filas del ledger.
type StockLevelListResponse struct {
	Items []StockLevelResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// StockMovementResponse entrada del journal.
type StockMovementResponse struct {
	ID          string    `json:"id"`
	Seq         int64     `json:"seq"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	Reference   string    `json:"reference,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// StockMovementListResponse página del journal.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// AdjustStockResponse resultado de un ajuste.
type AdjustStockResponse struct {
	Level    StockLevelResponse    `json:"level"`
	Movement StockMovementResponse `json:"movement"`
}

// TransferStockResponse resultado de un traslado.
type TransferStockResponse struct {
	Reference string                  `json:"reference"`
	From      StockLevelResponse      `json:"from"`
	To        StockLevelResponse      `json:"to"`
	Movements []StockMovementResponse `json:"movements"`
}

// ReconcileResponse comparación ledger vs journal.
type ReconcileResponse struct {
	ProductID        string `json:"product_id"`
	WarehouseID      string `json:"warehouse_id"`
	LedgerQuantity   int64  `json:"ledger_quantity"`
	ReplayedQuantity int64  `json:"replayed_quantity"`
	Version          int64  `json:"version"`
	Movements        int    `json:"movements"`
	Consistent       bool   `json:"consistent"`
}
