package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderItemRequest línea al crear una orden.
type PurchaseOrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID  string                     `json:"supplier_id" validate:"required"`
	WarehouseID string                     `json:"warehouse_id" validate:"required"`
	Items       []PurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ReceiveItemRequest cantidad recibida explícita por producto.
type ReceiveItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"min=0"`
}

// ReceivePurchaseOrderRequest body opcional de POST /api/purchase-orders/:id/receive.
type ReceivePurchaseOrderRequest struct {
	Items []ReceiveItemRequest `json:"items" validate:"dive"`
}

// PurchaseOrderItemResponse línea de una orden.
type PurchaseOrderItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	OrderedQuantity  int64           `json:"ordered_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ReceivedQuantity int64           `json:"received_quantity"`
}

// PurchaseOrderResponse salida de una orden.
type PurchaseOrderResponse struct {
	ID          string                      `json:"id"`
	OrderNumber string                      `json:"order_number"`
	SupplierID  string                      `json:"supplier_id"`
	WarehouseID string                      `json:"warehouse_id"`
	Status      string                      `json:"status"`
	TotalAmount decimal.Decimal             `json:"total_amount"`
	Items       []PurchaseOrderItemResponse `json:"items"`
	CreatedBy   string                      `json:"created_by"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	ReceivedAt  *time.Time                  `json:"received_at,omitempty"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
