package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del ciclo de vida de una orden de compra.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusSubmitted OrderStatus = "SUBMITTED"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusReceived  OrderStatus = "RECEIVED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderEvent evento que dispara una transición.
type OrderEvent string

const (
	OrderEventSubmit  OrderEvent = "submit"
	OrderEventApprove OrderEvent = "approve"
	OrderEventReceive OrderEvent = "receive"
	OrderEventCancel  OrderEvent = "cancel"
)

// IsValid verifica que el estado sea conocido.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusSubmitted, OrderStatusApproved, OrderStatusReceived, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal indica RECEIVED o CANCELLED.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusReceived || s == OrderStatusCancelled
}

// Next devuelve el estado destino del evento desde s, o false si la guarda no se cumple.
func (s OrderStatus) Next(event OrderEvent) (OrderStatus, bool) {
	switch event {
	case OrderEventSubmit:
		if s == OrderStatusDraft {
			return OrderStatusSubmitted, true
		}
	case OrderEventApprove:
		if s == OrderStatusSubmitted {
			return OrderStatusApproved, true
		}
	case OrderEventReceive:
		if s == OrderStatusApproved {
			return OrderStatusReceived, true
		}
	case OrderEventCancel:
		if s.IsValid() && !s.IsTerminal() {
			return OrderStatusCancelled, true
		}
	}
	return s, false
}

// PurchaseOrderItem línea de una orden de compra.
type PurchaseOrderItem struct {
	ID               string
	OrderID          string
	ProductID        string
	OrderedQuantity  int64
	UnitPrice        decimal.Decimal
	ReceivedQuantity int64 // 0 hasta RECEIVE
}

// LineTotal cantidad ordenada × precio unitario.
func (i *PurchaseOrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.OrderedQuantity))
}

// PurchaseOrder orden de compra a proveedor. Es dueña exclusiva de sus Items.
type PurchaseOrder struct {
	ID          string
	TenantID    string
	OrderNumber string
	SupplierID  string
	WarehouseID string
	Status      OrderStatus
	TotalAmount decimal.Decimal
	Items       []PurchaseOrderItem
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ReceivedAt  *time.Time
}

// RecalculateTotal recalcula TotalAmount = Σ(cantidad × precio). Solo tiene efecto en DRAFT.
func (o *PurchaseOrder) RecalculateTotal() {
	if o.Status != OrderStatusDraft {
		return
	}
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].LineTotal())
	}
	o.TotalAmount = total
}

// Clone copia la orden incluyendo sus items (para registros de cambio).
func (o *PurchaseOrder) Clone() *PurchaseOrder {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = append([]PurchaseOrderItem(nil), o.Items...)
	if o.ReceivedAt != nil {
		t := *o.ReceivedAt
		c.ReceivedAt = &t
	}
	return &c
}

// OrderFilter filtros para listar órdenes.
type OrderFilter struct {
	Status *OrderStatus
	Limit  int
	Offset int
}
