package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func TestOrderStatus_Next(t *testing.T) {
	cases := []struct {
		from  entity.OrderStatus
		event entity.OrderEvent
		to    entity.OrderStatus
		ok    bool
	}{
		{entity.OrderStatusDraft, entity.OrderEventSubmit, entity.OrderStatusSubmitted, true},
		{entity.OrderStatusSubmitted, entity.OrderEventApprove, entity.OrderStatusApproved, true},
		{entity.OrderStatusApproved, entity.OrderEventReceive, entity.OrderStatusReceived, true},
		{entity.OrderStatusDraft, entity.OrderEventCancel, entity.OrderStatusCancelled, true},
		{entity.OrderStatusSubmitted, entity.OrderEventCancel, entity.OrderStatusCancelled, true},
		{entity.OrderStatusApproved, entity.OrderEventCancel, entity.OrderStatusCancelled, true},

		{entity.OrderStatusDraft, entity.OrderEventApprove, entity.OrderStatusDraft, false},
		{entity.OrderStatusDraft, entity.OrderEventReceive, entity.OrderStatusDraft, false},
		{entity.OrderStatusSubmitted, entity.OrderEventSubmit, entity.OrderStatusSubmitted, false},
		{entity.OrderStatusReceived, entity.OrderEventCancel, entity.OrderStatusReceived, false},
		{entity.OrderStatusCancelled, entity.OrderEventCancel, entity.OrderStatusCancelled, false},
		{entity.OrderStatusCancelled, entity.OrderEventSubmit, entity.OrderStatusCancelled, false},
	}
	for _, tc := range cases {
		to, ok := tc.from.Next(tc.event)
		assert.Equal(t, tc.ok, ok, "%s + %s", tc.from, tc.event)
		assert.Equal(t, tc.to, to, "%s + %s", tc.from, tc.event)
	}
}

func TestRecalculateTotal(t *testing.T) {
	o := &entity.PurchaseOrder{
		Status: entity.OrderStatusDraft,
		Items: []entity.PurchaseOrderItem{
			{ProductID: "1", OrderedQuantity: 10, UnitPrice: decimal.RequireFromString("5.00")},
			{ProductID: "2", OrderedQuantity: 2, UnitPrice: decimal.RequireFromString("3.00")},
		},
	}
	o.RecalculateTotal()
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("56.00")), "total=%s", o.TotalAmount)

	// Fuera de DRAFT el total queda congelado.
	o.Status = entity.OrderStatusSubmitted
	o.Items[0].OrderedQuantity = 1
	o.RecalculateTotal()
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(56)))
}

func TestAlertConfig_Matches(t *testing.T) {
	level := &entity.StockLevel{ProductID: "p1", WarehouseID: "w1"}
	assert.True(t, (&entity.AlertConfig{ProductID: "p1"}).Matches(level))
	assert.True(t, (&entity.AlertConfig{ProductID: "p1", WarehouseID: "w1"}).Matches(level))
	assert.False(t, (&entity.AlertConfig{ProductID: "p1", WarehouseID: "w2"}).Matches(level))
	assert.False(t, (&entity.AlertConfig{ProductID: "p2"}).Matches(level))
}
