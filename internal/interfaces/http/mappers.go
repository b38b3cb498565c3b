package http

import (
	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func toLevel(l *entity.StockLevel) dto.StockLevelResponse {
	if l == nil {
		return dto.StockLevelResponse{}
	}
	return dto.StockLevelResponse{
		ProductID:   l.ProductID,
		WarehouseID: l.WarehouseID,
		Quantity:    l.Quantity,
		MinQuantity: l.MinQuantity,
		MaxQuantity: l.MaxQuantity,
		LastUpdated: l.LastUpdated,
	}
}

func toLevels(list []*entity.StockLevel) []dto.StockLevelResponse {
	out := make([]dto.StockLevelResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toLevel(l))
	}
	return out
}

func toMovement(m *entity.StockMovement) dto.StockMovementResponse {
	if m == nil {
		return dto.StockMovementResponse{}
	}
	return dto.StockMovementResponse{
		ID:          m.ID,
		Seq:         m.Seq,
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		Reference:   m.Reference,
		Notes:       m.Notes,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

func toMovements(list []*entity.StockMovement) []dto.StockMovementResponse {
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovement(m))
	}
	return out
}

func toReconcile(r *inventory.Reconciliation) dto.ReconcileResponse {
	return dto.ReconcileResponse{
		ProductID:        r.ProductID,
		WarehouseID:      r.WarehouseID,
		LedgerQuantity:   r.LedgerQuantity,
		ReplayedQuantity: r.ReplayedQuantity,
		Version:          r.Version,
		Movements:        r.Movements,
		Consistent:       r.Consistent,
	}
}

func toOrder(o *entity.PurchaseOrder) dto.PurchaseOrderResponse {
	items := make([]dto.PurchaseOrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.PurchaseOrderItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			OrderedQuantity:  it.OrderedQuantity,
			UnitPrice:        it.UnitPrice,
			ReceivedQuantity: it.ReceivedQuantity,
		})
	}
	return dto.PurchaseOrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		SupplierID:  o.SupplierID,
		WarehouseID: o.WarehouseID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		Items:       items,
		CreatedBy:   o.CreatedBy,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		ReceivedAt:  o.ReceivedAt,
	}
}

func toAlertConfig(a *entity.AlertConfig) dto.AlertConfigResponse {
	recipients := a.Recipients
	if recipients == nil {
		recipients = []string{}
	}
	return dto.AlertConfigResponse{
		ID:          a.ID,
		ProductID:   a.ProductID,
		WarehouseID: a.WarehouseID,
		Threshold:   a.Threshold,
		Recipients:  recipients,
		Enabled:     a.Enabled,
		CreatedAt:   a.CreatedAt,
	}
}

func toEvaluateReport(r *alert.Report) dto.EvaluateAlertsResponse {
	return dto.EvaluateAlertsResponse{Evaluated: r.Evaluated, Alerts: toLowStockAlerts(r.Alerts)}
}

func toLowStockAlerts(alerts []alert.Alert) []dto.LowStockAlertResponse {
	out := make([]dto.LowStockAlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.LowStockAlertResponse{
			ConfigID:    a.ConfigID,
			ProductID:   a.ProductID,
			WarehouseID: a.WarehouseID,
			Quantity:    a.Quantity,
			Threshold:   a.Threshold,
			Test:        a.Test,
		})
	}
	return out
}
