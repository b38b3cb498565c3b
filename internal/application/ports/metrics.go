package ports

// Metrics define los contadores que emite el núcleo. NopMetrics sirve cuando las métricas están deshabilitadas.
type Metrics interface {
	StockMovement(movementType string)
	OrderTransition(to string)
	LowStockAlert()
	LedgerConflict()
	NotifyFailure(topic string)
}

// NopMetrics implementación vacía.
type NopMetrics struct{}

func (NopMetrics) StockMovement(string)   {}
func (NopMetrics) OrderTransition(string) {}
func (NopMetrics) LowStockAlert()         {}
func (NopMetrics) LedgerConflict()        {}
func (NopMetrics) NotifyFailure(string)   {}
