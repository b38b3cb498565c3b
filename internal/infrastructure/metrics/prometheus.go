package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus contadores del núcleo sobre un registry propio.
type Prometheus struct {
	registry    *prometheus.Registry
	handler     http.Handler
	movements   *prometheus.CounterVec
	transitions *prometheus.CounterVec
	alerts      prometheus.Counter
	conflicts   prometheus.Counter
	notifyFails *prometheus.CounterVec
}

// New inicializa el registry y registra los contadores.
func New() *Prometheus {
	registry := prometheus.NewRegistry()
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_stock_movements_total",
		Help: "Movimientos de stock registrados por tipo.",
	}, []string{"type"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_order_transitions_total",
		Help: "Transiciones de órdenes de compra por estado destino.",
	}, []string{"to"})
	alerts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_low_stock_alerts_total",
		Help: "Alertas de stock bajo despachadas.",
	})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_ledger_conflicts_total",
		Help: "Conflictos de versión en el ledger (reintentos).",
	})
	notifyFails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_notify_failures_total",
		Help: "Notificaciones no entregadas por tópico.",
	}, []string{"topic"})
	registry.MustRegister(movements, transitions, alerts, conflicts, notifyFails,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Prometheus{
		registry:    registry,
		handler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		movements:   movements,
		transitions: transitions,
		alerts:      alerts,
		conflicts:   conflicts,
		notifyFails: notifyFails,
	}
}

// Handler http.Handler para /metrics.
func (p *Prometheus) Handler() http.Handler { return p.handler }

// Registry expone el registry (tests y métricas adicionales).
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

func (p *Prometheus) StockMovement(t string)    { p.movements.WithLabelValues(t).Inc() }
func (p *Prometheus) OrderTransition(to string) { p.transitions.WithLabelValues(to).Inc() }
func (p *Prometheus) LowStockAlert()            { p.alerts.Inc() }
func (p *Prometheus) LedgerConflict()           { p.conflicts.Inc() }
func (p *Prometheus) NotifyFailure(t string)    { p.notifyFails.WithLabelValues(t).Inc() }
