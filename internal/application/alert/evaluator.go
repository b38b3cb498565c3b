package alert

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Evaluator compara el ledger con las configuraciones habilitadas y despacha low-stock-alert.
// Es de solo lectura y no recuerda pasadas anteriores: un par que sigue bajo vuelve a alertar en cada pasada.
type Evaluator struct {
	configs  repository.AlertConfigRepository
	levels   repository.StockLevelRepository
	notifier ports.Notifier
	metrics  ports.Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewEvaluator construye el evaluador. metrics y log pueden ser nil.
func NewEvaluator(configs repository.AlertConfigRepository, levels repository.StockLevelRepository, notifier ports.Notifier, metrics ports.Metrics, log *logger.Logger) *Evaluator {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Evaluator{configs: configs, levels: levels, notifier: notifier, metrics: metrics, log: log.Component("alert"), now: time.Now}
}

// Alert una fila en o bajo el umbral de una configuración.
type Alert struct {
	ConfigID    string
	ProductID   string
	WarehouseID string
	Quantity    int64
	Threshold   int64
	Recipients  []string
	Test        bool
}

// Report resultado de una pasada.
type Report struct {
	TenantID  string
	Evaluated int // configuraciones evaluadas
	Alerts    []Alert
}

// Evaluate ejecuta una pasada para el tenant. Cada par bajo umbral produce exactamente un despacho; si varias
// configuraciones cubren el mismo par, gana la específica de bodega.
func (e *Evaluator) Evaluate(ctx context.Context, scope domain.Scope) (*Report, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	configs, err := e.configs.ListEnabled(ctx, scope.TenantID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(configs, func(i, j int) bool {
		return configs[i].WarehouseID != "" && configs[j].WarehouseID == ""
	})

	report := &Report{TenantID: scope.TenantID}
	seen := make(map[entity.Pair]bool)
	for _, cfg := range configs {
		levels, err := e.levelsFor(ctx, scope.TenantID, cfg)
		if err != nil {
			return nil, err
		}
		report.Evaluated++
		for _, l := range levels {
			if !cfg.Matches(l) || seen[l.Pair()] || l.Quantity > cfg.Threshold {
				continue
			}
			seen[l.Pair()] = true
			a := Alert{
				ConfigID:    cfg.ID,
				ProductID:   l.ProductID,
				WarehouseID: l.WarehouseID,
				Quantity:    l.Quantity,
				Threshold:   cfg.Threshold,
				Recipients:  cfg.Recipients,
			}
			report.Alerts = append(report.Alerts, a)
			e.dispatch(ctx, scope, a)
		}
	}
	return report, nil
}

// EvaluateAll recorre los tenants con configuraciones habilitadas. Un tenant fallido no detiene a los demás.
func (e *Evaluator) EvaluateAll(ctx context.Context) ([]*Report, error) {
	tenants, err := e.configs.ListTenantsWithEnabled(ctx)
	if err != nil {
		return nil, err
	}
	var reports []*Report
	var errs []error
	for _, t := range tenants {
		r, err := e.Evaluate(ctx, domain.Scope{TenantID: t})
		if err != nil {
			e.log.Error().Err(err).Str("tenant_id", t).Msg("evaluación de stock bajo fallida")
			errs = append(errs, err)
			continue
		}
		reports = append(reports, r)
	}
	return reports, errors.Join(errs...)
}

// SendTest despacha una alerta de prueba por cada fila cubierta por la configuración, sin mirar el umbral
// ni el flag enabled. Sin filas se envía una sola con cantidad 0. No cuenta en la métrica de stock bajo.
func (e *Evaluator) SendTest(ctx context.Context, scope domain.Scope, configID string) ([]Alert, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	cfg, err := e.configs.GetByID(ctx, scope.TenantID, configID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	levels, err := e.levelsFor(ctx, scope.TenantID, cfg)
	if err != nil {
		return nil, err
	}
	base := Alert{ConfigID: cfg.ID, ProductID: cfg.ProductID, WarehouseID: cfg.WarehouseID, Threshold: cfg.Threshold, Recipients: cfg.Recipients, Test: true}
	var alerts []Alert
	for _, l := range levels {
		a := base
		a.WarehouseID = l.WarehouseID
		a.Quantity = l.Quantity
		alerts = append(alerts, a)
	}
	if len(alerts) == 0 {
		alerts = append(alerts, base)
	}
	for _, a := range alerts {
		e.dispatch(ctx, scope, a)
	}
	return alerts, nil
}

// levelsFor filas cubiertas por la configuración. Un par que nunca tuvo movimientos no se evalúa.
func (e *Evaluator) levelsFor(ctx context.Context, tenantID string, cfg *entity.AlertConfig) ([]*entity.StockLevel, error) {
	if cfg.WarehouseID == "" {
		return e.levels.ListByProduct(ctx, tenantID, cfg.ProductID)
	}
	l, err := e.levels.Get(ctx, tenantID, cfg.ProductID, cfg.WarehouseID)
	if err != nil || l == nil {
		return nil, err
	}
	return []*entity.StockLevel{l}, nil
}

func (e *Evaluator) dispatch(ctx context.Context, scope domain.Scope, a Alert) {
	if !a.Test {
		e.metrics.LowStockAlert()
	}
	e.log.Info().
		Str("tenant_id", scope.TenantID).
		Str("product_id", a.ProductID).
		Str("warehouse_id", a.WarehouseID).
		Int64("quantity", a.Quantity).
		Int64("threshold", a.Threshold).
		Bool("test", a.Test).
		Msg("stock bajo")
	if e.notifier == nil {
		return
	}
	payload := ports.LowStockAlertPayload{
		TenantID:    scope.TenantID,
		ConfigID:    a.ConfigID,
		ProductID:   a.ProductID,
		WarehouseID: a.WarehouseID,
		Quantity:    a.Quantity,
		Threshold:   a.Threshold,
		Recipients:  a.Recipients,
		Test:        a.Test,
		Timestamp:   e.now(),
	}
	if err := e.notifier.Publish(ctx, ports.TopicLowStockAlert, payload); err != nil {
		e.log.Warn().Err(err).Str("topic", ports.TopicLowStockAlert).Msg("notificación fallida")
	}
}
