package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Scanner subconjunto del evaluador usado por el barrido.
type Scanner interface {
	EvaluateAll(ctx context.Context) ([]*alert.Report, error)
}

// LowStockScanJob ejecuta el evaluador para todos los tenants con configuraciones habilitadas.
type LowStockScanJob struct {
	scanner Scanner
	log     *logger.Logger
}

// NewLowStockScanJob construye el handler del barrido.
func NewLowStockScanJob(scanner Scanner, log *logger.Logger) *LowStockScanJob {
	if log == nil {
		log = logger.Nop()
	}
	return &LowStockScanJob{scanner: scanner, log: log.Component("low_stock_scan")}
}

// Handle procesa inventory:low_stock_scan.
func (j *LowStockScanJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.scanner == nil {
		return errors.New("low stock scan: handler no configurado")
	}
	reports, err := j.scanner.EvaluateAll(ctx)
	alerts := 0
	for _, r := range reports {
		alerts += len(r.Alerts)
	}
	j.log.Info().Int("tenants", len(reports)).Int("alerts", alerts).Msg("barrido de stock bajo")
	if err != nil {
		return fmt.Errorf("low stock scan: %w", err)
	}
	return nil
}

// Mailer envía el correo de alerta.
type Mailer interface {
	SendLowStock(ctx context.Context, p LowStockEmailPayload) error
}

// LogMailer registra el correo en el log en lugar de enviarlo.
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de log.
func NewLogMailer(log *logger.Logger) *LogMailer {
	if log == nil {
		log = logger.Nop()
	}
	return &LogMailer{log: log.Component("mailer")}
}

// SendLowStock escribe una línea por destinatario.
func (m *LogMailer) SendLowStock(_ context.Context, p LowStockEmailPayload) error {
	for _, to := range p.Recipients {
		m.log.Info().
			Str("to", to).
			Str("tenant_id", p.TenantID).
			Str("product_id", p.ProductID).
			Str("warehouse_id", p.WarehouseID).
			Int64("quantity", p.Quantity).
			Int64("threshold", p.Threshold).
			Bool("test", p.Test).
			Msg("alerta de stock bajo")
	}
	return nil
}

// LowStockEmailJob entrega alert:low_stock_email al Mailer.
type LowStockEmailJob struct {
	mailer Mailer
}

// NewLowStockEmailJob construye el handler de correo.
func NewLowStockEmailJob(mailer Mailer) *LowStockEmailJob {
	return &LowStockEmailJob{mailer: mailer}
}

// Handle decodifica el payload; uno inválido no se reintenta.
func (j *LowStockEmailJob) Handle(ctx context.Context, t *asynq.Task) error {
	var p LowStockEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("low stock email: %v: %w", err, asynq.SkipRetry)
	}
	if len(p.Recipients) == 0 {
		return fmt.Errorf("low stock email: sin destinatarios: %w", asynq.SkipRetry)
	}
	return j.mailer.SendLowStock(ctx, p)
}
