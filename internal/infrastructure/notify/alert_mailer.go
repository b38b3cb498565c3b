package notify

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/jobs"
)

// Enqueuer subconjunto de *asynq.Client usado por AlertMailEnqueuer.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

var _ ports.Notifier = (*AlertMailEnqueuer)(nil)

// AlertMailEnqueuer convierte low-stock-alert en tareas de correo. Ignora los demás tópicos
// y las alertas sin destinatarios.
type AlertMailEnqueuer struct {
	client Enqueuer
}

// NewAlertMailEnqueuer construye el notificador de correo.
func NewAlertMailEnqueuer(client Enqueuer) *AlertMailEnqueuer {
	return &AlertMailEnqueuer{client: client}
}

// Publish encola alert:low_stock_email.
func (e *AlertMailEnqueuer) Publish(ctx context.Context, topic string, payload any) error {
	if topic != ports.TopicLowStockAlert {
		return nil
	}
	var p ports.LowStockAlertPayload
	switch v := payload.(type) {
	case ports.LowStockAlertPayload:
		p = v
	case *ports.LowStockAlertPayload:
		p = *v
	default:
		return fmt.Errorf("notify: payload %T inesperado para %s", payload, topic)
	}
	if len(p.Recipients) == 0 {
		return nil
	}
	task, err := jobs.NewLowStockEmailTask(jobs.LowStockEmailPayload{
		TenantID:    p.TenantID,
		ConfigID:    p.ConfigID,
		ProductID:   p.ProductID,
		WarehouseID: p.WarehouseID,
		Quantity:    p.Quantity,
		Threshold:   p.Threshold,
		Recipients:  p.Recipients,
		Test:        p.Test,
		DetectedAt:  p.Timestamp,
	})
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("notify: encolar correo: %w", err)
	}
	return nil
}
