package notify

import (
	"context"
	"errors"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
)

// Fanout entrega el evento a todos los notificadores y une sus errores.
type Fanout []ports.Notifier

// Publish no se detiene ante el primer error.
func (f Fanout) Publish(ctx context.Context, topic string, payload any) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Publish(ctx, topic, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
