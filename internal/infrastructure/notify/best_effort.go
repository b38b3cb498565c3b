package notify

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const defaultQueueSize = 256

type envelope struct {
	ctx     context.Context
	topic   string
	payload any
}

// BestEffort encola las publicaciones y las entrega desde una goroutine propia, en orden de llegada.
// Cada entrega se acota con timeout; los fallos y los descartes por cola llena se registran y se cuentan.
// Publish nunca bloquea ni devuelve error.
type BestEffort struct {
	next    ports.Notifier
	timeout time.Duration
	metrics ports.Metrics
	log     *logger.Logger

	queue  chan envelope
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewBestEffort envuelve next y arranca el despachador. timeout <= 0 no acota la entrega.
func NewBestEffort(next ports.Notifier, timeout time.Duration, metrics ports.Metrics, log *logger.Logger) *BestEffort {
	return newBestEffort(next, timeout, metrics, log, defaultQueueSize)
}

func newBestEffort(next ports.Notifier, timeout time.Duration, metrics ports.Metrics, log *logger.Logger, size int) *BestEffort {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	b := &BestEffort{
		next:    next,
		timeout: timeout,
		metrics: metrics,
		log:     log.Component("notify"),
		queue:   make(chan envelope, size),
		done:    make(chan struct{}),
	}
	go b.run()
	return b
}

// Publish siempre devuelve nil. El contexto del llamador se desacopla de su cancelación
// para que la entrega sobreviva al fin de la petición HTTP.
func (b *BestEffort) Publish(ctx context.Context, topic string, payload any) error {
	if b.next == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		b.drop(topic, payload, "notificador cerrado")
		return nil
	}
	select {
	case b.queue <- envelope{ctx: context.WithoutCancel(ctx), topic: topic, payload: payload}:
	default:
		b.drop(topic, payload, "cola de notificaciones llena")
	}
	return nil
}

// Close deja de aceptar publicaciones y espera a que se entregue lo encolado.
func (b *BestEffort) Close() {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		close(b.queue)
	}
	b.mu.Unlock()
	<-b.done
}

func (b *BestEffort) run() {
	defer close(b.done)
	for env := range b.queue {
		b.deliver(env)
	}
}

func (b *BestEffort) deliver(env envelope) {
	ctx := env.ctx
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	if err := b.next.Publish(ctx, env.topic, env.payload); err != nil {
		b.metrics.NotifyFailure(env.topic)
		b.log.Warn().Err(err).Str("topic", env.topic).Str("tenant_id", ports.TenantOf(env.payload)).Msg("notificación no entregada")
	}
}

func (b *BestEffort) drop(topic string, payload any, reason string) {
	b.metrics.NotifyFailure(topic)
	b.log.Warn().Str("topic", topic).Str("tenant_id", ports.TenantOf(payload)).Msg(reason)
}
