package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/jobs"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func TestRedisPublisher_PublicaEnCanalDelTenant(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	pub := NewRedisPublisher(client, "")
	channel := pub.Channel("t1", ports.TopicStockUpdate)
	assert.Equal(t, "inventory:t1:stock-update", channel)

	sub := client.Subscribe(ctx, channel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	payload := ports.StockUpdatePayload{TenantID: "t1", ProductID: "p1", WarehouseID: "w1", OldQuantity: 5, NewQuantity: 8, ChangeType: "IN"}
	require.NoError(t, pub.Publish(ctx, ports.TopicStockUpdate, payload))

	select {
	case msg := <-sub.Channel():
		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, "p1", got["productId"])
		assert.Equal(t, float64(5), got["oldQuantity"])
		assert.Equal(t, float64(8), got["newQuantity"])
		assert.Equal(t, "IN", got["changeType"])
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó el mensaje")
	}
}

func TestRedisPublisher_SinTenant(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	err := NewRedisPublisher(client, "x").Publish(context.Background(), ports.TopicStockUpdate, map[string]string{})
	assert.Error(t, err)
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "1", Type: task.Type()}, nil
}

func TestAlertMailEnqueuer(t *testing.T) {
	q := &fakeEnqueuer{}
	e := NewAlertMailEnqueuer(q)
	ctx := context.Background()

	require.NoError(t, e.Publish(ctx, ports.TopicStockUpdate, ports.StockUpdatePayload{TenantID: "t1"}))
	require.NoError(t, e.Publish(ctx, ports.TopicLowStockAlert, ports.LowStockAlertPayload{TenantID: "t1"}))
	assert.Empty(t, q.tasks)

	alert := ports.LowStockAlertPayload{TenantID: "t1", ConfigID: "c1", ProductID: "p1", WarehouseID: "w1", Quantity: 2, Threshold: 5, Recipients: []string{"ops@example.com"}}
	require.NoError(t, e.Publish(ctx, ports.TopicLowStockAlert, &alert))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, jobs.TaskLowStockEmail, q.tasks[0].Type())

	var p jobs.LowStockEmailPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &p))
	assert.Equal(t, "c1", p.ConfigID)
	assert.Equal(t, int64(2), p.Quantity)
	assert.Equal(t, []string{"ops@example.com"}, p.Recipients)

	q.err = errors.New("redis caído")
	assert.Error(t, e.Publish(ctx, ports.TopicLowStockAlert, alert))
}

type recordingNotifier struct {
	topics []string
	err    error
	wait   bool
}

func (r *recordingNotifier) Publish(ctx context.Context, topic string, _ any) error {
	if r.wait {
		<-ctx.Done()
		return ctx.Err()
	}
	r.topics = append(r.topics, topic)
	return r.err
}

type countingMetrics struct {
	ports.NopMetrics
	mu       sync.Mutex
	failures map[string]int
}

func (c *countingMetrics) NotifyFailure(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[topic]++
}

func (c *countingMetrics) count(topic string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures[topic]
}

// gatedNotifier retiene cada entrega hasta que se cierre release.
type gatedNotifier struct {
	release chan struct{}
	mu      sync.Mutex
	topics  []string
	ctxErrs []error
}

func (g *gatedNotifier) Publish(ctx context.Context, topic string, _ any) error {
	<-g.release
	g.mu.Lock()
	defer g.mu.Unlock()
	g.topics = append(g.topics, topic)
	g.ctxErrs = append(g.ctxErrs, ctx.Err())
	return nil
}

func TestFanout_EntregaATodosYUneErrores(t *testing.T) {
	a := &recordingNotifier{err: errors.New("a")}
	b := &recordingNotifier{}
	f := Fanout{a, nil, b}

	err := f.Publish(context.Background(), ports.TopicOrderStatus, ports.OrderStatusPayload{TenantID: "t1"})
	require.Error(t, err)
	assert.Equal(t, []string{ports.TopicOrderStatus}, a.topics)
	assert.Equal(t, []string{ports.TopicOrderStatus}, b.topics)
}

func TestBestEffort_NuncaFalla(t *testing.T) {
	var buf bytes.Buffer
	m := &countingMetrics{failures: map[string]int{}}
	failing := &recordingNotifier{err: errors.New("sin conexión")}

	be := NewBestEffort(failing, time.Second, m, logger.FromWriter(&buf, "warn"))
	require.NoError(t, be.Publish(context.Background(), ports.TopicStockUpdate, ports.StockUpdatePayload{TenantID: "t1"}))
	be.Close()
	assert.Equal(t, 1, m.count(ports.TopicStockUpdate))
	assert.Contains(t, buf.String(), "notificación no entregada")
	assert.Contains(t, buf.String(), `"tenant_id":"t1"`)
}

func TestBestEffort_Timeout(t *testing.T) {
	m := &countingMetrics{failures: map[string]int{}}
	slow := &recordingNotifier{wait: true}

	be := NewBestEffort(slow, 20*time.Millisecond, m, logger.Nop())
	require.NoError(t, be.Publish(context.Background(), ports.TopicLowStockAlert, ports.LowStockAlertPayload{TenantID: "t1"}))
	be.Close()
	assert.Equal(t, 1, m.count(ports.TopicLowStockAlert))
}

func TestBestEffort_NoBloqueaAlLlamador(t *testing.T) {
	m := &countingMetrics{failures: map[string]int{}}
	gate := &gatedNotifier{release: make(chan struct{})}
	be := NewBestEffort(gate, time.Minute, m, logger.Nop())

	// Contexto del llamador ya cancelado: la entrega no debe heredar la cancelación.
	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	require.NoError(t, be.Publish(ctx, ports.TopicStockUpdate, ports.StockUpdatePayload{TenantID: "t1"}))
	require.NoError(t, be.Publish(ctx, ports.TopicOrderStatus, ports.OrderStatusPayload{TenantID: "t1"}))
	cancel()
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	close(gate.release)
	be.Close()
	assert.Equal(t, []string{ports.TopicStockUpdate, ports.TopicOrderStatus}, gate.topics)
	assert.Equal(t, []error{nil, nil}, gate.ctxErrs)
	assert.Zero(t, m.count(ports.TopicStockUpdate))
}

func TestBestEffort_ColaLlenaDescartaYCuenta(t *testing.T) {
	var buf bytes.Buffer
	m := &countingMetrics{failures: map[string]int{}}
	gate := &gatedNotifier{release: make(chan struct{})}
	be := newBestEffort(gate, time.Minute, m, logger.FromWriter(&buf, "warn"), 1)

	// El despachador retiene como mucho una entrega y la cola admite otra; del resto al menos una se descarta.
	for i := 0; i < 4; i++ {
		require.NoError(t, be.Publish(context.Background(), ports.TopicStockUpdate, ports.StockUpdatePayload{TenantID: "t1"}))
	}
	assert.GreaterOrEqual(t, m.count(ports.TopicStockUpdate), 2)
	assert.Contains(t, buf.String(), "cola de notificaciones llena")

	close(gate.release)
	be.Close()
	require.NoError(t, be.Publish(context.Background(), ports.TopicStockUpdate, ports.StockUpdatePayload{TenantID: "t1"}))
	assert.Contains(t, buf.String(), "notificador cerrado")
}
