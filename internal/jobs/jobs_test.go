package jobs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

type fakeScanner struct {
	reports []*alert.Report
	err     error
	calls   int
}

func (f *fakeScanner) EvaluateAll(context.Context) ([]*alert.Report, error) {
	f.calls++
	return f.reports, f.err
}

func TestLowStockScanJob(t *testing.T) {
	var buf bytes.Buffer
	s := &fakeScanner{reports: []*alert.Report{{TenantID: "t1", Alerts: []alert.Alert{{ProductID: "p1"}}}, {TenantID: "t2"}}}
	job := NewLowStockScanJob(s, logger.FromWriter(&buf, "info"))

	require.NoError(t, job.Handle(context.Background(), NewLowStockScanTask()))
	assert.Equal(t, 1, s.calls)
	assert.Contains(t, buf.String(), `"alerts":1`)

	s.err = errors.New("t3 falló")
	assert.Error(t, job.Handle(context.Background(), NewLowStockScanTask()))
}

func TestLowStockScanJob_ConEvaluador(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Alerts().Create(ctx, &entity.AlertConfig{ID: "c1", TenantID: "t1", ProductID: "p1", Threshold: 5, Enabled: true}))
	require.NoError(t, store.Run(ctx, func(levels repository.StockLevelRepository, _ repository.StockMovementRepository, _ repository.PurchaseOrderRepository) error {
		return levels.Save(ctx, &entity.StockLevel{TenantID: "t1", ProductID: "p1", WarehouseID: "w1", Quantity: 2})
	}))

	n := &captureNotifier{}
	ev := alert.NewEvaluator(store.Alerts(), store.Levels(), n, ports.NopMetrics{}, logger.Nop())
	require.NoError(t, NewLowStockScanJob(ev, nil).Handle(ctx, NewLowStockScanTask()))
	assert.Equal(t, []string{ports.TopicLowStockAlert}, n.topics)
}

type recordingMailer struct {
	sent []LowStockEmailPayload
}

func (m *recordingMailer) SendLowStock(_ context.Context, p LowStockEmailPayload) error {
	m.sent = append(m.sent, p)
	return nil
}

func TestLowStockEmailJob(t *testing.T) {
	m := &recordingMailer{}
	job := NewLowStockEmailJob(m)

	task, err := NewLowStockEmailTask(LowStockEmailPayload{TenantID: "t1", ProductID: "p1", Quantity: 1, Threshold: 3, Recipients: []string{"a@x.co"}})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Len(t, m.sent, 1)
	assert.Equal(t, "p1", m.sent[0].ProductID)

	err = job.Handle(context.Background(), asynq.NewTask(TaskLowStockEmail, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	_, err = NewLowStockEmailTask(LowStockEmailPayload{TenantID: "t1"})
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(logger.FromWriter(&buf, "info"))
	require.NoError(t, m.SendLowStock(context.Background(), LowStockEmailPayload{TenantID: "t1", Recipients: []string{"a@x.co", "b@x.co"}}))
	assert.Equal(t, 2, strings.Count(buf.String(), "alerta de stock bajo"))
}

type captureNotifier struct {
	topics []string
}

func (c *captureNotifier) Publish(_ context.Context, topic string, _ any) error {
	c.topics = append(c.topics, topic)
	return nil
}
