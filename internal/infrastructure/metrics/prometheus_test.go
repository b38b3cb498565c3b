package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_Contadores(t *testing.T) {
	m := New()
	m.StockMovement("IN")
	m.StockMovement("IN")
	m.StockMovement("OUT")
	m.OrderTransition("RECEIVED")
	m.LowStockAlert()
	m.LedgerConflict()
	m.NotifyFailure("stock-update")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.movements.WithLabelValues("IN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.movements.WithLabelValues("OUT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("RECEIVED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alerts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflicts))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `inventory_stock_movements_total{type="IN"} 2`)
	assert.Contains(t, string(body), `inventory_notify_failures_total{topic="stock-update"} 1`)
}
