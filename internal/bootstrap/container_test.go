package bootstrap

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func memoryConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "test"},
		Storage: config.StorageConfig{Driver: "memory"},
		Orders:  config.OrderNumberConfig{Source: "memory"},
		Ledger:  config.LedgerConfig{MaxRetries: 3},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

func TestNew_MemoriaSinRedis(t *testing.T) {
	c, err := New(context.Background(), memoryConfig(), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	assert.Nil(t, c.Redis)
	assert.NotNil(t, c.MetricsHandler)

	ctx := context.Background()
	scope := domain.Scope{TenantID: "t1", UserID: "u1"}
	p, err := c.ProductUC.Create(ctx, scope, dto.CreateProductRequest{SKU: "A", Name: "A"})
	require.NoError(t, err)
	w, err := c.WarehouseUC.Create(ctx, scope, dto.CreateWarehouseRequest{Name: "W"})
	require.NoError(t, err)

	// Sin Redis el notificador es un fan-out vacío y la operación no falla.
	res, err := c.Stock.Adjust(ctx, scope, inventory.AdjustInput{ProductID: p.ID, WarehouseID: w.ID, Type: entity.MovementTypeIN, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Level.Quantity)
}

func TestNew_ConRedisPublicaYNumera(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.Redis = config.RedisConfig{Addr: mr.Addr()}
	cfg.Orders.Source = "redis"
	cfg.Metrics.Enabled = false

	c, err := New(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	require.NotNil(t, c.Redis)
	assert.Nil(t, c.MetricsHandler)

	ctx := context.Background()
	scope := domain.Scope{TenantID: "t1", UserID: "u1"}
	p, err := c.ProductUC.Create(ctx, scope, dto.CreateProductRequest{SKU: "A", Name: "A"})
	require.NoError(t, err)
	w, err := c.WarehouseUC.Create(ctx, scope, dto.CreateWarehouseRequest{Name: "W"})
	require.NoError(t, err)
	s, err := c.SupplierUC.Create(ctx, scope, dto.CreateSupplierRequest{Name: "S"})
	require.NoError(t, err)

	// Número de orden desde INCR en Redis.
	order, err := c.Orders.Create(ctx, scope, purchasingInput(s.ID, w.ID, p.ID))
	require.NoError(t, err)
	assert.Contains(t, order.Order.OrderNumber, "-1001")
	got, err := mr.Get("inventory:purchase_order:seq")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestNew_RedisInalcanzable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := memoryConfig()
	cfg.Redis = config.RedisConfig{Addr: addr}
	c, err := New(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestNew_PostgresInalcanzableDevuelveError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	cfg := memoryConfig()
	cfg.Storage.Driver = "postgres"
	cfg.Orders.Source = "postgres"
	cfg.DB = config.DBConfig{Host: "127.0.0.1", Port: port, User: "u", Password: "p", DBName: "db", SSLMode: "disable"}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var c *Container
	require.NotPanics(t, func() { c, err = New(ctx, cfg, logger.Nop()) })
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestClose_ReceptorNilNoFalla(t *testing.T) {
	var c *Container
	assert.NotPanics(t, c.Close)
}

func TestClose_OrdenInverso(t *testing.T) {
	var order []int
	c := &Container{}
	c.closers = append(c.closers, func() { order = append(order, 1) }, func() { order = append(order, 2) })
	c.Close()
	c.Close()
	assert.Equal(t, []int{2, 1}, order)
}

func purchasingInput(supplier, warehouse, product string) purchasing.CreateInput {
	return purchasing.CreateInput{
		SupplierID:  supplier,
		WarehouseID: warehouse,
		Items:       []purchasing.ItemInput{{ProductID: product, Quantity: 2, UnitPrice: decimal.NewFromInt(3)}},
	}
}
