// Package bootstrap arma repositorios, notificadores y casos de uso a partir de la configuración.
// Lo comparten cmd/api y cmd/worker.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/notify"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Container dependencias listas para usar.
type Container struct {
	Config         *config.Config
	Log            *logger.Logger
	Metrics        ports.Metrics
	MetricsHandler http.Handler
	Notifier       ports.Notifier
	Audit          ports.AuditWriter
	Redis          *redis.Client

	Stock        *inventory.StockOperations
	Orders       *purchasing.OrderService
	AlertConfigs *alert.ConfigService
	Evaluator    *alert.Evaluator
	ProductUC    *usecase.ProductUseCase
	WarehouseUC  *usecase.WarehouseUseCase
	SupplierUC   *usecase.SupplierUseCase

	closers []func()
}

type storage struct {
	tx         inventory.TxRunner
	levels     repository.StockLevelRepository
	movements  repository.StockMovementRepository
	orders     repository.PurchaseOrderRepository
	alerts     repository.AlertConfigRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	suppliers  repository.SupplierRepository
	audit      ports.AuditWriter
	numbers    ports.OrderNumberGenerator
}

// New conecta almacenamiento y Redis según cfg. Si falla a medias cierra lo ya abierto y devuelve el error.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}
	if err := c.build(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) build(ctx context.Context) error {
	cfg, log := c.Config, c.Log
	c.Metrics = ports.NopMetrics{}
	if cfg.Metrics.Enabled {
		prom := metrics.New()
		c.Metrics = prom
		c.MetricsHandler = prom.Handler()
	}

	st, err := c.openStorage(ctx)
	if err != nil {
		return err
	}
	c.Audit = st.audit

	var notifiers notify.Fanout
	if cfg.Redis.Enabled() {
		client, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		c.Redis = client
		c.closers = append(c.closers, func() { _ = client.Close() })

		enqueuer := asynq.NewClientFromRedisClient(client)
		notifiers = append(notifiers,
			notify.NewRedisPublisher(client, cfg.Notify.ChannelPrefix),
			notify.NewAlertMailEnqueuer(enqueuer),
		)
		if cfg.Orders.Source == "redis" {
			st.numbers = cache.NewOrderNumbers(client, 1000)
		}
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: notificaciones deshabilitadas")
	}
	bestEffort := notify.NewBestEffort(notifiers, cfg.Notify.Timeout, c.Metrics, log)
	c.closers = append(c.closers, bestEffort.Close)
	c.Notifier = bestEffort

	opts := inventory.Options{
		MaxRetries:     cfg.Ledger.MaxRetries,
		RetryBaseDelay: cfg.Ledger.RetryBaseDelay,
		RetryMaxDelay:  cfg.Ledger.RetryMaxDelay,
		Metrics:        c.Metrics,
		Logger:         log,
	}
	c.Stock = inventory.NewStockOperations(st.tx, st.levels, st.movements, st.products, st.warehouses, c.Notifier, opts)
	c.Orders = purchasing.NewOrderService(st.tx, st.orders, st.products, st.warehouses, st.suppliers, st.numbers, c.Notifier, opts)
	c.AlertConfigs = alert.NewConfigService(st.alerts, st.products, st.warehouses)
	c.Evaluator = alert.NewEvaluator(st.alerts, st.levels, c.Notifier, c.Metrics, log)
	c.ProductUC = usecase.NewProductUseCase(st.products)
	c.WarehouseUC = usecase.NewWarehouseUseCase(st.warehouses)
	c.SupplierUC = usecase.NewSupplierUseCase(st.suppliers)
	return nil
}

func (c *Container) openStorage(ctx context.Context) (*storage, error) {
	if c.Config.Storage.Driver == "memory" {
		c.Log.Warn().Msg("STORAGE_DRIVER=memory: los datos no se persisten")
		store := memory.NewStore()
		return &storage{
			tx:         store,
			levels:     store.Levels(),
			movements:  store.Movements(),
			orders:     store.Orders(),
			alerts:     store.Alerts(),
			products:   store.Products(),
			warehouses: store.Warehouses(),
			suppliers:  store.Suppliers(),
			audit:      store.Audit(),
			numbers:    memory.NewOrderNumbers(1000),
		}, nil
	}

	pool, err := postgres.NewPool(ctx, c.Config.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	c.closers = append(c.closers, pool.Close)
	if c.Config.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, "up"); err != nil {
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		c.Log.Info().Msg("migraciones aplicadas")
	}
	st := &storage{
		tx:         postgres.NewTxRunner(pool),
		levels:     postgres.NewStockLevelRepository(pool),
		movements:  postgres.NewStockMovementRepository(pool),
		orders:     postgres.NewPurchaseOrderRepository(pool),
		alerts:     postgres.NewAlertConfigRepository(pool),
		products:   postgres.NewProductRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		suppliers:  postgres.NewSupplierRepository(pool),
		audit:      postgres.NewAuditRepository(pool),
		numbers:    postgres.NewOrderNumberSequence(pool),
	}
	if c.Config.Orders.Source == "memory" {
		st.numbers = memory.NewOrderNumbers(1000)
	}
	return st, nil
}

// Close libera conexiones en orden inverso de apertura.
func (c *Container) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
