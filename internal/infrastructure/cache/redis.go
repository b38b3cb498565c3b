package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

// New crea el cliente Redis y verifica la conexión.
func New(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return client, nil
}

const orderNumberKey = "inventory:purchase_order:seq"

var _ ports.OrderNumberGenerator = (*OrderNumbers)(nil)

// OrderNumbers secuencia de órdenes con INCR; el primer número es offset+1.
type OrderNumbers struct {
	client redis.UniversalClient
	offset int64
}

// NewOrderNumbers construye el generador.
func NewOrderNumbers(client redis.UniversalClient, offset int64) *OrderNumbers {
	return &OrderNumbers{client: client, offset: offset}
}

// Next devuelve PO-<yyyymmdd>-<n>.
func (g *OrderNumbers) Next(ctx context.Context, now time.Time) (string, error) {
	n, err := g.client.Incr(ctx, orderNumberKey).Result()
	if err != nil {
		return "", fmt.Errorf("cache: incr order number: %w", err)
	}
	return fmt.Sprintf("PO-%s-%d", now.Format("20060102"), g.offset+n), nil
}
