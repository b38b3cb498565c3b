package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
)

var _ ports.Notifier = (*RedisPublisher)(nil)

// RedisPublisher difunde eventos por Redis pub/sub en el canal <prefix>:<tenant>:<topic>.
type RedisPublisher struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisPublisher construye el publicador. prefix vacío usa "inventory".
func NewRedisPublisher(client redis.UniversalClient, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = "inventory"
	}
	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel nombre del canal para tenant/topic.
func (p *RedisPublisher) Channel(tenantID, topic string) string {
	return fmt.Sprintf("%s:%s:%s", p.prefix, tenantID, topic)
}

// Publish serializa el payload como JSON y lo publica.
func (p *RedisPublisher) Publish(ctx context.Context, topic string, payload any) error {
	tenant := ports.TenantOf(payload)
	if tenant == "" {
		return fmt.Errorf("notify: payload sin tenant para %s", topic)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: serializar %s: %w", topic, err)
	}
	if err := p.client.Publish(ctx, p.Channel(tenant, topic), body).Err(); err != nil {
		return fmt.Errorf("notify: publish %s: %w", topic, err)
	}
	return nil
}
