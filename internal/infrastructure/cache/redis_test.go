package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestNew_PingYSecuencia(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := New(ctx, config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	gen := NewOrderNumbers(client, 1000)
	day := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	first, err := gen.Next(ctx, day)
	require.NoError(t, err)
	second, err := gen.Next(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "PO-20261014-1001", first)
	assert.Equal(t, "PO-20261014-1002", second)
}

func TestNew_SinServidor(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}
