package ports

import (
	"context"
	"time"
)

// OrderNumberGenerator genera números de orden únicos con formato PO-<yyyymmdd>-<secuencia>.
type OrderNumberGenerator interface {
	Next(ctx context.Context, now time.Time) (string, error)
}
