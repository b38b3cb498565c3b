package ports

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AuditWriter persiste los registros de cambio devueltos por los casos de uso.
type AuditWriter interface {
	Write(ctx context.Context, records []entity.ChangeRecord) error
}
