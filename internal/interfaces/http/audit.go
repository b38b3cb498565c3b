package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Auditor persiste registros de cambio sin afectar la respuesta.
type Auditor struct {
	writer ports.AuditWriter
	log    *logger.Logger
}

// NewAuditor writer nil deshabilita la auditoría.
func NewAuditor(writer ports.AuditWriter, log *logger.Logger) Auditor {
	if log == nil {
		log = logger.Nop()
	}
	return Auditor{writer: writer, log: log.Component("audit")}
}

func (a Auditor) record(c *fiber.Ctx, records []entity.ChangeRecord) {
	if a.writer == nil || len(records) == 0 {
		return
	}
	if err := a.writer.Write(c.UserContext(), records); err != nil {
		a.log.Warn().Err(err).Str("path", c.Path()).Int("records", len(records)).Msg("auditoría no persistida")
	}
}
