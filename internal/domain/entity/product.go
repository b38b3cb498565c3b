package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (dato de referencia).
type Product struct {
	ID        string
	TenantID  string
	SKU       string // código único por tenant
	Name      string
	UnitPrice decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
