package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

func TestProductUseCase(t *testing.T) {
	store := memory.NewStore()
	uc := NewProductUseCase(store.Products())
	ctx := context.Background()
	s := domain.Scope{TenantID: "t1"}

	p, err := uc.Create(ctx, s, dto.CreateProductRequest{SKU: "A-1", Name: "Tuerca", UnitPrice: decimal.RequireFromString("1.50")})
	require.NoError(t, err)
	assert.Equal(t, "t1", p.TenantID)

	_, err = uc.Create(ctx, s, dto.CreateProductRequest{SKU: "A-1", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := uc.GetByID(ctx, s, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tuerca", got.Name)

	_, err = uc.GetByID(ctx, domain.Scope{TenantID: "t2"}, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, s, 20, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestWarehouseYSupplierUseCase(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	s := domain.Scope{TenantID: "t1"}

	wh := NewWarehouseUseCase(store.Warehouses())
	w, err := wh.Create(ctx, s, dto.CreateWarehouseRequest{Code: "BOG", Name: "Bogotá"})
	require.NoError(t, err)
	_, err = wh.Create(ctx, s, dto.CreateWarehouseRequest{Code: "BOG", Name: "Duplicada"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	got, err := wh.GetByID(ctx, s, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "BOG", got.Code)

	sp := NewSupplierUseCase(store.Suppliers())
	created, err := sp.Create(ctx, s, dto.CreateSupplierRequest{Name: "Acme"})
	require.NoError(t, err)
	list, err := sp.List(ctx, s, 10, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)

	_, err = sp.GetByID(ctx, domain.Scope{}, created.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
