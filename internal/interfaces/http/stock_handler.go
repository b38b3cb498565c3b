package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockHandler expone el ledger y las operaciones de stock (protegido).
type StockHandler struct {
	uc    *inventory.StockOperations
	audit Auditor
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockOperations, audit Auditor) *StockHandler {
	return &StockHandler{uc: uc, audit: audit}
}

// Adjust godoc
// @Summary      Ajustar stock (IN, OUT o ADJUSTMENT)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, warehouse_id, type, quantity"
// @Success      201   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	scope := ScopeFrom(c)
	res, err := h.uc.Adjust(c.UserContext(), scope, inventory.AdjustInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Type:        entity.MovementType(in.Type),
		Quantity:    in.Quantity,
		Reference:   in.Reference,
		Notes:       in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	h.audit.record(c, res.Changes)
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustStockResponse{Level: toLevel(res.Level), Movement: toMovement(res.Movement)})
}

// Transfer godoc
// @Summary      Trasladar stock entre bodegas
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "product_id, from_warehouse_id, to_warehouse_id, quantity"
// @Success      201   {object}  dto.TransferStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	res, err := h.uc.Transfer(c.UserContext(), ScopeFrom(c), inventory.TransferInput{
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Notes:           in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	h.audit.record(c, res.Changes)
	return c.Status(fiber.StatusCreated).JSON(dto.TransferStockResponse{
		Reference: res.Reference,
		From:      toLevel(res.From),
		To:        toLevel(res.To),
		Movements: toMovements(res.Movements),
	})
}

// SetLimits godoc
// @Summary      Fijar mínimo y máximo de una fila del ledger
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId    path  string                 true  "Producto"
// @Param        warehouseId  path  string                 true  "Bodega"
// @Param        body         body  dto.SetLimitsRequest   true  "min_quantity, max_quantity"
// @Success      200  {object}  dto.StockLevelResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{productId}/warehouses/{warehouseId}/limits [put]
func (h *StockHandler) SetLimits(c *fiber.Ctx) error {
	var in dto.SetLimitsRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	level, changes, err := h.uc.SetLimits(c.UserContext(), ScopeFrom(c), inventory.LimitsInput{
		ProductID:   c.Params("productId"),
		WarehouseID: c.Params("warehouseId"),
		MinQuantity: in.MinQuantity,
		MaxQuantity: in.MaxQuantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	h.audit.record(c, changes)
	return c.JSON(toLevel(level))
}

// List godoc
// @Summary      Listar filas del ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.StockLevelListResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	p := page(c)
	list, err := h.uc.ListStockLevels(c.UserContext(), ScopeFrom(c), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockLevelListResponse{Items: toLevels(list), Page: dto.NewPage(p.Limit, p.Offset, len(list))})
}

// ListLow godoc
// @Summary      Filas en o bajo su mínimo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockLevelListResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) ListLow(c *fiber.Ctx) error {
	list, err := h.uc.ListBelowMinimum(c.UserContext(), ScopeFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockLevelListResponse{Items: toLevels(list), Page: dto.NewPage(0, 0, len(list))})
}

// ListByProduct godoc
// @Summary      Stock de un producto en todas las bodegas
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "Producto"
// @Success      200  {object}  dto.StockLevelListResponse
// @Router       /api/stock/products/{productId} [get]
func (h *StockHandler) ListByProduct(c *fiber.Ctx) error {
	list, err := h.uc.ListStockLevelsByProduct(c.UserContext(), ScopeFrom(c), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockLevelListResponse{Items: toLevels(list), Page: dto.NewPage(0, 0, len(list))})
}

// Get godoc
// @Summary      Fila del ledger de un par producto/bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId    path  string  true  "Producto"
// @Param        warehouseId  path  string  true  "Bodega"
// @Success      200  {object}  dto.StockLevelResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{productId}/warehouses/{warehouseId} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	level, err := h.uc.GetStockLevel(c.UserContext(), ScopeFrom(c), c.Params("productId"), c.Params("warehouseId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLevel(level))
}

// Reconcile godoc
// @Summary      Comparar ledger con el journal reproducido
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId    path  string  true  "Producto"
// @Param        warehouseId  path  string  true  "Bodega"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{productId}/warehouses/{warehouseId}/reconcile [get]
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	r, err := h.uc.Reconcile(c.UserContext(), ScopeFrom(c), c.Params("productId"), c.Params("warehouseId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toReconcile(r))
}

// ListMovements godoc
// @Summary      Journal de movimientos (más reciente primero)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        reference     query  string  false  "Referencia (número de orden, TRF-...)"
// @Param        type          query  string  false  "IN | OUT | ADJUSTMENT"
// @Param        from          query  string  false  "Desde (RFC3339, inclusivo)"
// @Param        to            query  string  false  "Hasta (RFC3339, exclusivo)"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockMovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	p := page(c)
	from, err := queryTime(c, "from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.ListMovements(c.UserContext(), ScopeFrom(c), entity.MovementFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Reference:   c.Query("reference"),
		Type:        entity.MovementType(strings.ToUpper(c.Query("type"))),
		From:        from,
		To:          to,
		Limit:       p.Limit,
		Offset:      p.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockMovementListResponse{Items: toMovements(list), Page: dto.NewPage(p.Limit, p.Offset, len(list))})
}
