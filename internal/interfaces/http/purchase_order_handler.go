package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// PurchaseOrderHandler órdenes de compra y sus transiciones (protegido).
type PurchaseOrderHandler struct {
	uc    *purchasing.OrderService
	audit Auditor
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *purchasing.OrderService, audit Auditor) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc, audit: audit}
}

// Create godoc
// @Summary      Crear orden de compra (DRAFT)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "Proveedor, bodega e items"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	items := make([]purchasing.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, purchasing.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	res, err := h.uc.Create(c.UserContext(), ScopeFrom(c), purchasing.CreateInput{
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		Items:       items,
	})
	if err != nil {
		return writeError(c, err)
	}
	h.audit.record(c, res.Changes)
	return c.Status(fiber.StatusCreated).JSON(toOrder(res.Order))
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.uc.GetOrder(c.UserContext(), ScopeFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrder(o))
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "DRAFT, SUBMITTED, APPROVED, RECEIVED o CANCELLED"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.PurchaseOrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	p := page(c)
	filter := entity.OrderFilter{Limit: p.Limit, Offset: p.Offset}
	if s := c.Query("status"); s != "" {
		st := entity.OrderStatus(s)
		filter.Status = &st
	}
	list, err := h.uc.ListOrders(c.UserContext(), ScopeFrom(c), filter)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, toOrder(o))
	}
	return c.JSON(dto.PurchaseOrderListResponse{Items: items, Page: dto.NewPage(p.Limit, p.Offset, len(items))})
}

// Submit godoc
// @Summary      DRAFT → SUBMITTED
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/submit [post]
func (h *PurchaseOrderHandler) Submit(c *fiber.Ctx) error {
	return h.respond(c)(h.uc.Submit(c.UserContext(), ScopeFrom(c), c.Params("id")))
}

// Approve godoc
// @Summary      SUBMITTED → APPROVED
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/approve [post]
func (h *PurchaseOrderHandler) Approve(c *fiber.Ctx) error {
	return h.respond(c)(h.uc.Approve(c.UserContext(), ScopeFrom(c), c.Params("id")))
}

// Cancel godoc
// @Summary      Cancelar una orden no terminal
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	return h.respond(c)(h.uc.Cancel(c.UserContext(), ScopeFrom(c), c.Params("id")))
}

// Receive godoc
// @Summary      APPROVED → RECEIVED (ingresa el stock)
// @Description  Sin body recibe la cantidad ordenada de cada item; items permite cantidades explícitas por producto.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true   "ID de la orden"
// @Param        body  body  dto.ReceivePurchaseOrderRequest   false  "Cantidades recibidas"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseOrderRequest
	if len(c.Body()) > 0 {
		if ok, err := bind(c, &in); !ok {
			return err
		}
	}
	overrides := make([]purchasing.ReceiveItem, 0, len(in.Items))
	for _, it := range in.Items {
		overrides = append(overrides, purchasing.ReceiveItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return h.respond(c)(h.uc.Receive(c.UserContext(), ScopeFrom(c), c.Params("id"), overrides))
}

func (h *PurchaseOrderHandler) respond(c *fiber.Ctx) func(*purchasing.Result, error) error {
	return func(res *purchasing.Result, err error) error {
		if err != nil {
			return writeError(c, err)
		}
		if res == nil || res.Order == nil {
			return writeError(c, domain.ErrNotFound)
		}
		h.audit.record(c, res.Changes)
		return c.JSON(toOrder(res.Order))
	}
}
