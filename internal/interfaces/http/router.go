package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName        string
	Stock          *inventory.StockOperations
	Orders         *purchasing.OrderService
	AlertConfigs   *alert.ConfigService
	Evaluator      *alert.Evaluator
	ProductUC      *usecase.ProductUseCase
	WarehouseUC    *usecase.WarehouseUseCase
	SupplierUC     *usecase.SupplierUseCase
	Audit          ports.AuditWriter
	MetricsHandler http.Handler // nil = /metrics deshabilitado
	Logger         *logger.Logger
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	audit := NewAuditor(deps.Audit, deps.Logger)

	// Rutas protegidas (requieren Bearer Token y tenant)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Ledger y operaciones de stock
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Stock, audit)
	stock.Get("/", stockHandler.List)
	stock.Get("/low", stockHandler.ListLow)
	stock.Get("/movements", stockHandler.ListMovements)
	stock.Post("/adjust", stockHandler.Adjust)
	stock.Post("/transfer", stockHandler.Transfer)
	stock.Get("/products/:productId", stockHandler.ListByProduct)
	stock.Get("/products/:productId/warehouses/:warehouseId", stockHandler.Get)
	stock.Get("/products/:productId/warehouses/:warehouseId/reconcile", stockHandler.Reconcile)
	stock.Put("/products/:productId/warehouses/:warehouseId/limits", stockHandler.SetLimits)

	// Órdenes de compra
	orders := api.Group("/purchase-orders")
	orderHandler := NewPurchaseOrderHandler(deps.Orders, audit)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/submit", orderHandler.Submit)
	orders.Post("/:id/approve", orderHandler.Approve)
	orders.Post("/:id/receive", orderHandler.Receive)
	orders.Post("/:id/cancel", orderHandler.Cancel)

	// Alertas de stock bajo
	alerts := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertConfigs, deps.Evaluator)
	alerts.Get("/", alertHandler.List)
	alerts.Post("/", alertHandler.Create)
	alerts.Post("/evaluate", alertHandler.Evaluate)
	alerts.Get("/:id", alertHandler.GetByID)
	alerts.Put("/:id", alertHandler.Replace)
	alerts.Patch("/:id", alertHandler.Update)
	alerts.Delete("/:id", alertHandler.Delete)
	alerts.Post("/:id/test", alertHandler.SendTest)

	// Datos de referencia
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	suppliers := api.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
}
