package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/alert"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// AlertHandler configuraciones de stock bajo y evaluación bajo demanda (protegido).
type AlertHandler struct {
	configs   *alert.ConfigService
	evaluator *alert.Evaluator
}

// NewAlertHandler construye el handler.
func NewAlertHandler(configs *alert.ConfigService, evaluator *alert.Evaluator) *AlertHandler {
	return &AlertHandler{configs: configs, evaluator: evaluator}
}

// Create godoc
// @Summary      Crear configuración de alerta
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAlertConfigRequest  true  "product_id, warehouse_id opcional, threshold, recipients"
// @Success      201   {object}  dto.AlertConfigResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/alerts [post]
func (h *AlertHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAlertConfigRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}
	cfg, err := h.configs.Create(c.UserContext(), ScopeFrom(c), alert.CreateInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Threshold:   in.Threshold,
		Recipients:  in.Recipients,
		Enabled:     enabled,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAlertConfig(cfg))
}

// List godoc
// @Summary      Listar configuraciones de alerta
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AlertConfigResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	list, err := h.configs.List(c.UserContext(), ScopeFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.AlertConfigResponse, 0, len(list))
	for _, cfg := range list {
		out = append(out, toAlertConfig(cfg))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener configuración de alerta
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la configuración"
// @Success      200  {object}  dto.AlertConfigResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id} [get]
func (h *AlertHandler) GetByID(c *fiber.Ctx) error {
	cfg, err := h.configs.GetByID(c.UserContext(), ScopeFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAlertConfig(cfg))
}

// Replace godoc
// @Summary      Reemplazar configuración de alerta
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la configuración"
// @Param        body  body  dto.ReplaceAlertConfigRequest  true  "product_id, warehouse_id, threshold, recipients, enabled"
// @Success      200  {object}  dto.AlertConfigResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id} [put]
func (h *AlertHandler) Replace(c *fiber.Ctx) error {
	var in dto.ReplaceAlertConfigRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	cfg, err := h.configs.Update(c.UserContext(), ScopeFrom(c), c.Params("id"), alert.CreateInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Threshold:   in.Threshold,
		Recipients:  in.Recipients,
		Enabled:     *in.Enabled,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAlertConfig(cfg))
}

// Delete godoc
// @Summary      Eliminar configuración de alerta
// @Tags         alerts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la configuración"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id} [delete]
func (h *AlertHandler) Delete(c *fiber.Ctx) error {
	if err := h.configs.Delete(c.UserContext(), ScopeFrom(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SendTest godoc
// @Summary      Enviar alerta de prueba
// @Description  Despacha la alerta de la configuración sin mirar el umbral.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la configuración"
// @Success      200  {object}  dto.TestAlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/test [post]
func (h *AlertHandler) SendTest(c *fiber.Ctx) error {
	alerts, err := h.evaluator.SendTest(c.UserContext(), ScopeFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TestAlertResponse{Alerts: toLowStockAlerts(alerts)})
}

// Update godoc
// @Summary      Habilitar o deshabilitar una configuración
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la configuración"
// @Param        body  body  dto.UpdateAlertConfigRequest  true  "enabled"
// @Success      200  {object}  dto.AlertConfigResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id} [patch]
func (h *AlertHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAlertConfigRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	cfg, err := h.configs.SetEnabled(c.UserContext(), ScopeFrom(c), c.Params("id"), *in.Enabled)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAlertConfig(cfg))
}

// Evaluate godoc
// @Summary      Ejecutar una pasada del evaluador de stock bajo
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.EvaluateAlertsResponse
// @Router       /api/alerts/evaluate [post]
func (h *AlertHandler) Evaluate(c *fiber.Ctx) error {
	report, err := h.evaluator.Evaluate(c.UserContext(), ScopeFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toEvaluateReport(report))
}
