package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kirimaja/shipment-system/internal/api/metrics"
	"github.com/kirimaja/shipment-system/internal/core/domain"
	"github.com/kirimaja/shipment-system/internal/core/ports"
)

// WebhookHandler receives payment gateway callbacks. The route is
// unauthenticated; when a callback token is configured the x-callback-token
// header must match it.
type WebhookHandler struct {
	service       ports.ShipmentService
	callbackToken string
}

func NewWebhookHandler(service ports.ShipmentService, callbackToken string) *WebhookHandler {
	return &WebhookHandler{service: service, callbackToken: callbackToken}
}

// HandleInvoice handles POST /webhooks/xendit.
//
// @Summary      Payment gateway invoice callback
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        x-callback-token  header    string          false  "Gateway callback token"
// @Param        body              body      webhookRequest  true   "Invoice event"
// @Success      200               {object}  messageResponse
// @Failure      400               {object}  errorResponse
// @Failure      401               {object}  errorResponse
// @Failure      404               {object}  errorResponse
// @Router       /webhooks/xendit [post]
func (h *WebhookHandler) HandleInvoice(c echo.Context) error {
	if h.callbackToken != "" && c.Request().Header.Get("x-callback-token") != h.callbackToken {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid callback token")
	}

	var req webhookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.service.HandlePaymentWebhook(c.Request().Context(), ports.WebhookEvent{
		ExternalID:    req.ExternalID,
		EventID:       req.ID,
		Status:        domain.PaymentStatus(req.Status),
		PaymentMethod: req.PaymentMethod,
		Amount:        req.Amount,
	})
	if err != nil {
		metrics.WebhooksProcessedTotal.WithLabelValues(req.Status, "error").Inc()
		return err
	}

	metrics.WebhooksProcessedTotal.WithLabelValues(req.Status, "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "webhook processed"})
}
