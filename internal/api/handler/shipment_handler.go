package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kirimaja/shipment-system/internal/api/metrics"
	"github.com/kirimaja/shipment-system/internal/core/ports"
)

// ShipmentHandler handles HTTP requests for shipment creation and tracking.
type ShipmentHandler struct {
	service ports.ShipmentService
}

func NewShipmentHandler(service ports.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

// Create handles POST /v1/shipments.
//
// @Summary      Create a new shipment and its payment invoice
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createShipmentRequest  true  "Shipment details"
// @Success      201   {object}  createShipmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/shipments [post]
func (h *ShipmentHandler) Create(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Create(c.Request().Context(), userID, toCreateInput(req))
	if err != nil {
		return err
	}

	metrics.ShipmentsCreatedTotal.WithLabelValues(req.DeliveryType).Inc()
	return c.JSON(http.StatusCreated, toCreateResponse(result))
}

// Track handles GET /v1/shipments/:tracking_number.
//
// @Summary      Track a shipment by tracking number
// @Tags         shipments
// @Produce      json
// @Param        tracking_number  path      string  true  "Tracking number (e.g. KA12345)"
// @Success      200              {object}  trackingResponse
// @Failure      404              {object}  errorResponse
// @Router       /v1/shipments/{tracking_number} [get]
func (h *ShipmentHandler) Track(c echo.Context) error {
	view, err := h.service.Track(c.Request().Context(), c.Param("tracking_number"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTrackingResponse(view))
}
