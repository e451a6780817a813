package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kirimaja/shipment-system/internal/core/domain"
	"github.com/kirimaja/shipment-system/internal/core/ports"
)

// CourierHandler exposes the courier lifecycle operations. All routes sit
// behind the Auth + RBAC(courier) middleware chain.
type CourierHandler struct {
	service ports.CourierService
}

func NewCourierHandler(service ports.CourierService) *CourierHandler {
	return &CourierHandler{service: service}
}

// List handles GET /v1/courier/shipments.
//
// @Summary      List shipments visible to couriers
// @Tags         courier
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   shipmentSummaryResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/courier/shipments [get]
func (h *CourierHandler) List(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}

	shipments, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]shipmentSummaryResponse, len(shipments))
	for i, s := range shipments {
		out[i] = toSummaryResponse(s)
	}
	return c.JSON(http.StatusOK, out)
}

// Pick handles POST /v1/courier/shipments/:tracking_number/pick.
//
// @Summary      Accept a shipment for pickup
// @Tags         courier
// @Produce      json
// @Security     BearerAuth
// @Param        tracking_number  path      string  true  "Tracking number"
// @Success      200              {object}  shipmentSummaryResponse
// @Failure      404              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/courier/shipments/{tracking_number}/pick [post]
func (h *CourierHandler) Pick(c echo.Context) error {
	return h.run(c, h.service.PickShipment)
}

// Pickup handles POST /v1/courier/shipments/:tracking_number/pickup.
// A proof image reference is mandatory.
//
// @Summary      Confirm pickup at the sender's address
// @Tags         courier
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tracking_number  path      string        true  "Tracking number"
// @Param        body             body      proofRequest  true  "Pickup proof image"
// @Success      200              {object}  shipmentSummaryResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/courier/shipments/{tracking_number}/pickup [post]
func (h *CourierHandler) Pickup(c echo.Context) error {
	return h.runWithProof(c, h.service.PickupShipment)
}

// DeliverToBranch handles POST /v1/courier/shipments/:tracking_number/deliver-to-branch.
//
// @Summary      Hand the shipment over to a sorting branch
// @Tags         courier
// @Produce      json
// @Security     BearerAuth
// @Param        tracking_number  path      string  true  "Tracking number"
// @Success      200              {object}  shipmentSummaryResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/courier/shipments/{tracking_number}/deliver-to-branch [post]
func (h *CourierHandler) DeliverToBranch(c echo.Context) error {
	return h.run(c, h.service.DeliverToBranch)
}

// PickFromBranch handles POST /v1/courier/shipments/:tracking_number/pick-from-branch.
//
// @Summary      Accept a shipment waiting at a branch
// @Tags         courier
// @Produce      json
// @Security     BearerAuth
// @Param        tracking_number  path      string  true  "Tracking number"
// @Success      200              {object}  shipmentSummaryResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/courier/shipments/{tracking_number}/pick-from-branch [post]
func (h *CourierHandler) PickFromBranch(c echo.Context) error {
	return h.run(c, h.service.PickShipmentFromBranch)
}

// PickupFromBranch handles POST /v1/courier/shipments/:tracking_number/pickup-from-branch.
//
// @Summary      Take the shipment out for final delivery
// @Tags         courier
// @Produce      json
// @Security     BearerAuth
// @Param        tracking_number  path      string  true  "Tracking number"
// @Success      200              {object}  shipmentSummaryResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/courier/shipments/{tracking_number}/pickup-from-branch [post]
func (h *CourierHandler) PickupFromBranch(c echo.Context) error {
	return h.run(c, h.service.PickupShipmentFromBranch)
}

// DeliverToCustomer handles POST /v1/courier/shipments/:tracking_number/deliver.
// A proof image reference is mandatory.
//
// @Summary      Confirm delivery at the recipient's address
// @Tags         courier
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tracking_number  path      string        true  "Tracking number"
// @Param        body             body      proofRequest  true  "Delivery proof image"
// @Success      200              {object}  shipmentSummaryResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/courier/shipments/{tracking_number}/deliver [post]
func (h *CourierHandler) DeliverToCustomer(c echo.Context) error {
	return h.runWithProof(c, h.service.DeliverToCustomer)
}

func (h *CourierHandler) run(c echo.Context, op func(ctx context.Context, trackingNumber, userID string) (*domain.Shipment, error)) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	shipment, err := op(c.Request().Context(), c.Param("tracking_number"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSummaryResponse(shipment))
}

func (h *CourierHandler) runWithProof(c echo.Context, op func(ctx context.Context, trackingNumber, userID, proofImage string) (*domain.Shipment, error)) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req proofRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	// Empty proof is rejected by the service with ErrProofImageRequired so
	// the check lives in one place.
	shipment, err := op(c.Request().Context(), c.Param("tracking_number"), userID, req.ProofImage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSummaryResponse(shipment))
}
