package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kirimaja/shipment-system/internal/api/metrics"
	"github.com/kirimaja/shipment-system/internal/core/domain"
	"github.com/kirimaja/shipment-system/internal/core/ports"
)

// BranchHandler exposes branch scan processing and scan-log listing.
type BranchHandler struct {
	service ports.BranchService
}

func NewBranchHandler(service ports.BranchService) *BranchHandler {
	return &BranchHandler{service: service}
}

// Scan handles POST /v1/branch/scan.
//
// @Summary      Record an IN or OUT scan at the staff member's branch
// @Tags         branch
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      scanRequest  true  "Scan details"
// @Success      201   {object}  branchLogResponse
// @Failure      400   {object}  errorResponse
// @Failure      412   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/branch/scan [post]
func (h *BranchHandler) Scan(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req scanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	log, err := h.service.Scan(c.Request().Context(), ports.ScanInput{
		TrackingNumber: req.TrackingNumber,
		Type:           domain.ScanType(req.Type),
		ReadyToPickup:  req.ReadyToPickup,
	}, userID)
	if err != nil {
		metrics.BranchScansTotal.WithLabelValues(req.Type, "error").Inc()
		return err
	}

	metrics.BranchScansTotal.WithLabelValues(req.Type, "ok").Inc()
	return c.JSON(http.StatusCreated, toBranchLogResponse(log))
}

// Logs handles GET /v1/branch/logs. Branch staff see their own branch only;
// admins see every branch.
//
// @Summary      List branch scan logs
// @Tags         branch
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   branchLogResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/branch/logs [get]
func (h *BranchHandler) Logs(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	logs, err := h.service.Logs(c.Request().Context(), userID, role)
	if err != nil {
		return err
	}

	out := make([]branchLogResponse, len(logs))
	for i, l := range logs {
		out[i] = toBranchLogResponse(l)
	}
	return c.JSON(http.StatusOK, out)
}
