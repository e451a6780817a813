package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kirimaja/shipment-system/internal/core/domain"
)

func resolveFor(t *testing.T, err error) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	code, _ := resolveError(err, zerolog.Nop(), c)
	return code
}

func TestResolveError_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrShipmentNotFound, http.StatusNotFound},
		{domain.ErrPaymentNotFound, http.StatusNotFound},
		{domain.ErrAddressNotFound, http.StatusNotFound},
		{domain.ErrBranchNotFound, http.StatusNotFound},
		{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{domain.ErrShipmentNotScannable, http.StatusUnprocessableEntity},
		{domain.ErrProofImageRequired, http.StatusUnprocessableEntity},
		{domain.ErrNoInboundScan, http.StatusPreconditionFailed},
		{domain.ErrExternalDependency, http.StatusBadGateway},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrForbidden, http.StatusForbidden},
		{errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := resolveFor(t, tc.err); got != tc.want {
			t.Errorf("%v: got %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestResolveError_UnwrapsWrappedDomainErrors(t *testing.T) {
	wrapped := fmt.Errorf("scan KA555 in status PENDING: %w", domain.ErrShipmentNotScannable)
	if got := resolveFor(t, wrapped); got != http.StatusUnprocessableEntity {
		t.Errorf("wrapped error: got %d, want 422", got)
	}
}

func TestResolveError_PreservesEchoHTTPErrors(t *testing.T) {
	if got := resolveFor(t, echo.NewHTTPError(http.StatusTeapot, "short and stout")); got != http.StatusTeapot {
		t.Errorf("echo error: got %d, want 418", got)
	}
}
