package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func createShipmentContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(http.MethodPost, "/v1/shipments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")
	c.Set("role", "customer")
	return c, rec
}

func TestShipmentHandler_Create(t *testing.T) {
	svc := &stubShipmentService{}
	h := NewShipmentHandler(svc)

	body := `{"pickup_address_id":"addr-1","destination_address":"Jl. Braga 1, Bandung","recipient_name":"Budi","recipient_phone":"0812","weight_grams":2500,"package_type":"box","delivery_type":"reguler"}`
	c, rec := createShipmentContext(t, body)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(svc.created) != 1 {
		t.Fatalf("expected one create call, got %d", len(svc.created))
	}
	if got := svc.created[0].DeliveryType; got != "reguler" {
		t.Errorf("delivery type: got %q, want reguler", got)
	}
}

// An unrecognized delivery type is not a validation error; pricing quietly
// charges it at the regular tier, so the request must reach the service.
func TestShipmentHandler_Create_UnknownDeliveryTypeIsAccepted(t *testing.T) {
	svc := &stubShipmentService{}
	h := NewShipmentHandler(svc)

	body := `{"pickup_address_id":"addr-1","destination_address":"Jl. Braga 1, Bandung","recipient_name":"Budi","recipient_phone":"0812","weight_grams":2500,"package_type":"box","delivery_type":"priority_overnight"}`
	c, rec := createShipmentContext(t, body)

	if err := h.Create(c); err != nil {
		t.Fatalf("unknown delivery type must not be rejected: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(svc.created) != 1 || svc.created[0].DeliveryType != "priority_overnight" {
		t.Fatalf("service must receive the raw delivery type, got %+v", svc.created)
	}
}

func TestShipmentHandler_Create_MissingClaimsIsUnauthorized(t *testing.T) {
	svc := &stubShipmentService{}
	h := NewShipmentHandler(svc)

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/v1/shipments", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if len(svc.created) != 0 {
		t.Error("service must not be called without claims")
	}
}
