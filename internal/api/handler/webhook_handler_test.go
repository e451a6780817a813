package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/kirimaja/shipment-system/internal/core/domain"
	"github.com/kirimaja/shipment-system/internal/core/ports"
)

type stubShipmentService struct {
	created    []ports.CreateShipmentInput
	events     []ports.WebhookEvent
	webhookErr error
}

func (s *stubShipmentService) Create(_ context.Context, _ string, input ports.CreateShipmentInput) (*ports.ShipmentResult, error) {
	s.created = append(s.created, input)
	return &ports.ShipmentResult{
		ShipmentID:     "ship-1",
		DeliveryStatus: domain.DeliveryPending,
		PaymentStatus:  domain.PaymentPending,
	}, nil
}

func (s *stubShipmentService) Track(context.Context, string) (*ports.TrackingView, error) {
	return nil, nil
}

func (s *stubShipmentService) HandlePaymentWebhook(_ context.Context, event ports.WebhookEvent) error {
	if s.webhookErr != nil {
		return s.webhookErr
	}
	s.events = append(s.events, event)
	return nil
}

func webhookContext(t *testing.T, body, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/xendit", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("x-callback-token", token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestWebhookHandler_MapsGatewayPayload(t *testing.T) {
	svc := &stubShipmentService{}
	h := NewWebhookHandler(svc, "")

	body := `{"id":"555","external_id":"INV-1","status":"PAID","payment_method":"QRIS","amount":13500}`
	c, rec := webhookContext(t, body, "")

	if err := h.HandleInvoice(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.events) != 1 {
		t.Fatalf("expected one event, got %d", len(svc.events))
	}

	event := svc.events[0]
	if event.EventID != "555" || event.ExternalID != "INV-1" {
		t.Errorf("ids mapped wrong: %+v", event)
	}
	if event.Status != domain.PaymentPaid {
		t.Errorf("status: got %s, want PAID", event.Status)
	}
	if event.PaymentMethod != "QRIS" || event.Amount != 13500 {
		t.Errorf("payment details mapped wrong: %+v", event)
	}
}

func TestWebhookHandler_RejectsBadCallbackToken(t *testing.T) {
	svc := &stubShipmentService{}
	h := NewWebhookHandler(svc, "expected-token")

	c, _ := webhookContext(t, `{"id":"1","external_id":"INV-1","status":"PAID"}`, "wrong-token")

	err := h.HandleInvoice(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
	if len(svc.events) != 0 {
		t.Error("event must not reach the service with a bad token")
	}
}

func TestWebhookHandler_RejectsIncompletePayload(t *testing.T) {
	svc := &stubShipmentService{}
	h := NewWebhookHandler(svc, "")

	c, _ := webhookContext(t, `{"status":"PAID"}`, "")

	err := h.HandleInvoice(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}
