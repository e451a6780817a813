package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kirimaja/shipment-system/internal/core/domain"
	"github.com/kirimaja/shipment-system/internal/core/ports"
)

func newExpiryFixture(status domain.PaymentStatus) (*ExpiryProcessor, *stubPaymentRepo, *stubShipmentRepo, *stubHistoryRepo) {
	payments := newStubPaymentRepo()
	shipments := newStubShipmentRepo()
	history := &stubHistoryRepo{}

	payments.byID["pay-1"] = &domain.Payment{
		ID:         "pay-1",
		ShipmentID: "ship-1",
		ExternalID: "INV-1",
		Status:     status,
	}
	shipments.byID["ship-1"] = &domain.Shipment{
		ID:             "ship-1",
		DeliveryStatus: domain.DeliveryPending,
		PaymentStatus:  domain.PaymentPending,
	}

	p := NewExpiryProcessor(&stubTx{}, payments, shipments, history, zerolog.Nop())
	return p, payments, shipments, history
}

func expiryJob() ports.ExpiryJob {
	return ports.ExpiryJob{PaymentID: "pay-1", ShipmentID: "ship-1", ExternalID: "INV-1"}
}

func TestExpiryProcessor_PendingPaymentExpires(t *testing.T) {
	p, payments, shipments, history := newExpiryFixture(domain.PaymentPending)

	if err := p.Process(context.Background(), expiryJob()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := payments.statusUpdates["pay-1"]; got != domain.PaymentExpired {
		t.Errorf("payment status: got %s, want EXPIRED", got)
	}
	if got := shipments.paymentUpdates["ship-1"]; got != domain.PaymentExpired {
		t.Errorf("shipment payment status: got %s, want EXPIRED", got)
	}
	if len(history.appended) != 1 || history.appended[0].Status != string(domain.PaymentExpired) {
		t.Errorf("expected one EXPIRED history row, got %+v", history.appended)
	}
	// Expiry never touches delivery state.
	if len(shipments.statusUpdates) != 0 {
		t.Error("delivery status must not change on expiry")
	}
	if len(shipments.confirmed) != 0 {
		t.Error("no tracking number must be assigned on expiry")
	}
}

func TestExpiryProcessor_PaidPaymentIsNoop(t *testing.T) {
	p, payments, shipments, history := newExpiryFixture(domain.PaymentPaid)

	if err := p.Process(context.Background(), expiryJob()); err != nil {
		t.Fatalf("a reconciled payment must be a silent no-op: %v", err)
	}

	if len(payments.statusUpdates) != 0 || len(shipments.paymentUpdates) != 0 || len(history.appended) != 0 {
		t.Error("a non-pending payment must not be written to")
	}
}

func TestExpiryProcessor_SettledPaymentIsNoop(t *testing.T) {
	p, payments, _, _ := newExpiryFixture(domain.PaymentSettled)

	if err := p.Process(context.Background(), expiryJob()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payments.statusUpdates) != 0 {
		t.Error("a settled payment must not be expired")
	}
}

// reconcilingTx mutates state between the job being claimed and its
// transaction body running, standing in for a webhook that commits first.
type reconcilingTx struct {
	before func()
}

func (t *reconcilingTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.before != nil {
		t.before()
	}
	return fn(ctx)
}

func TestExpiryProcessor_WebhookCommittingFirstIsNoop(t *testing.T) {
	payments := newStubPaymentRepo()
	shipments := newStubShipmentRepo()
	history := &stubHistoryRepo{}

	payments.byID["pay-1"] = &domain.Payment{
		ID:         "pay-1",
		ShipmentID: "ship-1",
		ExternalID: "INV-1",
		Status:     domain.PaymentPending,
	}
	shipments.byID["ship-1"] = &domain.Shipment{
		ID:             "ship-1",
		TrackingNumber: "KA555",
		DeliveryStatus: domain.DeliveryReadyToPickup,
		PaymentStatus:  domain.PaymentPaid,
	}

	tx := &reconcilingTx{before: func() {
		payments.byID["pay-1"].Status = domain.PaymentPaid
	}}
	p := NewExpiryProcessor(tx, payments, shipments, history, zerolog.Nop())

	if err := p.Process(context.Background(), expiryJob()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payments.statusUpdates) != 0 {
		t.Errorf("a payment reconciled before the transaction ran must not be expired, got %v", payments.statusUpdates)
	}
	if len(shipments.paymentUpdates) != 0 || len(history.appended) != 0 {
		t.Error("no shipment or history writes after losing the race to the webhook")
	}
}

func TestExpiryProcessor_MissingPaymentIsNoop(t *testing.T) {
	p, _, _, history := newExpiryFixture(domain.PaymentPending)

	err := p.Process(context.Background(), ports.ExpiryJob{PaymentID: "pay-gone", ShipmentID: "ship-1"})
	if err != nil {
		t.Fatalf("a missing payment must not fail the job: %v", err)
	}
	if len(history.appended) != 0 {
		t.Error("no history row for a missing payment")
	}
}
