package domain

import "testing"

func TestTrackingNumber_DerivedFromEventID(t *testing.T) {
	if got := TrackingNumber("555"); got != "KA555" {
		t.Errorf("got %q, want %q", got, "KA555")
	}
}

func TestTrackingNumber_Deterministic(t *testing.T) {
	// A replayed webhook must reproduce the same number.
	if TrackingNumber("evt-1") != TrackingNumber("evt-1") {
		t.Error("same event id produced different tracking numbers")
	}
}

func TestPaymentStatus_Paid(t *testing.T) {
	if !PaymentPaid.Paid() {
		t.Error("PAID should count as paid")
	}
	if !PaymentSettled.Paid() {
		t.Error("SETTLED should count as paid")
	}
	if PaymentPending.Paid() {
		t.Error("PENDING should not count as paid")
	}
	if PaymentExpired.Paid() {
		t.Error("EXPIRED should not count as paid")
	}
}
