package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kirimaja/shipment-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type courierFixture struct {
	svc       *CourierService
	shipments *stubShipmentRepo
	history   *stubHistoryRepo
	branches  *stubBranchRepo
}

func newCourierFixture(status domain.DeliveryStatus) *courierFixture {
	f := &courierFixture{
		shipments: newStubShipmentRepo(),
		history:   &stubHistoryRepo{},
		branches: &stubBranchRepo{
			branches:  map[string]*domain.Branch{"branch-1": {ID: "branch-1", Name: "Jakarta Selatan"}},
			employees: map[string]*domain.EmployeeBranch{"courier-1": {UserID: "courier-1", BranchID: "branch-1"}},
		},
	}
	f.shipments.byTracking["KA555"] = &domain.Shipment{
		ID:             "ship-1",
		TrackingNumber: "KA555",
		DeliveryStatus: status,
		PaymentStatus:  domain.PaymentPaid,
	}
	f.svc = NewCourierService(&stubTx{}, f.shipments, f.history, f.branches, zerolog.Nop())
	return f
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestCourierService_PickShipment(t *testing.T) {
	f := newCourierFixture(domain.DeliveryReadyToPickup)

	shipment, err := f.svc.PickShipment(context.Background(), "KA555", "courier-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if shipment.DeliveryStatus != domain.DeliveryWaitingPickup {
		t.Errorf("status: got %s, want WAITING_PICKUP", shipment.DeliveryStatus)
	}
	if got := f.shipments.statusUpdates["ship-1"]; got != domain.DeliveryWaitingPickup {
		t.Errorf("persisted status: got %s, want WAITING_PICKUP", got)
	}
	if len(f.history.appended) != 1 {
		t.Fatalf("expected one history row, got %d", len(f.history.appended))
	}
	if f.history.appended[0].BranchID != "branch-1" {
		t.Errorf("history branch: got %q, want branch-1", f.history.appended[0].BranchID)
	}
}

func TestCourierService_PickupRequiresProof(t *testing.T) {
	f := newCourierFixture(domain.DeliveryWaitingPickup)

	_, err := f.svc.PickupShipment(context.Background(), "KA555", "courier-1", "")
	if !errors.Is(err, domain.ErrProofImageRequired) {
		t.Fatalf("got %v, want ErrProofImageRequired", err)
	}

	// The check runs before any read or write.
	if len(f.shipments.statusUpdates) != 0 || len(f.history.appended) != 0 {
		t.Error("a rejected pickup must not mutate anything")
	}
}

func TestCourierService_PickupStoresProofPath(t *testing.T) {
	f := newCourierFixture(domain.DeliveryWaitingPickup)

	shipment, err := f.svc.PickupShipment(context.Background(), "KA555", "courier-1", "proof.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shipment.DeliveryStatus != domain.DeliveryPickedUp {
		t.Errorf("status: got %s, want PICKED_UP", shipment.DeliveryStatus)
	}
	if got := f.shipments.pickupProofs["ship-1"]; got != "uploads/photos/proof.jpg" {
		t.Errorf("pickup proof path: got %q", got)
	}
}

func TestCourierService_DeliverToCustomerRequiresProof(t *testing.T) {
	f := newCourierFixture(domain.DeliveryOnTheWayToAddress)

	if _, err := f.svc.DeliverToCustomer(context.Background(), "KA555", "courier-1", ""); !errors.Is(err, domain.ErrProofImageRequired) {
		t.Fatalf("got %v, want ErrProofImageRequired", err)
	}
}

func TestCourierService_DeliverToCustomerStoresProof(t *testing.T) {
	f := newCourierFixture(domain.DeliveryOnTheWayToAddress)

	shipment, err := f.svc.DeliverToCustomer(context.Background(), "KA555", "courier-1", "pod.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shipment.DeliveryStatus != domain.DeliveryDelivered {
		t.Errorf("status: got %s, want DELIVERED", shipment.DeliveryStatus)
	}
	if got := f.shipments.deliveryProofs["ship-1"]; got != "uploads/photos/pod.jpg" {
		t.Errorf("delivery proof path: got %q", got)
	}
}

func TestCourierService_RejectsWrongCurrentState(t *testing.T) {
	// A shipment still pending payment cannot be picked.
	f := newCourierFixture(domain.DeliveryPending)

	_, err := f.svc.PickShipment(context.Background(), "KA555", "courier-1")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}
	if len(f.shipments.statusUpdates) != 0 || len(f.history.appended) != 0 {
		t.Error("a rejected transition must not mutate anything")
	}
}

func TestCourierService_UnknownTrackingNumber(t *testing.T) {
	f := newCourierFixture(domain.DeliveryReadyToPickup)

	if _, err := f.svc.PickShipment(context.Background(), "KA-nope", "courier-1"); !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Fatalf("got %v, want ErrShipmentNotFound", err)
	}
}

func TestCourierService_UnassignedCourier(t *testing.T) {
	f := newCourierFixture(domain.DeliveryReadyToPickup)

	_, err := f.svc.PickShipment(context.Background(), "KA555", "courier-unassigned")
	if !errors.Is(err, domain.ErrBranchNotFound) {
		t.Fatalf("got %v, want ErrBranchNotFound", err)
	}
}

func TestCourierService_List(t *testing.T) {
	f := newCourierFixture(domain.DeliveryReadyToPickup)
	f.shipments.listResult = []*domain.Shipment{
		{ID: "ship-2", TrackingNumber: "KA556"},
		{ID: "ship-1", TrackingNumber: "KA555"},
	}

	shipments, err := f.svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shipments) != 2 {
		t.Fatalf("expected two shipments, got %d", len(shipments))
	}
}
