package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kirimaja/shipment-system/internal/core/domain"
	"github.com/kirimaja/shipment-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type branchFixture struct {
	svc       *BranchService
	shipments *stubShipmentRepo
	history   *stubHistoryRepo
	branchLog *stubBranchLogRepo
	branches  *stubBranchRepo
}

func newBranchFixture(status domain.DeliveryStatus) *branchFixture {
	f := &branchFixture{
		shipments: newStubShipmentRepo(),
		history:   &stubHistoryRepo{},
		branchLog: newStubBranchLogRepo(),
		branches: &stubBranchRepo{
			branches:  map[string]*domain.Branch{"branch-1": {ID: "branch-1", Name: "Bandung Utara"}},
			employees: map[string]*domain.EmployeeBranch{"staff-1": {UserID: "staff-1", BranchID: "branch-1"}},
		},
	}
	f.shipments.byTracking["KA555"] = &domain.Shipment{
		ID:             "ship-1",
		TrackingNumber: "KA555",
		DeliveryStatus: status,
		PaymentStatus:  domain.PaymentPaid,
	}
	f.svc = NewBranchService(&stubTx{}, f.shipments, f.history, f.branchLog, f.branches, zerolog.Nop())
	return f
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestBranchService_InScan(t *testing.T) {
	f := newBranchFixture(domain.DeliveryInTransit)

	log, err := f.svc.Scan(context.Background(), ports.ScanInput{
		TrackingNumber: "KA555",
		Type:           domain.ScanIn,
	}, "staff-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if log.Status != domain.DeliveryArrivedAtBranch {
		t.Errorf("log status: got %s, want ARRIVED_AT_BRANCH", log.Status)
	}
	if log.Description != "Shipment arrived at Bandung Utara" {
		t.Errorf("description: got %q", log.Description)
	}
	if got := f.shipments.statusUpdates["ship-1"]; got != domain.DeliveryArrivedAtBranch {
		t.Errorf("persisted status: got %s", got)
	}
	if len(f.branchLog.appended) != 1 {
		t.Error("expected one branch log row")
	}
	if len(f.history.appended) != 1 {
		t.Error("expected one history row")
	}
}

func TestBranchService_OutScanRequiresPriorIn(t *testing.T) {
	f := newBranchFixture(domain.DeliveryAtBranch)

	_, err := f.svc.Scan(context.Background(), ports.ScanInput{
		TrackingNumber: "KA555",
		Type:           domain.ScanOut,
	}, "staff-1")
	if !errors.Is(err, domain.ErrNoInboundScan) {
		t.Fatalf("got %v, want ErrNoInboundScan", err)
	}
	if len(f.branchLog.appended) != 0 || len(f.history.appended) != 0 {
		t.Error("a rejected scan must not write anything")
	}
}

func TestBranchService_OutScanAfterIn(t *testing.T) {
	f := newBranchFixture(domain.DeliveryAtBranch)
	f.branchLog.lastIn["KA555/branch-1"] = &domain.ShipmentBranchLog{
		TrackingNumber: "KA555",
		BranchID:       "branch-1",
		Type:           domain.ScanIn,
	}

	log, err := f.svc.Scan(context.Background(), ports.ScanInput{
		TrackingNumber: "KA555",
		Type:           domain.ScanOut,
	}, "staff-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Status != domain.DeliveryDepartedFromBranch {
		t.Errorf("log status: got %s, want DEPARTED_FROM_BRANCH", log.Status)
	}
	if log.Description != "Shipment departed from Bandung Utara" {
		t.Errorf("description: got %q", log.Description)
	}
}

func TestBranchService_ReadyToPickupWinsOverDirection(t *testing.T) {
	f := newBranchFixture(domain.DeliveryInTransit)

	log, err := f.svc.Scan(context.Background(), ports.ScanInput{
		TrackingNumber: "KA555",
		Type:           domain.ScanIn,
		ReadyToPickup:  true,
	}, "staff-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Status != domain.DeliveryReadyToPickupAtBranch {
		t.Errorf("log status: got %s, want READY_TO_PICKUP_AT_BRANCH", log.Status)
	}
}

func TestBranchService_RejectsNotScannableState(t *testing.T) {
	f := newBranchFixture(domain.DeliveryPending)

	_, err := f.svc.Scan(context.Background(), ports.ScanInput{
		TrackingNumber: "KA555",
		Type:           domain.ScanIn,
	}, "staff-1")
	if !errors.Is(err, domain.ErrShipmentNotScannable) {
		t.Fatalf("got %v, want ErrShipmentNotScannable", err)
	}
}

func TestBranchService_ScanByUnassignedStaff(t *testing.T) {
	f := newBranchFixture(domain.DeliveryInTransit)

	_, err := f.svc.Scan(context.Background(), ports.ScanInput{
		TrackingNumber: "KA555",
		Type:           domain.ScanIn,
	}, "staff-unassigned")
	if !errors.Is(err, domain.ErrBranchNotFound) {
		t.Fatalf("got %v, want ErrBranchNotFound", err)
	}
}

func TestBranchService_LogsScopedByRole(t *testing.T) {
	f := newBranchFixture(domain.DeliveryInTransit)
	f.branchLog.allLogs = []*domain.ShipmentBranchLog{
		{BranchID: "branch-1", TrackingNumber: "KA555"},
		{BranchID: "branch-2", TrackingNumber: "KA556"},
	}

	staffLogs, err := f.svc.Logs(context.Background(), "staff-1", domain.RoleBranchStaff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(staffLogs) != 1 || staffLogs[0].BranchID != "branch-1" {
		t.Errorf("staff should only see their branch, got %+v", staffLogs)
	}

	adminLogs, err := f.svc.Logs(context.Background(), "admin-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(adminLogs) != 2 {
		t.Errorf("admin should see all branches, got %d logs", len(adminLogs))
	}
}
