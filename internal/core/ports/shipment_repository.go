package ports

import (
	"context"

	"github.com/kirimaja/shipment-system/internal/core/domain"
)

// ShipmentRepository defines persistence operations for shipments and their
// 1:1 detail records.
type ShipmentRepository interface {
	Create(ctx context.Context, s *domain.Shipment) error
	CreateDetail(ctx context.Context, d *domain.ShipmentDetail) error
	FindByID(ctx context.Context, id string) (*domain.Shipment, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
	FindDetail(ctx context.Context, shipmentID string) (*domain.ShipmentDetail, error)

	// UpdateDeliveryStatus sets only the delivery status.
	UpdateDeliveryStatus(ctx context.Context, id string, status domain.DeliveryStatus) error

	// UpdatePaymentStatus mirrors a payment status change onto the shipment.
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error

	// ConfirmPayment applies the paid promotion in one write: tracking number,
	// delivery status READY_TO_PICKUP, payment status, and the QR image path.
	ConfirmPayment(ctx context.Context, id, trackingNumber string, status domain.PaymentStatus, qrCodeImage string) error

	// SetPickupProof and SetDeliveryProof write the proof image reference
	// once; subsequent writes overwrite nothing (first value wins).
	SetPickupProof(ctx context.Context, shipmentID, imagePath string) error
	SetDeliveryProof(ctx context.Context, shipmentID, imagePath string) error

	// ListForCourier returns paid shipments in courier-visible states,
	// newest first.
	ListForCourier(ctx context.Context) ([]*domain.Shipment, error)
}

// PaymentRepository defines persistence operations for invoice records.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindByExternalID(ctx context.Context, externalID string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, paymentMethod string) error
}

// HistoryRepository appends to and reads the append-only audit trail.
type HistoryRepository interface {
	Append(ctx context.Context, h *domain.ShipmentHistory) error
	ListByShipment(ctx context.Context, shipmentID string) ([]*domain.ShipmentHistory, error)
}

// BranchLogRepository records branch IN/OUT scans and answers the
// prior-IN-at-branch precondition query.
type BranchLogRepository interface {
	Append(ctx context.Context, l *domain.ShipmentBranchLog) error
	// LastInScan returns the most recent IN scan for the tracking number at
	// the given branch, or domain.ErrNoInboundScan when none exists.
	LastInScan(ctx context.Context, trackingNumber, branchID string) (*domain.ShipmentBranchLog, error)
	ListByBranch(ctx context.Context, branchID string) ([]*domain.ShipmentBranchLog, error)
	ListAll(ctx context.Context) ([]*domain.ShipmentBranchLog, error)
}

// AddressRepository resolves saved pickup addresses.
type AddressRepository interface {
	FindByID(ctx context.Context, id string) (*domain.UserAddress, error)
}

// BranchRepository resolves branches and employee-to-branch assignments.
type BranchRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Branch, error)
	// FindEmployeeBranch returns the branch assignment of the acting
	// employee, or domain.ErrBranchNotFound when the user has none.
	FindEmployeeBranch(ctx context.Context, userID string) (*domain.EmployeeBranch, error)
}
