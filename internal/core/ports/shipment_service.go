package ports

import (
	"context"
	"time"

	"github.com/kirimaja/shipment-system/internal/core/domain"
)

// CreateShipmentInput carries all data needed to create a new shipment.
type CreateShipmentInput struct {
	PickupAddressID    string
	DestinationAddress string
	RecipientName      string
	RecipientPhone     string
	WeightGrams        int
	PackageType        string
	DeliveryType       string
}

// ShipmentResult is returned by the service after creating a shipment.
type ShipmentResult struct {
	ShipmentID     string
	DeliveryStatus domain.DeliveryStatus
	PaymentStatus  domain.PaymentStatus
	DistanceKm     float64
	Quote          domain.Quote
	InvoiceURL     string
	ExpiryDate     time.Time
}

// WebhookEvent is the inbound payment gateway notification.
type WebhookEvent struct {
	ExternalID    string
	EventID       string
	Status        domain.PaymentStatus
	PaymentMethod string
	Amount        int64
}

// HistoryItem is one entry of the audit trail view.
type HistoryItem struct {
	Status      string
	Description string
	BranchID    string
	CreatedAt   time.Time
}

// TrackingView is the customer-facing shipment view.
type TrackingView struct {
	ShipmentID     string
	TrackingNumber string
	DeliveryStatus domain.DeliveryStatus
	PaymentStatus  domain.PaymentStatus
	DistanceKm     float64
	Price          int64
	QRCodeImage    string
	History        []HistoryItem
}

// ShipmentService owns creation, tracking, and webhook reconciliation.
type ShipmentService interface {
	Create(ctx context.Context, userID string, input CreateShipmentInput) (*ShipmentResult, error)
	Track(ctx context.Context, trackingNumber string) (*TrackingView, error)
	HandlePaymentWebhook(ctx context.Context, event WebhookEvent) error
}

// CourierService owns the six courier lifecycle operations.
type CourierService interface {
	List(ctx context.Context) ([]*domain.Shipment, error)
	PickShipment(ctx context.Context, trackingNumber, userID string) (*domain.Shipment, error)
	PickupShipment(ctx context.Context, trackingNumber, userID, proofImage string) (*domain.Shipment, error)
	DeliverToBranch(ctx context.Context, trackingNumber, userID string) (*domain.Shipment, error)
	PickShipmentFromBranch(ctx context.Context, trackingNumber, userID string) (*domain.Shipment, error)
	PickupShipmentFromBranch(ctx context.Context, trackingNumber, userID string) (*domain.Shipment, error)
	DeliverToCustomer(ctx context.Context, trackingNumber, userID, proofImage string) (*domain.Shipment, error)
}

// ScanInput is a branch IN/OUT scan request.
type ScanInput struct {
	TrackingNumber string
	Type           domain.ScanType
	ReadyToPickup  bool
}

// BranchService owns branch scan processing and scan-log listing.
type BranchService interface {
	Scan(ctx context.Context, input ScanInput, userID string) (*domain.ShipmentBranchLog, error)
	Logs(ctx context.Context, userID, role string) ([]*domain.ShipmentBranchLog, error)
}
