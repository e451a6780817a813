package ports

import (
	"context"
	"time"

	"github.com/kirimaja/shipment-system/internal/core/domain"
)

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// CreateInvoiceInput is the request sent to the payment gateway.
type CreateInvoiceInput struct {
	ExternalID      string
	Amount          int64
	PayerEmail      string
	Description     string
	RedirectURL     string
	DurationSeconds int
}

// Invoice is the hosted invoice returned by the payment gateway.
type Invoice struct {
	ID         string
	ExternalID string
	Status     domain.PaymentStatus
	InvoiceURL string
	ExpiryDate time.Time
}

// InvoiceClient creates hosted invoices at the payment gateway. Status
// changes arrive later through the webhook, not through this interface.
type InvoiceClient interface {
	CreateInvoice(ctx context.Context, in CreateInvoiceInput) (*Invoice, error)
}

// QRGenerator renders a QR code encoding the tracking number and returns the
// stored image path.
type QRGenerator interface {
	Generate(ctx context.Context, trackingNumber string) (string, error)
}

// Mailer sends transactional email. All sends are fire-and-forget from the
// lifecycle's perspective; retries belong to the queue, not the caller.
type Mailer interface {
	SendPaymentNotification(ctx context.Context, to string, shipmentID string, amount int64, paymentURL string, expiryDate time.Time) error
	SendPaymentSuccess(ctx context.Context, to string, shipmentID string, amount int64, trackingNumber string) error
}
