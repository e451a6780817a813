package ports

import (
	"context"
	"time"
)

// ExpiryJob is the persisted payload of a scheduled payment-expiry check.
type ExpiryJob struct {
	PaymentID  string `json:"payment_id"`
	ShipmentID string `json:"shipment_id"`
	ExternalID string `json:"external_id"`
}

// ExpiryScheduler schedules and cancels payment-expiry jobs.
type ExpiryScheduler interface {
	// ScheduleExpiry enqueues the job to fire at expiryAt; a time in the
	// past enqueues for immediate execution.
	ScheduleExpiry(ctx context.Context, job ExpiryJob, expiryAt time.Time) error
	// CancelExpiry removes the first pending job matching paymentID.
	// A missing job is a no-op, not an error; racing the job's own firing
	// is resolved by the handler's PENDING guard.
	CancelExpiry(ctx context.Context, paymentID string) error
}

// Email job types understood by the email processor.
const (
	EmailPaymentNotification = "payment-notification"
	EmailPaymentSuccess      = "payment-success"
	EmailTest                = "testing"
)

// EmailJob is the persisted payload of a queued email.
type EmailJob struct {
	Type           string    `json:"type"`
	To             string    `json:"to"`
	ShipmentID     string    `json:"shipment_id,omitempty"`
	Amount         int64     `json:"amount,omitempty"`
	PaymentURL     string    `json:"payment_url,omitempty"`
	ExpiryDate     time.Time `json:"expiry_date,omitempty"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
}

// EmailQueue enqueues email jobs for background delivery.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, job EmailJob, delay time.Duration) error
}
