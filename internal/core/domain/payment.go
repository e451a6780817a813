package domain

import "time"

// PaymentStatus is the financial state of the invoice, mirrored onto the
// shipment's payment_status field inside the same transaction.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentSettled PaymentStatus = "SETTLED"
	PaymentExpired PaymentStatus = "EXPIRED"
)

// Paid reports whether the status confirms payment (PAID or SETTLED).
func (s PaymentStatus) Paid() bool {
	return s == PaymentPaid || s == PaymentSettled
}

// Payment is the 1:1 invoice record of a shipment. Its status is mutated by
// exactly one of two racing writers: the gateway webhook or the expiry job.
type Payment struct {
	ID            string        `json:"id" bson:"_id,omitempty"`
	ShipmentID    string        `json:"shipment_id" bson:"shipment_id"`
	ExternalID    string        `json:"external_id" bson:"external_id"`
	InvoiceID     string        `json:"invoice_id" bson:"invoice_id"`
	InvoiceURL    string        `json:"invoice_url" bson:"invoice_url"`
	Status        PaymentStatus `json:"status" bson:"status"`
	PayerEmail    string        `json:"payer_email" bson:"payer_email"`
	PaymentMethod string        `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	ExpiryDate    time.Time     `json:"expiry_date" bson:"expiry_date"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

// TrackingNumber derives the customer-facing tracking number from the
// payment gateway's event id. Deterministic so a replayed webhook reproduces
// the same number instead of minting a duplicate.
func TrackingNumber(gatewayEventID string) string {
	return "KA" + gatewayEventID
}
