package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createShipmentRequest struct {
	PickupAddressID    string `json:"pickup_address_id"   validate:"required"`
	DestinationAddress string `json:"destination_address" validate:"required"`
	RecipientName      string `json:"recipient_name"      validate:"required"`
	RecipientPhone     string `json:"recipient_phone"     validate:"required"`
	WeightGrams        int    `json:"weight_grams"        validate:"required,gt=0"`
	PackageType        string `json:"package_type"        validate:"required"`
	// Not constrained to the known tiers: pricing treats an unknown
	// delivery type as the regular tier.
	DeliveryType string `json:"delivery_type" validate:"required"`
}

type proofRequest struct {
	ProofImage string `json:"proof_image" validate:"required"`
}

type scanRequest struct {
	TrackingNumber string `json:"tracking_number" validate:"required"`
	Type           string `json:"type"            validate:"required,oneof=IN OUT"`
	ReadyToPickup  bool   `json:"ready_to_pickup"`
}

// webhookRequest mirrors the payment gateway's invoice callback payload.
// Field names follow the gateway contract, not internal naming.
type webhookRequest struct {
	ID            string `json:"id"          validate:"required"`
	ExternalID    string `json:"external_id" validate:"required"`
	Status        string `json:"status"      validate:"required"`
	PaymentMethod string `json:"payment_method"`
	Amount        int64  `json:"amount"`
}

// --- Response types ---

type priceBreakdownResponse struct {
	BasePrice     int64 `json:"base_price"`
	WeightPrice   int64 `json:"weight_price"`
	DistancePrice int64 `json:"distance_price"`
	TotalPrice    int64 `json:"total_price"`
}

type createShipmentResponse struct {
	ShipmentID     string                 `json:"shipment_id"`
	DeliveryStatus string                 `json:"delivery_status"`
	PaymentStatus  string                 `json:"payment_status"`
	DistanceKm     float64                `json:"distance_km"`
	Price          priceBreakdownResponse `json:"price"`
	InvoiceURL     string                 `json:"invoice_url"`
	ExpiryDate     time.Time              `json:"expiry_date"`
}

type historyItemResponse struct {
	Status      string    `json:"status"`
	Description string    `json:"description"`
	BranchID    string    `json:"branch_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type trackingResponse struct {
	ShipmentID     string                `json:"shipment_id"`
	TrackingNumber string                `json:"tracking_number,omitempty"`
	DeliveryStatus string                `json:"delivery_status"`
	PaymentStatus  string                `json:"payment_status"`
	DistanceKm     float64               `json:"distance_km"`
	Price          int64                 `json:"price"`
	QRCodeImage    string                `json:"qr_code_image,omitempty"`
	History        []historyItemResponse `json:"history"`
}

type shipmentSummaryResponse struct {
	ShipmentID     string    `json:"shipment_id"`
	TrackingNumber string    `json:"tracking_number"`
	DeliveryStatus string    `json:"delivery_status"`
	PaymentStatus  string    `json:"payment_status"`
	Price          int64     `json:"price"`
	CreatedAt      time.Time `json:"created_at"`
}

type branchLogResponse struct {
	ID             string    `json:"id"`
	TrackingNumber string    `json:"tracking_number"`
	BranchID       string    `json:"branch_id"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}
