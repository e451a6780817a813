package domain

import "time"

// DeliveryStatus represents the physical-handling state of a shipment,
// independent of its payment state.
type DeliveryStatus string

const (
	DeliveryPending               DeliveryStatus = "PENDING"
	DeliveryReadyToPickup         DeliveryStatus = "READY_TO_PICKUP"
	DeliveryWaitingPickup         DeliveryStatus = "WAITING_PICKUP"
	DeliveryPickedUp              DeliveryStatus = "PICKED_UP"
	DeliveryInTransit             DeliveryStatus = "IN_TRANSIT"
	DeliveryArrivedAtBranch       DeliveryStatus = "ARRIVED_AT_BRANCH"
	DeliveryAtBranch              DeliveryStatus = "AT_BRANCH"
	DeliveryDepartedFromBranch    DeliveryStatus = "DEPARTED_FROM_BRANCH"
	DeliveryReadyToPickupAtBranch DeliveryStatus = "READY_TO_PICKUP_AT_BRANCH"
	DeliveryReadyToDeliver        DeliveryStatus = "READY_TO_DELIVER"
	DeliveryOnTheWayToAddress     DeliveryStatus = "ON_THE_WAY_TO_ADDRESS"
	DeliveryDelivered             DeliveryStatus = "DELIVERED"
)

// CourierAction is one of the courier-triggered lifecycle operations.
type CourierAction string

const (
	ActionPick             CourierAction = "pick"
	ActionPickup           CourierAction = "pickup"
	ActionDeliverToBranch  CourierAction = "deliver_to_branch"
	ActionPickFromBranch   CourierAction = "pick_from_branch"
	ActionPickupFromBranch CourierAction = "pickup_from_branch"
	ActionDeliverCustomer  CourierAction = "deliver_to_customer"
)

// courierTransitions is the closed transition table for courier actions:
// each action is valid from exactly one current status and lands on exactly
// one next status.
var courierTransitions = map[CourierAction]struct {
	from DeliveryStatus
	to   DeliveryStatus
}{
	ActionPick:             {DeliveryReadyToPickup, DeliveryWaitingPickup},
	ActionPickup:           {DeliveryWaitingPickup, DeliveryPickedUp},
	ActionDeliverToBranch:  {DeliveryPickedUp, DeliveryReadyToPickupAtBranch},
	ActionPickFromBranch:   {DeliveryReadyToPickupAtBranch, DeliveryReadyToDeliver},
	ActionPickupFromBranch: {DeliveryReadyToDeliver, DeliveryOnTheWayToAddress},
	ActionDeliverCustomer:  {DeliveryOnTheWayToAddress, DeliveryDelivered},
}

// NextStatus resolves the delivery status a courier action transitions to.
// The current status must match the action's source state; anything else is
// rejected with ErrInvalidTransition.
func NextStatus(current DeliveryStatus, action CourierAction) (DeliveryStatus, error) {
	t, ok := courierTransitions[action]
	if !ok {
		return "", ErrInvalidTransition
	}
	if current != t.from {
		return "", ErrInvalidTransition
	}
	return t.to, nil
}

// scannableStatuses is the set of delivery states in which a branch scan is
// accepted at all.
var scannableStatuses = map[DeliveryStatus]struct{}{
	DeliveryInTransit:          {},
	DeliveryArrivedAtBranch:    {},
	DeliveryAtBranch:           {},
	DeliveryDepartedFromBranch: {},
}

// Scannable reports whether a branch scan may be applied in status s.
func (s DeliveryStatus) Scannable() bool {
	_, ok := scannableStatuses[s]
	return ok
}

// ScanType is the direction of a branch scan.
type ScanType string

const (
	ScanIn  ScanType = "IN"
	ScanOut ScanType = "OUT"
)

// ScanResult derives the delivery status resulting from a branch scan.
// A ready-to-pickup scan wins regardless of direction.
func ScanResult(scanType ScanType, readyToPickup bool) DeliveryStatus {
	switch {
	case readyToPickup:
		return DeliveryReadyToPickupAtBranch
	case scanType == ScanIn:
		return DeliveryArrivedAtBranch
	default:
		return DeliveryDepartedFromBranch
	}
}

// Shipment is the root entity of the delivery workflow. Rows are never
// deleted; the lifecycle only moves the status fields forward.
type Shipment struct {
	ID             string         `json:"id" bson:"_id,omitempty"`
	TrackingNumber string         `json:"tracking_number,omitempty" bson:"tracking_number,omitempty"`
	DeliveryStatus DeliveryStatus `json:"delivery_status" bson:"delivery_status"`
	PaymentStatus  PaymentStatus  `json:"payment_status" bson:"payment_status"`
	DistanceKm     float64        `json:"distance_km" bson:"distance_km"`
	Price          int64          `json:"price" bson:"price"`
	QRCodeImage    string         `json:"qr_code_image,omitempty" bson:"qr_code_image,omitempty"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" bson:"updated_at"`
}

// ShipmentDetail is the 1:1 companion record of a shipment: addresses,
// recipient, package attributes, the price breakdown, and the two
// write-once proof image references.
type ShipmentDetail struct {
	ShipmentID         string      `json:"shipment_id" bson:"shipment_id"`
	UserID             string      `json:"user_id" bson:"user_id"`
	PickupAddressID    string      `json:"pickup_address_id" bson:"pickup_address_id"`
	DestinationAddress string      `json:"destination_address" bson:"destination_address"`
	Destination        Coordinates `json:"destination" bson:"destination"`
	RecipientName      string      `json:"recipient_name" bson:"recipient_name"`
	RecipientPhone     string      `json:"recipient_phone" bson:"recipient_phone"`
	WeightGrams        int         `json:"weight_grams" bson:"weight_grams"`
	PackageType        string      `json:"package_type" bson:"package_type"`
	DeliveryType       string      `json:"delivery_type" bson:"delivery_type"`
	BasePrice          int64       `json:"base_price" bson:"base_price"`
	WeightPrice        int64       `json:"weight_price" bson:"weight_price"`
	DistancePrice      int64       `json:"distance_price" bson:"distance_price"`
	PickupProof        string      `json:"pickup_proof,omitempty" bson:"pickup_proof,omitempty"`
	DeliveryProof      string      `json:"delivery_proof,omitempty" bson:"delivery_proof,omitempty"`
}

// ShipmentHistory is one row of the append-only audit trail. Exactly one row
// is written per status change, inside the same transaction as the change.
type ShipmentHistory struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	ShipmentID  string    `json:"shipment_id" bson:"shipment_id"`
	Status      string    `json:"status" bson:"status"`
	Description string    `json:"description" bson:"description"`
	UserID      string    `json:"user_id,omitempty" bson:"user_id,omitempty"`
	BranchID    string    `json:"branch_id,omitempty" bson:"branch_id,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// ShipmentBranchLog records a single IN/OUT scan at a sorting branch.
// Append-only; the OUT-requires-prior-IN rule is validated against it.
type ShipmentBranchLog struct {
	ID              string         `json:"id" bson:"_id,omitempty"`
	ShipmentID      string         `json:"shipment_id" bson:"shipment_id"`
	TrackingNumber  string         `json:"tracking_number" bson:"tracking_number"`
	BranchID        string         `json:"branch_id" bson:"branch_id"`
	ScannedByUserID string         `json:"scanned_by_user_id" bson:"scanned_by_user_id"`
	Type            ScanType       `json:"type" bson:"type"`
	Status          DeliveryStatus `json:"status" bson:"status"`
	Description     string         `json:"description" bson:"description"`
	CreatedAt       time.Time      `json:"created_at" bson:"created_at"`
}
