package domain

import "errors"

var (
	ErrShipmentNotFound = errors.New("shipment not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrAddressNotFound  = errors.New("pickup address not found")
	ErrBranchNotFound   = errors.New("user branch not found")

	// ErrInvalidTransition is returned when an action is applied to a
	// shipment whose current delivery status does not permit it.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrShipmentNotScannable is returned when a branch scan arrives while
	// the shipment is outside the scannable state set.
	ErrShipmentNotScannable = errors.New("shipment not in a scannable state")

	// ErrNoInboundScan is returned on an OUT scan with no prior IN scan for
	// the same tracking number at the same branch.
	ErrNoInboundScan = errors.New("no IN scan found for this shipment at this branch")

	// ErrProofImageRequired is returned by pickup and deliver-to-customer
	// when no proof image reference is supplied.
	ErrProofImageRequired = errors.New("proof image is required")

	// ErrExternalDependency wraps failures of the geocoder, the payment
	// gateway, and the QR generator.
	ErrExternalDependency = errors.New("external dependency failure")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("access forbidden")
)
