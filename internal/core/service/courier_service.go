package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kirimaja/shipment-system/internal/core/domain"
	"github.com/kirimaja/shipment-system/internal/core/ports"
)

// CourierService implements the six courier lifecycle operations. Every
// operation resolves the shipment by tracking number, resolves the acting
// employee's branch, validates the transition against the domain table, and
// commits status + history in one transaction.
type CourierService struct {
	tx        ports.TxRunner
	shipments ports.ShipmentRepository
	history   ports.HistoryRepository
	branches  ports.BranchRepository
	logger    zerolog.Logger
}

func NewCourierService(
	tx ports.TxRunner,
	shipments ports.ShipmentRepository,
	history ports.HistoryRepository,
	branches ports.BranchRepository,
	logger zerolog.Logger,
) *CourierService {
	return &CourierService{
		tx:        tx,
		shipments: shipments,
		history:   history,
		branches:  branches,
		logger:    logger,
	}
}

// List returns paid shipments in courier-visible states, newest first.
func (s *CourierService) List(ctx context.Context) ([]*domain.Shipment, error) {
	return s.shipments.ListForCourier(ctx)
}

func (s *CourierService) PickShipment(ctx context.Context, trackingNumber, userID string) (*domain.Shipment, error) {
	return s.transition(ctx, trackingNumber, userID, domain.ActionPick, "")
}

func (s *CourierService) PickupShipment(ctx context.Context, trackingNumber, userID, proofImage string) (*domain.Shipment, error) {
	if proofImage == "" {
		return nil, fmt.Errorf("pickup proof: %w", domain.ErrProofImageRequired)
	}
	return s.transition(ctx, trackingNumber, userID, domain.ActionPickup, proofImage)
}

func (s *CourierService) DeliverToBranch(ctx context.Context, trackingNumber, userID string) (*domain.Shipment, error) {
	return s.transition(ctx, trackingNumber, userID, domain.ActionDeliverToBranch, "")
}

func (s *CourierService) PickShipmentFromBranch(ctx context.Context, trackingNumber, userID string) (*domain.Shipment, error) {
	return s.transition(ctx, trackingNumber, userID, domain.ActionPickFromBranch, "")
}

func (s *CourierService) PickupShipmentFromBranch(ctx context.Context, trackingNumber, userID string) (*domain.Shipment, error) {
	return s.transition(ctx, trackingNumber, userID, domain.ActionPickupFromBranch, "")
}

func (s *CourierService) DeliverToCustomer(ctx context.Context, trackingNumber, userID, proofImage string) (*domain.Shipment, error) {
	if proofImage == "" {
		return nil, fmt.Errorf("delivery proof: %w", domain.ErrProofImageRequired)
	}
	return s.transition(ctx, trackingNumber, userID, domain.ActionDeliverCustomer, proofImage)
}

// transition is the shared path of all courier operations. The proofImage is
// written only for the two actions that carry one.
func (s *CourierService) transition(ctx context.Context, trackingNumber, userID string, action domain.CourierAction, proofImage string) (*domain.Shipment, error) {
	shipment, err := s.shipments.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	next, err := domain.NextStatus(shipment.DeliveryStatus, action)
	if err != nil {
		return nil, fmt.Errorf("%s on %s in status %s: %w", action, trackingNumber, shipment.DeliveryStatus, err)
	}

	employeeBranch, err := s.branches.FindEmployeeBranch(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.shipments.UpdateDeliveryStatus(txCtx, shipment.ID, next); err != nil {
			return err
		}

		if err := s.history.Append(txCtx, &domain.ShipmentHistory{
			ShipmentID:  shipment.ID,
			Status:      string(next),
			Description: actionDescription(action, userID),
			UserID:      userID,
			BranchID:    employeeBranch.BranchID,
			CreatedAt:   time.Now().UTC(),
		}); err != nil {
			return err
		}

		switch action {
		case domain.ActionPickup:
			return s.shipments.SetPickupProof(txCtx, shipment.ID, "uploads/photos/"+proofImage)
		case domain.ActionDeliverCustomer:
			return s.shipments.SetDeliveryProof(txCtx, shipment.ID, "uploads/photos/"+proofImage)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	shipment.DeliveryStatus = next

	s.logger.Info().
		Str("tracking_number", trackingNumber).
		Str("action", string(action)).
		Str("status", string(next)).
		Str("user_id", userID).
		Msg("courier transition applied")

	return shipment, nil
}

func actionDescription(action domain.CourierAction, userID string) string {
	switch action {
	case domain.ActionPick:
		return fmt.Sprintf("Shipment assigned for pickup by courier %s", userID)
	case domain.ActionPickup:
		return fmt.Sprintf("Shipment picked up by courier %s", userID)
	case domain.ActionDeliverToBranch:
		return fmt.Sprintf("Shipment delivered to branch by courier %s", userID)
	case domain.ActionPickFromBranch:
		return fmt.Sprintf("Shipment picked from branch by courier %s", userID)
	case domain.ActionPickupFromBranch:
		return fmt.Sprintf("Shipment on the way to destination address, courier %s", userID)
	case domain.ActionDeliverCustomer:
		return fmt.Sprintf("Shipment delivered to customer by courier %s", userID)
	default:
		return fmt.Sprintf("Shipment updated by courier %s", userID)
	}
}
