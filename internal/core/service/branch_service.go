package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kirimaja/shipment-system/internal/core/domain"
	"github.com/kirimaja/shipment-system/internal/core/ports"
)

// BranchService processes IN/OUT scans at sorting branches and lists scan
// logs scoped to the staff member's branch.
type BranchService struct {
	tx        ports.TxRunner
	shipments ports.ShipmentRepository
	history   ports.HistoryRepository
	branchLog ports.BranchLogRepository
	branches  ports.BranchRepository
	logger    zerolog.Logger
}

func NewBranchService(
	tx ports.TxRunner,
	shipments ports.ShipmentRepository,
	history ports.HistoryRepository,
	branchLog ports.BranchLogRepository,
	branches ports.BranchRepository,
	logger zerolog.Logger,
) *BranchService {
	return &BranchService{
		tx:        tx,
		shipments: shipments,
		history:   history,
		branchLog: branchLog,
		branches:  branches,
		logger:    logger,
	}
}

// Scan records a branch IN/OUT scan. The shipment must be in a scannable
// state, and an OUT scan requires a prior IN scan for the same tracking
// number at the same branch. The branch log row, the history row, and the
// shipment's new status are committed together.
func (s *BranchService) Scan(ctx context.Context, input ports.ScanInput, userID string) (*domain.ShipmentBranchLog, error) {
	employeeBranch, err := s.branches.FindEmployeeBranch(ctx, userID)
	if err != nil {
		return nil, err
	}

	branch, err := s.branches.FindByID(ctx, employeeBranch.BranchID)
	if err != nil {
		return nil, err
	}

	shipment, err := s.shipments.FindByTrackingNumber(ctx, input.TrackingNumber)
	if err != nil {
		return nil, err
	}

	if !shipment.DeliveryStatus.Scannable() {
		return nil, fmt.Errorf("scan %s in status %s: %w", input.TrackingNumber, shipment.DeliveryStatus, domain.ErrShipmentNotScannable)
	}

	if input.Type == domain.ScanOut {
		if _, err := s.branchLog.LastInScan(ctx, input.TrackingNumber, employeeBranch.BranchID); err != nil {
			return nil, err
		}
	}

	newStatus := domain.ScanResult(input.Type, input.ReadyToPickup)
	description := scanDescription(input.Type, branch.Name)

	log := &domain.ShipmentBranchLog{
		ShipmentID:      shipment.ID,
		TrackingNumber:  shipment.TrackingNumber,
		BranchID:        employeeBranch.BranchID,
		ScannedByUserID: userID,
		Type:            input.Type,
		Status:          newStatus,
		Description:     description,
		CreatedAt:       time.Now().UTC(),
	}

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.branchLog.Append(txCtx, log); err != nil {
			return err
		}
		if err := s.shipments.UpdateDeliveryStatus(txCtx, shipment.ID, newStatus); err != nil {
			return err
		}
		return s.history.Append(txCtx, &domain.ShipmentHistory{
			ShipmentID:  shipment.ID,
			Status:      string(newStatus),
			Description: description,
			UserID:      userID,
			BranchID:    employeeBranch.BranchID,
			CreatedAt:   log.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("tracking_number", input.TrackingNumber).
		Str("scan_type", string(input.Type)).
		Str("branch_id", employeeBranch.BranchID).
		Str("status", string(newStatus)).
		Msg("branch scan recorded")

	return log, nil
}

// Logs lists scan logs. Admins see every branch; staff only their own.
func (s *BranchService) Logs(ctx context.Context, userID, role string) ([]*domain.ShipmentBranchLog, error) {
	if role == domain.RoleAdmin {
		return s.branchLog.ListAll(ctx)
	}

	employeeBranch, err := s.branches.FindEmployeeBranch(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.branchLog.ListByBranch(ctx, employeeBranch.BranchID)
}

func scanDescription(scanType domain.ScanType, branchName string) string {
	if scanType == domain.ScanIn {
		return fmt.Sprintf("Shipment arrived at %s", branchName)
	}
	return fmt.Sprintf("Shipment departed from %s", branchName)
}
