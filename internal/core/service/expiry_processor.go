package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/kirimaja/shipment-system/internal/core/domain"
	"github.com/kirimaja/shipment-system/internal/core/ports"
)

// ExpiryProcessor handles scheduled payment-expiry jobs. Its PENDING guard
// is the at-most-once mechanism against the webhook: the guard read shares
// the transaction with the writes, so whichever writer commits first wins
// and the loser re-reads a non-PENDING payment and backs off silently.
type ExpiryProcessor struct {
	tx        ports.TxRunner
	payments  ports.PaymentRepository
	shipments ports.ShipmentRepository
	history   ports.HistoryRepository
	logger    zerolog.Logger
}

func NewExpiryProcessor(
	tx ports.TxRunner,
	payments ports.PaymentRepository,
	shipments ports.ShipmentRepository,
	history ports.HistoryRepository,
	logger zerolog.Logger,
) *ExpiryProcessor {
	return &ExpiryProcessor{
		tx:        tx,
		payments:  payments,
		shipments: shipments,
		history:   history,
		logger:    logger,
	}
}

// Process marks the payment EXPIRED if it is still PENDING. The status check
// runs inside the same transaction as the writes: snapshot reads plus the
// driver's write-conflict retry serialize this against a concurrent webhook,
// and a retry re-reads the reconciled status. A payment that was already
// reconciled, or that no longer exists, is a silent no-op. Delivery status,
// tracking number and QR code are never touched on expiry.
func (p *ExpiryProcessor) Process(ctx context.Context, job ports.ExpiryJob) error {
	var (
		found  bool
		status domain.PaymentStatus
	)
	err := p.tx.WithinTx(ctx, func(txCtx context.Context) error {
		// Reset on transaction retry.
		found, status = false, ""

		payment, err := p.payments.FindByID(txCtx, job.PaymentID)
		if err != nil {
			if errors.Is(err, domain.ErrPaymentNotFound) {
				return nil
			}
			return err
		}
		found = true
		status = payment.Status
		if payment.Status != domain.PaymentPending {
			return nil
		}

		if err := p.payments.UpdateStatus(txCtx, job.PaymentID, domain.PaymentExpired, payment.PaymentMethod); err != nil {
			return err
		}
		if err := p.shipments.UpdatePaymentStatus(txCtx, job.ShipmentID, domain.PaymentExpired); err != nil {
			return err
		}
		return p.history.Append(txCtx, &domain.ShipmentHistory{
			ShipmentID:  job.ShipmentID,
			Status:      string(domain.PaymentExpired),
			Description: "Payment expired - automatic expiry",
			CreatedAt:   time.Now().UTC(),
		})
	})
	if err != nil {
		p.logger.Error().Err(err).Str("payment_id", job.PaymentID).Msg("expiry job: failed to expire payment")
		return err
	}

	switch {
	case !found:
		p.logger.Warn().Str("payment_id", job.PaymentID).Msg("expiry job: payment not found, skipping")
	case status != domain.PaymentPending:
		p.logger.Info().
			Str("payment_id", job.PaymentID).
			Str("status", string(status)).
			Msg("expiry job: payment no longer pending, skipping")
	default:
		p.logger.Info().Str("payment_id", job.PaymentID).Msg("payment expired")
	}
	return nil
}
