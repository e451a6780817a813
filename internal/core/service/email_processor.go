package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kirimaja/shipment-system/internal/core/ports"
)

// EmailProcessor dispatches queued email jobs to the mailer. A returned
// error makes the queue retry the job; it never reaches shipment state.
type EmailProcessor struct {
	mailer ports.Mailer
	logger zerolog.Logger
}

func NewEmailProcessor(mailer ports.Mailer, logger zerolog.Logger) *EmailProcessor {
	return &EmailProcessor{mailer: mailer, logger: logger}
}

func (p *EmailProcessor) Process(ctx context.Context, job ports.EmailJob) error {
	switch job.Type {
	case ports.EmailPaymentNotification:
		if err := p.mailer.SendPaymentNotification(ctx, job.To, job.ShipmentID, job.Amount, job.PaymentURL, job.ExpiryDate); err != nil {
			return fmt.Errorf("send payment notification to %s: %w", job.To, err)
		}
	case ports.EmailPaymentSuccess:
		if err := p.mailer.SendPaymentSuccess(ctx, job.To, job.ShipmentID, job.Amount, job.TrackingNumber); err != nil {
			return fmt.Errorf("send payment success to %s: %w", job.To, err)
		}
	default:
		// Unknown types are dropped rather than retried forever.
		p.logger.Warn().Str("type", job.Type).Str("to", job.To).Msg("unknown email job type")
		return nil
	}

	p.logger.Info().Str("type", job.Type).Str("to", job.To).Msg("email sent")
	return nil
}
