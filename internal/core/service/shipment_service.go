package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kirimaja/shipment-system/internal/core/domain"
	"github.com/kirimaja/shipment-system/internal/core/ports"
)

// DedupChecker abstracts the webhook-delivery idempotency store (Redis).
// Reconciliation itself is idempotent; the checker is only a fast path that
// skips exact duplicate deliveries.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, externalID, eventID string, status domain.PaymentStatus) (bool, error)
	Mark(ctx context.Context, externalID, eventID string, status domain.PaymentStatus) error
}

// ShipmentService orchestrates shipment creation, tracking, and payment
// webhook reconciliation.
type ShipmentService struct {
	tx        ports.TxRunner
	shipments ports.ShipmentRepository
	payments  ports.PaymentRepository
	history   ports.HistoryRepository
	addresses ports.AddressRepository
	geocoder  ports.Geocoder
	invoices  ports.InvoiceClient
	qr        ports.QRGenerator
	scheduler ports.ExpiryScheduler
	emails    ports.EmailQueue
	dedup     DedupChecker

	frontendURL     string
	invoiceDuration time.Duration
	logger          zerolog.Logger
}

// ShipmentServiceDeps bundles the collaborators of ShipmentService.
type ShipmentServiceDeps struct {
	Tx        ports.TxRunner
	Shipments ports.ShipmentRepository
	Payments  ports.PaymentRepository
	History   ports.HistoryRepository
	Addresses ports.AddressRepository
	Geocoder  ports.Geocoder
	Invoices  ports.InvoiceClient
	QR        ports.QRGenerator
	Scheduler ports.ExpiryScheduler
	Emails    ports.EmailQueue
	Dedup     DedupChecker

	FrontendURL     string
	InvoiceDuration time.Duration
}

func NewShipmentService(deps ShipmentServiceDeps, logger zerolog.Logger) *ShipmentService {
	if deps.InvoiceDuration <= 0 {
		deps.InvoiceDuration = 10 * time.Minute
	}
	return &ShipmentService{
		tx:              deps.Tx,
		shipments:       deps.Shipments,
		payments:        deps.Payments,
		history:         deps.History,
		addresses:       deps.Addresses,
		geocoder:        deps.Geocoder,
		invoices:        deps.Invoices,
		qr:              deps.QR,
		scheduler:       deps.Scheduler,
		emails:          deps.Emails,
		dedup:           deps.Dedup,
		frontendURL:     deps.FrontendURL,
		invoiceDuration: deps.InvoiceDuration,
		logger:          logger,
	}
}

// Create runs the shipment creation flow: geocode the destination, resolve
// the pickup address, price the route, persist shipment + detail in one
// transaction, request the invoice, then persist payment + initial history
// in a second transaction. Expiry scheduling and the payment email are
// best-effort and never fail the operation.
//
// The invoice call sits between the two transactions on purpose: a gateway
// failure aborts creation with the shipment left PENDING, to be reconciled
// manually. There is no compensating rollback across the transactions.
func (s *ShipmentService) Create(ctx context.Context, userID string, input ports.CreateShipmentInput) (*ports.ShipmentResult, error) {
	destination, err := s.geocoder.Geocode(ctx, input.DestinationAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: geocode destination: %v", domain.ErrExternalDependency, err)
	}

	address, err := s.addresses.FindByID(ctx, input.PickupAddressID)
	if err != nil {
		return nil, err
	}
	if address.Coordinates.Lat == 0 && address.Coordinates.Lng == 0 {
		return nil, domain.ErrAddressNotFound
	}

	distanceKm := domain.DistanceKm(address.Coordinates, destination)
	quote := domain.CalculateShippingCost(distanceKm, input.WeightGrams, input.DeliveryType)

	now := time.Now().UTC()
	shipment := &domain.Shipment{
		ID:             uuid.NewString(),
		DeliveryStatus: domain.DeliveryPending,
		PaymentStatus:  domain.PaymentPending,
		DistanceKm:     distanceKm,
		Price:          quote.TotalPrice,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	detail := &domain.ShipmentDetail{
		ShipmentID:         shipment.ID,
		UserID:             userID,
		PickupAddressID:    address.ID,
		DestinationAddress: input.DestinationAddress,
		Destination:        destination,
		RecipientName:      input.RecipientName,
		RecipientPhone:     input.RecipientPhone,
		WeightGrams:        input.WeightGrams,
		PackageType:        input.PackageType,
		DeliveryType:       input.DeliveryType,
		BasePrice:          quote.BasePrice,
		WeightPrice:        quote.WeightPrice,
		DistancePrice:      quote.DistancePrice,
	}

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.shipments.Create(txCtx, shipment); err != nil {
			return err
		}
		return s.shipments.CreateDetail(txCtx, detail)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to persist shipment")
		return nil, err
	}

	invoice, err := s.invoices.CreateInvoice(ctx, ports.CreateInvoiceInput{
		ExternalID:      fmt.Sprintf("INV-%d-%s", now.UnixMilli(), shipment.ID),
		Amount:          quote.TotalPrice,
		PayerEmail:      address.UserEmail,
		Description:     fmt.Sprintf("Shipment %s from %s to %s", shipment.ID, address.Address, input.DestinationAddress),
		RedirectURL:     fmt.Sprintf("%s/send-package/detail/%s", s.frontendURL, shipment.ID),
		DurationSeconds: int(s.invoiceDuration.Seconds()),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("shipment_id", shipment.ID).Msg("invoice creation failed, shipment left pending")
		return nil, fmt.Errorf("%w: create invoice: %v", domain.ErrExternalDependency, err)
	}

	payment := &domain.Payment{
		ID:         uuid.NewString(),
		ShipmentID: shipment.ID,
		ExternalID: invoice.ExternalID,
		InvoiceID:  invoice.ID,
		InvoiceURL: invoice.InvoiceURL,
		Status:     invoice.Status,
		PayerEmail: address.UserEmail,
		ExpiryDate: invoice.ExpiryDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.payments.Create(txCtx, payment); err != nil {
			return err
		}
		return s.history.Append(txCtx, &domain.ShipmentHistory{
			ShipmentID:  shipment.ID,
			Status:      string(domain.PaymentPending),
			Description: fmt.Sprintf("Shipment created with total price Rp. %d", quote.TotalPrice),
			UserID:      userID,
			CreatedAt:   time.Now().UTC(),
		})
	})
	if err != nil {
		s.logger.Error().Err(err).Str("shipment_id", shipment.ID).Msg("failed to persist payment")
		return nil, err
	}

	// Best-effort side channels. Failures here are logged and swallowed;
	// the shipment and payment are already committed.
	if err := s.emails.EnqueueEmail(ctx, ports.EmailJob{
		Type:       ports.EmailPaymentNotification,
		To:         address.UserEmail,
		ShipmentID: shipment.ID,
		Amount:     quote.TotalPrice,
		PaymentURL: invoice.InvoiceURL,
		ExpiryDate: invoice.ExpiryDate,
	}, 0); err != nil {
		s.logger.Error().Err(err).Str("shipment_id", shipment.ID).Msg("failed to enqueue payment notification email")
	}

	if err := s.scheduler.ScheduleExpiry(ctx, ports.ExpiryJob{
		PaymentID:  payment.ID,
		ShipmentID: shipment.ID,
		ExternalID: payment.ExternalID,
	}, invoice.ExpiryDate); err != nil {
		s.logger.Error().Err(err).Str("payment_id", payment.ID).Msg("failed to schedule payment expiry job")
	}

	s.logger.Info().
		Str("shipment_id", shipment.ID).
		Float64("distance_km", distanceKm).
		Int64("price", quote.TotalPrice).
		Msg("shipment created")

	return &ports.ShipmentResult{
		ShipmentID:     shipment.ID,
		DeliveryStatus: shipment.DeliveryStatus,
		PaymentStatus:  shipment.PaymentStatus,
		DistanceKm:     distanceKm,
		Quote:          quote,
		InvoiceURL:     invoice.InvoiceURL,
		ExpiryDate:     invoice.ExpiryDate,
	}, nil
}

// HandlePaymentWebhook reconciles an asynchronously reported payment status.
// Idempotent by external id: a replayed PAID event regenerates the same
// deterministic tracking number and re-applies the same target state.
//
// Only PAID and SETTLED promote the shipment; any other status updates the
// payment record alone and leaves delivery state untouched.
func (s *ShipmentService) HandlePaymentWebhook(ctx context.Context, event ports.WebhookEvent) error {
	if s.dedup != nil {
		isDup, err := s.dedup.IsDuplicate(ctx, event.ExternalID, event.EventID, event.Status)
		if err != nil {
			s.logger.Warn().Err(err).Str("external_id", event.ExternalID).Msg("webhook dedup check failed, processing anyway")
		} else if isDup {
			s.logger.Info().Str("external_id", event.ExternalID).Str("status", string(event.Status)).Msg("duplicate webhook delivery skipped")
			return nil
		}
	}

	payment, err := s.payments.FindByExternalID(ctx, event.ExternalID)
	if err != nil {
		return fmt.Errorf("payment webhook %s: %w", event.ExternalID, err)
	}

	var detail *domain.ShipmentDetail
	if event.Status.Paid() {
		// Best-effort: the history row carries the owning user when the
		// detail record is reachable.
		detail, err = s.shipments.FindDetail(ctx, payment.ShipmentID)
		if err != nil {
			s.logger.Warn().Err(err).Str("shipment_id", payment.ShipmentID).Msg("shipment detail unavailable for webhook history")
			detail = nil
		}
	}

	trackingNumber := domain.TrackingNumber(event.EventID)

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.payments.UpdateStatus(txCtx, payment.ID, event.Status, event.PaymentMethod); err != nil {
			return err
		}

		if !event.Status.Paid() {
			return nil
		}

		// Tracking number and QR are essential outputs of "paid": a QR
		// failure aborts the whole reconciliation.
		qrPath, err := s.qr.Generate(txCtx, trackingNumber)
		if err != nil {
			return fmt.Errorf("%w: generate QR code for %s: %v", domain.ErrExternalDependency, trackingNumber, err)
		}

		if err := s.shipments.ConfirmPayment(txCtx, payment.ShipmentID, trackingNumber, event.Status, qrPath); err != nil {
			return err
		}

		history := &domain.ShipmentHistory{
			ShipmentID:  payment.ShipmentID,
			Status:      string(domain.DeliveryReadyToPickup),
			Description: fmt.Sprintf("Payment %s for shipment with tracking number %s", event.Status, trackingNumber),
			CreatedAt:   time.Now().UTC(),
		}
		if detail != nil {
			history.UserID = detail.UserID
		}
		return s.history.Append(txCtx, history)
	})
	if err != nil {
		return err
	}

	if event.Status.Paid() {
		// Best-effort: the expiry handler's own PENDING guard covers a lost
		// cancellation race.
		if err := s.scheduler.CancelExpiry(ctx, payment.ID); err != nil {
			s.logger.Warn().Err(err).Str("payment_id", payment.ID).Msg("failed to cancel expiry job")
		}
		if err := s.emails.EnqueueEmail(ctx, ports.EmailJob{
			Type:           ports.EmailPaymentSuccess,
			To:             payment.PayerEmail,
			ShipmentID:     payment.ShipmentID,
			Amount:         event.Amount,
			TrackingNumber: trackingNumber,
		}, 0); err != nil {
			s.logger.Warn().Err(err).Str("payment_id", payment.ID).Msg("failed to enqueue payment success email")
		}
	}

	if s.dedup != nil {
		if err := s.dedup.Mark(ctx, event.ExternalID, event.EventID, event.Status); err != nil {
			s.logger.Warn().Err(err).Str("external_id", event.ExternalID).Msg("failed to mark webhook delivery")
		}
	}

	s.logger.Info().
		Str("external_id", event.ExternalID).
		Str("status", string(event.Status)).
		Msg("payment webhook reconciled")

	return nil
}

// Track returns the shipment and its ordered audit trail by tracking number.
func (s *ShipmentService) Track(ctx context.Context, trackingNumber string) (*ports.TrackingView, error) {
	shipment, err := s.shipments.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	entries, err := s.history.ListByShipment(ctx, shipment.ID)
	if err != nil {
		return nil, err
	}

	view := &ports.TrackingView{
		ShipmentID:     shipment.ID,
		TrackingNumber: shipment.TrackingNumber,
		DeliveryStatus: shipment.DeliveryStatus,
		PaymentStatus:  shipment.PaymentStatus,
		DistanceKm:     shipment.DistanceKm,
		Price:          shipment.Price,
		QRCodeImage:    shipment.QRCodeImage,
	}
	for _, h := range entries {
		view.History = append(view.History, ports.HistoryItem{
			Status:      h.Status,
			Description: h.Description,
			BranchID:    h.BranchID,
			CreatedAt:   h.CreatedAt,
		})
	}
	return view, nil
}
