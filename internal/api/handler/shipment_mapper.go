package handler

import (
	"github.com/kirimaja/shipment-system/internal/core/domain"
	"github.com/kirimaja/shipment-system/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createShipmentRequest) ports.CreateShipmentInput {
	return ports.CreateShipmentInput{
		PickupAddressID:    req.PickupAddressID,
		DestinationAddress: req.DestinationAddress,
		RecipientName:      req.RecipientName,
		RecipientPhone:     req.RecipientPhone,
		WeightGrams:        req.WeightGrams,
		PackageType:        req.PackageType,
		DeliveryType:       req.DeliveryType,
	}
}

// --- Service result → HTTP response ---

func toCreateResponse(r *ports.ShipmentResult) createShipmentResponse {
	return createShipmentResponse{
		ShipmentID:     r.ShipmentID,
		DeliveryStatus: string(r.DeliveryStatus),
		PaymentStatus:  string(r.PaymentStatus),
		DistanceKm:     r.DistanceKm,
		Price: priceBreakdownResponse{
			BasePrice:     r.Quote.BasePrice,
			WeightPrice:   r.Quote.WeightPrice,
			DistancePrice: r.Quote.DistancePrice,
			TotalPrice:    r.Quote.TotalPrice,
		},
		InvoiceURL: r.InvoiceURL,
		ExpiryDate: r.ExpiryDate.UTC(),
	}
}

func toTrackingResponse(v *ports.TrackingView) trackingResponse {
	history := make([]historyItemResponse, len(v.History))
	for i, h := range v.History {
		history[i] = historyItemResponse{
			Status:      h.Status,
			Description: h.Description,
			BranchID:    h.BranchID,
			CreatedAt:   h.CreatedAt.UTC(),
		}
	}
	return trackingResponse{
		ShipmentID:     v.ShipmentID,
		TrackingNumber: v.TrackingNumber,
		DeliveryStatus: string(v.DeliveryStatus),
		PaymentStatus:  string(v.PaymentStatus),
		DistanceKm:     v.DistanceKm,
		Price:          v.Price,
		QRCodeImage:    v.QRCodeImage,
		History:        history,
	}
}

func toSummaryResponse(s *domain.Shipment) shipmentSummaryResponse {
	return shipmentSummaryResponse{
		ShipmentID:     s.ID,
		TrackingNumber: s.TrackingNumber,
		DeliveryStatus: string(s.DeliveryStatus),
		PaymentStatus:  string(s.PaymentStatus),
		Price:          s.Price,
		CreatedAt:      s.CreatedAt.UTC(),
	}
}

func toBranchLogResponse(l *domain.ShipmentBranchLog) branchLogResponse {
	return branchLogResponse{
		ID:             l.ID,
		TrackingNumber: l.TrackingNumber,
		BranchID:       l.BranchID,
		Type:           string(l.Type),
		Status:         string(l.Status),
		Description:    l.Description,
		CreatedAt:      l.CreatedAt.UTC(),
	}
}
