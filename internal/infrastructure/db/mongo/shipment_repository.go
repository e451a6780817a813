package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kirimaja/shipment-system/internal/core/domain"
)

const (
	collectionShipments       = "shipments"
	collectionShipmentDetails = "shipment_details"
)

// courierVisibleStatuses are the delivery states shown in the courier work
// list.
var courierVisibleStatuses = []domain.DeliveryStatus{
	domain.DeliveryReadyToPickup,
	domain.DeliveryWaitingPickup,
	domain.DeliveryPickedUp,
	domain.DeliveryReadyToPickupAtBranch,
	domain.DeliveryReadyToDeliver,
	domain.DeliveryOnTheWayToAddress,
	domain.DeliveryDelivered,
}

type ShipmentRepository struct {
	shipments *mongo.Collection
	details   *mongo.Collection
}

func NewShipmentRepository(db *mongo.Database) *ShipmentRepository {
	return &ShipmentRepository{
		shipments: db.Collection(collectionShipments),
		details:   db.Collection(collectionShipmentDetails),
	}
}

func (r *ShipmentRepository) Create(ctx context.Context, s *domain.Shipment) error {
	_, err := r.shipments.InsertOne(ctx, s)
	return err
}

func (r *ShipmentRepository) CreateDetail(ctx context.Context, d *domain.ShipmentDetail) error {
	_, err := r.details.InsertOne(ctx, d)
	return err
}

func (r *ShipmentRepository) FindByID(ctx context.Context, id string) (*domain.Shipment, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ShipmentRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	return r.findOne(ctx, bson.M{"tracking_number": trackingNumber})
}

func (r *ShipmentRepository) findOne(ctx context.Context, filter bson.M) (*domain.Shipment, error) {
	var s domain.Shipment
	err := r.shipments.FindOne(ctx, filter).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ShipmentRepository) FindDetail(ctx context.Context, shipmentID string) (*domain.ShipmentDetail, error) {
	var d domain.ShipmentDetail
	err := r.details.FindOne(ctx, bson.M{"shipment_id": shipmentID}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShipmentNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *ShipmentRepository) UpdateDeliveryStatus(ctx context.Context, id string, status domain.DeliveryStatus) error {
	return r.update(ctx, id, bson.M{"delivery_status": status})
}

func (r *ShipmentRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	return r.update(ctx, id, bson.M{"payment_status": status})
}

func (r *ShipmentRepository) ConfirmPayment(ctx context.Context, id, trackingNumber string, status domain.PaymentStatus, qrCodeImage string) error {
	return r.update(ctx, id, bson.M{
		"tracking_number": trackingNumber,
		"delivery_status": domain.DeliveryReadyToPickup,
		"payment_status":  status,
		"qr_code_image":   qrCodeImage,
	})
}

func (r *ShipmentRepository) update(ctx context.Context, id string, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := r.shipments.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrShipmentNotFound
	}
	return nil
}

// SetPickupProof writes the pickup proof reference once; the filter keeps
// the first value when a retry carries a different path.
func (r *ShipmentRepository) SetPickupProof(ctx context.Context, shipmentID, imagePath string) error {
	return r.setProof(ctx, shipmentID, "pickup_proof", imagePath)
}

func (r *ShipmentRepository) SetDeliveryProof(ctx context.Context, shipmentID, imagePath string) error {
	return r.setProof(ctx, shipmentID, "delivery_proof", imagePath)
}

func (r *ShipmentRepository) setProof(ctx context.Context, shipmentID, field, imagePath string) error {
	filter := bson.M{
		"shipment_id": shipmentID,
		field:         bson.M{"$in": bson.A{nil, ""}},
	}
	_, err := r.details.UpdateOne(ctx, filter, bson.M{"$set": bson.M{field: imagePath}})
	return err
}

func (r *ShipmentRepository) ListForCourier(ctx context.Context) ([]*domain.Shipment, error) {
	filter := bson.M{
		"payment_status":  bson.M{"$in": []domain.PaymentStatus{domain.PaymentPaid, domain.PaymentSettled}},
		"delivery_status": bson.M{"$in": courierVisibleStatuses},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.shipments.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var shipments []*domain.Shipment
	if err := cursor.All(ctx, &shipments); err != nil {
		return nil, err
	}
	return shipments, nil
}

// EnsureIndexes creates the indexes the lifecycle queries rely on.
func (r *ShipmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := true
	sparse := true
	shipmentIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "tracking_number", Value: 1}},
			Options: &options.IndexOptions{
				Unique: &unique,
				Sparse: &sparse, // tracking_number is absent until paid
			},
		},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	if _, err := r.shipments.Indexes().CreateMany(ctx, shipmentIndexes); err != nil {
		return err
	}

	_, err := r.details.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "shipment_id", Value: 1}},
	})
	return err
}
