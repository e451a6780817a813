package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kirimaja/shipment-system/internal/core/domain"
)

const collectionBranchLogs = "shipment_branch_logs"

type BranchLogRepository struct {
	col *mongo.Collection
}

func NewBranchLogRepository(db *mongo.Database) *BranchLogRepository {
	return &BranchLogRepository{col: db.Collection(collectionBranchLogs)}
}

func (r *BranchLogRepository) Append(ctx context.Context, l *domain.ShipmentBranchLog) error {
	if l.ID == "" {
		l.ID = primitive.NewObjectID().Hex()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, l)
	return err
}

// LastInScan returns the most recent IN scan for the tracking number at the
// given branch. Absence means the OUT precondition fails.
func (r *BranchLogRepository) LastInScan(ctx context.Context, trackingNumber, branchID string) (*domain.ShipmentBranchLog, error) {
	filter := bson.M{
		"tracking_number": trackingNumber,
		"branch_id":       branchID,
		"type":            domain.ScanIn,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var l domain.ShipmentBranchLog
	err := r.col.FindOne(ctx, filter, opts).Decode(&l)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoInboundScan
		}
		return nil, err
	}
	return &l, nil
}

func (r *BranchLogRepository) ListByBranch(ctx context.Context, branchID string) ([]*domain.ShipmentBranchLog, error) {
	return r.list(ctx, bson.M{"branch_id": branchID})
}

func (r *BranchLogRepository) ListAll(ctx context.Context) ([]*domain.ShipmentBranchLog, error) {
	return r.list(ctx, bson.M{})
}

func (r *BranchLogRepository) list(ctx context.Context, filter bson.M) ([]*domain.ShipmentBranchLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []*domain.ShipmentBranchLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *BranchLogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "tracking_number", Value: 1},
			{Key: "branch_id", Value: 1},
			{Key: "type", Value: 1},
			{Key: "created_at", Value: -1},
		}},
		{Keys: bson.D{{Key: "branch_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}
