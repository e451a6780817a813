package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kirimaja/shipment-system/internal/core/domain"
)

const collectionUserAddresses = "user_addresses"

type AddressRepository struct {
	col *mongo.Collection
}

func NewAddressRepository(db *mongo.Database) *AddressRepository {
	return &AddressRepository{col: db.Collection(collectionUserAddresses)}
}

func (r *AddressRepository) FindByID(ctx context.Context, id string) (*domain.UserAddress, error) {
	var a domain.UserAddress
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAddressNotFound
		}
		return nil, err
	}
	return &a, nil
}
