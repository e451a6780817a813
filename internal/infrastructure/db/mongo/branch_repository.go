package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kirimaja/shipment-system/internal/core/domain"
)

const (
	collectionBranches         = "branches"
	collectionEmployeeBranches = "employee_branches"
)

// BranchRepository resolves branches and employee-to-branch assignments.
type BranchRepository struct {
	branches  *mongo.Collection
	employees *mongo.Collection
}

func NewBranchRepository(db *mongo.Database) *BranchRepository {
	return &BranchRepository{
		branches:  db.Collection(collectionBranches),
		employees: db.Collection(collectionEmployeeBranches),
	}
}

func (r *BranchRepository) FindByID(ctx context.Context, id string) (*domain.Branch, error) {
	var b domain.Branch
	err := r.branches.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBranchNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BranchRepository) FindEmployeeBranch(ctx context.Context, userID string) (*domain.EmployeeBranch, error) {
	var eb domain.EmployeeBranch
	err := r.employees.FindOne(ctx, bson.M{"user_id": userID}).Decode(&eb)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBranchNotFound
		}
		return nil, err
	}
	return &eb, nil
}
