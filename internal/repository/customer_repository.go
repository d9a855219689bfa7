package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CustomerRepository defines persistence access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Customer, error)
}

type customerRepository struct {
	coll *mongo.Collection
}

// NewCustomerRepository returns a MongoDB-backed implementation.
func NewCustomerRepository(db *mongo.Database) CustomerRepository {
	return &customerRepository{coll: db.Collection(CustomersCollection)}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	res, err := r.coll.InsertOne(ctx, customer)
	if err != nil {
		return translateError(err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	customer.ID = id
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&customer); err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}
