package catalog

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/palrajin0126/ecom/apperrors"
	"github.com/palrajin0126/ecom/models"
)

// Store reads products and user profiles from the document database.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) products() *mongo.Collection { return s.db.Collection("products") }
func (s *Store) users() *mongo.Collection    { return s.db.Collection("users") }

// FetchProduct looks up one product by its hex object id.
func (s *Store) FetchProduct(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, err)
	}

	var product models.Product
	err = s.products().FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return &product, nil
}

// ListProducts returns the catalog, optionally filtered by category.
func (s *Store) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	cursor, err := s.products().Find(ctx, filter)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, apperrors.Storage(err)
	}
	return products, nil
}

// SearchProducts matches the query case-insensitively against product
// name, brand and category.
func (s *Store) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"productName": pattern},
		bson.M{"brand": pattern},
		bson.M{"category": pattern},
	}}

	cursor, err := s.products().Find(ctx, filter)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, apperrors.Storage(err)
	}
	return products, nil
}

// FetchUser returns the profile stored under the identity provider's uid.
func (s *Store) FetchUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return &user, nil
}
