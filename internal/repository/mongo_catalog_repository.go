package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devicecare/repair-booking/internal/domain"
)

type mongoCatalogRepository struct {
	db *mongo.Database
}

// NewMongoCatalogRepository returns a CatalogRepository with one collection per kind.
func NewMongoCatalogRepository(db *mongo.Database) CatalogRepository {
	return &mongoCatalogRepository{db: db}
}

func (r *mongoCatalogRepository) collection(kind domain.CatalogKind) (*mongo.Collection, error) {
	name, ok := catalogCollections[kind]
	if !ok {
		return nil, fmt.Errorf("unknown catalog kind %q", kind)
	}
	return r.db.Collection(name), nil
}

func (r *mongoCatalogRepository) Create(ctx context.Context, item *domain.CatalogItem) error {
	coll, err := r.collection(item.Kind)
	if err != nil {
		return err
	}
	doc := catalogDocument{Name: item.Name, Image: item.Image}
	if item.BrandID != nil {
		oid, err := primitive.ObjectIDFromHex(*item.BrandID)
		if err != nil {
			return ErrNotFound
		}
		n, err := r.db.Collection(catalogCollections[domain.CatalogBrands]).CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return translateMongoError(err)
		}
		if n == 0 {
			return ErrNotFound
		}
		doc.BrandID = &oid
	}
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return translateMongoError(err)
	}
	item.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *mongoCatalogRepository) List(ctx context.Context, filter CatalogFilter) ([]domain.CatalogItem, error) {
	coll, err := r.collection(filter.Kind)
	if err != nil {
		return nil, err
	}
	query := bson.M{}
	if filter.BrandID != nil {
		oid, err := primitive.ObjectIDFromHex(*filter.BrandID)
		if err != nil {
			return []domain.CatalogItem{}, nil
		}
		query["brandId"] = oid
	}
	cur, err := coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	result := []domain.CatalogItem{}
	for cur.Next(ctx) {
		var doc catalogDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toDomain(filter.Kind))
	}
	return result, cur.Err()
}
