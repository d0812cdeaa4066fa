package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devicecare/repair-booking/internal/domain"
)

type mongoTechnicianRepository struct {
	coll *mongo.Collection
}

// NewMongoTechnicianRepository returns a TechnicianRepository over the technicians collection.
func NewMongoTechnicianRepository(db *mongo.Database) TechnicianRepository {
	return &mongoTechnicianRepository{coll: db.Collection(techniciansCollection)}
}

func (r *mongoTechnicianRepository) Create(ctx context.Context, tech *domain.Technician) error {
	userID, err := primitive.ObjectIDFromHex(tech.UserID)
	if err != nil {
		return ErrNotFound
	}
	slots := tech.AvailableSlots
	if slots == nil {
		slots = []string{}
	}
	now := time.Now().UTC()
	res, err := r.coll.InsertOne(ctx, technicianDocument{
		UserID:         userID,
		Location:       tech.Location,
		AvailableSlots: slots,
		ServiceFee:     tech.ServiceFee,
		CreatedAt:      now,
	})
	if err != nil {
		return translateMongoError(err)
	}
	tech.ID = res.InsertedID.(primitive.ObjectID).Hex()
	tech.CreatedAt = now
	return nil
}

func (r *mongoTechnicianRepository) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	return r.findByObjectID(ctx, "_id", id)
}

func (r *mongoTechnicianRepository) GetByUserID(ctx context.Context, userID string) (*domain.Technician, error) {
	return r.findByObjectID(ctx, "userId", userID)
}

func (r *mongoTechnicianRepository) findByObjectID(ctx context.Context, field, hex string) (*domain.Technician, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc technicianDocument
	if err := r.coll.FindOne(ctx, bson.M{field: oid}).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	tech := doc.toDomain()
	return &tech, nil
}

func (r *mongoTechnicianRepository) ListByLocation(ctx context.Context, location string, limit int) ([]domain.Technician, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"location": location}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var result []domain.Technician
	for cur.Next(ctx) {
		var doc technicianDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toDomain())
	}
	return result, cur.Err()
}
