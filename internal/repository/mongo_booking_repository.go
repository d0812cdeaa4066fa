package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devicecare/repair-booking/internal/domain"
)

type mongoBookingRepository struct {
	coll *mongo.Collection
}

// NewMongoBookingRepository returns a BookingRepository over the bookings collection.
func NewMongoBookingRepository(db *mongo.Database) BookingRepository {
	return &mongoBookingRepository{coll: db.Collection(bookingsCollection)}
}

func (r *mongoBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, newBookingDocument(b))
	if err != nil {
		return translateMongoError(err)
	}
	b.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *mongoBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc bookingDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	return doc.toDomain(), nil
}

func (r *mongoBookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	oid, err := primitive.ObjectIDFromHex(b.ID)
	if err != nil {
		return ErrNotFound
	}
	now := time.Now().UTC()
	set := bson.M{
		"status":        string(b.Status),
		"paymentStatus": string(b.PaymentStatus),
		"updatedAt":     now,
	}
	if b.PaymentRef != nil {
		set["paymentRef"] = *b.PaymentRef
	}
	if b.PaidAt != nil {
		set["paidAt"] = *b.PaidAt
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	b.UpdatedAt = now
	return nil
}
