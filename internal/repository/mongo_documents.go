package repository

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devicecare/repair-booking/internal/domain"
)

// Collection names match the existing Mongo deployment. The database itself
// comes from MONGO_DATABASE or, when unset, the connection URI.
const (
	usersCollection       = "users"
	techniciansCollection = "technicians"
	bookingsCollection    = "bookings"
)

var catalogCollections = map[domain.CatalogKind]string{
	domain.CatalogProblems:    "problems",
	domain.CatalogDeviceTypes: "devicetypes",
	domain.CatalogBrands:      "brands",
	domain.CatalogModels:      "models",
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty"`
}

func (d userDocument) toDomain() *domain.User {
	role := domain.Role(d.Role)
	if role == "" {
		role = domain.RoleUser
	}
	return &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type technicianDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         primitive.ObjectID `bson:"userId"`
	Location       string             `bson:"location"`
	AvailableSlots []string           `bson:"availableSlots"`
	ServiceFee     float64            `bson:"serviceFee"`
	CreatedAt      time.Time          `bson:"createdAt,omitempty"`
}

func (d technicianDocument) toDomain() domain.Technician {
	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = d.ID.Timestamp()
	}
	return domain.Technician{
		ID:             d.ID.Hex(),
		UserID:         d.UserID.Hex(),
		Location:       d.Location,
		AvailableSlots: d.AvailableSlots,
		ServiceFee:     d.ServiceFee,
		CreatedAt:      createdAt,
	}
}

type bookingDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        string             `bson:"userId"`
	Problem       string             `bson:"problem"`
	DeviceType    string             `bson:"deviceType"`
	Brand         string             `bson:"brand"`
	Model         string             `bson:"model"`
	TechnicianID  string             `bson:"technicianId"`
	TimeSlot      string             `bson:"timeSlot"`
	Status        string             `bson:"status"`
	PaymentStatus string             `bson:"paymentStatus"`
	PaymentRef    *string            `bson:"paymentRef,omitempty"`
	PaidAt        *time.Time         `bson:"paidAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt,omitempty"`
	UpdatedAt     time.Time          `bson:"updatedAt,omitempty"`
}

func newBookingDocument(b *domain.Booking) bookingDocument {
	return bookingDocument{
		UserID:        b.RequesterID,
		Problem:       b.Problem,
		DeviceType:    b.DeviceType,
		Brand:         b.Brand,
		Model:         b.Model,
		TechnicianID:  b.TechnicianID,
		TimeSlot:      b.TimeSlot,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		PaymentRef:    b.PaymentRef,
		PaidAt:        b.PaidAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (d bookingDocument) toDomain() *domain.Booking {
	status := domain.BookingStatus(d.Status)
	if status == "" {
		status = domain.BookingStatusPending
	}
	payment := domain.PaymentStatus(d.PaymentStatus)
	if payment == "" {
		payment = domain.PaymentStatusUnpaid
	}
	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = d.ID.Timestamp()
	}
	return &domain.Booking{
		ID:            d.ID.Hex(),
		RequesterID:   d.UserID,
		Problem:       d.Problem,
		DeviceType:    d.DeviceType,
		Brand:         d.Brand,
		Model:         d.Model,
		TechnicianID:  d.TechnicianID,
		TimeSlot:      d.TimeSlot,
		Status:        status,
		PaymentStatus: payment,
		PaymentRef:    d.PaymentRef,
		PaidAt:        d.PaidAt,
		CreatedAt:     createdAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type catalogDocument struct {
	ID      primitive.ObjectID  `bson:"_id,omitempty"`
	Name    string              `bson:"name"`
	Image   string              `bson:"image,omitempty"`
	BrandID *primitive.ObjectID `bson:"brandId,omitempty"`
}

func (d catalogDocument) toDomain(kind domain.CatalogKind) domain.CatalogItem {
	item := domain.CatalogItem{ID: d.ID.Hex(), Kind: kind, Name: d.Name, Image: d.Image}
	if d.BrandID != nil {
		hex := d.BrandID.Hex()
		item.BrandID = &hex
	}
	return item
}

// translateMongoError maps driver errors onto the repository sentinels.
func translateMongoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}
