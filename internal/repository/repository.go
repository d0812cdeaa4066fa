package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/devicecare/repair-booking/pkg/util"
)

// ErrNotFound is returned when a lookup matches no record, including lookups
// by an identifier the backend cannot parse.
var ErrNotFound = apperrors.ErrRecordNotFound

// ErrDuplicate is returned when a unique constraint rejects an insert.
var ErrDuplicate = errors.New("duplicate record")

// Repositories bundles every store the services depend on.
type Repositories struct {
	Users       UserRepository
	Technicians TechnicianRepository
	Bookings    BookingRepository
	Catalog     CatalogRepository
}

// NewPostgresRepositories returns pgx-backed repositories sharing one pool.
func NewPostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:       NewUserRepository(pool),
		Technicians: NewTechnicianRepository(pool),
		Bookings:    NewBookingRepository(pool),
		Catalog:     NewCatalogRepository(pool),
	}
}

// NewMongoRepositories returns repositories over the given database.
func NewMongoRepositories(db *mongo.Database) Repositories {
	return Repositories{
		Users:       NewMongoUserRepository(db),
		Technicians: NewMongoTechnicianRepository(db),
		Bookings:    NewMongoBookingRepository(db),
		Catalog:     NewMongoCatalogRepository(db),
	}
}

// NewMemoryRepositories returns process-local repositories backed by one MemoryStore.
func NewMemoryRepositories() Repositories {
	store := NewMemoryStore()
	return Repositories{
		Users:       store.Users(),
		Technicians: store.Technicians(),
		Bookings:    store.Bookings(),
		Catalog:     store.Catalog(),
	}
}
