package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devicecare/repair-booking/internal/domain"
)

// MemoryStore keeps every collection in process memory. It backs
// STORE_DRIVER=memory and the service tests.
type MemoryStore struct {
	mu          sync.RWMutex
	seq         int64
	users       map[string]domain.User
	technicians map[string]memTechnician
	bookings    map[string]domain.Booking
	catalog     map[string]domain.CatalogItem
}

type memTechnician struct {
	tech domain.Technician
	seq  int64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]domain.User),
		technicians: make(map[string]memTechnician),
		bookings:    make(map[string]domain.Booking),
		catalog:     make(map[string]domain.CatalogItem),
	}
}

// Users returns the store's UserRepository view.
func (s *MemoryStore) Users() UserRepository { return memUsers{s} }

// Technicians returns the store's TechnicianRepository view.
func (s *MemoryStore) Technicians() TechnicianRepository { return memTechnicians{s} }

// Bookings returns the store's BookingRepository view.
func (s *MemoryStore) Bookings() BookingRepository { return memBookings{s} }

// Catalog returns the store's CatalogRepository view.
func (s *MemoryStore) Catalog() CatalogRepository { return memCatalog{s} }

// BookingCount reports how many bookings are stored.
func (s *MemoryStore) BookingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

type memUsers struct{ s *MemoryStore }

func (r memUsers) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r memUsers) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, u := range r.s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type memTechnicians struct{ s *MemoryStore }

func (r memTechnicians) Create(_ context.Context, tech *domain.Technician) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[tech.UserID]; !ok {
		return ErrNotFound
	}
	r.s.seq++
	tech.ID = uuid.NewString()
	tech.CreatedAt = time.Now().UTC()
	stored := *tech
	stored.AvailableSlots = append([]string(nil), tech.AvailableSlots...)
	r.s.technicians[tech.ID] = memTechnician{tech: stored, seq: r.s.seq}
	return nil
}

func (r memTechnicians) GetByID(_ context.Context, id string) (*domain.Technician, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.technicians[id]
	if !ok {
		return nil, ErrNotFound
	}
	tech := t.tech
	return &tech, nil
}

func (r memTechnicians) GetByUserID(_ context.Context, userID string) (*domain.Technician, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.technicians {
		if t.tech.UserID == userID {
			tech := t.tech
			return &tech, nil
		}
	}
	return nil, ErrNotFound
}

func (r memTechnicians) ListByLocation(_ context.Context, location string, limit int) ([]domain.Technician, error) {
	if limit <= 0 {
		limit = 50
	}
	r.s.mu.RLock()
	matches := make([]memTechnician, 0)
	for _, t := range r.s.technicians {
		if t.tech.Location == location {
			matches = append(matches, t)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].seq < matches[j].seq })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	result := make([]domain.Technician, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.tech)
	}
	return result, nil
}

type memBookings struct{ s *MemoryStore }

func (r memBookings) Create(_ context.Context, b *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now
	r.s.bookings[b.ID] = *b
	return nil
}

func (r memBookings) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r memBookings) Update(_ context.Context, b *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bookings[b.ID]; !ok {
		return ErrNotFound
	}
	b.UpdatedAt = time.Now().UTC()
	r.s.bookings[b.ID] = *b
	return nil
}

type memCatalog struct{ s *MemoryStore }

func (r memCatalog) Create(_ context.Context, item *domain.CatalogItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item.BrandID != nil {
		brand, ok := r.s.catalog[*item.BrandID]
		if !ok || brand.Kind != domain.CatalogBrands {
			return ErrNotFound
		}
	}
	item.ID = uuid.NewString()
	r.s.catalog[item.ID] = *item
	return nil
}

func (r memCatalog) List(_ context.Context, filter CatalogFilter) ([]domain.CatalogItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.CatalogItem{}
	for _, item := range r.s.catalog {
		if item.Kind != filter.Kind {
			continue
		}
		if filter.BrandID != nil && (item.BrandID == nil || *item.BrandID != *filter.BrandID) {
			continue
		}
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
