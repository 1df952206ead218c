package venues

import (
	"context"
	"sync"
	"testing"

	"parkly/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVenueRepository mirrors the capacity semantics of the SQL
// repository, including the reserved-spot guard on capacity changes.
type fakeVenueRepository struct {
	mu                 sync.Mutex
	venues             map[uuid.UUID]*Venue
	activeReservations map[uuid.UUID]bool
}

func newFakeVenueRepository() *fakeVenueRepository {
	return &fakeVenueRepository{
		venues:             make(map[uuid.UUID]*Venue),
		activeReservations: make(map[uuid.UUID]bool),
	}
}

func (f *fakeVenueRepository) Create(ctx context.Context, venue *Venue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if venue.ID == uuid.Nil {
		venue.ID = uuid.New()
	}
	stored := *venue
	f.venues[venue.ID] = &stored
	return nil
}

func (f *fakeVenueRepository) GetByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.venues[id]
	if !ok {
		return nil, ErrVenueNotFound
	}
	copied := *v
	return &copied, nil
}

func (f *fakeVenueRepository) GetVenues(ctx context.Context, filters VenueFilters) (*PaginatedVenues, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := &PaginatedVenues{Page: 1, Limit: len(f.venues)}
	for _, v := range f.venues {
		result.Venues = append(result.Venues, *v)
	}
	result.TotalCount = int64(len(result.Venues))
	result.TotalPages = 1
	return result, nil
}

func (f *fakeVenueRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Venue
	for _, v := range f.venues {
		if v.OwnerID == ownerID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVenueRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.venues[id]
	if !ok {
		return ErrVenueNotFound
	}
	if name, ok := updates["name"].(string); ok {
		v.Name = name
	}
	if price, ok := updates["price_per_hour"].(float64); ok {
		v.PricePerHour = price
	}
	if status, ok := updates["status"].(Status); ok {
		v.Status = status
	}
	if statusStr, ok := updates["status"].(string); ok {
		v.Status = Status(statusStr)
	}
	return nil
}

func (f *fakeVenueRepository) UpdateCapacity(ctx context.Context, id uuid.UUID, newTotalSpots int) (*Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.venues[id]
	if !ok {
		return nil, ErrVenueNotFound
	}

	reserved := v.TotalSpots - v.AvailableSpots
	if newTotalSpots < reserved {
		return nil, ErrInvalidCapacityChange
	}

	delta := newTotalSpots - v.TotalSpots
	v.TotalSpots = newTotalSpots
	v.AvailableSpots += delta

	copied := *v
	return &copied, nil
}

func (f *fakeVenueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.venues[id]; !ok {
		return ErrVenueNotFound
	}
	delete(f.venues, id)
	return nil
}

func (f *fakeVenueRepository) HasActiveReservations(ctx context.Context, venueID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeReservations[venueID], nil
}

func createRequest() CreateVenueRequest {
	return CreateVenueRequest{
		Name:         "Downtown Central Garage",
		Description:  "Covered garage near the financial district",
		Address:      "420 Market St",
		City:         "San Francisco",
		State:        "CA",
		ZipCode:      "94111",
		TotalSpots:   100,
		PricePerHour: 8.5,
		Amenities:    []string{AmenitySecurity, AmenityCovered},
	}
}

func TestRegisterVenue_StartsFullyAvailable(t *testing.T) {
	repo := newFakeVenueRepository()
	svc := NewService(repo)
	ownerID := uuid.New()

	resp, err := svc.RegisterVenue(context.Background(), ownerID, createRequest())
	require.NoError(t, err)

	assert.Equal(t, 100, resp.TotalSpots)
	assert.Equal(t, 100, resp.AvailableSpots)
	assert.Equal(t, 0, resp.ReservedSpots)
	assert.Equal(t, string(StatusActive), resp.Status)
	assert.Equal(t, ownerID.String(), resp.OwnerID)
}

func TestRegisterVenue_DefaultOperatingHours(t *testing.T) {
	repo := newFakeVenueRepository()
	svc := NewService(repo)

	resp, err := svc.RegisterVenue(context.Background(), uuid.New(), createRequest())
	require.NoError(t, err)
	assert.Equal(t, "00:00", resp.OperatingHours.Open)
	assert.Equal(t, "23:59", resp.OperatingHours.Close)
}

func TestRegisterVenue_RejectsUnknownAmenity(t *testing.T) {
	repo := newFakeVenueRepository()
	svc := NewService(repo)

	req := createRequest()
	req.Amenities = []string{"helipad"}
	_, err := svc.RegisterVenue(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, ErrInvalidAmenity)
}

func TestUpdateVenue_CapacityGuard(t *testing.T) {
	repo := newFakeVenueRepository()
	svc := NewService(repo)
	ownerID := uuid.New()
	role := string(users.RoleVenueOwner)

	created, err := svc.RegisterVenue(context.Background(), ownerID, createRequest())
	require.NoError(t, err)
	venueID := uuid.MustParse(created.ID)

	// Simulate 40 spots reserved
	repo.mu.Lock()
	repo.venues[venueID].AvailableSpots = 60
	repo.mu.Unlock()

	// Shrinking below the reserved count is rejected
	tooSmall := 30
	_, err = svc.UpdateVenue(context.Background(), venueID, ownerID, role, UpdateVenueRequest{TotalSpots: &tooSmall})
	assert.ErrorIs(t, err, ErrInvalidCapacityChange)

	// Shrinking to exactly the reserved count is allowed and leaves
	// zero availability
	exact := 40
	resp, err := svc.UpdateVenue(context.Background(), venueID, ownerID, role, UpdateVenueRequest{TotalSpots: &exact})
	require.NoError(t, err)
	assert.Equal(t, 40, resp.TotalSpots)
	assert.Equal(t, 0, resp.AvailableSpots)

	// Growing adds the delta to availability
	bigger := 50
	resp, err = svc.UpdateVenue(context.Background(), venueID, ownerID, role, UpdateVenueRequest{TotalSpots: &bigger})
	require.NoError(t, err)
	assert.Equal(t, 50, resp.TotalSpots)
	assert.Equal(t, 10, resp.AvailableSpots)
}

func TestUpdateVenue_OwnershipEnforced(t *testing.T) {
	repo := newFakeVenueRepository()
	svc := NewService(repo)
	ownerID := uuid.New()

	created, err := svc.RegisterVenue(context.Background(), ownerID, createRequest())
	require.NoError(t, err)
	venueID := uuid.MustParse(created.ID)

	name := "Hijacked Garage"
	_, err = svc.UpdateVenue(context.Background(), venueID, uuid.New(), string(users.RoleVenueOwner), UpdateVenueRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotVenueOwner)

	// Super admins manage any venue
	resp, err := svc.UpdateVenue(context.Background(), venueID, uuid.New(), string(users.RoleSuperAdmin), UpdateVenueRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Hijacked Garage", resp.Name)
}

func TestDeleteVenue_BlockedByActiveReservations(t *testing.T) {
	repo := newFakeVenueRepository()
	svc := NewService(repo)
	ownerID := uuid.New()
	role := string(users.RoleVenueOwner)

	created, err := svc.RegisterVenue(context.Background(), ownerID, createRequest())
	require.NoError(t, err)
	venueID := uuid.MustParse(created.ID)

	repo.mu.Lock()
	repo.activeReservations[venueID] = true
	repo.mu.Unlock()

	err = svc.DeleteVenue(context.Background(), venueID, ownerID, role)
	assert.ErrorIs(t, err, ErrVenueHasReservations)

	repo.mu.Lock()
	repo.activeReservations[venueID] = false
	repo.mu.Unlock()

	err = svc.DeleteVenue(context.Background(), venueID, ownerID, role)
	require.NoError(t, err)

	_, err = svc.GetVenueByID(context.Background(), venueID)
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestReservedSpots(t *testing.T) {
	venue := &Venue{TotalSpots: 10, AvailableSpots: 3}
	assert.Equal(t, 7, venue.ReservedSpots())
}
