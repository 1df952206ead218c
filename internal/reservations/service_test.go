package reservations

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"parkly/internal/shared/config"
	"parkly/internal/users"
	"parkly/internal/venues"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository keeps reservations in memory and mirrors the capacity
// semantics of the real transactional repository.
type fakeRepository struct {
	mu           sync.Mutex
	totalSpots   map[uuid.UUID]int
	available    map[uuid.UUID]int
	reservations map[uuid.UUID]*Reservation

	// createErrs are popped one per CreateReservationWithCapacityCheck
	// call before normal processing resumes.
	createErrs []error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		totalSpots:   make(map[uuid.UUID]int),
		available:    make(map[uuid.UUID]int),
		reservations: make(map[uuid.UUID]*Reservation),
	}
}

func (f *fakeRepository) addVenue(venueID uuid.UUID, totalSpots int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totalSpots[venueID] = totalSpots
	f.available[venueID] = totalSpots
}

func (f *fakeRepository) countOverlappingLocked(venueID uuid.UUID, start, end time.Time) int64 {
	var count int64
	for _, r := range f.reservations {
		if r.VenueID != venueID {
			continue
		}
		occupying := r.Status == StatusPending || r.Status == StatusConfirmed || r.Status == StatusActive
		if occupying && r.Overlaps(start, end) {
			count++
		}
	}
	return count
}

func (f *fakeRepository) CreateReservationWithCapacityCheck(ctx context.Context, reservation *Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}

	total, ok := f.totalSpots[reservation.VenueID]
	if !ok {
		return ErrVenueNotFound
	}

	if f.countOverlappingLocked(reservation.VenueID, reservation.StartTime, reservation.EndTime) >= int64(total) {
		return ErrCapacityExceeded
	}

	if f.available[reservation.VenueID] > 0 {
		f.available[reservation.VenueID]--
		reservation.SpotClaimed = true
	}

	if reservation.ID == uuid.Nil {
		reservation.ID = uuid.New()
	}
	stored := *reservation
	f.reservations[reservation.ID] = &stored
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRepository) GetUserReservations(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Reservation, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Reservation
	for _, r := range f.reservations {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepository) GetVenueReservations(ctx context.Context, venueID uuid.UUID, query ListQuery) ([]Reservation, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Reservation
	for _, r := range f.reservations {
		if r.VenueID == venueID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepository) CountOverlapping(ctx context.Context, venueID uuid.UUID, start, end time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countOverlappingLocked(venueID, start, end), nil
}

func (f *fakeRepository) ConfirmPayment(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	if r.Status == StatusConfirmed && r.PaymentStatus == PaymentPaid {
		copied := *r
		return &copied, nil
	}
	if !r.Status.CanTransitionTo(StatusConfirmed) {
		return nil, fmt.Errorf("%w: cannot confirm from %s", ErrInvalidTransition, r.Status)
	}
	now := time.Now()
	r.Status = StatusConfirmed
	r.PaymentStatus = PaymentPaid
	r.ConfirmedAt = &now
	copied := *r
	return &copied, nil
}

func (f *fakeRepository) Activate(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	if r.Status != StatusConfirmed {
		return nil, fmt.Errorf("%w: cannot activate from %s", ErrInvalidTransition, r.Status)
	}
	r.Status = StatusActive
	copied := *r
	return &copied, nil
}

func (f *fakeRepository) releaseLocked(r *Reservation) *TransitionResult {
	result := &TransitionResult{Reservation: r}
	if r.SpotClaimed && f.available[r.VenueID] < f.totalSpots[r.VenueID] {
		f.available[r.VenueID]++
		result.CapacityRestored = true
	}
	r.SpotClaimed = false
	result.AvailableAfter = f.available[r.VenueID]
	copied := *r
	result.Reservation = &copied
	return result
}

func (f *fakeRepository) Complete(ctx context.Context, id uuid.UUID) (*TransitionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	if r.Status != StatusActive {
		return nil, fmt.Errorf("%w: cannot complete from %s", ErrInvalidTransition, r.Status)
	}
	r.Status = StatusCompleted
	return f.releaseLocked(r), nil
}

func (f *fakeRepository) Cancel(ctx context.Context, id uuid.UUID) (*TransitionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	if r.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: reservation is already %s", ErrInvalidTransition, r.Status)
	}
	now := time.Now()
	r.Status = StatusCancelled
	r.CancelledAt = &now
	if r.PaymentStatus == PaymentPaid {
		r.PaymentStatus = PaymentRefunded
	}
	return f.releaseLocked(r), nil
}

type fakeVenueService struct {
	venues map[uuid.UUID]*venues.VenueResponse
}

func (f *fakeVenueService) GetVenueByID(ctx context.Context, id uuid.UUID) (*venues.VenueResponse, error) {
	v, ok := f.venues[id]
	if !ok {
		return nil, venues.ErrVenueNotFound
	}
	return v, nil
}

type spotAvailableCall struct {
	venueID        uuid.UUID
	availableSpots int
}

type fakeNotifier struct {
	mu             sync.Mutex
	spotAvailable  []spotAvailableCall
	confirmedCount int
	cancelledCount int
}

func (f *fakeNotifier) NotifySpotAvailable(ctx context.Context, venueID uuid.UUID, venueName string, availableSpots int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spotAvailable = append(f.spotAvailable, spotAvailableCall{venueID: venueID, availableSpots: availableSpots})
}

func (f *fakeNotifier) NotifyReservationConfirmed(ctx context.Context, reservation *Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmedCount++
}

func (f *fakeNotifier) NotifyReservationCancelled(ctx context.Context, reservation *Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelledCount++
}

func (f *fakeNotifier) spotAvailableCalls() []spotAvailableCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]spotAvailableCall, len(f.spotAvailable))
	copy(out, f.spotAvailable)
	return out
}

func (f *fakeNotifier) counts() (confirmed, cancelled int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.confirmedCount, f.cancelledCount
}

func testConfig() *config.Config {
	return &config.Config{
		Reservation: config.ReservationConfig{
			GracePeriod: 15 * time.Minute,
			MaxDuration: 7 * 24 * time.Hour,
		},
	}
}

type fixture struct {
	repo     *fakeRepository
	notifier *fakeNotifier
	service  Service
	venueID  uuid.UUID
	userID   uuid.UUID
}

func newFixture(t *testing.T, totalSpots int) *fixture {
	t.Helper()

	repo := newFakeRepository()
	venueID := uuid.New()
	repo.addVenue(venueID, totalSpots)

	venueService := &fakeVenueService{
		venues: map[uuid.UUID]*venues.VenueResponse{
			venueID: {
				ID:           venueID.String(),
				Name:         "Downtown Central Garage",
				Status:       string(venues.StatusActive),
				TotalSpots:   totalSpots,
				PricePerHour: 8.5,
			},
		},
	}

	notifier := &fakeNotifier{}
	svc := NewService(repo, venueService, testConfig())
	svc.SetNotifier(notifier)

	return &fixture{
		repo:     repo,
		notifier: notifier,
		service:  svc,
		venueID:  venueID,
		userID:   uuid.New(),
	}
}

func (fx *fixture) createRequest(start, end time.Time) CreateReservationRequest {
	return CreateReservationRequest{
		VenueID:   fx.venueID.String(),
		StartTime: start,
		EndTime:   end,
		Vehicle: &VehicleRequest{
			Type:         "CAR",
			LicensePlate: "7abc123",
		},
	}
}

func TestCreateReservation_Success(t *testing.T) {
	fx := newFixture(t, 10)
	start := time.Now().UTC().Add(time.Hour)

	resp, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(start, start.Add(2*time.Hour)))
	require.NoError(t, err)

	assert.Equal(t, string(StatusPending), resp.Status)
	assert.Equal(t, string(PaymentPending), resp.PaymentStatus)
	assert.Equal(t, 17.0, resp.TotalAmount)
	assert.Equal(t, "7ABC123", resp.Vehicle.LicensePlate)
	assert.Contains(t, resp.ReservationRef, "PRK-")
}

func TestCreateReservation_VehicleRequired(t *testing.T) {
	fx := newFixture(t, 10)
	start := time.Now().UTC().Add(time.Hour)

	req := fx.createRequest(start, start.Add(time.Hour))
	req.Vehicle = nil
	_, err := fx.service.CreateReservation(context.Background(), fx.userID, req)
	assert.ErrorIs(t, err, ErrVehicleRequired)

	req = fx.createRequest(start, start.Add(time.Hour))
	req.Vehicle.Type = "BICYCLE"
	_, err = fx.service.CreateReservation(context.Background(), fx.userID, req)
	assert.ErrorIs(t, err, ErrVehicleRequired)
}

func TestCreateReservation_IntervalValidation(t *testing.T) {
	fx := newFixture(t, 10)
	now := time.Now().UTC()

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"start equals end", now.Add(time.Hour), now.Add(time.Hour)},
		{"start after end", now.Add(2 * time.Hour), now.Add(time.Hour)},
		{"start too far in the past", now.Add(-time.Hour), now.Add(time.Hour)},
		{"duration exceeds maximum", now.Add(time.Hour), now.Add(8 * 24 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(tt.start, tt.end))
			assert.ErrorIs(t, err, ErrInvalidInterval)
		})
	}
}

func TestCreateReservation_WithinGracePeriod(t *testing.T) {
	fx := newFixture(t, 10)
	// Slightly in the past but inside the grace period
	start := time.Now().UTC().Add(-5 * time.Minute)

	_, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(start, start.Add(2*time.Hour)))
	assert.NoError(t, err)
}

// A venue with a single spot: A holds [10:00, 12:00), B overlapping at
// [11:00, 13:00) must be rejected, C back-to-back at [12:00, 14:00)
// must succeed.
func TestCreateReservation_SingleSpotBoundary(t *testing.T) {
	fx := newFixture(t, 1)
	base := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)

	_, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(base, base.Add(2*time.Hour)))
	require.NoError(t, err)

	_, err = fx.service.CreateReservation(context.Background(), uuid.New(), fx.createRequest(base.Add(time.Hour), base.Add(3*time.Hour)))
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = fx.service.CreateReservation(context.Background(), uuid.New(), fx.createRequest(base.Add(2*time.Hour), base.Add(4*time.Hour)))
	assert.NoError(t, err)
}

func TestCreateReservation_ConcurrentSingleWinner(t *testing.T) {
	fx := newFixture(t, 1)
	base := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)

	const drivers = 8
	var wg sync.WaitGroup
	errs := make([]error, drivers)

	for i := 0; i < drivers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.service.CreateReservation(context.Background(), uuid.New(), fx.createRequest(base, base.Add(2*time.Hour)))
		}(i)
	}
	wg.Wait()

	var winners, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrCapacityExceeded):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, winners)
	assert.Equal(t, drivers-1, rejected)
}

func TestCreateReservation_CancelledDoesNotOccupy(t *testing.T) {
	fx := newFixture(t, 1)
	base := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)

	first, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(base, base.Add(2*time.Hour)))
	require.NoError(t, err)

	firstID := uuid.MustParse(first.ID)
	_, err = fx.service.Cancel(context.Background(), firstID, fx.userID, string(users.RoleUser))
	require.NoError(t, err)

	// Same window is bookable again
	_, err = fx.service.CreateReservation(context.Background(), uuid.New(), fx.createRequest(base, base.Add(2*time.Hour)))
	assert.NoError(t, err)
}

func TestCreateReservation_RetriesSerializationConflictOnce(t *testing.T) {
	fx := newFixture(t, 10)
	start := time.Now().UTC().Add(time.Hour)

	fx.repo.createErrs = []error{&pgconn.PgError{Code: "40001", Message: "could not serialize access due to concurrent update"}}
	_, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(start, start.Add(time.Hour)))
	assert.NoError(t, err, "one serialization failure should be retried transparently")

	fx.repo.createErrs = []error{
		&pgconn.PgError{Code: "40001", Message: "could not serialize access due to concurrent update"},
		&pgconn.PgError{Code: "40P01", Message: "deadlock detected"},
	}
	_, err = fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(start.Add(2*time.Hour), start.Add(3*time.Hour)))
	assert.ErrorIs(t, err, ErrTransactionConflict)
}

func TestCheckAvailability(t *testing.T) {
	fx := newFixture(t, 2)
	base := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)

	_, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(base, base.Add(2*time.Hour)))
	require.NoError(t, err)

	resp, err := fx.service.CheckAvailability(context.Background(), fx.venueID, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalSpots)
	assert.Equal(t, int64(1), resp.OverlapCount)
	assert.Equal(t, 1, resp.AvailableSpots)
	assert.True(t, resp.Available)

	_, err = fx.service.CreateReservation(context.Background(), uuid.New(), fx.createRequest(base, base.Add(2*time.Hour)))
	require.NoError(t, err)

	resp, err = fx.service.CheckAvailability(context.Background(), fx.venueID, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.AvailableSpots)
	assert.False(t, resp.Available)

	// The adjacent window is unaffected
	resp, err = fx.service.CheckAvailability(context.Background(), fx.venueID, base.Add(2*time.Hour), base.Add(4*time.Hour))
	require.NoError(t, err)
	assert.True(t, resp.Available)
}

func TestConfirmPayment_Idempotent(t *testing.T) {
	fx := newFixture(t, 10)
	start := time.Now().UTC().Add(time.Hour)

	created, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(start, start.Add(time.Hour)))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	first, err := fx.service.ConfirmPayment(context.Background(), id, fx.userID, string(users.RoleUser))
	require.NoError(t, err)
	assert.Equal(t, string(StatusConfirmed), first.Status)
	assert.Equal(t, string(PaymentPaid), first.PaymentStatus)
	require.NotNil(t, first.ConfirmedAt)

	second, err := fx.service.ConfirmPayment(context.Background(), id, fx.userID, string(users.RoleUser))
	require.NoError(t, err, "confirming an already confirmed reservation must succeed")
	assert.Equal(t, string(StatusConfirmed), second.Status)
	assert.Equal(t, first.ConfirmedAt.Unix(), second.ConfirmedAt.Unix())

	// Only the first confirmation produces a notification
	require.Eventually(t, func() bool {
		confirmed, _ := fx.notifier.counts()
		return confirmed == 1
	}, time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	confirmed, _ := fx.notifier.counts()
	assert.Equal(t, 1, confirmed)
}

func TestLifecycle_FullHappyPath(t *testing.T) {
	fx := newFixture(t, 10)
	// Starts inside the check-in window
	start := time.Now().UTC().Add(10 * time.Minute)

	created, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(start, start.Add(2*time.Hour)))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)
	role := string(users.RoleUser)

	_, err = fx.service.ConfirmPayment(context.Background(), id, fx.userID, role)
	require.NoError(t, err)

	activated, err := fx.service.Activate(context.Background(), id, fx.userID, role)
	require.NoError(t, err)
	assert.Equal(t, string(StatusActive), activated.Status)

	completed, err := fx.service.Complete(context.Background(), id, fx.userID, role)
	require.NoError(t, err)
	assert.Equal(t, string(StatusCompleted), completed.Status)
}

func TestActivate_BeforeCheckInWindow(t *testing.T) {
	fx := newFixture(t, 10)
	start := time.Now().UTC().Add(2 * time.Hour)

	created, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(start, start.Add(time.Hour)))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)
	role := string(users.RoleUser)

	_, err = fx.service.ConfirmPayment(context.Background(), id, fx.userID, role)
	require.NoError(t, err)

	_, err = fx.service.Activate(context.Background(), id, fx.userID, role)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitions_InvalidFromState(t *testing.T) {
	fx := newFixture(t, 10)
	start := time.Now().UTC().Add(10 * time.Minute)
	role := string(users.RoleUser)

	created, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(start, start.Add(time.Hour)))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	// Pending cannot be activated or completed
	_, err = fx.service.Activate(context.Background(), id, fx.userID, role)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = fx.service.Complete(context.Background(), id, fx.userID, role)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Drive to completed, then verify terminality
	_, err = fx.service.ConfirmPayment(context.Background(), id, fx.userID, role)
	require.NoError(t, err)
	_, err = fx.service.Activate(context.Background(), id, fx.userID, role)
	require.NoError(t, err)
	_, err = fx.service.Complete(context.Background(), id, fx.userID, role)
	require.NoError(t, err)

	_, err = fx.service.Cancel(context.Background(), id, fx.userID, role)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = fx.service.ConfirmPayment(context.Background(), id, fx.userID, role)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancel_RestoresCapacityAndNotifies(t *testing.T) {
	fx := newFixture(t, 1)
	base := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	role := string(users.RoleUser)

	created, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(base, base.Add(2*time.Hour)))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	cancelled, err := fx.service.Cancel(context.Background(), id, fx.userID, role)
	require.NoError(t, err)
	assert.Equal(t, string(StatusCancelled), cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	// The venue went from zero availability back to one: exactly one
	// spot-available notification fires.
	require.Eventually(t, func() bool {
		return len(fx.notifier.spotAvailableCalls()) == 1
	}, time.Second, 10*time.Millisecond)

	calls := fx.notifier.spotAvailableCalls()
	assert.Equal(t, fx.venueID, calls[0].venueID)
	assert.Equal(t, 1, calls[0].availableSpots)

	require.Eventually(t, func() bool {
		_, cancelledCount := fx.notifier.counts()
		return cancelledCount == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCancel_RefundsPaidReservation(t *testing.T) {
	fx := newFixture(t, 10)
	start := time.Now().UTC().Add(time.Hour)
	role := string(users.RoleUser)

	created, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(start, start.Add(time.Hour)))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	_, err = fx.service.ConfirmPayment(context.Background(), id, fx.userID, role)
	require.NoError(t, err)

	cancelled, err := fx.service.Cancel(context.Background(), id, fx.userID, role)
	require.NoError(t, err)
	assert.Equal(t, string(PaymentRefunded), cancelled.PaymentStatus)
}

func TestCancel_NoNotificationWhenSpotsRemain(t *testing.T) {
	fx := newFixture(t, 5)
	start := time.Now().UTC().Add(time.Hour)
	role := string(users.RoleUser)

	created, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(start, start.Add(time.Hour)))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	_, err = fx.service.Cancel(context.Background(), id, fx.userID, role)
	require.NoError(t, err)

	// Availability went 4 -> 5, not 0 -> 1: no alert
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, fx.notifier.spotAvailableCalls())
}

// A venue that is full right now can still take a booking for a later
// window; that reservation never claimed a spot from the live counter,
// so cancelling it must not bump the counter or announce availability.
func TestCancel_FutureBookingAtFullVenueDoesNotReleaseSpot(t *testing.T) {
	fx := newFixture(t, 1)
	base := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	role := string(users.RoleUser)

	// The only spot is claimed for [base, base+2h)
	_, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(base, base.Add(2*time.Hour)))
	require.NoError(t, err)

	// A later window is admitted while the counter sits at zero
	futureUser := uuid.New()
	created, err := fx.service.CreateReservation(context.Background(), futureUser, fx.createRequest(base.Add(3*time.Hour), base.Add(5*time.Hour)))
	require.NoError(t, err)

	_, err = fx.service.Cancel(context.Background(), uuid.MustParse(created.ID), futureUser, role)
	require.NoError(t, err)

	fx.repo.mu.Lock()
	available := fx.repo.available[fx.venueID]
	fx.repo.mu.Unlock()
	assert.Equal(t, 0, available, "cancelling an unclaimed booking must not free the occupied spot")

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, fx.notifier.spotAvailableCalls())
}

func TestIsSerializationConflict(t *testing.T) {
	assert.True(t, isSerializationConflict(&pgconn.PgError{Code: "40001"}))
	assert.True(t, isSerializationConflict(&pgconn.PgError{Code: "40P01"}))
	assert.True(t, isSerializationConflict(fmt.Errorf("create failed: %w", &pgconn.PgError{Code: "40001"})))

	assert.False(t, isSerializationConflict(nil))
	assert.False(t, isSerializationConflict(errors.New("connection refused")))
	assert.False(t, isSerializationConflict(&pgconn.PgError{Code: "23505"}))
}

func TestAccessControl(t *testing.T) {
	fx := newFixture(t, 10)
	start := time.Now().UTC().Add(time.Hour)

	created, err := fx.service.CreateReservation(context.Background(), fx.userID, fx.createRequest(start, start.Add(time.Hour)))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	stranger := uuid.New()

	_, err = fx.service.GetReservationByID(context.Background(), id, stranger, string(users.RoleUser))
	assert.ErrorIs(t, err, ErrNotReservationOwner)

	_, err = fx.service.Cancel(context.Background(), id, stranger, string(users.RoleUser))
	assert.ErrorIs(t, err, ErrNotReservationOwner)

	// Super admins see and manage everything
	_, err = fx.service.GetReservationByID(context.Background(), id, stranger, string(users.RoleSuperAdmin))
	assert.NoError(t, err)

	_, err = fx.service.Cancel(context.Background(), id, stranger, string(users.RoleSuperAdmin))
	assert.NoError(t, err)
}

func TestCreateReservation_VenueNotReservable(t *testing.T) {
	fx := newFixture(t, 10)
	start := time.Now().UTC().Add(time.Hour)

	// Unknown venue
	req := fx.createRequest(start, start.Add(time.Hour))
	req.VenueID = uuid.New().String()
	_, err := fx.service.CreateReservation(context.Background(), fx.userID, req)
	assert.ErrorIs(t, err, ErrVenueNotFound)

	// Venue under maintenance
	maintenanceID := uuid.New()
	fx.repo.addVenue(maintenanceID, 10)
	venueService := &fakeVenueService{
		venues: map[uuid.UUID]*venues.VenueResponse{
			maintenanceID: {
				ID:           maintenanceID.String(),
				Name:         "Closed Deck",
				Status:       string(venues.StatusMaintenance),
				TotalSpots:   10,
				PricePerHour: 5,
			},
		},
	}
	svc := NewService(fx.repo, venueService, testConfig())

	req = fx.createRequest(start, start.Add(time.Hour))
	req.VenueID = maintenanceID.String()
	_, err = svc.CreateReservation(context.Background(), fx.userID, req)
	assert.ErrorIs(t, err, ErrVenueNotReservable)
}
