package reservations

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"parkly/internal/shared/config"
	"parkly/internal/shared/constants"
	"parkly/internal/users"
	"parkly/internal/venues"
	"parkly/pkg/cache"
	"parkly/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// VenueService provides the venue data the reservation flow needs.
// Satisfied by venues.Service.
type VenueService interface {
	GetVenueByID(ctx context.Context, id uuid.UUID) (*venues.VenueResponse, error)
}

// Notifier receives capacity events for fan-out to waiting users.
// Satisfied by notifications.Service.
type Notifier interface {
	NotifySpotAvailable(ctx context.Context, venueID uuid.UUID, venueName string, availableSpots int)
	NotifyReservationConfirmed(ctx context.Context, reservation *Reservation)
	NotifyReservationCancelled(ctx context.Context, reservation *Reservation)
}

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetNotifier(notifier Notifier)

	CreateReservation(ctx context.Context, userID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error)
	CheckAvailability(ctx context.Context, venueID uuid.UUID, start, end time.Time) (*AvailabilityResponse, error)
	GetReservationByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*ReservationResponse, error)
	GetUserReservations(ctx context.Context, userID uuid.UUID, query ListQuery) (*PaginatedReservationsResponse, error)
	GetVenueReservations(ctx context.Context, venueID uuid.UUID, actorID uuid.UUID, actorRole string, query ListQuery) (*PaginatedReservationsResponse, error)

	ConfirmPayment(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*ReservationResponse, error)
	Activate(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*ReservationResponse, error)
	Complete(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*ReservationResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*ReservationResponse, error)
}

type service struct {
	repo         Repository
	venueService VenueService
	cacheService cache.Service
	notifier     Notifier
	config       *config.Config
	logger       *logger.Logger
}

func NewService(repo Repository, venueService VenueService, cfg *config.Config) Service {
	return &service{
		repo:         repo,
		venueService: venueService,
		config:       cfg,
		logger:       logger.GetDefault(),
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// validateInterval normalizes the window to UTC and enforces the
// interval invariants: start strictly before end, start not in the
// past beyond the grace period, duration within the venue limit.
func (s *service) validateInterval(start, end time.Time) (time.Time, time.Time, error) {
	start = start.UTC()
	end = end.UTC()

	if !start.Before(end) {
		return start, end, fmt.Errorf("%w: start must be before end", ErrInvalidInterval)
	}

	now := time.Now().UTC()
	if start.Before(now.Add(-s.config.Reservation.GracePeriod)) {
		return start, end, fmt.Errorf("%w: start time is in the past", ErrInvalidInterval)
	}

	if end.Sub(start) > s.config.Reservation.MaxDuration {
		return start, end, fmt.Errorf("%w: duration exceeds %s", ErrInvalidInterval, s.config.Reservation.MaxDuration)
	}

	return start, end, nil
}

// calculateAmount prices a window at the venue's hourly rate, rounding
// partial hours up.
func calculateAmount(start, end time.Time, pricePerHour float64) float64 {
	hours := math.Ceil(end.Sub(start).Hours())
	return hours * pricePerHour
}

func generateReservationRef() string {
	return "PRK-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
}

// isSerializationConflict detects Postgres serialization failures
// (SQLSTATE 40001) and deadlocks (40P01) surfaced through the driver.
func isSerializationConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func (s *service) CreateReservation(ctx context.Context, userID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error) {
	if req.Vehicle == nil || req.Vehicle.LicensePlate == "" {
		return nil, ErrVehicleRequired
	}
	vehicleType := VehicleType(req.Vehicle.Type)
	if !vehicleType.IsValid() {
		return nil, fmt.Errorf("%w: unknown vehicle type %q", ErrVehicleRequired, req.Vehicle.Type)
	}

	start, end, err := s.validateInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid venue id", ErrVenueNotFound)
	}

	venue, err := s.venueService.GetVenueByID(ctx, venueID)
	if err != nil {
		return nil, ErrVenueNotFound
	}
	if venue.Status != string(venues.StatusActive) {
		return nil, ErrVenueNotReservable
	}

	var slotID *uuid.UUID
	if req.SlotID != "" {
		parsed, err := uuid.Parse(req.SlotID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid slot id", ErrInvalidInterval)
		}
		slotID = &parsed
	}

	reservation := &Reservation{
		ReservationRef: generateReservationRef(),
		UserID:         userID,
		VenueID:        venueID,
		SlotID:         slotID,
		Vehicle: VehicleSnapshot{
			Type:         vehicleType,
			LicensePlate: strings.ToUpper(req.Vehicle.LicensePlate),
			Make:         req.Vehicle.Make,
			Model:        req.Vehicle.Model,
		},
		StartTime:     start,
		EndTime:       end,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		TotalAmount:   calculateAmount(start, end, venue.PricePerHour),
	}

	// A serialization failure under concurrent traffic gets one retry
	// before surfacing as a conflict.
	err = s.repo.CreateReservationWithCapacityCheck(ctx, reservation)
	if isSerializationConflict(err) {
		s.logger.WarnContext(ctx, "reservation creation hit a serialization conflict, retrying",
			"venue_id", venueID.String())
		err = s.repo.CreateReservationWithCapacityCheck(ctx, reservation)
	}
	if err != nil {
		if isSerializationConflict(err) {
			return nil, ErrTransactionConflict
		}
		return nil, err
	}

	s.logger.LogReservationCreated(ctx, reservation.ID.String(), venueID.String(), userID.String())
	s.invalidateAvailabilityCache(ctx, venueID)

	resp := reservation.ToResponse()
	return &resp, nil
}

func (s *service) CheckAvailability(ctx context.Context, venueID uuid.UUID, start, end time.Time) (*AvailabilityResponse, error) {
	start, end, err := s.validateInterval(start, end)
	if err != nil {
		return nil, err
	}

	venue, err := s.venueService.GetVenueByID(ctx, venueID)
	if err != nil {
		return nil, ErrVenueNotFound
	}

	cacheKey := s.availabilityKey(venueID, start, end)
	if s.cacheService != nil {
		var cached AvailabilityResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	overlapping, err := s.repo.CountOverlapping(ctx, venueID, start, end)
	if err != nil {
		return nil, err
	}

	// Availability is capacity-based: the window is bookable while
	// fewer than total_spots reservations occupy it, regardless of
	// the mere existence of conflicts.
	remaining := venue.TotalSpots - int(overlapping)
	if remaining < 0 {
		remaining = 0
	}

	resp := &AvailabilityResponse{
		VenueID:        venueID.String(),
		StartTime:      start,
		EndTime:        end,
		TotalSpots:     venue.TotalSpots,
		OverlapCount:   overlapping,
		AvailableSpots: remaining,
		Available:      remaining > 0,
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, resp, constants.TTL_AVAILABILITY); err != nil {
			s.logger.WarnContext(ctx, "failed to cache availability", "error", err)
		}
	}

	return resp, nil
}

func (s *service) availabilityKey(venueID uuid.UUID, start, end time.Time) string {
	return fmt.Sprintf("%s:availability:%s:%d:%d",
		constants.CACHE_PREFIX, venueID.String(), start.Unix(), end.Unix())
}

func (s *service) invalidateAvailabilityCache(ctx context.Context, venueID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	pattern := fmt.Sprintf("%s:availability:%s:*", constants.CACHE_PREFIX, venueID.String())
	if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate availability cache", "error", err)
	}
}

// canAccess checks reservation visibility: the owner sees their own,
// super admins see everything.
func canAccess(reservation *Reservation, actorID uuid.UUID, actorRole string) error {
	if actorRole == string(users.RoleSuperAdmin) {
		return nil
	}
	if reservation.UserID != actorID {
		return ErrNotReservationOwner
	}
	return nil
}

func (s *service) GetReservationByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*ReservationResponse, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := canAccess(reservation, actorID, actorRole); err != nil {
		return nil, err
	}

	resp := reservation.ToResponse()
	return &resp, nil
}

func (s *service) GetUserReservations(ctx context.Context, userID uuid.UUID, query ListQuery) (*PaginatedReservationsResponse, error) {
	reservations, total, err := s.repo.GetUserReservations(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	return paginate(reservations, total, query), nil
}

func (s *service) GetVenueReservations(ctx context.Context, venueID uuid.UUID, actorID uuid.UUID, actorRole string, query ListQuery) (*PaginatedReservationsResponse, error) {
	venue, err := s.venueService.GetVenueByID(ctx, venueID)
	if err != nil {
		return nil, ErrVenueNotFound
	}

	if actorRole != string(users.RoleSuperAdmin) && venue.OwnerID != actorID.String() {
		return nil, ErrNotReservationOwner
	}

	reservations, total, err := s.repo.GetVenueReservations(ctx, venueID, query)
	if err != nil {
		return nil, err
	}
	return paginate(reservations, total, query), nil
}

func paginate(reservations []Reservation, total int64, query ListQuery) *PaginatedReservationsResponse {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	resp := &PaginatedReservationsResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
		TotalCount:   total,
		Page:         query.Page,
		Limit:        query.Limit,
		TotalPages:   int((total + int64(query.Limit) - 1) / int64(query.Limit)),
	}
	for i := range reservations {
		resp.Reservations = append(resp.Reservations, reservations[i].ToResponse())
	}
	return resp
}

func (s *service) ConfirmPayment(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*ReservationResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canAccess(existing, actorID, actorRole); err != nil {
		return nil, err
	}

	wasConfirmed := existing.Status == StatusConfirmed && existing.PaymentStatus == PaymentPaid

	reservation, err := s.repo.ConfirmPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.LogReservationTransition(ctx, id.String(), string(StatusPending), string(StatusConfirmed))

	if !wasConfirmed && s.notifier != nil {
		// Fire-and-forget confirmation email
		go s.notifier.NotifyReservationConfirmed(context.WithoutCancel(ctx), reservation)
	}

	resp := reservation.ToResponse()
	return &resp, nil
}

func (s *service) Activate(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*ReservationResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canAccess(existing, actorID, actorRole); err != nil {
		return nil, err
	}

	// Check-in opens shortly before the reserved window starts
	now := time.Now().UTC()
	if now.Before(existing.StartTime.Add(-s.config.Reservation.GracePeriod)) {
		return nil, fmt.Errorf("%w: check-in opens at %s",
			ErrInvalidTransition, existing.StartTime.Add(-s.config.Reservation.GracePeriod).Format(time.RFC3339))
	}

	reservation, err := s.repo.Activate(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.LogReservationTransition(ctx, id.String(), string(StatusConfirmed), string(StatusActive))

	resp := reservation.ToResponse()
	return &resp, nil
}

func (s *service) Complete(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*ReservationResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canAccess(existing, actorID, actorRole); err != nil {
		return nil, err
	}

	result, err := s.repo.Complete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.LogReservationTransition(ctx, id.String(), string(StatusActive), string(StatusCompleted))
	s.afterSpotReleased(ctx, result)

	resp := result.Reservation.ToResponse()
	return &resp, nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*ReservationResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canAccess(existing, actorID, actorRole); err != nil {
		return nil, err
	}

	result, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.LogReservationTransition(ctx, id.String(), string(existing.Status), string(StatusCancelled))
	s.afterSpotReleased(ctx, result)

	if s.notifier != nil {
		go s.notifier.NotifyReservationCancelled(context.WithoutCancel(ctx), result.Reservation)
	}

	resp := result.Reservation.ToResponse()
	return &resp, nil
}

// afterSpotReleased invalidates availability caches and, when the venue
// just came back from zero availability, dispatches the spot-available
// notification without blocking the request.
func (s *service) afterSpotReleased(ctx context.Context, result *TransitionResult) {
	venueID := result.Reservation.VenueID
	s.invalidateAvailabilityCache(ctx, venueID)

	if !result.CapacityRestored || result.AvailableAfter != 1 {
		return
	}

	if s.notifier == nil {
		return
	}

	venueName := ""
	if venue, err := s.venueService.GetVenueByID(ctx, venueID); err == nil {
		venueName = venue.Name
	}

	go s.notifier.NotifySpotAvailable(context.WithoutCancel(ctx), venueID, venueName, result.AvailableAfter)
}
