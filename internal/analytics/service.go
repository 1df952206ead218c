package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parkly/internal/shared/constants"
	"parkly/internal/users"
	"parkly/internal/venues"
	"parkly/pkg/cache"

	"github.com/google/uuid"
)

var ErrNotVenueOwner = errors.New("venue belongs to another owner")

// VenueService provides venue ownership data for authorization.
// Satisfied by venues.Service.
type VenueService interface {
	GetVenueByID(ctx context.Context, id uuid.UUID) (*venues.VenueResponse, error)
}

type Service interface {
	SetCacheService(cacheService cache.Service)

	GetVenueDashboard(ctx context.Context, venueID uuid.UUID, actorID uuid.UUID, actorRole string) (*VenueDashboard, error)
	GetVenueOccupancy(ctx context.Context, venueID uuid.UUID, actorID uuid.UUID, actorRole string) (*VenueOccupancy, error)
	GetVenueRevenue(ctx context.Context, venueID uuid.UUID, actorID uuid.UUID, actorRole string, from, to time.Time) (*VenueRevenue, error)
	GetDailyStats(ctx context.Context, venueID uuid.UUID, actorID uuid.UUID, actorRole string, days int) ([]DailyReservationStats, error)
	GetPlatformStats(ctx context.Context) (*PlatformStats, error)
}

type service struct {
	repo         Repository
	venueService VenueService
	cacheService cache.Service
}

func NewService(repo Repository, venueService VenueService) Service {
	return &service{repo: repo, venueService: venueService}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// authorizeVenueAccess allows the venue owner and super admins.
func (s *service) authorizeVenueAccess(ctx context.Context, venueID uuid.UUID, actorID uuid.UUID, actorRole string) error {
	if actorRole == string(users.RoleSuperAdmin) {
		return nil
	}

	venue, err := s.venueService.GetVenueByID(ctx, venueID)
	if err != nil {
		return err
	}
	if venue.OwnerID != actorID.String() {
		return ErrNotVenueOwner
	}
	return nil
}

func (s *service) GetVenueDashboard(ctx context.Context, venueID uuid.UUID, actorID uuid.UUID, actorRole string) (*VenueDashboard, error) {
	if err := s.authorizeVenueAccess(ctx, venueID, actorID, actorRole); err != nil {
		return nil, err
	}

	cacheKey := constants.CACHE_KEY_VENUE_STATS + venueID.String()
	if s.cacheService != nil {
		var cached VenueDashboard
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)

	occupancy, err := s.repo.GetVenueOccupancy(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue dashboard: %w", err)
	}

	revenue, err := s.repo.GetVenueRevenue(ctx, venueID, from, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue dashboard: %w", err)
	}

	daily, err := s.repo.GetDailyReservationStats(ctx, venueID, 30)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue dashboard: %w", err)
	}

	dashboard := &VenueDashboard{
		Occupancy:   *occupancy,
		Revenue:     *revenue,
		DailySeries: daily,
		GeneratedAt: now,
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, dashboard, constants.TTL_ANALYTICS)
	}

	return dashboard, nil
}

func (s *service) GetVenueOccupancy(ctx context.Context, venueID uuid.UUID, actorID uuid.UUID, actorRole string) (*VenueOccupancy, error) {
	if err := s.authorizeVenueAccess(ctx, venueID, actorID, actorRole); err != nil {
		return nil, err
	}
	return s.repo.GetVenueOccupancy(ctx, venueID)
}

func (s *service) GetVenueRevenue(ctx context.Context, venueID uuid.UUID, actorID uuid.UUID, actorRole string, from, to time.Time) (*VenueRevenue, error) {
	if err := s.authorizeVenueAccess(ctx, venueID, actorID, actorRole); err != nil {
		return nil, err
	}
	return s.repo.GetVenueRevenue(ctx, venueID, from, to)
}

func (s *service) GetDailyStats(ctx context.Context, venueID uuid.UUID, actorID uuid.UUID, actorRole string, days int) ([]DailyReservationStats, error) {
	if err := s.authorizeVenueAccess(ctx, venueID, actorID, actorRole); err != nil {
		return nil, err
	}
	if days <= 0 || days > 365 {
		days = 30
	}
	return s.repo.GetDailyReservationStats(ctx, venueID, days)
}

func (s *service) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	cacheKey := constants.CACHE_KEY_PLATFORM_STATS
	if s.cacheService != nil {
		var cached PlatformStats
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.repo.GetPlatformStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform stats: %w", err)
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, stats, constants.TTL_ANALYTICS)
	}

	return stats, nil
}
