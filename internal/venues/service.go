package venues

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parkly/internal/shared/constants"
	"parkly/internal/users"
	"parkly/pkg/cache"
	"parkly/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrVenueNotFound         = errors.New("venue not found")
	ErrInvalidCapacityChange = errors.New("total spots cannot be reduced below reserved spots")
	ErrNotVenueOwner         = errors.New("venue belongs to another owner")
	ErrVenueHasReservations  = errors.New("venue has active reservations")
	ErrInvalidAmenity        = errors.New("unknown amenity")
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	RegisterVenue(ctx context.Context, ownerID uuid.UUID, req CreateVenueRequest) (*VenueResponse, error)
	GetVenueByID(ctx context.Context, id uuid.UUID) (*VenueResponse, error)
	GetVenues(ctx context.Context, filters VenueFilters) (*PaginatedVenuesResponse, error)
	GetVenuesByOwner(ctx context.Context, ownerID uuid.UUID) ([]VenueResponse, error)
	UpdateVenue(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string, req UpdateVenueRequest) (*VenueResponse, error)
	UpdateVenueStatus(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string, status Status) (*VenueResponse, error)
	DeleteVenue(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) error
}

type service struct {
	repo         Repository
	cacheService cache.Service
	logger       *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo:   repo,
		logger: logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// Cache helper methods

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.cacheService == nil {
		return nil // Skip caching if cache service is not available
	}
	return s.cacheService.Set(ctx, key, value, ttl)
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return fmt.Errorf("cache service not available")
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) invalidateVenueCache(ctx context.Context, venueID *uuid.UUID) error {
	if s.cacheService == nil {
		return nil
	}

	patterns := []string{
		constants.PATTERN_INVALIDATE_VENUES_ALL,
	}
	if venueID != nil {
		patterns = append(patterns, constants.PATTERN_INVALIDATE_VENUE_DETAIL+venueID.String()+"*")
	}

	for _, pattern := range patterns {
		if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
			return err
		}
	}
	return nil
}

// canManage checks whether the actor may modify the venue. Super admins
// manage everything, owners only their own venues.
func canManage(venue *Venue, actorID uuid.UUID, actorRole string) error {
	if actorRole == string(users.RoleSuperAdmin) {
		return nil
	}
	if venue.OwnerID != actorID {
		return ErrNotVenueOwner
	}
	return nil
}

func (s *service) RegisterVenue(ctx context.Context, ownerID uuid.UUID, req CreateVenueRequest) (*VenueResponse, error) {
	for _, a := range req.Amenities {
		if !IsValidAmenity(a) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidAmenity, a)
		}
	}

	hours := OperatingHours{Open: "00:00", Close: "23:59"}
	if req.OperatingHours != nil {
		if req.OperatingHours.Open != "" {
			hours.Open = req.OperatingHours.Open
		}
		if req.OperatingHours.Close != "" {
			hours.Close = req.OperatingHours.Close
		}
	}

	venue := &Venue{
		OwnerID:      ownerID,
		Name:         req.Name,
		Description:  req.Description,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		TotalSpots:   req.TotalSpots,
		PricePerHour: req.PricePerHour,
		// A new venue starts fully available
		AvailableSpots: req.TotalSpots,
		OperatingHours: hours,
		Amenities:      req.Amenities,
		Status:         StatusActive,
	}

	if err := s.repo.Create(ctx, venue); err != nil {
		return nil, err
	}

	s.logger.LogVenueRegistered(ctx, venue.ID.String(), ownerID.String())

	if err := s.invalidateVenueCache(ctx, nil); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate venue cache after registration", "error", err)
	}

	resp := venue.ToResponse()
	return &resp, nil
}

func (s *service) GetVenueByID(ctx context.Context, id uuid.UUID) (*VenueResponse, error) {
	cacheKey := constants.VenueDetailKey(id.String())

	// Try cache first
	var cached VenueResponse
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	venue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := venue.ToResponse()

	if err := s.setCache(ctx, cacheKey, resp, constants.TTL_VENUE_DETAIL); err != nil {
		s.logger.WarnContext(ctx, "failed to cache venue detail", "error", err)
	}

	return &resp, nil
}

func (s *service) GetVenues(ctx context.Context, filters VenueFilters) (*PaginatedVenuesResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 {
		filters.Limit = 20
	}

	// Search queries bypass the cache
	cacheable := filters.Search == ""
	cacheKey := constants.VenueListKey(filters.Page, filters.Limit, filters.City, filters.Status)

	if cacheable {
		var cached PaginatedVenuesResponse
		if err := s.getCache(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	result, err := s.repo.GetVenues(ctx, filters)
	if err != nil {
		return nil, err
	}

	resp := &PaginatedVenuesResponse{
		Venues:     make([]VenueResponse, 0, len(result.Venues)),
		TotalCount: result.TotalCount,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	}
	for i := range result.Venues {
		resp.Venues = append(resp.Venues, result.Venues[i].ToResponse())
	}

	if cacheable {
		if err := s.setCache(ctx, cacheKey, resp, constants.TTL_VENUE_LIST); err != nil {
			s.logger.WarnContext(ctx, "failed to cache venue list", "error", err)
		}
	}

	return resp, nil
}

func (s *service) GetVenuesByOwner(ctx context.Context, ownerID uuid.UUID) ([]VenueResponse, error) {
	venues, err := s.repo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	responses := make([]VenueResponse, 0, len(venues))
	for i := range venues {
		responses = append(responses, venues[i].ToResponse())
	}
	return responses, nil
}

func (s *service) UpdateVenue(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string, req UpdateVenueRequest) (*VenueResponse, error) {
	venue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := canManage(venue, actorID, actorRole); err != nil {
		return nil, err
	}

	// Capacity changes take the locked path so the reserved-spot guard
	// holds under concurrent reservation traffic.
	if req.TotalSpots != nil && *req.TotalSpots != venue.TotalSpots {
		if _, err := s.repo.UpdateCapacity(ctx, id, *req.TotalSpots); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.ZipCode != nil {
		updates["zip_code"] = *req.ZipCode
	}
	if req.PricePerHour != nil {
		updates["price_per_hour"] = *req.PricePerHour
	}
	if req.OperatingHours != nil {
		if req.OperatingHours.Open != "" {
			updates["hours_open"] = req.OperatingHours.Open
		}
		if req.OperatingHours.Close != "" {
			updates["hours_close"] = req.OperatingHours.Close
		}
	}
	if req.Amenities != nil {
		for _, a := range req.Amenities {
			if !IsValidAmenity(a) {
				return nil, fmt.Errorf("%w: %s", ErrInvalidAmenity, a)
			}
		}
		updates["amenities"] = req.Amenities
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	if err := s.invalidateVenueCache(ctx, &id); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate venue cache after update", "error", err)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := updated.ToResponse()
	return &resp, nil
}

func (s *service) UpdateVenueStatus(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string, status Status) (*VenueResponse, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid venue status: %s", status)
	}

	venue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := canManage(venue, actorID, actorRole); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}

	if err := s.invalidateVenueCache(ctx, &id); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate venue cache after status change", "error", err)
	}

	venue.Status = status
	resp := venue.ToResponse()
	return &resp, nil
}

func (s *service) DeleteVenue(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) error {
	venue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := canManage(venue, actorID, actorRole); err != nil {
		return err
	}

	hasActive, err := s.repo.HasActiveReservations(ctx, id)
	if err != nil {
		return err
	}
	if hasActive {
		return ErrVenueHasReservations
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.invalidateVenueCache(ctx, &id); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate venue cache after delete", "error", err)
	}

	return nil
}
