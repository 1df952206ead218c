package slots

import (
	"context"
	"errors"
	"time"

	"parkly/internal/shared/config"
	"parkly/internal/shared/constants"
	"parkly/internal/users"
	"parkly/internal/venues"
	"parkly/pkg/cache"
	"parkly/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrSlotNotFound  = errors.New("parking slot not found")
	ErrSlotHeld      = errors.New("parking slot is already held")
	ErrSlotNotUsable = errors.New("parking slot is not available")
	ErrHoldNotFound  = errors.New("hold not found or expired")
	ErrNotHoldOwner  = errors.New("hold belongs to another user")
	ErrNotVenueOwner = errors.New("venue belongs to another owner")
)

// VenueService provides the venue data slot management needs.
// Satisfied by venues.Service.
type VenueService interface {
	GetVenueByID(ctx context.Context, id uuid.UUID) (*venues.VenueResponse, error)
}

type Service interface {
	SetCacheService(cacheService cache.Service)

	CreateSlots(ctx context.Context, venueID uuid.UUID, actorID uuid.UUID, actorRole string, req CreateSlotsRequest) (*VenueSlotsResponse, error)
	GetVenueSlots(ctx context.Context, venueID uuid.UUID) (*VenueSlotsResponse, error)
	GetSlot(ctx context.Context, id uuid.UUID) (*SlotResponse, error)
	UpdateSlot(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string, req UpdateSlotRequest) (*SlotResponse, error)
	DeleteSlot(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) error

	HoldSlot(ctx context.Context, userID uuid.UUID, req HoldSlotRequest) (*SlotHoldResponse, error)
	ReleaseHold(ctx context.Context, userID uuid.UUID, actorRole string, holdID string) error
	ValidateHold(ctx context.Context, userID uuid.UUID, holdID string) (*HoldValidationResponse, error)
	GetUserHolds(ctx context.Context, userID uuid.UUID) ([]SlotHoldResponse, error)
}

type service struct {
	repo         Repository
	venueService VenueService
	atomicOps    *AtomicRedisOperations
	cacheService cache.Service
	config       *config.Config
	logger       *logger.Logger
}

func NewService(repo Repository, venueService VenueService, atomicOps *AtomicRedisOperations, cfg *config.Config) Service {
	return &service{
		repo:         repo,
		venueService: venueService,
		atomicOps:    atomicOps,
		config:       cfg,
		logger:       logger.GetDefault(),
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) checkVenueOwnership(ctx context.Context, venueID uuid.UUID, actorID uuid.UUID, actorRole string) error {
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

func (s *service) invalidateSlotCache(ctx context.Context, venueID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	key := constants.CACHE_KEY_VENUE_SLOTS + venueID.String()
	if err := s.cacheService.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate slot cache", "error", err)
	}
}

func (s *service) CreateSlots(ctx context.Context, venueID uuid.UUID, actorID uuid.UUID, actorRole string, req CreateSlotsRequest) (*VenueSlotsResponse, error) {
	if err := s.checkVenueOwnership(ctx, venueID, actorID, actorRole); err != nil {
		return nil, err
	}

	slots := make([]ParkingSlot, 0, len(req.Slots))
	for _, item := range req.Slots {
		slots = append(slots, ParkingSlot{
			VenueID:    venueID,
			SlotNumber: item.SlotNumber,
			Floor:      item.Floor,
			Type:       SlotType(item.Type),
			Status:     SlotAvailable,
		})
	}

	if err := s.repo.CreateSlots(ctx, slots); err != nil {
		return nil, err
	}

	s.invalidateSlotCache(ctx, venueID)

	return s.GetVenueSlots(ctx, venueID)
}

func (s *service) GetVenueSlots(ctx context.Context, venueID uuid.UUID) (*VenueSlotsResponse, error) {
	slots, err := s.repo.GetByVenueID(ctx, venueID)
	if err != nil {
		return nil, err
	}

	resp := &VenueSlotsResponse{
		VenueID:    venueID.String(),
		TotalSlots: len(slots),
		Slots:      make([]SlotResponse, 0, len(slots)),
	}

	for i := range slots {
		isHeld := false
		if s.atomicOps != nil {
			held, err := s.atomicOps.IsSlotHeld(ctx, slots[i].ID)
			if err != nil {
				s.logger.WarnContext(ctx, "failed to check slot hold", "slot_id", slots[i].ID.String(), "error", err)
			} else {
				isHeld = held
			}
		}
		resp.Slots = append(resp.Slots, slots[i].ToResponse(isHeld))
	}

	return resp, nil
}

func (s *service) GetSlot(ctx context.Context, id uuid.UUID) (*SlotResponse, error) {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isHeld := false
	if s.atomicOps != nil {
		if held, err := s.atomicOps.IsSlotHeld(ctx, id); err == nil {
			isHeld = held
		}
	}

	resp := slot.ToResponse(isHeld)
	return &resp, nil
}

func (s *service) UpdateSlot(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string, req UpdateSlotRequest) (*SlotResponse, error) {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkVenueOwnership(ctx, slot.VenueID, actorID, actorRole); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.SlotNumber != nil {
		updates["slot_number"] = *req.SlotNumber
	}
	if req.Floor != nil {
		updates["floor"] = *req.Floor
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	s.invalidateSlotCache(ctx, slot.VenueID)

	return s.GetSlot(ctx, id)
}

func (s *service) DeleteSlot(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) error {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.checkVenueOwnership(ctx, slot.VenueID, actorID, actorRole); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateSlotCache(ctx, slot.VenueID)
	return nil
}

func (s *service) HoldSlot(ctx context.Context, userID uuid.UUID, req HoldSlotRequest) (*SlotHoldResponse, error) {
	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return nil, ErrSlotNotFound
	}

	slot, err := s.repo.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if !slot.IsUsable() {
		return nil, ErrSlotNotUsable
	}

	holdID := uuid.New().String()
	ttl := s.config.Redis.SlotHoldTTL

	err = s.atomicOps.AtomicHoldSlot(ctx, slotID, userID.String(), holdID, slot.VenueID.String(), ttl)
	if err != nil {
		return nil, err
	}

	s.logger.InfoWithContext(ctx, "slot held", map[string]interface{}{
		"hold_id": holdID,
		"slot_id": slotID.String(),
		"user_id": userID.String(),
	})

	return &SlotHoldResponse{
		HoldID:    holdID,
		SlotID:    slotID.String(),
		VenueID:   slot.VenueID.String(),
		UserID:    userID.String(),
		ExpiresAt: time.Now().UTC().Add(ttl),
		TTL:       int(ttl.Seconds()),
	}, nil
}

func (s *service) ReleaseHold(ctx context.Context, userID uuid.UUID, actorRole string, holdID string) error {
	info, _, err := s.atomicOps.GetHoldInfo(ctx, holdID)
	if err != nil {
		return err
	}

	if actorRole != string(users.RoleSuperAdmin) && info["user_id"] != userID.String() {
		return ErrNotHoldOwner
	}

	slotID, err := s.atomicOps.AtomicReleaseHold(ctx, holdID)
	if err != nil {
		return err
	}

	s.logger.InfoWithContext(ctx, "hold released", map[string]interface{}{
		"hold_id": holdID,
		"slot_id": slotID,
		"user_id": userID.String(),
	})

	return nil
}

func (s *service) ValidateHold(ctx context.Context, userID uuid.UUID, holdID string) (*HoldValidationResponse, error) {
	info, ttl, err := s.atomicOps.GetHoldInfo(ctx, holdID)
	if err != nil {
		if errors.Is(err, ErrHoldNotFound) {
			return &HoldValidationResponse{Valid: false, Reason: "hold not found or expired"}, nil
		}
		return nil, err
	}

	if info["user_id"] != userID.String() {
		return &HoldValidationResponse{Valid: false, Reason: "hold belongs to another user"}, nil
	}

	return &HoldValidationResponse{
		Valid:  true,
		SlotID: info["slot_id"],
		TTL:    int(ttl.Seconds()),
	}, nil
}

func (s *service) GetUserHolds(ctx context.Context, userID uuid.UUID) ([]SlotHoldResponse, error) {
	holdIDs, err := s.atomicOps.GetUserHoldIDs(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	holds := make([]SlotHoldResponse, 0, len(holdIDs))
	for _, holdID := range holdIDs {
		info, ttl, err := s.atomicOps.GetHoldInfo(ctx, holdID)
		if err != nil {
			// Expired holds linger in the user set until the set's own
			// TTL fires, skip them
			continue
		}

		holds = append(holds, SlotHoldResponse{
			HoldID:    holdID,
			SlotID:    info["slot_id"],
			VenueID:   info["venue_id"],
			UserID:    userID.String(),
			ExpiresAt: time.Now().UTC().Add(ttl),
			TTL:       int(ttl.Seconds()),
		})
	}

	return holds, nil
}
