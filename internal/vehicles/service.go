package vehicles

import (
	"context"
	"errors"
	"strings"

	"parkly/internal/users"

	"github.com/google/uuid"
)

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrPlateTaken      = errors.New("license plate is already registered")
	ErrNotVehicleOwner = errors.New("vehicle belongs to another user")
)

type Service interface {
	AddVehicle(ctx context.Context, userID uuid.UUID, req CreateVehicleRequest) (*VehicleResponse, error)
	GetUserVehicles(ctx context.Context, userID uuid.UUID) ([]VehicleResponse, error)
	GetVehicleByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*VehicleResponse, error)
	UpdateVehicle(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string, req UpdateVehicleRequest) (*VehicleResponse, error)
	DeleteVehicle(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func canAccess(vehicle *Vehicle, actorID uuid.UUID, actorRole string) error {
	if actorRole == string(users.RoleSuperAdmin) {
		return nil
	}
	if vehicle.UserID != actorID {
		return ErrNotVehicleOwner
	}
	return nil
}

func (s *service) AddVehicle(ctx context.Context, userID uuid.UUID, req CreateVehicleRequest) (*VehicleResponse, error) {
	plate := strings.ToUpper(strings.TrimSpace(req.LicensePlate))

	exists, err := s.repo.PlateExists(ctx, plate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPlateTaken
	}

	if req.IsDefault {
		if err := s.repo.ClearDefault(ctx, userID); err != nil {
			return nil, err
		}
	}

	vehicle := &Vehicle{
		UserID:       userID,
		Type:         VehicleType(req.Type),
		LicensePlate: plate,
		Make:         req.Make,
		Model:        req.Model,
		Color:        req.Color,
		IsDefault:    req.IsDefault,
	}

	if err := s.repo.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	resp := vehicle.ToResponse()
	return &resp, nil
}

func (s *service) GetUserVehicles(ctx context.Context, userID uuid.UUID) ([]VehicleResponse, error) {
	vehicles, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		responses = append(responses, vehicles[i].ToResponse())
	}
	return responses, nil
}

func (s *service) GetVehicleByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*VehicleResponse, error) {
	vehicle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := canAccess(vehicle, actorID, actorRole); err != nil {
		return nil, err
	}

	resp := vehicle.ToResponse()
	return &resp, nil
}

func (s *service) UpdateVehicle(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string, req UpdateVehicleRequest) (*VehicleResponse, error) {
	vehicle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := canAccess(vehicle, actorID, actorRole); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Make != nil {
		updates["make"] = *req.Make
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.IsDefault != nil {
		if *req.IsDefault {
			if err := s.repo.ClearDefault(ctx, vehicle.UserID); err != nil {
				return nil, err
			}
		}
		updates["is_default"] = *req.IsDefault
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := updated.ToResponse()
	return &resp, nil
}

func (s *service) DeleteVehicle(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) error {
	vehicle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := canAccess(vehicle, actorID, actorRole); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
