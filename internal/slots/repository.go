package slots

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateSlots(ctx context.Context, slots []ParkingSlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*ParkingSlot, error)
	GetByVenueID(ctx context.Context, venueID uuid.UUID) ([]ParkingSlot, error)
	GetAvailableByVenueID(ctx context.Context, venueID uuid.UUID, slotType SlotType) ([]ParkingSlot, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status SlotStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByVenueID(ctx context.Context, venueID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSlots(ctx context.Context, slots []ParkingSlot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&slots).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*ParkingSlot, error) {
	var slot ParkingSlot
	err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &slot, nil
}

func (r *repository) GetByVenueID(ctx context.Context, venueID uuid.UUID) ([]ParkingSlot, error) {
	var slots []ParkingSlot
	err := r.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("floor ASC, slot_number ASC").
		Find(&slots).Error
	return slots, err
}

func (r *repository) GetAvailableByVenueID(ctx context.Context, venueID uuid.UUID, slotType SlotType) ([]ParkingSlot, error) {
	query := r.db.WithContext(ctx).
		Where("venue_id = ? AND status = ?", venueID, SlotAvailable)
	if slotType != "" {
		query = query.Where("type = ?", slotType)
	}

	var slots []ParkingSlot
	err := query.Order("floor ASC, slot_number ASC").Find(&slots).Error
	return slots, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&ParkingSlot{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status SlotStatus) error {
	return r.Update(ctx, id, map[string]interface{}{"status": status})
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ParkingSlot{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (r *repository) CountByVenueID(ctx context.Context, venueID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ParkingSlot{}).Where("venue_id = ?", venueID).Count(&count).Error
	return count, err
}
