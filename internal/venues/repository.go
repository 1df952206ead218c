package venues

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate serializes capacity changes against concurrent
// reservation traffic on the same venue row.
var lockForUpdate = clause.Locking{Strength: clause.LockingStrengthUpdate}

// Repository interface for venue operations
type Repository interface {
	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	GetVenues(ctx context.Context, filters VenueFilters) (*PaginatedVenues, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]Venue, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	UpdateCapacity(ctx context.Context, id uuid.UUID, newTotalSpots int) (*Venue, error)
	Delete(ctx context.Context, id uuid.UUID) error
	HasActiveReservations(ctx context.Context, venueID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new venue repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, venue *Venue) error {
	return r.db.WithContext(ctx).Create(venue).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	var venue Venue
	err := r.db.WithContext(ctx).First(&venue, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &venue, nil
}

func (r *repository) GetVenues(ctx context.Context, filters VenueFilters) (*PaginatedVenues, error) {
	var venues []Venue
	var total int64

	query := r.db.WithContext(ctx).Model(&Venue{})

	// Apply filters
	if filters.Search != "" {
		searchPattern := fmt.Sprintf("%%%s%%", filters.Search)
		query = query.Where("name ILIKE ? OR address ILIKE ?", searchPattern, searchPattern)
	}

	if filters.City != "" {
		query = query.Where("city ILIKE ?", filters.City)
	}

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	// Count total records
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	// Apply sorting
	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortOrder := filters.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	// Apply pagination
	offset := (filters.Page - 1) * filters.Limit
	if err := query.Offset(offset).Limit(filters.Limit).Find(&venues).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filters.Limit) - 1) / int64(filters.Limit))

	return &PaginatedVenues{
		Venues:     venues,
		TotalCount: total,
		Page:       filters.Page,
		Limit:      filters.Limit,
		TotalPages: totalPages,
	}, nil
}

func (r *repository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]Venue, error) {
	var venues []Venue
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&venues).Error
	return venues, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Venue{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVenueNotFound
	}
	return nil
}

// UpdateCapacity changes total_spots and shifts available_spots by the
// same delta, inside a transaction with the venue row locked. Shrinking
// below the currently reserved spot count is rejected.
func (r *repository) UpdateCapacity(ctx context.Context, id uuid.UUID, newTotalSpots int) (*Venue, error) {
	var updated *Venue

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var venue Venue
		if err := tx.Clauses(lockForUpdate).
			First(&venue, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVenueNotFound
			}
			return err
		}

		reserved := venue.TotalSpots - venue.AvailableSpots
		if newTotalSpots < reserved {
			return ErrInvalidCapacityChange
		}

		delta := newTotalSpots - venue.TotalSpots
		if err := tx.Model(&Venue{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"total_spots":     newTotalSpots,
				"available_spots": gorm.Expr("available_spots + ?", delta),
			}).Error; err != nil {
			return err
		}

		venue.TotalSpots = newTotalSpots
		venue.AvailableSpots += delta
		updated = &venue
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Venue{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVenueNotFound
	}
	return nil
}

// HasActiveReservations reports whether the venue still has reservations
// in a non-terminal state.
func (r *repository) HasActiveReservations(ctx context.Context, venueID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("reservations").
		Where("venue_id = ? AND status IN ?", venueID, []string{"PENDING", "CONFIRMED", "ACTIVE"}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ============= FILTER STRUCTS =============

type VenueFilters struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search    string `form:"search"`
	City      string `form:"city"`
	Status    string `form:"status" binding:"omitempty,oneof=ACTIVE MAINTENANCE CLOSED"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=name city price_per_hour created_at updated_at"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

type PaginatedVenues struct {
	Venues     []Venue `json:"venues"`
	TotalCount int64   `json:"total_count"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"total_pages"`
}
