package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate is applied to reads that must serialize capacity
// decisions on a row.
var lockForUpdate = clause.Locking{Strength: clause.LockingStrengthUpdate}

// TransitionResult carries the state after a lifecycle transition,
// including the venue's availability counter when the transition
// released a spot.
type TransitionResult struct {
	Reservation      *Reservation
	CapacityRestored bool
	AvailableAfter   int
}

type Repository interface {
	// Reservation creation with atomic capacity validation
	CreateReservationWithCapacityCheck(ctx context.Context, reservation *Reservation) error

	// Reads
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetUserReservations(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Reservation, int64, error)
	GetVenueReservations(ctx context.Context, venueID uuid.UUID, query ListQuery) ([]Reservation, int64, error)
	CountOverlapping(ctx context.Context, venueID uuid.UUID, start, end time.Time) (int64, error)

	// Lifecycle transitions
	ConfirmPayment(ctx context.Context, id uuid.UUID) (*Reservation, error)
	Activate(ctx context.Context, id uuid.UUID) (*Reservation, error)
	Complete(ctx context.Context, id uuid.UUID) (*TransitionResult, error)
	Cancel(ctx context.Context, id uuid.UUID) (*TransitionResult, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// occupyingStatuses are the states that count against venue capacity.
var occupyingStatuses = []Status{StatusPending, StatusConfirmed, StatusActive}

// CreateReservationWithCapacityCheck inserts a reservation atomically:
// the venue row is locked, the overlap count is validated against
// total_spots, and the availability counter is decremented under the
// same lock.
func (r *repository) CreateReservationWithCapacityCheck(ctx context.Context, reservation *Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the venue row to serialize capacity decisions
		var venue struct {
			ID             uuid.UUID `gorm:"column:id"`
			TotalSpots     int       `gorm:"column:total_spots"`
			AvailableSpots int       `gorm:"column:available_spots"`
			Status         string    `gorm:"column:status"`
		}

		err := tx.Table("venues").
			Select("id, total_spots, available_spots, status").
			Where("id = ?", reservation.VenueID).
			Clauses(lockForUpdate).
			First(&venue).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVenueNotFound
			}
			return fmt.Errorf("failed to lock venue: %w", err)
		}

		// 2. Venue must be open for reservations
		if venue.Status != "ACTIVE" {
			return ErrVenueNotReservable
		}

		// 3. Count reservations whose window overlaps the requested one.
		// Half-open intervals: s1 < e2 AND s2 < e1, so back-to-back
		// windows never collide.
		var overlapping int64
		err = tx.Model(&Reservation{}).
			Where("venue_id = ?", reservation.VenueID).
			Where("status IN ?", occupyingStatuses).
			Where("start_time < ? AND ? < end_time", reservation.EndTime, reservation.StartTime).
			Count(&overlapping).Error
		if err != nil {
			return fmt.Errorf("failed to count overlapping reservations: %w", err)
		}

		if overlapping >= int64(venue.TotalSpots) {
			return ErrCapacityExceeded
		}

		// 4. Claim a spot from the live counter, guarded so it never
		// goes negative. The overlap count above is the authoritative
		// admission check: a full venue can still accept a future
		// window, in which case no spot is claimed now and none may be
		// released later.
		claim := tx.Table("venues").
			Where("id = ? AND available_spots > 0", reservation.VenueID).
			Update("available_spots", gorm.Expr("available_spots - 1"))
		if claim.Error != nil {
			return fmt.Errorf("failed to decrement available spots: %w", claim.Error)
		}
		reservation.SpotClaimed = claim.RowsAffected > 0

		// 5. Insert the pending reservation
		if err := tx.Create(reservation).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) GetUserReservations(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Reservation, int64, error) {
	return r.list(ctx, "user_id = ?", userID, query)
}

func (r *repository) GetVenueReservations(ctx context.Context, venueID uuid.UUID, query ListQuery) ([]Reservation, int64, error) {
	return r.list(ctx, "venue_id = ?", venueID, query)
}

func (r *repository) list(ctx context.Context, cond string, arg interface{}, query ListQuery) ([]Reservation, int64, error) {
	var reservations []Reservation
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Reservation{}).Where(cond, arg)

	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}
	if query.From != nil {
		baseQuery = baseQuery.Where("start_time >= ?", *query.From)
	}
	if query.To != nil {
		baseQuery = baseQuery.Where("end_time <= ?", *query.To)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("start_time DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&reservations).Error
	if err != nil {
		return nil, 0, err
	}

	return reservations, totalCount, nil
}

// CountOverlapping counts capacity-occupying reservations intersecting
// the half-open window [start, end).
func (r *repository) CountOverlapping(ctx context.Context, venueID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("venue_id = ?", venueID).
		Where("status IN ?", occupyingStatuses).
		Where("start_time < ? AND ? < end_time", end, start).
		Count(&count).Error
	return count, err
}

// lockReservation fetches a reservation with a row lock inside tx.
func lockReservation(tx *gorm.DB, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := tx.
		Clauses(lockForUpdate).
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to lock reservation: %w", err)
	}
	return &reservation, nil
}

// ConfirmPayment moves PENDING -> CONFIRMED and marks the payment as
// captured. Confirming an already-confirmed reservation is a no-op so
// payment webhooks can be retried safely.
func (r *repository) ConfirmPayment(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var result *Reservation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := lockReservation(tx, id)
		if err != nil {
			return err
		}

		// Idempotent re-confirmation
		if reservation.Status == StatusConfirmed && reservation.PaymentStatus == PaymentPaid {
			result = reservation
			return nil
		}

		if !reservation.Status.CanTransitionTo(StatusConfirmed) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reservation.Status, StatusConfirmed)
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"status":         StatusConfirmed,
			"payment_status": PaymentPaid,
			"confirmed_at":   now,
			"updated_at":     now,
		}
		if err := tx.Model(&Reservation{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		reservation.Status = StatusConfirmed
		reservation.PaymentStatus = PaymentPaid
		reservation.ConfirmedAt = &now
		result = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Activate moves CONFIRMED -> ACTIVE at vehicle check-in.
func (r *repository) Activate(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var result *Reservation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := lockReservation(tx, id)
		if err != nil {
			return err
		}

		if reservation.Status != StatusConfirmed || !reservation.Status.CanTransitionTo(StatusActive) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reservation.Status, StatusActive)
		}

		updates := map[string]interface{}{
			"status":     StatusActive,
			"updated_at": time.Now().UTC(),
		}
		if err := tx.Model(&Reservation{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		reservation.Status = StatusActive
		result = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Complete moves ACTIVE -> COMPLETED at check-out and releases the
// venue spot.
func (r *repository) Complete(ctx context.Context, id uuid.UUID) (*TransitionResult, error) {
	return r.releaseTransition(ctx, id, StatusCompleted, func(reservation *Reservation, updates map[string]interface{}) error {
		if reservation.Status != StatusActive {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reservation.Status, StatusCompleted)
		}
		return nil
	})
}

// Cancel moves any non-terminal reservation to CANCELLED, refunds a
// captured payment and releases the venue spot.
func (r *repository) Cancel(ctx context.Context, id uuid.UUID) (*TransitionResult, error) {
	return r.releaseTransition(ctx, id, StatusCancelled, func(reservation *Reservation, updates map[string]interface{}) error {
		if reservation.Status.IsTerminal() {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reservation.Status, StatusCancelled)
		}

		now := time.Now().UTC()
		updates["cancelled_at"] = now
		if reservation.PaymentStatus == PaymentPaid {
			updates["payment_status"] = PaymentRefunded
			reservation.PaymentStatus = PaymentRefunded
		}
		reservation.CancelledAt = &now
		return nil
	})
}

// releaseTransition performs a spot-releasing transition: it locks the
// reservation, validates via check, updates the row and increments the
// venue availability counter clamped at total_spots.
func (r *repository) releaseTransition(ctx context.Context, id uuid.UUID, to Status, check func(*Reservation, map[string]interface{}) error) (*TransitionResult, error) {
	var result *TransitionResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := lockReservation(tx, id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status":     to,
			"updated_at": time.Now().UTC(),
		}
		if err := check(reservation, updates); err != nil {
			return err
		}

		if reservation.SpotClaimed {
			updates["spot_claimed"] = false
		}

		if err := tx.Model(&Reservation{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		// Release the spot only if this reservation claimed one at
		// creation, clamped so the counter never exceeds total_spots.
		var capacityRestored bool
		if reservation.SpotClaimed {
			release := tx.Table("venues").
				Where("id = ? AND available_spots < total_spots", reservation.VenueID).
				Update("available_spots", gorm.Expr("available_spots + 1"))
			if release.Error != nil {
				return fmt.Errorf("failed to restore available spots: %w", release.Error)
			}
			capacityRestored = release.RowsAffected > 0
		}

		var availableAfter int
		err = tx.Table("venues").
			Select("available_spots").
			Where("id = ?", reservation.VenueID).
			Scan(&availableAfter).Error
		if err != nil {
			return fmt.Errorf("failed to read available spots: %w", err)
		}

		reservation.Status = to
		reservation.SpotClaimed = false
		result = &TransitionResult{
			Reservation:      reservation,
			CapacityRestored: capacityRestored,
			AvailableAfter:   availableAfter,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
