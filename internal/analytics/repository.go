package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetVenueOccupancy(ctx context.Context, venueID uuid.UUID) (*VenueOccupancy, error)
	GetVenueRevenue(ctx context.Context, venueID uuid.UUID, from, to time.Time) (*VenueRevenue, error)
	GetDailyReservationStats(ctx context.Context, venueID uuid.UUID, days int) ([]DailyReservationStats, error)
	GetPlatformStats(ctx context.Context) (*PlatformStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetVenueOccupancy counts reservations whose window covers the current
// moment. Pending holds count too since they occupy capacity until they
// expire or cancel.
func (r *repository) GetVenueOccupancy(ctx context.Context, venueID uuid.UUID) (*VenueOccupancy, error) {
	var occupancy VenueOccupancy

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			v.id AS venue_id,
			v.name AS venue_name,
			v.total_spots,
			COUNT(res.id) AS occupied_now
		FROM venues v
		LEFT JOIN reservations res
			ON res.venue_id = v.id
			AND res.status IN ('PENDING', 'CONFIRMED', 'ACTIVE')
			AND res.start_time <= NOW()
			AND NOW() < res.end_time
		WHERE v.id = ?
		GROUP BY v.id, v.name, v.total_spots
	`, venueID).Scan(&occupancy).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get venue occupancy: %w", err)
	}

	if occupancy.TotalSpots > 0 {
		occupancy.OccupancyRate = float64(occupancy.OccupiedNow) / float64(occupancy.TotalSpots) * 100
	}
	return &occupancy, nil
}

func (r *repository) GetVenueRevenue(ctx context.Context, venueID uuid.UUID, from, to time.Time) (*VenueRevenue, error) {
	revenue := VenueRevenue{
		VenueID: venueID.String(),
		From:    from,
		To:      to,
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(total_amount), 0) AS total_revenue,
			COUNT(id) AS reservation_count
		FROM reservations
		WHERE venue_id = ?
			AND payment_status = 'PAID'
			AND start_time >= ?
			AND start_time < ?
	`, venueID, from, to).Scan(&revenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get venue revenue: %w", err)
	}

	if revenue.ReservationCount > 0 {
		revenue.AvgReservationValue = revenue.TotalRevenue / float64(revenue.ReservationCount)
	}
	return &revenue, nil
}

func (r *repository) GetDailyReservationStats(ctx context.Context, venueID uuid.UUID, days int) ([]DailyReservationStats, error) {
	var stats []DailyReservationStats

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS date,
			COUNT(id) AS reservations,
			COUNT(id) FILTER (WHERE status = 'CANCELLED') AS cancellations,
			COALESCE(SUM(total_amount) FILTER (WHERE payment_status = 'PAID'), 0) AS revenue
		FROM reservations
		WHERE venue_id = ?
			AND created_at >= NOW() - (? || ' days')::INTERVAL
		GROUP BY DATE(created_at)
		ORDER BY DATE(created_at)
	`, venueID, days).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get daily reservation stats: %w", err)
	}

	return stats, nil
}

func (r *repository) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{GeneratedAt: time.Now()}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(id) FROM users) AS total_users,
			(SELECT COUNT(id) FROM venues) AS total_venues,
			(SELECT COALESCE(SUM(total_spots), 0) FROM venues) AS total_spots,
			(SELECT COUNT(id) FROM reservations) AS total_reservations,
			(SELECT COUNT(id) FROM reservations WHERE status IN ('PENDING', 'CONFIRMED', 'ACTIVE')) AS active_reservations,
			(SELECT COALESCE(SUM(total_amount), 0) FROM reservations WHERE payment_status = 'PAID') AS total_revenue
	`).Scan(stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get platform totals: %w", err)
	}

	var cancellation struct {
		Total     int64
		Cancelled int64
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(id) AS total,
			COUNT(id) FILTER (WHERE status = 'CANCELLED') AS cancelled
		FROM reservations
	`).Scan(&cancellation).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get cancellation rate: %w", err)
	}
	if cancellation.Total > 0 {
		stats.CancellationRate = float64(cancellation.Cancelled) / float64(cancellation.Total) * 100
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT
			v.id AS venue_id,
			v.name AS venue_name,
			v.city,
			v.total_spots,
			COUNT(res.id) AS reservation_count,
			COALESCE(SUM(res.total_amount) FILTER (WHERE res.payment_status = 'PAID'), 0) AS total_revenue
		FROM venues v
		LEFT JOIN reservations res ON res.venue_id = v.id
		GROUP BY v.id, v.name, v.city, v.total_spots
		ORDER BY total_revenue DESC
		LIMIT 10
	`).Scan(&stats.TopVenuesByRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top venues: %w", err)
	}

	return stats, nil
}
