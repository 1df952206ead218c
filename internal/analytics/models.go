package analytics

import "time"

// VenueOccupancy is the live picture of one venue: how many reservations
// overlap the current moment versus installed capacity.
type VenueOccupancy struct {
	VenueID       string  `json:"venue_id"`
	VenueName     string  `json:"venue_name"`
	TotalSpots    int     `json:"total_spots"`
	OccupiedNow   int     `json:"occupied_now"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

// VenueRevenue aggregates paid reservations over a date range.
type VenueRevenue struct {
	VenueID             string    `json:"venue_id"`
	From                time.Time `json:"from"`
	To                  time.Time `json:"to"`
	TotalRevenue        float64   `json:"total_revenue"`
	ReservationCount    int64     `json:"reservation_count"`
	AvgReservationValue float64   `json:"avg_reservation_value"`
}

// DailyReservationStats is one point in the reservations-per-day series.
type DailyReservationStats struct {
	Date          string  `json:"date"`
	Reservations  int64   `json:"reservations"`
	Cancellations int64   `json:"cancellations"`
	Revenue       float64 `json:"revenue"`
}

// VenueDashboard bundles everything a venue owner's dashboard page needs.
type VenueDashboard struct {
	Occupancy   VenueOccupancy          `json:"occupancy"`
	Revenue     VenueRevenue            `json:"revenue_30d"`
	DailySeries []DailyReservationStats `json:"daily_series"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// VenuePerformance ranks venues by revenue for the platform dashboard.
type VenuePerformance struct {
	VenueID          string  `json:"venue_id"`
	VenueName        string  `json:"venue_name"`
	City             string  `json:"city"`
	TotalSpots       int     `json:"total_spots"`
	ReservationCount int64   `json:"reservation_count"`
	TotalRevenue     float64 `json:"total_revenue"`
}

// PlatformStats is the super-admin platform-wide dashboard.
type PlatformStats struct {
	TotalUsers         int64              `json:"total_users"`
	TotalVenues        int64              `json:"total_venues"`
	TotalSpots         int64              `json:"total_spots"`
	TotalReservations  int64              `json:"total_reservations"`
	ActiveReservations int64              `json:"active_reservations"`
	TotalRevenue       float64            `json:"total_revenue"`
	CancellationRate   float64            `json:"cancellation_rate"`
	TopVenuesByRevenue []VenuePerformance `json:"top_venues_by_revenue"`
	GeneratedAt        time.Time          `json:"generated_at"`
}
