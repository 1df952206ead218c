package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTL values for the Parkly application.
// Pattern: parkly:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static data (rarely changes)
const (
	TTL_STATIC_LONG  = 24 * time.Hour
	TTL_STATIC_SHORT = 6 * time.Hour // user profiles
)

// Semi-static data (changes occasionally)
const (
	TTL_VENUE_DETAIL = 2 * time.Hour
	TTL_VENUE_LIST   = 1 * time.Hour
	TTL_SLOT_LAYOUT  = 4 * time.Hour
)

// Dynamic data (changes frequently)
const (
	TTL_ANALYTICS    = 10 * time.Minute
	TTL_AVAILABILITY = 2 * time.Minute
)

// Highly dynamic (real-time sensitive)
const (
	TTL_LIVE_SPOT_COUNT = 30 * time.Second
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "parkly"
)

// Venue cache keys
const (
	CACHE_KEY_VENUES_LIST  = CACHE_PREFIX + ":venues:list"         // + :page:X:limit:Y:city:Z:status:S
	CACHE_KEY_VENUE_DETAIL = CACHE_PREFIX + ":venues:detail:uuid:" // + venue-id
	CACHE_KEY_VENUE_SLOTS  = CACHE_PREFIX + ":venues:slots:uuid:"  // + venue-id
)

// Analytics cache keys
const (
	CACHE_KEY_VENUE_STATS    = CACHE_PREFIX + ":analytics:venue:uuid:" // + venue-id
	CACHE_KEY_PLATFORM_STATS = CACHE_PREFIX + ":analytics:platform"
)

// Slot hold keys (written by the Lua scripts in internal/slots)
const (
	KEY_SLOT_HOLD  = CACHE_PREFIX + ":slot_hold:"  // + slot-id -> "user_id:hold_id"
	KEY_HOLD_META  = CACHE_PREFIX + ":hold:"       // + hold-id -> hash
	KEY_USER_HOLDS = CACHE_PREFIX + ":user_holds:" // + user-id -> set of hold ids
)

// Spot alert subscriptions (users waiting for a full venue to free up)
const (
	KEY_SPOT_ALERTS    = CACHE_PREFIX + ":spot_alerts:" // + venue-id -> set of user ids
	TTL_SPOT_ALERT_SET = 24 * time.Hour
)

// Cache invalidation patterns
const (
	PATTERN_INVALIDATE_VENUES_ALL   = CACHE_PREFIX + ":venues:*"
	PATTERN_INVALIDATE_VENUE_DETAIL = CACHE_PREFIX + ":venues:detail:uuid:" // + venue-id + *
	PATTERN_INVALIDATE_ANALYTICS    = CACHE_PREFIX + ":analytics:*"
)

// VenueDetailKey builds the cache key for a single venue.
func VenueDetailKey(venueID string) string {
	return CACHE_KEY_VENUE_DETAIL + venueID
}

// VenueListKey builds the cache key for a filtered venue listing.
func VenueListKey(page, limit int, city, status string) string {
	return fmt.Sprintf("%s:page:%d:limit:%d:city:%s:status:%s",
		CACHE_KEY_VENUES_LIST, page, limit, city, status)
}
