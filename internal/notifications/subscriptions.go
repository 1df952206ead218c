package notifications

import (
	"context"
	"fmt"

	"parkly/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SpotAlertStore tracks which users want an email when a fully booked
// venue frees a spot. Backed by a Redis set per venue so subscribe and
// unsubscribe stay O(1) and the whole set can be drained atomically on
// fan-out.
type SpotAlertStore struct {
	client *redis.Client
}

func NewSpotAlertStore(client *redis.Client) *SpotAlertStore {
	return &SpotAlertStore{client: client}
}

func spotAlertKey(venueID uuid.UUID) string {
	return constants.KEY_SPOT_ALERTS + venueID.String()
}

// Subscribe registers a user for a one-shot spot-available alert.
func (s *SpotAlertStore) Subscribe(ctx context.Context, venueID, userID uuid.UUID) error {
	key := spotAlertKey(venueID)

	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, key, userID.String())
	pipe.Expire(ctx, key, constants.TTL_SPOT_ALERT_SET)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to subscribe user %s to venue %s alerts: %w", userID, venueID, err)
	}
	return nil
}

// Unsubscribe removes a user's pending alert.
func (s *SpotAlertStore) Unsubscribe(ctx context.Context, venueID, userID uuid.UUID) error {
	if err := s.client.SRem(ctx, spotAlertKey(venueID), userID.String()).Err(); err != nil {
		return fmt.Errorf("failed to unsubscribe user %s from venue %s alerts: %w", userID, venueID, err)
	}
	return nil
}

// IsSubscribed reports whether the user has a pending alert for the venue.
func (s *SpotAlertStore) IsSubscribed(ctx context.Context, venueID, userID uuid.UUID) (bool, error) {
	subscribed, err := s.client.SIsMember(ctx, spotAlertKey(venueID), userID.String()).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check alert subscription: %w", err)
	}
	return subscribed, nil
}

// Drain returns all subscribed user IDs for the venue and deletes the set.
// Alerts are one-shot: a user who still cares re-subscribes.
func (s *SpotAlertStore) Drain(ctx context.Context, venueID uuid.UUID) ([]uuid.UUID, error) {
	key := spotAlertKey(venueID)

	pipe := s.client.TxPipeline()
	membersCmd := pipe.SMembers(ctx, key)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to drain alert subscribers for venue %s: %w", venueID, err)
	}

	members := membersCmd.Val()
	userIDs := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		userID, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		userIDs = append(userIDs, userID)
	}
	return userIDs, nil
}
