package notifications

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationBuilder(t *testing.T) {
	userID := uuid.New()
	venueID := uuid.New()
	reservationID := uuid.New()
	expiry := time.Now().Add(30 * time.Minute)

	n := NewNotificationBuilder(NotificationTypeSpotAvailable).
		WithRecipient(userID, "driver@example.com", "Jordan Lee").
		WithSubject("A spot opened up").
		WithVenue(venueID).
		WithReservation(reservationID).
		WithTemplateData("venue_name", "Downtown Central Garage").
		WithExpiry(expiry).
		Build()

	assert.NotEqual(t, uuid.Nil, n.ID)
	assert.Equal(t, NotificationTypeSpotAvailable, n.Type)
	assert.Equal(t, PriorityHigh, n.Priority)
	assert.Equal(t, NotificationStatusPending, n.Status)
	assert.Equal(t, userID, n.RecipientID)
	assert.Equal(t, "driver@example.com", n.RecipientEmail)
	assert.Equal(t, venueID, n.VenueID)
	require.NotNil(t, n.ReservationID)
	assert.Equal(t, reservationID, *n.ReservationID)
	assert.Equal(t, "Downtown Central Garage", n.TemplateData["venue_name"])
	require.NotNil(t, n.ExpiresAt)
	assert.Equal(t, 3, n.MaxRetries)
}

func TestGetDefaultPriority(t *testing.T) {
	assert.Equal(t, PriorityHigh, GetDefaultPriority(NotificationTypeSpotAvailable))
	assert.Equal(t, PriorityNormal, GetDefaultPriority(NotificationTypeReservationConfirmed))
	assert.Equal(t, PriorityNormal, GetDefaultPriority(NotificationTypeReservationCancelled))
	assert.Equal(t, PriorityLow, GetDefaultPriority(NotificationTypeReservationCompleted))
}

func TestGetPartitionKey(t *testing.T) {
	userID := uuid.New()
	a := NewNotificationBuilder(NotificationTypeSpotAvailable).
		WithRecipient(userID, "a@example.com", "A").Build()
	b := NewNotificationBuilder(NotificationTypeReservationConfirmed).
		WithRecipient(userID, "a@example.com", "A").Build()

	// Same recipient, same partition, regardless of type
	assert.Equal(t, a.GetPartitionKey(), b.GetPartitionKey())
	assert.Equal(t, userID.String(), a.GetPartitionKey())
}

func TestExpiryAndRetryWindow(t *testing.T) {
	n := NewNotificationBuilder(NotificationTypeSpotAvailable).Build()

	assert.False(t, n.IsExpired())
	assert.True(t, n.ShouldRetry())

	n.IncrementRetry()
	n.IncrementRetry()
	assert.True(t, n.ShouldRetry())
	n.IncrementRetry()
	assert.False(t, n.ShouldRetry())

	expired := NewNotificationBuilder(NotificationTypeSpotAvailable).
		WithExpiry(time.Now().Add(-time.Minute)).Build()
	assert.True(t, expired.IsExpired())
	assert.False(t, expired.ShouldRetry())
}

func TestMarkSentAndFailed(t *testing.T) {
	n := NewNotificationBuilder(NotificationTypeReservationConfirmed).Build()

	n.MarkSent()
	assert.Equal(t, NotificationStatusSent, n.Status)
	require.NotNil(t, n.SentAt)

	n2 := NewNotificationBuilder(NotificationTypeReservationConfirmed).Build()
	n2.MarkFailed(errors.New("smtp: connection refused"))
	assert.Equal(t, NotificationStatusFailed, n2.Status)
	assert.Equal(t, "smtp: connection refused", n2.LastError)
}
