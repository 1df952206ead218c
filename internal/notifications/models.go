package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeSpotAvailable        NotificationType = "SPOT_AVAILABLE"
	NotificationTypeReservationConfirmed NotificationType = "RESERVATION_CONFIRMED"
	NotificationTypeReservationCancelled NotificationType = "RESERVATION_CANCELLED"
	NotificationTypeReservationCompleted NotificationType = "RESERVATION_COMPLETED"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "LOW"
	PriorityNormal NotificationPriority = "NORMAL"
	PriorityHigh   NotificationPriority = "HIGH"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusSending NotificationStatus = "SENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// EmailNotification is the message carried through the Kafka notification
// topic. One message produces one email.
type EmailNotification struct {
	ID             uuid.UUID            `json:"id"`
	Type           NotificationType     `json:"type"`
	Priority       NotificationPriority `json:"priority"`
	Status         NotificationStatus   `json:"status"`
	RecipientID    uuid.UUID            `json:"recipient_id"`
	RecipientEmail string               `json:"recipient_email"`
	RecipientName  string               `json:"recipient_name"`
	Subject        string               `json:"subject"`

	// Parking context. VenueID is always set; ReservationID only for
	// reservation lifecycle notifications.
	VenueID       uuid.UUID  `json:"venue_id"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`

	TemplateData map[string]interface{} `json:"template_data,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	RetryCount int        `json:"retry_count"`
	MaxRetries int        `json:"max_retries"`
	LastError  string     `json:"last_error,omitempty"`
}

// GetDefaultPriority maps a notification type to its delivery priority.
// Spot-available alerts race against other drivers grabbing the spot.
func GetDefaultPriority(notificationType NotificationType) NotificationPriority {
	switch notificationType {
	case NotificationTypeSpotAvailable:
		return PriorityHigh
	case NotificationTypeReservationConfirmed, NotificationTypeReservationCancelled:
		return PriorityNormal
	default:
		return PriorityLow
	}
}

// GetPartitionKey returns the Kafka partition key. Keyed by recipient so
// all mail for one user lands on one partition in order.
func (n *EmailNotification) GetPartitionKey() string {
	return n.RecipientID.String()
}

func (n *EmailNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func (n *EmailNotification) IsExpired() bool {
	return n.ExpiresAt != nil && time.Now().After(*n.ExpiresAt)
}

func (n *EmailNotification) ShouldRetry() bool {
	return n.RetryCount < n.MaxRetries && !n.IsExpired()
}

func (n *EmailNotification) MarkSent() {
	now := time.Now()
	n.Status = NotificationStatusSent
	n.SentAt = &now
}

func (n *EmailNotification) MarkFailed(err error) {
	n.Status = NotificationStatusFailed
	if err != nil {
		n.LastError = err.Error()
	}
}

func (n *EmailNotification) IncrementRetry() {
	n.RetryCount++
}

// NotificationBuilder assembles an EmailNotification step by step.
type NotificationBuilder struct {
	notification *EmailNotification
}

func NewNotificationBuilder(notificationType NotificationType) *NotificationBuilder {
	return &NotificationBuilder{
		notification: &EmailNotification{
			ID:           uuid.New(),
			Type:         notificationType,
			Priority:     GetDefaultPriority(notificationType),
			Status:       NotificationStatusPending,
			TemplateData: make(map[string]interface{}),
			CreatedAt:    time.Now(),
			MaxRetries:   3,
		},
	}
}

func (b *NotificationBuilder) WithRecipient(userID uuid.UUID, email, name string) *NotificationBuilder {
	b.notification.RecipientID = userID
	b.notification.RecipientEmail = email
	b.notification.RecipientName = name
	return b
}

func (b *NotificationBuilder) WithSubject(subject string) *NotificationBuilder {
	b.notification.Subject = subject
	return b
}

func (b *NotificationBuilder) WithVenue(venueID uuid.UUID) *NotificationBuilder {
	b.notification.VenueID = venueID
	return b
}

func (b *NotificationBuilder) WithReservation(reservationID uuid.UUID) *NotificationBuilder {
	b.notification.ReservationID = &reservationID
	return b
}

func (b *NotificationBuilder) WithTemplateData(key string, value interface{}) *NotificationBuilder {
	b.notification.TemplateData[key] = value
	return b
}

func (b *NotificationBuilder) WithPriority(priority NotificationPriority) *NotificationBuilder {
	b.notification.Priority = priority
	return b
}

func (b *NotificationBuilder) WithExpiry(expiresAt time.Time) *NotificationBuilder {
	b.notification.ExpiresAt = &expiresAt
	return b
}

func (b *NotificationBuilder) Build() *EmailNotification {
	return b.notification
}
