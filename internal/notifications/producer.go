package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

type NotificationProducer interface {
	PublishNotification(ctx context.Context, notification *EmailNotification) error
	PublishBatchNotifications(ctx context.Context, notifications []*EmailNotification) error
	Close() error
	HealthCheck(ctx context.Context) error
}

type KafkaProducerConfig struct {
	Brokers           []string
	NotificationTopic string
	DLQTopic          string
	RetryMax          int
	RetryBackoff      time.Duration
	FlushFrequency    time.Duration
	FlushMessages     int
}

func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:           []string{"localhost:9092"},
		NotificationTopic: "parkly-notifications",
		DLQTopic:          "parkly-notifications-dlq",
		RetryMax:          3,
		RetryBackoff:      100 * time.Millisecond,
		FlushFrequency:    500 * time.Millisecond,
		FlushMessages:     100,
	}
}

type KafkaNotificationProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

func NewKafkaNotificationProducer(config *KafkaProducerConfig) (NotificationProducer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Retry.Backoff = config.RetryBackoff
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Flush.Frequency = config.FlushFrequency
	saramaConfig.Producer.Flush.Messages = config.FlushMessages
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	// Idempotent writes need exactly one in-flight request per broker
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &KafkaNotificationProducer{
		producer: producer,
		config:   config,
	}, nil
}

func (p *KafkaNotificationProducer) PublishNotification(ctx context.Context, notification *EmailNotification) error {
	payload, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize notification %s: %w", notification.ID, err)
	}

	message := &sarama.ProducerMessage{
		Topic:   p.config.NotificationTopic,
		Key:     sarama.StringEncoder(notification.GetPartitionKey()),
		Value:   sarama.ByteEncoder(payload),
		Headers: createHeaders(notification),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish notification %s: %w", notification.ID, err)
	}

	log.Printf("notification %s (%s) published to partition %d offset %d",
		notification.ID, notification.Type, partition, offset)
	return nil
}

func (p *KafkaNotificationProducer) PublishBatchNotifications(ctx context.Context, notifications []*EmailNotification) error {
	if len(notifications) == 0 {
		return nil
	}

	messages := make([]*sarama.ProducerMessage, 0, len(notifications))
	for _, notification := range notifications {
		payload, err := notification.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to serialize notification %s: %w", notification.ID, err)
		}

		messages = append(messages, &sarama.ProducerMessage{
			Topic:   p.config.NotificationTopic,
			Key:     sarama.StringEncoder(notification.GetPartitionKey()),
			Value:   sarama.ByteEncoder(payload),
			Headers: createHeaders(notification),
		})
	}

	if err := p.producer.SendMessages(messages); err != nil {
		return fmt.Errorf("failed to publish notification batch: %w", err)
	}

	log.Printf("published batch of %d notifications", len(messages))
	return nil
}

func (p *KafkaNotificationProducer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

func (p *KafkaNotificationProducer) HealthCheck(ctx context.Context) error {
	if p.producer == nil {
		return fmt.Errorf("kafka producer not initialized")
	}
	return nil
}

func createHeaders(notification *EmailNotification) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		{Key: []byte("notification_type"), Value: []byte(notification.Type)},
		{Key: []byte("priority"), Value: []byte(notification.Priority)},
		{Key: []byte("created_at"), Value: []byte(notification.CreatedAt.Format(time.RFC3339))},
	}
}

// NotificationPublisher wraps the producer with parking-aware helpers so
// callers do not assemble EmailNotification structs by hand.
type NotificationPublisher struct {
	producer NotificationProducer
}

func NewNotificationPublisher(producer NotificationProducer) *NotificationPublisher {
	return &NotificationPublisher{producer: producer}
}

// PublishSpotAvailableNotification sends a spot-available alert. The alert
// expires quickly since the freed spot may be rebooked at any moment.
func (np *NotificationPublisher) PublishSpotAvailableNotification(ctx context.Context, userID uuid.UUID, email, name string,
	venueID uuid.UUID, venueName string, availableSpots int) error {

	notification := NewNotificationBuilder(NotificationTypeSpotAvailable).
		WithRecipient(userID, email, name).
		WithSubject(generateSubject(NotificationTypeSpotAvailable, venueName)).
		WithVenue(venueID).
		WithTemplateData("venue_name", venueName).
		WithTemplateData("available_spots", availableSpots).
		WithExpiry(time.Now().Add(30 * time.Minute)).
		Build()

	return np.producer.PublishNotification(ctx, notification)
}

// PublishReservationNotification sends a reservation lifecycle email
// (confirmed, cancelled, completed).
func (np *NotificationPublisher) PublishReservationNotification(ctx context.Context, userID uuid.UUID, email, name string,
	reservationID, venueID uuid.UUID, notificationType NotificationType,
	templateData map[string]interface{}) error {

	builder := NewNotificationBuilder(notificationType).
		WithRecipient(userID, email, name).
		WithSubject(generateSubject(notificationType, fmt.Sprintf("%v", templateData["venue_name"]))).
		WithVenue(venueID).
		WithReservation(reservationID)

	for key, value := range templateData {
		builder.WithTemplateData(key, value)
	}

	return np.producer.PublishNotification(ctx, builder.Build())
}

func generateSubject(notificationType NotificationType, venueName string) string {
	switch notificationType {
	case NotificationTypeSpotAvailable:
		return fmt.Sprintf("A parking spot just opened up at %s", venueName)
	case NotificationTypeReservationConfirmed:
		return fmt.Sprintf("Your parking reservation at %s is confirmed", venueName)
	case NotificationTypeReservationCancelled:
		return fmt.Sprintf("Your parking reservation at %s was cancelled", venueName)
	case NotificationTypeReservationCompleted:
		return fmt.Sprintf("Thanks for parking with us at %s", venueName)
	default:
		return "Parkly notification"
	}
}
