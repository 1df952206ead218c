package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"parkly/internal/reservations"
	"parkly/internal/shared/config"
	"parkly/internal/venues"
	"parkly/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// UserDirectory resolves recipient contact details.
// Satisfied by auth.UserServiceAdapter.
type UserDirectory interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (email, firstName, lastName string, err error)
}

// VenueDirectory resolves venue details for email content.
// Satisfied by venues.Service.
type VenueDirectory interface {
	GetVenueByID(ctx context.Context, id uuid.UUID) (*venues.VenueResponse, error)
}

// Service runs the notification pipeline: capacity and reservation events
// go through Kafka to consumer workers that deliver email. It also owns
// the spot-alert subscription store.
//
// The Notify* methods implement reservations.Notifier. They never return
// errors; a lost email must not affect a reservation transition.
type Service struct {
	config       *config.Config
	producer     NotificationProducer
	consumer     NotificationConsumer
	publisher    *NotificationPublisher
	emailService EmailService
	alerts       *SpotAlertStore
	users        UserDirectory
	venues       VenueDirectory
	logger       *logger.Logger

	isRunning bool
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewService(cfg *config.Config, redisClient *redis.Client, users UserDirectory, venueDir VenueDirectory) (*Service, error) {
	var emailService EmailService
	if cfg.Email.SMTPHost != "" && cfg.Email.SMTPUsername != "" {
		smtpService, err := NewSMTPEmailService(&SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			UseTLS:    true,
		})
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
		}
		emailService = smtpService
	} else {
		emailService = NewLogEmailService()
	}

	service := &Service{
		config:       cfg,
		emailService: emailService,
		alerts:       NewSpotAlertStore(redisClient),
		users:        users,
		venues:       venueDir,
		logger:       logger.GetDefault(),
	}
	service.ctx, service.cancel = context.WithCancel(context.Background())

	if cfg.Kafka.Enabled {
		producerConfig := DefaultKafkaProducerConfig()
		producerConfig.Brokers = cfg.Kafka.Brokers
		producerConfig.NotificationTopic = cfg.Kafka.NotificationTopic
		producerConfig.DLQTopic = cfg.Kafka.DLQTopic

		producer, err := NewKafkaNotificationProducer(producerConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create notification producer: %w", err)
		}

		consumerConfig := DefaultConsumerConfig()
		consumerConfig.Brokers = cfg.Kafka.Brokers
		consumerConfig.Topics = []string{cfg.Kafka.NotificationTopic}
		consumerConfig.GroupID = cfg.Kafka.ConsumerGroupID

		consumer, err := NewKafkaNotificationConsumer(consumerConfig, emailService)
		if err != nil {
			return nil, fmt.Errorf("failed to create notification consumer: %w", err)
		}

		service.producer = producer
		service.consumer = consumer
		service.publisher = NewNotificationPublisher(producer)
	}

	return service, nil
}

func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("notification service is already running")
	}

	if s.consumer != nil {
		if err := s.consumer.StartConsumers(s.ctx, s.config.Kafka.NumConsumerWorkers); err != nil {
			return fmt.Errorf("failed to start consumers: %w", err)
		}
	}

	s.isRunning = true
	return nil
}

func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return fmt.Errorf("notification service is not running")
	}

	s.cancel()

	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			s.logger.ErrorWithContext(context.Background(), "failed to stop notification consumer", err, nil)
		}
	}
	if s.producer != nil {
		if err := s.producer.Close(); err != nil {
			s.logger.ErrorWithContext(context.Background(), "failed to close notification producer", err, nil)
		}
	}

	s.isRunning = false
	return nil
}

func (s *Service) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	isRunning := s.isRunning
	s.mu.RUnlock()

	if !isRunning {
		return fmt.Errorf("notification service is not running")
	}
	if s.producer != nil {
		if err := s.producer.HealthCheck(ctx); err != nil {
			return fmt.Errorf("producer health check failed: %w", err)
		}
	}
	if s.consumer != nil {
		if err := s.consumer.HealthCheck(ctx); err != nil {
			return fmt.Errorf("consumer health check failed: %w", err)
		}
	}
	return nil
}

// SubscribeSpotAlert registers a user for a one-shot alert when the venue
// frees a spot.
func (s *Service) SubscribeSpotAlert(ctx context.Context, venueID, userID uuid.UUID) error {
	if _, err := s.venues.GetVenueByID(ctx, venueID); err != nil {
		return err
	}
	return s.alerts.Subscribe(ctx, venueID, userID)
}

// UnsubscribeSpotAlert removes a user's pending alert for the venue.
func (s *Service) UnsubscribeSpotAlert(ctx context.Context, venueID, userID uuid.UUID) error {
	return s.alerts.Unsubscribe(ctx, venueID, userID)
}

// NotifySpotAvailable fans out a spot-available alert to every subscribed
// user. The subscription set is drained first so a flurry of releases
// emails each subscriber at most once.
func (s *Service) NotifySpotAvailable(ctx context.Context, venueID uuid.UUID, venueName string, availableSpots int) {
	subscribers, err := s.alerts.Drain(ctx, venueID)
	if err != nil {
		s.logger.ErrorWithContext(ctx, "failed to drain spot alert subscribers", err,
			map[string]interface{}{"venue_id": venueID.String()})
		return
	}
	if len(subscribers) == 0 {
		return
	}

	notifications := make([]*EmailNotification, 0, len(subscribers))
	for _, userID := range subscribers {
		email, firstName, lastName, err := s.users.GetUserByID(ctx, userID)
		if err != nil {
			s.logger.ErrorWithContext(ctx, "failed to resolve alert subscriber", err,
				map[string]interface{}{"user_id": userID.String()})
			continue
		}

		notifications = append(notifications, NewNotificationBuilder(NotificationTypeSpotAvailable).
			WithRecipient(userID, email, firstName+" "+lastName).
			WithSubject(generateSubject(NotificationTypeSpotAvailable, venueName)).
			WithVenue(venueID).
			WithTemplateData("venue_name", venueName).
			WithTemplateData("available_spots", availableSpots).
			WithExpiry(time.Now().Add(30*time.Minute)).
			Build())
	}

	s.dispatchBatch(ctx, notifications)

	s.logger.InfoWithContext(ctx, "spot available alerts dispatched", map[string]interface{}{
		"venue_id":        venueID.String(),
		"subscribers":     len(notifications),
		"available_spots": availableSpots,
	})
}

// NotifyReservationConfirmed emails the booking user their confirmation.
func (s *Service) NotifyReservationConfirmed(ctx context.Context, reservation *reservations.Reservation) {
	s.sendReservationEmail(ctx, reservation, NotificationTypeReservationConfirmed)
}

// NotifyReservationCancelled emails the booking user about the cancellation.
func (s *Service) NotifyReservationCancelled(ctx context.Context, reservation *reservations.Reservation) {
	s.sendReservationEmail(ctx, reservation, NotificationTypeReservationCancelled)
}

func (s *Service) sendReservationEmail(ctx context.Context, reservation *reservations.Reservation, notificationType NotificationType) {
	email, firstName, lastName, err := s.users.GetUserByID(ctx, reservation.UserID)
	if err != nil {
		s.logger.ErrorWithContext(ctx, "failed to resolve reservation recipient", err,
			map[string]interface{}{"reservation_id": reservation.ID.String()})
		return
	}

	venueName := ""
	if venue, venueErr := s.venues.GetVenueByID(ctx, reservation.VenueID); venueErr == nil {
		venueName = venue.Name
	}

	notification := NewNotificationBuilder(notificationType).
		WithRecipient(reservation.UserID, email, firstName+" "+lastName).
		WithSubject(generateSubject(notificationType, venueName)).
		WithVenue(reservation.VenueID).
		WithReservation(reservation.ID).
		WithTemplateData("venue_name", venueName).
		WithTemplateData("reservation_ref", reservation.ReservationRef).
		WithTemplateData("start_time", reservation.StartTime.Format(time.RFC1123)).
		WithTemplateData("end_time", reservation.EndTime.Format(time.RFC1123)).
		WithTemplateData("total_amount", fmt.Sprintf("%.2f", reservation.TotalAmount)).
		Build()

	s.dispatch(ctx, notification)
}

// dispatch routes through Kafka when configured, otherwise delivers
// directly. Failures are logged and swallowed.
func (s *Service) dispatch(ctx context.Context, notification *EmailNotification) {
	var err error
	if s.producer != nil {
		err = s.producer.PublishNotification(ctx, notification)
	} else {
		err = s.emailService.SendNotification(ctx, notification)
	}
	if err != nil {
		s.logger.ErrorWithContext(ctx, "failed to dispatch notification", err, map[string]interface{}{
			"notification_id": notification.ID.String(),
			"type":            string(notification.Type),
		})
	}
}

func (s *Service) dispatchBatch(ctx context.Context, notifications []*EmailNotification) {
	if len(notifications) == 0 {
		return
	}

	if s.producer != nil {
		if err := s.producer.PublishBatchNotifications(ctx, notifications); err != nil {
			s.logger.ErrorWithContext(ctx, "failed to dispatch notification batch", err, map[string]interface{}{
				"count": len(notifications),
			})
		}
		return
	}

	for _, notification := range notifications {
		s.dispatch(ctx, notification)
	}
}
