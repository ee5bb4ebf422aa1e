package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/logging"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/models"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/repo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventPublisher publishes a domain event to a topic. Implemented by
// mykafka.Producer; nil disables publishing.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

const notificationTopic = "notification_events"

// NotificationService persists per-user notifications and mirrors them to
// Kafka. It implements Notifier for the low-stock hook and cancellation
// messages.
type NotificationService struct {
	Repo     *repo.GormRepo
	Producer EventPublisher
}

func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, message string) error {
	if message == "" {
		return fmt.Errorf("%w: message is required", ErrValidation)
	}

	n := models.Notification{UserID: userID, Message: message}
	if err := s.Repo.CreateNotification(ctx, &n); err != nil {
		return err
	}

	if s.Producer != nil {
		event := map[string]any{
			"type":    "notification_created",
			"userID":  userID.String(),
			"message": message,
		}
		if err := s.Producer.PublishEvent(ctx, notificationTopic, userID.String(), event); err != nil {
			logging.FromContext(ctx).Error("notification_publish_failed",
				"user_id", userID, "error", err)
		}
	}
	return nil
}

func (s *NotificationService) GetNotificationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return s.Repo.ListNotificationsByUser(ctx, userID)
}

func (s *NotificationService) FindNotificationByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	n, err := s.Repo.GetNotification(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: notification %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	err := s.Repo.MarkNotificationRead(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: notification %s", ErrNotFound, id)
	}
	return err
}

func (s *NotificationService) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	err := s.Repo.DeleteNotification(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: notification %s", ErrNotFound, id)
	}
	return err
}
