package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/segyhp/lab-loan-engine/internal/auth"
	"github.com/segyhp/lab-loan-engine/internal/domain"
	"github.com/segyhp/lab-loan-engine/internal/repository"
)

// NotificationService exposes the caller's own notifications.
type NotificationService struct {
	NotificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{NotificationRepo: notificationRepo}
}

func (s *NotificationService) List(ctx context.Context, id auth.Identity, filter domain.NotificationFilter) ([]*domain.Notification, int, error) {
	if err := auth.Authorize(id, auth.ResourceNotification, auth.ActionList); err != nil {
		return nil, 0, err
	}
	return s.NotificationRepo.ListByUser(ctx, id.UserID, filter)
}

func (s *NotificationService) UnreadCount(ctx context.Context, id auth.Identity) (int, error) {
	if err := auth.Authorize(id, auth.ResourceNotification, auth.ActionList); err != nil {
		return 0, err
	}
	return s.NotificationRepo.CountUnread(ctx, id.UserID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id auth.Identity, notificationID uuid.UUID) error {
	if err := auth.Authorize(id, auth.ResourceNotification, auth.ActionUpdate); err != nil {
		return err
	}
	return s.NotificationRepo.MarkRead(ctx, notificationID, id.UserID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, id auth.Identity) (int, error) {
	if err := auth.Authorize(id, auth.ResourceNotification, auth.ActionUpdate); err != nil {
		return 0, err
	}
	return s.NotificationRepo.MarkAllRead(ctx, id.UserID)
}

func (s *NotificationService) Delete(ctx context.Context, id auth.Identity, notificationID uuid.UUID) error {
	if err := auth.Authorize(id, auth.ResourceNotification, auth.ActionDelete); err != nil {
		return err
	}
	return s.NotificationRepo.Delete(ctx, notificationID, id.UserID)
}
