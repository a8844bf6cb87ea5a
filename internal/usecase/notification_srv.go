package usecase

import (
	"context"
	"fmt"

	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationService interface {
	GetUserNotifications(ctx context.Context, userID string, req *request.PaginatedRequest) ([]response.NotificationResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (*response.UnreadCountResponse, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

type notificationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewNotificationService(repo *repository.Repository, log *zap.Logger) NotificationService {
	return &notificationService{
		repo: repo,
		log:  log.With(zap.String("service", "notification")),
	}
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID string, req *request.PaginatedRequest) ([]response.NotificationResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	notifications, err := s.repo.Notification.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get notifications: %w", err)
	}

	responses := make([]response.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = response.NotificationToResponse(n)
	}

	return responses, nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userID string) (*response.UnreadCountResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	count, err := s.repo.Notification.CountUnread(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("count unread notifications: %w", err)
	}

	return &response.UnreadCountResponse{Unread: count}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	id, err := uuid.Parse(notificationID)
	if err != nil {
		return fmt.Errorf("invalid notification ID format %s: %w", notificationID, err)
	}

	if err := s.repo.Notification.MarkRead(ctx, id, userUUID); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	return nil
}
