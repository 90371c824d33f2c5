package repository

import (
	"context"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"gorm.io/gorm"
)

type NotificationEventRepository interface {
	Create(ctx context.Context, event *entity.NotificationEvent) error
	GetPending(ctx context.Context, limit int) ([]entity.NotificationEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type notificationEventRepository struct{}

func NewNotificationEventRepository() NotificationEventRepository {
	return &notificationEventRepository{}
}

func (r *notificationEventRepository) Create(
	ctx context.Context, event *entity.NotificationEvent,
) error {
	return xcontext.DB(ctx).Create(event).Error
}

func (r *notificationEventRepository) GetPending(
	ctx context.Context, limit int,
) ([]entity.NotificationEvent, error) {
	result := []entity.NotificationEvent{}
	err := xcontext.DB(ctx).
		Where("status=?", entity.NotificationEventPending).
		Order("created_at asc").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *notificationEventRepository) MarkSent(ctx context.Context, id string) error {
	now := time.Now()
	return xcontext.DB(ctx).Model(&entity.NotificationEvent{}).
		Where("id=?", id).
		Updates(map[string]any{
			"status":   entity.NotificationEventSent,
			"sent_at":  &now,
			"attempts": gorm.Expr("attempts + 1"),
		}).Error
}

func (r *notificationEventRepository) MarkFailed(
	ctx context.Context, id string, reason string,
) error {
	return xcontext.DB(ctx).Model(&entity.NotificationEvent{}).
		Where("id=?", id).
		Updates(map[string]any{
			"status":     entity.NotificationEventFailed,
			"last_error": reason,
			"attempts":   gorm.Expr("attempts + 1"),
		}).Error
}
