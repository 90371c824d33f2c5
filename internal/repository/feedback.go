package repository

import (
	"context"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	Exists(ctx context.Context, giverID string, targetType entity.FeedbackTargetType, targetID string) (bool, error)
	GetByReceiver(ctx context.Context, receiverID string, offset, limit int) ([]entity.Feedback, error)
}

type feedbackRepository struct{}

func NewFeedbackRepository() FeedbackRepository {
	return &feedbackRepository{}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	return xcontext.DB(ctx).Create(feedback).Error
}

func (r *feedbackRepository) Exists(
	ctx context.Context,
	giverID string,
	targetType entity.FeedbackTargetType,
	targetID string,
) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Feedback{}).
		Where("giver_id=? AND target_type=? AND target_id=?", giverID, targetType, targetID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *feedbackRepository) GetByReceiver(
	ctx context.Context, receiverID string, offset, limit int,
) ([]entity.Feedback, error) {
	result := []entity.Feedback{}
	err := xcontext.DB(ctx).
		Where("receiver_id=?", receiverID).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
