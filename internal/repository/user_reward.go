package repository

import (
	"context"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

type UserRewardRepository interface {
	Create(ctx context.Context, award *entity.UserReward) error
	GetByID(ctx context.Context, id string) (*entity.UserReward, error)
	GetByUserAndReward(ctx context.Context, userID, rewardID string) ([]entity.UserReward, error)
	GetLast(ctx context.Context, userID, rewardID string) (*entity.UserReward, error)
	GetListByUser(ctx context.Context, userID string, offset, limit int) ([]entity.UserReward, error)
	CountDistinctRewards(ctx context.Context, userID string, rewardIDs []string) (int64, error)
	GetRecentReceiverIDs(ctx context.Context, rewardID string, since time.Time) ([]string, error)
	Revoke(ctx context.Context, id, revokedBy, reason string) error
}

type userRewardRepository struct{}

func NewUserRewardRepository() UserRewardRepository {
	return &userRewardRepository{}
}

func (r *userRewardRepository) Create(ctx context.Context, award *entity.UserReward) error {
	return xcontext.DB(ctx).Create(award).Error
}

func (r *userRewardRepository) GetByID(ctx context.Context, id string) (*entity.UserReward, error) {
	result := entity.UserReward{}
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRewardRepository) GetByUserAndReward(
	ctx context.Context, userID, rewardID string,
) ([]entity.UserReward, error) {
	result := []entity.UserReward{}
	if err := xcontext.DB(ctx).
		Where("receiver_id=? AND reward_id=? AND revoked_at IS NULL", userID, rewardID).
		Order("awarded_at desc").
		Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRewardRepository) GetLast(
	ctx context.Context, userID, rewardID string,
) (*entity.UserReward, error) {
	result := entity.UserReward{}
	if err := xcontext.DB(ctx).
		Where("receiver_id=? AND reward_id=? AND revoked_at IS NULL", userID, rewardID).
		Order("awarded_at desc").
		First(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRewardRepository) GetListByUser(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.UserReward, error) {
	result := []entity.UserReward{}
	if err := xcontext.DB(ctx).
		Where("receiver_id=?", userID).
		Order("awarded_at desc").
		Offset(offset).Limit(limit).
		Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRewardRepository) CountDistinctRewards(
	ctx context.Context, userID string, rewardIDs []string,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.UserReward{}).
		Where("receiver_id=? AND reward_id IN (?) AND revoked_at IS NULL", userID, rewardIDs).
		Distinct("reward_id").
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *userRewardRepository) GetRecentReceiverIDs(
	ctx context.Context, rewardID string, since time.Time,
) ([]string, error) {
	result := []string{}
	err := xcontext.DB(ctx).Model(&entity.UserReward{}).
		Where("reward_id=? AND awarded_at >= ?", rewardID, since).
		Distinct().
		Pluck("receiver_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRewardRepository) Revoke(ctx context.Context, id, revokedBy, reason string) error {
	now := time.Now()
	return xcontext.DB(ctx).Model(&entity.UserReward{}).
		Where("id=? AND revoked_at IS NULL", id).
		Updates(map[string]any{
			"revoked_at":     &now,
			"revoked_by":     revokedBy,
			"revoked_reason": reason,
		}).Error
}
