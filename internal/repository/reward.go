package repository

import (
	"context"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

type RewardFilter struct {
	Type        entity.RewardType
	OnlyEnabled bool
}

type RewardRepository interface {
	Create(ctx context.Context, reward *entity.Reward) error
	GetByID(ctx context.Context, id string) (*entity.Reward, error)
	GetByName(ctx context.Context, name string) (*entity.Reward, error)
	GetList(ctx context.Context, filter *RewardFilter) ([]entity.Reward, error)
	Update(ctx context.Context, reward *entity.Reward) error
	DeleteByID(ctx context.Context, id string) error
}

type rewardRepository struct{}

func NewRewardRepository() RewardRepository {
	return &rewardRepository{}
}

func (r *rewardRepository) Create(ctx context.Context, reward *entity.Reward) error {
	return xcontext.DB(ctx).Create(reward).Error
}

func (r *rewardRepository) GetByID(ctx context.Context, id string) (*entity.Reward, error) {
	result := entity.Reward{}
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *rewardRepository) GetByName(ctx context.Context, name string) (*entity.Reward, error) {
	result := entity.Reward{}
	if err := xcontext.DB(ctx).Take(&result, "name=?", name).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *rewardRepository) GetList(ctx context.Context, filter *RewardFilter) ([]entity.Reward, error) {
	tx := xcontext.DB(ctx)
	if filter != nil {
		if filter.Type != "" {
			tx = tx.Where("type=?", filter.Type)
		}

		if filter.OnlyEnabled {
			tx = tx.Where("is_enabled=?", true)
		}
	}

	result := []entity.Reward{}
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *rewardRepository) Update(ctx context.Context, reward *entity.Reward) error {
	return xcontext.DB(ctx).Save(reward).Error
}

func (r *rewardRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Reward{}, "id=?", id).Error
}
