package repository

import (
	"context"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type CollectiveRepository interface {
	Create(ctx context.Context, collective *entity.Collective) error
	GetByID(ctx context.Context, id string) (*entity.Collective, error)
	GetByRewardID(ctx context.Context, rewardID string) (*entity.Collective, error)
	AddReward(ctx context.Context, collectiveID, rewardID string) error
	GetMemberRewardIDs(ctx context.Context, collectiveID string) ([]string, error)
	CreateUnlocked(ctx context.Context, unlocked *entity.CollectiveUnlocked) error
	GetUnlockedByUser(ctx context.Context, userID string) ([]entity.CollectiveUnlocked, error)
}

type collectiveRepository struct{}

func NewCollectiveRepository() CollectiveRepository {
	return &collectiveRepository{}
}

func (r *collectiveRepository) Create(ctx context.Context, collective *entity.Collective) error {
	return xcontext.DB(ctx).Create(collective).Error
}

func (r *collectiveRepository) GetByID(ctx context.Context, id string) (*entity.Collective, error) {
	result := entity.Collective{}
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *collectiveRepository) GetByRewardID(
	ctx context.Context, rewardID string,
) (*entity.Collective, error) {
	result := entity.Collective{}
	err := xcontext.DB(ctx).
		Joins("JOIN collective_rewards ON collective_rewards.collective_id = collectives.id").
		Where("collective_rewards.reward_id=?", rewardID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *collectiveRepository) AddReward(ctx context.Context, collectiveID, rewardID string) error {
	return xcontext.DB(ctx).Create(&entity.CollectiveReward{
		CollectiveID: collectiveID,
		RewardID:     rewardID,
	}).Error
}

func (r *collectiveRepository) GetMemberRewardIDs(
	ctx context.Context, collectiveID string,
) ([]string, error) {
	result := []string{}
	err := xcontext.DB(ctx).Model(&entity.CollectiveReward{}).
		Where("collective_id=?", collectiveID).
		Distinct().
		Pluck("reward_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CreateUnlocked inserts the unlock row, silently keeping the existing one if
// the user already unlocked this collective.
func (r *collectiveRepository) CreateUnlocked(
	ctx context.Context, unlocked *entity.CollectiveUnlocked,
) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(unlocked).Error
}

func (r *collectiveRepository) GetUnlockedByUser(
	ctx context.Context, userID string,
) ([]entity.CollectiveUnlocked, error) {
	result := []entity.CollectiveUnlocked{}
	if err := xcontext.DB(ctx).Find(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return result, nil
}
