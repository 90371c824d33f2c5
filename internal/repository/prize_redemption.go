package repository

import (
	"context"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

type RedemptionStatusCount struct {
	Status entity.RedemptionStatus
	Total  int64
}

type PrizeRedemptionRepository interface {
	Create(ctx context.Context, redemption *entity.PrizeRedemption) error
	GetByID(ctx context.Context, id string) (*entity.PrizeRedemption, error)
	GetByAwardID(ctx context.Context, awardID string) (*entity.PrizeRedemption, error)
	GetByUser(ctx context.Context, userID string, offset, limit int) ([]entity.PrizeRedemption, error)
	Update(ctx context.Context, redemption *entity.PrizeRedemption) error
	CreateHistory(ctx context.Context, history *entity.RedemptionStatusHistory) error
	GetHistory(ctx context.Context, redemptionID string) ([]entity.RedemptionStatusHistory, error)
	CountByStatus(ctx context.Context) ([]RedemptionStatusCount, error)
	CountByPrize(ctx context.Context, prizeID string) (int64, error)
	GetCompleted(ctx context.Context) ([]entity.PrizeRedemption, error)
}

type prizeRedemptionRepository struct{}

func NewPrizeRedemptionRepository() PrizeRedemptionRepository {
	return &prizeRedemptionRepository{}
}

func (r *prizeRedemptionRepository) Create(
	ctx context.Context, redemption *entity.PrizeRedemption,
) error {
	return xcontext.DB(ctx).Create(redemption).Error
}

func (r *prizeRedemptionRepository) GetByID(
	ctx context.Context, id string,
) (*entity.PrizeRedemption, error) {
	result := entity.PrizeRedemption{}
	if err := xcontext.DB(ctx).Preload("Award").Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *prizeRedemptionRepository) GetByAwardID(
	ctx context.Context, awardID string,
) (*entity.PrizeRedemption, error) {
	result := entity.PrizeRedemption{}
	if err := xcontext.DB(ctx).Take(&result, "award_id=?", awardID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *prizeRedemptionRepository) GetByUser(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.PrizeRedemption, error) {
	result := []entity.PrizeRedemption{}
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *prizeRedemptionRepository) Update(
	ctx context.Context, redemption *entity.PrizeRedemption,
) error {
	return xcontext.DB(ctx).Save(redemption).Error
}

func (r *prizeRedemptionRepository) CreateHistory(
	ctx context.Context, history *entity.RedemptionStatusHistory,
) error {
	return xcontext.DB(ctx).Create(history).Error
}

func (r *prizeRedemptionRepository) GetHistory(
	ctx context.Context, redemptionID string,
) ([]entity.RedemptionStatusHistory, error) {
	result := []entity.RedemptionStatusHistory{}
	err := xcontext.DB(ctx).
		Where("redemption_id=?", redemptionID).
		Order("created_at asc").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *prizeRedemptionRepository) CountByStatus(
	ctx context.Context,
) ([]RedemptionStatusCount, error) {
	result := []RedemptionStatusCount{}
	err := xcontext.DB(ctx).Model(&entity.PrizeRedemption{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *prizeRedemptionRepository) CountByPrize(
	ctx context.Context, prizeID string,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.PrizeRedemption{}).
		Joins("JOIN prize_awards ON prize_awards.id = prize_redemptions.award_id").
		Where("prize_awards.prize_id=?", prizeID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *prizeRedemptionRepository) GetCompleted(
	ctx context.Context,
) ([]entity.PrizeRedemption, error) {
	result := []entity.PrizeRedemption{}
	err := xcontext.DB(ctx).
		Where("status=?", entity.RedemptionCompleted).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
