package repository

import (
	"context"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

type WalletStats struct {
	TotalAwards    int64
	AvailableCount int64
	RedeemedCount  int64
	ExpiredCount   int64
	PointsSpent    int64
}

type PrizeAwardRepository interface {
	Create(ctx context.Context, award *entity.PrizeAward) error
	GetByID(ctx context.Context, id string) (*entity.PrizeAward, error)
	GetByUser(ctx context.Context, userID string, offset, limit int) ([]entity.PrizeAward, error)
	CountByUserAndPrize(ctx context.Context, userID, prizeID string) (int64, error)
	GetLastByUserAndPrize(ctx context.Context, userID, prizeID string) (*entity.PrizeAward, error)
	UpdateStatus(ctx context.Context, id string, status entity.PrizeAwardStatus) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	GetWalletStats(ctx context.Context, userID string) (*WalletStats, error)
	CountByPrize(ctx context.Context, prizeID string) (int64, error)
}

type prizeAwardRepository struct{}

func NewPrizeAwardRepository() PrizeAwardRepository {
	return &prizeAwardRepository{}
}

func (r *prizeAwardRepository) Create(ctx context.Context, award *entity.PrizeAward) error {
	return xcontext.DB(ctx).Create(award).Error
}

func (r *prizeAwardRepository) GetByID(ctx context.Context, id string) (*entity.PrizeAward, error) {
	result := entity.PrizeAward{}
	if err := xcontext.DB(ctx).Preload("Prize").Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *prizeAwardRepository) GetByUser(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.PrizeAward, error) {
	result := []entity.PrizeAward{}
	err := xcontext.DB(ctx).Preload("Prize").
		Where("user_id=?", userID).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *prizeAwardRepository) CountByUserAndPrize(
	ctx context.Context, userID, prizeID string,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.PrizeAward{}).
		Where("user_id=? AND prize_id=? AND status NOT IN (?)",
			userID, prizeID,
			[]entity.PrizeAwardStatus{entity.PrizeAwardCancelled, entity.PrizeAwardFailed}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *prizeAwardRepository) GetLastByUserAndPrize(
	ctx context.Context, userID, prizeID string,
) (*entity.PrizeAward, error) {
	result := entity.PrizeAward{}
	err := xcontext.DB(ctx).
		Where("user_id=? AND prize_id=?", userID, prizeID).
		Order("created_at desc").
		First(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *prizeAwardRepository) UpdateStatus(
	ctx context.Context, id string, status entity.PrizeAwardStatus,
) error {
	return xcontext.DB(ctx).Model(&entity.PrizeAward{}).
		Where("id=?", id).
		Update("status", status).Error
}

// ExpireOverdue flips available awards whose expiry has passed and returns
// how many rows changed.
func (r *prizeAwardRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := xcontext.DB(ctx).Model(&entity.PrizeAward{}).
		Where("status=? AND expires_at IS NOT NULL AND expires_at <= ?",
			entity.PrizeAwardAvailable, now).
		Update("status", entity.PrizeAwardExpired)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (r *prizeAwardRepository) GetWalletStats(
	ctx context.Context, userID string,
) (*WalletStats, error) {
	stats := WalletStats{}
	db := xcontext.DB(ctx).Model(&entity.PrizeAward{})

	if err := db.Where("user_id=?", userID).Count(&stats.TotalAwards).Error; err != nil {
		return nil, err
	}

	counts := []struct {
		Status entity.PrizeAwardStatus
		Total  int64
	}{}
	err := xcontext.DB(ctx).Model(&entity.PrizeAward{}).
		Select("status, count(*) as total").
		Where("user_id=?", userID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	for _, c := range counts {
		switch c.Status {
		case entity.PrizeAwardAvailable:
			stats.AvailableCount = c.Total
		case entity.PrizeAwardRedeemed:
			stats.RedeemedCount = c.Total
		case entity.PrizeAwardExpired:
			stats.ExpiredCount = c.Total
		}
	}

	err = xcontext.DB(ctx).Model(&entity.PrizeAward{}).
		Select("coalesce(sum(points_spent), 0)").
		Where("user_id=?", userID).
		Scan(&stats.PointsSpent).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *prizeAwardRepository) CountByPrize(ctx context.Context, prizeID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.PrizeAward{}).
		Where("prize_id=?", prizeID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
