package repository

import (
	"context"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

type MysteryBoxEventRepository interface {
	Create(ctx context.Context, event *entity.MysteryBoxEvent) error
	GetByID(ctx context.Context, id string) (*entity.MysteryBoxEvent, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.MysteryBoxEvent, error)
	Update(ctx context.Context, event *entity.MysteryBoxEvent) error
	GetDueScheduled(ctx context.Context, now time.Time) ([]entity.MysteryBoxEvent, error)
}

type mysteryBoxEventRepository struct{}

func NewMysteryBoxEventRepository() MysteryBoxEventRepository {
	return &mysteryBoxEventRepository{}
}

func (r *mysteryBoxEventRepository) Create(
	ctx context.Context, event *entity.MysteryBoxEvent,
) error {
	return xcontext.DB(ctx).Create(event).Error
}

func (r *mysteryBoxEventRepository) GetByID(
	ctx context.Context, id string,
) (*entity.MysteryBoxEvent, error) {
	result := entity.MysteryBoxEvent{}
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *mysteryBoxEventRepository) GetList(
	ctx context.Context, offset, limit int,
) ([]entity.MysteryBoxEvent, error) {
	result := []entity.MysteryBoxEvent{}
	err := xcontext.DB(ctx).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *mysteryBoxEventRepository) Update(
	ctx context.Context, event *entity.MysteryBoxEvent,
) error {
	return xcontext.DB(ctx).Save(event).Error
}

func (r *mysteryBoxEventRepository) GetDueScheduled(
	ctx context.Context, now time.Time,
) ([]entity.MysteryBoxEvent, error) {
	result := []entity.MysteryBoxEvent{}
	err := xcontext.DB(ctx).
		Where("status=? AND scheduled_at IS NOT NULL AND scheduled_at <= ?",
			entity.MysteryBoxEventScheduled, now).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
