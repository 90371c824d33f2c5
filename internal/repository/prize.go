package repository

import (
	"context"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"gorm.io/gorm"
)

type PrizeFilter struct {
	CategoryID   string
	TierID       string
	OnlyFeatured bool
	OnlyActive   bool
	MaxCost      int
	Offset       int
	Limit        int
}

type PrizeRepository interface {
	Create(ctx context.Context, prize *entity.PrizeCatalog) error
	GetByID(ctx context.Context, id string) (*entity.PrizeCatalog, error)
	GetList(ctx context.Context, filter *PrizeFilter) ([]entity.PrizeCatalog, error)
	Update(ctx context.Context, prize *entity.PrizeCatalog) error
	DeleteByID(ctx context.Context, id string) error
	GetMysteryEligible(ctx context.Context) ([]entity.PrizeCatalog, error)
	DecrementAvailable(ctx context.Context, id string) error
	GetCategories(ctx context.Context) ([]entity.PrizeCategory, error)
	CreateCategory(ctx context.Context, category *entity.PrizeCategory) error
	GetTiers(ctx context.Context) ([]entity.PrizeTier, error)
	CreateTier(ctx context.Context, tier *entity.PrizeTier) error
}

type prizeRepository struct{}

func NewPrizeRepository() PrizeRepository {
	return &prizeRepository{}
}

func (r *prizeRepository) Create(ctx context.Context, prize *entity.PrizeCatalog) error {
	return xcontext.DB(ctx).Create(prize).Error
}

func (r *prizeRepository) GetByID(ctx context.Context, id string) (*entity.PrizeCatalog, error) {
	result := entity.PrizeCatalog{}
	if err := xcontext.DB(ctx).Preload("Tier").Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *prizeRepository) GetList(
	ctx context.Context, filter *PrizeFilter,
) ([]entity.PrizeCatalog, error) {
	tx := xcontext.DB(ctx).Preload("Tier").Preload("Category")

	if filter != nil {
		if filter.CategoryID != "" {
			tx = tx.Where("category_id=?", filter.CategoryID)
		}

		if filter.TierID != "" {
			tx = tx.Where("tier_id=?", filter.TierID)
		}

		if filter.OnlyFeatured {
			tx = tx.Where("is_featured=?", true)
		}

		if filter.OnlyActive {
			tx = tx.Where("is_active=?", true)
		}

		if filter.MaxCost > 0 {
			tx = tx.Where("points_cost <= ?", filter.MaxCost)
		}

		if filter.Limit > 0 {
			tx = tx.Offset(filter.Offset).Limit(filter.Limit)
		}
	}

	result := []entity.PrizeCatalog{}
	if err := tx.Order("name asc").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *prizeRepository) Update(ctx context.Context, prize *entity.PrizeCatalog) error {
	return xcontext.DB(ctx).Save(prize).Error
}

func (r *prizeRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.PrizeCatalog{}, "id=?", id).Error
}

func (r *prizeRepository) GetMysteryEligible(ctx context.Context) ([]entity.PrizeCatalog, error) {
	result := []entity.PrizeCatalog{}
	err := xcontext.DB(ctx).Preload("Tier").
		Where("is_mystery_eligible=? AND is_active=?", true, true).
		Where("total_quantity IS NULL OR available_quantity - reserved_quantity > 0").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DecrementAvailable takes one unit of stock. The guard condition keeps the
// available count from going below the reserved count.
func (r *prizeRepository) DecrementAvailable(ctx context.Context, id string) error {
	result := xcontext.DB(ctx).Model(&entity.PrizeCatalog{}).
		Where("id=? AND available_quantity - reserved_quantity > 0", id).
		Update("available_quantity", gorm.Expr("available_quantity - 1"))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *prizeRepository) GetCategories(ctx context.Context) ([]entity.PrizeCategory, error) {
	result := []entity.PrizeCategory{}
	if err := xcontext.DB(ctx).Order("name asc").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *prizeRepository) CreateCategory(ctx context.Context, category *entity.PrizeCategory) error {
	return xcontext.DB(ctx).Create(category).Error
}

func (r *prizeRepository) GetTiers(ctx context.Context) ([]entity.PrizeTier, error) {
	result := []entity.PrizeTier{}
	if err := xcontext.DB(ctx).Order("level asc").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *prizeRepository) CreateTier(ctx context.Context, tier *entity.PrizeTier) error {
	return xcontext.DB(ctx).Create(tier).Error
}
