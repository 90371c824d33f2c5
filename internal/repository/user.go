package repository

import (
	"context"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"golang.org/x/exp/slices"
)

type UserFilter struct {
	Departments []string
	JobCodes    []string
	Groups      []string
	HiredBefore *time.Time
	ExcludeIDs  []string
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetActive(ctx context.Context, filter *UserFilter) ([]entity.User, error)
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return xcontext.DB(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	result := entity.User{}
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	result := []entity.User{}
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	result := entity.User{}
	if err := xcontext.DB(ctx).Take(&result, "email=?", email).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetActive(ctx context.Context, filter *UserFilter) ([]entity.User, error) {
	tx := xcontext.DB(ctx).Where("is_active=?", true)

	if filter != nil {
		if len(filter.Departments) > 0 {
			tx = tx.Where("department IN (?)", filter.Departments)
		}

		if len(filter.JobCodes) > 0 {
			tx = tx.Where("job_code IN (?)", filter.JobCodes)
		}

		if filter.HiredBefore != nil {
			tx = tx.Where("hired_at IS NOT NULL AND hired_at <= ?", *filter.HiredBefore)
		}

		if len(filter.ExcludeIDs) > 0 {
			tx = tx.Where("id NOT IN (?)", filter.ExcludeIDs)
		}
	}

	result := []entity.User{}
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	// Group membership lives in a JSON column, so it is filtered here
	// rather than in SQL.
	if filter != nil && len(filter.Groups) > 0 {
		filtered := result[:0]
		for _, user := range result {
			for _, g := range user.Groups {
				if slices.Contains(filter.Groups, g) {
					filtered = append(filtered, user)
					break
				}
			}
		}
		result = filtered
	}

	return result, nil
}
