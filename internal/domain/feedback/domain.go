package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/model"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/enum"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"github.com/phenobarbital/nav-rewards/pkg/xredis"
	"gorm.io/gorm"
)

type Domain interface {
	SubmitFeedback(ctx context.Context, req *model.SubmitFeedbackRequest) (*model.SubmitFeedbackResponse, error)
}

// Receiver identifies who a feedback is about, resolved from the feedback
// target.
type Receiver struct {
	UserID string
	Email  string
	Name   string
}

// Resolver turns a target id of one target type into the feedback receiver.
type Resolver interface {
	Resolve(ctx context.Context, targetID string) (*Receiver, error)
}

type domain struct {
	feedbackRepo repository.FeedbackRepository
	redisClient  xredis.Client
	resolvers    map[entity.FeedbackTargetType]Resolver
}

func NewDomain(
	feedbackRepo repository.FeedbackRepository,
	userRewardRepo repository.UserRewardRepository,
	userRepo repository.UserRepository,
	redisClient xredis.Client,
) Domain {
	return &domain{
		feedbackRepo: feedbackRepo,
		redisClient:  redisClient,
		resolvers: map[entity.FeedbackTargetType]Resolver{
			entity.FeedbackTargetBadge:      badgeResolver{userRewardRepo: userRewardRepo},
			entity.FeedbackTargetKudos:      userResolver{userRepo: userRepo},
			entity.FeedbackTargetNomination: userResolver{userRepo: userRepo},
		},
	}
}

func (d *domain) SubmitFeedback(
	ctx context.Context, req *model.SubmitFeedbackRequest,
) (*model.SubmitFeedbackResponse, error) {
	giverID := xcontext.RequestUserID(ctx)
	if giverID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	if req.Rating < 1 || req.Rating > 5 {
		return nil, errorx.New(errorx.BadRequest, "Rating must be between 1 and 5")
	}

	targetType, err := enum.ToEnum[entity.FeedbackTargetType](req.TargetType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid target type %s", req.TargetType)
	}

	cooldownKey := fmt.Sprintf("feedback:%s", giverID)
	if d.redisClient != nil {
		exist, err := d.redisClient.Exist(ctx, cooldownKey)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot check feedback cooldown: %v", err)
		} else if exist {
			return nil, errorx.New(errorx.TooManyRequests, "Too many feedback submissions")
		}
	}

	exists, err := d.feedbackRepo.Exists(ctx, giverID, targetType, req.TargetID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check existing feedback: %v", err)
		return nil, errorx.Unknown
	}

	if exists {
		return nil, errorx.New(errorx.AlreadyExists, "Feedback was already submitted for this target")
	}

	receiver, err := d.resolvers[targetType].Resolve(ctx, req.TargetID)
	if err != nil {
		return nil, err
	}

	feedback := &entity.Feedback{
		Base:          entity.Base{ID: uuid.NewString()},
		TargetType:    targetType,
		TargetID:      req.TargetID,
		GiverID:       giverID,
		ReceiverID:    receiver.UserID,
		ReceiverEmail: receiver.Email,
		ReceiverName:  receiver.Name,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}

	if err := d.feedbackRepo.Create(ctx, feedback); err != nil {
		if isDuplicateError(err) {
			return nil, errorx.New(errorx.AlreadyExists, "Feedback was already submitted for this target")
		}

		xcontext.Logger(ctx).Errorf("Cannot create feedback: %v", err)
		return nil, errorx.Unknown
	}

	if d.redisClient != nil {
		cooldown := xcontext.Configs(ctx).Marketplace.FeedbackCooldown
		if err := d.redisClient.Set(ctx, cooldownKey, "1", cooldown); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot set feedback cooldown: %v", err)
		}
	}

	return &model.SubmitFeedbackResponse{ID: feedback.ID}, nil
}

// badgeResolver points a badge feedback at the award's receiver.
type badgeResolver struct {
	userRewardRepo repository.UserRewardRepository
}

func (r badgeResolver) Resolve(ctx context.Context, targetID string) (*Receiver, error) {
	award, err := r.userRewardRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found award")
		}

		xcontext.Logger(ctx).Errorf("Cannot get award %s: %v", targetID, err)
		return nil, errorx.Unknown
	}

	return &Receiver{
		UserID: award.ReceiverID,
		Email:  award.ReceiverEmail,
		Name:   award.ReceiverName,
	}, nil
}

// userResolver covers target types whose id is a user id directly.
type userResolver struct {
	userRepo repository.UserRepository
}

func (r userResolver) Resolve(ctx context.Context, targetID string) (*Receiver, error) {
	user, err := r.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user %s: %v", targetID, err)
		return nil, errorx.Unknown
	}

	return &Receiver{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.DisplayName,
	}, nil
}

func isDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
