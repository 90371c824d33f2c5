package reward

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phenobarbital/nav-rewards/internal/domain/rewardrule"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/model"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/enum"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"gorm.io/gorm"
)

type Domain interface {
	CreateReward(ctx context.Context, req *model.CreateRewardRequest) (*model.CreateRewardResponse, error)
	GetRewards(ctx context.Context, req *model.GetRewardsRequest) (*model.GetRewardsResponse, error)
	AwardReward(ctx context.Context, req *model.AwardRewardRequest) (*model.AwardRewardResponse, error)
	GetUserRewards(ctx context.Context, req *model.GetUserRewardsRequest) (*model.GetUserRewardsResponse, error)
	RevokeUserReward(ctx context.Context, req *model.RevokeUserRewardRequest) (*model.RevokeUserRewardResponse, error)
}

type domain struct {
	factory          rewardrule.Factory
	rewardRepo       repository.RewardRepository
	userRepo         repository.UserRepository
	userRewardRepo   repository.UserRewardRepository
	collectiveRepo   repository.CollectiveRepository
	notificationRepo repository.NotificationEventRepository
}

func NewDomain(
	factory rewardrule.Factory,
	rewardRepo repository.RewardRepository,
	userRepo repository.UserRepository,
	userRewardRepo repository.UserRewardRepository,
	collectiveRepo repository.CollectiveRepository,
	notificationRepo repository.NotificationEventRepository,
) Domain {
	return &domain{
		factory:          factory,
		rewardRepo:       rewardRepo,
		userRepo:         userRepo,
		userRewardRepo:   userRewardRepo,
		collectiveRepo:   collectiveRepo,
		notificationRepo: notificationRepo,
	}
}

func (d *domain) newObject(ctx context.Context, reward entity.Reward) (*RewardObject, error) {
	return NewRewardObject(ctx, reward, d.factory,
		d.userRepo, d.userRewardRepo, d.collectiveRepo, d.notificationRepo)
}

func (d *domain) CreateReward(
	ctx context.Context, req *model.CreateRewardRequest,
) (*model.CreateRewardResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty reward name")
	}

	rewardType, err := enum.ToEnum[entity.RewardType](req.Type)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid reward type %s", req.Type)
	}

	timeframe := entity.TimeframeNone
	if req.Timeframe != "" {
		timeframe, err = enum.ToEnum[entity.Timeframe](req.Timeframe)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid timeframe %s", req.Timeframe)
		}
	}

	kind := entity.NotificationKindGeneric
	if req.NotificationKind != "" {
		kind, err = enum.ToEnum[entity.NotificationKind](req.NotificationKind)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid notification kind %s", req.NotificationKind)
		}
	}

	rules := make(entity.Array[entity.Map], 0, len(req.Rules))
	for _, spec := range req.Rules {
		// Parse once with validation to reject malformed rule parameters at
		// configuration time, and store the canonical form.
		normalized, err := d.factory.Normalize(ctx, "", entity.Map(spec))
		if err != nil {
			return nil, err
		}

		rules = append(rules, normalized)
	}

	reward := &entity.Reward{
		Base:             entity.Base{ID: uuid.NewString()},
		Name:             req.Name,
		Description:      req.Description,
		Icon:             req.Icon,
		Emoji:            req.Emoji,
		Points:           req.Points,
		Type:             rewardType,
		Message:          req.Message,
		Multiple:         req.Multiple,
		Timeframe:        timeframe,
		CooldownMinutes:  req.CooldownMinutes,
		Availability:     entity.Map(req.Availability),
		Programs:         req.Programs,
		Events:           req.Events,
		Conditions:       req.Conditions,
		Assigner:         entity.Map(req.Assigner),
		Awardee:          entity.Map(req.Awardee),
		Rules:            rules,
		NotificationKind: kind,
		WebhookURL:       req.WebhookURL,
		IsEnabled:        true,
	}

	if err := d.rewardRepo.Create(ctx, reward); err != nil {
		if isDuplicateError(err) {
			return nil, errorx.New(errorx.AlreadyExists, "Duplicated reward name")
		}

		xcontext.Logger(ctx).Errorf("Cannot create reward: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateRewardResponse{ID: reward.ID}, nil
}

func (d *domain) GetRewards(
	ctx context.Context, req *model.GetRewardsRequest,
) (*model.GetRewardsResponse, error) {
	filter := &repository.RewardFilter{OnlyEnabled: req.OnlyEnabled}
	if req.Type != "" {
		rewardType, err := enum.ToEnum[entity.RewardType](req.Type)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid reward type %s", req.Type)
		}

		filter.Type = rewardType
	}

	rewards, err := d.rewardRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get rewards: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetRewardsResponse{Rewards: make([]model.Reward, 0, len(rewards))}
	for _, reward := range rewards {
		resp.Rewards = append(resp.Rewards, convertReward(reward))
	}

	return resp, nil
}

// AwardReward grants a reward directly. An eligibility rejection is not an
// error, the response carries the failed condition names instead.
func (d *domain) AwardReward(
	ctx context.Context, req *model.AwardRewardRequest,
) (*model.AwardRewardResponse, error) {
	reward, err := d.rewardRepo.GetByID(ctx, req.RewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reward")
		}

		xcontext.Logger(ctx).Errorf("Cannot get reward %s: %v", req.RewardID, err)
		return nil, errorx.Unknown
	}

	if !reward.IsEnabled {
		return nil, errorx.New(errorx.Unavailable, "Reward is disabled")
	}

	receiver, err := d.userRepo.GetByID(ctx, req.ReceiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found receiver")
		}

		xcontext.Logger(ctx).Errorf("Cannot get receiver %s: %v", req.ReceiverID, err)
		return nil, errorx.Unknown
	}

	object, err := d.newObject(ctx, *reward)
	if err != nil {
		return nil, err
	}

	session := entity.Map(req.Session)
	if session == nil {
		session = entity.Map{}
	}
	if userID := xcontext.RequestUserID(ctx); userID != "" {
		session["user_id"] = userID
	}

	ec := rewardrule.NewEvalContext(*receiver, session)
	env := rewardrule.NewEnvironment(time.Now())

	if !object.Fits(ctx, ec, env) {
		return &model.AwardRewardResponse{FailedConditions: object.FailedConditions()}, nil
	}

	if !object.Evaluate(ctx, ec, env) {
		return &model.AwardRewardResponse{FailedConditions: object.FailedConditions()}, nil
	}

	hasAwarded, err := object.HasAwarded(ctx, receiver.ID, env)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check prior awards: %v", err)
		return nil, errorx.Unknown
	}

	if hasAwarded {
		return nil, errorx.New(errorx.AlreadyExists, "Reward already awarded")
	}

	award, err := object.Apply(ctx, ec, env, &ApplyOverrides{Message: req.Message})
	if err != nil {
		return nil, err
	}

	converted := convertUserReward(*award)
	return &model.AwardRewardResponse{Award: &converted}, nil
}

func (d *domain) GetUserRewards(
	ctx context.Context, req *model.GetUserRewardsRequest,
) (*model.GetUserRewardsResponse, error) {
	if req.Limit == 0 {
		req.Limit = 50
	}

	if req.Limit > 200 {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	awards, err := d.userRewardRepo.GetListByUser(ctx, req.UserID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get awards of %s: %v", req.UserID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetUserRewardsResponse{Awards: make([]model.UserReward, 0, len(awards))}
	for _, award := range awards {
		resp.Awards = append(resp.Awards, convertUserReward(award))
	}

	return resp, nil
}

func (d *domain) RevokeUserReward(
	ctx context.Context, req *model.RevokeUserRewardRequest,
) (*model.RevokeUserRewardResponse, error) {
	award, err := d.userRewardRepo.GetByID(ctx, req.AwardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found award")
		}

		xcontext.Logger(ctx).Errorf("Cannot get award %s: %v", req.AwardID, err)
		return nil, errorx.Unknown
	}

	if award.RevokedAt != nil {
		return nil, errorx.New(errorx.AlreadyExists, "Award is already revoked")
	}

	if err := d.userRewardRepo.Revoke(ctx, award.ID, xcontext.RequestUserID(ctx), req.Reason); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot revoke award %s: %v", req.AwardID, err)
		return nil, errorx.Unknown
	}

	return &model.RevokeUserRewardResponse{}, nil
}
