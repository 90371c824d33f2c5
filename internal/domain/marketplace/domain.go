package marketplace

import (
	"context"
	"errors"

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
	GetPrizes(ctx context.Context, req *model.GetPrizesRequest) (*model.GetPrizesResponse, error)
	GetPrize(ctx context.Context, req *model.GetPrizeRequest) (*model.GetPrizeResponse, error)
	CreatePrize(ctx context.Context, req *model.CreatePrizeRequest) (*model.CreatePrizeResponse, error)
	UpdatePrize(ctx context.Context, req *model.UpdatePrizeRequest) (*model.UpdatePrizeResponse, error)
	DeletePrize(ctx context.Context, req *model.DeletePrizeRequest) (*model.DeletePrizeResponse, error)
	GetPrizeCategories(ctx context.Context, req *model.GetPrizeCategoriesRequest) (*model.GetPrizeCategoriesResponse, error)
	GetPrizeTiers(ctx context.Context, req *model.GetPrizeTiersRequest) (*model.GetPrizeTiersResponse, error)

	AwardPrize(ctx context.Context, req *model.AwardPrizeRequest) (*model.AwardPrizeResponse, error)
	GetPrizeAward(ctx context.Context, req *model.GetPrizeAwardRequest) (*model.GetPrizeAwardResponse, error)
	GetUserPrizeAwards(ctx context.Context, req *model.GetUserPrizeAwardsRequest) (*model.GetUserPrizeAwardsResponse, error)
	GetWallet(ctx context.Context, req *model.GetWalletRequest) (*model.GetWalletResponse, error)
	GetWalletStats(ctx context.Context, req *model.GetWalletStatsRequest) (*model.GetWalletStatsResponse, error)

	InitiateRedemption(ctx context.Context, req *model.InitiateRedemptionRequest) (*model.InitiateRedemptionResponse, error)
	GetRedemption(ctx context.Context, req *model.GetRedemptionRequest) (*model.GetRedemptionResponse, error)
	UpdateRedemptionStatus(ctx context.Context, req *model.UpdateRedemptionStatusRequest) (*model.UpdateRedemptionStatusResponse, error)
	CancelRedemption(ctx context.Context, req *model.CancelRedemptionRequest) (*model.CancelRedemptionResponse, error)
	CompleteRedemption(ctx context.Context, req *model.CompleteRedemptionRequest) (*model.CompleteRedemptionResponse, error)
	SubmitRedemptionFeedback(ctx context.Context, req *model.SubmitRedemptionFeedbackRequest) (*model.SubmitRedemptionFeedbackResponse, error)

	TriggerMysteryBox(ctx context.Context, req *model.TriggerMysteryBoxRequest) (*model.TriggerMysteryBoxResponse, error)
	GetMysteryBoxEvents(ctx context.Context, req *model.GetMysteryBoxEventsRequest) (*model.GetMysteryBoxEventsResponse, error)
	GetMysteryBoxEvent(ctx context.Context, req *model.GetMysteryBoxEventRequest) (*model.GetMysteryBoxEventResponse, error)
	ExecuteMysteryBox(ctx context.Context, eventID string) error

	GetRedemptionMetrics(ctx context.Context, req *model.GetRedemptionMetricsRequest) (*model.GetRedemptionMetricsResponse, error)
	GetPrizePopularity(ctx context.Context, req *model.GetPrizePopularityRequest) (*model.GetPrizePopularityResponse, error)

	ExpireOldAwards(ctx context.Context) (int64, error)
}

type domain struct {
	prizeRepo      repository.PrizeRepository
	prizeAwardRepo repository.PrizeAwardRepository
	redemptionRepo repository.PrizeRedemptionRepository
	mysteryBoxRepo repository.MysteryBoxEventRepository
	userRepo       repository.UserRepository
	redisClient    xredis.Client
}

func NewDomain(
	prizeRepo repository.PrizeRepository,
	prizeAwardRepo repository.PrizeAwardRepository,
	redemptionRepo repository.PrizeRedemptionRepository,
	mysteryBoxRepo repository.MysteryBoxEventRepository,
	userRepo repository.UserRepository,
	redisClient xredis.Client,
) Domain {
	return &domain{
		prizeRepo:      prizeRepo,
		prizeAwardRepo: prizeAwardRepo,
		redemptionRepo: redemptionRepo,
		mysteryBoxRepo: mysteryBoxRepo,
		userRepo:       userRepo,
		redisClient:    redisClient,
	}
}

func (d *domain) GetPrizes(
	ctx context.Context, req *model.GetPrizesRequest,
) (*model.GetPrizesResponse, error) {
	if req.Limit == 0 {
		req.Limit = 50
	}

	if req.Limit > 200 {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	prizes, err := d.prizeRepo.GetList(ctx, &repository.PrizeFilter{
		CategoryID:   req.CategoryID,
		TierID:       req.TierID,
		OnlyFeatured: req.OnlyFeatured,
		OnlyActive:   true,
		MaxCost:      req.MaxCost,
		Offset:       req.Offset,
		Limit:        req.Limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prizes: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetPrizesResponse{Prizes: make([]model.Prize, 0, len(prizes))}
	for _, prize := range prizes {
		resp.Prizes = append(resp.Prizes, convertPrize(prize))
	}

	return resp, nil
}

func (d *domain) GetPrize(
	ctx context.Context, req *model.GetPrizeRequest,
) (*model.GetPrizeResponse, error) {
	prize, err := d.prizeRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found prize")
		}

		xcontext.Logger(ctx).Errorf("Cannot get prize %s: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	resp := model.GetPrizeResponse(convertPrize(*prize))
	return &resp, nil
}

func (d *domain) CreatePrize(
	ctx context.Context, req *model.CreatePrizeRequest,
) (*model.CreatePrizeResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty prize name")
	}

	if req.PointsCost < 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a negative points cost")
	}

	fulfillment := entity.FulfillmentDigital
	if req.FulfillmentType != "" {
		var err error
		fulfillment, err = enum.ToEnum[entity.FulfillmentType](req.FulfillmentType)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid fulfillment type %s", req.FulfillmentType)
		}
	}

	weight := req.MysteryWeight
	if weight == 0 {
		weight = 100
	}

	prize := &entity.PrizeCatalog{
		Base:              entity.Base{ID: uuid.NewString()},
		Name:              req.Name,
		Description:       req.Description,
		ImageURL:          req.ImageURL,
		CategoryID:        req.CategoryID,
		TierID:            req.TierID,
		PointsCost:        req.PointsCost,
		MonetaryValue:     req.MonetaryValue,
		TotalQuantity:     req.TotalQuantity,
		MaxPerUser:        req.MaxPerUser,
		CooldownDays:      req.CooldownDays,
		RequiresApproval:  req.RequiresApproval,
		IsMysteryEligible: req.IsMysteryEligible,
		MysteryWeight:     weight,
		FulfillmentType:   fulfillment,
		FulfillmentDetail: entity.Map(req.FulfillmentDetail),
		Tags:              req.Tags,
		IsActive:          true,
		IsFeatured:        req.IsFeatured,
	}

	if req.TotalQuantity != nil {
		prize.AvailableQuantity = *req.TotalQuantity
	}

	if err := d.prizeRepo.Create(ctx, prize); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create prize: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreatePrizeResponse{ID: prize.ID}, nil
}

func (d *domain) UpdatePrize(
	ctx context.Context, req *model.UpdatePrizeRequest,
) (*model.UpdatePrizeResponse, error) {
	prize, err := d.prizeRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found prize")
		}

		xcontext.Logger(ctx).Errorf("Cannot get prize %s: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	if req.Name != nil {
		prize.Name = *req.Name
	}

	if req.Description != nil {
		prize.Description = *req.Description
	}

	if req.PointsCost != nil {
		if *req.PointsCost < 0 {
			return nil, errorx.New(errorx.BadRequest, "Not allow a negative points cost")
		}

		prize.PointsCost = *req.PointsCost
	}

	if req.MaxPerUser != nil {
		prize.MaxPerUser = *req.MaxPerUser
	}

	if req.CooldownDays != nil {
		prize.CooldownDays = *req.CooldownDays
	}

	if req.RequiresApproval != nil {
		prize.RequiresApproval = *req.RequiresApproval
	}

	if req.MysteryWeight != nil {
		prize.MysteryWeight = *req.MysteryWeight
	}

	if req.IsActive != nil {
		prize.IsActive = *req.IsActive
	}

	if req.IsFeatured != nil {
		prize.IsFeatured = *req.IsFeatured
	}

	if err := d.prizeRepo.Update(ctx, prize); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update prize %s: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	return &model.UpdatePrizeResponse{}, nil
}

func (d *domain) DeletePrize(
	ctx context.Context, req *model.DeletePrizeRequest,
) (*model.DeletePrizeResponse, error) {
	if _, err := d.prizeRepo.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found prize")
		}

		xcontext.Logger(ctx).Errorf("Cannot get prize %s: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	if err := d.prizeRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete prize %s: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	return &model.DeletePrizeResponse{}, nil
}

func (d *domain) GetPrizeCategories(
	ctx context.Context, req *model.GetPrizeCategoriesRequest,
) (*model.GetPrizeCategoriesResponse, error) {
	categories, err := d.prizeRepo.GetCategories(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prize categories: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetPrizeCategoriesResponse{
		Categories: make([]model.PrizeCategory, 0, len(categories)),
	}
	for _, category := range categories {
		resp.Categories = append(resp.Categories, model.PrizeCategory{
			ID:          category.ID,
			Name:        category.Name,
			Description: category.Description,
			Icon:        category.Icon,
		})
	}

	return resp, nil
}

func (d *domain) GetPrizeTiers(
	ctx context.Context, req *model.GetPrizeTiersRequest,
) (*model.GetPrizeTiersResponse, error) {
	tiers, err := d.prizeRepo.GetTiers(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prize tiers: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetPrizeTiersResponse{Tiers: make([]model.PrizeTier, 0, len(tiers))}
	for _, tier := range tiers {
		resp.Tiers = append(resp.Tiers, model.PrizeTier{
			ID:       tier.ID,
			Name:     tier.Name,
			Level:    tier.Level,
			DropRate: tier.DropRate,
			Color:    tier.Color,
		})
	}

	return resp, nil
}
