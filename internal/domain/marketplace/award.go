package marketplace

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/model"
	"github.com/phenobarbital/nav-rewards/pkg/enum"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"gorm.io/gorm"
)

// awardPrize is the single award pipeline shared by direct awards and
// mystery-box wins. It enforces stock, max-per-user, and cooldown, then
// persists the award inside the caller's transaction scope.
func (d *domain) awardPrize(
	ctx context.Context,
	prize *entity.PrizeCatalog,
	userID string,
	source entity.PrizeAwardSource,
	pointsSpent int,
	metadata entity.Map,
) (*entity.PrizeAward, error) {
	if !prize.IsActive {
		return nil, errorx.New(errorx.Unavailable, "Prize is not active")
	}

	if !prize.InStock() {
		return nil, errorx.New(errorx.Unavailable, "Prize is out of stock")
	}

	if prize.MaxPerUser > 0 {
		count, err := d.prizeAwardRepo.CountByUserAndPrize(ctx, userID, prize.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count awards of %s: %v", userID, err)
			return nil, errorx.Unknown
		}

		if count >= int64(prize.MaxPerUser) {
			return nil, errorx.New(errorx.Unavailable, "Reached the per-user limit of this prize")
		}
	}

	if prize.CooldownDays > 0 {
		last, err := d.prizeAwardRepo.GetLastByUserAndPrize(ctx, userID, prize.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get last award of %s: %v", userID, err)
			return nil, errorx.Unknown
		}

		if last != nil {
			cooldown := time.Duration(prize.CooldownDays) * 24 * time.Hour
			if last.CreatedAt.After(time.Now().Add(-cooldown)) {
				return nil, errorx.New(errorx.Unavailable, "Prize is in the cooldown period")
			}
		}
	}

	award := &entity.PrizeAward{
		Base:        entity.Base{ID: uuid.NewString()},
		PrizeID:     prize.ID,
		UserID:      userID,
		Status:      entity.PrizeAwardAvailable,
		Source:      source,
		PointsSpent: pointsSpent,
		Metadata:    metadata,
	}

	expiryDays := xcontext.Configs(ctx).Marketplace.AwardExpiryDays
	if expiryDays > 0 {
		expiresAt := time.Now().AddDate(0, 0, expiryDays)
		award.ExpiresAt = &expiresAt
	}

	if err := d.prizeAwardRepo.Create(ctx, award); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create prize award: %v", err)
		return nil, errorx.Unknown
	}

	if prize.TotalQuantity != nil {
		if err := d.prizeRepo.DecrementAvailable(ctx, prize.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.Unavailable, "Prize is out of stock")
			}

			xcontext.Logger(ctx).Errorf("Cannot decrement stock of %s: %v", prize.ID, err)
			return nil, errorx.Unknown
		}
	}

	return award, nil
}

func (d *domain) AwardPrize(
	ctx context.Context, req *model.AwardPrizeRequest,
) (*model.AwardPrizeResponse, error) {
	source := entity.PrizeAwardSourceManual
	if req.Source != "" {
		var err error
		source, err = enum.ToEnum[entity.PrizeAwardSource](req.Source)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid award source %s", req.Source)
		}
	}

	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	if userID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not determined the award user")
	}

	if _, err := d.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	prize, err := d.prizeRepo.GetByID(ctx, req.PrizeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found prize")
		}

		xcontext.Logger(ctx).Errorf("Cannot get prize %s: %v", req.PrizeID, err)
		return nil, errorx.Unknown
	}

	pointsSpent := 0
	if source == entity.PrizeAwardSourcePurchase {
		pointsSpent = prize.PointsCost
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	award, err := d.awardPrize(ctx, prize, userID, source, pointsSpent, entity.Map(req.Metadata))
	if err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	converted := convertPrizeAward(*award)
	converted.PrizeName = prize.Name
	return &model.AwardPrizeResponse{Award: converted}, nil
}

func (d *domain) GetPrizeAward(
	ctx context.Context, req *model.GetPrizeAwardRequest,
) (*model.GetPrizeAwardResponse, error) {
	award, err := d.prizeAwardRepo.GetByID(ctx, req.AwardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found award")
		}

		xcontext.Logger(ctx).Errorf("Cannot get award %s: %v", req.AwardID, err)
		return nil, errorx.Unknown
	}

	resp := model.GetPrizeAwardResponse(convertPrizeAward(*award))
	return &resp, nil
}

func (d *domain) GetUserPrizeAwards(
	ctx context.Context, req *model.GetUserPrizeAwardsRequest,
) (*model.GetUserPrizeAwardsResponse, error) {
	if req.Limit == 0 {
		req.Limit = 50
	}

	if req.Limit > 200 {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	awards, err := d.prizeAwardRepo.GetByUser(ctx, req.UserID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get awards of %s: %v", req.UserID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetUserPrizeAwardsResponse{Awards: make([]model.PrizeAward, 0, len(awards))}
	for _, award := range awards {
		resp.Awards = append(resp.Awards, convertPrizeAward(award))
	}

	return resp, nil
}

func (d *domain) GetWallet(
	ctx context.Context, req *model.GetWalletRequest,
) (*model.GetWalletResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	if req.Limit == 0 {
		req.Limit = 50
	}

	awards, err := d.prizeAwardRepo.GetByUser(ctx, userID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get wallet of %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetWalletResponse{Awards: make([]model.PrizeAward, 0, len(awards))}
	for _, award := range awards {
		resp.Awards = append(resp.Awards, convertPrizeAward(award))
	}

	return resp, nil
}

func (d *domain) GetWalletStats(
	ctx context.Context, req *model.GetWalletStatsRequest,
) (*model.GetWalletStatsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	stats, err := d.prizeAwardRepo.GetWalletStats(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get wallet stats of %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	return &model.GetWalletStatsResponse{
		TotalAwards:    stats.TotalAwards,
		AvailableCount: stats.AvailableCount,
		RedeemedCount:  stats.RedeemedCount,
		ExpiredCount:   stats.ExpiredCount,
		PointsSpent:    stats.PointsSpent,
	}, nil
}

// ExpireOldAwards sweeps overdue available awards. The lazy check in
// InitiateRedemption covers the window between sweeps.
func (d *domain) ExpireOldAwards(ctx context.Context) (int64, error) {
	return d.prizeAwardRepo.ExpireOverdue(ctx, time.Now())
}
