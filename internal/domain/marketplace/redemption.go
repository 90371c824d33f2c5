package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/model"
	"github.com/phenobarbital/nav-rewards/pkg/enum"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"gorm.io/gorm"
)

func (d *domain) InitiateRedemption(
	ctx context.Context, req *model.InitiateRedemptionRequest,
) (*model.InitiateRedemptionResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	award, err := d.prizeAwardRepo.GetByID(ctx, req.AwardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found award")
		}

		xcontext.Logger(ctx).Errorf("Cannot get award %s: %v", req.AwardID, err)
		return nil, errorx.Unknown
	}

	if award.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Award belongs to another user")
	}

	now := time.Now()

	// Lazily flip an overdue award rather than waiting for the sweep.
	if award.Status == entity.PrizeAwardAvailable &&
		award.ExpiresAt != nil && !award.ExpiresAt.After(now) {
		if err := d.prizeAwardRepo.UpdateStatus(ctx, award.ID, entity.PrizeAwardExpired); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot expire award %s: %v", award.ID, err)
			return nil, errorx.Unknown
		}

		award.Status = entity.PrizeAwardExpired
	}

	if !award.Redeemable(now) {
		return nil, errorx.New(errorx.BadRequest,
			"Award is not redeemable in status %s", award.Status)
	}

	status := entity.RedemptionInitiated
	if award.Prize.RequiresApproval {
		status = entity.RedemptionPendingApproval
	}

	redemption := &entity.PrizeRedemption{
		Base:           entity.Base{ID: uuid.NewString()},
		AwardID:        award.ID,
		UserID:         userID,
		Status:         status,
		DeliveryDetail: entity.Map(req.DeliveryDetail),
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.redemptionRepo.Create(ctx, redemption); err != nil {
		if isDuplicateError(err) {
			return nil, errorx.New(errorx.AlreadyExists, "Award is already being redeemed")
		}

		xcontext.Logger(ctx).Errorf("Cannot create redemption: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.prizeAwardRepo.UpdateStatus(ctx, award.ID, entity.PrizeAwardReserved); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reserve award %s: %v", award.ID, err)
		return nil, errorx.Unknown
	}

	history := &entity.RedemptionStatusHistory{
		Base:         entity.Base{ID: uuid.NewString()},
		RedemptionID: redemption.ID,
		ToStatus:     status,
		ChangedBy:    userID,
	}
	if err := d.redemptionRepo.CreateHistory(ctx, history); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create redemption history: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.InitiateRedemptionResponse{Redemption: convertRedemption(*redemption)}, nil
}

func (d *domain) GetRedemption(
	ctx context.Context, req *model.GetRedemptionRequest,
) (*model.GetRedemptionResponse, error) {
	redemption, err := d.redemptionRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found redemption")
		}

		xcontext.Logger(ctx).Errorf("Cannot get redemption %s: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	records, err := d.redemptionRepo.GetHistory(ctx, redemption.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get history of %s: %v", redemption.ID, err)
		return nil, errorx.Unknown
	}

	history := make([]model.RedemptionHistory, 0, len(records))
	for _, record := range records {
		history = append(history, model.RedemptionHistory{
			FromStatus: string(record.FromStatus),
			ToStatus:   string(record.ToStatus),
			ChangedBy:  record.ChangedBy,
			Note:       record.Note,
			ChangedAt:  record.CreatedAt,
		})
	}

	return &model.GetRedemptionResponse{
		Redemption: convertRedemption(*redemption),
		History:    history,
	}, nil
}

// transition moves a redemption to a new status, records the side-channel
// data of the target state, and appends the audit row. All of it runs inside
// one transaction.
func (d *domain) transition(
	ctx context.Context,
	redemption *entity.PrizeRedemption,
	target entity.RedemptionStatus,
	actor, reason, trackingNumber, note string,
) error {
	if redemption.Status.Terminal() {
		return errorx.New(errorx.BadRequest,
			"Cannot transition from the terminal status %s", redemption.Status)
	}

	from := redemption.Status
	now := time.Now()
	redemption.Status = target

	switch target {
	case entity.RedemptionApproved:
		redemption.ApprovedBy = actor
		redemption.ApprovedAt = &now
	case entity.RedemptionCancelled, entity.RedemptionRejected:
		redemption.CancelledBy = actor
		redemption.CancelReason = reason
	case entity.RedemptionShipped:
		if trackingNumber == "" {
			return errorx.New(errorx.BadRequest, "Shipping requires a tracking number")
		}

		redemption.TrackingNumber = trackingNumber
		redemption.ShippedAt = &now
	case entity.RedemptionCompleted:
		redemption.CompletedAt = &now
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.redemptionRepo.Update(ctx, redemption); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update redemption %s: %v", redemption.ID, err)
		return errorx.Unknown
	}

	awardStatus := entity.PrizeAwardStatus("")
	switch target {
	case entity.RedemptionCompleted:
		awardStatus = entity.PrizeAwardRedeemed
	case entity.RedemptionCancelled, entity.RedemptionRejected:
		awardStatus = entity.PrizeAwardAvailable
	case entity.RedemptionFailed:
		awardStatus = entity.PrizeAwardFailed
	}

	if awardStatus != "" {
		if err := d.prizeAwardRepo.UpdateStatus(ctx, redemption.AwardID, awardStatus); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update award %s: %v", redemption.AwardID, err)
			return errorx.Unknown
		}
	}

	history := &entity.RedemptionStatusHistory{
		Base:         entity.Base{ID: uuid.NewString()},
		RedemptionID: redemption.ID,
		FromStatus:   from,
		ToStatus:     target,
		ChangedBy:    actor,
		Note:         note,
	}
	if note == "" && reason != "" {
		history.Note = reason
	}

	if err := d.redemptionRepo.CreateHistory(ctx, history); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create redemption history: %v", err)
		return errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return nil
}

func (d *domain) getRedemption(ctx context.Context, id string) (*entity.PrizeRedemption, error) {
	redemption, err := d.redemptionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found redemption")
		}

		xcontext.Logger(ctx).Errorf("Cannot get redemption %s: %v", id, err)
		return nil, errorx.Unknown
	}

	return redemption, nil
}

func (d *domain) UpdateRedemptionStatus(
	ctx context.Context, req *model.UpdateRedemptionStatusRequest,
) (*model.UpdateRedemptionStatusResponse, error) {
	if req.Status == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty status")
	}

	status, err := enum.ToEnum[entity.RedemptionStatus](req.Status)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid redemption status %s", req.Status)
	}

	redemption, err := d.getRedemption(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	err = d.transition(ctx, redemption, status,
		xcontext.RequestUserID(ctx), req.Reason, req.TrackingNumber, req.Note)
	if err != nil {
		return nil, err
	}

	return &model.UpdateRedemptionStatusResponse{Redemption: convertRedemption(*redemption)}, nil
}

func (d *domain) CancelRedemption(
	ctx context.Context, req *model.CancelRedemptionRequest,
) (*model.CancelRedemptionResponse, error) {
	redemption, err := d.getRedemption(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	if redemption.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Redemption belongs to another user")
	}

	err = d.transition(ctx, redemption, entity.RedemptionCancelled, userID, req.Reason, "", "")
	if err != nil {
		return nil, err
	}

	return &model.CancelRedemptionResponse{}, nil
}

func (d *domain) CompleteRedemption(
	ctx context.Context, req *model.CompleteRedemptionRequest,
) (*model.CompleteRedemptionResponse, error) {
	redemption, err := d.getRedemption(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	err = d.transition(ctx, redemption, entity.RedemptionCompleted,
		xcontext.RequestUserID(ctx), "", "", "")
	if err != nil {
		return nil, err
	}

	return &model.CompleteRedemptionResponse{}, nil
}

func (d *domain) SubmitRedemptionFeedback(
	ctx context.Context, req *model.SubmitRedemptionFeedbackRequest,
) (*model.SubmitRedemptionFeedbackResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, errorx.New(errorx.BadRequest, "Rating must be between 1 and 5")
	}

	redemption, err := d.getRedemption(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	if redemption.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Redemption belongs to another user")
	}

	if redemption.Status != entity.RedemptionCompleted {
		return nil, errorx.New(errorx.BadRequest, "Feedback requires a completed redemption")
	}

	if redemption.FeedbackAt != nil {
		return nil, errorx.New(errorx.AlreadyExists, "Feedback was already submitted")
	}

	cooldownKey := fmt.Sprintf("redemption_feedback:%s", userID)
	if d.redisClient != nil {
		exist, err := d.redisClient.Exist(ctx, cooldownKey)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot check feedback cooldown: %v", err)
		} else if exist {
			return nil, errorx.New(errorx.TooManyRequests, "Too many feedback submissions")
		}
	}

	now := time.Now()
	redemption.UserRating = req.Rating
	redemption.UserFeedback = req.Feedback
	redemption.FeedbackAt = &now

	if err := d.redemptionRepo.Update(ctx, redemption); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update redemption %s: %v", redemption.ID, err)
		return nil, errorx.Unknown
	}

	if d.redisClient != nil {
		cooldown := xcontext.Configs(ctx).Marketplace.FeedbackCooldown
		if err := d.redisClient.Set(ctx, cooldownKey, "1", cooldown); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot set feedback cooldown: %v", err)
		}
	}

	return &model.SubmitRedemptionFeedbackResponse{}, nil
}
