package marketplace

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/model"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/testutil"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func requireErrorCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, code, errx.Code)
}

func awardFixturePrize(
	t *testing.T, ctx context.Context, domain Domain, prizeID string,
) model.PrizeAward {
	t.Helper()

	resp, err := domain.AwardPrize(ctx, &model.AwardPrizeRequest{PrizeID: prizeID})
	require.NoError(t, err)

	return resp.Award
}

func Test_AwardPrize(t *testing.T) {
	ctx := xcontext.WithRequestUserID(testutil.MockContext(), testutil.User1.ID)
	domain := newTestDomain()

	award := awardFixturePrize(t, ctx, domain, testutil.PrizeMug.ID)
	require.Equal(t, "available", award.Status)
	require.Equal(t, "manual", award.Source)
	require.Equal(t, 0, award.PointsSpent)
	require.NotNil(t, award.ExpiresAt)

	// Purchases debit the prize cost.
	resp, err := domain.AwardPrize(ctx, &model.AwardPrizeRequest{
		PrizeID: testutil.PrizeGiftCard.ID,
		Source:  "purchase",
	})
	require.NoError(t, err)
	require.Equal(t, testutil.PrizeGiftCard.PointsCost, resp.Award.PointsSpent)

	// Awarding decrements the finite stock.
	prize, err := repository.NewPrizeRepository().GetByID(ctx, testutil.PrizeMug.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.PrizeMug.AvailableQuantity-1, prize.AvailableQuantity)
}

func Test_AwardPrize_stockExhaustion(t *testing.T) {
	ctx := xcontext.WithRequestUserID(testutil.MockContext(), testutil.User1.ID)
	domain := newTestDomain()

	// The trip has a single unit.
	awardFixturePrize(t, ctx, domain, testutil.PrizeTrip.ID)

	ctx2 := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err := domain.AwardPrize(ctx2, &model.AwardPrizeRequest{PrizeID: testutil.PrizeTrip.ID})
	requireErrorCode(t, err, errorx.Unavailable)
}

func Test_AwardPrize_maxPerUser(t *testing.T) {
	ctx := xcontext.WithRequestUserID(testutil.MockContext(), testutil.User1.ID)
	domain := newTestDomain()

	// Stretch the stock so only the per-user limit can block the second award.
	err := xcontext.DB(ctx).Model(&entity.PrizeCatalog{}).
		Where("id=?", testutil.PrizeTrip.ID).
		Updates(map[string]any{"total_quantity": 5, "available_quantity": 5}).Error
	require.NoError(t, err)

	awardFixturePrize(t, ctx, domain, testutil.PrizeTrip.ID)

	_, err = domain.AwardPrize(ctx, &model.AwardPrizeRequest{PrizeID: testutil.PrizeTrip.ID})
	requireErrorCode(t, err, errorx.Unavailable)
}

func Test_InitiateRedemption(t *testing.T) {
	ctx := xcontext.WithRequestUserID(testutil.MockContext(), testutil.User1.ID)
	domain := newTestDomain()

	award := awardFixturePrize(t, ctx, domain, testutil.PrizeMug.ID)

	resp, err := domain.InitiateRedemption(ctx, &model.InitiateRedemptionRequest{
		AwardID:        award.ID,
		DeliveryDetail: map[string]any{"desk": "4F-12"},
	})
	require.NoError(t, err)
	require.Equal(t, "initiated", resp.Redemption.Status)

	// The award is reserved while the redemption is in flight.
	got, err := domain.GetPrizeAward(ctx, &model.GetPrizeAwardRequest{AwardID: award.ID})
	require.NoError(t, err)
	require.Equal(t, "reserved", got.Status)

	// A reserved award cannot start a second redemption.
	_, err = domain.InitiateRedemption(ctx, &model.InitiateRedemptionRequest{AwardID: award.ID})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_InitiateRedemption_requiresApproval(t *testing.T) {
	ctx := xcontext.WithRequestUserID(testutil.MockContext(), testutil.User1.ID)
	domain := newTestDomain()

	award := awardFixturePrize(t, ctx, domain, testutil.PrizeTrip.ID)

	resp, err := domain.InitiateRedemption(ctx, &model.InitiateRedemptionRequest{AwardID: award.ID})
	require.NoError(t, err)
	require.Equal(t, "pending_approval", resp.Redemption.Status)
}

func Test_InitiateRedemption_ownership(t *testing.T) {
	ctx := xcontext.WithRequestUserID(testutil.MockContext(), testutil.User1.ID)
	domain := newTestDomain()

	award := awardFixturePrize(t, ctx, domain, testutil.PrizeMug.ID)

	ctx2 := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err := domain.InitiateRedemption(ctx2, &model.InitiateRedemptionRequest{AwardID: award.ID})
	requireErrorCode(t, err, errorx.PermissionDenied)
}

func Test_InitiateRedemption_expiredAward(t *testing.T) {
	ctx := xcontext.WithRequestUserID(testutil.MockContext(), testutil.User1.ID)
	domain := newTestDomain()

	expired := time.Now().Add(-time.Hour)
	award := &entity.PrizeAward{
		Base:      entity.Base{ID: uuid.NewString()},
		PrizeID:   testutil.PrizeMug.ID,
		UserID:    testutil.User1.ID,
		Status:    entity.PrizeAwardAvailable,
		Source:    entity.PrizeAwardSourceManual,
		ExpiresAt: &expired,
	}
	require.NoError(t, repository.NewPrizeAwardRepository().Create(ctx, award))

	// The overdue award is flipped lazily and rejected.
	_, err := domain.InitiateRedemption(ctx, &model.InitiateRedemptionRequest{AwardID: award.ID})
	requireErrorCode(t, err, errorx.BadRequest)

	got, err := domain.GetPrizeAward(ctx, &model.GetPrizeAwardRequest{AwardID: award.ID})
	require.NoError(t, err)
	require.Equal(t, "expired", got.Status)
}

func Test_Redemption_lifecycle(t *testing.T) {
	ctx := xcontext.WithRequestUserID(testutil.MockContext(), testutil.User1.ID)
	domain := newTestDomain()

	award := awardFixturePrize(t, ctx, domain, testutil.PrizeTrip.ID)
	initResp, err := domain.InitiateRedemption(ctx, &model.InitiateRedemptionRequest{AwardID: award.ID})
	require.NoError(t, err)
	redemptionID := initResp.Redemption.ID

	adminCtx := xcontext.WithRequestUserID(ctx, testutil.User2.ID)

	// Shipping without a tracking number is rejected.
	_, err = domain.UpdateRedemptionStatus(adminCtx, &model.UpdateRedemptionStatusRequest{
		ID:     redemptionID,
		Status: "shipped",
	})
	requireErrorCode(t, err, errorx.BadRequest)

	approveResp, err := domain.UpdateRedemptionStatus(adminCtx, &model.UpdateRedemptionStatusRequest{
		ID:     redemptionID,
		Status: "approved",
	})
	require.NoError(t, err)
	require.Equal(t, testutil.User2.ID, approveResp.Redemption.ApprovedBy)
	require.NotNil(t, approveResp.Redemption.ApprovedAt)

	shipResp, err := domain.UpdateRedemptionStatus(adminCtx, &model.UpdateRedemptionStatusRequest{
		ID:             redemptionID,
		Status:         "shipped",
		TrackingNumber: "TRK-123",
	})
	require.NoError(t, err)
	require.Equal(t, "TRK-123", shipResp.Redemption.TrackingNumber)

	_, err = domain.CompleteRedemption(adminCtx, &model.CompleteRedemptionRequest{ID: redemptionID})
	require.NoError(t, err)

	// Completion marks the award redeemed.
	got, err := domain.GetPrizeAward(ctx, &model.GetPrizeAwardRequest{AwardID: award.ID})
	require.NoError(t, err)
	require.Equal(t, "redeemed", got.Status)

	// A terminal redemption accepts no further transition.
	_, err = domain.UpdateRedemptionStatus(adminCtx, &model.UpdateRedemptionStatusRequest{
		ID:     redemptionID,
		Status: "cancelled",
	})
	requireErrorCode(t, err, errorx.BadRequest)

	// The full history is recorded in order.
	full, err := domain.GetRedemption(ctx, &model.GetRedemptionRequest{ID: redemptionID})
	require.NoError(t, err)
	require.Len(t, full.History, 4)
	require.Equal(t, "pending_approval", full.History[0].ToStatus)
	require.Equal(t, "completed", full.History[3].ToStatus)
}

func Test_CancelRedemption_releasesAward(t *testing.T) {
	ctx := xcontext.WithRequestUserID(testutil.MockContext(), testutil.User1.ID)
	domain := newTestDomain()

	award := awardFixturePrize(t, ctx, domain, testutil.PrizeMug.ID)
	initResp, err := domain.InitiateRedemption(ctx, &model.InitiateRedemptionRequest{AwardID: award.ID})
	require.NoError(t, err)

	// Only the owner can cancel.
	ctx2 := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err = domain.CancelRedemption(ctx2, &model.CancelRedemptionRequest{
		ID: initResp.Redemption.ID,
	})
	requireErrorCode(t, err, errorx.PermissionDenied)

	_, err = domain.CancelRedemption(ctx, &model.CancelRedemptionRequest{
		ID:     initResp.Redemption.ID,
		Reason: "changed my mind",
	})
	require.NoError(t, err)

	// The award returns to the wallet.
	got, err := domain.GetPrizeAward(ctx, &model.GetPrizeAwardRequest{AwardID: award.ID})
	require.NoError(t, err)
	require.Equal(t, "available", got.Status)
}

func Test_SubmitRedemptionFeedback(t *testing.T) {
	ctx := xcontext.WithRequestUserID(testutil.MockContext(), testutil.User1.ID)
	domain := newTestDomain()

	award := awardFixturePrize(t, ctx, domain, testutil.PrizeMug.ID)
	initResp, err := domain.InitiateRedemption(ctx, &model.InitiateRedemptionRequest{AwardID: award.ID})
	require.NoError(t, err)
	redemptionID := initResp.Redemption.ID

	_, err = domain.SubmitRedemptionFeedback(ctx, &model.SubmitRedemptionFeedbackRequest{
		ID:     redemptionID,
		Rating: 6,
	})
	requireErrorCode(t, err, errorx.BadRequest)

	// Feedback needs a completed redemption.
	_, err = domain.SubmitRedemptionFeedback(ctx, &model.SubmitRedemptionFeedbackRequest{
		ID:     redemptionID,
		Rating: 5,
	})
	requireErrorCode(t, err, errorx.BadRequest)

	_, err = domain.CompleteRedemption(ctx, &model.CompleteRedemptionRequest{ID: redemptionID})
	require.NoError(t, err)

	_, err = domain.SubmitRedemptionFeedback(ctx, &model.SubmitRedemptionFeedbackRequest{
		ID:       redemptionID,
		Rating:   5,
		Feedback: "arrived quickly",
	})
	require.NoError(t, err)

	// Feedback is one-shot per redemption.
	_, err = domain.SubmitRedemptionFeedback(ctx, &model.SubmitRedemptionFeedbackRequest{
		ID:     redemptionID,
		Rating: 4,
	})
	requireErrorCode(t, err, errorx.AlreadyExists)
}

func Test_ExpireOldAwards(t *testing.T) {
	ctx := xcontext.WithRequestUserID(testutil.MockContext(), testutil.User1.ID)
	domain := newTestDomain()

	fresh := awardFixturePrize(t, ctx, domain, testutil.PrizeMug.ID)

	expired := time.Now().Add(-time.Hour)
	overdue := &entity.PrizeAward{
		Base:      entity.Base{ID: uuid.NewString()},
		PrizeID:   testutil.PrizeMug.ID,
		UserID:    testutil.User1.ID,
		Status:    entity.PrizeAwardAvailable,
		Source:    entity.PrizeAwardSourceManual,
		ExpiresAt: &expired,
	}
	require.NoError(t, repository.NewPrizeAwardRepository().Create(ctx, overdue))

	count, err := domain.ExpireOldAwards(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	got, err := domain.GetPrizeAward(ctx, &model.GetPrizeAwardRequest{AwardID: overdue.ID})
	require.NoError(t, err)
	require.Equal(t, "expired", got.Status)

	// An award inside its expiry window is untouched.
	got, err = domain.GetPrizeAward(ctx, &model.GetPrizeAwardRequest{AwardID: fresh.ID})
	require.NoError(t, err)
	require.Equal(t, "available", got.Status)
}
