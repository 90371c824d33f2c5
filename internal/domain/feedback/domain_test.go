package feedback

import (
	"testing"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/model"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/testutil"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestDomain() Domain {
	return NewDomain(
		repository.NewFeedbackRepository(),
		repository.NewUserRewardRepository(),
		repository.NewUserRepository(),
		nil,
	)
}

func requireErrorCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, code, errx.Code)
}

func Test_SubmitFeedback_kudos(t *testing.T) {
	ctx := xcontext.WithRequestUserID(testutil.MockContext(), testutil.User2.ID)
	domain := newTestDomain()

	resp, err := domain.SubmitFeedback(ctx, &model.SubmitFeedbackRequest{
		TargetType: "kudos",
		TargetID:   testutil.User1.ID,
		Rating:     5,
		Comment:    "always helpful",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	feedbacks, err := repository.NewFeedbackRepository().GetByReceiver(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, feedbacks, 1)
	require.Equal(t, testutil.User2.ID, feedbacks[0].GiverID)
	require.Equal(t, testutil.User1.Email, feedbacks[0].ReceiverEmail)

	// The same giver cannot rate the same target twice.
	_, err = domain.SubmitFeedback(ctx, &model.SubmitFeedbackRequest{
		TargetType: "kudos",
		TargetID:   testutil.User1.ID,
		Rating:     3,
	})
	requireErrorCode(t, err, errorx.AlreadyExists)
}

func Test_SubmitFeedback_badge(t *testing.T) {
	ctx := xcontext.WithRequestUserID(testutil.MockContext(), testutil.User2.ID)
	domain := newTestDomain()

	award := &entity.UserReward{
		Base:            entity.Base{ID: "award1"},
		RewardID:        testutil.DailyReward.ID,
		ReceiverID:      testutil.User1.ID,
		ReceiverEmail:   testutil.User1.Email,
		ReceiverName:    testutil.User1.DisplayName,
		AwardedAt:       time.Now(),
		TimeframeBucket: "2024-03-06",
	}
	require.NoError(t, repository.NewUserRewardRepository().Create(ctx, award))

	// Badge feedback lands on the award's receiver.
	resp, err := domain.SubmitFeedback(ctx, &model.SubmitFeedbackRequest{
		TargetType: "badge",
		TargetID:   award.ID,
		Rating:     4,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	feedbacks, err := repository.NewFeedbackRepository().GetByReceiver(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, feedbacks, 1)
}

func Test_SubmitFeedback_validation(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestDomain()

	// Unauthenticated.
	_, err := domain.SubmitFeedback(ctx, &model.SubmitFeedbackRequest{
		TargetType: "kudos",
		TargetID:   testutil.User1.ID,
		Rating:     5,
	})
	requireErrorCode(t, err, errorx.Unauthenticated)

	ctx = xcontext.WithRequestUserID(ctx, testutil.User2.ID)

	_, err = domain.SubmitFeedback(ctx, &model.SubmitFeedbackRequest{
		TargetType: "kudos",
		TargetID:   testutil.User1.ID,
		Rating:     0,
	})
	requireErrorCode(t, err, errorx.BadRequest)

	_, err = domain.SubmitFeedback(ctx, &model.SubmitFeedbackRequest{
		TargetType: "applause",
		TargetID:   testutil.User1.ID,
		Rating:     5,
	})
	requireErrorCode(t, err, errorx.BadRequest)

	_, err = domain.SubmitFeedback(ctx, &model.SubmitFeedbackRequest{
		TargetType: "badge",
		TargetID:   "missing-award",
		Rating:     5,
	})
	requireErrorCode(t, err, errorx.NotFound)
}
