package reward

import (
	"context"
	"testing"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/domain/rewardrule"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestObject(t *testing.T, ctx context.Context, reward entity.Reward) *RewardObject {
	t.Helper()

	userRepo := repository.NewUserRepository()
	userRewardRepo := repository.NewUserRewardRepository()
	factory := rewardrule.NewFactory(userRepo, userRewardRepo)

	object, err := NewRewardObject(ctx, reward, factory,
		userRepo,
		userRewardRepo,
		repository.NewCollectiveRepository(),
		repository.NewNotificationEventRepository(),
	)
	require.NoError(t, err)

	return object
}

func insertAward(
	t *testing.T, ctx context.Context, reward entity.Reward, userID, bucket string, awardedAt time.Time,
) {
	t.Helper()

	err := repository.NewUserRewardRepository().Create(ctx, &entity.UserReward{
		Base:            entity.Base{ID: "award-" + bucket},
		RewardID:        reward.ID,
		RewardName:      reward.Name,
		RewardType:      reward.Type,
		Points:          reward.Points,
		ReceiverID:      userID,
		AwardedAt:       awardedAt,
		TimeframeBucket: bucket,
	})
	require.NoError(t, err)
}

func Test_RewardObject_HasAwarded_dailyTimeframe(t *testing.T) {
	ctx := testutil.MockContext()
	object := newTestObject(t, ctx, testutil.DailyReward)

	now := time.Date(2024, time.March, 6, 14, 0, 0, 0, time.UTC)
	env := rewardrule.NewEnvironment(now)

	awarded, err := object.HasAwarded(ctx, testutil.User1.ID, env)
	require.NoError(t, err)
	require.False(t, awarded)

	// An award earlier the same day lands in the current bucket.
	insertAward(t, ctx, testutil.DailyReward, testutil.User1.ID,
		"2024-03-06", now.Add(-5*time.Hour))

	awarded, err = object.HasAwarded(ctx, testutil.User1.ID, env)
	require.NoError(t, err)
	require.True(t, awarded)

	// Yesterday's award does not block today.
	ctx = testutil.MockContext()
	insertAward(t, ctx, testutil.DailyReward, testutil.User1.ID,
		"2024-03-05", now.Add(-24*time.Hour))

	awarded, err = object.HasAwarded(ctx, testutil.User1.ID, env)
	require.NoError(t, err)
	require.False(t, awarded)
}

func Test_RewardObject_HasAwarded_once(t *testing.T) {
	ctx := testutil.MockContext()
	object := newTestObject(t, ctx, testutil.OnceReward)

	env := rewardrule.NewEnvironment(time.Now())
	insertAward(t, ctx, testutil.OnceReward, testutil.User1.ID,
		"once", time.Now().AddDate(-1, 0, 0))

	awarded, err := object.HasAwarded(ctx, testutil.User1.ID, env)
	require.NoError(t, err)
	require.True(t, awarded)

	// Another user is unaffected.
	awarded, err = object.HasAwarded(ctx, testutil.User2.ID, env)
	require.NoError(t, err)
	require.False(t, awarded)
}

func Test_RewardObject_HasAwarded_cooldown(t *testing.T) {
	ctx := testutil.MockContext()

	reward := entity.Reward{
		Base:            entity.Base{ID: "reward-cooldown"},
		Name:            "Quick Kudos",
		Points:          1,
		Type:            entity.RewardTypeManual,
		Multiple:        true,
		Timeframe:       entity.TimeframeNone,
		CooldownMinutes: 30,
		IsEnabled:       true,
	}
	require.NoError(t, repository.NewRewardRepository().Create(ctx, &reward))

	object := newTestObject(t, ctx, reward)
	now := time.Date(2024, time.March, 6, 14, 0, 0, 0, time.UTC)
	env := rewardrule.NewEnvironment(now)

	insertAward(t, ctx, reward, testutil.User1.ID, "b1", now.Add(-29*time.Minute))
	awarded, err := object.HasAwarded(ctx, testutil.User1.ID, env)
	require.NoError(t, err)
	require.True(t, awarded)

	ctx = testutil.MockContext()
	require.NoError(t, repository.NewRewardRepository().Create(ctx, &reward))
	insertAward(t, ctx, reward, testutil.User1.ID, "b2", now.Add(-31*time.Minute))
	awarded, err = object.HasAwarded(ctx, testutil.User1.ID, env)
	require.NoError(t, err)
	require.False(t, awarded)
}

func Test_RewardObject_Apply_rendersMessage(t *testing.T) {
	ctx := testutil.MockContext()
	object := newTestObject(t, ctx, testutil.DailyReward)

	ec := rewardrule.NewEvalContext(testutil.User1, nil)
	env := rewardrule.NewEnvironment(time.Now())

	award, err := object.Apply(ctx, ec, env, nil)
	require.NoError(t, err)
	require.Equal(t, "Great job, Alice!", award.Message)
	require.Equal(t, testutil.DailyReward.Points, award.Points)
	require.Equal(t, testutil.User1.ID, award.ReceiverID)

	// The outbox row is written in the same transaction.
	events, err := repository.NewNotificationEventRepository().GetPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, testutil.User1.ID, events[0].RecipientID)
}

func Test_RewardObject_Apply_duplicateBucket(t *testing.T) {
	ctx := testutil.MockContext()
	object := newTestObject(t, ctx, testutil.DailyReward)

	ec := rewardrule.NewEvalContext(testutil.User1, nil)
	env := rewardrule.NewEnvironment(time.Date(2024, time.March, 6, 9, 0, 0, 0, time.UTC))

	_, err := object.Apply(ctx, ec, env, nil)
	require.NoError(t, err)

	// Same user, same day: the unique bucket index rejects the second row
	// even though the first check already happened.
	_, err = object.Apply(ctx, ec, env, nil)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)

	// The next day is a new bucket.
	env = rewardrule.NewEnvironment(time.Date(2024, time.March, 7, 9, 0, 0, 0, time.UTC))
	_, err = object.Apply(ctx, ec, env, nil)
	require.NoError(t, err)
}

func Test_RewardObject_Apply_selfReward(t *testing.T) {
	ctx := testutil.MockContext()
	object := newTestObject(t, ctx, testutil.DailyReward)

	ec := rewardrule.NewEvalContext(testutil.User1, entity.Map{"user_id": testutil.User1.ID})
	_, err := object.Apply(ctx, ec, rewardrule.NewEnvironment(time.Now()), nil)

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_RewardObject_Apply_recordsGiver(t *testing.T) {
	ctx := testutil.MockContext()
	object := newTestObject(t, ctx, testutil.DailyReward)

	ec := rewardrule.NewEvalContext(testutil.User1, entity.Map{"user_id": testutil.User2.ID})
	award, err := object.Apply(ctx, ec, rewardrule.NewEnvironment(time.Now()), nil)
	require.NoError(t, err)
	require.Equal(t, testutil.User2.ID, award.GiverID)
	require.Equal(t, "Bob", award.GiverName)
}

func Test_RewardObject_Apply_overrides(t *testing.T) {
	ctx := testutil.MockContext()
	object := newTestObject(t, ctx, testutil.DailyReward)

	ec := rewardrule.NewEvalContext(testutil.User1, nil)
	award, err := object.Apply(ctx, ec, rewardrule.NewEnvironment(time.Now()),
		&ApplyOverrides{Message: "Custom note", Points: 25})
	require.NoError(t, err)
	require.Equal(t, "Custom note", award.Message)
	require.Equal(t, 25, award.Points)
}

func Test_RewardObject_CheckCollectives(t *testing.T) {
	ctx := testutil.MockContext()
	collectiveRepo := repository.NewCollectiveRepository()

	collective := entity.Collective{
		Base:   entity.Base{ID: "collective1"},
		Name:   "Starter Set",
		Points: 100,
	}
	require.NoError(t, collectiveRepo.Create(ctx, &collective))
	require.NoError(t, collectiveRepo.AddReward(ctx, collective.ID, testutil.DailyReward.ID))
	require.NoError(t, collectiveRepo.AddReward(ctx, collective.ID, testutil.OnceReward.ID))

	object := newTestObject(t, ctx, testutil.DailyReward)

	// Holding one of the two member rewards unlocks nothing.
	insertAward(t, ctx, testutil.DailyReward, testutil.User1.ID, "2024-03-06", time.Now())
	require.NoError(t, object.CheckCollectives(ctx, testutil.User1.ID))

	unlocked, err := collectiveRepo.GetUnlockedByUser(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Empty(t, unlocked)

	// The second member reward completes the set.
	insertAward(t, ctx, testutil.OnceReward, testutil.User1.ID, "once", time.Now())
	require.NoError(t, object.CheckCollectives(ctx, testutil.User1.ID))

	unlocked, err = collectiveRepo.GetUnlockedByUser(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	require.Equal(t, collective.ID, unlocked[0].CollectiveID)

	// Re-checking never duplicates the unlock row.
	require.NoError(t, object.CheckCollectives(ctx, testutil.User1.ID))
	unlocked, err = collectiveRepo.GetUnlockedByUser(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
}

func Test_RewardObject_Fits(t *testing.T) {
	ctx := testutil.MockContext()

	reward := testutil.DailyReward
	reward.Availability = entity.Map{
		"start_time": "09:00",
		"end_time":   "17:00",
		"season":     []any{"spring", "summer"},
	}
	reward.Conditions = entity.Array[string]{"job_code"}

	object := newTestObject(t, ctx, reward)
	ec := rewardrule.NewEvalContext(testutil.User1, nil)

	// A spring morning inside the window.
	ok := object.Fits(ctx, ec, rewardrule.NewEnvironment(
		time.Date(2024, time.April, 10, 10, 0, 0, 0, time.UTC)))
	require.True(t, ok)
	require.Empty(t, object.FailedConditions())

	// A winter evening fails both the clock window and the season match.
	ok = object.Fits(ctx, ec, rewardrule.NewEnvironment(
		time.Date(2024, time.January, 10, 20, 0, 0, 0, time.UTC)))
	require.False(t, ok)
	require.Contains(t, object.FailedConditions(), "fit_environment")
}

func Test_RewardObject_Evaluate_awardee(t *testing.T) {
	ctx := testutil.MockContext()

	reward := testutil.DailyReward
	reward.Awardee = entity.Map{"groups": []any{"backend"}}

	object := newTestObject(t, ctx, reward)
	env := rewardrule.NewEnvironment(time.Now())

	// User1 is in the backend group, User2 is not.
	require.True(t, object.Evaluate(ctx, rewardrule.NewEvalContext(testutil.User1, nil), env))
	require.False(t, object.Evaluate(ctx, rewardrule.NewEvalContext(testutil.User2, nil), env))
	require.Contains(t, object.FailedConditions(), "check_awardee")
}
