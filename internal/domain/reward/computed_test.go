package reward

import (
	"testing"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/domain/rewardrule"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_ComputedReward_birthday(t *testing.T) {
	ctx := testutil.MockContext()

	reward := entity.Reward{
		Base:      entity.Base{ID: "reward-birthday"},
		Name:      "Happy Birthday",
		Points:    20,
		Type:      entity.RewardTypeComputed,
		Message:   "Happy birthday, {{.Receiver}}!",
		Multiple:  false,
		Rules:     entity.Array[entity.Map]{{"rule": "birthday"}},
		IsEnabled: true,
	}
	require.NoError(t, repository.NewRewardRepository().Create(ctx, &reward))

	object := newTestObject(t, ctx, reward)
	computed := NewComputedReward(object, repository.NewUserRepository())

	// Only User1 carries a birthday attribute, June 15th.
	env := rewardrule.NewEnvironment(time.Date(2024, time.June, 15, 6, 0, 0, 0, time.UTC))
	awarded, err := computed.CallReward(ctx, env)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	require.Equal(t, testutil.User1.ID, awarded[0].ReceiverID)
	require.Equal(t, "Happy birthday, Alice!", awarded[0].Message)

	// A second run on the same day awards nobody again.
	awarded, err = computed.CallReward(ctx, env)
	require.NoError(t, err)
	require.Empty(t, awarded)

	// A different date matches no birthday.
	env = rewardrule.NewEnvironment(time.Date(2024, time.June, 16, 6, 0, 0, 0, time.UTC))
	awarded, err = computed.CallReward(ctx, env)
	require.NoError(t, err)
	require.Empty(t, awarded)
}

func Test_ComputedReward_webhookBatchNotification(t *testing.T) {
	ctx := testutil.MockContext()

	reward := entity.Reward{
		Base:       entity.Base{ID: "reward-birthday-hook"},
		Name:       "Happy Birthday",
		Points:     20,
		Type:       entity.RewardTypeComputed,
		Message:    "Happy birthday, {{.Receiver}}!",
		Multiple:   false,
		Rules:      entity.Array[entity.Map]{{"rule": "birthday"}},
		WebhookURL: "https://hooks.example.com/rewards",
		IsEnabled:  true,
	}
	require.NoError(t, repository.NewRewardRepository().Create(ctx, &reward))

	object := newTestObject(t, ctx, reward)
	computed := NewComputedReward(object, repository.NewUserRepository())

	env := rewardrule.NewEnvironment(time.Date(2024, time.June, 15, 6, 0, 0, 0, time.UTC))
	awarded, err := computed.CallReward(ctx, env)
	require.NoError(t, err)
	require.Len(t, awarded, 1)

	// One event per award plus a single batch summary for the webhook.
	notificationRepo := repository.NewNotificationEventRepository()
	events, err := notificationRepo.GetPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, len(awarded)+1)

	var summary *entity.NotificationEvent
	for i := range events {
		if events[i].RecipientID == "" {
			summary = &events[i]
		}
	}
	require.NotNil(t, summary)
	require.Equal(t, reward.NotificationKind, summary.Kind)
	require.Equal(t, "https://hooks.example.com/rewards", summary.Payload["webhook_url"])
	require.EqualValues(t, 1, summary.Payload["awarded_count"])

	// An empty batch emits nothing more.
	env = rewardrule.NewEnvironment(time.Date(2024, time.June, 16, 6, 0, 0, 0, time.UTC))
	awarded, err = computed.CallReward(ctx, env)
	require.NoError(t, err)
	require.Empty(t, awarded)

	events, err = notificationRepo.GetPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func Test_ComputedReward_randomUsers(t *testing.T) {
	ctx := testutil.MockContext()

	reward := entity.Reward{
		Base:   entity.Base{ID: "reward-spotlight"},
		Name:   "Weekly Spotlight",
		Points: 10,
		Type:   entity.RewardTypeComputed,
		Rules: entity.Array[entity.Map]{
			{"rule": "random_users", "count": 1},
		},
		Multiple:  true,
		Timeframe: entity.TimeframeWeekly,
		IsEnabled: true,
	}
	require.NoError(t, repository.NewRewardRepository().Create(ctx, &reward))

	object := newTestObject(t, ctx, reward)
	computed := NewComputedReward(object, repository.NewUserRepository())

	env := rewardrule.NewEnvironment(time.Date(2024, time.March, 6, 6, 0, 0, 0, time.UTC))
	awarded, err := computed.CallReward(ctx, env)
	require.NoError(t, err)
	require.Len(t, awarded, 1)

	// The winner is one of the active users.
	require.Contains(t,
		[]string{testutil.User1.ID, testutil.User2.ID}, awarded[0].ReceiverID)
}

func Test_ComputedReward_thresholdCandidates(t *testing.T) {
	ctx := testutil.MockContext()

	reward := entity.Reward{
		Base:   entity.Base{ID: "reward-sales"},
		Name:   "Sales Milestone",
		Points: 100,
		Type:   entity.RewardTypeComputed,
		Rules: entity.Array[entity.Map]{
			{"rule": "threshold", "attribute": "sales_total", "min": 1000.0},
		},
		Multiple:  true,
		Timeframe: entity.TimeframeMonthly,
		IsEnabled: true,
	}
	require.NoError(t, repository.NewRewardRepository().Create(ctx, &reward))

	object := newTestObject(t, ctx, reward)
	computed := NewComputedReward(object, repository.NewUserRepository())

	// Only User1 carries a sales_total above the bar.
	env := rewardrule.NewEnvironment(time.Date(2024, time.March, 31, 6, 0, 0, 0, time.UTC))
	awarded, err := computed.CallReward(ctx, env)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	require.Equal(t, testutil.User1.ID, awarded[0].ReceiverID)

	// Monthly spacing blocks the same month, opens the next.
	awarded, err = computed.CallReward(ctx, env)
	require.NoError(t, err)
	require.Empty(t, awarded)

	env = rewardrule.NewEnvironment(time.Date(2024, time.April, 1, 6, 0, 0, 0, time.UTC))
	awarded, err = computed.CallReward(ctx, env)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
}
