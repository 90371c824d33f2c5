package cron

import (
	"context"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/domain/reward"
	"github.com/phenobarbital/nav-rewards/internal/domain/rewardrule"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/dateutil"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

// ComputedRewardCronJob drives every enabled computed reward once a day,
// evaluating its candidate pool through the regular award pipeline.
type ComputedRewardCronJob struct {
	hour int

	factory          rewardrule.Factory
	rewardRepo       repository.RewardRepository
	userRepo         repository.UserRepository
	userRewardRepo   repository.UserRewardRepository
	collectiveRepo   repository.CollectiveRepository
	notificationRepo repository.NotificationEventRepository
}

func NewComputedRewardCronJob(
	hour int,
	factory rewardrule.Factory,
	rewardRepo repository.RewardRepository,
	userRepo repository.UserRepository,
	userRewardRepo repository.UserRewardRepository,
	collectiveRepo repository.CollectiveRepository,
	notificationRepo repository.NotificationEventRepository,
) *ComputedRewardCronJob {
	return &ComputedRewardCronJob{
		hour:             hour,
		factory:          factory,
		rewardRepo:       rewardRepo,
		userRepo:         userRepo,
		userRewardRepo:   userRewardRepo,
		collectiveRepo:   collectiveRepo,
		notificationRepo: notificationRepo,
	}
}

func (job *ComputedRewardCronJob) Do(ctx context.Context) {
	rewards, err := job.rewardRepo.GetList(ctx, &repository.RewardFilter{
		Type:        entity.RewardTypeComputed,
		OnlyEnabled: true,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get computed rewards: %v", err)
		return
	}

	env := rewardrule.NewEnvironment(time.Now())
	for _, r := range rewards {
		object, err := reward.NewRewardObject(ctx, r, job.factory,
			job.userRepo, job.userRewardRepo, job.collectiveRepo, job.notificationRepo)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot build reward %s: %v", r.ID, err)
			continue
		}

		awarded, err := reward.NewComputedReward(object, job.userRepo).CallReward(ctx, env)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot run computed reward %s: %v", r.ID, err)
			continue
		}

		xcontext.Logger(ctx).Infof("Computed reward %s awarded %d users", r.Name, len(awarded))
	}
}

func (job *ComputedRewardCronJob) Name() string {
	return "computed-reward"
}

func (job *ComputedRewardCronJob) RunNow() bool {
	return false
}

func (job *ComputedRewardCronJob) Next() time.Time {
	return dateutil.NextTimeOfDay(time.Now(), job.hour, 0)
}
