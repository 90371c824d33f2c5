package cron

import (
	"context"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/domain/marketplace"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

// MysteryBoxCronJob picks up scheduled mystery box events whose time has
// come and executes them.
type MysteryBoxCronJob struct {
	interval time.Duration

	marketplaceDomain marketplace.Domain
	mysteryBoxRepo    repository.MysteryBoxEventRepository
}

func NewMysteryBoxCronJob(
	interval time.Duration,
	marketplaceDomain marketplace.Domain,
	mysteryBoxRepo repository.MysteryBoxEventRepository,
) *MysteryBoxCronJob {
	return &MysteryBoxCronJob{
		interval:          interval,
		marketplaceDomain: marketplaceDomain,
		mysteryBoxRepo:    mysteryBoxRepo,
	}
}

func (job *MysteryBoxCronJob) Do(ctx context.Context) {
	events, err := job.mysteryBoxRepo.GetDueScheduled(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get due mystery box events: %v", err)
		return
	}

	for _, event := range events {
		if err := job.marketplaceDomain.ExecuteMysteryBox(ctx, event.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot execute mystery box event %s: %v", event.ID, err)
		}
	}
}

func (job *MysteryBoxCronJob) Name() string {
	return "mystery-box"
}

func (job *MysteryBoxCronJob) RunNow() bool {
	return false
}

func (job *MysteryBoxCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
