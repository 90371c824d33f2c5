package cron

import (
	"context"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/domain/marketplace"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

// ExpirePrizeAwardsCronJob sweeps available prize awards whose expiry has
// passed. Redemption initiation also expires lazily, the sweep keeps wallet
// listings honest between requests.
type ExpirePrizeAwardsCronJob struct {
	interval time.Duration

	marketplaceDomain marketplace.Domain
}

func NewExpirePrizeAwardsCronJob(
	interval time.Duration, marketplaceDomain marketplace.Domain,
) *ExpirePrizeAwardsCronJob {
	return &ExpirePrizeAwardsCronJob{interval: interval, marketplaceDomain: marketplaceDomain}
}

func (job *ExpirePrizeAwardsCronJob) Do(ctx context.Context) {
	expired, err := job.marketplaceDomain.ExpireOldAwards(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot expire prize awards: %v", err)
		return
	}

	if expired > 0 {
		xcontext.Logger(ctx).Infof("Expired %d prize awards", expired)
	}
}

func (job *ExpirePrizeAwardsCronJob) Name() string {
	return "expire-prize-awards"
}

func (job *ExpirePrizeAwardsCronJob) RunNow() bool {
	return true
}

func (job *ExpirePrizeAwardsCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
