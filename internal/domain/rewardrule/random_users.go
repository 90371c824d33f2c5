package rewardrule

import (
	"context"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/crypto"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

// randomUsersRule draws a random set of users as the candidate dataset of a
// computed reward. It never restricts a direct award, so Fits and Evaluate
// are vacuously true.
type randomUsersRule struct {
	Count                int      `mapstructure:"count" structs:"count"`
	Departments          []string `mapstructure:"departments" structs:"departments"`
	JobCodes             []string `mapstructure:"job_codes" structs:"job_codes"`
	MinTenureDays        int      `mapstructure:"min_tenure_days" structs:"min_tenure_days"`
	ExcludeRecentWinners bool     `mapstructure:"exclude_recent_winners" structs:"exclude_recent_winners"`
	RecentWinnerDays     int      `mapstructure:"recent_winner_days" structs:"recent_winner_days"`

	rewardID string
	factory  Factory
}

func newRandomUsersRule(
	ctx context.Context,
	factory Factory,
	rewardID string,
	data map[string]any,
	needParse bool,
) (*randomUsersRule, error) {
	rule := randomUsersRule{factory: factory, rewardID: rewardID}
	if err := mapstructure.WeakDecode(data, &rule); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if needParse && rule.Count <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Random users count must be positive")
	}

	if rule.RecentWinnerDays == 0 {
		rule.RecentWinnerDays = 30
	}

	return &rule, nil
}

func (r *randomUsersRule) Fits(ec *EvalContext, env *Environment) (bool, error) {
	return true, nil
}

func (r *randomUsersRule) Evaluate(
	ctx context.Context, ec *EvalContext, env *Environment,
) (bool, error) {
	return true, nil
}

func (r *randomUsersRule) Candidates(
	ctx context.Context, env *Environment,
) ([]entity.User, error) {
	filter := repository.UserFilter{
		Departments: r.Departments,
		JobCodes:    r.JobCodes,
	}

	if r.MinTenureDays > 0 {
		hiredBefore := env.Now.AddDate(0, 0, -r.MinTenureDays)
		filter.HiredBefore = &hiredBefore
	}

	if r.ExcludeRecentWinners {
		since := env.Now.Add(-time.Duration(r.RecentWinnerDays) * 24 * time.Hour)
		recent, err := r.factory.userRewardRepo.GetRecentReceiverIDs(ctx, r.rewardID, since)
		if err != nil {
			return nil, err
		}

		filter.ExcludeIDs = recent
	}

	users, err := r.factory.userRepo.GetActive(ctx, &filter)
	if err != nil {
		return nil, err
	}

	return crypto.RandSample(users, r.Count), nil
}
