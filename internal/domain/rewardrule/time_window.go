package rewardrule

import (
	"context"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"golang.org/x/exp/slices"
)

// timeWindowRule passes when the evaluation instant falls inside a clock-time
// window, optionally restricted to a set of weekdays.
type timeWindowRule struct {
	Start    string   `mapstructure:"start" structs:"start"`
	End      string   `mapstructure:"end" structs:"end"`
	Weekdays []string `mapstructure:"weekdays" structs:"weekdays"`
}

func newTimeWindowRule(
	ctx context.Context, factory Factory, data map[string]any, needParse bool,
) (*timeWindowRule, error) {
	rule := timeWindowRule{}
	if err := mapstructure.Decode(data, &rule); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if needParse {
		if _, err := time.Parse("15:04", rule.Start); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid window start %s", rule.Start)
		}

		if _, err := time.Parse("15:04", rule.End); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid window end %s", rule.End)
		}
	}

	return &rule, nil
}

func (r *timeWindowRule) Fits(ec *EvalContext, env *Environment) (bool, error) {
	return r.inWindow(env.Now), nil
}

func (r *timeWindowRule) Evaluate(
	ctx context.Context, ec *EvalContext, env *Environment,
) (bool, error) {
	return r.inWindow(env.Now), nil
}

func (r *timeWindowRule) inWindow(now time.Time) bool {
	if len(r.Weekdays) > 0 && !slices.Contains(r.Weekdays, now.Weekday().String()) {
		return false
	}

	clock := now.Format("15:04")
	if r.Start != "" && clock < r.Start {
		return false
	}

	if r.End != "" && clock > r.End {
		return false
	}

	return true
}
