package rewardrule

import (
	"context"

	"github.com/mitchellh/mapstructure"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

// anniversaryRule passes when the user's tenure reaches the configured number
// of whole years.
type anniversaryRule struct {
	Years int `mapstructure:"years" structs:"years"`

	factory Factory
}

func newAnniversaryRule(
	ctx context.Context, factory Factory, data map[string]any, needParse bool,
) (*anniversaryRule, error) {
	rule := anniversaryRule{factory: factory}
	if err := mapstructure.WeakDecode(data, &rule); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if needParse && rule.Years <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Anniversary years must be positive")
	}

	return &rule, nil
}

func (r *anniversaryRule) Fits(ec *EvalContext, env *Environment) (bool, error) {
	return ec.User.HiredAt != nil, nil
}

func (r *anniversaryRule) Evaluate(
	ctx context.Context, ec *EvalContext, env *Environment,
) (bool, error) {
	if ec.User.HiredAt == nil {
		return false, nil
	}

	return wholeYears(*ec.User.HiredAt, env.Now) >= r.Years, nil
}

// Candidates are active users whose hire anniversary is the evaluation date
// and whose tenure reaches the configured years.
func (r *anniversaryRule) Candidates(
	ctx context.Context, env *Environment,
) ([]entity.User, error) {
	users, err := r.factory.userRepo.GetActive(ctx, nil)
	if err != nil {
		return nil, err
	}

	result := []entity.User{}
	for _, user := range users {
		if user.HiredAt == nil {
			continue
		}

		hired := *user.HiredAt
		if hired.Month() != env.Now.Month() || hired.Day() != env.Now.Day() {
			continue
		}

		if wholeYears(hired, env.Now) >= r.Years {
			result = append(result, user)
		}
	}

	return result, nil
}
