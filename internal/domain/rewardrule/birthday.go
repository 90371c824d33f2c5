package rewardrule

import (
	"context"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

// birthdayRule passes when the user's birthday falls on the evaluation date.
// The birthday attribute accepts a full date or a month-day value.
type birthdayRule struct {
	factory Factory
}

func newBirthdayRule(
	ctx context.Context, factory Factory, data map[string]any, needParse bool,
) (*birthdayRule, error) {
	return &birthdayRule{factory: factory}, nil
}

func (r *birthdayRule) Fits(ec *EvalContext, env *Environment) (bool, error) {
	_, ok := ec.User.Attributes["birthday"]
	return ok, nil
}

func (r *birthdayRule) Evaluate(
	ctx context.Context, ec *EvalContext, env *Environment,
) (bool, error) {
	birthday, ok := ec.User.Attributes["birthday"].(string)
	if !ok {
		return false, nil
	}

	month, day, ok := parseMonthDay(birthday)
	if !ok {
		xcontext.Logger(ctx).Warnf("Invalid birthday attribute of user %s: %s", ec.User.ID, birthday)
		return false, nil
	}

	return month == env.Now.Month() && day == env.Now.Day(), nil
}

func (r *birthdayRule) Candidates(
	ctx context.Context, env *Environment,
) ([]entity.User, error) {
	users, err := r.factory.userRepo.GetActive(ctx, nil)
	if err != nil {
		return nil, err
	}

	result := []entity.User{}
	for _, user := range users {
		birthday, ok := user.Attributes["birthday"].(string)
		if !ok {
			continue
		}

		month, day, ok := parseMonthDay(birthday)
		if ok && month == env.Now.Month() && day == env.Now.Day() {
			result = append(result, user)
		}
	}

	return result, nil
}

func parseMonthDay(s string) (time.Month, int, bool) {
	for _, layout := range []string{"2006-01-02", "01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Month(), t.Day(), true
		}
	}

	return 0, 0, false
}
