package rewardrule

import (
	"context"

	"github.com/fatih/structs"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/enum"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
)

// Rule is a single eligibility predicate of a reward.
type Rule interface {
	// Fits is the cheap synchronous gate. It must not touch the database.
	Fits(ec *EvalContext, env *Environment) (bool, error)

	// Evaluate is the full check, run concurrently with the other rules of
	// the reward.
	Evaluate(ctx context.Context, ec *EvalContext, env *Environment) (bool, error)
}

// CandidateRule is a rule that can produce the candidate dataset of a
// computed reward instead of checking one pre-known user.
type CandidateRule interface {
	Rule
	Candidates(ctx context.Context, env *Environment) ([]entity.User, error)
}

type ruleType string

var (
	birthdayType    = enum.New(ruleType("birthday"))
	anniversaryType = enum.New(ruleType("anniversary"))
	timeWindowType  = enum.New(ruleType("time_window"))
	thresholdType   = enum.New(ruleType("threshold"))
	randomUsersType = enum.New(ruleType("random_users"))
)

type Factory struct {
	userRepo       repository.UserRepository
	userRewardRepo repository.UserRewardRepository
}

func NewFactory(
	userRepo repository.UserRepository,
	userRewardRepo repository.UserRewardRepository,
) Factory {
	return Factory{
		userRepo:       userRepo,
		userRewardRepo: userRewardRepo,
	}
}

// New builds a rule from its stored spec. An unknown rule name is a
// configuration error. Set needParse when the spec comes from client input
// and its parameters must be validated.
func (f Factory) New(
	ctx context.Context,
	rewardID string,
	spec entity.Map,
	needParse bool,
) (Rule, error) {
	name, ok := spec["rule"].(string)
	if !ok {
		return nil, errorx.New(errorx.BadRequest, "Rule spec is missing a rule name")
	}

	ruleName, err := enum.ToEnum[ruleType](name)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid rule name %s", name)
	}

	var rule Rule
	switch ruleName {
	case birthdayType:
		rule, err = newBirthdayRule(ctx, f, spec, needParse)
	case anniversaryType:
		rule, err = newAnniversaryRule(ctx, f, spec, needParse)
	case timeWindowType:
		rule, err = newTimeWindowRule(ctx, f, spec, needParse)
	case thresholdType:
		rule, err = newThresholdRule(ctx, f, spec, needParse)
	case randomUsersType:
		rule, err = newRandomUsersRule(ctx, f, rewardID, spec, needParse)
	}

	if err != nil {
		return nil, err
	}

	return rule, nil
}

// Normalize parses a client-supplied spec with validation and returns its
// canonical stored form, dropping unknown keys.
func (f Factory) Normalize(
	ctx context.Context, rewardID string, spec entity.Map,
) (entity.Map, error) {
	rule, err := f.New(ctx, rewardID, spec, true)
	if err != nil {
		return nil, err
	}

	normalized := entity.Map(structs.Map(rule))
	normalized["rule"] = spec["rule"]
	return normalized, nil
}
