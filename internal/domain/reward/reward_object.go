package reward

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/phenobarbital/nav-rewards/internal/domain/rewardrule"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/dateutil"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// onceBucket is the timeframe bucket of single-award rewards. A constant
// value makes the unique index block any second award.
const onceBucket = "once"

// ApplyOverrides are caller-supplied fields that win over reward defaults.
type ApplyOverrides struct {
	Message string
	Points  int
}

// RewardObject orchestrates one reward definition: eligibility gating, the
// idempotency check, and the transactional award.
type RewardObject struct {
	Reward entity.Reward

	rules            []rewardrule.Rule
	userRepo         repository.UserRepository
	userRewardRepo   repository.UserRewardRepository
	collectiveRepo   repository.CollectiveRepository
	notificationRepo repository.NotificationEventRepository

	mutex  sync.Mutex
	failed []string
}

func NewRewardObject(
	ctx context.Context,
	reward entity.Reward,
	factory rewardrule.Factory,
	userRepo repository.UserRepository,
	userRewardRepo repository.UserRewardRepository,
	collectiveRepo repository.CollectiveRepository,
	notificationRepo repository.NotificationEventRepository,
) (*RewardObject, error) {
	rules := make([]rewardrule.Rule, 0, len(reward.Rules))
	for _, spec := range reward.Rules {
		rule, err := factory.New(ctx, reward.ID, spec, false)
		if err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}

	return &RewardObject{
		Reward:           reward,
		rules:            rules,
		userRepo:         userRepo,
		userRewardRepo:   userRewardRepo,
		collectiveRepo:   collectiveRepo,
		notificationRepo: notificationRepo,
	}, nil
}

func (r *RewardObject) recordFailed(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.failed = append(r.failed, name)
}

// FailedConditions returns the names of the checks that failed since the
// last call and resets the list.
func (r *RewardObject) FailedConditions() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	failed := r.failed
	r.failed = nil
	return failed
}

// Fits is the cheap synchronous gate. All five checks must pass; the failing
// ones are retrievable through FailedConditions. It never returns an error,
// a rule failure counts as the rule not fitting.
func (r *RewardObject) Fits(
	ctx context.Context, ec *rewardrule.EvalContext, env *rewardrule.Environment,
) bool {
	ok := true

	if !r.fitsEnvironment(env) {
		r.recordFailed("fit_environment")
		ok = false
	}

	if !r.fitsPrograms(ec) {
		r.recordFailed("fit_programs")
		ok = false
	}

	if !r.fitsContext(ec) {
		r.recordFailed("fit_context")
		ok = false
	}

	if !r.fitsAssigner(ec) {
		r.recordFailed("fit_assigner")
		ok = false
	}

	for i, rule := range r.rules {
		fits, err := rule.Fits(ec, env)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Rule %d of reward %s failed to fit: %v", i, r.Reward.ID, err)
			fits = false
		}

		if !fits {
			r.recordFailed(fmt.Sprintf("fit_rules:%d", i))
			ok = false
		}
	}

	return ok
}

func (r *RewardObject) fitsEnvironment(env *rewardrule.Environment) bool {
	clock := env.Now.Format("15:04")
	date := env.Now.Format("2006-01-02")
	attrs := env.Attributes()

	for key, expected := range r.Reward.Availability {
		switch key {
		case "start_time":
			if s, ok := expected.(string); ok && clock < s {
				return false
			}
		case "end_time":
			if s, ok := expected.(string); ok && clock > s {
				return false
			}
		case "start_date":
			if s, ok := expected.(string); ok && date < s {
				return false
			}
		case "end_date":
			if s, ok := expected.(string); ok && date > s {
				return false
			}
		default:
			if !attrMatch(expected, attrs[key]) {
				return false
			}
		}
	}

	return true
}

// attrMatch supports exactly two matcher shapes: a list value is a membership
// test, anything else is an equality test.
func attrMatch(expected, actual any) bool {
	if list, ok := expected.([]any); ok {
		for _, item := range list {
			if fmt.Sprint(item) == fmt.Sprint(actual) {
				return true
			}
		}
		return false
	}

	return fmt.Sprint(expected) == fmt.Sprint(actual)
}

func (r *RewardObject) fitsPrograms(ec *rewardrule.EvalContext) bool {
	if len(r.Reward.Programs) == 0 {
		return true
	}

	for _, program := range ec.Programs() {
		if slices.Contains([]string(r.Reward.Programs), program) {
			return true
		}
	}

	return false
}

func (r *RewardObject) fitsContext(ec *rewardrule.EvalContext) bool {
	store := ec.Store()
	for _, key := range r.Reward.Conditions {
		if _, ok := store[key]; !ok {
			return false
		}
	}

	return true
}

// fitsAssigner checks the acting session against the reward's assigner
// constraint. At least one listed id, email, group, or job code must match.
func (r *RewardObject) fitsAssigner(ec *rewardrule.EvalContext) bool {
	if len(r.Reward.Assigner) == 0 {
		return true
	}

	return matchIdentity(r.Reward.Assigner, identity{
		id:      ec.SessionUserID(),
		email:   stringValue(ec.Session["email"]),
		jobCode: stringValue(ec.Session["job_code"]),
		groups:  ec.Groups(),
	})
}

// CheckAwardee checks who may receive the reward, vacuously true when the
// reward declares no awardee constraint.
func (r *RewardObject) CheckAwardee(ec *rewardrule.EvalContext) bool {
	if len(r.Reward.Awardee) == 0 {
		return true
	}

	return matchIdentity(r.Reward.Awardee, identity{
		id:      ec.User.ID,
		email:   ec.User.Email,
		jobCode: ec.User.JobCode,
		groups:  ec.User.Groups,
	})
}

type identity struct {
	id      string
	email   string
	jobCode string
	groups  []string
}

func matchIdentity(constraint entity.Map, who identity) bool {
	if containsString(constraint["ids"], who.id) {
		return true
	}

	if containsString(constraint["emails"], who.email) {
		return true
	}

	if containsString(constraint["job_codes"], who.jobCode) {
		return true
	}

	for _, group := range who.groups {
		if containsString(constraint["groups"], group) {
			return true
		}
	}

	return false
}

func containsString(list any, value string) bool {
	if value == "" {
		return false
	}

	switch t := list.(type) {
	case []string:
		return slices.Contains(t, value)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == value {
				return true
			}
		}
	}

	return false
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// Evaluate runs the awardee check, then all rules concurrently. A rule error
// counts as that rule failing, it never aborts the whole evaluation.
func (r *RewardObject) Evaluate(
	ctx context.Context, ec *rewardrule.EvalContext, env *rewardrule.Environment,
) bool {
	if !r.CheckAwardee(ec) {
		r.recordFailed("check_awardee")
		return false
	}

	results := make([]bool, len(r.rules))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, rule := range r.rules {
		i, rule := i, rule
		group.Go(func() error {
			ok, err := rule.Evaluate(groupCtx, ec, env)
			if err != nil {
				xcontext.Logger(ctx).Warnf("Rule %d of reward %s failed: %v", i, r.Reward.ID, err)
				ok = false
			}

			results[i] = ok
			return nil
		})
	}

	// Goroutines never return an error, Wait only joins them.
	_ = group.Wait()

	ok := true
	for i, passed := range results {
		if !passed {
			r.recordFailed(fmt.Sprintf("rule:%d", i))
			ok = false
		}
	}

	return ok
}

// HasAwarded is the idempotency oracle. It reports true when a prior award
// exhausts the reward for this user: any prior award for single-award
// rewards, a prior award in the current timeframe bucket, or one inside the
// cooldown window.
func (r *RewardObject) HasAwarded(
	ctx context.Context, userID string, env *rewardrule.Environment,
) (bool, error) {
	awards, err := r.userRewardRepo.GetByUserAndReward(ctx, userID, r.Reward.ID)
	if err != nil {
		return false, err
	}

	if len(awards) == 0 {
		return false, nil
	}

	if !r.Reward.Multiple {
		return true, nil
	}

	if r.Reward.Timeframe != "" && r.Reward.Timeframe != entity.TimeframeNone {
		currentBucket, err := dateutil.BucketByTimeframe(env.Now, r.Reward.Timeframe)
		if err != nil {
			return false, err
		}

		for _, award := range awards {
			bucket, err := dateutil.BucketByTimeframe(award.AwardedAt, r.Reward.Timeframe)
			if err != nil {
				return false, err
			}

			if bucket == currentBucket {
				return true, nil
			}
		}

		return false, nil
	}

	latest := awards[0]
	if r.Reward.CooldownMinutes > 0 {
		cooldown := time.Duration(r.Reward.CooldownMinutes) * time.Minute
		return latest.AwardedAt.After(env.Now.Add(-cooldown)), nil
	}

	// No timeframe and no cooldown: only block immediate repeats within the
	// same minute.
	return latest.AwardedAt.Truncate(time.Minute).Equal(env.Now.Truncate(time.Minute)), nil
}

// Apply persists the award and its notification outbox row in one
// transaction, then checks collective unlocks. The unique timeframe-bucket
// index turns a concurrent duplicate into an AlreadyExists error instead of
// a second row.
func (r *RewardObject) Apply(
	ctx context.Context,
	ec *rewardrule.EvalContext,
	env *rewardrule.Environment,
	overrides *ApplyOverrides,
) (*entity.UserReward, error) {
	receiver := ec.User

	var giver *entity.User
	if sessionUserID := ec.SessionUserID(); sessionUserID != "" {
		if sessionUserID == receiver.ID {
			return nil, errorx.New(errorx.BadRequest, "Cannot reward yourself")
		}

		g, err := r.userRepo.GetByID(ctx, sessionUserID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get giver %s: %v", sessionUserID, err)
			return nil, errorx.Unknown
		}

		giver = g
	}

	points := r.Reward.Points
	message := ""
	if overrides != nil {
		message = overrides.Message
		if overrides.Points > 0 {
			points = overrides.Points
		}
	}

	if message == "" {
		message = r.renderMessage(ctx, receiver, giver, points)
	}

	bucket, err := r.timeframeBucket(env)
	if err != nil {
		return nil, err
	}

	award := &entity.UserReward{
		Base:               entity.Base{ID: uuid.NewString()},
		RewardID:           r.Reward.ID,
		RewardName:         r.Reward.Name,
		RewardType:         r.Reward.Type,
		Points:             points,
		ReceiverID:         receiver.ID,
		ReceiverEmail:      receiver.Email,
		ReceiverName:       receiver.DisplayName,
		ReceiverEmployeeID: receiver.EmployeeID,
		Message:            message,
		AwardedAt:          env.Now,
		TimeframeBucket:    bucket,
	}

	if bucket == "" {
		award.TimeframeBucket = award.ID
	}

	if giver != nil {
		award.GiverID = giver.ID
		award.GiverName = giver.DisplayName
		award.GiverEmail = giver.Email
	}

	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	if err := r.userRewardRepo.Create(txCtx, award); err != nil {
		if isDuplicateError(err) {
			return nil, errorx.New(errorx.AlreadyExists, "Reward already awarded in this timeframe")
		}

		xcontext.Logger(ctx).Errorf("Cannot create award: %v", err)
		return nil, errorx.Unknown
	}

	event := &entity.NotificationEvent{
		Base:           entity.Base{ID: uuid.NewString()},
		Kind:           r.Reward.NotificationKind,
		RecipientID:    receiver.ID,
		RecipientEmail: receiver.Email,
		Payload: entity.Map{
			"award_id":    award.ID,
			"reward_name": r.Reward.Name,
			"points":      points,
			"message":     message,
			"emoji":       r.Reward.Emoji,
		},
	}
	if err := r.notificationRepo.Create(txCtx, event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create notification event: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(txCtx)

	// The unlock check runs after the commit and never fails the award.
	if err := r.CheckCollectives(ctx, receiver.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check collectives of %s: %v", receiver.ID, err)
	}

	return award, nil
}

func (r *RewardObject) timeframeBucket(env *rewardrule.Environment) (string, error) {
	if !r.Reward.Multiple {
		return onceBucket, nil
	}

	if r.Reward.Timeframe == "" || r.Reward.Timeframe == entity.TimeframeNone {
		return "", nil
	}

	return dateutil.BucketByTimeframe(env.Now, r.Reward.Timeframe)
}

// renderMessage fills the reward message template, falling back to the raw
// message on any render error.
func (r *RewardObject) renderMessage(
	ctx context.Context, receiver entity.User, giver *entity.User, points int,
) string {
	data := map[string]any{
		"Receiver": receiver.DisplayName,
		"Points":   points,
		"Emoji":    r.Reward.Emoji,
		"Reward":   r.Reward.Name,
	}
	if giver != nil {
		data["Giver"] = giver.DisplayName
	}

	tmpl, err := template.New("message").Parse(r.Reward.Message)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot parse message of reward %s: %v", r.Reward.ID, err)
		return r.Reward.Message
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot render message of reward %s: %v", r.Reward.ID, err)
		return r.Reward.Message
	}

	return buf.String()
}

// CheckCollectives unlocks the collective containing this reward once the
// user holds every member reward. The insert ignores conflicts, so a repeated
// check never duplicates the unlock.
func (r *RewardObject) CheckCollectives(ctx context.Context, userID string) error {
	collective, err := r.collectiveRepo.GetByRewardID(ctx, r.Reward.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}

		return err
	}

	memberIDs, err := r.collectiveRepo.GetMemberRewardIDs(ctx, collective.ID)
	if err != nil {
		return err
	}

	held, err := r.userRewardRepo.CountDistinctRewards(ctx, userID, memberIDs)
	if err != nil {
		return err
	}

	if held != int64(len(memberIDs)) {
		return nil
	}

	return r.collectiveRepo.CreateUnlocked(ctx, &entity.CollectiveUnlocked{
		CollectiveID: collective.ID,
		UserID:       userID,
		UnlockedAt:   time.Now(),
	})
}

func isDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
