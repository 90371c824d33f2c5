package reward

import (
	"context"

	"github.com/google/uuid"
	"github.com/phenobarbital/nav-rewards/internal/domain/rewardrule"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

// ComputedReward runs a reward definition against a computed candidate set
// instead of a single user. The candidate set comes from the reward's
// candidate-capable rules, or from all active users when it has none.
type ComputedReward struct {
	object   *RewardObject
	userRepo repository.UserRepository
}

func NewComputedReward(object *RewardObject, userRepo repository.UserRepository) *ComputedReward {
	return &ComputedReward{object: object, userRepo: userRepo}
}

func (c *ComputedReward) candidates(
	ctx context.Context, env *rewardrule.Environment,
) ([]entity.User, error) {
	for _, rule := range c.object.rules {
		candidateRule, ok := rule.(rewardrule.CandidateRule)
		if !ok {
			continue
		}

		return candidateRule.Candidates(ctx, env)
	}

	return c.userRepo.GetActive(ctx, nil)
}

// CallReward evaluates and awards every eligible candidate. A failure on one
// candidate is logged and skipped, it never aborts the batch. It returns the
// awards that were actually created.
func (c *ComputedReward) CallReward(
	ctx context.Context, env *rewardrule.Environment,
) ([]entity.UserReward, error) {
	candidates, err := c.candidates(ctx, env)
	if err != nil {
		return nil, err
	}

	var awarded []entity.UserReward
	for _, user := range candidates {
		ec := rewardrule.NewEvalContext(user, nil)

		if !c.object.Fits(ctx, ec, env) {
			c.object.FailedConditions()
			continue
		}

		if !c.object.Evaluate(ctx, ec, env) {
			c.object.FailedConditions()
			continue
		}

		hasAwarded, err := c.object.HasAwarded(ctx, user.ID, env)
		if err != nil {
			xcontext.Logger(ctx).Errorf(
				"Cannot check prior awards of %s for reward %s: %v",
				user.ID, c.object.Reward.ID, err)
			continue
		}

		if hasAwarded {
			continue
		}

		award, err := c.object.Apply(ctx, ec, env, nil)
		if err != nil {
			xcontext.Logger(ctx).Errorf(
				"Cannot apply reward %s to %s: %v", c.object.Reward.ID, user.ID, err)
			continue
		}

		awarded = append(awarded, *award)
	}

	if c.object.Reward.WebhookURL != "" && len(awarded) > 0 {
		if err := c.notifyBatch(ctx, awarded); err != nil {
			xcontext.Logger(ctx).Warnf(
				"Cannot emit batch notification of reward %s: %v",
				c.object.Reward.ID, err)
		}
	}

	return awarded, nil
}

// notifyBatch writes a single summary outbox event covering the whole batch.
// It is delivered to the reward's webhook by the outbox worker.
func (c *ComputedReward) notifyBatch(
	ctx context.Context, awarded []entity.UserReward,
) error {
	recipients := make([]entity.Map, 0, len(awarded))
	for _, award := range awarded {
		recipients = append(recipients, entity.Map{
			"award_id": award.ID,
			"user_id":  award.ReceiverID,
			"email":    award.ReceiverEmail,
			"name":     award.ReceiverName,
		})
	}

	event := &entity.NotificationEvent{
		Base: entity.Base{ID: uuid.NewString()},
		Kind: c.object.Reward.NotificationKind,
		Payload: entity.Map{
			"reward_id":     c.object.Reward.ID,
			"reward_name":   c.object.Reward.Name,
			"webhook_url":   c.object.Reward.WebhookURL,
			"awarded_count": len(awarded),
			"recipients":    recipients,
		},
	}

	return c.object.notificationRepo.Create(ctx, event)
}
