package reward

import (
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/model"
)

func convertReward(reward entity.Reward) model.Reward {
	rules := make([]map[string]any, 0, len(reward.Rules))
	for _, rule := range reward.Rules {
		rules = append(rules, rule)
	}

	return model.Reward{
		ID:              reward.ID,
		Name:            reward.Name,
		Description:     reward.Description,
		Icon:            reward.Icon,
		Emoji:           reward.Emoji,
		Points:          reward.Points,
		Type:            string(reward.Type),
		Multiple:        reward.Multiple,
		Timeframe:       string(reward.Timeframe),
		CooldownMinutes: reward.CooldownMinutes,
		Programs:        reward.Programs,
		Events:          reward.Events,
		Conditions:      reward.Conditions,
		Rules:           rules,
		IsEnabled:       reward.IsEnabled,
	}
}

func convertUserReward(award entity.UserReward) model.UserReward {
	return model.UserReward{
		ID:            award.ID,
		RewardID:      award.RewardID,
		RewardName:    award.RewardName,
		Points:        award.Points,
		ReceiverID:    award.ReceiverID,
		ReceiverEmail: award.ReceiverEmail,
		ReceiverName:  award.ReceiverName,
		GiverID:       award.GiverID,
		GiverName:     award.GiverName,
		Message:       award.Message,
		AwardedAt:     award.AwardedAt,
	}
}
