package model

import "time"

type Reward struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Icon            string           `json:"icon"`
	Emoji           string           `json:"emoji"`
	Points          int              `json:"points"`
	Type            string           `json:"type"`
	Multiple        bool             `json:"multiple"`
	Timeframe       string           `json:"timeframe"`
	CooldownMinutes int              `json:"cooldown_minutes"`
	Programs        []string         `json:"programs"`
	Events          []string         `json:"events"`
	Conditions      []string         `json:"conditions"`
	Rules           []map[string]any `json:"rules"`
	IsEnabled       bool             `json:"is_enabled"`
}

type UserReward struct {
	ID            string    `json:"id"`
	RewardID      string    `json:"reward_id"`
	RewardName    string    `json:"reward_name"`
	Points        int       `json:"points"`
	ReceiverID    string    `json:"receiver_id"`
	ReceiverEmail string    `json:"receiver_email"`
	ReceiverName  string    `json:"receiver_name"`
	GiverID       string    `json:"giver_id,omitempty"`
	GiverName     string    `json:"giver_name,omitempty"`
	Message       string    `json:"message"`
	AwardedAt     time.Time `json:"awarded_at"`
}

type GetRewardsRequest struct {
	Type        string `form:"type"`
	OnlyEnabled bool   `form:"only_enabled"`
}

type GetRewardsResponse struct {
	Rewards []Reward `json:"rewards"`
}

type CreateRewardRequest struct {
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Icon             string           `json:"icon"`
	Emoji            string           `json:"emoji"`
	Points           int              `json:"points"`
	Type             string           `json:"type"`
	Message          string           `json:"message"`
	Multiple         bool             `json:"multiple"`
	Timeframe        string           `json:"timeframe"`
	CooldownMinutes  int              `json:"cooldown_minutes"`
	Availability     map[string]any   `json:"availability"`
	Programs         []string         `json:"programs"`
	Events           []string         `json:"events"`
	Conditions       []string         `json:"conditions"`
	Assigner         map[string]any   `json:"assigner"`
	Awardee          map[string]any   `json:"awardee"`
	Rules            []map[string]any `json:"rules"`
	NotificationKind string           `json:"notification_kind"`
	WebhookURL       string           `json:"webhook_url"`
}

type CreateRewardResponse struct {
	ID string `json:"id"`
}

// AwardRewardRequest attempts a direct award of a reward to a user. Session
// holds extra context keys matched against the reward conditions.
type AwardRewardRequest struct {
	RewardID   string         `json:"reward_id"`
	ReceiverID string         `json:"receiver_id"`
	Message    string         `json:"message"`
	Session    map[string]any `json:"session"`
}

type AwardRewardResponse struct {
	Award            *UserReward `json:"award,omitempty"`
	FailedConditions []string    `json:"failed_conditions,omitempty"`
}

type RevokeUserRewardRequest struct {
	AwardID string `uri:"award_id"`
	Reason  string `json:"reason"`
}

type RevokeUserRewardResponse struct{}

type GetUserRewardsRequest struct {
	UserID string `uri:"user_id"`
	Offset int    `form:"offset"`
	Limit  int    `form:"limit"`
}

type GetUserRewardsResponse struct {
	Awards []UserReward `json:"awards"`
}
