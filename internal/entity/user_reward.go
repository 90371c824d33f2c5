package entity

import "time"

// UserReward is one concrete grant of a reward to a user.
//
// The unique index on (reward_id, receiver_id, timeframe_bucket) makes the
// award idempotent under concurrent attempts. For rewards without a re-award
// timeframe the bucket is the row id itself, so the index never blocks a
// legitimate repeat.
type UserReward struct {
	Base

	RewardID string `gorm:"uniqueIndex:idx_user_rewards_bucket"`
	Reward   Reward `gorm:"foreignKey:RewardID"`

	// Denormalized from the reward definition at award time.
	RewardName string
	RewardType RewardType
	Points     int `gorm:"default:1"`

	ReceiverID         string `gorm:"uniqueIndex:idx_user_rewards_bucket"`
	ReceiverEmail      string
	ReceiverName       string
	ReceiverEmployeeID string

	GiverID    string
	GiverName  string
	GiverEmail string

	Message   string
	AwardedAt time.Time

	TimeframeBucket string `gorm:"uniqueIndex:idx_user_rewards_bucket"`

	RevokedAt     *time.Time
	RevokedBy     string
	RevokedReason string
}
