package entity

import "time"

// Collective is a named set of rewards. Holding all of them unlocks a bonus.
type Collective struct {
	Base

	Name   string `gorm:"uniqueIndex"`
	Points int    `gorm:"default:50"`
	Icon   string
}

type CollectiveReward struct {
	CollectiveID string     `gorm:"primaryKey"`
	Collective   Collective `gorm:"foreignKey:CollectiveID"`

	RewardID string `gorm:"primaryKey"`
	Reward   Reward `gorm:"foreignKey:RewardID"`
}

type CollectiveUnlocked struct {
	CollectiveID string     `gorm:"primaryKey"`
	Collective   Collective `gorm:"foreignKey:CollectiveID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	UnlockedAt time.Time
}
