package entity

import (
	"time"

	"github.com/phenobarbital/nav-rewards/pkg/enum"
)

type MysteryBoxEventStatus string

var (
	MysteryBoxEventScheduled = enum.New(MysteryBoxEventStatus("scheduled"))
	MysteryBoxEventRunning   = enum.New(MysteryBoxEventStatus("running"))
	MysteryBoxEventCompleted = enum.New(MysteryBoxEventStatus("completed"))
	MysteryBoxEventFailed    = enum.New(MysteryBoxEventStatus("failed"))
)

type MysteryBoxEvent struct {
	Base

	Name        string
	Status      MysteryBoxEventStatus `gorm:"default:scheduled;index"`
	ScheduledAt *time.Time
	ExecutedAt  *time.Time

	WinnerCount int

	// EligibleUserIDs pins the pool explicitly; when empty the pool is
	// resolved from EligibilityCriteria, or all active users.
	EligibleUserIDs     Array[string]
	EligibilityCriteria Map

	// TierRateOverrides replaces tier drop rates for boosted events, keyed
	// by tier id.
	TierRateOverrides Map

	EligibleUserCount int
	WinnersCount      int

	// PrizesAwarded is the denormalized result snapshot, one entry per
	// winner with user, prize, tier, and award id.
	PrizesAwarded Array[Map]

	Error string
}
