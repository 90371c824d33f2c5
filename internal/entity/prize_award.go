package entity

import (
	"time"

	"github.com/phenobarbital/nav-rewards/pkg/enum"
)

type PrizeAwardStatus string

var (
	PrizeAwardPending   = enum.New(PrizeAwardStatus("pending"))
	PrizeAwardAvailable = enum.New(PrizeAwardStatus("available"))
	PrizeAwardReserved  = enum.New(PrizeAwardStatus("reserved"))
	PrizeAwardRedeemed  = enum.New(PrizeAwardStatus("redeemed"))
	PrizeAwardExpired   = enum.New(PrizeAwardStatus("expired"))
	PrizeAwardCancelled = enum.New(PrizeAwardStatus("cancelled"))
	PrizeAwardFailed    = enum.New(PrizeAwardStatus("failed"))
)

type PrizeAwardSource string

var (
	PrizeAwardSourceBadge      = enum.New(PrizeAwardSource("badge"))
	PrizeAwardSourceMysteryBox = enum.New(PrizeAwardSource("mystery_box"))
	PrizeAwardSourcePurchase   = enum.New(PrizeAwardSource("purchase"))
	PrizeAwardSourceManual     = enum.New(PrizeAwardSource("manual"))
	PrizeAwardSourceCampaign   = enum.New(PrizeAwardSource("campaign"))
	PrizeAwardSourceMilestone  = enum.New(PrizeAwardSource("milestone"))
	PrizeAwardSourceReferral   = enum.New(PrizeAwardSource("referral"))
)

type PrizeAward struct {
	Base

	PrizeID string       `gorm:"index"`
	Prize   PrizeCatalog `gorm:"foreignKey:PrizeID"`

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Status PrizeAwardStatus `gorm:"default:pending;index"`
	Source PrizeAwardSource

	PointsSpent int
	ExpiresAt   *time.Time
	Metadata    Map
}

// Redeemable reports whether the award can start a redemption at the given
// instant.
func (a *PrizeAward) Redeemable(now time.Time) bool {
	if a.Status != PrizeAwardAvailable {
		return false
	}

	return a.ExpiresAt == nil || a.ExpiresAt.After(now)
}
