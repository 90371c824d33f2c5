package entity

import (
	"time"

	"github.com/phenobarbital/nav-rewards/pkg/enum"
)

type RedemptionStatus string

var (
	RedemptionInitiated       = enum.New(RedemptionStatus("initiated"))
	RedemptionPendingApproval = enum.New(RedemptionStatus("pending_approval"))
	RedemptionApproved        = enum.New(RedemptionStatus("approved"))
	RedemptionProcessing      = enum.New(RedemptionStatus("processing"))
	RedemptionShipped         = enum.New(RedemptionStatus("shipped"))
	RedemptionCompleted       = enum.New(RedemptionStatus("completed"))
	RedemptionRejected        = enum.New(RedemptionStatus("rejected"))
	RedemptionCancelled       = enum.New(RedemptionStatus("cancelled"))
	RedemptionFailed          = enum.New(RedemptionStatus("failed"))
)

// Terminal reports whether no further transition is allowed from the status.
func (s RedemptionStatus) Terminal() bool {
	switch s {
	case RedemptionCompleted, RedemptionRejected, RedemptionCancelled, RedemptionFailed:
		return true
	}

	return false
}

type PrizeRedemption struct {
	Base

	AwardID string     `gorm:"uniqueIndex"`
	Award   PrizeAward `gorm:"foreignKey:AwardID"`

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Status RedemptionStatus `gorm:"index"`

	DeliveryDetail Map

	ApprovedBy string
	ApprovedAt *time.Time

	CancelledBy  string
	CancelReason string

	TrackingNumber string
	ShippedAt      *time.Time
	CompletedAt    *time.Time

	UserRating   int
	UserFeedback string
	FeedbackAt   *time.Time
}

// RedemptionStatusHistory is the audit ledger, one row per status change.
type RedemptionStatusHistory struct {
	Base

	RedemptionID string          `gorm:"index"`
	Redemption   PrizeRedemption `gorm:"foreignKey:RedemptionID"`

	FromStatus RedemptionStatus
	ToStatus   RedemptionStatus
	ChangedBy  string
	Note       string
}
