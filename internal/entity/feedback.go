package entity

import "github.com/phenobarbital/nav-rewards/pkg/enum"

// FeedbackTargetType tags the kind of object a feedback is attached to. Each
// type has its own receiver resolver.
type FeedbackTargetType string

var (
	FeedbackTargetBadge      = enum.New(FeedbackTargetType("badge"))
	FeedbackTargetKudos      = enum.New(FeedbackTargetType("kudos"))
	FeedbackTargetNomination = enum.New(FeedbackTargetType("nomination"))
)

type Feedback struct {
	Base

	TargetType FeedbackTargetType `gorm:"uniqueIndex:idx_feedbacks_giver_target"`
	TargetID   string             `gorm:"uniqueIndex:idx_feedbacks_giver_target"`
	GiverID    string             `gorm:"uniqueIndex:idx_feedbacks_giver_target"`

	ReceiverID    string
	ReceiverEmail string
	ReceiverName  string

	Rating  int
	Comment string
}
