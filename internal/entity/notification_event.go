package entity

import (
	"time"

	"github.com/phenobarbital/nav-rewards/pkg/enum"
)

type NotificationEventStatus string

var (
	NotificationEventPending = enum.New(NotificationEventStatus("pending"))
	NotificationEventSent    = enum.New(NotificationEventStatus("sent"))
	NotificationEventFailed  = enum.New(NotificationEventStatus("failed"))
)

// NotificationEvent is an outbox row. It is inserted in the same transaction
// as the award it announces, then drained by a background dispatcher. A
// dispatch failure never affects the award.
type NotificationEvent struct {
	Base

	Kind           NotificationKind
	RecipientID    string
	RecipientEmail string
	Payload        Map

	Status    NotificationEventStatus `gorm:"default:pending;index"`
	Attempts  int
	LastError string
	SentAt    *time.Time
}
