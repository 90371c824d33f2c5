package entity

import "github.com/phenobarbital/nav-rewards/pkg/enum"

type RewardType string

var (
	RewardTypeManual     = enum.New(RewardType("manual"))
	RewardTypeComputed   = enum.New(RewardType("computed"))
	RewardTypeCollective = enum.New(RewardType("collective"))
)

// Timeframe is the re-award spacing bucket of a multiple-award reward.
type Timeframe string

var (
	TimeframeNone    = enum.New(Timeframe("none"))
	TimeframeHourly  = enum.New(Timeframe("hourly"))
	TimeframeDaily   = enum.New(Timeframe("daily"))
	TimeframeWeekly  = enum.New(Timeframe("weekly"))
	TimeframeMonthly = enum.New(Timeframe("monthly"))
)

// NotificationKind selects the outbound message template of a reward. It is
// set at configuration time, generic being the default.
type NotificationKind string

var (
	NotificationKindGeneric     = enum.New(NotificationKind("generic"))
	NotificationKindBirthday    = enum.New(NotificationKind("birthday"))
	NotificationKindAnniversary = enum.New(NotificationKind("anniversary"))
)

type Reward struct {
	Base

	Name        string `gorm:"uniqueIndex"`
	Description string
	Icon        string
	Emoji       string `gorm:"default:🏆"`
	Points      int    `gorm:"default:10"`
	Type        RewardType
	Message     string

	// Multiple allows more than one award per user, spaced by Timeframe or
	// CooldownMinutes.
	Multiple        bool
	Timeframe       Timeframe `gorm:"default:none"`
	CooldownMinutes int

	// Availability restricts when the reward can be granted. Recognized
	// keys are start_time, end_time, start_date, end_date. Any other key is
	// matched against the environment attributes, list values as membership
	// and scalar values as equality.
	Availability Map

	Programs   Array[string]
	Events     Array[string]
	Conditions Array[string]

	// Assigner restricts who may grant the reward and Awardee who may
	// receive it. Recognized keys are ids, emails, groups, job_codes.
	Assigner Map
	Awardee  Map

	// Rules are eligibility predicate specs, each holding a "rule" name and
	// its parameters.
	Rules Array[Map]

	NotificationKind NotificationKind `gorm:"default:generic"`
	WebhookURL       string

	IsEnabled bool `gorm:"default:true"`
}
