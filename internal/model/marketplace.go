package model

import "time"

type Prize struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	ImageURL          string   `json:"image_url"`
	CategoryID        string   `json:"category_id"`
	CategoryName      string   `json:"category_name,omitempty"`
	TierID            string   `json:"tier_id"`
	TierName          string   `json:"tier_name,omitempty"`
	TierLevel         int      `json:"tier_level,omitempty"`
	PointsCost        int      `json:"points_cost"`
	MonetaryValue     float64  `json:"monetary_value"`
	TotalQuantity     *int     `json:"total_quantity"`
	AvailableQuantity int      `json:"available_quantity"`
	ReservedQuantity  int      `json:"reserved_quantity"`
	MaxPerUser        int      `json:"max_per_user"`
	CooldownDays      int      `json:"cooldown_days"`
	RequiresApproval  bool     `json:"requires_approval"`
	IsMysteryEligible bool     `json:"is_mystery_eligible"`
	MysteryWeight     int      `json:"mystery_weight"`
	FulfillmentType   string   `json:"fulfillment_type"`
	Tags              []string `json:"tags"`
	IsActive          bool     `json:"is_active"`
	IsFeatured        bool     `json:"is_featured"`
}

type PrizeCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type PrizeTier struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Level    int     `json:"level"`
	DropRate float64 `json:"drop_rate"`
	Color    string  `json:"color"`
}

type PrizeAward struct {
	ID          string     `json:"id"`
	PrizeID     string     `json:"prize_id"`
	PrizeName   string     `json:"prize_name,omitempty"`
	UserID      string     `json:"user_id"`
	Status      string     `json:"status"`
	Source      string     `json:"source"`
	PointsSpent int        `json:"points_spent"`
	ExpiresAt   *time.Time `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Redemption struct {
	ID             string     `json:"id"`
	AwardID        string     `json:"award_id"`
	UserID         string     `json:"user_id"`
	Status         string     `json:"status"`
	ApprovedBy     string     `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	CancelledBy    string     `json:"cancelled_by,omitempty"`
	CancelReason   string     `json:"cancel_reason,omitempty"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	UserRating     int        `json:"user_rating,omitempty"`
	UserFeedback   string     `json:"user_feedback,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type GetPrizesRequest struct {
	CategoryID   string `form:"category_id"`
	TierID       string `form:"tier_id"`
	OnlyFeatured bool   `form:"only_featured"`
	MaxCost      int    `form:"max_cost"`
	Offset       int    `form:"offset"`
	Limit        int    `form:"limit"`
}

type GetPrizesResponse struct {
	Prizes []Prize `json:"prizes"`
}

type GetPrizeRequest struct {
	ID string `uri:"id"`
}

type GetPrizeResponse Prize

type CreatePrizeRequest struct {
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	ImageURL          string         `json:"image_url"`
	CategoryID        string         `json:"category_id"`
	TierID            string         `json:"tier_id"`
	PointsCost        int            `json:"points_cost"`
	MonetaryValue     float64        `json:"monetary_value"`
	TotalQuantity     *int           `json:"total_quantity"`
	MaxPerUser        int            `json:"max_per_user"`
	CooldownDays      int            `json:"cooldown_days"`
	RequiresApproval  bool           `json:"requires_approval"`
	IsMysteryEligible bool           `json:"is_mystery_eligible"`
	MysteryWeight     int            `json:"mystery_weight"`
	FulfillmentType   string         `json:"fulfillment_type"`
	FulfillmentDetail map[string]any `json:"fulfillment_detail"`
	Tags              []string       `json:"tags"`
	IsFeatured        bool           `json:"is_featured"`
}

type CreatePrizeResponse struct {
	ID string `json:"id"`
}

type UpdatePrizeRequest struct {
	ID string `uri:"id" json:"-"`

	Name             *string `json:"name"`
	Description      *string `json:"description"`
	PointsCost       *int    `json:"points_cost"`
	MaxPerUser       *int    `json:"max_per_user"`
	CooldownDays     *int    `json:"cooldown_days"`
	RequiresApproval *bool   `json:"requires_approval"`
	MysteryWeight    *int    `json:"mystery_weight"`
	IsActive         *bool   `json:"is_active"`
	IsFeatured       *bool   `json:"is_featured"`
}

type UpdatePrizeResponse struct{}

type DeletePrizeRequest struct {
	ID string `uri:"id"`
}

type DeletePrizeResponse struct{}

type GetPrizeCategoriesRequest struct{}

type GetPrizeCategoriesResponse struct {
	Categories []PrizeCategory `json:"categories"`
}

type GetPrizeTiersRequest struct{}

type GetPrizeTiersResponse struct {
	Tiers []PrizeTier `json:"tiers"`
}

type AwardPrizeRequest struct {
	PrizeID  string         `json:"prize_id"`
	UserID   string         `json:"user_id"`
	Source   string         `json:"source"`
	Metadata map[string]any `json:"metadata"`
}

type AwardPrizeResponse struct {
	Award PrizeAward `json:"award"`
}

type GetPrizeAwardRequest struct {
	AwardID string `uri:"award_id"`
}

type GetPrizeAwardResponse PrizeAward

type GetUserPrizeAwardsRequest struct {
	UserID string `uri:"user_id"`
	Offset int    `form:"offset"`
	Limit  int    `form:"limit"`
}

type GetUserPrizeAwardsResponse struct {
	Awards []PrizeAward `json:"awards"`
}

type InitiateRedemptionRequest struct {
	AwardID        string         `json:"award_id"`
	DeliveryDetail map[string]any `json:"delivery_detail"`
}

type InitiateRedemptionResponse struct {
	Redemption Redemption `json:"redemption"`
}

type GetRedemptionRequest struct {
	ID string `uri:"id"`
}

type GetRedemptionResponse struct {
	Redemption Redemption          `json:"redemption"`
	History    []RedemptionHistory `json:"history"`
}

type RedemptionHistory struct {
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedBy  string    `json:"changed_by"`
	Note       string    `json:"note"`
	ChangedAt  time.Time `json:"changed_at"`
}

type UpdateRedemptionStatusRequest struct {
	ID string `uri:"id" json:"-"`

	Status         string `json:"status"`
	Reason         string `json:"reason"`
	TrackingNumber string `json:"tracking_number"`
	Note           string `json:"note"`
}

type UpdateRedemptionStatusResponse struct {
	Redemption Redemption `json:"redemption"`
}

type CancelRedemptionRequest struct {
	ID     string `uri:"id" json:"-"`
	Reason string `json:"reason"`
}

type CancelRedemptionResponse struct{}

type CompleteRedemptionRequest struct {
	ID string `uri:"id" json:"-"`
}

type CompleteRedemptionResponse struct{}

type SubmitRedemptionFeedbackRequest struct {
	ID       string `uri:"id" json:"-"`
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

type SubmitRedemptionFeedbackResponse struct{}

type GetWalletRequest struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

type GetWalletResponse struct {
	Awards []PrizeAward `json:"awards"`
}

type GetWalletStatsRequest struct{}

type GetWalletStatsResponse struct {
	TotalAwards    int64 `json:"total_awards"`
	AvailableCount int64 `json:"available_count"`
	RedeemedCount  int64 `json:"redeemed_count"`
	ExpiredCount   int64 `json:"expired_count"`
	PointsSpent    int64 `json:"points_spent"`
}

type TriggerMysteryBoxRequest struct {
	Name                string             `json:"name"`
	WinnerCount         int                `json:"winner_count"`
	EligibleUserIDs     []string           `json:"eligible_user_ids"`
	EligibilityCriteria map[string]any     `json:"eligibility_criteria"`
	TierRateOverrides   map[string]float64 `json:"tier_rate_overrides"`
}

type TriggerMysteryBoxResponse struct {
	Event MysteryBoxEvent `json:"event"`
}

type MysteryBoxEvent struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Status            string           `json:"status"`
	WinnerCount       int              `json:"winner_count"`
	EligibleUserCount int              `json:"eligible_user_count"`
	WinnersCount      int              `json:"winners_count"`
	PrizesAwarded     []map[string]any `json:"prizes_awarded,omitempty"`
	Error             string           `json:"error,omitempty"`
	ExecutedAt        *time.Time       `json:"executed_at,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

type GetMysteryBoxEventsRequest struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

type GetMysteryBoxEventsResponse struct {
	Events []MysteryBoxEvent `json:"events"`
}

type GetMysteryBoxEventRequest struct {
	ID string `uri:"id"`
}

type GetMysteryBoxEventResponse MysteryBoxEvent

type GetRedemptionMetricsRequest struct{}

type GetRedemptionMetricsResponse struct {
	CountsByStatus   map[string]int64 `json:"counts_by_status"`
	AvgApprovalHours float64          `json:"avg_approval_hours"`
	AvgCompleteHours float64          `json:"avg_complete_hours"`
}

type GetPrizePopularityRequest struct{}

type PrizePopularity struct {
	PrizeID         string `json:"prize_id"`
	PrizeName       string `json:"prize_name"`
	AwardCount      int64  `json:"award_count"`
	RedemptionCount int64  `json:"redemption_count"`
}

type GetPrizePopularityResponse struct {
	Prizes []PrizePopularity `json:"prizes"`
}
