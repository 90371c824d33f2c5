package entity

import "github.com/phenobarbital/nav-rewards/pkg/enum"

type FulfillmentType string

var (
	FulfillmentDigital  = enum.New(FulfillmentType("digital"))
	FulfillmentPhysical = enum.New(FulfillmentType("physical"))
	FulfillmentManual   = enum.New(FulfillmentType("manual"))
)

type PrizeCategory struct {
	Base

	Name        string `gorm:"uniqueIndex"`
	Description string
	Icon        string
}

// PrizeTier is a rarity level. DropRate is the probability of this tier in a
// mystery-box roll; tiers are walked in ascending level order.
type PrizeTier struct {
	Base

	Name     string
	Level    int `gorm:"uniqueIndex"`
	DropRate float64
	Color    string
}

type PrizeCatalog struct {
	Base

	Name        string
	Description string
	ImageURL    string

	CategoryID string        `gorm:"index"`
	Category   PrizeCategory `gorm:"foreignKey:CategoryID"`

	TierID string    `gorm:"index"`
	Tier   PrizeTier `gorm:"foreignKey:TierID"`

	PointsCost    int
	MonetaryValue float64

	// A nil TotalQuantity means unlimited stock. The effective stock of a
	// finite prize is AvailableQuantity - ReservedQuantity.
	TotalQuantity     *int
	AvailableQuantity int
	ReservedQuantity  int

	MaxPerUser   int
	CooldownDays int

	RequiresApproval bool

	IsMysteryEligible bool
	MysteryWeight     int `gorm:"default:100"`

	FulfillmentType   FulfillmentType `gorm:"default:digital"`
	FulfillmentDetail Map

	LinkedRewardID string
	Tags           Array[string]

	IsActive   bool `gorm:"default:true"`
	IsFeatured bool
}

// InStock reports whether the prize can still be awarded.
func (p *PrizeCatalog) InStock() bool {
	if p.TotalQuantity == nil {
		return true
	}

	return p.AvailableQuantity-p.ReservedQuantity > 0
}
