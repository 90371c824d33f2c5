package testutil

import (
	"context"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	User1 = entity.User{
		Base:        entity.Base{ID: "user1"},
		Email:       "alice@example.com",
		DisplayName: "Alice",
		EmployeeID:  "E001",
		JobCode:     "ENG1",
		Department:  "engineering",
		Groups:      entity.Array[string]{"backend"},
		Programs:    entity.Array[string]{"recognition"},
		Attributes:  entity.Map{"birthday": "1990-06-15", "sales_total": 1200.0},
		IsActive:    true,
	}

	User2 = entity.User{
		Base:        entity.Base{ID: "user2"},
		Email:       "bob@example.com",
		DisplayName: "Bob",
		EmployeeID:  "E002",
		JobCode:     "SAL1",
		Department:  "sales",
		Groups:      entity.Array[string]{"field"},
		IsActive:    true,
	}

	User3 = entity.User{
		Base:        entity.Base{ID: "user3"},
		Email:       "carol@example.com",
		DisplayName: "Carol",
		EmployeeID:  "E003",
		JobCode:     "ENG2",
		Department:  "engineering",
		IsActive:    false,
	}

	DailyReward = entity.Reward{
		Base:             entity.Base{ID: "reward-daily"},
		Name:             "Daily Standup Star",
		Emoji:            "🌟",
		Points:           5,
		Type:             entity.RewardTypeManual,
		Message:          "Great job, {{.Receiver}}!",
		Multiple:         true,
		Timeframe:        entity.TimeframeDaily,
		NotificationKind: entity.NotificationKindGeneric,
		IsEnabled:        true,
	}

	OnceReward = entity.Reward{
		Base:             entity.Base{ID: "reward-once"},
		Name:             "First Deal Closed",
		Emoji:            "🏆",
		Points:           50,
		Type:             entity.RewardTypeManual,
		Message:          "Congratulations!",
		Multiple:         false,
		Timeframe:        entity.TimeframeNone,
		NotificationKind: entity.NotificationKindGeneric,
		IsEnabled:        true,
	}

	TierLegendary = entity.PrizeTier{
		Base:     entity.Base{ID: "tier-legendary"},
		Name:     "Legendary",
		Level:    1,
		DropRate: 0.05,
		Color:    "#f5a623",
	}

	TierRare = entity.PrizeTier{
		Base:     entity.Base{ID: "tier-rare"},
		Name:     "Rare",
		Level:    2,
		DropRate: 0.15,
		Color:    "#4a90d9",
	}

	TierCommon = entity.PrizeTier{
		Base:     entity.Base{ID: "tier-common"},
		Name:     "Common",
		Level:    3,
		DropRate: 0.80,
		Color:    "#9b9b9b",
	}

	PrizeMug = entity.PrizeCatalog{
		Base:              entity.Base{ID: "prize-mug"},
		Name:              "Company Mug",
		TierID:            "tier-common",
		PointsCost:        100,
		TotalQuantity:     intptr(10),
		AvailableQuantity: 10,
		IsMysteryEligible: true,
		MysteryWeight:     300,
		FulfillmentType:   entity.FulfillmentPhysical,
		IsActive:          true,
	}

	PrizeGiftCard = entity.PrizeCatalog{
		Base:              entity.Base{ID: "prize-giftcard"},
		Name:              "Gift Card",
		TierID:            "tier-common",
		PointsCost:        500,
		IsMysteryEligible: true,
		MysteryWeight:     100,
		FulfillmentType:   entity.FulfillmentDigital,
		IsActive:          true,
	}

	PrizeTrip = entity.PrizeCatalog{
		Base:              entity.Base{ID: "prize-trip"},
		Name:              "Weekend Trip",
		TierID:            "tier-legendary",
		PointsCost:        5000,
		TotalQuantity:     intptr(1),
		AvailableQuantity: 1,
		MaxPerUser:        1,
		RequiresApproval:  true,
		IsMysteryEligible: true,
		MysteryWeight:     100,
		FulfillmentType:   entity.FulfillmentManual,
		IsActive:          true,
	}
)

// CreateFixtureDb opens an in-memory database, migrates the schema, and
// inserts the fixture rows above.
func CreateFixtureDb() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	if err := entity.MigrateTable(db); err != nil {
		panic(err)
	}

	InsertUsers(db)
	InsertRewards(db)
	InsertPrizes(db)

	return db
}

func InsertUsers(db *gorm.DB) {
	hiredAt := time.Now().AddDate(-3, 0, 0)

	for _, user := range []entity.User{User1, User2, User3} {
		user.HiredAt = &hiredAt
		if err := db.WithContext(context.Background()).Create(&user).Error; err != nil {
			panic(err)
		}
	}
}

func InsertRewards(db *gorm.DB) {
	for _, reward := range []entity.Reward{DailyReward, OnceReward} {
		if err := db.WithContext(context.Background()).Create(&reward).Error; err != nil {
			panic(err)
		}
	}
}

func InsertPrizes(db *gorm.DB) {
	for _, tier := range []entity.PrizeTier{TierLegendary, TierRare, TierCommon} {
		if err := db.WithContext(context.Background()).Create(&tier).Error; err != nil {
			panic(err)
		}
	}

	for _, prize := range []entity.PrizeCatalog{PrizeMug, PrizeGiftCard, PrizeTrip} {
		if err := db.WithContext(context.Background()).Create(&prize).Error; err != nil {
			panic(err)
		}
	}
}

func intptr(v int) *int {
	return &v
}
