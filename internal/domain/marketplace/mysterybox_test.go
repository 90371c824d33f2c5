package marketplace

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/model"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/testutil"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestDomain() Domain {
	return NewDomain(
		repository.NewPrizeRepository(),
		repository.NewPrizeAwardRepository(),
		repository.NewPrizeRedemptionRepository(),
		repository.NewMysteryBoxEventRepository(),
		repository.NewUserRepository(),
		nil,
	)
}

func Test_rollTier(t *testing.T) {
	tiers := []entity.PrizeTier{testutil.TierLegendary, testutil.TierRare, testutil.TierCommon}
	rates := []float64{0.05, 0.15, 0.80}

	require.Equal(t, "tier-legendary", rollTier(tiers, rates, 0.03).ID)
	require.Equal(t, "tier-legendary", rollTier(tiers, rates, 0.05).ID)
	require.Equal(t, "tier-rare", rollTier(tiers, rates, 0.10).ID)
	require.Equal(t, "tier-common", rollTier(tiers, rates, 0.50).ID)
	require.Equal(t, "tier-common", rollTier(tiers, rates, 0.99).ID)

	// Rates summing below one send an uncovered draw to the first tier.
	short := []float64{0.05, 0.15, 0.70}
	require.Equal(t, "tier-legendary", rollTier(tiers, short, 0.95).ID)
}

func Test_weightedChoice(t *testing.T) {
	prizes := []entity.PrizeCatalog{testutil.PrizeMug, testutil.PrizeGiftCard}

	// Weights 300 and 100 split the draw range three to one.
	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		prize := weightedChoice(prizes, float64(i)/1000)
		counts[prize.ID]++
	}

	require.Equal(t, 750, counts["prize-mug"])
	require.Equal(t, 250, counts["prize-giftcard"])

	// A non-positive weight still gives the prize one share.
	zero := testutil.PrizeGiftCard
	zero.MysteryWeight = 0
	picked := weightedChoice([]entity.PrizeCatalog{zero}, 0.99)
	require.Equal(t, zero.ID, picked.ID)
}

func Test_ExecuteMysteryBox(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestDomain()

	resp, err := domain.TriggerMysteryBox(ctx, &model.TriggerMysteryBoxRequest{
		Name:            "Launch Party",
		WinnerCount:     2,
		EligibleUserIDs: []string{testutil.User1.ID, testutil.User2.ID},
		// Force the common tier so the draws never depend on the rare stock.
		TierRateOverrides: map[string]float64{
			"tier-legendary": 0,
			"tier-rare":      0,
			"tier-common":    1,
		},
	})
	require.NoError(t, err)
	require.Equal(t, "completed", resp.Event.Status)
	require.Equal(t, 2, resp.Event.EligibleUserCount)
	require.Equal(t, 2, resp.Event.WinnersCount)
	require.Len(t, resp.Event.PrizesAwarded, 2)
	require.NotNil(t, resp.Event.ExecutedAt)

	// Every winner holds a wallet entry sourced from the event.
	awardRepo := repository.NewPrizeAwardRepository()
	winners := map[string]bool{}
	for _, entry := range resp.Event.PrizesAwarded {
		userID := entry["user_id"].(string)
		winners[userID] = true

		awards, err := awardRepo.GetByUser(ctx, userID, 0, 10)
		require.NoError(t, err)
		require.Len(t, awards, 1)
		require.Equal(t, entity.PrizeAwardSourceMysteryBox, awards[0].Source)
		require.Equal(t, resp.Event.ID, awards[0].Metadata["mystery_box_event_id"])
	}
	require.Len(t, winners, 2)
}

func Test_ExecuteMysteryBox_emptyUserPool(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestDomain()

	// No user matches the criteria. The event completes with zero winners.
	resp, err := domain.TriggerMysteryBox(ctx, &model.TriggerMysteryBoxRequest{
		Name:        "Marketing Only",
		WinnerCount: 3,
		EligibilityCriteria: map[string]any{
			"departments": []string{"marketing"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "completed", resp.Event.Status)
	require.Equal(t, 0, resp.Event.EligibleUserCount)
	require.Equal(t, 0, resp.Event.WinnersCount)
}

func Test_ExecuteMysteryBox_emptyPrizePool(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestDomain()

	err := xcontext.DB(ctx).Model(&entity.PrizeCatalog{}).
		Where("is_mystery_eligible=?", true).
		Update("is_mystery_eligible", false).Error
	require.NoError(t, err)

	eventRepo := repository.NewMysteryBoxEventRepository()
	event := &entity.MysteryBoxEvent{
		Base:            entity.Base{ID: uuid.NewString()},
		Name:            "No Prizes",
		Status:          entity.MysteryBoxEventScheduled,
		WinnerCount:     1,
		EligibleUserIDs: entity.Array[string]{testutil.User1.ID},
	}
	require.NoError(t, eventRepo.Create(ctx, event))

	err = domain.ExecuteMysteryBox(ctx, event.ID)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)

	failed, err := eventRepo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, entity.MysteryBoxEventFailed, failed.Status)
	require.NotEmpty(t, failed.Error)
	require.NotNil(t, failed.ExecutedAt)
}

func Test_ExecuteMysteryBox_invalidWinnerCount(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestDomain()

	_, err := domain.TriggerMysteryBox(ctx, &model.TriggerMysteryBoxRequest{WinnerCount: 0})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_ExecuteMysteryBox_tenureCriteria(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestDomain()

	// Fixture users were hired three years ago, so a ten-year tenure bar
	// leaves the pool empty.
	resp, err := domain.TriggerMysteryBox(ctx, &model.TriggerMysteryBoxRequest{
		Name:        "Veterans",
		WinnerCount: 1,
		EligibilityCriteria: map[string]any{
			"min_tenure_days": 3650,
		},
	})
	require.NoError(t, err)
	require.Equal(t, 0, resp.Event.EligibleUserCount)

	// A one-year bar keeps everyone active in the pool.
	resp, err = domain.TriggerMysteryBox(ctx, &model.TriggerMysteryBoxRequest{
		Name:        "Anyone Settled",
		WinnerCount: 1,
		EligibilityCriteria: map[string]any{
			"min_tenure_days": 365,
		},
		TierRateOverrides: map[string]float64{
			"tier-legendary": 0,
			"tier-rare":      0,
			"tier-common":    1,
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Event.EligibleUserCount)
	require.Equal(t, 1, resp.Event.WinnersCount)
}

func Test_decrementPoolStock(t *testing.T) {
	mug := testutil.PrizeMug
	mug.AvailableQuantity = 1

	d := &domain{}
	pool := map[string][]entity.PrizeCatalog{
		"tier-common": {mug, testutil.PrizeGiftCard},
	}

	// The last unit removes the prize from the pool entirely.
	d.decrementPoolStock(pool, mug.ID)
	require.Len(t, pool["tier-common"], 1)
	require.Equal(t, testutil.PrizeGiftCard.ID, pool["tier-common"][0].ID)

	// Unlimited prizes are never removed.
	d.decrementPoolStock(pool, testutil.PrizeGiftCard.ID)
	require.Len(t, pool["tier-common"], 1)
}
