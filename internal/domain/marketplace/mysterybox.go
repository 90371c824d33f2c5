package marketplace

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/model"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/crypto"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"gorm.io/gorm"
)

func (d *domain) TriggerMysteryBox(
	ctx context.Context, req *model.TriggerMysteryBoxRequest,
) (*model.TriggerMysteryBoxResponse, error) {
	if req.WinnerCount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Winner count must be positive")
	}

	overrides := entity.Map{}
	for tierID, rate := range req.TierRateOverrides {
		overrides[tierID] = rate
	}

	event := &entity.MysteryBoxEvent{
		Base:                entity.Base{ID: uuid.NewString()},
		Name:                req.Name,
		Status:              entity.MysteryBoxEventScheduled,
		WinnerCount:         req.WinnerCount,
		EligibleUserIDs:     req.EligibleUserIDs,
		EligibilityCriteria: entity.Map(req.EligibilityCriteria),
		TierRateOverrides:   overrides,
	}

	if err := d.mysteryBoxRepo.Create(ctx, event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create mystery box event: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.ExecuteMysteryBox(ctx, event.ID); err != nil {
		return nil, err
	}

	executed, err := d.mysteryBoxRepo.GetByID(ctx, event.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get mystery box event %s: %v", event.ID, err)
		return nil, errorx.Unknown
	}

	return &model.TriggerMysteryBoxResponse{Event: convertMysteryBoxEvent(*executed)}, nil
}

// ExecuteMysteryBox runs one event end to end. Per-winner failures are
// skipped; only an empty prize pool fails the event.
func (d *domain) ExecuteMysteryBox(ctx context.Context, eventID string) error {
	event, err := d.mysteryBoxRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found mystery box event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mystery box event %s: %v", eventID, err)
		return errorx.Unknown
	}

	event.Status = entity.MysteryBoxEventRunning
	if err := d.mysteryBoxRepo.Update(ctx, event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot start mystery box event %s: %v", eventID, err)
		return errorx.Unknown
	}

	pool, err := d.resolveUserPool(ctx, event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resolve user pool of %s: %v", eventID, err)
		return d.failEvent(ctx, event, "cannot resolve the eligible user pool")
	}

	event.EligibleUserCount = len(pool)

	// An empty user pool completes with zero winners, it is not a failure.
	if len(pool) == 0 {
		return d.completeEvent(ctx, event, nil)
	}

	tiers, rates, err := d.resolveTierRates(ctx, event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resolve tier rates of %s: %v", eventID, err)
		return d.failEvent(ctx, event, "cannot resolve the tier drop rates")
	}

	prizesByTier, err := d.resolvePrizePool(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resolve prize pool of %s: %v", eventID, err)
		return d.failEvent(ctx, event, "cannot resolve the prize pool")
	}

	if len(prizesByTier) == 0 {
		return d.failEvent(ctx, event, "no mystery-eligible prize is in stock")
	}

	winners := crypto.RandSample(pool, event.WinnerCount)

	var awarded entity.Array[entity.Map]
	for _, winner := range winners {
		var prizes []entity.PrizeCatalog
		if len(tiers) > 0 {
			tier := rollTier(tiers, rates, crypto.RandFloat())
			prizes = prizesByTier[tier.ID]
			if len(prizes) == 0 {
				prizes = prizesByTier[tiers[0].ID]
			}
		} else {
			// No tier table configured, draw from the whole pool.
			for _, tierPrizes := range prizesByTier {
				prizes = append(prizes, tierPrizes...)
			}
		}

		if len(prizes) == 0 {
			xcontext.Logger(ctx).Warnf(
				"No prize available for winner %s of event %s", winner.ID, eventID)
			continue
		}

		prize := weightedChoice(prizes, crypto.RandFloat())

		award, err := d.awardMysteryPrize(ctx, &prize, winner.ID, eventID)
		if err != nil {
			xcontext.Logger(ctx).Warnf(
				"Cannot award prize %s to winner %s of event %s: %v",
				prize.ID, winner.ID, eventID, err)
			continue
		}

		// Keep the in-memory stock in sync so later winners in this run see
		// the decrement.
		if prize.TotalQuantity != nil {
			d.decrementPoolStock(prizesByTier, prize.ID)
		}

		awarded = append(awarded, entity.Map{
			"user_id":    winner.ID,
			"user_email": winner.Email,
			"prize_id":   prize.ID,
			"prize_name": prize.Name,
			"tier_id":    prize.TierID,
			"award_id":   award.ID,
		})
	}

	return d.completeEvent(ctx, event, awarded)
}

func (d *domain) awardMysteryPrize(
	ctx context.Context, prize *entity.PrizeCatalog, userID, eventID string,
) (*entity.PrizeAward, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	award, err := d.awardPrize(ctx, prize, userID, entity.PrizeAwardSourceMysteryBox, 0,
		entity.Map{"mystery_box_event_id": eventID})
	if err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return award, nil
}

func (d *domain) resolveUserPool(
	ctx context.Context, event *entity.MysteryBoxEvent,
) ([]entity.User, error) {
	if len(event.EligibleUserIDs) > 0 {
		return d.userRepo.GetByIDs(ctx, event.EligibleUserIDs)
	}

	filter := &repository.UserFilter{}
	if criteria := event.EligibilityCriteria; len(criteria) > 0 {
		filter.Departments = criteriaStrings(criteria["departments"])
		filter.JobCodes = criteriaStrings(criteria["job_codes"])
		filter.Groups = criteriaStrings(criteria["groups"])

		if tenure, ok := criteriaInt(criteria["min_tenure_days"]); ok && tenure > 0 {
			hiredBefore := time.Now().AddDate(0, 0, -tenure)
			filter.HiredBefore = &hiredBefore
		}
	}

	return d.userRepo.GetActive(ctx, filter)
}

// resolveTierRates returns the tiers in ascending level order and their
// effective drop rates, with caller overrides applied per tier id.
func (d *domain) resolveTierRates(
	ctx context.Context, event *entity.MysteryBoxEvent,
) ([]entity.PrizeTier, []float64, error) {
	tiers, err := d.prizeRepo.GetTiers(ctx)
	if err != nil {
		return nil, nil, err
	}

	rates := make([]float64, len(tiers))
	for i, tier := range tiers {
		rates[i] = tier.DropRate
		if override, ok := event.TierRateOverrides[tier.ID]; ok {
			if rate, ok := criteriaFloat(override); ok {
				rates[i] = rate
			}
		}
	}

	return tiers, rates, nil
}

func (d *domain) resolvePrizePool(
	ctx context.Context,
) (map[string][]entity.PrizeCatalog, error) {
	prizes, err := d.prizeRepo.GetMysteryEligible(ctx)
	if err != nil {
		return nil, err
	}

	byTier := map[string][]entity.PrizeCatalog{}
	for _, prize := range prizes {
		byTier[prize.TierID] = append(byTier[prize.TierID], prize)
	}

	return byTier, nil
}

func (d *domain) decrementPoolStock(pool map[string][]entity.PrizeCatalog, prizeID string) {
	for tierID, prizes := range pool {
		for i := range prizes {
			if prizes[i].ID == prizeID {
				prizes[i].AvailableQuantity--
				if !prizes[i].InStock() {
					pool[tierID] = append(prizes[:i], prizes[i+1:]...)
				}
				return
			}
		}
	}
}

func (d *domain) completeEvent(
	ctx context.Context, event *entity.MysteryBoxEvent, awarded entity.Array[entity.Map],
) error {
	now := time.Now()
	event.Status = entity.MysteryBoxEventCompleted
	event.ExecutedAt = &now
	event.WinnersCount = len(awarded)
	event.PrizesAwarded = awarded

	if err := d.mysteryBoxRepo.Update(ctx, event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot complete mystery box event %s: %v", event.ID, err)
		return errorx.Unknown
	}

	return nil
}

func (d *domain) failEvent(
	ctx context.Context, event *entity.MysteryBoxEvent, reason string,
) error {
	now := time.Now()
	event.Status = entity.MysteryBoxEventFailed
	event.ExecutedAt = &now
	event.Error = reason

	if err := d.mysteryBoxRepo.Update(ctx, event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot fail mystery box event %s: %v", event.ID, err)
		return errorx.Unknown
	}

	return errorx.New(errorx.Unavailable, "Mystery box event failed: %s", reason)
}

// rollTier walks the tiers in ascending level order accumulating drop rates
// and picks the first tier whose cumulative rate covers the draw. A draw
// landing past the end falls back to the first tier.
func rollTier(tiers []entity.PrizeTier, rates []float64, draw float64) entity.PrizeTier {
	cumulative := 0.0
	for i, tier := range tiers {
		cumulative += rates[i]
		if draw <= cumulative {
			return tier
		}
	}

	return tiers[0]
}

// weightedChoice picks one prize proportionally to its mystery weight, first
// covering prize wins on ties.
func weightedChoice(prizes []entity.PrizeCatalog, draw float64) entity.PrizeCatalog {
	total := 0
	for _, prize := range prizes {
		weight := prize.MysteryWeight
		if weight <= 0 {
			weight = 1
		}

		total += weight
	}

	target := draw * float64(total)
	cumulative := 0.0
	for _, prize := range prizes {
		weight := prize.MysteryWeight
		if weight <= 0 {
			weight = 1
		}

		cumulative += float64(weight)
		if target < cumulative {
			return prize
		}
	}

	return prizes[len(prizes)-1]
}

func (d *domain) GetMysteryBoxEvents(
	ctx context.Context, req *model.GetMysteryBoxEventsRequest,
) (*model.GetMysteryBoxEventsResponse, error) {
	if req.Limit == 0 {
		req.Limit = 50
	}

	events, err := d.mysteryBoxRepo.GetList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get mystery box events: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetMysteryBoxEventsResponse{
		Events: make([]model.MysteryBoxEvent, 0, len(events)),
	}
	for _, event := range events {
		resp.Events = append(resp.Events, convertMysteryBoxEvent(event))
	}

	return resp, nil
}

func (d *domain) GetMysteryBoxEvent(
	ctx context.Context, req *model.GetMysteryBoxEventRequest,
) (*model.GetMysteryBoxEventResponse, error) {
	event, err := d.mysteryBoxRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found mystery box event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mystery box event %s: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	resp := model.GetMysteryBoxEventResponse(convertMysteryBoxEvent(*event))
	return &resp, nil
}

func criteriaStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		result := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}

	return nil
}

func criteriaInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	}

	return 0, false
}

func criteriaFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}

	return 0, false
}
