package marketplace

import (
	"errors"
	"strings"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/model"
	"gorm.io/gorm"
)

func convertPrize(prize entity.PrizeCatalog) model.Prize {
	return model.Prize{
		ID:                prize.ID,
		Name:              prize.Name,
		Description:       prize.Description,
		ImageURL:          prize.ImageURL,
		CategoryID:        prize.CategoryID,
		CategoryName:      prize.Category.Name,
		TierID:            prize.TierID,
		TierName:          prize.Tier.Name,
		TierLevel:         prize.Tier.Level,
		PointsCost:        prize.PointsCost,
		MonetaryValue:     prize.MonetaryValue,
		TotalQuantity:     prize.TotalQuantity,
		AvailableQuantity: prize.AvailableQuantity,
		ReservedQuantity:  prize.ReservedQuantity,
		MaxPerUser:        prize.MaxPerUser,
		CooldownDays:      prize.CooldownDays,
		RequiresApproval:  prize.RequiresApproval,
		IsMysteryEligible: prize.IsMysteryEligible,
		MysteryWeight:     prize.MysteryWeight,
		FulfillmentType:   string(prize.FulfillmentType),
		Tags:              prize.Tags,
		IsActive:          prize.IsActive,
		IsFeatured:        prize.IsFeatured,
	}
}

func convertPrizeAward(award entity.PrizeAward) model.PrizeAward {
	return model.PrizeAward{
		ID:          award.ID,
		PrizeID:     award.PrizeID,
		PrizeName:   award.Prize.Name,
		UserID:      award.UserID,
		Status:      string(award.Status),
		Source:      string(award.Source),
		PointsSpent: award.PointsSpent,
		ExpiresAt:   award.ExpiresAt,
		CreatedAt:   award.CreatedAt,
	}
}

func convertRedemption(redemption entity.PrizeRedemption) model.Redemption {
	return model.Redemption{
		ID:             redemption.ID,
		AwardID:        redemption.AwardID,
		UserID:         redemption.UserID,
		Status:         string(redemption.Status),
		ApprovedBy:     redemption.ApprovedBy,
		ApprovedAt:     redemption.ApprovedAt,
		CancelledBy:    redemption.CancelledBy,
		CancelReason:   redemption.CancelReason,
		TrackingNumber: redemption.TrackingNumber,
		ShippedAt:      redemption.ShippedAt,
		CompletedAt:    redemption.CompletedAt,
		UserRating:     redemption.UserRating,
		UserFeedback:   redemption.UserFeedback,
		CreatedAt:      redemption.CreatedAt,
	}
}

func convertMysteryBoxEvent(event entity.MysteryBoxEvent) model.MysteryBoxEvent {
	prizes := make([]map[string]any, 0, len(event.PrizesAwarded))
	for _, prize := range event.PrizesAwarded {
		prizes = append(prizes, prize)
	}

	return model.MysteryBoxEvent{
		ID:                event.ID,
		Name:              event.Name,
		Status:            string(event.Status),
		WinnerCount:       event.WinnerCount,
		EligibleUserCount: event.EligibleUserCount,
		WinnersCount:      event.WinnersCount,
		PrizesAwarded:     prizes,
		Error:             event.Error,
		ExecutedAt:        event.ExecutedAt,
		CreatedAt:         event.CreatedAt,
	}
}

func isDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
