package marketplace

import (
	"context"

	"github.com/phenobarbital/nav-rewards/internal/model"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/errorx"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

// GetRedemptionMetrics reports counts per status plus average
// time-to-approve and time-to-complete in hours, derived from the completed
// redemptions' timestamps.
func (d *domain) GetRedemptionMetrics(
	ctx context.Context, req *model.GetRedemptionMetricsRequest,
) (*model.GetRedemptionMetricsResponse, error) {
	counts, err := d.redemptionRepo.CountByStatus(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count redemptions by status: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetRedemptionMetricsResponse{CountsByStatus: map[string]int64{}}
	for _, count := range counts {
		resp.CountsByStatus[string(count.Status)] = count.Total
	}

	completed, err := d.redemptionRepo.GetCompleted(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get completed redemptions: %v", err)
		return nil, errorx.Unknown
	}

	var approvalHours, completeHours float64
	var approvalCount, completeCount int
	for _, redemption := range completed {
		if redemption.ApprovedAt != nil {
			approvalHours += redemption.ApprovedAt.Sub(redemption.CreatedAt).Hours()
			approvalCount++
		}

		if redemption.CompletedAt != nil {
			completeHours += redemption.CompletedAt.Sub(redemption.CreatedAt).Hours()
			completeCount++
		}
	}

	if approvalCount > 0 {
		resp.AvgApprovalHours = approvalHours / float64(approvalCount)
	}

	if completeCount > 0 {
		resp.AvgCompleteHours = completeHours / float64(completeCount)
	}

	return resp, nil
}

func (d *domain) GetPrizePopularity(
	ctx context.Context, req *model.GetPrizePopularityRequest,
) (*model.GetPrizePopularityResponse, error) {
	prizes, err := d.prizeRepo.GetList(ctx, &repository.PrizeFilter{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prizes: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetPrizePopularityResponse{
		Prizes: make([]model.PrizePopularity, 0, len(prizes)),
	}
	for _, prize := range prizes {
		awards, err := d.prizeAwardRepo.CountByPrize(ctx, prize.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count awards of %s: %v", prize.ID, err)
			return nil, errorx.Unknown
		}

		redemptions, err := d.redemptionRepo.CountByPrize(ctx, prize.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count redemptions of %s: %v", prize.ID, err)
			return nil, errorx.Unknown
		}

		resp.Prizes = append(resp.Prizes, model.PrizePopularity{
			PrizeID:         prize.ID,
			PrizeName:       prize.Name,
			AwardCount:      awards,
			RedemptionCount: redemptions,
		})
	}

	return resp, nil
}
