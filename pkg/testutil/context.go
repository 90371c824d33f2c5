package testutil

import (
	"context"
	"time"

	"github.com/phenobarbital/nav-rewards/config"
	"github.com/phenobarbital/nav-rewards/pkg/logger"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
)

// MockContext returns a context seeded with test configurations, a quiet
// logger, and a fresh fixture database.
func MockContext() context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.LevelFromString("error")))
	ctx = xcontext.WithDB(ctx, CreateFixtureDb())
	return ctx
}

func MockConfigs() config.Configs {
	return config.Configs{
		Env:      "test",
		LogLevel: "error",
		Auth: config.AuthConfigs{
			TokenSecret:     "test-secret",
			AccessTokenName: "access_token",
			Expiration:      time.Hour,
		},
		Cron: config.CronConfigs{
			ComputedRewardHour:     6,
			OutboxInterval:         time.Minute,
			OutboxBatchSize:        100,
			ExpireAwardsInterval:   time.Hour,
			MysteryBoxPollInterval: 5 * time.Minute,
		},
		Marketplace: config.MarketplaceConfigs{
			AwardExpiryDays:  90,
			FeedbackCooldown: time.Minute,
		},
	}
}
