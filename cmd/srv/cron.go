package main

import (
	"github.com/phenobarbital/nav-rewards/internal/domain/cron"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}

	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := s.migrateDB(); err != nil {
		return err
	}

	if err := s.loadRedisClient(); err != nil {
		return err
	}

	if err := s.loadPublisher(); err != nil {
		return err
	}

	s.loadRepos()
	s.loadDomains()

	manager := cron.NewCronJobManager()
	manager.Register(cron.NewComputedRewardCronJob(
		s.configs.Cron.ComputedRewardHour, s.ruleFactory, s.rewardRepo,
		s.userRepo, s.userRewardRepo, s.collectiveRepo, s.notificationRepo))
	manager.Register(cron.NewMysteryBoxCronJob(
		s.configs.Cron.MysteryBoxPollInterval, s.marketplaceDomain, s.mysteryBoxRepo))
	manager.Register(cron.NewExpirePrizeAwardsCronJob(
		s.configs.Cron.ExpireAwardsInterval, s.marketplaceDomain))
	manager.Register(cron.NewNotificationOutboxCronJob(
		s.configs.Cron.OutboxInterval, s.configs.Cron.OutboxBatchSize,
		s.configs.Kafka.NotificationTopic, s.publisher, s.notificationRepo))

	manager.Start(s.ctx)
	return nil
}
