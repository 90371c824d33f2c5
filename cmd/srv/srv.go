package main

import (
	"context"
	"net/http"

	"github.com/phenobarbital/nav-rewards/config"
	"github.com/phenobarbital/nav-rewards/internal/domain/feedback"
	"github.com/phenobarbital/nav-rewards/internal/domain/marketplace"
	"github.com/phenobarbital/nav-rewards/internal/domain/reward"
	"github.com/phenobarbital/nav-rewards/internal/domain/rewardrule"
	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/internal/model"
	"github.com/phenobarbital/nav-rewards/internal/repository"
	"github.com/phenobarbital/nav-rewards/pkg/jwt"
	"github.com/phenobarbital/nav-rewards/pkg/kafka"
	"github.com/phenobarbital/nav-rewards/pkg/logger"
	"github.com/phenobarbital/nav-rewards/pkg/pubsub"
	"github.com/phenobarbital/nav-rewards/pkg/router"
	"github.com/phenobarbital/nav-rewards/pkg/xcontext"
	"github.com/phenobarbital/nav-rewards/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	userRepo         repository.UserRepository
	rewardRepo       repository.RewardRepository
	userRewardRepo   repository.UserRewardRepository
	collectiveRepo   repository.CollectiveRepository
	notificationRepo repository.NotificationEventRepository
	prizeRepo        repository.PrizeRepository
	prizeAwardRepo   repository.PrizeAwardRepository
	redemptionRepo   repository.PrizeRedemptionRepository
	mysteryBoxRepo   repository.MysteryBoxEventRepository
	feedbackRepo     repository.FeedbackRepository

	ruleFactory rewardrule.Factory

	rewardDomain      reward.Domain
	marketplaceDomain marketplace.Domain
	feedbackDomain    feedback.Domain

	redisClient xredis.Client
	publisher   pubsub.Publisher
	tokenEngine *jwt.Engine[model.AccessToken]

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	configs, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.configs = configs
	s.logger = logger.NewLogger(logger.LevelFromString(configs.LogLevel))

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, s.configs)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
	return nil
}

func (s *srv) loadDatabase() error {
	db, err := gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		return err
	}

	s.db = db
	s.ctx = xcontext.WithDB(s.ctx, db)
	return nil
}

func (s *srv) migrateDB() error {
	return entity.MigrateTable(s.db)
}

func (s *srv) loadRedisClient() error {
	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		s.logger.Warnf("Cannot connect to redis, cooldowns are disabled: %v", err)
		return nil
	}

	s.redisClient = client
	return nil
}

func (s *srv) loadPublisher() error {
	publisher, err := kafka.NewPublisher("nav-rewards", []string{s.configs.Kafka.Addr})
	if err != nil {
		return err
	}

	s.publisher = publisher
	return nil
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.rewardRepo = repository.NewRewardRepository()
	s.userRewardRepo = repository.NewUserRewardRepository()
	s.collectiveRepo = repository.NewCollectiveRepository()
	s.notificationRepo = repository.NewNotificationEventRepository()
	s.prizeRepo = repository.NewPrizeRepository()
	s.prizeAwardRepo = repository.NewPrizeAwardRepository()
	s.redemptionRepo = repository.NewPrizeRedemptionRepository()
	s.mysteryBoxRepo = repository.NewMysteryBoxEventRepository()
	s.feedbackRepo = repository.NewFeedbackRepository()
}

func (s *srv) loadDomains() {
	s.ruleFactory = rewardrule.NewFactory(s.userRepo, s.userRewardRepo)
	s.tokenEngine = jwt.NewEngine[model.AccessToken](
		s.configs.Auth.TokenSecret, s.configs.Auth.Expiration)

	s.rewardDomain = reward.NewDomain(s.ruleFactory, s.rewardRepo, s.userRepo,
		s.userRewardRepo, s.collectiveRepo, s.notificationRepo)
	s.marketplaceDomain = marketplace.NewDomain(s.prizeRepo, s.prizeAwardRepo,
		s.redemptionRepo, s.mysteryBoxRepo, s.userRepo, s.redisClient)
	s.feedbackDomain = feedback.NewDomain(s.feedbackRepo, s.userRewardRepo,
		s.userRepo, s.redisClient)
}
