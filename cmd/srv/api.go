package main

import (
	"net/http"

	"github.com/phenobarbital/nav-rewards/internal/middleware"
	"github.com/phenobarbital/nav-rewards/pkg/router"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
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

	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	handler := http.Handler(s.router.Handler())
	if len(s.configs.ApiServer.AllowCORS) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   s.configs.ApiServer.AllowCORS,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler(handler)
	}

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: handler,
	}

	s.logger.Infof("Starting api server on %s", s.configs.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, s.configs, s.logger)
	v1 := s.router.Group("/rewards/api/v1")

	authRouter := v1.Branch()
	authRouter.Before(middleware.Authenticate(s.tokenEngine))
	{
		// Reward engine API
		router.POST(authRouter, "/rewards", s.rewardDomain.AwardReward)
		router.GET(authRouter, "/rewards/definitions", s.rewardDomain.GetRewards)
		router.POST(authRouter, "/rewards/definitions", s.rewardDomain.CreateReward)
		router.GET(authRouter, "/rewards/user/:user_id", s.rewardDomain.GetUserRewards)
		router.POST(authRouter, "/rewards/awards/:award_id/revoke", s.rewardDomain.RevokeUserReward)

		// Prize catalog API
		router.POST(authRouter, "/prizes", s.marketplaceDomain.CreatePrize)
		router.PUT(authRouter, "/prizes/:id", s.marketplaceDomain.UpdatePrize)
		router.DELETE(authRouter, "/prizes/:id", s.marketplaceDomain.DeletePrize)

		// Prize award API
		router.POST(authRouter, "/awards", s.marketplaceDomain.AwardPrize)
		router.GET(authRouter, "/awards/:award_id", s.marketplaceDomain.GetPrizeAward)
		router.GET(authRouter, "/awards/user/:user_id", s.marketplaceDomain.GetUserPrizeAwards)

		// Redemption API
		router.POST(authRouter, "/redemptions", s.marketplaceDomain.InitiateRedemption)
		router.GET(authRouter, "/redemptions/:id", s.marketplaceDomain.GetRedemption)
		router.PUT(authRouter, "/redemptions/:id/status", s.marketplaceDomain.UpdateRedemptionStatus)
		router.POST(authRouter, "/redemptions/:id/cancel", s.marketplaceDomain.CancelRedemption)
		router.POST(authRouter, "/redemptions/:id/complete", s.marketplaceDomain.CompleteRedemption)
		router.POST(authRouter, "/redemptions/:id/feedback", s.marketplaceDomain.SubmitRedemptionFeedback)

		// Wallet API
		router.GET(authRouter, "/wallet", s.marketplaceDomain.GetWallet)
		router.GET(authRouter, "/wallet/stats", s.marketplaceDomain.GetWalletStats)

		// Mystery box API
		router.POST(authRouter, "/mystery-box/trigger", s.marketplaceDomain.TriggerMysteryBox)
		router.GET(authRouter, "/mystery-box/events", s.marketplaceDomain.GetMysteryBoxEvents)
		router.GET(authRouter, "/mystery-box/events/:id", s.marketplaceDomain.GetMysteryBoxEvent)

		// Feedback API
		router.POST(authRouter, "/feedback", s.feedbackDomain.SubmitFeedback)
	}

	// Public API
	router.GET(v1, "/prizes", s.marketplaceDomain.GetPrizes)
	router.GET(v1, "/prizes/:id", s.marketplaceDomain.GetPrize)
	router.GET(v1, "/prize-categories", s.marketplaceDomain.GetPrizeCategories)
	router.GET(v1, "/prize-tiers", s.marketplaceDomain.GetPrizeTiers)
	router.GET(v1, "/metrics/redemptions", s.marketplaceDomain.GetRedemptionMetrics)
	router.GET(v1, "/metrics/popularity", s.marketplaceDomain.GetPrizePopularity)
}
