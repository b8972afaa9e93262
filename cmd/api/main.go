package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"rescuefeed/internal/adapter/repo"
	"rescuefeed/internal/cases"
	"rescuefeed/internal/feed"
	"rescuefeed/internal/http/handlers"
	"rescuefeed/internal/http/httpapi"
	"rescuefeed/internal/infra"
	"rescuefeed/internal/infra/geoip"
	"rescuefeed/internal/middleware"
	"rescuefeed/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	geoResolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer geoResolver.Close()
	var geoLookup middleware.CountryLookup
	if geoResolver != nil {
		geoLookup = geoResolver.CountryCode
	}

	redisClient, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, feed cache disabled")
	}
	var feedCache *feed.Cache
	if redisClient != nil {
		feedCache = feed.NewCache(feed.NewRedisKVStore(redisClient), cfg.FeedCacheTTL, logger)
	}

	sqlRunner := infra.NewSQLRunner(dbpool, logger)
	caseRepo := repo.NewCaseRepository(sqlRunner)
	donationRepo := repo.NewDonationRepository(sqlRunner)
	adoptionRepo := repo.NewAdoptionRepository(sqlRunner)
	achievementRepo := repo.NewAchievementRepository(sqlRunner)
	userRepo := repo.NewUserRepository(sqlRunner)
	announcementRepo := repo.NewAnnouncementRepository(sqlRunner)
	statsRepo := repo.NewStatsRepository(sqlRunner)

	imageResolver := storage.NewResolver(cfg.StorageBaseURL)
	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare upload storage")
	}

	feedSvc := feed.NewService(feed.Deps{
		Cases:         caseRepo,
		Donations:     donationRepo,
		Adoptions:     adoptionRepo,
		Achievements:  achievementRepo,
		Users:         userRepo,
		Announcements: announcementRepo,
		Images:        imageResolver,
		Cache:         feedCache,
	}, logger)
	caseSvc := cases.NewService(caseRepo, logger)

	app := &handlers.App{
		Logger:    logger,
		Feed:      feedSvc,
		Cases:     caseSvc,
		Donations: donationRepo,
		Users:     userRepo,
		Stats:     statsRepo,
		Images:    imageResolver,
		Uploads:   fileStore,
		GeoLookup: geoLookup,
		DB:        dbpool,
	}

	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", server.Addr()).Msg("API listening")
	if err := server.Run(runCtx); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
	logger.Info().Msg("server stopped")
}
