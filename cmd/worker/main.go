package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"rescuefeed/internal/adapter/repo"
	"rescuefeed/internal/feed"
	"rescuefeed/internal/infra"
	"rescuefeed/internal/storage"
)

// The warmer keeps the Redis-backed global feed entry fresh so API reads
// rarely pay the aggregation cost. It refreshes on a fixed interval rather
// than on write events; the feed tolerates bounded staleness.
type feedWarmer struct {
	ctx      context.Context
	feed     *feed.Service
	logger   infra.Logger
	interval time.Duration
	limit    int
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	redisClient, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: redis connection failed")
	}
	if redisClient == nil {
		logger.Fatal().Msg("worker: REDIS_ADDR is required, nothing to warm without a cache")
	}

	runner := infra.NewSQLRunner(pool, logger)
	feedCache := feed.NewCache(feed.NewRedisKVStore(redisClient), cfg.FeedCacheTTL, logger)
	feedSvc := feed.NewService(feed.Deps{
		Cases:         repo.NewCaseRepository(runner),
		Donations:     repo.NewDonationRepository(runner),
		Adoptions:     repo.NewAdoptionRepository(runner),
		Achievements:  repo.NewAchievementRepository(runner),
		Users:         repo.NewUserRepository(runner),
		Announcements: repo.NewAnnouncementRepository(runner),
		Images:        storage.NewResolver(cfg.StorageBaseURL),
		Cache:         feedCache,
	}, logger)

	warmer := &feedWarmer{
		ctx:      ctx,
		feed:     feedSvc,
		logger:   logger,
		interval: cfg.FeedWarmInterval,
		limit:    cfg.FeedWarmLimit,
	}

	if err := warmer.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func (w *feedWarmer) Run() error {
	w.logger.Info().Dur("interval", w.interval).Int("limit", w.limit).Msg("worker: started")

	// Warm immediately so a fresh deploy does not wait a full interval.
	w.warm()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-ticker.C:
			w.warm()
		}
	}
}

func (w *feedWarmer) warm() {
	start := time.Now()
	items, err := w.feed.RefreshGlobal(w.ctx, w.limit)
	if err != nil {
		w.logger.Error().Err(err).Msg("worker: feed refresh failed")
		return
	}
	w.logger.Info().
		Int("items", len(items)).
		Dur("took", time.Since(start)).
		Msg("worker: global feed warmed")
}
