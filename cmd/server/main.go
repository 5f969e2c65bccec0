package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/redis/go-redis/v9"

	"study-gateway/internal/config"
	"study-gateway/internal/logging"
	"study-gateway/internal/observability"
	"study-gateway/internal/professor"
	"study-gateway/internal/server"
	"study-gateway/internal/study"
	"study-gateway/middleware/ratelimit/domain"
	"study-gateway/middleware/ratelimit/infra"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log hclog.Logger) error {
	metrics := observability.NewMetrics()

	gemini, err := professor.NewGemini(ctx, professor.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	})
	if err != nil {
		return err
	}
	requester := professor.NewRequester(gemini,
		professor.WithPacer(cfg.UpstreamRPS, cfg.UpstreamBurst),
		professor.WithMetrics(metrics),
		professor.WithLogger(log.Named("professor")),
	)

	requestLog := infra.NewSlidingLog(domain.DefaultLimit, domain.DefaultWindow,
		infra.WithSweepEvery(cfg.RateLogSweepEvery),
	)
	limiterLog := log.Named("ratelimit")
	requestLog.StartJanitor(ctx, func(removed int) {
		limiterLog.Debug("chaves inativas removidas", "removed", removed, "remaining", requestLog.Len())
	})

	promStats, err := infra.NewPromStatsStore(metrics.Registerer())
	if err != nil {
		return err
	}
	stats := infra.FanoutStats{promStats}

	if cfg.RateStatsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateStatsRedisAddr,
			Password: cfg.RateStatsRedisPassword,
			DB:       cfg.RateStatsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			return fmt.Errorf("redis stats ping: %w", err)
		}

		stats = append(stats, infra.NewRedisStatsStore(rdb,
			infra.WithStatsPrefix(cfg.RateStatsPrefix),
			infra.WithStatsTTL(cfg.RateStatsTTL),
			infra.WithStatsBucket(cfg.RateStatsBucket),
			infra.WithStatsTrackKeys(cfg.RateStatsTrackKeys),
		))
	}

	var pool domain.SlotPool
	if cfg.ConcurrencyMax > 0 {
		slots := infra.NewSlotPool(cfg.ConcurrencyMax)
		if err := metrics.TrackInFlight(slots.InUse); err != nil {
			return err
		}
		pool = slots
	}

	handler := study.NewHandler(study.NewService(requester), log.Named("study"))
	router := server.NewRouter(server.RouterOptions{
		Logger:              log,
		Metrics:             metrics,
		Study:               handler,
		RequestLog:          requestLog,
		Stats:               stats,
		TrustXForwardedFor:  cfg.TrustXFF,
		AddRateLimitHeaders: cfg.AddRateLimitHeaders,
		SlotPool:            pool,
		AcquireTimeout:      cfg.ConcurrencyTimeout,
	})

	log.Info("rate limit",
		"limit", requestLog.Limit(),
		"window", requestLog.Window(),
		"sweep_every", requestLog.SweepEvery(),
		"trust_xff", cfg.TrustXFF,
	)
	log.Info("rate stats", "redis", cfg.RateStatsEnabled, "addr", cfg.RateStatsRedisAddr, "bucket", cfg.RateStatsBucket, "ttl", cfg.RateStatsTTL)
	log.Info("upstream", "model", gemini.Model(), "rps", cfg.UpstreamRPS, "burst", cfg.UpstreamBurst, "concurrency_max", cfg.ConcurrencyMax)

	return server.New(cfg.ListenAddr(), router, log.Named("server")).Run(ctx)
}
