package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/crop-advisor/internal/domain/admin"
	"github.com/yanqian/crop-advisor/internal/domain/crop"
	"github.com/yanqian/crop-advisor/internal/domain/report"
	"github.com/yanqian/crop-advisor/internal/domain/session"
	"github.com/yanqian/crop-advisor/internal/infra/archive"
	"github.com/yanqian/crop-advisor/internal/infra/config"
	"github.com/yanqian/crop-advisor/internal/infra/cropstats"
	"github.com/yanqian/crop-advisor/internal/infra/historyrepo"
	"github.com/yanqian/crop-advisor/internal/infra/predictor"
	httpiface "github.com/yanqian/crop-advisor/internal/interface/http"
)

func provideCropConfig(cfg *config.Config) crop.Config {
	return crop.Config{
		HistoryLimit: cfg.History.Limit,
		PopularLimit: cfg.Stats.PopularLimit,
	}
}

func provideSessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		IdleTTL:     cfg.Session.IdleTTL,
		MaxSessions: cfg.Session.MaxSessions,
	}
}

func provideRateLimiter(cfg *config.Config) *httpiface.RateLimiter {
	return httpiface.NewRateLimiter(cfg.HTTP.RateLimit)
}

func provideReportConfig(cfg *config.Config) report.Config {
	return report.Config{
		ExportLimit: cfg.Archive.ExportLimit,
		KeyPrefix:   cfg.Archive.Prefix,
	}
}

func provideAdminConfig(cfg *config.Config) admin.Config {
	return admin.Config{
		Secret:   cfg.Admin.Secret,
		TokenTTL: cfg.Admin.TokenTTL,
	}
}

func providePredictorClient(cfg *config.Config) *predictor.Client {
	return predictor.NewClient(cfg.Predictor.Endpoint, cfg.Predictor.Timeout)
}

func provideHistoryRepository(cfg *config.Config, logger *slog.Logger) crop.HistoryRepository {
	fallback := historyrepo.NewMemoryRepository(cfg.History.MemoryLimit)
	dsn := strings.TrimSpace(cfg.History.Postgres.DSN)
	if dsn == "" {
		logger.Info("history postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.History.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.History.Postgres.MaxConns
	}
	if cfg.History.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.History.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	repo := historyrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("history schema migration failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("history postgres repository enabled")
	return repo
}

func provideStatsStore(cfg *config.Config, logger *slog.Logger) crop.StatsStore {
	if cfg.Stats.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg.Stats.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return cropstats.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return cropstats.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("crop stats valkey store enabled", "addr", cfg.Stats.Valkey.Addr)
			return cropstats.NewValkeyStore(client, cfg.Stats.Valkey.Prefix)
		}
	}
	return cropstats.NewMemoryStore()
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

// provideArchiveStorage returns a nil interface when archiving is not configured.
func provideArchiveStorage(cfg *config.Config, logger *slog.Logger) report.ObjectStorage {
	a := cfg.Archive
	if !a.Enabled() {
		logger.Info("archive storage not configured, archiving disabled")
		return nil
	}
	storage, err := archive.NewS3Storage(a.Endpoint, a.AccessKey, a.SecretKey, a.Bucket, a.Region, logger)
	if err != nil {
		logger.Error("failed to initialize archive storage, archiving disabled", "error", err)
		return nil
	}
	logger.Info("archive storage enabled", "bucket", a.Bucket)
	return storage
}
