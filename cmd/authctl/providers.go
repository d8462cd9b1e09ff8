package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/RGisanEclipse/neuronote-go/internal/domain/auth"
	"github.com/RGisanEclipse/neuronote-go/internal/domain/otp"
	"github.com/RGisanEclipse/neuronote-go/internal/infra/config"
	"github.com/RGisanEclipse/neuronote-go/internal/infra/securestore"
	"github.com/RGisanEclipse/neuronote-go/internal/infra/transport"
)

func provideSession(cfg *config.Config) transport.Session {
	return &http.Client{Timeout: cfg.API.Timeout}
}

// provideStore picks the configured backend, falling back to memory when a
// backend is misconfigured or unreachable. Memory means sessions do not
// survive the process; fine for interactive use.
func provideStore(cfg *config.Config, logger *slog.Logger) securestore.Store {
	if cfg.Store.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return securestore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return securestore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey secure store enabled", "addr", cfg.Store.Valkey.Addr)
			return securestore.NewValkeyStore(client, cfg.Store.Valkey.Prefix)
		}
	}

	if dsn := strings.TrimSpace(cfg.Store.Postgres.DSN); dsn != "" {
		store, err := buildPostgresStore(cfg, dsn)
		if err != nil {
			logger.Error("postgres store unavailable, falling back to memory store", "error", err)
		} else {
			logger.Info("postgres secure store enabled")
			return store
		}
	}

	return securestore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Store.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Store.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Store.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func buildPostgresStore(cfg *config.Config, dsn string) (*securestore.PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.Store.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Store.Postgres.MaxConns
	}
	if cfg.Store.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Store.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	store := securestore.NewPostgresStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func provideAuthClient(cfg *config.Config, session transport.Session, store securestore.Store, logger *slog.Logger) *auth.Client {
	return auth.NewClient(cfg.API.BaseURL, session, store, logger)
}

func provideTokenManager(cfg *config.Config, session transport.Session, store securestore.Store, logger *slog.Logger) *auth.TokenManager {
	return auth.NewTokenManager(cfg.API.BaseURL, session, store, logger)
}

func provideRetryingExecutor(session transport.Session, tokens *auth.TokenManager, logger *slog.Logger) *transport.RetryingExecutor {
	return transport.NewRetryingExecutor(session, tokens, logger)
}

func provideOTPClient(cfg *config.Config, executor *transport.RetryingExecutor, store securestore.Store, logger *slog.Logger) *otp.Client {
	return otp.NewClient(cfg.API.BaseURL, executor, store, logger)
}
