// Package app wires configuration to storage adapters and services. Both
// the interactive CLI and the HTTP API start from Build.
package app

import (
	"context"
	"fmt"

	"simple-bank-ledger/config"
	memStorage "simple-bank-ledger/internal/adapter/storage/memory"
	pgStorage "simple-bank-ledger/internal/adapter/storage/postgres"
	redisStorage "simple-bank-ledger/internal/adapter/storage/redis"
	"simple-bank-ledger/internal/core/ports"
	"simple-bank-ledger/internal/service"
	"simple-bank-ledger/pkg/logger"

	"github.com/rs/zerolog"
)

// App holds the services built from a Config.
type App struct {
	Auth     ports.AuthService
	Ledger   ports.LedgerService
	Sessions ports.SessionService
	Tokens   ports.TokenService
	Health   []ports.HealthChecker

	closers []func()
}

// Close releases the store connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type ledgerStore struct {
	accounts   ports.AccountRepository
	txns       ports.TransactionRepository
	transactor ports.DBTransactor
	health     ports.HealthChecker
}

// Build connects the configured stores and constructs the services. A
// store that cannot be reached yields a StoreUnavailable error.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{}

	store, err := a.openLedgerStore(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Health = append(a.Health, store.health)

	sessions, err := a.openSessionStore(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	policy, err := service.NewRegistrationPolicy(cfg.Policy, cfg.Ledger.MaxAmountValue())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("registration policy: %w", err)
	}

	hasher := service.NewArgon2Hasher(service.DefaultArgon2Params)

	a.Auth = service.NewAuthService(store.accounts, hasher, policy, cfg.Ledger.AmountScale,
		logger.WithComponent(log, "auth"))
	a.Ledger = service.NewLedgerService(store.accounts, store.txns, store.transactor, cfg.Ledger,
		logger.WithComponent(log, "ledger"))
	a.Sessions = service.NewSessionService(sessions, cfg.Session.TTL,
		logger.WithComponent(log, "session"))
	a.Tokens = service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	return a, nil
}

func (a *App) openLedgerStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*ledgerStore, error) {
	if cfg.Database.InMemory() {
		log.Warn().Msg("Using in-memory store, data is lost on exit")
		mem := memStorage.NewStore(cfg.Ledger.LockTimeout)
		return &ledgerStore{
			accounts:   memStorage.NewAccountRepo(mem),
			txns:       memStorage.NewTransactionRepo(mem),
			transactor: memStorage.NewTransactor(mem),
			health:     memStorage.NewHealthCheck(mem),
		}, nil
	}

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pool.Close)
	log.Info().Msg("PostgreSQL connected")

	if cfg.Database.AutoMigrate {
		if err := pgStorage.Migrate(ctx, pool, log); err != nil {
			return nil, err
		}
	}

	return &ledgerStore{
		accounts:   pgStorage.NewAccountRepo(pool),
		txns:       pgStorage.NewTransactionRepo(pool),
		transactor: pgStorage.NewTransactor(pool, cfg.Ledger.LockTimeout),
		health:     pgStorage.NewHealthCheck(pool),
	}, nil
}

func (a *App) openSessionStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.SessionStore, error) {
	if !cfg.Redis.Enabled {
		return memStorage.NewSessionStore(cfg.Session.TTL), nil
	}

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = rdb.Close() })
	a.Health = append(a.Health, redisStorage.NewHealthCheck(rdb))
	log.Info().Msg("Redis connected")

	return redisStorage.NewSessionStore(rdb, cfg.Session.TTL), nil
}
