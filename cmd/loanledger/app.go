package main

import (
	"context"
	"fmt"

	"loan-ledger/config"
	"loan-ledger/internal/adapter/queue"
	"loan-ledger/internal/adapter/storage/memory"
	pgStorage "loan-ledger/internal/adapter/storage/postgres"
	redisStorage "loan-ledger/internal/adapter/storage/redis"
	"loan-ledger/internal/core/ports"
	"loan-ledger/internal/service"
	"loan-ledger/pkg/logger"

	"github.com/hibiken/asynq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// repositories is the persistence view shared by every command.
type repositories struct {
	members      ports.MemberRepository
	funds        ports.FundsRepository
	settings     ports.SettingsRepository
	applications ports.LoanApplicationRepository
	currentLoans ports.CurrentLoanRepository
	payments     ports.PaymentRepository
	savings      ports.SavingsRepository
	logs         ports.TransactionLogRepository
	resolutions  ports.ResolutionRepository
	audits       ports.AuditRepository
}

func memoryRepositories(store *memory.Store) repositories {
	return repositories{
		members:      store.Members(),
		funds:        store.Funds(),
		settings:     store.Settings(),
		applications: store.LoanApplications(),
		currentLoans: store.CurrentLoans(),
		payments:     store.Payments(),
		savings:      store.Savings(),
		logs:         store.TransactionLogs(),
		resolutions:  store.Resolutions(),
		audits:       store.Audits(),
	}
}

func postgresRepositories(pool pgStorage.Pool) repositories {
	return repositories{
		members:      pgStorage.NewMemberRepo(pool),
		funds:        pgStorage.NewFundsRepo(pool),
		settings:     pgStorage.NewSettingsRepo(pool),
		applications: pgStorage.NewLoanApplicationRepo(pool),
		currentLoans: pgStorage.NewCurrentLoanRepo(pool),
		payments:     pgStorage.NewPaymentRepo(pool),
		savings:      pgStorage.NewSavingsRepo(pool),
		logs:         pgStorage.NewTransactionLogRepo(pool),
		resolutions:  pgStorage.NewResolutionRepo(pool),
		audits:       pgStorage.NewAuditRepo(pool),
	}
}

// app is the fully wired service graph.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	memStore *memory.Store // set when store.driver is memory

	loans          *service.LoanServiceImpl
	payments       *service.PaymentServiceImpl
	savings        *service.SavingsServiceImpl
	settings       *service.SettingsServiceImpl
	reporting      ports.ReportingService
	coordinator    *service.LedgerCoordinatorImpl
	reconciliation *service.ReconciliationServiceImpl
	audit          ports.AuditService
	tokens         *service.JWTTokenService

	rateLimit      *redisStorage.RateLimitStore
	healthCheckers []ports.HealthChecker

	closers []func()
}

func loadConfig(path string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.New(cfg.Log.Level, cfg.Log.Pretty), nil
}

func redisClientOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// newApp connects the configured backends and builds the services on top.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	loc, err := cfg.Ledger.Location()
	if err != nil {
		return nil, err
	}

	var (
		repos  repositories
		locker ports.Locker
		cache  ports.ResolutionCache
		rdb    *goredis.Client
	)

	if cfg.Store.UsesMemory() {
		log.Warn().Msg("Using in-memory store, state is lost on exit")
		a.memStore = memory.NewStore()
		repos = memoryRepositories(a.memStore)
		locker = memory.NewLocker(cfg.Ledger.LockWait)
		cache = memory.NewCache()
	} else {
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		repos = postgresRepositories(pool)
		a.healthCheckers = append(a.healthCheckers, pgStorage.NewHealthCheck(pool))

		rdb, err = redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		locker = redisStorage.NewLocker(rdb, cfg.Ledger.LockTTL, cfg.Ledger.LockWait)
		cache = redisStorage.NewResolutionCache(rdb)
		a.rateLimit = redisStorage.NewRateLimitStore(rdb)
		a.healthCheckers = append(a.healthCheckers, redisStorage.NewHealthCheck(rdb))
	}

	var notifier ports.Notifier
	if cfg.Notification.Enabled {
		client := queue.NewClient(redisClientOpt(cfg.Redis))
		a.closers = append(a.closers, func() { _ = client.Close() })
		notifier = queue.NewAsynqNotifier(client, cfg.Notification.Queue, cfg.Notification.MaxRetry,
			logger.Component(log, "notifier"))
	}

	a.audit = service.NewAuditService(repos.audits, logger.Component(log, "audit"))
	a.tokens = service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	attempts := cfg.Ledger.TxnIDAttempts
	a.loans = service.NewLoanService(repos.members, repos.settings, repos.applications, repos.currentLoans,
		repos.logs, attempts, loc, logger.Component(log, "loans"))
	a.payments = service.NewPaymentService(repos.members, repos.currentLoans, repos.payments, repos.logs,
		attempts, loc, logger.Component(log, "payments"))
	a.savings = service.NewSavingsService(repos.members, repos.savings, repos.logs, attempts,
		logger.Component(log, "savings"))
	a.settings = service.NewSettingsService(repos.settings, a.audit, logger.Component(log, "settings"))
	a.reporting = service.NewReportingService(repos.funds, repos.logs, repos.applications, repos.payments, repos.savings)

	a.coordinator = service.NewLedgerCoordinator(service.LedgerStores{
		Members:      repos.members,
		Funds:        repos.funds,
		Applications: repos.applications,
		CurrentLoans: repos.currentLoans,
		Payments:     repos.payments,
		Savings:      repos.savings,
		Logs:         repos.logs,
		Resolutions:  repos.resolutions,
	}, locker, cache, notifier, a.audit, cfg.Ledger.ResolutionCacheTTL, loc, logger.Component(log, "coordinator"))

	a.reconciliation = service.NewReconciliationService(repos.resolutions, a.coordinator, a.audit,
		cfg.Ledger.ReconcileBatch, logger.Component(log, "reconciliation"))

	return a, nil
}

// Close releases backend connections in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
