// Package dependency provides dependency injection for the application.
package dependency

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fitness-tracker/companion/config"
	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/application/usecase/achievement"
	"github.com/fitness-tracker/companion/internal/application/usecase/message"
	"github.com/fitness-tracker/companion/internal/application/usecase/polling"
	"github.com/fitness-tracker/companion/internal/application/usecase/snapshot"
	"github.com/fitness-tracker/companion/internal/application/usecase/transition"
	"github.com/fitness-tracker/companion/internal/application/usecase/workout"
	domainerror "github.com/fitness-tracker/companion/internal/domain/error"
	"github.com/fitness-tracker/companion/internal/infra/cache"
	"github.com/fitness-tracker/companion/internal/infra/db"
	"github.com/fitness-tracker/companion/internal/infra/metrics"
	"github.com/fitness-tracker/companion/internal/infra/server/router"
	"github.com/fitness-tracker/companion/internal/infra/worker"
	"github.com/fitness-tracker/companion/internal/integration/adapters"
	rediscache "github.com/fitness-tracker/companion/internal/integration/cache"
	"github.com/fitness-tracker/companion/internal/integration/effects"
	"github.com/fitness-tracker/companion/internal/integration/email"
	"github.com/fitness-tracker/companion/internal/integration/email/templates"
	"github.com/fitness-tracker/companion/internal/integration/entrypoint/controller"
	"github.com/fitness-tracker/companion/internal/integration/entrypoint/middleware"
	"github.com/fitness-tracker/companion/internal/integration/fitnessapi"
	"github.com/fitness-tracker/companion/internal/integration/persistence"
	"github.com/fitness-tracker/companion/internal/integration/persistence/model"
)

// Injector holds all application dependencies.
type Injector struct {
	Config     *config.Config
	Router     *router.Router
	Workers    *worker.Group
	Guard      *workout.Guard
	Store      *snapshot.Store
	Dispatcher *achievement.Dispatcher
	closers    []func() error
}

// Options overrides collaborators, mainly for tests.
type Options struct {
	Clock    adapter.Clock
	API      adapter.FitnessAPI
	Handlers adapter.EffectHandlers
	Sender   adapter.EmailSender
	// Ledger replaces the configured backend, e.g. to keep it across restarts.
	Ledger adapter.IdempotencyLedger
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, opts Options) (*Injector, error) {
	inj := &Injector{Config: cfg}

	clock := opts.Clock
	if clock == nil {
		clock = adapter.SystemClock()
	}

	// Ledger, namespaced per account
	namespace := adapters.LedgerNamespace(adapters.NewTokenInspector(), cfg.Ledger.Namespace, cfg.API.Token)
	ledger, ledgerHealth := opts.Ledger, func() bool { return true }
	if ledger == nil {
		var err error
		ledger, ledgerHealth, err = inj.newLedger(cfg, namespace, clock)
		if err != nil {
			_ = inj.Close()
			return nil, err
		}
	}
	slog.Info("Idempotency ledger ready", "backend", cfg.Ledger.Backend, "namespace", namespace)

	// Remote API
	api := opts.API
	if api == nil {
		api = fitnessapi.NewClient(fitnessapi.Config{
			BaseURL:        cfg.API.BaseURL,
			Token:          cfg.API.Token,
			Timeout:        cfg.API.Timeout,
			MaxRetries:     uint64(max(cfg.API.MaxRetries, 0)),
			InitialBackoff: cfg.API.InitialBackoff,
			MaxBackoff:     cfg.API.MaxBackoff,
		})
	}

	// Effect handlers
	handlers, err := newHandlers(cfg, opts)
	if err != nil {
		_ = inj.Close()
		return nil, err
	}

	// Core components
	store := snapshot.NewStore(clock)
	detector := transition.NewDetector(cfg.Tracking.DailyWaterGoalMl)
	dispatcher := achievement.NewDispatcher(metrics.InstrumentLedger(ledger), metrics.InstrumentEffects(handlers), clock)
	pipeline := polling.NewPipeline(store, detector, dispatcher)
	guard := workout.NewGuard(api, dispatcher, clock)

	// Messages
	presenter := effects.NewLogPresenter(clock, 50)
	notifier := metrics.InstrumentNotifier(message.NewService(message.NewDeduper(cfg.Tracking.DedupeWindow, clock), presenter))

	// Use cases
	finishUseCase := workout.NewFinishScheduledWorkoutUseCase(api, guard, notifier)
	pollGoals := polling.NewPollGoalsUseCase(api, pipeline)
	pollWater := polling.NewPollWaterUseCase(api, pipeline, clock, cfg.Tracking.Location(), detector.DailyWaterGoalMl())
	pollWorkouts := polling.NewPollScheduledWorkoutsUseCase(api, pipeline, guard)

	// Workers
	workers := worker.NewGroup(
		worker.NewWorker(pollGoals, cfg.Polling.GoalsInterval),
		worker.NewWorker(pollWater, cfg.Polling.WaterInterval),
		worker.NewWorker(pollWorkouts, cfg.Polling.WorkoutsInterval),
	)

	// Controllers and middleware
	healthController := controller.NewHealthController(cfg.Ledger.Backend, ledgerHealth)
	snapshotController := controller.NewSnapshotController(workers, store)
	workoutController := controller.NewWorkoutController(guard, finishUseCase, notifier)
	messageController := controller.NewMessageController(notifier, presenter)
	refreshRateLimiter := middleware.NewRateLimiterWithConfig(cfg.Server.RefreshLimit, cfg.Server.RefreshWindow, clock)
	authMiddleware := middleware.NewAuthMiddleware(cfg.Server.APIToken)

	inj.Router = router.NewRouter(healthController, snapshotController, workoutController, messageController, refreshRateLimiter, authMiddleware)
	inj.Workers = workers
	inj.Guard = guard
	inj.Store = store
	inj.Dispatcher = dispatcher

	return inj, nil
}

// newLedger opens the configured ledger backend and registers its closer.
func (inj *Injector) newLedger(cfg *config.Config, namespace string, clock adapter.Clock) (adapter.IdempotencyLedger, func() bool, error) {
	switch cfg.Ledger.Backend {
	case "", config.LedgerBackendMemory:
		return persistence.NewMemoryLedger(), nil, nil

	case config.LedgerBackendSQL:
		database, err := db.NewConnection(&cfg.Database)
		if err != nil {
			return nil, nil, ledgerUnavailable(err)
		}
		inj.closers = append(inj.closers, database.Close)
		if err := database.AutoMigrate(model.AllModels()...); err != nil {
			return nil, nil, ledgerUnavailable(err)
		}
		return persistence.NewIdempotencyLedgerRepository(database.DB(), namespace, clock), database.HealthCheck, nil

	case config.LedgerBackendRedis:
		conn, err := cache.NewRedisConnection(&cfg.Redis)
		if err != nil {
			return nil, nil, ledgerUnavailable(err)
		}
		inj.closers = append(inj.closers, conn.Close)
		return rediscache.NewIdempotencyLedger(conn.Client(), namespace), conn.HealthCheck, nil

	default:
		return nil, nil, domainerror.NewLedgerError(
			domainerror.ErrCodeUnknownLedgerBackend,
			fmt.Sprintf("unknown ledger backend %q", cfg.Ledger.Backend),
			domainerror.ErrUnknownLedgerBackend,
		)
	}
}

func ledgerUnavailable(err error) error {
	return domainerror.NewLedgerError(domainerror.ErrCodeLedgerUnavailable, "failed to open idempotency ledger", err)
}

// newHandlers builds the effect fan-out: log always, e-mail when enabled.
func newHandlers(cfg *config.Config, opts Options) (adapter.EffectHandlers, error) {
	if opts.Handlers != nil {
		return opts.Handlers, nil
	}

	handlers := []adapter.EffectHandlers{effects.NewLogHandlers(slog.Default())}
	if cfg.Email.Enabled {
		if cfg.Email.RecipientEmail == "" {
			return nil, domainerror.NewEmailError(
				domainerror.ErrCodeMissingRecipient,
				"celebration email is enabled without a recipient",
				domainerror.ErrMissingRecipient,
			)
		}

		renderer, err := templates.NewRenderer()
		if err != nil {
			return nil, domainerror.NewEmailError(domainerror.ErrCodeTemplateRenderFailed, "failed to load email templates", err)
		}

		sender := opts.Sender
		if sender == nil {
			sender = email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
		}

		handlers = append(handlers, effects.NewEmailHandlers(sender, renderer, effects.EmailConfig{
			RecipientEmail: cfg.Email.RecipientEmail,
			RecipientName:  cfg.Email.RecipientName,
			AppBaseURL:     cfg.Email.AppBaseURL,
		}))
		slog.Info("Celebration email enabled", "recipient", cfg.Email.RecipientEmail)
	}

	return effects.NewMulti(handlers...), nil
}

// Close releases the ledger backend connections.
func (inj *Injector) Close() error {
	var errs []error
	for i := len(inj.closers) - 1; i >= 0; i-- {
		if err := inj.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	inj.closers = nil
	return errors.Join(errs...)
}
