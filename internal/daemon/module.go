package daemon

import (
	"context"
	"path/filepath"

	"github.com/matheus3301/knock/internal/api"
	"github.com/matheus3301/knock/internal/bus"
	"github.com/matheus3301/knock/internal/config"
	"github.com/matheus3301/knock/internal/deeplink"
	"github.com/matheus3301/knock/internal/delivery"
	"github.com/matheus3301/knock/internal/lock"
	"github.com/matheus3301/knock/internal/logging"
	"github.com/matheus3301/knock/internal/profile"
	"github.com/matheus3301/knock/internal/reveal"
	"github.com/matheus3301/knock/internal/scheduler"
	"github.com/matheus3301/knock/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	Profile    string
	Config     *config.Config
	Dir        string // optional override for testing; empty = profile.Dir
	SocketPath string // optional override for testing; empty = use default
	Logger     *zap.Logger
}

func (p Params) dir() string {
	if p.Dir != "" {
		return p.Dir
	}
	return profile.Dir(p.Profile)
}

// Module returns the fx module for the daemon, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	if p.Config == nil {
		p.Config = config.Default()
	}
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideLock,
			provideKV,
			provideLoopback,
			provideScheduler,
			provideStore,
			provideReveal,
			provideDispatcher,
			provideRouter,
			provideService,
			NewServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) *config.Config {
	return p.Config
}

func provideLogger(p Params) (*zap.Logger, error) {
	if p.Logger != nil {
		return p.Logger, nil
	}
	return logging.New(profile.LogPath(p.Profile), p.Profile)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	logger.Info("acquiring profile lock", zap.String("profile", p.Profile))
	l, err := lock.Acquire(p.dir())
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

// kvResult carries the backend plus its closer so shutdown can release it.
type kvResult struct {
	KV    store.KV
	Close func() error
}

// provideKV depends on the lock so no second daemon touches the data.
func provideKV(p Params, cfg *config.Config, _ *lock.Lock, logger *zap.Logger) (kvResult, error) {
	switch cfg.Storage.Backend {
	case config.BackendDiskv:
		dir := filepath.Join(p.dir(), "blobs")
		logger.Info("store initialized", zap.String("backend", config.BackendDiskv), zap.String("path", dir))
		return kvResult{KV: store.OpenDisk(dir), Close: func() error { return nil }}, nil
	default:
		dbPath := filepath.Join(p.dir(), "knock.db")
		db, err := store.Open(dbPath)
		if err != nil {
			return kvResult{}, err
		}
		result, err := db.Migrate()
		if err != nil {
			_ = db.Close()
			return kvResult{}, err
		}
		if result.Changed {
			logger.Info("migrations applied", zap.Uint("version", result.Version))
		} else {
			logger.Info("migrations up to date", zap.Uint("version", result.Version))
		}
		logger.Info("store initialized", zap.String("backend", config.BackendSQLite), zap.String("path", dbPath))
		return kvResult{KV: db, Close: db.Close}, nil
	}
}

func provideLoopback(cfg *config.Config, b *bus.Bus, logger *zap.Logger) *scheduler.Loopback {
	return scheduler.NewLoopback(b, logger, cfg.Scheduler.PollInterval())
}

func provideScheduler(lb *scheduler.Loopback, b *bus.Bus, logger *zap.Logger) *scheduler.Scheduler {
	return scheduler.New(lb, b, logger)
}

func provideStore(kv kvResult, sched *scheduler.Scheduler, b *bus.Bus, logger *zap.Logger) *store.Store {
	return store.New(kv.KV, sched, b, logger)
}

func provideReveal(cfg *config.Config, st *store.Store, b *bus.Bus, logger *zap.Logger) *reveal.Machine {
	return reveal.NewMachine(st, b, logger, reveal.Options{
		Threshold:    cfg.Reveal.TapThreshold,
		DismissAfter: cfg.Reveal.DismissAfter(),
	})
}

func provideDispatcher(st *store.Store, m *reveal.Machine, b *bus.Bus, logger *zap.Logger) *delivery.Dispatcher {
	return delivery.NewDispatcher(delivery.NewHandler(st, m, b, logger), st, b, logger)
}

func provideRouter(cfg *config.Config, st *store.Store, m *reveal.Machine, logger *zap.Logger) *deeplink.Router {
	return deeplink.NewRouter(cfg.Links.Scheme, st, m, logger)
}

func provideService(
	p Params,
	cfg *config.Config,
	st *store.Store,
	sched *scheduler.Scheduler,
	d *delivery.Dispatcher,
	m *reveal.Machine,
	r *deeplink.Router,
	b *bus.Bus,
	logger *zap.Logger,
) *api.Service {
	return api.NewService(p.Profile, cfg, st, sched, d, m, r, b, logger)
}

func registerLifecycle(
	lc fx.Lifecycle,
	srv *Server,
	lk *lock.Lock,
	kv kvResult,
	st *store.Store,
	lb *scheduler.Loopback,
	d *delivery.Dispatcher,
	m *reveal.Machine,
	logger *zap.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := st.Load(); err != nil {
				return err
			}

			// Start the dispatcher before any trigger can fire.
			d.Start(context.Background())
			lb.Start(context.Background())

			n := st.Rearm(ctx)
			logger.Info("triggers re-armed", zap.Int("count", n))

			// Start gRPC server in background.
			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("gRPC server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			srv.Stop(ctx)
			lb.Stop()
			d.Stop()
			m.Stop()
			if err := kv.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			return nil
		},
	})
}
