package tabsession

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"pkt.systems/pslog"
	"pkt.systems/tabsession/core"
	"pkt.systems/tabsession/internal/appconfig"
	"pkt.systems/tabsession/internal/eventbus"
	"pkt.systems/tabsession/internal/logx"
	"pkt.systems/tabsession/internal/metrics"
	"pkt.systems/tabsession/internal/persist"
	"pkt.systems/tabsession/schema"
)

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend    string
	Dir        string
	Key        string
	SQLitePath string
}

// Config configures a session.
type Config struct {
	Engine schema.EngineConfig
	Store  StoreConfig
}

// ConfigFromApp maps the application config onto a session config.
func ConfigFromApp(cfg appconfig.Config) (Config, error) {
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Engine: engineCfg,
		Store: StoreConfig{
			Backend:    cfg.Store.Backend,
			Dir:        cfg.StateDir,
			Key:        cfg.Store.Key,
			SQLitePath: cfg.Store.SQLitePath,
		},
	}, nil
}

// Deps captures optional dependencies. A non-nil Gateway overrides Store.
type Deps struct {
	Logger    pslog.Logger
	Clock     core.Clock
	Gateway   persist.Gateway
	EventSink core.EventSink
}

// Option toggles session components.
type Option func(*options)

type options struct {
	enableBus  bool
	registerer prometheus.Registerer
}

// WithEventBus enables the channel event bus.
func WithEventBus() Option {
	return func(o *options) { o.enableBus = true }
}

// WithMetrics registers prometheus metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		o.registerer = reg
	}
}

// Session bundles an engine with its gateway and event consumers.
type Session struct {
	Engine  *core.Engine
	Bus     *eventbus.Bus
	Metrics *metrics.Collector

	backend string
	closer  io.Closer
	logger  pslog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Open builds the gateway, event consumers, and engine. The session is not
// hydrated until Start or Hydrate is called.
func Open(cfg Config, deps Deps, opts ...Option) (*Session, error) {
	options := options{}
	for _, opt := range opts {
		opt(&options)
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}

	gateway := deps.Gateway
	backend := "custom"
	var closer io.Closer
	if gateway == nil {
		var err error
		backend = normalizeBackend(cfg.Store.Backend)
		gateway, closer, err = OpenGateway(cfg.Store, logger)
		if err != nil {
			return nil, err
		}
	}
	log := logx.WithBackend(logger, backend)

	s := &Session{backend: backend, closer: closer, logger: log}
	var sinks []core.EventSink
	if deps.EventSink != nil {
		sinks = append(sinks, deps.EventSink)
	}
	if options.enableBus {
		s.Bus = eventbus.New(log)
		sinks = append(sinks, s.Bus)
	}
	if options.registerer != nil {
		s.Metrics = metrics.NewCollector(options.registerer)
		sinks = append(sinks, s.Metrics)
	}

	engine, err := core.NewEngine(cfg.Engine, core.EngineDeps{
		Gateway:   gateway,
		Clock:     deps.Clock,
		EventSink: combineSinks(sinks...),
		Logger:    log,
	})
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	s.Engine = engine
	log.Debug("session open", "bus", s.Bus != nil, "metrics", s.Metrics != nil)
	return s, nil
}

// OpenGateway constructs the persistence gateway for store. The returned
// closer is nil when the backend holds no resources.
func OpenGateway(store StoreConfig, logger pslog.Logger) (persist.Gateway, io.Closer, error) {
	key := strings.TrimSpace(store.Key)
	if key == "" {
		key = persist.DefaultKey
	}
	switch normalizeBackend(store.Backend) {
	case appconfig.BackendFile:
		fs, err := persist.NewFileStoreWithLogger(store.Dir, key, logger)
		if err != nil {
			return nil, nil, err
		}
		return fs, nil, nil
	case appconfig.BackendSQLite:
		db, err := persist.NewSQLiteStore(store.SQLitePath, key, logger)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case appconfig.BackendMemory:
		return persist.NewMemoryStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w %q", schema.ErrUnknownBackend, store.Backend)
	}
}

func normalizeBackend(backend string) string {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" {
		return appconfig.BackendFile
	}
	return backend
}

// Backend returns the name of the persistence backend in use.
func (s *Session) Backend() string {
	return s.backend
}

// Start begins the asynchronous startup load.
func (s *Session) Start(ctx context.Context) {
	s.Engine.Start(ctx)
}

// Hydrate loads the stored session and waits until the engine is ready.
func (s *Session) Hydrate(ctx context.Context) error {
	return s.Engine.Hydrate(ctx)
}

// Close stops the engine, flushing pending saves, and releases the gateway.
func (s *Session) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		err := s.Engine.Close(ctx)
		if s.closer != nil {
			if cerr := s.closer.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}
		if err != nil {
			s.logger.Warn("session close failed", "err", err)
		} else {
			s.logger.Debug("session closed")
		}
		s.closeErr = err
	})
	return s.closeErr
}
