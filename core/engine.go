package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/tabsession/internal/logx"
	"pkt.systems/tabsession/internal/persist"
	"pkt.systems/tabsession/schema"
)

// Listener observes committed states. States are shared and must not be modified.
type Listener func(state *schema.SessionState)

// Engine owns one session state and serializes every transition.
type Engine struct {
	cfg     schema.EngineConfig
	limits  limits
	clock   Clock
	tabs    *TabFactory
	gateway persist.Gateway
	sink    EventSink
	logger  pslog.Logger
	saves   *saveQueue

	mu           sync.Mutex
	state        *schema.SessionState
	listeners    map[uint64]Listener
	nextListener uint64
	started      bool
	cancelLoad   context.CancelFunc

	ready     chan struct{}
	readyOnce sync.Once
	closed    atomic.Bool
	loaders   sync.WaitGroup
}

// NewEngine constructs an engine holding a default state with one home tab.
func NewEngine(cfg schema.EngineConfig, deps EngineDeps) (*Engine, error) {
	normalized, err := schema.NormalizeEngineConfig(cfg)
	if err != nil {
		return nil, err
	}
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock
	}
	tabs := deps.Tabs
	if tabs == nil {
		tabs = NewTabFactory(clock)
	}
	gateway := deps.Gateway
	if gateway == nil {
		gateway = persist.NewMemoryStore()
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	e := &Engine{
		cfg:       normalized,
		limits:    limitsFromConfig(normalized),
		clock:     clock,
		tabs:      tabs,
		gateway:   gateway,
		sink:      deps.EventSink,
		logger:    logger,
		listeners: make(map[uint64]Listener),
		ready:     make(chan struct{}),
	}
	e.state = newSessionState(tabs.Create(TabOptions{}), clock.millis())
	e.saves = newSaveQueue(e.persistState)
	return e, nil
}

// Tabs returns the factory the engine builds tabs with.
func (e *Engine) Tabs() *TabFactory {
	return e.tabs
}

// Start loads the stored snapshot in the background. Ready is closed once the
// load has been applied or the default state has been marked ready.
func (e *Engine) Start(ctx context.Context) {
	loadCtx, ok := e.beginLoad(ctx)
	if !ok {
		return
	}
	e.loaders.Add(1)
	go func() {
		defer e.loaders.Done()
		e.load(loadCtx)
	}()
}

// Hydrate loads the stored snapshot and returns once it has been applied.
func (e *Engine) Hydrate(ctx context.Context) error {
	loadCtx, ok := e.beginLoad(ctx)
	if ok {
		e.load(loadCtx)
	}
	select {
	case <-e.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) beginLoad(ctx context.Context) (context.Context, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.closed.Load() {
		return nil, false
	}
	e.started = true
	loadCtx, cancel := context.WithCancel(ctx)
	e.cancelLoad = cancel
	return loadCtx, true
}

// Ready is closed once the startup load decision has been dispatched.
func (e *Engine) Ready() <-chan struct{} {
	return e.ready
}

func (e *Engine) load(ctx context.Context) {
	log := e.logger
	started := time.Now()
	data, found, err := e.gateway.Load(ctx)
	e.emitPersist(schema.PersistEvent{
		Op:       schema.PersistLoad,
		Bytes:    len(data),
		Found:    found,
		Err:      err,
		Duration: time.Since(started),
		At:       e.clock.now(),
	})
	if e.closed.Load() {
		log.Debug("engine load dropped after close")
		return
	}
	if err != nil {
		log.Warn("engine load failed", "err", err)
		e.dispatch(sessionReady{})
		return
	}
	if !found {
		log.Debug("engine load miss")
		e.dispatch(sessionReady{})
		return
	}
	snapshot, err := persist.Decode(data)
	if err != nil {
		if errors.Is(err, schema.ErrSnapshotVersion) {
			log.Warn("engine snapshot discarded", "reason", "version", "err", err)
		} else {
			log.Warn("engine snapshot discarded", "reason", "malformed", "err", err)
		}
		e.dispatch(sessionReady{})
		return
	}
	state := snapshot.State
	settings := schema.DefaultSessionSettings().Apply(state.Settings)
	if !settings.RestoreSession {
		state.Tabs = nil
		state.ActiveTabID = ""
		state.RecentlyClosed = nil
		log.Debug("engine restore disabled", "saved_at", snapshot.SavedAt)
	}
	e.dispatch(rehydrate{snapshot: state, fallback: e.tabs.Create(TabOptions{})})
	current := e.current()
	log.Info("engine session restored", "tabs", len(current.Tabs), "groups", len(current.TabGroups), "saved_at", snapshot.SavedAt)
}

// Subscribe registers fn for every committed state change and returns a
// function that removes it.
func (e *Engine) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	e.mu.Lock()
	e.nextListener++
	id := e.nextListener
	e.listeners[id] = fn
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// State returns a deep copy of the current state.
func (e *Engine) State() *schema.SessionState {
	return e.current().Clone()
}

func (e *Engine) current() *schema.SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) dispatch(act action) bool {
	return e.dispatchWith(func(*schema.SessionState) action { return act })
}

// dispatchWith builds the action from the current state under the engine lock.
func (e *Engine) dispatchWith(build func(state *schema.SessionState) action) bool {
	e.mu.Lock()
	prev := e.state
	act := build(prev)
	if act == nil {
		e.mu.Unlock()
		return false
	}
	next := reduceWithLimits(prev, act, e.clock, e.limits)
	changed := next != prev
	var listeners []Listener
	if changed {
		e.state = next
		listeners = make([]Listener, 0, len(e.listeners))
		for _, fn := range e.listeners {
			listeners = append(listeners, fn)
		}
		if next.Hydrated {
			e.saves.Submit(next)
		}
	}
	e.mu.Unlock()

	kind := act.kind()
	logx.WithAction(e.logger, kind).Trace("engine dispatch", "tab", actionTabID(act), "changed", changed)
	if kind == schema.StateRehydrate || kind == schema.StateSessionReady {
		e.readyOnce.Do(func() { close(e.ready) })
	}
	if e.sink != nil {
		e.sink.OnStateEvent(schema.StateEvent{
			Kind:        kind,
			TabID:       actionTabID(act),
			Changed:     changed,
			TabCount:    len(next.Tabs),
			ActiveTabID: next.ActiveTabID,
			At:          e.clock.now(),
		})
	}
	for _, fn := range listeners {
		fn(next)
	}
	return changed
}

func (e *Engine) persistState(state *schema.SessionState) {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.SaveTimeout)
	defer cancel()
	started := time.Now()
	data, err := persist.Encode(Snapshot(state, e.clock))
	if err == nil {
		err = e.gateway.Save(ctx, data)
	}
	e.emitPersist(schema.PersistEvent{
		Op:       schema.PersistSave,
		Bytes:    len(data),
		Err:      err,
		Duration: time.Since(started),
		At:       e.clock.now(),
	})
	if err != nil {
		if e.closed.Load() {
			return
		}
		e.logger.Warn("engine save failed", "err", err)
		return
	}
	e.logger.Trace("engine save ok", "bytes", len(data), "tabs", len(state.Tabs))
}

// Clear removes the stored snapshot. The in-memory session is unaffected.
func (e *Engine) Clear(ctx context.Context) error {
	started := time.Now()
	err := e.gateway.Clear(ctx)
	e.emitPersist(schema.PersistEvent{
		Op:       schema.PersistClear,
		Err:      err,
		Duration: time.Since(started),
		At:       e.clock.now(),
	})
	if err != nil {
		e.logger.Warn("engine clear failed", "err", err)
	}
	return err
}

func (e *Engine) emitPersist(event schema.PersistEvent) {
	if e.sink != nil {
		e.sink.OnPersistEvent(event)
	}
}

// Flush waits for queued saves to complete.
func (e *Engine) Flush(ctx context.Context) error {
	return e.saves.Flush(ctx)
}

// Close stops the background load, drains queued saves and drops later ones.
// With ClearOnExit set the stored snapshot is removed afterwards.
func (e *Engine) Close(ctx context.Context) error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	e.mu.Lock()
	cancel := e.cancelLoad
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	e.loaders.Wait()
	e.saves.Close()
	if err := e.saves.Flush(ctx); err != nil {
		return err
	}
	if e.current().Settings.ClearOnExit {
		return e.Clear(ctx)
	}
	return nil
}
