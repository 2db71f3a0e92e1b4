package freshcache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unqo/freshcache/event"
	"github.com/unqo/freshcache/refresh"
	"github.com/unqo/freshcache/store"
)

const defaultChannelPrefix = "freshcache:"

// ManagerOptions configure the process-wide cache runtime.
type ManagerOptions struct {
	// Store is the shared backing store. Required.
	Store store.Store

	// PubSub enables cross-process change notification. nil keeps events
	// local to this process.
	PubSub store.PubSub

	// CloseStore makes Manager.Close also close the store. Set it only if
	// the manager exclusively owns the store.
	CloseStore bool

	Logger Logger // nil => NopLogger

	// Defaults that per-cache Options fall back to.
	CacheNull     bool
	Compress      bool
	DefaultTTL    time.Duration  // 0 => no expiry
	RefreshPolicy refresh.Policy // nil => refresh.Disabled

	// Sizing of the shared background refresh pool.
	RefreshWorkers int // 0 => 4
	RefreshQueue   int // 0 => 256

	// ChannelPrefix namespaces pub/sub topics; topic = prefix + cache name.
	ChannelPrefix string // "" => "freshcache:"
}

// cacheHandle is the manager's non-generic view of a registered cache.
type cacheHandle interface {
	dropLocal(key string)
	closeLocal()
}

// Manager owns the shared collaborators of every cache in the process: the
// backing store, the refresh executor, the change notifier and the option
// defaults. Construct it at startup, pass it to New for each cache, and
// Close it at shutdown.
type Manager struct {
	store      store.Store
	ps         store.PubSub
	log        Logger
	exec       *refresh.Executor
	policy     refresh.Policy
	cacheNull  bool
	compress   bool
	defaultTTL time.Duration
	prefix     string
	origin     string
	closeStore bool

	mu        sync.RWMutex
	caches    map[string]cacheHandle
	listeners []event.Listener

	stopSub   func() error
	closeOnce sync.Once
	closeErr  error
}

func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Store == nil {
		return nil, ErrStoreRequired
	}
	m := &Manager{
		store:      opts.Store,
		log:        coalesce[Logger](opts.Logger, NopLogger{}),
		cacheNull:  opts.CacheNull,
		compress:   opts.Compress,
		defaultTTL: opts.DefaultTTL,
		prefix:     coalesce(opts.ChannelPrefix, defaultChannelPrefix),
		origin:     uuid.NewString(),
		closeStore: opts.CloseStore,
		caches:     make(map[string]cacheHandle),
	}
	if opts.RefreshPolicy != nil {
		m.policy = opts.RefreshPolicy
	} else {
		m.policy = refresh.Disabled{}
	}
	m.exec = refresh.NewExecutor(opts.RefreshWorkers, opts.RefreshQueue)

	if opts.PubSub != nil {
		stop, err := opts.PubSub.Subscribe(context.Background(), m.prefix+"*", m.onRemote)
		if err != nil {
			_ = m.exec.Close(context.Background())
			return nil, err
		}
		m.ps = opts.PubSub
		m.stopSub = stop
	}
	return m, nil
}

// Subscribe registers a listener for change events, both local ones and
// those received from other processes. Listeners must be cheap and
// non-blocking.
func (m *Manager) Subscribe(l event.Listener) {
	m.mu.Lock()
	m.listeners = append(m.listeners, l)
	m.mu.Unlock()
}

func (m *Manager) register(name string, h cacheHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.caches[name]; dup {
		return ErrDuplicateName
	}
	m.caches[name] = h
	return nil
}

// publish fans an event out to local listeners and broadcasts it over the
// pub/sub channel when configured. Best-effort: failures are logged and
// swallowed.
func (m *Manager) publish(ctx context.Context, ev event.Event) {
	ev.Origin = m.origin
	m.notifyListeners(ev)
	if m.ps == nil {
		return
	}
	payload, err := event.Encode(ev)
	if err != nil {
		m.log.Warn("encode change event failed", Fields{"cache": ev.Cache, "key": ev.Key, "err": err})
		return
	}
	if err := m.ps.Publish(ctx, m.prefix+ev.Cache, payload); err != nil {
		m.log.Warn("publish change event failed", Fields{"cache": ev.Cache, "key": ev.Key, "err": err})
	}
}

func (m *Manager) notifyListeners(ev event.Event) {
	m.mu.RLock()
	ls := make([]event.Listener, len(m.listeners))
	copy(ls, m.listeners)
	m.mu.RUnlock()
	for _, l := range ls {
		l.OnChange(ev)
	}
}

// onRemote handles an inbound pub/sub message: another process mutated an
// entry, so the matching near-cache copy here is stale.
func (m *Manager) onRemote(_ string, payload []byte) {
	ev, err := event.Decode(payload)
	if err != nil {
		m.log.Warn("bad change event payload", Fields{"err": err})
		return
	}
	if ev.Origin == m.origin {
		return // our own broadcast
	}
	m.mu.RLock()
	h := m.caches[ev.Cache]
	m.mu.RUnlock()
	if h != nil {
		h.dropLocal(ev.Key)
	}
	m.notifyListeners(ev)
}

// Close tears the runtime down: unsubscribes, drains the refresh pool
// bounded by ctx, closes every cache's near-cache, and closes the store
// when the manager owns it.
func (m *Manager) Close(ctx context.Context) error {
	m.closeOnce.Do(func() {
		if m.stopSub != nil {
			_ = m.stopSub()
		}
		m.closeErr = m.exec.Close(ctx)

		m.mu.Lock()
		handles := make([]cacheHandle, 0, len(m.caches))
		for _, h := range m.caches {
			handles = append(handles, h)
		}
		m.mu.Unlock()
		for _, h := range handles {
			h.closeLocal()
		}

		if m.closeStore {
			if err := m.store.Close(ctx); err != nil && m.closeErr == nil {
				m.closeErr = err
			}
		}
	})
	return m.closeErr
}
