package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/storage"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultIdleTimeout is how long an untouched session stays in memory.
	DefaultIdleTimeout = 30 * time.Minute

	// DefaultSweepInterval is how often idle sessions are evicted.
	DefaultSweepInterval = time.Minute

	// DefaultHydrateTimeout bounds the storage reads of a first access.
	DefaultHydrateTimeout = 5 * time.Second
)

// ErrUnavailable reports that a session's state could not be read.
var ErrUnavailable = errors.New("session state unavailable")

type Config struct {
	IdleTimeout    time.Duration
	SweepInterval  time.Duration
	PersistTimeout time.Duration
	HydrateTimeout time.Duration
}

type entry struct {
	store    *store.CommerceStore
	lastUsed time.Time
}

// Manager hands out one CommerceStore per session id. Evicted sessions keep
// their state in storage and are hydrated again on next access.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	sfg      singleflight.Group

	storage storage.Storage
	cfg     Config
	log     *zap.Logger
	now     func() time.Time

	stopSweep chan struct{}
	wg        sync.WaitGroup
}

func NewManager(st storage.Storage, cfg Config, log *zap.Logger) *Manager {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.HydrateTimeout <= 0 {
		cfg.HydrateTimeout = DefaultHydrateTimeout
	}

	m := &Manager{
		sessions:  make(map[string]*entry),
		storage:   st,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		stopSweep: make(chan struct{}),
	}

	m.wg.Add(1)
	go m.sweepLoop()

	return m
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the store for id, hydrating it from storage on first use.
// Hydration is detached from ctx so that a caller going away cannot cut the
// read short. A failed read is returned and nothing is cached, so the next
// access tries again instead of persisting over state it never loaded.
func (m *Manager) Get(ctx context.Context, id string) (*store.CommerceStore, error) {
	if s := m.touch(id); s != nil {
		return s, nil
	}

	v, err, _ := m.sfg.Do(id, func() (interface{}, error) {
		if s := m.touch(id); s != nil {
			return s, nil
		}

		hydrateCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.HydrateTimeout)
		defer cancel()

		opts := []store.Option{store.WithLogger(m.log.With(zap.String("session_id", id)))}
		if m.cfg.PersistTimeout > 0 {
			opts = append(opts, store.WithPersistTimeout(m.cfg.PersistTimeout))
		}
		s, err := store.Open(hydrateCtx, storage.Scope(m.storage, "session:"+id), opts...)
		if err != nil {
			m.log.Warn("session hydration failed", zap.String("session_id", id), zap.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		m.mu.Lock()
		m.sessions[id] = &entry{store: s, lastUsed: m.now()}
		m.mu.Unlock()

		m.log.Debug("session hydrated", zap.String("session_id", id))
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*store.CommerceStore), nil
}

func (m *Manager) touch(id string) *store.CommerceStore {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil
	}
	e.lastUsed = m.now()
	return e.store
}

// Len returns the number of sessions held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) sweepLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle()
		case <-m.stopSweep:
			return
		}
	}
}

func (m *Manager) evictIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.cfg.IdleTimeout)
	for id, e := range m.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(m.sessions, id)
			m.log.Debug("session evicted", zap.String("session_id", id))
		}
	}
}

// Close stops the sweeper and waits for it to finish. The underlying
// storage is left open.
func (m *Manager) Close() error {
	close(m.stopSweep)
	m.wg.Wait()
	return nil
}
