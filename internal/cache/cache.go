package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Purge()
	Size() int
}

// Cleaner is implemented by caches whose entries expire.
type Cleaner interface {
	CleanExpired() int
	Purge()
}

// Manager owns a set of caches: it sweeps expired entries periodically and
// purges every cache at once when the underlying data changes.
type Manager struct {
	mu          sync.Mutex
	caches      []Cleaner
	logger      *slog.Logger
	stopCleanup chan struct{}
	cleanupDone chan struct{}
	started     bool
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// Register adds a cache to the manager
func (m *Manager) Register(cache Cleaner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caches = append(m.caches, cache)
}

// PurgeAll drops every entry of every registered cache.
func (m *Manager) PurgeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.caches {
		c.Purge()
	}
	m.logger.Debug("Caches purged", "caches", len(m.caches))
}

// StartCleanup begins periodic cleanup of all registered caches
func (m *Manager) StartCleanup(interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true
	m.stopCleanup = make(chan struct{})
	m.cleanupDone = make(chan struct{})
	go m.cleanup(interval, m.stopCleanup, m.cleanupDone)
}

func (m *Manager) cleanup(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			cleaned := 0
			for _, c := range m.caches {
				cleaned += c.CleanExpired()
			}
			m.mu.Unlock()
			if cleaned > 0 {
				m.logger.Debug("Expired cache entries removed", "count", cleaned)
			}
		case <-stop:
			return
		}
	}
}

// Stop ends the cleanup routine; safe to call when it never started.
func (m *Manager) Stop() {
	m.mu.Lock()
	started := m.started
	stop, done := m.stopCleanup, m.cleanupDone
	m.started = false
	m.mu.Unlock()
	if started {
		close(stop)
		<-done
	}
}
