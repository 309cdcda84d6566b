package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Cleaner is a cache that can drop its expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager periodically expires the entries of registered caches.
type Manager struct {
	logger  *slog.Logger
	caches  []Cleaner
	stop    chan struct{}
	done    chan struct{}
	started bool
	stopped sync.Once
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger: logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (m *Manager) Register(c ...Cleaner) {
	m.caches = append(m.caches, c...)
}

// Start runs the cleanup loop until Stop. Register every cache before Start.
func (m *Manager) Start(interval time.Duration) {
	m.started = true
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := m.CleanNow(); n > 0 {
					m.logger.Debug("Expired cache entries removed", "count", n)
				}
			case <-m.stop:
				return
			}
		}
	}()
}

// CleanNow expires every registered cache once.
func (m *Manager) CleanNow() int {
	total := 0
	for _, c := range m.caches {
		total += c.CleanExpired()
	}
	return total
}

// Stop ends the cleanup loop started by Start.
func (m *Manager) Stop() {
	m.stopped.Do(func() {
		close(m.stop)
		if m.started {
			<-m.done
		}
	})
}
