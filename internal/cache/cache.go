// Package cache provides the in-process caches that sit in front of
// collaborator fetches. Entries expire on a TTL and the least recently
// used ones are evicted under size pressure.
package cache

import "time"

// Cleaner is any cache whose expired entries can be swept.
type Cleaner interface {
	CleanExpired() int
}

// Manager owns the periodic sweep across every registered cache.
type Manager struct {
	caches []Cleaner
	stop   chan struct{}
	done   chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Register must be called before StartCleanup; the cache list is not
// guarded by a lock.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

func (m *Manager) StartCleanup(interval time.Duration) {
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, c := range m.caches {
					c.CleanExpired()
				}
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop halts the sweep and waits for it to exit.
func (m *Manager) Stop() {
	close(m.stop)
	<-m.done
}
