// Package cache provides a small in-process TTL cache for rendered entry
// views, so repeated filter requests for the same day and query do not
// recompute the projection.
package cache

import (
	"log/slog"
	"time"
)

// Cache is a generic key/value cache.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Cleaner is implemented by caches that can drop expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically sweeps expired entries out of registered caches.
type Janitor struct {
	caches []Cleaner
	stop   chan struct{}
	done   chan struct{}
}

func NewJanitor() *Janitor {
	return &Janitor{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (j *Janitor) Register(c Cleaner) {
	j.caches = append(j.caches, c)
}

func (j *Janitor) Start(interval time.Duration) {
	go j.run(interval)
}

func (j *Janitor) run(interval time.Duration) {
	defer close(j.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleaned := 0
			for _, c := range j.caches {
				cleaned += c.CleanExpired()
			}
			if cleaned > 0 {
				slog.Debug("Cache sweep", "component", "cache", "removed", cleaned)
			}
		case <-j.stop:
			return
		}
	}
}

// Stop halts the sweep goroutine and waits for it to exit.
func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
}
