package deposit

import (
	"path/filepath"
	"sync"
	"time"
)

// dirLocks hands out one mutex per normalized destination directory. The
// map only grows, and only for the lifetime of one Depositor.
type dirLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDirLocks() *dirLocks {
	return &dirLocks{locks: map[string]*sync.Mutex{}}
}

func (d *dirLocks) get(dir string) *sync.Mutex {
	key := filepath.Clean(dir)

	d.mu.Lock()
	defer d.mu.Unlock()
	m := d.locks[key]
	if m == nil {
		m = &sync.Mutex{}
		d.locks[key] = m
	}
	return m
}

// albumTimes tracks the earliest capture time seen per album directory.
// Safe for concurrent merges to the same or different keys.
type albumTimes struct {
	mu    sync.Mutex
	times map[string]time.Time
}

func newAlbumTimes() *albumTimes {
	return &albumTimes{times: map[string]time.Time{}}
}

func (a *albumTimes) merge(dir string, t time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if cur, ok := a.times[dir]; !ok || t.Before(cur) {
		a.times[dir] = t
	}
}

func (a *albumTimes) snapshot() map[string]time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]time.Time, len(a.times))
	for k, v := range a.times {
		out[k] = v
	}
	return out
}
