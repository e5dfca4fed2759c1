package vocab

import (
	"fmt"
	"strings"
	"sync"
)

// Process-wide cache of loaded vocabularies keyed by database file and index
// settings, so concurrent Opens of the same file share one load.
var sharedCache = struct {
	mu    sync.RWMutex
	byKey map[string]*cacheEntry
}{byKey: make(map[string]*cacheEntry)}

type cacheEntry struct {
	mu       sync.RWMutex
	snap     *snapshot
	building bool
	cond     *sync.Cond
}

func newCacheEntry() *cacheEntry {
	e := &cacheEntry{}
	e.cond = sync.NewCond(&e.mu)
	return e
}

func (e *cacheEntry) get() *snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

func (e *cacheEntry) set(s *snapshot) {
	e.mu.Lock()
	e.snap = s
	e.mu.Unlock()
}

func (e *cacheEntry) waitForBuild() *snapshot {
	e.mu.Lock()
	for e.building {
		e.cond.Wait()
	}
	s := e.snap
	e.mu.Unlock()
	return s
}

func (e *cacheEntry) startBuild() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snap != nil || e.building {
		return false
	}
	e.building = true
	return true
}

func (e *cacheEntry) finishBuild() {
	e.mu.Lock()
	e.building = false
	e.cond.Broadcast()
	e.mu.Unlock()
}

// cacheKey separates snapshots of one file built with different index
// settings; invalidateCache drops them all by the path prefix.
func cacheKey(dbPath string, o options) string {
	return fmt.Sprintf("%s|%s|%g|%s", dbPath, o.kind, o.coverBase, o.coverMetric)
}

func getCacheEntry(key string) *cacheEntry {
	sharedCache.mu.RLock()
	entry := sharedCache.byKey[key]
	sharedCache.mu.RUnlock()
	if entry != nil {
		return entry
	}
	sharedCache.mu.Lock()
	defer sharedCache.mu.Unlock()
	if entry = sharedCache.byKey[key]; entry == nil {
		entry = newCacheEntry()
		sharedCache.byKey[key] = entry
	}
	return entry
}

// invalidateCache drops every cached vocabulary loaded from dbPath and
// returns how many entries were removed. Models already handed out keep
// their snapshot.
func invalidateCache(dbPath string) int {
	if dbPath == "" {
		return 0
	}
	prefix := dbPath + "|"
	sharedCache.mu.Lock()
	defer sharedCache.mu.Unlock()
	removed := 0
	for key := range sharedCache.byKey {
		if strings.HasPrefix(key, prefix) {
			delete(sharedCache.byKey, key)
			removed++
		}
	}
	return removed
}

// loadShared returns the cached snapshot for key or builds it exactly once
// across concurrent callers. A failed build is not cached.
func loadShared(key string, build func() (*snapshot, error)) (*snapshot, error) {
	entry := getCacheEntry(key)
	if s := entry.get(); s != nil {
		return s, nil
	}
	for {
		if s := entry.get(); s != nil {
			return s, nil
		}
		if entry.startBuild() {
			break
		}
		if s := entry.waitForBuild(); s != nil {
			return s, nil
		}
	}
	defer entry.finishBuild()
	s, err := build()
	if err != nil {
		return nil, err
	}
	entry.set(s)
	return s, nil
}
