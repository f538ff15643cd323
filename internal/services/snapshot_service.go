package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"bilancio/internal/analytics"
	"bilancio/internal/cache"
)

// SnapshotService computes dashboard snapshots and memoizes them per
// (owner, granularity, reference date). Entries are dropped by TTL and by an
// owner version counter that is bumped on every write, so a stale snapshot is
// never served after a change event.
type SnapshotService struct {
	repo    Repository
	cache   *cache.LRUCache[analytics.Snapshot]
	manager *cache.Manager
	nowFn   func() time.Time

	mu       sync.Mutex
	versions map[string]uint64
}

func NewSnapshotService(repo Repository, cacheSize int, cacheTTL time.Duration) *SnapshotService {
	snapshots := cache.NewLRUCache[analytics.Snapshot](cacheSize, cacheTTL)
	manager := cache.NewManager()
	manager.Register(snapshots)
	return &SnapshotService{
		repo:     repo,
		cache:    snapshots,
		manager:  manager,
		nowFn:    time.Now,
		versions: make(map[string]uint64),
	}
}

// StartCleanup begins periodic expiry cleanup of the snapshot cache.
func (s *SnapshotService) StartCleanup(interval time.Duration) {
	s.manager.StartCleanup(interval)
}

// StopCleanup stops the cleanup routine started by StartCleanup.
func (s *SnapshotService) StopCleanup() {
	s.manager.Stop()
}

// Dashboard builds (or returns the memoized) snapshot for one owner and window.
func (s *SnapshotService) Dashboard(ctx context.Context, ownerID string, g analytics.Granularity, reference time.Time) (analytics.Snapshot, error) {
	key := s.cacheKey(ownerID, g, reference)
	if snap, ok := s.cache.Get(key); ok {
		return snap, nil
	}

	transactions, err := s.repo.ListTransactions(ctx, ownerID)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("load transactions: %w", err)
	}
	budgets, err := s.repo.ListBudgets(ctx, ownerID)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("load budgets: %w", err)
	}
	goals, err := s.repo.ListGoals(ctx, ownerID)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("load goals: %w", err)
	}

	snap := analytics.BuildSnapshot(transactions, budgets, goals, g, reference, s.nowFn())
	s.cache.Set(key, snap)
	return snap, nil
}

// Invalidate drops all memoized snapshots for an owner by bumping the owner's
// version; superseded entries age out of the LRU.
func (s *SnapshotService) Invalidate(ownerID string) {
	s.mu.Lock()
	s.versions[ownerID]++
	s.mu.Unlock()
}

func (s *SnapshotService) cacheKey(ownerID string, g analytics.Granularity, reference time.Time) string {
	s.mu.Lock()
	version := s.versions[ownerID]
	s.mu.Unlock()
	return ownerID + "|" + strconv.FormatUint(version, 10) + "|" + string(g) + "|" + reference.UTC().Format("2006-01-02")
}
