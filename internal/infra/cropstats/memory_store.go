package cropstats

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
)

// MemoryStore counts recommendations in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	counts map[crop.Crop]int64
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[crop.Crop]int64)}
}

// Increment implements crop.StatsStore.
func (s *MemoryStore) Increment(_ context.Context, c crop.Crop) error {
	if !c.Valid() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[c]++
	return nil
}

// Top returns the most recommended crops; ties are broken by model index.
func (s *MemoryStore) Top(_ context.Context, limit int) ([]crop.CropCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]crop.CropCount, 0, len(s.counts))
	for c, count := range s.counts {
		items = append(items, crop.CropCount{Crop: c, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Crop < items[j].Crop
		}
		return items[i].Count > items[j].Count
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var _ crop.StatsStore = (*MemoryStore)(nil)
