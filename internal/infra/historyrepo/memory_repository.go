package historyrepo

import (
	"context"
	"sync"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
)

const defaultCapacity = 1000

// MemoryRepository keeps the newest audit records in a bounded ring.
type MemoryRepository struct {
	mu       sync.RWMutex
	capacity int
	records  []crop.Record
	next     int
	full     bool
}

// NewMemoryRepository constructs a repo that retains at most capacity records.
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &MemoryRepository{
		capacity: capacity,
		records:  make([]crop.Record, capacity),
	}
}

// Append implements crop.HistoryRepository.
func (r *MemoryRepository) Append(_ context.Context, record crop.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[r.next] = record
	r.next = (r.next + 1) % r.capacity
	if r.next == 0 {
		r.full = true
	}
	return nil
}

// Latest returns up to limit records, newest first.
func (r *MemoryRepository) Latest(_ context.Context, limit int) ([]crop.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	size := r.next
	if r.full {
		size = r.capacity
	}
	if limit <= 0 || limit > size {
		limit = size
	}
	out := make([]crop.Record, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (r.next - 1 - i + r.capacity) % r.capacity
		out = append(out, r.records[idx])
	}
	return out, nil
}

var _ crop.HistoryRepository = (*MemoryRepository)(nil)
