package tabular

import (
	"sync"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Releasable is any resource backed by Arrow buffers that must be released
// when no longer used. DataFrame, Series, and everything they derive
// implement it.
type Releasable interface {
	Release()
}

// MemoryManager tracks resources for bulk release. Alignment and pipeline
// runs hand back several frames at once; tracking them beats a ladder of
// defers when their lifetimes end together. Safe for concurrent use.
type MemoryManager struct {
	mem       memory.Allocator
	resources []Releasable
	mu        sync.Mutex
}

// NewMemoryManager creates a manager around the given allocator. Nil means
// memory.DefaultAllocator.
func NewMemoryManager(mem memory.Allocator) *MemoryManager {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return &MemoryManager{mem: mem}
}

// Allocator returns the allocator tracked resources should be built with.
func (m *MemoryManager) Allocator() memory.Allocator { return m.mem }

// Track registers a resource for release. Nil resources are ignored.
func (m *MemoryManager) Track(r Releasable) {
	if r == nil {
		return
	}
	m.mu.Lock()
	m.resources = append(m.resources, r)
	m.mu.Unlock()
}

// TrackFrames registers every frame of a slice, as alignment returns them,
// and hands the slice back for chaining.
func (m *MemoryManager) TrackFrames(frames []*DataFrame) []*DataFrame {
	for _, f := range frames {
		if f != nil {
			m.Track(f)
		}
	}
	return frames
}

// Count returns the number of tracked resources.
func (m *MemoryManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.resources)
}

// ReleaseAll releases tracked resources in reverse tracking order, so
// derived frames go before the frames they were built from, then clears
// the list.
func (m *MemoryManager) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.resources) - 1; i >= 0; i-- {
		m.resources[i].Release()
	}
	m.resources = m.resources[:0]
}

// WithMemoryManager runs fn with a fresh manager and releases everything it
// tracked afterwards, error or not.
func WithMemoryManager(mem memory.Allocator, fn func(*MemoryManager) error) error {
	m := NewMemoryManager(mem)
	defer m.ReleaseAll()
	return fn(m)
}
