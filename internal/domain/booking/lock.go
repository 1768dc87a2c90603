package booking

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ResourceLocker serializes check-then-write sequences per resource inside
// one process. The database exclusion constraint remains the authority
// across processes; this keeps a single instance from ever tripping it.
type ResourceLocker struct {
	mu sync.Map // uuid.UUID -> *sync.Mutex
}

func NewResourceLocker() *ResourceLocker {
	return &ResourceLocker{}
}

func (l *ResourceLocker) mutexFor(id uuid.UUID) *sync.Mutex {
	if m, ok := l.mu.Load(id); ok {
		return m.(*sync.Mutex)
	}
	m, _ := l.mu.LoadOrStore(id, &sync.Mutex{})
	return m.(*sync.Mutex)
}

// Lock acquires the mutexes for the given resources in a deterministic
// order so that two-resource updates cannot deadlock. Duplicate ids are
// collapsed. The returned func releases in reverse order.
func (l *ResourceLocker) Lock(ids ...uuid.UUID) (unlock func()) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})

	locked := make([]*sync.Mutex, 0, len(unique))
	for _, id := range unique {
		m := l.mutexFor(id)
		m.Lock()
		locked = append(locked, m)
	}

	return func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].Unlock()
		}
	}
}
